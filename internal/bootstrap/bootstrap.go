package bootstrap

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	_ "github.com/eyecare/visionai/docs" // Import generated swagger docs
	appControllers "github.com/eyecare/visionai/internal/app/controllers"
	appMigrations "github.com/eyecare/visionai/internal/app/migrations"
	appRepos "github.com/eyecare/visionai/internal/app/repositories"
	appRoutes "github.com/eyecare/visionai/internal/app/routes"
	appServices "github.com/eyecare/visionai/internal/app/services"
	"github.com/eyecare/visionai/internal/config"
	"github.com/eyecare/visionai/internal/db"
	appMiddleware "github.com/eyecare/visionai/internal/middleware"
	pkgAuth "github.com/eyecare/visionai/internal/pkg/auth"
	"github.com/eyecare/visionai/internal/pkg/classifier"
	"github.com/eyecare/visionai/internal/pkg/email"
	"github.com/eyecare/visionai/internal/pkg/filestorage"
	"github.com/eyecare/visionai/internal/pkg/helpers"
	"github.com/eyecare/visionai/internal/pkg/logger"
	"github.com/eyecare/visionai/internal/seed"
)

// Dependencies holds all the application dependencies
type Dependencies struct {
	AuthService            *appServices.AuthService
	UserService            *appServices.UserService
	ScanService            *appServices.ScanService
	ConsultationService    *appServices.ConsultationService
	ContactService         *appServices.ContactService
	ArticleService         *appServices.ArticleService
	AuthController         *appControllers.AuthController
	UserController         *appControllers.UserController
	ScanController         *appControllers.ScanController
	ConsultationController *appControllers.ConsultationController
	ContactController      *appControllers.ContactController
	ArticleController      *appControllers.ArticleController
	AuthMiddleware         *appMiddleware.AuthMiddleware
	Repos                  *appRepos.Repositories
	JWTService             *pkgAuth.JWTService
	FileStorage            *filestorage.LocalStorage
	Notifier               email.Notifier
	Logger                 zerolog.Logger
}

// LoadConfigAndSetupLogger loads configuration and initializes the logger.
func LoadConfigAndSetupLogger() (*config.Config, zerolog.Logger, error) {
	configPath := filepath.Join("configs", "config.yaml")
	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		logger.Error().Err(err).Msg("Failed to load configuration")
		return nil, zerolog.Logger{}, err
	}

	logLevel := logger.LogLevel(strings.ToLower(cfg.Logging.Level))
	prettyLog := strings.ToLower(cfg.Logging.Format) == "text"

	logger.Configure(logger.Config{
		Level:  logLevel,
		Pretty: prettyLog,
	})

	lgr := log.Logger // Get the configured global logger
	lgr.Info().Str("logLevel", string(logLevel)).Str("logFormat", cfg.Logging.Format).Msg("Logger configured")
	return cfg, lgr, nil
}

// SetupDatabase establishes the database connection and runs migrations.
func SetupDatabase(cfg *config.Config, lgr zerolog.Logger) (*pgxpool.Pool, error) {
	lgr.Info().Msg("Establishing database connection...")
	database, err := db.NewPostgresDB(cfg)
	if err != nil {
		lgr.Error().Err(err).Msg("Failed to connect to database")
		return nil, err
	}
	dbPool := database.Pool

	// Test connection
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := dbPool.Ping(ctx); err != nil {
		lgr.Error().Err(err).Msg("Failed to ping database")
		dbPool.Close()
		return nil, err
	}
	lgr.Info().Msg("Database connection successfully established.")

	// Run migrations
	lgr.Info().Msg("Running database migrations...")
	migrator := appMigrations.NewMigrator(dbPool)

	migrationsDir := "migrations"
	if _, err := os.Stat(migrationsDir); os.IsNotExist(err) {
		lgr.Error().Str("path", migrationsDir).Msg("Migrations directory not found")
		return nil, fmt.Errorf("migrations directory not found at %s: %w", migrationsDir, err)
	}

	if err := migrator.MigrateFromDirectory(migrationsDir); err != nil {
		lgr.Error().Err(err).Msg("Database migration error")
		return nil, fmt.Errorf("database migrations failed: %w", err)
	}

	lgr.Info().Msg("Database migrations successfully applied.")

	// Create default data (after migrations)
	if err := seed.CreateDefaultData(context.Background(), dbPool, lgr); err != nil {
		// Log the error but don't fail the startup
		lgr.Error().Err(err).Msg("Failed to create default data, proceeding anyway...")
	}

	return dbPool, nil
}

// BuildDependencies initializes application repositories, services, and controllers.
func BuildDependencies(cfg *config.Config, dbPool *pgxpool.Pool, lgr zerolog.Logger) (*Dependencies, error) {
	deps := &Dependencies{Logger: lgr}

	deps.Repos = appRepos.NewRepositories(dbPool)

	// File storage serves uploaded scan images from the static /uploads route
	var err error
	baseURL := "http://localhost:" + cfg.Server.Port + cfg.Storage.BaseURL
	deps.FileStorage, err = filestorage.NewLocalStorage(cfg.Storage.Path, baseURL)
	if err != nil {
		lgr.Error().Err(err).Msg("Failed to initialize file storage")
		return nil, fmt.Errorf("failed to initialize file storage: %w", err)
	}

	deps.JWTService = pkgAuth.NewJWTService(pkgAuth.JWTConfig{
		SecretKey:       cfg.JWT.Secret,
		AccessTokenExp:  helpers.ParseDuration(cfg.JWT.AccessTokenExpiration, 1*time.Hour),
		RefreshTokenExp: helpers.ParseDuration(cfg.JWT.RefreshTokenExpiration, 720*time.Hour),
		TokenIssuer:     cfg.JWT.Issuer,
	})

	deps.Notifier = email.NewSMTPNotifier(email.SMTPConfig{
		Host:      cfg.Email.Host,
		Port:      cfg.Email.Port,
		Username:  cfg.Email.Username,
		Password:  cfg.Email.Password,
		FromName:  cfg.Email.FromName,
		FromEmail: cfg.Email.FromEmail,
		UseTLS:    cfg.Email.UseTLS,
	}, lgr)

	deps.AuthService = appServices.NewAuthService(
		deps.Repos.UserRepository,
		deps.Repos.TokenRepository,
		deps.JWTService,
		lgr,
	)
	deps.UserService = appServices.NewUserService(deps.Repos.UserRepository, lgr)
	deps.ScanService = appServices.NewScanService(
		deps.Repos.ScanRepository,
		deps.FileStorage,
		classifier.NewMock(),
		lgr,
	)
	deps.ConsultationService = appServices.NewConsultationService(
		deps.Repos.ConsultationRepository,
		deps.Repos.UserRepository,
		deps.Repos.ScanRepository,
		deps.Notifier,
		lgr,
	)
	deps.ContactService = appServices.NewContactService(
		deps.Repos.ContactRepository,
		deps.Repos.UserRepository,
		deps.Notifier,
		cfg.AdminEmailList(),
		lgr,
	)
	deps.ArticleService = appServices.NewArticleService(
		deps.Repos.ArticleRepository,
		deps.FileStorage,
		lgr,
	)

	deps.AuthMiddleware = appMiddleware.NewAuthMiddleware(deps.JWTService, deps.Repos.UserRepository)

	deps.AuthController = appControllers.NewAuthController(deps.AuthService, lgr)
	deps.UserController = appControllers.NewUserController(deps.UserService, lgr)
	deps.ScanController = appControllers.NewScanController(deps.ScanService, lgr)
	deps.ConsultationController = appControllers.NewConsultationController(deps.ConsultationService, lgr)
	deps.ContactController = appControllers.NewContactController(deps.ContactService, lgr)
	deps.ArticleController = appControllers.NewArticleController(deps.ArticleService, lgr)

	return deps, nil
}

// SetupRouter configures the Gin engine with middleware and routes.
func SetupRouter(cfg *config.Config, deps *Dependencies, lgr zerolog.Logger) *gin.Engine {
	if strings.ToLower(cfg.Server.Mode) == "production" {
		gin.SetMode(gin.ReleaseMode)
		lgr.Info().Msg("Setting Gin mode to release")
	} else {
		gin.SetMode(gin.DebugMode)
		lgr.Info().Msg("Setting Gin mode to debug")
	}

	router := gin.Default()

	router.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: false,
		MaxAge:           12 * time.Hour,
	}))

	// Setup Swagger
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler, ginSwagger.URL("/swagger/doc.json"), ginSwagger.DefaultModelsExpandDepth(1)))

	// Setup API routes using the dependencies
	appRoutes.SetupRouter(router,
		deps.AuthController,
		deps.UserController,
		deps.ScanController,
		deps.ConsultationController,
		deps.ContactController,
		deps.ArticleController,
		deps.AuthMiddleware,
	)

	// Test endpoint
	router.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "pong", "status": "success"})
	})

	return router
}
