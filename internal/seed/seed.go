package seed

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	appModels "github.com/eyecare/visionai/internal/app/models"
	appRepos "github.com/eyecare/visionai/internal/app/repositories"
)

// CreateDefaultData creates the default admin account and the starter article
// set if they do not exist yet. Errors are collected so a partial seed does
// not block startup.
func CreateDefaultData(ctx context.Context, dbPool *pgxpool.Pool, lgr zerolog.Logger) error {
	userRepo := appRepos.NewUserRepository(dbPool)
	articleRepo := appRepos.NewArticleRepository(dbPool)

	lgr.Info().Msg("Checking/Creating default data...")
	var finalErr error

	adminID, err := seedAdminUser(ctx, userRepo, lgr)
	if err != nil {
		finalErr = errors.Join(finalErr, err)
	}

	if adminID > 0 {
		if err := seedStarterArticles(ctx, articleRepo, adminID, lgr); err != nil {
			finalErr = errors.Join(finalErr, err)
		}
	}

	lgr.Info().Msg("Default data check/creation finished.")
	return finalErr
}

// seedAdminUser creates the default admin account. Returns the admin's user
// ID whether it was just created or already present.
func seedAdminUser(ctx context.Context, userRepo *appRepos.UserRepository, lgr zerolog.Logger) (int64, error) {
	const adminEmail = "admin@visionai.local"

	exists, err := userRepo.EmailExists(ctx, adminEmail)
	if err != nil {
		lgr.Error().Err(err).Msg("Error checking if admin user exists")
		return 0, err
	}
	if exists {
		lgr.Info().Msg("Admin user already exists, skipping creation")
		admin, err := userRepo.GetByEmail(ctx, adminEmail)
		if err != nil {
			return 0, err
		}
		return admin.ID, nil
	}

	lgr.Info().Msg("Creating default admin user...")

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte("Admin123!"), bcrypt.DefaultCost)
	if err != nil {
		lgr.Error().Err(err).Msg("Error hashing admin password")
		return 0, err
	}

	admin := &appModels.User{
		Username:  "admin",
		Email:     adminEmail,
		Password:  string(hashedPassword),
		FirstName: "System",
		LastName:  "Administrator",
		RoleType:  appModels.RoleAdmin,
		IsActive:  true,
	}

	if err := userRepo.Create(ctx, admin); err != nil {
		lgr.Error().Err(err).Msg("Error creating admin user")
		return 0, err
	}

	lgr.Info().Int64("adminID", admin.ID).Msg("Default admin user created successfully")
	return admin.ID, nil
}

// seedStarterArticles publishes a small set of eye-care articles when the
// articles table is empty, so the public reading surface is never bare.
func seedStarterArticles(ctx context.Context, articleRepo *appRepos.ArticleRepository, authorID int64, lgr zerolog.Logger) error {
	count, err := articleRepo.CountArticles(ctx)
	if err != nil {
		lgr.Error().Err(err).Msg("Error counting articles")
		return err
	}
	if count > 0 {
		lgr.Info().Int64("count", count).Msg("Articles already present, skipping starter content")
		return nil
	}

	lgr.Info().Msg("Creating starter articles...")

	starters := []appModels.Article{
		{
			Title: "Protecting Your Eyes in the Digital Age",
			Content: "Extended screen time strains the eyes. Follow the 20-20-20 rule: " +
				"every 20 minutes, look at something 20 feet away for at least 20 seconds. " +
				"Keep screens at arm's length, reduce glare, and blink often to keep the " +
				"tear film stable.",
			Category:    appModels.CategoryPrevention,
			IsPublished: true,
		},
		{
			Title: "Early Warning Signs of Glaucoma",
			Content: "Glaucoma often develops without symptoms until vision is lost. " +
				"Watch for gradual loss of peripheral vision, halos around lights, and eye " +
				"pain with nausea. Regular pressure checks catch it early, when treatment " +
				"is most effective.",
			Category:    appModels.CategorySymptoms,
			IsPublished: true,
		},
		{
			Title: "Managing Dry Eye Syndrome",
			Content: "Dry eye is among the most common complaints we see. Artificial " +
				"tears, warm compresses, and omega-3 rich diets relieve most mild cases. " +
				"Persistent dryness deserves a specialist visit, since untreated dry eye " +
				"can damage the corneal surface.",
			Category:    appModels.CategoryTreatment,
			IsPublished: true,
		},
		{
			Title: "How Often Should You Have an Eye Exam?",
			Content: "Healthy adults under 40 should be examined every two years. After " +
				"40, or with diabetes, high blood pressure, or a family history of eye " +
				"disease, annual exams are recommended. Children need their first full " +
				"exam before starting school.",
			Category:    appModels.CategoryGeneral,
			IsPublished: true,
		},
	}

	var finalErr error
	for i := range starters {
		starters[i].AuthorID = authorID
		if err := articleRepo.Create(ctx, &starters[i]); err != nil {
			lgr.Error().Err(err).Str("title", starters[i].Title).Msg("Error creating starter article")
			finalErr = errors.Join(finalErr, err)
		}
	}

	if finalErr == nil {
		lgr.Info().Int("count", len(starters)).Msg("Starter articles created")
	}
	return finalErr
}
