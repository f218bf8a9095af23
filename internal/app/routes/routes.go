package routes

import (
	"github.com/gin-gonic/gin"

	"github.com/eyecare/visionai/internal/app/controllers"
	"github.com/eyecare/visionai/internal/app/models/dto"
	"github.com/eyecare/visionai/internal/middleware"
)

// SetupRouter configures all application routes
func SetupRouter(
	router *gin.Engine,
	authController *controllers.AuthController,
	userController *controllers.UserController,
	scanController *controllers.ScanController,
	consultationController *controllers.ConsultationController,
	contactController *controllers.ContactController,
	articleController *controllers.ArticleController,
	authMiddleware *middleware.AuthMiddleware,
) {
	// API version group
	v1 := router.Group("/api/v1")

	// --- Public routes ---
	auth := v1.Group("/auth")
	{
		auth.POST("/register", authController.Register)
		auth.POST("/login", authController.Login)
		auth.POST("/refresh", authController.RefreshToken)
	}

	// The contact form takes anonymous submissions
	v1.POST("/contact-messages", contactController.CreateContactMessage)

	// Published articles are public reading material
	articles := v1.Group("/articles")
	{
		articles.GET("", articleController.ListArticles)
		articles.GET("/:id", articleController.GetArticle)
	}

	// --- Authenticated routes ---
	authenticated := v1.Group("")
	authenticated.Use(authMiddleware.JWTAuth())
	{
		authenticated.GET("/auth/profile", authController.GetProfile)

		authenticated.GET("/users/specialists", userController.ListSpecialists)

		scans := authenticated.Group("/scans")
		{
			scans.POST("", scanController.CreateScan)
			scans.GET("", scanController.ListScans)
			scans.GET("/:id", scanController.GetScan)
			scans.POST("/:id/review", scanController.CreateReview)
		}

		authenticated.GET("/reviews", scanController.ListReviews)

		consultations := authenticated.Group("/consultations")
		{
			consultations.POST("", consultationController.CreateConsultation)
			consultations.GET("", consultationController.ListConsultations)
			consultations.GET("/:id", consultationController.GetConsultation)
			consultations.POST("/:id/approve", consultationController.ApproveConsultation)
			consultations.POST("/:id/complete", consultationController.CompleteConsultation)
			consultations.POST("/:id/cancel", consultationController.CancelConsultation)
		}

		// The staff inbox. Scoping happens in the service so non-staff read
		// an empty inbox rather than a 403.
		contact := authenticated.Group("/contact-messages")
		{
			contact.GET("", contactController.ListContactMessages)
			contact.GET("/:id", contactController.GetContactMessage)
			contact.POST("/:id/assign_to_me", contactController.AssignToMe)
			contact.POST("/:id/mark_resolved", contactController.MarkResolved)
		}
	}

	// Health check endpoint (public)
	v1.GET("/health", func(c *gin.Context) {
		c.JSON(200, dto.APIResponse{
			Data: gin.H{"status": "ok"},
		})
	})
}
