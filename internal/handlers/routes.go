package handlers

import (
	"github.com/SERHANISalaheddine/Project-Manager-Modile-App-sub000/internal/config"
	"github.com/SERHANISalaheddine/Project-Manager-Modile-App-sub000/internal/middleware"
	"github.com/SERHANISalaheddine/Project-Manager-Modile-App-sub000/internal/services"
	"github.com/SERHANISalaheddine/Project-Manager-Modile-App-sub000/pkg/logger"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// RegisterRoutes mounts the REST API on r. A nil limiter disables rate limiting.
func RegisterRoutes(r *gin.Engine, db *gorm.DB, cfg *config.ServerConfig, authService *services.AuthService, limiter *middleware.RateLimiter) {
	r.Use(logger.GinLogger(), logger.GinRecovery())
	r.Use(middleware.RequestID(), middleware.Metrics(), middleware.CORS(cfg.CORSOrigins...))
	r.RedirectTrailingSlash = false
	r.RedirectFixedPath = false

	healthHandler := NewHealthHandler(db)
	r.GET("/health", healthHandler.CheckHealth)
	r.GET("/metrics", Metrics(db))
	if cfg.UploadDir != "" {
		r.Static(services.UploadsURLPrefix, cfg.UploadDir)
	}

	api := r.Group("/api")
	if limiter != nil {
		api.Use(limiter.Middleware())
	}
	{
		// Auth routes (public)
		authHandler := NewAuthHandler(authService)
		auth := api.Group("/auth")
		{
			auth.POST("/register", authHandler.Register)
			auth.POST("/login", authHandler.Login)
			auth.POST("/forgot-password", authHandler.ForgotPassword)
			auth.POST("/reset-password", authHandler.ResetPassword)
			auth.GET("/verify-email", authHandler.VerifyEmail)
		}

		// Protected routes
		protected := api.Group("")
		protected.Use(middleware.AuthRequired())
		{
			// Users
			userHandler := NewUserHandler(services.NewUserService(db, cfg.UploadDir))
			protected.GET("/users", userHandler.List)
			protected.GET("/users/:id", userHandler.GetByID)
			protected.PATCH("/users/:id", userHandler.Update)
			protected.DELETE("/users/:id", userHandler.Delete)
			protected.PUT("/users/:id/password", userHandler.UpdatePassword)
			protected.POST("/users/:id/profile-picture", userHandler.UploadProfilePicture)
			protected.DELETE("/users/:id/profile-picture", userHandler.DeleteProfilePicture)

			// Projects
			projectService := services.NewProjectService(db)
			projectHandler := NewProjectHandler(projectService)
			protected.POST("/projects", projectHandler.Create)
			protected.GET("/projects/owner/:userId", projectHandler.ListOwned)
			protected.GET("/projects/member/:userId", projectHandler.ListMember)
			protected.GET("/projects/:id", projectHandler.GetByID)
			protected.PUT("/projects/:id", projectHandler.Update)
			protected.DELETE("/projects/:id", projectHandler.Delete)

			// Project members
			memberHandler := NewProjectMemberHandler(projectService)
			protected.POST("/projects/:id/members", memberHandler.Add)
			protected.GET("/projects/:id/members", memberHandler.List)
			protected.DELETE("/projects/:id/members/:userId", memberHandler.Remove)

			// Tasks
			taskHandler := NewTaskHandler(services.NewTaskService(db))
			protected.GET("/tasks", taskHandler.List)
			protected.POST("/tasks", taskHandler.Create)
			protected.GET("/tasks/:id", taskHandler.GetByID)
			protected.PUT("/tasks/:id", taskHandler.Update)
			protected.PATCH("/tasks/:id/status", taskHandler.UpdateStatus)
			protected.DELETE("/tasks/:id", taskHandler.Delete)
		}
	}
}
