package main

import (
	"github.com/SERHANISalaheddine/Project-Manager-Modile-App-sub000/internal/config"
	"github.com/SERHANISalaheddine/Project-Manager-Modile-App-sub000/internal/database"
	"github.com/SERHANISalaheddine/Project-Manager-Modile-App-sub000/internal/middleware"
	"github.com/SERHANISalaheddine/Project-Manager-Modile-App-sub000/internal/records"
	"github.com/SERHANISalaheddine/Project-Manager-Modile-App-sub000/internal/services"
	"github.com/SERHANISalaheddine/Project-Manager-Modile-App-sub000/internal/utils"
	"github.com/SERHANISalaheddine/Project-Manager-Modile-App-sub000/pkg/logger"
	"gorm.io/gorm"
)

// appServices holds all initialized services needed by the server.
type appServices struct {
	db           *gorm.DB
	authService  *services.AuthService
	tokenCleanup *services.TokenCleanupScheduler
	limiter      *middleware.RateLimiter
}

// bootstrap initializes all application dependencies: database, services, schedulers.
func bootstrap(cfg *config.ServerConfig) *appServices {
	utils.SetJWTSecret(cfg.JWT.Secret)

	db, err := database.Open(&cfg.Database)
	if err != nil {
		logger.Fatalf("Failed to connect to database: %v", err)
	}

	if err := records.AutoMigrate(db); err != nil {
		logger.Fatalf("Failed to migrate database: %v", err)
	}

	authService := services.NewAuthService(db, services.NewEmailService(cfg.Mail), cfg.JWT.ExpireHour)

	tokenCleanup := services.NewTokenCleanupScheduler(authService, cfg.TokenCleanupSpec)
	if err := tokenCleanup.Start(); err != nil {
		logger.Warn().Err(err).Str("spec", cfg.TokenCleanupSpec).Msg("Failed to schedule token cleanup")
	}

	var limiter *middleware.RateLimiter
	if cfg.RateLimit > 0 {
		limiter = middleware.NewRateLimiter(cfg.RateLimit, cfg.Burst)
	}

	return &appServices{
		db:           db,
		authService:  authService,
		tokenCleanup: tokenCleanup,
		limiter:      limiter,
	}
}

// shutdown gracefully stops all services.
func (s *appServices) shutdown() {
	s.tokenCleanup.Stop()
	if s.limiter != nil {
		s.limiter.Close()
	}
	logger.Info().Msg("All schedulers stopped")

	if err := database.Close(s.db); err != nil {
		logger.Warn().Err(err).Msg("Failed to close database")
	}
}
