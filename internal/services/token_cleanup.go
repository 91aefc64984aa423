package services

import (
	"github.com/SERHANISalaheddine/Project-Manager-Modile-App-sub000/pkg/logger"
	"github.com/robfig/cron/v3"
)

// TokenCleanupScheduler periodically purges used and expired action tokens.
type TokenCleanupScheduler struct {
	auth          *AuthService
	spec          string
	cronScheduler *cron.Cron
}

func NewTokenCleanupScheduler(auth *AuthService, spec string) *TokenCleanupScheduler {
	return &TokenCleanupScheduler{auth: auth, spec: spec}
}

// Start runs one cleanup immediately and schedules the rest. An empty spec
// disables the schedule.
func (s *TokenCleanupScheduler) Start() error {
	s.RunOnce()
	if s.spec == "" {
		return nil
	}

	s.cronScheduler = cron.New()
	if _, err := s.cronScheduler.AddFunc(s.spec, s.RunOnce); err != nil {
		s.cronScheduler = nil
		return err
	}
	s.cronScheduler.Start()
	logger.Info().Str("spec", s.spec).Msg("[TokenCleanup] Scheduler started")
	return nil
}

func (s *TokenCleanupScheduler) Stop() {
	if s.cronScheduler != nil {
		<-s.cronScheduler.Stop().Done()
		s.cronScheduler = nil
	}
}

func (s *TokenCleanupScheduler) RunOnce() {
	deleted, err := s.auth.CleanupTokens()
	if err != nil {
		logger.Warn().Err(err).Msg("[TokenCleanup] Failed to purge action tokens")
		return
	}
	if deleted > 0 {
		logger.Info().Int64("deleted", deleted).Msg("[TokenCleanup] Purged action tokens")
	}
}
