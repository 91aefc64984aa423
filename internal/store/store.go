// Package store is the on-device relational cache of projects and members. It is
// the only writer of the projects, members and project_members tables.
package store

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/SERHANISalaheddine/Project-Manager-Modile-App-sub000/internal/metrics"
	"github.com/SERHANISalaheddine/Project-Manager-Modile-App-sub000/internal/models"
	"github.com/SERHANISalaheddine/Project-Manager-Modile-App-sub000/pkg/logger"
	"gorm.io/gorm"
)

var (
	// ErrWriteFailed wraps every write that was rolled back.
	ErrWriteFailed = errors.New("local store write failed")
	// ErrNotFound is returned by writes that target a missing row.
	ErrNotFound = errors.New("record not found")
	// ErrInvalidProject is returned when a project without a title reaches the store.
	ErrInvalidProject = errors.New("invalid project")
	// ErrUnknownMember is returned when a project references a member id that does not exist.
	ErrUnknownMember = errors.New("unknown member")
)

const defaultBatchSize = 50

type Store struct {
	db        *gorm.DB
	mu        sync.Mutex // serializes writers; sqlite allows one writer at a time
	batchSize int
}

type Option func(*Store)

// WithBatchSize sets how many projects Projects loads per round trip.
func WithBatchSize(n int) Option {
	return func(s *Store) {
		if n > 0 {
			s.batchSize = n
		}
	}
}

func New(db *gorm.DB, opts ...Option) *Store {
	s := &Store{db: db, batchSize: defaultBatchSize}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// DB exposes the connection for components sharing the same database file.
func (s *Store) DB() *gorm.DB {
	return s.db
}

// Migrate creates the tables and, when the database is brand new, seeds the sample members.
func (s *Store) Migrate(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	db := s.db.WithContext(ctx)
	fresh := !db.Migrator().HasTable(&models.Member{})

	if err := models.AutoMigrate(db); err != nil {
		return fmt.Errorf("migrate local store: %w", err)
	}
	if !fresh {
		return nil
	}

	seeded, err := models.SeedDefaultData(db)
	if err != nil {
		return fmt.Errorf("seed local store: %w", err)
	}
	if seeded {
		logger.Info().Int("members", len(models.SampleMembers())).Msg("seeded sample members")
	}
	return nil
}

// fail logs a rolled-back write and converts it into the store's error contract.
func (s *Store) fail(op string, err error) error {
	if errors.Is(err, ErrNotFound) {
		logger.Warn().Str("op", op).Msg("local store write skipped: record not found")
		return fmt.Errorf("%s: %w", op, err)
	}
	metrics.StoreWriteFailuresTotal.WithLabelValues(op).Inc()
	logger.Error().Err(err).Str("op", op).Msg("local store write failed")
	return fmt.Errorf("%w: %s: %w", ErrWriteFailed, op, err)
}

func notFound(err error) bool {
	return errors.Is(err, gorm.ErrRecordNotFound)
}
