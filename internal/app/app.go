// Package app wires the client core: one store, one session manager, one api
// client and the project repository built on them.
package app

import (
	"context"
	"fmt"

	"github.com/SERHANISalaheddine/Project-Manager-Modile-App-sub000/internal/api"
	"github.com/SERHANISalaheddine/Project-Manager-Modile-App-sub000/internal/config"
	"github.com/SERHANISalaheddine/Project-Manager-Modile-App-sub000/internal/database"
	"github.com/SERHANISalaheddine/Project-Manager-Modile-App-sub000/internal/repository"
	"github.com/SERHANISalaheddine/Project-Manager-Modile-App-sub000/internal/session"
	"github.com/SERHANISalaheddine/Project-Manager-Modile-App-sub000/internal/store"
	"github.com/SERHANISalaheddine/Project-Manager-Modile-App-sub000/pkg/logger"
	"gorm.io/gorm"
)

type App struct {
	Config    *config.Config
	Store     *store.Store
	Session   *session.Manager
	Client    *api.Client
	Projects  *repository.ProjectRepository
	Refresher *repository.Refresher

	db    *gorm.DB
	redis *session.RedisBackend
}

type Option func(*options)

type options struct {
	apiOpts []api.Option
	backend session.Backend
}

// WithAPIOptions forwards options to the api client.
func WithAPIOptions(opts ...api.Option) Option {
	return func(o *options) { o.apiOpts = append(o.apiOpts, opts...) }
}

// WithSessionBackend overrides the backend selected by configuration.
func WithSessionBackend(b session.Backend) Option {
	return func(o *options) { o.backend = b }
}

// New opens the local database, migrates it and builds every component.
// The caller owns the returned App and must Close it.
func New(ctx context.Context, cfg *config.Config, opts ...Option) (*App, error) {
	var o options
	for _, opt := range opts {
		opt(&o)
	}

	db, err := database.Open(&cfg.Database)
	if err != nil {
		return nil, err
	}

	a := &App{Config: cfg, db: db}

	a.Store = store.New(db, store.WithBatchSize(cfg.Cache.PageSize))
	if err := a.Store.Migrate(ctx); err != nil {
		a.Close()
		return nil, err
	}

	backend := o.backend
	if backend == nil {
		switch cfg.Session.Backend {
		case "redis":
			rb, err := session.NewRedisBackend(ctx, &cfg.Session.Redis)
			if err != nil {
				a.Close()
				return nil, err
			}
			a.redis = rb
			backend = rb
		case "database", "":
			backend = session.NewDatabaseBackend(db)
		default:
			a.Close()
			return nil, fmt.Errorf("unsupported session backend: %s", cfg.Session.Backend)
		}
	}

	a.Session, err = session.NewManager(ctx, backend)
	if err != nil {
		a.Close()
		return nil, err
	}

	a.Client = api.New(&cfg.API, a.Session, o.apiOpts...)
	a.Projects = repository.NewProjectRepository(a.Client, a.Store, a.Session,
		repository.WithCacheReads(cfg.Cache.CacheReads),
		repository.WithPaging(cfg.Cache.PageSize, cfg.Cache.MaxPages),
	)
	a.Refresher = repository.NewRefresher(a.Projects, a.Session, cfg.Cache.RefreshSpec)

	logger.Info().
		Str("api", cfg.API.BaseURL).
		Str("session_backend", cfg.Session.Backend).
		Bool("signed_in", a.Session.IsLoggedIn()).
		Msg("client core ready")
	return a, nil
}

// Start launches background jobs.
func (a *App) Start() error {
	return a.Refresher.Start()
}

// Close stops background jobs and releases connections.
func (a *App) Close() error {
	if a.Refresher != nil {
		a.Refresher.Stop()
	}
	if a.redis != nil {
		if err := a.redis.Close(); err != nil {
			logger.Warn().Err(err).Msg("failed to close redis session backend")
		}
	}
	return database.Close(a.db)
}
