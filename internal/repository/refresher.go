package repository

import (
	"context"
	"sync"
	"time"

	"github.com/SERHANISalaheddine/Project-Manager-Modile-App-sub000/pkg/logger"
	"github.com/robfig/cron/v3"
)

// Refresher periodically re-lists projects so the cache stays warm while signed in.
type Refresher struct {
	repo    *ProjectRepository
	session Session
	spec    string
	timeout time.Duration

	mu        sync.Mutex
	scheduler *cron.Cron
	entryID   cron.EntryID
}

func NewRefresher(repo *ProjectRepository, sess Session, spec string) *Refresher {
	return &Refresher{repo: repo, session: sess, spec: spec, timeout: time.Minute}
}

// Start schedules the refresh. An empty spec disables it.
func (r *Refresher) Start() error {
	if r.spec == "" {
		return nil
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	r.scheduler = cron.New()
	entryID, err := r.scheduler.AddFunc(r.spec, func() {
		ctx, cancel := context.WithTimeout(context.Background(), r.timeout)
		defer cancel()
		r.RunOnce(ctx)
	})
	if err != nil {
		return err
	}
	r.entryID = entryID
	r.scheduler.Start()
	logger.Info().Str("spec", r.spec).Msg("project cache refresher started")
	return nil
}

func (r *Refresher) Stop() {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.scheduler != nil {
		<-r.scheduler.Stop().Done()
		r.scheduler = nil
	}
}

// RunOnce refreshes the cache now. It is a no-op when signed out and reports
// whether a remote listing was cached.
func (r *Refresher) RunOnce(ctx context.Context) bool {
	if !r.session.IsLoggedIn() {
		return false
	}

	list, err := r.repo.List(ctx)
	if err != nil {
		logger.Warn().Err(err).Msg("project cache refresh failed")
		return false
	}
	if list.Source != SourceRemote {
		return false
	}
	if !r.repo.cacheReads {
		r.repo.cacheAll(ctx, list.Projects)
	}
	logger.Debug().Int("projects", len(list.Projects)).Msg("project cache refreshed")
	return true
}
