// Package repository decides, per operation, whether the remote service or the
// local cache answers. The network is authoritative; the cache is consulted only
// when the network cannot be reached.
package repository

import (
	"context"
	"errors"
	"fmt"
	"iter"
	"time"

	"github.com/SERHANISalaheddine/Project-Manager-Modile-App-sub000/internal/api"
	"github.com/SERHANISalaheddine/Project-Manager-Modile-App-sub000/internal/dto"
	"github.com/SERHANISalaheddine/Project-Manager-Modile-App-sub000/internal/metrics"
	"github.com/SERHANISalaheddine/Project-Manager-Modile-App-sub000/internal/models"
	"github.com/SERHANISalaheddine/Project-Manager-Modile-App-sub000/internal/session"
	"github.com/SERHANISalaheddine/Project-Manager-Modile-App-sub000/internal/store"
	"github.com/SERHANISalaheddine/Project-Manager-Modile-App-sub000/internal/validation"
	"github.com/SERHANISalaheddine/Project-Manager-Modile-App-sub000/pkg/logger"
	"golang.org/x/sync/errgroup"
)

// Remote is the subset of the api client used for projects.
type Remote interface {
	CreateProject(ctx context.Context, req dto.ProjectRequest) (*dto.ProjectResponse, error)
	GetProject(ctx context.Context, projectID int64) (*dto.ProjectResponse, error)
	UpdateProject(ctx context.Context, projectID int64, req dto.ProjectRequest) (*dto.ProjectResponse, error)
	DeleteProject(ctx context.Context, projectID int64) error
	ListOwnedProjects(ctx context.Context, userID int64, page dto.PageRequest) (*dto.Page[dto.ProjectResponse], error)
	ListMemberProjects(ctx context.Context, userID int64, page dto.PageRequest) (*dto.Page[dto.ProjectResponse], error)
}

// Local is the subset of the store used as the cache.
type Local interface {
	Projects(ctx context.Context) iter.Seq2[models.Project, error]
	ProjectByRemoteID(ctx context.Context, remoteID int64) (*models.Project, bool, error)
	CreateProject(ctx context.Context, p *models.Project) (uint, error)
	UpsertRemoteMember(ctx context.Context, m *models.Member) (uint, error)
	UpsertRemoteProject(ctx context.Context, p *models.Project) (uint, error)
	DeleteProjectByRemoteID(ctx context.Context, remoteID int64) error
	CountProjects(ctx context.Context) (int64, error)
}

type Session interface {
	UserID() int64
	IsLoggedIn() bool
}

// Source tells the caller where a result came from.
type Source int

const (
	SourceRemote Source = iota
	SourceCache
)

func (s Source) String() string {
	if s == SourceCache {
		return "cache"
	}
	return "remote"
}

type ProjectList struct {
	Projects []models.Project
	Source   Source
}

// ProjectInput is what a screen submits when creating or editing a project.
// Members that carry a remote id are sent to the service; local ids are used
// for rows saved while offline. Every member needs at least one of the two.
type ProjectInput struct {
	Title       string
	Description string
	Status      models.ProjectStatus
	DueDate     *time.Time
	Members     []models.Member
}

// WriteResult reports which sides of a write succeeded.
type WriteResult struct {
	Project models.Project
	Remote  bool
	Cached  bool
}

type ProjectRepository struct {
	remote     Remote
	local      Local
	session    Session
	cacheReads bool
	pageSize   int
	maxPages   int
}

type Option func(*ProjectRepository)

// WithCacheReads mirrors every successful listing into the local store.
func WithCacheReads(on bool) Option {
	return func(r *ProjectRepository) { r.cacheReads = on }
}

// WithPaging sets the page size and the page cap used when walking list endpoints.
func WithPaging(size, maxPages int) Option {
	return func(r *ProjectRepository) {
		if size > 0 {
			r.pageSize = size
		}
		if maxPages > 0 {
			r.maxPages = maxPages
		}
	}
}

func NewProjectRepository(remote Remote, local Local, sess Session, opts ...Option) *ProjectRepository {
	r := &ProjectRepository{
		remote:   remote,
		local:    local,
		session:  sess,
		pageSize: 50,
		maxPages: 20,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// List returns owned and member projects combined, each exactly once. Both
// listings run concurrently and the result is built only after both finish.
func (r *ProjectRepository) List(ctx context.Context) (*ProjectList, error) {
	userID := r.session.UserID()
	if userID == 0 {
		return nil, session.ErrNotAuthenticated
	}

	var owned, member []dto.ProjectResponse
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		owned, err = r.fetchAll(gctx, r.remote.ListOwnedProjects, userID)
		return err
	})
	g.Go(func() error {
		var err error
		member, err = r.fetchAll(gctx, r.remote.ListMemberProjects, userID)
		return err
	})

	if err := g.Wait(); err != nil {
		if api.IsNetworkError(err) {
			logger.Warn().Err(err).Msg("project listing unreachable, serving cache")
			return r.cachedList(ctx)
		}
		return nil, err
	}

	merged := Merge(owned, member)
	projects := make([]models.Project, 0, len(merged))
	for _, resp := range merged {
		projects = append(projects, ToModel(resp))
	}
	if r.cacheReads {
		r.cacheAll(ctx, projects)
	}
	return &ProjectList{Projects: projects, Source: SourceRemote}, nil
}

type listFunc func(ctx context.Context, userID int64, page dto.PageRequest) (*dto.Page[dto.ProjectResponse], error)

func (r *ProjectRepository) fetchAll(ctx context.Context, list listFunc, userID int64) ([]dto.ProjectResponse, error) {
	var all []dto.ProjectResponse
	for page := 0; page < r.maxPages; page++ {
		p, err := list(ctx, userID, dto.PageRequest{Page: page, Size: r.pageSize})
		if err != nil {
			return nil, err
		}
		all = append(all, p.Content...)
		if p.Last || len(p.Content) == 0 {
			return all, nil
		}
	}
	logger.Warn().Int64("user_id", userID).Int("max_pages", r.maxPages).Msg("project listing truncated")
	return all, nil
}

// Merge concatenates owned and member projects, dropping any id already seen.
// Owned projects keep their position ahead of member projects.
func Merge(owned, member []dto.ProjectResponse) []dto.ProjectResponse {
	seen := make(map[int64]struct{}, len(owned)+len(member))
	out := make([]dto.ProjectResponse, 0, len(owned)+len(member))
	for _, list := range [][]dto.ProjectResponse{owned, member} {
		for _, p := range list {
			if _, ok := seen[p.ID]; ok {
				continue
			}
			seen[p.ID] = struct{}{}
			out = append(out, p)
		}
	}
	return out
}

func (r *ProjectRepository) cachedList(ctx context.Context) (*ProjectList, error) {
	metrics.CacheFallbacksTotal.WithLabelValues("list").Inc()

	projects := []models.Project{}
	for p, err := range r.local.Projects(ctx) {
		if err != nil {
			return nil, err
		}
		projects = append(projects, p)
	}
	return &ProjectList{Projects: projects, Source: SourceCache}, nil
}

// cacheAll mirrors remote projects into the store. Failures are logged only.
func (r *ProjectRepository) cacheAll(ctx context.Context, projects []models.Project) {
	for i := range projects {
		r.cacheOne(ctx, "list", &projects[i])
	}
}

func (r *ProjectRepository) cacheOne(ctx context.Context, op string, p *models.Project) bool {
	row := *p
	row.Members = append([]models.Member(nil), p.Members...)
	if _, err := r.local.UpsertRemoteProject(ctx, &row); err != nil {
		metrics.CacheWritesTotal.WithLabelValues(op, "error").Inc()
		logger.Warn().Err(err).Str("op", op).Msg("failed to cache remote project")
		return false
	}
	metrics.CacheWritesTotal.WithLabelValues(op, "ok").Inc()
	p.ID = row.ID
	for i := range p.Members {
		p.Members[i].ID = row.Members[i].ID
	}
	return true
}

// Get fetches one project by its remote id, answering from the cache only when
// the service is unreachable.
func (r *ProjectRepository) Get(ctx context.Context, remoteID int64) (*models.Project, Source, error) {
	resp, err := r.remote.GetProject(ctx, remoteID)
	if err == nil {
		p := ToModel(*resp)
		return &p, SourceRemote, nil
	}
	if !api.IsNetworkError(err) {
		return nil, SourceRemote, err
	}

	metrics.CacheFallbacksTotal.WithLabelValues("get").Inc()
	cached, ok, lerr := r.local.ProjectByRemoteID(ctx, remoteID)
	if lerr != nil || !ok {
		return nil, SourceCache, err
	}
	return cached, SourceCache, nil
}

// Create sends the project to the service and caches the result. When the
// service cannot be reached the project is kept locally instead; the call only
// fails if neither side stored it.
func (r *ProjectRepository) Create(ctx context.Context, in ProjectInput) (*WriteResult, error) {
	p := in.project()
	p.CreatedBy = r.session.UserID()
	if err := validation.Project(&p); err != nil {
		return nil, err
	}
	if err := checkMembers(p.Members); err != nil {
		return nil, err
	}

	resp, err := r.remote.CreateProject(ctx, in.request())
	if err == nil {
		created := ToModel(*resp)
		cached := r.cacheOne(ctx, "create", &created)
		return &WriteResult{Project: created, Remote: true, Cached: cached}, nil
	}
	if !api.IsNetworkError(err) {
		return nil, err
	}

	if lerr := r.localMembers(ctx, p.Members); lerr != nil {
		logger.Error().Err(lerr).Msg("offline project members could not be cached")
		return nil, errors.Join(err, lerr)
	}
	if _, lerr := r.local.CreateProject(ctx, &p); lerr != nil {
		logger.Error().Err(lerr).Msg("offline project could not be saved locally")
		return nil, errors.Join(err, lerr)
	}
	metrics.CacheWritesTotal.WithLabelValues("create_offline", "ok").Inc()
	logger.Info().Uint("id", p.ID).Msg("service unreachable, project saved locally")
	return &WriteResult{Project: p, Remote: false, Cached: true}, nil
}

// Update edits the project on the service and refreshes the cached copy if one exists.
func (r *ProjectRepository) Update(ctx context.Context, remoteID int64, in ProjectInput) (*WriteResult, error) {
	p := in.project()
	if err := validation.Project(&p); err != nil {
		return nil, err
	}

	resp, err := r.remote.UpdateProject(ctx, remoteID, in.request())
	if err != nil {
		return nil, err
	}
	updated := ToModel(*resp)

	cached := false
	if _, ok, _ := r.local.ProjectByRemoteID(ctx, remoteID); ok || r.cacheReads {
		cached = r.cacheOne(ctx, "update", &updated)
	}
	return &WriteResult{Project: updated, Remote: true, Cached: cached}, nil
}

// Delete removes the project on the service and drops the cached copy.
func (r *ProjectRepository) Delete(ctx context.Context, remoteID int64) error {
	if err := r.remote.DeleteProject(ctx, remoteID); err != nil {
		return err
	}
	if err := r.local.DeleteProjectByRemoteID(ctx, remoteID); err != nil && !errors.Is(err, store.ErrNotFound) {
		metrics.CacheWritesTotal.WithLabelValues("delete", "error").Inc()
		logger.Warn().Err(err).Int64("remote_id", remoteID).Msg("failed to drop cached project")
	}
	return nil
}

// Count is the number of cached projects, used for badges.
func (r *ProjectRepository) Count(ctx context.Context) (int64, error) {
	return r.local.CountProjects(ctx)
}

func checkMembers(members []models.Member) error {
	for _, m := range members {
		if m.ID == 0 && m.RemoteID == nil {
			return fmt.Errorf("%w: member %q has no id", validation.ErrInvalidInput, m.Name)
		}
	}
	return nil
}

// localMembers caches remote members that have no local row yet so the
// offline project keeps them. Sets the local id in place.
func (r *ProjectRepository) localMembers(ctx context.Context, members []models.Member) error {
	for i := range members {
		m := &members[i]
		if m.ID != 0 || m.RemoteID == nil {
			continue
		}
		if _, err := r.local.UpsertRemoteMember(ctx, m); err != nil {
			return err
		}
	}
	return nil
}

func (in ProjectInput) project() models.Project {
	status := in.Status
	if status == "" {
		status = models.StatusCreated
	}
	return models.Project{
		Title:       in.Title,
		Description: in.Description,
		Status:      status,
		DueDate:     in.DueDate,
		Members:     append([]models.Member(nil), in.Members...),
	}
}

func (in ProjectInput) request() dto.ProjectRequest {
	req := dto.ProjectRequest{
		Title:       in.Title,
		Description: in.Description,
		Status:      string(in.Status),
		DueDate:     in.DueDate,
		MemberIDs:   []int64{},
	}
	for _, m := range in.Members {
		if m.RemoteID != nil {
			req.MemberIDs = append(req.MemberIDs, *m.RemoteID)
		}
	}
	return req
}
