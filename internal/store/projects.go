package store

import (
	"context"
	"fmt"
	"iter"
	"time"

	"github.com/SERHANISalaheddine/Project-Manager-Modile-App-sub000/internal/models"
	"gorm.io/gorm"
)

// CreateProject inserts p and one join row per member in a single transaction and
// returns the assigned id. On failure nothing is written and the id is 0.
func (s *Store) CreateProject(ctx context.Context, p *models.Project) (uint, error) {
	if p == nil || !p.IsValid() {
		return 0, s.fail("create_project", ErrInvalidProject)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	row := projectRow(p)
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return createProjectTx(tx, &row, p.MemberIDs())
	})
	if err != nil {
		return 0, s.fail("create_project", err)
	}

	p.ID = row.ID
	p.Status = row.Status
	p.CreatedAt = row.CreatedAt
	p.UpdatedAt = row.UpdatedAt
	return row.ID, nil
}

// Projects yields every project, newest first, each hydrated with its members.
// Rows are loaded lazily in batches; ranging over the sequence again re-reads the table.
func (s *Store) Projects(ctx context.Context) iter.Seq2[models.Project, error] {
	return func(yield func(models.Project, error) bool) {
		var ids []uint
		err := s.db.WithContext(ctx).Model(&models.Project{}).
			Order("created_at DESC").Order("id DESC").
			Pluck("id", &ids).Error
		if err != nil {
			yield(models.Project{}, fmt.Errorf("list projects: %w", err))
			return
		}

		for start := 0; start < len(ids); start += s.batchSize {
			end := min(start+s.batchSize, len(ids))
			batch, err := s.loadProjects(ctx, ids[start:end])
			if err != nil {
				yield(models.Project{}, err)
				return
			}
			for _, p := range batch {
				if !yield(p, nil) {
					return
				}
			}
		}
	}
}

// ProjectList collects Projects into a slice.
func (s *Store) ProjectList(ctx context.Context) ([]models.Project, error) {
	var out []models.Project
	for p, err := range s.Projects(ctx) {
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, nil
}

// ProjectByID returns the project with its members; ok is false when no row matches.
func (s *Store) ProjectByID(ctx context.Context, id uint) (*models.Project, bool, error) {
	return s.findProject(ctx, "id = ?", id)
}

// ProjectByRemoteID finds the cached copy of a remote project.
func (s *Store) ProjectByRemoteID(ctx context.Context, remoteID int64) (*models.Project, bool, error) {
	return s.findProject(ctx, "remote_id = ?", remoteID)
}

func (s *Store) findProject(ctx context.Context, query string, arg interface{}) (*models.Project, bool, error) {
	var p models.Project
	if err := s.db.WithContext(ctx).Where(query, arg).First(&p).Error; err != nil {
		if notFound(err) {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("get project: %w", err)
	}

	projects := []models.Project{p}
	if err := s.hydrate(ctx, projects); err != nil {
		return nil, false, err
	}
	return &projects[0], true, nil
}

// UpdateProject overwrites title, description, status and due date, then replaces
// the member set (delete all, re-insert) in the same transaction.
func (s *Store) UpdateProject(ctx context.Context, p *models.Project) error {
	if p == nil || !p.IsValid() {
		return s.fail("update_project", ErrInvalidProject)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return updateProjectTx(tx, p.ID, p, p.MemberIDs())
	})
	if err != nil {
		return s.fail("update_project", err)
	}
	return nil
}

// DeleteProject removes the association rows and then the project row.
func (s *Store) DeleteProject(ctx context.Context, id uint) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return deleteProjectTx(tx, id)
	})
	if err != nil {
		return s.fail("delete_project", err)
	}
	return nil
}

// CountProjects returns the number of cached projects.
func (s *Store) CountProjects(ctx context.Context) (int64, error) {
	var count int64
	if err := s.db.WithContext(ctx).Model(&models.Project{}).Count(&count).Error; err != nil {
		return 0, fmt.Errorf("count projects: %w", err)
	}
	return count, nil
}

// UpsertRemoteProject mirrors a remote project into the cache keyed by its remote id.
// Members carrying a remote id are upserted first; the project's member set is replaced.
func (s *Store) UpsertRemoteProject(ctx context.Context, p *models.Project) (uint, error) {
	if p == nil || p.RemoteID == nil || !p.IsValid() {
		return 0, s.fail("upsert_project", ErrInvalidProject)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	var id uint
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		memberIDs := make([]uint, 0, len(p.Members))
		for i := range p.Members {
			m := &p.Members[i]
			if m.RemoteID != nil {
				if err := upsertMemberTx(tx, m); err != nil {
					return err
				}
			}
			memberIDs = append(memberIDs, m.ID)
		}

		var existing models.Project
		err := tx.Select("id").Where("remote_id = ?", *p.RemoteID).First(&existing).Error
		switch {
		case err == nil:
			id = existing.ID
			return updateProjectTx(tx, existing.ID, p, memberIDs)
		case notFound(err):
			row := projectRow(p)
			if err := createProjectTx(tx, &row, memberIDs); err != nil {
				return err
			}
			id = row.ID
			return nil
		default:
			return err
		}
	})
	if err != nil {
		return 0, s.fail("upsert_project", err)
	}

	p.ID = id
	return id, nil
}

// DeleteProjectByRemoteID drops the cached copy of a remote project, if any.
func (s *Store) DeleteProjectByRemoteID(ctx context.Context, remoteID int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var existing models.Project
		if err := tx.Select("id").Where("remote_id = ?", remoteID).First(&existing).Error; err != nil {
			if notFound(err) {
				return ErrNotFound
			}
			return err
		}
		return deleteProjectTx(tx, existing.ID)
	})
	if err != nil {
		return s.fail("delete_project", err)
	}
	return nil
}

// --- transaction helpers ---

func projectRow(p *models.Project) models.Project {
	row := *p
	row.ID = 0
	row.Members = nil
	if row.Status == "" {
		row.Status = models.StatusCreated
	}
	if !row.CreatedAt.IsZero() {
		row.CreatedAt = row.CreatedAt.UTC()
	}
	if row.DueDate != nil {
		due := row.DueDate.UTC()
		row.DueDate = &due
	}
	return row
}

func createProjectTx(tx *gorm.DB, row *models.Project, memberIDs []uint) error {
	if err := tx.Create(row).Error; err != nil {
		return err
	}
	return insertLinksTx(tx, row.ID, memberIDs)
}

func updateProjectTx(tx *gorm.DB, id uint, p *models.Project, memberIDs []uint) error {
	var existing models.Project
	if err := tx.Select("id").First(&existing, id).Error; err != nil {
		if notFound(err) {
			return ErrNotFound
		}
		return err
	}

	status := p.Status
	if status == "" {
		status = models.StatusCreated
	}
	var due *time.Time
	if p.DueDate != nil {
		d := p.DueDate.UTC()
		due = &d
	}

	if err := tx.Model(&models.Project{}).Where("id = ?", id).Updates(map[string]interface{}{
		"title":       p.Title,
		"description": p.Description,
		"status":      status,
		"due_date":    due,
	}).Error; err != nil {
		return err
	}

	if err := tx.Where("project_id = ?", id).Delete(&models.ProjectMember{}).Error; err != nil {
		return err
	}
	return insertLinksTx(tx, id, memberIDs)
}

func deleteProjectTx(tx *gorm.DB, id uint) error {
	if err := tx.Where("project_id = ?", id).Delete(&models.ProjectMember{}).Error; err != nil {
		return err
	}
	result := tx.Delete(&models.Project{}, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// insertLinksTx writes one join row per distinct member id after checking every id exists.
func insertLinksTx(tx *gorm.DB, projectID uint, memberIDs []uint) error {
	ids := uniqueIDs(memberIDs)
	if len(ids) == 0 {
		return nil
	}

	var known int64
	if err := tx.Model(&models.Member{}).Where("id IN ?", ids).Count(&known).Error; err != nil {
		return err
	}
	if known != int64(len(ids)) {
		return fmt.Errorf("%w: project references %d members, %d exist", ErrUnknownMember, len(ids), known)
	}

	links := make([]models.ProjectMember, 0, len(ids))
	for _, id := range ids {
		links = append(links, models.ProjectMember{ProjectID: projectID, MemberID: id})
	}
	return tx.Create(&links).Error
}

func uniqueIDs(ids []uint) []uint {
	seen := make(map[uint]struct{}, len(ids))
	out := make([]uint, 0, len(ids))
	for _, id := range ids {
		if id == 0 {
			continue
		}
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}

// --- hydration ---

type memberLinkRow struct {
	ProjectID uint
	models.Member
}

func (s *Store) loadProjects(ctx context.Context, ids []uint) ([]models.Project, error) {
	var rows []models.Project
	if err := s.db.WithContext(ctx).Where("id IN ?", ids).Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("load projects: %w", err)
	}

	// keep the caller's ordering; rows deleted since the id scan are skipped
	byID := make(map[uint]models.Project, len(rows))
	for _, p := range rows {
		byID[p.ID] = p
	}
	ordered := make([]models.Project, 0, len(rows))
	for _, id := range ids {
		if p, ok := byID[id]; ok {
			ordered = append(ordered, p)
		}
	}

	if err := s.hydrate(ctx, ordered); err != nil {
		return nil, err
	}
	return ordered, nil
}

// hydrate attaches members to each project using a single join query.
func (s *Store) hydrate(ctx context.Context, projects []models.Project) error {
	if len(projects) == 0 {
		return nil
	}

	index := make(map[uint]int, len(projects))
	ids := make([]uint, 0, len(projects))
	for i := range projects {
		index[projects[i].ID] = i
		ids = append(ids, projects[i].ID)
		projects[i].Members = []models.Member{}
	}

	var links []memberLinkRow
	err := s.db.WithContext(ctx).
		Table("members").
		Select("project_members.project_id AS project_id, members.*").
		Joins("JOIN project_members ON project_members.member_id = members.id").
		Where("project_members.project_id IN ?", ids).
		Order("members.id").
		Scan(&links).Error
	if err != nil {
		return fmt.Errorf("load project members: %w", err)
	}

	for _, link := range links {
		if i, ok := index[link.ProjectID]; ok {
			projects[i].Members = append(projects[i].Members, link.Member)
		}
	}
	return nil
}
