package store

import (
	"context"
	"fmt"
	"strings"

	"github.com/SERHANISalaheddine/Project-Manager-Modile-App-sub000/internal/models"
	"gorm.io/gorm"
)

// CreateMember inserts m and returns its id.
func (s *Store) CreateMember(ctx context.Context, m *models.Member) (uint, error) {
	if m == nil || strings.TrimSpace(m.Name) == "" {
		return 0, s.fail("create_member", fmt.Errorf("member name is required"))
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	row := *m
	row.ID = 0
	if err := s.db.WithContext(ctx).Create(&row).Error; err != nil {
		return 0, s.fail("create_member", err)
	}
	*m = row
	return row.ID, nil
}

// Members returns every member ordered by id.
func (s *Store) Members(ctx context.Context) ([]models.Member, error) {
	var members []models.Member
	if err := s.db.WithContext(ctx).Order("id").Find(&members).Error; err != nil {
		return nil, fmt.Errorf("list members: %w", err)
	}
	return members, nil
}

// MemberByID returns the member; ok is false when no row matches.
func (s *Store) MemberByID(ctx context.Context, id uint) (*models.Member, bool, error) {
	var m models.Member
	if err := s.db.WithContext(ctx).First(&m, id).Error; err != nil {
		if notFound(err) {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("get member: %w", err)
	}
	return &m, true, nil
}

// UpdateMember overwrites name, role and avatar.
func (s *Store) UpdateMember(ctx context.Context, m *models.Member) error {
	if m == nil || strings.TrimSpace(m.Name) == "" {
		return s.fail("update_member", fmt.Errorf("member name is required"))
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	result := s.db.WithContext(ctx).Model(&models.Member{}).Where("id = ?", m.ID).Updates(map[string]interface{}{
		"name":   m.Name,
		"role":   m.Role,
		"avatar": m.Avatar,
	})
	if result.Error != nil {
		return s.fail("update_member", result.Error)
	}
	if result.RowsAffected == 0 {
		return s.fail("update_member", ErrNotFound)
	}
	return nil
}

// DeleteMember detaches the member from every project and removes it.
func (s *Store) DeleteMember(ctx context.Context, id uint) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("member_id = ?", id).Delete(&models.ProjectMember{}).Error; err != nil {
			return err
		}
		result := tx.Delete(&models.Member{}, id)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return ErrNotFound
		}
		return nil
	})
	if err != nil {
		return s.fail("delete_member", err)
	}
	return nil
}

// UpsertRemoteMember creates or refreshes the cached copy of a remote user.
func (s *Store) UpsertRemoteMember(ctx context.Context, m *models.Member) (uint, error) {
	if m == nil || m.RemoteID == nil {
		return 0, s.fail("upsert_member", fmt.Errorf("remote member without remote id"))
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return upsertMemberTx(tx, m)
	})
	if err != nil {
		return 0, s.fail("upsert_member", err)
	}
	return m.ID, nil
}

// upsertMemberTx matches on remote id and sets m.ID to the local row.
func upsertMemberTx(tx *gorm.DB, m *models.Member) error {
	var existing models.Member
	err := tx.Where("remote_id = ?", *m.RemoteID).First(&existing).Error
	switch {
	case err == nil:
		m.ID = existing.ID
		return tx.Model(&existing).Updates(map[string]interface{}{
			"name":   m.Name,
			"role":   m.Role,
			"avatar": m.Avatar,
		}).Error
	case notFound(err):
		row := *m
		row.ID = 0
		if strings.TrimSpace(row.Name) == "" {
			row.Name = fmt.Sprintf("User %d", *m.RemoteID)
		}
		if err := tx.Create(&row).Error; err != nil {
			return err
		}
		m.ID = row.ID
		return nil
	default:
		return err
	}
}
