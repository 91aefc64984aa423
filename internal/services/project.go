package services

import (
	"errors"
	"fmt"
	"strings"

	"github.com/SERHANISalaheddine/Project-Manager-Modile-App-sub000/internal/dto"
	"github.com/SERHANISalaheddine/Project-Manager-Modile-App-sub000/internal/records"
	"github.com/SERHANISalaheddine/Project-Manager-Modile-App-sub000/pkg/logger"
	"github.com/SERHANISalaheddine/Project-Manager-Modile-App-sub000/pkg/response"
	"gorm.io/gorm"
)

const projectOrder = "created_at DESC, id DESC"

type ProjectService struct {
	db *gorm.DB
}

func NewProjectService(db *gorm.DB) *ProjectService {
	return &ProjectService{db: db}
}

// Create stores a project owned by ownerID with the requested members.
func (s *ProjectService) Create(ownerID uint, req *dto.ProjectRequest) (*dto.ProjectResponse, error) {
	project := records.Project{
		Title:       strings.TrimSpace(req.Title),
		Description: req.Description,
		Status:      projectStatus(req.Status),
		OwnerID:     ownerID,
		DueDate:     req.DueDate,
	}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&project).Error; err != nil {
			return err
		}
		return replaceMembers(tx, project.ID, uniqueUserIDs(req.MemberIDs))
	})
	if err != nil {
		return nil, err
	}

	logger.Info().Uint("project_id", project.ID).Uint("owner_id", ownerID).Msg("project created")
	return s.load(project.ID)
}

func (s *ProjectService) GetByID(actorID, id uint) (*dto.ProjectResponse, error) {
	if _, err := accessibleProject(s.db, id, actorID); err != nil {
		return nil, err
	}
	return s.load(id)
}

// Update replaces the project's fields and member set. Members that stay keep
// their role.
func (s *ProjectService) Update(actorID, id uint, req *dto.ProjectRequest) (*dto.ProjectResponse, error) {
	project, err := ownedProject(s.db, id, actorID)
	if err != nil {
		return nil, err
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(project).Updates(map[string]interface{}{
			"title":       strings.TrimSpace(req.Title),
			"description": req.Description,
			"status":      projectStatus(req.Status),
			"due_date":    req.DueDate,
		}).Error; err != nil {
			return err
		}
		return replaceMembers(tx, id, uniqueUserIDs(req.MemberIDs))
	})
	if err != nil {
		return nil, err
	}
	return s.load(id)
}

func (s *ProjectService) Delete(actorID, id uint) error {
	if _, err := ownedProject(s.db, id, actorID); err != nil {
		return err
	}

	return s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("project_id = ?", id).Delete(&records.Task{}).Error; err != nil {
			return err
		}
		if err := tx.Where("project_id = ?", id).Delete(&records.ProjectMember{}).Error; err != nil {
			return err
		}
		return tx.Delete(&records.Project{}, id).Error
	})
}

// ListOwned pages through the projects userID owns, newest first.
func (s *ProjectService) ListOwned(userID uint, page dto.PageRequest) (*dto.Page[dto.ProjectResponse], error) {
	query := s.db.Model(&records.Project{}).Where("owner_id = ?", userID)
	return findPage(query, page, projectOrder, projectResponse, withMembers)
}

// ListMember pages through the projects userID has been added to, newest first.
func (s *ProjectService) ListMember(userID uint, page dto.PageRequest) (*dto.Page[dto.ProjectResponse], error) {
	memberOf := s.db.Model(&records.ProjectMember{}).Select("project_id").Where("user_id = ?", userID)
	query := s.db.Model(&records.Project{}).Where("id IN (?)", memberOf)
	return findPage(query, page, projectOrder, projectResponse, withMembers)
}

func (s *ProjectService) AddMember(actorID, projectID uint, req *dto.AddMemberRequest) (*dto.ProjectMemberResponse, error) {
	if _, err := ownedProject(s.db, projectID, actorID); err != nil {
		return nil, err
	}

	var user records.User
	if err := s.db.First(&user, req.UserID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errUserNotFound
		}
		return nil, err
	}

	exists, err := isMember(s.db, projectID, user.ID)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, response.NewConflict("user is already a member of this project")
	}

	role := strings.TrimSpace(req.Role)
	if role == "" {
		role = records.RoleMember
	}
	member := records.ProjectMember{ProjectID: projectID, UserID: user.ID, Role: role}
	if err := s.db.Create(&member).Error; err != nil {
		return nil, err
	}
	member.User = &user

	resp := projectMemberResponse(&member)
	return &resp, nil
}

func (s *ProjectService) ListMembers(actorID, projectID uint, page dto.PageRequest) (*dto.Page[dto.ProjectMemberResponse], error) {
	if _, err := accessibleProject(s.db, projectID, actorID); err != nil {
		return nil, err
	}
	query := s.db.Model(&records.ProjectMember{}).Where("project_id = ?", projectID)
	return findPage(query, page, "id", projectMemberResponse, func(db *gorm.DB) *gorm.DB {
		return db.Preload("User")
	})
}

// RemoveMember lets the owner remove anyone and a member remove themselves.
// Tasks the member was assigned in this project become unassigned.
func (s *ProjectService) RemoveMember(actorID, projectID, userID uint) error {
	project, err := findProject(s.db, projectID)
	if err != nil {
		return err
	}
	if project.OwnerID != actorID && userID != actorID {
		return errNotOwner
	}

	return s.db.Transaction(func(tx *gorm.DB) error {
		result := tx.Where("project_id = ? AND user_id = ?", projectID, userID).Delete(&records.ProjectMember{})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return response.NewNotFound("member not found")
		}
		return tx.Model(&records.Task{}).
			Where("project_id = ? AND assignee_id = ?", projectID, userID).
			Update("assignee_id", nil).Error
	})
}

func (s *ProjectService) load(id uint) (*dto.ProjectResponse, error) {
	var project records.Project
	if err := withMembers(s.db).First(&project, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errProjectNotFound
		}
		return nil, err
	}
	resp := projectResponse(&project)
	return &resp, nil
}

// replaceMembers makes userIDs the member set of the project. Unknown users
// fail the whole write.
func replaceMembers(tx *gorm.DB, projectID uint, userIDs []uint) error {
	if len(userIDs) > 0 {
		var found int64
		if err := tx.Model(&records.User{}).Where("id IN ?", userIDs).Count(&found).Error; err != nil {
			return err
		}
		if found != int64(len(userIDs)) {
			return response.NewBadRequest("member_ids contains an unknown user")
		}
	}

	var existing []records.ProjectMember
	if err := tx.Where("project_id = ?", projectID).Find(&existing).Error; err != nil {
		return err
	}
	roles := make(map[uint]string, len(existing))
	for _, m := range existing {
		roles[m.UserID] = m.Role
	}

	if err := tx.Where("project_id = ?", projectID).Delete(&records.ProjectMember{}).Error; err != nil {
		return err
	}
	if len(userIDs) == 0 {
		return nil
	}

	members := make([]records.ProjectMember, 0, len(userIDs))
	for _, userID := range userIDs {
		role := roles[userID]
		if role == "" {
			role = records.RoleMember
		}
		members = append(members, records.ProjectMember{ProjectID: projectID, UserID: userID, Role: role})
	}
	if err := tx.Create(&members).Error; err != nil {
		return fmt.Errorf("insert project members: %w", err)
	}
	return nil
}

func projectStatus(status string) string {
	if status == "" {
		return records.ProjectStatusCreated
	}
	return status
}
