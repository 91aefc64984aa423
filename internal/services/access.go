package services

import (
	"errors"

	"github.com/SERHANISalaheddine/Project-Manager-Modile-App-sub000/internal/records"
	"github.com/SERHANISalaheddine/Project-Manager-Modile-App-sub000/pkg/response"
	"gorm.io/gorm"
)

var (
	errProjectNotFound = response.NewNotFound("project not found")
	errNotProjectUser  = response.NewForbidden("you are not a member of this project")
	errNotOwner        = response.NewForbidden("only the project owner can do this")
)

func findProject(db *gorm.DB, projectID uint) (*records.Project, error) {
	var project records.Project
	if err := db.First(&project, projectID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errProjectNotFound
		}
		return nil, err
	}
	return &project, nil
}

func isMember(db *gorm.DB, projectID, userID uint) (bool, error) {
	var count int64
	err := db.Model(&records.ProjectMember{}).
		Where("project_id = ? AND user_id = ?", projectID, userID).
		Count(&count).Error
	return count > 0, err
}

// accessibleProject loads a project the user owns or belongs to.
func accessibleProject(db *gorm.DB, projectID, userID uint) (*records.Project, error) {
	project, err := findProject(db, projectID)
	if err != nil {
		return nil, err
	}
	if project.OwnerID == userID {
		return project, nil
	}
	ok, err := isMember(db, projectID, userID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, errNotProjectUser
	}
	return project, nil
}

func ownedProject(db *gorm.DB, projectID, userID uint) (*records.Project, error) {
	project, err := findProject(db, projectID)
	if err != nil {
		return nil, err
	}
	if project.OwnerID != userID {
		return nil, errNotOwner
	}
	return project, nil
}

// visibleProjectIDs selects the ids of every project the user owns or belongs to.
func visibleProjectIDs(db *gorm.DB, userID uint) (*gorm.DB, *gorm.DB) {
	owned := db.Model(&records.Project{}).Select("id").Where("owner_id = ?", userID)
	member := db.Model(&records.ProjectMember{}).Select("project_id").Where("user_id = ?", userID)
	return owned, member
}
