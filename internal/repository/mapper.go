package repository

import (
	"github.com/SERHANISalaheddine/Project-Manager-Modile-App-sub000/internal/dto"
	"github.com/SERHANISalaheddine/Project-Manager-Modile-App-sub000/internal/models"
	"github.com/SERHANISalaheddine/Project-Manager-Modile-App-sub000/pkg/logger"
)

// ToModel copies a remote project into a local entity. The local id stays 0
// until the project is cached.
func ToModel(resp dto.ProjectResponse) models.Project {
	status, ok := models.ParseProjectStatus(resp.Status)
	if !ok {
		logger.Warn().Int64("remote_id", resp.ID).Str("status", resp.Status).Msg("unknown project status, treating as created")
		status = models.StatusCreated
	}

	remoteID := resp.ID
	p := models.Project{
		RemoteID:    &remoteID,
		Title:       resp.Title,
		Description: resp.Description,
		Status:      status,
		CreatedBy:   resp.OwnerID,
		DueDate:     resp.DueDate,
		CreatedAt:   resp.CreatedAt.UTC(),
		UpdatedAt:   resp.UpdatedAt.UTC(),
		Members:     make([]models.Member, 0, len(resp.Members)),
	}
	for _, m := range resp.Members {
		p.Members = append(p.Members, MemberToModel(m))
	}
	return p
}

func MemberToModel(m dto.MemberResponse) models.Member {
	remoteID := m.UserID
	return models.Member{
		RemoteID: &remoteID,
		Name:     m.Name,
		Role:     m.Role,
		Avatar:   m.ProfilePicture,
	}
}

// UserToMember maps a user listing entry onto a selectable member.
func UserToMember(u dto.UserResponse) models.Member {
	remoteID := u.ID
	return models.Member{
		RemoteID: &remoteID,
		Name:     u.FullName(),
		Avatar:   u.ProfilePicture,
	}
}
