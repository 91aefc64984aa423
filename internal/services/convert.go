package services

import (
	"github.com/SERHANISalaheddine/Project-Manager-Modile-App-sub000/internal/dto"
	"github.com/SERHANISalaheddine/Project-Manager-Modile-App-sub000/internal/records"
)

func userResponse(u *records.User) dto.UserResponse {
	return dto.UserResponse{
		ID:             int64(u.ID),
		Email:          u.Email,
		FirstName:      u.FirstName,
		LastName:       u.LastName,
		ProfilePicture: u.ProfilePicture,
		EmailVerified:  u.EmailVerified,
		CreatedAt:      u.CreatedAt,
	}
}

func projectResponse(p *records.Project) dto.ProjectResponse {
	resp := dto.ProjectResponse{
		ID:          int64(p.ID),
		Title:       p.Title,
		Description: p.Description,
		Status:      p.Status,
		OwnerID:     int64(p.OwnerID),
		DueDate:     p.DueDate,
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
		Members:     make([]dto.MemberResponse, 0, len(p.Members)),
	}
	for _, m := range p.Members {
		member := dto.MemberResponse{UserID: int64(m.UserID), Role: m.Role}
		if m.User != nil {
			member.Name = m.User.FullName()
			member.ProfilePicture = m.User.ProfilePicture
		}
		resp.Members = append(resp.Members, member)
	}
	return resp
}

func projectMemberResponse(m *records.ProjectMember) dto.ProjectMemberResponse {
	resp := dto.ProjectMemberResponse{
		ProjectID: int64(m.ProjectID),
		Role:      m.Role,
		JoinedAt:  m.CreatedAt,
	}
	if m.User != nil {
		resp.User = userResponse(m.User)
	}
	return resp
}

func taskResponse(t *records.Task) dto.TaskResponse {
	resp := dto.TaskResponse{
		ID:          int64(t.ID),
		ProjectID:   int64(t.ProjectID),
		Title:       t.Title,
		Description: t.Description,
		Priority:    t.Priority,
		Status:      t.Status,
		CreatorID:   int64(t.CreatorID),
		DueDate:     t.DueDate,
		CreatedAt:   t.CreatedAt,
		UpdatedAt:   t.UpdatedAt,
	}
	if t.AssigneeID != nil {
		id := int64(*t.AssigneeID)
		resp.AssigneeID = &id
	}
	return resp
}
