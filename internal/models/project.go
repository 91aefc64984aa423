package models

import (
	"strings"
	"time"
)

// ProjectStatus is the lifecycle state of a project.
type ProjectStatus string

const (
	StatusCreated    ProjectStatus = "created"
	StatusInProgress ProjectStatus = "in_progress"
	StatusCompleted  ProjectStatus = "completed"
)

// Valid reports whether s is one of the known statuses.
func (s ProjectStatus) Valid() bool {
	switch s {
	case StatusCreated, StatusInProgress, StatusCompleted:
		return true
	}
	return false
}

// ParseProjectStatus maps wire spellings ("IN_PROGRESS", "in progress") onto a status.
func ParseProjectStatus(raw string) (ProjectStatus, bool) {
	normalized := strings.ToLower(strings.TrimSpace(raw))
	normalized = strings.NewReplacer(" ", "_", "-", "_").Replace(normalized)
	s := ProjectStatus(normalized)
	if s == "" {
		return StatusCreated, true
	}
	return s, s.Valid()
}

// Project is the locally cached copy of a project.
type Project struct {
	ID          uint          `gorm:"primaryKey" json:"id"`
	RemoteID    *int64        `gorm:"uniqueIndex" json:"remote_id,omitempty"` // nil for rows created offline
	Title       string        `gorm:"size:200;not null" json:"title" validate:"required,max=200"`
	Description string        `gorm:"type:text" json:"description"`
	Status      ProjectStatus `gorm:"size:20;not null;default:created" json:"status" validate:"omitempty,project_status"`
	CreatedBy   int64         `json:"created_by"`
	DueDate     *time.Time    `json:"due_date,omitempty"`
	CreatedAt   time.Time     `gorm:"index" json:"created_at"`
	UpdatedAt   time.Time     `json:"updated_at"`
	Members     []Member      `gorm:"-" json:"members"`
}

func (Project) TableName() string { return "projects" }

// IsValid reports whether the project can be persisted: a non-blank title and a known status.
func (p *Project) IsValid() bool {
	if strings.TrimSpace(p.Title) == "" {
		return false
	}
	return p.Status == "" || p.Status.Valid()
}

// MemberIDs returns the ids of the attached members in order.
func (p *Project) MemberIDs() []uint {
	ids := make([]uint, 0, len(p.Members))
	for _, m := range p.Members {
		ids = append(ids, m.ID)
	}
	return ids
}
