package models

import "time"

// Member is a person that can be attached to projects.
type Member struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	RemoteID  *int64    `gorm:"uniqueIndex" json:"remote_id,omitempty"`
	Name      string    `gorm:"size:200;not null" json:"name" validate:"required"`
	Role      string    `gorm:"size:100" json:"role"`
	Avatar    string    `gorm:"size:500" json:"avatar,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (Member) TableName() string { return "members" }

// Equal compares members by identity only.
func (m Member) Equal(other Member) bool {
	return m.ID == other.ID
}

// SampleMembers is the fixed list seeded into a freshly created store.
func SampleMembers() []Member {
	return []Member{
		{Name: "Alice Martin", Role: "Project Manager"},
		{Name: "Bob Johnson", Role: "Developer"},
		{Name: "Carol White", Role: "Designer"},
		{Name: "David Brown", Role: "Developer"},
		{Name: "Emma Davis", Role: "QA Engineer"},
	}
}
