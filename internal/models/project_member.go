package models

// ProjectMember is a row of the project/member join table. The pair is the primary key.
type ProjectMember struct {
	ProjectID uint `gorm:"primaryKey;autoIncrement:false" json:"project_id"`
	MemberID  uint `gorm:"primaryKey;autoIncrement:false;index" json:"member_id"`
}

func (ProjectMember) TableName() string { return "project_members" }
