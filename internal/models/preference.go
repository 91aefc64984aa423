package models

import "time"

// Preference is one persisted key/value pair of session and UI state.
type Preference struct {
	Key       string    `gorm:"primaryKey;size:100" json:"key"`
	Value     string    `gorm:"type:text" json:"value"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (Preference) TableName() string { return "preferences" }
