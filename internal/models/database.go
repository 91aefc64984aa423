package models

import (
	"gorm.io/gorm"
)

// AutoMigrate creates or updates the local cache tables.
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&Project{},
		&Member{},
		&ProjectMember{},
		&Preference{},
	)
}

// SeedDefaultData inserts the sample members when the members table is empty,
// which only happens the first time the database is created.
func SeedDefaultData(db *gorm.DB) (bool, error) {
	var count int64
	if err := db.Model(&Member{}).Count(&count).Error; err != nil {
		return false, err
	}
	if count > 0 {
		return false, nil
	}

	members := SampleMembers()
	if err := db.Create(&members).Error; err != nil {
		return false, err
	}
	return true, nil
}
