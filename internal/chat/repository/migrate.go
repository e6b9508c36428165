package repository

import (
	"messaging_service/internal/chat/domain"

	"gorm.io/gorm"
)

// AutoMigrate create or update every chat table
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&domain.User{},
		&domain.Group{},
		&domain.GroupMember{},
		&domain.Chat{},
		&domain.Content{},
		&domain.Message{},
		&domain.ReadPosition{},
	)
}
