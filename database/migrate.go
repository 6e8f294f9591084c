package database

import (
	"messenger_backend/internal/models"
	"messenger_backend/internal/models/chat"

	"gorm.io/gorm"
)

// Migrate creates or updates every table the service owns.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.User{},
		&models.ActivateToken{},
		&models.BlockList{},
		&chat.Chat{},
		&chat.Participant{},
		&chat.Message{},
		&chat.MessageAttachment{},
		&chat.MessageReaction{},
		&chat.DeletedChat{},
		&chat.DeletedMessage{},
		&chat.GroupBlockList{},
	)
}
