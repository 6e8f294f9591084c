package chat

import (
	"errors"

	"messenger_backend/internal/models/chat"

	"gorm.io/gorm"
)

type MessageReactionRepository struct {
	DB *gorm.DB
}

func NewMessageReactionRepository(db *gorm.DB) *MessageReactionRepository {
	return &MessageReactionRepository{DB: db}
}

// Find returns the user's reaction on the message, or nil when there is none.
func (r *MessageReactionRepository) Find(userID, messageID string) (*chat.MessageReaction, error) {
	var reaction chat.MessageReaction
	err := r.DB.First(&reaction, "user_id = ? AND message_id = ?", userID, messageID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &reaction, nil
}

func (r *MessageReactionRepository) Create(reaction *chat.MessageReaction) error {
	return r.DB.Create(reaction).Error
}

func (r *MessageReactionRepository) UpdateValue(id, value string) error {
	return r.DB.Model(&chat.MessageReaction{}).Where("id = ?", id).
		Update("reaction", value).Error
}

func (r *MessageReactionRepository) Delete(id string) error {
	return r.DB.Where("id = ?", id).Delete(&chat.MessageReaction{}).Error
}

func (r *MessageReactionRepository) GetByMessage(messageID string) ([]chat.MessageReaction, error) {
	var reactions []chat.MessageReaction
	err := r.DB.Where("message_id = ?", messageID).Find(&reactions).Error
	return reactions, err
}
