package chat

import (
	"errors"

	"messenger_backend/internal/models/chat"

	"gorm.io/gorm"
)

type ChatRepository struct {
	DB *gorm.DB
}

func NewChatRepository(db *gorm.DB) *ChatRepository {
	return &ChatRepository{DB: db}
}

// WithTx returns a copy of the repository bound to the given transaction.
func (r *ChatRepository) WithTx(tx *gorm.DB) *ChatRepository {
	return &ChatRepository{DB: tx}
}

func (r *ChatRepository) Create(c *chat.Chat) error {
	return r.DB.Create(c).Error
}

// FindByID returns the chat with its participants.
func (r *ChatRepository) FindByID(id string) (*chat.Chat, error) {
	var c chat.Chat
	err := r.DB.Preload("Participants").First(&c, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &c, nil
}

// FindPrivateByPairKey looks up the private chat for an unordered user pair.
func (r *ChatRepository) FindPrivateByPairKey(pairKey string) (*chat.Chat, error) {
	var c chat.Chat
	err := r.DB.Preload("Participants").
		First(&c, "pair_key = ? AND type = ?", pairKey, chat.ChatTypePrivate).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &c, nil
}

func (r *ChatRepository) UpdateTitle(chatID, title string) error {
	return r.DB.Model(&chat.Chat{}).Where("id = ?", chatID).Update("title", title).Error
}

// FindAllVisibleByUser returns every chat the user participates in, minus the
// ones that user has tombstoned.
func (r *ChatRepository) FindAllVisibleByUser(userID string) ([]chat.Chat, error) {
	var chats []chat.Chat
	err := r.DB.
		Joins("JOIN chat_participants cp ON cp.chat_id = chats.id").
		Where("cp.user_id = ?", userID).
		Where("NOT EXISTS (SELECT 1 FROM deleted_chats dc WHERE dc.chat_id = chats.id AND dc.user_id = ?)", userID).
		Preload("Participants").
		Order("chats.updated_at DESC").
		Find(&chats).Error
	return chats, err
}

// Touch bumps updated_at so the chat surfaces on top of listings.
func (r *ChatRepository) Touch(chatID string) error {
	return r.DB.Model(&chat.Chat{}).Where("id = ?", chatID).
		Update("updated_at", gorm.Expr("now()")).Error
}

// DeleteCascade hard-deletes a chat and everything hanging off it. Callers
// run it inside a transaction via WithTx.
func (r *ChatRepository) DeleteCascade(chatID string) error {
	msgIDs := r.DB.Model(&chat.Message{}).Select("id").Where("chat_id = ?", chatID)

	if err := r.DB.Where("message_id IN (?)", msgIDs).Delete(&chat.MessageReaction{}).Error; err != nil {
		return err
	}
	if err := r.DB.Where("message_id IN (?)", msgIDs).Delete(&chat.MessageAttachment{}).Error; err != nil {
		return err
	}
	if err := r.DB.Where("message_id IN (?)", msgIDs).Delete(&chat.DeletedMessage{}).Error; err != nil {
		return err
	}
	if err := r.DB.Where("chat_id = ?", chatID).Delete(&chat.Message{}).Error; err != nil {
		return err
	}
	if err := r.DB.Where("chat_id = ?", chatID).Delete(&chat.Participant{}).Error; err != nil {
		return err
	}
	if err := r.DB.Where("chat_id = ?", chatID).Delete(&chat.GroupBlockList{}).Error; err != nil {
		return err
	}
	if err := r.DB.Where("chat_id = ?", chatID).Delete(&chat.DeletedChat{}).Error; err != nil {
		return err
	}
	return r.DB.Where("id = ?", chatID).Delete(&chat.Chat{}).Error
}
