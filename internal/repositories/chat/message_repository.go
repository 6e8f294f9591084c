package chat

import (
	"errors"
	"time"

	"messenger_backend/internal/models/chat"

	"gorm.io/gorm"
)

type MessageRepository struct {
	DB *gorm.DB
}

func NewMessageRepository(db *gorm.DB) *MessageRepository {
	return &MessageRepository{DB: db}
}

func (r *MessageRepository) WithTx(tx *gorm.DB) *MessageRepository {
	return &MessageRepository{DB: tx}
}

func (r *MessageRepository) Create(m *chat.Message) error {
	return r.DB.Create(m).Error
}

// FindInChat returns the message with its attachments, or nil when it does
// not exist in that chat.
func (r *MessageRepository) FindInChat(messageID, chatID string) (*chat.Message, error) {
	var m chat.Message
	err := r.DB.Preload("Attachments").Preload("Reactions").
		First(&m, "id = ? AND chat_id = ?", messageID, chatID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &m, nil
}

// FindOwned is FindInChat restricted to messages authored by senderID.
func (r *MessageRepository) FindOwned(messageID, chatID, senderID string) (*chat.Message, error) {
	var m chat.Message
	err := r.DB.Preload("Attachments").
		First(&m, "id = ? AND chat_id = ? AND sender_id = ?", messageID, chatID, senderID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &m, nil
}

// ListVisible returns the chat's messages newest first, minus the ones
// tombstoned for userID, optionally filtered by a body regexp and a lower
// createdAt bound.
func (r *MessageRepository) ListVisible(chatID, userID, search string, since *time.Time) ([]chat.Message, error) {
	q := r.DB.Where("chat_id = ?", chatID).
		Where("NOT EXISTS (SELECT 1 FROM deleted_messages dm WHERE dm.message_id = messages.id AND dm.user_id = ?)", userID)

	if search != "" {
		q = q.Where("message ~ ?", search)
	}
	if since != nil {
		q = q.Where("created_at >= ?", *since)
	}

	var messages []chat.Message
	err := q.Preload("Attachments").Preload("Reactions").
		Order("created_at DESC").
		Find(&messages).Error
	return messages, err
}

// LastVisible returns the newest message of the chat still visible to the
// user, or nil for an empty chat.
func (r *MessageRepository) LastVisible(chatID, userID string) (*chat.Message, error) {
	var m chat.Message
	err := r.DB.Where("chat_id = ?", chatID).
		Where("NOT EXISTS (SELECT 1 FROM deleted_messages dm WHERE dm.message_id = messages.id AND dm.user_id = ?)", userID).
		Order("created_at DESC").
		First(&m).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &m, nil
}

// CountUnread counts messages in the chat not yet read and not sent by the
// user, excluding the ones the user has tombstoned.
func (r *MessageRepository) CountUnread(chatID, userID string) (int64, error) {
	var count int64
	err := r.DB.Model(&chat.Message{}).
		Where("chat_id = ? AND is_read = false AND sender_id <> ?", chatID, userID).
		Where("NOT EXISTS (SELECT 1 FROM deleted_messages dm WHERE dm.message_id = messages.id AND dm.user_id = ?)", userID).
		Count(&count).Error
	return count, err
}

// MarkRead flips is_read on every message in the chat not sent by the user.
func (r *MessageRepository) MarkRead(chatID, userID string) error {
	return r.DB.Model(&chat.Message{}).
		Where("chat_id = ? AND sender_id <> ? AND is_read = false", chatID, userID).
		Update("is_read", true).Error
}

func (r *MessageRepository) UpdateBody(messageID, body string) error {
	return r.DB.Model(&chat.Message{}).Where("id = ?", messageID).
		Updates(map[string]interface{}{"message": body, "is_edited": true}).Error
}

// ReplaceAttachments removes every attachment of the message and inserts the
// new set. Run inside a transaction via WithTx.
func (r *MessageRepository) ReplaceAttachments(messageID string, attachments []chat.MessageAttachment) error {
	if err := r.DB.Where("message_id = ?", messageID).Delete(&chat.MessageAttachment{}).Error; err != nil {
		return err
	}
	if len(attachments) == 0 {
		return nil
	}
	return r.DB.Create(&attachments).Error
}

// HardDelete removes the message together with attachments, reactions and
// any tombstones pointing at it. Run inside a transaction via WithTx.
func (r *MessageRepository) HardDelete(messageID string) error {
	if err := r.DB.Where("message_id = ?", messageID).Delete(&chat.MessageAttachment{}).Error; err != nil {
		return err
	}
	if err := r.DB.Where("message_id = ?", messageID).Delete(&chat.MessageReaction{}).Error; err != nil {
		return err
	}
	if err := r.DB.Where("message_id = ?", messageID).Delete(&chat.DeletedMessage{}).Error; err != nil {
		return err
	}
	return r.DB.Where("id = ?", messageID).Delete(&chat.Message{}).Error
}

// TombstoneAllForUser writes a DeletedMessage for every message in the chat
// the user has not already tombstoned (used by chat deletion).
func (r *MessageRepository) TombstoneAllForUser(chatID, userID string) error {
	return r.DB.Exec(`
		INSERT INTO deleted_messages (id, user_id, message_id, created_at)
		SELECT gen_random_uuid(), ?, m.id, now()
		FROM messages m
		WHERE m.chat_id = ?
		  AND NOT EXISTS (
			SELECT 1 FROM deleted_messages dm
			WHERE dm.user_id = ? AND dm.message_id = m.id
		  )`, userID, chatID, userID).Error
}
