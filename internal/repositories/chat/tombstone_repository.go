package chat

import (
	"errors"

	"messenger_backend/internal/models/chat"

	"gorm.io/gorm"
)

// DeletedChatRepository owns the per-user chat tombstones.
type DeletedChatRepository struct {
	DB *gorm.DB
}

func NewDeletedChatRepository(db *gorm.DB) *DeletedChatRepository {
	return &DeletedChatRepository{DB: db}
}

func (r *DeletedChatRepository) WithTx(tx *gorm.DB) *DeletedChatRepository {
	return &DeletedChatRepository{DB: tx}
}

func (r *DeletedChatRepository) Find(userID, chatID string) (*chat.DeletedChat, error) {
	var tombstone chat.DeletedChat
	err := r.DB.First(&tombstone, "user_id = ? AND chat_id = ?", userID, chatID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &tombstone, nil
}

func (r *DeletedChatRepository) Create(userID, chatID string) error {
	return r.DB.Create(&chat.DeletedChat{UserID: userID, ChatID: chatID}).Error
}

func (r *DeletedChatRepository) Delete(id string) error {
	return r.DB.Where("id = ?", id).Delete(&chat.DeletedChat{}).Error
}

// DeletedMessageRepository owns the per-user message tombstones.
type DeletedMessageRepository struct {
	DB *gorm.DB
}

func NewDeletedMessageRepository(db *gorm.DB) *DeletedMessageRepository {
	return &DeletedMessageRepository{DB: db}
}

func (r *DeletedMessageRepository) WithTx(tx *gorm.DB) *DeletedMessageRepository {
	return &DeletedMessageRepository{DB: tx}
}

func (r *DeletedMessageRepository) Exists(userID, messageID string) (bool, error) {
	var count int64
	err := r.DB.Model(&chat.DeletedMessage{}).
		Where("user_id = ? AND message_id = ?", userID, messageID).
		Count(&count).Error
	return count > 0, err
}

func (r *DeletedMessageRepository) Create(userID, messageID string) error {
	return r.DB.Create(&chat.DeletedMessage{UserID: userID, MessageID: messageID}).Error
}

// CountForMessage counts how many participants have tombstoned the message;
// reaching two in a private chat triggers the convergent hard delete.
func (r *DeletedMessageRepository) CountForMessage(messageID string) (int64, error) {
	var count int64
	err := r.DB.Model(&chat.DeletedMessage{}).
		Where("message_id = ?", messageID).
		Count(&count).Error
	return count, err
}

// GroupBlockListRepository owns the group-scoped block rows.
type GroupBlockListRepository struct {
	DB *gorm.DB
}

func NewGroupBlockListRepository(db *gorm.DB) *GroupBlockListRepository {
	return &GroupBlockListRepository{DB: db}
}

func (r *GroupBlockListRepository) Exists(userID, chatID string) (bool, error) {
	var count int64
	err := r.DB.Model(&chat.GroupBlockList{}).
		Where("user_id = ? AND chat_id = ?", userID, chatID).
		Count(&count).Error
	return count > 0, err
}

func (r *GroupBlockListRepository) Block(userID, chatID string) error {
	return r.DB.Create(&chat.GroupBlockList{UserID: userID, ChatID: chatID}).Error
}

func (r *GroupBlockListRepository) Unblock(userID, chatID string) error {
	return r.DB.Where("user_id = ? AND chat_id = ?", userID, chatID).
		Delete(&chat.GroupBlockList{}).Error
}
