package repositories

import (
	"messenger_backend/internal/models"

	"gorm.io/gorm"
)

type BlockListRepository struct {
	DB *gorm.DB
}

func NewBlockListRepository(db *gorm.DB) *BlockListRepository {
	return &BlockListRepository{DB: db}
}

// IsBlocked reports whether blockerID has blocked blockedID. The relation is
// directional: A blocking B says nothing about B blocking A.
func (r *BlockListRepository) IsBlocked(blockerID, blockedID string) (bool, error) {
	var count int64
	err := r.DB.Model(&models.BlockList{}).
		Where("user_id = ? AND blocked_user_id = ?", blockerID, blockedID).
		Count(&count).Error
	return count > 0, err
}

func (r *BlockListRepository) Block(blockerID, blockedID string) error {
	entry := &models.BlockList{UserID: blockerID, BlockedUserID: blockedID}
	return r.DB.Create(entry).Error
}

func (r *BlockListRepository) Unblock(blockerID, blockedID string) error {
	return r.DB.Where("user_id = ? AND blocked_user_id = ?", blockerID, blockedID).
		Delete(&models.BlockList{}).Error
}
