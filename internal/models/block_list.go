package models

import "time"

// BlockList is the user-to-user block relation. UserID is the blocker.
type BlockList struct {
	ID            string `gorm:"primaryKey;type:uuid;default:gen_random_uuid()"`
	UserID        string `gorm:"index;not null;uniqueIndex:idx_block_pair"`
	BlockedUserID string `gorm:"not null;uniqueIndex:idx_block_pair"`
	CreatedAt     time.Time
}

func (BlockList) TableName() string {
	return "block_list"
}
