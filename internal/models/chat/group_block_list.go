package chat

import "time"

// GroupBlockList is a group-scoped block, independent of the global
// user-to-user block list: a row prevents the user from joining or posting
// to that specific group.
type GroupBlockList struct {
	ID        string `gorm:"primaryKey;type:uuid;default:gen_random_uuid()"`
	ChatID    string `gorm:"index;not null;uniqueIndex:idx_group_block"`
	UserID    string `gorm:"index;not null;uniqueIndex:idx_group_block"`
	CreatedAt time.Time
}

func (GroupBlockList) TableName() string {
	return "group_block_list"
}
