package chat

import "time"

// DeletedChat is a per-user tombstone hiding a chat from that user's list
// only; the chat and its messages stay intact for everyone else.
type DeletedChat struct {
	ID        string `gorm:"primaryKey;type:uuid;default:gen_random_uuid()"`
	UserID    string `gorm:"index;not null;uniqueIndex:idx_deleted_chat"`
	ChatID    string `gorm:"index;not null;uniqueIndex:idx_deleted_chat"`
	CreatedAt time.Time
}

func (DeletedChat) TableName() string {
	return "deleted_chats"
}
