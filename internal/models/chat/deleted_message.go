package chat

import "time"

// DeletedMessage is a per-user message tombstone. Once both private-chat
// participants hold one for the same message, the message is physically
// removed together with the tombstones.
type DeletedMessage struct {
	ID        string `gorm:"primaryKey;type:uuid;default:gen_random_uuid()"`
	UserID    string `gorm:"index;not null;uniqueIndex:idx_deleted_message"`
	MessageID string `gorm:"index;not null;uniqueIndex:idx_deleted_message"`
	CreatedAt time.Time
}

func (DeletedMessage) TableName() string {
	return "deleted_messages"
}
