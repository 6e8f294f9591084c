package chat

import "time"

// MessageReaction holds at most one row per (user, message); re-sending the
// same value removes it, a different value overwrites it.
type MessageReaction struct {
	ID        string    `gorm:"primaryKey;type:uuid;default:gen_random_uuid()" json:"id"`
	MessageID string    `gorm:"index;not null;uniqueIndex:idx_reaction_user" json:"messageId"`
	UserID    string    `gorm:"not null;uniqueIndex:idx_reaction_user" json:"userId"`
	Reaction  string    `gorm:"size:10;not null" json:"reaction"`
	CreatedAt time.Time `json:"createdAt"`
}

func (MessageReaction) TableName() string {
	return "message_reactions"
}
