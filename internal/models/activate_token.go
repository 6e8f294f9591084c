package models

import "time"

// ActivateToken is a one-shot token mailed at signup; redeeming it flips the
// user to active.
type ActivateToken struct {
	ID        string `gorm:"primaryKey;type:uuid;default:gen_random_uuid()"`
	UserID    string `gorm:"uniqueIndex;not null"`
	Token     string `gorm:"uniqueIndex;not null"`
	ExpiresAt time.Time
	CreatedAt time.Time
}

func (ActivateToken) TableName() string {
	return "activate_tokens"
}
