package chat

import "time"

type ChatType string

const (
	ChatTypePrivate ChatType = "private"
	ChatTypeGroup   ChatType = "group"
)

type Chat struct {
	ID        string   `gorm:"primaryKey;type:uuid;default:gen_random_uuid()" json:"id"`
	Type      ChatType `gorm:"size:10;default:'private';not null" json:"type"`
	Title     *string  `gorm:"size:40" json:"title,omitempty"`
	CreatorID string   `gorm:"index;not null" json:"creatorId"`

	// Sorted "userA:userB" for private chats, null for groups. The unique
	// index is what closes the concurrent-create race on a user pair.
	PairKey *string `gorm:"uniqueIndex" json:"-"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"-"`

	Participants []Participant `gorm:"foreignKey:ChatID" json:"participants,omitempty"`
}

func (Chat) TableName() string {
	return "chats"
}

// PairKeyFor builds the canonical key for an unordered private-chat pair.
func PairKeyFor(userA, userB string) string {
	if userA < userB {
		return userA + ":" + userB
	}
	return userB + ":" + userA
}
