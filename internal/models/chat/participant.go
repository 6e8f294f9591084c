package chat

import "time"

type ParticipantRole string

const (
	RoleUser  ParticipantRole = "user"
	RoleAdmin ParticipantRole = "admin"
	RoleOwner ParticipantRole = "owner"
)

// Participant is one user's membership in a chat. Role only means anything
// for group chats; private memberships keep the default for symmetry.
type Participant struct {
	ID       string          `gorm:"primaryKey;type:uuid;default:gen_random_uuid()" json:"id"`
	ChatID   string          `gorm:"index;not null;uniqueIndex:idx_chat_user" json:"chatId"`
	UserID   string          `gorm:"index;not null;uniqueIndex:idx_chat_user" json:"userId"`
	Role     ParticipantRole `gorm:"size:10;default:'user'" json:"role"`
	JoinedAt time.Time       `json:"joinedAt"`
}

func (Participant) TableName() string {
	return "chat_participants"
}

func ValidRole(role string) bool {
	switch ParticipantRole(role) {
	case RoleUser, RoleAdmin, RoleOwner:
		return true
	default:
		return false
	}
}
