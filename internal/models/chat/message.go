package chat

import "time"

type MessageType string

const (
	MessageTypeText   MessageType = "text"
	MessageTypeImage  MessageType = "image"
	MessageTypeAudio  MessageType = "audio"
	MessageTypeVideo  MessageType = "video"
	MessageTypeSystem MessageType = "system"
)

type Message struct {
	ID       string      `gorm:"primaryKey;type:uuid;default:gen_random_uuid()" json:"id"`
	ChatID   string      `gorm:"index;not null" json:"chatId"`
	SenderID string      `gorm:"index;not null" json:"senderId"`
	Type     MessageType `gorm:"size:10;default:'text';not null" json:"messageType"`
	Body     string      `gorm:"column:message;type:text" json:"message"`

	// Intentionally not a foreign key: the target may be tombstoned for one
	// side only, which is checked at creation time instead.
	RepliedMessageID *string `gorm:"index" json:"repliedMessageId,omitempty"`

	IsEdited  bool      `gorm:"default:false" json:"isEdited"`
	IsRead    bool      `gorm:"default:false" json:"isRead"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"-"`

	Attachments []MessageAttachment `gorm:"foreignKey:MessageID" json:"attachments,omitempty"`
	Reactions   []MessageReaction   `gorm:"foreignKey:MessageID" json:"reactions,omitempty"`
}

func (Message) TableName() string {
	return "messages"
}
