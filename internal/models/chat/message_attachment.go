package chat

import (
	"time"

	"gorm.io/datatypes"
)

// MessageAttachment is owned exclusively by its message; editing a message
// with new files replaces all rows, and hard-deleting the message removes
// them. URLs arrive already derived from the upload/resize collaborator.
type MessageAttachment struct {
	ID           string  `gorm:"primaryKey;type:uuid;default:gen_random_uuid()" json:"id"`
	MessageID    string  `gorm:"index;not null" json:"messageId"`
	FileURL      string  `gorm:"not null" json:"fileUrl"`
	ThumbnailURL *string `json:"thumbnailUrl,omitempty"`

	// Dimensions, byte size, mime type as reported by the resize step.
	Meta datatypes.JSON `json:"meta,omitempty"`

	CreatedAt time.Time `json:"createdAt"`
}

func (MessageAttachment) TableName() string {
	return "message_attachments"
}
