package dto

import "encoding/json"

type AttachmentPayload struct {
	FileURL      string          `json:"fileUrl" validate:"required,max=255"`
	ThumbnailURL *string         `json:"thumbnailUrl,omitempty" validate:"omitempty,max=255"`
	Meta         json.RawMessage `json:"meta,omitempty"`
}

type SendMessageRequest struct {
	Message          string              `json:"message" validate:"required_without=Attachments"`
	Type             string              `json:"type,omitempty" validate:"omitempty,is-message-type"`
	RepliedMessageID *string             `json:"repliedMessageId,omitempty" validate:"omitempty,uuid"`
	Attachments      []AttachmentPayload `json:"attachments,omitempty" validate:"omitempty,dive"`
}

type EditMessageRequest struct {
	Message     string              `json:"message" validate:"required"`
	Attachments []AttachmentPayload `json:"attachments,omitempty" validate:"omitempty,dive"`
}

type ReactRequest struct {
	Reaction string `json:"reaction" validate:"required,max=10"`
}
