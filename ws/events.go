package ws

import "encoding/json"

// Message events; a server-to-client frame carries the same name as the
// client event that caused it.
const (
	EventSendMessage   = "send_message"
	EventEditMessage   = "edit_message"
	EventUnsendMessage = "unsend_message"
	EventRateMessage   = "rate_message"
)

// Presence events, server-to-client only.
const (
	EventUserOnline  = "online"
	EventUserOffline = "offline"
)

// Handshake failures are reported as a typed event before the connection is
// closed, so clients can distinguish a missing token from a bad one.
const (
	EventAuthenticationError    = "authentication_error"
	EventTokenVerificationError = "token_verification_error"
	EventUserNotFoundError      = "user_not_found_error"
)

// IncomingEvent is the envelope for every client-to-server frame.
type IncomingEvent struct {
	Event string          `json:"event"`
	Data  json.RawMessage `json:"data"`
}

// OutgoingEvent is the envelope for every server-to-client frame.
type OutgoingEvent struct {
	Event string `json:"event"`
	Data  any    `json:"data,omitempty"`
}

// ErrorEvent answers a failed client event on the same socket. The name is
// "error_" plus the event that failed.
func ErrorEvent(failedEvent string, payload any) OutgoingEvent {
	return OutgoingEvent{Event: "error_" + failedEvent, Data: payload}
}

type sendMessagePayload struct {
	ChatID           string  `json:"chatId"`
	Message          string  `json:"message"`
	Type             string  `json:"type,omitempty"`
	RepliedMessageID *string `json:"repliedMessageId,omitempty"`
}

type editMessagePayload struct {
	ChatID    string `json:"chatId"`
	MessageID string `json:"messageId"`
	Message   string `json:"message"`
}

type unsendMessagePayload struct {
	ChatID    string `json:"chatId"`
	MessageID string `json:"messageId"`
}

type rateMessagePayload struct {
	ChatID    string `json:"chatId"`
	MessageID string `json:"messageId"`
	Reaction  string `json:"reaction"`
}

type presencePayload struct {
	UserID string `json:"userId"`
}
