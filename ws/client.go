package ws

import (
	"encoding/json"
	"sync"

	"messenger_backend/internal/logger"
	chatService "messenger_backend/internal/services/chat"
	"messenger_backend/pkg/apperrors"

	"github.com/gorilla/websocket"
)

// Client is one authenticated websocket connection.
type Client struct {
	ID   string
	Conn *websocket.Conn
	Send chan OutgoingEvent

	Manager  *Manager
	Messages *chatService.MessageService

	mu     sync.Mutex
	closed bool
}

func NewClient(userID string, conn *websocket.Conn, manager *Manager, messages *chatService.MessageService) *Client {
	return &Client{
		ID:       userID,
		Conn:     conn,
		Send:     make(chan OutgoingEvent, 256),
		Manager:  manager,
		Messages: messages,
	}
}

// closeSend marks the client closed before closing Send. It is idempotent: a
// displaced connection is closed by the manager and again by its own
// ReadPump teardown.
func (c *Client) closeSend() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return
	}
	c.closed = true
	close(c.Send)
}

// trySend delivers the event unless the client is already closed or its
// buffer is full. Every send to the channel goes through here, so closeSend
// can never race a send.
func (c *Client) trySend(event OutgoingEvent) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return false
	}
	select {
	case c.Send <- event:
		return true
	default:
		return false
	}
}

func (c *Client) ReadPump() {
	defer func() {
		c.Manager.Unregister(c)
		c.Conn.Close()
	}()

	for {
		_, raw, err := c.Conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				logger.Warn("websocket read error", "user_id", c.ID, "error", err)
			}
			return
		}

		var event IncomingEvent
		if err := json.Unmarshal(raw, &event); err != nil {
			c.reply(ErrorEvent("parse", apperrors.ErrValidationFailed))
			continue
		}
		c.handleEvent(event)
	}
}

func (c *Client) WritePump() {
	defer c.Conn.Close()
	for event := range c.Send {
		if err := c.Conn.WriteJSON(event); err != nil {
			logger.Warn("websocket write error", "user_id", c.ID, "error", err)
			return
		}
	}
	c.Conn.WriteMessage(websocket.CloseMessage, []byte{})
}

// handleEvent runs one client event through the message service and fans the
// result out to the chat. Failures are answered only to the sender as an
// error_<event> frame.
func (c *Client) handleEvent(event IncomingEvent) {
	switch event.Event {
	case EventSendMessage:
		var payload sendMessagePayload
		if !c.decode(event, &payload) {
			return
		}
		message, err := c.Messages.SendMessage(chatService.SendMessageInput{
			ChatID:           payload.ChatID,
			SenderID:         c.ID,
			Body:             payload.Message,
			Type:             payload.Type,
			RepliedMessageID: payload.RepliedMessageID,
		})
		if err != nil {
			c.replyError(event.Event, err)
			return
		}
		c.Manager.BroadcastToChat(payload.ChatID, OutgoingEvent{Event: EventSendMessage, Data: message})

	case EventEditMessage:
		var payload editMessagePayload
		if !c.decode(event, &payload) {
			return
		}
		message, err := c.Messages.EditMessage(payload.ChatID, payload.MessageID, c.ID, payload.Message, nil)
		if err != nil {
			c.replyError(event.Event, err)
			return
		}
		c.Manager.BroadcastToChat(payload.ChatID, OutgoingEvent{Event: EventEditMessage, Data: message})

	case EventUnsendMessage:
		var payload unsendMessagePayload
		if !c.decode(event, &payload) {
			return
		}
		if err := c.Messages.UnsendMessage(payload.ChatID, payload.MessageID, c.ID); err != nil {
			c.replyError(event.Event, err)
			return
		}
		c.Manager.BroadcastToChat(payload.ChatID, OutgoingEvent{
			Event: EventUnsendMessage,
			Data:  map[string]string{"chatId": payload.ChatID, "messageId": payload.MessageID},
		})

	case EventRateMessage:
		var payload rateMessagePayload
		if !c.decode(event, &payload) {
			return
		}
		result, err := c.Messages.React(payload.ChatID, payload.MessageID, c.ID, payload.Reaction)
		if err != nil {
			c.replyError(event.Event, err)
			return
		}
		c.Manager.BroadcastToChat(payload.ChatID, OutgoingEvent{
			Event: EventRateMessage,
			Data: map[string]any{
				"chatId":    payload.ChatID,
				"messageId": payload.MessageID,
				"userId":    c.ID,
				"applied":   result.Applied,
				"reaction":  result.Reaction,
			},
		})

	default:
		c.reply(ErrorEvent(event.Event, apperrors.ErrValidationFailed.WithDetails("unknown event")))
	}
}

func (c *Client) decode(event IncomingEvent, into any) bool {
	if err := json.Unmarshal(event.Data, into); err != nil {
		c.reply(ErrorEvent(event.Event, apperrors.ErrValidationFailed.WithDetails(err.Error())))
		return false
	}
	return true
}

func (c *Client) replyError(failedEvent string, err error) {
	appErr, ok := apperrors.AsAppError(err)
	if !ok {
		appErr = apperrors.InternalError(err)
		logger.Error("websocket event failed", "event", failedEvent, "user_id", c.ID, "error", err)
	}
	c.reply(ErrorEvent(failedEvent, appErr))
}

func (c *Client) reply(event OutgoingEvent) {
	c.trySend(event)
}
