package ws

import (
	"errors"
	"net/http"

	"messenger_backend/internal/auth"
	"messenger_backend/internal/logger"
	"messenger_backend/internal/repositories"
	chatService "messenger_backend/internal/services/chat"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"gorm.io/gorm"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		// TODO: restrict origins once the web client's domain is fixed.
		return true
	},
}

type Handler struct {
	Manager  *Manager
	Messages *chatService.MessageService
	Users    *repositories.UserRepository
}

func NewHandler(manager *Manager, messages *chatService.MessageService, users *repositories.UserRepository) *Handler {
	return &Handler{Manager: manager, Messages: messages, Users: users}
}

// ServeWS upgrades the connection and authenticates it. Handshake failures
// are reported as a typed event on the socket before closing, so browser
// clients can react to them.
func (h *Handler) ServeWS(c *gin.Context) {
	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		logger.Warn("websocket upgrade failed", "error", err)
		return
	}

	token := bearerToken(c)
	if token == "" {
		rejectHandshake(conn, EventAuthenticationError, "authentication token required")
		return
	}

	claims, err := auth.ParseToken(token)
	if err != nil {
		rejectHandshake(conn, EventTokenVerificationError, "invalid or expired token")
		return
	}

	if _, err := h.Users.FindByID(claims.UserID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			rejectHandshake(conn, EventUserNotFoundError, "no user for this token")
			return
		}
		logger.Error("websocket handshake user lookup failed", "error", err)
		conn.Close()
		return
	}

	client := NewClient(claims.UserID, conn, h.Manager, h.Messages)
	h.Manager.Register(client)

	go client.ReadPump()
	go client.WritePump()
}

func bearerToken(c *gin.Context) string {
	header := c.GetHeader("Authorization")
	if len(header) > 7 && header[:7] == "Bearer " {
		return header[7:]
	}
	// Browsers can't set headers on websocket connects.
	return c.Query("token")
}

func rejectHandshake(conn *websocket.Conn, event, message string) {
	if err := conn.WriteJSON(OutgoingEvent{Event: event, Data: map[string]string{"message": message}}); err != nil {
		logger.Warn("failed to write handshake error", "error", err)
	}
	conn.Close()
}
