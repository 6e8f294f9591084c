package handlers

import (
	"net/http"
	"time"

	"messenger_backend/internal/dto"
	chatService "messenger_backend/internal/services/chat"
	"messenger_backend/pkg/apperrors"

	"github.com/gin-gonic/gin"
)

type MessageHandler struct {
	*BaseHandler
	messages *chatService.MessageService
}

func NewMessageHandler(base *BaseHandler, messages *chatService.MessageService) *MessageHandler {
	return &MessageHandler{BaseHandler: base, messages: messages}
}

func (h *MessageHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/:chatId/messages", h.List)
	rg.POST("/:chatId/messages", h.Send)
	rg.POST("/:chatId/messages/read", h.MarkRead)
	rg.GET("/:chatId/messages/:messageId", h.Get)
	rg.PUT("/:chatId/messages/:messageId", h.Edit)
	rg.PATCH("/:chatId/messages/:messageId", h.React)
	rg.DELETE("/:chatId/messages/:messageId", h.Delete)
	rg.DELETE("/:chatId/messages/:messageId/unsend", h.Unsend)
}

// List supports two optional query params: search (a body regexp) and since
// (RFC 3339 lower bound on createdAt).
func (h *MessageHandler) List(c *gin.Context) {
	userID, ok := h.CurrentUserID(c)
	if !ok {
		return
	}

	var since *time.Time
	if raw := c.Query("since"); raw != "" {
		parsed, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			apperrors.HandleError(c, apperrors.ValidationError(map[string]string{
				"since": "must be an RFC 3339 timestamp",
			}))
			return
		}
		since = &parsed
	}

	messages, err := h.messages.ListMessages(userID, c.Param("chatId"), c.Query("search"), since)
	if err != nil {
		apperrors.HandleError(c, err)
		return
	}
	c.JSON(http.StatusOK, messages)
}

func (h *MessageHandler) Send(c *gin.Context) {
	userID, ok := h.CurrentUserID(c)
	if !ok {
		return
	}

	var req dto.SendMessageRequest
	if !h.BindAndValidate(c, &req) {
		return
	}

	message, err := h.messages.SendMessage(chatService.SendMessageInput{
		ChatID:           c.Param("chatId"),
		SenderID:         userID,
		Body:             req.Message,
		Type:             req.Type,
		RepliedMessageID: req.RepliedMessageID,
		Attachments:      toAttachmentInputs(req.Attachments),
	})
	if err != nil {
		apperrors.HandleError(c, err)
		return
	}
	c.JSON(http.StatusCreated, message)
}

func (h *MessageHandler) Get(c *gin.Context) {
	userID, ok := h.CurrentUserID(c)
	if !ok {
		return
	}

	message, err := h.messages.GetMessage(userID, c.Param("chatId"), c.Param("messageId"))
	if err != nil {
		apperrors.HandleError(c, err)
		return
	}
	c.JSON(http.StatusOK, message)
}

func (h *MessageHandler) Edit(c *gin.Context) {
	userID, ok := h.CurrentUserID(c)
	if !ok {
		return
	}

	var req dto.EditMessageRequest
	if !h.BindAndValidate(c, &req) {
		return
	}

	message, err := h.messages.EditMessage(
		c.Param("chatId"), c.Param("messageId"), userID,
		req.Message, toAttachmentInputs(req.Attachments),
	)
	if err != nil {
		apperrors.HandleError(c, err)
		return
	}
	c.JSON(http.StatusOK, message)
}

func (h *MessageHandler) React(c *gin.Context) {
	userID, ok := h.CurrentUserID(c)
	if !ok {
		return
	}

	var req dto.ReactRequest
	if !h.BindAndValidate(c, &req) {
		return
	}

	result, err := h.messages.React(c.Param("chatId"), c.Param("messageId"), userID, req.Reaction)
	if err != nil {
		apperrors.HandleError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

func (h *MessageHandler) Delete(c *gin.Context) {
	userID, ok := h.CurrentUserID(c)
	if !ok {
		return
	}

	if err := h.messages.DeleteMessage(c.Param("chatId"), c.Param("messageId"), userID); err != nil {
		apperrors.HandleError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "deleted"})
}

func (h *MessageHandler) Unsend(c *gin.Context) {
	userID, ok := h.CurrentUserID(c)
	if !ok {
		return
	}

	if err := h.messages.UnsendMessage(c.Param("chatId"), c.Param("messageId"), userID); err != nil {
		apperrors.HandleError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "unsent"})
}

func (h *MessageHandler) MarkRead(c *gin.Context) {
	userID, ok := h.CurrentUserID(c)
	if !ok {
		return
	}

	if err := h.messages.MarkMessagesRead(c.Param("chatId"), userID); err != nil {
		apperrors.HandleError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "read"})
}

func toAttachmentInputs(payloads []dto.AttachmentPayload) []chatService.AttachmentInput {
	if payloads == nil {
		return nil
	}
	inputs := make([]chatService.AttachmentInput, 0, len(payloads))
	for _, p := range payloads {
		inputs = append(inputs, chatService.AttachmentInput{
			FileURL:      p.FileURL,
			ThumbnailURL: p.ThumbnailURL,
			Meta:         p.Meta,
		})
	}
	return inputs
}
