package handlers

import (
	"net/http"

	"messenger_backend/internal/dto"
	chatService "messenger_backend/internal/services/chat"
	"messenger_backend/pkg/apperrors"

	"github.com/gin-gonic/gin"
)

type ChatHandler struct {
	*BaseHandler
	chats *chatService.ChatService
}

func NewChatHandler(base *BaseHandler, chats *chatService.ChatService) *ChatHandler {
	return &ChatHandler{BaseHandler: base, chats: chats}
}

func (h *ChatHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("", h.List)
	rg.POST("/private/:userId", h.CreatePrivate)
	rg.POST("/group", h.CreateGroup)
	rg.PATCH("/:chatId", h.Rename)
	rg.DELETE("/:chatId", h.Delete)
	rg.PATCH("/:chatId/add", h.AddUser)
	rg.PATCH("/:chatId/remove", h.RemoveUser)
	rg.PATCH("/:chatId/join", h.Join)
	rg.PATCH("/:chatId/exit", h.Leave)
	rg.PATCH("/:chatId/role", h.ChangeRole)
	rg.GET("/:chatId/participants", h.Participants)
}

func (h *ChatHandler) List(c *gin.Context) {
	userID, ok := h.CurrentUserID(c)
	if !ok {
		return
	}

	summaries, err := h.chats.ListChats(userID)
	if err != nil {
		apperrors.HandleError(c, err)
		return
	}
	c.JSON(http.StatusOK, summaries)
}

// CreatePrivate answers 201 for a brand-new chat and 200 when a tombstoned
// one was restored for the caller.
func (h *ChatHandler) CreatePrivate(c *gin.Context) {
	userID, ok := h.CurrentUserID(c)
	if !ok {
		return
	}

	chat, restored, err := h.chats.CreatePrivateChat(userID, c.Param("userId"))
	if err != nil {
		apperrors.HandleError(c, err)
		return
	}

	status := http.StatusCreated
	if restored {
		status = http.StatusOK
	}
	c.JSON(status, chat)
}

func (h *ChatHandler) CreateGroup(c *gin.Context) {
	userID, ok := h.CurrentUserID(c)
	if !ok {
		return
	}

	var req dto.CreateGroupChatRequest
	if !h.BindAndValidate(c, &req) {
		return
	}

	chat, err := h.chats.CreateGroupChat(userID, req.Title)
	if err != nil {
		apperrors.HandleError(c, err)
		return
	}
	c.JSON(http.StatusCreated, chat)
}

func (h *ChatHandler) Rename(c *gin.Context) {
	userID, ok := h.CurrentUserID(c)
	if !ok {
		return
	}

	var req dto.RenameChatRequest
	if !h.BindAndValidate(c, &req) {
		return
	}

	if err := h.chats.RenameChat(userID, c.Param("chatId"), req.Title); err != nil {
		apperrors.HandleError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "renamed"})
}

func (h *ChatHandler) Delete(c *gin.Context) {
	userID, ok := h.CurrentUserID(c)
	if !ok {
		return
	}

	if err := h.chats.DeleteChat(userID, c.Param("chatId")); err != nil {
		apperrors.HandleError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "deleted"})
}

func (h *ChatHandler) AddUser(c *gin.Context) {
	userID, ok := h.CurrentUserID(c)
	if !ok {
		return
	}

	var req dto.ChatMemberRequest
	if !h.BindAndValidate(c, &req) {
		return
	}

	if err := h.chats.AddUser(userID, req.UserID, c.Param("chatId")); err != nil {
		apperrors.HandleError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "added"})
}

func (h *ChatHandler) RemoveUser(c *gin.Context) {
	userID, ok := h.CurrentUserID(c)
	if !ok {
		return
	}

	var req dto.ChatMemberRequest
	if !h.BindAndValidate(c, &req) {
		return
	}

	if err := h.chats.RemoveUser(userID, req.UserID, c.Param("chatId")); err != nil {
		apperrors.HandleError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "removed"})
}

func (h *ChatHandler) Join(c *gin.Context) {
	userID, ok := h.CurrentUserID(c)
	if !ok {
		return
	}

	if err := h.chats.Join(userID, c.Param("chatId")); err != nil {
		apperrors.HandleError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "joined"})
}

func (h *ChatHandler) Leave(c *gin.Context) {
	userID, ok := h.CurrentUserID(c)
	if !ok {
		return
	}

	if err := h.chats.Leave(userID, c.Param("chatId")); err != nil {
		apperrors.HandleError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "left"})
}

func (h *ChatHandler) ChangeRole(c *gin.Context) {
	userID, ok := h.CurrentUserID(c)
	if !ok {
		return
	}

	var req dto.ChangeRoleRequest
	if !h.BindAndValidate(c, &req) {
		return
	}

	if err := h.chats.ChangeRole(userID, req.UserID, c.Param("chatId"), req.Role); err != nil {
		apperrors.HandleError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "role changed"})
}

func (h *ChatHandler) Participants(c *gin.Context) {
	if _, ok := h.CurrentUserID(c); !ok {
		return
	}

	participants, err := h.chats.ListParticipants(c.Param("chatId"))
	if err != nil {
		apperrors.HandleError(c, err)
		return
	}
	c.JSON(http.StatusOK, participants)
}
