package handlers

import (
	"net/http"

	"messenger_backend/internal/dto"
	"messenger_backend/internal/services"
	"messenger_backend/pkg/apperrors"

	"github.com/gin-gonic/gin"
)

type AuthHandler struct {
	*BaseHandler
	users *services.UserService
}

func NewAuthHandler(base *BaseHandler, users *services.UserService) *AuthHandler {
	return &AuthHandler{BaseHandler: base, users: users}
}

func (h *AuthHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/signup", h.Signup)
	rg.POST("/login", h.Login)
	rg.POST("/activate", h.Activate)
}

func (h *AuthHandler) Signup(c *gin.Context) {
	var req dto.SignupRequest
	if !h.BindAndValidate(c, &req) {
		return
	}

	user, err := h.users.Signup(services.SignupInput{
		Email:     req.Email,
		Password:  req.Password,
		Phone:     req.Phone,
		FirstName: req.FirstName,
		LastName:  req.LastName,
	})
	if err != nil {
		apperrors.HandleError(c, err)
		return
	}
	c.JSON(http.StatusCreated, user)
}

func (h *AuthHandler) Login(c *gin.Context) {
	var req dto.LoginRequest
	if !h.BindAndValidate(c, &req) {
		return
	}

	token, user, err := h.users.Login(req.Email, req.Password)
	if err != nil {
		apperrors.HandleError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.LoginResponse{Token: token, User: user})
}

func (h *AuthHandler) Activate(c *gin.Context) {
	var req dto.ActivateRequest
	if !h.BindAndValidate(c, &req) {
		return
	}

	if err := h.users.Activate(req.Token); err != nil {
		apperrors.HandleError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "activated"})
}
