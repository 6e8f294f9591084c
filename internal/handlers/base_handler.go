package handlers

import (
	"messenger_backend/internal/logger"
	"messenger_backend/internal/middleware"
	"messenger_backend/internal/validator"
	"messenger_backend/pkg/apperrors"

	"github.com/gin-gonic/gin"
)

// BaseHandler bundles the request plumbing shared by every handler:
// binding, validation and identity extraction.
type BaseHandler struct {
	validator *validator.Validator
}

func NewBaseHandler(v *validator.Validator) *BaseHandler {
	return &BaseHandler{validator: v}
}

// BindAndValidate binds the JSON body into obj and runs the DTO validation
// rules. On failure it writes the error response and returns false.
func (h *BaseHandler) BindAndValidate(c *gin.Context, obj interface{}) bool {
	if err := c.ShouldBindJSON(obj); err != nil {
		logger.Warn("failed to bind request body", "path", c.Request.URL.Path, "error", err)
		apperrors.HandleError(c, apperrors.ErrValidationFailed.WithDetails(err.Error()))
		return false
	}

	if err := h.validator.Validate(obj); err != nil {
		if vErr, ok := err.(*validator.ValidationError); ok {
			apperrors.HandleError(c, apperrors.ValidationError(vErr.Errors))
			return false
		}
		apperrors.HandleError(c, apperrors.InternalError(err))
		return false
	}
	return true
}

// CurrentUserID returns the authenticated caller's id. A missing id means the
// route is wired without AuthMiddleware; the request is rejected.
func (h *BaseHandler) CurrentUserID(c *gin.Context) (string, bool) {
	id := middleware.GetUserID(c)
	if id == "" {
		apperrors.HandleError(c, apperrors.ErrUnauthorized)
		return "", false
	}
	return id, true
}
