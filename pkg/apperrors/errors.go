package apperrors

import (
	"encoding/json"
	stderrors "errors"
	"fmt"
	"net/http"
)

// ErrorCode identifies a class of application error.
type ErrorCode string

// AppError is the error type every service operation returns. The HTTP code
// is carried along so transport adapters only have to translate, not decide.
type AppError struct {
	Code     ErrorCode   `json:"code"`
	Message  string      `json:"message"`
	Details  interface{} `json:"details,omitempty"`
	Err      error       `json:"-"`
	HTTPCode int         `json:"-"`
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s (%v)", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *AppError) Unwrap() error {
	return e.Err
}

func New(code ErrorCode, message string, httpCode int) *AppError {
	return &AppError{
		Code:     code,
		Message:  message,
		HTTPCode: httpCode,
	}
}

func Wrap(err error, code ErrorCode, message string, httpCode int) *AppError {
	return &AppError{
		Code:     code,
		Message:  message,
		Err:      err,
		HTTPCode: httpCode,
	}
}

func (e *AppError) WithDetails(details interface{}) *AppError {
	clone := *e
	clone.Details = details
	return &clone
}

func (e *AppError) MarshalJSON() ([]byte, error) {
	type alias struct {
		Code    ErrorCode   `json:"code"`
		Message string      `json:"message"`
		Details interface{} `json:"details,omitempty"`
	}
	return json.Marshal(&alias{
		Code:    e.Code,
		Message: e.Message,
		Details: e.Details,
	})
}

func Is(err, target error) bool {
	return stderrors.Is(err, target)
}

func As(err error, target interface{}) bool {
	return stderrors.As(err, target)
}

// Predefined errors. Visibility-sensitive lookups (a chat or message the
// caller must not learn about) answer with the same 404 as a genuinely
// missing row.
var (
	// Authentication
	ErrUnauthorized = New(CodeUnauthorized, "Authentication required", http.StatusUnauthorized)
	ErrInvalidToken = New(CodeInvalidToken, "Invalid or expired token", http.StatusUnauthorized)
	ErrForbidden    = New(CodeForbidden, "Access denied", http.StatusForbidden)

	// Users
	ErrUserNotFound      = New(CodeUserNotFound, "There is no user with such id", http.StatusNotFound)
	ErrEmailAlreadyTaken = New(CodeEmailAlreadyTaken, "Email is already taken", http.StatusConflict)
	ErrUserNotActive     = New(CodeUserNotActive, "Account is not activated", http.StatusForbidden)
	ErrSelfBlock         = New(CodeInvalidOperation, "You can't block yourself", http.StatusBadRequest)

	// Chats
	ErrSelfChat           = New(CodeSelfChat, "You can't start a chat with yourself", http.StatusBadRequest)
	ErrChatNotFound       = New(CodeChatNotFound, "There is no chat with such id", http.StatusNotFound)
	ErrNotAMember         = New(CodeChatNotFound, "There is no such chat for this user", http.StatusNotFound)
	ErrChatAlreadyExists  = New(CodeChatAlreadyExists, "Chat with this user already exists", http.StatusBadRequest)
	ErrChatAlreadyDeleted = New(CodeChatAlreadyDeleted, "This chat is already deleted", http.StatusConflict)
	ErrAlreadyMember      = New(CodeAlreadyMember, "Provided user is already in this group", http.StatusBadRequest)
	ErrNotOwner           = New(CodeForbidden, "You are not an owner of this group", http.StatusForbidden)
	ErrRoleChangeDenied   = New(CodeForbidden, "You can't change users role with your current role", http.StatusForbidden)
	ErrPrivateChatOp      = New(CodeInvalidOperation, "You can't perform such an operation on a private chat", http.StatusBadRequest)
	ErrPrivateChatRename  = New(CodeInvalidOperation, "The name of a private chat can't be changed", http.StatusBadRequest)
	ErrInvalidRole        = New(CodeInvalidRole, "Incorrect role", http.StatusBadRequest)
	ErrNoParticipants     = New(CodeNoParticipants, "There are no participants in this chat", http.StatusNotFound)

	// Blocking
	ErrBlockedByUser    = New(CodeBlockedByUser, "You were blocked by this user", http.StatusBadRequest)
	ErrBlockedFromGroup = New(CodeBlockedFromGroup, "You were blocked in this group", http.StatusBadRequest)

	// Messages
	ErrMessageNotFound    = New(CodeMessageNotFound, "There is no message with such id", http.StatusNotFound)
	ErrNotYourMessage     = New(CodeForbidden, "You can't delete a message that is not yours", http.StatusForbidden)
	ErrNoMessages         = New(CodeNoMessages, "There are no messages for such chat", http.StatusNotFound)
	ErrReplyTargetInvalid = New(CodeReplyTargetInvalid, "There is no message to reply to with such id", http.StatusBadRequest)
	ErrMessageAlreadyRead = New(CodeMessageAlreadyRead, "A read message can't be unsent", http.StatusConflict)

	// Validation
	ErrValidationFailed = New(CodeValidationFailed, "Validation failed", http.StatusBadRequest)
)

// InternalError wraps an unexpected error (usually a failed DB call).
func InternalError(err error) *AppError {
	return Wrap(err, CodeInternalError, "Internal server error", http.StatusInternalServerError)
}

// DatabaseError wraps a storage failure that is not a business outcome.
func DatabaseError(err error) *AppError {
	return Wrap(err, CodeDatabaseError, "Database error", http.StatusInternalServerError)
}

// ValidationError builds a 400 carrying per-field details.
func ValidationError(details interface{}) *AppError {
	return ErrValidationFailed.WithDetails(details)
}
