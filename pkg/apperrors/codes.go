package apperrors

// Error codes grouped by domain.
const (
	// Authentication
	CodeUnauthorized ErrorCode = "UNAUTHORIZED"
	CodeInvalidToken ErrorCode = "INVALID_TOKEN"
	CodeForbidden    ErrorCode = "FORBIDDEN"

	// Validation
	CodeValidationFailed ErrorCode = "VALIDATION_FAILED"
	CodeInvalidRole      ErrorCode = "INVALID_ROLE"

	// Users
	CodeUserNotFound      ErrorCode = "USER_NOT_FOUND"
	CodeEmailAlreadyTaken ErrorCode = "EMAIL_ALREADY_TAKEN"
	CodeUserNotActive     ErrorCode = "USER_NOT_ACTIVE"

	// Chats
	CodeSelfChat           ErrorCode = "SELF_CHAT"
	CodeChatNotFound       ErrorCode = "CHAT_NOT_FOUND"
	CodeChatAlreadyExists  ErrorCode = "CHAT_ALREADY_EXISTS"
	CodeChatAlreadyDeleted ErrorCode = "CHAT_ALREADY_DELETED"
	CodeAlreadyMember      ErrorCode = "ALREADY_MEMBER"
	CodeInvalidOperation   ErrorCode = "INVALID_OPERATION"
	CodeNoParticipants     ErrorCode = "NO_PARTICIPANTS"

	// Blocking
	CodeBlockedByUser    ErrorCode = "BLOCKED_BY_USER"
	CodeBlockedFromGroup ErrorCode = "BLOCKED_IN_GROUP"

	// Messages
	CodeMessageNotFound    ErrorCode = "MESSAGE_NOT_FOUND"
	CodeNoMessages         ErrorCode = "NO_MESSAGES"
	CodeReplyTargetInvalid ErrorCode = "REPLY_TARGET_INVALID"
	CodeMessageAlreadyRead ErrorCode = "MESSAGE_ALREADY_READ"

	// System
	CodeInternalError ErrorCode = "INTERNAL_ERROR"
	CodeDatabaseError ErrorCode = "DATABASE_ERROR"
)
