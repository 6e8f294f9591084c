package dto

type CreateGroupChatRequest struct {
	Title string `json:"title" validate:"required,max=40"`
}

type RenameChatRequest struct {
	Title string `json:"title" validate:"required,max=40"`
}

type ChatMemberRequest struct {
	UserID string `json:"userId" validate:"required,uuid"`
}

type ChangeRoleRequest struct {
	UserID string `json:"userId" validate:"required,uuid"`
	Role   string `json:"role" validate:"required,is-chat-role"`
}
