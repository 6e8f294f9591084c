package chat

import (
	"errors"
	"time"

	"messenger_backend/internal/logger"
	modelChat "messenger_backend/internal/models/chat"
	"messenger_backend/internal/repositories"
	repoChat "messenger_backend/internal/repositories/chat"
	"messenger_backend/pkg/apperrors"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ChatService owns chat existence, membership and per-user deletion state.
// It is transport-agnostic: REST handlers and the socket listener both call
// into it and only translate the returned *apperrors.AppError.
type ChatService struct {
	DB           *gorm.DB
	Chats        *repoChat.ChatRepository
	Participants *repoChat.ParticipantRepository
	Messages     *repoChat.MessageRepository
	DeletedChats *repoChat.DeletedChatRepository
	GroupBlocks  *repoChat.GroupBlockListRepository
	Users        *repositories.UserRepository
	Blocks       *repositories.BlockListRepository
}

func NewChatService(
	db *gorm.DB,
	chats *repoChat.ChatRepository,
	participants *repoChat.ParticipantRepository,
	messages *repoChat.MessageRepository,
	deletedChats *repoChat.DeletedChatRepository,
	groupBlocks *repoChat.GroupBlockListRepository,
	users *repositories.UserRepository,
	blocks *repositories.BlockListRepository,
) *ChatService {
	return &ChatService{
		DB:           db,
		Chats:        chats,
		Participants: participants,
		Messages:     messages,
		DeletedChats: deletedChats,
		GroupBlocks:  groupBlocks,
		Users:        users,
		Blocks:       blocks,
	}
}

// ChatSummary is one entry in a user's chat listing.
type ChatSummary struct {
	Chat        modelChat.Chat     `json:"chat"`
	LastMessage *modelChat.Message `json:"lastMessage,omitempty"`
	UnreadCount int64              `json:"unreadMessagesCount"`
}

// CreatePrivateChat creates the private chat between creator and receiver,
// or restores it when the creator had tombstoned an existing one. restored
// reports which of the two happened.
//
// The pair-key unique index closes the race where two concurrent requests
// both observe "no chat yet": the loser's insert fails with a duplicate key
// and is rerouted through the exists/restore path.
func (s *ChatService) CreatePrivateChat(creatorID, receiverID string) (*modelChat.Chat, bool, error) {
	if creatorID == receiverID {
		return nil, false, apperrors.ErrSelfChat
	}

	if _, err := s.Users.FindByID(receiverID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, false, apperrors.ErrUserNotFound
		}
		return nil, false, apperrors.DatabaseError(err)
	}

	blocked, err := s.Blocks.IsBlocked(receiverID, creatorID)
	if err != nil {
		return nil, false, apperrors.DatabaseError(err)
	}
	if blocked {
		return nil, false, apperrors.ErrBlockedByUser
	}

	pairKey := modelChat.PairKeyFor(creatorID, receiverID)

	existing, err := s.Chats.FindPrivateByPairKey(pairKey)
	if err != nil {
		return nil, false, apperrors.DatabaseError(err)
	}
	if existing != nil {
		return s.restoreOrConflict(creatorID, existing)
	}

	newChat := &modelChat.Chat{
		ID:        uuid.New().String(),
		Type:      modelChat.ChatTypePrivate,
		CreatorID: creatorID,
		PairKey:   &pairKey,
	}

	err = s.DB.Transaction(func(tx *gorm.DB) error {
		if err := s.Chats.WithTx(tx).Create(newChat); err != nil {
			return err
		}
		now := time.Now()
		return s.Participants.WithTx(tx).CreateMany([]modelChat.Participant{
			{ChatID: newChat.ID, UserID: creatorID, Role: modelChat.RoleUser, JoinedAt: now},
			{ChatID: newChat.ID, UserID: receiverID, Role: modelChat.RoleUser, JoinedAt: now},
		})
	})
	if err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			// Lost the create race; the winner's chat is the chat.
			winner, ferr := s.Chats.FindPrivateByPairKey(pairKey)
			if ferr != nil || winner == nil {
				return nil, false, apperrors.DatabaseError(err)
			}
			return s.restoreOrConflict(creatorID, winner)
		}
		return nil, false, apperrors.DatabaseError(err)
	}

	created, err := s.Chats.FindByID(newChat.ID)
	if err != nil {
		return nil, false, apperrors.DatabaseError(err)
	}
	return created, false, nil
}

// restoreOrConflict resolves an existing private chat: un-tombstone it for
// the requester when possible, answer "already exists" otherwise.
func (s *ChatService) restoreOrConflict(userID string, existing *modelChat.Chat) (*modelChat.Chat, bool, error) {
	tombstone, err := s.DeletedChats.Find(userID, existing.ID)
	if err != nil {
		return nil, false, apperrors.DatabaseError(err)
	}
	if tombstone == nil {
		return nil, false, apperrors.ErrChatAlreadyExists
	}
	if err := s.DeletedChats.Delete(tombstone.ID); err != nil {
		return nil, false, apperrors.DatabaseError(err)
	}
	return existing, true, nil
}

// CreateGroupChat creates a group with the creator as its sole owner.
func (s *ChatService) CreateGroupChat(creatorID, title string) (*modelChat.Chat, error) {
	newChat := &modelChat.Chat{
		ID:        uuid.New().String(),
		Type:      modelChat.ChatTypeGroup,
		Title:     &title,
		CreatorID: creatorID,
	}

	err := s.DB.Transaction(func(tx *gorm.DB) error {
		if err := s.Chats.WithTx(tx).Create(newChat); err != nil {
			return err
		}
		return s.Participants.WithTx(tx).Create(&modelChat.Participant{
			ChatID:   newChat.ID,
			UserID:   creatorID,
			Role:     modelChat.RoleOwner,
			JoinedAt: time.Now(),
		})
	})
	if err != nil {
		return nil, apperrors.DatabaseError(err)
	}

	created, err := s.Chats.FindByID(newChat.ID)
	if err != nil {
		return nil, apperrors.DatabaseError(err)
	}
	return created, nil
}

// ListChats returns the user's visible chats with last message and unread
// count, newest activity first. An empty result is a valid listing.
func (s *ChatService) ListChats(userID string) ([]ChatSummary, error) {
	chats, err := s.Chats.FindAllVisibleByUser(userID)
	if err != nil {
		return nil, apperrors.DatabaseError(err)
	}

	summaries := make([]ChatSummary, 0, len(chats))
	for _, c := range chats {
		last, err := s.Messages.LastVisible(c.ID, userID)
		if err != nil {
			return nil, apperrors.DatabaseError(err)
		}
		unread, err := s.Messages.CountUnread(c.ID, userID)
		if err != nil {
			return nil, apperrors.DatabaseError(err)
		}
		summaries = append(summaries, ChatSummary{Chat: c, LastMessage: last, UnreadCount: unread})
	}
	return summaries, nil
}

// RenameChat changes a group chat's title. Private chats derive their
// display name from the counterpart and can't be renamed.
func (s *ChatService) RenameChat(userID, chatID, title string) error {
	c, member, err := s.findChatForMember(userID, chatID)
	if err != nil {
		return err
	}
	if member == nil {
		return apperrors.ErrForbidden
	}
	if c.Type == modelChat.ChatTypePrivate {
		return apperrors.ErrPrivateChatRename
	}
	if err := s.Chats.UpdateTitle(chatID, title); err != nil {
		return apperrors.DatabaseError(err)
	}
	return nil
}

// DeleteChat hides a private chat for the calling user (tombstone plus a
// batch tombstone of every message they can still see), or hard-deletes a
// group when called by its owner.
func (s *ChatService) DeleteChat(userID, chatID string) error {
	c, member, err := s.findChatForMember(userID, chatID)
	if err != nil {
		return err
	}
	if member == nil {
		return apperrors.ErrNotAMember
	}

	if c.Type == modelChat.ChatTypeGroup {
		if member.Role != modelChat.RoleOwner {
			return apperrors.ErrNotOwner
		}
		err := s.DB.Transaction(func(tx *gorm.DB) error {
			return s.Chats.WithTx(tx).DeleteCascade(chatID)
		})
		if err != nil {
			return apperrors.DatabaseError(err)
		}
		logger.Info("group chat deleted", "chat_id", chatID, "owner_id", userID)
		return nil
	}

	tombstone, err := s.DeletedChats.Find(userID, chatID)
	if err != nil {
		return apperrors.DatabaseError(err)
	}
	if tombstone != nil {
		return apperrors.ErrChatAlreadyDeleted
	}

	err = s.DB.Transaction(func(tx *gorm.DB) error {
		if err := s.Messages.WithTx(tx).TombstoneAllForUser(chatID, userID); err != nil {
			return err
		}
		return s.DeletedChats.WithTx(tx).Create(userID, chatID)
	})
	if err != nil {
		return apperrors.DatabaseError(err)
	}
	return nil
}

// AddUser invites target into a group chat.
func (s *ChatService) AddUser(actorID, targetID, chatID string) error {
	c, member, err := s.findChatForMember(actorID, chatID)
	if err != nil {
		return err
	}
	if member == nil {
		return apperrors.ErrForbidden
	}
	if c.Type != modelChat.ChatTypeGroup {
		return apperrors.ErrPrivateChatOp
	}

	if _, err := s.Users.FindByID(targetID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperrors.ErrUserNotFound
		}
		return apperrors.DatabaseError(err)
	}

	isMember, err := s.Participants.IsMember(targetID, chatID)
	if err != nil {
		return apperrors.DatabaseError(err)
	}
	if isMember {
		return apperrors.ErrAlreadyMember
	}

	blocked, err := s.GroupBlocks.Exists(targetID, chatID)
	if err != nil {
		return apperrors.DatabaseError(err)
	}
	if blocked {
		return apperrors.ErrBlockedFromGroup
	}

	err = s.Participants.Create(&modelChat.Participant{
		ChatID:   chatID,
		UserID:   targetID,
		Role:     modelChat.RoleUser,
		JoinedAt: time.Now(),
	})
	if err != nil {
		return apperrors.DatabaseError(err)
	}
	return nil
}

// RemoveUser removes target from a group chat.
func (s *ChatService) RemoveUser(actorID, targetID, chatID string) error {
	c, member, err := s.findChatForMember(actorID, chatID)
	if err != nil {
		return err
	}
	if member == nil {
		return apperrors.ErrForbidden
	}
	if c.Type != modelChat.ChatTypeGroup {
		return apperrors.ErrPrivateChatOp
	}

	if _, err := s.Users.FindByID(targetID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperrors.ErrUserNotFound
		}
		return apperrors.DatabaseError(err)
	}

	if err := s.Participants.Remove(targetID, chatID); err != nil {
		return apperrors.DatabaseError(err)
	}
	return nil
}

// Join adds the calling user to a group chat, honoring the group block list.
func (s *ChatService) Join(userID, chatID string) error {
	c, err := s.Chats.FindByID(chatID)
	if err != nil {
		return apperrors.DatabaseError(err)
	}
	if c == nil {
		return apperrors.ErrChatNotFound
	}
	if c.Type != modelChat.ChatTypeGroup {
		return apperrors.ErrPrivateChatOp
	}

	isMember, err := s.Participants.IsMember(userID, chatID)
	if err != nil {
		return apperrors.DatabaseError(err)
	}
	if isMember {
		return apperrors.ErrAlreadyMember
	}

	blocked, err := s.GroupBlocks.Exists(userID, chatID)
	if err != nil {
		return apperrors.DatabaseError(err)
	}
	if blocked {
		return apperrors.ErrBlockedFromGroup
	}

	err = s.Participants.Create(&modelChat.Participant{
		ChatID:   chatID,
		UserID:   userID,
		Role:     modelChat.RoleUser,
		JoinedAt: time.Now(),
	})
	if err != nil {
		return apperrors.DatabaseError(err)
	}
	return nil
}

// Leave removes the calling user from a group chat.
func (s *ChatService) Leave(userID, chatID string) error {
	c, err := s.Chats.FindByID(chatID)
	if err != nil {
		return apperrors.DatabaseError(err)
	}
	if c == nil {
		return apperrors.ErrChatNotFound
	}
	if c.Type != modelChat.ChatTypeGroup {
		return apperrors.ErrPrivateChatOp
	}

	if err := s.Participants.Remove(userID, chatID); err != nil {
		return apperrors.DatabaseError(err)
	}
	return nil
}

// ChangeRole updates target's role in a group chat. Only an owner may change
// roles.
func (s *ChatService) ChangeRole(actorID, targetID, chatID, role string) error {
	c, member, err := s.findChatForMember(actorID, chatID)
	if err != nil {
		return err
	}
	if member == nil {
		return apperrors.ErrForbidden
	}
	if c.Type != modelChat.ChatTypeGroup {
		return apperrors.ErrPrivateChatOp
	}
	if !modelChat.ValidRole(role) {
		return apperrors.ErrInvalidRole
	}
	if member.Role != modelChat.RoleOwner {
		return apperrors.ErrRoleChangeDenied
	}

	if err := s.Participants.UpdateRole(targetID, chatID, modelChat.ParticipantRole(role)); err != nil {
		return apperrors.DatabaseError(err)
	}
	return nil
}

// ListParticipants returns the chat's membership.
func (s *ChatService) ListParticipants(chatID string) ([]modelChat.Participant, error) {
	c, err := s.Chats.FindByID(chatID)
	if err != nil {
		return nil, apperrors.DatabaseError(err)
	}
	if c == nil {
		return nil, apperrors.ErrChatNotFound
	}

	participants, err := s.Participants.GetByChat(chatID)
	if err != nil {
		return nil, apperrors.DatabaseError(err)
	}
	if len(participants) == 0 {
		return nil, apperrors.ErrNoParticipants
	}
	return participants, nil
}

// findChatForMember loads the chat and the caller's membership row; the
// membership is nil when the caller never belonged to the chat.
func (s *ChatService) findChatForMember(userID, chatID string) (*modelChat.Chat, *modelChat.Participant, error) {
	c, err := s.Chats.FindByID(chatID)
	if err != nil {
		return nil, nil, apperrors.DatabaseError(err)
	}
	if c == nil {
		return nil, nil, apperrors.ErrChatNotFound
	}

	member, err := s.Participants.Get(userID, chatID)
	if err != nil {
		return nil, nil, apperrors.DatabaseError(err)
	}
	return c, member, nil
}
