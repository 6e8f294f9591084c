package chat

import (
	"encoding/json"
	"regexp"
	"time"

	modelChat "messenger_backend/internal/models/chat"
	"messenger_backend/internal/repositories"
	repoChat "messenger_backend/internal/repositories/chat"
	"messenger_backend/pkg/apperrors"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// MessageService owns message persistence: sending, editing, the two-sided
// tombstone deletion that converges to a hard delete, unsend and reactions.
type MessageService struct {
	DB              *gorm.DB
	Chats           *repoChat.ChatRepository
	Participants    *repoChat.ParticipantRepository
	Messages        *repoChat.MessageRepository
	Reactions       *repoChat.MessageReactionRepository
	DeletedMessages *repoChat.DeletedMessageRepository
	GroupBlocks     *repoChat.GroupBlockListRepository
	Blocks          *repositories.BlockListRepository
}

func NewMessageService(
	db *gorm.DB,
	chats *repoChat.ChatRepository,
	participants *repoChat.ParticipantRepository,
	messages *repoChat.MessageRepository,
	reactions *repoChat.MessageReactionRepository,
	deletedMessages *repoChat.DeletedMessageRepository,
	groupBlocks *repoChat.GroupBlockListRepository,
	blocks *repositories.BlockListRepository,
) *MessageService {
	return &MessageService{
		DB:              db,
		Chats:           chats,
		Participants:    participants,
		Messages:        messages,
		Reactions:       reactions,
		DeletedMessages: deletedMessages,
		GroupBlocks:     groupBlocks,
		Blocks:          blocks,
	}
}

type AttachmentInput struct {
	FileURL      string          `json:"fileUrl"`
	ThumbnailURL *string         `json:"thumbnailUrl,omitempty"`
	Meta         json.RawMessage `json:"meta,omitempty"`
}

type SendMessageInput struct {
	ChatID           string
	SenderID         string
	Body             string
	Type             string
	RepliedMessageID *string
	Attachments      []AttachmentInput
}

// SendMessage validates sender access and persists the message together with
// its attachments as one unit.
func (s *MessageService) SendMessage(input SendMessageInput) (*modelChat.Message, error) {
	c, err := s.Chats.FindByID(input.ChatID)
	if err != nil {
		return nil, apperrors.DatabaseError(err)
	}
	if c == nil {
		return nil, apperrors.ErrChatNotFound
	}

	var sender *modelChat.Participant
	for i := range c.Participants {
		if c.Participants[i].UserID == input.SenderID {
			sender = &c.Participants[i]
			break
		}
	}
	if sender == nil {
		return nil, apperrors.ErrNotAMember
	}

	if c.Type == modelChat.ChatTypePrivate {
		for _, p := range c.Participants {
			if p.UserID == input.SenderID {
				continue
			}
			blocked, err := s.Blocks.IsBlocked(p.UserID, input.SenderID)
			if err != nil {
				return nil, apperrors.DatabaseError(err)
			}
			if blocked {
				return nil, apperrors.ErrBlockedByUser
			}
		}
	} else {
		blocked, err := s.GroupBlocks.Exists(input.SenderID, input.ChatID)
		if err != nil {
			return nil, apperrors.DatabaseError(err)
		}
		if blocked {
			return nil, apperrors.ErrBlockedFromGroup
		}
	}

	if input.RepliedMessageID != nil {
		target, err := s.Messages.FindInChat(*input.RepliedMessageID, input.ChatID)
		if err != nil {
			return nil, apperrors.DatabaseError(err)
		}
		if target == nil {
			return nil, apperrors.ErrReplyTargetInvalid
		}
		tombstoned, err := s.DeletedMessages.Exists(input.SenderID, target.ID)
		if err != nil {
			return nil, apperrors.DatabaseError(err)
		}
		if tombstoned {
			return nil, apperrors.ErrReplyTargetInvalid
		}
	}

	msgType := modelChat.MessageType(input.Type)
	if input.Type == "" {
		msgType = modelChat.MessageTypeText
	}

	message := &modelChat.Message{
		ID:               uuid.New().String(),
		ChatID:           input.ChatID,
		SenderID:         input.SenderID,
		Type:             msgType,
		Body:             input.Body,
		RepliedMessageID: input.RepliedMessageID,
		CreatedAt:        time.Now(),
	}

	err = s.DB.Transaction(func(tx *gorm.DB) error {
		if err := s.Messages.WithTx(tx).Create(message); err != nil {
			return err
		}
		if len(input.Attachments) > 0 {
			attachments := buildAttachments(message.ID, input.Attachments)
			if err := tx.Create(&attachments).Error; err != nil {
				return err
			}
		}
		return s.Chats.WithTx(tx).Touch(input.ChatID)
	})
	if err != nil {
		return nil, apperrors.DatabaseError(err)
	}

	created, err := s.Messages.FindInChat(message.ID, input.ChatID)
	if err != nil {
		return nil, apperrors.DatabaseError(err)
	}
	return created, nil
}

// ListMessages returns the chat's messages visible to the user, newest
// first. search filters the body by regexp, since is a lower createdAt
// bound. An empty result is NoMessages, matching the 404 of the REST
// surface.
func (s *MessageService) ListMessages(userID, chatID, search string, since *time.Time) ([]modelChat.Message, error) {
	// The pattern feeds a database regexp match; reject broken ones here
	// instead of surfacing a query error.
	if search != "" {
		if _, err := regexp.Compile(search); err != nil {
			return nil, apperrors.ValidationError(map[string]string{
				"search": "must be a valid regular expression",
			})
		}
	}

	if err := s.requireMember(userID, chatID); err != nil {
		return nil, err
	}

	messages, err := s.Messages.ListVisible(chatID, userID, search, since)
	if err != nil {
		return nil, apperrors.DatabaseError(err)
	}
	if len(messages) == 0 {
		return nil, apperrors.ErrNoMessages
	}
	return messages, nil
}

// GetMessage returns one message; tombstoned-for-user is indistinguishable
// from absent.
func (s *MessageService) GetMessage(userID, chatID, messageID string) (*modelChat.Message, error) {
	if err := s.requireMember(userID, chatID); err != nil {
		return nil, err
	}

	message, err := s.Messages.FindInChat(messageID, chatID)
	if err != nil {
		return nil, apperrors.DatabaseError(err)
	}
	if message == nil {
		return nil, apperrors.ErrMessageNotFound
	}

	tombstoned, err := s.DeletedMessages.Exists(userID, messageID)
	if err != nil {
		return nil, apperrors.DatabaseError(err)
	}
	if tombstoned {
		return nil, apperrors.ErrMessageNotFound
	}
	return message, nil
}

// EditMessage replaces the body and, when new attachments are supplied,
// swaps the full attachment set in the same transaction.
func (s *MessageService) EditMessage(chatID, messageID, senderID, body string, attachments []AttachmentInput) (*modelChat.Message, error) {
	message, err := s.Messages.FindOwned(messageID, chatID, senderID)
	if err != nil {
		return nil, apperrors.DatabaseError(err)
	}
	if message == nil {
		return nil, apperrors.ErrMessageNotFound
	}

	tombstoned, err := s.DeletedMessages.Exists(senderID, messageID)
	if err != nil {
		return nil, apperrors.DatabaseError(err)
	}
	if tombstoned {
		return nil, apperrors.ErrMessageNotFound
	}

	err = s.DB.Transaction(func(tx *gorm.DB) error {
		if err := s.Messages.WithTx(tx).UpdateBody(messageID, body); err != nil {
			return err
		}
		if attachments != nil {
			rows := buildAttachments(messageID, attachments)
			return s.Messages.WithTx(tx).ReplaceAttachments(messageID, rows)
		}
		return nil
	})
	if err != nil {
		return nil, apperrors.DatabaseError(err)
	}

	edited, err := s.Messages.FindInChat(messageID, chatID)
	if err != nil {
		return nil, apperrors.DatabaseError(err)
	}
	return edited, nil
}

// DeleteMessage applies the deletion rules. Private chats get the per-user
// tombstone; once both participants hold one, the message is physically
// removed in a single transaction. In groups, owner and admin hard-delete
// anything, a plain user only their own messages.
func (s *MessageService) DeleteMessage(chatID, messageID, userID string) error {
	c, err := s.Chats.FindByID(chatID)
	if err != nil {
		return apperrors.DatabaseError(err)
	}
	if c == nil {
		return apperrors.ErrChatNotFound
	}

	var member *modelChat.Participant
	for i := range c.Participants {
		if c.Participants[i].UserID == userID {
			member = &c.Participants[i]
			break
		}
	}
	if member == nil {
		return apperrors.ErrNotAMember
	}

	message, err := s.Messages.FindInChat(messageID, chatID)
	if err != nil {
		return apperrors.DatabaseError(err)
	}
	if message == nil {
		return apperrors.ErrMessageNotFound
	}

	if c.Type == modelChat.ChatTypeGroup {
		privileged := member.Role == modelChat.RoleOwner || member.Role == modelChat.RoleAdmin
		if !privileged && message.SenderID != userID {
			return apperrors.ErrNotYourMessage
		}
		err := s.DB.Transaction(func(tx *gorm.DB) error {
			return s.Messages.WithTx(tx).HardDelete(messageID)
		})
		if err != nil {
			return apperrors.DatabaseError(err)
		}
		return nil
	}

	tombstoned, err := s.DeletedMessages.Exists(userID, messageID)
	if err != nil {
		return apperrors.DatabaseError(err)
	}
	if tombstoned {
		return apperrors.ErrMessageNotFound
	}

	if err := s.DeletedMessages.Create(userID, messageID); err != nil {
		return apperrors.DatabaseError(err)
	}

	// Convergent delete: physical removal only once both sides have
	// independently tombstoned the message.
	count, err := s.DeletedMessages.CountForMessage(messageID)
	if err != nil {
		return apperrors.DatabaseError(err)
	}
	if count >= 2 {
		err := s.DB.Transaction(func(tx *gorm.DB) error {
			return s.Messages.WithTx(tx).HardDelete(messageID)
		})
		if err != nil {
			return apperrors.DatabaseError(err)
		}
	}
	return nil
}

// UnsendMessage hard-deletes the sender's own message, allowed only while
// nobody has read it.
func (s *MessageService) UnsendMessage(chatID, messageID, senderID string) error {
	message, err := s.Messages.FindOwned(messageID, chatID, senderID)
	if err != nil {
		return apperrors.DatabaseError(err)
	}
	if message == nil {
		return apperrors.ErrMessageNotFound
	}
	if message.IsRead {
		return apperrors.ErrMessageAlreadyRead
	}

	err = s.DB.Transaction(func(tx *gorm.DB) error {
		return s.Messages.WithTx(tx).HardDelete(messageID)
	})
	if err != nil {
		return apperrors.DatabaseError(err)
	}
	return nil
}

// ReactionResult reports what a React call did.
type ReactionResult struct {
	Applied  bool                       `json:"applied"`
	Reaction *modelChat.MessageReaction `json:"reaction,omitempty"`
}

// React toggles the user's reaction: same value removes it, a different one
// overwrites, none creates. At most one row per (user, message).
func (s *MessageService) React(chatID, messageID, userID, value string) (*ReactionResult, error) {
	if err := s.requireMember(userID, chatID); err != nil {
		return nil, err
	}

	message, err := s.Messages.FindInChat(messageID, chatID)
	if err != nil {
		return nil, apperrors.DatabaseError(err)
	}
	if message == nil {
		return nil, apperrors.ErrMessageNotFound
	}

	existing, err := s.Reactions.Find(userID, messageID)
	if err != nil {
		return nil, apperrors.DatabaseError(err)
	}

	if existing != nil {
		if existing.Reaction == value {
			if err := s.Reactions.Delete(existing.ID); err != nil {
				return nil, apperrors.DatabaseError(err)
			}
			return &ReactionResult{Applied: false}, nil
		}
		if err := s.Reactions.UpdateValue(existing.ID, value); err != nil {
			return nil, apperrors.DatabaseError(err)
		}
		existing.Reaction = value
		return &ReactionResult{Applied: true, Reaction: existing}, nil
	}

	reaction := &modelChat.MessageReaction{
		MessageID: messageID,
		UserID:    userID,
		Reaction:  value,
	}
	if err := s.Reactions.Create(reaction); err != nil {
		return nil, apperrors.DatabaseError(err)
	}
	return &ReactionResult{Applied: true, Reaction: reaction}, nil
}

// MarkMessagesRead marks every message in the chat not sent by the user as
// read.
func (s *MessageService) MarkMessagesRead(chatID, userID string) error {
	if err := s.requireMember(userID, chatID); err != nil {
		return err
	}
	if err := s.Messages.MarkRead(chatID, userID); err != nil {
		return apperrors.DatabaseError(err)
	}
	return nil
}

func (s *MessageService) requireMember(userID, chatID string) error {
	c, err := s.Chats.FindByID(chatID)
	if err != nil {
		return apperrors.DatabaseError(err)
	}
	if c == nil {
		return apperrors.ErrChatNotFound
	}
	isMember, err := s.Participants.IsMember(userID, chatID)
	if err != nil {
		return apperrors.DatabaseError(err)
	}
	if !isMember {
		return apperrors.ErrNotAMember
	}
	return nil
}

func buildAttachments(messageID string, inputs []AttachmentInput) []modelChat.MessageAttachment {
	rows := make([]modelChat.MessageAttachment, 0, len(inputs))
	for _, in := range inputs {
		rows = append(rows, modelChat.MessageAttachment{
			MessageID:    messageID,
			FileURL:      in.FileURL,
			ThumbnailURL: in.ThumbnailURL,
			Meta:         datatypes.JSON(in.Meta),
		})
	}
	return rows
}
