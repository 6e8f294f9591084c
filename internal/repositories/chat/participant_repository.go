package chat

import (
	"errors"

	"messenger_backend/internal/models/chat"

	"gorm.io/gorm"
)

type ParticipantRepository struct {
	DB *gorm.DB
}

func NewParticipantRepository(db *gorm.DB) *ParticipantRepository {
	return &ParticipantRepository{DB: db}
}

func (r *ParticipantRepository) WithTx(tx *gorm.DB) *ParticipantRepository {
	return &ParticipantRepository{DB: tx}
}

func (r *ParticipantRepository) Create(p *chat.Participant) error {
	return r.DB.Create(p).Error
}

func (r *ParticipantRepository) CreateMany(participants []chat.Participant) error {
	return r.DB.Create(&participants).Error
}

// Get returns the membership row, or nil when the user never joined.
func (r *ParticipantRepository) Get(userID, chatID string) (*chat.Participant, error) {
	var p chat.Participant
	err := r.DB.First(&p, "user_id = ? AND chat_id = ?", userID, chatID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &p, nil
}

func (r *ParticipantRepository) IsMember(userID, chatID string) (bool, error) {
	var count int64
	err := r.DB.Model(&chat.Participant{}).
		Where("user_id = ? AND chat_id = ?", userID, chatID).
		Count(&count).Error
	return count > 0, err
}

func (r *ParticipantRepository) GetByChat(chatID string) ([]chat.Participant, error) {
	var participants []chat.Participant
	err := r.DB.Where("chat_id = ?", chatID).Find(&participants).Error
	return participants, err
}

// MemberIDs returns the user ids of everyone in the chat. The realtime
// dispatcher uses this for fan-out.
func (r *ParticipantRepository) MemberIDs(chatID string) ([]string, error) {
	var ids []string
	err := r.DB.Model(&chat.Participant{}).
		Where("chat_id = ?", chatID).
		Pluck("user_id", &ids).Error
	return ids, err
}

func (r *ParticipantRepository) Remove(userID, chatID string) error {
	return r.DB.Where("user_id = ? AND chat_id = ?", userID, chatID).
		Delete(&chat.Participant{}).Error
}

func (r *ParticipantRepository) UpdateRole(userID, chatID string, role chat.ParticipantRole) error {
	return r.DB.Model(&chat.Participant{}).
		Where("user_id = ? AND chat_id = ?", userID, chatID).
		Update("role", role).Error
}
