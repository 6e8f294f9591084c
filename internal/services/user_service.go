package services

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"time"

	"messenger_backend/internal/auth"
	"messenger_backend/internal/email"
	"messenger_backend/internal/logger"
	"messenger_backend/internal/models"
	"messenger_backend/internal/repositories"
	"messenger_backend/pkg/apperrors"

	"gorm.io/gorm"
)

const activationTokenTTL = 24 * time.Hour

// UserService covers accounts: signup with email activation, login, and the
// directional user-level block list.
type UserService struct {
	DB     *gorm.DB
	Users  *repositories.UserRepository
	Tokens *repositories.ActivateTokenRepository
	Blocks *repositories.BlockListRepository
	Mailer email.Provider
}

func NewUserService(
	db *gorm.DB,
	users *repositories.UserRepository,
	tokens *repositories.ActivateTokenRepository,
	blocks *repositories.BlockListRepository,
	mailer email.Provider,
) *UserService {
	return &UserService{DB: db, Users: users, Tokens: tokens, Blocks: blocks, Mailer: mailer}
}

type SignupInput struct {
	Email     string
	Password  string
	Phone     *string
	FirstName *string
	LastName  *string
}

// Signup creates an inactive account and mails an activation token. Mail
// failures are logged but do not fail the signup; the token row stays valid.
func (s *UserService) Signup(input SignupInput) (*models.User, error) {
	if err := auth.ValidatePassword(input.Password); err != nil {
		return nil, apperrors.ValidationError(map[string]string{"password": err.Error()})
	}

	hash, err := auth.HashPassword(input.Password)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}

	user := &models.User{
		Email:        input.Email,
		Phone:        input.Phone,
		PasswordHash: hash,
		FirstName:    input.FirstName,
		LastName:     input.LastName,
	}

	token := &models.ActivateToken{
		Token:     newActivationToken(),
		ExpiresAt: time.Now().Add(activationTokenTTL),
	}

	err = s.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(user).Error; err != nil {
			return err
		}
		token.UserID = user.ID
		return tx.Create(token).Error
	})
	if err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, apperrors.ErrEmailAlreadyTaken
		}
		return nil, apperrors.DatabaseError(err)
	}

	if err := s.Mailer.SendActivation(user.Email, token.Token); err != nil {
		logger.Error("failed to send activation email", "user_id", user.ID, "error", err)
	}
	return user, nil
}

// Login checks credentials and returns a signed access token. Inactive
// accounts are rejected until activation.
func (s *UserService) Login(emailAddr, password string) (string, *models.User, error) {
	user, err := s.Users.FindByEmail(emailAddr)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", nil, apperrors.ErrUnauthorized
		}
		return "", nil, apperrors.DatabaseError(err)
	}

	if !auth.CheckPasswordHash(password, user.PasswordHash) {
		return "", nil, apperrors.ErrUnauthorized
	}
	if !user.IsActive {
		return "", nil, apperrors.ErrUserNotActive
	}

	token, err := auth.GenerateToken(user.ID, string(user.Role))
	if err != nil {
		return "", nil, apperrors.InternalError(err)
	}

	if err := s.Users.UpdateLastSeen(user.ID); err != nil {
		logger.Warn("failed to update last_seen", "user_id", user.ID, "error", err)
	}
	return token, user, nil
}

// Activate redeems an activation token; expired or unknown tokens are
// rejected the same way.
func (s *UserService) Activate(token string) error {
	row, err := s.Tokens.FindByToken(token)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperrors.ErrInvalidToken
		}
		return apperrors.DatabaseError(err)
	}
	if time.Now().After(row.ExpiresAt) {
		return apperrors.ErrInvalidToken
	}

	err = s.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&models.User{}).Where("id = ?", row.UserID).
			Update("is_active", true).Error; err != nil {
			return err
		}
		return tx.Where("id = ?", row.ID).Delete(&models.ActivateToken{}).Error
	})
	if err != nil {
		return apperrors.DatabaseError(err)
	}
	return nil
}

func (s *UserService) GetByID(userID string) (*models.User, error) {
	user, err := s.Users.FindByID(userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrUserNotFound
		}
		return nil, apperrors.DatabaseError(err)
	}
	return user, nil
}

// BlockUser adds targetID to the caller's block list. Blocking twice is a
// no-op thanks to the unique pair index.
func (s *UserService) BlockUser(userID, targetID string) error {
	if userID == targetID {
		return apperrors.ErrSelfBlock
	}
	if _, err := s.GetByID(targetID); err != nil {
		return err
	}

	if err := s.Blocks.Block(userID, targetID); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil
		}
		return apperrors.DatabaseError(err)
	}
	return nil
}

func (s *UserService) UnblockUser(userID, targetID string) error {
	if err := s.Blocks.Unblock(userID, targetID); err != nil {
		return apperrors.DatabaseError(err)
	}
	return nil
}

func (s *UserService) Deactivate(userID string) error {
	if err := s.Users.Deactivate(userID); err != nil {
		return apperrors.DatabaseError(err)
	}
	return nil
}

func newActivationToken() string {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		panic(err)
	}
	return hex.EncodeToString(b)
}
