package repositories

import (
	"messenger_backend/internal/models"

	"gorm.io/gorm"
)

type UserRepository struct {
	DB *gorm.DB
}

func NewUserRepository(db *gorm.DB) *UserRepository {
	return &UserRepository{DB: db}
}

func (r *UserRepository) Create(user *models.User) error {
	return r.DB.Create(user).Error
}

func (r *UserRepository) FindByID(id string) (*models.User, error) {
	var user models.User
	err := r.DB.First(&user, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *UserRepository) FindByEmail(email string) (*models.User, error) {
	var user models.User
	err := r.DB.First(&user, "email = ?", email).Error
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// Activate flips the user to active after token redemption.
func (r *UserRepository) Activate(userID string) error {
	return r.DB.Model(&models.User{}).Where("id = ?", userID).Update("is_active", true).Error
}

func (r *UserRepository) Deactivate(userID string) error {
	return r.DB.Model(&models.User{}).Where("id = ?", userID).Update("is_active", false).Error
}

func (r *UserRepository) UpdateLastSeen(userID string) error {
	return r.DB.Model(&models.User{}).Where("id = ?", userID).Update("last_seen", gorm.Expr("now()")).Error
}
