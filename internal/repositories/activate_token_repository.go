package repositories

import (
	"messenger_backend/internal/models"

	"gorm.io/gorm"
)

type ActivateTokenRepository struct {
	DB *gorm.DB
}

func NewActivateTokenRepository(db *gorm.DB) *ActivateTokenRepository {
	return &ActivateTokenRepository{DB: db}
}

func (r *ActivateTokenRepository) Create(token *models.ActivateToken) error {
	return r.DB.Create(token).Error
}

func (r *ActivateTokenRepository) FindByToken(token string) (*models.ActivateToken, error) {
	var t models.ActivateToken
	err := r.DB.First(&t, "token = ?", token).Error
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func (r *ActivateTokenRepository) Delete(id string) error {
	return r.DB.Where("id = ?", id).Delete(&models.ActivateToken{}).Error
}
