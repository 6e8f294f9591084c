package dto

import "messenger_backend/internal/models"

type SignupRequest struct {
	Email     string  `json:"email" validate:"required,email,max=40"`
	Password  string  `json:"password" validate:"required,min=8,max=72"`
	Phone     *string `json:"phone,omitempty" validate:"omitempty,max=16"`
	FirstName *string `json:"firstName,omitempty" validate:"omitempty,max=20"`
	LastName  *string `json:"lastName,omitempty" validate:"omitempty,max=20"`
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type LoginResponse struct {
	Token string       `json:"token"`
	User  *models.User `json:"user"`
}

type ActivateRequest struct {
	Token string `json:"token" validate:"required"`
}
