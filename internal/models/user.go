package models

import "time"

type UserRole string

const (
	UserRoleUser      UserRole = "user"
	UserRoleModerator UserRole = "moderator"
	UserRoleAdmin     UserRole = "admin"
)

type User struct {
	ID           string  `gorm:"primaryKey;type:uuid;default:gen_random_uuid()" json:"id"`
	Email        string  `gorm:"size:40;uniqueIndex;not null" json:"email"`
	Phone        *string `gorm:"size:16" json:"phone,omitempty"`
	PasswordHash string  `gorm:"size:100;not null" json:"-"`
	FirstName    *string `gorm:"size:20" json:"firstName,omitempty"`
	LastName     *string `gorm:"size:20" json:"lastName,omitempty"`
	Bio          *string `gorm:"type:text" json:"bio,omitempty"`

	// Inactive until the activation token is redeemed.
	IsActive  bool     `gorm:"default:false" json:"-"`
	IsBlocked bool     `gorm:"default:false" json:"-"`
	Role      UserRole `gorm:"default:'user'" json:"role"`

	LastSeen  *time.Time `json:"lastSeen,omitempty"`
	CreatedAt time.Time  `json:"createdAt"`
	UpdatedAt time.Time  `json:"-"`
}

func (User) TableName() string {
	return "users"
}
