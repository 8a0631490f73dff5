package domain

import (
	"time"

	"github.com/google/uuid"
)

// Locale selects the language for user-facing warning messages.
const (
	LocaleEn = "en"
	LocaleRu = "ru"
)

type User struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	Timezone  string    `gorm:"type:varchar(64);not null;default:'UTC'" json:"timezone"`
	Locale    string    `gorm:"type:varchar(8);not null;default:'en'" json:"locale"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
}

func (User) TableName() string {
	return "users"
}

// CreateUserRequest is the request body for creating a user
type CreateUserRequest struct {
	Timezone string `json:"timezone" validate:"required,timezone"`
	Locale   string `json:"locale,omitempty" validate:"omitempty,oneof=en ru"`
}

// UserResponse is the response body for user endpoints
type UserResponse struct {
	ID        uuid.UUID `json:"id"`
	Timezone  string    `json:"timezone"`
	Locale    string    `json:"locale"`
	CreatedAt time.Time `json:"created_at"`
}

func (u *User) ToResponse() UserResponse {
	return UserResponse{
		ID:        u.ID,
		Timezone:  u.Timezone,
		Locale:    u.Locale,
		CreatedAt: u.CreatedAt,
	}
}
