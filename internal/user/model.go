// File: internal/user/model.go
package user

import (
	"strings"
	"time"

	"realty_bureau_backend/internal/common"

	"github.com/google/uuid"
)

// User represents the user model in the database.
type User struct {
	common.BaseModel
	Name         string  `gorm:"type:text;not null"`
	Email        string  `gorm:"type:text;not null;uniqueIndex:idx_users_email"`
	PasswordHash *string `gorm:"type:text"` // nil for Google-only accounts
	GoogleID     *string `gorm:"type:text;index:idx_users_google_id"`
	Picture      *string `gorm:"type:text"`
	Role         string  `gorm:"type:text;not null;default:'user'"`
}

// TableName specifies the table name for the User model.
func (User) TableName() string {
	return "users"
}

func (u *User) GetID() uuid.UUID {
	return u.ID
}

func (u *User) GetEmail() string {
	return u.Email
}

func (u *User) GetRole() string {
	return u.Role
}

// HasPassword reports whether the account can sign in with a password.
func (u *User) HasPassword() bool {
	return u.PasswordHash != nil && *u.PasswordHash != ""
}

// NormalizeEmail is the canonical form used for storage and lookup.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// RegisterInput carries an already validated password signup.
type RegisterInput struct {
	Name     string
	Email    string
	Password string
}

// UserResponse defines the structure for user data sent in API responses.
type UserResponse struct {
	ID           uuid.UUID `json:"id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	Picture      *string   `json:"picture,omitempty"`
	Role         string    `json:"role"`
	GoogleLinked bool      `json:"googleLinked"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

// ToUserResponse converts a User model to a UserResponse DTO.
func ToUserResponse(u *User) UserResponse {
	return UserResponse{
		ID:           u.ID,
		Name:         u.Name,
		Email:        u.Email,
		Picture:      u.Picture,
		Role:         u.Role,
		GoogleLinked: u.GoogleID != nil,
		CreatedAt:    u.CreatedAt,
		UpdatedAt:    u.UpdatedAt,
	}
}
