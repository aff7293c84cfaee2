// File: internal/user/repository.go
package user

import (
	"context"
	"errors"

	"realty_bureau_backend/internal/common"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Repository defines the interface for user data operations.
type Repository interface {
	Create(ctx context.Context, user *User) error
	FindByEmail(ctx context.Context, email string) (*User, error)
	FindByID(ctx context.Context, id uuid.UUID) (*User, error)
	FindByGoogleID(ctx context.Context, googleID string) (*User, error)
	Update(ctx context.Context, user *User) error
}

type gormRepository struct {
	db *gorm.DB
}

// NewGORMRepository creates a new GORM user repository.
func NewGORMRepository(db *gorm.DB) Repository {
	return &gormRepository{db: db}
}

// Create inserts a new user. A taken email is reported as ErrConflict.
func (r *gormRepository) Create(ctx context.Context, user *User) error {
	user.Email = NormalizeEmail(user.Email)
	if user.Role == "" {
		user.Role = common.RoleUser
	}
	if err := r.db.WithContext(ctx).Create(user).Error; err != nil {
		if common.IsUniqueViolation(err) {
			return common.ErrConflict.WithDetails("User with this email already exists.")
		}
		return err
	}
	return nil
}

// FindByEmail retrieves a user by their normalized email address.
func (r *gormRepository) FindByEmail(ctx context.Context, email string) (*User, error) {
	return r.first(ctx, "User not found with this email.", "email = ?", NormalizeEmail(email))
}

// FindByID retrieves a user by their ID.
func (r *gormRepository) FindByID(ctx context.Context, id uuid.UUID) (*User, error) {
	return r.first(ctx, "User not found with this ID.", "id = ?", id)
}

func (r *gormRepository) FindByGoogleID(ctx context.Context, googleID string) (*User, error) {
	return r.first(ctx, "User not found with this Google account.", "google_id = ?", googleID)
}

func (r *gormRepository) first(ctx context.Context, notFound string, query string, args ...interface{}) (*User, error) {
	var userModel User
	err := r.db.WithContext(ctx).Where(query, args...).First(&userModel).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, common.ErrNotFound.WithDetails(notFound)
		}
		return nil, err
	}
	return &userModel, nil
}

// Update saves every column of an existing user.
func (r *gormRepository) Update(ctx context.Context, user *User) error {
	user.Email = NormalizeEmail(user.Email)
	if err := r.db.WithContext(ctx).Save(user).Error; err != nil {
		if common.IsUniqueViolation(err) {
			return common.ErrConflict.WithDetails("Update failed: email already taken.")
		}
		return err
	}
	return nil
}
