package user

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"realty_bureau_backend/internal/common"
	"realty_bureau_backend/internal/platform/crypto"
	"realty_bureau_backend/internal/shared"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Service defines the user business operations.
type Service interface {
	Register(ctx context.Context, in RegisterInput) (*User, error)
	Authenticate(ctx context.Context, email, password string) (*User, error)
	GetUserByID(ctx context.Context, id uuid.UUID) (*User, error)
	FindOrCreateOAuthUser(ctx context.Context, profile shared.OAuthUserProfile) (usr *User, wasCreated bool, err error)
}

// ServiceImplementation implements Service.
type ServiceImplementation struct {
	repo   Repository
	logger *zap.Logger
}

var _ Service = (*ServiceImplementation)(nil)

// NewService creates a new user service.
func NewService(repo Repository, logger *zap.Logger) *ServiceImplementation {
	return &ServiceImplementation{
		repo:   repo,
		logger: logger,
	}
}

// invalidCredentials is shared by every login failure so callers cannot
// probe which emails are registered.
var invalidCredentials = common.ErrUnauthorized.WithDetails("Invalid email or password.")

// Register creates a password account.
func (s *ServiceImplementation) Register(ctx context.Context, in RegisterInput) (*User, error) {
	email := NormalizeEmail(in.Email)
	_, err := s.repo.FindByEmail(ctx, email)
	if err == nil {
		return nil, common.ErrConflict.WithDetails("User with this email already exists.")
	}
	if !errors.Is(err, common.ErrNotFound) {
		return nil, fmt.Errorf("failed to check existing user by email: %w", err)
	}

	hash, err := crypto.HashPassword(in.Password)
	if err != nil {
		if errors.Is(err, crypto.ErrPasswordTooLong) {
			return nil, common.NewFieldError("password", "The password field must be at most 72 bytes long.")
		}
		s.logger.Error("Failed to hash password during registration", zap.Error(err))
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	usr := &User{
		Name:         strings.TrimSpace(in.Name),
		Email:        email,
		PasswordHash: &hash,
		Role:         common.RoleUser,
	}
	if err := s.repo.Create(ctx, usr); err != nil {
		if _, ok := common.IsAPIError(err); ok {
			return nil, err
		}
		s.logger.Error("Failed to create user in repository", zap.Error(err), zap.String("email", email))
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	s.logger.Info("User registered successfully", zap.String("userID", usr.ID.String()))
	return usr, nil
}

// Authenticate checks a password login.
func (s *ServiceImplementation) Authenticate(ctx context.Context, email, password string) (*User, error) {
	usr, err := s.repo.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			s.logger.Info("User not found during login", zap.String("email", NormalizeEmail(email)))
			return nil, invalidCredentials
		}
		s.logger.Error("Error finding user by email during login", zap.Error(err))
		return nil, fmt.Errorf("failed to look up user: %w", err)
	}

	if !usr.HasPassword() {
		s.logger.Info("Password login attempted on a Google-only account", zap.String("userID", usr.ID.String()))
		return nil, invalidCredentials
	}
	if !crypto.CheckPasswordHash(password, *usr.PasswordHash) {
		s.logger.Warn("Invalid password attempt", zap.String("userID", usr.ID.String()))
		return nil, invalidCredentials
	}
	return usr, nil
}

func (s *ServiceImplementation) GetUserByID(ctx context.Context, id uuid.UUID) (*User, error) {
	usr, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if !errors.Is(err, common.ErrNotFound) {
			s.logger.Error("Error finding user by ID", zap.Error(err), zap.String("userID", id.String()))
		}
		return nil, err
	}
	return usr, nil
}

// FindOrCreateOAuthUser resolves a verified Google identity to a local
// account. Lookup is by Google subject first, then by email; a password
// account found by email gets the Google subject linked.
func (s *ServiceImplementation) FindOrCreateOAuthUser(ctx context.Context, profile shared.OAuthUserProfile) (*User, bool, error) {
	usr, err := s.repo.FindByGoogleID(ctx, profile.ProviderID)
	if err == nil {
		return usr, false, nil
	}
	if !errors.Is(err, common.ErrNotFound) {
		return nil, false, fmt.Errorf("failed to find user by google id: %w", err)
	}

	email := NormalizeEmail(profile.Email)
	usr, err = s.repo.FindByEmail(ctx, email)
	switch {
	case err == nil:
		return s.linkGoogle(ctx, usr, profile)
	case !errors.Is(err, common.ErrNotFound):
		return nil, false, fmt.Errorf("failed to find user by email: %w", err)
	}

	usr = &User{
		Name:     oauthDisplayName(profile),
		Email:    email,
		GoogleID: &profile.ProviderID,
		Role:     common.RoleUser,
	}
	if profile.PictureURL != "" {
		usr.Picture = &profile.PictureURL
	}
	if err := s.repo.Create(ctx, usr); err != nil {
		if errors.Is(err, common.ErrConflict) {
			// Lost a race with a concurrent first login for the same email.
			existing, findErr := s.repo.FindByEmail(ctx, email)
			if findErr != nil {
				return nil, false, fmt.Errorf("failed to reload user after conflict: %w", findErr)
			}
			return s.linkGoogle(ctx, existing, profile)
		}
		s.logger.Error("Failed to create Google user", zap.Error(err), zap.String("email", email))
		return nil, false, fmt.Errorf("failed to create user: %w", err)
	}

	s.logger.Info("Created user from Google sign-in", zap.String("userID", usr.ID.String()))
	return usr, true, nil
}

func (s *ServiceImplementation) linkGoogle(ctx context.Context, usr *User, profile shared.OAuthUserProfile) (*User, bool, error) {
	if usr.GoogleID != nil {
		if *usr.GoogleID == profile.ProviderID {
			return usr, false, nil
		}
		s.logger.Warn("Email already linked to a different Google account", zap.String("userID", usr.ID.String()))
		return nil, false, common.ErrConflict.WithDetails("This email is already linked to a different Google account.")
	}

	usr.GoogleID = &profile.ProviderID
	if usr.Picture == nil && profile.PictureURL != "" {
		usr.Picture = &profile.PictureURL
	}
	if err := s.repo.Update(ctx, usr); err != nil {
		s.logger.Error("Failed to link Google account", zap.Error(err), zap.String("userID", usr.ID.String()))
		return nil, false, fmt.Errorf("failed to link google account: %w", err)
	}
	s.logger.Info("Linked Google account to existing user", zap.String("userID", usr.ID.String()))
	return usr, false, nil
}

func oauthDisplayName(profile shared.OAuthUserProfile) string {
	if name := strings.TrimSpace(profile.Name); name != "" {
		return name
	}
	local, _, _ := strings.Cut(NormalizeEmail(profile.Email), "@")
	return local
}
