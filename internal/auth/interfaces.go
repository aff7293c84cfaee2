// File: internal/auth/interfaces.go
package auth

import (
	"context"

	"realty_bureau_backend/internal/shared"
	"realty_bureau_backend/internal/user"

	"github.com/google/uuid"
)

// UserProvider defines the account operations the auth flows need.
// It is implemented by user.ServiceImplementation.
type UserProvider interface {
	Register(ctx context.Context, in user.RegisterInput) (*user.User, error)
	Authenticate(ctx context.Context, email, password string) (*user.User, error)
	GetUserByID(ctx context.Context, id uuid.UUID) (*user.User, error)
	FindOrCreateOAuthUser(ctx context.Context, profile shared.OAuthUserProfile) (*user.User, bool, error)
}

// IdentityVerifier checks a third-party ID token and returns the identity
// it asserts.
type IdentityVerifier interface {
	Verify(ctx context.Context, credential string) (*shared.OAuthUserProfile, error)
}
