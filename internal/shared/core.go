package shared

import (
	"context"
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

var (
	// ErrInvalidToken covers malformed, expired and wrongly signed tokens.
	ErrInvalidToken = errors.New("invalid token")
	// ErrTokenRevoked is returned for tokens revoked by logout.
	ErrTokenRevoked = errors.New("token has been revoked")
)

// UserDataForToken is the subset of a user needed to mint a token.
type UserDataForToken interface {
	GetID() uuid.UUID
	GetEmail() string
	GetRole() string
}

// TokenService issues and verifies access tokens.
type TokenService interface {
	GenerateAccessToken(userData UserDataForToken) (string, time.Time, error)
	// ValidateToken rejects expired, tampered and revoked tokens.
	ValidateToken(ctx context.Context, tokenString string) (*Claims, error)
	// Revoke blocks the token identified by claims until it expires.
	Revoke(ctx context.Context, claims *Claims) error
}

// Claims represents the JWT claims structure.
type Claims struct {
	UserID uuid.UUID `json:"userId"`
	Email  string    `json:"email"`
	Role   string    `json:"role"`
	jwt.RegisteredClaims
}

// TokenResponse is returned by every successful sign-in.
type TokenResponse struct {
	Token     string    `json:"token"`
	TokenType string    `json:"tokenType"`
	ExpiresAt time.Time `json:"expiresAt"`
}

// OAuthUserProfile holds the identity asserted by a verified provider token.
type OAuthUserProfile struct {
	ProviderID    string
	Email         string
	EmailVerified bool
	Name          string
	PictureURL    string
}
