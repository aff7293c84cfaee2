// File: internal/auth/service.go
package auth

import (
	"context"
	"fmt"
	"time"

	"realty_bureau_backend/internal/config"
	"realty_bureau_backend/internal/platform/crypto"
	"realty_bureau_backend/internal/shared"

	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"
)

const jtiBytes = 16

// JWTService issues HS256 access tokens.
type JWTService struct {
	cfg       *config.Config
	blocklist TokenBlocklistService
	logger    *zap.Logger
	now       func() time.Time
}

// NewJWTService creates a new JWT service.
func NewJWTService(cfg *config.Config, blocklist TokenBlocklistService, logger *zap.Logger) shared.TokenService {
	return &JWTService{cfg: cfg, blocklist: blocklist, logger: logger, now: time.Now}
}

func (s *JWTService) GenerateAccessToken(userData shared.UserDataForToken) (string, time.Time, error) {
	jti, err := crypto.GenerateSecureRandomString(jtiBytes)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("could not generate token id: %w", err)
	}

	issuedAt := s.now()
	expirationTime := issuedAt.Add(s.cfg.JWTAccessTokenExpiryMinutes)
	claims := &shared.Claims{
		UserID: userData.GetID(),
		Email:  userData.GetEmail(),
		Role:   userData.GetRole(),
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(expirationTime),
			IssuedAt:  jwt.NewNumericDate(issuedAt),
			Issuer:    s.cfg.JWTIssuer,
			Subject:   userData.GetID().String(),
			ID:        jti,
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString([]byte(s.cfg.JWTSecretKey))
	if err != nil {
		s.logger.Error("Failed to sign access token", zap.Error(err))
		return "", time.Time{}, fmt.Errorf("could not sign access token: %w", err)
	}
	return tokenString, expirationTime, nil
}

// ValidateToken validates a JWT token and returns its claims.
func (s *JWTService) ValidateToken(ctx context.Context, tokenString string) (*shared.Claims, error) {
	claims := &shared.Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", token.Header["alg"])
		}
		return []byte(s.cfg.JWTSecretKey), nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(s.cfg.JWTIssuer),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(s.now),
	)
	if err != nil || !token.Valid {
		s.logger.Debug("Failed to validate token", zap.Error(err))
		return nil, fmt.Errorf("%w: %v", shared.ErrInvalidToken, err)
	}
	if claims.ID == "" {
		return nil, fmt.Errorf("%w: missing token id", shared.ErrInvalidToken)
	}

	revoked, err := s.blocklist.IsBlocklisted(ctx, claims.ID)
	if err != nil {
		return nil, fmt.Errorf("check token blocklist: %w", err)
	}
	if revoked {
		return nil, shared.ErrTokenRevoked
	}
	return claims, nil
}

// Revoke blocklists the token until its own expiry.
func (s *JWTService) Revoke(ctx context.Context, claims *shared.Claims) error {
	if claims == nil || claims.ExpiresAt == nil {
		return nil
	}
	return s.blocklist.AddToBlocklist(ctx, claims.ID, claims.ExpiresAt.Time)
}
