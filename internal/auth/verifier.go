package auth

import (
	"context"
	"fmt"
	"strings"

	"realty_bureau_backend/internal/common"
	"realty_bureau_backend/internal/config"
	"realty_bureau_backend/internal/firebase"
	"realty_bureau_backend/internal/shared"

	"go.uber.org/zap"
	"google.golang.org/api/idtoken"
)

// googleIssuers are the accepted `iss` values of Google ID tokens.
var googleIssuers = map[string]bool{
	"accounts.google.com":         true,
	"https://accounts.google.com": true,
}

// GoogleVerifier validates Google ID tokens against the configured client id.
type GoogleVerifier struct {
	audience string
	validate func(ctx context.Context, token, audience string) (*idtoken.Payload, error)
	logger   *zap.Logger
}

// NewGoogleVerifier creates a verifier backed by Google's published keys.
func NewGoogleVerifier(clientID string, logger *zap.Logger) *GoogleVerifier {
	return &GoogleVerifier{audience: clientID, validate: idtoken.Validate, logger: logger}
}

func (v *GoogleVerifier) Verify(ctx context.Context, credential string) (*shared.OAuthUserProfile, error) {
	if v.audience == "" {
		return nil, common.ErrServiceUnavailable.WithDetails("Google sign-in is not configured.")
	}
	payload, err := v.validate(ctx, credential, v.audience)
	if err != nil {
		v.logger.Warn("Google ID token verification failed", zap.Error(err))
		return nil, common.ErrUnauthorized.WithDetails("Invalid Google credential.")
	}
	if !googleIssuers[payload.Issuer] {
		v.logger.Warn("Google ID token has unexpected issuer", zap.String("issuer", payload.Issuer))
		return nil, common.ErrUnauthorized.WithDetails("Invalid Google credential.")
	}
	return profileFromClaims(payload.Subject, payload.Claims)
}

// FirebaseVerifier validates Firebase ID tokens issued for Google sign-in.
type FirebaseVerifier struct {
	service *firebase.FirebaseService
	logger  *zap.Logger
}

// NewFirebaseVerifier wraps an initialized Firebase service.
func NewFirebaseVerifier(service *firebase.FirebaseService, logger *zap.Logger) *FirebaseVerifier {
	return &FirebaseVerifier{service: service, logger: logger}
}

func (v *FirebaseVerifier) Verify(ctx context.Context, credential string) (*shared.OAuthUserProfile, error) {
	token, err := v.service.VerifyIDToken(ctx, credential)
	if err != nil {
		return nil, common.ErrUnauthorized.WithDetails("Invalid Google credential.")
	}
	return profileFromClaims(firebase.GoogleSubject(token), token.Claims)
}

// NewIdentityVerifier picks the verifier named by GOOGLE_VERIFIER.
func NewIdentityVerifier(cfg *config.Config, logger *zap.Logger) (IdentityVerifier, error) {
	if cfg.GoogleVerifier == config.VerifierFirebase {
		service, err := firebase.NewFirebaseService(cfg, logger)
		if err != nil {
			return nil, fmt.Errorf("init firebase verifier: %w", err)
		}
		return NewFirebaseVerifier(service, logger), nil
	}
	if cfg.GoogleClientID == "" {
		logger.Warn("GOOGLE_CLIENT_ID is empty; Google sign-in will be rejected")
	}
	return NewGoogleVerifier(cfg.GoogleClientID, logger), nil
}

func profileFromClaims(subject string, claims map[string]interface{}) (*shared.OAuthUserProfile, error) {
	profile := &shared.OAuthUserProfile{
		ProviderID:    subject,
		Email:         claimString(claims, "email"),
		EmailVerified: claimBool(claims, "email_verified"),
		Name:          claimString(claims, "name"),
		PictureURL:    claimString(claims, "picture"),
	}
	if profile.ProviderID == "" || strings.TrimSpace(profile.Email) == "" {
		return nil, common.ErrUnauthorized.WithDetails("Google credential carries no account email.")
	}
	if !profile.EmailVerified {
		return nil, common.ErrUnauthorized.WithDetails("Google account email is not verified.")
	}
	return profile, nil
}

func claimString(claims map[string]interface{}, key string) string {
	s, _ := claims[key].(string)
	return s
}

// claimBool accepts both JSON booleans and the "true" string some issuers send.
func claimBool(claims map[string]interface{}, key string) bool {
	switch v := claims[key].(type) {
	case bool:
		return v
	case string:
		return strings.EqualFold(v, "true")
	}
	return false
}
