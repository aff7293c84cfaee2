package auth

import (
	"context"
	"errors"
	"testing"

	"realty_bureau_backend/internal/common"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"google.golang.org/api/idtoken"
)

func fakeGoogle(payload *idtoken.Payload, err error) *GoogleVerifier {
	v := NewGoogleVerifier("client-id.apps.googleusercontent.com", zap.NewNop())
	v.validate = func(_ context.Context, _ string, audience string) (*idtoken.Payload, error) {
		if audience != "client-id.apps.googleusercontent.com" {
			return nil, errors.New("audience mismatch")
		}
		return payload, err
	}
	return v
}

func TestGoogleVerifier_Verify(t *testing.T) {
	v := fakeGoogle(&idtoken.Payload{
		Issuer:  "https://accounts.google.com",
		Subject: "1045",
		Claims: map[string]interface{}{
			"email":          "maya@example.com",
			"email_verified": true,
			"name":           "Maya",
			"picture":        "https://lh3/p.png",
		},
	}, nil)

	profile, err := v.Verify(context.Background(), "credential")
	require.NoError(t, err)
	assert.Equal(t, "1045", profile.ProviderID)
	assert.Equal(t, "maya@example.com", profile.Email)
	assert.True(t, profile.EmailVerified)
	assert.Equal(t, "Maya", profile.Name)
	assert.Equal(t, "https://lh3/p.png", profile.PictureURL)
}

func TestGoogleVerifier_Rejects(t *testing.T) {
	tests := []struct {
		name    string
		payload *idtoken.Payload
		err     error
	}{
		{"validation error", nil, errors.New("expired")},
		{"foreign issuer", &idtoken.Payload{Issuer: "evil.example", Subject: "1", Claims: map[string]interface{}{"email": "a@b.c", "email_verified": true}}, nil},
		{"unverified email", &idtoken.Payload{Issuer: "accounts.google.com", Subject: "1", Claims: map[string]interface{}{"email": "a@b.c", "email_verified": false}}, nil},
		{"no email", &idtoken.Payload{Issuer: "accounts.google.com", Subject: "1", Claims: map[string]interface{}{}}, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := fakeGoogle(tt.payload, tt.err).Verify(context.Background(), "credential")
			assert.ErrorIs(t, err, common.ErrUnauthorized)
		})
	}
}

func TestGoogleVerifier_NotConfigured(t *testing.T) {
	v := NewGoogleVerifier("", zap.NewNop())
	_, err := v.Verify(context.Background(), "credential")
	assert.ErrorIs(t, err, common.ErrServiceUnavailable)
}

func TestClaimBool(t *testing.T) {
	claims := map[string]interface{}{"a": true, "b": "true", "c": "no", "d": 1}
	assert.True(t, claimBool(claims, "a"))
	assert.True(t, claimBool(claims, "b"))
	assert.False(t, claimBool(claims, "c"))
	assert.False(t, claimBool(claims, "d"))
	assert.False(t, claimBool(claims, "missing"))
}
