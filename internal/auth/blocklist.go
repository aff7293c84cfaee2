// File: internal/auth/blocklist.go
package auth

import (
	"context"
	"time"

	"github.com/patrickmn/go-cache"
)

// TokenBlocklistService records revoked token ids (JTI) until the tokens
// would have expired anyway.
type TokenBlocklistService interface {
	AddToBlocklist(ctx context.Context, jti string, expiresAt time.Time) error
	IsBlocklisted(ctx context.Context, jti string) (bool, error)
}

// InMemoryBlocklistService keeps revoked ids in a process-local go-cache.
// Revocations are lost on restart and not shared between replicas.
type InMemoryBlocklistService struct {
	cache *cache.Cache
}

// InMemoryBlocklistConfig holds the configuration for the InMemoryBlocklistService.
type InMemoryBlocklistConfig struct {
	CleanupInterval time.Duration
}

// NewInMemoryBlocklistService creates a new in-memory blocklist service.
func NewInMemoryBlocklistService(cfg InMemoryBlocklistConfig) *InMemoryBlocklistService {
	cleanup := cfg.CleanupInterval
	if cleanup <= 0 {
		cleanup = 10 * time.Minute
	}
	return &InMemoryBlocklistService{
		cache: cache.New(cache.NoExpiration, cleanup),
	}
}

// AddToBlocklist blocks jti until expiresAt. Already expired tokens are
// rejected by signature validation, so they are not stored.
func (s *InMemoryBlocklistService) AddToBlocklist(_ context.Context, jti string, expiresAt time.Time) error {
	ttl := time.Until(expiresAt)
	if jti == "" || ttl <= 0 {
		return nil
	}
	s.cache.Set(jti, struct{}{}, ttl)
	return nil
}

// IsBlocklisted checks if a token JTI exists in the in-memory cache.
func (s *InMemoryBlocklistService) IsBlocklisted(_ context.Context, jti string) (bool, error) {
	_, found := s.cache.Get(jti)
	return found, nil
}
