package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/devfolio/portfolio-api/internal/core/ports"
)

const revokedKeyPrefix = "revoked:token:"

// RevocationStore records revoked token IDs until they could no longer be
// accepted anyway.
// Key format: revoked:token:<jti>
type RevocationStore struct {
	client *redis.Client
}

var _ ports.TokenRevocationStore = (*RevocationStore)(nil)

// NewRevocationStore creates a RevocationStore wrapping the given Redis client.
func NewRevocationStore(client *redis.Client) *RevocationStore {
	return &RevocationStore{client: client}
}

// Revoke marks tokenID as revoked for ttl.
func (s *RevocationStore) Revoke(ctx context.Context, tokenID string, ttl time.Duration) error {
	if tokenID == "" {
		return errors.New("revoke: empty token id")
	}
	if ttl <= 0 {
		return fmt.Errorf("revoke: non-positive ttl %s", ttl)
	}
	if err := s.client.Set(ctx, s.key(tokenID), "1", ttl).Err(); err != nil {
		return fmt.Errorf("revoke token: %w", err)
	}
	return nil
}

// IsRevoked reports whether tokenID has been revoked.
func (s *RevocationStore) IsRevoked(ctx context.Context, tokenID string) (bool, error) {
	n, err := s.client.Exists(ctx, s.key(tokenID)).Result()
	if err != nil {
		return false, fmt.Errorf("revocation check: %w", err)
	}
	return n > 0, nil
}

func (s *RevocationStore) key(tokenID string) string {
	return revokedKeyPrefix + tokenID
}
