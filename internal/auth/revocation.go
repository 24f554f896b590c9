package auth

import (
	"context"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
)

// RevokedTokenPrefix namespaces revoked token ids in Redis.
const RevokedTokenPrefix = "revoked_token:"

type RevocationStore interface {
	Revoke(ctx context.Context, tokenID string, until time.Time) error
	IsRevoked(ctx context.Context, tokenID string) (bool, error)
}

// RedisRevocationStore keeps a revoked token id until the token would have
// expired anyway.
type RedisRevocationStore struct {
	Client *redis.Client
}

func NewRedisRevocationStore(client *redis.Client) *RedisRevocationStore {
	return &RedisRevocationStore{Client: client}
}

func (s *RedisRevocationStore) Revoke(ctx context.Context, tokenID string, until time.Time) error {
	if s.Client == nil {
		return fmt.Errorf("redis client not initialized")
	}

	ttl := time.Until(until)
	if ttl <= 0 {
		return nil
	}
	if err := s.Client.Set(ctx, RevokedTokenPrefix+tokenID, "1", ttl).Err(); err != nil {
		return fmt.Errorf("failed to store revoked token in Redis: %w", err)
	}
	return nil
}

func (s *RedisRevocationStore) IsRevoked(ctx context.Context, tokenID string) (bool, error) {
	if s.Client == nil {
		return false, fmt.Errorf("redis client not initialized")
	}

	n, err := s.Client.Exists(ctx, RevokedTokenPrefix+tokenID).Result()
	if err != nil {
		return false, fmt.Errorf("failed to check revoked token in Redis: %w", err)
	}
	return n > 0, nil
}
