package state

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const statePrefix = "oauth_state:"

// RedisStore implements the Store interface using Redis
type RedisStore struct {
	client *redis.Client
}

// NewRedisStore creates a new Redis-backed state store
func NewRedisStore(client *redis.Client) *RedisStore {
	return &RedisStore{client: client}
}

// SaveState stores a state value with expiration
func (s *RedisStore) SaveState(ctx context.Context, state string, expiresIn time.Duration) error {
	if state == "" {
		return errors.New("empty state")
	}

	if err := s.client.Set(ctx, statePrefix+state, "1", expiresIn).Err(); err != nil {
		return fmt.Errorf("storing state: %w", err)
	}
	return nil
}

// ConsumeState atomically fetches and deletes a state value. Redis drops
// expired keys, so an expired state reports ErrInvalidState.
func (s *RedisStore) ConsumeState(ctx context.Context, state string) error {
	if state == "" {
		return ErrInvalidState
	}

	err := s.client.GetDel(ctx, statePrefix+state).Err()
	if errors.Is(err, redis.Nil) {
		return ErrInvalidState
	}
	if err != nil {
		return fmt.Errorf("consuming state: %w", err)
	}
	return nil
}

// CheckHealth verifies Redis connectivity
func (s *RedisStore) CheckHealth(ctx context.Context) error {
	if err := s.client.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("redis health check failed: %w", err)
	}
	return nil
}
