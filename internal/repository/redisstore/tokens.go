package redisstore

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const refreshKeyPrefix = "milknet:refresh:"

// TokenStore is the persisted refresh-token registry. Tokens carry an
// explicit expiry through Redis TTLs instead of living in process
// memory, so validity survives restarts.
type TokenStore interface {
	Save(ctx context.Context, token string, ttl time.Duration) error
	Exists(ctx context.Context, token string) (bool, error)
	Delete(ctx context.Context, token string) error
}

// RedisTokenStore implements TokenStore on a Redis client.
type RedisTokenStore struct {
	client *redis.Client
}

// NewTokenStore connects to Redis and verifies the connection.
func NewTokenStore(ctx context.Context, addr, password string, db int) (*RedisTokenStore, error) {
	client := redis.NewClient(&redis.Options{Addr: addr, Password: password, DB: db})
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to ping redis: %w", err)
	}
	return &RedisTokenStore{client: client}, nil
}

// Save registers a refresh token with its expiry.
func (s *RedisTokenStore) Save(ctx context.Context, token string, ttl time.Duration) error {
	if err := s.client.Set(ctx, refreshKeyPrefix+token, "1", ttl).Err(); err != nil {
		return fmt.Errorf("save refresh token: %w", err)
	}
	return nil
}

// Exists reports whether a refresh token is still registered.
func (s *RedisTokenStore) Exists(ctx context.Context, token string) (bool, error) {
	n, err := s.client.Exists(ctx, refreshKeyPrefix+token).Result()
	if err != nil {
		return false, fmt.Errorf("check refresh token: %w", err)
	}
	return n > 0, nil
}

// Delete revokes a refresh token.
func (s *RedisTokenStore) Delete(ctx context.Context, token string) error {
	if err := s.client.Del(ctx, refreshKeyPrefix+token).Err(); err != nil {
		return fmt.Errorf("delete refresh token: %w", err)
	}
	return nil
}

// Close releases the underlying client.
func (s *RedisTokenStore) Close() error {
	return s.client.Close()
}
