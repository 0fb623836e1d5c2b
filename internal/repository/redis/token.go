package redis

import (
	"context"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"
)

// DefaultKey is the key the token is stored under.
const DefaultKey = "token"

// TokenRepository implements repository.TokenRepository using Redis.
type TokenRepository struct {
	client *redis.Client
	key    string
}

// NewTokenRepository creates a Redis-backed token repository.
func NewTokenRepository(client *redis.Client, key string) *TokenRepository {
	if key == "" {
		key = DefaultKey
	}
	return &TokenRepository{client: client, key: key}
}

// Get returns the stored token, or "" when the key does not exist.
func (r *TokenRepository) Get(ctx context.Context) (string, error) {
	token, err := r.client.Get(ctx, r.key).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", nil
		}
		return "", fmt.Errorf("redis get %s: %w", r.key, err)
	}
	return token, nil
}

// Save stores the token without expiry.
func (r *TokenRepository) Save(ctx context.Context, token string) error {
	if err := r.client.Set(ctx, r.key, token, 0).Err(); err != nil {
		return fmt.Errorf("redis set %s: %w", r.key, err)
	}
	return nil
}

// Delete removes the token key.
func (r *TokenRepository) Delete(ctx context.Context) error {
	if err := r.client.Del(ctx, r.key).Err(); err != nil {
		return fmt.Errorf("redis del %s: %w", r.key, err)
	}
	return nil
}

// Ping checks the Redis connection.
func (r *TokenRepository) Ping(ctx context.Context) error {
	return r.client.Ping(ctx).Err()
}
