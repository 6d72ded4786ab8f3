package repository

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/redis/go-redis/v9"
)

type redisCommander interface {
	Get(ctx context.Context, key string) *redis.StringCmd
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.StatusCmd
}

// RedisBackend stores values as plain Redis strings without expiry.
type RedisBackend struct {
	client redisCommander
}

// NewRedisBackend constructs a Redis backend.
func NewRedisBackend(client redisCommander) *RedisBackend {
	return &RedisBackend{client: client}
}

// Get implements Backend.
func (b *RedisBackend) Get(ctx context.Context, key string) (string, bool, error) {
	value, err := b.client.Get(ctx, key).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", false, nil
		}
		return "", false, fmt.Errorf("redis get %s: %w", key, err)
	}
	return value, true, nil
}

// Set implements Backend.
func (b *RedisBackend) Set(ctx context.Context, key, value string) error {
	if err := b.client.Set(ctx, key, value, 0).Err(); err != nil {
		return fmt.Errorf("redis set %s: %w", key, err)
	}
	return nil
}

// Close implements Backend.
func (b *RedisBackend) Close() error {
	if closer, ok := b.client.(io.Closer); ok {
		return closer.Close()
	}
	return nil
}
