package preferences

import (
	"context"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"
)

// Compile-time interface guard.
var _ Repository = (*RedisRepository)(nil)

// RedisRepository implements Repository on a Redis server. Records never expire.
type RedisRepository struct {
	client *redis.Client
}

// NewRedisRepository wraps an already-connected client.
func NewRedisRepository(client *redis.Client) *RedisRepository {
	return &RedisRepository{client: client}
}

func (r *RedisRepository) Get(ctx context.Context, key string) (string, error) {
	val, err := r.client.Get(ctx, key).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", ErrNotFound
		}
		return "", fmt.Errorf("get preference record %q: %w", key, err)
	}
	return val, nil
}

func (r *RedisRepository) Set(ctx context.Context, key, value string) error {
	if err := r.client.Set(ctx, key, value, 0).Err(); err != nil {
		return fmt.Errorf("set preference record %q: %w", key, err)
	}
	return nil
}

func (r *RedisRepository) Delete(ctx context.Context, key string) error {
	n, err := r.client.Del(ctx, key).Result()
	if err != nil {
		return fmt.Errorf("delete preference record %q: %w", key, err)
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}
