package tokenstore

import (
	"context"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"
)

// Redis keeps the token in Redis under "<prefix>token", so several
// front-end processes share one credential.
type Redis struct {
	client *redis.Client
	key    string
}

// NewRedis creates a Redis-backed store. Prefix may be empty.
func NewRedis(client *redis.Client, prefix string) *Redis {
	if prefix == "" {
		prefix = "userfront:"
	}
	return &Redis{client: client, key: prefix + Key}
}

func (r *Redis) Get(ctx context.Context) (string, error) {
	s, err := r.client.Get(ctx, r.key).Result()
	if errors.Is(err, redis.Nil) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	return s, nil
}

func (r *Redis) Set(ctx context.Context, token string) error {
	if err := r.client.Set(ctx, r.key, token, 0).Err(); err != nil {
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	return nil
}

func (r *Redis) Remove(ctx context.Context) error {
	if err := r.client.Del(ctx, r.key).Err(); err != nil {
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	return nil
}
