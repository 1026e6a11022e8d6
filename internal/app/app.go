// Package app wires configuration into the client and its token store.
// Every entry point (CLI, web, MCP) builds its dependencies through here.
package app

import (
	"context"
	"fmt"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
	"github.com/userfront/userfront/client"
	"github.com/userfront/userfront/internal/config"
	"github.com/userfront/userfront/tokenstore"
)

// redisConnectTimeout bounds how long startup waits for Redis.
const redisConnectTimeout = 15 * time.Second

// OpenStore builds the token store selected by cfg. The returned close
// function releases any connection and is never nil.
func OpenStore(ctx context.Context, cfg *config.Config) (tokenstore.Store, func() error, error) {
	noop := func() error { return nil }
	switch cfg.TokenStore {
	case config.StoreMemory:
		return tokenstore.NewMemory(""), noop, nil
	case config.StoreFile, "":
		s, err := tokenstore.NewFile(cfg.StateDir)
		if err != nil {
			return nil, noop, fmt.Errorf("open file token store: %w", err)
		}
		return s, noop, nil
	case config.StoreRedis:
		rdb := redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		if err := pingWithBackoff(ctx, rdb, redisConnectTimeout); err != nil {
			_ = rdb.Close()
			return nil, noop, fmt.Errorf("connect redis %s: %w", cfg.RedisAddr, err)
		}
		log.Info().Str("addr", cfg.RedisAddr).Msg("using Redis for token storage")
		return tokenstore.NewRedis(rdb, cfg.RedisKeyPrefix), rdb.Close, nil
	default:
		return nil, noop, fmt.Errorf("unsupported token store %q", cfg.TokenStore)
	}
}

// pingWithBackoff tolerates Redis starting after us.
func pingWithBackoff(ctx context.Context, rdb *redis.Client, maxElapsed time.Duration) error {
	exp := backoff.NewExponentialBackOff()
	exp.InitialInterval = 200 * time.Millisecond
	exp.MaxElapsedTime = maxElapsed
	attempt := 0
	return backoff.Retry(func() error {
		attempt++
		err := rdb.Ping(ctx).Err()
		if err != nil {
			log.Warn().Err(err).Int("attempt", attempt).Msg("redis ping failed")
		}
		return err
	}, backoff.WithContext(exp, ctx))
}

// NewClient builds the backend client for cfg around store.
func NewClient(cfg *config.Config, store tokenstore.Store, onExpired client.SessionExpiredFunc, opts ...client.Option) (*client.Client, error) {
	base := []client.Option{
		client.WithTokenStore(store),
		client.WithSessionExpired(onExpired),
		client.WithLogger(log.Logger),
	}
	if cfg.Debug {
		base = append(base, client.WithDebugLogging(true))
	}
	return client.New(cfg.APIBaseURL, append(base, opts...)...)
}
