// Package cache stores rendered public listings in Redis. Admin writes
// invalidate by key prefix, so a stale listing lives at most until the next edit
// or the configured TTL.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/journal-content-api/internal/config"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

const (
	keyPrefix         = "journal:content:"
	connectionTimeout = 5 * time.Second
	scanBatch         = 100
)

// ErrMiss is returned by GetJSON when the key is absent
var ErrMiss = errors.New("cache miss")

// ContentCache is a JSON cache for listing results
type ContentCache interface {
	GetJSON(ctx context.Context, key string, dest interface{}) error
	SetJSON(ctx context.Context, key string, value interface{}) error
	Invalidate(ctx context.Context, prefix string) error
}

// Key builds a cache key from a resource name and its listing parameters
func Key(resource string, parts ...string) string {
	key := resource
	for _, p := range parts {
		key += ":" + p
	}
	return key
}

// redisCache is the Redis-backed ContentCache
type redisCache struct {
	client redis.UniversalClient
	ttl    time.Duration
	log    zerolog.Logger
}

// NewRedis wraps an existing client
func NewRedis(client redis.UniversalClient, ttl time.Duration, log zerolog.Logger) ContentCache {
	return &redisCache{
		client: client,
		ttl:    ttl,
		log:    log.With().Str("component", "cache").Logger(),
	}
}

// Connect dials Redis and verifies the connection. A disabled config yields the no-op cache.
func Connect(cfg *config.RedisConfig, log zerolog.Logger) (ContentCache, func() error, error) {
	if !cfg.Enabled() {
		log.Info().Msg("Redis not configured, content cache disabled")
		return Noop{}, func() error { return nil }, nil
	}

	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Address,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), connectionTimeout)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, nil, fmt.Errorf("redis ping failed: %w", err)
	}

	log.Info().Str("address", cfg.Address).Dur("ttl", cfg.CacheTTL).Msg("Content cache connected")
	return NewRedis(client, cfg.CacheTTL, log), client.Close, nil
}

func (c *redisCache) GetJSON(ctx context.Context, key string, dest interface{}) error {
	data, err := c.client.Get(ctx, keyPrefix+key).Bytes()
	if errors.Is(err, redis.Nil) {
		return ErrMiss
	}
	if err != nil {
		return fmt.Errorf("cache get %s: %w", key, err)
	}
	if err := json.Unmarshal(data, dest); err != nil {
		return fmt.Errorf("cache decode %s: %w", key, err)
	}
	return nil
}

func (c *redisCache) SetJSON(ctx context.Context, key string, value interface{}) error {
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("cache encode %s: %w", key, err)
	}
	if err := c.client.Set(ctx, keyPrefix+key, data, c.ttl).Err(); err != nil {
		return fmt.Errorf("cache set %s: %w", key, err)
	}
	return nil
}

// Invalidate deletes every key under prefix
func (c *redisCache) Invalidate(ctx context.Context, prefix string) error {
	var cursor uint64
	deleted := 0
	for {
		keys, next, err := c.client.Scan(ctx, cursor, keyPrefix+prefix+"*", scanBatch).Result()
		if err != nil {
			return fmt.Errorf("cache scan %s: %w", prefix, err)
		}
		if len(keys) > 0 {
			if err := c.client.Del(ctx, keys...).Err(); err != nil {
				return fmt.Errorf("cache delete %s: %w", prefix, err)
			}
			deleted += len(keys)
		}
		cursor = next
		if cursor == 0 {
			break
		}
	}

	c.log.Debug().Str("prefix", prefix).Int("deleted", deleted).Msg("Cache invalidated")
	return nil
}

// Noop is the ContentCache used when Redis is not configured
type Noop struct{}

func (Noop) GetJSON(context.Context, string, interface{}) error { return ErrMiss }
func (Noop) SetJSON(context.Context, string, interface{}) error { return nil }
func (Noop) Invalidate(context.Context, string) error           { return nil }
