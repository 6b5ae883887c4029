// Package redis is the Redis-backed extraction cache, shared by every
// instance of the service so a document extracted once is never paid for
// again.
package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/arkus-mindteams/Notary-sub000/internal/platform/config"
	"github.com/arkus-mindteams/Notary-sub000/internal/ports"
)

// Compile-time interface checks.
var (
	_ ports.ExtractionCache = (*Cache)(nil)
	_ ports.HealthChecker   = (*Cache)(nil)
)

// keyPrefix namespaces cache keys within a shared Redis database.
const keyPrefix = "preaviso:"

// Cache stores extraction results under content-addressed keys.
type Cache struct {
	client *redis.Client
	ttl    time.Duration
}

// Connect creates a go-redis client from cfg and verifies it with PING.
func Connect(ctx context.Context, cfg config.RedisConfig) (*redis.Client, error) {
	opts, err := redis.ParseURL(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("parse redis URL: %w", err)
	}

	if cfg.PoolSize > 0 {
		opts.PoolSize = cfg.PoolSize
	}
	opts.MinIdleConns = cfg.MinIdleConns
	if cfg.DialTimeout > 0 {
		opts.DialTimeout = cfg.DialTimeout
	}
	if cfg.ReadTimeout > 0 {
		opts.ReadTimeout = cfg.ReadTimeout
	}
	if cfg.WriteTimeout > 0 {
		opts.WriteTimeout = cfg.WriteTimeout
	}

	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("redis ping failed: %w", err)
	}
	return client, nil
}

// New wraps an existing client. The client's lifecycle is managed by the
// caller. A zero ttl stores entries without expiry.
func New(client *redis.Client, ttl time.Duration) *Cache {
	return &Cache{client: client, ttl: ttl}
}

// Get returns the value stored under key.
func (c *Cache) Get(ctx context.Context, key string) ([]byte, bool, error) {
	value, err := c.client.Get(ctx, keyPrefix+key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("redis get %s: %w", key, err)
	}
	return value, true, nil
}

// Set upserts value under key with the configured TTL.
func (c *Cache) Set(ctx context.Context, key string, value []byte) error {
	if err := c.client.Set(ctx, keyPrefix+key, value, c.ttl).Err(); err != nil {
		return fmt.Errorf("redis set %s: %w", key, err)
	}
	return nil
}

// Name returns the identifier used in the health registry.
func (c *Cache) Name() string {
	return "redis"
}

// HealthCheck pings Redis.
func (c *Cache) HealthCheck(ctx context.Context) error {
	return c.client.Ping(ctx).Err()
}
