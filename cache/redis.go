package cache

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

// DefaultRedisPrefix is prepended to every key when no prefix is configured.
const DefaultRedisPrefix = "polyglot:"

// scanBatch is the COUNT hint used when listing keys for export.
const scanBatch = 200

// RedisCache is a Redis-backed translation cache. Several processes can
// share it; Redis serializes the writes.
type RedisCache struct {
	client    *redis.Client
	ttl       time.Duration
	keyPrefix string
	timeout   time.Duration
	logger    zerolog.Logger
}

// RedisConfig holds configuration for the Redis cache.
type RedisConfig struct {
	URL       string        // Redis connection URL (e.g., "redis://localhost:6379/0")
	TTL       time.Duration // Zero keeps entries forever
	KeyPrefix string        // Default DefaultRedisPrefix
	Timeout   time.Duration // Per-operation timeout, default 2s
}

// NewRedisCache connects to Redis and verifies the connection.
func NewRedisCache(cfg RedisConfig, opts ...Option) (*RedisCache, error) {
	redisOpts, err := redis.ParseURL(cfg.URL)
	if err != nil {
		return nil, err
	}

	c := NewRedisCacheFromClient(redis.NewClient(redisOpts), cfg, opts...)
	if err := c.Ping(); err != nil {
		_ = c.client.Close()
		return nil, err
	}
	return c, nil
}

// NewRedisCacheFromClient creates a RedisCache from an existing Redis client.
// cfg.URL is ignored.
func NewRedisCacheFromClient(client *redis.Client, cfg RedisConfig, opts ...Option) *RedisCache {
	o := buildOptions(opts)

	prefix := cfg.KeyPrefix
	if prefix == "" {
		prefix = DefaultRedisPrefix
	}
	ttl := cfg.TTL
	if ttl < 0 {
		ttl = 0
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 2 * time.Second
	}

	return &RedisCache{
		client:    client,
		ttl:       ttl,
		keyPrefix: prefix,
		timeout:   timeout,
		logger:    o.logger,
	}
}

// Get retrieves a value from Redis. Errors are logged and reported as a miss.
func (c *RedisCache) Get(key string) (string, bool) {
	ctx, cancel := context.WithTimeout(context.Background(), c.timeout)
	defer cancel()

	val, err := c.client.Get(ctx, c.keyPrefix+key).Result()
	if errors.Is(err, redis.Nil) {
		return "", false
	}
	if err != nil {
		c.logger.Warn().Err(err).Msg("redis cache read failed")
		return "", false
	}
	return val, true
}

// Set stores a value in Redis.
func (c *RedisCache) Set(key string, value string) error {
	ctx, cancel := context.WithTimeout(context.Background(), c.timeout)
	defer cancel()

	return c.client.Set(ctx, c.keyPrefix+key, value, c.ttl).Err()
}

// Entries lists every entry under the key prefix.
func (c *RedisCache) Entries() (map[string]string, error) {
	ctx := context.Background()
	result := make(map[string]string)

	var cursor uint64
	for {
		keys, next, err := c.client.Scan(ctx, cursor, c.keyPrefix+"*", scanBatch).Result()
		if err != nil {
			return nil, err
		}
		if len(keys) > 0 {
			vals, err := c.client.MGet(ctx, keys...).Result()
			if err != nil {
				return nil, err
			}
			for i, v := range vals {
				if s, ok := v.(string); ok {
					result[strings.TrimPrefix(keys[i], c.keyPrefix)] = s
				}
			}
		}
		if next == 0 {
			return result, nil
		}
		cursor = next
	}
}

// Close closes the Redis connection.
func (c *RedisCache) Close() error {
	return c.client.Close()
}

// Ping tests the Redis connection.
func (c *RedisCache) Ping() error {
	ctx, cancel := context.WithTimeout(context.Background(), c.timeout)
	defer cancel()
	return c.client.Ping(ctx).Err()
}

var (
	_ TranslationCache = (*RedisCache)(nil)
	_ Enumerable       = (*RedisCache)(nil)
)
