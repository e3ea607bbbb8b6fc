// Package cache provides the Redis-backed list cache service.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"strings"
	"time"

	"inkwell/internal/observability"

	"github.com/redis/go-redis/v9"
)

type metricsHook struct{}

func (h metricsHook) DialHook(next redis.DialHook) redis.DialHook {
	return next
}

func (h metricsHook) ProcessHook(next redis.ProcessHook) redis.ProcessHook {
	return func(ctx context.Context, cmd redis.Cmder) error {
		err := next(ctx, cmd)
		if err != nil && !errors.Is(err, redis.Nil) {
			observability.RedisErrors.WithLabelValues(cmd.Name()).Inc()
		}
		return err
	}
}

func (h metricsHook) ProcessPipelineHook(next redis.ProcessPipelineHook) redis.ProcessPipelineHook {
	return func(ctx context.Context, cmds []redis.Cmder) error {
		err := next(ctx, cmds)
		if err != nil && !errors.Is(err, redis.Nil) {
			observability.RedisErrors.WithLabelValues("pipeline").Inc()
		}
		return err
	}
}

// Connect creates a Redis client for the given address or URL. A failed ping
// returns a nil client: the application degrades to uncached operation
// instead of refusing to boot.
func Connect(addr string, logger *slog.Logger) *redis.Client {
	var opts *redis.Options
	if strings.Contains(addr, "://") {
		parsed, err := redis.ParseURL(addr)
		if err != nil {
			logger.Warn("invalid REDIS_URL, continuing without cache", "addr", addr, "error", err)
			return nil
		}
		opts = parsed
	} else {
		opts = &redis.Options{Addr: addr}
	}

	client := redis.NewClient(opts)
	client.AddHook(metricsHook{})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		logger.Warn("redis unavailable, continuing without cache", "error", err)
		return nil
	}
	return client
}

// Cache is the injectable list cache service. A Cache with a nil client is
// valid and treats every lookup as a miss.
type Cache struct {
	client *redis.Client
	logger *slog.Logger
}

// New returns a Cache backed by the given client. client may be nil.
func New(client *redis.Client, logger *slog.Logger) *Cache {
	if logger == nil {
		logger = slog.Default()
	}
	return &Cache{client: client, logger: logger}
}

// Client exposes the underlying Redis client (nil when caching is disabled).
func (c *Cache) Client() *redis.Client {
	return c.client
}

// GetJSON fetches key and unmarshals it into dest.
// Returns (true, nil) when found, (false, nil) on a miss.
func (c *Cache) GetJSON(ctx context.Context, key string, dest any) (bool, error) {
	if c.client == nil {
		return false, nil
	}
	s, err := c.client.Get(ctx, key).Result()
	if errors.Is(err, redis.Nil) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	if err := json.Unmarshal([]byte(s), dest); err != nil {
		return false, err
	}
	return true, nil
}

// SetJSON marshals v and stores it under key with the given TTL.
func (c *Cache) SetJSON(ctx context.Context, key string, v any, ttl time.Duration) error {
	if c.client == nil {
		return nil
	}
	b, err := json.Marshal(v)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, key, b, ttl).Err()
}

// Remember is the read-through path: it tries the cache first and, on a miss,
// calls fetch (which must populate dest) and stores the result best-effort.
// Cache read failures degrade to a fetch rather than failing the request.
func (c *Cache) Remember(ctx context.Context, resource, key string, dest any, ttl time.Duration, fetch func() error) error {
	found, err := c.GetJSON(ctx, key, dest)
	if err != nil {
		c.logger.WarnContext(ctx, "cache read failed", "key", key, "error", err)
	}
	if found {
		observability.CacheLookups.WithLabelValues(resource, "hit").Inc()
		return nil
	}
	observability.CacheLookups.WithLabelValues(resource, "miss").Inc()

	if err := fetch(); err != nil {
		return err
	}

	if err := c.SetJSON(ctx, key, dest, ttl); err != nil {
		c.logger.WarnContext(ctx, "cache write failed", "key", key, "error", err)
	}
	return nil
}

// DeleteByPrefix removes every key matching prefix* (wildcard invalidation).
// Failures are logged and swallowed so a caching failure never blocks a
// successful write.
func (c *Cache) DeleteByPrefix(ctx context.Context, resource, prefix string) {
	if c.client == nil {
		return
	}

	var cursor uint64
	for {
		keys, next, err := c.client.Scan(ctx, cursor, prefix+"*", 100).Result()
		if err != nil {
			observability.CacheInvalidationFailures.WithLabelValues(resource).Inc()
			c.logger.ErrorContext(ctx, "cache invalidation failed", "prefix", prefix, "error", err)
			return
		}
		if len(keys) > 0 {
			if err := c.client.Del(ctx, keys...).Err(); err != nil {
				observability.CacheInvalidationFailures.WithLabelValues(resource).Inc()
				c.logger.ErrorContext(ctx, "cache invalidation failed", "prefix", prefix, "error", err)
				return
			}
		}
		cursor = next
		if cursor == 0 {
			return
		}
	}
}
