package discovery

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/jonathan/contact-finder/internal/types"
)

// RedisCache stores envelopes as JSON in Redis.
type RedisCache struct {
	rc     *redis.Client
	prefix string
}

// NewRedisCache wraps an existing client. Keys are namespaced with prefix.
func NewRedisCache(rc *redis.Client, prefix string) *RedisCache {
	return &RedisCache{rc: rc, prefix: prefix}
}

// Get implements Cache.
func (c *RedisCache) Get(ctx context.Context, key string) (*types.ContactResult, bool, error) {
	data, err := c.rc.Get(ctx, c.prefix+key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("failed to read cache entry: %w", err)
	}

	var result types.ContactResult
	if err := json.Unmarshal(data, &result); err != nil {
		return nil, false, fmt.Errorf("failed to decode cache entry: %w", err)
	}
	return &result, true, nil
}

// Set implements Cache. A non-positive ttl uses DefaultCacheTTL.
func (c *RedisCache) Set(ctx context.Context, key string, result *types.ContactResult, ttl time.Duration) error {
	if result == nil {
		return fmt.Errorf("cannot cache nil result")
	}
	if ttl <= 0 {
		ttl = DefaultCacheTTL
	}

	data, err := json.Marshal(result)
	if err != nil {
		return fmt.Errorf("failed to encode cache entry: %w", err)
	}
	if err := c.rc.Set(ctx, c.prefix+key, data, ttl).Err(); err != nil {
		return fmt.Errorf("failed to write cache entry: %w", err)
	}
	return nil
}
