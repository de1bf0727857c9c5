package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/esop/appliance-portal/internal/api/metrics"
)

// ResponseCache stores serialized upstream payloads with a fixed TTL so
// repeated lease/appliance requests within the window never hit the
// appliance API twice.
type ResponseCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewResponseCache wraps client with the given entry lifetime. A ttl <= 0
// falls back to 30 seconds.
func NewResponseCache(client *redis.Client, ttl time.Duration) *ResponseCache {
	if ttl <= 0 {
		ttl = 30 * time.Second
	}
	return &ResponseCache{client: client, ttl: ttl}
}

// Get returns the cached payload for key. ok is false on a miss.
func (c *ResponseCache) Get(ctx context.Context, key string) ([]byte, bool, error) {
	raw, err := c.client.Get(ctx, key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			metrics.UpstreamCacheTotal.WithLabelValues("miss").Inc()
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("cache get %s: %w", key, err)
	}
	metrics.UpstreamCacheTotal.WithLabelValues("hit").Inc()
	return raw, true, nil
}

// Set stores value under key for the configured TTL.
func (c *ResponseCache) Set(ctx context.Context, key string, value []byte) error {
	if err := c.client.Set(ctx, key, value, c.ttl).Err(); err != nil {
		return fmt.Errorf("cache set %s: %w", key, err)
	}
	return nil
}
