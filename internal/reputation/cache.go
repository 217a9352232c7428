package reputation

import (
	"context"
	"fmt"
	"time"

	redis "github.com/redis/go-redis/v9"
)

// Cache stores recent provider race results in Redis so repeated calls from
// the same number skip the external lookups.
type Cache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewCache builds a result cache.
func NewCache(client *redis.Client, ttl time.Duration) *Cache {
	if ttl <= 0 {
		ttl = 6 * time.Hour
	}
	return &Cache{client: client, ttl: ttl}
}

// Get returns the cached verdict for a normalized number. ok is false on a
// cache miss.
func (c *Cache) Get(ctx context.Context, normalized string) (spam bool, ok bool, err error) {
	val, err := c.client.Get(ctx, c.key(normalized)).Result()
	if err == redis.Nil {
		return false, false, nil
	}
	if err != nil {
		return false, false, fmt.Errorf("reputation cache: get: %w", err)
	}
	return val == "1", true, nil
}

// Put stores a race result.
func (c *Cache) Put(ctx context.Context, normalized string, spam bool) error {
	val := "0"
	if spam {
		val = "1"
	}
	if err := c.client.Set(ctx, c.key(normalized), val, c.ttl).Err(); err != nil {
		return fmt.Errorf("reputation cache: set: %w", err)
	}
	return nil
}

// Invalidate drops a cached verdict, e.g. after a manual list change.
func (c *Cache) Invalidate(ctx context.Context, normalized string) error {
	if err := c.client.Del(ctx, c.key(normalized)).Err(); err != nil {
		return fmt.Errorf("reputation cache: del: %w", err)
	}
	return nil
}

func (c *Cache) key(normalized string) string {
	return "screen:rep:" + normalized
}
