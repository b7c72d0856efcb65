package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	"village-route-service/internal/platform/obs"
	"village-route-service/internal/ports"
)

// RedisRouteCache stores solved visiting orders as JSON values with a TTL.
// Keys are expected to be instance fingerprints computed by the caller.
type RedisRouteCache struct {
	Client *redis.Client
	TTL    time.Duration
}

func NewRedisRouteCache(client *redis.Client, ttl time.Duration) *RedisRouteCache {
	return &RedisRouteCache{Client: client, TTL: ttl}
}

// Fetch a cached route. A missing key is not an error.
func (c *RedisRouteCache) Get(ctx context.Context, key string) (_ ports.CachedRoute, _ bool, err error) {
	defer obs.Time(ctx, "route.cache.Get")(&err)

	if c.Client == nil {
		return ports.CachedRoute{}, false, errors.New("route cache: client is nil")
	}

	if strings.TrimSpace(key) == "" {
		return ports.CachedRoute{}, false, errors.New("get route cache: key must not be empty")
	}

	raw, err := c.Client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return ports.CachedRoute{}, false, nil
	}
	if err != nil {
		return ports.CachedRoute{}, false, fmt.Errorf("get route cache key=%q: %w", key, err)
	}

	var out ports.CachedRoute
	if err := json.Unmarshal(raw, &out); err != nil {
		return ports.CachedRoute{}, false, fmt.Errorf("get route cache key=%q: decode: %w", key, err)
	}

	return out, true, nil
}

// Store a route under key, replacing any previous value.
func (c *RedisRouteCache) Put(ctx context.Context, key string, route ports.CachedRoute) (err error) {
	defer obs.Time(ctx, "route.cache.Put")(&err)

	if c.Client == nil {
		return errors.New("route cache: client is nil")
	}

	if strings.TrimSpace(key) == "" {
		return errors.New("put route cache: key must not be empty")
	}

	payload, err := json.Marshal(route)
	if err != nil {
		return fmt.Errorf("put route cache key=%q: encode: %w", key, err)
	}

	if err := c.Client.Set(ctx, key, payload, c.TTL).Err(); err != nil {
		return fmt.Errorf("put route cache key=%q: %w", key, err)
	}

	return nil
}
