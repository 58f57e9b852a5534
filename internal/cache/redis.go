// Package cache holds the Redis-backed counter cache for denormalized
// profile numbers.
package cache

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
)

// countTTL bounds staleness of cached counters; every read refreshes it so
// hot profiles stay cached.
const countTTL = time.Hour

// RedisCache wraps the Redis client used for follower-count caching.
type RedisCache struct {
	Client *redis.Client
}

// NewRedisCache initializes a Redis client for the given address.
func NewRedisCache(addr string) *RedisCache {
	return &RedisCache{Client: redis.NewClient(&redis.Options{Addr: addr})}
}

func (c *RedisCache) Ping(ctx context.Context) error {
	return c.Client.Ping(ctx).Err()
}

// KeyForFollowerCount generates the Redis key for a user's follower count.
func (c *RedisCache) KeyForFollowerCount(userID uint64) string {
	return fmt.Sprintf("followers:count:%d", userID)
}

// GetFollowerCount returns the cached count, or ok=false on a miss.
func (c *RedisCache) GetFollowerCount(ctx context.Context, userID uint64) (int64, bool, error) {
	key := c.KeyForFollowerCount(userID)
	val, err := c.Client.Get(ctx, key).Result()
	if errors.Is(err, redis.Nil) {
		return 0, false, nil
	} else if err != nil {
		return 0, false, err
	}
	n, err := strconv.ParseInt(val, 10, 64)
	if err != nil {
		return 0, false, nil
	}
	_ = c.Client.Expire(ctx, key, countTTL).Err() // refresh TTL on access
	return n, true, nil
}

// SetFollowerCount stores the count with a fresh TTL.
func (c *RedisCache) SetFollowerCount(ctx context.Context, userID uint64, count int64) error {
	return c.Client.Set(ctx, c.KeyForFollowerCount(userID), count, countTTL).Err()
}

// BumpFollowerCount adjusts the cached count after a follow/unfollow, if a
// value is cached. Best effort; the database column stays authoritative.
func (c *RedisCache) BumpFollowerCount(ctx context.Context, userID uint64, delta int64) {
	key := c.KeyForFollowerCount(userID)
	if n, err := c.Client.Exists(ctx, key).Result(); err != nil || n == 0 {
		return
	}
	if delta >= 0 {
		_, _ = c.Client.IncrBy(ctx, key, delta).Result()
	} else {
		_, _ = c.Client.DecrBy(ctx, key, -delta).Result()
	}
	_ = c.Client.Expire(ctx, key, countTTL).Err()
}

// Invalidate drops a user's cached counters, used when a lifecycle
// transition changes what the profile should report.
func (c *RedisCache) Invalidate(ctx context.Context, userID uint64) error {
	return c.Client.Del(ctx, c.KeyForFollowerCount(userID)).Err()
}
