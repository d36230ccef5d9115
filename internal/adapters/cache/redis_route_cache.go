package cache

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"meetpoint-service/internal/domain"
)

// RedisRouteCache stores travel times in Redis with a TTL. Route times
// drift with traffic data, so entries age out instead of living forever
// like the SQL cache rows.
type RedisRouteCache struct {
	Client *redis.Client
	TTL    time.Duration
}

func NewRedisRouteCache(client *redis.Client, ttl time.Duration) *RedisRouteCache {
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &RedisRouteCache{Client: client, TTL: ttl}
}

func redisKey(origin, destination domain.Point) string {
	return "route:" + coordKey(origin) + "|" + coordKey(destination)
}

// Fetch cached travel times for one origin and multiple destinations.
func (c *RedisRouteCache) GetMany(
	ctx context.Context,
	origin domain.Point,
	destinations []domain.Point,
) (map[domain.Point]int, error) {
	if c.Client == nil {
		return nil, errors.New("route cache: redis client is nil")
	}

	if len(destinations) == 0 {
		return map[domain.Point]int{}, nil
	}

	keys := make([]string, len(destinations))
	for i, d := range destinations {
		keys[i] = redisKey(origin, d)
	}

	vals, err := c.Client.MGet(ctx, keys...).Result()
	if err != nil {
		return nil, fmt.Errorf("get route cache: mget: %w", err)
	}

	out := make(map[domain.Point]int, len(destinations))
	for i, v := range vals {
		if v == nil {
			continue
		}
		s, ok := v.(string)
		if !ok {
			continue
		}
		seconds, err := strconv.Atoi(s)
		if err != nil {
			continue
		}
		out[destinations[i]] = seconds
	}

	return out, nil
}

// Store many cached travel times for a single origin.
func (c *RedisRouteCache) PutMany(
	ctx context.Context,
	origin domain.Point,
	results map[domain.Point]int,
) error {
	if c.Client == nil {
		return errors.New("route cache: redis client is nil")
	}

	if len(results) == 0 {
		return nil
	}

	pipe := c.Client.Pipeline()
	for dest, seconds := range results {
		pipe.Set(ctx, redisKey(origin, dest), strconv.Itoa(seconds), c.TTL)
	}
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("insert route cache: pipeline exec: %w", err)
	}

	return nil
}
