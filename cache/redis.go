package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// NewRedisClient configures a Redis client and verifies connectivity.
func NewRedisClient(ctx context.Context, url string) (*redis.Client, error) {
	if url == "" {
		return nil, fmt.Errorf("redis url is required")
	}

	opt, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}

	client := redis.NewClient(opt)

	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("ping redis: %w", err)
	}

	return client, nil
}

// RedisCache is the shared L2 level
type RedisCache struct {
	client     *redis.Client
	prefix     string
	defaultTTL time.Duration
}

// NewRedisCache wraps client. Keys are stored as prefix+key.
func NewRedisCache(client *redis.Client, prefix string, defaultTTL time.Duration) *RedisCache {
	return &RedisCache{
		client:     client,
		prefix:     prefix,
		defaultTTL: defaultTTL,
	}
}

// Get fetches keys with a single MGET
func (rc *RedisCache) Get(ctx context.Context, keys []string) (map[string][]byte, []string, error) {
	found := make(map[string][]byte, len(keys))
	if len(keys) == 0 {
		return found, nil, nil
	}

	prefixed := make([]string, len(keys))
	for i, key := range keys {
		prefixed[i] = rc.prefix + key
	}

	values, err := rc.client.MGet(ctx, prefixed...).Result()
	if err != nil && !errors.Is(err, redis.Nil) {
		return nil, nil, fmt.Errorf("redis mget: %w", err)
	}

	var missing []string
	for i, key := range keys {
		if i < len(values) {
			if s, ok := values[i].(string); ok {
				found[key] = []byte(s)
				continue
			}
		}
		missing = append(missing, key)
	}

	return found, missing, nil
}

// Set writes values in one pipeline. A zero ttl uses the default TTL.
func (rc *RedisCache) Set(ctx context.Context, data map[string][]byte, ttl time.Duration) error {
	if len(data) == 0 {
		return nil
	}
	if ttl <= 0 {
		ttl = rc.defaultTTL
	}

	pipe := rc.client.Pipeline()
	for key, value := range data {
		pipe.Set(ctx, rc.prefix+key, value, ttl)
	}
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("redis set: %w", err)
	}
	return nil
}

// Delete removes keys
func (rc *RedisCache) Delete(ctx context.Context, keys []string) error {
	if len(keys) == 0 {
		return nil
	}
	prefixed := make([]string, len(keys))
	for i, key := range keys {
		prefixed[i] = rc.prefix + key
	}
	return rc.client.Del(ctx, prefixed...).Err()
}

// Close closes the underlying client
func (rc *RedisCache) Close() error {
	return rc.client.Close()
}
