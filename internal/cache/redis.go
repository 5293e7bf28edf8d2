package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisCache stores JSON encoded values in redis under a key prefix. It is
// shared between processes, so every API replica sees the same invalidations.
type RedisCache[T any] struct {
	client *redis.Client
	prefix string
	ttl    time.Duration
}

// NewRedisClient parses url (redis://host:port/db, or a bare host:port) and
// checks the connection.
func NewRedisClient(ctx context.Context, url string) (*redis.Client, error) {
	if !strings.Contains(url, "://") {
		url = "redis://" + url
	}
	opt, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}
	client := redis.NewClient(opt)

	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("connect to redis: %w", err)
	}
	return client, nil
}

func NewRedisCache[T any](client *redis.Client, prefix string, ttl time.Duration) *RedisCache[T] {
	return &RedisCache[T]{client: client, prefix: prefix, ttl: ttl}
}

func (c *RedisCache[T]) key(k string) string {
	return c.prefix + k
}

func (c *RedisCache[T]) Get(ctx context.Context, key string) (T, bool) {
	var zero T
	raw, err := c.client.Get(ctx, c.key(key)).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			slog.WarnContext(ctx, "Redis get failed", "component", "cache", "key", key, "error", err)
		}
		return zero, false
	}
	var v T
	if err := json.Unmarshal(raw, &v); err != nil {
		slog.WarnContext(ctx, "Discarding undecodable cache entry", "component", "cache", "key", key, "error", err)
		return zero, false
	}
	return v, true
}

func (c *RedisCache[T]) Set(ctx context.Context, key string, data T) {
	raw, err := json.Marshal(data)
	if err != nil {
		slog.WarnContext(ctx, "Cache value not encodable", "component", "cache", "key", key, "error", err)
		return
	}
	if err := c.client.Set(ctx, c.key(key), raw, c.ttl).Err(); err != nil {
		slog.WarnContext(ctx, "Redis set failed", "component", "cache", "key", key, "error", err)
	}
}

func (c *RedisCache[T]) Delete(ctx context.Context, key string) {
	if err := c.client.Del(ctx, c.key(key)).Err(); err != nil {
		slog.WarnContext(ctx, "Redis delete failed", "component", "cache", "key", key, "error", err)
	}
}
