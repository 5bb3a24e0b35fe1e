package pipeline

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/voxrelay/voxrelay/internal/cache"
)

// lruTextCache adapts the shared LRU to TextCache.
type lruTextCache struct {
	lru *cache.LRU
	ttl time.Duration
}

// NewLRUTextCache creates an in-memory translation result cache.
func NewLRUTextCache(size int, ttl time.Duration) TextCache {
	return &lruTextCache{lru: cache.NewLRU(size), ttl: ttl}
}

func (c *lruTextCache) Get(key string) (string, bool) {
	v, ok := c.lru.Get(key)
	if !ok {
		return "", false
	}
	s, ok := v.(string)
	return s, ok
}

func (c *lruTextCache) Set(key, value string) {
	c.lru.Set(key, value, c.ttl)
}

// redisTextCache stores translation results in Redis so repeated phrases
// are shared across relay instances. Failures degrade to cache misses.
type redisTextCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisTextCache creates a Redis-backed translation result cache.
func NewRedisTextCache(client *redis.Client, ttl time.Duration) TextCache {
	return &redisTextCache{client: client, ttl: ttl}
}

func (c *redisTextCache) Get(key string) (string, bool) {
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()

	v, err := c.client.Get(ctx, "nmt:"+key).Result()
	if err != nil {
		return "", false
	}
	return v, true
}

func (c *redisTextCache) Set(key, value string) {
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()

	_ = c.client.Set(ctx, "nmt:"+key, value, c.ttl).Err()
}
