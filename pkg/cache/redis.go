package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/LeanHydra84/CollaboraCal/core"
)

const redisKeyPrefix = "ccal:session:"

// RedisCache implements the session cache on a Redis instance so cached
// sessions survive process restarts and can be shared by replicas.
type RedisCache struct {
	client *redis.Client
	ttl    time.Duration

	hits    int64
	misses  int64
	sets    int64
	deletes int64
}

var _ core.CacheWithStats = (*RedisCache)(nil)

// NewRedisCache creates a session cache backed by client. Entries expire
// server-side after c.TTL.
func NewRedisCache(client *redis.Client, c core.CacheConfig) *RedisCache {
	if c.TTL == 0 {
		c.TTL = 5 * time.Minute
	}

	return &RedisCache{
		client: client,
		ttl:    c.TTL,
	}
}

func (c *RedisCache) key(tokenHash string) string {
	return redisKeyPrefix + tokenHash
}

// Get retrieves a session from Redis.
func (c *RedisCache) Get(ctx context.Context, tokenHash string) (*core.Session, error) {
	payload, err := c.client.Get(ctx, c.key(tokenHash)).Bytes()
	if err != nil {
		atomic.AddInt64(&c.misses, 1)
		if err == redis.Nil {
			return nil, core.ErrCacheMiss
		}
		return nil, fmt.Errorf("redis get: %w", err)
	}

	var session core.Session
	if err := json.Unmarshal(payload, &session); err != nil {
		// A corrupt record is useless; drop it and report a miss.
		c.client.Del(ctx, c.key(tokenHash))
		atomic.AddInt64(&c.misses, 1)
		return nil, core.ErrCacheMiss
	}

	atomic.AddInt64(&c.hits, 1)
	return &session, nil
}

// Set stores a session in Redis with the configured TTL.
func (c *RedisCache) Set(ctx context.Context, tokenHash string, session *core.Session) error {
	payload, err := json.Marshal(session)
	if err != nil {
		return fmt.Errorf("encode session: %w", err)
	}

	if err := c.client.Set(ctx, c.key(tokenHash), payload, c.ttl).Err(); err != nil {
		return fmt.Errorf("redis set: %w", err)
	}

	atomic.AddInt64(&c.sets, 1)
	return nil
}

// Delete removes a session from Redis.
func (c *RedisCache) Delete(ctx context.Context, tokenHash string) error {
	if err := c.client.Del(ctx, c.key(tokenHash)).Err(); err != nil {
		return fmt.Errorf("redis del: %w", err)
	}
	atomic.AddInt64(&c.deletes, 1)
	return nil
}

// Clear removes all cached sessions under the cache's key prefix.
func (c *RedisCache) Clear(ctx context.Context) error {
	iter := c.client.Scan(ctx, 0, redisKeyPrefix+"*", 0).Iterator()
	for iter.Next(ctx) {
		if err := c.client.Del(ctx, iter.Val()).Err(); err != nil {
			return fmt.Errorf("redis del: %w", err)
		}
	}
	if err := iter.Err(); err != nil {
		return fmt.Errorf("redis scan: %w", err)
	}
	return nil
}

// Stats returns cache counters. Size is not tracked for Redis.
func (c *RedisCache) Stats() core.CacheStats {
	return core.CacheStats{
		Hits:    atomic.LoadInt64(&c.hits),
		Misses:  atomic.LoadInt64(&c.misses),
		Sets:    atomic.LoadInt64(&c.sets),
		Deletes: atomic.LoadInt64(&c.deletes),
		TTL:     c.ttl,
	}
}
