// Package cache stores catalog search responses in Redis so repeated
// queries do not spend paid-API quota.
package cache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const defaultTTL = time.Hour

// Cache is a JSON value cache on top of Redis. A nil *Cache is valid and
// caches nothing, so callers can run without Redis.
type Cache struct {
	redis *redis.Client
	ttl   time.Duration
}

// New creates a cache with the default one hour TTL.
func New(client *redis.Client) *Cache {
	return &Cache{redis: client, ttl: defaultTTL}
}

// SearchKey builds a stable cache key for a catalog search.
func SearchKey(query, cuisine, diet string, maxReadyMinutes int) string {
	sum := sha256.Sum256([]byte(fmt.Sprintf("%s|%s|%s|%d", query, cuisine, diet, maxReadyMinutes)))
	return "catalog:search:" + hex.EncodeToString(sum[:8])
}

// Get loads a cached value into dest, reporting whether it was present.
// Redis failures are treated as cache misses.
func (c *Cache) Get(ctx context.Context, key string, dest interface{}) bool {
	if c == nil || c.redis == nil {
		return false
	}
	data, err := c.redis.Get(ctx, key).Bytes()
	if err != nil {
		return false
	}
	return json.Unmarshal(data, dest) == nil
}

// Set stores a value under key. Failures are ignored; the cache is an
// optimization, not a source of truth.
func (c *Cache) Set(ctx context.Context, key string, value interface{}) {
	if c == nil || c.redis == nil {
		return
	}
	data, err := json.Marshal(value)
	if err != nil {
		return
	}
	c.redis.Set(ctx, key, data, c.ttl)
}
