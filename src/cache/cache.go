// Package cache provides a TTL result cache for ingest documents and
// verification results. A Redis backend is used when configured; otherwise
// entries live in an in-process map.
package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"sync"
	"time"

	"github.com/OneOfOne/xxhash"
	"github.com/redis/go-redis/v9"
)

const keyPrefix = "truthlens:"

// Cache stores JSON-encoded values under hashed keys with a TTL.
type Cache struct {
	rdb *redis.Client
	ttl time.Duration

	mu      sync.Mutex
	entries map[string]memEntry
}

type memEntry struct {
	data      []byte
	expiresAt time.Time
}

// New creates a cache. redisURL may be empty, selecting the in-memory
// backend.
func New(redisURL string, ttl time.Duration) (*Cache, error) {
	if ttl <= 0 {
		ttl = 15 * time.Minute
	}

	c := &Cache{
		ttl:     ttl,
		entries: make(map[string]memEntry),
	}

	if redisURL != "" {
		opt, err := redis.ParseURL(redisURL)
		if err != nil {
			return nil, fmt.Errorf("cache: parse redis url: %w", err)
		}
		c.rdb = redis.NewClient(opt)
	}

	return c, nil
}

// Key hashes a namespace and input into a stable cache key.
func Key(namespace, input string) string {
	h := xxhash.New64()
	_, _ = h.WriteString(input)
	return keyPrefix + namespace + ":" + strconv.FormatUint(h.Sum64(), 16)
}

// Set stores a JSON-encodable value under key.
func (c *Cache) Set(ctx context.Context, key string, value any) error {
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("cache: marshal value: %w", err)
	}

	if c.rdb != nil {
		return c.rdb.Set(ctx, key, data, c.ttl).Err()
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[key] = memEntry{data: data, expiresAt: time.Now().Add(c.ttl)}
	return nil
}

// Get loads a value into out. The second return is false on a miss.
func (c *Cache) Get(ctx context.Context, key string, out any) (bool, error) {
	var data []byte

	if c.rdb != nil {
		raw, err := c.rdb.Get(ctx, key).Bytes()
		if err == redis.Nil {
			return false, nil
		}
		if err != nil {
			return false, fmt.Errorf("cache: redis get: %w", err)
		}
		data = raw
	} else {
		c.mu.Lock()
		entry, ok := c.entries[key]
		if ok && time.Now().After(entry.expiresAt) {
			delete(c.entries, key)
			ok = false
		}
		c.mu.Unlock()
		if !ok {
			return false, nil
		}
		data = entry.data
	}

	if err := json.Unmarshal(data, out); err != nil {
		return false, fmt.Errorf("cache: unmarshal value: %w", err)
	}
	return true, nil
}

// Close releases the Redis connection if one exists.
func (c *Cache) Close() error {
	if c.rdb != nil {
		return c.rdb.Close()
	}
	return nil
}
