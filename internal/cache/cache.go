package cache

import (
	"time"

	lru "github.com/hashicorp/golang-lru/v2"
)

// item wraps cached data with its expiry.
type item struct {
	data      interface{}
	expiresAt time.Time
}

// Cache is a small in-process LRU with per-entry TTL. It is constructed once
// at startup and handed to whoever needs it; there is no package-level
// instance.
type Cache struct {
	lruCache *lru.Cache[string, item]
}

// New creates a cache holding at most size entries.
func New(size int) (*Cache, error) {
	l, err := lru.New[string, item](size)
	if err != nil {
		return nil, err
	}
	return &Cache{lruCache: l}, nil
}

// Set stores data under key for ttl.
func (c *Cache) Set(key string, data interface{}, ttl time.Duration) {
	c.lruCache.Add(key, item{
		data:      data,
		expiresAt: time.Now().Add(ttl),
	})
}

// Get returns the cached data or nil when absent or expired.
func (c *Cache) Get(key string) interface{} {
	val, ok := c.lruCache.Get(key)
	if !ok {
		return nil
	}

	if time.Now().After(val.expiresAt) {
		c.lruCache.Remove(key)
		return nil
	}

	return val.data
}

// Delete removes key.
func (c *Cache) Delete(key string) {
	c.lruCache.Remove(key)
}
