package cache

import (
	"sync"
	"time"
)

// cacheEntry holds a cached score with its bookkeeping timestamps.
type cacheEntry struct {
	score      float64
	storedAt   time.Time
	accessedAt time.Time
}

// InMemoryCache is a thread-safe in-memory score cache with TTL and a
// size cap. When full, the least recently used entry is evicted.
type InMemoryCache struct {
	mu      sync.Mutex
	cache   map[string]*cacheEntry
	ttl     time.Duration
	maxSize int
	stats   Stats
}

// NewInMemoryCache creates an in-memory cache. ttlSeconds <= 0 means
// entries never expire; maxSize <= 0 means 1000.
func NewInMemoryCache(maxSize, ttlSeconds int) *InMemoryCache {
	if maxSize <= 0 {
		maxSize = 1000
	}
	ttl := time.Duration(ttlSeconds) * time.Second
	if ttlSeconds <= 0 {
		ttl = 0 // No expiration
	}
	return &InMemoryCache{
		cache:   make(map[string]*cacheEntry),
		ttl:     ttl,
		maxSize: maxSize,
	}
}

// Get retrieves a score from the cache.
func (c *InMemoryCache) Get(key string) (float64, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	entry, ok := c.cache[key]
	if !ok {
		c.stats.Misses++
		return 0, false
	}

	if c.ttl > 0 && time.Since(entry.storedAt) > c.ttl {
		delete(c.cache, key)
		c.stats.Expired++
		c.stats.Misses++
		return 0, false
	}

	entry.accessedAt = time.Now()
	c.stats.Hits++
	return entry.score, true
}

// Set stores a score in the cache, evicting the least recently used
// entry when the cache is full.
func (c *InMemoryCache) Set(key string, score float64) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, ok := c.cache[key]; !ok && len(c.cache) >= c.maxSize {
		c.evictOldest()
	}

	now := time.Now()
	c.cache[key] = &cacheEntry{score: score, storedAt: now, accessedAt: now}
	return nil
}

// evictOldest removes the least recently accessed entry (lock held).
func (c *InMemoryCache) evictOldest() {
	var oldestKey string
	var oldest time.Time
	for key, entry := range c.cache {
		if oldestKey == "" || entry.accessedAt.Before(oldest) {
			oldestKey = key
			oldest = entry.accessedAt
		}
	}
	if oldestKey != "" {
		delete(c.cache, oldestKey)
		c.stats.Evictions++
	}
}

// Stats returns a snapshot of cache effectiveness counters.
func (c *InMemoryCache) Stats() Stats {
	c.mu.Lock()
	defer c.mu.Unlock()
	s := c.stats
	s.Size = len(c.cache)
	return s
}

// Clear removes every entry. Counters are preserved.
func (c *InMemoryCache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.cache = make(map[string]*cacheEntry)
}

var _ ScoreCache = (*InMemoryCache)(nil)
