package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/use-agent/bingdict/dict"
	"github.com/use-agent/bingdict/models"
)

// entry holds a cached lookup. A nil paraphrase records "no entry".
type entry struct {
	paraphrase *dict.Paraphrase
	createdAt  time.Time
}

// Cache is an in-memory TTL cache for dictionary lookups.
// It is safe for concurrent use.
type Cache struct {
	mu         sync.RWMutex
	store      map[string]*entry
	maxEntries int
	ttl        time.Duration
	hits       atomic.Uint64
	misses     atomic.Uint64
	done       chan struct{}
	stopOnce   sync.Once
}

// New creates a Cache holding at most maxEntries lookups for ttl each.
// A background goroutine evicts expired entries every ttl/4 until Stop.
func New(maxEntries int, ttl time.Duration) *Cache {
	c := &Cache{
		store:      make(map[string]*entry),
		maxEntries: maxEntries,
		ttl:        ttl,
		done:       make(chan struct{}),
	}

	go c.cleanupLoop()
	return c
}

// Key generates a cache key from the market and the normalised query.
func Key(market, query string) string {
	h := sha256.New()
	h.Write([]byte(strings.ToLower(market)))
	h.Write([]byte("|"))
	h.Write([]byte(strings.TrimSpace(query)))
	return hex.EncodeToString(h.Sum(nil))
}

// Get returns the cached paraphrase and whether the key was present and fresh.
// A hit with a nil paraphrase means the dictionary had no entry.
func (c *Cache) Get(key string) (*dict.Paraphrase, bool) {
	c.mu.RLock()
	e, ok := c.store[key]
	c.mu.RUnlock()

	if !ok || time.Since(e.createdAt) > c.ttl {
		c.misses.Add(1)
		return nil, false
	}

	c.hits.Add(1)
	return e.paraphrase, true
}

// Set stores a lookup result. If the cache is at capacity, a random entry
// is evicted to make room.
func (c *Cache) Set(key string, p *dict.Paraphrase) {
	if c.maxEntries <= 0 {
		return
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if _, exists := c.store[key]; !exists && len(c.store) >= c.maxEntries {
		for k := range c.store {
			delete(c.store, k)
			break
		}
	}

	c.store[key] = &entry{
		paraphrase: p,
		createdAt:  time.Now(),
	}
}

// Stats returns a snapshot of the cache counters.
func (c *Cache) Stats() models.CacheStats {
	c.mu.RLock()
	n := len(c.store)
	c.mu.RUnlock()

	return models.CacheStats{
		Entries:    n,
		MaxEntries: c.maxEntries,
		Hits:       c.hits.Load(),
		Misses:     c.misses.Load(),
	}
}

// Stop terminates the background cleanup goroutine.
func (c *Cache) Stop() {
	c.stopOnce.Do(func() { close(c.done) })
}

func (c *Cache) cleanupLoop() {
	interval := c.ttl / 4
	if interval < time.Second {
		interval = time.Second
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-c.done:
			return
		case <-ticker.C:
			c.evictExpired(time.Now())
		}
	}
}

func (c *Cache) evictExpired(now time.Time) {
	cutoff := now.Add(-c.ttl)
	c.mu.Lock()
	for k, e := range c.store {
		if e.createdAt.Before(cutoff) {
			delete(c.store, k)
		}
	}
	c.mu.Unlock()
}
