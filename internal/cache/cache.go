package cache

import (
	"sync"
	"time"

	"seoaudit/internal/limiter"
)

type entry[T any] struct {
	value    T
	storedAt time.Time
}

// Cache stores values keyed by string for a fixed time-to-live.
// Expired entries are swept from Set at most once per ttl.
type Cache[T any] struct {
	mu        sync.Mutex
	ttl       time.Duration
	clock     limiter.Timer
	items     map[string]entry[T]
	lastSweep time.Time
}

// New creates a new Cache instance. A non-positive ttl keeps entries forever.
func New[T any](ttl time.Duration, clock limiter.Timer) *Cache[T] {
	if clock == nil {
		clock = limiter.Clock{}
	}

	return &Cache[T]{
		ttl:   ttl,
		clock: clock,
		items: make(map[string]entry[T]),
	}
}

// Get returns a cached value and whether it exists and has not expired.
func (c *Cache[T]) Get(key string) (T, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	item, ok := c.items[key]
	if !ok {
		var zero T
		return zero, false
	}

	if c.expired(item, c.clock.Now()) {
		delete(c.items, key)

		var zero T
		return zero, false
	}

	return item.value, true
}

// Set stores a value in the cache.
func (c *Cache[T]) Set(key string, value T) {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.clock.Now()
	if c.ttl > 0 && now.Sub(c.lastSweep) >= c.ttl {
		c.sweep(now)
		c.lastSweep = now
	}

	c.items[key] = entry[T]{value: value, storedAt: now}
}

func (c *Cache[T]) sweep(now time.Time) {
	for key, item := range c.items {
		if c.expired(item, now) {
			delete(c.items, key)
		}
	}
}

func (c *Cache[T]) expired(item entry[T], now time.Time) bool {
	if c.ttl <= 0 {
		return false
	}

	return now.Sub(item.storedAt) >= c.ttl
}
