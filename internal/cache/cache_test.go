package cache

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"
)

type manualClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *manualClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.now
}

func (c *manualClock) Sleep(context.Context, time.Duration) error {
	return nil
}

func (c *manualClock) advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.now = c.now.Add(d)
}

func TestCacheGetSet(t *testing.T) {
	t.Parallel()

	cache := New[int](0, nil)

	if _, ok := cache.Get("missing"); ok {
		t.Fatalf("expected missing key")
	}

	cache.Set("a", 10)

	got, ok := cache.Get("a")
	if !ok {
		t.Fatalf("expected existing key")
	}

	if got != 10 {
		t.Fatalf("value = %d; want %d", got, 10)
	}
}

func TestCacheExpiresAfterTTL(t *testing.T) {
	t.Parallel()

	clock := &manualClock{now: time.Date(2026, time.March, 1, 9, 0, 0, 0, time.UTC)}
	cache := New[string](30*time.Minute, clock)

	cache.Set("https://example.com", "report")

	clock.advance(29 * time.Minute)
	if _, ok := cache.Get("https://example.com"); !ok {
		t.Fatalf("entry expired before ttl")
	}

	clock.advance(time.Minute)
	if _, ok := cache.Get("https://example.com"); ok {
		t.Fatalf("entry survived past ttl")
	}

	if len(cache.items) != 0 {
		t.Fatalf("expired entry not dropped on read")
	}
}

func TestCacheSetSweepsExpiredEntries(t *testing.T) {
	t.Parallel()

	clock := &manualClock{now: time.Date(2026, time.March, 1, 9, 0, 0, 0, time.UTC)}
	cache := New[int](time.Minute, clock)

	for i := range 500 {
		cache.Set(fmt.Sprintf("https://site-%d.example", i), i)
	}

	clock.advance(30 * time.Second)
	cache.Set("half-minute", 1)
	if got := len(cache.items); got != 501 {
		t.Fatalf("entries before ttl = %d; want 501", got)
	}

	clock.advance(time.Hour)
	cache.Set("fresh", 2)

	if got := len(cache.items); got != 1 {
		t.Fatalf("entries after sweep = %d; want 1", got)
	}

	if _, ok := cache.Get("fresh"); !ok {
		t.Fatalf("fresh entry swept")
	}
}

func TestCacheConcurrentSet(t *testing.T) {
	t.Parallel()

	cache := New[string](time.Hour, nil)
	var wg sync.WaitGroup

	for i := range 50 {
		wg.Go(func() {
			key := fmt.Sprintf("k-%d", i)
			value := fmt.Sprintf("v-%d", i)
			cache.Set(key, value)
		})
	}

	wg.Wait()

	for i := range 50 {
		key := fmt.Sprintf("k-%d", i)
		want := fmt.Sprintf("v-%d", i)

		got, ok := cache.Get(key)
		if !ok {
			t.Fatalf("missing key %q", key)
		}

		if got != want {
			t.Fatalf("value for %q = %q; want %q", key, got, want)
		}
	}
}
