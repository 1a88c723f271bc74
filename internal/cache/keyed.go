package cache

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/singleflight"
)

// KeyedFetchFunc loads the payload for one key.
type KeyedFetchFunc[T any] func(ctx context.Context, key string) (T, error)

type keyedEntry[T any] struct {
	val       T
	fetchedAt time.Time
}

// Keyed is a per-key single-flight TTL cache (player records keyed by
// address). Entries past maxEntries are swept lazily, oldest fetch first.
type Keyed[T any] struct {
	name       string
	ttl        time.Duration
	timeout    time.Duration
	maxEntries int
	fetch      KeyedFetchFunc[T]

	sf singleflight.Group

	mu      sync.Mutex
	entries map[string]*keyedEntry[T]
}

// NewKeyed builds a keyed cache around fetch.
func NewKeyed[T any](name string, ttl, timeout time.Duration, maxEntries int, fetch KeyedFetchFunc[T]) *Keyed[T] {
	if ttl <= 0 {
		ttl = 2 * time.Second
	}
	if timeout <= 0 {
		timeout = 3 * time.Second
	}
	if maxEntries <= 0 {
		maxEntries = 4096
	}
	return &Keyed[T]{
		name:       name,
		ttl:        ttl,
		timeout:    timeout,
		maxEntries: maxEntries,
		fetch:      fetch,
		entries:    map[string]*keyedEntry[T]{},
	}
}

// Get behaves like Cache.Get for a single key.
func (c *Keyed[T]) Get(ctx context.Context, key string) (T, error) {
	c.mu.Lock()
	if e, ok := c.entries[key]; ok && time.Since(e.fetchedAt) < c.ttl {
		v := e.val
		c.mu.Unlock()
		metricCacheHitTotal.Add(1)
		return v, nil
	}
	c.mu.Unlock()
	metricCacheMissTotal.Add(1)

	v, err, _ := c.sf.Do(key, func() (any, error) {
		fctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), c.timeout)
		defer cancel()
		val, err := c.fetch(fctx, key)
		if err != nil {
			return nil, err
		}
		c.mu.Lock()
		c.entries[key] = &keyedEntry[T]{val: val, fetchedAt: time.Now()}
		c.sweepLocked()
		c.mu.Unlock()
		return val, nil
	})
	if err != nil {
		c.mu.Lock()
		defer c.mu.Unlock()
		if e, ok := c.entries[key]; ok {
			metricCacheStaleTotal.Add(1)
			log.Warn().Err(err).Str("cache", c.name).Str("key", key).Msg("refresh failed, serving stale value")
			return e.val, nil
		}
		metricCacheErrorTotal.Add(1)
		var zero T
		return zero, err
	}
	return v.(T), nil
}

// Invalidate drops one key.
func (c *Keyed[T]) Invalidate(key string) {
	c.mu.Lock()
	delete(c.entries, key)
	c.mu.Unlock()
}

func (c *Keyed[T]) sweepLocked() {
	for len(c.entries) > c.maxEntries {
		var oldestKey string
		var oldestAt time.Time
		for k, e := range c.entries {
			if oldestKey == "" || e.fetchedAt.Before(oldestAt) {
				oldestKey, oldestAt = k, e.fetchedAt
			}
		}
		delete(c.entries, oldestKey)
	}
}
