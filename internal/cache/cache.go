// Package cache provides short-TTL single-flight read-through caches used
// in front of ledger fetches. Many concurrent readers of the same resource
// collapse into one underlying fetch; a failed refresh degrades to the
// last-good value instead of evicting it.
package cache

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/singleflight"
)

// FetchFunc loads the fresh payload for a cache.
type FetchFunc[T any] func(ctx context.Context) (T, error)

// Cache is a single-resource single-flight TTL cache.
type Cache[T any] struct {
	name    string
	ttl     time.Duration
	timeout time.Duration
	fetch   FetchFunc[T]

	sf singleflight.Group

	mu        sync.Mutex
	val       T
	has       bool
	fetchedAt time.Time
}

// New builds a cache around fetch. ttl bounds staleness, timeout bounds
// each underlying fetch.
func New[T any](name string, ttl, timeout time.Duration, fetch FetchFunc[T]) *Cache[T] {
	if ttl <= 0 {
		ttl = 2 * time.Second
	}
	if timeout <= 0 {
		timeout = 3 * time.Second
	}
	return &Cache[T]{name: name, ttl: ttl, timeout: timeout, fetch: fetch}
}

// Get returns a payload fetched within the last TTL, or joins the one
// in-flight fetch shared by all concurrent callers. On fetch failure the
// stale value, if any, is returned instead of the error.
func (c *Cache[T]) Get(ctx context.Context) (T, error) {
	c.mu.Lock()
	if c.has && time.Since(c.fetchedAt) < c.ttl {
		v := c.val
		c.mu.Unlock()
		metricCacheHitTotal.Add(1)
		return v, nil
	}
	c.mu.Unlock()
	metricCacheMissTotal.Add(1)

	v, err, _ := c.sf.Do(c.name, func() (any, error) {
		// The fetch outlives any single caller; only the timeout cancels it.
		fctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), c.timeout)
		defer cancel()
		val, err := c.fetch(fctx)
		if err != nil {
			return nil, err
		}
		c.mu.Lock()
		c.val = val
		c.has = true
		c.fetchedAt = time.Now()
		c.mu.Unlock()
		return val, nil
	})
	if err != nil {
		c.mu.Lock()
		defer c.mu.Unlock()
		if c.has {
			metricCacheStaleTotal.Add(1)
			log.Warn().Err(err).Str("cache", c.name).Msg("refresh failed, serving stale value")
			return c.val, nil
		}
		metricCacheErrorTotal.Add(1)
		var zero T
		return zero, err
	}
	return v.(T), nil
}

// Invalidate drops the cached value so the next Get refetches. The
// transaction path calls this after a submitted buy or claim.
func (c *Cache[T]) Invalidate() {
	c.mu.Lock()
	c.has = false
	c.mu.Unlock()
}
