package cache

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

func TestGetConcurrentSingleFetch(t *testing.T) {
	var fetches atomic.Int64
	release := make(chan struct{})
	c := New("test", time.Second, time.Second, func(ctx context.Context) (int, error) {
		fetches.Add(1)
		<-release
		return 42, nil
	})

	const readers = 16
	results := make([]int, readers)
	var wg sync.WaitGroup
	for i := 0; i < readers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			v, err := c.Get(context.Background())
			if err != nil {
				t.Errorf("get: %v", err)
			}
			results[i] = v
		}(i)
	}
	time.Sleep(20 * time.Millisecond) // let all readers pile onto the flight
	close(release)
	wg.Wait()

	if n := fetches.Load(); n != 1 {
		t.Fatalf("expected exactly one underlying fetch, got %d", n)
	}
	for i, v := range results {
		if v != 42 {
			t.Fatalf("reader %d got %d", i, v)
		}
	}
}

func TestGetWithinTTLNoRefetch(t *testing.T) {
	var fetches atomic.Int64
	c := New("test", time.Minute, time.Second, func(ctx context.Context) (int, error) {
		return int(fetches.Add(1)), nil
	})
	for i := 0; i < 5; i++ {
		v, err := c.Get(context.Background())
		if err != nil {
			t.Fatalf("get: %v", err)
		}
		if v != 1 {
			t.Fatalf("expected cached 1, got %d", v)
		}
	}
	if n := fetches.Load(); n != 1 {
		t.Fatalf("expected one fetch within TTL, got %d", n)
	}
}

func TestGetExpiredTTLRefetches(t *testing.T) {
	var fetches atomic.Int64
	c := New("test", time.Millisecond, time.Second, func(ctx context.Context) (int, error) {
		return int(fetches.Add(1)), nil
	})
	if v, _ := c.Get(context.Background()); v != 1 {
		t.Fatal("expected first fetch")
	}
	time.Sleep(5 * time.Millisecond)
	v, err := c.Get(context.Background())
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if v != 2 {
		t.Fatalf("expected refetch after TTL, got %d", v)
	}
}

func TestGetStaleOnError(t *testing.T) {
	var fail atomic.Bool
	var fetches atomic.Int64
	c := New("test", time.Millisecond, time.Second, func(ctx context.Context) (int, error) {
		fetches.Add(1)
		if fail.Load() {
			return 0, errors.New("rpc down")
		}
		return 7, nil
	})

	if v, err := c.Get(context.Background()); err != nil || v != 7 {
		t.Fatalf("seed fetch: v=%d err=%v", v, err)
	}

	fail.Store(true)
	time.Sleep(5 * time.Millisecond)
	v, err := c.Get(context.Background())
	if err != nil {
		t.Fatalf("expected stale fallback, got error %v", err)
	}
	if v != 7 {
		t.Fatalf("expected preserved stale value 7, got %d", v)
	}

	// With no prior value the error surfaces.
	empty := New("empty", time.Second, time.Second, func(ctx context.Context) (int, error) {
		return 0, errors.New("rpc down")
	})
	if _, err := empty.Get(context.Background()); err == nil {
		t.Fatal("expected error when no prior value exists")
	}
}

func TestInvalidateForcesRefetch(t *testing.T) {
	var fetches atomic.Int64
	c := New("test", time.Hour, time.Second, func(ctx context.Context) (int, error) {
		return int(fetches.Add(1)), nil
	})
	if v, _ := c.Get(context.Background()); v != 1 {
		t.Fatal("expected first fetch")
	}
	c.Invalidate()
	if v, _ := c.Get(context.Background()); v != 2 {
		t.Fatal("expected refetch after invalidate")
	}
}

func TestKeyedIndependentKeys(t *testing.T) {
	var fetches atomic.Int64
	c := NewKeyed("players", time.Minute, time.Second, 10, func(ctx context.Context, key string) (string, error) {
		fetches.Add(1)
		return "v:" + key, nil
	})
	for _, key := range []string{"a", "b", "a", "b"} {
		v, err := c.Get(context.Background(), key)
		if err != nil {
			t.Fatalf("get %s: %v", key, err)
		}
		if v != "v:"+key {
			t.Fatalf("key %s: got %s", key, v)
		}
	}
	if n := fetches.Load(); n != 2 {
		t.Fatalf("expected one fetch per key, got %d", n)
	}
}

func TestKeyedSweepBoundsEntries(t *testing.T) {
	c := NewKeyed("players", time.Minute, time.Second, 3, func(ctx context.Context, key string) (string, error) {
		return key, nil
	})
	for _, key := range []string{"a", "b", "c", "d", "e"} {
		if _, err := c.Get(context.Background(), key); err != nil {
			t.Fatalf("get %s: %v", key, err)
		}
	}
	c.mu.Lock()
	n := len(c.entries)
	c.mu.Unlock()
	if n > 3 {
		t.Fatalf("expected at most 3 entries after sweep, got %d", n)
	}
}

func TestGetCountsHitsAndMisses(t *testing.T) {
	hit0, miss0 := metricCacheHitTotal.Value(), metricCacheMissTotal.Value()
	c := New("counter_test", time.Minute, time.Second, func(context.Context) (int, error) {
		return 7, nil
	})

	if _, err := c.Get(context.Background()); err != nil {
		t.Fatalf("get: %v", err)
	}
	if _, err := c.Get(context.Background()); err != nil {
		t.Fatalf("get: %v", err)
	}

	if got := metricCacheMissTotal.Value() - miss0; got != 1 {
		t.Fatalf("miss delta = %d, want 1", got)
	}
	if got := metricCacheHitTotal.Value() - hit0; got != 1 {
		t.Fatalf("hit delta = %d, want 1", got)
	}
}
