package ledger

import (
	"context"
	"time"

	"fomolt3d-engine/internal/cache"
	"fomolt3d-engine/internal/events"
	"fomolt3d-engine/internal/game"
)

// CacheConfig sets the TTLs and bounds for the cached reader. Zero values
// fall back to defaults suitable for a ~400ms slot time.
type CacheConfig struct {
	GameTTL      time.Duration
	PlayerTTL    time.Duration
	RosterTTL    time.Duration
	EventsTTL    time.Duration
	FetchTimeout time.Duration
	// MaxPlayers bounds the per-address player cache.
	MaxPlayers int
	// EventWindow is how many recent transactions the event feed covers.
	EventWindow int
}

func (c *CacheConfig) defaults() {
	if c.GameTTL <= 0 {
		c.GameTTL = 2 * time.Second
	}
	if c.PlayerTTL <= 0 {
		c.PlayerTTL = 5 * time.Second
	}
	if c.RosterTTL <= 0 {
		c.RosterTTL = 15 * time.Second
	}
	if c.EventsTTL <= 0 {
		c.EventsTTL = 5 * time.Second
	}
	if c.FetchTimeout <= 0 {
		c.FetchTimeout = 5 * time.Second
	}
	if c.MaxPlayers <= 0 {
		c.MaxPlayers = 4096
	}
	if c.EventWindow <= 0 {
		c.EventWindow = 25
	}
}

// CachedReader fronts a Reader with single-flight TTL caches so a burst
// of identical requests costs one RPC round trip. On upstream failure a
// stale value is served when one exists.
type CachedReader struct {
	inner Reader

	game    *cache.Cache[*game.GameSnapshot]
	players *cache.Keyed[*game.PlayerRecord]
	roster  *cache.Cache[[]game.PlayerRecord]
	events  *cache.Cache[[]events.Raw]
}

func NewCachedReader(inner Reader, cfg CacheConfig) *CachedReader {
	cfg.defaults()
	cr := &CachedReader{inner: inner}
	cr.game = cache.New("game", cfg.GameTTL, cfg.FetchTimeout, inner.GameSnapshot)
	cr.players = cache.NewKeyed("player", cfg.PlayerTTL, cfg.FetchTimeout, cfg.MaxPlayers, inner.Player)
	cr.roster = cache.New("roster", cfg.RosterTTL, cfg.FetchTimeout, func(ctx context.Context) ([]game.PlayerRecord, error) {
		s, err := cr.game.Get(ctx)
		if err != nil {
			return nil, err
		}
		return inner.RoundPlayers(ctx, s.Round)
	})
	cr.events = cache.New("events", cfg.EventsTTL, cfg.FetchTimeout, func(ctx context.Context) ([]events.Raw, error) {
		return inner.RecentEvents(ctx, cfg.EventWindow)
	})
	return cr
}

func (c *CachedReader) GameSnapshot(ctx context.Context) (*game.GameSnapshot, error) {
	return c.game.Get(ctx)
}

func (c *CachedReader) Player(ctx context.Context, address string) (*game.PlayerRecord, error) {
	return c.players.Get(ctx, address)
}

// RoundPlayers serves the roster of the current round. The cached roster
// is keyed to the cached snapshot, so an explicit round argument that
// disagrees with it bypasses the cache.
func (c *CachedReader) RoundPlayers(ctx context.Context, round uint64) ([]game.PlayerRecord, error) {
	s, err := c.game.Get(ctx)
	if err == nil && s.Round != round {
		return c.inner.RoundPlayers(ctx, round)
	}
	return c.roster.Get(ctx)
}

func (c *CachedReader) RecentEvents(ctx context.Context, limit int) ([]events.Raw, error) {
	raw, err := c.events.Get(ctx)
	if err != nil {
		return nil, err
	}
	if limit > 0 && limit < len(raw) {
		return raw[len(raw)-limit:], nil
	}
	return raw, nil
}

// InvalidatePlayer drops one player's cached record, typically after a
// submitted transaction lands and the stale view would mislead.
func (c *CachedReader) InvalidatePlayer(address string) {
	c.players.Invalidate(address)
}

// InvalidateAll drops every cached value.
func (c *CachedReader) InvalidateAll() {
	c.game.Invalidate()
	c.roster.Invalidate()
	c.events.Invalidate()
}
