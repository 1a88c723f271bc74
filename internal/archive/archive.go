// Package archive persists the normalized event stream to Postgres so
// history survives the RPC node's signature retention window.
package archive

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"fomolt3d-engine/internal/events"
)

var ErrNotFound = errors.New("not found")

const schemaSQL = `
CREATE TABLE IF NOT EXISTS domain_events (
    id           TEXT PRIMARY KEY,
    kind         TEXT NOT NULL,
    player       TEXT NOT NULL DEFAULT '',
    lamports     BIGINT NOT NULL DEFAULT 0,
    keys         BIGINT NOT NULL DEFAULT 0,
    round        BIGINT NOT NULL,
    tx_signature TEXT NOT NULL DEFAULT '',
    generated_at TIMESTAMPTZ NOT NULL,
    inserted_at  TIMESTAMPTZ NOT NULL DEFAULT now()
);
CREATE UNIQUE INDEX IF NOT EXISTS domain_events_tx_kind_player
    ON domain_events (tx_signature, kind, player) WHERE tx_signature <> '';
CREATE INDEX IF NOT EXISTS domain_events_round ON domain_events (round, generated_at);
CREATE INDEX IF NOT EXISTS domain_events_player ON domain_events (player) WHERE player <> '';
`

// Store wraps DB access for the event archive.
type Store struct {
	Pool *pgxpool.Pool
}

func New(dsn string) (*Store, error) {
	pool, err := pgxpool.New(context.Background(), dsn)
	if err != nil {
		return nil, err
	}
	return &Store{Pool: pool}, nil
}

func (s *Store) Close() {
	if s.Pool != nil {
		s.Pool.Close()
	}
}

func (s *Store) Ping(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	return s.Pool.Ping(ctx)
}

// EnsureSchema creates the archive tables when missing. Idempotent.
func (s *Store) EnsureSchema(ctx context.Context) error {
	_, err := s.Pool.Exec(ctx, schemaSQL)
	return err
}

// InsertEvent stores one event. Re-inserting an event already archived
// from the same transaction is a no-op; the poller's windows overlap, so
// duplicates are routine. Reports whether a row was written.
func (s *Store) InsertEvent(ctx context.Context, ev events.DomainEvent) (bool, error) {
	tag, err := s.Pool.Exec(ctx, `
		INSERT INTO domain_events (id, kind, player, lamports, keys, round, tx_signature, generated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT DO NOTHING`,
		ev.ID, string(ev.Kind), ev.Player, int64(ev.Lamports), int64(ev.Keys),
		int64(ev.Round), ev.TxSignature, ev.GeneratedAt)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}

// InsertEvents stores a batch, skipping duplicates. Returns how many rows
// were actually written.
func (s *Store) InsertEvents(ctx context.Context, evs []events.DomainEvent) (int, error) {
	inserted := 0
	for _, ev := range evs {
		ok, err := s.InsertEvent(ctx, ev)
		if err != nil {
			return inserted, err
		}
		if ok {
			inserted++
		}
	}
	return inserted, nil
}

func scanEvents(rows pgx.Rows) ([]events.DomainEvent, error) {
	defer rows.Close()
	var out []events.DomainEvent
	for rows.Next() {
		var ev events.DomainEvent
		var kind string
		var lamports, keys, round int64
		if err := rows.Scan(&ev.ID, &kind, &ev.Player, &lamports, &keys, &round, &ev.TxSignature, &ev.GeneratedAt); err != nil {
			return nil, err
		}
		ev.Kind = events.Kind(kind)
		ev.Lamports = uint64(lamports)
		ev.Keys = uint64(keys)
		ev.Round = uint64(round)
		out = append(out, ev)
	}
	return out, rows.Err()
}

const selectColumns = `id, kind, player, lamports, keys, round, tx_signature, generated_at`

// RecentEvents returns the newest archived events, oldest first.
func (s *Store) RecentEvents(ctx context.Context, limit int) ([]events.DomainEvent, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := s.Pool.Query(ctx, `
		SELECT `+selectColumns+` FROM (
			SELECT `+selectColumns+` FROM domain_events
			ORDER BY generated_at DESC, id DESC LIMIT $1
		) newest
		ORDER BY generated_at ASC, id ASC`, limit)
	if err != nil {
		return nil, err
	}
	return scanEvents(rows)
}

// RoundEvents returns every archived event of one round, oldest first.
func (s *Store) RoundEvents(ctx context.Context, round uint64) ([]events.DomainEvent, error) {
	rows, err := s.Pool.Query(ctx, `
		SELECT `+selectColumns+` FROM domain_events
		WHERE round = $1
		ORDER BY generated_at ASC, id ASC`, int64(round))
	if err != nil {
		return nil, err
	}
	return scanEvents(rows)
}

// SpendEntry is one player's aggregate buy volume.
type SpendEntry struct {
	Player   string `json:"player"`
	Lamports uint64 `json:"lamports"`
	Keys     uint64 `json:"keys"`
	Buys     int64  `json:"buys"`
}

// TopSpenders aggregates buy events by player across all archived rounds,
// biggest spenders first.
func (s *Store) TopSpenders(ctx context.Context, limit int) ([]SpendEntry, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := s.Pool.Query(ctx, `
		SELECT player, COALESCE(SUM(lamports), 0), COALESCE(SUM(keys), 0), COUNT(*)
		FROM domain_events
		WHERE kind = 'buy' AND player <> ''
		GROUP BY player
		ORDER BY 2 DESC
		LIMIT $1`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []SpendEntry
	for rows.Next() {
		var e SpendEntry
		var lamports, keys int64
		if err := rows.Scan(&e.Player, &lamports, &keys, &e.Buys); err != nil {
			return nil, err
		}
		e.Lamports = uint64(lamports)
		e.Keys = uint64(keys)
		out = append(out, e)
	}
	return out, rows.Err()
}
