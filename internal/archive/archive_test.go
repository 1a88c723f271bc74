package archive

import (
	"context"
	"fmt"
	"net/url"
	"testing"
	"time"

	"fomolt3d-engine/internal/config"
	"fomolt3d-engine/internal/events"
)

// openStore connects to the database named by TEST_POSTGRES_DSN and
// isolates the test in a throwaway schema. Skips when unset.
func openStore(t *testing.T) (*Store, context.Context) {
	t.Helper()
	tc, err := config.LoadTest()
	if err != nil {
		t.Skip("skip test db: TEST_POSTGRES_DSN not set")
	}
	dsn := tc.TestPostgresDSN
	schema := fmt.Sprintf("test_%d", time.Now().UnixNano())
	ctx := t.Context()

	base, err := New(dsn)
	if err != nil {
		t.Fatalf("open base db: %v", err)
	}
	if _, err := base.Pool.Exec(ctx, fmt.Sprintf("CREATE SCHEMA %s", schema)); err != nil {
		base.Close()
		t.Fatalf("create schema: %v", err)
	}

	// search_path goes in the DSN so every pooled connection lands in the
	// throwaway schema.
	st, err := New(withSearchPath(t, dsn, schema))
	if err != nil {
		base.Close()
		t.Fatalf("open store: %v", err)
	}
	if err := st.EnsureSchema(ctx); err != nil {
		st.Close()
		base.Close()
		t.Fatalf("ensure schema: %v", err)
	}
	t.Cleanup(func() {
		st.Close()
		_, _ = base.Pool.Exec(context.Background(), fmt.Sprintf("DROP SCHEMA %s CASCADE", schema))
		base.Close()
	})
	return st, ctx
}

func withSearchPath(t *testing.T, dsn, schema string) string {
	t.Helper()
	u, err := url.Parse(dsn)
	if err != nil {
		t.Fatalf("parse dsn: %v", err)
	}
	q := u.Query()
	q.Set("search_path", schema)
	u.RawQuery = q.Encode()
	return u.String()
}

func buyEvent(id, player, sig string, round, lamports, keys uint64, at time.Time) events.DomainEvent {
	return events.DomainEvent{
		ID:          id,
		Kind:        events.KindBuy,
		Player:      player,
		Lamports:    lamports,
		Keys:        keys,
		Round:       round,
		GeneratedAt: at,
		TxSignature: sig,
	}
}

func TestInsertEventDeduplicates(t *testing.T) {
	st, ctx := openStore(t)
	base := time.Now().UTC().Truncate(time.Microsecond)

	ev := buyEvent("ev1", "alice", "sig1", 7, 560_000, 5, base)
	ok, err := st.InsertEvent(ctx, ev)
	if err != nil || !ok {
		t.Fatalf("first insert: ok=%v err=%v", ok, err)
	}
	// Same transaction seen again in an overlapping poll window.
	ev.ID = "ev1-dup"
	ok, err = st.InsertEvent(ctx, ev)
	if err != nil {
		t.Fatalf("duplicate insert: %v", err)
	}
	if ok {
		t.Fatalf("duplicate insert wrote a row")
	}

	got, err := st.RecentEvents(ctx, 10)
	if err != nil {
		t.Fatalf("RecentEvents: %v", err)
	}
	if len(got) != 1 || got[0].ID != "ev1" {
		t.Fatalf("events = %+v", got)
	}
}

func TestRecentEventsChronological(t *testing.T) {
	st, ctx := openStore(t)
	base := time.Now().UTC().Truncate(time.Microsecond)

	for i := range 5 {
		ev := buyEvent(fmt.Sprintf("ev%d", i), "alice", fmt.Sprintf("sig%d", i),
			7, 100, 1, base.Add(time.Duration(i)*time.Second))
		if _, err := st.InsertEvent(ctx, ev); err != nil {
			t.Fatalf("insert %d: %v", i, err)
		}
	}

	got, err := st.RecentEvents(ctx, 3)
	if err != nil {
		t.Fatalf("RecentEvents: %v", err)
	}
	if len(got) != 3 {
		t.Fatalf("events = %d, want 3", len(got))
	}
	// Newest three, oldest first.
	if got[0].ID != "ev2" || got[2].ID != "ev4" {
		t.Fatalf("order = %s..%s", got[0].ID, got[2].ID)
	}
}

func TestRoundEvents(t *testing.T) {
	st, ctx := openStore(t)
	base := time.Now().UTC().Truncate(time.Microsecond)

	if _, err := st.InsertEvent(ctx, buyEvent("a", "alice", "s1", 7, 100, 1, base)); err != nil {
		t.Fatalf("insert: %v", err)
	}
	if _, err := st.InsertEvent(ctx, buyEvent("b", "bob", "s2", 8, 200, 2, base.Add(time.Second))); err != nil {
		t.Fatalf("insert: %v", err)
	}

	got, err := st.RoundEvents(ctx, 8)
	if err != nil {
		t.Fatalf("RoundEvents: %v", err)
	}
	if len(got) != 1 || got[0].Player != "bob" {
		t.Fatalf("events = %+v", got)
	}
}

func TestTopSpenders(t *testing.T) {
	st, ctx := openStore(t)
	base := time.Now().UTC().Truncate(time.Microsecond)

	inserts := []events.DomainEvent{
		buyEvent("a", "alice", "s1", 7, 100, 1, base),
		buyEvent("b", "alice", "s2", 7, 300, 2, base.Add(time.Second)),
		buyEvent("c", "bob", "s3", 7, 250, 2, base.Add(2*time.Second)),
		{ID: "d", Kind: events.KindClaim, Player: "carol", Lamports: 9_999, Round: 7,
			GeneratedAt: base.Add(3 * time.Second), TxSignature: "s4"},
	}
	for _, ev := range inserts {
		if _, err := st.InsertEvent(ctx, ev); err != nil {
			t.Fatalf("insert %s: %v", ev.ID, err)
		}
	}

	got, err := st.TopSpenders(ctx, 10)
	if err != nil {
		t.Fatalf("TopSpenders: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("entries = %+v", got)
	}
	if got[0].Player != "alice" || got[0].Lamports != 400 || got[0].Keys != 3 || got[0].Buys != 2 {
		t.Fatalf("top = %+v", got[0])
	}
	if got[1].Player != "bob" {
		t.Fatalf("second = %+v", got[1])
	}
}
