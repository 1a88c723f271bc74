// Package ledger reads on-chain game state and serializes planned
// operations into unsigned instruction bundles. It never signs and never
// moves funds.
package ledger

import (
	"context"
	"errors"

	"fomolt3d-engine/internal/events"
	"fomolt3d-engine/internal/game"
)

var (
	ErrNoRound        = errors.New("no_round")
	ErrNotFound       = errors.New("not_found")
	ErrBadAccountData = errors.New("bad_account_data")
)

// Reader is the read surface of the ledger collaborator. Player and
// roster lookups return ErrNotFound wrapped when no account exists;
// GameSnapshot returns ErrNoRound before the program is initialized.
type Reader interface {
	GameSnapshot(ctx context.Context) (*game.GameSnapshot, error)
	Player(ctx context.Context, address string) (*game.PlayerRecord, error)
	RoundPlayers(ctx context.Context, round uint64) ([]game.PlayerRecord, error)
	RecentEvents(ctx context.Context, limit int) ([]events.Raw, error)
}
