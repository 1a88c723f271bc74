// Package events defines the raw ledger event union and the stable domain
// event stream derived from it.
package events

import "time"

// RawKind enumerates every event kind the ledger program emits. The set is
// closed: the normalizer switches over it exhaustively, so a new program
// event is a compile-time decision here, not a silent fallthrough.
type RawKind string

const (
	RawKeysPurchased        RawKind = "keys_purchased"
	RawReferralEarned       RawKind = "referral_earned"
	RawGameUpdated          RawKind = "game_updated"
	RawClaimed              RawKind = "claimed"
	RawReferralClaimed      RawKind = "referral_claimed"
	RawRoundStarted         RawKind = "round_started"
	RawProtocolFeeCollected RawKind = "protocol_fee_collected"
	RawRoundConcluded       RawKind = "round_concluded"
)

// Raw is one ledger-emitted event record as decoded from transaction
// logs. Only the fields relevant to its Kind are populated.
type Raw struct {
	Kind  RawKind
	Round uint64
	// Player is the acting wallet (buyer, claimer, winner).
	Player string
	// KeysBought is set on keys_purchased.
	KeysBought uint64
	// LamportsSpent is the gross spend on keys_purchased.
	LamportsSpent uint64
	// DividendLamports and WinnerLamports are set on claimed; the program
	// pays both in the same instruction.
	DividendLamports uint64
	WinnerLamports   uint64
	// CarryOverLamports is set on round_started.
	CarryOverLamports uint64
	// Timestamp is the program clock at emission (unix seconds).
	Timestamp int64
	// TxSignature identifies the transaction that emitted the record.
	TxSignature string
}

// Kind is the domain event discriminator.
type Kind string

const (
	KindBuy        Kind = "buy"
	KindClaim      Kind = "claim"
	KindWin        Kind = "win"
	KindRoundStart Kind = "round_start"
)

// DomainEvent is a normalized, user-facing event. Instances are created
// only by the Normalizer and never mutated afterwards.
type DomainEvent struct {
	ID          string    `json:"id"`
	Kind        Kind      `json:"kind"`
	Player      string    `json:"player,omitempty"`
	Lamports    uint64    `json:"lamports"`
	Keys        uint64    `json:"keys,omitempty"`
	Round       uint64    `json:"round"`
	GeneratedAt time.Time `json:"generated_at"`
	TxSignature string    `json:"tx_signature,omitempty"`
}
