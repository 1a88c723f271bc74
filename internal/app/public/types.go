package public

import (
	"fomolt3d-engine/internal/events"
	"fomolt3d-engine/internal/game"
	"fomolt3d-engine/internal/ledger"
	"fomolt3d-engine/internal/plan"
)

type GameStatusResponse struct {
	Round         uint64     `json:"round"`
	Phase         game.Phase `json:"phase"`
	PotLamports   uint64     `json:"pot_lamports"`
	TimerEnd      int64      `json:"timer_end"`
	RemainingSecs int64      `json:"remaining_secs"`
	LastBuyer     string     `json:"last_buyer,omitempty"`
	TotalKeys     uint64     `json:"total_keys"`
	TotalPlayers  uint32     `json:"total_players"`
	DividendPool  uint64     `json:"dividend_pool_lamports"`
	WinnerPot     uint64     `json:"winner_pot_lamports"`
	NextRoundPot  uint64     `json:"next_round_pot_lamports"`
	NextKeyPrice  uint64     `json:"next_key_price_lamports"`
	WinnerClaimed bool       `json:"winner_claimed"`
}

type PriceResponse struct {
	Keys          uint64 `json:"keys"`
	TotalLamports uint64 `json:"total_lamports"`
	NextKeyPrice  uint64 `json:"next_key_price_lamports"`
}

type PlayerStatusResponse struct {
	Address string            `json:"address"`
	Round   uint64            `json:"round"`
	Status  game.PlayerStatus `json:"status"`
}

type LeaderboardResponse struct {
	Round uint64             `json:"round"`
	Items []LeaderboardEntry `json:"items"`
}

type LeaderboardEntry struct {
	Rank              int    `json:"rank"`
	Address           string `json:"address"`
	Keys              uint64 `json:"keys"`
	EstimatedDividend uint64 `json:"estimated_dividend_lamports"`
	IsAgent           bool   `json:"is_agent,omitempty"`
}

type EventsResponse struct {
	Items []events.DomainEvent `json:"items"`
}

type BuyRequest struct {
	Buyer    string `json:"buyer"`
	Keys     uint64 `json:"keys"`
	IsAgent  bool   `json:"is_agent"`
	Referrer string `json:"referrer,omitempty"`
}

type ClaimRequest struct {
	Address string `json:"address"`
}

// PlanResponse carries the planned ops plus, when applicable, the
// unsigned bundle ready for an external signer.
type PlanResponse struct {
	Plan   plan.Result    `json:"plan"`
	Bundle *ledger.Bundle `json:"bundle,omitempty"`
}
