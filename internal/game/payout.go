package game

import (
	"time"

	"github.com/holiman/uint256"
)

// EstimateDividend computes a player's proportional dividend share using
// the program's formula: floor(keys * pool / totalKeys). Flooring per
// player guarantees the sum of all estimates never exceeds the pool.
func EstimateDividend(s *GameSnapshot, playerKeys uint64) uint64 {
	if s == nil || playerKeys == 0 || s.TotalKeys == 0 {
		return 0
	}
	v := new(uint256.Int).Mul(uint256.NewInt(playerKeys), uint256.NewInt(s.DividendPool))
	v.Div(v, uint256.NewInt(s.TotalKeys))
	// keys <= totalKeys on any state the program produced, so the result
	// is bounded by the pool and fits.
	return v.Uint64()
}

// EstimateWinnerPrize returns the winner pot if the queried address is the
// round's last buyer, the round is over, and the prize is unclaimed.
func EstimateWinnerPrize(s *GameSnapshot, address string, now time.Time) uint64 {
	if s == nil || address == "" {
		return 0
	}
	if !ResolvePhase(s, now).RoundOver() {
		return 0
	}
	if s.WinnerClaimed || s.LastBuyer != address {
		return 0
	}
	return s.WinnerPot
}

// EstimateReferralEarnings returns the player's unclaimed referral
// balance. Claimed exceeding earned cannot happen on a well-formed ledger
// and is reported as an integrity fault instead of being clamped.
func EstimateReferralEarnings(r *PlayerRecord) (uint64, error) {
	if r == nil {
		return 0, nil
	}
	if r.ClaimedReferralEarnings > r.ReferralEarnings {
		return 0, &IntegrityError{Field: "referral_earnings", Detail: "claimed exceeds earned"}
	}
	return r.ReferralEarnings - r.ClaimedReferralEarnings, nil
}
