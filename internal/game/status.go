package game

import "time"

// PlayerStatus is the derived action-eligibility summary for one player.
// It is recomputed on every read and never persisted.
type PlayerStatus struct {
	NeedsRegistration bool   `json:"needs_registration"`
	NeedsSettlement   bool   `json:"needs_settlement"`
	RoundOfRecord     uint64 `json:"round_of_record"`

	CanBuyKeys       bool `json:"can_buy_keys"`
	CanClaim         bool `json:"can_claim"`
	CanClaimReferral bool `json:"can_claim_referral"`
	IsWinner         bool `json:"is_winner"`

	EstimatedDividend uint64 `json:"estimated_dividend_lamports"`
	EstimatedPrize    uint64 `json:"estimated_prize_lamports"`
	UnclaimedReferral uint64 `json:"unclaimed_referral_lamports"`

	Phase Phase  `json:"phase"`
	Keys  uint64 `json:"keys"`
}

// ResolvePlayerStatus derives a PlayerStatus from the two ledger
// snapshots. Either snapshot may be nil: a nil game snapshot yields an
// all-disabled waiting status, a nil record means the player never
// registered.
func ResolvePlayerStatus(s *GameSnapshot, rec *PlayerRecord, address string, now time.Time) (PlayerStatus, error) {
	if err := ValidateAddress(address); err != nil {
		return PlayerStatus{}, err
	}

	status := PlayerStatus{
		NeedsRegistration: rec == nil,
		Phase:             ResolvePhase(s, now),
	}
	if s == nil {
		return status, nil
	}

	unclaimedReferral, err := EstimateReferralEarnings(rec)
	if err != nil {
		return PlayerStatus{}, err
	}
	status.UnclaimedReferral = unclaimedReferral
	status.CanClaimReferral = unclaimedReferral > 0

	if rec != nil {
		status.RoundOfRecord = rec.Round
		status.Keys = rec.Keys
		// A player who carried zero keys out of an old round has nothing
		// to settle there.
		status.NeedsSettlement = rec.Round != s.Round && rec.Keys > 0
	}

	status.CanBuyKeys = status.Phase.Buyable() && !status.NeedsSettlement

	inRound := rec != nil && rec.Round == s.Round
	if inRound {
		status.EstimatedDividend = EstimateDividend(s, rec.Keys)
	}
	status.EstimatedPrize = EstimateWinnerPrize(s, address, now)
	status.IsWinner = status.EstimatedPrize > 0
	status.CanClaim = status.Phase.RoundOver() && (status.EstimatedDividend > 0 || status.IsWinner)

	return status, nil
}
