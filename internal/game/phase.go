package game

import "time"

// Phase classifies the round lifecycle as observed from a snapshot. The
// engine never drives transitions; the program does.
type Phase string

const (
	// PhaseWaiting means no round snapshot is available yet.
	PhaseWaiting Phase = "waiting"
	// PhaseActive means the timer is running.
	PhaseActive Phase = "active"
	// PhaseEnding is a display refinement of active used for urgency
	// signalling when little time remains. It is never stored on-chain.
	PhaseEnding Phase = "ending"
	// PhaseEnded means the timer has expired but the round is still
	// flagged active on the ledger, awaiting someone to trip settlement.
	PhaseEnded Phase = "ended"
	// PhaseClaiming means the round is settled and payouts are open.
	PhaseClaiming Phase = "claiming"
)

// EndingThresholdSecs is the remaining-time cutoff below which an active
// round is classified as ending.
const EndingThresholdSecs = 60

// ResolvePhase derives the phase from a snapshot and wall-clock time.
func ResolvePhase(s *GameSnapshot, now time.Time) Phase {
	if s == nil {
		return PhaseWaiting
	}
	if !s.Active {
		return PhaseClaiming
	}
	remaining := s.TimerEnd - now.Unix()
	switch {
	case remaining <= 0:
		return PhaseEnded
	case remaining <= EndingThresholdSecs:
		return PhaseEnding
	default:
		return PhaseActive
	}
}

// RemainingSecs returns seconds until timer expiry, floored at zero.
func (s *GameSnapshot) RemainingSecs(now time.Time) int64 {
	remaining := s.TimerEnd - now.Unix()
	if remaining < 0 {
		return 0
	}
	return remaining
}

// RoundOver reports whether the phase counts as finished for payout
// eligibility purposes.
func (p Phase) RoundOver() bool {
	return p == PhaseEnded || p == PhaseClaiming
}

// Buyable reports whether key purchases are accepted in this phase.
func (p Phase) Buyable() bool {
	return p == PhaseActive || p == PhaseEnding
}
