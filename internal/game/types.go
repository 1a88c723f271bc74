package game

// RoundConfig is the config snapshot frozen into a round at round start.
// The on-chain program copies these from its global config when the round
// account is created, so they never change for the lifetime of a round.
type RoundConfig struct {
	BasePriceLamports      uint64
	PriceIncrementLamports uint64
	TimerExtensionSecs     int64
	MaxTimerSecs           int64
	WinnerBps              uint64
	DividendBps            uint64
	NextRoundBps           uint64
	ProtocolFeeBps         uint64
	ReferralBonusBps       uint64
	ProtocolWallet         string
}

// GameSnapshot is a read-only view of one round's on-chain state.
type GameSnapshot struct {
	Round         uint64
	PotLamports   uint64
	TimerEnd      int64
	LastBuyer     string
	TotalKeys     uint64
	RoundStart    int64
	Active        bool
	WinnerClaimed bool
	TotalPlayers  uint32
	DividendPool  uint64
	NextRoundPot  uint64
	WinnerPot     uint64
	Config        RoundConfig
}

// PlayerRecord is a read-only view of one player's on-chain account.
// A nil record means the player never registered. Round == 0 is the
// program's "settled, free to re-enter" sentinel.
type PlayerRecord struct {
	Owner                    string
	Keys                     uint64
	Round                    uint64
	ClaimedDividendsLamports uint64
	Referrer                 string
	ReferralEarnings         uint64
	ClaimedReferralEarnings  uint64
	IsAgent                  bool
}

// HasReferrer reports whether a referral link was ever recorded. The
// program sets the referrer at most once and never overwrites it.
func (r *PlayerRecord) HasReferrer() bool {
	return r != nil && r.Referrer != ""
}

// Validate checks the snapshot against the program's own invariants.
// Violations mean the engine is decoding a state the program could not
// have produced, so they surface as integrity faults rather than being
// clamped.
func (s *GameSnapshot) Validate() error {
	if err := ValidateBpsSum(s.Config.WinnerBps, s.Config.DividendBps, s.Config.NextRoundBps); err != nil {
		return err
	}
	if s.Config.ProtocolFeeBps > bpsDenominator {
		return &IntegrityError{Field: "protocol_fee_bps", Detail: "exceeds 10000"}
	}
	if s.Config.ReferralBonusBps > bpsDenominator {
		return &IntegrityError{Field: "referral_bonus_bps", Detail: "exceeds 10000"}
	}
	if s.TimerEnd < s.RoundStart {
		return &IntegrityError{Field: "timer_end", Detail: "precedes round start"}
	}
	return nil
}
