package plan

// OpKind names a ledger operation the external signer will submit. Ops in
// a plan form one atomic transaction; order matters.
type OpKind string

const (
	// OpRegister creates the player account. The program's registration
	// path is create-if-absent, so replanning it is harmless.
	OpRegister OpKind = "register"
	// OpSettlePrevious finalizes the player's position in a stale round
	// before anything touches the current round.
	OpSettlePrevious OpKind = "settle_previous_round"
	// OpBuyKeys purchases keys in the current round.
	OpBuyKeys OpKind = "buy_keys"
	// OpClaim collects dividends and, when eligible, the winner prize.
	// The program pays both in one instruction; never split them.
	OpClaim OpKind = "claim"
	// OpClaimReferral withdraws accumulated referral earnings.
	OpClaimReferral OpKind = "claim_referral"
)

// Op is one planned ledger operation.
type Op struct {
	Kind    OpKind `json:"kind"`
	Round   uint64 `json:"round"`
	Keys    uint64 `json:"keys,omitempty"`
	IsAgent bool   `json:"is_agent,omitempty"`
	// Referrer names the referrer account the signer must pass: the
	// requested one on a first-ever linkage, the recorded one after.
	Referrer string `json:"referrer,omitempty"`
}

// Result is a planning outcome: either an ordered op list, or a reason the
// requested action does not apply right now. Inapplicability is a normal
// business state, not an error.
type Result struct {
	Ops    []Op   `json:"ops,omitempty"`
	Reason string `json:"reason,omitempty"`
}

// Applicable reports whether the plan contains anything to submit.
func (r Result) Applicable() bool {
	return len(r.Ops) > 0
}

func notApplicable(reason string) Result {
	return Result{Reason: reason}
}

// Inapplicability reasons rendered to callers as disabled states.
const (
	ReasonRoundNotActive = "round_not_active"
	ReasonNothingToClaim = "nothing_to_claim"
)
