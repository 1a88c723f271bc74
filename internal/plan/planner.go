// Package plan turns a player intent plus ledger snapshots into the
// ordered list of operations one transaction must carry. Planning is pure:
// it never fetches, never mutates, and reports expected business states
// ("round not active", "nothing to claim") as typed results rather than
// errors.
package plan

import (
	"fmt"
	"time"

	"fomolt3d-engine/internal/game"
)

// BuyRequest is the caller's intent to purchase keys.
type BuyRequest struct {
	Buyer    string
	Keys     uint64
	IsAgent  bool
	Referrer string
}

// PlanBuy emits the operations needed to execute a buy against the given
// snapshots, prefixing registration and stale-round settlement as needed.
// Validation problems (bad address, amount out of bounds, missing
// snapshot) are faults; a non-buyable phase is an inapplicable result.
func PlanBuy(s *game.GameSnapshot, rec *game.PlayerRecord, req BuyRequest, now time.Time) (Result, error) {
	if s == nil {
		return Result{}, ErrNoSnapshot
	}
	if err := game.ValidateAddress(req.Buyer); err != nil {
		return Result{}, fmt.Errorf("buyer: %w", err)
	}
	if req.Keys == 0 || req.Keys > game.MaxKeysPerBuy {
		return Result{}, game.ErrInvalidAmount
	}
	referrer := req.Referrer
	if referrer != "" {
		if err := game.ValidateAddress(referrer); err != nil {
			return Result{}, fmt.Errorf("referrer: %w", err)
		}
		if referrer == req.Buyer {
			return Result{}, ErrSelfReferral
		}
	}

	status, err := game.ResolvePlayerStatus(s, rec, req.Buyer, now)
	if err != nil {
		return Result{}, err
	}
	if !status.Phase.Buyable() {
		return notApplicable(ReasonRoundNotActive), nil
	}

	// The referral link is write-once: only the account-initializing call
	// records it, and once recorded every later buy must present that same
	// referrer account or the program rejects the transaction. A recorded
	// link therefore wins over a conflicting request parameter.
	if rec.HasReferrer() {
		referrer = rec.Referrer
	}

	var ops []Op
	if status.NeedsRegistration {
		ops = append(ops, Op{Kind: OpRegister, Round: s.Round, IsAgent: req.IsAgent, Referrer: referrer})
	}
	if status.NeedsSettlement {
		// A buy must never land on a stale round: the program rejects it,
		// and a forced buy would credit the wrong round's dividend pool.
		ops = append(ops, Op{Kind: OpSettlePrevious, Round: status.RoundOfRecord})
	}

	ops = append(ops, Op{
		Kind:     OpBuyKeys,
		Round:    s.Round,
		Keys:     req.Keys,
		IsAgent:  req.IsAgent,
		Referrer: referrer,
	})
	return Result{Ops: ops}, nil
}

// PlanClaim emits the operations that collect everything claimable:
// settlement of keys stranded in a stale round, dividends plus the winner
// prize in one combined op once the round is over, and pending referral
// earnings in any phase. When nothing applies the result is inapplicable,
// not an error — an already-settled record naturally falls out that way.
func PlanClaim(s *game.GameSnapshot, rec *game.PlayerRecord, now time.Time) (Result, error) {
	if s == nil {
		return Result{}, ErrNoSnapshot
	}
	if rec == nil {
		return notApplicable(ReasonNothingToClaim), nil
	}
	if err := game.ValidateAddress(rec.Owner); err != nil {
		return Result{}, fmt.Errorf("owner: %w", err)
	}

	status, err := game.ResolvePlayerStatus(s, rec, rec.Owner, now)
	if err != nil {
		return Result{}, err
	}

	var ops []Op
	if status.NeedsSettlement {
		// Keys stranded in an old round are paid out by claiming against
		// that round's account, not the current one.
		ops = append(ops, Op{Kind: OpSettlePrevious, Round: status.RoundOfRecord})
	}
	if status.CanClaim {
		ops = append(ops, Op{Kind: OpClaim, Round: s.Round})
	}
	if status.CanClaimReferral {
		ops = append(ops, Op{Kind: OpClaimReferral, Round: s.Round})
	}
	if len(ops) == 0 {
		return notApplicable(ReasonNothingToClaim), nil
	}
	return Result{Ops: ops}, nil
}
