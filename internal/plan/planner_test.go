package plan

import (
	"errors"
	"testing"
	"time"

	"fomolt3d-engine/internal/game"
)

const (
	addrAlice = "So11111111111111111111111111111111111111112"
	addrBob   = "SysvarC1ock11111111111111111111111111111111"
	addrCarol = "SysvarRent111111111111111111111111111111111"
)

func activeSnapshot(round uint64, now time.Time) *game.GameSnapshot {
	return &game.GameSnapshot{
		Round:    round,
		Active:   true,
		TimerEnd: now.Unix() + 3600,
		Config: game.RoundConfig{
			BasePriceLamports:      10_000_000,
			PriceIncrementLamports: 1_000_000,
			WinnerBps:              4800,
			DividendBps:            4500,
			NextRoundBps:           700,
		},
	}
}

func kinds(r Result) []OpKind {
	out := make([]OpKind, 0, len(r.Ops))
	for _, op := range r.Ops {
		out = append(out, op.Kind)
	}
	return out
}

func TestPlanBuyNewPlayerPrependsRegistration(t *testing.T) {
	now := time.Unix(50_000, 0)
	res, err := PlanBuy(activeSnapshot(5, now), nil, BuyRequest{Buyer: addrAlice, Keys: 3}, now)
	if err != nil {
		t.Fatalf("plan: %v", err)
	}
	got := kinds(res)
	if len(got) != 2 || got[0] != OpRegister || got[1] != OpBuyKeys {
		t.Fatalf("expected [register buy_keys], got %v", got)
	}
	if res.Ops[1].Keys != 3 {
		t.Fatalf("expected 3 keys on buy op, got %d", res.Ops[1].Keys)
	}
}

func TestPlanBuyStaleRoundSettlesFirst(t *testing.T) {
	now := time.Unix(50_000, 0)
	rec := &game.PlayerRecord{Owner: addrAlice, Keys: 10, Round: 4}
	res, err := PlanBuy(activeSnapshot(5, now), rec, BuyRequest{Buyer: addrAlice, Keys: 1}, now)
	if err != nil {
		t.Fatalf("plan: %v", err)
	}
	got := kinds(res)
	if len(got) != 2 || got[0] != OpSettlePrevious || got[1] != OpBuyKeys {
		t.Fatalf("expected [settle_previous_round buy_keys], got %v", got)
	}
	if res.Ops[0].Round != 4 {
		t.Fatalf("settlement must target the stale round 4, got %d", res.Ops[0].Round)
	}
	if res.Ops[1].Round != 5 {
		t.Fatalf("buy must target the current round 5, got %d", res.Ops[1].Round)
	}
}

func TestPlanBuyCurrentRoundBuyOnly(t *testing.T) {
	now := time.Unix(50_000, 0)
	rec := &game.PlayerRecord{Owner: addrAlice, Keys: 2, Round: 5}
	res, err := PlanBuy(activeSnapshot(5, now), rec, BuyRequest{Buyer: addrAlice, Keys: 1}, now)
	if err != nil {
		t.Fatalf("plan: %v", err)
	}
	got := kinds(res)
	if len(got) != 1 || got[0] != OpBuyKeys {
		t.Fatalf("expected bare buy, got %v", got)
	}
}

func TestPlanBuyReferrerOnRegistration(t *testing.T) {
	now := time.Unix(50_000, 0)

	// Only the account-initializing call records the link, so the
	// register op must carry the referrer, not just the buy.
	res, err := PlanBuy(activeSnapshot(5, now), nil, BuyRequest{Buyer: addrAlice, Keys: 1, Referrer: addrBob}, now)
	if err != nil {
		t.Fatalf("plan: %v", err)
	}
	got := kinds(res)
	if len(got) != 2 || got[0] != OpRegister || got[1] != OpBuyKeys {
		t.Fatalf("expected [register buy_keys], got %v", got)
	}
	if res.Ops[0].Referrer != addrBob {
		t.Fatalf("register op must carry the referrer, got %q", res.Ops[0].Referrer)
	}
	if res.Ops[1].Referrer != addrBob {
		t.Fatalf("buy op must present the linked referrer, got %q", res.Ops[1].Referrer)
	}
}

func TestPlanBuyRecordedReferrerWins(t *testing.T) {
	now := time.Unix(50_000, 0)

	// Record already linked: a differing referrer argument is dropped and
	// the recorded account is planned instead. The program requires the
	// linked referrer on every subsequent buy.
	rec := &game.PlayerRecord{Owner: addrAlice, Keys: 1, Round: 5, Referrer: addrBob}
	res, err := PlanBuy(activeSnapshot(5, now), rec, BuyRequest{Buyer: addrAlice, Keys: 1, Referrer: addrCarol}, now)
	if err != nil {
		t.Fatalf("plan: %v", err)
	}
	if res.Ops[len(res.Ops)-1].Referrer != addrBob {
		t.Fatalf("recorded referrer must win, got %q", res.Ops[len(res.Ops)-1].Referrer)
	}

	// No referrer argument at all: the recorded link still rides along.
	res, err = PlanBuy(activeSnapshot(5, now), rec, BuyRequest{Buyer: addrAlice, Keys: 2}, now)
	if err != nil {
		t.Fatalf("plan: %v", err)
	}
	if res.Ops[len(res.Ops)-1].Referrer != addrBob {
		t.Fatalf("buy must carry the recorded referrer, got %q", res.Ops[len(res.Ops)-1].Referrer)
	}
}

func TestPlanBuyValidationFaults(t *testing.T) {
	now := time.Unix(50_000, 0)
	s := activeSnapshot(5, now)

	if _, err := PlanBuy(nil, nil, BuyRequest{Buyer: addrAlice, Keys: 1}, now); !errors.Is(err, ErrNoSnapshot) {
		t.Fatalf("expected no_snapshot, got %v", err)
	}
	if _, err := PlanBuy(s, nil, BuyRequest{Buyer: "bogus", Keys: 1}, now); !errors.Is(err, game.ErrInvalidAddress) {
		t.Fatalf("expected invalid_address, got %v", err)
	}
	if _, err := PlanBuy(s, nil, BuyRequest{Buyer: addrAlice, Keys: 0}, now); !errors.Is(err, game.ErrInvalidAmount) {
		t.Fatalf("expected invalid_amount for 0 keys, got %v", err)
	}
	if _, err := PlanBuy(s, nil, BuyRequest{Buyer: addrAlice, Keys: game.MaxKeysPerBuy + 1}, now); !errors.Is(err, game.ErrInvalidAmount) {
		t.Fatalf("expected invalid_amount above max, got %v", err)
	}
	if _, err := PlanBuy(s, nil, BuyRequest{Buyer: addrAlice, Keys: 1, Referrer: addrAlice}, now); !errors.Is(err, ErrSelfReferral) {
		t.Fatalf("expected self_referral, got %v", err)
	}
}

func TestPlanBuyInactiveRoundNotApplicable(t *testing.T) {
	now := time.Unix(50_000, 0)
	s := activeSnapshot(5, now)
	s.TimerEnd = now.Unix() - 10 // expired

	res, err := PlanBuy(s, nil, BuyRequest{Buyer: addrAlice, Keys: 1}, now)
	if err != nil {
		t.Fatalf("plan: %v", err)
	}
	if res.Applicable() || res.Reason != ReasonRoundNotActive {
		t.Fatalf("expected round_not_active, got %+v", res)
	}
}

func TestPlanClaimDividendOnly(t *testing.T) {
	now := time.Unix(50_000, 0)
	s := activeSnapshot(5, now)
	s.TimerEnd = now.Unix() - 10
	s.TotalKeys = 100
	s.DividendPool = 5_000_000_000 // 5 SOL pool
	s.LastBuyer = addrBob

	rec := &game.PlayerRecord{Owner: addrAlice, Keys: 100, Round: 5}
	res, err := PlanClaim(s, rec, now)
	if err != nil {
		t.Fatalf("plan: %v", err)
	}
	got := kinds(res)
	if len(got) != 1 || got[0] != OpClaim {
		t.Fatalf("expected exactly one claim op, got %v", got)
	}

	// Already settled: the program resets keys and round on claim.
	settled := &game.PlayerRecord{Owner: addrAlice, Keys: 0, Round: 0, ClaimedDividendsLamports: 5_000_000_000}
	res, err = PlanClaim(s, settled, now)
	if err != nil {
		t.Fatalf("plan: %v", err)
	}
	if res.Applicable() || res.Reason != ReasonNothingToClaim {
		t.Fatalf("expected nothing_to_claim after settlement, got %+v", res)
	}
}

func TestPlanClaimReferralMidRound(t *testing.T) {
	now := time.Unix(50_000, 0)
	s := activeSnapshot(5, now) // still running

	rec := &game.PlayerRecord{Owner: addrCarol, Round: 5, ReferralEarnings: 1_000}
	res, err := PlanClaim(s, rec, now)
	if err != nil {
		t.Fatalf("plan: %v", err)
	}
	got := kinds(res)
	if len(got) != 1 || got[0] != OpClaimReferral {
		t.Fatalf("referral claim is allowed mid-round, got %v", got)
	}
}

func TestPlanClaimStaleRoundSettles(t *testing.T) {
	now := time.Unix(50_000, 0)
	s := activeSnapshot(3, now)

	// Keys stranded in round 2 are paid by claiming against that round,
	// even while round 3 is still running.
	rec := &game.PlayerRecord{Owner: addrAlice, Keys: 5, Round: 2}
	res, err := PlanClaim(s, rec, now)
	if err != nil {
		t.Fatalf("plan: %v", err)
	}
	got := kinds(res)
	if len(got) != 1 || got[0] != OpSettlePrevious {
		t.Fatalf("expected [settle_previous_round], got %v", got)
	}
	if res.Ops[0].Round != 2 {
		t.Fatalf("settlement must target the stale round 2, got %d", res.Ops[0].Round)
	}
}

func TestPlanClaimCombined(t *testing.T) {
	now := time.Unix(50_000, 0)
	s := activeSnapshot(5, now)
	s.Active = false
	s.TotalKeys = 10
	s.DividendPool = 1_000_000_000
	s.LastBuyer = addrAlice
	s.WinnerPot = 480_000_000

	rec := &game.PlayerRecord{Owner: addrAlice, Keys: 10, Round: 5, ReferralEarnings: 7}
	res, err := PlanClaim(s, rec, now)
	if err != nil {
		t.Fatalf("plan: %v", err)
	}
	got := kinds(res)
	if len(got) != 2 || got[0] != OpClaim || got[1] != OpClaimReferral {
		t.Fatalf("expected [claim claim_referral], got %v", got)
	}
}

func TestPlanClaimNothing(t *testing.T) {
	now := time.Unix(50_000, 0)
	res, err := PlanClaim(activeSnapshot(5, now), nil, now)
	if err != nil {
		t.Fatalf("plan: %v", err)
	}
	if res.Applicable() || res.Reason != ReasonNothingToClaim {
		t.Fatalf("expected nothing_to_claim for unregistered player, got %+v", res)
	}
}
