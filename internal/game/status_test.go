package game

import (
	"testing"
	"time"
)

func TestResolvePlayerStatusUnregistered(t *testing.T) {
	now := time.Unix(10_000, 0)
	s := snapshotAt(true, 10_000+3600)

	status, err := ResolvePlayerStatus(s, nil, addrAlice, now)
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if !status.NeedsRegistration {
		t.Fatal("expected needs_registration for absent record")
	}
	if status.EstimatedDividend != 0 || status.EstimatedPrize != 0 || status.UnclaimedReferral != 0 {
		t.Fatalf("expected zero payout estimates, got %+v", status)
	}
	if status.CanClaim || status.CanClaimReferral {
		t.Fatal("unregistered player has nothing to claim")
	}
	if !status.CanBuyKeys {
		t.Fatal("unregistered player can still buy (registration is planned in)")
	}
}

func TestResolvePlayerStatusNilSnapshot(t *testing.T) {
	status, err := ResolvePlayerStatus(nil, nil, addrAlice, time.Unix(0, 0))
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if status.Phase != PhaseWaiting {
		t.Fatalf("expected waiting phase, got %s", status.Phase)
	}
	if status.CanBuyKeys || status.CanClaim || status.CanClaimReferral {
		t.Fatal("no capabilities without a snapshot")
	}
}

func TestResolvePlayerStatusStaleRound(t *testing.T) {
	now := time.Unix(10_000, 0)
	s := snapshotAt(true, 10_000+3600)
	s.Round = 5

	rec := &PlayerRecord{Owner: addrAlice, Keys: 10, Round: 4}
	status, err := ResolvePlayerStatus(s, rec, addrAlice, now)
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if !status.NeedsSettlement {
		t.Fatal("stale round with keys must need settlement")
	}
	if status.CanBuyKeys {
		t.Fatal("cannot buy while settlement is pending")
	}
	if status.RoundOfRecord != 4 {
		t.Fatalf("expected round of record 4, got %d", status.RoundOfRecord)
	}

	// Zero keys carried over: nothing to settle.
	rec.Keys = 0
	status, err = ResolvePlayerStatus(s, rec, addrAlice, now)
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if status.NeedsSettlement {
		t.Fatal("zero-key stale record needs no settlement")
	}
	if !status.CanBuyKeys {
		t.Fatal("player with nothing to settle can buy")
	}
}

func TestResolvePlayerStatusClaimEligibility(t *testing.T) {
	now := time.Unix(10_000, 0)
	s := snapshotAt(true, 9_000) // expired, unsettled
	s.Round = 5
	s.TotalKeys = 100
	s.DividendPool = 1_000_000_000
	s.LastBuyer = addrBob
	s.WinnerPot = 480_000_000

	rec := &PlayerRecord{Owner: addrAlice, Keys: 20, Round: 5}
	status, err := ResolvePlayerStatus(s, rec, addrAlice, now)
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if status.Phase != PhaseEnded {
		t.Fatalf("expected ended, got %s", status.Phase)
	}
	if status.EstimatedDividend != 200_000_000 {
		t.Fatalf("expected 200000000 dividend, got %d", status.EstimatedDividend)
	}
	if status.IsWinner {
		t.Fatal("alice is not the last buyer")
	}
	if !status.CanClaim {
		t.Fatal("dividend holder can claim after round end")
	}

	winner, err := ResolvePlayerStatus(s, &PlayerRecord{Owner: addrBob, Keys: 1, Round: 5}, addrBob, now)
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if !winner.IsWinner || winner.EstimatedPrize != 480_000_000 {
		t.Fatalf("expected winner with prize, got %+v", winner)
	}
}

func TestResolvePlayerStatusReferralIndependentOfPhase(t *testing.T) {
	now := time.Unix(10_000, 0)
	s := snapshotAt(true, 10_000+3600) // mid-round

	rec := &PlayerRecord{Owner: addrCarol, Round: 5, ReferralEarnings: 42}
	status, err := ResolvePlayerStatus(s, rec, addrCarol, now)
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if !status.CanClaimReferral || status.UnclaimedReferral != 42 {
		t.Fatalf("referral claims are phase-independent, got %+v", status)
	}
	if status.CanClaim {
		t.Fatal("dividend claim is not open mid-round")
	}
}

func TestResolvePlayerStatusBadAddress(t *testing.T) {
	if _, err := ResolvePlayerStatus(nil, nil, "not-an-address", time.Unix(0, 0)); err != ErrInvalidAddress {
		t.Fatalf("expected invalid_address, got %v", err)
	}
}
