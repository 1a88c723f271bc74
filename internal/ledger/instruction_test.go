package ledger

import (
	"bytes"
	"encoding/binary"
	"testing"

	"fomolt3d-engine/internal/plan"
)

func newTestEncoder(t *testing.T) *Encoder {
	t.Helper()
	enc, err := NewEncoder(addrCarol)
	if err != nil {
		t.Fatalf("NewEncoder: %v", err)
	}
	return enc
}

func TestEncodeBuyWithSettle(t *testing.T) {
	enc := newTestEncoder(t)
	bundle, err := enc.Encode(addrAlice, []plan.Op{
		{Kind: plan.OpSettlePrevious, Round: 4},
		{Kind: plan.OpBuyKeys, Round: 5, Keys: 10, IsAgent: true},
	})
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	if bundle.FeePayer != addrAlice {
		t.Fatalf("fee payer = %s", bundle.FeePayer)
	}
	if len(bundle.Instructions) != 2 {
		t.Fatalf("instructions = %d, want 2", len(bundle.Instructions))
	}

	settle := bundle.Instructions[0]
	if settle.Method != "claim" || settle.Round != 4 {
		t.Fatalf("settle = %+v", settle)
	}
	if !bytes.Equal(settle.Data, claimIxDisc[:]) {
		t.Fatalf("settle data = %x", settle.Data)
	}

	buy := bundle.Instructions[1]
	if buy.Method != "buy_keys" || buy.Round != 5 {
		t.Fatalf("buy = %+v", buy)
	}
	if len(buy.Data) != 17 {
		t.Fatalf("buy data length = %d, want 17", len(buy.Data))
	}
	if !bytes.Equal(buy.Data[:8], buyKeysIxDisc[:]) {
		t.Fatalf("buy discriminator = %x", buy.Data[:8])
	}
	if got := binary.LittleEndian.Uint64(buy.Data[8:16]); got != 10 {
		t.Fatalf("keys arg = %d, want 10", got)
	}
	if buy.Data[16] != 1 {
		t.Fatalf("is_agent arg = %d, want 1", buy.Data[16])
	}
}

func TestEncodeRegisterIsZeroKeyBuy(t *testing.T) {
	enc := newTestEncoder(t)
	bundle, err := enc.Encode(addrAlice, []plan.Op{
		{Kind: plan.OpRegister, Round: 3, Referrer: addrBob},
		{Kind: plan.OpBuyKeys, Round: 3, Keys: 1, Referrer: addrBob},
	})
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	register := bundle.Instructions[0]
	if register.Method != "buy_keys" {
		t.Fatalf("register method = %s", register.Method)
	}
	if got := binary.LittleEndian.Uint64(register.Data[8:16]); got != 0 {
		t.Fatalf("register keys arg = %d, want 0", got)
	}
	if register.Referrer != addrBob {
		t.Fatalf("register referrer = %s", register.Referrer)
	}
}

func TestEncodeClaimReferral(t *testing.T) {
	enc := newTestEncoder(t)
	bundle, err := enc.Encode(addrBob, []plan.Op{
		{Kind: plan.OpClaim, Round: 6},
		{Kind: plan.OpClaimReferral, Round: 6},
	})
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	if bundle.Instructions[1].Method != "claim_referral_earnings" {
		t.Fatalf("method = %s", bundle.Instructions[1].Method)
	}
	if !bytes.Equal(bundle.Instructions[1].Data, claimReferralIxDisc[:]) {
		t.Fatalf("data = %x", bundle.Instructions[1].Data)
	}
}

func TestEncodeRejectsBadFeePayer(t *testing.T) {
	enc := newTestEncoder(t)
	if _, err := enc.Encode("not-an-address", []plan.Op{{Kind: plan.OpClaim, Round: 1}}); err == nil {
		t.Fatalf("want error for bad fee payer")
	}
}

func TestEncodeRejectsEmptyPlan(t *testing.T) {
	enc := newTestEncoder(t)
	if _, err := enc.Encode(addrAlice, nil); err == nil {
		t.Fatalf("want error for empty plan")
	}
}
