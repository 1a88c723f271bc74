package events

import "time"

// Normalizer maps raw ledger records to domain events. Every emitted
// event gets a fresh ID regardless of input content; deduplication across
// repeated fetch windows is the consumer's job, keyed on TxSignature.
type Normalizer struct {
	now   func() time.Time
	newID func() string
}

// NewNormalizer returns a Normalizer using wall-clock time and ULIDs.
func NewNormalizer() *Normalizer {
	return &Normalizer{now: time.Now, newID: NewID}
}

// Normalize maps one raw record to a domain event, or reports false for
// record kinds with no user-facing meaning.
func (n *Normalizer) Normalize(raw Raw) (DomainEvent, bool) {
	switch raw.Kind {
	case RawKeysPurchased:
		return n.emit(KindBuy, raw, raw.LamportsSpent, raw.KeysBought), true
	case RawClaimed:
		// A claim with winner lamports is the round win; the program pays
		// dividend and prize together, so the amount is the combined sum.
		total := raw.DividendLamports + raw.WinnerLamports
		if raw.WinnerLamports > 0 {
			return n.emit(KindWin, raw, total, 0), true
		}
		return n.emit(KindClaim, raw, total, 0), true
	case RawRoundStarted:
		return n.emit(KindRoundStart, raw, raw.CarryOverLamports, 0), true
	case RawReferralEarned, RawReferralClaimed, RawGameUpdated,
		RawProtocolFeeCollected, RawRoundConcluded:
		// Bookkeeping and state-update pings: nothing user-facing.
		return DomainEvent{}, false
	default:
		return DomainEvent{}, false
	}
}

// NormalizeAll maps a raw window in order, dropping non-events.
func (n *Normalizer) NormalizeAll(raws []Raw) []DomainEvent {
	out := make([]DomainEvent, 0, len(raws))
	for _, raw := range raws {
		if ev, ok := n.Normalize(raw); ok {
			out = append(out, ev)
		}
	}
	return out
}

func (n *Normalizer) emit(kind Kind, raw Raw, lamports, keys uint64) DomainEvent {
	return DomainEvent{
		ID:          n.newID(),
		Kind:        kind,
		Player:      raw.Player,
		Lamports:    lamports,
		Keys:        keys,
		Round:       raw.Round,
		GeneratedAt: n.now(),
		TxSignature: raw.TxSignature,
	}
}
