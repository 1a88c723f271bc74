package ledger

import (
	"crypto/sha256"
	"encoding/binary"
	"fmt"

	"fomolt3d-engine/internal/events"
	"fomolt3d-engine/internal/game"
)

// Anchor prefixes every account and event payload with the first 8 bytes
// of a sha256 over a namespaced name.
func discriminator(namespace, name string) [8]byte {
	sum := sha256.Sum256([]byte(namespace + ":" + name))
	var d [8]byte
	copy(d[:], sum[:8])
	return d
}

var (
	gameStateDisc   = discriminator("account", "GameState")
	playerStateDisc = discriminator("account", "PlayerState")

	keysPurchasedDisc        = discriminator("event", "KeysPurchased")
	referralEarnedDisc       = discriminator("event", "ReferralEarned")
	gameUpdatedDisc          = discriminator("event", "GameUpdated")
	claimedDisc              = discriminator("event", "Claimed")
	referralClaimedDisc      = discriminator("event", "ReferralClaimed")
	roundStartedDisc         = discriminator("event", "RoundStarted")
	protocolFeeCollectedDisc = discriminator("event", "ProtocolFeeCollected")
	roundConcludedDisc       = discriminator("event", "RoundConcluded")
)

// byteReader walks a little-endian borsh payload sequentially. Options
// shift the offsets of everything after them, so random access is out.
type byteReader struct {
	buf []byte
	off int
	err error
}

func (r *byteReader) take(n int) []byte {
	if r.err != nil {
		return nil
	}
	if r.off+n > len(r.buf) {
		r.err = fmt.Errorf("%w: truncated at offset %d", ErrBadAccountData, r.off)
		return nil
	}
	out := r.buf[r.off : r.off+n]
	r.off += n
	return out
}

func (r *byteReader) u64() uint64 {
	b := r.take(8)
	if r.err != nil {
		return 0
	}
	return binary.LittleEndian.Uint64(b)
}

func (r *byteReader) i64() int64 { return int64(r.u64()) }

func (r *byteReader) u32() uint32 {
	b := r.take(4)
	if r.err != nil {
		return 0
	}
	return binary.LittleEndian.Uint32(b)
}

func (r *byteReader) u8() byte {
	b := r.take(1)
	if r.err != nil {
		return 0
	}
	return b[0]
}

func (r *byteReader) boolean() bool { return r.u8() != 0 }

func (r *byteReader) address() string {
	b := r.take(32)
	if r.err != nil {
		return ""
	}
	addr, err := game.EncodeAddress(b)
	if err != nil {
		r.err = err
		return ""
	}
	return addr
}

// optionAddress reads a borsh Option<Pubkey>: a tag byte, then 32 bytes
// only when the tag is 1.
func (r *byteReader) optionAddress() string {
	if r.u8() == 0 {
		return ""
	}
	return r.address()
}

func checkDisc(data []byte, want [8]byte, what string) error {
	if len(data) < 8 {
		return fmt.Errorf("%w: %s shorter than discriminator", ErrBadAccountData, what)
	}
	var got [8]byte
	copy(got[:], data[:8])
	if got != want {
		return fmt.Errorf("%w: %s discriminator mismatch", ErrBadAccountData, what)
	}
	return nil
}

// DecodeGameState decodes a game account's raw data into a snapshot.
func DecodeGameState(data []byte) (*game.GameSnapshot, error) {
	if err := checkDisc(data, gameStateDisc, "game state"); err != nil {
		return nil, err
	}
	r := &byteReader{buf: data, off: 8}
	s := &game.GameSnapshot{
		Round:       r.u64(),
		PotLamports: r.u64(),
		TimerEnd:    r.i64(),
		LastBuyer:   r.address(),
		TotalKeys:   r.u64(),
		RoundStart:  r.i64(),
	}
	s.Active = r.boolean()
	s.WinnerClaimed = r.boolean()
	s.TotalPlayers = r.u32()
	s.DividendPool = r.u64()
	s.NextRoundPot = r.u64()
	s.WinnerPot = r.u64()
	s.Config = game.RoundConfig{
		BasePriceLamports:      r.u64(),
		PriceIncrementLamports: r.u64(),
		TimerExtensionSecs:     r.i64(),
		MaxTimerSecs:           r.i64(),
		WinnerBps:              r.u64(),
		DividendBps:            r.u64(),
		NextRoundBps:           r.u64(),
		ProtocolFeeBps:         r.u64(),
		ReferralBonusBps:       r.u64(),
		ProtocolWallet:         r.address(),
	}
	_ = r.u8() // bump
	if r.err != nil {
		return nil, r.err
	}
	if err := s.Validate(); err != nil {
		return nil, err
	}
	return s, nil
}

// DecodePlayerState decodes a player account. The program stores referral
// earnings as an unclaimed residue (zeroed on claim); the record exposes
// cumulative earned, so claimed is folded back in here.
func DecodePlayerState(data []byte) (*game.PlayerRecord, error) {
	if err := checkDisc(data, playerStateDisc, "player state"); err != nil {
		return nil, err
	}
	r := &byteReader{buf: data, off: 8}
	rec := &game.PlayerRecord{
		Owner:                    r.address(),
		Keys:                     r.u64(),
		Round:                    r.u64(),
		ClaimedDividendsLamports: r.u64(),
		Referrer:                 r.optionAddress(),
	}
	unclaimed := r.u64()
	rec.ClaimedReferralEarnings = r.u64()
	rec.ReferralEarnings = unclaimed + rec.ClaimedReferralEarnings
	rec.IsAgent = r.boolean()
	_ = r.u8() // bump
	if r.err != nil {
		return nil, r.err
	}
	return rec, nil
}

// DecodeEvent decodes one Anchor event payload (discriminator included)
// into a raw ledger event. Unknown discriminators report false.
func DecodeEvent(data []byte, txSignature string) (events.Raw, bool, error) {
	if len(data) < 8 {
		return events.Raw{}, false, nil
	}
	var disc [8]byte
	copy(disc[:], data[:8])
	r := &byteReader{buf: data, off: 8}
	raw := events.Raw{TxSignature: txSignature}

	switch disc {
	case keysPurchasedDisc:
		raw.Kind = events.RawKeysPurchased
		raw.Round = r.u64()
		raw.Player = r.address()
		_ = r.boolean() // is_agent
		raw.KeysBought = r.u64()
		_ = r.u64() // total_player_keys
		raw.LamportsSpent = r.u64()
		_ = r.u64() // pot_contribution
		raw.Timestamp = r.i64()
	case claimedDisc:
		raw.Kind = events.RawClaimed
		raw.Round = r.u64()
		raw.Player = r.address()
		raw.DividendLamports = r.u64()
		raw.WinnerLamports = r.u64()
		_ = r.u64() // total
		raw.Timestamp = r.i64()
	case roundStartedDisc:
		raw.Kind = events.RawRoundStarted
		raw.Round = r.u64()
		raw.CarryOverLamports = r.u64()
		_ = r.i64() // timer_end
		_ = r.u64() // base_price
		_ = r.u64() // price_increment
		raw.Timestamp = r.i64()
	case referralEarnedDisc:
		raw.Kind = events.RawReferralEarned
		raw.Round = r.u64()
		raw.Player = r.address()
		_ = r.address() // referrer
		raw.KeysBought = r.u64()
		raw.LamportsSpent = r.u64()
		_ = r.u64() // referrer_lamports
		raw.Timestamp = r.i64()
	case referralClaimedDisc:
		raw.Kind = events.RawReferralClaimed
		raw.Round = r.u64()
		raw.Player = r.address()
		raw.LamportsSpent = r.u64()
		raw.Timestamp = r.i64()
	case gameUpdatedDisc:
		raw.Kind = events.RawGameUpdated
		raw.Round = r.u64()
	case protocolFeeCollectedDisc:
		raw.Kind = events.RawProtocolFeeCollected
		raw.Round = r.u64()
	case roundConcludedDisc:
		raw.Kind = events.RawRoundConcluded
		raw.Round = r.u64()
		raw.Player = r.address() // winner
		raw.WinnerLamports = r.u64()
	default:
		return events.Raw{}, false, nil
	}
	if r.err != nil {
		return events.Raw{}, false, r.err
	}
	return raw, true, nil
}
