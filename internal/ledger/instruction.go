package ledger

import (
	"encoding/binary"
	"fmt"

	"fomolt3d-engine/internal/game"
	"fomolt3d-engine/internal/plan"
)

// Instruction method discriminators, sha256("global:<name>")[:8].
var (
	buyKeysIxDisc       = discriminator("global", "buy_keys")
	claimIxDisc         = discriminator("global", "claim")
	claimReferralIxDisc = discriminator("global", "claim_referral_earnings")
)

// Instruction is one unsigned program call. Data carries the method
// discriminator plus borsh-encoded args; the signer resolves accounts
// from Round and Referrer and submits.
type Instruction struct {
	ProgramID string `json:"program_id"`
	Method    string `json:"method"`
	Data      []byte `json:"data"`
	Round     uint64 `json:"round"`
	Referrer  string `json:"referrer,omitempty"`
}

// Bundle is an ordered list of instructions forming one transaction,
// ready for an external signer. Nothing here signs or submits.
type Bundle struct {
	FeePayer     string        `json:"fee_payer"`
	Instructions []Instruction `json:"instructions"`
}

// Encoder turns planned ops into instruction bundles for one program.
type Encoder struct {
	programID string
}

func NewEncoder(programID string) (*Encoder, error) {
	if err := game.ValidateAddress(programID); err != nil {
		return nil, fmt.Errorf("program id: %w", err)
	}
	return &Encoder{programID: programID}, nil
}

// Encode serializes a plan into a bundle paid for by feePayer. Op order
// is preserved: a settle must land before the buy it unblocks.
func (e *Encoder) Encode(feePayer string, ops []plan.Op) (*Bundle, error) {
	if err := game.ValidateAddress(feePayer); err != nil {
		return nil, fmt.Errorf("fee payer: %w", err)
	}
	if len(ops) == 0 {
		return nil, fmt.Errorf("empty plan")
	}
	bundle := &Bundle{
		FeePayer:     feePayer,
		Instructions: make([]Instruction, 0, len(ops)),
	}
	for _, op := range ops {
		ix, err := e.encodeOp(op)
		if err != nil {
			return nil, err
		}
		bundle.Instructions = append(bundle.Instructions, ix)
	}
	return bundle, nil
}

func (e *Encoder) encodeOp(op plan.Op) (Instruction, error) {
	ix := Instruction{ProgramID: e.programID, Round: op.Round}
	switch op.Kind {
	case plan.OpRegister:
		// Registration is a zero-key purchase; the program creates the
		// player account if absent.
		ix.Method = "buy_keys"
		ix.Data = buyKeysData(0, op.IsAgent)
		ix.Referrer = op.Referrer
	case plan.OpBuyKeys:
		ix.Method = "buy_keys"
		ix.Data = buyKeysData(op.Keys, op.IsAgent)
		ix.Referrer = op.Referrer
	case plan.OpSettlePrevious, plan.OpClaim:
		// Settling a stale round and claiming the current one are the
		// same program call against different round accounts.
		ix.Method = "claim"
		ix.Data = claimIxDisc[:]
	case plan.OpClaimReferral:
		ix.Method = "claim_referral_earnings"
		ix.Data = claimReferralIxDisc[:]
	default:
		return Instruction{}, fmt.Errorf("unknown op kind %q", op.Kind)
	}
	return ix, nil
}

func buyKeysData(keys uint64, isAgent bool) []byte {
	data := make([]byte, 0, 8+8+1)
	data = append(data, buyKeysIxDisc[:]...)
	data = binary.LittleEndian.AppendUint64(data, keys)
	if isAgent {
		data = append(data, 1)
	} else {
		data = append(data, 0)
	}
	return data
}
