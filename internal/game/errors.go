package game

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidAddress = errors.New("invalid_address")
	ErrInvalidAmount  = errors.New("invalid_amount")
	ErrOverflow       = errors.New("overflow")
)

// IntegrityError reports a mismatch between ledger-observed state and the
// program's documented invariants: negative net referral earnings, bps
// splits off 10000, timers before round start. These are never expected
// in normal operation and must not be silently corrected.
type IntegrityError struct {
	Field  string
	Detail string
}

func (e *IntegrityError) Error() string {
	return fmt.Sprintf("ledger integrity fault: %s: %s", e.Field, e.Detail)
}
