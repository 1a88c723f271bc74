package public

import "errors"

var (
	ErrInvalidRequest = errors.New("invalid_request")
	ErrNoRound        = errors.New("no_round")
)
