package plan

import "errors"

var (
	ErrNoSnapshot   = errors.New("no_snapshot")
	ErrSelfReferral = errors.New("self_referral")
)
