package domain

import "errors"

var (
	// ErrNegativeAmount rejects spend events with a negative amount.
	ErrNegativeAmount = errors.New("spend amount must not be negative")
	// ErrUnknownSpendType rejects spend events whose type is not one of
	// the declared SpendType values.
	ErrUnknownSpendType = errors.New("unknown spend type")
	// ErrUnknownSpendSource rejects spend events whose source is not one
	// of the declared SpendSource values.
	ErrUnknownSpendSource = errors.New("unknown spend source")
	// ErrMalformedWindow rejects dayparting windows with no allowed days
	// or out-of-range bounds.
	ErrMalformedWindow = errors.New("malformed dayparting window")
	// ErrImmutableRecord signals an attempt to change a sealed ledger
	// field. Only the description of a spend record may be updated.
	ErrImmutableRecord = errors.New("spend record is immutable, only the description can be updated")
)
