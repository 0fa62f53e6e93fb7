package money

import "errors"

var (
	// ErrInvalidAmount is returned when an amount cannot be parsed.
	ErrInvalidAmount = errors.New("invalid amount")

	// ErrNegativeAmount is returned when an operation requires a non-negative amount.
	ErrNegativeAmount = errors.New("amount cannot be negative")
)
