// Package money provides the monetary value used by every account balance.
//
// It is a value object over an arbitrary precision decimal.
// Invariants:
//   - Money is immutable; every operation returns a new value.
//   - Arithmetic never rounds; amounts keep the precision they were created with.
//   - There is no currency: every account in the simulation shares one unit.
package money

import (
	"encoding/json"
	"fmt"

	"github.com/shopspring/decimal"
)

// Money represents a monetary amount.
type Money struct {
	amount decimal.Decimal
}

// Zero is the zero amount.
var Zero = Money{amount: decimal.Zero}

// New creates Money from a whole number of units.
func New(units int64) Money {
	return Money{amount: decimal.NewFromInt(units)}
}

// NewFromFloat creates Money from a float. NaN and infinities are rejected.
func NewFromFloat(amount float64) (Money, error) {
	d, err := decimal.NewFromString(fmt.Sprintf("%v", amount))
	if err != nil {
		return Money{}, fmt.Errorf("%w: %v", ErrInvalidAmount, amount)
	}
	return Money{amount: d}, nil
}

// NewFromString parses a decimal string such as "1400" or "280.50".
func NewFromString(s string) (Money, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return Money{}, fmt.Errorf("%w: %q", ErrInvalidAmount, s)
	}
	return Money{amount: d}, nil
}

// NewFromDecimal wraps an existing decimal.
func NewFromDecimal(d decimal.Decimal) Money {
	return Money{amount: d}
}

// Must parses s and panics on failure. Intended for constants and tests.
func Must(s string) Money {
	m, err := NewFromString(s)
	if err != nil {
		panic(fmt.Sprintf("money.Must(%q): %v", s, err))
	}
	return m
}

// Decimal returns the underlying decimal.
func (m Money) Decimal() decimal.Decimal {
	return m.amount
}

// Float64 returns the amount as a float64. Only suitable for display.
func (m Money) Float64() float64 {
	f, _ := m.amount.Float64()
	return f
}

// Add returns m + other.
func (m Money) Add(other Money) Money {
	return Money{amount: m.amount.Add(other.amount)}
}

// Sub returns m - other. The result may be negative.
func (m Money) Sub(other Money) Money {
	return Money{amount: m.amount.Sub(other.amount)}
}

// Mul returns m scaled by factor.
func (m Money) Mul(factor decimal.Decimal) Money {
	return Money{amount: m.amount.Mul(factor)}
}

// MulInt returns m scaled by an integer factor.
func (m Money) MulInt(n int64) Money {
	return Money{amount: m.amount.Mul(decimal.NewFromInt(n))}
}

// Cmp compares m and other and returns -1, 0 or +1.
func (m Money) Cmp(other Money) int {
	return m.amount.Cmp(other.amount)
}

// Equals reports whether m and other are numerically equal ("1" equals "1.00").
func (m Money) Equals(other Money) bool {
	return m.amount.Equal(other.amount)
}

// GreaterThan reports whether m > other.
func (m Money) GreaterThan(other Money) bool {
	return m.amount.GreaterThan(other.amount)
}

// GreaterThanOrEqual reports whether m >= other.
func (m Money) GreaterThanOrEqual(other Money) bool {
	return m.amount.GreaterThanOrEqual(other.amount)
}

// LessThan reports whether m < other.
func (m Money) LessThan(other Money) bool {
	return m.amount.LessThan(other.amount)
}

// IsPositive returns true if the amount is greater than zero.
func (m Money) IsPositive() bool {
	return m.amount.IsPositive()
}

// IsNegative returns true if the amount is less than zero.
func (m Money) IsNegative() bool {
	return m.amount.IsNegative()
}

// IsZero returns true if the amount is zero.
func (m Money) IsZero() bool {
	return m.amount.IsZero()
}

// String formats the amount with two decimal places.
func (m Money) String() string {
	return m.amount.StringFixed(2)
}

// MarshalJSON implements json.Marshaler.
func (m Money) MarshalJSON() ([]byte, error) {
	return json.Marshal(m.amount.String())
}

// UnmarshalJSON implements json.Unmarshaler.
func (m *Money) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("%w: %s", ErrInvalidAmount, data)
	}
	parsed, err := NewFromString(s)
	if err != nil {
		return err
	}
	*m = parsed
	return nil
}

// Sum adds all amounts.
func Sum(amounts ...Money) Money {
	total := Zero
	for _, a := range amounts {
		total = total.Add(a)
	}
	return total
}

// Min returns the smallest of the given amounts, or Zero when none are given.
func Min(amounts ...Money) Money {
	if len(amounts) == 0 {
		return Zero
	}
	lowest := amounts[0]
	for _, a := range amounts[1:] {
		if a.LessThan(lowest) {
			lowest = a
		}
	}
	return lowest
}
