package domain

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// Money represents a currency-less monetary amount with exact decimal arithmetic.
// The currency lives on the quote; Money never converts between currencies.
type Money struct {
	amount decimal.Decimal
}

// NewMoney creates a new Money instance from numerator and denominator.
// Example: NewMoney(249900, 100) represents 2499.00
func NewMoney(numerator, denominator int64) (*Money, error) {
	if denominator == 0 {
		return nil, fmt.Errorf("denominator cannot be zero")
	}
	amount := decimal.NewFromInt(numerator).Div(decimal.NewFromInt(denominator))
	return &Money{amount: amount}, nil
}

// NewMoneyFromInt creates a whole-unit amount.
func NewMoneyFromInt(units int64) *Money {
	return &Money{amount: decimal.NewFromInt(units)}
}

// NewMoneyFromString parses a decimal string such as "1499.50".
func NewMoneyFromString(s string) (*Money, error) {
	amount, err := decimal.NewFromString(s)
	if err != nil {
		return nil, fmt.Errorf("invalid amount %q: %w", s, err)
	}
	return &Money{amount: amount}, nil
}

// NewMoneyFromDecimal wraps a decimal value.
func NewMoneyFromDecimal(d decimal.Decimal) *Money {
	return &Money{amount: d}
}

// Zero returns a zero amount.
func Zero() *Money {
	return &Money{amount: decimal.Zero}
}

// Decimal returns the underlying decimal value.
func (m *Money) Decimal() decimal.Decimal {
	return m.amount
}

// Add adds two Money values and returns a new Money instance.
func (m *Money) Add(other *Money) *Money {
	return &Money{amount: m.amount.Add(other.amount)}
}

// Subtract subtracts another Money value from this one and returns a new Money instance.
func (m *Money) Subtract(other *Money) *Money {
	return &Money{amount: m.amount.Sub(other.amount)}
}

// IsZero returns true if the money value is zero.
func (m *Money) IsZero() bool {
	return m.amount.IsZero()
}

// IsNegative returns true if the money value is negative.
func (m *Money) IsNegative() bool {
	return m.amount.IsNegative()
}

// IsPositive returns true if the money value is positive.
func (m *Money) IsPositive() bool {
	return m.amount.IsPositive()
}

// LessThan returns true if this Money value is less than another.
func (m *Money) LessThan(other *Money) bool {
	return m.amount.LessThan(other.amount)
}

// GreaterThan returns true if this Money value is greater than another.
func (m *Money) GreaterThan(other *Money) bool {
	return m.amount.GreaterThan(other.amount)
}

// Equals returns true if this Money value equals another.
func (m *Money) Equals(other *Money) bool {
	if m == nil || other == nil {
		return m == nil && other == nil
	}
	return m.amount.Equal(other.amount)
}

// Float64 returns an approximate float64 representation (for display only, not calculations).
func (m *Money) Float64() float64 {
	f, _ := m.amount.Float64()
	return f
}

// String returns the amount with two decimal places.
func (m *Money) String() string {
	return m.amount.StringFixed(2)
}

// Copy creates a copy of this Money instance.
func (m *Money) Copy() *Money {
	if m == nil {
		return nil
	}
	return &Money{amount: m.amount}
}

// MarshalJSON encodes the amount as a bare JSON number.
func (m Money) MarshalJSON() ([]byte, error) {
	return []byte(m.amount.String()), nil
}

// UnmarshalJSON accepts both JSON numbers and numeric strings.
func (m *Money) UnmarshalJSON(data []byte) error {
	return m.amount.UnmarshalJSON(data)
}
