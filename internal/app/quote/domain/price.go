package domain

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
)

// OnRequestSentinel is the wire representation of a price that must be quoted manually.
const OnRequestSentinel = "ON_REQUEST"

// Price is a tagged union: either a numeric amount or "on request".
// The zero value is an unset price and is neither.
type Price struct {
	amount    *Money
	onRequest bool
}

// NumericPrice creates a price carrying a fixed amount.
func NumericPrice(amount *Money) Price {
	return Price{amount: amount.Copy()}
}

// OnRequestPrice creates the "no fixed price" variant.
func OnRequestPrice() Price {
	return Price{onRequest: true}
}

// IsOnRequest reports whether the price must be supplied manually.
func (p Price) IsOnRequest() bool { return p.onRequest }

// IsNumeric reports whether the price carries a fixed amount.
func (p Price) IsNumeric() bool { return !p.onRequest && p.amount != nil }

// IsSet reports whether the price is either variant.
func (p Price) IsSet() bool { return p.onRequest || p.amount != nil }

// Amount returns the numeric amount; ok is false for on-request or unset prices.
func (p Price) Amount() (*Money, bool) {
	if !p.IsNumeric() {
		return nil, false
	}
	return p.amount.Copy(), true
}

// Equals compares two prices variant-first.
func (p Price) Equals(other Price) bool {
	if p.onRequest || other.onRequest {
		return p.onRequest == other.onRequest
	}
	return p.amount.Equals(other.amount)
}

func (p Price) String() string {
	switch {
	case p.onRequest:
		return OnRequestSentinel
	case p.amount != nil:
		return p.amount.String()
	default:
		return ""
	}
}

// MarshalJSON encodes a numeric price as a number and the on-request variant as "ON_REQUEST".
func (p Price) MarshalJSON() ([]byte, error) {
	switch {
	case p.onRequest:
		return json.Marshal(OnRequestSentinel)
	case p.amount != nil:
		return p.amount.MarshalJSON()
	default:
		return []byte("null"), nil
	}
}

// UnmarshalJSON accepts a number, a numeric string, "ON_REQUEST" or null.
func (p *Price) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*p = Price{}
		return nil
	}

	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		parsed, err := ParsePrice(s)
		if err != nil {
			return err
		}
		*p = parsed
		return nil
	}

	var m Money
	if err := m.UnmarshalJSON(data); err != nil {
		return fmt.Errorf("invalid price: %w", err)
	}
	*p = NumericPrice(&m)
	return nil
}

// ParsePrice reads "ON_REQUEST" (any case) or a decimal amount. An empty string is an unset price.
func ParsePrice(s string) (Price, error) {
	s = strings.TrimSpace(s)
	switch {
	case s == "":
		return Price{}, nil
	case strings.EqualFold(s, OnRequestSentinel):
		return OnRequestPrice(), nil
	}
	m, err := NewMoneyFromString(s)
	if err != nil {
		return Price{}, fmt.Errorf("invalid price: %w", err)
	}
	return NumericPrice(m), nil
}
