package domain

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/light-bringer/quote-pricing-service/internal/pkg/clock"
)

// PriceChangeReason explains why a quote's total price moved.
type PriceChangeReason string

const (
	ReasonPackageSelection PriceChangeReason = "package_selection"
	ReasonRecalculation    PriceChangeReason = "recalculation"
	ReasonManualOverride   PriceChangeReason = "manual_override"
	ReasonEventAdded       PriceChangeReason = "event_added"
	ReasonEventRemoved     PriceChangeReason = "event_removed"
)

// Valid reports whether r is a known reason.
func (r PriceChangeReason) Valid() bool {
	switch r {
	case ReasonPackageSelection, ReasonRecalculation, ReasonManualOverride, ReasonEventAdded, ReasonEventRemoved:
		return true
	}
	return false
}

// PriceHistoryEntry is one immutable row of a quote's price audit log.
type PriceHistoryEntry struct {
	ID        string
	Price     *Money
	Reason    PriceChangeReason
	Timestamp time.Time
	UserID    string
}

// PriceHistoryTracker appends entries to a quote's price history.
// It never edits or removes an existing entry.
type PriceHistoryTracker struct {
	clock clock.Clock
	newID func() string
}

// NewPriceHistoryTracker creates a tracker stamping entries with clk.
func NewPriceHistoryTracker(clk clock.Clock) *PriceHistoryTracker {
	return &PriceHistoryTracker{
		clock: clk,
		newID: func() string { return uuid.New().String() },
	}
}

// Append pushes {price, reason, now, userID} onto the quote's history.
// The price must equal the quote's current total, which keeps the newest entry
// in step with the displayed price.
func (t *PriceHistoryTracker) Append(q *Quote, price *Money, reason PriceChangeReason, userID string) (PriceHistoryEntry, error) {
	if price == nil || price.IsNegative() {
		return PriceHistoryEntry{}, ErrInvalidPrice
	}
	if !reason.Valid() {
		return PriceHistoryEntry{}, fmt.Errorf("unknown price change reason %q", reason)
	}
	if userID == "" {
		return PriceHistoryEntry{}, ErrEmptyUserID
	}
	if !price.Equals(q.totalPrice) {
		return PriceHistoryEntry{}, fmt.Errorf("history price %s does not match quote total %v", price, q.totalPrice)
	}

	entry := PriceHistoryEntry{
		ID:        t.newID(),
		Price:     price.Copy(),
		Reason:    reason,
		Timestamp: t.clock.Now(),
		UserID:    userID,
	}
	q.priceHistory = append(q.priceHistory, entry)
	return entry, nil
}
