package domain

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// PeriodType selects how a pricing-matrix row matches an arrival date.
type PeriodType string

const (
	PeriodMonth   PeriodType = "month"
	PeriodSpecial PeriodType = "special"
)

// Tier is a named group-size bracket. Ranges across tiers may overlap or leave gaps.
type Tier struct {
	Label     string `json:"label"`
	MinPeople int    `json:"minPeople"`
	MaxPeople int    `json:"maxPeople"`
}

// Contains reports whether people falls inside [MinPeople, MaxPeople].
func (t Tier) Contains(people int) bool {
	return people >= t.MinPeople && people <= t.MaxPeople
}

// Distance is the absolute distance from people to the nearest bound, zero when contained.
func (t Tier) Distance(people int) int {
	switch {
	case people < t.MinPeople:
		return t.MinPeople - people
	case people > t.MaxPeople:
		return people - t.MaxPeople
	default:
		return 0
	}
}

// Range renders the bounds as "min-max".
func (t Tier) Range() string {
	return fmt.Sprintf("%d-%d", t.MinPeople, t.MaxPeople)
}

// PriceCell is one (tier, nights) price inside a period entry.
type PriceCell struct {
	TierIndex int   `json:"tierIndex"`
	Nights    int   `json:"nights"`
	Price     Price `json:"price"`
}

// PeriodEntry is a pricing-matrix row: a calendar month or an explicit special date range.
type PeriodEntry struct {
	PeriodLabel string      `json:"periodLabel"`
	PeriodType  PeriodType  `json:"periodType"`
	StartDate   *time.Time  `json:"startDate,omitempty"`
	EndDate     *time.Time  `json:"endDate,omitempty"`
	Prices      []PriceCell `json:"prices"`
}

// Covers reports whether date lies within [StartDate, EndDate], compared by calendar day.
// Month entries and special entries without both bounds cover nothing.
func (e PeriodEntry) Covers(date time.Time) bool {
	if e.PeriodType != PeriodSpecial || e.StartDate == nil || e.EndDate == nil {
		return false
	}
	d := DateOnly(date)
	return !d.Before(DateOnly(*e.StartDate)) && !d.After(DateOnly(*e.EndDate))
}

// MatchesMonth reports whether a month entry's label names the calendar month of date.
func (e PeriodEntry) MatchesMonth(date time.Time) bool {
	if e.PeriodType != PeriodMonth {
		return false
	}
	return strings.EqualFold(strings.TrimSpace(e.PeriodLabel), date.Month().String())
}

// Lookup returns the price for (tierIndex, nights) in this period.
func (e PeriodEntry) Lookup(tierIndex, nights int) (Price, bool) {
	for _, cell := range e.Prices {
		if cell.TierIndex == tierIndex && cell.Nights == nights {
			return cell.Price, true
		}
	}
	return Price{}, false
}

// DateRange renders the special period bounds as "YYYY-MM-DD to YYYY-MM-DD".
func (e PeriodEntry) DateRange() string {
	if e.StartDate == nil || e.EndDate == nil {
		return ""
	}
	return fmt.Sprintf("%s to %s", e.StartDate.Format(DateLayout), e.EndDate.Format(DateLayout))
}

// Package is a holiday package as published by the package-management collaborator.
// The pricing engine only ever reads it.
type Package struct {
	ID              string        `json:"id"`
	Name            string        `json:"name"`
	Version         int64         `json:"version"`
	Archived        bool          `json:"archived"`
	GroupSizeTiers  []Tier        `json:"groupSizeTiers"`
	DurationOptions []int         `json:"durationOptions"`
	PricingMatrix   []PeriodEntry `json:"pricingMatrix"`
}

// OffersDuration reports whether nights is one of the package's duration options.
func (p *Package) OffersDuration(nights int) bool {
	for _, n := range p.DurationOptions {
		if n == nights {
			return true
		}
	}
	return false
}

// Validate reports structural problems in the pricing matrix. Overlapping tiers are allowed.
func (p *Package) Validate() error {
	var errs []error

	for i, tier := range p.GroupSizeTiers {
		if tier.MinPeople > tier.MaxPeople {
			errs = append(errs, fmt.Errorf("tier %d (%s): min %d exceeds max %d", i, tier.Label, tier.MinPeople, tier.MaxPeople))
		}
	}

	for _, entry := range p.PricingMatrix {
		switch entry.PeriodType {
		case PeriodMonth:
		case PeriodSpecial:
			if entry.StartDate == nil || entry.EndDate == nil {
				errs = append(errs, fmt.Errorf("period %q: special period needs start and end dates", entry.PeriodLabel))
			} else if entry.EndDate.Before(*entry.StartDate) {
				errs = append(errs, fmt.Errorf("period %q: end date before start date", entry.PeriodLabel))
			}
		default:
			errs = append(errs, fmt.Errorf("period %q: unknown period type %q", entry.PeriodLabel, entry.PeriodType))
		}

		seen := make(map[[2]int]bool, len(entry.Prices))
		for _, cell := range entry.Prices {
			key := [2]int{cell.TierIndex, cell.Nights}
			if seen[key] {
				errs = append(errs, fmt.Errorf("period %q: duplicate price for tier %d, %d nights", entry.PeriodLabel, cell.TierIndex, cell.Nights))
			}
			seen[key] = true

			if cell.TierIndex < 0 || cell.TierIndex >= len(p.GroupSizeTiers) {
				errs = append(errs, fmt.Errorf("period %q: tier index %d out of range", entry.PeriodLabel, cell.TierIndex))
			}
			if amount, ok := cell.Price.Amount(); ok && amount.IsNegative() {
				errs = append(errs, fmt.Errorf("period %q: negative price for tier %d, %d nights", entry.PeriodLabel, cell.TierIndex, cell.Nights))
			}
		}
	}

	if len(errs) == 0 {
		return nil
	}
	return fmt.Errorf("%w: %w", ErrInvalidPackage, errors.Join(errs...))
}

// DateLayout is the calendar-date format used on the wire and in warnings.
const DateLayout = "2006-01-02"

// DateOnly truncates t to its calendar day in UTC.
func DateOnly(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
