package domain

import (
	"fmt"
	"time"
)

// Resolution is the outcome of resolving quote parameters against a package pricing matrix.
type Resolution struct {
	TierIndex   int
	TierLabel   string
	PeriodLabel string
	PeriodType  PeriodType
	PeriodStart *time.Time
	PeriodEnd   *time.Time
	Nights      int
	Price       Price

	// Set when the selection fell back to the nearest tier or duration.
	TierApproximate     bool
	DurationApproximate bool
}

// Resolver resolves a price from a package's tier × duration × period matrix.
//
// Tier selection is declaration-order first: overlapping tiers are not an error, the
// earliest declared tier containing the group size wins. Outside every tier the
// closest tier is chosen and flagged. In strict mode approximations are rejected
// instead of flagged.
type Resolver struct {
	strict bool
}

// NewResolver creates a resolver that approximates tier and duration.
func NewResolver() *Resolver {
	return &Resolver{}
}

// WithStrictMode enables strict mode (fails instead of approximating).
func (r *Resolver) WithStrictMode(strict bool) *Resolver {
	r.strict = strict
	return r
}

var defaultResolver = NewResolver()

// Resolve resolves params against pkg with the default (approximating) resolver.
func Resolve(pkg *Package, params Params) (*Resolution, error) {
	return defaultResolver.Resolve(pkg, params)
}

// Resolve looks up the price for params. It performs no I/O and has no side effects.
func (r *Resolver) Resolve(pkg *Package, params Params) (*Resolution, error) {
	tierIndex, tierApprox, err := r.selectTier(pkg.GroupSizeTiers, params.NumberOfPeople)
	if err != nil {
		return nil, err
	}

	nights, durationApprox, err := r.selectNights(pkg.DurationOptions, params.NumberOfNights)
	if err != nil {
		return nil, err
	}

	period, err := selectPeriod(pkg.PricingMatrix, params.ArrivalDate)
	if err != nil {
		return nil, err
	}

	price, ok := period.Lookup(tierIndex, nights)
	if !ok || !price.IsSet() {
		return nil, fmt.Errorf("%w: tier %q, %d nights, period %q",
			ErrPriceNotFound, pkg.GroupSizeTiers[tierIndex].Label, nights, period.PeriodLabel)
	}

	return &Resolution{
		TierIndex:           tierIndex,
		TierLabel:           pkg.GroupSizeTiers[tierIndex].Label,
		PeriodLabel:         period.PeriodLabel,
		PeriodType:          period.PeriodType,
		PeriodStart:         period.StartDate,
		PeriodEnd:           period.EndDate,
		Nights:              nights,
		Price:               price,
		TierApproximate:     tierApprox,
		DurationApproximate: durationApprox,
	}, nil
}

// selectTier returns the first containing tier, or the nearest one flagged as approximate.
func (r *Resolver) selectTier(tiers []Tier, people int) (int, bool, error) {
	if len(tiers) == 0 {
		return 0, false, ErrNoTiersDefined
	}

	for i, tier := range tiers {
		if tier.Contains(people) {
			return i, false, nil
		}
	}

	if r.strict {
		return 0, false, fmt.Errorf("%w: %d people", ErrTierOutOfRange, people)
	}

	best := 0
	for i := 1; i < len(tiers); i++ {
		// strict less-than keeps the earliest declared tier on ties
		if tiers[i].Distance(people) < tiers[best].Distance(people) {
			best = i
		}
	}
	return best, true, nil
}

// selectNights returns nights itself when offered, else the nearest option (smaller on ties).
// A package without duration options constrains nothing.
func (r *Resolver) selectNights(options []int, nights int) (int, bool, error) {
	if len(options) == 0 {
		return nights, false, nil
	}

	for _, n := range options {
		if n == nights {
			return nights, false, nil
		}
	}

	if r.strict {
		return 0, false, fmt.Errorf("%w: %d nights", ErrDurationNotOffered, nights)
	}

	best := options[0]
	for _, n := range options[1:] {
		d, bestD := absInt(n-nights), absInt(best-nights)
		if d < bestD || (d == bestD && n < best) {
			best = n
		}
	}
	return best, true, nil
}

// selectPeriod prefers the first declared special period covering arrival, then the month entry.
func selectPeriod(matrix []PeriodEntry, arrival time.Time) (*PeriodEntry, error) {
	for i := range matrix {
		if matrix[i].Covers(arrival) {
			return &matrix[i], nil
		}
	}

	for i := range matrix {
		if matrix[i].MatchesMonth(arrival) {
			return &matrix[i], nil
		}
	}

	return nil, fmt.Errorf("%w: %s", ErrNoPeriodMatch, arrival.Format(DateLayout))
}

func absInt(n int) int {
	if n < 0 {
		return -n
	}
	return n
}
