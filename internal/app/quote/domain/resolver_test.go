package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func datePtr(y int, m time.Month, d int) *time.Time {
	t := date(y, m, d)
	return &t
}

func money(units int64) *Money {
	return NewMoneyFromInt(units)
}

// junePackage is a single-tier package priced only for June.
func junePackage() *Package {
	return &Package{
		ID:              "pkg-1",
		Name:            "Crete Explorer",
		Version:         1,
		GroupSizeTiers:  []Tier{{Label: "10-15", MinPeople: 10, MaxPeople: 15}},
		DurationOptions: []int{3, 5, 7},
		PricingMatrix: []PeriodEntry{
			{
				PeriodLabel: "June",
				PeriodType:  PeriodMonth,
				Prices: []PriceCell{
					{TierIndex: 0, Nights: 3, Price: NumericPrice(money(900))},
					{TierIndex: 0, Nights: 5, Price: NumericPrice(money(1500))},
					{TierIndex: 0, Nights: 7, Price: NumericPrice(money(2000))},
				},
			},
		},
	}
}

func TestResolve_ExactMatch(t *testing.T) {
	pkg := junePackage()
	params := Params{NumberOfPeople: 12, NumberOfNights: 5, ArrivalDate: date(2024, 6, 10)}

	res, err := Resolve(pkg, params)
	require.NoError(t, err)

	amount, ok := res.Price.Amount()
	require.True(t, ok)
	assert.True(t, amount.Equals(money(1500)))
	assert.Equal(t, 0, res.TierIndex)
	assert.Equal(t, "10-15", res.TierLabel)
	assert.Equal(t, "June", res.PeriodLabel)
	assert.Equal(t, 5, res.Nights)
	assert.False(t, res.TierApproximate)
	assert.False(t, res.DurationApproximate)
	assert.Empty(t, Advise(pkg, params, res))
}

func TestResolve_TierSelection(t *testing.T) {
	t.Run("people below every tier picks nearest and flags it", func(t *testing.T) {
		pkg := junePackage()
		params := Params{NumberOfPeople: 8, NumberOfNights: 5, ArrivalDate: date(2024, 6, 10)}

		res, err := Resolve(pkg, params)
		require.NoError(t, err)
		assert.Equal(t, 0, res.TierIndex)
		assert.True(t, res.TierApproximate)

		warnings := Advise(pkg, params, res)
		require.Len(t, warnings, 1)
		assert.Equal(t, WarningPeopleOutsideTier, warnings[0].Code)
		assert.Contains(t, warnings[0].Message, "10-15")
	})

	t.Run("overlapping tiers resolve to the first declared", func(t *testing.T) {
		pkg := junePackage()
		pkg.GroupSizeTiers = []Tier{
			{Label: "small", MinPeople: 1, MaxPeople: 10},
			{Label: "medium", MinPeople: 8, MaxPeople: 20},
		}
		pkg.PricingMatrix[0].Prices = []PriceCell{
			{TierIndex: 0, Nights: 5, Price: NumericPrice(money(1000))},
			{TierIndex: 1, Nights: 5, Price: NumericPrice(money(800))},
		}

		res, err := Resolve(pkg, Params{NumberOfPeople: 9, NumberOfNights: 5, ArrivalDate: date(2024, 6, 1)})
		require.NoError(t, err)
		assert.Equal(t, "small", res.TierLabel)
		assert.False(t, res.TierApproximate)
	})

	t.Run("equidistant gap tiers break ties by declaration order", func(t *testing.T) {
		pkg := junePackage()
		pkg.GroupSizeTiers = []Tier{
			{Label: "low", MinPeople: 1, MaxPeople: 4},
			{Label: "high", MinPeople: 8, MaxPeople: 12},
		}
		pkg.PricingMatrix[0].Prices = []PriceCell{
			{TierIndex: 0, Nights: 5, Price: NumericPrice(money(500))},
			{TierIndex: 1, Nights: 5, Price: NumericPrice(money(700))},
		}

		res, err := Resolve(pkg, Params{NumberOfPeople: 6, NumberOfNights: 5, ArrivalDate: date(2024, 6, 1)})
		require.NoError(t, err)
		assert.Equal(t, "low", res.TierLabel)
		assert.True(t, res.TierApproximate)
	})

	t.Run("no tiers", func(t *testing.T) {
		pkg := junePackage()
		pkg.GroupSizeTiers = nil

		_, err := Resolve(pkg, Params{NumberOfPeople: 6, NumberOfNights: 5, ArrivalDate: date(2024, 6, 1)})
		assert.ErrorIs(t, err, ErrNoTiersDefined)
		assert.Equal(t, CodeNoTiersDefined, ErrorCode(err))
	})
}

func TestResolve_DurationSelection(t *testing.T) {
	pkg := junePackage()

	tests := []struct {
		name   string
		nights int
		want   int
		approx bool
	}{
		{name: "offered", nights: 7, want: 7},
		{name: "tie between 5 and 7 prefers 5", nights: 6, want: 5, approx: true},
		{name: "tie between 3 and 5 prefers 3", nights: 4, want: 3, approx: true},
		{name: "below all", nights: 1, want: 3, approx: true},
		{name: "above all", nights: 14, want: 7, approx: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := Resolve(pkg, Params{NumberOfPeople: 12, NumberOfNights: tt.nights, ArrivalDate: date(2024, 6, 10)})
			require.NoError(t, err)
			assert.Equal(t, tt.want, res.Nights)
			assert.Equal(t, tt.approx, res.DurationApproximate)
		})
	}

	t.Run("advisor names the offered durations", func(t *testing.T) {
		params := Params{NumberOfPeople: 12, NumberOfNights: 4, ArrivalDate: date(2024, 6, 10)}
		res, err := Resolve(pkg, params)
		require.NoError(t, err)

		warnings := Advise(pkg, params, res)
		require.Len(t, warnings, 1)
		assert.Equal(t, WarningDurationNotOffered, warnings[0].Code)
		assert.Contains(t, warnings[0].Message, "3, 5, 7")
	})

	t.Run("no duration options uses requested nights", func(t *testing.T) {
		pkg := junePackage()
		pkg.DurationOptions = nil

		res, err := Resolve(pkg, Params{NumberOfPeople: 12, NumberOfNights: 5, ArrivalDate: date(2024, 6, 10)})
		require.NoError(t, err)
		assert.Equal(t, 5, res.Nights)
		assert.False(t, res.DurationApproximate)
	})
}

func TestResolve_PeriodSelection(t *testing.T) {
	newPackage := func() *Package {
		pkg := junePackage()
		pkg.PricingMatrix = append(pkg.PricingMatrix,
			PeriodEntry{
				PeriodLabel: "Midsummer",
				PeriodType:  PeriodSpecial,
				StartDate:   datePtr(2024, 6, 15),
				EndDate:     datePtr(2024, 6, 25),
				Prices:      []PriceCell{{TierIndex: 0, Nights: 5, Price: NumericPrice(money(1800))}},
			},
			PeriodEntry{
				PeriodLabel: "Solstice",
				PeriodType:  PeriodSpecial,
				StartDate:   datePtr(2024, 6, 20),
				EndDate:     datePtr(2024, 6, 22),
				Prices:      []PriceCell{{TierIndex: 0, Nights: 5, Price: NumericPrice(money(2500))}},
			},
		)
		return pkg
	}

	tests := []struct {
		name    string
		arrival time.Time
		period  string
	}{
		{name: "month when no special covers", arrival: date(2024, 6, 10), period: "June"},
		{name: "special wins over month", arrival: date(2024, 6, 16), period: "Midsummer"},
		{name: "start bound inclusive", arrival: date(2024, 6, 15), period: "Midsummer"},
		{name: "end bound inclusive", arrival: time.Date(2024, 6, 25, 18, 30, 0, 0, time.UTC), period: "Midsummer"},
		{name: "overlapping specials take first declared", arrival: date(2024, 6, 21), period: "Midsummer"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := Resolve(newPackage(), Params{NumberOfPeople: 12, NumberOfNights: 5, ArrivalDate: tt.arrival})
			require.NoError(t, err)
			assert.Equal(t, tt.period, res.PeriodLabel)
		})
	}

	t.Run("month label matched case-insensitively", func(t *testing.T) {
		pkg := junePackage()
		pkg.PricingMatrix[0].PeriodLabel = "JUNE"

		res, err := Resolve(pkg, Params{NumberOfPeople: 12, NumberOfNights: 5, ArrivalDate: date(2024, 6, 10)})
		require.NoError(t, err)
		assert.Equal(t, "JUNE", res.PeriodLabel)
	})

	t.Run("no period matches", func(t *testing.T) {
		_, err := Resolve(newPackage(), Params{NumberOfPeople: 12, NumberOfNights: 5, ArrivalDate: date(2024, 8, 1)})
		assert.ErrorIs(t, err, ErrNoPeriodMatch)
		assert.True(t, IsResolutionError(err))
		assert.False(t, IsRetryable(err))
	})
}

func TestResolve_PriceLookup(t *testing.T) {
	t.Run("missing cell", func(t *testing.T) {
		pkg := junePackage()
		pkg.DurationOptions = nil

		_, err := Resolve(pkg, Params{NumberOfPeople: 12, NumberOfNights: 4, ArrivalDate: date(2024, 6, 10)})
		assert.ErrorIs(t, err, ErrPriceNotFound)
		assert.Equal(t, CodePriceNotFound, ErrorCode(err))
	})

	t.Run("on request is a valid result", func(t *testing.T) {
		pkg := junePackage()
		pkg.PricingMatrix[0].Prices[1].Price = OnRequestPrice()

		res, err := Resolve(pkg, Params{NumberOfPeople: 12, NumberOfNights: 5, ArrivalDate: date(2024, 6, 10)})
		require.NoError(t, err)
		assert.True(t, res.Price.IsOnRequest())
		_, ok := res.Price.Amount()
		assert.False(t, ok)
	})
}

func TestResolver_StrictMode(t *testing.T) {
	strict := NewResolver().WithStrictMode(true)

	t.Run("rejects people outside every tier", func(t *testing.T) {
		_, err := strict.Resolve(junePackage(), Params{NumberOfPeople: 8, NumberOfNights: 5, ArrivalDate: date(2024, 6, 10)})
		assert.ErrorIs(t, err, ErrTierOutOfRange)
	})

	t.Run("rejects nights not offered", func(t *testing.T) {
		_, err := strict.Resolve(junePackage(), Params{NumberOfPeople: 12, NumberOfNights: 4, ArrivalDate: date(2024, 6, 10)})
		assert.ErrorIs(t, err, ErrDurationNotOffered)
	})

	t.Run("exact match still resolves", func(t *testing.T) {
		res, err := strict.Resolve(junePackage(), Params{NumberOfPeople: 12, NumberOfNights: 5, ArrivalDate: date(2024, 6, 10)})
		require.NoError(t, err)
		assert.Equal(t, "June", res.PeriodLabel)
	})
}

func TestResolve_Deterministic(t *testing.T) {
	pkg := junePackage()
	params := Params{NumberOfPeople: 8, NumberOfNights: 4, ArrivalDate: date(2024, 6, 10)}

	first, err := Resolve(pkg, params)
	require.NoError(t, err)

	for i := 0; i < 20; i++ {
		again, err := Resolve(pkg, params)
		require.NoError(t, err)
		assert.Equal(t, first.TierIndex, again.TierIndex)
		assert.Equal(t, first.Nights, again.Nights)
		assert.Equal(t, first.PeriodLabel, again.PeriodLabel)
		assert.True(t, first.Price.Equals(again.Price))
	}
}
