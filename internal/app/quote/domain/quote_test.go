package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/light-bringer/quote-pricing-service/internal/pkg/clock"
)

const agent = "agent-1"

func newTestQuote(t *testing.T, clk clock.Clock) *Quote {
	t.Helper()
	params := Params{NumberOfPeople: 12, NumberOfNights: 5, ArrivalDate: date(2024, 6, 10)}
	q, err := NewQuote("quote-1", "EUR", params, clk.Now(), clk)
	require.NoError(t, err)
	return q
}

func linkFor(t *testing.T, pkg *Package, params Params, at time.Time) PackageLink {
	t.Helper()
	res, err := Resolve(pkg, params)
	require.NoError(t, err)
	return PackageLink{PackageID: pkg.ID, PackageVersion: pkg.Version, Resolution: res, CalculatedAt: at}
}

func assertHistoryTracksTotal(t *testing.T, q *Quote) {
	t.Helper()
	history := q.PriceHistory()
	require.NotEmpty(t, history)
	assert.True(t, history[len(history)-1].Price.Equals(q.TotalPrice()),
		"newest history entry %s must equal total %v", history[len(history)-1].Price, q.TotalPrice())
	for i := 1; i < len(history); i++ {
		assert.False(t, history[i].Timestamp.Before(history[i-1].Timestamp))
	}
}

func TestNewQuote(t *testing.T) {
	clk := clock.NewMockClock(date(2024, 5, 1))

	t.Run("valid quote starts unlinked with empty history", func(t *testing.T) {
		q := newTestQuote(t, clk)
		assert.Equal(t, StateUnlinked, q.State())
		assert.Nil(t, q.TotalPrice())
		assert.Empty(t, q.PriceHistory())
		assert.True(t, q.Changes().HasChanges())
		assert.Len(t, q.DomainEvents(), 1)
	})

	t.Run("invalid params", func(t *testing.T) {
		_, err := NewQuote("q", "EUR", Params{NumberOfPeople: 0, NumberOfNights: 5, ArrivalDate: date(2024, 6, 1)}, clk.Now(), clk)
		assert.ErrorIs(t, err, ErrInvalidParams)
	})

	t.Run("missing currency", func(t *testing.T) {
		_, err := NewQuote("q", " ", Params{NumberOfPeople: 2, NumberOfNights: 5, ArrivalDate: date(2024, 6, 1)}, clk.Now(), clk)
		assert.ErrorIs(t, err, ErrInvalidParams)
	})
}

func TestQuote_LinkPackage(t *testing.T) {
	clk := clock.NewMockClock(date(2024, 5, 1))

	t.Run("numeric price sets total and appends package_selection", func(t *testing.T) {
		q := newTestQuote(t, clk)
		require.NoError(t, q.LinkPackage(linkFor(t, junePackage(), q.Params(), clk.Now()), agent))

		assert.Equal(t, StateLinked, q.State())
		assert.True(t, q.TotalPrice().Equals(money(1500)))

		history := q.PriceHistory()
		require.Len(t, history, 1)
		assert.Equal(t, ReasonPackageSelection, history[0].Reason)
		assert.Equal(t, agent, history[0].UserID)
		assert.Equal(t, clk.Now(), history[0].Timestamp)

		lp := q.LinkedPackage()
		require.NotNil(t, lp)
		assert.Equal(t, "pkg-1", lp.PackageID)
		assert.Equal(t, "June", lp.SelectedPeriodLabel)
		assert.False(t, lp.CustomPriceApplied)
		assert.False(t, lp.PriceWasOnRequest)
		assert.True(t, q.Changes().Dirty(FieldLinkedPackage))
		assert.True(t, q.Changes().Dirty(FieldTotalPrice))
	})

	t.Run("already linked", func(t *testing.T) {
		q := newTestQuote(t, clk)
		link := linkFor(t, junePackage(), q.Params(), clk.Now())
		require.NoError(t, q.LinkPackage(link, agent))
		assert.ErrorIs(t, q.LinkPackage(link, agent), ErrAlreadyLinked)
	})

	t.Run("requires a user", func(t *testing.T) {
		q := newTestQuote(t, clk)
		assert.ErrorIs(t, q.LinkPackage(linkFor(t, junePackage(), q.Params(), clk.Now()), ""), ErrEmptyUserID)
		assert.Equal(t, StateUnlinked, q.State())
	})

	t.Run("existing events are added to the package price", func(t *testing.T) {
		q := newTestQuote(t, clk)
		_, err := q.AddEvent("Boat trip", money(200), agent)
		require.NoError(t, err)
		assert.Nil(t, q.TotalPrice())

		require.NoError(t, q.LinkPackage(linkFor(t, junePackage(), q.Params(), clk.Now()), agent))
		assert.True(t, q.TotalPrice().Equals(money(1700)))
	})
}

func TestQuote_OnRequestKeepsExistingTotal(t *testing.T) {
	clk := clock.NewMockClock(date(2024, 5, 1))
	pkg := junePackage()
	pkg.PricingMatrix[0].Prices[1].Price = OnRequestPrice()

	q := newTestQuote(t, clk)
	require.NoError(t, q.SetManualPrice(money(1500), agent))

	clk.Advance(time.Minute)
	require.NoError(t, q.LinkPackage(linkFor(t, pkg, q.Params(), clk.Now()), agent))

	assert.True(t, q.TotalPrice().Equals(money(1500)))
	assert.True(t, q.LinkedPackage().PriceWasOnRequest)
	assert.Len(t, q.PriceHistory(), 1)
	assert.NoError(t, q.CheckPersistable())
	assertHistoryTracksTotal(t, q)

	require.NoError(t, q.UnlinkPackage(agent))
	assert.Equal(t, StateUnlinked, q.State())
	assert.True(t, q.TotalPrice().Equals(money(1500)))
	assertHistoryTracksTotal(t, q)
}

func TestQuote_OnRequestFlow(t *testing.T) {
	clk := clock.NewMockClock(date(2024, 5, 1))
	pkg := junePackage()
	pkg.PricingMatrix[0].Prices[1].Price = OnRequestPrice()

	q := newTestQuote(t, clk)
	require.NoError(t, q.LinkPackage(linkFor(t, pkg, q.Params(), clk.Now()), agent))

	assert.Nil(t, q.TotalPrice())
	assert.Empty(t, q.PriceHistory())
	assert.True(t, q.LinkedPackage().PriceWasOnRequest)
	assert.ErrorIs(t, q.CheckPersistable(), ErrManualPriceRequired)

	clk.Advance(time.Minute)
	require.NoError(t, q.SetManualPrice(money(2000), agent))

	assert.NoError(t, q.CheckPersistable())
	assert.Equal(t, StateCustomized, q.State())
	assert.True(t, q.LinkedPackage().CustomPriceApplied)

	history := q.PriceHistory()
	require.Len(t, history, 1)
	assert.Equal(t, ReasonManualOverride, history[0].Reason)
	assert.True(t, history[0].Price.Equals(money(2000)))

	t.Run("reset is refused without a numeric calculation", func(t *testing.T) {
		assert.ErrorIs(t, q.ResetToCalculatedPrice(agent), ErrNoCalculatedPrice)
		assert.Equal(t, StateCustomized, q.State())
	})
}

func TestQuote_ApplyRecalculation(t *testing.T) {
	clk := clock.NewMockClock(date(2024, 5, 1))
	pkg := junePackage()

	t.Run("linked quote follows the calculation", func(t *testing.T) {
		q := newTestQuote(t, clk)
		require.NoError(t, q.LinkPackage(linkFor(t, pkg, q.Params(), clk.Now()), agent))

		params := q.Params()
		params.NumberOfNights = 7
		require.NoError(t, q.UpdateParameters(params))

		clk.Advance(time.Second)
		changed, err := q.ApplyRecalculation(linkFor(t, pkg, params, clk.Now()), agent)
		require.NoError(t, err)
		assert.True(t, changed)
		assert.True(t, q.TotalPrice().Equals(money(2000)))

		history := q.PriceHistory()
		require.Len(t, history, 2)
		assert.Equal(t, ReasonRecalculation, history[1].Reason)
		assertHistoryTracksTotal(t, q)
	})

	t.Run("unchanged price appends nothing", func(t *testing.T) {
		q := newTestQuote(t, clk)
		require.NoError(t, q.LinkPackage(linkFor(t, pkg, q.Params(), clk.Now()), agent))

		changed, err := q.ApplyRecalculation(linkFor(t, pkg, q.Params(), clk.Now()), agent)
		require.NoError(t, err)
		assert.False(t, changed)
		assert.Len(t, q.PriceHistory(), 1)
	})

	t.Run("customized quote keeps its manual total", func(t *testing.T) {
		q := newTestQuote(t, clk)
		require.NoError(t, q.LinkPackage(linkFor(t, pkg, q.Params(), clk.Now()), agent))
		require.NoError(t, q.SetManualPrice(money(1750), agent))

		params := q.Params()
		params.NumberOfNights = 3
		require.NoError(t, q.UpdateParameters(params))

		changed, err := q.ApplyRecalculation(linkFor(t, pkg, params, clk.Now()), agent)
		require.NoError(t, err)
		assert.False(t, changed)
		assert.True(t, q.TotalPrice().Equals(money(1750)))

		calculated, ok := q.LinkedPackage().CalculatedPrice.Amount()
		require.True(t, ok)
		assert.True(t, calculated.Equals(money(900)))
		assert.Len(t, q.PriceHistory(), 2)
	})

	t.Run("on request result keeps the linked total", func(t *testing.T) {
		q := newTestQuote(t, clk)
		require.NoError(t, q.LinkPackage(linkFor(t, pkg, q.Params(), clk.Now()), agent))

		onRequest := junePackage()
		onRequest.PricingMatrix[0].Prices[1].Price = OnRequestPrice()

		changed, err := q.ApplyRecalculation(linkFor(t, onRequest, q.Params(), clk.Now()), agent)
		require.NoError(t, err)
		assert.False(t, changed)
		assert.True(t, q.TotalPrice().Equals(money(1500)))
		assert.True(t, q.LinkedPackage().PriceWasOnRequest)
		assert.True(t, q.LinkedPackage().CalculatedPrice.IsOnRequest())
		assert.Len(t, q.PriceHistory(), 1)
		assert.NoError(t, q.CheckPersistable())
		assertHistoryTracksTotal(t, q)
	})

	t.Run("unlinked quote", func(t *testing.T) {
		q := newTestQuote(t, clk)
		_, err := q.ApplyRecalculation(linkFor(t, pkg, q.Params(), clk.Now()), agent)
		assert.ErrorIs(t, err, ErrNotLinked)
	})

	t.Run("different package", func(t *testing.T) {
		q := newTestQuote(t, clk)
		require.NoError(t, q.LinkPackage(linkFor(t, pkg, q.Params(), clk.Now()), agent))

		other := junePackage()
		other.ID = "pkg-2"
		_, err := q.ApplyRecalculation(linkFor(t, other, q.Params(), clk.Now()), agent)
		assert.ErrorIs(t, err, ErrPackageMismatch)
	})
}

func TestQuote_ResetToCalculatedPrice(t *testing.T) {
	clk := clock.NewMockClock(date(2024, 5, 1))
	pkg := junePackage()

	t.Run("returns to the calculated price and keeps the override entry", func(t *testing.T) {
		q := newTestQuote(t, clk)
		require.NoError(t, q.LinkPackage(linkFor(t, pkg, q.Params(), clk.Now()), agent))

		clk.Advance(time.Minute)
		require.NoError(t, q.SetManualPrice(money(999), agent))
		clk.Advance(time.Minute)
		require.NoError(t, q.ResetToCalculatedPrice(agent))

		assert.Equal(t, StateLinked, q.State())
		assert.False(t, q.LinkedPackage().CustomPriceApplied)
		calculated, _ := q.LinkedPackage().CalculatedPrice.Amount()
		assert.True(t, q.TotalPrice().Equals(calculated))

		history := q.PriceHistory()
		require.Len(t, history, 3)
		assert.Equal(t, []PriceChangeReason{ReasonPackageSelection, ReasonManualOverride, ReasonRecalculation},
			[]PriceChangeReason{history[0].Reason, history[1].Reason, history[2].Reason})
		assert.True(t, history[1].Price.Equals(money(999)))
		assertHistoryTracksTotal(t, q)
	})

	t.Run("not customized", func(t *testing.T) {
		q := newTestQuote(t, clk)
		require.NoError(t, q.LinkPackage(linkFor(t, pkg, q.Params(), clk.Now()), agent))
		assert.ErrorIs(t, q.ResetToCalculatedPrice(agent), ErrNotCustomized)
	})

	t.Run("not linked", func(t *testing.T) {
		q := newTestQuote(t, clk)
		assert.ErrorIs(t, q.ResetToCalculatedPrice(agent), ErrNotLinked)
	})
}

func TestQuote_UnlinkPackage(t *testing.T) {
	clk := clock.NewMockClock(date(2024, 5, 1))

	q, err := NewQuote("quote-1", "EUR", Params{NumberOfPeople: 12, NumberOfNights: 3, ArrivalDate: date(2024, 6, 10)}, clk.Now(), clk)
	require.NoError(t, err)
	require.NoError(t, q.LinkPackage(linkFor(t, junePackage(), q.Params(), clk.Now()), agent))
	require.NoError(t, q.SetManualPrice(money(1500), agent))
	require.NoError(t, q.UpdateDetails("EUR", "Breakfast", "Flights"))

	before := q.Snapshot()
	require.NoError(t, q.UnlinkPackage(agent))
	after := q.Snapshot()

	assert.Nil(t, q.LinkedPackage())
	assert.Equal(t, StateUnlinked, q.State())
	assert.True(t, q.TotalPrice().Equals(money(1500)))
	assert.Equal(t, 3, q.Params().NumberOfNights)

	before.LinkedPackage = nil
	assert.Equal(t, before, after)

	t.Run("twice", func(t *testing.T) {
		assert.ErrorIs(t, q.UnlinkPackage(agent), ErrNotLinked)
	})

	t.Run("manual price on an unlinked quote stays unlinked", func(t *testing.T) {
		require.NoError(t, q.SetManualPrice(money(1400), agent))
		assert.Equal(t, StateUnlinked, q.State())
		assertHistoryTracksTotal(t, q)
	})
}

func TestQuote_SetManualPrice(t *testing.T) {
	clk := clock.NewMockClock(date(2024, 5, 1))
	q := newTestQuote(t, clk)

	assert.ErrorIs(t, q.SetManualPrice(nil, agent), ErrInvalidPrice)
	assert.ErrorIs(t, q.SetManualPrice(money(-5), agent), ErrInvalidPrice)
	assert.ErrorIs(t, q.SetManualPrice(money(5), ""), ErrEmptyUserID)
	assert.Nil(t, q.TotalPrice())
	assert.Empty(t, q.PriceHistory())

	t.Run("every override is recorded", func(t *testing.T) {
		require.NoError(t, q.SetManualPrice(money(100), agent))
		require.NoError(t, q.SetManualPrice(money(100), "agent-2"))

		history := q.PriceHistory()
		require.Len(t, history, 2)
		assert.Equal(t, "agent-2", history[1].UserID)
	})
}

func TestQuote_Events(t *testing.T) {
	clk := clock.NewMockClock(date(2024, 5, 1))
	q := newTestQuote(t, clk)
	require.NoError(t, q.LinkPackage(linkFor(t, junePackage(), q.Params(), clk.Now()), agent))

	event, err := q.AddEvent("Wine tasting", mustMoney(t, "85.50"), agent)
	require.NoError(t, err)
	assert.Equal(t, "1585.50", q.TotalPrice().String())

	t.Run("recalculation keeps event prices on top", func(t *testing.T) {
		params := q.Params()
		params.NumberOfNights = 7
		require.NoError(t, q.UpdateParameters(params))

		_, err := q.ApplyRecalculation(linkFor(t, junePackage(), params, clk.Now()), agent)
		require.NoError(t, err)
		assert.Equal(t, "2085.50", q.TotalPrice().String())
	})

	t.Run("remove lowers the total", func(t *testing.T) {
		require.NoError(t, q.RemoveEvent(event.ID, agent))
		assert.Equal(t, "2000.00", q.TotalPrice().String())
		assert.Empty(t, q.Events())

		history := q.PriceHistory()
		assert.Equal(t, ReasonEventRemoved, history[len(history)-1].Reason)
		assertHistoryTracksTotal(t, q)
	})

	t.Run("unknown event", func(t *testing.T) {
		assert.ErrorIs(t, q.RemoveEvent("missing", agent), ErrEventNotFound)
	})

	t.Run("validation", func(t *testing.T) {
		_, err := q.AddEvent("", money(1), agent)
		assert.ErrorIs(t, err, ErrInvalidParams)
		_, err = q.AddEvent("Dinner", money(-1), agent)
		assert.ErrorIs(t, err, ErrInvalidPrice)
	})
}

func TestQuote_PersistenceLifecycle(t *testing.T) {
	clk := clock.NewMockClock(date(2024, 5, 1))
	q := newTestQuote(t, clk)
	require.NoError(t, q.LinkPackage(linkFor(t, junePackage(), q.Params(), clk.Now()), agent))

	assert.Len(t, q.NewHistoryEntries(), 1)
	assert.Len(t, q.DomainEvents(), 2)

	q.MarkCommitted(1, clk.Now())
	assert.Empty(t, q.NewHistoryEntries())
	assert.Empty(t, q.DomainEvents())
	assert.False(t, q.Changes().HasChanges())
	assert.Equal(t, int64(1), q.Version())

	reloaded := ReconstructQuote(q.Snapshot(), clk)
	assert.Equal(t, StateLinked, reloaded.State())
	assert.Len(t, reloaded.PriceHistory(), 1)
	assert.Empty(t, reloaded.NewHistoryEntries())

	require.NoError(t, reloaded.SetManualPrice(money(1600), agent))
	fresh := reloaded.NewHistoryEntries()
	require.Len(t, fresh, 1)
	assert.Equal(t, ReasonManualOverride, fresh[0].Reason)

	t.Run("legacy quote without a package behaves as unlinked", func(t *testing.T) {
		legacy := ReconstructQuote(QuoteSnapshot{
			ID:         "legacy",
			Currency:   "GBP",
			Params:     Params{NumberOfPeople: 4, NumberOfNights: 7, ArrivalDate: date(2019, 8, 1)},
			TotalPrice: money(3000),
		}, clk)
		assert.Equal(t, StateUnlinked, legacy.State())
		assert.NoError(t, legacy.CheckPersistable())
		assert.ErrorIs(t, legacy.UnlinkPackage(agent), ErrNotLinked)
	})
}
