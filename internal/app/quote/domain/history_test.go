package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/light-bringer/quote-pricing-service/internal/pkg/clock"
)

func TestPriceHistoryTracker_Append(t *testing.T) {
	clk := clock.NewMockClock(date(2024, 5, 1))
	tracker := NewPriceHistoryTracker(clk)

	t.Run("rejects a price that is not the current total", func(t *testing.T) {
		q := newTestQuote(t, clk)
		_, err := tracker.Append(q, money(100), ReasonManualOverride, agent)
		assert.Error(t, err)
		assert.Empty(t, q.PriceHistory())
	})

	t.Run("rejects unknown reasons", func(t *testing.T) {
		q := newTestQuote(t, clk)
		require.NoError(t, q.SetManualPrice(money(100), agent))

		_, err := tracker.Append(q, money(100), PriceChangeReason("discount"), agent)
		assert.Error(t, err)
		assert.Len(t, q.PriceHistory(), 1)
	})

	t.Run("stamps the entry with the clock and user", func(t *testing.T) {
		q := newTestQuote(t, clk)
		require.NoError(t, q.SetManualPrice(money(100), agent))

		entry, err := tracker.Append(q, money(100), ReasonRecalculation, "agent-7")
		require.NoError(t, err)
		assert.NotEmpty(t, entry.ID)
		assert.Equal(t, clk.Now(), entry.Timestamp)
		assert.Equal(t, "agent-7", entry.UserID)
		assert.Len(t, q.PriceHistory(), 2)
	})

	t.Run("history is a copy", func(t *testing.T) {
		q := newTestQuote(t, clk)
		require.NoError(t, q.SetManualPrice(money(100), agent))

		history := q.PriceHistory()
		history[0].Reason = ReasonEventAdded
		assert.Equal(t, ReasonManualOverride, q.PriceHistory()[0].Reason)
	})
}
