package get_quote

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/light-bringer/quote-pricing-service/internal/app/quote/domain"
	"github.com/light-bringer/quote-pricing-service/internal/app/quote/usecases/usecasetest"
)

func TestQuery_Execute(t *testing.T) {
	env := usecasetest.NewEnv()
	q, err := usecasetest.NewLinkedQuote("quote-1", 3, env.Clock)
	require.NoError(t, err)
	_, err = q.AddEvent("Boat tour", domain.NewMoneyFromInt(120), usecasetest.Agent)
	require.NoError(t, err)
	q.MarkCommitted(2, env.Clock.Now())
	env.Quotes.Seed(q)

	dto, err := NewQuery(env.Quotes).Execute(context.Background(), &Request{QuoteID: "quote-1"})
	require.NoError(t, err)

	assert.Equal(t, "linked", dto.State)
	assert.Equal(t, "2024-06-10", dto.ArrivalDate)
	require.NotNil(t, dto.TotalPrice)
	assert.Equal(t, "1020.00", *dto.TotalPrice)
	require.NotNil(t, dto.LinkedPackage)
	assert.Equal(t, "900.00", dto.LinkedPackage.CalculatedPrice)
	require.Len(t, dto.Events, 1)
	assert.Equal(t, "120.00", dto.Events[0].Price)
	assert.Equal(t, int64(2), dto.Version)

	t.Run("not found", func(t *testing.T) {
		_, err := NewQuery(env.Quotes).Execute(context.Background(), &Request{QuoteID: "nope"})
		assert.ErrorIs(t, err, domain.ErrQuoteNotFound)
	})

	t.Run("unpriced quote has no total", func(t *testing.T) {
		fresh, err := domain.NewQuote("quote-2", "EUR", usecasetest.JuneParams(3), env.Clock.Now(), env.Clock)
		require.NoError(t, err)
		dto := ToDTO(fresh)
		assert.Nil(t, dto.TotalPrice)
		assert.Nil(t, dto.LinkedPackage)
		assert.Equal(t, "unlinked", dto.State)
		assert.NotNil(t, dto.Events)
	})
}
