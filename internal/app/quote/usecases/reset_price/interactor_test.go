package reset_price

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/light-bringer/quote-pricing-service/internal/app/quote/domain"
	"github.com/light-bringer/quote-pricing-service/internal/app/quote/usecases/usecasetest"
)

func TestInteractor_Execute(t *testing.T) {
	t.Run("restores the calculated total", func(t *testing.T) {
		env := usecasetest.NewEnv()
		q, err := usecasetest.NewLinkedQuote("quote-1", 3, env.Clock)
		require.NoError(t, err)
		require.NoError(t, q.SetManualPrice(domain.NewMoneyFromInt(1000), usecasetest.Agent))
		q.MarkCommitted(2, env.Clock.Now())
		env.Quotes.Seed(q)

		got, err := NewInteractor(env.Quotes, env.Manager, env.Writer).Execute(context.Background(), &Request{
			QuoteID: "quote-1", UserID: usecasetest.Agent,
		})
		require.NoError(t, err)

		assert.Equal(t, domain.StateLinked, got.State())
		assert.Equal(t, "900.00", got.TotalPrice().String())
		require.Len(t, env.History.Rows, 1)
		assert.Equal(t, int64(3), env.History.Rows[0].Sequence)
		assert.Equal(t, []string{"quote.price.reset"}, env.Outbox.EventTypes())
	})

	t.Run("not customized", func(t *testing.T) {
		env := usecasetest.NewEnv()
		_, err := env.SeedLinked("quote-1", 3)
		require.NoError(t, err)

		_, err = NewInteractor(env.Quotes, env.Manager, env.Writer).Execute(context.Background(), &Request{
			QuoteID: "quote-1", UserID: usecasetest.Agent,
		})
		assert.ErrorIs(t, err, domain.ErrNotCustomized)
	})

	t.Run("not linked", func(t *testing.T) {
		env := usecasetest.NewEnv()
		_, err := env.SeedUnlinked("quote-1", 3)
		require.NoError(t, err)

		_, err = NewInteractor(env.Quotes, env.Manager, env.Writer).Execute(context.Background(), &Request{
			QuoteID: "quote-1", UserID: usecasetest.Agent,
		})
		assert.ErrorIs(t, err, domain.ErrNotLinked)
	})
}
