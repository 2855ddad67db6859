package select_package

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/light-bringer/quote-pricing-service/internal/app/quote/domain"
	"github.com/light-bringer/quote-pricing-service/internal/app/quote/usecases/usecasetest"
)

func TestInteractor_Execute(t *testing.T) {
	t.Run("links and persists the package price", func(t *testing.T) {
		env := usecasetest.NewEnv()
		_, err := env.SeedUnlinked("quote-1", 5)
		require.NoError(t, err)

		resp, err := NewInteractor(env.Quotes, env.Manager, env.Writer).Execute(context.Background(), &Request{
			QuoteID: "quote-1", PackageID: "pkg-1", UserID: usecasetest.Agent,
		})
		require.NoError(t, err)

		assert.Equal(t, domain.StateLinked, resp.Quote.State())
		assert.Equal(t, "1500.00", resp.Quote.TotalPrice().String())
		assert.Equal(t, "10-15", resp.Outcome.Resolution.TierLabel)

		saved := env.Quotes.Saved["quote-1"]
		assert.Equal(t, "1500.00", saved.TotalPrice.String())
		require.Len(t, env.History.Rows, 1)
		assert.Equal(t, int64(1), env.History.Rows[0].Sequence)
		assert.Equal(t, domain.ReasonPackageSelection, env.History.Rows[0].Entry.Reason)
		assert.Equal(t, []string{"quote.package.linked"}, env.Outbox.EventTypes())
	})

	t.Run("on request price links without a total", func(t *testing.T) {
		env := usecasetest.NewEnv()
		_, err := env.SeedUnlinked("quote-1", 7)
		require.NoError(t, err)

		resp, err := NewInteractor(env.Quotes, env.Manager, env.Writer).Execute(context.Background(), &Request{
			QuoteID: "quote-1", PackageID: "pkg-1", UserID: usecasetest.Agent,
		})
		require.NoError(t, err)

		assert.True(t, resp.Outcome.Resolution.Price.IsOnRequest())
		assert.Nil(t, resp.Quote.TotalPrice())
		assert.True(t, resp.Quote.LinkedPackage().PriceWasOnRequest)
		assert.Empty(t, env.History.Rows)
		assert.ErrorIs(t, resp.Quote.CheckPersistable(), domain.ErrManualPriceRequired)
	})

	tests := []struct {
		name string
		req  *Request
		want error
	}{
		{"missing package", &Request{QuoteID: "quote-1", UserID: usecasetest.Agent}, domain.ErrInvalidParams},
		{"missing user", &Request{QuoteID: "quote-1", PackageID: "pkg-1"}, domain.ErrEmptyUserID},
		{"unknown quote", &Request{QuoteID: "nope", PackageID: "pkg-1", UserID: usecasetest.Agent}, domain.ErrQuoteNotFound},
		{"unknown package", &Request{QuoteID: "quote-1", PackageID: "pkg-9", UserID: usecasetest.Agent}, domain.ErrPackageNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := usecasetest.NewEnv()
			_, err := env.SeedUnlinked("quote-1", 5)
			require.NoError(t, err)

			_, err = NewInteractor(env.Quotes, env.Manager, env.Writer).Execute(context.Background(), tt.req)
			assert.ErrorIs(t, err, tt.want)
			assert.Empty(t, env.Committer.Plans)
		})
	}

	t.Run("already linked", func(t *testing.T) {
		env := usecasetest.NewEnv()
		_, err := env.SeedLinked("quote-1", 3)
		require.NoError(t, err)

		_, err = NewInteractor(env.Quotes, env.Manager, env.Writer).Execute(context.Background(), &Request{
			QuoteID: "quote-1", PackageID: "pkg-1", UserID: usecasetest.Agent,
		})
		assert.ErrorIs(t, err, domain.ErrAlreadyLinked)
	})
}
