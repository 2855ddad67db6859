package create_quote

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/light-bringer/quote-pricing-service/internal/app/quote/domain"
	"github.com/light-bringer/quote-pricing-service/internal/app/quote/usecases/usecasetest"
)

func TestInteractor_Execute(t *testing.T) {
	t.Run("creates an unlinked quote", func(t *testing.T) {
		env := usecasetest.NewEnv()

		id, err := NewInteractor(env.Writer, env.Clock).Execute(context.Background(), &Request{
			Currency:   "EUR",
			Inclusions: "Breakfast",
			Params:     usecasetest.JuneParams(5),
		})
		require.NoError(t, err)
		require.NotEmpty(t, id)

		saved := env.Quotes.Saved[id]
		assert.Equal(t, "Breakfast", saved.Inclusions)
		assert.Nil(t, saved.TotalPrice)
		assert.Nil(t, saved.LinkedPackage)
		assert.Equal(t, []string{"quote.created"}, env.Outbox.EventTypes())
	})

	t.Run("rejects invalid parameters", func(t *testing.T) {
		env := usecasetest.NewEnv()

		_, err := NewInteractor(env.Writer, env.Clock).Execute(context.Background(), &Request{
			Currency: "EUR",
			Params:   domain.Params{NumberOfPeople: 4},
		})
		assert.ErrorIs(t, err, domain.ErrInvalidParams)
		assert.Empty(t, env.Committer.Plans)
	})

	t.Run("rejects missing currency", func(t *testing.T) {
		env := usecasetest.NewEnv()

		_, err := NewInteractor(env.Writer, env.Clock).Execute(context.Background(), &Request{
			Params: usecasetest.JuneParams(5),
		})
		assert.ErrorIs(t, err, domain.ErrInvalidParams)
	})
}
