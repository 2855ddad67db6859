package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/light-bringer/quote-pricing-service/internal/app/quote/domain"
)

func writeFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "packages.json")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestReadPackages(t *testing.T) {
	t.Run("valid export", func(t *testing.T) {
		path := writeFile(t, `[{
			"id": "pkg-1",
			"name": "Lake Como Retreat",
			"version": 2,
			"groupSizeTiers": [{"label": "10-15", "minPeople": 10, "maxPeople": 15}],
			"durationOptions": [3, 5],
			"pricingMatrix": [{
				"periodLabel": "June",
				"periodType": "month",
				"prices": [
					{"tierIndex": 0, "nights": 3, "price": 900},
					{"tierIndex": 0, "nights": 5, "price": "ON_REQUEST"}
				]
			}]
		}]`)

		packages, err := readPackages(path)
		require.NoError(t, err)
		require.Len(t, packages, 1)
		assert.Equal(t, int64(2), packages[0].Version)

		price, ok := packages[0].PricingMatrix[0].Lookup(0, 5)
		require.True(t, ok)
		assert.True(t, price.IsOnRequest())
	})

	t.Run("invalid matrix rejects the file", func(t *testing.T) {
		path := writeFile(t, `[{
			"id": "pkg-1",
			"groupSizeTiers": [{"label": "bad", "minPeople": 15, "maxPeople": 10}],
			"pricingMatrix": []
		}]`)

		_, err := readPackages(path)
		assert.ErrorIs(t, err, domain.ErrInvalidPackage)
	})

	t.Run("duplicate ids", func(t *testing.T) {
		path := writeFile(t, `[{"id": "pkg-1"}, {"id": "pkg-1"}]`)
		_, err := readPackages(path)
		assert.ErrorContains(t, err, "appears twice")
	})

	t.Run("missing id", func(t *testing.T) {
		path := writeFile(t, `[{"name": "nameless"}]`)
		_, err := readPackages(path)
		assert.ErrorContains(t, err, "has no id")
	})

	t.Run("not json", func(t *testing.T) {
		_, err := readPackages(writeFile(t, "nope"))
		assert.Error(t, err)
	})
}
