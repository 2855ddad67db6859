package repo

import (
	"context"
	"testing"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/light-bringer/quote-pricing-service/internal/app/quote/domain"
	"github.com/light-bringer/quote-pricing-service/internal/models/m_package"
)

type stubReader struct {
	pkg   *domain.Package
	err   error
	calls int
}

func (s *stubReader) GetPackage(_ context.Context, _ string) (*domain.Package, error) {
	s.calls++
	return s.pkg, s.err
}

func TestMongoPackage_ToDomain(t *testing.T) {
	start := time.Date(2024, 12, 20, 0, 0, 0, 0, time.UTC)
	end := time.Date(2025, 1, 5, 0, 0, 0, 0, time.UTC)

	doc := mongoPackage{
		ID:              "pkg-1",
		Version:         4,
		GroupSizeTiers:  []mongoTier{{Label: "2-9", MinPeople: 2, MaxPeople: 9}},
		DurationOptions: []int{5},
		PricingMatrix: []mongoPeriod{{
			PeriodLabel: "Christmas",
			PeriodType:  "special",
			StartDate:   &start,
			EndDate:     &end,
			Prices: []mongoPriceCell{
				{TierIndex: 0, Nights: 5, Price: "2100.50"},
				{TierIndex: 0, Nights: 7, Price: "on_request"},
			},
		}},
	}

	pkg, err := doc.toDomain()
	require.NoError(t, err)
	require.NoError(t, pkg.Validate())

	entry := pkg.PricingMatrix[0]
	assert.Equal(t, domain.PeriodSpecial, entry.PeriodType)
	assert.True(t, entry.Covers(time.Date(2024, 12, 24, 0, 0, 0, 0, time.UTC)))

	five, ok := entry.Lookup(0, 5)
	require.True(t, ok)
	assert.Equal(t, "2100.50", five.String())

	seven, ok := entry.Lookup(0, 7)
	require.True(t, ok)
	assert.True(t, seven.IsOnRequest())

	t.Run("bad price", func(t *testing.T) {
		doc.PricingMatrix[0].Prices[0].Price = "cheap"
		_, err := doc.toDomain()
		assert.Error(t, err)
	})
}

func TestSpannerPackageDocument(t *testing.T) {
	pkg := &domain.Package{
		ID:              "pkg-1",
		Name:            "Alps",
		Version:         2,
		GroupSizeTiers:  []domain.Tier{{Label: "10-15", MinPeople: 10, MaxPeople: 15}},
		DurationOptions: []int{3},
		PricingMatrix: []domain.PeriodEntry{{
			PeriodLabel: "June",
			PeriodType:  domain.PeriodMonth,
			Prices:      []domain.PriceCell{{TierIndex: 0, Nights: 3, Price: domain.OnRequestPrice()}},
		}},
	}

	data, err := m_package.FromDomain(pkg, time.Now())
	require.NoError(t, err)
	assert.Contains(t, data.Document, `"price":"ON_REQUEST"`)

	back, err := data.ToDomain()
	require.NoError(t, err)
	assert.Equal(t, pkg.Version, back.Version)
	price, ok := back.PricingMatrix[0].Lookup(0, 3)
	require.True(t, ok)
	assert.True(t, price.IsOnRequest())

	_, err = (&m_package.Data{PackageID: "broken", Document: "{"}).ToDomain()
	assert.Error(t, err)
}

func TestCachedPackageReader_RedisUnavailable(t *testing.T) {
	client := redis.NewClient(&redis.Options{
		Addr:        "127.0.0.1:1",
		DialTimeout: 50 * time.Millisecond,
		MaxRetries:  -1,
	})
	defer client.Close()

	t.Run("reads through", func(t *testing.T) {
		next := &stubReader{pkg: &domain.Package{ID: "pkg-1", Version: 1}}
		reader := NewCachedPackageReader(next, client, time.Minute, nil)

		pkg, err := reader.GetPackage(context.Background(), "pkg-1")
		require.NoError(t, err)
		assert.Equal(t, "pkg-1", pkg.ID)
		assert.Equal(t, 1, next.calls)
	})

	t.Run("propagates not found", func(t *testing.T) {
		next := &stubReader{err: domain.ErrPackageNotFound}
		reader := NewCachedPackageReader(next, client, time.Minute, nil)

		_, err := reader.GetPackage(context.Background(), "missing")
		assert.ErrorIs(t, err, domain.ErrPackageNotFound)
	})
}
