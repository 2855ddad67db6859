package testutil

import (
	"context"
	"testing"
	"time"

	"cloud.google.com/go/spanner"
	"github.com/stretchr/testify/require"

	"github.com/light-bringer/quote-pricing-service/internal/app/quote/domain"
	"github.com/light-bringer/quote-pricing-service/internal/models/m_package"
)

// JunePackage returns a package with one 10-15 tier, 3/5/7 night options and June prices
// of 900, 1500 and 2000. The 7-night price is on request when onRequest7 is set.
func JunePackage(id string, version int64, onRequest7 bool) *domain.Package {
	cell := func(nights int, units int64) domain.PriceCell {
		return domain.PriceCell{TierIndex: 0, Nights: nights, Price: domain.NumericPrice(domain.NewMoneyFromInt(units))}
	}
	seven := cell(7, 2000)
	if onRequest7 {
		seven.Price = domain.OnRequestPrice()
	}
	return &domain.Package{
		ID:              id,
		Name:            "Lake Como Retreat",
		Version:         version,
		GroupSizeTiers:  []domain.Tier{{Label: "10-15", MinPeople: 10, MaxPeople: 15}},
		DurationOptions: []int{3, 5, 7},
		PricingMatrix: []domain.PeriodEntry{{
			PeriodLabel: "June",
			PeriodType:  domain.PeriodMonth,
			Prices:      []domain.PriceCell{cell(3, 900), cell(5, 1500), seven},
		}},
	}
}

// InsertPackage writes pkg into the packages table.
func InsertPackage(t *testing.T, client *spanner.Client, pkg *domain.Package) {
	t.Helper()

	data, err := m_package.FromDomain(pkg, time.Now())
	require.NoError(t, err)

	_, err = client.Apply(context.Background(), []*spanner.Mutation{m_package.NewModel().UpsertMut(data)})
	require.NoError(t, err, "failed to insert test package")
}
