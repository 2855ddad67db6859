package repo

import (
	"fmt"

	"cloud.google.com/go/spanner"
	"github.com/shopspring/decimal"

	"github.com/light-bringer/quote-pricing-service/internal/app/quote/domain"
)

// moneyToNumeric converts an optional amount to a NUMERIC column value.
func moneyToNumeric(m *domain.Money) spanner.NullNumeric {
	if m == nil {
		return spanner.NullNumeric{}
	}
	return spanner.NullNumeric{Numeric: *m.Decimal().Rat(), Valid: true}
}

// numericToMoney converts a NUMERIC column value back to an amount; NULL yields nil.
func numericToMoney(n spanner.NullNumeric) (*domain.Money, error) {
	if !n.Valid {
		return nil, nil
	}
	d, err := decimal.NewFromString(spanner.NumericString(&n.Numeric))
	if err != nil {
		return nil, fmt.Errorf("invalid numeric value: %w", err)
	}
	return domain.NewMoneyFromDecimal(d), nil
}
