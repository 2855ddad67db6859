package calculate_price

import (
	"context"
	"fmt"

	"github.com/light-bringer/quote-pricing-service/internal/app/quote/calculation"
	"github.com/light-bringer/quote-pricing-service/internal/app/quote/contracts"
	"github.com/light-bringer/quote-pricing-service/internal/app/quote/domain"
	"github.com/light-bringer/quote-pricing-service/internal/app/quote/linking"
)

// previewPrefix keeps preview tokens apart from a quote's own recalculations.
const previewPrefix = "preview:"

// Request asks for a price without changing the quote. Empty fields fall back to the
// quote's linked package and its stored parameters.
type Request struct {
	QuoteID   string
	PackageID string
	Params    *domain.Params
}

// Query handles the calculate price query use case.
type Query struct {
	repo       contracts.QuoteRepository
	calculator linking.Calculator
}

// NewQuery creates a new calculate price query.
func NewQuery(repo contracts.QuoteRepository, calculator linking.Calculator) *Query {
	return &Query{
		repo:       repo,
		calculator: calculator,
	}
}

// Execute resolves the price immediately.
func (q *Query) Execute(ctx context.Context, req *Request) (*contracts.PriceDTO, error) {
	packageID := req.PackageID
	var params domain.Params

	if req.PackageID == "" || req.Params == nil {
		quote, err := q.repo.GetByID(ctx, req.QuoteID)
		if err != nil {
			return nil, err
		}
		params = quote.Params()
		if packageID == "" {
			lp := quote.LinkedPackage()
			if lp == nil {
				return nil, fmt.Errorf("%w: no package given and quote is not linked", domain.ErrNotLinked)
			}
			packageID = lp.PackageID
		}
	}
	if req.Params != nil {
		params = *req.Params
	}

	if err := params.Validate(); err != nil {
		return nil, err
	}

	outcome, err := q.calculator.Calculate(ctx, calculation.Request{
		QuoteID:   previewPrefix + req.QuoteID,
		PackageID: packageID,
		Params:    params,
		Immediate: true,
	})
	if err != nil {
		return nil, err
	}

	return ToDTO(outcome), nil
}

// ToDTO flattens a calculation outcome for transport.
func ToDTO(outcome *calculation.Outcome) *contracts.PriceDTO {
	res := outcome.Resolution
	return &contracts.PriceDTO{
		PackageID:           outcome.PackageID,
		PackageVersion:      outcome.PackageVersion,
		Price:               res.Price.String(),
		OnRequest:           res.Price.IsOnRequest(),
		TierLabel:           res.TierLabel,
		PeriodLabel:         res.PeriodLabel,
		Nights:              res.Nights,
		TierApproximate:     res.TierApproximate,
		DurationApproximate: res.DurationApproximate,
		Warnings:            outcome.Warnings,
		FromCache:           outcome.FromCache,
	}
}
