package get_quote

import (
	"context"

	"github.com/light-bringer/quote-pricing-service/internal/app/quote/contracts"
	"github.com/light-bringer/quote-pricing-service/internal/app/quote/domain"
)

// Request contains the quote ID to retrieve.
type Request struct {
	QuoteID string
}

// Query handles the get quote query use case.
type Query struct {
	repo contracts.QuoteRepository
}

// NewQuery creates a new get quote query.
func NewQuery(repo contracts.QuoteRepository) *Query {
	return &Query{repo: repo}
}

// Execute retrieves a quote by ID.
func (q *Query) Execute(ctx context.Context, req *Request) (*contracts.QuoteDTO, error) {
	quote, err := q.repo.GetByID(ctx, req.QuoteID)
	if err != nil {
		return nil, err
	}
	return ToDTO(quote), nil
}

// ToDTO flattens a quote for transport.
func ToDTO(quote *domain.Quote) *contracts.QuoteDTO {
	params := quote.Params()
	dto := &contracts.QuoteDTO{
		QuoteID:        quote.ID(),
		Currency:       quote.Currency(),
		Inclusions:     quote.Inclusions(),
		Exclusions:     quote.Exclusions(),
		NumberOfPeople: params.NumberOfPeople,
		NumberOfNights: params.NumberOfNights,
		ArrivalDate:    params.ArrivalDate.Format(domain.DateLayout),
		State:          string(quote.State()),
		Events:         make([]contracts.EventDTO, 0),
		Version:        quote.Version(),
		CreatedAt:      quote.CreatedAt(),
		UpdatedAt:      quote.UpdatedAt(),
	}

	if total := quote.TotalPrice(); total != nil {
		s := total.String()
		dto.TotalPrice = &s
	}

	if lp := quote.LinkedPackage(); lp != nil {
		dto.LinkedPackage = &contracts.LinkedPackageDTO{
			PackageID:           lp.PackageID,
			PackageVersion:      lp.PackageVersion,
			SelectedTierIndex:   lp.SelectedTierIndex,
			SelectedTierLabel:   lp.SelectedTierLabel,
			SelectedPeriodLabel: lp.SelectedPeriodLabel,
			CalculatedPrice:     lp.CalculatedPrice.String(),
			CustomPriceApplied:  lp.CustomPriceApplied,
			PriceWasOnRequest:   lp.PriceWasOnRequest,
			LastRecalculatedAt:  lp.LastRecalculatedAt,
		}
	}

	for _, e := range quote.Events() {
		dto.Events = append(dto.Events, contracts.EventDTO{
			EventID: e.ID,
			Title:   e.Title,
			Price:   e.Price.String(),
			AddedAt: e.AddedAt,
		})
	}

	return dto
}
