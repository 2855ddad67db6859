package change_parameters

import (
	"context"

	"github.com/light-bringer/quote-pricing-service/internal/app/quote/calculation"
	"github.com/light-bringer/quote-pricing-service/internal/app/quote/contracts"
	"github.com/light-bringer/quote-pricing-service/internal/app/quote/domain"
	"github.com/light-bringer/quote-pricing-service/internal/app/quote/linking"
	"github.com/light-bringer/quote-pricing-service/internal/app/quote/usecases/quote_writer"
)

// Request contains the new trip parameters.
type Request struct {
	QuoteID string
	Params  domain.Params
	UserID  string
}

// Response reports what the parameter change did to the price.
type Response struct {
	Quote        *domain.Quote
	Outcome      *calculation.Outcome
	PriceChanged bool
	// CalculationErr is set when the recalculation failed; the previous price was kept.
	CalculationErr error
}

// Interactor handles the change parameters use case.
type Interactor struct {
	repo    contracts.QuoteRepository
	manager *linking.Manager
	writer  *quote_writer.Writer
}

// NewInteractor creates a new change parameters interactor.
func NewInteractor(repo contracts.QuoteRepository, manager *linking.Manager, writer *quote_writer.Writer) *Interactor {
	return &Interactor{
		repo:    repo,
		manager: manager,
		writer:  writer,
	}
}

// Execute stores the parameters and, for a linked quote, waits for the debounced
// recalculation. A request overtaken by a newer one returns domain.ErrSuperseded
// without writing anything.
func (i *Interactor) Execute(ctx context.Context, req *Request) (*Response, error) {
	if req.UserID == "" {
		return nil, domain.ErrEmptyUserID
	}

	quote, err := i.repo.GetByID(ctx, req.QuoteID)
	if err != nil {
		return nil, err
	}

	change, err := i.manager.OnParameterChange(ctx, quote, req.Params, req.UserID)
	if err != nil {
		return nil, err
	}

	if err := i.writer.Save(ctx, quote); err != nil {
		return nil, err
	}

	return &Response{
		Quote:          quote,
		Outcome:        change.Outcome,
		PriceChanged:   change.PriceChanged,
		CalculationErr: change.CalculationErr,
	}, nil
}
