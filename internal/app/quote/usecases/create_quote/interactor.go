package create_quote

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/light-bringer/quote-pricing-service/internal/app/quote/domain"
	"github.com/light-bringer/quote-pricing-service/internal/app/quote/usecases/quote_writer"
	"github.com/light-bringer/quote-pricing-service/internal/pkg/clock"
)

// Request contains the data needed to create a quote.
type Request struct {
	Currency   string
	Inclusions string
	Exclusions string
	Params     domain.Params
}

// Interactor handles the create quote use case.
type Interactor struct {
	writer *quote_writer.Writer
	clock  clock.Clock
}

// NewInteractor creates a new create quote interactor.
func NewInteractor(writer *quote_writer.Writer, clock clock.Clock) *Interactor {
	return &Interactor{
		writer: writer,
		clock:  clock,
	}
}

// Execute creates a new unlinked quote and returns its id.
func (i *Interactor) Execute(ctx context.Context, req *Request) (string, error) {
	// 1. Create domain aggregate
	quote, err := domain.NewQuote(uuid.New().String(), req.Currency, req.Params, i.clock.Now(), i.clock)
	if err != nil {
		return "", fmt.Errorf("failed to create quote: %w", err)
	}

	if err := quote.UpdateDetails(req.Currency, req.Inclusions, req.Exclusions); err != nil {
		return "", err
	}

	// 2. Persist
	if err := i.writer.Create(ctx, quote); err != nil {
		return "", err
	}

	return quote.ID(), nil
}
