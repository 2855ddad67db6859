package reset_price

import (
	"context"

	"github.com/light-bringer/quote-pricing-service/internal/app/quote/contracts"
	"github.com/light-bringer/quote-pricing-service/internal/app/quote/domain"
	"github.com/light-bringer/quote-pricing-service/internal/app/quote/linking"
	"github.com/light-bringer/quote-pricing-service/internal/app/quote/usecases/quote_writer"
)

// Request identifies the quote to reset.
type Request struct {
	QuoteID string
	UserID  string
}

// Interactor handles the reset to calculated price use case.
type Interactor struct {
	repo    contracts.QuoteRepository
	manager *linking.Manager
	writer  *quote_writer.Writer
}

// NewInteractor creates a new reset price interactor.
func NewInteractor(repo contracts.QuoteRepository, manager *linking.Manager, writer *quote_writer.Writer) *Interactor {
	return &Interactor{
		repo:    repo,
		manager: manager,
		writer:  writer,
	}
}

// Execute discards a manual override and restores the package-derived total.
func (i *Interactor) Execute(ctx context.Context, req *Request) (*domain.Quote, error) {
	quote, err := i.repo.GetByID(ctx, req.QuoteID)
	if err != nil {
		return nil, err
	}

	if err := i.manager.ResetToCalculatedPrice(quote, req.UserID); err != nil {
		return nil, err
	}

	if err := i.writer.Save(ctx, quote); err != nil {
		return nil, err
	}

	return quote, nil
}
