package set_manual_price

import (
	"context"

	"github.com/light-bringer/quote-pricing-service/internal/app/quote/contracts"
	"github.com/light-bringer/quote-pricing-service/internal/app/quote/domain"
	"github.com/light-bringer/quote-pricing-service/internal/app/quote/linking"
	"github.com/light-bringer/quote-pricing-service/internal/app/quote/usecases/quote_writer"
)

// Request contains the manually entered total.
type Request struct {
	QuoteID string
	Price   *domain.Money
	UserID  string
}

// Interactor handles the manual price override use case.
type Interactor struct {
	repo    contracts.QuoteRepository
	manager *linking.Manager
	writer  *quote_writer.Writer
}

// NewInteractor creates a new set manual price interactor.
func NewInteractor(repo contracts.QuoteRepository, manager *linking.Manager, writer *quote_writer.Writer) *Interactor {
	return &Interactor{
		repo:    repo,
		manager: manager,
		writer:  writer,
	}
}

// Execute overrides the quote's total price.
func (i *Interactor) Execute(ctx context.Context, req *Request) (*domain.Quote, error) {
	quote, err := i.repo.GetByID(ctx, req.QuoteID)
	if err != nil {
		return nil, err
	}

	if err := i.manager.SetManualPrice(quote, req.Price, req.UserID); err != nil {
		return nil, err
	}

	if err := i.writer.Save(ctx, quote); err != nil {
		return nil, err
	}

	return quote, nil
}
