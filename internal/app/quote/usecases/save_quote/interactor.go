package save_quote

import (
	"context"

	"github.com/light-bringer/quote-pricing-service/internal/app/quote/contracts"
	"github.com/light-bringer/quote-pricing-service/internal/app/quote/domain"
	"github.com/light-bringer/quote-pricing-service/internal/app/quote/usecases/quote_writer"
)

// Request contains the editable quote details.
type Request struct {
	QuoteID    string
	Currency   string
	Inclusions string
	Exclusions string
	UserID     string
}

// Interactor handles the save quote use case.
type Interactor struct {
	repo   contracts.QuoteRepository
	writer *quote_writer.Writer
}

// NewInteractor creates a new save quote interactor.
func NewInteractor(repo contracts.QuoteRepository, writer *quote_writer.Writer) *Interactor {
	return &Interactor{
		repo:   repo,
		writer: writer,
	}
}

// Execute stores the quote details. A quote linked to an on-request package price
// cannot be saved until a manual total has been entered.
func (i *Interactor) Execute(ctx context.Context, req *Request) (*domain.Quote, error) {
	if req.UserID == "" {
		return nil, domain.ErrEmptyUserID
	}

	quote, err := i.repo.GetByID(ctx, req.QuoteID)
	if err != nil {
		return nil, err
	}

	if err := quote.CheckPersistable(); err != nil {
		return nil, err
	}

	if err := quote.UpdateDetails(req.Currency, req.Inclusions, req.Exclusions); err != nil {
		return nil, err
	}

	if err := i.writer.Save(ctx, quote); err != nil {
		return nil, err
	}

	return quote, nil
}
