package remove_event

import (
	"context"

	"github.com/light-bringer/quote-pricing-service/internal/app/quote/contracts"
	"github.com/light-bringer/quote-pricing-service/internal/app/quote/domain"
	"github.com/light-bringer/quote-pricing-service/internal/app/quote/usecases/quote_writer"
)

// Request identifies the event to remove.
type Request struct {
	QuoteID string
	EventID string
	UserID  string
}

// Interactor handles the remove event use case.
type Interactor struct {
	repo   contracts.QuoteRepository
	writer *quote_writer.Writer
}

// NewInteractor creates a new remove event interactor.
func NewInteractor(repo contracts.QuoteRepository, writer *quote_writer.Writer) *Interactor {
	return &Interactor{
		repo:   repo,
		writer: writer,
	}
}

// Execute removes an event from the quote.
func (i *Interactor) Execute(ctx context.Context, req *Request) (*domain.Quote, error) {
	if req.UserID == "" {
		return nil, domain.ErrEmptyUserID
	}

	quote, err := i.repo.GetByID(ctx, req.QuoteID)
	if err != nil {
		return nil, err
	}

	if err := quote.RemoveEvent(req.EventID, req.UserID); err != nil {
		return nil, err
	}

	if err := i.writer.Save(ctx, quote); err != nil {
		return nil, err
	}

	return quote, nil
}
