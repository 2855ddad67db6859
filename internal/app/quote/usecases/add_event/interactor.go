package add_event

import (
	"context"

	"github.com/light-bringer/quote-pricing-service/internal/app/quote/contracts"
	"github.com/light-bringer/quote-pricing-service/internal/app/quote/domain"
	"github.com/light-bringer/quote-pricing-service/internal/app/quote/usecases/quote_writer"
)

// Request contains the itinerary event to add.
type Request struct {
	QuoteID string
	Title   string
	Price   *domain.Money
	UserID  string
}

// Response carries the created event and the updated quote.
type Response struct {
	Quote *domain.Quote
	Event *domain.ItineraryEvent
}

// Interactor handles the add event use case.
type Interactor struct {
	repo   contracts.QuoteRepository
	writer *quote_writer.Writer
}

// NewInteractor creates a new add event interactor.
func NewInteractor(repo contracts.QuoteRepository, writer *quote_writer.Writer) *Interactor {
	return &Interactor{
		repo:   repo,
		writer: writer,
	}
}

// Execute adds a priced event to the quote.
func (i *Interactor) Execute(ctx context.Context, req *Request) (*Response, error) {
	quote, err := i.repo.GetByID(ctx, req.QuoteID)
	if err != nil {
		return nil, err
	}

	event, err := quote.AddEvent(req.Title, req.Price, req.UserID)
	if err != nil {
		return nil, err
	}

	if err := i.writer.Save(ctx, quote); err != nil {
		return nil, err
	}

	return &Response{Quote: quote, Event: event}, nil
}
