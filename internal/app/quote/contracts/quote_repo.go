package contracts

import (
	"context"

	"cloud.google.com/go/spanner"

	"github.com/light-bringer/quote-pricing-service/internal/app/quote/domain"
)

// QuoteRepository defines the interface for quote persistence.
// Repositories return mutations, they don't apply them.
type QuoteRepository interface {
	// InsertMut creates a mutation for inserting a new quote
	InsertMut(quote *domain.Quote) (*spanner.Mutation, error)

	// UpdateMut creates a mutation for updating a quote (only dirty fields)
	UpdateMut(quote *domain.Quote) (*spanner.Mutation, error)

	// GetByID loads the quote row and its full price history, oldest entry first
	GetByID(ctx context.Context, quoteID string) (*domain.Quote, error)
}
