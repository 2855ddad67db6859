package contracts

import (
	"context"
	"time"

	"cloud.google.com/go/spanner"

	"github.com/light-bringer/quote-pricing-service/internal/app/quote/domain"
)

// PriceHistoryRepository persists the append-only price audit log.
// Rows are insert-only.
type PriceHistoryRepository interface {
	// InsertMut creates a mutation for inserting one history entry at position seq (1-based).
	InsertMut(quoteID string, seq int64, entry domain.PriceHistoryEntry) *spanner.Mutation

	// List returns a page of a quote's history, newest first.
	List(ctx context.Context, filter *HistoryFilter) (*HistoryPage, error)
}

// HistoryFilter selects and pages price history rows.
type HistoryFilter struct {
	QuoteID   string
	Reason    string
	Since     *time.Time
	PageSize  int
	PageToken string
}

// HistoryPage is one page of price history.
type HistoryPage struct {
	Entries       []domain.PriceHistoryEntry
	NextPageToken string
}
