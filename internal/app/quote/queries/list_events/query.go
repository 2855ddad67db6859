package list_events

import (
	"context"

	"github.com/light-bringer/quote-pricing-service/internal/app/quote/contracts"
)

// Request selects a quote's outbox events.
type Request struct {
	QuoteID string
	Limit   int // Max number of events to return (default: 100)
}

// Query handles the list events query use case.
type Query struct {
	reader contracts.OutboxReader
}

// NewQuery creates a new list events query.
func NewQuery(reader contracts.OutboxReader) *Query {
	return &Query{reader: reader}
}

// Execute retrieves the events recorded for a quote, oldest first.
func (q *Query) Execute(ctx context.Context, req *Request) ([]*contracts.OutboxEvent, error) {
	if req.Limit <= 0 {
		req.Limit = 100 // Default limit
	}
	if req.Limit > 1000 {
		req.Limit = 1000 // Max limit
	}

	return q.reader.ListByAggregate(ctx, req.QuoteID, int64(req.Limit))
}
