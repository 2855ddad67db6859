package get_price_history

import (
	"context"
	"time"

	"github.com/light-bringer/quote-pricing-service/internal/app/quote/contracts"
)

// Request contains filtering and paging parameters.
type Request struct {
	QuoteID   string
	Reason    string
	Since     *time.Time
	PageSize  int
	PageToken string
}

// Query handles the price history audit query.
type Query struct {
	repo contracts.PriceHistoryRepository
}

// NewQuery creates a new get price history query.
func NewQuery(repo contracts.PriceHistoryRepository) *Query {
	return &Query{repo: repo}
}

// Execute returns one page of the quote's price history, newest first.
func (q *Query) Execute(ctx context.Context, req *Request) (*contracts.HistoryPageDTO, error) {
	page, err := q.repo.List(ctx, &contracts.HistoryFilter{
		QuoteID:   req.QuoteID,
		Reason:    req.Reason,
		Since:     req.Since,
		PageSize:  req.PageSize,
		PageToken: req.PageToken,
	})
	if err != nil {
		return nil, err
	}

	dto := &contracts.HistoryPageDTO{
		Entries:       make([]contracts.HistoryEntryDTO, 0, len(page.Entries)),
		NextPageToken: page.NextPageToken,
	}
	for _, e := range page.Entries {
		dto.Entries = append(dto.Entries, contracts.HistoryEntryDTO{
			HistoryID: e.ID,
			Price:     e.Price.String(),
			Reason:    string(e.Reason),
			UserID:    e.UserID,
			ChangedAt: e.Timestamp,
		})
	}
	return dto, nil
}
