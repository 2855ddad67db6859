package repo

import (
	"context"
	"fmt"
	"strconv"

	"cloud.google.com/go/spanner"
	"google.golang.org/api/iterator"

	"github.com/light-bringer/quote-pricing-service/internal/app/quote/contracts"
	"github.com/light-bringer/quote-pricing-service/internal/app/quote/domain"
	"github.com/light-bringer/quote-pricing-service/internal/models/m_price_history"
	"github.com/light-bringer/quote-pricing-service/internal/pkg/query"
)

const (
	defaultHistoryPageSize = 50
	maxHistoryPageSize     = 200
)

// PriceHistoryRepo implements PriceHistoryRepository for Spanner.
type PriceHistoryRepo struct {
	client *spanner.Client
	model  *m_price_history.Model
}

// NewPriceHistoryRepo creates a new PriceHistoryRepo.
func NewPriceHistoryRepo(client *spanner.Client) contracts.PriceHistoryRepository {
	return &PriceHistoryRepo{
		client: client,
		model:  m_price_history.NewModel(),
	}
}

// InsertMut creates a mutation for inserting a price change record.
func (r *PriceHistoryRepo) InsertMut(quoteID string, seq int64, entry domain.PriceHistoryEntry) *spanner.Mutation {
	return r.model.InsertMut(&m_price_history.Data{
		QuoteID:   quoteID,
		Sequence:  seq,
		HistoryID: entry.ID,
		Price:     moneyToNumeric(entry.Price),
		Reason:    string(entry.Reason),
		UserID:    entry.UserID,
		ChangedAt: entry.Timestamp,
	})
}

// List returns a page of history rows, newest first. The page token is the
// sequence number of the last row on the previous page.
func (r *PriceHistoryRepo) List(ctx context.Context, filter *contracts.HistoryFilter) (*contracts.HistoryPage, error) {
	stmt, pageSize, err := buildHistoryQuery(filter)
	if err != nil {
		return nil, err
	}

	iter := r.client.Single().Query(ctx, stmt)
	defer iter.Stop()

	page := &contracts.HistoryPage{}
	var lastSeq int64
	for {
		row, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to iterate price history: %w", err)
		}

		if len(page.Entries) == pageSize {
			page.NextPageToken = strconv.FormatInt(lastSeq, 10)
			break
		}

		var data m_price_history.Data
		if err := row.ToStruct(&data); err != nil {
			return nil, fmt.Errorf("failed to parse price history: %w", err)
		}

		entry, err := historyDataToDomain(&data)
		if err != nil {
			return nil, err
		}
		page.Entries = append(page.Entries, entry)
		lastSeq = data.Sequence
	}

	return page, nil
}

// buildHistoryQuery fetches one row beyond the page size to detect a following page.
func buildHistoryQuery(filter *contracts.HistoryFilter) (spanner.Statement, int, error) {
	if filter == nil || filter.QuoteID == "" {
		return spanner.Statement{}, 0, fmt.Errorf("%w: quote id is required", domain.ErrInvalidParams)
	}

	pageSize := filter.PageSize
	if pageSize <= 0 {
		pageSize = defaultHistoryPageSize
	}
	if pageSize > maxHistoryPageSize {
		pageSize = maxHistoryPageSize
	}

	b := query.From(m_price_history.TableName).
		Select(m_price_history.Columns...).
		Where(query.Eq(m_price_history.QuoteID, filter.QuoteID))

	if filter.Reason != "" {
		reason := domain.PriceChangeReason(filter.Reason)
		if !reason.Valid() {
			return spanner.Statement{}, 0, fmt.Errorf("%w: unknown reason %q", domain.ErrInvalidParams, filter.Reason)
		}
		b = b.Where(query.Eq(m_price_history.Reason, filter.Reason))
	}

	if filter.Since != nil {
		b = b.Where(query.Gte(m_price_history.ChangedAt, *filter.Since))
	}

	if filter.PageToken != "" {
		seq, err := strconv.ParseInt(filter.PageToken, 10, 64)
		if err != nil || seq <= 0 {
			return spanner.Statement{}, 0, fmt.Errorf("%w: invalid page token", domain.ErrInvalidParams)
		}
		b = b.Where(query.Lt(m_price_history.Sequence, seq))
	}

	stmt := b.OrderBy(m_price_history.Sequence, query.Desc).
		Limit(int64(pageSize) + 1).
		Build()

	return stmt, pageSize, nil
}

// historyDataToDomain converts database Data to a domain PriceHistoryEntry.
func historyDataToDomain(data *m_price_history.Data) (domain.PriceHistoryEntry, error) {
	price, err := numericToMoney(data.Price)
	if err != nil {
		return domain.PriceHistoryEntry{}, fmt.Errorf("history entry %s: %w", data.HistoryID, err)
	}
	if price == nil {
		return domain.PriceHistoryEntry{}, fmt.Errorf("history entry %s has no price", data.HistoryID)
	}

	return domain.PriceHistoryEntry{
		ID:        data.HistoryID,
		Price:     price,
		Reason:    domain.PriceChangeReason(data.Reason),
		Timestamp: data.ChangedAt,
		UserID:    data.UserID,
	}, nil
}
