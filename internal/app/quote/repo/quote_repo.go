package repo

import (
	"context"
	"encoding/json"
	"fmt"

	"cloud.google.com/go/spanner"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"

	"github.com/light-bringer/quote-pricing-service/internal/app/quote/contracts"
	"github.com/light-bringer/quote-pricing-service/internal/app/quote/domain"
	"github.com/light-bringer/quote-pricing-service/internal/models/m_price_history"
	"github.com/light-bringer/quote-pricing-service/internal/models/m_quote"
	"github.com/light-bringer/quote-pricing-service/internal/pkg/clock"
	"github.com/light-bringer/quote-pricing-service/internal/pkg/query"
)

// QuoteRepo implements QuoteRepository for Spanner.
type QuoteRepo struct {
	client *spanner.Client
	model  *m_quote.Model
	clock  clock.Clock
}

// NewQuoteRepo creates a new QuoteRepo.
func NewQuoteRepo(client *spanner.Client, clk clock.Clock) contracts.QuoteRepository {
	return &QuoteRepo{
		client: client,
		model:  m_quote.NewModel(),
		clock:  clk,
	}
}

// InsertMut creates a mutation for inserting a new quote.
func (r *QuoteRepo) InsertMut(quote *domain.Quote) (*spanner.Mutation, error) {
	data, err := quoteToData(quote)
	if err != nil {
		return nil, err
	}
	return r.model.InsertMut(data), nil
}

// UpdateMut creates a mutation for updating a quote (only dirty fields).
func (r *QuoteRepo) UpdateMut(quote *domain.Quote) (*spanner.Mutation, error) {
	changes := quote.Changes()
	if !changes.HasChanges() {
		return nil, nil
	}

	updates := make(map[string]interface{})

	if changes.Dirty(domain.FieldParameters) {
		params := quote.Params()
		updates[m_quote.NumberOfPeople] = int64(params.NumberOfPeople)
		updates[m_quote.NumberOfNights] = int64(params.NumberOfNights)
		updates[m_quote.ArrivalDate] = params.ArrivalDate
	}

	if changes.Dirty(domain.FieldDetails) {
		updates[m_quote.Currency] = quote.Currency()
		updates[m_quote.Inclusions] = quote.Inclusions()
		updates[m_quote.Exclusions] = quote.Exclusions()
	}

	if changes.Dirty(domain.FieldTotalPrice) {
		updates[m_quote.TotalPrice] = moneyToNumeric(quote.TotalPrice())
	}

	if changes.Dirty(domain.FieldLinkedPackage) {
		lp, err := encodeLinkedPackage(quote.LinkedPackage())
		if err != nil {
			return nil, err
		}
		updates[m_quote.LinkedPackage] = lp
	}

	if changes.Dirty(domain.FieldEvents) {
		events, err := encodeEvents(quote.Events())
		if err != nil {
			return nil, err
		}
		updates[m_quote.Events] = events
	}

	if len(updates) == 0 {
		return nil, nil
	}

	updates[m_quote.UpdatedAt] = r.clock.Now()

	// Increment version for optimistic locking
	updates[m_quote.Version] = quote.Version() + 1

	return r.model.UpdateMut(quote.ID(), updates), nil
}

// GetByID reads the quote row and its price history in one read-only transaction.
func (r *QuoteRepo) GetByID(ctx context.Context, quoteID string) (*domain.Quote, error) {
	txn := r.client.ReadOnlyTransaction()
	defer txn.Close()

	row, err := txn.ReadRow(ctx, m_quote.TableName, spanner.Key{quoteID}, m_quote.Columns)
	if err != nil {
		if spanner.ErrCode(err) == codes.NotFound {
			return nil, domain.ErrQuoteNotFound
		}
		return nil, fmt.Errorf("failed to read quote: %w", err)
	}

	var data m_quote.Data
	if err := row.ToStruct(&data); err != nil {
		return nil, fmt.Errorf("failed to parse quote: %w", err)
	}

	history, err := r.readHistory(ctx, txn, quoteID)
	if err != nil {
		return nil, err
	}

	snapshot, err := dataToSnapshot(&data)
	if err != nil {
		return nil, err
	}
	snapshot.PriceHistory = history

	return domain.ReconstructQuote(snapshot, r.clock), nil
}

func (r *QuoteRepo) readHistory(ctx context.Context, txn *spanner.ReadOnlyTransaction, quoteID string) ([]domain.PriceHistoryEntry, error) {
	stmt := query.From(m_price_history.TableName).
		Select(m_price_history.Columns...).
		Where(query.Eq(m_price_history.QuoteID, quoteID)).
		OrderBy(m_price_history.Sequence, query.Asc).
		Build()

	iter := txn.Query(ctx, stmt)
	defer iter.Stop()

	var entries []domain.PriceHistoryEntry
	for {
		row, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to iterate price history: %w", err)
		}

		var data m_price_history.Data
		if err := row.ToStruct(&data); err != nil {
			return nil, fmt.Errorf("failed to parse price history: %w", err)
		}

		entry, err := historyDataToDomain(&data)
		if err != nil {
			return nil, err
		}
		entries = append(entries, entry)
	}

	return entries, nil
}

// quoteToData converts a domain Quote to database Data.
func quoteToData(quote *domain.Quote) (*m_quote.Data, error) {
	lp, err := encodeLinkedPackage(quote.LinkedPackage())
	if err != nil {
		return nil, err
	}
	events, err := encodeEvents(quote.Events())
	if err != nil {
		return nil, err
	}

	params := quote.Params()
	return &m_quote.Data{
		QuoteID:        quote.ID(),
		Currency:       quote.Currency(),
		Inclusions:     quote.Inclusions(),
		Exclusions:     quote.Exclusions(),
		NumberOfPeople: int64(params.NumberOfPeople),
		NumberOfNights: int64(params.NumberOfNights),
		ArrivalDate:    params.ArrivalDate,
		TotalPrice:     moneyToNumeric(quote.TotalPrice()),
		LinkedPackage:  lp,
		Events:         events,
		Version:        quote.Version(),
		CreatedAt:      quote.CreatedAt(),
		UpdatedAt:      quote.UpdatedAt(),
	}, nil
}

// dataToSnapshot converts database Data to a QuoteSnapshot without history.
func dataToSnapshot(data *m_quote.Data) (domain.QuoteSnapshot, error) {
	total, err := numericToMoney(data.TotalPrice)
	if err != nil {
		return domain.QuoteSnapshot{}, fmt.Errorf("quote %s total price: %w", data.QuoteID, err)
	}

	var lp *domain.LinkedPackage
	if data.LinkedPackage.Valid && data.LinkedPackage.StringVal != "" {
		lp = &domain.LinkedPackage{}
		if err := json.Unmarshal([]byte(data.LinkedPackage.StringVal), lp); err != nil {
			return domain.QuoteSnapshot{}, fmt.Errorf("quote %s linked package: %w", data.QuoteID, err)
		}
	}

	var events []domain.ItineraryEvent
	if data.Events.Valid && data.Events.StringVal != "" {
		if err := json.Unmarshal([]byte(data.Events.StringVal), &events); err != nil {
			return domain.QuoteSnapshot{}, fmt.Errorf("quote %s events: %w", data.QuoteID, err)
		}
	}

	return domain.QuoteSnapshot{
		ID:         data.QuoteID,
		Currency:   data.Currency,
		Inclusions: data.Inclusions,
		Exclusions: data.Exclusions,
		Params: domain.Params{
			NumberOfPeople: int(data.NumberOfPeople),
			NumberOfNights: int(data.NumberOfNights),
			ArrivalDate:    data.ArrivalDate,
		},
		TotalPrice:    total,
		LinkedPackage: lp,
		Events:        events,
		Version:       data.Version,
		CreatedAt:     data.CreatedAt,
		UpdatedAt:     data.UpdatedAt,
	}, nil
}

func encodeLinkedPackage(lp *domain.LinkedPackage) (spanner.NullString, error) {
	if lp == nil {
		return spanner.NullString{}, nil
	}
	b, err := json.Marshal(lp)
	if err != nil {
		return spanner.NullString{}, fmt.Errorf("failed to encode linked package: %w", err)
	}
	return spanner.NullString{StringVal: string(b), Valid: true}, nil
}

func encodeEvents(events []domain.ItineraryEvent) (spanner.NullString, error) {
	if len(events) == 0 {
		return spanner.NullString{}, nil
	}
	b, err := json.Marshal(events)
	if err != nil {
		return spanner.NullString{}, fmt.Errorf("failed to encode events: %w", err)
	}
	return spanner.NullString{StringVal: string(b), Valid: true}, nil
}
