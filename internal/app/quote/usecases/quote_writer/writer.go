// Package quote_writer turns a modified Quote aggregate into one atomic commit:
// the quote row, its new price history rows and its outbox events.
package quote_writer

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"cloud.google.com/go/spanner"

	"github.com/light-bringer/quote-pricing-service/internal/app/quote/contracts"
	"github.com/light-bringer/quote-pricing-service/internal/app/quote/domain"
	"github.com/light-bringer/quote-pricing-service/internal/models/m_quote"
	"github.com/light-bringer/quote-pricing-service/internal/pkg/clock"
	"github.com/light-bringer/quote-pricing-service/internal/pkg/committer"
)

// Writer persists Quote aggregates following the Golden Mutation Pattern.
type Writer struct {
	repo        contracts.QuoteRepository
	historyRepo contracts.PriceHistoryRepository
	outboxRepo  contracts.OutboxRepository
	committer   contracts.Committer
	clock       clock.Clock
}

// NewWriter creates a new Writer.
func NewWriter(
	repo contracts.QuoteRepository,
	historyRepo contracts.PriceHistoryRepository,
	outboxRepo contracts.OutboxRepository,
	committer contracts.Committer,
	clock clock.Clock,
) *Writer {
	return &Writer{
		repo:        repo,
		historyRepo: historyRepo,
		outboxRepo:  outboxRepo,
		committer:   committer,
		clock:       clock,
	}
}

// Create inserts a new quote.
func (w *Writer) Create(ctx context.Context, q *domain.Quote) error {
	// Clear events on function exit to prevent duplicates on retry
	defer q.ClearEvents()

	// 1. Create commit plan
	plan := committer.NewPlan()

	// 2. Add repository mutation
	mut, err := w.repo.InsertMut(q)
	if err != nil {
		return err
	}
	plan.Add(mut)

	// 3. Add history rows and outbox events
	if err := w.addChildren(plan, q); err != nil {
		return err
	}

	// 4. Apply plan
	if err := w.committer.Apply(ctx, plan); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	q.MarkCommitted(q.Version(), w.clock.Now())
	return nil
}

// Save writes the quote's dirty columns, new history rows and outbox events, guarded by
// the version the quote was loaded at.
func (w *Writer) Save(ctx context.Context, q *domain.Quote) error {
	defer q.ClearEvents()

	plan := committer.NewPlan()

	mut, err := w.repo.UpdateMut(q)
	if err != nil {
		return err
	}
	plan.Add(mut)

	if err := w.addChildren(plan, q); err != nil {
		return err
	}

	if plan.IsEmpty() {
		return nil // No changes
	}

	check := committer.VersionCheck{
		Table:    m_quote.TableName,
		Key:      spanner.Key{q.ID()},
		Column:   m_quote.Version,
		Expected: q.Version(),
	}
	if err := w.committer.ApplyWithVersionCheck(ctx, check, plan); err != nil {
		if errors.Is(err, committer.ErrVersionConflict) {
			return fmt.Errorf("%w: %v", domain.ErrVersionConflict, err)
		}
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	version := q.Version()
	if mut != nil {
		version++
	}
	q.MarkCommitted(version, w.clock.Now())
	return nil
}

// addChildren appends the unsaved history entries, numbered after the persisted ones,
// and one outbox row per domain event.
func (w *Writer) addChildren(plan *committer.CommitPlan, q *domain.Quote) error {
	fresh := q.NewHistoryEntries()
	next := int64(len(q.PriceHistory())-len(fresh)) + 1
	for i, entry := range fresh {
		plan.Add(w.historyRepo.InsertMut(q.ID(), next+int64(i), entry))
	}

	for _, event := range q.DomainEvents() {
		payload, err := serializeEvent(event)
		if err != nil {
			return fmt.Errorf("failed to serialize event: %w", err)
		}
		plan.Add(w.outboxRepo.InsertMut(w.outboxRepo.EnrichEvent(event, payload)))
	}

	return nil
}

// serializeEvent converts a domain event to JSON payload.
func serializeEvent(event domain.DomainEvent) (string, error) {
	data, err := json.Marshal(event)
	if err != nil {
		return "", err
	}
	return string(data), nil
}
