package repo

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"cloud.google.com/go/spanner"
	"github.com/google/uuid"
	"google.golang.org/api/iterator"

	"github.com/light-bringer/quote-pricing-service/internal/app/quote/contracts"
	"github.com/light-bringer/quote-pricing-service/internal/app/quote/domain"
	"github.com/light-bringer/quote-pricing-service/internal/models/m_outbox"
	"github.com/light-bringer/quote-pricing-service/internal/pkg/query"
)

// OutboxRepo implements OutboxRepository for Spanner.
type OutboxRepo struct {
	client *spanner.Client
	model  *m_outbox.Model
}

// NewOutboxRepo creates a new OutboxRepo.
func NewOutboxRepo(client *spanner.Client) *OutboxRepo {
	return &OutboxRepo{
		client: client,
		model:  m_outbox.NewModel(),
	}
}

// InsertMut creates a mutation for inserting an outbox event.
func (r *OutboxRepo) InsertMut(event *contracts.OutboxEvent) *spanner.Mutation {
	// RawMessage keeps the serialized payload from being encoded a second time
	payload := spanner.NullJSON{Value: json.RawMessage(event.Payload), Valid: event.Payload != ""}

	data := &m_outbox.Data{
		EventID:     event.EventID,
		EventType:   event.EventType,
		AggregateID: event.AggregateID,
		Payload:     payload,
		Status:      event.Status,
	}

	return r.model.InsertMut(data)
}

// EnrichEvent converts a domain event to an outbox event with metadata.
func (r *OutboxRepo) EnrichEvent(event domain.DomainEvent, payload string) *contracts.OutboxEvent {
	return &contracts.OutboxEvent{
		EventID:     uuid.New().String(),
		EventType:   event.EventType(),
		AggregateID: event.AggregateID(),
		Payload:     payload,
		Status:      m_outbox.StatusPending,
	}
}

// ListByAggregate returns a quote's outbox events, oldest first.
func (r *OutboxRepo) ListByAggregate(ctx context.Context, aggregateID string, limit int64) ([]*contracts.OutboxEvent, error) {
	b := query.From(m_outbox.TableName).
		Select(m_outbox.EventID, m_outbox.EventType, m_outbox.AggregateID, m_outbox.Payload, m_outbox.Status).
		Where(query.Eq(m_outbox.AggregateID, aggregateID)).
		OrderBy(m_outbox.CreatedAt, query.Asc)
	if limit > 0 {
		b = b.Limit(limit)
	}

	iter := r.client.Single().Query(ctx, b.Build())
	defer iter.Stop()

	var events []*contracts.OutboxEvent
	for {
		row, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to iterate outbox events: %w", err)
		}

		var (
			event   contracts.OutboxEvent
			payload spanner.NullJSON
		)
		if err := row.Columns(&event.EventID, &event.EventType, &event.AggregateID, &payload, &event.Status); err != nil {
			return nil, fmt.Errorf("failed to parse outbox event: %w", err)
		}
		if payload.Valid {
			event.Payload = payload.String()
		}
		events = append(events, &event)
	}

	return events, nil
}

// MarkProcessedMut records the consumer's verdict on an event.
func (r *OutboxRepo) MarkProcessedMut(eventID, status string, processedAt time.Time, errorMessage string) *spanner.Mutation {
	return r.model.MarkProcessedMut(eventID, status, processedAt, errorMessage)
}

// CountBefore counts events in status processed before cutoff.
func (r *OutboxRepo) CountBefore(ctx context.Context, status string, cutoff time.Time) (int64, error) {
	stmt := query.From(m_outbox.TableName).
		Where(query.Eq(m_outbox.Status, status)).
		Where(query.Lt(m_outbox.ProcessedAt, cutoff)).
		Count().
		Build()

	iter := r.client.Single().Query(ctx, stmt)
	defer iter.Stop()

	row, err := iter.Next()
	if err != nil {
		return 0, fmt.Errorf("failed to count outbox events: %w", err)
	}
	var count int64
	if err := row.Columns(&count); err != nil {
		return 0, fmt.Errorf("failed to parse count: %w", err)
	}
	return count, nil
}

// DeleteBefore removes events in status processed before cutoff and returns how many went.
func (r *OutboxRepo) DeleteBefore(ctx context.Context, status string, cutoff time.Time) (int64, error) {
	var deleted int64
	_, err := r.client.ReadWriteTransaction(ctx, func(ctx context.Context, txn *spanner.ReadWriteTransaction) error {
		stmt := spanner.Statement{
			SQL: fmt.Sprintf("DELETE FROM %s WHERE %s = @status AND %s < @cutoff",
				m_outbox.TableName, m_outbox.Status, m_outbox.ProcessedAt),
			Params: map[string]interface{}{
				"status": status,
				"cutoff": cutoff,
			},
		}
		n, err := txn.Update(ctx, stmt)
		deleted = n
		return err
	})
	if err != nil {
		return 0, fmt.Errorf("failed to delete %s outbox events: %w", status, err)
	}
	return deleted, nil
}
