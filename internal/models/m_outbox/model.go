package m_outbox

import (
	"time"

	"cloud.google.com/go/spanner"
)

// Model builds mutations for the outbox_events table.
type Model struct{}

// NewModel creates a new Model instance.
func NewModel() *Model {
	return &Model{}
}

// InsertMut inserts a pending event stamped with the commit timestamp.
func (m *Model) InsertMut(data *Data) *spanner.Mutation {
	return spanner.Insert(
		TableName,
		[]string{EventID, EventType, AggregateID, Payload, Status, CreatedAt, RetryCount},
		[]interface{}{
			data.EventID,
			data.EventType,
			data.AggregateID,
			data.Payload,
			data.Status,
			spanner.CommitTimestamp,
			data.RetryCount,
		},
	)
}

// MarkProcessedMut sets the final status of an event. An empty errorMessage is stored as NULL.
func (m *Model) MarkProcessedMut(eventID, status string, processedAt time.Time, errorMessage string) *spanner.Mutation {
	return spanner.Update(
		TableName,
		[]string{EventID, Status, ProcessedAt, ErrorMessage},
		[]interface{}{
			eventID,
			status,
			processedAt,
			spanner.NullString{StringVal: errorMessage, Valid: errorMessage != ""},
		},
	)
}
