package m_price_history

import (
	"time"

	"cloud.google.com/go/spanner"
)

// Data represents a price history record in the database.
// Rows are keyed by (quote_id, sequence) and are never updated.
type Data struct {
	QuoteID   string              `spanner:"quote_id"`
	Sequence  int64               `spanner:"sequence"`
	HistoryID string              `spanner:"history_id"`
	Price     spanner.NullNumeric `spanner:"price"`
	Reason    string              `spanner:"reason"`
	UserID    string              `spanner:"user_id"`
	ChangedAt time.Time           `spanner:"changed_at"`
}

// Model provides type-safe database operations for price history.
type Model struct{}

// NewModel creates a new price history model.
func NewModel() *Model {
	return &Model{}
}

// InsertMut creates a mutation for inserting a price history record.
func (m *Model) InsertMut(data *Data) *spanner.Mutation {
	return spanner.Insert(
		TableName,
		Columns,
		[]interface{}{
			data.QuoteID,
			data.Sequence,
			data.HistoryID,
			data.Price,
			data.Reason,
			data.UserID,
			data.ChangedAt,
		},
	)
}
