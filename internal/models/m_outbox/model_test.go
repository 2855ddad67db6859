package m_outbox

import (
	"testing"
	"time"

	"cloud.google.com/go/spanner"
	"github.com/stretchr/testify/assert"
)

func TestModel(t *testing.T) {
	m := NewModel()

	assert.NotNil(t, m.InsertMut(&Data{
		EventID:     "e1",
		EventType:   "quote.created",
		AggregateID: "quote-1",
		Payload:     spanner.NullJSON{Value: map[string]string{"quoteId": "quote-1"}, Valid: true},
		Status:      StatusPending,
	}))
	assert.NotNil(t, m.MarkProcessedMut("e1", StatusCompleted, time.Now(), ""))
}
