package m_price_history

// Table name constant
const TableName = "price_history"

// Field name constants for type-safe database access
const (
	QuoteID   = "quote_id"
	Sequence  = "sequence"
	HistoryID = "history_id"
	Price     = "price"
	Reason    = "reason"
	UserID    = "user_id"
	ChangedAt = "changed_at"
)

// Columns lists every column in read order.
var Columns = []string{QuoteID, Sequence, HistoryID, Price, Reason, UserID, ChangedAt}
