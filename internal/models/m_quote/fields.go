package m_quote

// Field name constants for the quotes table.
const (
	TableName = "quotes"

	QuoteID        = "quote_id"
	Currency       = "currency"
	Inclusions     = "inclusions"
	Exclusions     = "exclusions"
	NumberOfPeople = "number_of_people"
	NumberOfNights = "number_of_nights"
	ArrivalDate    = "arrival_date"
	TotalPrice     = "total_price"
	LinkedPackage  = "linked_package"
	Events         = "events"
	Version        = "version"
	CreatedAt      = "created_at"
	UpdatedAt      = "updated_at"
)

// Columns lists every column in read order.
var Columns = []string{
	QuoteID,
	Currency,
	Inclusions,
	Exclusions,
	NumberOfPeople,
	NumberOfNights,
	ArrivalDate,
	TotalPrice,
	LinkedPackage,
	Events,
	Version,
	CreatedAt,
	UpdatedAt,
}
