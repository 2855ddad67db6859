package m_quote

import (
	"time"

	"cloud.google.com/go/spanner"
)

// Data represents the database model for the quotes table.
// LinkedPackage and Events hold JSON documents.
type Data struct {
	QuoteID        string              `spanner:"quote_id"`
	Currency       string              `spanner:"currency"`
	Inclusions     string              `spanner:"inclusions"`
	Exclusions     string              `spanner:"exclusions"`
	NumberOfPeople int64               `spanner:"number_of_people"`
	NumberOfNights int64               `spanner:"number_of_nights"`
	ArrivalDate    time.Time           `spanner:"arrival_date"`
	TotalPrice     spanner.NullNumeric `spanner:"total_price"`
	LinkedPackage  spanner.NullString  `spanner:"linked_package"`
	Events         spanner.NullString  `spanner:"events"`
	Version        int64               `spanner:"version"`
	CreatedAt      time.Time           `spanner:"created_at"`
	UpdatedAt      time.Time           `spanner:"updated_at"`
}
