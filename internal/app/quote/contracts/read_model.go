package contracts

import (
	"time"

	"github.com/light-bringer/quote-pricing-service/internal/app/quote/domain"
)

// QuoteDTO is a data transfer object for quote queries. Amounts are decimal strings.
type QuoteDTO struct {
	QuoteID        string            `json:"quoteId"`
	Currency       string            `json:"currency"`
	Inclusions     string            `json:"inclusions"`
	Exclusions     string            `json:"exclusions"`
	NumberOfPeople int               `json:"numberOfPeople"`
	NumberOfNights int               `json:"numberOfNights"`
	ArrivalDate    string            `json:"arrivalDate"`
	TotalPrice     *string           `json:"totalPrice"`
	State          string            `json:"state"`
	LinkedPackage  *LinkedPackageDTO `json:"linkedPackage,omitempty"`
	Events         []EventDTO        `json:"events"`
	Version        int64             `json:"version"`
	CreatedAt      time.Time         `json:"createdAt"`
	UpdatedAt      time.Time         `json:"updatedAt"`
}

// LinkedPackageDTO describes the package a quote's price came from.
type LinkedPackageDTO struct {
	PackageID           string    `json:"packageId"`
	PackageVersion      int64     `json:"packageVersion"`
	SelectedTierIndex   int       `json:"selectedTierIndex"`
	SelectedTierLabel   string    `json:"selectedTierLabel"`
	SelectedPeriodLabel string    `json:"selectedPeriodLabel"`
	CalculatedPrice     string    `json:"calculatedPrice"`
	CustomPriceApplied  bool      `json:"customPriceApplied"`
	PriceWasOnRequest   bool      `json:"priceWasOnRequest"`
	LastRecalculatedAt  time.Time `json:"lastRecalculatedAt"`
}

// EventDTO is one priced itinerary event.
type EventDTO struct {
	EventID string    `json:"eventId"`
	Title   string    `json:"title"`
	Price   string    `json:"price"`
	AddedAt time.Time `json:"addedAt"`
}

// PriceDTO is the result of a price calculation.
type PriceDTO struct {
	PackageID           string           `json:"packageId"`
	PackageVersion      int64            `json:"packageVersion"`
	Price               string           `json:"price"`
	OnRequest           bool             `json:"onRequest"`
	TierLabel           string           `json:"tierLabel"`
	PeriodLabel         string           `json:"periodLabel"`
	Nights              int              `json:"nights"`
	TierApproximate     bool             `json:"tierApproximate"`
	DurationApproximate bool             `json:"durationApproximate"`
	Warnings            []domain.Warning `json:"warnings"`
	FromCache           bool             `json:"fromCache"`
}

// HistoryEntryDTO is one price history row.
type HistoryEntryDTO struct {
	HistoryID string    `json:"historyId"`
	Price     string    `json:"price"`
	Reason    string    `json:"reason"`
	UserID    string    `json:"userId"`
	ChangedAt time.Time `json:"changedAt"`
}

// HistoryPageDTO is one page of price history.
type HistoryPageDTO struct {
	Entries       []HistoryEntryDTO `json:"entries"`
	NextPageToken string            `json:"nextPageToken,omitempty"`
}
