package domain

import "time"

// DomainEvent is the base interface for all domain events.
type DomainEvent interface {
	EventType() string
	AggregateID() string
}

// QuoteCreatedEvent is emitted when a quote is created.
type QuoteCreatedEvent struct {
	QuoteID   string
	Currency  string
	CreatedAt time.Time
}

func (e *QuoteCreatedEvent) EventType() string   { return "quote.created" }
func (e *QuoteCreatedEvent) AggregateID() string { return e.QuoteID }

// QuoteParametersChangedEvent is emitted when people, nights or arrival date change.
type QuoteParametersChangedEvent struct {
	QuoteID        string
	NumberOfPeople int
	NumberOfNights int
	ArrivalDate    time.Time
	ChangedAt      time.Time
}

func (e *QuoteParametersChangedEvent) EventType() string   { return "quote.parameters.changed" }
func (e *QuoteParametersChangedEvent) AggregateID() string { return e.QuoteID }

// PackageLinkedEvent is emitted when a package is selected for a quote.
type PackageLinkedEvent struct {
	QuoteID         string
	PackageID       string
	PackageVersion  int64
	TierLabel       string
	PeriodLabel     string
	CalculatedPrice string
	LinkedAt        time.Time
}

func (e *PackageLinkedEvent) EventType() string   { return "quote.package.linked" }
func (e *PackageLinkedEvent) AggregateID() string { return e.QuoteID }

// PriceRecalculatedEvent is emitted when a linked quote receives a new calculation.
// TotalApplied is false when a manual override kept the total unchanged.
type PriceRecalculatedEvent struct {
	QuoteID         string
	PackageID       string
	PackageVersion  int64
	CalculatedPrice string
	TotalApplied    bool
	RecalculatedAt  time.Time
}

func (e *PriceRecalculatedEvent) EventType() string   { return "quote.price.recalculated" }
func (e *PriceRecalculatedEvent) AggregateID() string { return e.QuoteID }

// PriceOverriddenEvent is emitted when a user sets the total price manually.
type PriceOverriddenEvent struct {
	QuoteID    string
	TotalPrice string
	ChangedBy  string
	ChangedAt  time.Time
}

func (e *PriceOverriddenEvent) EventType() string   { return "quote.price.overridden" }
func (e *PriceOverriddenEvent) AggregateID() string { return e.QuoteID }

// PriceResetEvent is emitted when a manual override is discarded.
type PriceResetEvent struct {
	QuoteID    string
	TotalPrice string
	ChangedBy  string
	ChangedAt  time.Time
}

func (e *PriceResetEvent) EventType() string   { return "quote.price.reset" }
func (e *PriceResetEvent) AggregateID() string { return e.QuoteID }

// PackageUnlinkedEvent is emitted when a quote stops following its package.
type PackageUnlinkedEvent struct {
	QuoteID    string
	PackageID  string
	UnlinkedBy string
	UnlinkedAt time.Time
}

func (e *PackageUnlinkedEvent) EventType() string   { return "quote.package.unlinked" }
func (e *PackageUnlinkedEvent) AggregateID() string { return e.QuoteID }

// EventAddedEvent is emitted when an itinerary event is added.
type EventAddedEvent struct {
	QuoteID string
	EventID string
	Title   string
	Price   string
	AddedAt time.Time
}

func (e *EventAddedEvent) EventType() string   { return "quote.event.added" }
func (e *EventAddedEvent) AggregateID() string { return e.QuoteID }

// EventRemovedEvent is emitted when an itinerary event is removed.
type EventRemovedEvent struct {
	QuoteID   string
	EventID   string
	RemovedAt time.Time
}

func (e *EventRemovedEvent) EventType() string   { return "quote.event.removed" }
func (e *EventRemovedEvent) AggregateID() string { return e.QuoteID }
