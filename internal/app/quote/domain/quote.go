package domain

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/light-bringer/quote-pricing-service/internal/pkg/clock"
)

// QuoteState is the package-link state of a quote, derived from its linked package.
type QuoteState string

const (
	StateUnlinked   QuoteState = "unlinked"
	StateLinked     QuoteState = "linked"
	StateCustomized QuoteState = "customized"
)

// LinkedPackage records which package, tier and period a quote's price was derived from.
type LinkedPackage struct {
	PackageID           string    `json:"packageId"`
	PackageVersion      int64     `json:"packageVersion"`
	SelectedTierIndex   int       `json:"selectedTierIndex"`
	SelectedTierLabel   string    `json:"selectedTierLabel"`
	SelectedPeriodLabel string    `json:"selectedPeriodLabel"`
	CalculatedPrice     Price     `json:"calculatedPrice"`
	CustomPriceApplied  bool      `json:"customPriceApplied"`
	PriceWasOnRequest   bool      `json:"priceWasOnRequest"`
	LastRecalculatedAt  time.Time `json:"lastRecalculatedAt"`
}

// ItineraryEvent is a priced add-on (excursion, transfer, dinner) on top of the package price.
type ItineraryEvent struct {
	ID      string    `json:"id"`
	Title   string    `json:"title"`
	Price   *Money    `json:"price"`
	AddedAt time.Time `json:"addedAt"`
}

// PackageLink carries a successful calculation to the quote.
type PackageLink struct {
	PackageID      string
	PackageVersion int64
	Resolution     *Resolution
	CalculatedAt   time.Time
}

// QuoteSnapshot is the persisted shape of a quote, used to load and store the aggregate.
type QuoteSnapshot struct {
	ID            string
	Currency      string
	Inclusions    string
	Exclusions    string
	Params        Params
	TotalPrice    *Money
	LinkedPackage *LinkedPackage
	Events        []ItineraryEvent
	PriceHistory  []PriceHistoryEntry
	Version       int64
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// Quote is the aggregate root for a holiday quote's pricing.
// Every change of the total price goes through the price history tracker.
type Quote struct {
	id         string
	currency   string
	inclusions string
	exclusions string
	params     Params
	totalPrice *Money

	linkedPackage *LinkedPackage
	itinerary     []ItineraryEvent

	priceHistory     []PriceHistoryEntry
	persistedHistory int

	version   int64
	createdAt time.Time
	updatedAt time.Time

	clock   clock.Clock
	tracker *PriceHistoryTracker
	changes *ChangeTracker

	domainEvents []DomainEvent
}

// NewQuote creates a new, unlinked quote.
func NewQuote(id, currency string, params Params, now time.Time, clk clock.Clock) (*Quote, error) {
	if err := params.Validate(); err != nil {
		return nil, err
	}
	if strings.TrimSpace(currency) == "" {
		return nil, fmt.Errorf("%w: currency is required", ErrInvalidParams)
	}

	q := &Quote{
		id:           id,
		currency:     currency,
		params:       params,
		createdAt:    now,
		updatedAt:    now,
		clock:        clk,
		tracker:      NewPriceHistoryTracker(clk),
		changes:      NewChangeTracker(),
		domainEvents: make([]DomainEvent, 0),
	}
	q.changes.MarkDirty(FieldParameters, FieldDetails)

	q.recordEvent(&QuoteCreatedEvent{
		QuoteID:   id,
		Currency:  currency,
		CreatedAt: now,
	})

	return q, nil
}

// ReconstructQuote reconstitutes a Quote from storage.
func ReconstructQuote(s QuoteSnapshot, clk clock.Clock) *Quote {
	var lp *LinkedPackage
	if s.LinkedPackage != nil {
		copied := *s.LinkedPackage
		lp = &copied
	}

	history := append([]PriceHistoryEntry(nil), s.PriceHistory...)

	return &Quote{
		id:               s.ID,
		currency:         s.Currency,
		inclusions:       s.Inclusions,
		exclusions:       s.Exclusions,
		params:           s.Params,
		totalPrice:       s.TotalPrice.Copy(),
		linkedPackage:    lp,
		itinerary:        append([]ItineraryEvent(nil), s.Events...),
		priceHistory:     history,
		persistedHistory: len(history),
		version:          s.Version,
		createdAt:        s.CreatedAt,
		updatedAt:        s.UpdatedAt,
		clock:            clk,
		tracker:          NewPriceHistoryTracker(clk),
		changes:          NewChangeTracker(),
		domainEvents:     make([]DomainEvent, 0),
	}
}

// Getters
func (q *Quote) ID() string                  { return q.id }
func (q *Quote) Currency() string            { return q.currency }
func (q *Quote) Inclusions() string          { return q.inclusions }
func (q *Quote) Exclusions() string          { return q.exclusions }
func (q *Quote) Params() Params              { return q.params }
func (q *Quote) TotalPrice() *Money          { return q.totalPrice.Copy() }
func (q *Quote) Version() int64              { return q.version }
func (q *Quote) CreatedAt() time.Time        { return q.createdAt }
func (q *Quote) UpdatedAt() time.Time        { return q.updatedAt }
func (q *Quote) Changes() *ChangeTracker     { return q.changes }
func (q *Quote) DomainEvents() []DomainEvent { return q.domainEvents }

// LinkedPackage returns a copy of the linked package, or nil when unlinked.
func (q *Quote) LinkedPackage() *LinkedPackage {
	if q.linkedPackage == nil {
		return nil
	}
	copied := *q.linkedPackage
	return &copied
}

// Events returns a copy of the itinerary events.
func (q *Quote) Events() []ItineraryEvent {
	return append([]ItineraryEvent(nil), q.itinerary...)
}

// PriceHistory returns a copy of the full price audit log, oldest first.
func (q *Quote) PriceHistory() []PriceHistoryEntry {
	return append([]PriceHistoryEntry(nil), q.priceHistory...)
}

// NewHistoryEntries returns the entries appended since the quote was loaded or last committed.
func (q *Quote) NewHistoryEntries() []PriceHistoryEntry {
	return append([]PriceHistoryEntry(nil), q.priceHistory[q.persistedHistory:]...)
}

// State derives the link state.
func (q *Quote) State() QuoteState {
	switch {
	case q.linkedPackage == nil:
		return StateUnlinked
	case q.linkedPackage.CustomPriceApplied:
		return StateCustomized
	default:
		return StateLinked
	}
}

// IsLinked returns true if the quote is linked to a package.
func (q *Quote) IsLinked() bool {
	return q.linkedPackage != nil
}

// UpdateParameters replaces the trip parameters. It never touches the price.
func (q *Quote) UpdateParameters(params Params) error {
	if err := params.Validate(); err != nil {
		return err
	}

	q.params = params
	q.changes.MarkDirty(FieldParameters)

	q.recordEvent(&QuoteParametersChangedEvent{
		QuoteID:        q.id,
		NumberOfPeople: params.NumberOfPeople,
		NumberOfNights: params.NumberOfNights,
		ArrivalDate:    params.ArrivalDate,
		ChangedAt:      q.clock.Now(),
	})

	return nil
}

// UpdateDetails updates the currency and free-text inclusion fields.
func (q *Quote) UpdateDetails(currency, inclusions, exclusions string) error {
	if strings.TrimSpace(currency) == "" {
		return fmt.Errorf("%w: currency is required", ErrInvalidParams)
	}

	q.currency = currency
	q.inclusions = inclusions
	q.exclusions = exclusions
	q.changes.MarkDirty(FieldDetails)

	return nil
}

// LinkPackage links an unlinked quote to a package using a fresh calculation.
// An on-request price leaves the total as it was. A quote without a total then needs a
// manual price before it can be saved.
func (q *Quote) LinkPackage(link PackageLink, userID string) error {
	if q.linkedPackage != nil {
		return ErrAlreadyLinked
	}
	if err := checkLink(link, userID); err != nil {
		return err
	}

	res := link.Resolution
	q.linkedPackage = &LinkedPackage{
		PackageID:           link.PackageID,
		PackageVersion:      link.PackageVersion,
		SelectedTierIndex:   res.TierIndex,
		SelectedTierLabel:   res.TierLabel,
		SelectedPeriodLabel: res.PeriodLabel,
		CalculatedPrice:     res.Price,
		PriceWasOnRequest:   res.Price.IsOnRequest(),
		LastRecalculatedAt:  link.CalculatedAt,
	}
	q.changes.MarkDirty(FieldLinkedPackage)

	q.recordEvent(&PackageLinkedEvent{
		QuoteID:         q.id,
		PackageID:       link.PackageID,
		PackageVersion:  link.PackageVersion,
		TierLabel:       res.TierLabel,
		PeriodLabel:     res.PeriodLabel,
		CalculatedPrice: res.Price.String(),
		LinkedAt:        link.CalculatedAt,
	})

	amount, ok := res.Price.Amount()
	if !ok {
		return nil
	}
	return q.setTotal(amount.Add(q.eventsTotal()), ReasonPackageSelection, userID)
}

// ApplyRecalculation stores a new calculation on the linked package. In the linked state the
// total follows a numeric calculation; an on-request result keeps the current total. In the
// customized state only the calculated price changes.
// It reports whether the total price changed.
func (q *Quote) ApplyRecalculation(link PackageLink, userID string) (bool, error) {
	lp := q.linkedPackage
	if lp == nil {
		return false, ErrNotLinked
	}
	if err := checkLink(link, userID); err != nil {
		return false, err
	}
	if link.PackageID != lp.PackageID {
		return false, fmt.Errorf("%w: got %s, linked to %s", ErrPackageMismatch, link.PackageID, lp.PackageID)
	}

	res := link.Resolution
	lp.PackageVersion = link.PackageVersion
	lp.SelectedTierIndex = res.TierIndex
	lp.SelectedTierLabel = res.TierLabel
	lp.SelectedPeriodLabel = res.PeriodLabel
	lp.CalculatedPrice = res.Price
	lp.LastRecalculatedAt = link.CalculatedAt
	if res.Price.IsOnRequest() {
		lp.PriceWasOnRequest = true
	}
	q.changes.MarkDirty(FieldLinkedPackage)

	q.recordEvent(&PriceRecalculatedEvent{
		QuoteID:         q.id,
		PackageID:       lp.PackageID,
		PackageVersion:  lp.PackageVersion,
		CalculatedPrice: res.Price.String(),
		TotalApplied:    !lp.CustomPriceApplied,
		RecalculatedAt:  link.CalculatedAt,
	})

	if lp.CustomPriceApplied {
		return false, nil
	}

	amount, ok := res.Price.Amount()
	if !ok {
		return false, nil
	}

	total := amount.Add(q.eventsTotal())
	if total.Equals(q.totalPrice) {
		return false, nil
	}
	if err := q.setTotal(total, ReasonRecalculation, userID); err != nil {
		return false, err
	}
	return true, nil
}

// SetManualPrice overrides the total price. A linked quote becomes customized.
func (q *Quote) SetManualPrice(value *Money, userID string) error {
	if value == nil || value.IsNegative() {
		return ErrInvalidPrice
	}
	if userID == "" {
		return ErrEmptyUserID
	}

	if q.linkedPackage != nil {
		q.linkedPackage.CustomPriceApplied = true
		q.changes.MarkDirty(FieldLinkedPackage)
	}

	if err := q.setTotal(value.Copy(), ReasonManualOverride, userID); err != nil {
		return err
	}

	q.recordEvent(&PriceOverriddenEvent{
		QuoteID:    q.id,
		TotalPrice: value.String(),
		ChangedBy:  userID,
		ChangedAt:  q.clock.Now(),
	})

	return nil
}

// ResetToCalculatedPrice discards a manual override and returns to the calculated price.
// The override entry stays in the history; the reverted value is appended as a new entry.
func (q *Quote) ResetToCalculatedPrice(userID string) error {
	lp := q.linkedPackage
	if lp == nil {
		return ErrNotLinked
	}
	if !lp.CustomPriceApplied {
		return ErrNotCustomized
	}
	amount, ok := lp.CalculatedPrice.Amount()
	if !ok {
		return ErrNoCalculatedPrice
	}
	if userID == "" {
		return ErrEmptyUserID
	}

	lp.CustomPriceApplied = false
	q.changes.MarkDirty(FieldLinkedPackage)

	total := amount.Add(q.eventsTotal())
	if err := q.setTotal(total, ReasonRecalculation, userID); err != nil {
		return err
	}

	q.recordEvent(&PriceResetEvent{
		QuoteID:    q.id,
		TotalPrice: total.String(),
		ChangedBy:  userID,
		ChangedAt:  q.clock.Now(),
	})

	return nil
}

// UnlinkPackage severs the package relationship. Every other field, the total price
// included, is left exactly as it was.
func (q *Quote) UnlinkPackage(userID string) error {
	if q.linkedPackage == nil {
		return ErrNotLinked
	}

	packageID := q.linkedPackage.PackageID
	q.linkedPackage = nil
	q.changes.MarkDirty(FieldLinkedPackage)

	q.recordEvent(&PackageUnlinkedEvent{
		QuoteID:    q.id,
		PackageID:  packageID,
		UnlinkedBy: userID,
		UnlinkedAt: q.clock.Now(),
	})

	return nil
}

// AddEvent adds a priced itinerary event and raises the total by its price.
func (q *Quote) AddEvent(title string, price *Money, userID string) (*ItineraryEvent, error) {
	if strings.TrimSpace(title) == "" {
		return nil, fmt.Errorf("%w: event title is required", ErrInvalidParams)
	}
	if price == nil || price.IsNegative() {
		return nil, ErrInvalidPrice
	}
	if userID == "" {
		return nil, ErrEmptyUserID
	}

	event := ItineraryEvent{
		ID:      uuid.New().String(),
		Title:   title,
		Price:   price.Copy(),
		AddedAt: q.clock.Now(),
	}
	q.itinerary = append(q.itinerary, event)
	q.changes.MarkDirty(FieldEvents)

	if q.totalPrice != nil {
		if err := q.setTotal(q.totalPrice.Add(price), ReasonEventAdded, userID); err != nil {
			return nil, err
		}
	}

	q.recordEvent(&EventAddedEvent{
		QuoteID: q.id,
		EventID: event.ID,
		Title:   title,
		Price:   price.String(),
		AddedAt: event.AddedAt,
	})

	return &event, nil
}

// RemoveEvent removes an itinerary event and lowers the total by its price.
func (q *Quote) RemoveEvent(eventID, userID string) error {
	idx := -1
	for i, e := range q.itinerary {
		if e.ID == eventID {
			idx = i
			break
		}
	}
	if idx < 0 {
		return ErrEventNotFound
	}
	if userID == "" {
		return ErrEmptyUserID
	}

	removed := q.itinerary[idx]
	q.itinerary = append(q.itinerary[:idx:idx], q.itinerary[idx+1:]...)
	q.changes.MarkDirty(FieldEvents)

	if q.totalPrice != nil {
		total := q.totalPrice.Subtract(removed.Price)
		if total.IsNegative() {
			total = Zero()
		}
		if err := q.setTotal(total, ReasonEventRemoved, userID); err != nil {
			return err
		}
	}

	q.recordEvent(&EventRemovedEvent{
		QuoteID:   q.id,
		EventID:   removed.ID,
		RemovedAt: q.clock.Now(),
	})

	return nil
}

// CheckPersistable rejects a quote whose package price is on request and that has
// neither a manual price nor an earlier total.
func (q *Quote) CheckPersistable() error {
	lp := q.linkedPackage
	if lp != nil && lp.PriceWasOnRequest && !lp.CustomPriceApplied && q.totalPrice == nil {
		return ErrManualPriceRequired
	}
	return nil
}

// Snapshot returns the persisted shape of the quote.
func (q *Quote) Snapshot() QuoteSnapshot {
	return QuoteSnapshot{
		ID:            q.id,
		Currency:      q.currency,
		Inclusions:    q.inclusions,
		Exclusions:    q.exclusions,
		Params:        q.params,
		TotalPrice:    q.totalPrice.Copy(),
		LinkedPackage: q.LinkedPackage(),
		Events:        q.Events(),
		PriceHistory:  q.PriceHistory(),
		Version:       q.version,
		CreatedAt:     q.createdAt,
		UpdatedAt:     q.updatedAt,
	}
}

// MarkCommitted records that all pending changes were persisted at version.
func (q *Quote) MarkCommitted(version int64, at time.Time) {
	q.version = version
	q.updatedAt = at
	q.persistedHistory = len(q.priceHistory)
	q.changes.Clear()
	q.ClearEvents()
}

// ClearEvents clears all recorded domain events (called after publishing).
func (q *Quote) ClearEvents() {
	q.domainEvents = make([]DomainEvent, 0)
}

// setTotal is the only writer of a numeric total; it appends the matching history entry.
func (q *Quote) setTotal(total *Money, reason PriceChangeReason, userID string) error {
	previous := q.totalPrice
	q.totalPrice = total
	if _, err := q.tracker.Append(q, total, reason, userID); err != nil {
		q.totalPrice = previous
		return err
	}
	q.changes.MarkDirty(FieldTotalPrice)
	return nil
}

func (q *Quote) eventsTotal() *Money {
	total := Zero()
	for _, e := range q.itinerary {
		total = total.Add(e.Price)
	}
	return total
}

func (q *Quote) recordEvent(event DomainEvent) {
	q.domainEvents = append(q.domainEvents, event)
}

func checkLink(link PackageLink, userID string) error {
	if link.PackageID == "" || link.Resolution == nil {
		return fmt.Errorf("%w: calculation result is incomplete", ErrInvalidParams)
	}
	if userID == "" {
		return ErrEmptyUserID
	}
	return nil
}
