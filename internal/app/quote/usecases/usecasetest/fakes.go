// Package usecasetest provides in-memory contracts for usecase tests.
package usecasetest

import (
	"context"
	"sync"
	"time"

	"cloud.google.com/go/spanner"

	"github.com/light-bringer/quote-pricing-service/internal/app/quote/calculation"
	"github.com/light-bringer/quote-pricing-service/internal/app/quote/contracts"
	"github.com/light-bringer/quote-pricing-service/internal/app/quote/domain"
	"github.com/light-bringer/quote-pricing-service/internal/app/quote/linking"
	"github.com/light-bringer/quote-pricing-service/internal/app/quote/usecases/quote_writer"
	"github.com/light-bringer/quote-pricing-service/internal/pkg/clock"
	"github.com/light-bringer/quote-pricing-service/internal/pkg/committer"
)

// Agent is the user id tests act as.
const Agent = "agent-1"

// Epoch is the mock clock's starting time.
var Epoch = time.Date(2024, 5, 1, 9, 0, 0, 0, time.UTC)

// QuoteRepo keeps quote snapshots in memory. Mutations are placeholders; the snapshot
// taken when a mutation is built is what tests inspect.
type QuoteRepo struct {
	mu     sync.Mutex
	clock  clock.Clock
	stored map[string]domain.QuoteSnapshot
	Saved  map[string]domain.QuoteSnapshot
}

// NewQuoteRepo creates an empty repo.
func NewQuoteRepo(clk clock.Clock) *QuoteRepo {
	return &QuoteRepo{
		clock:  clk,
		stored: make(map[string]domain.QuoteSnapshot),
		Saved:  make(map[string]domain.QuoteSnapshot),
	}
}

// Seed stores q as if it had been loaded from the database.
func (r *QuoteRepo) Seed(q *domain.Quote) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.stored[q.ID()] = q.Snapshot()
}

func (r *QuoteRepo) InsertMut(q *domain.Quote) (*spanner.Mutation, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.Saved[q.ID()] = q.Snapshot()
	return &spanner.Mutation{}, nil
}

func (r *QuoteRepo) UpdateMut(q *domain.Quote) (*spanner.Mutation, error) {
	if !q.Changes().HasChanges() {
		return nil, nil
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.Saved[q.ID()] = q.Snapshot()
	return &spanner.Mutation{}, nil
}

func (r *QuoteRepo) GetByID(_ context.Context, quoteID string) (*domain.Quote, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.stored[quoteID]
	if !ok {
		return nil, domain.ErrQuoteNotFound
	}
	return domain.ReconstructQuote(s, r.clock), nil
}

// HistoryRow is one recorded history insert.
type HistoryRow struct {
	QuoteID  string
	Sequence int64
	Entry    domain.PriceHistoryEntry
}

// HistoryRepo records history inserts and serves List from them.
type HistoryRepo struct {
	mu   sync.Mutex
	Rows []HistoryRow
	Page *contracts.HistoryPage
	Err  error
	Last *contracts.HistoryFilter
}

func (r *HistoryRepo) InsertMut(quoteID string, seq int64, entry domain.PriceHistoryEntry) *spanner.Mutation {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.Rows = append(r.Rows, HistoryRow{QuoteID: quoteID, Sequence: seq, Entry: entry})
	return &spanner.Mutation{}
}

func (r *HistoryRepo) List(_ context.Context, filter *contracts.HistoryFilter) (*contracts.HistoryPage, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.Last = filter
	if r.Err != nil {
		return nil, r.Err
	}
	if r.Page != nil {
		return r.Page, nil
	}
	return &contracts.HistoryPage{}, nil
}

// OutboxRepo records enriched events.
type OutboxRepo struct {
	mu     sync.Mutex
	Events []*contracts.OutboxEvent
}

func (r *OutboxRepo) InsertMut(event *contracts.OutboxEvent) *spanner.Mutation {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.Events = append(r.Events, event)
	return &spanner.Mutation{}
}

func (r *OutboxRepo) EnrichEvent(event domain.DomainEvent, payload string) *contracts.OutboxEvent {
	return &contracts.OutboxEvent{
		EventID:     event.EventType() + "-" + event.AggregateID(),
		EventType:   event.EventType(),
		AggregateID: event.AggregateID(),
		Payload:     payload,
		Status:      "pending",
	}
}

func (r *OutboxRepo) ListByAggregate(_ context.Context, aggregateID string, limit int64) ([]*contracts.OutboxEvent, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*contracts.OutboxEvent
	for _, e := range r.Events {
		if e.AggregateID == aggregateID {
			out = append(out, e)
		}
		if limit > 0 && int64(len(out)) == limit {
			break
		}
	}
	return out, nil
}

// EventTypes returns the recorded event types in order.
func (r *OutboxRepo) EventTypes() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	types := make([]string, len(r.Events))
	for i, e := range r.Events {
		types[i] = e.EventType
	}
	return types
}

// Committer records applied plans. Err is returned instead of applying.
type Committer struct {
	mu     sync.Mutex
	Err    error
	Plans  []*committer.CommitPlan
	Checks []committer.VersionCheck
}

func (c *Committer) Apply(_ context.Context, plan *committer.CommitPlan) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.Err != nil {
		return c.Err
	}
	c.Plans = append(c.Plans, plan)
	return nil
}

func (c *Committer) ApplyWithVersionCheck(_ context.Context, check committer.VersionCheck, plan *committer.CommitPlan) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.Err != nil {
		return c.Err
	}
	c.Checks = append(c.Checks, check)
	c.Plans = append(c.Plans, plan)
	return nil
}

// PackageReader serves packages from a map.
type PackageReader struct {
	mu       sync.Mutex
	Packages map[string]*domain.Package
	Err      error
}

// NewPackageReader creates a reader over pkgs.
func NewPackageReader(pkgs ...*domain.Package) *PackageReader {
	r := &PackageReader{Packages: make(map[string]*domain.Package)}
	for _, p := range pkgs {
		r.Packages[p.ID] = p
	}
	return r
}

func (r *PackageReader) GetPackage(_ context.Context, packageID string) (*domain.Package, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.Err != nil {
		return nil, r.Err
	}
	pkg, ok := r.Packages[packageID]
	if !ok {
		return nil, domain.ErrPackageNotFound
	}
	return pkg, nil
}

// JunePackage has one 10-15 tier, 3/5/7 night options and June prices of 900, 1500
// and an on-request 7-night price.
func JunePackage() *domain.Package {
	cell := func(nights int, p domain.Price) domain.PriceCell {
		return domain.PriceCell{TierIndex: 0, Nights: nights, Price: p}
	}
	return &domain.Package{
		ID:              "pkg-1",
		Name:            "Lake Como Retreat",
		Version:         3,
		GroupSizeTiers:  []domain.Tier{{Label: "10-15", MinPeople: 10, MaxPeople: 15}},
		DurationOptions: []int{3, 5, 7},
		PricingMatrix: []domain.PeriodEntry{{
			PeriodLabel: "June",
			PeriodType:  domain.PeriodMonth,
			Prices: []domain.PriceCell{
				cell(3, domain.NumericPrice(domain.NewMoneyFromInt(900))),
				cell(5, domain.NumericPrice(domain.NewMoneyFromInt(1500))),
				cell(7, domain.OnRequestPrice()),
			},
		}},
	}
}

// JuneParams are twelve people for the given nights arriving 10 June 2024.
func JuneParams(nights int) domain.Params {
	return domain.Params{
		NumberOfPeople: 12,
		NumberOfNights: nights,
		ArrivalDate:    time.Date(2024, 6, 10, 0, 0, 0, 0, time.UTC),
	}
}

// NewLinkedQuote returns a quote linked to JunePackage for nights, committed at version 1.
func NewLinkedQuote(id string, nights int, clk clock.Clock) (*domain.Quote, error) {
	pkg := JunePackage()
	params := JuneParams(nights)

	q, err := domain.NewQuote(id, "EUR", params, clk.Now(), clk)
	if err != nil {
		return nil, err
	}
	res, err := domain.Resolve(pkg, params)
	if err != nil {
		return nil, err
	}
	link := domain.PackageLink{PackageID: pkg.ID, PackageVersion: pkg.Version, Resolution: res, CalculatedAt: clk.Now()}
	if err := q.LinkPackage(link, Agent); err != nil {
		return nil, err
	}
	q.MarkCommitted(1, clk.Now())
	return q, nil
}

// Env wires the fakes with a real linking manager and calculation service.
type Env struct {
	Clock     *clock.MockClock
	Quotes    *QuoteRepo
	History   *HistoryRepo
	Outbox    *OutboxRepo
	Committer *Committer
	Reader    *PackageReader
	Service   *calculation.Service
	Manager   *linking.Manager
	Writer    *quote_writer.Writer
}

// NewEnv builds an Env serving JunePackage. The calculation service runs on the real
// clock with a one millisecond debounce so debounced requests settle on their own.
func NewEnv() *Env {
	clk := clock.NewMockClock(Epoch)
	e := &Env{
		Clock:     clk,
		Quotes:    NewQuoteRepo(clk),
		History:   &HistoryRepo{},
		Outbox:    &OutboxRepo{},
		Committer: &Committer{},
		Reader:    NewPackageReader(JunePackage()),
	}
	e.Service = calculation.NewService(e.Reader, clock.NewRealClock(), nil, calculation.Config{
		DebounceWindow: time.Millisecond,
		FetchTimeout:   time.Second,
	})
	e.Manager = linking.NewManager(e.Service, nil)
	e.Writer = quote_writer.NewWriter(e.Quotes, e.History, e.Outbox, e.Committer, clk)
	return e
}

// SeedLinked stores a quote linked to JunePackage for nights.
func (e *Env) SeedLinked(id string, nights int) (*domain.Quote, error) {
	q, err := NewLinkedQuote(id, nights, e.Clock)
	if err != nil {
		return nil, err
	}
	e.Quotes.Seed(q)
	return q, nil
}

// SeedUnlinked stores a committed, unlinked quote.
func (e *Env) SeedUnlinked(id string, nights int) (*domain.Quote, error) {
	q, err := domain.NewQuote(id, "EUR", JuneParams(nights), e.Clock.Now(), e.Clock)
	if err != nil {
		return nil, err
	}
	q.MarkCommitted(0, e.Clock.Now())
	e.Quotes.Seed(q)
	return q, nil
}
