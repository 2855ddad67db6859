package calculation

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"github.com/light-bringer/quote-pricing-service/internal/app/quote/contracts"
	"github.com/light-bringer/quote-pricing-service/internal/app/quote/domain"
	"github.com/light-bringer/quote-pricing-service/internal/pkg/clock"
)

// Config tunes the calculation service.
type Config struct {
	// DebounceWindow collapses successive requests for one quote.
	DebounceWindow time.Duration
	// FetchTimeout bounds a single package fetch.
	FetchTimeout time.Duration
	// PackageTTL is how long an in-memory package snapshot is served without refetching.
	// Zero disables snapshot reuse.
	PackageTTL time.Duration
	// StrictMode rejects approximated tiers and durations.
	StrictMode bool
}

// DefaultConfig returns the reference configuration.
func DefaultConfig() Config {
	return Config{
		DebounceWindow: 500 * time.Millisecond,
		FetchTimeout:   3 * time.Second,
		PackageTTL:     30 * time.Second,
	}
}

// Request asks for a price for one quote.
type Request struct {
	QuoteID   string
	PackageID string
	Params    domain.Params
	// Immediate skips the debounce window. It still supersedes older requests.
	Immediate bool
}

// Outcome is a successful calculation. It is never applied to a quote by this package.
type Outcome struct {
	Token          uint64
	QuoteID        string
	PackageID      string
	PackageVersion int64
	Params         domain.Params
	Resolution     *domain.Resolution
	Warnings       []domain.Warning
	FromCache      bool
	CalculatedAt   time.Time
}

// Link converts the outcome into the input of the quote's link operations.
func (o *Outcome) Link() domain.PackageLink {
	return domain.PackageLink{
		PackageID:      o.PackageID,
		PackageVersion: o.PackageVersion,
		Resolution:     o.Resolution,
		CalculatedAt:   o.CalculatedAt,
	}
}

// Stats are cumulative service counters.
type Stats struct {
	Requested  int64
	Dispatched int64
	Fetched    int64
	CacheHits  int64
	Superseded int64
	Failed     int64

	CachedResolutions int
}

type pending struct {
	ticket *Ticket
	timer  clock.Timer
	req    Request
}

// Service computes prices asynchronously: debounced per quote, ordered by token,
// cached per package version. It is safe for concurrent use.
type Service struct {
	reader   contracts.PackageReader
	resolver *domain.Resolver
	clock    clock.Clock
	logger   *zap.Logger
	cfg      Config

	mu      sync.Mutex
	tokens  map[string]uint64
	pending map[string]*pending

	fetches singleflight.Group
	cache   *resultCache

	requested  atomic.Int64
	dispatched atomic.Int64
	fetched    atomic.Int64
	cacheHits  atomic.Int64
	superseded atomic.Int64
	failed     atomic.Int64
}

// NewService creates a calculation service reading packages from reader.
func NewService(reader contracts.PackageReader, clk clock.Clock, logger *zap.Logger, cfg Config) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		reader:   reader,
		resolver: domain.NewResolver().WithStrictMode(cfg.StrictMode),
		clock:    clk,
		logger:   logger.Named("calculation"),
		cfg:      cfg,
		tokens:   make(map[string]uint64),
		pending:  make(map[string]*pending),
		cache:    newResultCache(),
	}
}

// RequestCalculation registers a request and returns its ticket. A newer request for the
// same quote supersedes this one: a still-pending ticket completes with ErrSuperseded at once,
// an in-flight one when its fetch returns.
func (s *Service) RequestCalculation(ctx context.Context, req Request) *Ticket {
	s.requested.Add(1)

	fetchCtx, cancel := context.WithCancel(ctx)

	s.mu.Lock()
	token := s.tokens[req.QuoteID] + 1
	s.tokens[req.QuoteID] = token

	ticket := newTicket(s, req.QuoteID, token, cancel)

	if prev, ok := s.pending[req.QuoteID]; ok {
		prev.timer.Stop()
		delete(s.pending, req.QuoteID)
		s.supersede(prev.ticket)
	}

	if req.Immediate {
		s.mu.Unlock()
		s.dispatched.Add(1)
		go s.execute(fetchCtx, ticket, req)
		return ticket
	}

	p := &pending{ticket: ticket, req: req}
	s.pending[req.QuoteID] = p
	p.timer = s.clock.AfterFunc(s.cfg.DebounceWindow, func() { s.fire(fetchCtx, req.QuoteID, token) })
	s.mu.Unlock()

	s.logger.Debug("calculation scheduled",
		zap.String("quote_id", req.QuoteID),
		zap.Uint64("token", token),
	)

	return ticket
}

// Calculate submits req and waits for its ticket.
func (s *Service) Calculate(ctx context.Context, req Request) (*Outcome, error) {
	return s.RequestCalculation(ctx, req).Wait(ctx)
}

// CurrentToken returns the highest token issued for quoteID.
func (s *Service) CurrentToken(quoteID string) uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.tokens[quoteID]
}

// Stats returns a snapshot of the service counters.
func (s *Service) Stats() Stats {
	return Stats{
		Requested:  s.requested.Load(),
		Dispatched: s.dispatched.Load(),
		Fetched:    s.fetched.Load(),
		CacheHits:  s.cacheHits.Load(),
		Superseded: s.superseded.Load(),
		Failed:     s.failed.Load(),

		CachedResolutions: s.cache.size(),
	}
}

// fire runs when a debounce timer expires.
func (s *Service) fire(ctx context.Context, quoteID string, token uint64) {
	s.mu.Lock()
	p, ok := s.pending[quoteID]
	if !ok || p.ticket.token != token {
		s.mu.Unlock()
		return
	}
	delete(s.pending, quoteID)
	s.mu.Unlock()

	s.dispatched.Add(1)
	go s.execute(ctx, p.ticket, p.req)
}

func (s *Service) execute(ctx context.Context, ticket *Ticket, req Request) {
	defer ticket.cancel()

	outcome, err := s.calculate(ctx, req)

	if !s.isCurrent(req.QuoteID, ticket.token) {
		s.logger.Debug("discarding stale calculation",
			zap.String("quote_id", req.QuoteID),
			zap.Uint64("token", ticket.token),
		)
		s.superseded.Add(1)
		ticket.complete(nil, domain.ErrSuperseded)
		return
	}

	if err != nil {
		s.failed.Add(1)
		if !domain.IsResolutionError(err) {
			s.logger.Warn("price calculation failed",
				zap.String("quote_id", req.QuoteID),
				zap.String("package_id", req.PackageID),
				zap.String("code", domain.ErrorCode(err)),
				zap.Error(err),
			)
		}
		ticket.complete(nil, err)
		return
	}

	outcome.Token = ticket.token
	ticket.complete(outcome, nil)
}

func (s *Service) calculate(ctx context.Context, req Request) (*Outcome, error) {
	if err := req.Params.Validate(); err != nil {
		return nil, err
	}

	pkg, fromSnapshot, err := s.loadPackage(ctx, req.PackageID)
	if err != nil {
		return nil, err
	}

	res, err := s.resolve(pkg, req.Params)
	if err != nil {
		return nil, err
	}

	return &Outcome{
		QuoteID:        req.QuoteID,
		PackageID:      pkg.ID,
		PackageVersion: pkg.Version,
		Params:         req.Params,
		Resolution:     res,
		Warnings:       domain.Advise(pkg, req.Params, res),
		FromCache:      fromSnapshot,
		CalculatedAt:   s.clock.Now(),
	}, nil
}

// resolve serves a cached resolution for the same package version and inputs, or runs the
// resolver and caches a successful result.
func (s *Service) resolve(pkg *domain.Package, params domain.Params) (*domain.Resolution, error) {
	key := newCacheKey(pkg, params)
	if res, ok := s.cache.lookup(key); ok {
		s.cacheHits.Add(1)
		return res, nil
	}

	res, err := s.resolver.Resolve(pkg, params)
	if err != nil {
		return nil, err
	}
	s.cache.store(key, res)
	return res, nil
}

// loadPackage serves a fresh in-memory snapshot or fetches the package. Concurrent fetches
// of one package share a single call to the reader.
func (s *Service) loadPackage(ctx context.Context, packageID string) (*domain.Package, bool, error) {
	if pkg, ok := s.cache.snapshot(packageID, s.clock.Now(), s.cfg.PackageTTL); ok {
		return pkg, true, nil
	}

	fetchCtx, cancel := context.WithTimeout(ctx, s.cfg.FetchTimeout)
	defer cancel()

	ch := s.fetches.DoChan(packageID, func() (interface{}, error) {
		// the shared call must not die with the first caller's context
		shared, done := context.WithTimeout(context.WithoutCancel(ctx), s.cfg.FetchTimeout)
		defer done()

		s.fetched.Add(1)
		return s.reader.GetPackage(shared, packageID)
	})

	select {
	case <-fetchCtx.Done():
		if errors.Is(fetchCtx.Err(), context.DeadlineExceeded) {
			return nil, false, fmt.Errorf("%w: package %s", domain.ErrCalculationTimeout, packageID)
		}
		return nil, false, fetchCtx.Err()
	case r := <-ch:
		if r.Err != nil {
			return nil, false, classifyFetchError(packageID, r.Err)
		}
		pkg := r.Val.(*domain.Package)
		if pkg == nil || pkg.Archived {
			return nil, false, fmt.Errorf("%w: %s", domain.ErrPackageNotFound, packageID)
		}
		if purged := s.cache.remember(pkg, s.clock.Now()); purged > 0 {
			s.logger.Info("package version changed, cache purged",
				zap.String("package_id", pkg.ID),
				zap.Int64("version", pkg.Version),
				zap.Int("purged", purged),
			)
		}
		return pkg, false, nil
	}
}

func classifyFetchError(packageID string, err error) error {
	switch {
	case errors.Is(err, domain.ErrPackageNotFound):
		return err
	case errors.Is(err, context.DeadlineExceeded):
		return fmt.Errorf("%w: package %s", domain.ErrCalculationTimeout, packageID)
	case errors.Is(err, context.Canceled):
		return err
	default:
		return fmt.Errorf("%w: package %s: %v", domain.ErrNetwork, packageID, err)
	}
}

func (s *Service) isCurrent(quoteID string, token uint64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.tokens[quoteID] == token
}

// cancelTicket withdraws a pending ticket. An in-flight fetch is aborted through its context.
func (s *Service) cancelTicket(t *Ticket) {
	s.mu.Lock()
	if p, ok := s.pending[t.quoteID]; ok && p.ticket == t {
		p.timer.Stop()
		delete(s.pending, t.quoteID)
	}
	s.mu.Unlock()

	t.cancel()
	t.complete(nil, context.Canceled)
}

// supersede must be called with s.mu held.
func (s *Service) supersede(t *Ticket) {
	s.superseded.Add(1)
	t.cancel()
	t.complete(nil, domain.ErrSuperseded)
}
