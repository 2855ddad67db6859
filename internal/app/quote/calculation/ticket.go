package calculation

import (
	"context"
	"sync"
)

// Ticket is the handle of one calculation request.
type Ticket struct {
	service *Service
	quoteID string
	token   uint64
	cancel  context.CancelFunc

	once    sync.Once
	done    chan struct{}
	outcome *Outcome
	err     error
}

func newTicket(s *Service, quoteID string, token uint64, cancel context.CancelFunc) *Ticket {
	return &Ticket{
		service: s,
		quoteID: quoteID,
		token:   token,
		cancel:  cancel,
		done:    make(chan struct{}),
	}
}

// Token returns the per-quote request token.
func (t *Ticket) Token() uint64 { return t.token }

// Done is closed once the ticket has an outcome or an error.
func (t *Ticket) Done() <-chan struct{} { return t.done }

// Wait blocks until the calculation completes or ctx is done.
// Abandoning the wait does not cancel the calculation.
func (t *Ticket) Wait(ctx context.Context) (*Outcome, error) {
	select {
	case <-t.done:
		return t.outcome, t.err
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// Cancel withdraws the request. A pending request is never dispatched;
// an in-flight fetch is aborted. Cancelling a completed ticket is a no-op.
func (t *Ticket) Cancel() {
	t.service.cancelTicket(t)
}

func (t *Ticket) complete(outcome *Outcome, err error) {
	t.once.Do(func() {
		t.outcome = outcome
		t.err = err
		close(t.done)
	})
}
