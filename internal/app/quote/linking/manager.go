package linking

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"github.com/light-bringer/quote-pricing-service/internal/app/quote/calculation"
	"github.com/light-bringer/quote-pricing-service/internal/app/quote/domain"
)

// Calculator is the subset of the calculation service the manager needs.
type Calculator interface {
	Calculate(ctx context.Context, req calculation.Request) (*calculation.Outcome, error)
}

// ParameterChange is the result of applying new trip parameters to a quote.
type ParameterChange struct {
	// Outcome is nil when the quote is unlinked or the calculation failed.
	Outcome *calculation.Outcome
	// PriceChanged reports whether the total price moved.
	PriceChanged bool
	// CalculationErr holds a failed recalculation. The parameters are still applied
	// and the previous price is kept.
	CalculationErr error
}

// Manager drives a quote through its package-link states. It mutates the quote in memory
// only; persisting the result is the caller's job.
type Manager struct {
	calculator Calculator
	logger     *zap.Logger
}

// NewManager creates a Manager.
func NewManager(calculator Calculator, logger *zap.Logger) *Manager {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Manager{
		calculator: calculator,
		logger:     logger.Named("linking"),
	}
}

// SelectPackage links an unlinked quote to packageID, calculating the price immediately.
func (m *Manager) SelectPackage(ctx context.Context, q *domain.Quote, packageID, userID string) (*calculation.Outcome, error) {
	if q.IsLinked() {
		return nil, domain.ErrAlreadyLinked
	}
	if userID == "" {
		return nil, domain.ErrEmptyUserID
	}

	outcome, err := m.calculator.Calculate(ctx, calculation.Request{
		QuoteID:   q.ID(),
		PackageID: packageID,
		Params:    q.Params(),
		Immediate: true,
	})
	if err != nil {
		return nil, err
	}

	if err := q.LinkPackage(outcome.Link(), userID); err != nil {
		return nil, err
	}

	m.logger.Info("package linked",
		zap.String("quote_id", q.ID()),
		zap.String("package_id", packageID),
		zap.Int64("package_version", outcome.PackageVersion),
		zap.String("price", outcome.Resolution.Price.String()),
	)

	return outcome, nil
}

// OnParameterChange applies params and, for a linked quote, waits for the debounced
// recalculation. It returns domain.ErrSuperseded when a newer change for the same quote
// arrived in the meantime; the caller must then discard this change entirely.
func (m *Manager) OnParameterChange(ctx context.Context, q *domain.Quote, params domain.Params, userID string) (*ParameterChange, error) {
	if err := q.UpdateParameters(params); err != nil {
		return nil, err
	}

	lp := q.LinkedPackage()
	if lp == nil {
		return &ParameterChange{}, nil
	}

	outcome, err := m.calculator.Calculate(ctx, calculation.Request{
		QuoteID:   q.ID(),
		PackageID: lp.PackageID,
		Params:    params,
	})
	switch {
	case errors.Is(err, domain.ErrSuperseded), errors.Is(err, context.Canceled):
		return nil, err
	case err != nil:
		m.logger.Warn("recalculation failed, keeping previous price",
			zap.String("quote_id", q.ID()),
			zap.String("code", domain.ErrorCode(err)),
			zap.Error(err),
		)
		return &ParameterChange{CalculationErr: err}, nil
	}

	changed, err := q.ApplyRecalculation(outcome.Link(), userID)
	if err != nil {
		return nil, err
	}

	return &ParameterChange{Outcome: outcome, PriceChanged: changed}, nil
}

// SetManualPrice overrides the total price.
func (m *Manager) SetManualPrice(q *domain.Quote, value *domain.Money, userID string) error {
	return q.SetManualPrice(value, userID)
}

// ResetToCalculatedPrice discards a manual override.
func (m *Manager) ResetToCalculatedPrice(q *domain.Quote, userID string) error {
	return q.ResetToCalculatedPrice(userID)
}

// UnlinkPackage severs the package relationship, leaving the price as it is.
func (m *Manager) UnlinkPackage(q *domain.Quote, userID string) error {
	if err := q.UnlinkPackage(userID); err != nil {
		return err
	}
	m.logger.Info("package unlinked", zap.String("quote_id", q.ID()))
	return nil
}
