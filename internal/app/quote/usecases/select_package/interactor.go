package select_package

import (
	"context"
	"fmt"

	"github.com/light-bringer/quote-pricing-service/internal/app/quote/calculation"
	"github.com/light-bringer/quote-pricing-service/internal/app/quote/contracts"
	"github.com/light-bringer/quote-pricing-service/internal/app/quote/domain"
	"github.com/light-bringer/quote-pricing-service/internal/app/quote/linking"
	"github.com/light-bringer/quote-pricing-service/internal/app/quote/usecases/quote_writer"
)

// Request contains the data needed to link a package to a quote.
type Request struct {
	QuoteID   string
	PackageID string
	UserID    string
}

// Response carries the linked quote and the calculation behind it.
type Response struct {
	Quote   *domain.Quote
	Outcome *calculation.Outcome
}

// Interactor handles the select package use case.
type Interactor struct {
	repo    contracts.QuoteRepository
	manager *linking.Manager
	writer  *quote_writer.Writer
}

// NewInteractor creates a new select package interactor.
func NewInteractor(repo contracts.QuoteRepository, manager *linking.Manager, writer *quote_writer.Writer) *Interactor {
	return &Interactor{
		repo:    repo,
		manager: manager,
		writer:  writer,
	}
}

// Execute prices the package for the quote's parameters and links it.
func (i *Interactor) Execute(ctx context.Context, req *Request) (*Response, error) {
	// 1. Validate request
	if req.PackageID == "" {
		return nil, fmt.Errorf("%w: package id is required", domain.ErrInvalidParams)
	}
	if req.UserID == "" {
		return nil, domain.ErrEmptyUserID
	}

	// 2. Load aggregate
	quote, err := i.repo.GetByID(ctx, req.QuoteID)
	if err != nil {
		return nil, err
	}

	// 3. Calculate and link
	outcome, err := i.manager.SelectPackage(ctx, quote, req.PackageID, req.UserID)
	if err != nil {
		return nil, err
	}

	// 4. Persist
	if err := i.writer.Save(ctx, quote); err != nil {
		return nil, err
	}

	return &Response{Quote: quote, Outcome: outcome}, nil
}
