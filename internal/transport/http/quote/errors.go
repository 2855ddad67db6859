package quote

import (
	"context"
	"errors"
	"net/http"

	"github.com/light-bringer/quote-pricing-service/internal/app/quote/domain"
)

// errorBody is the JSON shape of every error response.
type errorBody struct {
	Error     string `json:"error"`
	Code      string `json:"code,omitempty"`
	Retryable bool   `json:"retryable,omitempty"`
}

// mapDomainError converts domain errors to HTTP status codes and response bodies.
func mapDomainError(err error) (int, errorBody) {
	body := errorBody{
		Error:     err.Error(),
		Code:      domain.ErrorCode(err),
		Retryable: domain.IsRetryable(err),
	}

	switch {
	case domain.IsResolutionError(err):
		return http.StatusUnprocessableEntity, body

	case errors.Is(err, domain.ErrQuoteNotFound),
		errors.Is(err, domain.ErrPackageNotFound),
		errors.Is(err, domain.ErrEventNotFound):
		return http.StatusNotFound, body

	case errors.Is(err, domain.ErrNetwork):
		return http.StatusServiceUnavailable, body

	case errors.Is(err, domain.ErrCalculationTimeout),
		errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout, body

	case errors.Is(err, domain.ErrSuperseded),
		errors.Is(err, domain.ErrVersionConflict),
		errors.Is(err, domain.ErrAlreadyLinked),
		errors.Is(err, domain.ErrNotLinked),
		errors.Is(err, domain.ErrNotCustomized),
		errors.Is(err, domain.ErrNoCalculatedPrice),
		errors.Is(err, domain.ErrManualPriceRequired),
		errors.Is(err, domain.ErrPackageMismatch):
		return http.StatusConflict, body

	case errors.Is(err, domain.ErrInvalidParams),
		errors.Is(err, domain.ErrInvalidPrice),
		errors.Is(err, domain.ErrInvalidPackage),
		errors.Is(err, domain.ErrEmptyUserID):
		return http.StatusBadRequest, body

	default:
		// Unknown error - do not leak internals
		return http.StatusInternalServerError, errorBody{Error: "internal server error"}
	}
}
