package domain

import "errors"

// Domain errors as sentinel values
var (
	// Resolution errors: deterministic, never retried
	ErrNoTiersDefined     = errors.New("package defines no group size tiers")
	ErrNoPeriodMatch      = errors.New("no pricing period matches the arrival date")
	ErrPriceNotFound      = errors.New("no price defined for the selected tier and duration")
	ErrTierOutOfRange     = errors.New("number of people is outside every tier")
	ErrDurationNotOffered = errors.New("number of nights is not offered by the package")

	// Calculation errors
	ErrNetwork            = errors.New("package fetch failed")
	ErrCalculationTimeout = errors.New("price calculation timed out")
	ErrPackageNotFound    = errors.New("package not found")
	ErrSuperseded         = errors.New("calculation superseded by a newer request")

	// Input errors
	ErrInvalidParams  = errors.New("invalid quote parameters")
	ErrInvalidPrice   = errors.New("price must not be negative")
	ErrInvalidPackage = errors.New("invalid package pricing matrix")
	ErrEmptyUserID    = errors.New("user id cannot be empty")

	// Quote errors
	ErrQuoteNotFound       = errors.New("quote not found")
	ErrNotLinked           = errors.New("quote is not linked to a package")
	ErrAlreadyLinked       = errors.New("quote is already linked to a package")
	ErrNotCustomized       = errors.New("quote price is not customized")
	ErrNoCalculatedPrice   = errors.New("linked package has no numeric calculated price")
	ErrManualPriceRequired = errors.New("package price is on request; a manual total price is required")
	ErrEventNotFound       = errors.New("quote event not found")
	ErrPackageMismatch     = errors.New("calculation belongs to a different package")
	ErrVersionConflict     = errors.New("quote was modified concurrently")
)

// Error codes exposed to collaborators.
const (
	CodeNoTiersDefined     = "NO_TIERS_DEFINED"
	CodeNoPeriodMatch      = "NO_PERIOD_MATCH"
	CodePriceNotFound      = "PRICE_NOT_FOUND"
	CodeTierOutOfRange     = "TIER_OUT_OF_RANGE"
	CodeDurationNotOffered = "DURATION_NOT_OFFERED"
	CodeNetworkError       = "NETWORK_ERROR"
	CodeCalculationTimeout = "CALCULATION_TIMEOUT"
	CodePackageNotFound    = "PACKAGE_NOT_FOUND"
	CodeSuperseded         = "SUPERSEDED"
)

var errorCodes = []struct {
	err  error
	code string
}{
	{ErrNoTiersDefined, CodeNoTiersDefined},
	{ErrNoPeriodMatch, CodeNoPeriodMatch},
	{ErrPriceNotFound, CodePriceNotFound},
	{ErrTierOutOfRange, CodeTierOutOfRange},
	{ErrDurationNotOffered, CodeDurationNotOffered},
	{ErrNetwork, CodeNetworkError},
	{ErrCalculationTimeout, CodeCalculationTimeout},
	{ErrPackageNotFound, CodePackageNotFound},
	{ErrSuperseded, CodeSuperseded},
}

// ErrorCode returns the collaborator-facing code for a calculation error, or "" if it has none.
func ErrorCode(err error) string {
	for _, ec := range errorCodes {
		if errors.Is(err, ec.err) {
			return ec.code
		}
	}
	return ""
}

// IsResolutionError reports whether err is a deterministic matrix resolution failure.
func IsResolutionError(err error) bool {
	return errors.Is(err, ErrNoTiersDefined) ||
		errors.Is(err, ErrNoPeriodMatch) ||
		errors.Is(err, ErrPriceNotFound) ||
		errors.Is(err, ErrTierOutOfRange) ||
		errors.Is(err, ErrDurationNotOffered)
}

// IsRetryable reports whether the caller may retry the calculation.
func IsRetryable(err error) bool {
	return errors.Is(err, ErrNetwork) || errors.Is(err, ErrCalculationTimeout)
}
