package quote

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/light-bringer/quote-pricing-service/internal/app/quote/domain"
)

// paramsBody carries the trip parameters as sent by the quote form.
type paramsBody struct {
	NumberOfPeople int    `json:"numberOfPeople"`
	NumberOfNights int    `json:"numberOfNights"`
	ArrivalDate    string `json:"arrivalDate"`
}

func (b paramsBody) empty() bool {
	return b.NumberOfPeople == 0 && b.NumberOfNights == 0 && b.ArrivalDate == ""
}

// toParams parses the arrival date and validates the parameters.
func (b paramsBody) toParams() (domain.Params, error) {
	arrival, err := parseDate(b.ArrivalDate)
	if err != nil {
		return domain.Params{}, err
	}
	params := domain.Params{
		NumberOfPeople: b.NumberOfPeople,
		NumberOfNights: b.NumberOfNights,
		ArrivalDate:    arrival,
	}
	if err := params.Validate(); err != nil {
		return domain.Params{}, err
	}
	return params, nil
}

type createQuoteBody struct {
	Currency   string `json:"currency" binding:"required"`
	Inclusions string `json:"inclusions"`
	Exclusions string `json:"exclusions"`
	paramsBody
}

type calculateBody struct {
	PackageID string `json:"packageId"`
	paramsBody
}

type selectPackageBody struct {
	PackageID string `json:"packageId" binding:"required"`
}

type manualPriceBody struct {
	TotalPrice string `json:"totalPrice" binding:"required"`
}

type addEventBody struct {
	Title string `json:"title" binding:"required"`
	Price string `json:"price" binding:"required"`
}

type saveDetailsBody struct {
	Currency   string `json:"currency" binding:"required"`
	Inclusions string `json:"inclusions"`
	Exclusions string `json:"exclusions"`
}

func parseDate(s string) (time.Time, error) {
	if s == "" {
		return time.Time{}, fmt.Errorf("%w: arrivalDate is required", domain.ErrInvalidParams)
	}
	t, err := time.Parse(domain.DateLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: arrivalDate must be %s, got %q", domain.ErrInvalidParams, domain.DateLayout, s)
	}
	return t, nil
}

// parseAmount parses a non-negative decimal amount.
func parseAmount(field, s string) (*domain.Money, error) {
	m, err := domain.NewMoneyFromString(strings.TrimSpace(s))
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", domain.ErrInvalidPrice, field, err)
	}
	if m.IsNegative() {
		return nil, fmt.Errorf("%w: %s", domain.ErrInvalidPrice, field)
	}
	return m, nil
}

// parseHistoryQuery reads the price history filter from the query string.
func parseHistoryQuery(reason, since, pageSize string) (*time.Time, int, error) {
	if reason != "" && !domain.PriceChangeReason(reason).Valid() {
		return nil, 0, fmt.Errorf("%w: unknown reason %q", domain.ErrInvalidParams, reason)
	}

	var sinceTime *time.Time
	if since != "" {
		t, err := time.Parse(time.RFC3339, since)
		if err != nil {
			return nil, 0, fmt.Errorf("%w: since must be RFC 3339, got %q", domain.ErrInvalidParams, since)
		}
		sinceTime = &t
	}

	size := 0
	if pageSize != "" {
		n, err := strconv.Atoi(pageSize)
		if err != nil || n < 0 {
			return nil, 0, fmt.Errorf("%w: pageSize must be a positive integer, got %q", domain.ErrInvalidParams, pageSize)
		}
		size = n
	}

	return sinceTime, size, nil
}
