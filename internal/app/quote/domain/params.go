package domain

import (
	"fmt"
	"time"
)

// Params are the trip parameters that drive price resolution.
type Params struct {
	NumberOfPeople int
	NumberOfNights int
	ArrivalDate    time.Time
}

// Validate checks the parameters are usable for a lookup.
func (p Params) Validate() error {
	if p.NumberOfPeople <= 0 {
		return fmt.Errorf("%w: number of people must be positive, got %d", ErrInvalidParams, p.NumberOfPeople)
	}
	if p.NumberOfNights <= 0 {
		return fmt.Errorf("%w: number of nights must be positive, got %d", ErrInvalidParams, p.NumberOfNights)
	}
	if p.ArrivalDate.IsZero() {
		return fmt.Errorf("%w: arrival date is required", ErrInvalidParams)
	}
	return nil
}
