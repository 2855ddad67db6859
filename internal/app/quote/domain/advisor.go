package domain

import (
	"fmt"
	"strconv"
	"strings"
)

// WarningCode classifies an advisory warning.
type WarningCode string

const (
	WarningDurationNotOffered   WarningCode = "DURATION_NOT_OFFERED"
	WarningPeopleOutsideTier    WarningCode = "PEOPLE_OUTSIDE_TIER"
	WarningArrivalOutsidePeriod WarningCode = "ARRIVAL_OUTSIDE_PERIOD"
)

// Warning is a non-blocking annotation returned alongside a calculated price.
type Warning struct {
	Code    WarningCode `json:"code"`
	Message string      `json:"message"`
}

// Advise checks quote parameters against the package and the resolved selection.
// Each check runs independently; warnings never prevent a price from being applied.
func Advise(pkg *Package, params Params, res *Resolution) []Warning {
	warnings := make([]Warning, 0)

	if len(pkg.DurationOptions) > 0 && !pkg.OffersDuration(params.NumberOfNights) {
		warnings = append(warnings, Warning{
			Code: WarningDurationNotOffered,
			Message: fmt.Sprintf("%d nights is not offered by this package; available options: %s",
				params.NumberOfNights, joinInts(pkg.DurationOptions)),
		})
	}

	if res == nil {
		return warnings
	}

	if res.TierIndex >= 0 && res.TierIndex < len(pkg.GroupSizeTiers) {
		tier := pkg.GroupSizeTiers[res.TierIndex]
		if !tier.Contains(params.NumberOfPeople) {
			warnings = append(warnings, Warning{
				Code: WarningPeopleOutsideTier,
				Message: fmt.Sprintf("%d people is outside the selected tier %q range %s",
					params.NumberOfPeople, tier.Label, tier.Range()),
			})
		}
	}

	if res.PeriodType == PeriodSpecial && res.PeriodStart != nil && res.PeriodEnd != nil {
		period := PeriodEntry{PeriodType: PeriodSpecial, StartDate: res.PeriodStart, EndDate: res.PeriodEnd}
		if !period.Covers(params.ArrivalDate) {
			warnings = append(warnings, Warning{
				Code: WarningArrivalOutsidePeriod,
				Message: fmt.Sprintf("arrival %s is outside the special period %q (%s)",
					params.ArrivalDate.Format(DateLayout), res.PeriodLabel, period.DateRange()),
			})
		}
	}

	return warnings
}

func joinInts(values []int) string {
	parts := make([]string, len(values))
	for i, v := range values {
		parts[i] = strconv.Itoa(v)
	}
	return strings.Join(parts, ", ")
}
