package billing

import (
	"math"
	"time"
)

// DefaultChargeIntervalDays is how many days of occupancy (or since the last
// payment) must elapse before rent comes due.
const DefaultChargeIntervalDays = 30

// ShouldCharge reports whether a tenant owes rent on the given run date.
//
// The operative day count is days since the last successful payment when one
// exists, otherwise days since move-in, floored to whole days. A tenant whose
// move-out date has arrived is never charged, regardless of the day count.
// The threshold is inclusive: rent comes due on day intervalDays exactly.
func ShouldCharge(today, moveIn time.Time, lastPayment, moveOut *time.Time, intervalDays int) bool {
	if moveOut != nil && !today.Before(*moveOut) {
		return false
	}

	unpaidDays := daysBetween(moveIn, today)
	if lastPayment != nil {
		unpaidDays = daysBetween(*lastPayment, today)
	}

	return unpaidDays >= intervalDays
}

// daysBetween returns the whole days from one instant to another, flooring
// fractional days. Negative when from is in the future.
func daysBetween(from, to time.Time) int {
	return int(math.Floor(to.Sub(from).Hours() / 24))
}
