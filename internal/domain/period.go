package domain

import (
	"math"
	"time"

	"github.com/shopspring/decimal"
)

// DateOnly drops the clock part of t, keeping its calendar date at UTC midnight
func DateOnly(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// ValidateDateRange checks that both dates are set and start < end
func ValidateDateRange(start, end time.Time) error {
	if start.IsZero() || end.IsZero() {
		return ErrInvalidDateRange
	}
	if !DateOnly(start).Before(DateOnly(end)) {
		return ErrInvalidDateRange
	}
	return nil
}

// Overlaps reports whether [existingStart, existingEnd] and
// [start, end] share at least one day.
//
// Both boundaries are inclusive: a booking ending on 2024-03-01 conflicts
// with one starting on 2024-03-01.
func Overlaps(existingStart, existingEnd, start, end time.Time) bool {
	return !DateOnly(existingStart).After(DateOnly(end)) &&
		!DateOnly(existingEnd).Before(DateOnly(start))
}

// DaysBetween returns the number of calendar days from start to end
func DaysBetween(start, end time.Time) int {
	return int(DateOnly(end).Sub(DateOnly(start)) / (24 * time.Hour))
}

// DurationMonths approximates the stay length in billing months as
// ceil(days / 30). This is not exact month counting: 2024-01-01..2024-04-01
// is 91 days and therefore 4 billing months.
func DurationMonths(start, end time.Time) int {
	days := DaysBetween(start, end)
	if days <= 0 {
		return 0
	}
	return int(math.Ceil(float64(days) / DaysPerBillingMonth))
}

// ComputeAmounts returns the total rent for the stay and the flat
// one-month deposit.
func ComputeAmounts(start, end time.Time, monthlyPrice decimal.Decimal) (total, deposit decimal.Decimal) {
	months := decimal.NewFromInt(int64(DurationMonths(start, end)))
	return monthlyPrice.Mul(months), monthlyPrice
}

// FirstConflict returns the first booking in the list that blocks
// [start, end], or nil when the interval is free
func FirstConflict(bookings []*Booking, start, end time.Time) *Booking {
	for _, b := range bookings {
		if b.ConflictsWith(start, end) {
			return b
		}
	}
	return nil
}
