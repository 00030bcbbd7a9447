// Package calendar provides the pure date arithmetic used by the recurring
// generation and projection engines: day-of-month clamping for short months,
// first-of-month normalization, and inclusive month counting. All functions
// work on UTC-normalized dates with zeroed time components.
package calendar

import "time"

// DateOnly truncates t to midnight UTC on the same calendar date.
func DateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// StartOfMonth returns the first day of t's month at midnight UTC.
func StartOfMonth(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, time.UTC)
}

// DaysInMonth returns the number of calendar days in the given month,
// accounting for leap years. time.Date normalizes day 0 of the next month
// to the last day of this one.
func DaysInMonth(year int, month time.Month) int {
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

// ClampDay clamps a day-of-month rule (1-31) to the last day of the given
// month. A rule of 31 yields 30 in April and 28 or 29 in February.
func ClampDay(year int, month time.Month, day int) int {
	if last := DaysInMonth(year, month); day > last {
		return last
	}
	return day
}

// OccurrenceInMonth returns the concrete date a day-of-month rule fires in
// the given month, with overflow clamped to the month's last day.
func OccurrenceInMonth(year int, month time.Month, dayOfMonth int) time.Time {
	return time.Date(year, month, ClampDay(year, month, dayOfMonth), 0, 0, 0, 0, time.UTC)
}

// MonthsBetweenInclusive counts calendar months from a's month through b's
// month, inclusive of both. January 1st to March 15th of the same year is 3.
// Returns 0 when b's month precedes a's.
func MonthsBetweenInclusive(a, b time.Time) int {
	from := StartOfMonth(a)
	to := StartOfMonth(b)
	if to.Before(from) {
		return 0
	}
	years := to.Year() - from.Year()
	months := int(to.Month()) - int(from.Month())
	return years*12 + months + 1
}

// MaxDate returns the later of two dates.
func MaxDate(a, b time.Time) time.Time {
	if a.After(b) {
		return a
	}
	return b
}
