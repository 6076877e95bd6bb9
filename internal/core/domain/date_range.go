package domain

import (
	"errors"
	"time"
)

var (
	ErrInvalidDateRange = errors.New("date range start must not be after end")
	ErrInvalidViewMode  = errors.New("invalid view mode (must be daily, weekly, or monthly)")
	ErrFutureOffset     = errors.New("period offset cannot point into the future")
)

const (
	ViewModeDaily   = "daily"
	ViewModeWeekly  = "weekly"
	ViewModeMonthly = "monthly"

	// DayKeyLayout is the canonical date-only key used everywhere a calendar
	// day identifies a record.
	DayKeyLayout = "2006-01-02"
)

// ValidateViewMode checks that mode is one of the three supported granularities.
func ValidateViewMode(mode string) error {
	switch mode {
	case ViewModeDaily, ViewModeWeekly, ViewModeMonthly:
		return nil
	}
	return ErrInvalidViewMode
}

// DateRange is an inclusive [Start, End] pair of calendar days.
// Both bounds are normalized to midnight UTC; Start never exceeds End.
type DateRange struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

// NewDateRange normalizes both bounds to the start of their calendar day
// and rejects inverted ranges.
func NewDateRange(start, end time.Time) (DateRange, error) {
	s := StartOfDay(start)
	e := StartOfDay(end)
	if s.After(e) {
		return DateRange{}, ErrInvalidDateRange
	}
	return DateRange{Start: s, End: e}, nil
}

// Days returns the number of calendar days covered by the range, inclusive.
func (r DateRange) Days() int {
	return int(r.End.Sub(r.Start).Hours()/24) + 1
}

// Contains reports whether the given day falls inside the range.
func (r DateRange) Contains(day time.Time) bool {
	d := StartOfDay(day)
	return !d.Before(r.Start) && !d.After(r.End)
}

func (r DateRange) assertValid() {
	if r.Start.After(r.End) {
		// Only CalculateDateRange and NewDateRange produce ranges, and both
		// guarantee ordering. An inverted range here is a programming error.
		panic("domain: inverted date range")
	}
}

// StartOfDay truncates t to midnight UTC of its calendar day.
func StartOfDay(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// EndOfDay returns the last instant of t's calendar day in UTC. Used only at
// the query boundary; date arithmetic works on StartOfDay values.
func EndOfDay(t time.Time) time.Time {
	return StartOfDay(t).Add(24*time.Hour - time.Nanosecond)
}

// DayKey formats a time as the canonical YYYY-MM-DD lookup key.
func DayKey(t time.Time) string {
	return t.UTC().Format(DayKeyLayout)
}
