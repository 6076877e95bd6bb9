package domain

import "time"

const (
	daysPerWindow   = 7
	weeksPerWindow  = 7
	monthsPerWindow = 12
)

// CalculateDateRange computes the calendar-aligned window shown for a view
// mode at a given period offset. Offset 0 is the window ending today,
// negative offsets shift whole windows into the past. The result is valid
// for any integer offset, including across year boundaries.
func CalculateDateRange(mode string, offset int, now time.Time) DateRange {
	today := StartOfDay(now)

	switch mode {
	case ViewModeWeekly:
		// Seven full Monday-Sunday weeks, the last one containing today.
		endMonday := MondayOf(today).AddDate(0, 0, offset*daysPerWindow*weeksPerWindow)
		end := endMonday.AddDate(0, 0, 6)
		start := endMonday.AddDate(0, 0, -(weeksPerWindow-1)*7)
		return DateRange{Start: start, End: end}

	case ViewModeMonthly:
		// Twelve whole calendar months ending with the current month.
		endMonthFirst := time.Date(today.Year(), today.Month(), 1, 0, 0, 0, 0, time.UTC).
			AddDate(0, offset*monthsPerWindow, 0)
		start := endMonthFirst.AddDate(0, -(monthsPerWindow - 1), 0)
		end := endMonthFirst.AddDate(0, 1, -1)
		return DateRange{Start: start, End: end}

	default:
		// Daily: a 7-day window shifted by whole windows.
		end := today.AddDate(0, 0, offset*daysPerWindow)
		return DateRange{Start: end.AddDate(0, 0, -(daysPerWindow - 1)), End: end}
	}
}

// MondayOf returns the Monday of the week containing day. Monday is the
// first day of the week regardless of locale; Sunday belongs to the week
// that started six days earlier.
func MondayOf(day time.Time) time.Time {
	d := StartOfDay(day)
	weekday := int(d.Weekday())
	if weekday == 0 {
		weekday = 7
	}
	return d.AddDate(0, 0, -(weekday - 1))
}

const (
	PresetLast7Days  = "last_7_days"
	PresetLast30Days = "last_30_days"
	PresetThisMonth  = "this_month"
)

// RangePreset is a named quick-select range, independent of view mode.
type RangePreset struct {
	ID    string    `json:"id"`
	Label string    `json:"label"`
	Range DateRange `json:"range"`
}

// RangePresets returns the three quick-select presets evaluated at now.
// Unlike offset navigation these take effect immediately, so the computed
// ranges are returned alongside their identifiers.
func RangePresets(now time.Time) []RangePreset {
	today := StartOfDay(now)

	return []RangePreset{
		{
			ID:    PresetLast7Days,
			Label: "Last 7 days",
			Range: DateRange{Start: today.AddDate(0, 0, -6), End: today},
		},
		{
			ID:    PresetLast30Days,
			Label: "Last 30 days",
			Range: DateRange{Start: today.AddDate(0, 0, -29), End: today},
		},
		{
			ID:    PresetThisMonth,
			Label: "This month",
			Range: DateRange{
				Start: time.Date(today.Year(), today.Month(), 1, 0, 0, 0, 0, time.UTC),
				End:   today,
			},
		},
	}
}
