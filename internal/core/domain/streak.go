package domain

import "time"

// ActivitySummary is derived fresh on every read; nothing here is stored
// except the denormalized streak columns maintained by the worker.
type ActivitySummary struct {
	CurrentStreak   int    `json:"current_streak"`
	LongestStreak   int    `json:"longest_streak"`
	TotalActiveDays int    `json:"total_active_days"`
	LastActiveDate  string `json:"last_active_date,omitempty"`
}

// CurrentStreak counts consecutive activity days ending at today or
// yesterday. datesDesc must hold distinct calendar dates sorted descending,
// most recent first; the function skips duplicates defensively but does not
// re-sort, so an unsorted input produces undefined results.
func CurrentStreak(datesDesc []time.Time, now time.Time) int {
	if len(datesDesc) == 0 {
		return 0
	}

	today := StartOfDay(now)
	yesterday := today.AddDate(0, 0, -1)

	mostRecent := StartOfDay(datesDesc[0])
	if !mostRecent.Equal(today) && !mostRecent.Equal(yesterday) {
		return 0
	}

	streak := 0
	expected := mostRecent
	for _, d := range datesDesc {
		day := StartOfDay(d)
		switch {
		case day.Equal(expected):
			streak++
			expected = expected.AddDate(0, 0, -1)
		case day.Before(expected):
			// Gap: the run ends here.
			return streak
		default:
			// Duplicate above the chain, skip without counting.
		}
	}
	return streak
}

// LongestStreak finds the longest run of consecutive days anywhere in the
// history. Same input contract as CurrentStreak.
func LongestStreak(datesDesc []time.Time) int {
	if len(datesDesc) == 0 {
		return 0
	}

	longest, run := 1, 1
	prev := StartOfDay(datesDesc[0])
	for _, d := range datesDesc[1:] {
		day := StartOfDay(d)
		switch {
		case day.Equal(prev):
			continue
		case day.Equal(prev.AddDate(0, 0, -1)):
			run++
		default:
			run = 1
		}
		if run > longest {
			longest = run
		}
		prev = day
	}
	return longest
}
