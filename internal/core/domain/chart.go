package domain

import (
	"fmt"
	"math"
	"time"
)

// AggregatedPoint is one bucket in a rendered chart: a day, a week, or a
// month depending on the view mode. Points are always emitted oldest first.
type AggregatedPoint struct {
	Label    string `json:"label"`
	Value    int    `json:"value"`
	SubLabel string `json:"sub_label,omitempty"`
}

// PeriodStats summarizes the underlying daily values of a range. Total is
// the sum of daily step counts across the whole range, not the sum of
// bucket values (those coincide only when buckets tile the range exactly).
type PeriodStats struct {
	Total          int     `json:"total"`
	Average        int     `json:"average"`
	DistanceMeters float64 `json:"distance_meters"`
}

// ChartView is the fully derived display bundle for one aggregation pass.
type ChartView struct {
	Mode        string            `json:"mode"`
	Range       DateRange         `json:"range"`
	Data        []AggregatedPoint `json:"data"`
	Stats       PeriodStats       `json:"stats"`
	PeriodLabel string            `json:"period_label"`
}

// BuildDailyIndex maps day keys (YYYY-MM-DD) to records. Duplicate dates
// overwrite, last wins. Record contents are trusted as-is; validation
// happens at the boundary that produced them.
func BuildDailyIndex(records []*DailyRecord) map[string]*DailyRecord {
	index := make(map[string]*DailyRecord, len(records))
	for _, rec := range records {
		index[rec.DayKey()] = rec
	}
	return index
}

// AggregateRange buckets the indexed daily values over rng according to the
// view mode. Days absent from the index count as zero, so an empty index
// still yields the full bucket skeleton and charts render complete axes.
func AggregateRange(rng DateRange, mode string, index map[string]*DailyRecord) []AggregatedPoint {
	rng.assertValid()

	switch mode {
	case ViewModeWeekly:
		return aggregateWeekly(rng, index)
	case ViewModeMonthly:
		return aggregateMonthly(rng, index)
	default:
		return aggregateDaily(rng, index)
	}
}

func stepsOn(index map[string]*DailyRecord, day time.Time) int {
	if rec, ok := index[DayKey(day)]; ok {
		return rec.StepCount
	}
	return 0
}

// aggregateDaily emits one point per calendar day, labeled with the
// day-of-week abbreviation.
func aggregateDaily(rng DateRange, index map[string]*DailyRecord) []AggregatedPoint {
	points := make([]AggregatedPoint, 0, rng.Days())
	for day := rng.Start; !day.After(rng.End); day = day.AddDate(0, 0, 1) {
		points = append(points, AggregatedPoint{
			Label:    day.Format("Mon"),
			Value:    stepsOn(index, day),
			SubLabel: day.Format("Jan 2"),
		})
	}
	return points
}

// aggregateWeekly emits one point per Monday-Sunday week, starting at the
// Monday of the week containing rng.Start. Weeks are numbered sequentially.
func aggregateWeekly(rng DateRange, index map[string]*DailyRecord) []AggregatedPoint {
	points := make([]AggregatedPoint, 0, weeksPerWindow)

	week := 1
	for monday := MondayOf(rng.Start); !monday.After(rng.End); monday = monday.AddDate(0, 0, 7) {
		sunday := monday.AddDate(0, 0, 6)

		total := 0
		for day := monday; !day.After(sunday); day = day.AddDate(0, 0, 1) {
			total += stepsOn(index, day)
		}

		points = append(points, AggregatedPoint{
			Label:    fmt.Sprintf("Wk %d", week),
			Value:    total,
			SubLabel: fmt.Sprintf("%s-%d", monday.Format("Jan 2"), sunday.Day()),
		})
		week++
	}
	return points
}

// aggregateMonthly emits one point per calendar month from the month of
// rng.Start through the month of rng.End, summing every day of each month.
func aggregateMonthly(rng DateRange, index map[string]*DailyRecord) []AggregatedPoint {
	points := make([]AggregatedPoint, 0, monthsPerWindow)

	first := time.Date(rng.Start.Year(), rng.Start.Month(), 1, 0, 0, 0, 0, time.UTC)
	last := time.Date(rng.End.Year(), rng.End.Month(), 1, 0, 0, 0, 0, time.UTC)

	for month := first; !month.After(last); month = month.AddDate(0, 1, 0) {
		nextMonth := month.AddDate(0, 1, 0)

		total := 0
		for day := month; day.Before(nextMonth); day = day.AddDate(0, 0, 1) {
			total += stepsOn(index, day)
		}

		points = append(points, AggregatedPoint{
			Label:    month.Format("Jan"),
			Value:    total,
			SubLabel: month.Format("2006"),
		})
	}
	return points
}

// ComputeStats sums the daily values inside rng regardless of bucketing.
// Average is total over the number of buckets produced, rounded to the
// nearest integer, and zero when there are no buckets.
func ComputeStats(rng DateRange, points []AggregatedPoint, index map[string]*DailyRecord) PeriodStats {
	rng.assertValid()

	stats := PeriodStats{}
	for day := rng.Start; !day.After(rng.End); day = day.AddDate(0, 0, 1) {
		if rec, ok := index[DayKey(day)]; ok {
			stats.Total += rec.StepCount
			stats.DistanceMeters += rec.DistanceMeters
		}
	}

	if len(points) > 0 {
		stats.Average = int(math.Round(float64(stats.Total) / float64(len(points))))
	}
	return stats
}
