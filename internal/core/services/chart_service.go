package services

import (
	"context"
	"sort"
	"time"

	"github.com/stepperapp/stepper-insights/internal/core/domain"
)

// ChartService derives chart views from the steps history. All calendar
// math and bucketing is pure domain logic; this service only owns the
// fetch and the clock.
type ChartService struct {
	steps domain.StepRepository
	now   func() time.Time
}

func NewChartService(steps domain.StepRepository) *ChartService {
	return &ChartService{
		steps: steps,
		now:   time.Now,
	}
}

// GetChart builds the offset-navigated view for a mode. Offsets pointing
// past the current period are rejected; by policy the UI never navigates
// into the future.
func (s *ChartService) GetChart(ctx context.Context, userID, mode string, offset int) (*domain.ChartView, error) {
	if err := domain.ValidateViewMode(mode); err != nil {
		return nil, err
	}
	if offset > 0 {
		return nil, domain.ErrFutureOffset
	}

	rng := domain.CalculateDateRange(mode, offset, s.now())
	return s.buildView(ctx, userID, mode, rng)
}

// GetCustomChart builds the view for an explicit user-picked range.
// Custom ranges are always aggregated at daily granularity.
func (s *ChartService) GetCustomChart(ctx context.Context, userID string, rng domain.DateRange) (*domain.ChartView, error) {
	return s.buildView(ctx, userID, domain.ViewModeDaily, rng)
}

// Presets returns the quick-select ranges evaluated at the current day.
func (s *ChartService) Presets() []domain.RangePreset {
	return domain.RangePresets(s.now())
}

func (s *ChartService) buildView(ctx context.Context, userID, mode string, rng domain.DateRange) (*domain.ChartView, error) {
	records, err := s.steps.ListRange(ctx, userID, rng.Start, domain.EndOfDay(rng.End))
	if err != nil {
		return nil, err
	}

	// The repository already orders by date, but the provider contract only
	// promises "ordered or unordered"; aggregation expects ascending input.
	sort.Slice(records, func(i, j int) bool {
		return records[i].Date.Before(records[j].Date)
	})

	index := domain.BuildDailyIndex(records)
	points := domain.AggregateRange(rng, mode, index)

	return &domain.ChartView{
		Mode:        mode,
		Range:       rng,
		Data:        points,
		Stats:       domain.ComputeStats(rng, points, index),
		PeriodLabel: domain.FormatPeriodLabel(mode, rng),
	}, nil
}
