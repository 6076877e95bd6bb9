package services

import (
	"context"
	"time"

	"github.com/stepperapp/stepper-insights/internal/core/domain"
)

// StreakService is the read path for the profile activity summary. Streaks
// are recomputed fresh from the activity dates on every call; the
// denormalized columns on the user row are only the worker's cache for
// consumers that cannot afford the scan.
type StreakService struct {
	steps domain.StepRepository
	now   func() time.Time
}

func NewStreakService(steps domain.StepRepository) *StreakService {
	return &StreakService{
		steps: steps,
		now:   time.Now,
	}
}

// ActivitySummary computes the user's streaks and activity totals from the
// distinct activity dates, supplied by the repository sorted descending.
func (s *StreakService) ActivitySummary(ctx context.Context, userID string) (*domain.ActivitySummary, error) {
	dates, err := s.steps.ActivityDatesDesc(ctx, userID)
	if err != nil {
		return nil, err
	}

	summary := &domain.ActivitySummary{
		CurrentStreak:   domain.CurrentStreak(dates, s.now()),
		LongestStreak:   domain.LongestStreak(dates),
		TotalActiveDays: len(dates),
	}
	if len(dates) > 0 {
		summary.LastActiveDate = domain.DayKey(dates[0])
	}
	return summary, nil
}
