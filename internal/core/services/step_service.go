package services

import (
	"context"
	"time"

	"github.com/stepperapp/stepper-insights/internal/core/domain"
	"github.com/stepperapp/stepper-insights/internal/core/workers"
)

// StepService handles the write path for daily step aggregates and the raw
// history reads the charts feed on.
type StepService struct {
	repo   domain.StepRepository
	worker *workers.StreakWorker
}

func NewStepService(repo domain.StepRepository, worker *workers.StreakWorker) *StepService {
	return &StepService{
		repo:   repo,
		worker: worker,
	}
}

type LogStepsInput struct {
	UserID         string
	Date           time.Time
	StepCount      int
	DistanceMeters float64
}

// LogSteps records the aggregate for one day, replacing any previous value
// for that date. A streak recompute is queued on every write since a new
// activity day can extend or revive the streak.
func (s *StepService) LogSteps(ctx context.Context, input LogStepsInput) (*domain.DailyRecord, error) {
	record := domain.NewDailyRecord(input.UserID, input.Date, input.StepCount, input.DistanceMeters)

	if err := record.Validate(); err != nil {
		return nil, err
	}

	if err := s.repo.Upsert(ctx, record); err != nil {
		return nil, err
	}

	s.worker.Enqueue(record.UserID)

	return record, nil
}

// History returns the raw daily records for an inclusive date range,
// ordered ascending. Days without activity are absent from the result.
func (s *StepService) History(ctx context.Context, userID string, from, to time.Time) ([]*domain.DailyRecord, error) {
	rng, err := domain.NewDateRange(from, to)
	if err != nil {
		return nil, err
	}
	return s.repo.ListRange(ctx, userID, rng.Start, domain.EndOfDay(rng.End))
}

// Delete removes the record for one day and queues a streak recompute.
func (s *StepService) Delete(ctx context.Context, userID string, date time.Time) error {
	if err := s.repo.Delete(ctx, userID, date); err != nil {
		return err
	}
	s.worker.Enqueue(userID)
	return nil
}
