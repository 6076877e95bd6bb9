package workers

import (
	"context"
	"log"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/stepperapp/stepper-insights/internal/core/domain"
)

type UserRepository interface {
	GetByID(ctx context.Context, id string) (*domain.User, error)
	UpdateStreaks(ctx context.Context, id string, current, longest int) error
	ListIDs(ctx context.Context) ([]string, error)
}

type StepRepository interface {
	ActivityDatesDesc(ctx context.Context, userID string) ([]time.Time, error)
}

type StreakJob struct {
	UserID string
}

// StreakWorker keeps the denormalized streak columns on the user row in
// sync with the activity history. Jobs arrive on a buffered channel from
// the step write path; a nightly cron pass re-enqueues everyone because a
// current streak also changes when a day ends with no activity at all.
type StreakWorker struct {
	users UserRepository
	steps StepRepository
	jobs  chan StreakJob
	now   func() time.Time
}

func NewStreakWorker(users UserRepository, steps StepRepository) *StreakWorker {
	return &StreakWorker{
		users: users,
		steps: steps,
		jobs:  make(chan StreakJob, 100),
		now:   time.Now,
	}
}

func (w *StreakWorker) Start(ctx context.Context) {
	go func() {
		log.Println("Streak worker started in background...")
		for {
			select {
			case job := <-w.jobs:
				w.processJob(ctx, job)
			case <-ctx.Done():
				log.Println("Streak worker shutting down...")
				return
			}
		}
	}()
}

func (w *StreakWorker) Enqueue(userID string) {
	select {
	case w.jobs <- StreakJob{UserID: userID}:
	default:
		log.Printf("Streak worker queue full! Dropping job for user %s", userID)
	}
}

// StartNightlyRefresh schedules a full streak recompute shortly after
// midnight UTC. The returned scheduler should be stopped on shutdown.
func (w *StreakWorker) StartNightlyRefresh(ctx context.Context) *cron.Cron {
	c := cron.New(cron.WithLocation(time.UTC))

	_, err := c.AddFunc("5 0 * * *", func() {
		w.refreshAll(ctx)
	})
	if err != nil {
		log.Printf("Failed to schedule nightly streak refresh: %v", err)
		return c
	}

	c.Start()
	return c
}

func (w *StreakWorker) refreshAll(ctx context.Context) {
	ids, err := w.users.ListIDs(ctx)
	if err != nil {
		log.Printf("Nightly streak refresh: listing users failed: %v", err)
		return
	}

	log.Printf("Nightly streak refresh: enqueueing %d users", len(ids))
	for _, id := range ids {
		w.Enqueue(id)
	}
}

func (w *StreakWorker) processJob(ctx context.Context, job StreakJob) {
	user, err := w.users.GetByID(ctx, job.UserID)
	if err != nil {
		log.Printf("Worker error fetching user %s: %v", job.UserID, err)
		return
	}

	dates, err := w.steps.ActivityDatesDesc(ctx, job.UserID)
	if err != nil {
		log.Printf("Worker error fetching activity dates for %s: %v", job.UserID, err)
		return
	}

	current := domain.CurrentStreak(dates, w.now())
	longest := domain.LongestStreak(dates)

	if user.CurrentStreak == current && user.LongestStreak == longest {
		return
	}

	if err := w.users.UpdateStreaks(ctx, job.UserID, current, longest); err != nil {
		log.Printf("Worker failed to update streaks for %s: %v", job.UserID, err)
		return
	}
	log.Printf("Streaks updated for %s: current=%d, longest=%d", job.UserID, current, longest)
}
