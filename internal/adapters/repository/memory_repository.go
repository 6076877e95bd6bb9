package repository

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/stepperapp/stepper-insights/internal/core/domain"
)

type InMemoryStepRepository struct {
	// store is keyed by userID, then by day key ("2006-01-02").
	store map[string]map[string]*domain.DailyRecord

	mu sync.RWMutex
}

func NewInMemoryStepRepository() *InMemoryStepRepository {
	return &InMemoryStepRepository{
		store: make(map[string]map[string]*domain.DailyRecord),
	}
}

func (r *InMemoryStepRepository) Upsert(ctx context.Context, record *domain.DailyRecord) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	days, ok := r.store[record.UserID]
	if !ok {
		days = make(map[string]*domain.DailyRecord)
		r.store[record.UserID] = days
	}

	key := record.DayKey()
	if prev, ok := days[key]; ok {
		record.ID = prev.ID
		record.Version = prev.Version + 1
		record.CreatedAt = prev.CreatedAt
	}
	record.DeletedAt = nil
	days[key] = record
	return nil
}

func (r *InMemoryStepRepository) GetByDate(ctx context.Context, userID string, date time.Time) (*domain.DailyRecord, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	record, ok := r.store[userID][domain.DayKey(date)]
	if !ok || record.DeletedAt != nil {
		return nil, domain.ErrRecordNotFound
	}
	return record, nil
}

func (r *InMemoryStepRepository) ListRange(ctx context.Context, userID string, from, to time.Time) ([]*domain.DailyRecord, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	records := []*domain.DailyRecord{}
	for _, rec := range r.store[userID] {
		if rec.DeletedAt != nil {
			continue
		}
		if rec.Date.Before(from) || rec.Date.After(to) {
			continue
		}
		records = append(records, rec)
	}

	sort.Slice(records, func(i, j int) bool {
		return records[i].Date.Before(records[j].Date)
	})

	return records, nil
}

func (r *InMemoryStepRepository) ActivityDatesDesc(ctx context.Context, userID string) ([]time.Time, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var dates []time.Time
	for _, rec := range r.store[userID] {
		if rec.DeletedAt == nil && rec.StepCount > 0 {
			dates = append(dates, rec.Date)
		}
	}

	sort.Slice(dates, func(i, j int) bool {
		return dates[i].After(dates[j])
	})

	return dates, nil
}

func (r *InMemoryStepRepository) Delete(ctx context.Context, userID string, date time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	record, ok := r.store[userID][domain.DayKey(date)]
	if !ok || record.DeletedAt != nil {
		return domain.ErrRecordNotFound
	}

	now := time.Now().UTC()
	record.DeletedAt = &now
	record.UpdatedAt = now
	record.Version++
	return nil
}

type InMemoryUserRepository struct {
	store map[string]*domain.User

	mu sync.RWMutex
}

func NewInMemoryUserRepository() *InMemoryUserRepository {
	return &InMemoryUserRepository{
		store: make(map[string]*domain.User),
	}
}

func (r *InMemoryUserRepository) Create(ctx context.Context, user *domain.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, existing := range r.store {
		if existing.Email == user.Email {
			return domain.ErrEmailAlreadyExists
		}
	}

	r.store[user.ID] = user
	return nil
}

func (r *InMemoryUserRepository) GetByID(ctx context.Context, id string) (*domain.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	user, ok := r.store[id]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	return user, nil
}

func (r *InMemoryUserRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, user := range r.store {
		if user.Email == email {
			return user, nil
		}
	}
	return nil, domain.ErrUserNotFound
}

func (r *InMemoryUserRepository) UpdateStreaks(ctx context.Context, id string, current, longest int) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	user, ok := r.store[id]
	if !ok {
		return domain.ErrUserNotFound
	}

	user.CurrentStreak = current
	user.LongestStreak = longest
	user.UpdatedAt = time.Now().UTC()
	return nil
}

func (r *InMemoryUserRepository) ListIDs(ctx context.Context) ([]string, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	ids := make([]string, 0, len(r.store))
	for id := range r.store {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids, nil
}
