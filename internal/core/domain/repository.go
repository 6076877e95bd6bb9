package domain

import (
	"context"
	"errors"
	"time"
)

var (
	ErrRecordNotFound = errors.New("daily step record not found")
	ErrRecordConflict = errors.New("daily step record version conflict")
	ErrUnauthorized   = errors.New("unauthorized access")
)

// StepRepository is the steps-history port. It doubles as the Steps History
// Provider (ListRange) and the Activity Dates Provider (ActivityDatesDesc)
// consumed by the chart and streak paths.
type StepRepository interface {
	// Upsert creates or replaces the aggregate for the record's user and
	// date. Providers send whole-day aggregates, so the new values replace
	// the old ones rather than adding to them.
	Upsert(ctx context.Context, record *DailyRecord) error

	// GetByDate retrieves the active record for a single day.
	GetByDate(ctx context.Context, userID string, date time.Time) (*DailyRecord, error)

	// ListRange retrieves all active records for a user between from and to
	// inclusive, ordered by date ascending. Days with no activity are
	// simply absent from the result.
	ListRange(ctx context.Context, userID string, from, to time.Time) ([]*DailyRecord, error)

	// ActivityDatesDesc returns the user's distinct activity dates (days
	// with at least one recorded step), sorted descending. Input contract
	// for the streak calculations.
	ActivityDatesDesc(ctx context.Context, userID string) ([]time.Time, error)

	// Delete soft-deletes the record for one day.
	Delete(ctx context.Context, userID string, date time.Time) error
}

// UserRepository persists user accounts and their denormalized streak
// columns.
type UserRepository interface {
	Create(ctx context.Context, user *User) error
	GetByID(ctx context.Context, id string) (*User, error)
	GetByEmail(ctx context.Context, email string) (*User, error)

	// UpdateStreaks stores the recomputed streak pair for a user.
	UpdateStreaks(ctx context.Context, id string, current, longest int) error

	// ListIDs returns every user id, used by the nightly streak refresh.
	ListIDs(ctx context.Context) ([]string, error)
}
