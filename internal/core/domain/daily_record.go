package domain

import (
	"errors"
	"strings"
	"time"
)

var (
	ErrNegativeSteps    = errors.New("step count cannot be negative")
	ErrNegativeDistance = errors.New("distance cannot be negative")
	ErrRecordInvalid    = errors.New("invalid daily step record")
)

// DailyRecord is one calendar date's aggregate activity for one user: the
// day's total step count and distance across all sources. There is at most
// one active record per user and date; days without activity have no row
// and count as zero when aggregated.
type DailyRecord struct {
	ID     string `json:"id" db:"id"`
	UserID string `json:"user_id" db:"user_id"`

	Date           time.Time `json:"date" db:"activity_date"`
	StepCount      int       `json:"step_count" db:"step_count"`
	DistanceMeters float64   `json:"distance_meters" db:"distance_meters"`

	Version   int        `json:"version" db:"version"`
	CreatedAt time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt time.Time  `json:"updated_at" db:"updated_at"`
	DeletedAt *time.Time `json:"deleted_at,omitempty" db:"deleted_at"`
}

// NewDailyRecord builds a record with the date normalized to its calendar
// day. Payloads from providers pass through Validate before touching
// storage; malformed entries are rejected explicitly rather than defaulted
// at the point of use.
func NewDailyRecord(userID string, date time.Time, steps int, distanceMeters float64) *DailyRecord {
	now := time.Now().UTC()

	return &DailyRecord{
		UserID:         userID,
		Date:           StartOfDay(date),
		StepCount:      steps,
		DistanceMeters: distanceMeters,

		Version:   1,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

func (r *DailyRecord) Validate() error {
	if strings.TrimSpace(r.UserID) == "" {
		return errors.New("user_id is required")
	}
	if r.Date.IsZero() {
		return errors.New("date is required")
	}
	if r.StepCount < 0 {
		return ErrNegativeSteps
	}
	if r.DistanceMeters < 0 {
		return ErrNegativeDistance
	}
	return nil
}

// DayKey returns the canonical YYYY-MM-DD key identifying this record
// within a user's history.
func (r *DailyRecord) DayKey() string {
	return DayKey(r.Date)
}
