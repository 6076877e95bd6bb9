package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/stepperapp/stepper-insights/internal/core/domain"
)

type PostgresStepRepository struct {
	db *sqlx.DB
}

func NewPostgresStepRepository(db *sqlx.DB) *PostgresStepRepository {
	return &PostgresStepRepository{db: db}
}

// Upsert replaces the day's aggregate in place. Providers resend the whole
// day on every sync, so last write wins on (user_id, activity_date).
func (r *PostgresStepRepository) Upsert(ctx context.Context, record *domain.DailyRecord) error {
	if record.ID == "" {
		record.ID = uuid.NewString()
	}

	query := `
		INSERT INTO daily_steps (
			id, user_id, activity_date,
			step_count, distance_meters,
			version, created_at, updated_at, deleted_at
		) VALUES (
			:id, :user_id, :activity_date,
			:step_count, :distance_meters,
			:version, :created_at, :updated_at, :deleted_at
		)
		ON CONFLICT (user_id, activity_date) DO UPDATE
		SET step_count      = EXCLUDED.step_count,
		    distance_meters = EXCLUDED.distance_meters,
		    version         = daily_steps.version + 1,
		    updated_at      = EXCLUDED.updated_at,
		    deleted_at      = NULL`

	_, err := r.db.NamedExecContext(ctx, query, record)
	if err != nil {
		if pqErr, ok := err.(*pq.Error); ok {
			if pqErr.Code == "23503" {
				return errors.New("referenced user does not exist")
			}
			if pqErr.Code == "23505" {
				return domain.ErrRecordConflict
			}
		}
		return err
	}
	return nil
}

func (r *PostgresStepRepository) GetByDate(ctx context.Context, userID string, date time.Time) (*domain.DailyRecord, error) {
	var record domain.DailyRecord
	query := `
		SELECT * FROM daily_steps
		WHERE user_id = $1
		  AND activity_date = $2
		  AND deleted_at IS NULL`

	err := r.db.GetContext(ctx, &record, query, userID, domain.StartOfDay(date))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrRecordNotFound
		}
		return nil, err
	}
	return &record, nil
}

func (r *PostgresStepRepository) ListRange(ctx context.Context, userID string, from, to time.Time) ([]*domain.DailyRecord, error) {
	records := []*domain.DailyRecord{}

	query := `
		SELECT * FROM daily_steps
		WHERE user_id = $1
		  AND activity_date >= $2
		  AND activity_date <= $3
		  AND deleted_at IS NULL
		ORDER BY activity_date ASC`

	err := r.db.SelectContext(ctx, &records, query, userID, from, to)
	if err != nil {
		return nil, err
	}
	return records, nil
}

// ActivityDatesDesc feeds the streak math, which walks dates newest first.
// Zero-step days do not count as activity.
func (r *PostgresStepRepository) ActivityDatesDesc(ctx context.Context, userID string) ([]time.Time, error) {
	dates := []time.Time{}

	query := `
		SELECT activity_date FROM daily_steps
		WHERE user_id = $1
		  AND step_count > 0
		  AND deleted_at IS NULL
		ORDER BY activity_date DESC`

	err := r.db.SelectContext(ctx, &dates, query, userID)
	if err != nil {
		return nil, err
	}
	return dates, nil
}

func (r *PostgresStepRepository) Delete(ctx context.Context, userID string, date time.Time) error {
	now := time.Now().UTC()

	query := `
		UPDATE daily_steps
		SET deleted_at = $1,
		    updated_at = $1,
		    version = version + 1
		WHERE user_id = $2
		  AND activity_date = $3
		  AND deleted_at IS NULL`

	result, err := r.db.ExecContext(ctx, query, now, userID, domain.StartOfDay(date))
	if err != nil {
		return err
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return domain.ErrRecordNotFound
	}

	return nil
}
