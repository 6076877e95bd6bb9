package repository

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stepperapp/stepper-insights/internal/core/domain"
)

func TestInMemoryStepRepository(t *testing.T) {
	ctx := context.Background()
	day := func(d int) time.Time {
		return time.Date(2026, time.January, d, 0, 0, 0, 0, time.UTC)
	}

	t.Run("Upsert Replaces Same Day", func(t *testing.T) {
		repo := NewInMemoryStepRepository()

		require.NoError(t, repo.Upsert(ctx, domain.NewDailyRecord("u1", day(5), 4000, 2800)))
		require.NoError(t, repo.Upsert(ctx, domain.NewDailyRecord("u1", day(5), 6000, 4200)))

		rec, err := repo.GetByDate(ctx, "u1", day(5))
		require.NoError(t, err)
		assert.Equal(t, 6000, rec.StepCount)
		assert.Equal(t, 2, rec.Version)
	})

	t.Run("ListRange Is Ascending And Inclusive", func(t *testing.T) {
		repo := NewInMemoryStepRepository()

		for _, d := range []int{9, 3, 7, 5} {
			require.NoError(t, repo.Upsert(ctx, domain.NewDailyRecord("u1", day(d), 1000*d, 0)))
		}

		records, err := repo.ListRange(ctx, "u1", day(3), day(7))
		require.NoError(t, err)
		require.Len(t, records, 3)
		assert.Equal(t, 3, records[0].Date.Day())
		assert.Equal(t, 5, records[1].Date.Day())
		assert.Equal(t, 7, records[2].Date.Day())
	})

	t.Run("Delete Hides Record", func(t *testing.T) {
		repo := NewInMemoryStepRepository()

		require.NoError(t, repo.Upsert(ctx, domain.NewDailyRecord("u1", day(5), 4000, 2800)))
		require.NoError(t, repo.Delete(ctx, "u1", day(5)))

		_, err := repo.GetByDate(ctx, "u1", day(5))
		assert.ErrorIs(t, err, domain.ErrRecordNotFound)

		records, err := repo.ListRange(ctx, "u1", day(1), day(31))
		require.NoError(t, err)
		assert.Empty(t, records)

		err = repo.Delete(ctx, "u1", day(5))
		assert.ErrorIs(t, err, domain.ErrRecordNotFound)
	})

	t.Run("ActivityDatesDesc Skips Zero-Step Days", func(t *testing.T) {
		repo := NewInMemoryStepRepository()

		require.NoError(t, repo.Upsert(ctx, domain.NewDailyRecord("u1", day(2), 100, 70)))
		require.NoError(t, repo.Upsert(ctx, domain.NewDailyRecord("u1", day(3), 0, 0)))
		require.NoError(t, repo.Upsert(ctx, domain.NewDailyRecord("u1", day(8), 200, 140)))

		dates, err := repo.ActivityDatesDesc(ctx, "u1")
		require.NoError(t, err)
		require.Len(t, dates, 2)
		assert.Equal(t, 8, dates[0].Day())
		assert.Equal(t, 2, dates[1].Day())
	})
}

func TestInMemoryUserRepository(t *testing.T) {
	ctx := context.Background()

	newUser := func(t *testing.T, email string) *domain.User {
		t.Helper()
		u, err := domain.NewUser("id-"+email, email, "")
		require.NoError(t, err)
		return u
	}

	t.Run("Create And Lookup", func(t *testing.T) {
		repo := NewInMemoryUserRepository()
		u := newUser(t, "a@test.com")

		require.NoError(t, repo.Create(ctx, u))

		byID, err := repo.GetByID(ctx, u.ID)
		require.NoError(t, err)
		assert.Equal(t, u.Email, byID.Email)

		byEmail, err := repo.GetByEmail(ctx, "a@test.com")
		require.NoError(t, err)
		assert.Equal(t, u.ID, byEmail.ID)
	})

	t.Run("Fail: Duplicate Email", func(t *testing.T) {
		repo := NewInMemoryUserRepository()
		require.NoError(t, repo.Create(ctx, newUser(t, "a@test.com")))

		dup, err := domain.NewUser("other-id", "a@test.com", "")
		require.NoError(t, err)
		assert.ErrorIs(t, repo.Create(ctx, dup), domain.ErrEmailAlreadyExists)
	})

	t.Run("UpdateStreaks And ListIDs", func(t *testing.T) {
		repo := NewInMemoryUserRepository()
		u := newUser(t, "a@test.com")
		require.NoError(t, repo.Create(ctx, u))

		require.NoError(t, repo.UpdateStreaks(ctx, u.ID, 3, 9))
		got, err := repo.GetByID(ctx, u.ID)
		require.NoError(t, err)
		assert.Equal(t, 3, got.CurrentStreak)
		assert.Equal(t, 9, got.LongestStreak)

		ids, err := repo.ListIDs(ctx)
		require.NoError(t, err)
		assert.Equal(t, []string{u.ID}, ids)

		assert.ErrorIs(t, repo.UpdateStreaks(ctx, "missing", 1, 1), domain.ErrUserNotFound)
	})
}
