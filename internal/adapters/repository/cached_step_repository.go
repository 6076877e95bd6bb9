package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/stepperapp/stepper-insights/internal/core/domain"
)

var _ domain.StepRepository = (*CachedStepRepository)(nil)

const (
	rangeCacheTTL = 15 * time.Minute
)

// CachedStepRepository caches range reads in Redis. Range results are keyed
// by a per-user version counter; writes bump the counter instead of
// tracking every range key they would have to invalidate, and the orphaned
// entries age out via TTL.
type CachedStepRepository struct {
	next  domain.StepRepository
	cache *redis.Client
}

func NewCachedStepRepository(next domain.StepRepository, cache *redis.Client) *CachedStepRepository {
	return &CachedStepRepository{
		next:  next,
		cache: cache,
	}
}

func (r *CachedStepRepository) versionKey(userID string) string {
	return fmt.Sprintf("steps:ver:%s", userID)
}

func (r *CachedStepRepository) rangeKey(userID string, version int64, from, to time.Time) string {
	return fmt.Sprintf("steps:%s:v%d:%s:%s",
		userID, version, domain.DayKey(from), domain.DayKey(to))
}

func (r *CachedStepRepository) version(ctx context.Context, userID string) int64 {
	v, err := r.cache.Get(ctx, r.versionKey(userID)).Int64()
	if err != nil && err != redis.Nil {
		log.Printf("[CACHE] Redis version read error: %v", err)
	}
	return v
}

func (r *CachedStepRepository) bumpVersion(ctx context.Context, userID string) {
	if err := r.cache.Incr(ctx, r.versionKey(userID)).Err(); err != nil {
		log.Printf("[CACHE] Failed to bump cache version for user %s: %v", userID, err)
	}
}

func (r *CachedStepRepository) ListRange(ctx context.Context, userID string, from, to time.Time) ([]*domain.DailyRecord, error) {
	key := r.rangeKey(userID, r.version(ctx, userID), from, to)

	val, err := r.cache.Get(ctx, key).Result()
	if err == nil {
		var records []*domain.DailyRecord
		if err := json.Unmarshal([]byte(val), &records); err == nil {
			return records, nil
		}

		log.Printf("[CACHE] Corrupted range data for user %s, cleaning up key", userID)
		r.cache.Del(ctx, key)
	} else if err != redis.Nil {
		log.Printf("[CACHE] Redis read error: %v", err)
	}

	records, err := r.next.ListRange(ctx, userID, from, to)
	if err != nil {
		return nil, err
	}

	if data, err := json.Marshal(records); err == nil {
		if setErr := r.cache.Set(ctx, key, data, rangeCacheTTL).Err(); setErr != nil {
			log.Printf("[CACHE] Redis set error: %v", setErr)
		}
	}

	return records, nil
}

func (r *CachedStepRepository) GetByDate(ctx context.Context, userID string, date time.Time) (*domain.DailyRecord, error) {
	return r.next.GetByDate(ctx, userID, date)
}

func (r *CachedStepRepository) ActivityDatesDesc(ctx context.Context, userID string) ([]time.Time, error) {
	return r.next.ActivityDatesDesc(ctx, userID)
}

func (r *CachedStepRepository) Upsert(ctx context.Context, record *domain.DailyRecord) error {
	if err := r.next.Upsert(ctx, record); err != nil {
		return err
	}
	r.bumpVersion(ctx, record.UserID)
	return nil
}

func (r *CachedStepRepository) Delete(ctx context.Context, userID string, date time.Time) error {
	if err := r.next.Delete(ctx, userID, date); err != nil {
		return err
	}
	r.bumpVersion(ctx, userID)
	return nil
}
