// internal/jobs/cache.go
package jobs

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"

	"jobboard-api/internal/common/errors"
	"jobboard-api/internal/common/logger"
	"jobboard-api/internal/models"
)

// Cache holds the hot-path state in Redis: per-job view counters (flushed
// to Postgres in the background) and the similar-jobs candidate pools.
type Cache struct {
	rdb    *redis.Client
	ttl    time.Duration
	logger logger.Logger
}

func NewCache(rdb *redis.Client, ttl time.Duration, log logger.Logger) *Cache {
	return &Cache{
		rdb:    rdb,
		ttl:    ttl,
		logger: log.WithFields(map[string]interface{}{"component": "jobs.cache"}),
	}
}

func viewKey(jobID string) string { return "job:views:" + jobID }
func poolKey(jobID string) string { return "job:pool:" + jobID }

// IncrementView bumps the pending view counter for a job.
func (c *Cache) IncrementView(ctx context.Context, jobID string) (int64, error) {
	n, err := c.rdb.Incr(ctx, viewKey(jobID)).Result()
	if err != nil {
		return 0, errors.NewCacheFailedError(err)
	}
	return n, nil
}

// TakeViews atomically reads and resets the pending view counter so the
// caller can flush it to the database exactly once.
func (c *Cache) TakeViews(ctx context.Context, jobID string) (int64, error) {
	val, err := c.rdb.GetDel(ctx, viewKey(jobID)).Int64()
	if err == redis.Nil {
		return 0, nil
	}
	if err != nil {
		return 0, errors.NewCacheFailedError(err)
	}
	return val, nil
}

// GetCandidatePool returns the cached candidate pool for a reference job,
// or false when absent. Cache failures degrade to a miss.
func (c *Cache) GetCandidatePool(ctx context.Context, jobID string) ([]models.Job, bool) {
	val, err := c.rdb.Get(ctx, poolKey(jobID)).Result()
	if err != nil {
		if err != redis.Nil {
			c.logger.Warn("candidate pool read failed", map[string]interface{}{
				"jobId": jobID,
				"error": err.Error(),
			})
		}
		return nil, false
	}

	var pool []models.Job
	if err := json.Unmarshal([]byte(val), &pool); err != nil {
		return nil, false
	}
	return pool, true
}

// SetCandidatePool caches the candidate pool with the configured TTL.
func (c *Cache) SetCandidatePool(ctx context.Context, jobID string, pool []models.Job) {
	data, err := json.Marshal(pool)
	if err != nil {
		return
	}
	if err := c.rdb.Set(ctx, poolKey(jobID), data, c.ttl).Err(); err != nil {
		c.logger.Warn("candidate pool write failed", map[string]interface{}{
			"jobId": jobID,
			"error": err.Error(),
		})
	}
}

// InvalidatePool drops the cached pool after a job changes.
func (c *Cache) InvalidatePool(ctx context.Context, jobID string) {
	if err := c.rdb.Del(ctx, poolKey(jobID)).Err(); err != nil {
		c.logger.Warn("candidate pool invalidation failed", map[string]interface{}{
			"jobId": jobID,
			"error": err.Error(),
		})
	}
}
