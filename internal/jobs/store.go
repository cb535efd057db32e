// internal/jobs/store.go
package jobs

import (
	"context"
	"database/sql"
	stderrors "errors"
	"strconv"
	"time"

	"github.com/lib/pq"

	"jobboard-api/internal/common/errors"
	"jobboard-api/internal/common/logger"
	"jobboard-api/internal/models"
)

// Store persists job postings in PostgreSQL.
type Store struct {
	db     *sql.DB
	logger logger.Logger
}

func NewStore(db *sql.DB, log logger.Logger) *Store {
	return &Store{
		db:     db,
		logger: log.WithFields(map[string]interface{}{"component": "jobs.store"}),
	}
}

const jobColumns = `id, employer_id, title, description, category, job_type,
	platform_categories, city, region, tags, seniority, diaspora, featured,
	tier, duration_days, base_price, discount, price_increase, final_price,
	currency, applied_rules, campaign_applied, status, is_deleted, view_count,
	created_at, updated_at`

// Insert stores a freshly created job.
func (s *Store) Insert(ctx context.Context, job *models.Job) error {
	query := `INSERT INTO jobs (` + jobColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14,
			$15, $16, $17, $18, $19, $20, $21, $22, $23, $24, $25, $26, $27)`

	_, err := s.db.ExecContext(ctx, query,
		job.ID, job.EmployerID, job.Title, job.Description, job.Category, job.JobType,
		pq.Array(job.PlatformCategories), job.Location.City, job.Location.Region,
		pq.Array(job.Tags), job.Seniority, job.Diaspora, job.Featured,
		job.Tier, job.DurationDays, job.Pricing.BasePrice, job.Pricing.Discount,
		job.Pricing.PriceIncrease, job.Pricing.FinalPrice, job.Pricing.Currency,
		pq.Array(job.Pricing.AppliedRules), job.Pricing.CampaignApplied,
		string(job.Status), job.IsDeleted, job.ViewCount, job.CreatedAt, job.UpdatedAt,
	)
	if err != nil {
		return errors.NewDatabaseQueryFailedError(err)
	}
	return nil
}

// GetByID fetches a job by id. Soft-deleted jobs are treated as absent.
func (s *Store) GetByID(ctx context.Context, id string) (*models.Job, error) {
	query := `SELECT ` + jobColumns + ` FROM jobs WHERE id = $1 AND is_deleted = false`

	row := s.db.QueryRowContext(ctx, query, id)
	job, err := scanJob(row)
	if err != nil {
		if stderrors.Is(err, sql.ErrNoRows) {
			return nil, errors.NewNotFoundError("job", id)
		}
		return nil, errors.NewDatabaseQueryFailedError(err)
	}
	return job, nil
}

// CandidatePool returns active jobs sharing the reference's category or
// city, excluding the reference itself, newest first.
func (s *Store) CandidatePool(ctx context.Context, ref *models.Job, size int) ([]models.Job, error) {
	query := `SELECT ` + jobColumns + ` FROM jobs
		WHERE id <> $1 AND is_deleted = false AND status = $2
		  AND (category = $3 OR city = $4)
		ORDER BY created_at DESC
		LIMIT $5`

	rows, err := s.db.QueryContext(ctx, query,
		ref.ID, string(models.StatusActive), ref.Category, ref.Location.City, size)
	if err != nil {
		return nil, errors.NewDatabaseQueryFailedError(err)
	}
	defer rows.Close()

	return scanJobs(rows)
}

// SoftDelete marks the job closed and deleted. The employer filter is part
// of the WHERE clause so non-owners get the same zero-row result as a
// missing job.
func (s *Store) SoftDelete(ctx context.Context, id, employerID string) error {
	query := `UPDATE jobs
		SET is_deleted = true, status = $1, updated_at = $2
		WHERE id = $3 AND employer_id = $4 AND is_deleted = false`

	res, err := s.db.ExecContext(ctx, query, string(models.StatusClosed), time.Now().UTC(), id, employerID)
	if err != nil {
		return errors.NewDatabaseQueryFailedError(err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return errors.NewDatabaseQueryFailedError(err)
	}
	if affected == 0 {
		return errors.NewNotFoundError("job", id)
	}
	return nil
}

// UpdateStatus persists an already validated status transition, owner-gated
// the same way as SoftDelete.
func (s *Store) UpdateStatus(ctx context.Context, id, employerID string, to models.Status) error {
	query := `UPDATE jobs
		SET status = $1, updated_at = $2
		WHERE id = $3 AND employer_id = $4 AND is_deleted = false`

	res, err := s.db.ExecContext(ctx, query, string(to), time.Now().UTC(), id, employerID)
	if err != nil {
		return errors.NewDatabaseQueryFailedError(err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return errors.NewDatabaseQueryFailedError(err)
	}
	if affected == 0 {
		return errors.NewNotFoundError("job", id)
	}
	return nil
}

// AddViews flushes accumulated view-count increments to the jobs row.
func (s *Store) AddViews(ctx context.Context, id string, delta int64) error {
	if delta == 0 {
		return nil
	}
	query := `UPDATE jobs SET view_count = view_count + $1 WHERE id = $2`
	if _, err := s.db.ExecContext(ctx, query, delta, id); err != nil {
		return errors.NewDatabaseQueryFailedError(err)
	}
	return nil
}

// Search is the SQL fallback used when Elasticsearch is unavailable.
// Multi-value filters become ANY(array) clauses.
func (s *Store) Search(ctx context.Context, filters models.SearchFilters) (*models.SearchResult, error) {
	where := ` WHERE is_deleted = false AND status = $1`
	args := []interface{}{string(models.StatusActive)}

	addClause := func(clause string, arg interface{}) {
		args = append(args, arg)
		where += clause
	}

	if len(filters.Cities) > 0 {
		addClause(` AND city = ANY($`+itoa(len(args)+1)+`)`, pq.Array(filters.Cities))
	}
	if len(filters.JobTypes) > 0 {
		addClause(` AND job_type = ANY($`+itoa(len(args)+1)+`)`, pq.Array(filters.JobTypes))
	}
	if len(filters.Categories) > 0 {
		addClause(` AND category = ANY($`+itoa(len(args)+1)+`)`, pq.Array(filters.Categories))
	}
	if len(filters.PlatformCategories) > 0 {
		addClause(` AND platform_categories && $`+itoa(len(args)+1), pq.Array(filters.PlatformCategories))
	}
	if filters.Diaspora != nil {
		addClause(` AND diaspora = $`+itoa(len(args)+1), *filters.Diaspora)
	}
	if filters.Search != "" {
		addClause(` AND (title ILIKE $`+itoa(len(args)+1)+` OR description ILIKE $`+itoa(len(args)+1)+`)`,
			"%"+filters.Search+"%")
	}

	var total int64
	countQuery := `SELECT COUNT(*) FROM jobs` + where
	if err := s.db.QueryRowContext(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, errors.NewDatabaseQueryFailedError(err)
	}

	query := `SELECT ` + jobColumns + ` FROM jobs` + where +
		` ORDER BY created_at DESC LIMIT $` + itoa(len(args)+1) + ` OFFSET $` + itoa(len(args)+2)
	args = append(args, filters.Limit, filters.Offset())

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, errors.NewDatabaseQueryFailedError(err)
	}
	defer rows.Close()

	jobs, err := scanJobs(rows)
	if err != nil {
		return nil, err
	}

	return &models.SearchResult{
		Jobs:       jobs,
		Total:      total,
		Page:       filters.Page,
		Limit:      filters.Limit,
		TotalPages: totalPages(total, filters.Limit),
	}, nil
}

// --- scanning helpers ---

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanJob(row rowScanner) (*models.Job, error) {
	var (
		job       models.Job
		status    string
		platforms pq.StringArray
		tags      pq.StringArray
		rules     pq.StringArray
	)

	err := row.Scan(
		&job.ID, &job.EmployerID, &job.Title, &job.Description, &job.Category, &job.JobType,
		&platforms, &job.Location.City, &job.Location.Region,
		&tags, &job.Seniority, &job.Diaspora, &job.Featured,
		&job.Tier, &job.DurationDays, &job.Pricing.BasePrice, &job.Pricing.Discount,
		&job.Pricing.PriceIncrease, &job.Pricing.FinalPrice, &job.Pricing.Currency,
		&rules, &job.Pricing.CampaignApplied,
		&status, &job.IsDeleted, &job.ViewCount, &job.CreatedAt, &job.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	job.PlatformCategories = platforms
	job.Tags = tags
	job.Pricing.AppliedRules = rules
	job.Status = models.Status(status)
	return &job, nil
}

func scanJobs(rows *sql.Rows) ([]models.Job, error) {
	jobs := []models.Job{}
	for rows.Next() {
		job, err := scanJob(rows)
		if err != nil {
			return nil, errors.NewDatabaseQueryFailedError(err)
		}
		jobs = append(jobs, *job)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.NewDatabaseQueryFailedError(err)
	}
	return jobs, nil
}

func totalPages(total int64, limit int) int {
	if limit <= 0 {
		return 0
	}
	pages := int(total) / limit
	if int(total)%limit != 0 {
		pages++
	}
	return pages
}

func itoa(n int) string {
	return strconv.Itoa(n)
}
