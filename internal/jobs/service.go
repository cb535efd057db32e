// Package jobs orchestrates the job posting lifecycle: creation with
// pricing, search, detail views, similar-jobs ranking, status transitions
// and soft deletion.
package jobs

import (
	"context"
	"time"

	"github.com/google/uuid"

	"jobboard-api/internal/common/errors"
	"jobboard-api/internal/common/logger"
	"jobboard-api/internal/common/metrics"
	"jobboard-api/internal/jobstatus"
	"jobboard-api/internal/models"
	"jobboard-api/internal/pricing"
	"jobboard-api/internal/similarity"
)

// viewFlushEvery controls how often pending Redis view counts are folded
// back into Postgres.
const viewFlushEvery = 10

// Searcher is the search backend consumed by the service. *SearchIndex
// implements it; tests substitute a stub.
type Searcher interface {
	Search(ctx context.Context, filters models.SearchFilters) (*models.SearchResult, error)
	IndexJob(ctx context.Context, job *models.Job) error
	RemoveJob(ctx context.Context, id string) error
}

// Options carries the tunables the service reads from configuration.
type Options struct {
	CandidatePoolSize  int
	SimilarLimit       int
	SearchDefaultLimit int
	SearchMaxLimit     int
}

type Service struct {
	store   *Store
	search  Searcher
	cache   *Cache
	pricing *pricing.Engine
	opts    Options
	logger  logger.Logger
	now     func() time.Time
	newID   func() string
}

func NewService(store *Store, search Searcher, cache *Cache, engine *pricing.Engine, opts Options, log logger.Logger) *Service {
	if opts.CandidatePoolSize == 0 {
		opts.CandidatePoolSize = 20
	}
	if opts.SimilarLimit == 0 {
		opts.SimilarLimit = 4
	}
	if opts.SearchDefaultLimit == 0 {
		opts.SearchDefaultLimit = 10
	}
	if opts.SearchMaxLimit == 0 {
		opts.SearchMaxLimit = 100
	}

	return &Service{
		store:   store,
		search:  search,
		cache:   cache,
		pricing: engine,
		opts:    opts,
		logger:  log.WithFields(map[string]interface{}{"component": "jobs.service"}),
		now:     time.Now,
		newID:   uuid.NewString,
	}
}

// Create validates a draft, prices it and persists the resulting job.
// Verification is checked before anything else so unverified employers
// learn nothing about pricing.
func (s *Service) Create(ctx context.Context, draft models.JobDraft, employer models.EmployerContext) (*models.Job, error) {
	if !employer.Verified {
		return nil, errors.NewEmployerNotVerifiedError(employer.ID)
	}

	draft, err := ValidateDraft(draft)
	if err != nil {
		return nil, err
	}

	priced, err := s.pricing.Compute(draft, employer)
	if err != nil {
		return nil, err
	}

	now := s.now().UTC()
	job := &models.Job{
		ID:                 s.newID(),
		EmployerID:         employer.ID,
		Title:              draft.Title,
		Description:        draft.Description,
		Category:           draft.Category,
		JobType:            draft.JobType,
		PlatformCategories: draft.PlatformCategories,
		Location:           draft.Location,
		Tags:               draft.Tags,
		Seniority:          draft.Seniority,
		Diaspora:           draft.Diaspora,
		Featured:           draft.Featured,
		Tier:               draft.Tier,
		DurationDays:       draft.DurationDays,
		Pricing:            priced,
		Status:             jobstatus.InitialStatus(priced.FinalPrice),
		CreatedAt:          now,
		UpdatedAt:          now,
	}

	if err := s.store.Insert(ctx, job); err != nil {
		return nil, err
	}

	metrics.JobsCreated.WithLabelValues(job.Tier).Inc()
	if job.Pricing.FinalPrice == 0 {
		metrics.FreePostings.Inc()
	}
	for _, rule := range job.Pricing.AppliedRules {
		metrics.PricingRulesApplied.WithLabelValues(rule).Inc()
	}

	s.indexBestEffort(ctx, job)

	s.logger.Info("job created", map[string]interface{}{
		"jobId":      job.ID,
		"employerId": job.EmployerID,
		"finalPrice": job.Pricing.FinalPrice,
		"status":     job.Status,
	})

	return job, nil
}

// Get returns a job and counts the view. View counts accumulate in Redis
// and are folded into Postgres every few views; a cache outage only loses
// counting, never the read.
func (s *Service) Get(ctx context.Context, id string) (*models.Job, error) {
	job, err := s.store.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	pending, err := s.cache.IncrementView(ctx, id)
	if err != nil {
		s.logger.Warn("view count increment failed", map[string]interface{}{
			"jobId": id,
			"error": err.Error(),
		})
		return job, nil
	}

	job.ViewCount += pending

	if pending%viewFlushEvery == 0 {
		s.flushViews(ctx, id)
	}

	return job, nil
}

// Search serves GET /api/jobs. Elasticsearch is the primary backend; SQL
// is the fallback when it errors or is not configured.
func (s *Service) Search(ctx context.Context, filters models.SearchFilters) (*models.SearchResult, error) {
	if filters.Limit <= 0 {
		filters.Limit = s.opts.SearchDefaultLimit
	}
	if filters.Limit > s.opts.SearchMaxLimit {
		filters.Limit = s.opts.SearchMaxLimit
	}
	if filters.Page < 1 {
		filters.Page = 1
	}

	if s.search != nil {
		result, err := s.search.Search(ctx, filters)
		if err == nil {
			metrics.SearchQueries.WithLabelValues("elasticsearch").Inc()
			return result, nil
		}
		s.logger.Warn("search backend failed, falling back to sql", map[string]interface{}{
			"error": err.Error(),
		})
	}

	metrics.SearchQueries.WithLabelValues("postgres").Inc()
	return s.store.Search(ctx, filters)
}

// Similar ranks the candidate pool against the reference job. The pool is
// pre-filtered by storage on category/city and cached; ranking itself is
// pure computation.
func (s *Service) Similar(ctx context.Context, id string, limit int) ([]models.ScoredJob, error) {
	if limit <= 0 {
		limit = s.opts.SimilarLimit
	}

	ref, err := s.store.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	pool, ok := s.cache.GetCandidatePool(ctx, id)
	if !ok {
		pool, err = s.store.CandidatePool(ctx, ref, s.opts.CandidatePoolSize)
		if err != nil {
			return nil, err
		}
		s.cache.SetCandidatePool(ctx, id, pool)
	}

	metrics.SimilarRankings.Inc()
	return similarity.RankSimilar(*ref, pool, limit), nil
}

// Delete soft-deletes a job. Ownership failures surface as NotFound so the
// caller cannot probe for other employers' job ids.
func (s *Service) Delete(ctx context.Context, id, employerID string) error {
	if err := s.store.SoftDelete(ctx, id, employerID); err != nil {
		return err
	}

	if s.search != nil {
		if err := s.search.RemoveJob(ctx, id); err != nil {
			s.logger.Warn("search index removal failed", map[string]interface{}{
				"jobId": id,
				"error": err.Error(),
			})
		}
	}
	s.cache.InvalidatePool(ctx, id)

	s.logger.Info("job deleted", map[string]interface{}{
		"jobId":      id,
		"employerId": employerID,
	})
	return nil
}

// Transition moves a job to a new lifecycle status, owner-gated and
// validated by the state machine.
func (s *Service) Transition(ctx context.Context, id, employerID, toRaw string) (*models.Job, error) {
	to, err := jobstatus.ParseStatus(toRaw)
	if err != nil {
		return nil, errors.NewValidationError([]errors.FieldError{
			{Field: "status", Message: err.Error()},
		})
	}

	job, err := s.store.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	// Non-owners get the same answer as a missing job.
	if job.EmployerID != employerID {
		return nil, errors.NewNotFoundError("job", id)
	}

	if !jobstatus.IsTransitionAllowed(job.Status, to) {
		return nil, errors.NewInvalidStatusChangeError(string(job.Status), string(to))
	}

	if err := s.store.UpdateStatus(ctx, id, employerID, to); err != nil {
		return nil, err
	}

	job.Status = to
	job.UpdatedAt = s.now().UTC()
	s.indexBestEffort(ctx, job)

	return job, nil
}

func (s *Service) indexBestEffort(ctx context.Context, job *models.Job) {
	if s.search == nil {
		return
	}
	if err := s.search.IndexJob(ctx, job); err != nil {
		s.logger.Warn("search indexing failed", map[string]interface{}{
			"jobId": job.ID,
			"error": err.Error(),
		})
	}
}

func (s *Service) flushViews(ctx context.Context, id string) {
	delta, err := s.cache.TakeViews(ctx, id)
	if err != nil || delta == 0 {
		return
	}
	if err := s.store.AddViews(ctx, id, delta); err != nil {
		s.logger.Warn("view count flush failed", map[string]interface{}{
			"jobId": id,
			"delta": delta,
			"error": err.Error(),
		})
	}
}
