// internal/server/handlers.go
package server

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"
	"strings"

	"github.com/gorilla/mux"

	"jobboard-api/internal/common/errors"
	"jobboard-api/internal/models"
)

// JobService is the application surface the HTTP layer exposes.
// *jobs.Service implements it.
type JobService interface {
	Create(ctx context.Context, draft models.JobDraft, employer models.EmployerContext) (*models.Job, error)
	Get(ctx context.Context, id string) (*models.Job, error)
	Search(ctx context.Context, filters models.SearchFilters) (*models.SearchResult, error)
	Similar(ctx context.Context, id string, limit int) ([]models.ScoredJob, error)
	Delete(ctx context.Context, id, employerID string) error
	Transition(ctx context.Context, id, employerID, to string) (*models.Job, error)
}

// ==========================
// Job Handlers
// ==========================

func (s *Server) handleCreateJob(w http.ResponseWriter, r *http.Request) {
	employer, ok := employerFromContext(r.Context())
	if !ok {
		writeError(w, s.logger, errors.NewAuthenticationError("no employer context"))
		return
	}

	var draft models.JobDraft
	if err := json.NewDecoder(r.Body).Decode(&draft); err != nil {
		writeError(w, s.logger, errors.NewValidationError([]errors.FieldError{
			{Field: "body", Message: "invalid JSON"},
		}))
		return
	}

	job, err := s.service.Create(r.Context(), draft, employer)
	if err != nil {
		writeError(w, s.logger, err)
		return
	}

	writeJSON(w, http.StatusCreated, job)
}

func (s *Server) handleSearchJobs(w http.ResponseWriter, r *http.Request) {
	filters, err := parseSearchFilters(r)
	if err != nil {
		writeError(w, s.logger, err)
		return
	}

	result, err := s.service.Search(r.Context(), filters)
	if err != nil {
		writeError(w, s.logger, err)
		return
	}

	writeJSON(w, http.StatusOK, result)
}

func (s *Server) handleGetJob(w http.ResponseWriter, r *http.Request) {
	job, err := s.service.Get(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		writeError(w, s.logger, err)
		return
	}

	writeJSON(w, http.StatusOK, job)
}

func (s *Server) handleSimilarJobs(w http.ResponseWriter, r *http.Request) {
	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 0 {
			writeError(w, s.logger, errors.NewValidationError([]errors.FieldError{
				{Field: "limit", Message: "must be a non-negative integer"},
			}))
			return
		}
		limit = parsed
	}

	scored, err := s.service.Similar(r.Context(), mux.Vars(r)["id"], limit)
	if err != nil {
		writeError(w, s.logger, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{"results": scored})
}

func (s *Server) handleTransitionJob(w http.ResponseWriter, r *http.Request) {
	employer, ok := employerFromContext(r.Context())
	if !ok {
		writeError(w, s.logger, errors.NewAuthenticationError("no employer context"))
		return
	}

	var body struct {
		Status string `json:"status"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, s.logger, errors.NewValidationError([]errors.FieldError{
			{Field: "body", Message: "invalid JSON"},
		}))
		return
	}

	job, err := s.service.Transition(r.Context(), mux.Vars(r)["id"], employer.ID, body.Status)
	if err != nil {
		writeError(w, s.logger, err)
		return
	}

	writeJSON(w, http.StatusOK, job)
}

func (s *Server) handleDeleteJob(w http.ResponseWriter, r *http.Request) {
	employer, ok := employerFromContext(r.Context())
	if !ok {
		writeError(w, s.logger, errors.NewAuthenticationError("no employer context"))
		return
	}

	if err := s.service.Delete(r.Context(), mux.Vars(r)["id"], employer.ID); err != nil {
		writeError(w, s.logger, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// ==========================
// Health Handlers
// ==========================

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	if s.ready != nil {
		if err := s.ready(r.Context()); err != nil {
			writeJSON(w, http.StatusServiceUnavailable, map[string]string{
				"status": "unavailable",
				"reason": err.Error(),
			})
			return
		}
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ready"})
}

// ==========================
// Query Parsing
// ==========================

// parseSearchFilters reads the list-style filters. Multi-value filters
// accept both repeated params and comma-separated values.
func parseSearchFilters(r *http.Request) (models.SearchFilters, error) {
	q := r.URL.Query()

	filters := models.SearchFilters{
		Search:             q.Get("search"),
		Cities:             multiValue(q["city"]),
		JobTypes:           multiValue(q["jobType"]),
		Categories:         multiValue(q["category"]),
		PlatformCategories: multiValue(q["platformCategory"]),
	}

	if raw := q.Get("diaspora"); raw != "" {
		val, err := strconv.ParseBool(raw)
		if err != nil {
			return filters, errors.NewValidationError([]errors.FieldError{
				{Field: "diaspora", Message: "must be true or false"},
			})
		}
		filters.Diaspora = &val
	}

	var err error
	if filters.Page, err = intParam(q.Get("page")); err != nil {
		return filters, errors.NewValidationError([]errors.FieldError{
			{Field: "page", Message: "must be a non-negative integer"},
		})
	}
	if filters.Limit, err = intParam(q.Get("limit")); err != nil {
		return filters, errors.NewValidationError([]errors.FieldError{
			{Field: "limit", Message: "must be a non-negative integer"},
		})
	}

	return filters, nil
}

func multiValue(values []string) []string {
	out := []string{}
	for _, value := range values {
		for _, part := range strings.Split(value, ",") {
			if trimmed := strings.TrimSpace(part); trimmed != "" {
				out = append(out, trimmed)
			}
		}
	}
	return out
}

func intParam(raw string) (int, error) {
	if raw == "" {
		return 0, nil
	}
	val, err := strconv.Atoi(raw)
	if err != nil || val < 0 {
		return 0, errors.NewValidationError(nil)
	}
	return val, nil
}
