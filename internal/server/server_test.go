package server

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"jobboard-api/internal/common/config"
	"jobboard-api/internal/common/errors"
	"jobboard-api/internal/common/logger"
	"jobboard-api/internal/models"
)

const testSecret = "test-secret"

// ==========================
// Test Helper Functions
// ==========================

type stubJobService struct {
	createdJob   *models.Job
	createErr    error
	gotDraft     models.JobDraft
	gotEmployer  models.EmployerContext
	job          *models.Job
	getErr       error
	searchResult *models.SearchResult
	searchErr    error
	gotFilters   models.SearchFilters
	similar      []models.ScoredJob
	similarErr   error
	gotLimit     int
	deleteErr    error
	deletedID    string
	deletedBy    string
	transitioned *models.Job
	transitionTo string
	transErr     error
}

func (s *stubJobService) Create(_ context.Context, draft models.JobDraft, employer models.EmployerContext) (*models.Job, error) {
	s.gotDraft = draft
	s.gotEmployer = employer
	return s.createdJob, s.createErr
}

func (s *stubJobService) Get(_ context.Context, _ string) (*models.Job, error) {
	return s.job, s.getErr
}

func (s *stubJobService) Search(_ context.Context, filters models.SearchFilters) (*models.SearchResult, error) {
	s.gotFilters = filters
	return s.searchResult, s.searchErr
}

func (s *stubJobService) Similar(_ context.Context, _ string, limit int) ([]models.ScoredJob, error) {
	s.gotLimit = limit
	return s.similar, s.similarErr
}

func (s *stubJobService) Delete(_ context.Context, id, employerID string) error {
	s.deletedID = id
	s.deletedBy = employerID
	return s.deleteErr
}

func (s *stubJobService) Transition(_ context.Context, _, _, to string) (*models.Job, error) {
	s.transitionTo = to
	return s.transitioned, s.transErr
}

func newTestServer(t *testing.T, svc JobService) *Server {
	return New(config.ServerConfig{Address: ":0"}, testSecret, svc, nil, nil, logger.NewTestLogger(t))
}

func signToken(t *testing.T, claims EmployerClaims) string {
	t.Helper()
	if claims.ExpiresAt == nil {
		claims.ExpiresAt = jwt.NewNumericDate(time.Now().Add(time.Hour))
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(testSecret))
	require.NoError(t, err)
	return token
}

func employerToken(t *testing.T) string {
	return signToken(t, EmployerClaims{
		RegisteredClaims: jwt.RegisteredClaims{Subject: "emp-1"},
		Tier:             "standard",
		Verified:         true,
	})
}

func doRequest(srv *Server, req *http.Request) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)
	return rec
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) errorEnvelope {
	t.Helper()
	var envelope errorEnvelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &envelope))
	return envelope
}

func decodeValidation(t *testing.T, rec *httptest.ResponseRecorder) validationEnvelope {
	t.Helper()
	var envelope validationEnvelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &envelope))
	return envelope
}

// ==========================
// Authentication
// ==========================

func TestCreateJob_RequiresToken(t *testing.T) {
	srv := newTestServer(t, &stubJobService{})

	req := httptest.NewRequest(http.MethodPost, "/api/jobs", bytes.NewBufferString("{}"))
	rec := doRequest(srv, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, string(errors.ErrCodeAuthenticationRequired), decodeError(t, rec).Error.Code)
}

func TestCreateJob_RejectsBadSignature(t *testing.T) {
	srv := newTestServer(t, &stubJobService{})

	claims := EmployerClaims{RegisteredClaims: jwt.RegisteredClaims{
		Subject:   "emp-1",
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
	}}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("other-secret"))
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, "/api/jobs", bytes.NewBufferString("{}"))
	req.Header.Set("Authorization", "Bearer "+token)

	assert.Equal(t, http.StatusUnauthorized, doRequest(srv, req).Code)
}

func TestCreateJob_RejectsExpiredToken(t *testing.T) {
	srv := newTestServer(t, &stubJobService{})

	token := signToken(t, EmployerClaims{RegisteredClaims: jwt.RegisteredClaims{
		Subject:   "emp-1",
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Hour)),
	}})

	req := httptest.NewRequest(http.MethodPost, "/api/jobs", bytes.NewBufferString("{}"))
	req.Header.Set("Authorization", "Bearer "+token)

	assert.Equal(t, http.StatusUnauthorized, doRequest(srv, req).Code)
}

func TestSearchJobs_IsPublic(t *testing.T) {
	svc := &stubJobService{searchResult: &models.SearchResult{Jobs: []models.Job{}}}
	srv := newTestServer(t, svc)

	req := httptest.NewRequest(http.MethodGet, "/api/jobs", nil)
	assert.Equal(t, http.StatusOK, doRequest(srv, req).Code)
}

// ==========================
// Create
// ==========================

func TestCreateJob(t *testing.T) {
	svc := &stubJobService{createdJob: &models.Job{ID: "job-1", Status: models.StatusPendingPayment}}
	srv := newTestServer(t, svc)

	body, _ := json.Marshal(models.JobDraft{Title: "Backend Developer", Tier: "standard"})
	req := httptest.NewRequest(http.MethodPost, "/api/jobs", bytes.NewBuffer(body))
	req.Header.Set("Authorization", "Bearer "+employerToken(t))

	rec := doRequest(srv, req)
	assert.Equal(t, http.StatusCreated, rec.Code)

	// Employer context comes from the token, never from the body.
	assert.Equal(t, "emp-1", svc.gotEmployer.ID)
	assert.True(t, svc.gotEmployer.Verified)
	assert.Equal(t, "Backend Developer", svc.gotDraft.Title)

	var created models.Job
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))
	assert.Equal(t, "job-1", created.ID)
}

func TestCreateJob_InvalidBody(t *testing.T) {
	srv := newTestServer(t, &stubJobService{})

	req := httptest.NewRequest(http.MethodPost, "/api/jobs", bytes.NewBufferString("{not json"))
	req.Header.Set("Authorization", "Bearer "+employerToken(t))

	rec := doRequest(srv, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	envelope := decodeValidation(t, rec)
	require.Len(t, envelope.Errors, 1)
	assert.Equal(t, "body", envelope.Errors[0].Field)
}

func TestCreateJob_UnverifiedEmployer(t *testing.T) {
	svc := &stubJobService{createErr: errors.NewEmployerNotVerifiedError("emp-1")}
	srv := newTestServer(t, svc)

	req := httptest.NewRequest(http.MethodPost, "/api/jobs", bytes.NewBufferString("{}"))
	req.Header.Set("Authorization", "Bearer "+employerToken(t))

	assert.Equal(t, http.StatusForbidden, doRequest(srv, req).Code)
}

func TestCreateJob_ValidationErrorsUseFieldList(t *testing.T) {
	svc := &stubJobService{createErr: errors.NewValidationError([]errors.FieldError{
		{Field: "title", Message: "too short"},
		{Field: "description", Message: "too short"},
	})}
	srv := newTestServer(t, svc)

	req := httptest.NewRequest(http.MethodPost, "/api/jobs", bytes.NewBufferString("{}"))
	req.Header.Set("Authorization", "Bearer "+employerToken(t))

	rec := doRequest(srv, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	// Validation failures respond with a top-level errors array.
	envelope := decodeValidation(t, rec)
	require.Len(t, envelope.Errors, 2)
	assert.Equal(t, "title", envelope.Errors[0].Field)
	assert.Equal(t, "too short", envelope.Errors[0].Message)
	assert.NotContains(t, rec.Body.String(), `"error":{`)
}

// ==========================
// Read Endpoints
// ==========================

func TestGetJob(t *testing.T) {
	svc := &stubJobService{job: &models.Job{ID: "job-1"}}
	srv := newTestServer(t, svc)

	rec := doRequest(srv, httptest.NewRequest(http.MethodGet, "/api/jobs/job-1", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestGetJob_NotFound(t *testing.T) {
	svc := &stubJobService{getErr: errors.NewNotFoundError("job", "missing")}
	srv := newTestServer(t, svc)

	rec := doRequest(srv, httptest.NewRequest(http.MethodGet, "/api/jobs/missing", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, string(errors.ErrCodeResourceNotFound), decodeError(t, rec).Error.Code)
}

func TestSearchJobs_ParsesFilters(t *testing.T) {
	svc := &stubJobService{searchResult: &models.SearchResult{}}
	srv := newTestServer(t, svc)

	req := httptest.NewRequest(http.MethodGet,
		"/api/jobs?search=developer&city=Tiran%C3%AB,Durr%C3%ABs&jobType=full-time&diaspora=true&page=2&limit=5", nil)
	rec := doRequest(srv, req)
	require.Equal(t, http.StatusOK, rec.Code)

	assert.Equal(t, "developer", svc.gotFilters.Search)
	assert.Equal(t, []string{"Tiranë", "Durrës"}, svc.gotFilters.Cities)
	assert.Equal(t, []string{"full-time"}, svc.gotFilters.JobTypes)
	require.NotNil(t, svc.gotFilters.Diaspora)
	assert.True(t, *svc.gotFilters.Diaspora)
	assert.Equal(t, 2, svc.gotFilters.Page)
	assert.Equal(t, 5, svc.gotFilters.Limit)
}

func TestSearchJobs_BadDiaspora(t *testing.T) {
	srv := newTestServer(t, &stubJobService{})

	req := httptest.NewRequest(http.MethodGet, "/api/jobs?diaspora=maybe", nil)
	assert.Equal(t, http.StatusBadRequest, doRequest(srv, req).Code)
}

func TestSimilarJobs(t *testing.T) {
	svc := &stubJobService{similar: []models.ScoredJob{
		{Job: models.Job{ID: "cand-1"}, Score: 0.9},
	}}
	srv := newTestServer(t, svc)

	req := httptest.NewRequest(http.MethodGet, "/api/jobs/job-1/similar?limit=2", nil)
	rec := doRequest(srv, req)
	require.Equal(t, http.StatusOK, rec.Code)

	assert.Equal(t, 2, svc.gotLimit)

	var body struct {
		Results []models.ScoredJob `json:"results"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.Len(t, body.Results, 1)
	assert.Equal(t, "cand-1", body.Results[0].Job.ID)
}

// ==========================
// Status and Delete
// ==========================

func TestTransitionJob(t *testing.T) {
	svc := &stubJobService{transitioned: &models.Job{ID: "job-1", Status: models.StatusPaused}}
	srv := newTestServer(t, svc)

	req := httptest.NewRequest(http.MethodPatch, "/api/jobs/job-1/status",
		bytes.NewBufferString(`{"status":"paused"}`))
	req.Header.Set("Authorization", "Bearer "+employerToken(t))

	rec := doRequest(srv, req)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "paused", svc.transitionTo)
}

func TestTransitionJob_Disallowed(t *testing.T) {
	svc := &stubJobService{transErr: errors.NewInvalidStatusChangeError("closed", "active")}
	srv := newTestServer(t, svc)

	req := httptest.NewRequest(http.MethodPatch, "/api/jobs/job-1/status",
		bytes.NewBufferString(`{"status":"active"}`))
	req.Header.Set("Authorization", "Bearer "+employerToken(t))

	rec := doRequest(srv, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, string(errors.ErrCodeInvalidStatusChange), decodeError(t, rec).Error.Code)
}

func TestDeleteJob(t *testing.T) {
	svc := &stubJobService{}
	srv := newTestServer(t, svc)

	req := httptest.NewRequest(http.MethodDelete, "/api/jobs/job-1", nil)
	req.Header.Set("Authorization", "Bearer "+employerToken(t))

	rec := doRequest(srv, req)
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, "job-1", svc.deletedID)
	assert.Equal(t, "emp-1", svc.deletedBy)
}

func TestDeleteJob_NotFound(t *testing.T) {
	svc := &stubJobService{deleteErr: errors.NewNotFoundError("job", "job-1")}
	srv := newTestServer(t, svc)

	req := httptest.NewRequest(http.MethodDelete, "/api/jobs/job-1", nil)
	req.Header.Set("Authorization", "Bearer "+employerToken(t))

	assert.Equal(t, http.StatusNotFound, doRequest(srv, req).Code)
}

// ==========================
// Health and Errors
// ==========================

func TestHealth(t *testing.T) {
	srv := newTestServer(t, &stubJobService{})
	assert.Equal(t, http.StatusOK, doRequest(srv, httptest.NewRequest(http.MethodGet, "/health", nil)).Code)
}

func TestReady_ChecksBackends(t *testing.T) {
	failing := New(config.ServerConfig{Address: ":0"}, testSecret, &stubJobService{},
		func(context.Context) error { return assert.AnError }, nil, logger.NewTestLogger(t))

	rec := doRequest(failing, httptest.NewRequest(http.MethodGet, "/ready", nil))
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestInternalErrorsAreOpaque(t *testing.T) {
	svc := &stubJobService{getErr: errors.NewDatabaseQueryFailedError(assert.AnError)}
	srv := newTestServer(t, svc)

	rec := doRequest(srv, httptest.NewRequest(http.MethodGet, "/api/jobs/job-1", nil))
	assert.Equal(t, http.StatusInternalServerError, rec.Code)

	envelope := decodeError(t, rec)
	assert.Equal(t, "internal error", envelope.Error.Message)
	assert.NotContains(t, rec.Body.String(), assert.AnError.Error())
}
