// Package server exposes the job board over HTTP: public search and read
// endpoints, JWT-protected employer write endpoints, plus health and
// metrics.
package server

import (
	"context"
	"net/http"
	"net/http/pprof"
	"time"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"jobboard-api/internal/common/config"
	"jobboard-api/internal/common/logger"
	"jobboard-api/internal/common/observability"
)

// ReadyCheck reports whether the server's backing stores are reachable.
type ReadyCheck func(ctx context.Context) error

type Server struct {
	router     *mux.Router
	httpServer *http.Server
	service    JobService
	auth       *authMiddleware
	ready      ReadyCheck
	obs        *observability.Observability
	logger     logger.Logger
}

func New(cfg config.ServerConfig, jwtSecret string, service JobService, ready ReadyCheck, obs *observability.Observability, log logger.Logger) *Server {
	s := &Server{
		router:  mux.NewRouter(),
		service: service,
		auth:    newAuthMiddleware(jwtSecret, log),
		ready:   ready,
		obs:     obs,
		logger:  log.WithFields(map[string]interface{}{"component": "server"}),
	}

	s.routes()

	s.httpServer = &http.Server{
		Addr:         cfg.Address,
		Handler:      s.router,
		ReadTimeout:  config.GetDuration(cfg.ReadTimeout),
		WriteTimeout: config.GetDuration(cfg.WriteTimeout),
		IdleTimeout:  60 * time.Second,
	}

	return s
}

func (s *Server) routes() {
	s.router.HandleFunc("/health", s.handleHealth).Methods(http.MethodGet)
	s.router.HandleFunc("/ready", s.handleReady).Methods(http.MethodGet)
	s.router.Handle("/metrics", promhttp.Handler()).Methods(http.MethodGet)

	s.router.HandleFunc("/debug/pprof/", pprof.Index)
	s.router.HandleFunc("/debug/pprof/profile", pprof.Profile)

	api := s.router.PathPrefix("/api").Subrouter()
	api.Use(requestMiddleware(s.logger, s.obs))

	// Read endpoints are public.
	api.HandleFunc("/jobs", s.handleSearchJobs).Methods(http.MethodGet)
	api.HandleFunc("/jobs/{id}", s.handleGetJob).Methods(http.MethodGet)
	api.HandleFunc("/jobs/{id}/similar", s.handleSimilarJobs).Methods(http.MethodGet)

	// Write endpoints require an authenticated employer.
	authed := api.PathPrefix("").Subrouter()
	authed.Use(s.auth.requireEmployer)
	authed.HandleFunc("/jobs", s.handleCreateJob).Methods(http.MethodPost)
	authed.HandleFunc("/jobs/{id}/status", s.handleTransitionJob).Methods(http.MethodPatch)
	authed.HandleFunc("/jobs/{id}", s.handleDeleteJob).Methods(http.MethodDelete)
}

// Handler exposes the router, mainly for tests.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Start blocks serving HTTP until the listener closes.
func (s *Server) Start() error {
	s.logger.Info("http server listening", map[string]interface{}{
		"addr": s.httpServer.Addr,
	})
	if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

// Shutdown drains in-flight requests.
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("http server shutting down", map[string]interface{}{})
	return s.httpServer.Shutdown(ctx)
}
