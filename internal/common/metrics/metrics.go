// internal/common/metrics/metrics.go
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests by route and status",
		},
		[]string{"route", "method", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name: "http_request_duration_seconds",
			Help: "Duration of HTTP request handling in seconds",
		},
		[]string{"route", "method"},
	)

	JobsCreated = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "jobs_created_total",
			Help: "Total number of job postings created",
		},
		[]string{"tier"},
	)

	FreePostings = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "pricing_free_postings_total",
			Help: "Total number of postings priced at zero via free-posting",
		},
	)

	PricingRulesApplied = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "pricing_rules_applied_total",
			Help: "Total number of times each pricing rule matched",
		},
		[]string{"rule"},
	)

	SimilarRankings = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "similar_rankings_total",
			Help: "Total number of similar-jobs rankings computed",
		},
	)

	SearchQueries = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "job_search_queries_total",
			Help: "Total number of job search queries by backend",
		},
		[]string{"backend"},
	)
)
