package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "scryptex_http_requests_total",
			Help: "Total HTTP requests by method, path and status code.",
		},
		[]string{"method", "path", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "scryptex_http_request_duration_seconds",
			Help:    "HTTP request latency.",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)

	CreditsSpent = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "scryptex_credits_spent_total",
			Help: "Credits debited from user balances.",
		},
	)

	CreditsEarned = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "scryptex_credits_earned_total",
			Help: "Credits credited to user balances.",
		},
	)

	FarmingTasksExecuted = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "scryptex_farming_tasks_executed_total",
			Help: "Farming tasks finished, by terminal status.",
		},
		[]string{"status"},
	)

	FetchersRun = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "scryptex_fetchers_run_total",
			Help: "Research fetchers executed, by fetcher name.",
		},
		[]string{"fetcher"},
	)
)
