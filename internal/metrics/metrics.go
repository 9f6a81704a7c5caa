package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	TransactionsRecorded = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "portfolio_transactions_recorded_total",
			Help: "Transactions accepted by the append operation",
		},
		[]string{"type"},
	)

	ValidationFailures = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "portfolio_validation_failures_total",
			Help: "Transactions rejected at the append boundary",
		},
	)

	Evaluations = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "portfolio_evaluations_total",
			Help: "Report evaluations by outcome",
		},
		[]string{"status"}, // ok, cached, error
	)

	EvaluationDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "portfolio_evaluation_duration_seconds",
			Help:    "Time spent producing a report",
			Buckets: []float64{0.0001, 0.0005, 0.001, 0.005, 0.01, 0.05, 0.1, 0.5},
		},
	)

	BookReloads = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "portfolio_book_reloads_total",
			Help: "Transaction log reloads from the store",
		},
		[]string{"reason"}, // notify, refresh
	)

	LoadedBooks = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "portfolio_loaded_books",
			Help: "Books currently held in memory",
		},
	)

	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "portfolio_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "endpoint", "status_code"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "portfolio_http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "endpoint"},
	)
)
