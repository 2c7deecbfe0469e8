// Package metrics exposes the Prometheus collectors shared by the API and the worker.
package metrics

import (
	"net/http"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// RequestCounter counts HTTP requests by route and status.
	RequestCounter = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "medreps_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	RequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "medreps_http_request_duration_seconds",
			Help:    "Duration of HTTP requests in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)

	StatusCategoryCounter = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "medreps_http_status_category_total",
			Help: "Total number of responses by status category (2xx, 4xx, 5xx)",
		},
		[]string{"category"},
	)

	// Logins counts authentication attempts by outcome.
	Logins = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "medreps_logins_total",
			Help: "Authentication attempts by outcome",
		},
		[]string{"outcome", "role"},
	)

	// RecordsCreated counts stored plans, reports, hospitals and hospital visits.
	RecordsCreated = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "medreps_records_created_total",
			Help: "Records created by kind",
		},
		[]string{"kind"},
	)

	// WorkerEvents counts stream entries handled by the worker.
	WorkerEvents = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "medreps_worker_events_total",
			Help: "Stream events handled by the worker",
		},
		[]string{"type", "result"},
	)
)

var registerOnce sync.Once

// Register adds every collector to the default registry. Safe to call more than once.
func Register() {
	registerOnce.Do(func() {
		prometheus.MustRegister(
			RequestCounter,
			RequestDuration,
			StatusCategoryCounter,
			Logins,
			RecordsCreated,
			WorkerEvents,
		)
	})
}

func StatusCategory(status int) string {
	switch {
	case status >= 500:
		return "5xx"
	case status >= 400:
		return "4xx"
	case status >= 300:
		return "3xx"
	case status >= 200:
		return "2xx"
	default:
		return "1xx"
	}
}

func Handler() http.Handler {
	return promhttp.Handler()
}
