// Package metrics defines the Prometheus metrics exported on /metrics.
//
// Metric naming follows Prometheus conventions:
//   - storerating_ prefix for all custom metrics
//   - _total suffix for counters
//   - _seconds suffix for duration histograms
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Rating submission outcomes.
const (
	OutcomeCreated  = "created"
	OutcomeUpdated  = "updated"
	OutcomeRejected = "rejected"
)

var (
	// HTTPRequestsTotal counts requests by method, route template and status.
	HTTPRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "storerating_http_requests_total",
			Help: "Total HTTP requests by method, route and status code.",
		},
		[]string{"method", "route", "status"},
	)

	// HTTPRequestDurationSeconds is a histogram of request latency by route.
	HTTPRequestDurationSeconds = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "storerating_http_request_duration_seconds",
			Help:    "HTTP request latency in seconds.",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "route"},
	)

	// RatingsSubmittedTotal counts rating submissions by outcome.
	RatingsSubmittedTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "storerating_ratings_submitted_total",
			Help: "Total rating submissions by outcome.",
		},
		[]string{"outcome"},
	)

	// EventsPublishedTotal counts broker publishes by status (ok, error).
	EventsPublishedTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "storerating_events_published_total",
			Help: "Total rating events published to the broker.",
		},
		[]string{"status"},
	)

	// RateLimitedTotal counts requests rejected by a token bucket.
	RateLimitedTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "storerating_rate_limited_total",
			Help: "Total requests rejected by the rate limiter.",
		},
		[]string{"bucket"},
	)
)

func init() {
	prometheus.MustRegister(
		HTTPRequestsTotal,
		HTTPRequestDurationSeconds,
		RatingsSubmittedTotal,
		EventsPublishedTotal,
		RateLimitedTotal,
	)
}

// Handler serves the default registry.
func Handler() http.Handler { return promhttp.Handler() }

// RecordRequest records one completed HTTP request.
func RecordRequest(method, route string, status int, d time.Duration) {
	HTTPRequestsTotal.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	HTTPRequestDurationSeconds.WithLabelValues(method, route).Observe(d.Seconds())
}

// RecordRating records a rating submission outcome.
func RecordRating(outcome string) {
	RatingsSubmittedTotal.WithLabelValues(outcome).Inc()
}

// RecordPublish records a broker publish attempt.
func RecordPublish(err error) {
	status := "ok"
	if err != nil {
		status = "error"
	}
	EventsPublishedTotal.WithLabelValues(status).Inc()
}

// RecordRateLimited records a request rejected by the named bucket.
func RecordRateLimited(bucket string) {
	RateLimitedTotal.WithLabelValues(bucket).Inc()
}
