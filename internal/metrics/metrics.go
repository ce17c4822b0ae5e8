// Package metrics holds the Prometheus collectors shared by thinkmapctl and
// thinkmapd. Collectors are registered with the default registry at init and
// exposed by thinkmapd on /metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

var (
	// RefreshTotal counts access token refresh attempts by result
	// ("success" or "failure").
	RefreshTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "thinkmap_token_refresh_total",
			Help: "Total number of access token refresh attempts",
		},
		[]string{"result"},
	)

	// BatchFlushTotal counts operation batch flushes by reason.
	BatchFlushTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "thinkmap_batch_flush_total",
			Help: "Total number of operation batches flushed",
		},
		[]string{"reason"},
	)

	// BatchSize observes the number of operations per flushed batch.
	BatchSize = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "thinkmap_batch_operations",
			Help:    "Number of operations per flushed batch",
			Buckets: []float64{1, 2, 3, 4, 5, 10},
		},
	)

	// FeedbackTotal counts feedback requests by result.
	FeedbackTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "thinkmap_feedback_total",
			Help: "Total number of feedback requests",
		},
		[]string{"result"},
	)

	// HTTPRequestsTotal counts API requests served by thinkmapd.
	HTTPRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "thinkmap_http_requests_total",
			Help: "Total number of HTTP requests handled",
		},
		[]string{"method", "route", "status"},
	)

	// HTTPRequestDuration observes API request latency.
	HTTPRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "thinkmap_http_request_duration_seconds",
			Help:    "HTTP request latency",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "route"},
	)
)

// Result labels.
const (
	ResultSuccess = "success"
	ResultFailure = "failure"
)

func init() {
	prometheus.MustRegister(RefreshTotal)
	prometheus.MustRegister(BatchFlushTotal)
	prometheus.MustRegister(BatchSize)
	prometheus.MustRegister(FeedbackTotal)
	prometheus.MustRegister(HTTPRequestsTotal)
	prometheus.MustRegister(HTTPRequestDuration)
}

// ResultLabel maps an error to ResultSuccess or ResultFailure.
func ResultLabel(err error) string {
	if err != nil {
		return ResultFailure
	}
	return ResultSuccess
}
