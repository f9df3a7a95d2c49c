// Package metrics provides Prometheus metrics for the pharmacy API.
//
// HTTP:
//   - http_request_total: counter by method, route pattern and status
//   - http_request_duration_seconds: histogram by method and route pattern
//   - http_request_in_flight: gauge of concurrent requests
//
// Domain:
//   - interaction_source_lookups_total: counter by source and outcome (hit, empty, error)
//   - interaction_checks_total: counter by overall risk of answered checks
//   - cache_operations_total: counter by operation and result
//   - upstream_request_duration_seconds: histogram by upstream and status class
//   - upstream_up: gauge per upstream, 1 when the last probe succeeded
//
// All metrics are registered with the Prometheus default registry at init.
package metrics

import "github.com/prometheus/client_golang/prometheus"

var (
	HTTPRequestTotals = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_request_total",
			Help: "Total HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	HTTPRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request latency",
			Buckets: []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10, 20},
		},
		[]string{"method", "path"},
	)

	HTTPRequestInFlight = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "http_request_in_flight",
			Help: "Current in-flight requests",
		},
	)

	RateLimiterBucketsTotal = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "rate_limiter_buckets_total",
			Help: "Total number of rate limiter buckets (clients seen in last ~5 minutes)",
		},
	)

	InteractionSourceLookups = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "interaction_source_lookups_total",
			Help: "Interaction source lookups by outcome",
		},
		[]string{"source", "outcome"},
	)

	InteractionChecks = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "interaction_checks_total",
			Help: "Answered interaction checks by overall risk",
		},
		[]string{"risk"},
	)

	CacheOperations = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cache_operations_total",
			Help: "Cache operations by result",
		},
		[]string{"op", "result"},
	)

	UpstreamRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "upstream_request_duration_seconds",
			Help:    "Latency of RxNorm and OpenFDA calls",
			Buckets: []float64{.05, .1, .25, .5, 1, 2.5, 5, 10, 15},
		},
		[]string{"upstream", "status"},
	)

	UpstreamUp = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "upstream_up",
			Help: "1 when the last reachability probe of the upstream succeeded",
		},
		[]string{"upstream"},
	)
)

// Outcome labels for InteractionSourceLookups
const (
	OutcomeHit   = "hit"
	OutcomeEmpty = "empty"
	OutcomeError = "error"
)

func init() {
	prometheus.MustRegister(
		HTTPRequestTotals,
		HTTPRequestDuration,
		HTTPRequestInFlight,
		RateLimiterBucketsTotal,
		InteractionSourceLookups,
		InteractionChecks,
		CacheOperations,
		UpstreamRequestDuration,
		UpstreamUp,
	)
}

// StatusClass buckets an HTTP status for upstream labels ("2xx", "4xx", ...);
// 0 means the request never got a response.
func StatusClass(code int) string {
	switch {
	case code == 0:
		return "error"
	case code < 300:
		return "2xx"
	case code < 400:
		return "3xx"
	case code < 500:
		return "4xx"
	default:
		return "5xx"
	}
}
