// Package metrics activity dashboard için Prometheus metriklerini tanımlar.
package metrics

import "github.com/prometheus/client_golang/prometheus"

var (
	HTTPRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "activity_dashboard_http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "route"},
	)

	HTTPRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "activity_dashboard_http_requests_total",
			Help: "Total HTTP requests",
		},
		[]string{"method", "route", "status"},
	)

	UpstreamRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "activity_dashboard_upstream_request_duration_seconds",
			Help:    "Upstream audit API call duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"endpoint"},
	)

	UpstreamRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "activity_dashboard_upstream_requests_total",
			Help: "Upstream audit API calls by outcome",
		},
		[]string{"endpoint", "outcome"},
	)

	StaleResponsesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "activity_dashboard_stale_responses_total",
			Help: "Responses discarded because a newer fetch was issued",
		},
		[]string{"concern"},
	)

	PurgesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "activity_dashboard_purges_total",
			Help: "Manual purge attempts by outcome",
		},
		[]string{"outcome"},
	)
)

func init() {
	prometheus.MustRegister(
		HTTPRequestDuration, HTTPRequestsTotal,
		UpstreamRequestDuration, UpstreamRequestsTotal,
		StaleResponsesTotal, PurgesTotal,
	)
}
