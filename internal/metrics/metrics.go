// Package metrics defines Prometheus metrics for apitrail.
package metrics

import "github.com/prometheus/client_golang/prometheus"

var (
	RequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "apitrail_http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path", "status"},
	)

	RequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "apitrail_http_requests_total",
			Help: "Total HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	ErrorsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "apitrail_errors_total",
			Help: "Total errors by type",
		},
		[]string{"type"},
	)

	VersionsCreated = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "apitrail_versions_created_total",
			Help: "Version ledger entries created, by change kind",
		},
		[]string{"kind"},
	)

	RollbacksTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "apitrail_rollbacks_total",
			Help: "Version rollbacks by outcome",
		},
		[]string{"outcome"},
	)

	ApiRunsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "apitrail_api_runs_total",
			Help: "Api run executions by mode (live or mock)",
		},
		[]string{"mode"},
	)

	WSConnections = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "apitrail_websocket_connections",
			Help: "Active WebSocket connections",
		},
	)
)

func init() {
	prometheus.MustRegister(
		RequestDuration, RequestsTotal, ErrorsTotal,
		VersionsCreated, RollbacksTotal, ApiRunsTotal,
		WSConnections,
	)
}
