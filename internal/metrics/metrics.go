// Package metrics defines the Prometheus collectors exported on /metrics.
//
// Collectors are package-level and registered with the default registry
// in init, so any package can record into them without plumbing.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// AIBuckets covers chat completion latencies from 250ms up to two minutes.
var AIBuckets = []float64{0.25, 0.5, 1, 2, 5, 10, 20, 30, 60, 120}

var (
	// HTTPRequestsTotal counts requests by method and status class ("2xx").
	HTTPRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "engineers_http_requests_total",
			Help: "HTTP requests by method and status class",
		},
		[]string{"method", "status"},
	)

	HTTPRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "engineers_http_request_duration_seconds",
			Help:    "HTTP request duration",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method"},
	)

	// AIRequestsTotal counts chat calls by provider and outcome ("ok", "error").
	AIRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "engineers_ai_requests_total",
			Help: "Chat provider requests",
		},
		[]string{"provider", "status"},
	)

	AILatency = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "engineers_ai_latency_seconds",
			Help:    "Chat provider latency",
			Buckets: AIBuckets,
		},
		[]string{"provider"},
	)

	DBQueriesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "engineers_db_queries_total",
			Help: "Database statements by outcome",
		},
		[]string{"status"},
	)

	DBQueryDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "engineers_db_query_duration_seconds",
			Help:    "Database statement duration",
			Buckets: prometheus.DefBuckets,
		},
	)
)

func init() {
	prometheus.MustRegister(
		HTTPRequestsTotal,
		HTTPRequestDuration,
		AIRequestsTotal,
		AILatency,
		DBQueriesTotal,
		DBQueryDuration,
	)
}

// Handler serves the default registry in the Prometheus text format.
func Handler() http.Handler { return promhttp.Handler() }

// DBCollector records database statements. It satisfies db.MetricsCollector.
type DBCollector struct{}

func (DBCollector) RecordQuery(_ string, d time.Duration, success bool) {
	status := "ok"
	if !success {
		status = "error"
	}
	DBQueriesTotal.WithLabelValues(status).Inc()
	DBQueryDuration.Observe(d.Seconds())
}
