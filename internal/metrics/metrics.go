// Package metrics registers the Prometheus collectors exposed on /metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Outcome labels for upstream calls.
const (
	OutcomeOK    = "ok"
	OutcomeError = "error"
	OutcomeStale = "stale"
	OutcomeEmpty = "empty"
)

var (
	HTTPRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "finsight",
		Name:      "http_requests_total",
		Help:      "HTTP requests by route pattern, method and status code.",
	}, []string{"route", "method", "status"})

	HTTPDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "finsight",
		Name:      "http_request_duration_seconds",
		Help:      "HTTP request latency by route pattern.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"route", "method"})

	UpstreamCalls = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "finsight",
		Name:      "upstream_calls_total",
		Help:      "Calls to data providers by provider, operation and outcome.",
	}, []string{"provider", "op", "outcome"})

	UpstreamDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "finsight",
		Name:      "upstream_call_duration_seconds",
		Help:      "Data provider latency, including rate limiter waits.",
		Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 20},
	}, []string{"provider", "op"})

	CacheLookups = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "finsight",
		Name:      "cache_lookups_total",
		Help:      "Provider cache lookups by table and result (hit or miss).",
	}, []string{"table", "result"})
)

// CacheHit records a fresh cache hit for table.
func CacheHit(table string) { CacheLookups.WithLabelValues(table, "hit").Inc() }

// CacheMiss records a cache miss for table.
func CacheMiss(table string) { CacheLookups.WithLabelValues(table, "miss").Inc() }
