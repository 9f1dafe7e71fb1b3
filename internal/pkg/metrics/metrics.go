package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

// Registry is the advisor's metrics registry, exposed on /metrics.
var Registry = prometheus.NewRegistry()

var (
	// SnapshotRefreshTotal counts snapshot refreshes by outcome.
	SnapshotRefreshTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "upilot_snapshot_refresh_total",
			Help: "Total number of inventory snapshot refreshes by result.",
		},
		[]string{"result"}, // result: success/degraded/failed
	)

	// ComponentFetchFailures counts components omitted from a snapshot
	// because their detail fetch failed.
	ComponentFetchFailures = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "upilot_component_fetch_failures_total",
			Help: "Total number of components omitted from snapshots due to fetch failures.",
		},
	)

	// IssuesDetected tracks the current number of detected issues per severity.
	IssuesDetected = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "upilot_issues_detected",
			Help: "Number of issues detected in the latest snapshot, by severity.",
		},
		[]string{"severity"},
	)

	// LifecycleLookupTotal counts lifecycle metadata lookups by source.
	LifecycleLookupTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "upilot_lifecycle_lookup_total",
			Help: "Total number of lifecycle metadata lookups by source.",
		},
		[]string{"source"}, // source: cache/remote/override/default
	)

	// RequestDuration observes API request latency.
	RequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "upilot_http_request_duration_seconds",
			Help:    "Latency of advisor API requests.",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"handler"},
	)
)

func init() {
	Registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		SnapshotRefreshTotal,
		ComponentFetchFailures,
		IssuesDetected,
		LifecycleLookupTotal,
		RequestDuration,
	)
}
