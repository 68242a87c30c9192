// Package metrics provides Prometheus metrics for imgcache.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "imgcache"

// Request outcomes.
const (
	OutcomeHit         = "hit"
	OutcomeMiss        = "miss"
	OutcomeNotModified = "not_modified"
	OutcomeNotFound    = "not_found"
	OutcomeError       = "error"
)

// UnknownPresetLabel replaces attacker-chosen preset names to bound label cardinality.
const UnknownPresetLabel = "_invalid"

var (
	// RequestsTotal counts variant requests by preset and outcome.
	RequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "requests_total",
			Help:      "Total number of variant requests",
		},
		[]string{"preset", "outcome"},
	)

	// TranscodeDuration measures decode, resize and encode time.
	TranscodeDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "transcode_duration_seconds",
			Help:      "Duration of transcode operations in seconds",
			Buckets:   []float64{0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		},
		[]string{"preset", "format"},
	)

	// TranscodeBytes observes encoded artifact sizes.
	TranscodeBytes = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "transcode_output_bytes",
			Help:      "Size of encoded variants in bytes",
			Buckets:   prometheus.ExponentialBuckets(1024, 4, 8),
		},
		[]string{"format"},
	)

	// CacheWriteFailuresTotal counts artifacts that were served but not persisted.
	CacheWriteFailuresTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "cache_write_failures_total",
			Help:      "Total number of failed artifact writes",
		},
		[]string{"preset"},
	)

	// CoalescedRequestsTotal counts requests that shared another request's transcode.
	CoalescedRequestsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "coalesced_requests_total",
			Help:      "Total number of requests served by an in-flight transcode",
		},
	)

	// TranscodesInFlight tracks transcodes holding a concurrency slot.
	TranscodesInFlight = promauto.NewGauge(
		prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "transcodes_in_flight",
			Help:      "Number of transcodes currently running",
		},
	)
)

// RecordRequest records the outcome of one variant request.
func RecordRequest(preset, outcome string) {
	RequestsTotal.WithLabelValues(preset, outcome).Inc()
}

// RecordTranscode records a finished transcode.
func RecordTranscode(preset, format string, duration time.Duration, size int) {
	TranscodeDuration.WithLabelValues(preset, format).Observe(duration.Seconds())
	TranscodeBytes.WithLabelValues(format).Observe(float64(size))
}

// RecordCacheWriteFailure records an artifact that could not be persisted.
func RecordCacheWriteFailure(preset string) {
	CacheWriteFailuresTotal.WithLabelValues(preset).Inc()
}

// RecordCoalesced records a request that reused an in-flight transcode.
func RecordCoalesced() {
	CoalescedRequestsTotal.Inc()
}
