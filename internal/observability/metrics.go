package observability

import (
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Job outcomes
const (
	OutcomeRan     = "ran"
	OutcomeSkipped = "skipped"
	OutcomeDryRun  = "dry_run"
	OutcomeFailed  = "failed"
)

// Metrics holds the counters of one campaign run. Each run gets its own
// registry so the textfile reflects that run only.
type Metrics struct {
	registry     *prometheus.Registry
	jobs         *prometheus.CounterVec
	toolDuration *prometheus.HistogramVec
	toolFailures *prometheus.CounterVec
}

// NewMetrics creates and registers the campaign metrics
func NewMetrics() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		jobs: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "escape",
				Subsystem: "campaign",
				Name:      "jobs_total",
				Help:      "Campaign jobs by outcome.",
			},
			[]string{"kind", "outcome"},
		),
		toolDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: "escape",
				Subsystem: "campaign",
				Name:      "tool_duration_seconds",
				Help:      "Wall time of external tool invocations.",
				Buckets:   prometheus.ExponentialBuckets(0.5, 2, 14),
			},
			[]string{"step"},
		),
		toolFailures: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "escape",
				Subsystem: "campaign",
				Name:      "tool_failures_total",
				Help:      "External tool invocations that exited unsuccessfully.",
			},
			[]string{"step"},
		),
	}
	m.registry.MustRegister(m.jobs, m.toolDuration, m.toolFailures)
	return m
}

// RecordJob counts one job outcome. A nil receiver is a no-op.
func (m *Metrics) RecordJob(kind, outcome string) {
	if m == nil {
		return
	}
	m.jobs.WithLabelValues(kind, outcome).Inc()
}

// RecordTool observes one external tool invocation. A nil receiver is a no-op.
func (m *Metrics) RecordTool(step string, d time.Duration, failed bool) {
	if m == nil {
		return
	}
	m.toolDuration.WithLabelValues(step).Observe(d.Seconds())
	if failed {
		m.toolFailures.WithLabelValues(step).Inc()
	}
}

// Registry exposes the underlying gatherer
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// WriteTextfile writes the metrics in the node exporter textfile format.
func (m *Metrics) WriteTextfile(path string) error {
	if err := prometheus.WriteToTextfile(path, m.registry); err != nil {
		return fmt.Errorf("failed to write metrics to %s: %w", path, err)
	}
	return nil
}
