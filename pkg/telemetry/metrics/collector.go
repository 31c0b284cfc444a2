// Package metrics exposes Prometheus instrumentation for the engine:
// fairness evaluations, logged decisions, incidents by severity, and
// report generation.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Config controls metric collection.
type Config struct {
	// Enabled turns metric recording on. When false every Record call is
	// a no-op.
	Enabled bool `yaml:"enabled"`

	// Namespace is the metric name prefix.
	// Default: "veritas"
	Namespace string `yaml:"namespace"`

	// Subsystem is the metric name subsystem.
	// Default: "aequitas"
	Subsystem string `yaml:"subsystem"`

	// ReportDurationBuckets are the histogram buckets for report
	// generation latency, in seconds.
	ReportDurationBuckets []float64 `yaml:"report_duration_buckets"`
}

// DefaultConfig returns the default metrics configuration.
func DefaultConfig() Config {
	return Config{
		Enabled:   true,
		Namespace: "veritas",
		Subsystem: "aequitas",
	}
}

// Collector records engine metrics against a Prometheus registry.
// All Record methods are safe for concurrent use.
type Collector struct {
	config   Config
	registry *prometheus.Registry

	evaluationsTotal *prometheus.CounterVec
	decisionsTotal   *prometheus.CounterVec
	incidentsTotal   *prometheus.CounterVec
	reportsTotal     *prometheus.CounterVec
	reportDuration   *prometheus.HistogramVec
}

// NewCollector creates a collector and registers its metrics with the
// provided registry. If registry is nil, a fresh registry is created.
func NewCollector(cfg Config, registry *prometheus.Registry) *Collector {
	if registry == nil {
		registry = prometheus.NewRegistry()
	}
	if cfg.Namespace == "" {
		cfg.Namespace = "veritas"
	}
	if cfg.Subsystem == "" {
		cfg.Subsystem = "aequitas"
	}
	if len(cfg.ReportDurationBuckets) == 0 {
		// Reports are in-memory aggregations; latencies are small.
		cfg.ReportDurationBuckets = []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1.0, 5.0}
	}

	c := &Collector{
		config:   cfg,
		registry: registry,

		evaluationsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: cfg.Namespace,
				Subsystem: cfg.Subsystem,
				Name:      "evaluations_total",
				Help:      "Total number of fairness metric evaluations",
			},
			[]string{"metric", "status"},
		),

		decisionsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: cfg.Namespace,
				Subsystem: cfg.Subsystem,
				Name:      "decisions_logged_total",
				Help:      "Total number of decisions appended to the ledger",
			},
			[]string{"model_id"},
		),

		incidentsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: cfg.Namespace,
				Subsystem: cfg.Subsystem,
				Name:      "incidents_logged_total",
				Help:      "Total number of incidents appended to the ledger",
			},
			[]string{"model_id", "severity"},
		),

		reportsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: cfg.Namespace,
				Subsystem: cfg.Subsystem,
				Name:      "reports_generated_total",
				Help:      "Total number of accountability reports generated",
			},
			[]string{"model_id"},
		),

		reportDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: cfg.Namespace,
				Subsystem: cfg.Subsystem,
				Name:      "report_duration_seconds",
				Help:      "Duration of accountability report generation in seconds",
				Buckets:   cfg.ReportDurationBuckets,
			},
			[]string{"model_id"},
		),
	}

	registry.MustRegister(
		c.evaluationsTotal,
		c.decisionsTotal,
		c.incidentsTotal,
		c.reportsTotal,
		c.reportDuration,
	)

	return c
}

// RecordEvaluation records one fairness metric evaluation.
// Status is "ok" or "error".
func (c *Collector) RecordEvaluation(metric, status string) {
	if !c.config.Enabled {
		return
	}
	c.evaluationsTotal.WithLabelValues(metric, status).Inc()
}

// RecordDecision records one decision appended to the ledger.
func (c *Collector) RecordDecision(modelID string) {
	if !c.config.Enabled {
		return
	}
	c.decisionsTotal.WithLabelValues(modelID).Inc()
}

// RecordIncident records one incident appended to the ledger.
func (c *Collector) RecordIncident(modelID, severity string) {
	if !c.config.Enabled {
		return
	}
	c.incidentsTotal.WithLabelValues(modelID, severity).Inc()
}

// RecordReport records one generated accountability report and its
// generation latency.
func (c *Collector) RecordReport(modelID string, duration time.Duration) {
	if !c.config.Enabled {
		return
	}
	c.reportsTotal.WithLabelValues(modelID).Inc()
	c.reportDuration.WithLabelValues(modelID).Observe(duration.Seconds())
}

// Registry returns the Prometheus registry backing this collector.
func (c *Collector) Registry() *prometheus.Registry {
	return c.registry
}
