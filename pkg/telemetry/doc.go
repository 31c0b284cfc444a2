// Package telemetry groups the engine's observability concerns.
//
// The metrics subpackage collects Prometheus counters and histograms for
// fairness evaluations, logged decisions and incidents, and report
// generation. Components accept an optional *metrics.Collector; a nil
// collector disables instrumentation without conditional call sites.
//
// Structured logging uses log/slog directly. Each component derives its
// logger once at construction:
//
//	logger := slog.Default().With("component", "accountability.store")
package telemetry
