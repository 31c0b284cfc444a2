// Package config defines the engine configuration surface: metric
// thresholds, the accountability ledger backend, report jobs, metrics,
// and logging. Configuration is loaded from YAML with optional
// environment variable overrides, validated as a whole, and passed
// explicitly into each component at construction time. There is no
// process-wide implicit state.
package config

import (
	"log/slog"
	"os"

	"veritas-ml/aequitas/pkg/accountability/schedule"
	"veritas-ml/aequitas/pkg/bias"
	"veritas-ml/aequitas/pkg/telemetry/metrics"
)

// Config is the root engine configuration.
type Config struct {
	// Bias configures the bias detector, including the embedded fairness
	// calculator thresholds.
	Bias bias.Config `yaml:"bias"`

	// Accountability configures the decision/incident ledger.
	Accountability AccountabilityConfig `yaml:"accountability"`

	// Metrics configures Prometheus instrumentation.
	Metrics metrics.Config `yaml:"metrics"`

	// Logging configures the structured logger.
	Logging LoggingConfig `yaml:"logging"`
}

// AccountabilityConfig configures the accountability store and its
// persistence.
type AccountabilityConfig struct {
	// Backend selects the ledger backend: "memory" or "sqlite".
	// Default: "memory"
	Backend string `yaml:"backend"`

	// SQLitePath is the ledger database file path when Backend is
	// "sqlite".
	SQLitePath string `yaml:"sqlite_path"`

	// ArchivePath is the report archive database file path. Empty
	// disables archiving.
	ArchivePath string `yaml:"archive_path"`

	// ProtectedAttributeKeys names the decision metadata keys treated as
	// protected attributes in generated reports.
	ProtectedAttributeKeys []string `yaml:"protected_attribute_keys"`

	// ReportJobs schedules recurring report generation.
	ReportJobs []schedule.Job `yaml:"report_jobs"`
}

// LoggingConfig configures the structured logger.
type LoggingConfig struct {
	// Level is the minimum log level: debug, info, warn, error.
	// Default: "info"
	Level string `yaml:"level"`

	// Format is the output format: text or json.
	// Default: "text"
	Format string `yaml:"format"`
}

// Ledger backend names accepted by AccountabilityConfig.Backend.
const (
	BackendMemory = "memory"
	BackendSQLite = "sqlite"
)

// NewLogger builds a slog.Logger from the logging configuration.
// Invalid levels fall back to info; Validate catches them beforehand.
func NewLogger(cfg LoggingConfig) *slog.Logger {
	var level slog.Level
	switch cfg.Level {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}

	opts := &slog.HandlerOptions{Level: level}
	if cfg.Format == "json" {
		return slog.New(slog.NewJSONHandler(os.Stderr, opts))
	}
	return slog.New(slog.NewTextHandler(os.Stderr, opts))
}
