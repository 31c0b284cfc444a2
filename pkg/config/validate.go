package config

import (
	"fmt"
	"strings"

	"github.com/robfig/cron/v3"
)

// FieldError represents a validation error for a specific configuration
// field.
type FieldError struct {
	// Field is the dotted path to the configuration field
	// (e.g., "bias.fairness.parity_ratio_low").
	Field string

	// Message is a human-readable error message.
	Message string
}

// Error returns the error message for this field error.
func (e FieldError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ValidationError represents one or more validation errors in a
// configuration. All field errors are collected and returned together.
type ValidationError struct {
	// Errors contains all validation errors found in the configuration.
	Errors []FieldError
}

// Error returns a formatted string containing all validation errors.
func (e ValidationError) Error() string {
	if len(e.Errors) == 0 {
		return "configuration validation failed"
	}
	if len(e.Errors) == 1 {
		return fmt.Sprintf("configuration validation failed: %s", e.Errors[0].Error())
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("configuration validation failed with %d errors:\n", len(e.Errors)))
	for _, err := range e.Errors {
		sb.WriteString(fmt.Sprintf("  - %s\n", err.Error()))
	}
	return sb.String()
}

// Validate validates the entire configuration. It returns nil when the
// configuration is valid, otherwise a ValidationError carrying every
// failed field.
func Validate(cfg *Config) error {
	var errs []FieldError

	errs = append(errs, validateBias(cfg)...)
	errs = append(errs, validateAccountability(&cfg.Accountability)...)
	errs = append(errs, validateLogging(&cfg.Logging)...)

	if len(errs) > 0 {
		return ValidationError{Errors: errs}
	}

	return nil
}

// validateBias validates detector and fairness thresholds.
func validateBias(cfg *Config) []FieldError {
	var errs []FieldError

	if cfg.Bias.RepresentationDisparityThreshold < 1 {
		errs = append(errs, FieldError{
			Field:   "bias.representation_disparity_threshold",
			Message: "must be >= 1",
		})
	}

	f := cfg.Bias.Fairness
	if f.ParityRatioLow <= 0 || f.ParityRatioLow >= 1 {
		errs = append(errs, FieldError{
			Field:   "bias.fairness.parity_ratio_low",
			Message: "must be in (0, 1)",
		})
	}
	if f.ParityRatioHigh <= 1 {
		errs = append(errs, FieldError{
			Field:   "bias.fairness.parity_ratio_high",
			Message: "must be > 1",
		})
	}
	if f.OddsMaxDiff <= 0 || f.OddsMaxDiff >= 1 {
		errs = append(errs, FieldError{
			Field:   "bias.fairness.odds_max_diff",
			Message: "must be in (0, 1)",
		})
	}
	if f.MinGroupSampleSize < 1 {
		errs = append(errs, FieldError{
			Field:   "bias.fairness.min_group_sample_size",
			Message: "must be >= 1",
		})
	}
	if f.CalibrationBins < 2 {
		errs = append(errs, FieldError{
			Field:   "bias.fairness.calibration_bins",
			Message: "must be >= 2",
		})
	}

	return errs
}

// validateAccountability validates the ledger backend selection and
// report jobs.
func validateAccountability(cfg *AccountabilityConfig) []FieldError {
	var errs []FieldError

	switch cfg.Backend {
	case BackendMemory:
	case BackendSQLite:
		if cfg.SQLitePath == "" {
			errs = append(errs, FieldError{
				Field:   "accountability.sqlite_path",
				Message: "required when backend is sqlite",
			})
		}
	default:
		errs = append(errs, FieldError{
			Field:   "accountability.backend",
			Message: fmt.Sprintf("unknown backend %q (must be memory or sqlite)", cfg.Backend),
		})
	}

	for i, job := range cfg.ReportJobs {
		if job.ModelID == "" {
			errs = append(errs, FieldError{
				Field:   fmt.Sprintf("accountability.report_jobs[%d].model_id", i),
				Message: "model id is required",
			})
		}
		if job.PeriodDays < 1 {
			errs = append(errs, FieldError{
				Field:   fmt.Sprintf("accountability.report_jobs[%d].period_days", i),
				Message: "must be >= 1",
			})
		}
		if _, err := cron.ParseStandard(job.Schedule); err != nil {
			errs = append(errs, FieldError{
				Field:   fmt.Sprintf("accountability.report_jobs[%d].schedule", i),
				Message: fmt.Sprintf("invalid cron expression: %v", err),
			})
		}
	}

	return errs
}

// validateLogging validates the logging configuration.
func validateLogging(cfg *LoggingConfig) []FieldError {
	var errs []FieldError

	switch cfg.Level {
	case "debug", "info", "warn", "error":
	default:
		errs = append(errs, FieldError{
			Field:   "logging.level",
			Message: fmt.Sprintf("unknown level %q (must be debug, info, warn or error)", cfg.Level),
		})
	}

	switch cfg.Format {
	case "text", "json":
	default:
		errs = append(errs, FieldError{
			Field:   "logging.format",
			Message: fmt.Sprintf("unknown format %q (must be text or json)", cfg.Format),
		})
	}

	return errs
}
