package fairness

import "fmt"

// InsufficientDataError indicates that a group is too small for a
// statistically meaningful rate computation.
type InsufficientDataError struct {
	Metric      string // Metric being computed
	Group       string // Group that was too small
	SampleSize  int    // Observed group size
	MinRequired int    // Configured minimum sample size
}

// Error implements the error interface.
func (e *InsufficientDataError) Error() string {
	return fmt.Sprintf("insufficient data [metric=%s, group=%s]: %d samples, %d required",
		e.Metric, e.Group, e.SampleSize, e.MinRequired)
}

// NewInsufficientDataError creates a new InsufficientDataError.
func NewInsufficientDataError(metric, group string, sampleSize, minRequired int) *InsufficientDataError {
	return &InsufficientDataError{
		Metric:      metric,
		Group:       group,
		SampleSize:  sampleSize,
		MinRequired: minRequired,
	}
}

// ConfigError indicates an unknown metric name or an out-of-range
// threshold in the calculator configuration.
type ConfigError struct {
	Option  string // Configuration option or metric name at fault
	Message string // Human-readable description
}

// Error implements the error interface.
func (e *ConfigError) Error() string {
	return fmt.Sprintf("config error [option=%s]: %s", e.Option, e.Message)
}

// NewConfigError creates a new ConfigError.
func NewConfigError(option, message string) *ConfigError {
	return &ConfigError{Option: option, Message: message}
}
