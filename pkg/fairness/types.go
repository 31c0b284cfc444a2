package fairness

import (
	"encoding/json"
	"math"
)

// Metric names accepted by Evaluate.
const (
	MetricDemographicParity = "demographic_parity"
	MetricEqualizedOdds     = "equalized_odds"
	MetricEqualOpportunity  = "equal_opportunity"
	MetricCalibration       = "calibration"
)

// Config contains the calculator thresholds. Each field is independently
// overridable; zero values are replaced by the defaults below.
type Config struct {
	// ParityRatioLow is the lower acceptance bound for the demographic
	// parity ratio (the four-fifths rule).
	// Default: 0.8
	ParityRatioLow float64 `yaml:"parity_ratio_low"`

	// ParityRatioHigh is the upper acceptance bound for the demographic
	// parity ratio.
	// Default: 1.25
	ParityRatioHigh float64 `yaml:"parity_ratio_high"`

	// OddsMaxDiff is the maximum tolerated absolute difference in
	// true/false-positive rates across groups. Also used as the
	// calibration deviation threshold.
	// Default: 0.1
	OddsMaxDiff float64 `yaml:"odds_max_diff"`

	// MinGroupSampleSize is the minimum group size required to compute a
	// rate. Groups below this size fail with InsufficientDataError.
	// Default: 1
	MinGroupSampleSize int `yaml:"min_group_sample_size"`

	// CalibrationBins is the number of equal-width probability bins used
	// by the calibration metric.
	// Default: 10
	CalibrationBins int `yaml:"calibration_bins"`

	// PrivilegedGroup, if set, names the reference group for pairwise
	// comparisons. When empty the first-seen group is the reference.
	PrivilegedGroup string `yaml:"privileged_group"`
}

// DefaultConfig returns the default calculator configuration.
func DefaultConfig() Config {
	return Config{
		ParityRatioLow:     0.8,
		ParityRatioHigh:    1.25,
		OddsMaxDiff:        0.1,
		MinGroupSampleSize: 1,
		CalibrationBins:    10,
	}
}

// applyDefaults fills zero-valued fields with defaults.
func (c *Config) applyDefaults() {
	d := DefaultConfig()
	if c.ParityRatioLow == 0 {
		c.ParityRatioLow = d.ParityRatioLow
	}
	if c.ParityRatioHigh == 0 {
		c.ParityRatioHigh = d.ParityRatioHigh
	}
	if c.OddsMaxDiff == 0 {
		c.OddsMaxDiff = d.OddsMaxDiff
	}
	if c.MinGroupSampleSize == 0 {
		c.MinGroupSampleSize = d.MinGroupSampleSize
	}
	if c.CalibrationBins == 0 {
		c.CalibrationBins = d.CalibrationBins
	}
}

// validate checks threshold ranges.
func (c *Config) validate() error {
	if c.ParityRatioLow <= 0 || c.ParityRatioLow >= 1 {
		return NewConfigError("parity_ratio_low", "must be in (0, 1)")
	}
	if c.ParityRatioHigh <= 1 {
		return NewConfigError("parity_ratio_high", "must be > 1")
	}
	if c.OddsMaxDiff <= 0 || c.OddsMaxDiff >= 1 {
		return NewConfigError("odds_max_diff", "must be in (0, 1)")
	}
	if c.MinGroupSampleSize < 1 {
		return NewConfigError("min_group_sample_size", "must be >= 1")
	}
	if c.CalibrationBins < 2 {
		return NewConfigError("calibration_bins", "must be >= 2")
	}
	return nil
}

// MetricResult is the immutable outcome of a single metric computation
// over a pair of groups. Produced, never mutated.
type MetricResult struct {
	// Metric is the metric name (e.g. "demographic_parity").
	Metric string `json:"metric_name"`

	// GroupA is the comparison group; GroupB is the reference group.
	GroupA string `json:"group_a"`
	GroupB string `json:"group_b"`

	// Value is the metric value: a rate ratio for parity, a maximum
	// absolute rate difference for odds/opportunity/calibration.
	Value float64 `json:"value"`

	// Threshold is the bound the value was compared against. For parity
	// this is the nearer of the two ratio bounds.
	Threshold float64 `json:"threshold"`

	// Violates reports whether the value breaches the threshold.
	Violates bool `json:"violates_threshold"`

	// Rates carries the per-group positive-prediction rates for parity
	// results. Nil for other metrics.
	Rates map[string]float64 `json:"positive_rates,omitempty"`
}

// MarshalJSON encodes the result, mapping a non-finite value to the JSON
// string "+Inf" (encoding/json rejects non-finite floats).
func (m MetricResult) MarshalJSON() ([]byte, error) {
	type alias MetricResult
	if !math.IsInf(m.Value, 0) {
		return json.Marshal(alias(m))
	}
	return json.Marshal(struct {
		alias
		Value string `json:"value"`
	}{alias: alias(m), Value: "+Inf"})
}

// GroupRates holds the per-group confusion-matrix detail behind an
// equalized-odds computation.
type GroupRates struct {
	TP  int     `json:"tp"`
	FP  int     `json:"fp"`
	TN  int     `json:"tn"`
	FN  int     `json:"fn"`
	TPR float64 `json:"tpr"`
	FPR float64 `json:"fpr"`
}

// OddsResult is the outcome of an equalized-odds computation: one
// MetricResult per rate, plus the per-group detail they were derived from.
type OddsResult struct {
	// TPR reports the maximum absolute true-positive-rate difference.
	TPR MetricResult `json:"tpr_violation"`

	// FPR reports the maximum absolute false-positive-rate difference.
	FPR MetricResult `json:"fpr_violation"`

	// Groups maps group name to its confusion-matrix rates.
	Groups map[string]GroupRates `json:"group_metrics"`
}
