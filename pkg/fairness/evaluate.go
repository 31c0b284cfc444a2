package fairness

import (
	"errors"
	"fmt"
)

// EvaluationInput bundles the aligned sample arrays consumed by Evaluate.
// Labels, Predictions and Probabilities may be nil when the corresponding
// metrics are not requested; Groups is always required.
type EvaluationInput struct {
	Labels        []int
	Predictions   []int
	Probabilities []float64
	Groups        []string
}

// MetricStatus is one entry of the per-metric status map returned by
// Evaluate. Exactly one of Result and Error is meaningful.
type MetricStatus struct {
	// Result is the computed metric, nil if the metric failed.
	Result *MetricResult `json:"result,omitempty"`

	// Err is the failure for this metric, nil on success.
	Err error `json:"-"`

	// Error is the string form of Err for serialization.
	Error string `json:"error,omitempty"`
}

// allMetrics is the evaluation order when no subset is requested.
var allMetrics = []string{
	MetricDemographicParity,
	MetricEqualizedOdds,
	MetricEqualOpportunity,
	MetricCalibration,
}

// Evaluate runs the requested metrics and returns a per-metric status
// map. A requested "equalized_odds" contributes two entries,
// "equalized_odds_tpr" and "equalized_odds_fpr". A nil or empty metrics
// slice requests all supported metrics.
//
// Partial failure is explicit: each failed metric carries its own error
// in the status map, and Evaluate itself returns an error only when every
// requested metric failed. Unknown metric names fail the whole call with
// *ConfigError before any metric runs.
func (c *Calculator) Evaluate(input EvaluationInput, metrics []string) (map[string]*MetricStatus, error) {
	if len(metrics) == 0 {
		metrics = allMetrics
	}

	// Validate names upfront so a typo never silently drops a metric.
	for _, name := range metrics {
		switch name {
		case MetricDemographicParity, MetricEqualizedOdds, MetricEqualOpportunity, MetricCalibration:
		default:
			return nil, NewConfigError("metrics", fmt.Sprintf("unknown metric %q", name))
		}
	}

	results := make(map[string]*MetricStatus)
	var failures []error
	record := func(name string, result *MetricResult, err error) {
		status := &MetricStatus{Result: result, Err: err}
		if err != nil {
			status.Error = err.Error()
			failures = append(failures, fmt.Errorf("%s: %w", name, err))
		}
		results[name] = status
	}

	for _, name := range metrics {
		switch name {
		case MetricDemographicParity:
			if input.Predictions == nil {
				record(name, nil, fmt.Errorf("demographic_parity requires predictions"))
				continue
			}
			result, err := c.DemographicParity(input.Predictions, input.Groups)
			record(name, result, err)

		case MetricEqualizedOdds:
			if input.Labels == nil || input.Predictions == nil {
				record(MetricEqualizedOdds+"_tpr", nil, fmt.Errorf("equalized_odds requires labels and predictions"))
				record(MetricEqualizedOdds+"_fpr", nil, fmt.Errorf("equalized_odds requires labels and predictions"))
				continue
			}
			odds, err := c.EqualizedOdds(input.Labels, input.Predictions, input.Groups)
			if err != nil {
				record(MetricEqualizedOdds+"_tpr", nil, err)
				record(MetricEqualizedOdds+"_fpr", nil, err)
				continue
			}
			tpr, fpr := odds.TPR, odds.FPR
			record(MetricEqualizedOdds+"_tpr", &tpr, nil)
			record(MetricEqualizedOdds+"_fpr", &fpr, nil)

		case MetricEqualOpportunity:
			if input.Labels == nil || input.Predictions == nil {
				record(name, nil, fmt.Errorf("equal_opportunity requires labels and predictions"))
				continue
			}
			result, err := c.EqualOpportunity(input.Labels, input.Predictions, input.Groups)
			record(name, result, err)

		case MetricCalibration:
			if input.Labels == nil || input.Probabilities == nil {
				record(name, nil, fmt.Errorf("calibration requires labels and prediction probabilities"))
				continue
			}
			result, err := c.Calibration(input.Labels, input.Probabilities, input.Groups)
			record(name, result, err)
		}
	}

	if len(failures) > 0 && len(failures) == len(results) {
		return results, fmt.Errorf("all requested metrics failed: %w", errors.Join(failures...))
	}
	return results, nil
}
