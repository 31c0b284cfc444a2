package fairness

import (
	"errors"
	"testing"
)

// TestEvaluate_PartialFailureKeepsSuccesses verifies that one failing
// metric does not abort the rest: with probabilities absent, calibration
// fails in the status map while parity, odds and opportunity succeed,
// and Evaluate itself returns no error.
func TestEvaluate_PartialFailureKeepsSuccesses(t *testing.T) {
	calc := mustCalculator(t, DefaultConfig())

	input := EvaluationInput{
		Labels:      []int{1, 0, 1, 0, 1, 0},
		Predictions: []int{1, 0, 1, 1, 0, 0},
		Groups:      []string{"a", "a", "a", "b", "b", "b"},
	}

	statuses, err := calc.Evaluate(input, nil)
	if err != nil {
		t.Fatalf("Evaluate() failed: %v", err)
	}

	// equalized_odds expands into _tpr and _fpr entries.
	want := []string{
		MetricDemographicParity,
		MetricEqualizedOdds + "_tpr",
		MetricEqualizedOdds + "_fpr",
		MetricEqualOpportunity,
		MetricCalibration,
	}
	if len(statuses) != len(want) {
		t.Fatalf("expected %d status entries, got %d", len(want), len(statuses))
	}
	for _, name := range want {
		if statuses[name] == nil {
			t.Fatalf("missing status entry for %q", name)
		}
	}

	for _, name := range want[:4] {
		status := statuses[name]
		if status.Err != nil {
			t.Errorf("%s: unexpected error: %v", name, status.Err)
		}
		if status.Result == nil {
			t.Errorf("%s: expected a result", name)
		}
	}

	calibration := statuses[MetricCalibration]
	if calibration.Err == nil {
		t.Fatal("expected calibration to fail without probabilities")
	}
	if calibration.Result != nil {
		t.Error("failed calibration must carry no result")
	}
	if calibration.Error == "" {
		t.Error("failed calibration must carry its error string")
	}
}

// TestEvaluate_AllFailed verifies that the call errors only when every
// requested metric failed, and that the status map still carries the
// per-metric errors.
func TestEvaluate_AllFailed(t *testing.T) {
	calc := mustCalculator(t, DefaultConfig())

	// No predictions: parity and opportunity both fail.
	input := EvaluationInput{
		Labels: []int{1, 0, 1, 0},
		Groups: []string{"a", "a", "b", "b"},
	}

	statuses, err := calc.Evaluate(input, []string{
		MetricDemographicParity,
		MetricEqualOpportunity,
	})
	if err == nil {
		t.Fatal("expected error when every requested metric fails")
	}
	if len(statuses) != 2 {
		t.Fatalf("expected 2 status entries, got %d", len(statuses))
	}
	for name, status := range statuses {
		if status.Err == nil || status.Result != nil {
			t.Errorf("%s: expected a failed status, got %+v", name, status)
		}
	}
}

// TestEvaluate_UnknownMetric verifies that a typo in the metric list
// fails the whole call with ConfigError before any metric runs.
func TestEvaluate_UnknownMetric(t *testing.T) {
	calc := mustCalculator(t, DefaultConfig())

	input := EvaluationInput{
		Predictions: []int{1, 0, 1, 0},
		Groups:      []string{"a", "a", "b", "b"},
	}

	statuses, err := calc.Evaluate(input, []string{
		MetricDemographicParity,
		"demographic_partiy",
	})
	var cfgErr *ConfigError
	if !errors.As(err, &cfgErr) {
		t.Fatalf("expected *ConfigError, got %T: %v", err, err)
	}
	if statuses != nil {
		t.Errorf("expected no status map on an unknown metric name, got %v", statuses)
	}
}

// TestEvaluate_InsufficientDataPerMetric verifies that a group below the
// configured minimum fails each metric with InsufficientDataError inside
// the status map.
func TestEvaluate_InsufficientDataPerMetric(t *testing.T) {
	cfg := DefaultConfig()
	cfg.MinGroupSampleSize = 3
	calc, err := NewCalculator(cfg)
	if err != nil {
		t.Fatalf("NewCalculator() failed: %v", err)
	}

	// Group b has only two samples.
	input := EvaluationInput{
		Labels:      []int{1, 0, 1, 1, 0},
		Predictions: []int{1, 0, 1, 1, 0},
		Groups:      []string{"a", "a", "a", "b", "b"},
	}

	statuses, err := calc.Evaluate(input, []string{
		MetricDemographicParity,
		MetricEqualOpportunity,
	})
	if err == nil {
		t.Fatal("expected error when every requested metric fails")
	}

	for name, status := range statuses {
		var dataErr *InsufficientDataError
		if !errors.As(status.Err, &dataErr) {
			t.Fatalf("%s: expected *InsufficientDataError, got %v", name, status.Err)
		}
		if dataErr.Group != "b" || dataErr.SampleSize != 2 || dataErr.MinRequired != 3 {
			t.Errorf("%s: unexpected error detail: %+v", name, dataErr)
		}
	}
}
