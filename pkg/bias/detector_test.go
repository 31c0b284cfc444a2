package bias

import (
	"errors"
	"fmt"
	"strings"
	"testing"

	"veritas-ml/aequitas/pkg/dataset"
	"veritas-ml/aequitas/pkg/fairness"
)

func intPtr(v int) *int { return &v }

func mustDetector(t *testing.T, cfg Config) *Detector {
	t.Helper()
	d, err := NewDetector(cfg)
	if err != nil {
		t.Fatalf("NewDetector() failed: %v", err)
	}
	return d
}

// skewedBatch builds the canonical scenario batch: 10 records, 8 male
// (6 positive predictions) and 2 female (0 positive predictions).
func skewedBatch() *dataset.Batch {
	var records []dataset.Record
	for i := 0; i < 8; i++ {
		pred := 0
		if i < 6 {
			pred = 1
		}
		records = append(records, dataset.Record{
			Features:   map[string]any{"approved": pred},
			Prediction: intPtr(pred),
			Label:      intPtr(pred),
			Protected:  map[string]string{"gender": "male"},
		})
	}
	for i := 0; i < 2; i++ {
		records = append(records, dataset.Record{
			Features:   map[string]any{"approved": 0},
			Prediction: intPtr(0),
			Label:      intPtr(0),
			Protected:  map[string]string{"gender": "female"},
		})
	}
	return dataset.NewBatch(records)
}

// TestAnalyze_SkewedScenario verifies the canonical scenario: disparity
// ratio 4.0 (not balanced) and a demographic parity ratio of 0.
func TestAnalyze_SkewedScenario(t *testing.T) {
	detector := mustDetector(t, DefaultConfig())

	report, err := detector.Analyze(skewedBatch(), []string{"gender"}, "approved")
	if err != nil {
		t.Fatalf("Analyze() failed: %v", err)
	}

	analysis := report.Attributes["gender"]
	if analysis == nil {
		t.Fatal("expected analysis for attribute 'gender'")
	}

	rb := analysis.Representation
	if rb.DisparityRatio != 4.0 {
		t.Errorf("expected disparity ratio 4.0, got %v", rb.DisparityRatio)
	}
	if rb.IsBalanced {
		t.Error("expected is_balanced=false at ratio 4.0")
	}
	if rb.LargestGroup != "male" || rb.SmallestGroup != "female" {
		t.Errorf("unexpected extreme groups: %s / %s", rb.LargestGroup, rb.SmallestGroup)
	}

	parity := analysis.Fairness[fairness.MetricDemographicParity]
	if parity == nil || parity.Result == nil {
		t.Fatal("expected demographic parity result")
	}
	if parity.Result.Value != 0 {
		t.Errorf("expected parity ratio 0, got %v", parity.Result.Value)
	}
	if !parity.Result.Violates {
		t.Error("expected parity violation")
	}
}

// TestAnalyze_RecommendationOrder verifies deterministic recommendation
// generation with representation bias first, then parity.
func TestAnalyze_RecommendationOrder(t *testing.T) {
	detector := mustDetector(t, DefaultConfig())

	report, err := detector.Analyze(skewedBatch(), []string{"gender"}, "approved")
	if err != nil {
		t.Fatalf("Analyze() failed: %v", err)
	}

	if len(report.Recommendations) < 2 {
		t.Fatalf("expected at least 2 recommendations, got %v", report.Recommendations)
	}
	if !strings.Contains(report.Recommendations[0], "representation disparity") {
		t.Errorf("expected representation recommendation first, got %q", report.Recommendations[0])
	}
	if !strings.Contains(report.Recommendations[1], "parity") {
		t.Errorf("expected parity recommendation second, got %q", report.Recommendations[1])
	}

	// Determinism: a second run produces the identical list.
	again, err := detector.Analyze(skewedBatch(), []string{"gender"}, "approved")
	if err != nil {
		t.Fatalf("Analyze() failed: %v", err)
	}
	if len(again.Recommendations) != len(report.Recommendations) {
		t.Fatalf("recommendation count changed between runs")
	}
	for i := range again.Recommendations {
		if again.Recommendations[i] != report.Recommendations[i] {
			t.Errorf("recommendation %d differs between runs", i)
		}
	}
}

// TestAnalyze_BalancedNoFindings verifies the no-findings message for a
// balanced, fair dataset.
func TestAnalyze_BalancedNoFindings(t *testing.T) {
	detector := mustDetector(t, DefaultConfig())

	var records []dataset.Record
	for _, group := range []string{"a", "b"} {
		for i := 0; i < 4; i++ {
			pred := i % 2
			records = append(records, dataset.Record{
				Features:   map[string]any{"outcome": pred},
				Prediction: intPtr(pred),
				Protected:  map[string]string{"team": group},
			})
		}
	}

	report, err := detector.Analyze(dataset.NewBatch(records), []string{"team"}, "outcome")
	if err != nil {
		t.Fatalf("Analyze() failed: %v", err)
	}
	if len(report.Recommendations) != 1 || !strings.Contains(report.Recommendations[0], "No significant bias") {
		t.Errorf("expected single no-findings recommendation, got %v", report.Recommendations)
	}
}

// TestAnalyze_UnknownTargetColumn verifies SchemaError for a target
// column absent from the batch.
func TestAnalyze_UnknownTargetColumn(t *testing.T) {
	detector := mustDetector(t, DefaultConfig())

	_, err := detector.Analyze(skewedBatch(), []string{"gender"}, "nonexistent")
	var schemaErr *dataset.SchemaError
	if !errors.As(err, &schemaErr) {
		t.Fatalf("expected *dataset.SchemaError, got %T: %v", err, err)
	}
}

// TestAnalyze_NoPredictionsSkipsFairness verifies that a batch without
// predictions still gets representation analysis, with no fairness
// section and no error.
func TestAnalyze_NoPredictionsSkipsFairness(t *testing.T) {
	detector := mustDetector(t, DefaultConfig())

	records := []dataset.Record{
		{Protected: map[string]string{"gender": "male"}},
		{Protected: map[string]string{"gender": "female"}},
	}

	report, err := detector.Analyze(dataset.NewBatch(records), []string{"gender"}, "")
	if err != nil {
		t.Fatalf("Analyze() failed: %v", err)
	}
	if report.Attributes["gender"].Fairness != nil {
		t.Error("expected no fairness section without predictions")
	}
}

// TestDetectModelBias_PerGroupMetrics verifies per-group accuracy,
// precision, recall and sample sizes with a stub model.
func TestDetectModelBias_PerGroupMetrics(t *testing.T) {
	detector := mustDetector(t, DefaultConfig())

	// The stub predicts positive iff feature "score" >= 50.
	calls := 0
	predict := func(features []map[string]any) ([]int, error) {
		calls++
		out := make([]int, len(features))
		for i, f := range features {
			if f["score"].(int) >= 50 {
				out[i] = 1
			}
		}
		return out, nil
	}

	records := []dataset.Record{
		{Features: map[string]any{"score": 80}, Label: intPtr(1), Protected: map[string]string{"gender": "male"}},
		{Features: map[string]any{"score": 60}, Label: intPtr(0), Protected: map[string]string{"gender": "male"}},
		{Features: map[string]any{"score": 40}, Label: intPtr(0), Protected: map[string]string{"gender": "male"}},
		{Features: map[string]any{"score": 70}, Label: intPtr(1), Protected: map[string]string{"gender": "female"}},
		{Features: map[string]any{"score": 30}, Label: intPtr(1), Protected: map[string]string{"gender": "female"}},
	}

	result, err := detector.DetectModelBias(predict, dataset.NewBatch(records), []string{"gender"})
	if err != nil {
		t.Fatalf("DetectModelBias() failed: %v", err)
	}

	// Per-record invocation by default: one call per record.
	if calls != len(records) {
		t.Errorf("expected %d prediction calls, got %d", len(records), calls)
	}

	male := result.Performance["gender"]["male"]
	if male.SampleSize != 3 {
		t.Errorf("expected male sample size 3, got %d", male.SampleSize)
	}
	// male: predictions [1,1,0], labels [1,0,0] -> accuracy 2/3, precision 1/2, recall 1/1.
	if diff := male.Accuracy - 2.0/3.0; diff > 1e-9 || diff < -1e-9 {
		t.Errorf("expected male accuracy 2/3, got %v", male.Accuracy)
	}
	if male.Precision != 0.5 {
		t.Errorf("expected male precision 0.5, got %v", male.Precision)
	}
	if male.Recall != 1.0 {
		t.Errorf("expected male recall 1.0, got %v", male.Recall)
	}

	female := result.Performance["gender"]["female"]
	// female: predictions [1,0], labels [1,1] -> accuracy 1/2, recall 1/2.
	if female.Accuracy != 0.5 || female.Recall != 0.5 {
		t.Errorf("unexpected female metrics: %+v", female)
	}
}

// TestDetectModelBias_BatchedPrediction verifies the single-call path.
func TestDetectModelBias_BatchedPrediction(t *testing.T) {
	cfg := DefaultConfig()
	cfg.BatchPrediction = true
	detector := mustDetector(t, cfg)

	calls := 0
	predict := func(features []map[string]any) ([]int, error) {
		calls++
		return make([]int, len(features)), nil
	}

	records := []dataset.Record{
		{Features: map[string]any{"x": 1}, Label: intPtr(0), Protected: map[string]string{"g": "a"}},
		{Features: map[string]any{"x": 2}, Label: intPtr(0), Protected: map[string]string{"g": "b"}},
	}

	_, err := detector.DetectModelBias(predict, dataset.NewBatch(records), []string{"g"})
	if err != nil {
		t.Fatalf("DetectModelBias() failed: %v", err)
	}
	if calls != 1 {
		t.Errorf("expected 1 batched call, got %d", calls)
	}
}

// TestDetectModelBias_PredictionFailure verifies PredictionError when the
// external function fails.
func TestDetectModelBias_PredictionFailure(t *testing.T) {
	detector := mustDetector(t, DefaultConfig())

	predict := func(features []map[string]any) ([]int, error) {
		return nil, fmt.Errorf("model unavailable")
	}

	records := []dataset.Record{
		{Features: map[string]any{"x": 1}, Label: intPtr(0), Protected: map[string]string{"g": "a"}},
	}

	_, err := detector.DetectModelBias(predict, dataset.NewBatch(records), []string{"g"})
	var predErr *PredictionError
	if !errors.As(err, &predErr) {
		t.Fatalf("expected *PredictionError, got %T: %v", err, err)
	}
}

// TestDetectModelBias_ShapeMismatch verifies PredictionError on a length
// mismatch.
func TestDetectModelBias_ShapeMismatch(t *testing.T) {
	cfg := DefaultConfig()
	cfg.BatchPrediction = true
	detector := mustDetector(t, cfg)

	predict := func(features []map[string]any) ([]int, error) {
		return []int{1}, nil // always one prediction, regardless of input
	}

	records := []dataset.Record{
		{Features: map[string]any{"x": 1}, Label: intPtr(0), Protected: map[string]string{"g": "a"}},
		{Features: map[string]any{"x": 2}, Label: intPtr(0), Protected: map[string]string{"g": "b"}},
	}

	_, err := detector.DetectModelBias(predict, dataset.NewBatch(records), []string{"g"})
	var predErr *PredictionError
	if !errors.As(err, &predErr) {
		t.Fatalf("expected *PredictionError, got %T: %v", err, err)
	}
	if predErr.Expected != 2 || predErr.Got != 1 {
		t.Errorf("unexpected shape in error: %+v", predErr)
	}
}
