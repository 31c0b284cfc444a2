package bias

import (
	"fmt"
	"log/slog"
	"time"

	"veritas-ml/aequitas/pkg/dataset"
	"veritas-ml/aequitas/pkg/fairness"
)

// Detector analyzes datasets and model predictions for bias. It is safe
// for concurrent use.
type Detector struct {
	cfg    Config
	calc   *fairness.Calculator
	logger *slog.Logger
}

// NewDetector creates a detector with the provided configuration.
func NewDetector(cfg Config) (*Detector, error) {
	if cfg.RepresentationDisparityThreshold == 0 {
		cfg.RepresentationDisparityThreshold = 2.0
	}
	if cfg.RepresentationDisparityThreshold < 1 {
		return nil, fairness.NewConfigError("representation_disparity_threshold", "must be >= 1")
	}

	calc, err := fairness.NewCalculator(cfg.Fairness)
	if err != nil {
		return nil, err
	}

	return &Detector{
		cfg:    cfg,
		calc:   calc,
		logger: slog.Default().With("component", "bias.detector"),
	}, nil
}

// Analyze inspects a batch for representation bias across the given
// protected attributes and, when targetColumn is non-empty and predictions
// are present, computes fairness metrics per attribute.
//
// The targetColumn names the feature holding the binary outcome; an
// unknown column fails with *dataset.SchemaError. Pass an empty
// targetColumn to skip the fairness section.
func (d *Detector) Analyze(batch *dataset.Batch, protectedAttributes []string, targetColumn string) (*Report, error) {
	if batch == nil || batch.Len() == 0 {
		return nil, fmt.Errorf("analyze: batch is empty")
	}
	if len(protectedAttributes) == 0 {
		return nil, fmt.Errorf("analyze: protected attributes cannot be empty")
	}
	if targetColumn != "" && !batch.HasFeature(targetColumn) {
		return nil, dataset.NewSchemaError(targetColumn, nil)
	}

	parts, err := dataset.Partition(batch, protectedAttributes)
	if err != nil {
		return nil, err
	}

	report := &Report{
		DatasetSize:         batch.Len(),
		ProtectedAttributes: append([]string(nil), protectedAttributes...),
		Attributes:          make(map[string]*AttributeAnalysis, len(protectedAttributes)),
		GeneratedAt:         time.Now().UTC(),
	}

	for _, attr := range protectedAttributes {
		analysis := d.analyzeAttribute(batch, parts[attr], targetColumn)
		report.Attributes[attr] = analysis
	}

	report.Recommendations = d.recommendations(protectedAttributes, report.Attributes)

	d.logger.Debug("dataset analysis complete",
		"records", report.DatasetSize,
		"attributes", len(protectedAttributes),
		"recommendations", len(report.Recommendations),
	)
	return report, nil
}

// analyzeAttribute builds the per-attribute analysis from its partition.
func (d *Detector) analyzeAttribute(batch *dataset.Batch, part *dataset.AttributePartition, targetColumn string) *AttributeAnalysis {
	analysis := &AttributeAnalysis{
		Attribute:         part.Attribute,
		GroupCounts:       make(map[string]int, len(part.Values)),
		GroupDistribution: make(map[string]float64, len(part.Values)),
	}

	total := 0
	for _, value := range part.Values {
		count := part.Groups[value].Size()
		analysis.GroupCounts[value] = count
		total += count
	}
	for value, count := range analysis.GroupCounts {
		analysis.GroupDistribution[value] = float64(count) / float64(total)
	}

	analysis.Representation = d.representationBias(part, analysis.GroupCounts, total)

	if fairnessInput, metrics, ok := d.fairnessInput(part, targetColumn); ok {
		// Partial failure inside Evaluate is reflected in the status map;
		// an all-failed error is carried per-metric as well, so the
		// analysis keeps whatever detail is available.
		results, err := d.calc.Evaluate(fairnessInput, metrics)
		if err != nil {
			d.logger.Warn("fairness evaluation failed for attribute",
				"attribute", part.Attribute,
				"error", err,
			)
		}
		analysis.Fairness = results
	}

	return analysis
}

// representationBias computes group-size imbalance for a partition.
func (d *Detector) representationBias(part *dataset.AttributePartition, counts map[string]int, total int) RepresentationBias {
	rb := RepresentationBias{}
	first := true
	var maxCount, minCount int
	for _, value := range part.Values {
		count := counts[value]
		if first || count > maxCount {
			maxCount = count
			rb.LargestGroup = value
		}
		if first || count < minCount {
			minCount = count
			rb.SmallestGroup = value
		}
		first = false
	}

	rb.MaxProportion = float64(maxCount) / float64(total)
	rb.MinProportion = float64(minCount) / float64(total)
	rb.DisparityRatio = float64(maxCount) / float64(minCount)
	rb.IsBalanced = rb.DisparityRatio <= d.cfg.RepresentationDisparityThreshold
	return rb
}

// fairnessInput assembles aligned arrays for the fairness calculator from
// the records that carry the attribute. It selects the metric subset by
// input availability: parity needs predictions, odds and opportunity need
// labels too, calibration needs probabilities.
func (d *Detector) fairnessInput(part *dataset.AttributePartition, targetColumn string) (fairness.EvaluationInput, []string, bool) {
	var input fairness.EvaluationInput

	hasTarget := targetColumn != ""
	hasProbabilities := true

	for _, value := range part.Values {
		group := part.Groups[value]
		for i := 0; i < group.Size(); i++ {
			rec := group.Record(i)

			// Records without a prediction cannot contribute to any
			// prediction-based metric.
			if rec.Prediction == nil {
				continue
			}
			var label int
			if hasTarget {
				v, ok := binaryValue(rec.Features[targetColumn])
				if !ok {
					hasTarget = false
				} else {
					label = v
				}
			}

			input.Groups = append(input.Groups, value)
			input.Predictions = append(input.Predictions, *rec.Prediction)
			input.Labels = append(input.Labels, label)
			if rec.Probability != nil {
				input.Probabilities = append(input.Probabilities, *rec.Probability)
			} else {
				hasProbabilities = false
			}
		}
	}

	if len(input.Groups) == 0 {
		return fairness.EvaluationInput{}, nil, false
	}

	metrics := []string{fairness.MetricDemographicParity}
	if hasTarget {
		metrics = append(metrics, fairness.MetricEqualizedOdds, fairness.MetricEqualOpportunity)
		if hasProbabilities {
			metrics = append(metrics, fairness.MetricCalibration)
		}
	}
	if !hasTarget {
		input.Labels = nil
	}
	if !hasProbabilities {
		input.Probabilities = nil
	}
	return input, metrics, true
}

// binaryValue coerces a feature value into a binary outcome.
func binaryValue(v any) (int, bool) {
	switch val := v.(type) {
	case int:
		return clampBinary(val), true
	case int64:
		return clampBinary(int(val)), true
	case float64:
		if val == 1 {
			return 1, true
		}
		if val == 0 {
			return 0, true
		}
		return 0, false
	case bool:
		if val {
			return 1, true
		}
		return 0, true
	default:
		return 0, false
	}
}

func clampBinary(v int) int {
	if v == 1 {
		return 1
	}
	return 0
}

// Recommendation message templates. One template per violated check,
// parameterized with the attribute name and the measured value.
const (
	msgRepresentation = "High representation disparity detected for %q (ratio %.2f). Consider data collection strategies to improve balance."
	msgParity         = "Demographic parity violation for %q (ratio %.2f). Review decision thresholds across groups."
	msgOddsTPR        = "Equalized odds violation for %q (max TPR difference %.2f). Review error rates across groups."
	msgOddsFPR        = "Equalized odds violation for %q (max FPR difference %.2f). Review false-positive rates across groups."
	msgOpportunity    = "Equal opportunity violation for %q (max TPR difference %.2f). Review recall across groups."
	msgCalibration    = "Calibration gap for %q (max bin deviation %.2f). Review probability calibration across groups."
	msgNone           = "No significant bias detected. Continue monitoring."
)

// recommendations generates the ordered recommendation list: for each
// check in priority order (representation, parity, odds/opportunity,
// calibration), one message per violating attribute, attributes in request
// order.
func (d *Detector) recommendations(attrs []string, analyses map[string]*AttributeAnalysis) []string {
	var recs []string

	for _, attr := range attrs {
		if rb := analyses[attr].Representation; !rb.IsBalanced {
			recs = append(recs, fmt.Sprintf(msgRepresentation, attr, rb.DisparityRatio))
		}
	}

	violation := func(attr, metric string) (float64, bool) {
		status, ok := analyses[attr].Fairness[metric]
		if !ok || status.Result == nil || !status.Result.Violates {
			return 0, false
		}
		return status.Result.Value, true
	}

	for _, attr := range attrs {
		if v, ok := violation(attr, fairness.MetricDemographicParity); ok {
			recs = append(recs, fmt.Sprintf(msgParity, attr, v))
		}
	}
	for _, attr := range attrs {
		if v, ok := violation(attr, fairness.MetricEqualizedOdds+"_tpr"); ok {
			recs = append(recs, fmt.Sprintf(msgOddsTPR, attr, v))
		}
		if v, ok := violation(attr, fairness.MetricEqualizedOdds+"_fpr"); ok {
			recs = append(recs, fmt.Sprintf(msgOddsFPR, attr, v))
		}
		if v, ok := violation(attr, fairness.MetricEqualOpportunity); ok {
			recs = append(recs, fmt.Sprintf(msgOpportunity, attr, v))
		}
	}
	for _, attr := range attrs {
		if v, ok := violation(attr, fairness.MetricCalibration); ok {
			recs = append(recs, fmt.Sprintf(msgCalibration, attr, v))
		}
	}

	if len(recs) == 0 {
		recs = append(recs, msgNone)
	}
	return recs
}
