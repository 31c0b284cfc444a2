// Package bias detects disparities in datasets and model behavior across
// protected groups.
//
// The Detector offers two entry points:
//
//   - Analyze inspects a batch for representation bias (group size
//     disparity) and, when an outcome column and predictions are present,
//     runs the fairness metrics from package fairness per protected
//     attribute. The resulting Report includes deterministic, rule-based
//     recommendations: one fixed message template per violated check, in a
//     fixed priority order (representation, then parity, then
//     odds/opportunity, then calibration).
//
//   - DetectModelBias evaluates an externally supplied prediction function
//     against a labeled batch and reports per-group classification
//     performance (accuracy, precision, recall, sample size). The engine
//     never trains or hosts a model; the prediction function is a black
//     box that must return exactly one prediction per input record.
package bias
