// Package fairness computes statistical fairness metrics over grouped
// model predictions.
//
// # Metrics
//
// The Calculator supports four metric families:
//
//   - Demographic parity: ratio of positive-prediction rates between a
//     comparison group and a reference group. The default acceptance band
//     is the "four-fifths rule": ratios outside [0.8, 1.25] violate.
//   - Equalized odds: maximum absolute difference in true-positive and
//     false-positive rates across groups (default threshold 0.1).
//   - Equal opportunity: equalized odds restricted to the true-positive rate.
//   - Calibration: maximum cross-group deviation of empirical positive
//     rates within equal-width probability bins (default 10 bins).
//
// All metrics operate on two-group comparisons. With more than two groups,
// pairwise comparisons run against a reference group (the first-seen
// group, or an explicitly configured privileged group) and the worst pair
// is reported.
//
// # Zero-rate handling
//
// A reference group with a zero positive-prediction rate would make the
// parity ratio undefined. The calculator reports the ratio as the +Inf
// sentinel with violates_threshold=true instead of failing; the sentinel
// marshals to the JSON string "+Inf" because encoding/json rejects
// non-finite floats. Groups smaller than the configured minimum sample
// size fail with *InsufficientDataError rather than producing a 0/0 ratio
// that would masquerade as a valid result.
//
// # Evaluate
//
// Evaluate runs a configurable subset of metrics and returns a per-metric
// status map. One failing metric does not abort the rest; the call itself
// errors only when every requested metric fails. Unknown metric names fail
// upfront with *ConfigError.
package fairness
