package fairness

import (
	"fmt"
	"log/slog"
	"math"
)

// Calculator computes fairness metrics over grouped predictions. It is
// stateless apart from its configuration and safe for concurrent use.
type Calculator struct {
	cfg    Config
	logger *slog.Logger
}

// NewCalculator creates a calculator with the provided configuration.
// Zero-valued thresholds are replaced with defaults; out-of-range
// thresholds fail with *ConfigError.
func NewCalculator(cfg Config) (*Calculator, error) {
	cfg.applyDefaults()
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &Calculator{
		cfg:    cfg,
		logger: slog.Default().With("component", "fairness.calculator"),
	}, nil
}

// Config returns the calculator's effective configuration.
func (c *Calculator) Config() Config {
	return c.cfg
}

// groupSlice holds the per-group sample indices in first-seen order.
type groupSlice struct {
	names   []string
	indices map[string][]int
}

// splitGroups indexes samples by group label, preserving first-seen order.
func splitGroups(groups []string) *groupSlice {
	gs := &groupSlice{indices: make(map[string][]int)}
	for i, g := range groups {
		if _, seen := gs.indices[g]; !seen {
			gs.names = append(gs.names, g)
		}
		gs.indices[g] = append(gs.indices[g], i)
	}
	return gs
}

// checkSizes fails with InsufficientDataError if any group is below the
// configured minimum sample size.
func (c *Calculator) checkSizes(metric string, gs *groupSlice) error {
	for _, name := range gs.names {
		if size := len(gs.indices[name]); size < c.cfg.MinGroupSampleSize {
			return NewInsufficientDataError(metric, name, size, c.cfg.MinGroupSampleSize)
		}
	}
	return nil
}

// reference picks the reference group: the configured privileged group if
// present, otherwise the first-seen group.
func (c *Calculator) reference(metric string, gs *groupSlice) (string, error) {
	if c.cfg.PrivilegedGroup == "" {
		return gs.names[0], nil
	}
	if _, ok := gs.indices[c.cfg.PrivilegedGroup]; !ok {
		return "", NewConfigError("privileged_group",
			fmt.Sprintf("group %q not present in data for metric %s", c.cfg.PrivilegedGroup, metric))
	}
	return c.cfg.PrivilegedGroup, nil
}

// DemographicParity computes the ratio of positive-prediction rates
// between each group and the reference group, returning the most
// disparate pair. A zero reference rate yields the +Inf sentinel with
// violates_threshold=true rather than an error.
func (c *Calculator) DemographicParity(predictions []int, groups []string) (*MetricResult, error) {
	if len(predictions) != len(groups) {
		return nil, fmt.Errorf("demographic_parity: predictions (%d) and group labels (%d) length mismatch",
			len(predictions), len(groups))
	}

	gs := splitGroups(groups)
	if len(gs.names) < 2 {
		return nil, fmt.Errorf("demographic_parity: need at least two groups, got %d", len(gs.names))
	}
	if err := c.checkSizes(MetricDemographicParity, gs); err != nil {
		return nil, err
	}
	ref, err := c.reference(MetricDemographicParity, gs)
	if err != nil {
		return nil, err
	}

	rates := make(map[string]float64, len(gs.names))
	for _, name := range gs.names {
		positives := 0
		for _, i := range gs.indices[name] {
			if predictions[i] == 1 {
				positives++
			}
		}
		rates[name] = float64(positives) / float64(len(gs.indices[name]))
	}

	// Compare every non-reference group against the reference and keep
	// the worst pair. Deviation is measured on the log scale so that a
	// ratio of 0.5 and a ratio of 2.0 are equally disparate.
	var worst *MetricResult
	worstDev := -1.0
	for _, name := range gs.names {
		if name == ref {
			continue
		}

		var ratio, dev float64
		switch {
		case rates[ref] == 0:
			ratio = math.Inf(1)
			dev = math.Inf(1)
		case rates[name] == 0:
			ratio = 0
			dev = math.Inf(1)
		default:
			ratio = rates[name] / rates[ref]
			dev = math.Abs(math.Log(ratio))
		}

		if dev > worstDev {
			worstDev = dev
			worst = &MetricResult{
				Metric:    MetricDemographicParity,
				GroupA:    name,
				GroupB:    ref,
				Value:     ratio,
				Threshold: c.parityThreshold(ratio),
				Violates:  math.IsInf(ratio, 1) || ratio < c.cfg.ParityRatioLow || ratio > c.cfg.ParityRatioHigh,
				Rates:     cloneRates(rates),
			}
		}
	}

	if worst.Violates {
		c.logger.Debug("demographic parity violation",
			"group_a", worst.GroupA,
			"group_b", worst.GroupB,
			"ratio", worst.Value,
		)
	}
	return worst, nil
}

// cloneRates copies the per-group rate map so each result owns its own.
func cloneRates(rates map[string]float64) map[string]float64 {
	out := make(map[string]float64, len(rates))
	for k, v := range rates {
		out[k] = v
	}
	return out
}

// parityThreshold returns the acceptance bound nearest to the ratio.
func (c *Calculator) parityThreshold(ratio float64) float64 {
	if ratio <= 1 {
		return c.cfg.ParityRatioLow
	}
	return c.cfg.ParityRatioHigh
}

// confusion tallies a binary confusion matrix for the given sample indices.
func confusion(labels, predictions []int, indices []int) GroupRates {
	var r GroupRates
	for _, i := range indices {
		switch {
		case labels[i] == 1 && predictions[i] == 1:
			r.TP++
		case labels[i] == 0 && predictions[i] == 1:
			r.FP++
		case labels[i] == 0 && predictions[i] == 0:
			r.TN++
		default:
			r.FN++
		}
	}
	if r.TP+r.FN > 0 {
		r.TPR = float64(r.TP) / float64(r.TP+r.FN)
	}
	if r.FP+r.TN > 0 {
		r.FPR = float64(r.FP) / float64(r.FP+r.TN)
	}
	return r
}

// EqualizedOdds computes the maximum absolute difference in true-positive
// and false-positive rates across groups.
func (c *Calculator) EqualizedOdds(labels, predictions []int, groups []string) (*OddsResult, error) {
	if len(labels) != len(predictions) || len(labels) != len(groups) {
		return nil, fmt.Errorf("equalized_odds: labels (%d), predictions (%d) and group labels (%d) length mismatch",
			len(labels), len(predictions), len(groups))
	}

	gs := splitGroups(groups)
	if len(gs.names) < 2 {
		return nil, fmt.Errorf("equalized_odds: need at least two groups, got %d", len(gs.names))
	}
	if err := c.checkSizes(MetricEqualizedOdds, gs); err != nil {
		return nil, err
	}

	groupRates := make(map[string]GroupRates, len(gs.names))
	for _, name := range gs.names {
		groupRates[name] = confusion(labels, predictions, gs.indices[name])
	}

	tpr := c.maxRateDiff(MetricEqualizedOdds+"_tpr", gs.names, groupRates, func(r GroupRates) float64 { return r.TPR })
	fpr := c.maxRateDiff(MetricEqualizedOdds+"_fpr", gs.names, groupRates, func(r GroupRates) float64 { return r.FPR })

	return &OddsResult{TPR: tpr, FPR: fpr, Groups: groupRates}, nil
}

// maxRateDiff builds a MetricResult for the largest cross-group spread of
// the selected rate. GroupA carries the maximum, GroupB the minimum.
func (c *Calculator) maxRateDiff(metric string, names []string, rates map[string]GroupRates, rate func(GroupRates) float64) MetricResult {
	maxName, minName := names[0], names[0]
	for _, name := range names[1:] {
		if rate(rates[name]) > rate(rates[maxName]) {
			maxName = name
		}
		if rate(rates[name]) < rate(rates[minName]) {
			minName = name
		}
	}
	diff := rate(rates[maxName]) - rate(rates[minName])
	return MetricResult{
		Metric:    metric,
		GroupA:    maxName,
		GroupB:    minName,
		Value:     diff,
		Threshold: c.cfg.OddsMaxDiff,
		Violates:  diff > c.cfg.OddsMaxDiff,
	}
}

// EqualOpportunity computes the maximum absolute difference in
// true-positive rates across groups (equalized odds restricted to TPR).
func (c *Calculator) EqualOpportunity(labels, predictions []int, groups []string) (*MetricResult, error) {
	if len(labels) != len(predictions) || len(labels) != len(groups) {
		return nil, fmt.Errorf("equal_opportunity: labels (%d), predictions (%d) and group labels (%d) length mismatch",
			len(labels), len(predictions), len(groups))
	}

	gs := splitGroups(groups)
	if len(gs.names) < 2 {
		return nil, fmt.Errorf("equal_opportunity: need at least two groups, got %d", len(gs.names))
	}
	if err := c.checkSizes(MetricEqualOpportunity, gs); err != nil {
		return nil, err
	}

	groupRates := make(map[string]GroupRates, len(gs.names))
	for _, name := range gs.names {
		groupRates[name] = confusion(labels, predictions, gs.indices[name])
	}

	result := c.maxRateDiff(MetricEqualOpportunity, gs.names, groupRates, func(r GroupRates) float64 { return r.TPR })
	return &result, nil
}

// Calibration bins predicted probabilities into equal-width bins over
// [0, 1] and reports the maximum cross-group deviation of empirical
// positive rates within any bin. Bins where fewer than two groups have
// samples are skipped, not counted as zero deviation.
func (c *Calculator) Calibration(labels []int, probabilities []float64, groups []string) (*MetricResult, error) {
	if len(labels) != len(probabilities) || len(labels) != len(groups) {
		return nil, fmt.Errorf("calibration: labels (%d), probabilities (%d) and group labels (%d) length mismatch",
			len(labels), len(probabilities), len(groups))
	}

	gs := splitGroups(groups)
	if len(gs.names) < 2 {
		return nil, fmt.Errorf("calibration: need at least two groups, got %d", len(gs.names))
	}
	if err := c.checkSizes(MetricCalibration, gs); err != nil {
		return nil, err
	}

	nBins := c.cfg.CalibrationBins
	binOf := func(p float64) int {
		bin := int(p * float64(nBins))
		if bin >= nBins { // p == 1.0 falls into the last bin
			bin = nBins - 1
		}
		if bin < 0 {
			bin = 0
		}
		return bin
	}

	// positives[bin][group], counts[bin][group]
	type binStats struct {
		positives map[string]int
		counts    map[string]int
	}
	bins := make([]binStats, nBins)
	for i := range bins {
		bins[i] = binStats{positives: make(map[string]int), counts: make(map[string]int)}
	}
	for i, p := range probabilities {
		b := binOf(p)
		bins[b].counts[groups[i]]++
		if labels[i] == 1 {
			bins[b].positives[groups[i]]++
		}
	}

	maxDev := -1.0
	var groupA, groupB string
	for _, b := range bins {
		if len(b.counts) < 2 {
			continue // empty or single-group bin: nothing to compare
		}

		first := true
		var maxRate, minRate float64
		var maxName, minName string
		for _, name := range gs.names {
			count, ok := b.counts[name]
			if !ok {
				continue
			}
			rate := float64(b.positives[name]) / float64(count)
			if first || rate > maxRate {
				maxRate, maxName = rate, name
			}
			if first || rate < minRate {
				minRate, minName = rate, name
			}
			first = false
		}

		if dev := maxRate - minRate; dev > maxDev {
			maxDev = dev
			groupA, groupB = maxName, minName
		}
	}

	// No bin held samples from two or more groups: there is nothing to
	// compare, which is an insufficient-data condition rather than a
	// zero-deviation result.
	if maxDev < 0 {
		return nil, NewInsufficientDataError(MetricCalibration, "", 0, 1)
	}

	return &MetricResult{
		Metric:    MetricCalibration,
		GroupA:    groupA,
		GroupB:    groupB,
		Value:     maxDev,
		Threshold: c.cfg.OddsMaxDiff,
		Violates:  maxDev > c.cfg.OddsMaxDiff,
	}, nil
}
