package bias

import (
	"time"

	"veritas-ml/aequitas/pkg/fairness"
)

// Config contains detector thresholds and behavior switches.
type Config struct {
	// RepresentationDisparityThreshold is the maximum tolerated ratio of
	// largest to smallest group size before an attribute is flagged as
	// imbalanced.
	// Default: 2.0
	RepresentationDisparityThreshold float64 `yaml:"representation_disparity_threshold"`

	// BatchPrediction declares that the external prediction function
	// accepts batched input. When false, the function is called once per
	// record with a single-element slice.
	// Default: false
	BatchPrediction bool `yaml:"batch_prediction"`

	// Fairness configures the embedded fairness calculator.
	Fairness fairness.Config `yaml:"fairness"`
}

// DefaultConfig returns the default detector configuration.
func DefaultConfig() Config {
	return Config{
		RepresentationDisparityThreshold: 2.0,
		Fairness:                         fairness.DefaultConfig(),
	}
}

// RepresentationBias describes group-size imbalance for one protected
// attribute.
type RepresentationBias struct {
	// MaxProportion and MinProportion are the largest and smallest group
	// shares of the records carrying this attribute.
	MaxProportion float64 `json:"max_proportion"`
	MinProportion float64 `json:"min_proportion"`

	// LargestGroup and SmallestGroup name the groups behind the extremes.
	LargestGroup  string `json:"largest_group"`
	SmallestGroup string `json:"smallest_group"`

	// DisparityRatio is the ratio of largest to smallest group count.
	DisparityRatio float64 `json:"disparity_ratio"`

	// IsBalanced reports whether the disparity ratio is within the
	// configured threshold.
	IsBalanced bool `json:"is_balanced"`
}

// AttributeAnalysis holds the per-attribute results of a dataset analysis.
type AttributeAnalysis struct {
	// Attribute is the protected attribute analyzed.
	Attribute string `json:"attribute"`

	// GroupCounts maps group value to record count.
	GroupCounts map[string]int `json:"group_counts"`

	// GroupDistribution maps group value to its share of the attribute's
	// records.
	GroupDistribution map[string]float64 `json:"group_distribution"`

	// Representation describes group-size imbalance.
	Representation RepresentationBias `json:"representation_bias"`

	// Fairness holds the per-metric status map from the fairness
	// calculator. Nil when no outcome column or predictions were present.
	Fairness map[string]*fairness.MetricStatus `json:"fairness_metrics,omitempty"`
}

// Report is the outcome of a dataset bias analysis.
type Report struct {
	// DatasetSize is the number of records analyzed.
	DatasetSize int `json:"dataset_size"`

	// ProtectedAttributes lists the analyzed attributes in request order.
	ProtectedAttributes []string `json:"protected_attributes"`

	// Attributes maps attribute name to its analysis.
	Attributes map[string]*AttributeAnalysis `json:"bias_metrics"`

	// Recommendations lists human-readable follow-ups generated from
	// threshold violations, in fixed priority order.
	Recommendations []string `json:"recommendations"`

	// GeneratedAt is when the analysis ran.
	GeneratedAt time.Time `json:"generated_at"`
}

// GroupPerformance holds per-group classification metrics from a model
// bias probe.
type GroupPerformance struct {
	Accuracy   float64 `json:"accuracy"`
	Precision  float64 `json:"precision"`
	Recall     float64 `json:"recall"`
	SampleSize int     `json:"sample_size"`
}

// PredictFunc is the externally supplied prediction function. It must
// return exactly one prediction per input record. The engine only requires
// it to be callable; it is otherwise a black box.
type PredictFunc func(features []map[string]any) ([]int, error)
