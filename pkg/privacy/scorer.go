// Package privacy evaluates datasets and their handling for privacy
// risk: re-identification exposure, data minimization, and the presence
// of declared protective measures (anonymization, differential privacy,
// access controls).
package privacy

import (
	"fmt"
	"log/slog"

	"veritas-ml/aequitas/pkg/dataset"
)

// Measures declares which protective measures are in place for the
// dataset under evaluation.
type Measures struct {
	Anonymization       bool `json:"anonymization"`
	DifferentialPrivacy bool `json:"differential_privacy"`
	AccessControls      bool `json:"access_controls"`
}

// RiskLevel grades re-identification exposure.
type RiskLevel string

const (
	RiskLow    RiskLevel = "low"
	RiskMedium RiskLevel = "medium"
	RiskHigh   RiskLevel = "high"
)

// MeasureScore is one scored component of an evaluation.
type MeasureScore struct {
	Implemented bool     `json:"implemented"`
	Score       float64  `json:"score"`
	Issues      []string `json:"issues,omitempty"`
}

// ReidentificationRisk describes re-identification exposure.
type ReidentificationRisk struct {
	Score       float64   `json:"score"` // privacy score: 1 - risk
	Level       RiskLevel `json:"risk_level"`
	RiskFactors []string  `json:"risk_factors,omitempty"`
}

// Evaluation is the outcome of a privacy evaluation.
type Evaluation struct {
	DatasetSize int `json:"dataset_size"`
	NumFeatures int `json:"num_features"`

	// PrivacyScore is the mean of all measure scores.
	PrivacyScore float64 `json:"privacy_score"`

	Reidentification ReidentificationRisk    `json:"reidentification_risk"`
	Minimization     MeasureScore            `json:"data_minimization"`
	Measures         map[string]MeasureScore `json:"measures"`

	Risks           []string `json:"risks"`
	Recommendations []string `json:"recommendations"`
}

// Scorer evaluates privacy posture. Safe for concurrent use.
type Scorer struct {
	logger *slog.Logger
}

// NewScorer creates a privacy scorer.
func NewScorer() *Scorer {
	return &Scorer{logger: slog.Default().With("component", "privacy.scorer")}
}

// Evaluate scores the batch and declared measures. sensitiveColumns names
// the feature columns known to carry sensitive data; they are exempt from
// the quasi-identifier check.
func (s *Scorer) Evaluate(batch *dataset.Batch, sensitiveColumns []string, measures Measures) *Evaluation {
	features := batch.FeatureNames()

	e := &Evaluation{
		DatasetSize: batch.Len(),
		NumFeatures: len(features),
		Measures:    make(map[string]MeasureScore, 3),
	}

	sensitive := make(map[string]bool, len(sensitiveColumns))
	for _, col := range sensitiveColumns {
		sensitive[col] = true
	}

	e.Reidentification = s.reidentificationRisk(batch, features, sensitive)
	e.Minimization = s.dataMinimization(batch, features)
	e.Measures["anonymization"] = boolMeasure(measures.Anonymization)
	e.Measures["differential_privacy"] = boolMeasure(measures.DifferentialPrivacy)
	e.Measures["access_controls"] = boolMeasure(measures.AccessControls)

	total := e.Reidentification.Score + e.Minimization.Score
	for _, m := range e.Measures {
		total += m.Score
	}
	e.PrivacyScore = total / 5.0

	e.Risks = s.risks(e, measures)
	e.Recommendations = s.recommendations(e, measures)

	s.logger.Debug("privacy evaluation complete",
		"records", e.DatasetSize,
		"score", e.PrivacyScore,
	)
	return e
}

// columnValues collects the distinct values and null count of a feature
// column.
func columnValues(batch *dataset.Batch, column string) (distinct int, nulls int) {
	seen := make(map[any]bool)
	for i := 0; i < batch.Len(); i++ {
		v, ok := batch.Record(i).Features[column]
		if !ok || v == nil {
			nulls++
			continue
		}
		seen[v] = true
	}
	return len(seen), nulls
}

// reidentificationRisk flags unique-identifier columns, quasi-identifiers
// (uniqueness above 0.9) and small datasets.
func (s *Scorer) reidentificationRisk(batch *dataset.Batch, features []string, sensitive map[string]bool) ReidentificationRisk {
	risk := 0.0
	var factors []string

	n := batch.Len()
	for _, col := range features {
		distinct, nulls := columnValues(batch, col)
		nonNull := n - nulls
		if nonNull == 0 {
			continue
		}
		uniqueness := float64(distinct) / float64(nonNull)
		switch {
		case distinct == n:
			factors = append(factors, fmt.Sprintf("column %q contains unique identifiers", col))
			risk += 0.3
		case uniqueness > 0.9 && !sensitive[col]:
			factors = append(factors, fmt.Sprintf("column %q is highly unique (quasi-identifier)", col))
			risk += 0.2
		}
	}

	switch {
	case n < 100:
		factors = append(factors, "small dataset size increases re-identification risk")
		risk += 0.2
	case n < 1000:
		risk += 0.1
	}

	if risk > 1.0 {
		risk = 1.0
	}

	level := RiskLow
	switch {
	case risk > 0.7:
		level = RiskHigh
	case risk > 0.4:
		level = RiskMedium
	}

	return ReidentificationRisk{Score: 1.0 - risk, Level: level, RiskFactors: factors}
}

// dataMinimization penalizes all-null and constant columns.
func (s *Scorer) dataMinimization(batch *dataset.Batch, features []string) MeasureScore {
	score := 1.0
	var issues []string

	for _, col := range features {
		distinct, nulls := columnValues(batch, col)
		switch {
		case nulls == batch.Len():
			issues = append(issues, fmt.Sprintf("column %q contains only null values", col))
			score -= 0.1
		case distinct == 1 && nulls == 0:
			issues = append(issues, fmt.Sprintf("column %q contains only constant values", col))
			score -= 0.05
		}
	}

	if score < 0 {
		score = 0
	}
	return MeasureScore{Implemented: len(issues) == 0, Score: score, Issues: issues}
}

func boolMeasure(implemented bool) MeasureScore {
	m := MeasureScore{Implemented: implemented}
	if implemented {
		m.Score = 1.0
	}
	return m
}

func (s *Scorer) risks(e *Evaluation, measures Measures) []string {
	var risks []string

	if e.Reidentification.Level == RiskHigh {
		risks = append(risks, "High re-identification risk detected")
	}
	if !measures.Anonymization {
		risks = append(risks, "No anonymization measures in place")
	}
	if !measures.DifferentialPrivacy {
		risks = append(risks, "Differential privacy not implemented")
	}
	if !measures.AccessControls {
		risks = append(risks, "Access controls not implemented")
	}
	if e.Minimization.Score < 0.7 {
		risks = append(risks, "Data minimization principles not fully followed")
	}

	if len(risks) == 0 {
		risks = append(risks, "No major privacy risks identified")
	}
	return risks
}

func (s *Scorer) recommendations(e *Evaluation, measures Measures) []string {
	var recs []string

	if e.PrivacyScore < 0.5 {
		recs = append(recs, "Privacy score is low. Implement comprehensive privacy measures.")
	}
	if !measures.Anonymization {
		recs = append(recs, "Implement data anonymization (k-anonymity, l-diversity, t-closeness).")
	}
	if !measures.DifferentialPrivacy {
		recs = append(recs, "Consider differential privacy for statistical queries.")
	}
	if e.Reidentification.Level != RiskLow {
		recs = append(recs, "Reduce re-identification risk by removing or generalizing quasi-identifiers.")
	}
	if !measures.AccessControls {
		recs = append(recs, "Implement access controls and audit logging for data access.")
	}

	if len(recs) == 0 {
		recs = append(recs, "Privacy measures are adequate. Continue monitoring.")
	}
	return recs
}
