// Package transparency scores model transparency and interpretability
// from declared model metadata. The engine never inspects a live model;
// callers describe the model through ModelInfo and the scorer applies
// fixed rules over that description.
package transparency

import (
	"log/slog"
)

// ModelKind classifies how inherently interpretable a model family is.
type ModelKind string

const (
	// KindInterpretable covers models whose decisions are directly
	// readable (linear models, shallow decision trees, rule systems).
	KindInterpretable ModelKind = "interpretable"

	// KindBlackBox covers models that require post-hoc explanation
	// (ensembles, boosted trees, neural networks, kernel machines).
	KindBlackBox ModelKind = "black_box"

	// KindUnknown is used when the model family is not declared.
	KindUnknown ModelKind = "unknown"
)

// ModelInfo is the caller-declared description of a model under
// assessment.
type ModelInfo struct {
	// ModelID identifies the model.
	ModelID string `json:"model_id"`

	// Kind declares the model family's interpretability class.
	Kind ModelKind `json:"model_type"`

	// FeatureImportances holds per-feature importance weights when the
	// model exposes them. Nil means not available.
	FeatureImportances []float64 `json:"feature_importances,omitempty"`

	// FeatureNames names the features, aligned with FeatureImportances.
	FeatureNames []string `json:"feature_names,omitempty"`

	// HasDocumentation reports whether the model ships documentation
	// (purpose, training data, limitations, usage guidelines).
	HasDocumentation bool `json:"has_documentation"`

	// HasExplanations reports whether per-prediction explanations are
	// available to end users.
	HasExplanations bool `json:"has_explanations"`
}

// Factor is one scored component of an assessment.
type Factor struct {
	Available bool    `json:"available"`
	Score     float64 `json:"score"`
	Note      string  `json:"note,omitempty"`
}

// Assessment is the outcome of a transparency assessment.
type Assessment struct {
	ModelID string    `json:"model_id"`
	Kind    ModelKind `json:"model_type"`

	// InterpretabilityScore reflects the model family alone.
	InterpretabilityScore float64 `json:"interpretability_score"`

	// TransparencyScore is the mean of all factor scores.
	TransparencyScore float64 `json:"transparency_score"`

	// Factors breaks the score down by component: interpretability,
	// feature_importance, documentation, explanations.
	Factors map[string]Factor `json:"factors"`

	Recommendations []string `json:"recommendations"`
}

// Scorer assesses model transparency. Safe for concurrent use.
type Scorer struct {
	logger *slog.Logger
}

// NewScorer creates a transparency scorer.
func NewScorer() *Scorer {
	return &Scorer{logger: slog.Default().With("component", "transparency.scorer")}
}

// Assess scores the declared model description. Interpretable models
// score 1.0 on interpretability, black-box models 0.3, unknown 0.5.
func (s *Scorer) Assess(info ModelInfo) *Assessment {
	a := &Assessment{
		ModelID: info.ModelID,
		Kind:    info.Kind,
		Factors: make(map[string]Factor, 4),
	}

	interp := s.interpretability(info.Kind)
	a.Factors["interpretability"] = interp
	a.InterpretabilityScore = interp.Score

	importance := Factor{Available: len(info.FeatureImportances) > 0}
	if importance.Available {
		importance.Score = 1.0
	} else {
		importance.Note = "model does not provide feature importance"
	}
	a.Factors["feature_importance"] = importance

	a.Factors["documentation"] = boolFactor(info.HasDocumentation)
	a.Factors["explanations"] = boolFactor(info.HasExplanations)

	total := 0.0
	for _, f := range a.Factors {
		total += f.Score
	}
	a.TransparencyScore = total / float64(len(a.Factors))

	a.Recommendations = s.recommendations(a, info)

	s.logger.Debug("transparency assessment complete",
		"model_id", info.ModelID,
		"score", a.TransparencyScore,
	)
	return a
}

func (s *Scorer) interpretability(kind ModelKind) Factor {
	switch kind {
	case KindInterpretable:
		return Factor{Available: true, Score: 1.0, Note: "model is inherently interpretable"}
	case KindBlackBox:
		return Factor{Available: true, Score: 0.3, Note: "black-box model, requires post-hoc explanations"}
	default:
		return Factor{Available: false, Score: 0.5, Note: "model family not declared, interpretability unclear"}
	}
}

func boolFactor(available bool) Factor {
	f := Factor{Available: available}
	if available {
		f.Score = 1.0
	}
	return f
}

func (s *Scorer) recommendations(a *Assessment, info ModelInfo) []string {
	var recs []string

	if a.TransparencyScore < 0.5 {
		recs = append(recs, "Model transparency is low. Consider a more interpretable model family or post-hoc explanation methods.")
	}
	if !info.HasDocumentation {
		recs = append(recs, "Add documentation covering model purpose, training data, limitations and usage guidelines.")
	}
	if !info.HasExplanations {
		recs = append(recs, "Provide per-prediction explanations to end users.")
	}
	if len(info.FeatureImportances) == 0 {
		recs = append(recs, "Expose feature importance so users can understand which features drive decisions.")
	}

	if len(recs) == 0 {
		recs = append(recs, "Model transparency is good. Continue maintaining documentation and explanations.")
	}
	return recs
}
