package privacy

import (
	"fmt"
	"strings"
	"testing"

	"veritas-ml/aequitas/pkg/dataset"
)

// riskBatch builds n records with a unique id column, a constant column
// and a normal column.
func riskBatch(n int) *dataset.Batch {
	records := make([]dataset.Record, n)
	for i := range records {
		records[i] = dataset.Record{
			Features: map[string]any{
				"user_id": fmt.Sprintf("u-%d", i),
				"region":  "emea",
				"amount":  i % 5,
			},
		}
	}
	return dataset.NewBatch(records)
}

// TestEvaluate_UnprotectedSmallDataset verifies risk accumulation for a
// small dataset with a unique-identifier column and no measures.
func TestEvaluate_UnprotectedSmallDataset(t *testing.T) {
	scorer := NewScorer()

	e := scorer.Evaluate(riskBatch(50), nil, Measures{})

	// Risk: 0.3 (unique ids) + 0.2 (under 100 records) = 0.5 -> medium.
	if e.Reidentification.Level != RiskMedium {
		t.Errorf("expected medium risk, got %s", e.Reidentification.Level)
	}
	if diff := e.Reidentification.Score - 0.5; diff > 1e-9 || diff < -1e-9 {
		t.Errorf("expected reidentification score 0.5, got %v", e.Reidentification.Score)
	}

	// Constant column penalizes minimization by 0.05.
	if diff := e.Minimization.Score - 0.95; diff > 1e-9 || diff < -1e-9 {
		t.Errorf("expected minimization score 0.95, got %v", e.Minimization.Score)
	}
	if e.Minimization.Implemented {
		t.Error("expected minimization issues to be flagged")
	}

	// Mean over 5 components: (0.5 + 0.95 + 0 + 0 + 0) / 5.
	expected := (0.5 + 0.95) / 5.0
	if diff := e.PrivacyScore - expected; diff > 1e-9 || diff < -1e-9 {
		t.Errorf("expected privacy score %v, got %v", expected, e.PrivacyScore)
	}

	if len(e.Risks) == 0 || len(e.Recommendations) == 0 {
		t.Fatal("expected risks and recommendations for an unprotected dataset")
	}
	if !strings.Contains(e.Recommendations[0], "Privacy score is low") {
		t.Errorf("expected low-score recommendation first, got %q", e.Recommendations[0])
	}
}

// TestEvaluate_ProtectedLargeDataset verifies the clean path with all
// measures in place.
func TestEvaluate_ProtectedLargeDataset(t *testing.T) {
	scorer := NewScorer()

	records := make([]dataset.Record, 1200)
	for i := range records {
		records[i] = dataset.Record{
			Features: map[string]any{"amount": i % 7, "region": i % 3},
		}
	}

	e := scorer.Evaluate(dataset.NewBatch(records), nil, Measures{
		Anonymization:       true,
		DifferentialPrivacy: true,
		AccessControls:      true,
	})

	if e.Reidentification.Level != RiskLow {
		t.Errorf("expected low risk, got %s", e.Reidentification.Level)
	}
	if e.PrivacyScore != 1.0 {
		t.Errorf("expected privacy score 1.0, got %v", e.PrivacyScore)
	}
	if len(e.Risks) != 1 || !strings.Contains(e.Risks[0], "No major privacy risks") {
		t.Errorf("expected single no-risk entry, got %v", e.Risks)
	}
	if len(e.Recommendations) != 1 || !strings.Contains(e.Recommendations[0], "adequate") {
		t.Errorf("expected single positive recommendation, got %v", e.Recommendations)
	}
}

// TestEvaluate_SensitiveColumnExempt verifies that declared sensitive
// columns skip the quasi-identifier penalty while unique-id columns are
// still flagged.
func TestEvaluate_SensitiveColumnExempt(t *testing.T) {
	scorer := NewScorer()

	records := make([]dataset.Record, 200)
	for i := range records {
		records[i] = dataset.Record{
			// 95% distinct but declared sensitive: exempt from the
			// quasi-identifier check.
			Features: map[string]any{"diagnosis": i % 190, "amount": i % 4},
		}
	}

	e := scorer.Evaluate(dataset.NewBatch(records), []string{"diagnosis"}, Measures{})
	for _, f := range e.Reidentification.RiskFactors {
		if strings.Contains(f, "diagnosis") {
			t.Errorf("sensitive column should not be flagged: %q", f)
		}
	}
}

// TestEvaluate_AllNullColumn verifies the all-null minimization penalty.
func TestEvaluate_AllNullColumn(t *testing.T) {
	scorer := NewScorer()

	records := make([]dataset.Record, 4)
	for i := range records {
		records[i] = dataset.Record{
			Features: map[string]any{"empty": nil, "x": i},
		}
	}

	e := scorer.Evaluate(dataset.NewBatch(records), nil, Measures{})
	if diff := e.Minimization.Score - 0.9; diff > 1e-9 || diff < -1e-9 {
		t.Errorf("expected minimization score 0.9, got %v", e.Minimization.Score)
	}
	if len(e.Minimization.Issues) != 1 || !strings.Contains(e.Minimization.Issues[0], "only null") {
		t.Errorf("expected all-null issue, got %v", e.Minimization.Issues)
	}
}
