package accountability

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"veritas-ml/aequitas/pkg/bias"
	"veritas-ml/aequitas/pkg/dataset"
	"veritas-ml/aequitas/pkg/telemetry/metrics"
)

// Report is an aggregate view over a time window. Derived, never
// stored; every call recomputes it from the ledger.
type Report struct {
	// ReportID identifies this report instance.
	ReportID string `json:"report_id"`

	// ModelID is the model the report covers.
	ModelID string `json:"model_id"`

	// PeriodDays is the requested window length.
	PeriodDays int `json:"period_days"`

	// WindowStart and WindowEnd bound the covered window, inclusive.
	WindowStart time.Time `json:"window_start"`
	WindowEnd   time.Time `json:"window_end"`

	// GeneratedAt is when the report was computed.
	GeneratedAt time.Time `json:"generated_at"`

	// DecisionCount and IncidentCount are the windowed totals.
	DecisionCount int `json:"decision_count"`
	IncidentCount int `json:"incident_count"`

	// IncidentsBySeverity breaks incidents down by severity. All four
	// levels are always present, zero-valued when absent.
	IncidentsBySeverity map[Severity]int `json:"incidents_by_severity"`

	// Recommendations lists rule-based follow-ups derived from the
	// windowed counts.
	Recommendations []string `json:"recommendations"`

	// Fairness embeds a bias analysis over the windowed decisions when
	// their metadata carries the configured protected attributes. Omitted
	// otherwise.
	Fairness *bias.Report `json:"fairness,omitempty"`
}

// GenerateReport computes an accountability report for modelID over the
// window [now - periodDays, now]. An empty ledger yields zero counts and
// no fairness section, not an error.
func (s *Store) GenerateReport(ctx context.Context, modelID string, periodDays int) (*Report, error) {
	if modelID == "" {
		return nil, NewValidationError("model_id", "is required")
	}
	if periodDays < 1 {
		return nil, NewValidationError("period_days", "must be >= 1")
	}

	started := s.now()
	now := started.UTC()
	from := now.AddDate(0, 0, -periodDays)

	entries, err := s.cfg.Ledger.Scan(ctx, modelID, from, now)
	if err != nil {
		return nil, err
	}

	report := &Report{
		ReportID:    uuid.NewString(),
		ModelID:     modelID,
		PeriodDays:  periodDays,
		WindowStart: from,
		WindowEnd:   now,
		GeneratedAt: now,
		IncidentsBySeverity: map[Severity]int{
			SeverityLow:      0,
			SeverityMedium:   0,
			SeverityHigh:     0,
			SeverityCritical: 0,
		},
	}

	var decisions []*Decision
	for _, entry := range entries {
		switch entry.Kind {
		case KindDecision:
			report.DecisionCount++
			decisions = append(decisions, entry.Decision)
		case KindIncident:
			report.IncidentCount++
			report.IncidentsBySeverity[entry.Incident.Severity]++
		}
	}

	fairnessSection, err := s.fairnessSection(decisions)
	if err != nil {
		return nil, err
	}
	report.Fairness = fairnessSection
	report.Recommendations = s.reportRecommendations(report)

	if s.cfg.Metrics != nil {
		s.cfg.Metrics.RecordReport(modelID, time.Since(started))
		if fairnessSection != nil {
			recordFairnessMetrics(s.cfg.Metrics, fairnessSection)
		}
	}
	s.logger.Debug("report generated",
		"model_id", modelID,
		"period_days", periodDays,
		"decisions", report.DecisionCount,
		"incidents", report.IncidentCount,
	)
	return report, nil
}

// fairnessSection runs the bias detector over the windowed decisions
// whose metadata carries the configured protected attribute keys.
// Absence of fairness-relevant metadata is not an error; the section is
// simply omitted.
func (s *Store) fairnessSection(decisions []*Decision) (*bias.Report, error) {
	if len(s.cfg.ProtectedAttributeKeys) == 0 {
		return nil, nil
	}

	var records []dataset.Record
	present := make(map[string]bool)
	for _, decision := range decisions {
		prediction, ok := coercePrediction(decision.Prediction)
		if !ok {
			continue
		}

		protected := make(map[string]string)
		for _, key := range s.cfg.ProtectedAttributeKeys {
			if v, found := decision.Metadata[key]; found && v != nil {
				protected[key] = fmt.Sprint(v)
				present[key] = true
			}
		}
		if len(protected) == 0 {
			continue
		}

		p := prediction
		records = append(records, dataset.Record{
			Prediction: &p,
			Protected:  protected,
		})
	}

	if len(records) < 2 {
		return nil, nil
	}

	attrs := make([]string, 0, len(present))
	for _, key := range s.cfg.ProtectedAttributeKeys {
		if present[key] {
			attrs = append(attrs, key)
		}
	}

	return s.detector.Analyze(dataset.NewBatch(records), attrs, "")
}

// coercePrediction maps a logged prediction to a binary outcome for
// fairness analysis.
func coercePrediction(v any) (int, bool) {
	switch val := v.(type) {
	case int:
		if val == 0 || val == 1 {
			return val, true
		}
	case int64:
		if val == 0 || val == 1 {
			return int(val), true
		}
	case float64:
		if val == 0 || val == 1 {
			return int(val), true
		}
	case bool:
		if val {
			return 1, true
		}
		return 0, true
	}
	return 0, false
}

// recordFairnessMetrics records evaluation outcomes from a report's
// fairness section.
func recordFairnessMetrics(collector *metrics.Collector, report *bias.Report) {
	for _, analysis := range report.Attributes {
		for metric, status := range analysis.Fairness {
			outcome := "ok"
			if status.Err != nil {
				outcome = "error"
			}
			collector.RecordEvaluation(metric, outcome)
		}
	}
}

// Report recommendation templates.
const (
	msgCritical     = "Address %d critical incident(s) immediately."
	msgHigh         = "Review %d high-severity incident(s)."
	msgIncidentRate = "Incident rate exceeds 10%% of decisions in this period. Review model behavior."
	msgFairnessFlag = "Fairness analysis flagged potential bias. See the fairness section."
	msgAllClear     = "No issues identified in this period."
)

// reportRecommendations generates the rule-based follow-up list for a
// computed report, in fixed priority order.
func (s *Store) reportRecommendations(report *Report) []string {
	var recs []string

	if n := report.IncidentsBySeverity[SeverityCritical]; n > 0 {
		recs = append(recs, fmt.Sprintf(msgCritical, n))
	}
	if n := report.IncidentsBySeverity[SeverityHigh]; n > 0 {
		recs = append(recs, fmt.Sprintf(msgHigh, n))
	}
	if report.DecisionCount > 0 &&
		float64(report.IncidentCount)/float64(report.DecisionCount) > 0.1 {
		recs = append(recs, msgIncidentRate)
	}
	if report.Fairness != nil && fairnessFlagged(report.Fairness) {
		recs = append(recs, msgFairnessFlag)
	}

	if len(recs) == 0 {
		recs = append(recs, msgAllClear)
	}
	return recs
}

// fairnessFlagged reports whether a bias analysis produced any finding
// beyond the no-findings marker.
func fairnessFlagged(report *bias.Report) bool {
	for _, analysis := range report.Attributes {
		if !analysis.Representation.IsBalanced {
			return true
		}
		for _, status := range analysis.Fairness {
			if status.Result != nil && status.Result.Violates {
				return true
			}
		}
	}
	return false
}
