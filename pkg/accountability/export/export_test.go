package export

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"veritas-ml/aequitas/pkg/accountability"
)

func sampleTrail() []accountability.Entry {
	ts := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	return []accountability.Entry{
		{
			Kind: accountability.KindDecision,
			Decision: &accountability.Decision{
				DecisionID: "d-1",
				ModelID:    "modelA",
				Timestamp:  ts,
				Prediction: 1,
				Confidence: 0.92,
				Metadata:   map[string]any{"gender": "female"},
			},
		},
		{
			Kind: accountability.KindIncident,
			Incident: &accountability.Incident{
				IncidentID:        "i-1",
				IncidentType:      "bias_complaint",
				Description:       "unequal treatment reported",
				Severity:          accountability.SeverityHigh,
				ModelID:           "modelA",
				RelatedDecisionID: "d-1",
				Timestamp:         ts.Add(time.Hour),
			},
		},
	}
}

// TestJSONExporter_Trail verifies the JSON array round trip, including
// the ISO-8601 timestamp form.
func TestJSONExporter_Trail(t *testing.T) {
	var buf bytes.Buffer
	if err := NewJSONExporter(false).ExportTrail(sampleTrail(), &buf); err != nil {
		t.Fatalf("ExportTrail() failed: %v", err)
	}

	var decoded []map[string]any
	if err := json.Unmarshal(buf.Bytes(), &decoded); err != nil {
		t.Fatalf("output is not valid JSON: %v", err)
	}
	if len(decoded) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(decoded))
	}
	if decoded[0]["kind"] != "decision" || decoded[1]["kind"] != "incident" {
		t.Errorf("unexpected kinds: %v, %v", decoded[0]["kind"], decoded[1]["kind"])
	}
	if !strings.Contains(buf.String(), `"2026-03-01T12:00:00Z"`) {
		t.Error("expected ISO-8601 timestamps in output")
	}
}

// TestJSONExporter_EmptyTrail verifies the empty-array form.
func TestJSONExporter_EmptyTrail(t *testing.T) {
	var buf bytes.Buffer
	if err := NewJSONExporter(true).ExportTrail(nil, &buf); err != nil {
		t.Fatalf("ExportTrail() failed: %v", err)
	}
	if buf.String() != "[]" {
		t.Errorf("expected empty array, got %q", buf.String())
	}
}

// TestJSONExporter_Report verifies report export.
func TestJSONExporter_Report(t *testing.T) {
	report := &accountability.Report{
		ReportID:      "r-1",
		ModelID:       "modelA",
		PeriodDays:    30,
		DecisionCount: 5,
		IncidentsBySeverity: map[accountability.Severity]int{
			accountability.SeverityLow: 1,
		},
		Recommendations: []string{"No issues identified in this period."},
	}

	var buf bytes.Buffer
	if err := NewJSONExporter(true).ExportReport(report, &buf); err != nil {
		t.Fatalf("ExportReport() failed: %v", err)
	}

	var decoded map[string]any
	if err := json.Unmarshal(buf.Bytes(), &decoded); err != nil {
		t.Fatalf("output is not valid JSON: %v", err)
	}
	if decoded["model_id"] != "modelA" {
		t.Errorf("unexpected model_id: %v", decoded["model_id"])
	}
	if decoded["decision_count"] != 5.0 {
		t.Errorf("unexpected decision_count: %v", decoded["decision_count"])
	}
}

// TestCSVExporter_Trail verifies the flattened CSV rows.
func TestCSVExporter_Trail(t *testing.T) {
	var buf bytes.Buffer
	if err := NewCSVExporter(true).ExportTrail(sampleTrail(), &buf); err != nil {
		t.Fatalf("ExportTrail() failed: %v", err)
	}

	rows, err := csv.NewReader(&buf).ReadAll()
	if err != nil {
		t.Fatalf("output is not valid CSV: %v", err)
	}
	if len(rows) != 3 {
		t.Fatalf("expected header + 2 rows, got %d", len(rows))
	}
	if rows[0][0] != "kind" {
		t.Errorf("unexpected header: %v", rows[0])
	}
	if rows[1][0] != "decision" || rows[1][1] != "d-1" {
		t.Errorf("unexpected decision row: %v", rows[1])
	}
	if rows[2][0] != "incident" || rows[2][10] != "d-1" {
		t.Errorf("unexpected incident row: %v", rows[2])
	}
}
