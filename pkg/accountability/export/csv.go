package export

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"time"

	"veritas-ml/aequitas/pkg/accountability"
)

// CSVExporter exports audit trails to CSV. Nested structures (input
// summaries, metadata) are flattened into JSON-encoded cells.
type CSVExporter struct {
	// IncludeHeader includes a header row with column names.
	IncludeHeader bool
}

// NewCSVExporter creates a new CSV exporter.
func NewCSVExporter(includeHeader bool) *CSVExporter {
	return &CSVExporter{IncludeHeader: includeHeader}
}

// ExportTrail writes an audit trail to the provided writer in CSV
// format, one row per entry.
func (e *CSVExporter) ExportTrail(entries []accountability.Entry, w io.Writer) error {
	writer := csv.NewWriter(w)
	defer writer.Flush()

	if e.IncludeHeader {
		if err := writer.Write(e.headerRow()); err != nil {
			return fmt.Errorf("export trail: %w", err)
		}
	}

	for _, entry := range entries {
		row, err := e.entryToRow(entry)
		if err != nil {
			return fmt.Errorf("export trail: %w", err)
		}
		if err := writer.Write(row); err != nil {
			return fmt.Errorf("export trail: %w", err)
		}
	}

	writer.Flush()
	return writer.Error()
}

// headerRow returns the CSV header row.
func (e *CSVExporter) headerRow() []string {
	return []string{
		"kind", "id", "model_id", "timestamp",
		"prediction", "confidence", "input_summary",
		"incident_type", "description", "severity", "related_decision_id",
		"metadata",
	}
}

// entryToRow flattens one trail entry into a CSV row.
func (e *CSVExporter) entryToRow(entry accountability.Entry) ([]string, error) {
	formatJSON := func(v any) string {
		if v == nil {
			return ""
		}
		data, _ := json.Marshal(v)
		return string(data)
	}

	switch entry.Kind {
	case accountability.KindDecision:
		d := entry.Decision
		if d == nil {
			return nil, fmt.Errorf("decision entry has no decision")
		}
		return []string{
			string(entry.Kind),
			d.DecisionID,
			d.ModelID,
			d.Timestamp.Format(time.RFC3339),
			formatJSON(d.Prediction),
			fmt.Sprintf("%.4f", d.Confidence),
			formatJSON(d.InputSummary),
			"", "", "", "",
			formatJSON(d.Metadata),
		}, nil

	case accountability.KindIncident:
		i := entry.Incident
		if i == nil {
			return nil, fmt.Errorf("incident entry has no incident")
		}
		return []string{
			string(entry.Kind),
			i.IncidentID,
			i.ModelID,
			i.Timestamp.Format(time.RFC3339),
			"", "", "",
			i.IncidentType,
			i.Description,
			string(i.Severity),
			i.RelatedDecisionID,
			formatJSON(i.Metadata),
		}, nil
	}

	return nil, fmt.Errorf("unknown entry kind %q", entry.Kind)
}
