package export

import (
	"encoding/json"
	"fmt"
	"io"

	"veritas-ml/aequitas/pkg/accountability"
)

// JSONExporter exports audit trails and reports to JSON.
type JSONExporter struct {
	// Pretty enables pretty-printing with indentation.
	Pretty bool
}

// NewJSONExporter creates a new JSON exporter.
func NewJSONExporter(pretty bool) *JSONExporter {
	return &JSONExporter{Pretty: pretty}
}

// ExportTrail writes an audit trail to the provided writer as a JSON
// array. An empty trail exports as "[]".
func (e *JSONExporter) ExportTrail(entries []accountability.Entry, w io.Writer) error {
	if len(entries) == 0 {
		_, err := w.Write([]byte("[]"))
		return err
	}

	data, err := e.marshal(entries)
	if err != nil {
		return fmt.Errorf("export trail: %w", err)
	}
	if _, err := w.Write(data); err != nil {
		return fmt.Errorf("export trail: %w", err)
	}
	return nil
}

// ExportReport writes an accountability report to the provided writer as
// a JSON object.
func (e *JSONExporter) ExportReport(report *accountability.Report, w io.Writer) error {
	if report == nil {
		return fmt.Errorf("export report: report is nil")
	}

	data, err := e.marshal(report)
	if err != nil {
		return fmt.Errorf("export report: %w", err)
	}
	if _, err := w.Write(data); err != nil {
		return fmt.Errorf("export report: %w", err)
	}
	return nil
}

func (e *JSONExporter) marshal(v any) ([]byte, error) {
	if e.Pretty {
		return json.MarshalIndent(v, "", "  ")
	}
	return json.Marshal(v)
}
