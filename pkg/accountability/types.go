package accountability

import (
	"time"
)

// Severity grades an incident.
type Severity string

const (
	SeverityLow      Severity = "low"
	SeverityMedium   Severity = "medium"
	SeverityHigh     Severity = "high"
	SeverityCritical Severity = "critical"
)

// ValidSeverity reports whether s is a recognized severity level.
func ValidSeverity(s Severity) bool {
	switch s {
	case SeverityLow, SeverityMedium, SeverityHigh, SeverityCritical:
		return true
	}
	return false
}

// Decision is one logged model decision. Appended once, never mutated
// or deleted.
type Decision struct {
	// DecisionID uniquely identifies the decision. Generated at log time.
	DecisionID string `json:"decision_id"`

	// ModelID identifies the model that produced the decision.
	ModelID string `json:"model_id"`

	// Timestamp is the log time, stamped by the store.
	Timestamp time.Time `json:"timestamp"`

	// InputSummary is a caller-supplied summary of the model input.
	InputSummary map[string]any `json:"input_summary,omitempty"`

	// Prediction is the model output.
	Prediction any `json:"prediction"`

	// Confidence is the model's confidence in the prediction, if known.
	Confidence float64 `json:"confidence"`

	// Metadata is an open key-value mapping. The engine only reads the
	// fields it is configured to look at.
	Metadata map[string]any `json:"metadata,omitempty"`
}

// Clone returns a deep copy of the decision.
func (d *Decision) Clone() *Decision {
	c := *d
	c.InputSummary = cloneMap(d.InputSummary)
	c.Metadata = cloneMap(d.Metadata)
	return &c
}

// Incident is one logged incident. Same append-only lifecycle as
// Decision.
type Incident struct {
	// IncidentID uniquely identifies the incident. Generated at log time.
	IncidentID string `json:"incident_id"`

	// IncidentType classifies the incident (caller-defined vocabulary).
	IncidentType string `json:"incident_type"`

	// Description is a human-readable account of what happened.
	Description string `json:"description"`

	// Severity grades the incident.
	Severity Severity `json:"severity"`

	// ModelID identifies the affected model.
	ModelID string `json:"model_id"`

	// RelatedDecisionID optionally references a previously logged
	// decision. Empty when the incident is not tied to one.
	RelatedDecisionID string `json:"related_decision_id,omitempty"`

	// Timestamp is the log time, stamped by the store.
	Timestamp time.Time `json:"timestamp"`

	// Metadata is an open key-value mapping.
	Metadata map[string]any `json:"metadata,omitempty"`
}

// Clone returns a deep copy of the incident.
func (i *Incident) Clone() *Incident {
	c := *i
	c.Metadata = cloneMap(i.Metadata)
	return &c
}

// EntryKind discriminates ledger entries.
type EntryKind string

const (
	KindDecision EntryKind = "decision"
	KindIncident EntryKind = "incident"
)

// Entry is one ledger record: either a Decision or an Incident.
// Exactly one of the two pointers is set, matching Kind.
type Entry struct {
	Kind     EntryKind `json:"kind"`
	Decision *Decision `json:"decision,omitempty"`
	Incident *Incident `json:"incident,omitempty"`
}

// Timestamp returns the log time of the underlying record.
func (e Entry) Timestamp() time.Time {
	if e.Kind == KindDecision && e.Decision != nil {
		return e.Decision.Timestamp
	}
	if e.Incident != nil {
		return e.Incident.Timestamp
	}
	return time.Time{}
}

// ModelID returns the model identifier of the underlying record.
func (e Entry) ModelID() string {
	if e.Kind == KindDecision && e.Decision != nil {
		return e.Decision.ModelID
	}
	if e.Incident != nil {
		return e.Incident.ModelID
	}
	return ""
}

// ID returns the identifier of the underlying record.
func (e Entry) ID() string {
	if e.Kind == KindDecision && e.Decision != nil {
		return e.Decision.DecisionID
	}
	if e.Incident != nil {
		return e.Incident.IncidentID
	}
	return ""
}

// Clone returns a deep copy of the entry.
func (e Entry) Clone() Entry {
	c := Entry{Kind: e.Kind}
	if e.Decision != nil {
		c.Decision = e.Decision.Clone()
	}
	if e.Incident != nil {
		c.Incident = e.Incident.Clone()
	}
	return c
}

func cloneMap(m map[string]any) map[string]any {
	if m == nil {
		return nil
	}
	out := make(map[string]any, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}
