package accountability

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"veritas-ml/aequitas/pkg/bias"
	"veritas-ml/aequitas/pkg/telemetry/metrics"
)

// Config contains the store configuration.
type Config struct {
	// Ledger is the persistence backend. Required.
	Ledger Ledger `yaml:"-"`

	// Bias configures the detector used for the fairness section of
	// generated reports.
	Bias bias.Config `yaml:"bias"`

	// ProtectedAttributeKeys names the decision metadata keys treated as
	// protected attributes when generating reports. When empty, reports
	// carry no fairness section.
	ProtectedAttributeKeys []string `yaml:"protected_attribute_keys"`

	// Metrics optionally records store activity. Nil disables recording.
	Metrics *metrics.Collector `yaml:"-"`
}

// Store owns the append-only decision/incident ledger for its process
// lifetime. Appends are serialized behind a single writer lock; reads go
// straight to the ledger and may proceed concurrently.
//
// Callers receive copies, never mutable references into the ledger.
type Store struct {
	cfg      Config
	detector *bias.Detector
	logger   *slog.Logger

	// mu serializes appends and guards the decision-ID index.
	mu        sync.Mutex
	decisions map[string]struct{}

	// now is the clock, replaceable in tests.
	now func() time.Time
}

// NewStore creates an accountability store over the given ledger.
func NewStore(cfg Config) (*Store, error) {
	if cfg.Ledger == nil {
		return nil, fmt.Errorf("accountability store: ledger is required")
	}

	detector, err := bias.NewDetector(cfg.Bias)
	if err != nil {
		return nil, err
	}

	return &Store{
		cfg:       cfg,
		detector:  detector,
		logger:    slog.Default().With("component", "accountability.store"),
		decisions: make(map[string]struct{}),
		now:       time.Now,
	}, nil
}

// DecisionInput is the caller-supplied content of a decision log entry.
type DecisionInput struct {
	ModelID      string
	InputSummary map[string]any
	Prediction   any
	Confidence   float64
	Metadata     map[string]any
}

// LogDecision appends one decision to the ledger and returns its
// generated identifier. It fails with *ValidationError when the model ID
// or prediction is absent. A failed append leaves the ledger unchanged.
func (s *Store) LogDecision(ctx context.Context, input DecisionInput) (string, error) {
	if input.ModelID == "" {
		return "", NewValidationError("model_id", "is required")
	}
	if input.Prediction == nil {
		return "", NewValidationError("prediction", "is required")
	}

	decision := &Decision{
		DecisionID:   uuid.NewString(),
		ModelID:      input.ModelID,
		Timestamp:    s.now().UTC(),
		InputSummary: cloneMap(input.InputSummary),
		Prediction:   input.Prediction,
		Confidence:   input.Confidence,
		Metadata:     cloneMap(input.Metadata),
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.cfg.Ledger.Append(ctx, Entry{Kind: KindDecision, Decision: decision}); err != nil {
		return "", err
	}
	s.decisions[decision.DecisionID] = struct{}{}

	if s.cfg.Metrics != nil {
		s.cfg.Metrics.RecordDecision(decision.ModelID)
	}
	s.logger.Debug("decision logged",
		"decision_id", decision.DecisionID,
		"model_id", decision.ModelID,
	)
	return decision.DecisionID, nil
}

// IncidentInput is the caller-supplied content of an incident log entry.
type IncidentInput struct {
	IncidentType      string
	Description       string
	Severity          Severity
	ModelID           string
	RelatedDecisionID string
	Metadata          map[string]any
}

// LogIncident appends one incident to the ledger and returns its
// generated identifier. It fails with *ValidationError on malformed
// input, and with *ReferentialIntegrityError when RelatedDecisionID does
// not match a previously logged decision.
func (s *Store) LogIncident(ctx context.Context, input IncidentInput) (string, error) {
	if input.ModelID == "" {
		return "", NewValidationError("model_id", "is required")
	}
	if input.IncidentType == "" {
		return "", NewValidationError("incident_type", "is required")
	}
	if !ValidSeverity(input.Severity) {
		return "", NewValidationError("severity", "must be one of low, medium, high, critical")
	}

	incident := &Incident{
		IncidentID:        uuid.NewString(),
		IncidentType:      input.IncidentType,
		Description:       input.Description,
		Severity:          input.Severity,
		ModelID:           input.ModelID,
		RelatedDecisionID: input.RelatedDecisionID,
		Timestamp:         s.now().UTC(),
		Metadata:          cloneMap(input.Metadata),
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if input.RelatedDecisionID != "" {
		if _, ok := s.decisions[input.RelatedDecisionID]; !ok {
			// The index only covers decisions logged by this process; a
			// durable ledger may hold decisions from earlier runs.
			found, err := s.cfg.Ledger.HasDecision(ctx, input.RelatedDecisionID)
			if err != nil {
				return "", err
			}
			if !found {
				return "", NewReferentialIntegrityError(input.RelatedDecisionID)
			}
			s.decisions[input.RelatedDecisionID] = struct{}{}
		}
	}

	if err := s.cfg.Ledger.Append(ctx, Entry{Kind: KindIncident, Incident: incident}); err != nil {
		return "", err
	}

	if s.cfg.Metrics != nil {
		s.cfg.Metrics.RecordIncident(incident.ModelID, string(incident.Severity))
	}
	s.logger.Debug("incident logged",
		"incident_id", incident.IncidentID,
		"model_id", incident.ModelID,
		"severity", incident.Severity,
	)
	return incident.IncidentID, nil
}

// GetAuditTrail returns the decisions and incidents for modelID whose
// timestamps fall within [start, end], both bounds inclusive, sorted by
// timestamp ascending. An empty range returns an empty trail, not an
// error.
func (s *Store) GetAuditTrail(ctx context.Context, modelID string, start, end time.Time) ([]Entry, error) {
	if modelID == "" {
		return nil, NewValidationError("model_id", "is required")
	}

	entries, err := s.cfg.Ledger.Scan(ctx, modelID, start, end)
	if err != nil {
		return nil, err
	}

	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].Timestamp().Before(entries[j].Timestamp())
	})
	return entries, nil
}

// GetIncidents returns all incidents for modelID, optionally filtered by
// severity (empty severity matches all), sorted by timestamp ascending.
func (s *Store) GetIncidents(ctx context.Context, modelID string, severity Severity) ([]*Incident, error) {
	if modelID == "" {
		return nil, NewValidationError("model_id", "is required")
	}
	if severity != "" && !ValidSeverity(severity) {
		return nil, NewValidationError("severity", "must be one of low, medium, high, critical")
	}

	entries, err := s.cfg.Ledger.Scan(ctx, modelID, time.Time{}, s.now().UTC())
	if err != nil {
		return nil, err
	}

	var incidents []*Incident
	for _, entry := range entries {
		if entry.Kind != KindIncident || entry.Incident == nil {
			continue
		}
		if severity != "" && entry.Incident.Severity != severity {
			continue
		}
		incidents = append(incidents, entry.Incident)
	}

	sort.SliceStable(incidents, func(i, j int) bool {
		return incidents[i].Timestamp.Before(incidents[j].Timestamp)
	})
	return incidents, nil
}
