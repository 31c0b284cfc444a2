package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"veritas-ml/aequitas/pkg/accountability"
)

// timestampLayout is the stored timestamp format. RFC 3339 with
// nanoseconds and a fixed zero-padded width so lexicographic comparison
// matches chronological order in range queries.
const timestampLayout = "2006-01-02T15:04:05.000000000Z07:00"

// SQLiteConfig contains configuration for the SQLite ledger backend.
type SQLiteConfig struct {
	// Path is the database file path.
	Path string

	// MaxOpenConns is the maximum number of open connections to the database.
	// Default: 10
	MaxOpenConns int

	// MaxIdleConns is the maximum number of idle connections.
	// Default: 5
	MaxIdleConns int

	// WALMode enables Write-Ahead Logging mode for better concurrency.
	// Default: true
	WALMode bool

	// BusyTimeout is the duration to wait when the database is locked.
	// Default: 5 seconds
	BusyTimeout time.Duration
}

// DefaultSQLiteConfig returns the default SQLite configuration.
func DefaultSQLiteConfig() *SQLiteConfig {
	return &SQLiteConfig{
		Path:         "data/ledger.db",
		MaxOpenConns: 10,
		MaxIdleConns: 5,
		WALMode:      true,
		BusyTimeout:  5 * time.Second,
	}
}

// SQLiteLedger implements the Ledger interface using SQLite. The ledger
// table is insert-only.
type SQLiteLedger struct {
	db     *sql.DB
	config *SQLiteConfig
	logger *slog.Logger
}

// NewSQLiteLedger creates a new SQLite ledger backend.
// It initializes the database schema and enables WAL mode if configured.
func NewSQLiteLedger(config *SQLiteConfig) (*SQLiteLedger, error) {
	if config == nil {
		config = DefaultSQLiteConfig()
	}

	logger := slog.Default().With("component", "accountability.storage.sqlite")

	db, err := sql.Open("sqlite3", config.Path)
	if err != nil {
		return nil, NewStorageError("sqlite", "open", err)
	}

	db.SetMaxOpenConns(config.MaxOpenConns)
	db.SetMaxIdleConns(config.MaxIdleConns)

	l := &SQLiteLedger{
		db:     db,
		config: config,
		logger: logger,
	}

	if err := l.initialize(); err != nil {
		db.Close()
		return nil, err
	}

	logger.Info("SQLite ledger initialized",
		"path", config.Path,
		"wal_mode", config.WALMode,
		"max_open_conns", config.MaxOpenConns,
	)

	return l, nil
}

// initialize sets up the database schema and enables WAL mode.
func (l *SQLiteLedger) initialize() error {
	if l.config.WALMode {
		_, err := l.db.Exec("PRAGMA journal_mode=WAL;")
		if err != nil {
			return NewStorageError("sqlite", "enable_wal", err)
		}
		l.logger.Debug("WAL mode enabled")
	}

	busyTimeoutMs := l.config.BusyTimeout.Milliseconds()
	_, err := l.db.Exec(fmt.Sprintf("PRAGMA busy_timeout=%d;", busyTimeoutMs))
	if err != nil {
		return NewStorageError("sqlite", "set_busy_timeout", err)
	}

	_, err = l.db.Exec(Schema)
	if err != nil {
		return NewStorageError("sqlite", "create_schema", err)
	}
	l.logger.Debug("database schema created")

	_, err = l.db.Exec(InsertSchemaVersion, SchemaVersion)
	if err != nil {
		return NewStorageError("sqlite", "insert_schema_version", err)
	}

	var version int
	err = l.db.QueryRow(GetSchemaVersion).Scan(&version)
	if err != nil && err != sql.ErrNoRows {
		return NewStorageError("sqlite", "get_schema_version", err)
	}

	if version != SchemaVersion {
		return NewStorageError("sqlite", "schema_version_mismatch",
			fmt.Errorf("expected schema version %d, got %d", SchemaVersion, version))
	}

	l.logger.Debug("schema version verified", "version", version)

	return nil
}

// Append persists one entry. A failed insert leaves the ledger
// unchanged; a single INSERT is atomic in SQLite.
func (l *SQLiteLedger) Append(ctx context.Context, entry accountability.Entry) error {
	query := `
		INSERT INTO ledger_entries (
			kind, entry_id, model_id, timestamp,
			input_summary, prediction, confidence,
			incident_type, description, severity, related_decision_id,
			metadata
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	var (
		inputSummary, prediction, metadata []byte
		confidence                         float64
		incidentType, description          string
		severity, relatedDecisionID        string
	)

	switch entry.Kind {
	case accountability.KindDecision:
		d := entry.Decision
		if d == nil {
			return NewStorageError("sqlite", "append", fmt.Errorf("decision entry has no decision"))
		}
		inputSummary, _ = json.Marshal(d.InputSummary)
		prediction, _ = json.Marshal(d.Prediction)
		metadata, _ = json.Marshal(d.Metadata)
		confidence = d.Confidence

		_, err := l.db.ExecContext(ctx, query,
			string(entry.Kind), d.DecisionID, d.ModelID, d.Timestamp.UTC().Format(timestampLayout),
			string(inputSummary), string(prediction), confidence,
			nil, nil, nil, nil,
			string(metadata),
		)
		if err != nil {
			return NewStorageError("sqlite", "append", err)
		}
		return nil

	case accountability.KindIncident:
		i := entry.Incident
		if i == nil {
			return NewStorageError("sqlite", "append", fmt.Errorf("incident entry has no incident"))
		}
		metadata, _ = json.Marshal(i.Metadata)
		incidentType = i.IncidentType
		description = i.Description
		severity = string(i.Severity)
		relatedDecisionID = i.RelatedDecisionID

		var related interface{}
		if relatedDecisionID != "" {
			related = relatedDecisionID
		}

		_, err := l.db.ExecContext(ctx, query,
			string(entry.Kind), i.IncidentID, i.ModelID, i.Timestamp.UTC().Format(timestampLayout),
			nil, nil, nil,
			incidentType, description, severity, related,
			string(metadata),
		)
		if err != nil {
			return NewStorageError("sqlite", "append", err)
		}
		return nil
	}

	return NewStorageError("sqlite", "append", fmt.Errorf("unknown entry kind %q", entry.Kind))
}

// Scan returns the entries for modelID within [from, to], both bounds
// inclusive, ordered by timestamp ascending.
func (l *SQLiteLedger) Scan(ctx context.Context, modelID string, from, to time.Time) ([]accountability.Entry, error) {
	query := `
		SELECT kind, entry_id, model_id, timestamp,
		       input_summary, prediction, confidence,
		       incident_type, description, severity, related_decision_id,
		       metadata
		FROM ledger_entries
		WHERE model_id = ? AND timestamp >= ? AND timestamp <= ?
		ORDER BY timestamp ASC, seq ASC
	`

	rows, err := l.db.QueryContext(ctx, query,
		modelID,
		from.UTC().Format(timestampLayout),
		to.UTC().Format(timestampLayout),
	)
	if err != nil {
		return nil, NewStorageError("sqlite", "scan", err)
	}
	defer rows.Close()

	var entries []accountability.Entry
	for rows.Next() {
		entry, err := l.scanRow(rows)
		if err != nil {
			return nil, NewStorageError("sqlite", "scan", err)
		}
		entries = append(entries, entry)
	}

	if err := rows.Err(); err != nil {
		return nil, NewStorageError("sqlite", "scan", err)
	}

	return entries, nil
}

// HasDecision reports whether a decision entry with the given id exists,
// including entries appended by earlier processes.
func (l *SQLiteLedger) HasDecision(ctx context.Context, decisionID string) (bool, error) {
	var one int
	err := l.db.QueryRowContext(ctx,
		`SELECT 1 FROM ledger_entries WHERE entry_id = ? AND kind = ?`,
		decisionID, string(accountability.KindDecision),
	).Scan(&one)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, NewStorageError("sqlite", "has_decision", err)
	}
	return true, nil
}

// Close releases the database connection.
func (l *SQLiteLedger) Close() error {
	if err := l.db.Close(); err != nil {
		return NewStorageError("sqlite", "close", err)
	}

	l.logger.Info("SQLite ledger closed")
	return nil
}

// scanRow reconstructs one ledger entry from a database row.
func (l *SQLiteLedger) scanRow(rows *sql.Rows) (accountability.Entry, error) {
	var (
		kind, entryID, modelID, timestamp   string
		inputSummary, prediction            sql.NullString
		confidence                          sql.NullFloat64
		incidentType, description, severity sql.NullString
		relatedDecisionID, metadata         sql.NullString
	)

	err := rows.Scan(
		&kind, &entryID, &modelID, &timestamp,
		&inputSummary, &prediction, &confidence,
		&incidentType, &description, &severity, &relatedDecisionID,
		&metadata,
	)
	if err != nil {
		return accountability.Entry{}, err
	}

	ts, err := time.Parse(timestampLayout, timestamp)
	if err != nil {
		return accountability.Entry{}, fmt.Errorf("parse timestamp %q: %w", timestamp, err)
	}

	var meta map[string]any
	if metadata.Valid && metadata.String != "" && metadata.String != "null" {
		if err := json.Unmarshal([]byte(metadata.String), &meta); err != nil {
			return accountability.Entry{}, fmt.Errorf("unmarshal metadata: %w", err)
		}
	}

	switch accountability.EntryKind(kind) {
	case accountability.KindDecision:
		decision := &accountability.Decision{
			DecisionID: entryID,
			ModelID:    modelID,
			Timestamp:  ts,
			Confidence: confidence.Float64,
			Metadata:   meta,
		}
		if inputSummary.Valid && inputSummary.String != "" && inputSummary.String != "null" {
			if err := json.Unmarshal([]byte(inputSummary.String), &decision.InputSummary); err != nil {
				return accountability.Entry{}, fmt.Errorf("unmarshal input summary: %w", err)
			}
		}
		if prediction.Valid && prediction.String != "" {
			if err := json.Unmarshal([]byte(prediction.String), &decision.Prediction); err != nil {
				return accountability.Entry{}, fmt.Errorf("unmarshal prediction: %w", err)
			}
		}
		return accountability.Entry{Kind: accountability.KindDecision, Decision: decision}, nil

	case accountability.KindIncident:
		incident := &accountability.Incident{
			IncidentID:        entryID,
			IncidentType:      incidentType.String,
			Description:       description.String,
			Severity:          accountability.Severity(severity.String),
			ModelID:           modelID,
			RelatedDecisionID: relatedDecisionID.String,
			Timestamp:         ts,
			Metadata:          meta,
		}
		return accountability.Entry{Kind: accountability.KindIncident, Incident: incident}, nil
	}

	return accountability.Entry{}, fmt.Errorf("unknown entry kind %q", kind)
}
