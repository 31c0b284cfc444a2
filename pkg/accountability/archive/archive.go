// Package archive persists generated accountability reports so auditors
// and dashboards can retrieve past reports without replaying the ledger.
// Reports remain derived artifacts; the ledger stays the source of truth
// and archived copies are never updated.
package archive

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	_ "modernc.org/sqlite" // SQLite driver

	"veritas-ml/aequitas/pkg/accountability"
)

// ReportArchive stores serialized accountability reports in SQLite.
// Uses the CGO-free driver so archives work on platforms without a C
// toolchain.
type ReportArchive struct {
	db     *sql.DB
	logger *slog.Logger

	saveStmt *sql.Stmt
	getStmt  *sql.Stmt
	listStmt *sql.Stmt
}

// ArchivedReport is a list entry describing one archived report.
type ArchivedReport struct {
	ReportID    string    `json:"report_id"`
	ModelID     string    `json:"model_id"`
	PeriodDays  int       `json:"period_days"`
	GeneratedAt time.Time `json:"generated_at"`
	ArchivedAt  time.Time `json:"archived_at"`
}

// NewReportArchive opens (or creates) a report archive at dbPath.
func NewReportArchive(dbPath string) (*ReportArchive, error) {
	if dbPath == "" {
		return nil, fmt.Errorf("report archive: db path cannot be empty")
	}

	dsn := fmt.Sprintf("%s?_journal_mode=WAL&_busy_timeout=5000", dbPath)
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("report archive: open: %w", err)
	}

	// SQLite only supports a single writer.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	a := &ReportArchive{
		db:     db,
		logger: slog.Default().With("component", "accountability.archive"),
	}

	if err := a.initSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("report archive: init schema: %w", err)
	}
	if err := a.prepareStatements(); err != nil {
		db.Close()
		return nil, fmt.Errorf("report archive: prepare statements: %w", err)
	}

	a.logger.Info("report archive opened", "path", dbPath)
	return a, nil
}

// initSchema creates the archive schema if it doesn't exist.
func (a *ReportArchive) initSchema() error {
	schema := `
	CREATE TABLE IF NOT EXISTS reports (
		report_id TEXT PRIMARY KEY,
		model_id TEXT NOT NULL,
		period_days INTEGER NOT NULL,
		generated_at TEXT NOT NULL,
		archived_at TEXT NOT NULL,
		payload TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_reports_model_id ON reports(model_id);
	CREATE INDEX IF NOT EXISTS idx_reports_generated_at ON reports(generated_at);
	`

	_, err := a.db.Exec(schema)
	return err
}

// prepareStatements prepares SQL statements for reuse.
func (a *ReportArchive) prepareStatements() error {
	var err error

	a.saveStmt, err = a.db.Prepare(`
		INSERT INTO reports (report_id, model_id, period_days, generated_at, archived_at, payload)
		VALUES (?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("save statement: %w", err)
	}

	a.getStmt, err = a.db.Prepare(`
		SELECT payload FROM reports WHERE report_id = ?
	`)
	if err != nil {
		return fmt.Errorf("get statement: %w", err)
	}

	a.listStmt, err = a.db.Prepare(`
		SELECT report_id, model_id, period_days, generated_at, archived_at
		FROM reports
		WHERE model_id = ?
		ORDER BY generated_at DESC
	`)
	if err != nil {
		return fmt.Errorf("list statement: %w", err)
	}

	return nil
}

// Save archives one report. Archiving the same report ID twice fails;
// archived reports are never overwritten.
func (a *ReportArchive) Save(ctx context.Context, report *accountability.Report) error {
	if report == nil {
		return fmt.Errorf("report archive: report is nil")
	}
	if report.ReportID == "" {
		return fmt.Errorf("report archive: report has no id")
	}

	payload, err := json.Marshal(report)
	if err != nil {
		return fmt.Errorf("report archive: marshal: %w", err)
	}

	_, err = a.saveStmt.ExecContext(ctx,
		report.ReportID,
		report.ModelID,
		report.PeriodDays,
		report.GeneratedAt.UTC().Format(time.RFC3339Nano),
		time.Now().UTC().Format(time.RFC3339Nano),
		string(payload),
	)
	if err != nil {
		return fmt.Errorf("report archive: save: %w", err)
	}

	a.logger.Debug("report archived",
		"report_id", report.ReportID,
		"model_id", report.ModelID,
	)
	return nil
}

// Get retrieves one archived report by ID. Returns sql.ErrNoRows wrapped
// when the report does not exist.
func (a *ReportArchive) Get(ctx context.Context, reportID string) (*accountability.Report, error) {
	var payload string
	if err := a.getStmt.QueryRowContext(ctx, reportID).Scan(&payload); err != nil {
		return nil, fmt.Errorf("report archive: get %q: %w", reportID, err)
	}

	var report accountability.Report
	if err := json.Unmarshal([]byte(payload), &report); err != nil {
		return nil, fmt.Errorf("report archive: unmarshal %q: %w", reportID, err)
	}
	return &report, nil
}

// List returns metadata for the archived reports of a model, newest
// first.
func (a *ReportArchive) List(ctx context.Context, modelID string) ([]ArchivedReport, error) {
	rows, err := a.listStmt.QueryContext(ctx, modelID)
	if err != nil {
		return nil, fmt.Errorf("report archive: list: %w", err)
	}
	defer rows.Close()

	var reports []ArchivedReport
	for rows.Next() {
		var (
			r                       ArchivedReport
			generatedAt, archivedAt string
		)
		if err := rows.Scan(&r.ReportID, &r.ModelID, &r.PeriodDays, &generatedAt, &archivedAt); err != nil {
			return nil, fmt.Errorf("report archive: list scan: %w", err)
		}
		if r.GeneratedAt, err = time.Parse(time.RFC3339Nano, generatedAt); err != nil {
			return nil, fmt.Errorf("report archive: parse generated_at: %w", err)
		}
		if r.ArchivedAt, err = time.Parse(time.RFC3339Nano, archivedAt); err != nil {
			return nil, fmt.Errorf("report archive: parse archived_at: %w", err)
		}
		reports = append(reports, r)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("report archive: list: %w", err)
	}
	return reports, nil
}

// Close releases prepared statements and the database connection.
func (a *ReportArchive) Close() error {
	for _, stmt := range []*sql.Stmt{a.saveStmt, a.getStmt, a.listStmt} {
		if stmt != nil {
			stmt.Close()
		}
	}
	if err := a.db.Close(); err != nil {
		return fmt.Errorf("report archive: close: %w", err)
	}

	a.logger.Info("report archive closed")
	return nil
}
