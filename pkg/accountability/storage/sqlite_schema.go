package storage

// SchemaVersion is the current database schema version.
const SchemaVersion = 1

// Schema contains the SQL statements to create the ledger database
// schema. The table is insert-only; no update or delete statement exists
// anywhere in this package.
const Schema = `
-- Ledger entries table
CREATE TABLE IF NOT EXISTS ledger_entries (
    seq INTEGER PRIMARY KEY AUTOINCREMENT,

    -- Entry discriminator: 'decision' or 'incident'
    kind TEXT NOT NULL,
    entry_id TEXT NOT NULL UNIQUE,
    model_id TEXT NOT NULL,
    timestamp TEXT NOT NULL,

    -- Decision fields
    input_summary TEXT,
    prediction TEXT,
    confidence REAL,

    -- Incident fields
    incident_type TEXT,
    description TEXT,
    severity TEXT,
    related_decision_id TEXT,

    -- Shared
    metadata TEXT
);

-- Schema version table
CREATE TABLE IF NOT EXISTS schema_version (
    version INTEGER PRIMARY KEY,
    applied_at TIMESTAMP NOT NULL
);

-- Indexes for the scan path
CREATE INDEX IF NOT EXISTS idx_ledger_model_id ON ledger_entries(model_id);
CREATE INDEX IF NOT EXISTS idx_ledger_timestamp ON ledger_entries(timestamp);
CREATE INDEX IF NOT EXISTS idx_ledger_entry_id ON ledger_entries(entry_id);
`

// InsertSchemaVersion inserts the schema version into the schema_version table.
const InsertSchemaVersion = `
INSERT INTO schema_version (version, applied_at)
VALUES (?, datetime('now'))
ON CONFLICT(version) DO NOTHING;
`

// GetSchemaVersion retrieves the current schema version from the database.
const GetSchemaVersion = `
SELECT version FROM schema_version ORDER BY version DESC LIMIT 1;
`
