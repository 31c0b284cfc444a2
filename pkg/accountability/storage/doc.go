// Package storage provides Ledger backends for the accountability
// store: an in-memory ledger for tests and short-lived processes, and a
// durable SQLite ledger.
//
// Both backends honor the append-only contract: entries are inserted
// once and never updated or deleted, and Scan hands out copies rather
// than references into backend state.
package storage
