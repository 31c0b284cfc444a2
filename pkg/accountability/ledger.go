package accountability

import (
	"context"
	"time"
)

// Ledger is the persistence backend for the append-only ledger. The
// store is agnostic to whether entries live in memory, a file, or a
// database; the backend only has to append and scan.
//
// Implementations must never expose mutable references into their
// internal state: Scan returns copies, and Append must be atomic (a
// failed append leaves the ledger unchanged).
type Ledger interface {
	// Append persists one entry. Entries are never updated or deleted.
	Append(ctx context.Context, entry Entry) error

	// Scan returns the entries for modelID whose timestamps fall within
	// [from, to], both bounds inclusive. Order is not guaranteed; the
	// store sorts. An empty result is not an error.
	Scan(ctx context.Context, modelID string, from, to time.Time) ([]Entry, error)

	// HasDecision reports whether a decision entry with the given id has
	// been appended. Durable backends answer across process restarts.
	HasDecision(ctx context.Context, decisionID string) (bool, error)

	// Close releases resources held by the backend.
	Close() error
}
