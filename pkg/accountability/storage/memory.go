package storage

import (
	"context"
	"sync"
	"time"

	"veritas-ml/aequitas/pkg/accountability"
)

// MemoryLedger implements the Ledger interface with an in-memory slice.
// Suitable for tests and short-lived processes; entries do not survive
// the process.
type MemoryLedger struct {
	mu      sync.RWMutex
	entries []accountability.Entry
}

// NewMemoryLedger creates a new in-memory ledger.
func NewMemoryLedger() *MemoryLedger {
	return &MemoryLedger{}
}

// Append persists one entry in memory.
func (l *MemoryLedger) Append(ctx context.Context, entry accountability.Entry) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	// Store a copy so later caller mutations cannot reach the ledger.
	l.entries = append(l.entries, entry.Clone())
	return nil
}

// Scan returns copies of the entries for modelID within [from, to],
// both bounds inclusive.
func (l *MemoryLedger) Scan(ctx context.Context, modelID string, from, to time.Time) ([]accountability.Entry, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()

	var results []accountability.Entry
	for _, entry := range l.entries {
		if entry.ModelID() != modelID {
			continue
		}
		ts := entry.Timestamp()
		if ts.Before(from) || ts.After(to) {
			continue
		}
		results = append(results, entry.Clone())
	}
	return results, nil
}

// HasDecision reports whether a decision entry with the given id has
// been appended.
func (l *MemoryLedger) HasDecision(ctx context.Context, decisionID string) (bool, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()

	for _, entry := range l.entries {
		if entry.Kind == accountability.KindDecision && entry.ID() == decisionID {
			return true, nil
		}
	}
	return false, nil
}

// Close releases the ledger's memory.
func (l *MemoryLedger) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.entries = nil
	return nil
}

// Size returns the number of stored entries (for testing).
func (l *MemoryLedger) Size() int {
	l.mu.RLock()
	defer l.mu.RUnlock()

	return len(l.entries)
}
