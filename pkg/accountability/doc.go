// Package accountability maintains an append-only ledger of model
// decisions and incidents, and derives audit trails and accountability
// reports from it.
//
// The ledger never mutates. A logged Decision or Incident is immutable
// and queryable forever; corrections are modeled as new Incidents
// referencing the original decision ID. Persistence is delegated to a
// Ledger backend exposing only Append and Scan, keeping the store
// agnostic to whether entries live in memory or on disk.
package accountability
