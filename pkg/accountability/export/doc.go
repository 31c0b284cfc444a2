// Package export serializes audit trails and accountability reports for
// consumption by auditors and downstream dashboards. JSON preserves the
// full nested structure; CSV flattens trail entries into one row per
// decision or incident.
package export
