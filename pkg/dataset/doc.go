// Package dataset provides the core data model for fairness evaluation:
// immutable batches of evaluation records and group partitioning over
// protected attributes.
//
// # Data Model
//
// A Record is a single row of evaluation data: a feature mapping plus
// optional ground-truth label, prediction, prediction probability, and one
// or more protected-attribute values. Records are immutable once ingested
// into a Batch.
//
// A Batch is an ordered sequence of records sharing a schema. The batch
// copies its input on construction and is never mutated afterwards, so
// groups derived from it cannot drift from their source.
//
// A Group is a named, read-only view over the subset of a batch that shares
// one value of a protected attribute (e.g. attribute "gender", value
// "female"). Groups reference the batch by index; they never copy records.
//
// # Partitioning
//
// Partition splits a batch by one or more protected attributes:
//
//	parts, err := dataset.Partition(batch, []string{"gender", "region"})
//	if err != nil {
//	    return err
//	}
//	for _, value := range parts["gender"].Values {
//	    group := parts["gender"].Groups[value]
//	    fmt.Println(value, group.Size())
//	}
//
// Records with a missing value for an attribute are excluded from that
// attribute's grouping. This is a deliberate policy, not a silent drop:
// absent group membership is unknowable, and inventing a synthetic
// "unknown" group would skew every downstream rate computation.
//
// Partitioning is deterministic: group membership follows batch order and
// attribute values enumerate in first-seen order, so repeated runs over the
// same batch produce identical partitions.
package dataset
