package dataset

// AttributePartition holds the groups derived from a batch for a single
// protected attribute. Values preserves first-seen enumeration order so
// that partitioning is reproducible across runs given the same batch.
type AttributePartition struct {
	// Attribute is the protected attribute this partition was built from.
	Attribute string

	// Values lists the distinct attribute values in first-seen batch order.
	Values []string

	// Groups maps attribute value to the corresponding group view.
	Groups map[string]*Group
}

// Partition splits a batch into subgroups by one or more protected
// attributes. The result maps each attribute name to its partition.
//
// Every requested attribute must exist in the batch schema; an unknown
// attribute fails with *SchemaError. Records missing a value for an
// attribute are excluded from that attribute's grouping (see the package
// documentation for the rationale).
func Partition(batch *Batch, protectedAttributes []string) (map[string]*AttributePartition, error) {
	result := make(map[string]*AttributePartition, len(protectedAttributes))

	for _, attr := range protectedAttributes {
		if !batch.HasAttribute(attr) {
			return nil, NewSchemaError(attr, nil)
		}

		part := &AttributePartition{
			Attribute: attr,
			Groups:    make(map[string]*Group),
		}

		for i, rec := range batch.records {
			value, ok := rec.Protected[attr]
			if !ok {
				// Missing value: the record does not participate in this
				// attribute's grouping.
				continue
			}

			group, seen := part.Groups[value]
			if !seen {
				group = &Group{
					Attribute: attr,
					Value:     value,
					batch:     batch,
				}
				part.Groups[value] = group
				part.Values = append(part.Values, value)
			}
			group.indices = append(group.indices, i)
		}

		result[attr] = part
	}

	return result, nil
}
