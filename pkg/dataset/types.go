package dataset

// Record is a single row of evaluation data. All outcome fields are
// optional; a nil pointer means the value is absent for this record.
type Record struct {
	// Features maps feature name to value. Values are restricted to
	// JSON-compatible primitives (string, bool, numeric types, nil).
	Features map[string]any `json:"features"`

	// Label is the ground-truth outcome (binary: 0 or 1), if known.
	Label *int `json:"label,omitempty"`

	// Prediction is the model's predicted outcome (binary: 0 or 1).
	Prediction *int `json:"prediction,omitempty"`

	// Probability is the model's predicted probability for the positive
	// class, in [0, 1].
	Probability *float64 `json:"prediction_probability,omitempty"`

	// Protected maps protected-attribute name to the record's value for
	// that attribute (e.g. "gender" -> "female"). A missing key means the
	// attribute value is unknown for this record.
	Protected map[string]string `json:"protected_attributes,omitempty"`
}

// clone returns a deep copy of the record so batch contents cannot be
// mutated through the caller's maps.
func (r Record) clone() Record {
	c := Record{}
	if r.Features != nil {
		c.Features = make(map[string]any, len(r.Features))
		for k, v := range r.Features {
			c.Features[k] = v
		}
	}
	if r.Label != nil {
		v := *r.Label
		c.Label = &v
	}
	if r.Prediction != nil {
		v := *r.Prediction
		c.Prediction = &v
	}
	if r.Probability != nil {
		v := *r.Probability
		c.Probability = &v
	}
	if r.Protected != nil {
		c.Protected = make(map[string]string, len(r.Protected))
		for k, v := range r.Protected {
			c.Protected[k] = v
		}
	}
	return c
}

// Batch is an ordered, immutable sequence of records. Construct with
// NewBatch; the zero value is an empty batch.
type Batch struct {
	records []Record

	// attributes is the set of protected-attribute names present on at
	// least one record (the batch schema for partitioning purposes).
	attributes map[string]bool

	// features is the set of feature names present on at least one record.
	features map[string]bool
}

// NewBatch creates a batch from the provided records. The records are
// deep-copied; later mutation of the caller's slice or maps does not
// affect the batch.
func NewBatch(records []Record) *Batch {
	b := &Batch{
		records:    make([]Record, 0, len(records)),
		attributes: make(map[string]bool),
		features:   make(map[string]bool),
	}
	for _, r := range records {
		b.records = append(b.records, r.clone())
		for attr := range r.Protected {
			b.attributes[attr] = true
		}
		for name := range r.Features {
			b.features[name] = true
		}
	}
	return b
}

// Len returns the number of records in the batch.
func (b *Batch) Len() int {
	return len(b.records)
}

// Record returns a copy of the record at index i.
func (b *Batch) Record(i int) Record {
	return b.records[i].clone()
}

// HasAttribute reports whether the named protected attribute appears on at
// least one record in the batch.
func (b *Batch) HasAttribute(name string) bool {
	return b.attributes[name]
}

// HasFeature reports whether the named feature appears on at least one
// record in the batch.
func (b *Batch) HasFeature(name string) bool {
	return b.features[name]
}

// FeatureNames returns the feature names present in the batch, in
// lexically unspecified order.
func (b *Batch) FeatureNames() []string {
	names := make([]string, 0, len(b.features))
	for name := range b.features {
		names = append(names, name)
	}
	return names
}

// Group is a read-only view over the records of a batch that share one
// value of a protected attribute. Groups reference the source batch; they
// hold indices, not copies, so they cannot drift from the batch contents.
type Group struct {
	// Attribute is the protected attribute this group was derived from.
	Attribute string

	// Value is the shared attribute value (the group name).
	Value string

	batch   *Batch
	indices []int
}

// Size returns the number of records in the group.
func (g *Group) Size() int {
	return len(g.indices)
}

// Indices returns the batch indices of the group members, in batch order.
// The returned slice is a copy.
func (g *Group) Indices() []int {
	out := make([]int, len(g.indices))
	copy(out, g.indices)
	return out
}

// Record returns a copy of the i-th record of the group (in batch order).
func (g *Group) Record(i int) Record {
	return g.batch.records[g.indices[i]].clone()
}

// Labels returns the ground-truth labels of group members that have one,
// in batch order.
func (g *Group) Labels() []int {
	out := make([]int, 0, len(g.indices))
	for _, idx := range g.indices {
		if l := g.batch.records[idx].Label; l != nil {
			out = append(out, *l)
		}
	}
	return out
}

// Predictions returns the predictions of group members that have one, in
// batch order.
func (g *Group) Predictions() []int {
	out := make([]int, 0, len(g.indices))
	for _, idx := range g.indices {
		if p := g.batch.records[idx].Prediction; p != nil {
			out = append(out, *p)
		}
	}
	return out
}
