package dataset

import (
	"errors"
	"testing"
)

func intPtr(v int) *int { return &v }

// testBatch builds a batch with a "gender" attribute: 3 male, 2 female,
// 1 record with no gender value.
func testBatch() *Batch {
	records := []Record{
		{Protected: map[string]string{"gender": "male"}, Prediction: intPtr(1)},
		{Protected: map[string]string{"gender": "female"}, Prediction: intPtr(0)},
		{Protected: map[string]string{"gender": "male"}, Prediction: intPtr(1)},
		{Protected: map[string]string{}, Prediction: intPtr(1)},
		{Protected: map[string]string{"gender": "male"}, Prediction: intPtr(0)},
		{Protected: map[string]string{"gender": "female"}, Prediction: intPtr(1)},
	}
	return NewBatch(records)
}

// TestPartition_GroupCountsSumToNonNull verifies that group sizes sum to
// the number of records carrying a non-null attribute value.
func TestPartition_GroupCountsSumToNonNull(t *testing.T) {
	batch := testBatch()

	parts, err := Partition(batch, []string{"gender"})
	if err != nil {
		t.Fatalf("Partition() failed: %v", err)
	}

	part := parts["gender"]
	if part == nil {
		t.Fatal("expected partition for attribute 'gender'")
	}

	total := 0
	for _, value := range part.Values {
		total += part.Groups[value].Size()
	}

	// 5 of 6 records carry a gender value.
	if total != 5 {
		t.Errorf("expected group sizes to sum to 5, got %d", total)
	}
}

// TestPartition_UnknownAttribute verifies that partitioning on an
// attribute absent from the batch schema fails with SchemaError.
func TestPartition_UnknownAttribute(t *testing.T) {
	batch := testBatch()

	_, err := Partition(batch, []string{"ethnicity"})
	if err == nil {
		t.Fatal("expected error for unknown attribute")
	}

	var schemaErr *SchemaError
	if !errors.As(err, &schemaErr) {
		t.Fatalf("expected *SchemaError, got %T: %v", err, err)
	}
	if schemaErr.Attribute != "ethnicity" {
		t.Errorf("expected attribute 'ethnicity' in error, got %q", schemaErr.Attribute)
	}
}

// TestPartition_FirstSeenValueOrder verifies that value enumeration
// follows first-seen batch order.
func TestPartition_FirstSeenValueOrder(t *testing.T) {
	batch := testBatch()

	parts, err := Partition(batch, []string{"gender"})
	if err != nil {
		t.Fatalf("Partition() failed: %v", err)
	}

	values := parts["gender"].Values
	if len(values) != 2 {
		t.Fatalf("expected 2 values, got %d", len(values))
	}
	if values[0] != "male" || values[1] != "female" {
		t.Errorf("expected first-seen order [male female], got %v", values)
	}
}

// TestPartition_GroupMembershipFollowsBatchOrder verifies that group
// member indices are stable and in batch order.
func TestPartition_GroupMembershipFollowsBatchOrder(t *testing.T) {
	batch := testBatch()

	parts, err := Partition(batch, []string{"gender"})
	if err != nil {
		t.Fatalf("Partition() failed: %v", err)
	}

	male := parts["gender"].Groups["male"]
	indices := male.Indices()
	expected := []int{0, 2, 4}
	if len(indices) != len(expected) {
		t.Fatalf("expected %d male records, got %d", len(expected), len(indices))
	}
	for i, idx := range indices {
		if idx != expected[i] {
			t.Errorf("index %d: expected batch position %d, got %d", i, expected[i], idx)
		}
	}
}

// TestPartition_MultipleAttributes verifies partitioning over several
// attributes at once.
func TestPartition_MultipleAttributes(t *testing.T) {
	records := []Record{
		{Protected: map[string]string{"gender": "male", "region": "north"}},
		{Protected: map[string]string{"gender": "female", "region": "south"}},
		{Protected: map[string]string{"gender": "female", "region": "north"}},
	}
	batch := NewBatch(records)

	parts, err := Partition(batch, []string{"gender", "region"})
	if err != nil {
		t.Fatalf("Partition() failed: %v", err)
	}

	if len(parts) != 2 {
		t.Fatalf("expected partitions for 2 attributes, got %d", len(parts))
	}
	if parts["region"].Groups["north"].Size() != 2 {
		t.Errorf("expected 2 records in region=north, got %d", parts["region"].Groups["north"].Size())
	}
}

// TestBatch_ImmutableAfterConstruction verifies that mutating the source
// slice does not affect the batch.
func TestBatch_ImmutableAfterConstruction(t *testing.T) {
	records := []Record{
		{Protected: map[string]string{"gender": "male"}, Features: map[string]any{"age": 30}},
	}
	batch := NewBatch(records)

	// Mutate the caller's copies.
	records[0].Protected["gender"] = "female"
	records[0].Features["age"] = 99

	got := batch.Record(0)
	if got.Protected["gender"] != "male" {
		t.Errorf("batch record mutated through caller's map: gender=%q", got.Protected["gender"])
	}
	if got.Features["age"] != 30 {
		t.Errorf("batch record mutated through caller's map: age=%v", got.Features["age"])
	}
}

// TestGroup_Predictions verifies that group views surface member
// predictions in batch order.
func TestGroup_Predictions(t *testing.T) {
	batch := testBatch()

	parts, err := Partition(batch, []string{"gender"})
	if err != nil {
		t.Fatalf("Partition() failed: %v", err)
	}

	preds := parts["gender"].Groups["male"].Predictions()
	expected := []int{1, 1, 0}
	if len(preds) != len(expected) {
		t.Fatalf("expected %d predictions, got %d", len(expected), len(preds))
	}
	for i, p := range preds {
		if p != expected[i] {
			t.Errorf("prediction %d: expected %d, got %d", i, expected[i], p)
		}
	}
}
