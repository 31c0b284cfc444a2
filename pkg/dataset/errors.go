package dataset

import "fmt"

// SchemaError indicates that a requested attribute or column does not
// exist in the batch schema.
type SchemaError struct {
	Attribute string // Attribute or column that was not found
	Cause     error  // Underlying error, if any
}

// Error implements the error interface.
func (e *SchemaError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("schema error [attribute=%s]: %v", e.Attribute, e.Cause)
	}
	return fmt.Sprintf("schema error: attribute %q not found in batch", e.Attribute)
}

// Unwrap returns the underlying cause error.
func (e *SchemaError) Unwrap() error {
	return e.Cause
}

// NewSchemaError creates a new SchemaError for the named attribute.
func NewSchemaError(attribute string, cause error) *SchemaError {
	return &SchemaError{Attribute: attribute, Cause: cause}
}
