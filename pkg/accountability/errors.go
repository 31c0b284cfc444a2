package accountability

import "fmt"

// ValidationError indicates malformed log input, such as a missing
// model ID or prediction.
type ValidationError struct {
	// Field is the input field that failed validation.
	Field string

	// Reason describes why validation failed.
	Reason string
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation failed for %q: %s", e.Field, e.Reason)
}

// NewValidationError creates a new ValidationError.
func NewValidationError(field, reason string) *ValidationError {
	return &ValidationError{Field: field, Reason: reason}
}

// ReferentialIntegrityError indicates that an incident references a
// decision ID that was never logged.
type ReferentialIntegrityError struct {
	// DecisionID is the unknown decision identifier.
	DecisionID string
}

// Error implements the error interface.
func (e *ReferentialIntegrityError) Error() string {
	return fmt.Sprintf("incident references unknown decision %q", e.DecisionID)
}

// NewReferentialIntegrityError creates a new ReferentialIntegrityError.
func NewReferentialIntegrityError(decisionID string) *ReferentialIntegrityError {
	return &ReferentialIntegrityError{DecisionID: decisionID}
}
