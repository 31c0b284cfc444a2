package bias

import "fmt"

// PredictionError indicates that the external prediction function failed
// or returned a result of the wrong shape.
type PredictionError struct {
	Expected int   // Number of predictions expected
	Got      int   // Number of predictions returned (0 when the call failed)
	Cause    error // Underlying error, if the function failed
}

// Error implements the error interface.
func (e *PredictionError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("prediction error: %v", e.Cause)
	}
	return fmt.Sprintf("prediction error: expected %d predictions, got %d", e.Expected, e.Got)
}

// Unwrap returns the underlying cause error.
func (e *PredictionError) Unwrap() error {
	return e.Cause
}

// NewPredictionError creates a PredictionError wrapping a failed call.
func NewPredictionError(cause error) *PredictionError {
	return &PredictionError{Cause: cause}
}

// NewPredictionShapeError creates a PredictionError for a length mismatch.
func NewPredictionShapeError(expected, got int) *PredictionError {
	return &PredictionError{Expected: expected, Got: got}
}
