package storage

import "fmt"

// StorageError wraps a backend failure with the backend name and the
// operation that failed.
type StorageError struct {
	Backend string
	Op      string
	Err     error
}

// Error implements the error interface.
func (e *StorageError) Error() string {
	return fmt.Sprintf("%s storage %s failed: %v", e.Backend, e.Op, e.Err)
}

// Unwrap returns the underlying error.
func (e *StorageError) Unwrap() error {
	return e.Err
}

// NewStorageError creates a new StorageError.
func NewStorageError(backend, op string, err error) *StorageError {
	return &StorageError{Backend: backend, Op: op, Err: err}
}
