package store

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound indicates no record has the requested ID.
	ErrNotFound = errors.New("rule not found")

	// ErrDuplicate indicates a record with the same ID already exists.
	ErrDuplicate = errors.New("rule already exists")

	// ErrClosed indicates the store has been closed.
	ErrClosed = errors.New("store closed")
)

// StorageError represents an error from a storage backend.
type StorageError struct {
	Backend   string // Storage backend type ("memory", "sqlite")
	Operation string // Operation that failed ("append", "list", etc.)
	Cause     error  // Underlying error
}

// Error implements the error interface.
func (e *StorageError) Error() string {
	return fmt.Sprintf("storage error [backend=%s, operation=%s]: %v", e.Backend, e.Operation, e.Cause)
}

// Unwrap returns the underlying cause error.
func (e *StorageError) Unwrap() error {
	return e.Cause
}

// NewStorageError creates a new StorageError.
func NewStorageError(backend, operation string, cause error) *StorageError {
	return &StorageError{
		Backend:   backend,
		Operation: operation,
		Cause:     cause,
	}
}
