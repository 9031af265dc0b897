package web

import (
	"errors"
	"fmt"
)

// Common sentinel errors
var (
	ErrNodeNotFound  = errors.New("node not found")
	ErrSelfEdge      = errors.New("edge endpoints are the same node")
	ErrDuplicatePair = errors.New("node pair already connected")
)

// WebError provides structured error information for web operations.
type WebError struct {
	Op     string // Operation that failed (e.g., "Inject", "Connect")
	Entity string // Entity type ("node", "edge", "pair")
	ID     int    // Entity ID or index (if applicable)
	Cause  error  // Underlying error
}

// Error implements the error interface.
func (e *WebError) Error() string {
	if e.ID != 0 {
		return fmt.Sprintf("%s %s %d: %v", e.Op, e.Entity, e.ID, e.Cause)
	}
	return fmt.Sprintf("%s %s: %v", e.Op, e.Entity, e.Cause)
}

// Unwrap returns the underlying cause for error chain support.
func (e *WebError) Unwrap() error {
	return e.Cause
}

// Is reports whether the target error matches this error or its cause.
func (e *WebError) Is(target error) bool {
	if target == nil {
		return false
	}
	return errors.Is(e.Cause, target)
}

// nodeNotFoundError creates a range-check failure for a node index.
func nodeNotFoundError(op string, index int) error {
	return &WebError{Op: op, Entity: "node", ID: index, Cause: ErrNodeNotFound}
}

// IsNotFound returns true if the error is a not found error.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNodeNotFound)
}
