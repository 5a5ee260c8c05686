package engine

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound is returned when a get or delete targets a missing id.
	ErrNotFound = errors.New("vector not found")

	// ErrAlreadyExists is returned when a create without the upsert flag
	// collides with an existing id.
	ErrAlreadyExists = errors.New("vector already exists")

	// ErrEmptyVector is returned for a zero-length embedding.
	ErrEmptyVector = errors.New("empty vector")
)

// ErrInvalidDimension indicates a declared dimensionality outside the
// supported set.
type ErrInvalidDimension struct {
	Dimension int
}

func (e *ErrInvalidDimension) Error() string {
	return fmt.Sprintf("invalid dimension %d: supported dimensions are %v", e.Dimension, SupportedDimensions)
}

// ErrDimensionMismatch indicates an embedding whose element count does
// not equal the declared dimensionality, or a query embedding whose
// length differs from a namespace's stored dimensionality.
//
// Both counts are carried so the rejection is diagnosable without a
// server-side log lookup.
type ErrDimensionMismatch struct {
	Expected int
	Actual   int
}

func (e *ErrDimensionMismatch) Error() string {
	return fmt.Sprintf("dimension mismatch: expected %d, got %d", e.Expected, e.Actual)
}

// ErrDimensionChange indicates an upsert that would change the
// dimensionality of an existing record, which is forbidden.
type ErrDimensionChange struct {
	Stored    int
	Requested int
}

func (e *ErrDimensionChange) Error() string {
	return fmt.Sprintf("dimension change not allowed: record has %d dimensions, write declares %d", e.Stored, e.Requested)
}

// ErrInvalidNamespace indicates a namespace failing the format rules.
type ErrInvalidNamespace struct {
	Namespace string
	Reason    string
}

func (e *ErrInvalidNamespace) Error() string {
	return fmt.Sprintf("invalid namespace %q: %s", e.Namespace, e.Reason)
}
