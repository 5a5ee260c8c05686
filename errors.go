package vecstore

import (
	"errors"
	"fmt"

	"github.com/stratuspay/vecstore/engine"
	"github.com/stratuspay/vecstore/metadata"
)

var (
	// ErrNotFound is returned when a get or delete targets a vector id
	// that does not exist in the namespace.
	ErrNotFound = errors.New("vector not found")

	// ErrAlreadyExists is returned when a write without the upsert flag
	// collides with an existing vector id.
	ErrAlreadyExists = errors.New("vector already exists")

	// ErrEmptyVector is returned for a zero-length embedding.
	ErrEmptyVector = errors.New("empty vector")

	// ErrInvalidK is returned when top_k is outside 1..100.
	ErrInvalidK = errors.New("top_k must be between 1 and 100")

	// ErrInvalidFilter is returned for a malformed metadata filter
	// expression. The typed *metadata.ErrInvalidFilter cause carries
	// the offending key and operator.
	ErrInvalidFilter = errors.New("invalid metadata filter")

	// ErrNoGenerator is returned when a text search is issued against a
	// service configured without an embedding generator.
	ErrNoGenerator = errors.New("no embedding generator configured")
)

// ErrInvalidDimension indicates a declared dimensionality outside the
// supported set.
//
// The original underlying error (if any) can be accessed via errors.Unwrap.
type ErrInvalidDimension struct {
	Dimension int
	cause     error
}

func (e *ErrInvalidDimension) Error() string {
	return fmt.Sprintf("invalid dimension: %d", e.Dimension)
}

func (e *ErrInvalidDimension) Unwrap() error { return e.cause }

// ErrDimensionMismatch indicates a vector/query dimensionality mismatch.
//
// The original underlying error (if any) can be accessed via errors.Unwrap.
type ErrDimensionMismatch struct {
	Expected int
	Actual   int
	cause    error
}

func (e *ErrDimensionMismatch) Error() string {
	return fmt.Sprintf("dimension mismatch: expected %d, got %d", e.Expected, e.Actual)
}

func (e *ErrDimensionMismatch) Unwrap() error { return e.cause }

// ErrDimensionChange indicates an update that would change an existing
// record's dimensionality, which is never allowed.
//
// The original underlying error (if any) can be accessed via errors.Unwrap.
type ErrDimensionChange struct {
	Stored    int
	Requested int
	cause     error
}

func (e *ErrDimensionChange) Error() string {
	return fmt.Sprintf("dimension change not allowed: record has %d dimensions, write declares %d", e.Stored, e.Requested)
}

func (e *ErrDimensionChange) Unwrap() error { return e.cause }

// ErrInvalidNamespace indicates a namespace failing the format rules.
//
// The original underlying error (if any) can be accessed via errors.Unwrap.
type ErrInvalidNamespace struct {
	Namespace string
	Reason    string
	cause     error
}

func (e *ErrInvalidNamespace) Error() string {
	return fmt.Sprintf("invalid namespace %q: %s", e.Namespace, e.Reason)
}

func (e *ErrInvalidNamespace) Unwrap() error { return e.cause }

// Kind maps an error returned by this package to its stable error kind
// string, for callers translating rejections to transport status codes.
// Unknown errors map to "INTERNAL".
func Kind(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrNotFound):
		return "VECTOR_NOT_FOUND"
	case errors.Is(err, ErrAlreadyExists):
		return "VECTOR_ALREADY_EXISTS"
	case errors.Is(err, ErrEmptyVector):
		return "EMPTY_VECTOR"
	case errors.Is(err, ErrInvalidK):
		return "INVALID_TOP_K"
	case errors.Is(err, ErrInvalidFilter):
		return "INVALID_METADATA_FILTER"
	}

	var id *ErrInvalidDimension
	if errors.As(err, &id) {
		return "INVALID_DIMENSION"
	}
	var dm *ErrDimensionMismatch
	if errors.As(err, &dm) {
		return "DIMENSION_MISMATCH"
	}
	var dc *ErrDimensionChange
	if errors.As(err, &dc) {
		return "DIMENSION_CHANGE_NOT_ALLOWED"
	}
	var in *ErrInvalidNamespace
	if errors.As(err, &in) {
		return "INVALID_NAMESPACE"
	}

	return "INTERNAL"
}

func translateError(err error) error {
	if err == nil {
		return nil
	}

	// Sentinel unification.
	if errors.Is(err, engine.ErrNotFound) {
		return fmt.Errorf("%w: %w", ErrNotFound, err)
	}
	if errors.Is(err, engine.ErrAlreadyExists) {
		return fmt.Errorf("%w: %w", ErrAlreadyExists, err)
	}
	if errors.Is(err, engine.ErrEmptyVector) {
		return fmt.Errorf("%w: %w", ErrEmptyVector, err)
	}

	// Dimension and namespace normalization.
	var id *engine.ErrInvalidDimension
	if errors.As(err, &id) {
		return &ErrInvalidDimension{Dimension: id.Dimension, cause: err}
	}
	var dm *engine.ErrDimensionMismatch
	if errors.As(err, &dm) {
		return &ErrDimensionMismatch{Expected: dm.Expected, Actual: dm.Actual, cause: err}
	}
	var dc *engine.ErrDimensionChange
	if errors.As(err, &dc) {
		return &ErrDimensionChange{Stored: dc.Stored, Requested: dc.Requested, cause: err}
	}
	var in *engine.ErrInvalidNamespace
	if errors.As(err, &in) {
		return &ErrInvalidNamespace{Namespace: in.Namespace, Reason: in.Reason, cause: err}
	}

	var fe *metadata.ErrInvalidFilter
	if errors.As(err, &fe) {
		return fmt.Errorf("%w: %w", ErrInvalidFilter, err)
	}

	return err
}
