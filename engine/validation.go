package engine

import (
	"fmt"
	"regexp"
)

// SupportedDimensions is the fixed set of accepted vector
// dimensionalities.
var SupportedDimensions = []int{384, 768, 1024, 1536}

// DimensionSupported reports whether d is a supported dimensionality.
func DimensionSupported(d int) bool {
	for _, s := range SupportedDimensions {
		if d == s {
			return true
		}
	}
	return false
}

// ValidateVector checks a declared dimensionality against an embedding.
//
// It is a pure function and must run before any mutation is attempted:
// a failed validation never touches the store.
func ValidateVector(dimensions int, embedding []float32) error {
	if !DimensionSupported(dimensions) {
		return &ErrInvalidDimension{Dimension: dimensions}
	}
	if len(embedding) == 0 {
		return ErrEmptyVector
	}
	if len(embedding) != dimensions {
		return &ErrDimensionMismatch{Expected: dimensions, Actual: len(embedding)}
	}
	return nil
}

// MaxNamespaceLen is the maximum namespace length in bytes.
const MaxNamespaceLen = 128

var namespacePattern = regexp.MustCompile(`^[A-Za-z0-9._-]+$`)

// ValidateNamespace checks the namespace format rules: non-empty,
// at most MaxNamespaceLen bytes, alphanumeric plus '-', '_' and '.'.
func ValidateNamespace(namespace string) error {
	if namespace == "" {
		return &ErrInvalidNamespace{Namespace: namespace, Reason: "must not be empty"}
	}
	if len(namespace) > MaxNamespaceLen {
		return &ErrInvalidNamespace{
			Namespace: namespace,
			Reason:    fmt.Sprintf("length %d exceeds maximum %d", len(namespace), MaxNamespaceLen),
		}
	}
	if !namespacePattern.MatchString(namespace) {
		return &ErrInvalidNamespace{
			Namespace: namespace,
			Reason:    "only alphanumeric characters, '-', '_' and '.' are allowed",
		}
	}
	return nil
}
