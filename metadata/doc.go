// Package metadata implements the typed metadata model and the filter
// engine evaluated over it.
//
// Metadata is stored as a tagged variant (Value) rather than raw
// interface{} so filter semantics are exhaustive: every operator either
// matches or does not, and a type mismatch between an operator and a
// stored value is simply a non-match. Filters compose with AND only.
package metadata
