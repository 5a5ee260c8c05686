// Package embedding defines the boundary to the external embedding
// generator and wrappers that harden calls across it.
//
// The engine consumes embeddings as a black box: for identical
// (text, model) input a generator must return identical output. The
// service never holds a store lock while a generator call is in
// flight, so a slow model cannot stall writers.
package embedding

import "context"

// Generator maps text to a vector under a named embedding model.
type Generator interface {
	// Embed returns the vector and its dimensionality for the given
	// text and model name. It must be deterministic for identical
	// (text, model) input.
	Embed(ctx context.Context, text, model string) ([]float32, int, error)
}

// GeneratorFunc adapts a function to the Generator interface.
type GeneratorFunc func(ctx context.Context, text, model string) ([]float32, int, error)

// Embed implements Generator.
func (fn GeneratorFunc) Embed(ctx context.Context, text, model string) ([]float32, int, error) {
	return fn(ctx, text, model)
}
