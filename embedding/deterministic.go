package embedding

import (
	"context"
	"crypto/sha256"
	"encoding/binary"
	"math"

	"github.com/stratuspay/vecstore/engine"
)

// Deterministic is a local, model-free generator that derives a vector
// from a hash stream over (model, text).
//
// It exists for tests, local development and offline tooling: output
// is stable across processes and platforms, values land in [0, 1],
// and no network call is made. It is not a semantic embedding.
type Deterministic struct {
	dims int
}

// Compile-time interface check
var _ Generator = (*Deterministic)(nil)

// NewDeterministic creates a deterministic generator producing vectors
// of the given dimensionality.
func NewDeterministic(dims int) (*Deterministic, error) {
	if !engine.DimensionSupported(dims) {
		return nil, &engine.ErrInvalidDimension{Dimension: dims}
	}
	return &Deterministic{dims: dims}, nil
}

// Dimensions returns the dimensionality this generator produces.
func (d *Deterministic) Dimensions() int { return d.dims }

// Embed derives the vector for (text, model).
func (d *Deterministic) Embed(ctx context.Context, text, model string) ([]float32, int, error) {
	if err := ctx.Err(); err != nil {
		return nil, 0, err
	}

	seed := sha256.Sum256([]byte(model + "\x00" + text))
	vec := make([]float32, d.dims)

	block := seed
	i := 0
	for i < d.dims {
		for off := 0; off+4 <= len(block) && i < d.dims; off += 4 {
			u := binary.BigEndian.Uint32(block[off : off+4])
			vec[i] = float32(float64(u) / float64(math.MaxUint32))
			i++
		}
		block = sha256.Sum256(block[:])
	}
	return vec, d.dims, nil
}
