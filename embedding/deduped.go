package embedding

import (
	"context"

	"golang.org/x/sync/singleflight"
)

// Deduped collapses concurrent Embed calls for identical (text, model)
// pairs into a single upstream call.
//
// Generators are deterministic for identical input, so sharing the
// result is safe; each caller still receives its own copy of the
// vector.
type Deduped struct {
	inner Generator
	group singleflight.Group
}

// Compile-time interface check
var _ Generator = (*Deduped)(nil)

// NewDeduped wraps inner with request de-duplication.
func NewDeduped(inner Generator) *Deduped {
	return &Deduped{inner: inner}
}

type embedResult struct {
	vec  []float32
	dims int
}

// Embed delegates, sharing in-flight calls per (text, model).
func (d *Deduped) Embed(ctx context.Context, text, model string) ([]float32, int, error) {
	key := model + "\x00" + text
	v, err, _ := d.group.Do(key, func() (any, error) {
		vec, dims, err := d.inner.Embed(ctx, text, model)
		if err != nil {
			return nil, err
		}
		return embedResult{vec: vec, dims: dims}, nil
	})
	if err != nil {
		return nil, 0, err
	}

	res := v.(embedResult)
	out := make([]float32, len(res.vec))
	copy(out, res.vec)
	return out, res.dims, nil
}
