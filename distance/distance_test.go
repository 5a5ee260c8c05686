package distance

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDot(t *testing.T) {
	assert.Equal(t, 32.0, Dot([]float32{1, 2, 3}, []float32{4, 5, 6}))
	assert.Equal(t, 0.0, Dot([]float32{1, 0}, []float32{0, 1}))
	assert.Equal(t, 0.0, Dot(nil, nil))
}

func TestMagnitude(t *testing.T) {
	assert.Equal(t, 5.0, Magnitude([]float32{3, 4}))
	assert.Equal(t, 0.0, Magnitude([]float32{0, 0, 0}))
	assert.Equal(t, 1.0, Magnitude([]float32{1}))
}

func TestCosineSimilarity(t *testing.T) {
	t.Run("identical vectors", func(t *testing.T) {
		v := []float32{0.5, 0.25, 0.8}
		assert.InDelta(t, 1.0, CosineSimilarity(v, v), 1e-6)
	})

	t.Run("orthogonal vectors", func(t *testing.T) {
		assert.InDelta(t, 0.0, CosineSimilarity([]float32{1, 0}, []float32{0, 1}), 1e-6)
	})

	t.Run("opposite vectors", func(t *testing.T) {
		assert.InDelta(t, -1.0, CosineSimilarity([]float32{1, 2}, []float32{-1, -2}), 1e-6)
	})

	t.Run("zero magnitude yields zero", func(t *testing.T) {
		assert.Equal(t, float32(0), CosineSimilarity([]float32{0, 0}, []float32{1, 2}))
		assert.Equal(t, float32(0), CosineSimilarity([]float32{1, 2}, []float32{0, 0}))
	})

	t.Run("scale invariance", func(t *testing.T) {
		a := []float32{1, 2, 3}
		b := []float32{2, 4, 6}
		assert.InDelta(t, 1.0, CosineSimilarity(a, b), 1e-6)
	})

	t.Run("deterministic across calls", func(t *testing.T) {
		a := []float32{0.123, 0.456, 0.789, 0.321}
		b := []float32{0.987, 0.654, 0.321, 0.123}
		first := CosineSimilarity(a, b)
		for range 100 {
			assert.Equal(t, first, CosineSimilarity(a, b))
		}
	})
}
