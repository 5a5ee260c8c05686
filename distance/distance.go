// Package distance provides the similarity kernels used for ranking.
//
// Accumulation is done in float64 so scores are identical across
// platforms and runs; determinism matters more here than raw
// throughput, which is why there are no SIMD fast paths.
package distance

import "math"

// Dot calculates the dot product of two vectors. Assumes vectors are
// the same length (caller's responsibility).
func Dot(a, b []float32) float64 {
	var sum float64
	for i := range a {
		sum += float64(a[i]) * float64(b[i])
	}
	return sum
}

// Magnitude returns the L2 norm of v.
func Magnitude(v []float32) float64 {
	var sum float64
	for _, x := range v {
		sum += float64(x) * float64(x)
	}
	return math.Sqrt(sum)
}

// CosineSimilarity computes dot(a,b) / (|a| * |b|).
//
// A zero-magnitude operand yields similarity 0 rather than a division
// error. Values fall in [-1, 1]; typical embedding output lands in
// [0, 1].
func CosineSimilarity(a, b []float32) float32 {
	magA := Magnitude(a)
	magB := Magnitude(b)
	if magA == 0 || magB == 0 {
		return 0
	}
	return float32(Dot(a, b) / (magA * magB))
}
