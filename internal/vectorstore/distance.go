package vectorstore

import "github.com/viant/vec/search"

// SquaredL2 returns the squared Euclidean distance between a and b, which
// must have equal length. It orders neighbours exactly like the true distance.
// The sum is kept in float64 so that nearby distances in high dimensions stay
// distinct instead of collapsing onto the same float32 and falling back to
// the index tie-break.
func SquaredL2(a, b []float32) float64 {
	var sum float64
	for i := range a {
		d := float64(a[i]) - float64(b[i])
		sum += d * d
	}
	return sum
}

// CosineSimilarity returns the cosine of the angle between a and b, which
// must have equal length. A zero-magnitude input yields 0.
func CosineSimilarity(a, b []float32) float64 {
	if len(a) == 0 || len(a) != len(b) {
		return 0
	}
	va, vb := search.Float32s(a), search.Float32s(b)
	ma, mb := va.Magnitude(), vb.Magnitude()
	if ma == 0 || mb == 0 {
		return 0
	}
	sim := 1 - float64(va.CosineDistanceWithMagnitude(b, ma, mb))
	switch {
	case sim > 1:
		return 1
	case sim < -1:
		return -1
	}
	return sim
}
