package matrix

import "math"

// DistanceFunc computes the distance between column i of a and column
// j of b. Smaller values mean a better match; the nearest-neighbor
// search relies only on the ordering, not the absolute scale.
//
// The columns must have the same length. Distance functions sit in the
// innermost recognition loop, so like element access they panic on a
// violated precondition instead of returning an error.
type DistanceFunc func(a *Matrix, i int, b *Matrix, j int) float64

// SquaredEuclidean returns ||x - y||^2 between two column vectors.
// The square root is omitted: it is monotonic, so the nearest-neighbor
// ranking is unchanged and the sqrt per candidate is saved.
func SquaredEuclidean(a *Matrix, i int, b *Matrix, j int) float64 {
	if a.Rows != b.Rows {
		panic("matrix: SquaredEuclidean: column length mismatch")
	}

	x := a.Data[i*a.Rows : (i+1)*a.Rows]
	y := b.Data[j*b.Rows : (j+1)*b.Rows]

	dist := 0.0
	for k := range x {
		diff := x[k] - y[k]
		dist += diff * diff
	}
	return dist
}

// Euclidean returns ||x - y|| between two column vectors.
func Euclidean(a *Matrix, i int, b *Matrix, j int) float64 {
	return math.Sqrt(SquaredEuclidean(a, i, b, j))
}

// NegCosine returns the negated cosine similarity between two column
// vectors: -x.y / (||x|| ||y||). More similar vectors give smaller
// (more negative) values, consistent with the "smaller distance is a
// better match" contract of DistanceFunc.
func NegCosine(a *Matrix, i int, b *Matrix, j int) float64 {
	if a.Rows != b.Rows {
		panic("matrix: NegCosine: column length mismatch")
	}

	x := a.Data[i*a.Rows : (i+1)*a.Rows]
	y := b.Data[j*b.Rows : (j+1)*b.Rows]

	var dot, absX, absY float64
	for k := range x {
		dot += x[k] * y[k]
		absX += x[k] * x[k]
		absY += y[k] * y[k]
	}

	return -dot / (math.Sqrt(absX) * math.Sqrt(absY))
}
