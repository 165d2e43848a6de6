package feature

import (
	"io"

	"github.com/Pranayyadav/face-recognition/matrix"
)

// Identity is the pass-through extractor: it owns no transform and
// projects inputs to themselves. It serves as the baseline when no
// subspace algorithm is enabled.
type Identity struct{}

// NewIdentity creates an identity extractor.
func NewIdentity() *Identity {
	return &Identity{}
}

// Compute is a no-op; the identity extractor has nothing to learn.
func (e *Identity) Compute(x *matrix.Matrix, labels []int, numClasses int) error {
	return nil
}

// Project returns a copy of the input.
func (e *Identity) Project(x *matrix.Matrix) (*matrix.Matrix, error) {
	return x.Copy(), nil
}

// Save writes nothing; the identity extractor owns no matrices.
func (e *Identity) Save(w io.Writer) error {
	return nil
}

// Load reads nothing.
func (e *Identity) Load(r io.Reader) error {
	return nil
}

// Name returns "Identity".
func (e *Identity) Name() string {
	return "Identity"
}

// Distance returns the metric used in raw image space.
func (e *Identity) Distance() matrix.DistanceFunc {
	return matrix.SquaredEuclidean
}
