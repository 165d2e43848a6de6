package feature

import (
	"io"
	"math"

	"github.com/Pranayyadav/face-recognition/matrix"
	"github.com/Pranayyadav/face-recognition/pkg/errors"
)

// eigenvalueFloor drops surrogate eigenvalues that are numerically
// zero; the corresponding directions carry no variance.
const eigenvalueFloor = 1e-8

// PCA computes the principal-component basis of a training set. For
// image data the dimensionality far exceeds the image count, so the
// eigenvectors are derived from the n x n surrogate matrix X'X instead
// of the full pixel-space covariance: if v is an eigenvector of X'X
// then Xv is an eigenvector of XX' with the same eigenvalue.
type PCA struct {
	// Components caps the subspace dimension. Zero keeps every
	// direction with non-vanishing variance.
	Components int

	// W is the stored transform, pixels x components, one unit-length
	// eigenface per column.
	W *matrix.Matrix

	// D is the diagonal matrix of the retained eigenvalues, ordered to
	// match the columns of W.
	D *matrix.Matrix
}

// NewPCA creates a PCA extractor keeping at most components
// directions; components <= 0 keeps all significant ones.
func NewPCA(components int) *PCA {
	return &PCA{Components: components}
}

// Compute derives the eigenface basis from the mean-centered training
// matrix X. Labels and class count are ignored; PCA is unsupervised.
func (e *PCA) Compute(x *matrix.Matrix, labels []int, numClasses int) error {
	if x.Rows == 0 || x.Cols == 0 {
		return errors.NewModelError("PCA.Compute", "empty data", errors.ErrEmptyData)
	}

	// surrogate eigenproblem in image-count space
	l, err := matrix.Product(x.Transpose(), x)
	if err != nil {
		return err
	}

	eval, evec, err := l.Eigen()
	if err != nil {
		return errors.Wrap(err, "PCA.Compute")
	}

	eval, evec, err = sortEigenPairs(eval, evec)
	if err != nil {
		return err
	}

	// lift the surrogate eigenvectors back to pixel space
	w, err := matrix.Product(x, evec)
	if err != nil {
		return err
	}

	keep := 0
	for keep < eval.Rows && eval.Data[keep] > eigenvalueFloor {
		keep++
	}
	if e.Components > 0 && keep > e.Components {
		keep = e.Components
	}
	if keep == 0 {
		return errors.NewModelError("PCA.Compute", "no principal components above the variance floor", nil)
	}

	w, err = w.CopyColumns(0, keep)
	if err != nil {
		return err
	}

	// unit-length eigenfaces
	for j := 0; j < w.Cols; j++ {
		col := w.Data[j*w.Rows : (j+1)*w.Rows]
		norm := 0.0
		for _, v := range col {
			norm += v * v
		}
		norm = math.Sqrt(norm)
		for i := range col {
			col[i] /= norm
		}
	}

	d := matrix.New(keep, keep)
	for i := 0; i < keep; i++ {
		d.Set(i, i, eval.Data[i])
	}

	e.W = w
	e.D = d
	return nil
}

// Project maps mean-centered image columns into the eigenface space.
func (e *PCA) Project(x *matrix.Matrix) (*matrix.Matrix, error) {
	return projectThrough("PCA", e.W, x)
}

// Save writes the transform followed by the eigenvalue diagonal.
func (e *PCA) Save(w io.Writer) error {
	if e.W == nil {
		return errors.NewNotFittedError("PCA", "Save")
	}
	if err := e.W.WriteBinary(w); err != nil {
		return err
	}
	return e.D.WriteBinary(w)
}

// Load reads the matrices written by Save.
func (e *PCA) Load(r io.Reader) error {
	w, err := matrix.ReadBinary(r)
	if err != nil {
		return err
	}
	d, err := matrix.ReadBinary(r)
	if err != nil {
		return err
	}
	e.W = w
	e.D = d
	return nil
}

// Name returns "PCA".
func (e *PCA) Name() string {
	return "PCA"
}

// Distance returns the metric used in eigenface space.
func (e *PCA) Distance() matrix.DistanceFunc {
	return matrix.SquaredEuclidean
}
