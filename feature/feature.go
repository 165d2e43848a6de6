// Package feature implements the projection strategies the database
// trains and matches against: Identity (pass-through baseline), PCA
// (variance-maximizing eigenfaces), LDA (class-separation-maximizing
// Fisherfaces) and ICA (statistical-independence-maximizing basis).
//
// LDA and ICA are computed from the PCA basis, but every extractor's
// stored transform maps directly from the original mean-centered image
// space, so recognition never re-derives intermediate projections.
package feature

import (
	"io"

	"github.com/Pranayyadav/face-recognition/matrix"
	"github.com/Pranayyadav/face-recognition/pkg/errors"
)

// Extractor is one projection strategy. The database drives all
// variants through this single interface; the persisted model relies
// on Save and Load writing each variant's matrices in a fixed order.
type Extractor interface {
	// Compute derives the transform from the mean-centered training
	// matrix X (one column per image) and its parallel class labels.
	Compute(x *matrix.Matrix, labels []int, numClasses int) error

	// Project maps mean-centered image-space columns into this
	// extractor's feature space.
	Project(x *matrix.Matrix) (*matrix.Matrix, error)

	// Save writes the extractor's matrices in a fixed order.
	Save(w io.Writer) error

	// Load reads the matrices written by Save.
	Load(r io.Reader) error

	// Name identifies the extractor for diagnostics and logs.
	Name() string

	// Distance is the metric the nearest-neighbor search uses in this
	// extractor's feature space.
	Distance() matrix.DistanceFunc
}

// projectThrough applies a stored transform: Y = W' * X.
func projectThrough(name string, w, x *matrix.Matrix) (*matrix.Matrix, error) {
	if w == nil {
		return nil, errors.NewNotFittedError(name, "Project")
	}
	if w.Rows != x.Rows {
		return nil, errors.NewDimensionError(name+".Project", w.Rows, x.Rows, 0)
	}
	return matrix.Product(w.Transpose(), x)
}

// sortEigenPairs reorders an eigendecomposition by descending
// eigenvalue, returning the sorted values and the correspondingly
// permuted eigenvector columns.
func sortEigenPairs(eval, evec *matrix.Matrix) (*matrix.Matrix, *matrix.Matrix, error) {
	n := eval.Rows
	order := make([]int, n)
	for i := range order {
		order[i] = i
	}
	// insertion sort by descending eigenvalue; n is the image count or
	// subspace dimension, never large enough to matter
	for i := 1; i < n; i++ {
		for j := i; j > 0 && eval.Data[order[j]] > eval.Data[order[j-1]]; j-- {
			order[j], order[j-1] = order[j-1], order[j]
		}
	}

	idx := matrix.New(1, n)
	sortedVals := matrix.New(n, 1)
	for j, src := range order {
		idx.Data[j] = float64(src)
		sortedVals.Data[j] = eval.Data[src]
	}

	sortedVecs, err := evec.ReorderColumns(idx)
	if err != nil {
		return nil, nil, err
	}
	return sortedVals, sortedVecs, nil
}
