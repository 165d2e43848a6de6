package feature

import (
	"io"

	"github.com/Pranayyadav/face-recognition/matrix"
	"github.com/Pranayyadav/face-recognition/pkg/errors"
)

// LDA computes a Fisher discriminant basis on top of the PCA
// projection. Working in PCA space keeps the within-class scatter
// matrix small and invertible; the stored transform composes both
// steps so recognition projects straight from image space.
type LDA struct {
	// PCAComponents is the number of leading PCA directions the
	// scatter matrices are built in. Zero picks N - numClasses, the
	// classic choice that keeps the within-class scatter non-singular.
	PCAComponents int

	// Components caps the discriminant subspace dimension. Zero keeps
	// numClasses - 1 directions, the rank of the between-class scatter.
	Components int

	// W is the stored transform, pixels x components.
	W *matrix.Matrix

	pca *PCA
}

// NewLDA creates an LDA extractor computed from the given PCA basis.
func NewLDA(pca *PCA, pcaComponents, components int) *LDA {
	return &LDA{
		PCAComponents: pcaComponents,
		Components:    components,
		pca:           pca,
	}
}

// Compute derives the discriminant basis from the mean-centered
// training matrix X and its class labels. The PCA extractor must have
// been computed first.
func (e *LDA) Compute(x *matrix.Matrix, labels []int, numClasses int) error {
	if e.pca == nil || e.pca.W == nil {
		return errors.NewValueError("LDA.Compute", "requires a computed PCA basis")
	}
	if len(labels) != x.Cols {
		return errors.NewDimensionError("LDA.Compute", x.Cols, len(labels), 1)
	}
	if numClasses < 2 {
		return errors.NewValidationError("numClasses", "discriminant analysis needs at least two classes", numClasses)
	}

	n1 := e.PCAComponents
	if n1 <= 0 {
		n1 = x.Cols - numClasses
	}
	if n1 < 1 {
		n1 = 1
	}
	if n1 > e.pca.W.Cols {
		n1 = e.pca.W.Cols
	}
	wpca, err := e.pca.W.CopyColumns(0, n1)
	if err != nil {
		return err
	}

	// project the training set into the reduced PCA space
	p, err := matrix.Product(wpca.Transpose(), x)
	if err != nil {
		return err
	}

	// per-class and overall means in PCA space
	classMeans := matrix.New(n1, numClasses)
	classSizes := make([]int, numClasses)
	for j := 0; j < p.Cols; j++ {
		c := labels[j]
		if c < 0 || c >= numClasses {
			return errors.NewValidationError("labels", "class id out of range", c)
		}
		classSizes[c]++
		for i := 0; i < n1; i++ {
			classMeans.Set(i, c, classMeans.At(i, c)+p.At(i, j))
		}
	}
	for c := 0; c < numClasses; c++ {
		if classSizes[c] == 0 {
			return errors.NewValidationError("labels", "class has no training images", c)
		}
		for i := 0; i < n1; i++ {
			classMeans.Set(i, c, classMeans.At(i, c)/float64(classSizes[c]))
		}
	}
	overallMean := p.MeanColumn()

	// scatter matrices
	sw := matrix.New(n1, n1)
	sb := matrix.New(n1, n1)
	diff := make([]float64, n1)
	for j := 0; j < p.Cols; j++ {
		c := labels[j]
		for i := 0; i < n1; i++ {
			diff[i] = p.At(i, j) - classMeans.At(i, c)
		}
		accumulateOuter(sw, diff, 1)
	}
	for c := 0; c < numClasses; c++ {
		for i := 0; i < n1; i++ {
			diff[i] = classMeans.At(i, c) - overallMean.Data[i]
		}
		accumulateOuter(sb, diff, float64(classSizes[c]))
	}

	swInv, err := sw.Inverse()
	if err != nil {
		return errors.Wrap(err, "LDA.Compute: within-class scatter")
	}
	m, err := matrix.Product(swInv, sb)
	if err != nil {
		return err
	}

	eval, evec, err := m.Eigen()
	if err != nil {
		return errors.Wrap(err, "LDA.Compute")
	}
	_, evec, err = sortEigenPairs(eval, evec)
	if err != nil {
		return err
	}

	keep := numClasses - 1
	if e.Components > 0 && e.Components < keep {
		keep = e.Components
	}
	if keep > evec.Cols {
		keep = evec.Cols
	}
	wfld, err := evec.CopyColumns(0, keep)
	if err != nil {
		return err
	}

	// compose back to image space
	w, err := matrix.Product(wpca, wfld)
	if err != nil {
		return err
	}

	e.W = w
	return nil
}

// accumulateOuter adds scale * v*v' to s.
func accumulateOuter(s *matrix.Matrix, v []float64, scale float64) {
	n := len(v)
	for j := 0; j < n; j++ {
		col := s.Data[j*n : (j+1)*n]
		vj := v[j] * scale
		for i := 0; i < n; i++ {
			col[i] += v[i] * vj
		}
	}
}

// Project maps mean-centered image columns into the discriminant space.
func (e *LDA) Project(x *matrix.Matrix) (*matrix.Matrix, error) {
	return projectThrough("LDA", e.W, x)
}

// Save writes the stored transform.
func (e *LDA) Save(w io.Writer) error {
	if e.W == nil {
		return errors.NewNotFittedError("LDA", "Save")
	}
	return e.W.WriteBinary(w)
}

// Load reads the transform written by Save.
func (e *LDA) Load(r io.Reader) error {
	w, err := matrix.ReadBinary(r)
	if err != nil {
		return err
	}
	e.W = w
	return nil
}

// Name returns "LDA".
func (e *LDA) Name() string {
	return "LDA"
}

// Distance returns the metric used in discriminant space.
func (e *LDA) Distance() matrix.DistanceFunc {
	return matrix.SquaredEuclidean
}
