package feature

import (
	"io"
	"math"
	"math/rand"

	"github.com/Pranayyadav/face-recognition/matrix"
	"github.com/Pranayyadav/face-recognition/pkg/errors"
)

// ICA default hyperparameters. The InfoMax iteration is robust to
// these within an order of magnitude; they only trade sweeps for
// step size.
const (
	icaDefaultMaxSweeps    = 100
	icaDefaultBlockSize    = 50
	icaDefaultLearningRate = 0.001
	icaDefaultAnneal       = 0.95
	icaDefaultTolerance    = 1e-6
	icaMaxRestarts         = 5

	// icaVarianceShare is the minimum eigenvalue a PCA direction must
	// carry, relative to the leading one, to enter the sphering basis.
	// Sphering scales every direction to unit variance, so a near-zero
	// tail would come out at the same scale as the signal.
	icaVarianceShare = 1e-3
)

// ICA computes a statistically independent basis on top of the PCA
// projection using the InfoMax algorithm: the coefficients along the
// significant-variance PCA directions are sphered with Wz = 2*Cov^-1/2,
// then an unmixing matrix is learned by
// natural-gradient ascent over shuffled blocks with an annealed
// learning rate. The stored transform composes unmixing, sphering and
// the PCA basis, so recognition projects straight from image space.
type ICA struct {
	// MaxSweeps bounds the number of passes over the training set.
	MaxSweeps int

	// BlockSize is the number of columns per weight update.
	BlockSize int

	// LearningRate is the initial gradient step, annealed every sweep.
	LearningRate float64

	// Tolerance stops the iteration once the per-sweep weight change
	// falls below it.
	Tolerance float64

	// Seed fixes the block shuffling, making training reproducible.
	Seed int64

	// W is the stored transform, pixels x components.
	W *matrix.Matrix

	pca *PCA
}

// NewICA creates an ICA extractor computed from the given PCA basis.
func NewICA(pca *PCA, seed int64) *ICA {
	return &ICA{
		MaxSweeps:    icaDefaultMaxSweeps,
		BlockSize:    icaDefaultBlockSize,
		LearningRate: icaDefaultLearningRate,
		Tolerance:    icaDefaultTolerance,
		Seed:         seed,
		pca:          pca,
	}
}

// Compute derives the independent basis from the mean-centered
// training matrix X. The PCA extractor must have been computed first.
// A run that exhausts MaxSweeps without meeting Tolerance still yields
// a usable basis and is reported as a ConvergenceWarning rather than
// an error.
func (e *ICA) Compute(x *matrix.Matrix, labels []int, numClasses int) error {
	if e.pca == nil || e.pca.W == nil || e.pca.D == nil {
		return errors.NewValueError("ICA.Compute", "requires a computed PCA basis")
	}

	basis, err := e.sphereBasis()
	if err != nil {
		return err
	}

	// PCA coefficients of the training set
	p, err := matrix.Product(basis.Transpose(), x)
	if err != nil {
		return err
	}
	k := p.Rows
	n := p.Cols

	// sphering matrix Wz = 2 * Cov(P)^-1/2
	cov, err := p.Covariance()
	if err != nil {
		return err
	}
	covSqrt, err := cov.Sqrtm()
	if err != nil {
		return errors.Wrap(err, "ICA.Compute: sphering")
	}
	wz, err := covSqrt.Inverse()
	if err != nil {
		return errors.Wrap(err, "ICA.Compute: sphering")
	}
	wz.Scale(2)

	sphered, err := matrix.Product(wz, p)
	if err != nil {
		return err
	}

	unmix, converged, err := e.infomax(sphered, k, n)
	if err != nil {
		return err
	}
	if !converged {
		errors.Warn(errors.NewConvergenceWarning("ICA", e.MaxSweeps,
			"weight change never fell below tolerance"))
	}

	// compose: projection is unmix * Wz * W_pca' * x, so the stored
	// image-space transform is W_pca * (unmix * Wz)'
	wi, err := matrix.Product(unmix, wz)
	if err != nil {
		return err
	}
	w, err := matrix.Product(basis, wi.Transpose())
	if err != nil {
		return err
	}

	e.W = w
	return nil
}

// sphereBasis trims the PCA basis to the directions with a meaningful
// share of the variance. The eigenvalue diagonal is descending, so the
// kept columns are a prefix.
func (e *ICA) sphereBasis() (*matrix.Matrix, error) {
	floor := icaVarianceShare * e.pca.D.At(0, 0)
	m := 1
	for m < e.pca.W.Cols && e.pca.D.At(m, m) >= floor {
		m++
	}
	return e.pca.W.CopyColumns(0, m)
}

// infomax learns the unmixing matrix by logistic InfoMax over shuffled
// blocks. An exploding update restarts the iteration from the identity
// with a halved learning rate.
func (e *ICA) infomax(sphered *matrix.Matrix, k, n int) (*matrix.Matrix, bool, error) {
	rng := rand.New(rand.NewSource(e.Seed))
	lrate := e.LearningRate
	blockSize := e.BlockSize
	if blockSize > n {
		blockSize = n
	}

	unmix := matrix.Identity(k)
	restarts := 0

sweeps:
	for sweep := 0; sweep < e.MaxSweeps; sweep++ {
		prev := unmix.Copy()

		// visit the training columns in a fresh random order
		idx := matrix.New(1, n)
		for j, src := range rng.Perm(n) {
			idx.Data[j] = float64(src)
		}
		shuffled, err := sphered.ReorderColumns(idx)
		if err != nil {
			return nil, false, err
		}

		for begin := 0; begin < n; begin += blockSize {
			end := begin + blockSize
			if end > n {
				end = n
			}
			block, err := shuffled.CopyColumns(begin, end)
			if err != nil {
				return nil, false, err
			}

			u, err := matrix.Product(unmix, block)
			if err != nil {
				return nil, false, err
			}

			// y = 1 - 2*sigmoid(u), the logistic score function
			y := u.Copy()
			y.Negate()
			y.Exp()
			y.AddScalar(1)
			y.DivideInto(2)
			y.Negate()
			y.AddScalar(1)

			// natural gradient: dW = lrate * (|block|*I + y*u') * W
			grad, err := matrix.Product(y, u.Transpose())
			if err != nil {
				return nil, false, err
			}
			id := matrix.Identity(k)
			id.Scale(float64(end - begin))
			if err := grad.Add(id); err != nil {
				return nil, false, err
			}
			delta, err := matrix.Product(grad, unmix)
			if err != nil {
				return nil, false, err
			}
			delta.Scale(lrate)
			if err := unmix.Add(delta); err != nil {
				return nil, false, err
			}

			if err := errors.CheckMatrix("ICA weight update", unmix, k, k, sweep); err != nil {
				restarts++
				if restarts > icaMaxRestarts {
					return nil, false, err
				}
				unmix = matrix.Identity(k)
				lrate /= 2
				continue sweeps
			}
		}

		// per-sweep weight change
		change := 0.0
		for i := range unmix.Data {
			d := unmix.Data[i] - prev.Data[i]
			change += d * d
		}
		if math.Sqrt(change) < e.Tolerance {
			return unmix, true, nil
		}

		lrate *= icaDefaultAnneal
	}

	return unmix, false, nil
}

// Project maps mean-centered image columns into the independent space.
func (e *ICA) Project(x *matrix.Matrix) (*matrix.Matrix, error) {
	return projectThrough("ICA", e.W, x)
}

// Save writes the stored transform.
func (e *ICA) Save(w io.Writer) error {
	if e.W == nil {
		return errors.NewNotFittedError("ICA", "Save")
	}
	return e.W.WriteBinary(w)
}

// Load reads the transform written by Save.
func (e *ICA) Load(r io.Reader) error {
	w, err := matrix.ReadBinary(r)
	if err != nil {
		return err
	}
	e.W = w
	return nil
}

// Name returns "ICA".
func (e *ICA) Name() string {
	return "ICA"
}

// Distance returns the metric used in independent space.
func (e *ICA) Distance() matrix.DistanceFunc {
	return matrix.NegCosine
}
