package matrix

import (
	"math"

	"gonum.org/v1/gonum/mat"

	"github.com/Pranayyadav/face-recognition/pkg/errors"
)

// toDense copies m into a gonum dense matrix. gonum stores row-major,
// so the copy transposes the storage order, not the values.
func (m *Matrix) toDense() *mat.Dense {
	d := mat.NewDense(m.Rows, m.Cols, nil)
	for j := 0; j < m.Cols; j++ {
		col := m.Data[j*m.Rows : (j+1)*m.Rows]
		for i, v := range col {
			d.Set(i, j, v)
		}
	}
	return d
}

// fromDense copies a gonum matrix back into column-major storage.
func fromDense(d mat.Matrix) *Matrix {
	rows, cols := d.Dims()
	m := New(rows, cols)
	for j := 0; j < cols; j++ {
		for i := 0; i < rows; i++ {
			m.Set(i, j, d.At(i, j))
		}
	}
	return m
}

// Product returns a new matrix equal to a*b. Requires a.Cols == b.Rows.
func Product(a, b *Matrix) (*Matrix, error) {
	if a.Cols != b.Rows {
		return nil, errors.NewDimensionError("matrix.Product", a.Cols, b.Rows, 0)
	}

	var c mat.Dense
	c.Mul(a.toDense(), b.toDense())
	return fromDense(&c), nil
}

// Inverse returns a new matrix equal to the inverse of m, computed via
// LU factorization. A singular matrix is reported as a
// SingularMatrixError; a merely ill-conditioned one is accepted with a
// warning, since the result is still defined.
func (m *Matrix) Inverse() (*Matrix, error) {
	if m.Rows != m.Cols {
		return nil, errors.NewValueError("Matrix.Inverse", "matrix must be square")
	}

	var inv mat.Dense
	err := inv.Inverse(m.toDense())
	if err != nil {
		var cond mat.Condition
		if errors.As(err, &cond) && !math.IsInf(float64(cond), 1) {
			errors.Warn(errors.Wrap(err, "Matrix.Inverse: ill-conditioned matrix"))
		} else {
			return nil, errors.NewSingularMatrixError("Matrix.Inverse", m.Rows, m.Cols)
		}
	}
	return fromDense(&inv), nil
}

// Eigen computes the eigenvalues and right eigenvectors of a square
// matrix. The eigenvalues are returned as a rows x 1 column vector and
// the eigenvectors as columns of a rows x rows matrix, column i
// corresponding to eigenvalue i.
//
// Only the real part of each eigenvalue and eigenvector is retained,
// which is sound only when the spectrum is real. The covariance and
// scatter matrices this pipeline decomposes are symmetric, so the
// precondition holds; non-symmetric input is unsupported.
func (m *Matrix) Eigen() (eval, evec *Matrix, err error) {
	if m.Rows != m.Cols {
		return nil, nil, errors.NewValueError("Matrix.Eigen", "matrix must be square")
	}

	var eig mat.Eigen
	ok := eig.Factorize(m.toDense(), mat.EigenRight)
	if !ok {
		return nil, nil, errors.NewModelError("Matrix.Eigen", "eigendecomposition failed to converge", nil)
	}

	values := eig.Values(nil)
	eval = New(m.Rows, 1)
	for i, v := range values {
		eval.Data[i] = real(v)
	}

	var vectors mat.CDense
	eig.VectorsTo(&vectors)
	evec = New(m.Rows, m.Cols)
	for j := 0; j < m.Cols; j++ {
		for i := 0; i < m.Rows; i++ {
			evec.Set(i, j, real(vectors.At(i, j)))
		}
	}

	return eval, evec, nil
}

// Sqrtm computes the principal square root of a square matrix: the X
// with X*X = m whose eigenvalues all have non-negative real part. It
// is computed as evec * diag(sqrt(eval)) * evec^-1 and fails with a
// SingularMatrixError when the eigenvector matrix cannot be inverted.
func (m *Matrix) Sqrtm() (*Matrix, error) {
	if m.Rows != m.Cols {
		return nil, errors.NewValueError("Matrix.Sqrtm", "matrix must be square")
	}

	eval, evec, err := m.Eigen()
	if err != nil {
		return nil, err
	}

	// b = evec * diag(sqrt(eval))
	b := evec.Copy()
	for j := 0; j < b.Cols; j++ {
		lambda := math.Sqrt(eval.Data[j])
		col := b.Data[j*b.Rows : (j+1)*b.Rows]
		for i := range col {
			col[i] *= lambda
		}
	}

	evecInv, err := evec.Inverse()
	if err != nil {
		return nil, errors.Wrap(err, "Matrix.Sqrtm")
	}

	return Product(b, evecInv)
}

// Covariance computes the covariance matrix of m: the columns are
// mean-centered on a copy and C = A*A' / max(cols-1, 1).
func (m *Matrix) Covariance() (*Matrix, error) {
	a := m.Copy()
	mean := a.MeanColumn()
	if err := a.SubtractColumns(mean); err != nil {
		return nil, err
	}

	c, err := Product(a, a.Transpose())
	if err != nil {
		return nil, err
	}

	n := 1.0
	if m.Cols > 1 {
		n = float64(m.Cols - 1)
	}
	c.Scale(1 / n)

	return c, nil
}
