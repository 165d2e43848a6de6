// Package matrix implements the dense matrix type used throughout the
// face recognition pipeline: a rows x cols container of float64 values
// stored in column-major order, one image per column.
//
// Shape preconditions are validated explicitly and reported as
// structured errors; element access itself is only guarded by caller
// discipline, matching the performance expectations of the inner
// recognition loops. The heavy linear algebra (products, LU inverse,
// eigendecomposition) is delegated to gonum.
package matrix

import (
	"math"
	"math/rand"

	"github.com/Pranayyadav/face-recognition/pkg/errors"
)

// Matrix is a dense rows x cols matrix of float64 values in
// column-major order: element (i, j) lives at Data[j*Rows+i].
// A Matrix exclusively owns its backing slice; operations that return
// a Matrix always allocate fresh storage, never a view.
type Matrix struct {
	Rows int
	Cols int
	Data []float64
}

// New constructs a zero-filled rows x cols matrix.
// It panics if rows or cols is negative, like gonum's constructors.
func New(rows, cols int) *Matrix {
	if rows < 0 || cols < 0 {
		panic("matrix: negative dimension")
	}
	return &Matrix{
		Rows: rows,
		Cols: cols,
		Data: make([]float64, rows*cols),
	}
}

// Zeros constructs a zero matrix. Alias of New kept for readability at
// call sites that rely on the zero fill.
func Zeros(rows, cols int) *Matrix {
	return New(rows, cols)
}

// Ones constructs a rows x cols matrix with every element set to 1.
func Ones(rows, cols int) *Matrix {
	m := New(rows, cols)
	for i := range m.Data {
		m.Data[i] = 1
	}
	return m
}

// Identity constructs an n x n identity matrix.
func Identity(n int) *Matrix {
	m := New(n, n)
	for i := 0; i < n; i++ {
		m.Data[i*n+i] = 1
	}
	return m
}

// Random constructs a rows x cols matrix of normally distributed
// values drawn from rng.
func Random(rows, cols int, rng *rand.Rand) *Matrix {
	m := New(rows, cols)
	for i := range m.Data {
		m.Data[i] = rng.NormFloat64()
	}
	return m
}

// NewFromRows constructs a matrix from row-major data, the layout
// literals are naturally written in. data must hold rows*cols values.
func NewFromRows(rows, cols int, data []float64) (*Matrix, error) {
	if len(data) != rows*cols {
		return nil, errors.NewDimensionError("matrix.NewFromRows", rows*cols, len(data), 0)
	}
	m := New(rows, cols)
	for i := 0; i < rows; i++ {
		for j := 0; j < cols; j++ {
			m.Set(i, j, data[i*cols+j])
		}
	}
	return m, nil
}

// At returns element (i, j).
func (m *Matrix) At(i, j int) float64 {
	return m.Data[j*m.Rows+i]
}

// Set assigns element (i, j).
func (m *Matrix) Set(i, j int, v float64) {
	m.Data[j*m.Rows+i] = v
}

// Copy returns a deep copy of m.
func (m *Matrix) Copy() *Matrix {
	c := &Matrix{
		Rows: m.Rows,
		Cols: m.Cols,
		Data: make([]float64, len(m.Data)),
	}
	copy(c.Data, m.Data)
	return c
}

// CopyColumns returns a copy of columns [begin, end) of m with fresh
// storage. Requires 0 <= begin < end <= m.Cols.
func (m *Matrix) CopyColumns(begin, end int) (*Matrix, error) {
	if begin < 0 || begin >= end || end > m.Cols {
		return nil, errors.NewValidationError("begin/end",
			"column range must satisfy 0 <= begin < end <= cols", [2]int{begin, end})
	}
	c := New(m.Rows, end-begin)
	copy(c.Data, m.Data[begin*m.Rows:end*m.Rows])
	return c, nil
}

// Transpose returns a new matrix equal to m with rows and columns
// swapped.
func (m *Matrix) Transpose() *Matrix {
	t := New(m.Cols, m.Rows)
	for i := 0; i < t.Rows; i++ {
		for j := 0; j < t.Cols; j++ {
			t.Set(i, j, m.At(j, i))
		}
	}
	return t
}

// Add adds b to m in place. The shapes must match.
func (m *Matrix) Add(b *Matrix) error {
	if m.Rows != b.Rows {
		return errors.NewDimensionError("Matrix.Add", m.Rows, b.Rows, 0)
	}
	if m.Cols != b.Cols {
		return errors.NewDimensionError("Matrix.Add", m.Cols, b.Cols, 1)
	}
	for i := range m.Data {
		m.Data[i] += b.Data[i]
	}
	return nil
}

// Subtract subtracts b from m in place. The shapes must match.
func (m *Matrix) Subtract(b *Matrix) error {
	if m.Rows != b.Rows {
		return errors.NewDimensionError("Matrix.Subtract", m.Rows, b.Rows, 0)
	}
	if m.Cols != b.Cols {
		return errors.NewDimensionError("Matrix.Subtract", m.Cols, b.Cols, 1)
	}
	for i := range m.Data {
		m.Data[i] -= b.Data[i]
	}
	return nil
}

// SubtractColumns subtracts the column vector a from every column of m
// in place. This is how the mean face is removed from an image matrix.
func (m *Matrix) SubtractColumns(a *Matrix) error {
	if a.Rows != m.Rows {
		return errors.NewDimensionError("Matrix.SubtractColumns", m.Rows, a.Rows, 0)
	}
	if a.Cols != 1 {
		return errors.NewDimensionError("Matrix.SubtractColumns", 1, a.Cols, 1)
	}
	for j := 0; j < m.Cols; j++ {
		col := m.Data[j*m.Rows : (j+1)*m.Rows]
		for i := range col {
			col[i] -= a.Data[i]
		}
	}
	return nil
}

// MeanColumn returns the arithmetic mean across columns as a single
// column vector.
func (m *Matrix) MeanColumn() *Matrix {
	a := New(m.Rows, 1)
	for j := 0; j < m.Cols; j++ {
		col := m.Data[j*m.Rows : (j+1)*m.Rows]
		for i := range col {
			a.Data[i] += col[i]
		}
	}
	for i := range a.Data {
		a.Data[i] /= float64(m.Cols)
	}
	return a
}

// Scale multiplies every element by c in place.
func (m *Matrix) Scale(c float64) {
	for i := range m.Data {
		m.Data[i] *= c
	}
}

// AddScalar adds x to every element in place.
func (m *Matrix) AddScalar(x float64) {
	for i := range m.Data {
		m.Data[i] += x
	}
}

// Pow raises every element to the power p in place.
func (m *Matrix) Pow(p float64) {
	for i := range m.Data {
		m.Data[i] = math.Pow(m.Data[i], p)
	}
}

// DivideInto replaces every element e with c / e in place.
func (m *Matrix) DivideInto(c float64) {
	for i := range m.Data {
		m.Data[i] = c / m.Data[i]
	}
}

// ACos applies the arc cosine to every element in place.
func (m *Matrix) ACos() {
	for i := range m.Data {
		m.Data[i] = math.Acos(m.Data[i])
	}
}

// SqrtElems applies the square root to every element in place.
func (m *Matrix) SqrtElems() {
	for i := range m.Data {
		m.Data[i] = math.Sqrt(m.Data[i])
	}
}

// Exp raises e to every element in place.
func (m *Matrix) Exp() {
	for i := range m.Data {
		m.Data[i] = math.Exp(m.Data[i])
	}
}

// Negate negates every element in place.
func (m *Matrix) Negate() {
	for i := range m.Data {
		m.Data[i] = -m.Data[i]
	}
}

// Truncate rounds every element toward zero in place.
func (m *Matrix) Truncate() {
	for i := range m.Data {
		m.Data[i] = math.Trunc(m.Data[i])
	}
}

// Normalize rescales all elements to [0, 1] in place using the global
// minimum and maximum over the whole matrix.
func (m *Matrix) Normalize() {
	if len(m.Data) == 0 {
		return
	}
	min, max := m.Data[0], m.Data[0]
	for _, v := range m.Data {
		if v < min {
			min = v
		}
		if v > max {
			max = v
		}
	}
	span := max - min
	if span == 0 {
		// constant matrix; map everything to 0 rather than dividing by zero
		for i := range m.Data {
			m.Data[i] = 0
		}
		return
	}
	for i := range m.Data {
		m.Data[i] = (m.Data[i] - min) / span
	}
}

// FlipColumns mirrors the matrix left to right in place.
func (m *Matrix) FlipColumns() {
	for j := 0; j < m.Cols/2; j++ {
		a := m.Data[j*m.Rows : (j+1)*m.Rows]
		k := m.Cols - j - 1
		b := m.Data[k*m.Rows : (k+1)*m.Rows]
		for i := range a {
			a[i], b[i] = b[i], a[i]
		}
	}
}

// SumColumns sums each column and returns the result as a 1 x cols row
// vector.
func (m *Matrix) SumColumns() *Matrix {
	r := New(1, m.Cols)
	for j := 0; j < m.Cols; j++ {
		col := m.Data[j*m.Rows : (j+1)*m.Rows]
		sum := 0.0
		for _, v := range col {
			sum += v
		}
		r.Data[j] = sum
	}
	return r
}

// SumRows sums each row and returns the result as a rows x 1 column
// vector.
func (m *Matrix) SumRows() *Matrix {
	r := New(m.Rows, 1)
	for j := 0; j < m.Cols; j++ {
		col := m.Data[j*m.Rows : (j+1)*m.Rows]
		for i := range col {
			r.Data[i] += col[i]
		}
	}
	return r
}

// Reshape returns a new rows x cols matrix with the same elements in
// row-major traversal order. The element count must be preserved.
func (m *Matrix) Reshape(rows, cols int) (*Matrix, error) {
	if rows*cols != m.Rows*m.Cols {
		return nil, errors.NewDimensionError("Matrix.Reshape", m.Rows*m.Cols, rows*cols, 0)
	}
	r := New(rows, cols)
	for i := 0; i < rows*cols; i++ {
		r.Set(i/cols, i%cols, m.At(i/m.Cols, i%m.Cols))
	}
	return r, nil
}

// FindNonZeros scans the matrix in row-major order and returns a
// (rows*cols) x 1 column vector whose leading entries are the 1-based
// row indices of the non-zero elements, zero padded.
func (m *Matrix) FindNonZeros() *Matrix {
	r := New(m.Rows*m.Cols, 1)
	count := 0
	for i := 0; i < m.Rows; i++ {
		for j := 0; j < m.Cols; j++ {
			if m.At(i, j) != 0 {
				r.Data[count] = float64(i + 1)
				count++
			}
		}
	}
	return r
}

// ReorderColumns returns a new matrix whose column j is column v[0, j]
// of m. v must be a 1 x cols vector holding a permutation of
// 0..cols-1; a duplicated or out-of-range index is rejected.
func (m *Matrix) ReorderColumns(v *Matrix) (*Matrix, error) {
	if v.Rows != 1 {
		return nil, errors.NewDimensionError("Matrix.ReorderColumns", 1, v.Rows, 0)
	}
	if v.Cols != m.Cols {
		return nil, errors.NewDimensionError("Matrix.ReorderColumns", m.Cols, v.Cols, 1)
	}

	seen := make([]bool, m.Cols)
	for j := 0; j < v.Cols; j++ {
		idx := int(v.Data[j])
		if idx < 0 || idx >= m.Cols || seen[idx] {
			return nil, errors.NewValidationError("v",
				"index vector must be a permutation of the column indices", idx)
		}
		seen[idx] = true
	}

	r := New(m.Rows, m.Cols)
	for j := 0; j < m.Cols; j++ {
		src := int(v.Data[j])
		copy(r.Data[j*r.Rows:(j+1)*r.Rows], m.Data[src*m.Rows:(src+1)*m.Rows])
	}
	return r, nil
}

// ApproxEqual reports whether m and b have the same shape and all
// elements within tol of each other.
func (m *Matrix) ApproxEqual(b *Matrix, tol float64) bool {
	if m.Rows != b.Rows || m.Cols != b.Cols {
		return false
	}
	for i := range m.Data {
		if math.Abs(m.Data[i]-b.Data[i]) > tol {
			return false
		}
	}
	return true
}
