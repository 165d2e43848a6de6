package matrix

import (
	"math"
	"testing"
)

func TestProduct(t *testing.T) {
	t.Run("row times column", func(t *testing.T) {
		row, _ := NewFromRows(1, 4, []float64{1, 1, 0, 0})
		col, _ := NewFromRows(4, 1, []float64{1, 2, 3, 4})

		p, err := Product(row, col)
		if err != nil {
			t.Fatalf("Product() error = %v", err)
		}
		if p.Rows != 1 || p.Cols != 1 || p.Data[0] != 3 {
			t.Errorf("Product = %dx%d %v, want 1x1 [3]", p.Rows, p.Cols, p.Data)
		}
	})

	t.Run("outer product", func(t *testing.T) {
		col, _ := NewFromRows(4, 1, []float64{1, 2, 3, 4})
		row, _ := NewFromRows(1, 4, []float64{1, 1, 0, 0})

		p, err := Product(col, row)
		if err != nil {
			t.Fatalf("Product() error = %v", err)
		}
		want, _ := NewFromRows(4, 4, []float64{
			1, 1, 0, 0,
			2, 2, 0, 0,
			3, 3, 0, 0,
			4, 4, 0, 0,
		})
		if !p.ApproxEqual(want, 0) {
			t.Error("outer product mismatch")
		}
	})

	t.Run("identity is neutral", func(t *testing.T) {
		a, _ := NewFromRows(2, 2, []float64{1, 2, 3, 4})
		p, err := Product(Identity(2), a)
		if err != nil {
			t.Fatalf("Product() error = %v", err)
		}
		if !p.ApproxEqual(a, 1e-12) {
			t.Error("I*A != A")
		}
	})

	t.Run("inner dimension mismatch", func(t *testing.T) {
		a := New(2, 3)
		b := New(2, 3)
		if _, err := Product(a, b); err == nil {
			t.Error("expected error for 2x3 * 2x3")
		}
	})
}

func TestInverse(t *testing.T) {
	m, _ := NewFromRows(2, 2, []float64{
		4, 7,
		2, 6,
	})

	inv, err := m.Inverse()
	if err != nil {
		t.Fatalf("Inverse() error = %v", err)
	}

	p, err := Product(m, inv)
	if err != nil {
		t.Fatalf("Product() error = %v", err)
	}
	if !p.ApproxEqual(Identity(2), 1e-10) {
		t.Error("M * M^-1 != I")
	}
}

func TestInverseSingular(t *testing.T) {
	m, _ := NewFromRows(2, 2, []float64{
		1, 2,
		2, 4,
	})
	if _, err := m.Inverse(); err == nil {
		t.Error("Inverse() of a singular matrix: expected error")
	}
}

func TestInverseNonSquare(t *testing.T) {
	if _, err := New(2, 3).Inverse(); err == nil {
		t.Error("Inverse() of a non-square matrix: expected error")
	}
}

func TestEigenSymmetric(t *testing.T) {
	// spectrum {3, 1} with eigenvectors (1,1)/sqrt2 and (1,-1)/sqrt2
	m, _ := NewFromRows(2, 2, []float64{
		2, 1,
		1, 2,
	})

	eval, evec, err := m.Eigen()
	if err != nil {
		t.Fatalf("Eigen() error = %v", err)
	}
	if eval.Rows != 2 || eval.Cols != 1 {
		t.Fatalf("eval dims = %dx%d, want 2x1", eval.Rows, eval.Cols)
	}
	if evec.Rows != 2 || evec.Cols != 2 {
		t.Fatalf("evec dims = %dx%d, want 2x2", evec.Rows, evec.Cols)
	}

	// A*v = lambda*v for each pair, regardless of output order
	for j := 0; j < 2; j++ {
		v, err := evec.CopyColumns(j, j+1)
		if err != nil {
			t.Fatal(err)
		}
		av, err := Product(m, v)
		if err != nil {
			t.Fatal(err)
		}
		lv := v.Copy()
		lv.Scale(eval.Data[j])
		if !av.ApproxEqual(lv, 1e-10) {
			t.Errorf("eigenpair %d: A*v != lambda*v", j)
		}
	}

	got := []float64{eval.Data[0], eval.Data[1]}
	if got[0] < got[1] {
		got[0], got[1] = got[1], got[0]
	}
	if math.Abs(got[0]-3) > 1e-10 || math.Abs(got[1]-1) > 1e-10 {
		t.Errorf("eigenvalues = %v, want {3, 1}", got)
	}
}

func TestSqrtm(t *testing.T) {
	m, _ := NewFromRows(2, 2, []float64{
		2, 1,
		1, 2,
	})

	s, err := m.Sqrtm()
	if err != nil {
		t.Fatalf("Sqrtm() error = %v", err)
	}

	sq, err := Product(s, s)
	if err != nil {
		t.Fatal(err)
	}
	if !sq.ApproxEqual(m, 1e-10) {
		t.Error("Sqrtm(M)^2 != M")
	}
}

func TestSqrtmIdentity(t *testing.T) {
	s, err := Identity(3).Sqrtm()
	if err != nil {
		t.Fatalf("Sqrtm() error = %v", err)
	}
	if !s.ApproxEqual(Identity(3), 1e-10) {
		t.Error("sqrt(I) != I")
	}
}

func TestCovariance(t *testing.T) {
	// two variables observed three times
	m, _ := NewFromRows(2, 3, []float64{
		1, 2, 3,
		2, 4, 6,
	})

	c, err := m.Covariance()
	if err != nil {
		t.Fatalf("Covariance() error = %v", err)
	}
	if c.Rows != 2 || c.Cols != 2 {
		t.Fatalf("Covariance dims = %dx%d, want 2x2", c.Rows, c.Cols)
	}

	// var(x) = 1, var(y) = 4, cov(x, y) = 2 with the n-1 denominator
	want, _ := NewFromRows(2, 2, []float64{
		1, 2,
		2, 4,
	})
	if !c.ApproxEqual(want, 1e-10) {
		t.Error("Covariance() result mismatch")
	}
}

func TestCovarianceSingleColumn(t *testing.T) {
	m, _ := NewFromRows(2, 1, []float64{3, 5})

	// a single observation has zero deviation; the max(cols-1, 1)
	// denominator must not divide by zero
	c, err := m.Covariance()
	if err != nil {
		t.Fatalf("Covariance() error = %v", err)
	}
	if !c.ApproxEqual(New(2, 2), 0) {
		t.Error("Covariance of one column should be the zero matrix")
	}
}
