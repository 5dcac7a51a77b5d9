// Package sparse provides a minimal triplet (COO) matrix used for the
// constraint matrix A and for sparse data perturbations dA.
//
// The format favors cheap construction and matrix-vector products over
// random access: entries are stored in insertion order and duplicate
// (i, j) entries accumulate.
package sparse

import "gonum.org/v1/gonum/mat"

type triplet struct {
	i, j int
	v    float64
}

// Matrix is a sparse matrix in coordinate (triplet) form.
type Matrix struct {
	r, c int
	data []triplet
}

// New returns an empty r×c matrix.
func New(r, c int) *Matrix {
	return &Matrix{r: r, c: c}
}

// FromDense copies the nonzero entries of d into a new triplet matrix.
func FromDense(d mat.Matrix) *Matrix {
	r, c := d.Dims()
	m := New(r, c)
	for i := 0; i < r; i++ {
		for j := 0; j < c; j++ {
			if v := d.At(i, j); v != 0 {
				m.Append(i, j, v)
			}
		}
	}
	return m
}

// Dims returns the matrix dimensions.
func (m *Matrix) Dims() (r, c int) {
	return m.r, m.c
}

// NNZ returns the number of stored entries (duplicates counted).
func (m *Matrix) NNZ() int {
	return len(m.data)
}

// Append adds v at (i, j). Duplicate positions accumulate on use.
func (m *Matrix) Append(i, j int, v float64) {
	if i < 0 || m.r <= i {
		panic("sparse: row index out of range")
	}
	if j < 0 || m.c <= j {
		panic("sparse: column index out of range")
	}
	m.data = append(m.data, triplet{i, j, v})
}

// Clone returns a deep copy.
func (m *Matrix) Clone() *Matrix {
	out := &Matrix{r: m.r, c: m.c, data: make([]triplet, len(m.data))}
	copy(out.data, m.data)
	return out
}

// MulVec computes dst = M * x.
func (m *Matrix) MulVec(dst, x []float64) {
	if m.c != len(x) || m.r != len(dst) {
		panic("sparse: dimension mismatch")
	}
	for i := range dst {
		dst[i] = 0
	}
	for _, aij := range m.data {
		dst[aij.i] += aij.v * x[aij.j]
	}
}

// MulTransVec computes dst = M^T * x.
func (m *Matrix) MulTransVec(dst, x []float64) {
	if m.c != len(dst) || m.r != len(x) {
		panic("sparse: dimension mismatch")
	}
	for i := range dst {
		dst[i] = 0
	}
	for _, aij := range m.data {
		dst[aij.j] += aij.v * x[aij.i]
	}
}

// AddScatter adds M into the dense block of dst anchored at (row, col).
func (m *Matrix) AddScatter(dst *mat.Dense, row, col int) {
	for _, aij := range m.data {
		i, j := row+aij.i, col+aij.j
		dst.Set(i, j, dst.At(i, j)+aij.v)
	}
}

// Do calls fn for every stored entry in insertion order.
func (m *Matrix) Do(fn func(i, j int, v float64)) {
	for _, aij := range m.data {
		fn(aij.i, aij.j, aij.v)
	}
}

// Dense materializes the matrix, accumulating duplicates.
func (m *Matrix) Dense() *mat.Dense {
	out := mat.NewDense(m.r, m.c, nil)
	m.AddScatter(out, 0, 0)
	return out
}
