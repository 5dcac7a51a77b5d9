// Package kkt builds the sensitivity linear system: the Jacobian of the
// conic optimality residual at a fixed optimal point, plus the two data
// contractions (forward right-hand side, adjoint data gradient) that
// connect the system to perturbations of (A, b, c).
//
// The residual map, with variables ordered x | y | s, is
//
//	R(x, y, s) = ( A x + s − b,  A^T y + c,  s − Π_K(s − y) )
//
// where Π_K projects onto the product cone. By the Moreau decomposition
// the last block vanishing is equivalent to s ∈ K, y ∈ K*, ⟨y, s⟩ = 0,
// so R = 0 captures all optimality conditions at once. The Jacobian with
// respect to (x, y, s) is the square operator of size n+2m
//
//	M = [ A   0    I   ]
//	    [ 0   A^T  0   ]
//	    [ 0   D    I−D ]      D = DΠ_K(s − y), block diagonal per cone.
package kkt

import (
	"gonum.org/v1/gonum/mat"

	"github.com/conediff/conediff/internal/conic"
)

// Size returns the order of the sensitivity system for data: n + 2m.
func Size(data *conic.ProblemData) int {
	m, n := data.Dims()
	return n + 2*m
}

// Build assembles the Jacobian M at point. It is a pure function of its
// inputs: same (data, point) always yields the same matrix. Build does
// not detect degeneracy; a singular M is the linear solver's to report.
func Build(data *conic.ProblemData, point *conic.OptimalPoint) (*mat.Dense, error) {
	m, n := data.Dims()
	dim := n + 2*m
	sys := mat.NewDense(dim, dim, nil)

	// Primal feasibility rows: [ A  0  I ].
	data.A().AddScatter(sys, 0, 0)
	for i := 0; i < m; i++ {
		sys.Set(i, n+m+i, 1)
	}

	// Stationarity rows: [ 0  A^T  0 ].
	data.A().Do(func(i, j int, v float64) {
		sys.Set(m+j, n+i, sys.At(m+j, n+i)+v)
	})

	// Complementarity rows: [ 0  D  I−D ] at v = s − y.
	v := make([]float64, m)
	for i := 0; i < m; i++ {
		v[i] = point.S()[i] - point.Y()[i]
	}
	off := 0
	for _, blk := range data.Cones() {
		q := blk.Rows()
		jac, err := blk.ProjJacobian(v[off : off+q])
		if err != nil {
			return nil, err
		}
		for i := 0; i < q; i++ {
			row := m + n + off + i
			for j := 0; j < q; j++ {
				d := jac.At(i, j)
				sys.Set(row, n+off+j, d)
				sys.Set(row, n+m+off+j, -d)
			}
			sys.Set(row, n+m+off+i, sys.At(row, n+m+off+i)+1)
		}
		off += q
	}
	return sys, nil
}

// ForwardRHS writes the forward-mode right-hand side for pert into dst:
// the negative partial derivative of the residual with respect to data,
// contracted with (dA, db, dc). dst must have length Size(data).
//
//	dst = ( db − dA·x,  −dA^T·y − dc,  0 )
func ForwardRHS(dst []float64, data *conic.ProblemData, point *conic.OptimalPoint, pert conic.Perturbation) {
	m, n := data.Dims()
	if len(dst) != n+2*m {
		panic("kkt: rhs length mismatch")
	}
	for i := range dst {
		dst[i] = 0
	}
	if pert.DB != nil {
		copy(dst[:m], pert.DB)
	}
	if pert.DC != nil {
		for j := 0; j < n; j++ {
			dst[m+j] = -pert.DC[j]
		}
	}
	if pert.DA != nil {
		pert.DA.Do(func(i, j int, v float64) {
			dst[i] -= v * point.X()[j]
			dst[m+j] -= v * point.Y()[i]
		})
	}
}

// DataGradient contracts an adjoint solution w of M^T w = target back to
// data space. Splitting w by equation blocks into (w1, w2, w3) of sizes
// (m, n, m), the gradient of ⟨target, solution⟩ with respect to the data
// is
//
//	dA = −(w1·x^T + y·w2^T),   db = w1,   dc = −w2.
//
// w3 multiplies the complementarity rows, which do not touch the data.
func DataGradient(w []float64, data *conic.ProblemData, point *conic.OptimalPoint) (da *mat.Dense, db, dc []float64) {
	m, n := data.Dims()
	if len(w) != n+2*m {
		panic("kkt: adjoint length mismatch")
	}
	w1, w2 := w[:m], w[m:m+n]

	da = mat.NewDense(m, n, nil)
	for i := 0; i < m; i++ {
		for j := 0; j < n; j++ {
			da.Set(i, j, -(w1[i]*point.X()[j] + point.Y()[i]*w2[j]))
		}
	}
	db = append([]float64(nil), w1...)
	dc = make([]float64, n)
	for j := 0; j < n; j++ {
		dc[j] = -w2[j]
	}
	return da, db, dc
}
