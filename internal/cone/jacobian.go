package cone

import (
	"gonum.org/v1/gonum/mat"
)

// ProjJacobian returns the Jacobian of the block's projection operator at
// v, as a dense Rows()×Rows() matrix. For Zero, Free and Nonnegative the
// Jacobian is a diagonal 0/1 mask computed without intermediate storage;
// for SecondOrder and PSD it is the structured dense formula.
//
// At points where the projection is not differentiable (an exactly-zero
// orthant entry, a second-order boundary ‖z‖ = |t|, a zero eigenvalue)
// the returned matrix is the one-sided derivative the projection formula
// itself takes.
func (b Block) ProjJacobian(v []float64) (*mat.Dense, error) {
	if err := b.Validate(); err != nil {
		return nil, err
	}
	q := b.Rows()
	if len(v) != q {
		panic("cone: jacobian length mismatch")
	}
	jac := mat.NewDense(q, q, nil)
	switch b.Kind {
	case Zero:
		// Projection is identically zero.
	case Free:
		for i := 0; i < q; i++ {
			jac.Set(i, i, 1)
		}
	case Nonnegative:
		for i, vi := range v {
			if vi > 0 {
				jac.Set(i, i, 1)
			}
		}
	case SecondOrder:
		socJacobian(jac, v)
	case PSD:
		if err := psdJacobian(jac, v, b.Dim); err != nil {
			return nil, err
		}
	}
	return jac, nil
}

// socJacobian writes the projection Jacobian at v = (t, z) into jac.
// Inside the cone it is the identity, inside the polar cone it is zero,
// and in between it is
//
//	1/2 · [ 1    u^T              ]        u = z/‖z‖, α = t/‖z‖.
//	      [ u    (1+α)I − α·u·u^T ]
func socJacobian(jac *mat.Dense, v []float64) {
	t := v[0]
	nz := norm2(v[1:])
	switch {
	case nz <= t:
		for i := 0; i < len(v); i++ {
			jac.Set(i, i, 1)
		}
	case nz <= -t:
		// Zero matrix.
	default:
		d := len(v) - 1
		alpha := t / nz
		jac.Set(0, 0, 0.5)
		for i := 0; i < d; i++ {
			ui := v[1+i] / nz
			jac.Set(0, 1+i, 0.5*ui)
			jac.Set(1+i, 0, 0.5*ui)
			for j := 0; j < d; j++ {
				uj := v[1+j] / nz
				e := -0.5 * alpha * ui * uj
				if i == j {
					e += 0.5 * (1 + alpha)
				}
				jac.Set(1+i, 1+j, e)
			}
		}
	}
}
