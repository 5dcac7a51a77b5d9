package sensitivity

import (
	"fmt"

	"gonum.org/v1/gonum/mat"

	"github.com/conediff/conediff/internal/conic"
	"github.com/conediff/conediff/internal/kkt"
)

// Target is a direction in solution space for backward mode: the
// gradient of some scalar with respect to (x, y, s). Nil fields are
// zero.
type Target struct {
	DX []float64
	DY []float64
	DS []float64
}

func (t Target) validate(data *conic.ProblemData) error {
	m, n := data.Dims()
	if t.DX != nil && len(t.DX) != n {
		return fmt.Errorf("%w: dx target has length %d, want %d", conic.ErrDimension, len(t.DX), n)
	}
	if t.DY != nil && len(t.DY) != m {
		return fmt.Errorf("%w: dy target has length %d, want %d", conic.ErrDimension, len(t.DY), m)
	}
	if t.DS != nil && len(t.DS) != m {
		return fmt.Errorf("%w: ds target has length %d, want %d", conic.ErrDimension, len(t.DS), m)
	}
	return nil
}

// DataGradient is an adjoint sensitivity: the gradient with respect to
// the problem data of ⟨target, solution⟩. Dense and fully shaped.
type DataGradient struct {
	DA *mat.Dense
	DB []float64
	DC []float64
}

// Backward returns the adjoint sensitivity of target with respect to
// (A, b, c), via a transpose solve against the same factorization
// forward mode uses. It satisfies the adjoint identity
// ⟨Backward(u), d⟩ = ⟨u, Forward(d)⟩ for every direction pair.
func (s *Session) Backward(target Target) (DataGradient, error) {
	solver, data, point, release, err := s.snapshot(target.validate)
	if err != nil {
		return DataGradient{}, err
	}
	defer release()

	m, n := data.Dims()
	rhs := make([]float64, kkt.Size(data))
	if target.DX != nil {
		copy(rhs[:n], target.DX)
	}
	if target.DY != nil {
		copy(rhs[n:n+m], target.DY)
	}
	if target.DS != nil {
		copy(rhs[n+m:], target.DS)
	}

	w := make([]float64, len(rhs))
	if err := solver.SolveTrans(w, rhs); err != nil {
		return DataGradient{}, err
	}
	da, db, dc := kkt.DataGradient(w, data, point)
	return DataGradient{DA: da, DB: db, DC: dc}, nil
}
