package sensitivity

import (
	"github.com/conediff/conediff/internal/conic"
	"github.com/conediff/conediff/internal/kkt"
)

// Result is a forward-mode sensitivity: the directional derivative of
// the optimal (x, y, s) along the queried data perturbation. All three
// vectors are dense and fully shaped, even for sparse perturbations.
type Result struct {
	DX []float64
	DY []float64
	DS []float64
}

// Forward returns the solution sensitivity (dx, dy, ds) for the data
// perturbation (dA, db, dc). Nil perturbation fields are zero.
//
// The call is side-effect-free apart from lazily building the cached
// factorization on first use: repeated calls with one perturbation
// return the same result, and concurrent calls with different
// perturbations do not interfere.
func (s *Session) Forward(pert conic.Perturbation) (Result, error) {
	solver, data, point, release, err := s.snapshot(pert.Validate)
	if err != nil {
		return Result{}, err
	}
	defer release()

	m, n := data.Dims()
	rhs := make([]float64, kkt.Size(data))
	kkt.ForwardRHS(rhs, data, point, pert)

	z := make([]float64, len(rhs))
	if err := solver.Solve(z, rhs); err != nil {
		return Result{}, err
	}
	return Result{
		DX: z[:n:n],
		DY: z[n : n+m : n+m],
		DS: z[n+m:],
	}, nil
}
