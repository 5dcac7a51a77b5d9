// Package linsolve factorizes the sensitivity system once and answers
// repeated solves, plain and transposed, against that one factorization.
//
// The default path is a dense LU with a reciprocal-condition guard: a
// system conditioned beyond tolerance is reported as ErrSingular instead
// of returning a garbage vector. An iterative fallback (CG on the normal
// equations) with a fixed iteration cap is available for systems too
// large or too expensive to factorize densely.
//
// A factorization is immutable once Factorize succeeds, and every solve
// uses its own workspace, so concurrent solves against one factorization
// are safe.
package linsolve

import (
	"errors"
	"fmt"

	"gonum.org/v1/gonum/mat"
)

var (
	// ErrSingular reports a numerically singular or hopelessly
	// ill-conditioned system: the solution point is not differentiable
	// (degenerate KKT system).
	ErrSingular = errors.New("linsolve: system is singular or ill-conditioned")

	// ErrNotFactorized reports a solve requested before a successful
	// Factorize.
	ErrNotFactorized = errors.New("linsolve: solve called before successful factorize")

	// ErrIterationLimit reports that the iterative fallback hit its
	// iteration cap before reaching the residual tolerance.
	ErrIterationLimit = errors.New("linsolve: iteration limit reached before convergence")
)

const (
	// defaultCondTol is the reciprocal-condition threshold below which
	// a factorization is declared singular.
	defaultCondTol = 1e-12
	// defaultResidTol is the relative residual tolerance of the
	// iterative fallback.
	defaultResidTol = 1e-10
)

// Options configures a Solver. The zero value selects the dense LU path
// with default tolerances.
type Options struct {
	// CondTol is the reciprocal-condition-number tolerance: the LU path
	// fails with ErrSingular when 1/cond(M) falls below it. Zero means
	// the default.
	CondTol float64

	// Iterative selects CG on the normal equations instead of LU.
	Iterative bool

	// MaxIter caps fallback iterations. Zero means 10·dim.
	MaxIter int

	// Tol is the fallback's relative residual tolerance. Zero means
	// the default.
	Tol float64
}

func (o Options) condTol() float64 {
	if o.CondTol > 0 {
		return o.CondTol
	}
	return defaultCondTol
}

func (o Options) residTol() float64 {
	if o.Tol > 0 {
		return o.Tol
	}
	return defaultResidTol
}

func (o Options) maxIter(dim int) int {
	if o.MaxIter > 0 {
		return o.MaxIter
	}
	return 10 * dim
}

// Solver holds one factorization of a square system M and solves
// M z = r and M^T z = r for many right-hand sides.
type Solver struct {
	opts Options
	dim  int

	lu *mat.LU    // dense path; nil when iterative
	m  *mat.Dense // iterative path: private copy of M

	factorized bool
}

// New returns an unfactorized solver.
func New(opts Options) *Solver {
	return &Solver{opts: opts}
}

// Factorize decomposes the square matrix m. On the LU path it fails with
// ErrSingular when the reciprocal condition number is below tolerance;
// on the iterative path it only snapshots the operator. A failed
// Factorize leaves the solver unfactorized.
func (s *Solver) Factorize(m *mat.Dense) error {
	r, c := m.Dims()
	if r != c {
		return fmt.Errorf("linsolve: system must be square, got %d×%d", r, c)
	}
	s.factorized = false
	s.dim = r

	if s.opts.Iterative {
		s.m = mat.DenseCopyOf(m)
		s.lu = nil
		s.factorized = true
		return nil
	}

	var lu mat.LU
	lu.Factorize(m)
	if cond := lu.Cond(); cond > 1/s.opts.condTol() {
		return fmt.Errorf("%w: rcond %.3e below tolerance %.1e", ErrSingular, 1/cond, s.opts.condTol())
	}
	s.lu = &lu
	s.m = nil
	s.factorized = true
	return nil
}

// Factorized reports whether a successful Factorize has run.
func (s *Solver) Factorized() bool { return s.factorized }

// Dim returns the order of the factorized system, 0 if none.
func (s *Solver) Dim() int { return s.dim }

// Solve computes dst = M⁻¹ r.
func (s *Solver) Solve(dst, r []float64) error {
	return s.solve(dst, r, false)
}

// SolveTrans computes dst = M⁻ᵀ r.
func (s *Solver) SolveTrans(dst, r []float64) error {
	return s.solve(dst, r, true)
}

func (s *Solver) solve(dst, r []float64, trans bool) error {
	if !s.factorized {
		return ErrNotFactorized
	}
	if len(dst) != s.dim || len(r) != s.dim {
		return fmt.Errorf("linsolve: right-hand side length %d, want %d", len(r), s.dim)
	}
	if s.lu != nil {
		dv := mat.NewVecDense(s.dim, dst)
		if err := s.lu.SolveVecTo(dv, trans, mat.NewVecDense(s.dim, append([]float64(nil), r...))); err != nil {
			return fmt.Errorf("%w: %v", ErrSingular, err)
		}
		return nil
	}
	return s.cgne(dst, r, trans)
}
