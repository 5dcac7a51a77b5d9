// Package conic defines the immutable problem snapshot the sensitivity
// engine differentiates: the data (A, b, c) of a conic program in the
// canonical form
//
//	minimize    c^T x
//	subject to  A x + s = b,  s ∈ K,
//
// together with the externally produced optimal point (x, y, s). The
// package validates shapes and cone layout at construction; numerical
// optimality of the point is a caller precondition, not something it
// verifies.
package conic

import (
	"errors"
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"

	"github.com/conediff/conediff/internal/cone"
	"github.com/conediff/conediff/internal/sparse"
)

// ErrDimension reports data, point or perturbation shapes that do not
// agree. It is raised eagerly, before any linear algebra runs.
var ErrDimension = errors.New("conic: dimension mismatch")

// ProblemData is an immutable snapshot of a conic program instance.
// Constraint rows are partitioned, in order, by the cone blocks: block k
// owns the contiguous row range starting where block k−1 ended.
type ProblemData struct {
	a     *sparse.Matrix
	b, c  []float64
	cones []cone.Block
}

// NewProblemData validates and deep-copies the instance data.
// The cone blocks must exactly cover the m constraint rows.
func NewProblemData(a *sparse.Matrix, b, c []float64, cones []cone.Block) (*ProblemData, error) {
	m, n := a.Dims()
	if len(b) != m {
		return nil, fmt.Errorf("%w: A has %d rows but b has length %d", ErrDimension, m, len(b))
	}
	if len(c) != n {
		return nil, fmt.Errorf("%w: A has %d columns but c has length %d", ErrDimension, n, len(c))
	}
	for i, blk := range cones {
		if err := blk.Validate(); err != nil {
			return nil, fmt.Errorf("cone block %d: %w", i, err)
		}
	}
	if rows := cone.TotalRows(cones); rows != m {
		return nil, fmt.Errorf("%w: cone blocks cover %d rows, constraint matrix has %d", ErrDimension, rows, m)
	}
	return &ProblemData{
		a:     a.Clone(),
		b:     append([]float64(nil), b...),
		c:     append([]float64(nil), c...),
		cones: append([]cone.Block(nil), cones...),
	}, nil
}

// Dims returns the number of constraint rows m and variables n.
func (p *ProblemData) Dims() (m, n int) {
	return p.a.Dims()
}

// A returns the constraint matrix. The returned matrix must not be
// mutated; callers needing a private copy should Clone it.
func (p *ProblemData) A() *sparse.Matrix { return p.a }

// B returns the right-hand side. Read-only by convention.
func (p *ProblemData) B() []float64 { return p.b }

// C returns the objective vector. Read-only by convention.
func (p *ProblemData) C() []float64 { return p.c }

// Cones returns the cone blocks in row order. Read-only by convention.
func (p *ProblemData) Cones() []cone.Block { return p.cones }

// OptimalPoint is a solver's primal/dual/slack output for one instance.
type OptimalPoint struct {
	x, y, s []float64
}

// NewOptimalPoint validates shapes against data and copies the vectors.
func NewOptimalPoint(data *ProblemData, x, y, s []float64) (*OptimalPoint, error) {
	m, n := data.Dims()
	if len(x) != n {
		return nil, fmt.Errorf("%w: primal x has length %d, want %d", ErrDimension, len(x), n)
	}
	if len(y) != m {
		return nil, fmt.Errorf("%w: dual y has length %d, want %d", ErrDimension, len(y), m)
	}
	if len(s) != m {
		return nil, fmt.Errorf("%w: slack s has length %d, want %d", ErrDimension, len(s), m)
	}
	return &OptimalPoint{
		x: append([]float64(nil), x...),
		y: append([]float64(nil), y...),
		s: append([]float64(nil), s...),
	}, nil
}

// X returns the primal vector. Read-only by convention.
func (p *OptimalPoint) X() []float64 { return p.x }

// Y returns the dual vector. Read-only by convention.
func (p *OptimalPoint) Y() []float64 { return p.y }

// S returns the slack vector. Read-only by convention.
func (p *OptimalPoint) S() []float64 { return p.s }

// Residuals reports how far the point is from satisfying the optimality
// conditions of data: the max-norms of A x + s − b and A^T y + c, and the
// complementarity gap |⟨y, s⟩|. Diagnostic only.
func (p *OptimalPoint) Residuals(data *ProblemData) (primal, dual, gap float64) {
	m, n := data.Dims()
	r := make([]float64, m)
	data.A().MulVec(r, p.x)
	for i := 0; i < m; i++ {
		primal = math.Max(primal, math.Abs(r[i]+p.s[i]-data.B()[i]))
	}
	rn := make([]float64, n)
	data.A().MulTransVec(rn, p.y)
	for j := 0; j < n; j++ {
		dual = math.Max(dual, math.Abs(rn[j]+data.C()[j]))
	}
	return primal, dual, math.Abs(floats.Dot(p.y, p.s))
}
