package linsolve

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

// cgne solves B z = r with B = M (or M^T when trans is set) by running
// conjugate gradients on the normal equations B^T B z = B^T r. The
// normal-equations form tolerates the indefinite, non-symmetric M at the
// cost of squaring its conditioning; the iteration cap bounds the work.
func (s *Solver) cgne(dst, r []float64, trans bool) error {
	dim := s.dim
	op := mat.Matrix(s.m)
	if trans {
		op = s.m.T()
	}

	apply := func(dst *mat.VecDense, x *mat.VecDense, adjoint bool) {
		if adjoint {
			dst.MulVec(op.T(), x)
		} else {
			dst.MulVec(op, x)
		}
	}

	z := mat.NewVecDense(dim, dst)
	z.Zero()
	resid := mat.NewVecDense(dim, append([]float64(nil), r...))
	normR0 := mat.Norm(resid, 2)
	if normR0 == 0 {
		return nil
	}
	tol := s.opts.residTol() * math.Max(1, normR0)

	var p, sv, q mat.VecDense
	apply(&sv, resid, true)
	p.CloneFromVec(&sv)
	gamma := floats.Dot(sv.RawVector().Data, sv.RawVector().Data)

	maxIter := s.opts.maxIter(dim)
	for iter := 0; iter < maxIter; iter++ {
		apply(&q, &p, false)
		qq := floats.Dot(q.RawVector().Data, q.RawVector().Data)
		if qq == 0 {
			break
		}
		alpha := gamma / qq
		z.AddScaledVec(z, alpha, &p)
		resid.AddScaledVec(resid, -alpha, &q)
		if mat.Norm(resid, 2) <= tol {
			return nil
		}
		apply(&sv, resid, true)
		gammaNew := floats.Dot(sv.RawVector().Data, sv.RawVector().Data)
		beta := gammaNew / gamma
		gamma = gammaNew
		p.AddScaledVec(&sv, beta, &p)
	}
	if mat.Norm(resid, 2) <= tol {
		return nil
	}
	return fmt.Errorf("%w: residual %.3e after %d iterations (tol %.3e)",
		ErrIterationLimit, mat.Norm(resid, 2), maxIter, tol)
}
