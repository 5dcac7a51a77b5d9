package cone

import (
	"errors"
	"math"

	"gonum.org/v1/gonum/mat"
)

// The PSD cone lives in svec coordinates: the lower triangle of a p×p
// symmetric matrix stacked column-major, with off-diagonal entries scaled
// by √2 so that the Euclidean inner product of two svec vectors equals
// the Frobenius inner product of the corresponding matrices.

var sqrt2 = math.Sqrt2

var errEigen = errors.New("cone: symmetric eigendecomposition failed")

// symFromSvec unpacks an svec vector of length p(p+1)/2 into a SymDense.
func symFromSvec(v []float64, p int) *mat.SymDense {
	s := mat.NewSymDense(p, nil)
	k := 0
	for j := 0; j < p; j++ {
		s.SetSym(j, j, v[k])
		k++
		for i := j + 1; i < p; i++ {
			s.SetSym(i, j, v[k]/sqrt2)
			k++
		}
	}
	return s
}

// svecFromSym packs the symmetric matrix s into svec coordinates.
func svecFromSym(dst []float64, s mat.Symmetric) {
	p := s.SymmetricDim()
	k := 0
	for j := 0; j < p; j++ {
		dst[k] = s.At(j, j)
		k++
		for i := j + 1; i < p; i++ {
			dst[k] = sqrt2 * s.At(i, j)
			k++
		}
	}
}

// eigPSD computes the spectral decomposition of svec vector v.
func eigPSD(v []float64, p int) (q *mat.Dense, vals []float64, err error) {
	var es mat.EigenSym
	if ok := es.Factorize(symFromSvec(v, p), true); !ok {
		return nil, nil, errEigen
	}
	q = mat.NewDense(p, p, nil)
	es.VectorsTo(q)
	return q, es.Values(nil), nil
}

// projPSD projects v onto the PSD cone by clipping negative eigenvalues.
func projPSD(dst, v []float64, p int) error {
	q, vals, err := eigPSD(v, p)
	if err != nil {
		return err
	}
	proj := mat.NewSymDense(p, nil)
	for i := 0; i < p; i++ {
		for j := i; j < p; j++ {
			s := 0.0
			for k, lk := range vals {
				if lk > 0 {
					s += lk * q.At(i, k) * q.At(j, k)
				}
			}
			proj.SetSym(i, j, s)
		}
	}
	svecFromSym(dst, proj)
	return nil
}

// psdJacobian writes the Jacobian of the PSD projection at v, in svec
// coordinates, into jac (q×q with q = p(p+1)/2).
//
// For V = QΛQ^T the directional derivative is
// DΠ(V)[H] = Q (B ∘ Q^T H Q) Q^T with the divided-difference matrix
// B_ij = (λi⁺ − λj⁺)/(λi − λj), taken as the indicator λi > 0 when
// λi = λj. Since svec is an isometry, applying the formula to each svec
// basis direction yields the Jacobian columns directly.
func psdJacobian(jac *mat.Dense, v []float64, p int) error {
	q, vals, err := eigPSD(v, p)
	if err != nil {
		return err
	}
	b := mat.NewDense(p, p, nil)
	for i := 0; i < p; i++ {
		for j := 0; j < p; j++ {
			li, lj := vals[i], vals[j]
			switch {
			case li == lj:
				if li > 0 {
					b.Set(i, j, 1)
				}
			default:
				b.Set(i, j, (math.Max(li, 0)-math.Max(lj, 0))/(li-lj))
			}
		}
	}

	dim := p * (p + 1) / 2
	basis := make([]float64, dim)
	var w, tmp mat.Dense
	col := make([]float64, dim)
	for k := 0; k < dim; k++ {
		basis[k] = 1
		h := symFromSvec(basis, p)
		basis[k] = 0

		// w = B ∘ (Q^T H Q)
		tmp.Mul(q.T(), h)
		w.Mul(&tmp, q)
		w.MulElem(&w, b)
		// tmp = Q W Q^T
		tmp.Mul(q, &w)
		w.Mul(&tmp, q.T())

		sym := mat.NewSymDense(p, nil)
		for i := 0; i < p; i++ {
			for j := i; j < p; j++ {
				sym.SetSym(i, j, 0.5*(w.At(i, j)+w.At(j, i)))
			}
		}
		svecFromSym(col, sym)
		for i := 0; i < dim; i++ {
			jac.Set(i, k, col[i])
		}
	}
	return nil
}
