package cone

import (
	"math"
)

// Project writes the Euclidean projection of v onto the block's cone
// into dst. dst and v must have length b.Rows(); they may alias.
func (b Block) Project(dst, v []float64) error {
	if err := b.Validate(); err != nil {
		return err
	}
	if len(dst) != b.Rows() || len(v) != b.Rows() {
		panic("cone: projection length mismatch")
	}
	switch b.Kind {
	case Zero:
		for i := range dst {
			dst[i] = 0
		}
	case Free:
		copy(dst, v)
	case Nonnegative:
		for i, vi := range v {
			dst[i] = math.Max(vi, 0)
		}
	case SecondOrder:
		projSOC(dst, v)
	case PSD:
		return projPSD(dst, v, b.Dim)
	}
	return nil
}

// ProjectDual writes the projection of v onto the dual cone into dst,
// using the Moreau identity Π_{K*}(v) = v + Π_K(−v). Zero and Free are
// each other's duals; the remaining kinds are self-dual.
func (b Block) ProjectDual(dst, v []float64) error {
	neg := make([]float64, len(v))
	for i, vi := range v {
		neg[i] = -vi
	}
	if err := b.Project(neg, neg); err != nil {
		return err
	}
	for i := range dst {
		dst[i] = v[i] + neg[i]
	}
	return nil
}

// Contains reports whether v is within tol of the cone, measured as the
// max-norm distance to its projection.
func (b Block) Contains(v []float64, tol float64) (bool, error) {
	p := make([]float64, len(v))
	if err := b.Project(p, v); err != nil {
		return false, err
	}
	for i := range v {
		if math.Abs(v[i]-p[i]) > tol {
			return false, nil
		}
	}
	return true, nil
}

// ContainsDual reports whether v is within tol of the dual cone.
func (b Block) ContainsDual(v []float64, tol float64) (bool, error) {
	p := make([]float64, len(v))
	if err := b.ProjectDual(p, v); err != nil {
		return false, err
	}
	for i := range v {
		if math.Abs(v[i]-p[i]) > tol {
			return false, nil
		}
	}
	return true, nil
}

// projSOC projects v = (t, z) onto the second-order cone.
func projSOC(dst, v []float64) {
	t := v[0]
	nz := norm2(v[1:])
	switch {
	case nz <= t:
		copy(dst, v)
	case nz <= -t:
		for i := range dst {
			dst[i] = 0
		}
	default:
		scale := (t + nz) / (2 * nz)
		dst[0] = (t + nz) / 2
		for i, zi := range v[1:] {
			dst[1+i] = scale * zi
		}
	}
}

func norm2(v []float64) float64 {
	s := 0.0
	for _, vi := range v {
		s += vi * vi
	}
	return math.Sqrt(s)
}

// ProjectProduct projects v onto the product cone described by blocks,
// block by block. dst and v must have length TotalRows(blocks).
func ProjectProduct(dst, v []float64, blocks []Block) error {
	if len(dst) != TotalRows(blocks) || len(v) != TotalRows(blocks) {
		panic("cone: product projection length mismatch")
	}
	off := 0
	for _, b := range blocks {
		q := b.Rows()
		if err := b.Project(dst[off:off+q], v[off:off+q]); err != nil {
			return err
		}
		off += q
	}
	return nil
}
