// Package cone enumerates the supported convex cones and exposes, per
// cone block, the Euclidean projection onto the cone, the projection onto
// the dual cone, and the Jacobian of the projection at a point. The
// Jacobians are the per-block ingredients of the KKT sensitivity system.
//
// A product cone is described as an ordered slice of Blocks whose row
// counts sum to the total number of constraint rows.
package cone

import (
	"errors"
	"fmt"
)

// Kind identifies a supported cone type.
type Kind int

const (
	// Zero is the cone {0}; its rows are equality constraints.
	Zero Kind = iota
	// Nonnegative is the nonnegative orthant.
	Nonnegative
	// SecondOrder is the Lorentz cone {(t, z) : ‖z‖₂ ≤ t}.
	SecondOrder
	// PSD is the cone of symmetric positive-semidefinite matrices in
	// scaled-vectorization (svec) coordinates.
	PSD
	// Free is all of ℝ^d; its rows are unconstrained.
	Free
)

// ErrUnsupportedCone reports a cone kind with no projection-derivative
// implementation. A build must fail on it: skipping the block would leave
// the sensitivity system missing rows.
var ErrUnsupportedCone = errors.New("cone: unsupported cone kind")

func (k Kind) String() string {
	switch k {
	case Zero:
		return "Zero"
	case Nonnegative:
		return "Nonnegative"
	case SecondOrder:
		return "SecondOrder"
	case PSD:
		return "PSD"
	case Free:
		return "Free"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// Block is one factor of a product cone.
//
// Dim is the intrinsic dimension of the factor: the vector length for
// Zero, Nonnegative, SecondOrder and Free, and the matrix side length for
// PSD. The number of constraint rows the block occupies is Rows.
type Block struct {
	Kind Kind
	Dim  int
}

// Rows returns the number of constraint rows the block spans.
// A PSD block of side p spans p(p+1)/2 rows (svec packing).
func (b Block) Rows() int {
	if b.Kind == PSD {
		return b.Dim * (b.Dim + 1) / 2
	}
	return b.Dim
}

// Validate checks that the block is well formed.
func (b Block) Validate() error {
	switch b.Kind {
	case Zero, Nonnegative, SecondOrder, PSD, Free:
	default:
		return fmt.Errorf("%w: %v", ErrUnsupportedCone, b.Kind)
	}
	if b.Dim <= 0 {
		return fmt.Errorf("cone: block dimension must be positive, got %d", b.Dim)
	}
	return nil
}

// TotalRows sums the row spans of blocks.
func TotalRows(blocks []Block) int {
	n := 0
	for _, b := range blocks {
		n += b.Rows()
	}
	return n
}
