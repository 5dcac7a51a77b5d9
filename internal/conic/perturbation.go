package conic

import (
	"fmt"

	"github.com/conediff/conediff/internal/sparse"
)

// Perturbation is a direction (dA, db, dc) in data space. Nil fields are
// treated as zero. Perturbations are ephemeral: built per forward query,
// never stored by the engine.
type Perturbation struct {
	DA *sparse.Matrix
	DB []float64
	DC []float64
}

// Validate checks the perturbation's shapes against data. It runs before
// any linear algebra; a mismatch is never broadcast or truncated.
func (p Perturbation) Validate(data *ProblemData) error {
	m, n := data.Dims()
	if p.DA != nil {
		if dm, dn := p.DA.Dims(); dm != m || dn != n {
			return fmt.Errorf("%w: dA is %d×%d, want %d×%d", ErrDimension, dm, dn, m, n)
		}
	}
	if p.DB != nil && len(p.DB) != m {
		return fmt.Errorf("%w: db has length %d, want %d", ErrDimension, len(p.DB), m)
	}
	if p.DC != nil && len(p.DC) != n {
		return fmt.Errorf("%w: dc has length %d, want %d", ErrDimension, len(p.DC), n)
	}
	return nil
}
