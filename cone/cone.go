// Copyright 2026 The conediff Authors. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package cone exposes the catalog of supported convex cones: the zero
// cone, the nonnegative orthant, the second-order cone, the cone of
// positive-semidefinite matrices, and the free cone. Each cone block
// offers its Euclidean projection, the projection onto its dual, and the
// Jacobian of the projection — the per-block building material of the
// sensitivity system.
//
// Example:
//
//	soc := cone.Block{Kind: cone.SecondOrder, Dim: 3}
//	out := make([]float64, 3)
//	if err := soc.Project(out, []float64{1, 2, 2}); err != nil {
//	    log.Fatal(err)
//	}
package cone

import (
	"github.com/conediff/conediff/internal/cone"
)

// Kind identifies a supported cone type.
type Kind = cone.Kind

// Supported cone kinds.
const (
	Zero        = cone.Zero
	Nonnegative = cone.Nonnegative
	SecondOrder = cone.SecondOrder
	PSD         = cone.PSD
	Free        = cone.Free
)

// Block is one factor of a product cone.
type Block = cone.Block

// ErrUnsupportedCone reports a cone kind without a projection-derivative
// implementation.
var ErrUnsupportedCone = cone.ErrUnsupportedCone

// TotalRows sums the constraint-row spans of blocks.
func TotalRows(blocks []Block) int {
	return cone.TotalRows(blocks)
}

// ProjectProduct projects v onto the product cone described by blocks.
func ProjectProduct(dst, v []float64, blocks []Block) error {
	return cone.ProjectProduct(dst, v, blocks)
}
