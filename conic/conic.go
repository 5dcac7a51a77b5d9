// Copyright 2026 The conediff Authors. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package conic describes a solved conic program instance: the data
// (A, b, c) with its cone layout, the solver-produced optimal point
// (x, y, s), and data perturbations. Instances are validated and frozen
// at construction; the sensitivity engine never mutates them.
//
// The canonical form is
//
//	minimize    c^T x
//	subject to  A x + s = b,  s ∈ K,
//
// with dual y ∈ K* satisfying A^T y + c = 0 and ⟨y, s⟩ = 0.
//
// Example:
//
//	a := conic.NewMatrix(3, 2)
//	a.Append(0, 0, 1)
//	a.Append(0, 1, 1)
//	a.Append(1, 0, -1)
//	a.Append(2, 1, -1)
//	data, err := conic.NewProblemData(a, b, c, []cone.Block{
//	    {Kind: cone.Zero, Dim: 1},
//	    {Kind: cone.Nonnegative, Dim: 2},
//	})
package conic

import (
	"github.com/conediff/conediff/internal/cone"
	"github.com/conediff/conediff/internal/conic"
	"github.com/conediff/conediff/internal/sparse"
)

// Matrix is a sparse constraint matrix in triplet form.
type Matrix = sparse.Matrix

// NewMatrix returns an empty r×c sparse matrix.
func NewMatrix(r, c int) *Matrix {
	return sparse.New(r, c)
}

// ProblemData is an immutable conic program instance.
type ProblemData = conic.ProblemData

// OptimalPoint is a solver's primal/dual/slack output for an instance.
type OptimalPoint = conic.OptimalPoint

// Perturbation is a direction (dA, db, dc) in data space.
type Perturbation = conic.Perturbation

// ErrDimension reports mismatched data, point or perturbation shapes.
var ErrDimension = conic.ErrDimension

// NewProblemData validates and deep-copies an instance. The cone blocks
// must partition the constraint rows exactly.
func NewProblemData(a *Matrix, b, c []float64, cones []cone.Block) (*ProblemData, error) {
	return conic.NewProblemData(a, b, c, cones)
}

// NewOptimalPoint validates shapes against data and copies the vectors.
// Numerical optimality is a caller precondition.
func NewOptimalPoint(data *ProblemData, x, y, s []float64) (*OptimalPoint, error) {
	return conic.NewOptimalPoint(data, x, y, s)
}
