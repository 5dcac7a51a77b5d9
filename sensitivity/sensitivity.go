// Copyright 2026 The conediff Authors. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package sensitivity differentiates through a solved conic program.
//
// A Session is created from an instance and its optimal point. Forward
// mode maps a perturbation of the data (dA, db, dc) to the directional
// derivative (dx, dy, ds) of the solution; backward mode maps a
// solution-space direction to its adjoint gradient with respect to the
// data. Both reuse one factorization of the KKT Jacobian, built on the
// first query, so a sweep of many perturbations pays for a single
// factorization.
//
// Example:
//
//	sess, err := sensitivity.New(data, point)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	db := make([]float64, m)
//	db[0] = 1
//	res, err := sess.Forward(conic.Perturbation{DB: db})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println(res.DX) // ∂x*/∂b₀
package sensitivity

import (
	"github.com/conediff/conediff/internal/conic"
	"github.com/conediff/conediff/internal/linsolve"
	"github.com/conediff/conediff/internal/sensitivity"
)

// Session owns the factorized sensitivity system of one solved instance.
type Session = sensitivity.Session

// Option configures a Session.
type Option = sensitivity.Option

// Result is a forward-mode sensitivity (dx, dy, ds).
type Result = sensitivity.Result

// Target is a backward-mode solution-space direction.
type Target = sensitivity.Target

// DataGradient is a backward-mode sensitivity (dA, db, dc).
type DataGradient = sensitivity.DataGradient

// SolverOptions configures the underlying linear solver.
type SolverOptions = linsolve.Options

// Linear solver failure modes, distinguishable with errors.Is.
var (
	// ErrSingular marks a degenerate (non-differentiable) optimal point.
	ErrSingular = linsolve.ErrSingular
	// ErrIterationLimit marks an iterative solve that hit its cap.
	ErrIterationLimit = linsolve.ErrIterationLimit
)

// WithLogger installs a structured logger on the session.
var WithLogger = sensitivity.WithLogger

// WithSolverOptions overrides the linear solver configuration.
var WithSolverOptions = sensitivity.WithSolverOptions

// New creates a session for data and its optimal point.
func New(data *conic.ProblemData, point *conic.OptimalPoint, opts ...Option) (*Session, error) {
	return sensitivity.New(data, point, opts...)
}
