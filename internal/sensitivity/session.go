// Package sensitivity answers directional-derivative queries against a
// solved conic program: forward mode maps a data perturbation
// (dA, db, dc) to the solution perturbation (dx, dy, ds); backward mode
// maps a solution-space direction to its adjoint data gradient.
//
// A Session owns the factorized sensitivity system for one
// (ProblemData, OptimalPoint) pair. The factorization is built lazily on
// the first query, reused across arbitrarily many queries, and
// invalidated explicitly when a new point is supplied. Queries are pure
// functions of (factorization, perturbation): concurrent queries against
// one factorization are safe, and rebuilding is serialized against
// in-flight queries.
package sensitivity

import (
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/conediff/conediff/internal/conic"
	"github.com/conediff/conediff/internal/kkt"
	"github.com/conediff/conediff/internal/linsolve"
)

// Session is one analysis session over a fixed solved instance.
type Session struct {
	log        *zap.Logger
	solverOpts linsolve.Options

	mu     sync.RWMutex
	data   *conic.ProblemData
	point  *conic.OptimalPoint
	solver *linsolve.Solver // nil until first query or after invalidation
}

// Option configures a Session.
type Option func(*Session)

// WithLogger installs a structured logger. The default is a no-op.
func WithLogger(log *zap.Logger) Option {
	return func(s *Session) { s.log = log }
}

// WithSolverOptions overrides the linear solver configuration.
func WithSolverOptions(opts linsolve.Options) Option {
	return func(s *Session) { s.solverOpts = opts }
}

// New creates a session for data and its optimal point. The point's
// shapes are checked against data; its numerical optimality is a caller
// precondition.
func New(data *conic.ProblemData, point *conic.OptimalPoint, opts ...Option) (*Session, error) {
	if err := checkPoint(data, point); err != nil {
		return nil, err
	}
	s := &Session{
		log:   zap.NewNop(),
		data:  data,
		point: point,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

func checkPoint(data *conic.ProblemData, point *conic.OptimalPoint) error {
	m, n := data.Dims()
	if len(point.X()) != n || len(point.Y()) != m || len(point.S()) != m {
		return fmt.Errorf("%w: point is (%d, %d, %d), data wants (%d, %d, %d)",
			conic.ErrDimension, len(point.X()), len(point.Y()), len(point.S()), n, m, m)
	}
	return nil
}

// SetPoint replaces the optimal point and invalidates the cached
// factorization. It blocks until in-flight queries drain; the next query
// rebuilds against the new point.
func (s *Session) SetPoint(point *conic.OptimalPoint) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := checkPoint(s.data, point); err != nil {
		return err
	}
	s.point = point
	s.invalidateLocked("new optimal point")
	return nil
}

// SetProblem replaces both the problem data and the optimal point, and
// invalidates the cached factorization.
func (s *Session) SetProblem(data *conic.ProblemData, point *conic.OptimalPoint) error {
	if err := checkPoint(data, point); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data = data
	s.point = point
	s.invalidateLocked("new problem data")
	return nil
}

func (s *Session) invalidateLocked(reason string) {
	if s.solver != nil {
		s.log.Debug("sensitivity factorization invalidated", zap.String("reason", reason))
	}
	s.solver = nil
}

// build factorizes the sensitivity system under the write lock. It is a
// no-op if another goroutine built it first.
func (s *Session) build() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.solver != nil {
		return nil
	}
	start := time.Now()
	sys, err := kkt.Build(s.data, s.point)
	if err != nil {
		return err
	}
	solver := linsolve.New(s.solverOpts)
	if err := solver.Factorize(sys); err != nil {
		return err
	}
	m, n := s.data.Dims()
	s.log.Info("factorized sensitivity system",
		zap.Int("rows", m),
		zap.Int("cols", n),
		zap.Int("dim", kkt.Size(s.data)),
		zap.Bool("iterative", s.solverOpts.Iterative),
		zap.Duration("elapsed", time.Since(start)),
	)
	s.solver = solver
	return nil
}

// snapshot returns the current factorization and its inputs, building it
// if needed. validate runs against the data snapshot before any build or
// factorization is attempted.
func (s *Session) snapshot(validate func(*conic.ProblemData) error) (*linsolve.Solver, *conic.ProblemData, *conic.OptimalPoint, func(), error) {
	for {
		s.mu.RLock()
		if err := validate(s.data); err != nil {
			s.mu.RUnlock()
			return nil, nil, nil, nil, err
		}
		if s.solver != nil {
			// Hold the read lock for the caller's solve so a rebuild
			// cannot race an in-flight query.
			return s.solver, s.data, s.point, s.mu.RUnlock, nil
		}
		s.mu.RUnlock()
		if err := s.build(); err != nil {
			return nil, nil, nil, nil, err
		}
	}
}
