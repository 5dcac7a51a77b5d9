package linsolve

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

// testSystem is a well-conditioned non-symmetric 3×3 matrix.
func testSystem() *mat.Dense {
	return mat.NewDense(3, 3, []float64{
		4, 1, 0,
		-2, 5, 1,
		0, 3, 6,
	})
}

func TestSolveBeforeFactorize(t *testing.T) {
	s := New(Options{})
	err := s.Solve(make([]float64, 3), make([]float64, 3))
	assert.True(t, errors.Is(err, ErrNotFactorized), "got %v", err)
	err = s.SolveTrans(make([]float64, 3), make([]float64, 3))
	assert.True(t, errors.Is(err, ErrNotFactorized), "got %v", err)
}

func TestLUSolve(t *testing.T) {
	s := New(Options{})
	require.NoError(t, s.Factorize(testSystem()))
	assert.True(t, s.Factorized())
	assert.Equal(t, 3, s.Dim())

	want := []float64{1, -2, 3}
	var rhsVec mat.VecDense
	rhsVec.MulVec(testSystem(), mat.NewVecDense(3, want))

	got := make([]float64, 3)
	require.NoError(t, s.Solve(got, rhsVec.RawVector().Data))
	assert.InDeltaSlice(t, want, got, 1e-10)
}

func TestLUSolveTrans(t *testing.T) {
	s := New(Options{})
	require.NoError(t, s.Factorize(testSystem()))

	want := []float64{0.5, 2, -1}
	var rhsVec mat.VecDense
	rhsVec.MulVec(testSystem().T(), mat.NewVecDense(3, want))

	got := make([]float64, 3)
	require.NoError(t, s.SolveTrans(got, rhsVec.RawVector().Data))
	assert.InDeltaSlice(t, want, got, 1e-10)
}

func TestFactorizeSingular(t *testing.T) {
	singular := mat.NewDense(3, 3, []float64{
		1, 2, 3,
		2, 4, 6, // 2× the first row
		0, 1, 1,
	})
	s := New(Options{})
	err := s.Factorize(singular)
	assert.True(t, errors.Is(err, ErrSingular), "got %v", err)
	assert.False(t, s.Factorized())

	// Failing factorize leaves the ordering contract intact.
	err = s.Solve(make([]float64, 3), make([]float64, 3))
	assert.True(t, errors.Is(err, ErrNotFactorized), "got %v", err)
}

func TestFactorizeNonSquare(t *testing.T) {
	s := New(Options{})
	assert.Error(t, s.Factorize(mat.NewDense(2, 3, nil)))
}

func TestIterativeMatchesLU(t *testing.T) {
	rhs := []float64{1, 2, 3}

	lu := New(Options{})
	require.NoError(t, lu.Factorize(testSystem()))
	direct := make([]float64, 3)
	require.NoError(t, lu.Solve(direct, rhs))

	it := New(Options{Iterative: true, Tol: 1e-12})
	require.NoError(t, it.Factorize(testSystem()))
	iterative := make([]float64, 3)
	require.NoError(t, it.Solve(iterative, rhs))
	assert.InDeltaSlice(t, direct, iterative, 1e-8)

	require.NoError(t, lu.SolveTrans(direct, rhs))
	require.NoError(t, it.SolveTrans(iterative, rhs))
	assert.InDeltaSlice(t, direct, iterative, 1e-8)
}

func TestIterativeZeroRHS(t *testing.T) {
	s := New(Options{Iterative: true})
	require.NoError(t, s.Factorize(testSystem()))
	got := []float64{7, 7, 7}
	require.NoError(t, s.Solve(got, make([]float64, 3)))
	assert.Equal(t, []float64{0, 0, 0}, got)
}

func TestIterationLimit(t *testing.T) {
	s := New(Options{Iterative: true, MaxIter: 1, Tol: 1e-14})
	// Mildly ill-conditioned so one iteration cannot converge.
	m := mat.NewDense(3, 3, []float64{
		1, 1, 0,
		0, 1e-3, 1,
		1, 0, 1e-3,
	})
	require.NoError(t, s.Factorize(m))
	err := s.Solve(make([]float64, 3), []float64{1, 2, 3})
	assert.True(t, errors.Is(err, ErrIterationLimit), "got %v", err)
}

// TestSolveIsReentrant runs many concurrent solves against a single
// factorization and checks each result independently.
func TestSolveIsReentrant(t *testing.T) {
	s := New(Options{})
	require.NoError(t, s.Factorize(testSystem()))

	done := make(chan error, 16)
	for k := 0; k < 16; k++ {
		k := k
		go func() {
			rhs := []float64{float64(k), 1, -1}
			got := make([]float64, 3)
			if err := s.Solve(got, rhs); err != nil {
				done <- err
				return
			}
			// Verify the residual of this solve in isolation.
			var check mat.VecDense
			check.MulVec(testSystem(), mat.NewVecDense(3, got))
			floats.Sub(check.RawVector().Data, rhs)
			if n := floats.Norm(check.RawVector().Data, 2); n > 1e-9 {
				done <- errors.New("residual too large")
				return
			}
			done <- nil
		}()
	}
	for k := 0; k < 16; k++ {
		assert.NoError(t, <-done)
	}
}
