package kkt

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"

	"github.com/conediff/conediff/internal/cone"
	"github.com/conediff/conediff/internal/conic"
	"github.com/conediff/conediff/internal/sparse"
)

// lpFixture is min x₁+2x₂ s.t. x₁+x₂ = 1, x ≥ 0, with its optimal point
// x = (1, 0), y = (−1, 0, 1), s = (0, 1, 0).
func lpFixture(t *testing.T) (*conic.ProblemData, *conic.OptimalPoint) {
	t.Helper()
	a := sparse.New(3, 2)
	a.Append(0, 0, 1)
	a.Append(0, 1, 1)
	a.Append(1, 0, -1)
	a.Append(2, 1, -1)
	data, err := conic.NewProblemData(a, []float64{1, 0, 0}, []float64{1, 2}, []cone.Block{
		{Kind: cone.Zero, Dim: 1},
		{Kind: cone.Nonnegative, Dim: 2},
	})
	require.NoError(t, err)
	point, err := conic.NewOptimalPoint(data, []float64{1, 0}, []float64{-1, 0, 1}, []float64{0, 1, 0})
	require.NoError(t, err)
	return data, point
}

func TestBuildShapeAndBlocks(t *testing.T) {
	data, point := lpFixture(t)
	m, n := data.Dims()
	sys, err := Build(data, point)
	require.NoError(t, err)

	r, c := sys.Dims()
	assert.Equal(t, Size(data), r)
	assert.Equal(t, Size(data), c)
	assert.Equal(t, n+2*m, r)

	// Primal rows carry A and an identity on the slack columns.
	assert.Equal(t, 1.0, sys.At(0, 0))
	assert.Equal(t, 1.0, sys.At(0, 1))
	assert.Equal(t, -1.0, sys.At(1, 0))
	for i := 0; i < m; i++ {
		assert.Equal(t, 1.0, sys.At(i, n+m+i), "slack identity row %d", i)
	}

	// Stationarity rows carry A^T on the dual columns.
	assert.Equal(t, 1.0, sys.At(m, n))
	assert.Equal(t, -1.0, sys.At(m, n+1))
	assert.Equal(t, 1.0, sys.At(m+1, n))
	assert.Equal(t, -1.0, sys.At(m+1, n+2))

	// Complementarity rows at v = s − y = (1, 1, −1):
	// zero cone row: D = 0 so the row reads ds₀.
	assert.Equal(t, 0.0, sys.At(m+n, n))
	assert.Equal(t, 1.0, sys.At(m+n, n+m))
	// nonnegative rows: mask diag(1, 0).
	assert.Equal(t, 1.0, sys.At(m+n+1, n+1))
	assert.Equal(t, 0.0, sys.At(m+n+1, n+m+1))
	assert.Equal(t, 0.0, sys.At(m+n+2, n+2))
	assert.Equal(t, 1.0, sys.At(m+n+2, n+m+2))
}

// TestBuildIsPure checks that repeated builds of the same inputs yield
// identical matrices.
func TestBuildIsPure(t *testing.T) {
	data, point := lpFixture(t)
	first, err := Build(data, point)
	require.NoError(t, err)
	second, err := Build(data, point)
	require.NoError(t, err)
	assert.True(t, mat.Equal(first, second))
}

func TestForwardRHS(t *testing.T) {
	data, point := lpFixture(t)
	m, n := data.Dims()

	rhs := make([]float64, Size(data))

	// Pure db perturbation lands on the primal rows unchanged.
	ForwardRHS(rhs, data, point, conic.Perturbation{DB: []float64{1, 0, 0}})
	assert.Equal(t, []float64{1, 0, 0}, rhs[:m])
	for _, v := range rhs[m:] {
		assert.Zero(t, v)
	}

	// Pure dc perturbation lands negated on the stationarity rows.
	ForwardRHS(rhs, data, point, conic.Perturbation{DC: []float64{2, -3}})
	for _, v := range rhs[:m] {
		assert.Zero(t, v)
	}
	assert.Equal(t, []float64{-2, 3}, rhs[m:m+n])

	// dA contracts with x on the primal rows and with y on the
	// stationarity rows: rhs = (−dA·x, −dA^T·y, 0).
	da := sparse.New(m, n)
	da.Append(0, 0, 1) // perturb A₀₀
	ForwardRHS(rhs, data, point, conic.Perturbation{DA: da})
	assert.Equal(t, -point.X()[0], rhs[0])
	assert.Equal(t, -point.Y()[0], rhs[m])
	assert.Zero(t, rhs[1])
	assert.Zero(t, rhs[m+1])
}

func TestDataGradientContraction(t *testing.T) {
	data, point := lpFixture(t)
	m, n := data.Dims()

	w := make([]float64, Size(data))
	for i := range w {
		w[i] = float64(i + 1)
	}
	da, db, dc := DataGradient(w, data, point)

	ar, ac := da.Dims()
	assert.Equal(t, m, ar)
	assert.Equal(t, n, ac)
	assert.Len(t, db, m)
	assert.Len(t, dc, n)

	w1, w2 := w[:m], w[m:m+n]
	for i := 0; i < m; i++ {
		assert.Equal(t, w1[i], db[i])
		for j := 0; j < n; j++ {
			want := -(w1[i]*point.X()[j] + point.Y()[i]*w2[j])
			assert.Equal(t, want, da.At(i, j))
		}
	}
	for j := 0; j < n; j++ {
		assert.Equal(t, -w2[j], dc[j])
	}
}
