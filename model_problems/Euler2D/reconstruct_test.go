package Euler2D

import (
	"math"
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/notargets/fiefs/FV2D"
	"github.com/notargets/fiefs/InputParameters"
)

func TestLimiter(t *testing.T) {
	{ // Minmod picks the smaller one sided difference
		assert.Equal(t, 1., Limiter(1, 3, 1))
		assert.Equal(t, 1., Limiter(3, 1, 1))
		assert.Equal(t, -1., Limiter(-1, -3, 1))
		assert.Equal(t, 0., Limiter(1, -1, 1))
		assert.Equal(t, 0., Limiter(0, 2, 1))
		assert.Equal(t, 0., Limiter(-2, 0, 2))
	}
	{ // MC limiter is bounded by the central difference
		assert.Equal(t, 2., Limiter(1, 3, 2))
		assert.Equal(t, 0.5, Limiter(0.25, 0.75, 2))
		assert.Equal(t, -2., Limiter(-1, -3, 2))
	}
	{ // Bounds over random data
		rnd := rand.New(rand.NewPCG(3, 4))
		for n := 0; n < 10000; n++ {
			b, a := 2*rnd.Float64()-1, 2*rnd.Float64()-1
			beta := 1 + rnd.Float64()
			s := Limiter(b, a, beta)
			if a*b <= 0 {
				assert.Equal(t, 0., s)
				continue
			}
			assert.Equal(t, math.Signbit(a), math.Signbit(s))
			assert.LessOrEqual(t, math.Abs(s), 0.5*math.Abs(a+b))
			assert.LessOrEqual(t, math.Abs(s), beta*math.Min(math.Abs(a), math.Abs(b)))
			assert.LessOrEqual(t, math.Abs(Limiter(b, a, 1)), math.Min(math.Abs(a), math.Abs(b)))
		}
	}
	{
		assert.NoError(t, CheckBeta(1))
		assert.NoError(t, CheckBeta(2))
		assert.ErrorIs(t, CheckBeta(0.5), InputParameters.ErrInvalidConfig)
		assert.ErrorIs(t, CheckBeta(2.5), InputParameters.ErrInvalidConfig)
		assert.ErrorIs(t, CheckBeta(math.NaN()), InputParameters.ErrInvalidConfig)
	}
}

func TestLimitedSlopes(t *testing.T) {
	var (
		nx, ny = 12, 9
		rnd    = rand.New(rand.NewPCG(5, 6))
	)
	g := FV2D.Geometry{X1Min: 0, X1Max: 1, X2Min: 0, X2Max: 1, Nx1: nx, Nx2: ny, Ng: 2}
	m, err := FV2D.NewMesh(g, 4)
	require.NoError(t, err)
	// A random walk with unit steps along both axes
	for n := 0; n < 4; n++ {
		for i := 0; i < m.Nx; i++ {
			for j := 0; j < m.Ny; j++ {
				var val float64
				switch {
				case i > 0:
					val = m.At(n, i-1, j) + 2*rnd.Float64() - 1
				case j > 0:
					val = m.At(n, i, j-1) + 2*rnd.Float64() - 1
				}
				m.Set(n, i, j, val)
			}
		}
	}
	{ // Unit steps along axis 1 bound the axis 1 slope by one
		dI, dJ, err := MeshSlopes(m, 1)
		require.NoError(t, err)
		assert.Equal(t, []int{4, m.Nx - 2, m.Ny - 2}, dI.Shape())
		assert.Equal(t, dI.Shape(), dJ.Shape())
		for _, s := range dI.Data {
			assert.LessOrEqual(t, math.Abs(s), 1.)
		}
	}
	{ // Slopes match the limiter applied to the neighbor differences
		for _, beta := range []float64{1, 1.5, 2} {
			dI, dJ, err := MeshSlopes(m, beta)
			require.NoError(t, err)
			for n := 0; n < 4; n++ {
				for i := 1; i < m.Nx-1; i++ {
					for j := 1; j < m.Ny-1; j++ {
						ind := (i-1)*(m.Ny-2) + j - 1
						q := m.At(n, i, j)
						assert.Equal(t, Limiter(q-m.At(n, i-1, j), m.At(n, i+1, j)-q, beta), dI.Var(n)[ind])
						assert.Equal(t, Limiter(q-m.At(n, i, j-1), m.At(n, i, j+1)-q, beta), dJ.Var(n)[ind])
						central := 0.5 * math.Abs(m.At(n, i+1, j)-m.At(n, i-1, j))
						assert.LessOrEqual(t, math.Abs(dI.Var(n)[ind]), central+1.e-12)
					}
				}
			}
		}
	}
	{ // Flattened slices produce the same slopes as grid slices
		U, Uip1, Uim1 := m.Window(0, 0, 1), m.Window(1, 0, 1), m.Window(-1, 0, 1)
		Ujp1, Ujm1 := m.Window(0, 1, 1), m.Window(0, -1, 1)
		dI2, dJ2, err := LimitedSlopes(U, Uip1, Uim1, Ujp1, Ujm1, 2)
		require.NoError(t, err)
		dI1, dJ1, err := LimitedSlopes(U.Flatten(), Uip1.Flatten(), Uim1.Flatten(), Ujp1.Flatten(), Ujm1.Flatten(), 2)
		require.NoError(t, err)
		assert.Equal(t, dI2.Data, dI1.Data)
		assert.Equal(t, dJ2.Data, dJ1.Data)
		assert.True(t, dI1.Layout.IsFlat())
		assert.False(t, dI2.Layout.IsFlat())
	}
	{ // Argument checks
		U := m.Window(0, 0, 1)
		_, _, err := LimitedSlopes(U, U, U, U, m.Window(0, 0, 0), 1)
		assert.Error(t, err)
		_, _, err = LimitedSlopes(U, U, U, U, U, 3)
		assert.ErrorIs(t, err, InputParameters.ErrInvalidConfig)
	}
}
