package sod_shock_tube

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/notargets/fiefs/FV2D"
)

func TestSOD(t *testing.T) {
	{ // Star region of the classic problem
		rp := NewSOD()
		assert.InDelta(t, 0.30313, rp.PStar, 1.e-5)
		assert.InDelta(t, 0.92745, rp.UStar, 1.e-5)
		assert.InDelta(t, 0.6752, rp.ShockPosition(0.1), 0.0001)
		assert.InDelta(t, 0.8504, rp.ShockPosition(0.2), 0.0001)
	}
	{ // Sampled regions at t = 0.2
		rp := NewSOD()
		X := []float64{0.1, 0.6, 0.8, 0.9}
		Rho, P, U, E := rp.SOD_calc(X, 0.2)
		assert.Equal(t, 1., Rho[0])
		assert.Equal(t, 0., U[0])
		assert.InDelta(t, 0.42632, Rho[1], 1.e-4) // Behind the contact
		assert.InDelta(t, 0.26557, Rho[2], 1.e-4) // Between contact and shock
		assert.InDelta(t, 0.30313, P[2], 1.e-4)
		assert.Equal(t, 0.125, Rho[3])
		assert.InDelta(t, 0.1/(0.4*0.125), E[3], 1.e-12)
	}
	{ // The rarefaction fan is continuous and monotone
		rp := NewSOD()
		var last = 2.
		for x := 0.2; x < 0.7; x += 0.01 {
			s := rp.Sample(x, 0.2)
			assert.LessOrEqual(t, s.Rho, last)
			last = s.Rho
		}
	}
	{ // Bad states
		_, err := NewRiemannProblem(State{0, 0, 1}, State{1, 0, 1}, 0.5, 1.4)
		assert.Error(t, err)
		_, err = NewRiemannProblem(State{1, -10, 1}, State{1, 10, 1}, 0.5, 1.4)
		assert.Error(t, err)
	}
}

func TestShockTubeSampling(t *testing.T) {
	m, err := FV2D.NewMesh(FV2D.Geometry{X1Max: 1, X2Max: 0.1, Nx1: 10, Nx2: 2, Ng: 2}, 4)
	require.NoError(t, err)
	rp := NewSOD()
	iMin, iMax, jMin, jMax := m.InteriorRange()
	x1 := m.X1()
	for i := iMin; i < iMax; i++ {
		s := rp.Sample(x1[i], 0.1)
		for j := jMin; j < jMax; j++ {
			m.Set(0, i, j, s.Rho)
		}
	}
	st := NewSODShockTube(rp, m)
	assert.Len(t, st.XLocations, 10)
	l1, err := st.L1Density(0.1)
	require.NoError(t, err)
	assert.InDelta(t, 0., l1, 1.e-14)
	_, err = st.L1Density(0)
	assert.Error(t, err)
}
