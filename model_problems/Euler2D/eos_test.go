package Euler2D

import (
	"errors"
	"math"
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/notargets/fiefs/FV2D"
)

func TestEOS(t *testing.T) {
	{ // Round trip over random states
		rnd := rand.New(rand.NewPCG(1, 2))
		gamma := 1.4
		for n := 0; n < 1000; n++ {
			rho, e, p := 100*rnd.Float64()+1.e-3, 100*rnd.Float64(), 100*rnd.Float64()+1.e-3
			p1, err := Pressure(rho, e, gamma)
			require.NoError(t, err)
			assert.InDelta(t, rho*(gamma-1)*e, p1, 1.e-12)
			e1, err := SpecificInternalEnergy(rho, p1, gamma)
			require.NoError(t, err)
			p2, err := Pressure(rho, e1, gamma)
			require.NoError(t, err)
			assert.InDelta(t, p1, p2, 1.e-12*math.Max(1, p1))
			e2, err := SpecificInternalEnergy(rho, p, gamma)
			require.NoError(t, err)
			assert.InDelta(t, p/(rho*(gamma-1)), e2, 1.e-12*math.Max(1, e2))
			assert.Greater(t, e2, 0.)
		}
	}
	{ // Domain errors
		_, err := Pressure(0, 1, 1.4)
		assert.True(t, errors.Is(err, ErrDomain))
		_, err = Pressure(-1, 1, 1.4)
		assert.ErrorIs(t, err, ErrDomain)
		_, err = SpecificInternalEnergy(1, 1, 1)
		assert.ErrorIs(t, err, ErrDomain)
		_, err = SpecificInternalEnergy(1, 1, 0.5)
		assert.ErrorIs(t, err, ErrDomain)
		_, err = SoundSpeed(1, 0, 1.4)
		assert.ErrorIs(t, err, ErrDomain)
		_, err = Pressure(math.NaN(), 1, 1.4)
		assert.ErrorIs(t, err, ErrDomain)
	}
	{
		c, err := SoundSpeed(1, 1, 1.4)
		require.NoError(t, err)
		assert.InDelta(t, math.Sqrt(1.4), c, 1.e-15)
	}
}

func TestPrimitives(t *testing.T) {
	m := khMesh(t, 16, 12)
	{ // Flat and grid views of the same storage agree
		W2, err := Primitives(m.Un, 1.4)
		require.NoError(t, err)
		W1, err := Primitives(m.Un.Flatten(), 1.4)
		require.NoError(t, err)
		assert.Equal(t, W2.Size(), W1.Size())
		assert.Equal(t, 4*m.Nx*m.Ny, W1.Size())
		assert.Equal(t, W2.Data, W1.Data)
		assert.Equal(t, []int{4, m.Nx, m.Ny}, W2.Shape())
		assert.Equal(t, []int{4, m.Nx * m.Ny}, W1.Shape())
	}
	{ // Values
		W, err := Primitives(m.Un, 1.4)
		require.NoError(t, err)
		for _, ij := range [][2]int{{0, 0}, {5, 3}, {m.Nx - 1, m.Ny - 1}} {
			ind := m.Index(0, ij[0], ij[1])
			rho, rhoU, rhoV, E := m.At(0, ij[0], ij[1]), m.At(1, ij[0], ij[1]), m.At(2, ij[0], ij[1]), m.At(3, ij[0], ij[1])
			u, v := rhoU/rho, rhoV/rho
			assert.Equal(t, rho, W.Var(0)[ind])
			assert.InDelta(t, u, W.Var(1)[ind], 1.e-15)
			assert.InDelta(t, v, W.Var(2)[ind], 1.e-15)
			assert.InDelta(t, 0.4*(E-0.5*rho*(u*u+v*v)), W.Var(3)[ind], 1.e-12)
			assert.InDelta(t, W.Var(3)[ind], GetFlowFunction(rho, rhoU, rhoV, E, 1.4, StaticPressure), 1.e-12)
			assert.InDelta(t, 2.5, W.Var(3)[ind], 1.e-12) // Pressure is uniform in the shear layer
		}
	}
	{ // Non-positive density anywhere is a domain error
		q := m.Un.Copy()
		q.Var(0)[17] = 0
		_, err := Primitives(q, 1.4)
		assert.ErrorIs(t, err, ErrDomain)
		_, err = Primitives(m.Un, 1)
		assert.ErrorIs(t, err, ErrDomain)
		_, err = Primitives(FV2D.NewState(3, FV2D.Flat(4)), 1.4)
		assert.Error(t, err)
	}
	{ // Flow functions
		pf, err := NewFlowFunction("X-Velocity")
		require.NoError(t, err)
		assert.Equal(t, XVelocity, pf)
		_, err = NewFlowFunction("vorticity")
		assert.Error(t, err)
		f := FlowField(m.Un, 1.4, Density)
		assert.Equal(t, m.Un.Var(0), f)
		mach := GetFlowFunction(1, 1, 0, 1/(1.4*0.4)+0.5, 1.4, Mach)
		assert.InDelta(t, 1., mach, 1.e-12)
		assert.Equal(t, "Static Pressure", StaticPressure.String())
	}
}
