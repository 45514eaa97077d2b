package types

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTypes(t *testing.T) {
	{ // BC tokens are case insensitive
		for _, label := range []string{"periodic", "Periodic", "PERIODIC", " periodic "} {
			bc, err := NewBCFlag(label)
			require.NoError(t, err)
			assert.Equal(t, BC_Periodic, bc)
		}
		bc, err := NewBCFlag("Wall")
		require.NoError(t, err)
		assert.Equal(t, BC_Wall, bc)
		assert.Equal(t, "Wall", bc.String())
		bc, err = NewBCFlag("transmissive")
		require.NoError(t, err)
		assert.Equal(t, BC_Transmissive, bc)
	}
	{ // Unknown tokens are rejected
		_, err := NewBCFlag("outflow")
		assert.Error(t, err)
		_, err = NewBCFlag("")
		assert.Error(t, err)
		assert.Equal(t, []string{"periodic", "transmissive", "wall"}, BCNames())
	}
	{ // Edge geometry
		assert.Equal(t, Right, Left.Opposite())
		assert.Equal(t, Left, Right.Opposite())
		assert.Equal(t, Top, Bottom.Opposite())
		assert.Equal(t, Bottom, Top.Opposite())
		assert.Equal(t, 1, Left.Axis())
		assert.Equal(t, 2, Top.Axis())
		assert.Equal(t, [4]Edge{Left, Right, Bottom, Top}, Edges)
		assert.Equal(t, "bottom", Bottom.String())
	}
	{
		assert.Equal(t, "XMomentum", XMomentum.String())
		assert.Equal(t, 4, NVAR)
	}
}
