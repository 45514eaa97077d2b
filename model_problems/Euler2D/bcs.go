package Euler2D

import (
	"fmt"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"

	"github.com/notargets/fiefs/FV2D"
	"github.com/notargets/fiefs/InputParameters"
	"github.com/notargets/fiefs/types"
)

/*
BCEnforcer fills the ghost layers of a mesh according to a fixed mode per edge.

Edges are enforced in the order of types.Edges: Left and Right copy whole
rows (all Ny columns), then Bottom and Top copy whole columns (all Nx rows).
Corner ghost cells therefore take the Bottom/Top rule applied to the freshly
filled Left/Right ghost rows.

For ghost width ng and interior counts nx1, nx2, ghost row i on the left edge
(i < ng) is filled from:

	transmissive: row ng
	periodic:     row i + nx1
	wall:         row 2*ng - 1 - i, with the x-momentum negated

and symmetrically for the other edges. Wall edges negate the momentum
component normal to the edge, x-momentum on Left/Right and y-momentum on
Bottom/Top.
*/
type BCEnforcer struct {
	Modes [4]types.BCFLAG // Indexed by types.Edge
}

func NewBCEnforcer(modes [4]types.BCFLAG) (bc *BCEnforcer, err error) {
	for _, e := range []types.Edge{types.Left, types.Bottom} {
		a, b := modes[e], modes[e.Opposite()]
		if (a == types.BC_Periodic) != (b == types.BC_Periodic) {
			err = fmt.Errorf("%w: periodic boundaries must be paired, have %s=%s and %s=%s",
				InputParameters.ErrInvalidConfig, e, a, e.Opposite(), b)
			return
		}
	}
	bc = &BCEnforcer{Modes: modes}
	return
}

func (bc *BCEnforcer) Enforce(m *FV2D.Mesh) {
	for _, e := range types.Edges {
		bc.EnforceEdge(m, e)
	}
}

// EnforceEdge fills the ghost layers of a single edge for all variables
func (bc *BCEnforcer) EnforceEdge(m *FV2D.Mesh, e types.Edge) {
	var (
		mode   = bc.Modes[e]
		normal = int(types.XMomentum)
	)
	if e.Axis() == 2 {
		normal = int(types.YMomentum)
	}
	for n := 0; n < m.NVar; n++ {
		var (
			plane  = m.Plane(n)
			negate = mode == types.BC_Wall && n == normal
		)
		for k := 0; k < m.Ng; k++ {
			ghost, src := ghostSource(m, e, mode, k)
			if e.Axis() == 1 {
				copyRow(plane, ghost, src, negate)
			} else {
				copyCol(plane, ghost, src, negate)
			}
		}
	}
}

// ghostSource returns the ghost line index for layer k (0 is the layer touching
// the interior) and the line it is filled from
func ghostSource(m *FV2D.Mesh, e types.Edge, mode types.BCFLAG, k int) (ghost, src int) {
	var (
		ng    = m.Ng
		nInt  = m.Nx1
		lo    = e == types.Left || e == types.Bottom
		first int // Interior line touching the edge
	)
	if e.Axis() == 2 {
		nInt = m.Nx2
	}
	if lo {
		first, ghost = ng, ng-1-k
	} else {
		first, ghost = ng+nInt-1, ng+nInt+k
	}
	switch mode {
	case types.BC_Periodic:
		if lo {
			src = ghost + nInt
		} else {
			src = ghost - nInt
		}
	case types.BC_Wall:
		// Mirror about the edge
		if lo {
			src = 2*first - 1 - ghost
		} else {
			src = 2*first + 1 - ghost
		}
	default: // Transmissive
		src = first
	}
	return
}

func copyRow(plane *mat.Dense, ghost, src int, negate bool) {
	plane.SetRow(ghost, plane.RawRowView(src))
	if negate {
		floats.Scale(-1, plane.RawRowView(ghost))
	}
}

func copyCol(plane *mat.Dense, ghost, src int, negate bool) {
	col := mat.Col(nil, src, plane)
	if negate {
		floats.Scale(-1, col)
	}
	plane.SetCol(ghost, col)
}
