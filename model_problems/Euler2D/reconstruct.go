package Euler2D

import (
	"fmt"
	"math"

	"github.com/notargets/fiefs/FV2D"
	"github.com/notargets/fiefs/InputParameters"
)

/*
Limiter returns the generalized minmod slope from the backward difference b
and forward difference a:

	slope = sign(a) * min(beta*|a|, beta*|b|, |a+b|/2),  a*b > 0
	slope = 0,                                           a*b <= 0

beta = 1 is minmod, beta = 2 is the monotonized central limiter. The slope
never exceeds the central difference in magnitude.
*/
func Limiter(b, a, beta float64) (slope float64) {
	if a*b <= 0 {
		return 0
	}
	slope = math.Min(beta*math.Abs(a), beta*math.Abs(b))
	slope = math.Min(slope, 0.5*math.Abs(a+b))
	if a < 0 {
		slope = -slope
	}
	return
}

func CheckBeta(beta float64) error {
	if !(beta >= 1 && beta <= 2) {
		return fmt.Errorf("%w: limiter beta must be in [1,2], have %g",
			InputParameters.ErrInvalidConfig, beta)
	}
	return nil
}

/*
LimitedSlopes computes the limited slopes along both axes from five co-located
slices of the conserved state: the cell itself, its +1/-1 neighbors along
axis 1 and its +1/-1 neighbors along axis 2. All slices must share a shape;
the slopes carry the layout of the center slice.
*/
func LimitedSlopes(U, Uip1, Uim1, Ujp1, Ujm1 *FV2D.State, beta float64) (dI, dJ *FV2D.State, err error) {
	if err = CheckBeta(beta); err != nil {
		return
	}
	for _, nbr := range []*FV2D.State{Uip1, Uim1, Ujp1, Ujm1} {
		if !U.SameShape(nbr) {
			err = fmt.Errorf("neighbor slice %v does not match center slice %v", nbr.Shape(), U.Shape())
			return
		}
	}
	dI, dJ = FV2D.NewState(U.NVar, U.Layout), FV2D.NewState(U.NVar, U.Layout)
	var (
		u, uip1, uim1, ujp1, ujm1 = U.Data, Uip1.Data, Uim1.Data, Ujp1.Data, Ujm1.Data
		di, dj                    = dI.Data, dJ.Data
	)
	for ind := range u {
		di[ind] = Limiter(u[ind]-uim1[ind], uip1[ind]-u[ind], beta)
		dj[ind] = Limiter(u[ind]-ujm1[ind], ujp1[ind]-u[ind], beta)
	}
	return
}

// MeshSlopes computes limited slopes for every cell of the mesh except the
// outermost ghost layer. Cell (i, j) of the results is mesh cell (i+1, j+1).
func MeshSlopes(m *FV2D.Mesh, beta float64) (dI, dJ *FV2D.State, err error) {
	return LimitedSlopes(
		m.Window(0, 0, 1),
		m.Window(1, 0, 1), m.Window(-1, 0, 1),
		m.Window(0, 1, 1), m.Window(0, -1, 1),
		beta)
}
