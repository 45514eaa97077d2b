package sod_shock_tube

import (
	"fmt"
	"math"

	"github.com/notargets/fiefs/FV2D"
)

/*
SODShockTube compares a finite volume solution of a shock tube along axis 1
with the exact solution. The solution is averaged over the interior cells of
each column of constant x1 before comparison.
*/
type SODShockTube struct {
	XLocations   []float64 // Cell centers along x1
	Rho, RhoU, E []float64 // Column averaged solution, used for validation
	Exact        *RiemannProblem
}

func NewSODShockTube(exact *RiemannProblem, m *FV2D.Mesh) (st *SODShockTube) {
	var (
		iMin, iMax, jMin, jMax = m.InteriorRange()
		x1                     = m.X1()
		nPts                   = iMax - iMin
		oon                    = 1. / float64(jMax-jMin)
	)
	st = &SODShockTube{
		XLocations: x1[iMin:iMax],
		Rho:        make([]float64, nPts),
		RhoU:       make([]float64, nPts),
		E:          make([]float64, nPts),
		Exact:      exact,
	}
	for i := iMin; i < iMax; i++ {
		for j := jMin; j < jMax; j++ {
			st.Rho[i-iMin] += m.At(0, i, j) * oon
			st.RhoU[i-iMin] += m.At(1, i, j) * oon
			st.E[i-iMin] += m.At(3, i, j) * oon
		}
	}
	return
}

// L1Density is the mean absolute density error over the sampled cells
func (st *SODShockTube) L1Density(t float64) (l1 float64, err error) {
	if !(t > 0) {
		return 0, fmt.Errorf("exact solution requires t > 0, have %g", t)
	}
	rho, _, _, _ := st.Exact.SOD_calc(st.XLocations, t)
	for i := range rho {
		l1 += math.Abs(rho[i] - st.Rho[i])
	}
	l1 /= float64(len(rho))
	return
}
