package Euler2D

import (
	"fmt"
	"math"
	"strings"

	"github.com/notargets/fiefs/FV2D"
	"github.com/notargets/fiefs/InputParameters"
)

// Axis selects the direction of a flux: X is axis 1 (i), Y is axis 2 (j)
type Axis uint8

const (
	X Axis = iota
	Y
)

func NewAxis(label string) (a Axis, err error) {
	switch strings.ToLower(label) {
	case "x":
		a = X
	case "y":
		a = Y
	default:
		err = fmt.Errorf("unknown axis %q, must be x or y", label)
	}
	return
}

func (a Axis) String() string { return [...]string{"x", "y"}[a] }

// normal is the unit vector of the axis, used to rotate momentum
func (a Axis) normal() [2]float64 {
	if a == X {
		return [2]float64{1, 0}
	}
	return [2]float64{0, 1}
}

/*
Fluxes evaluates the physical flux along axis for every cell of Q:

	mass           = rho * va
	momentum (va)  = rho * va^2 + p
	momentum (vc)  = rho * va * vc
	energy         = va * (E + p)

where va is the velocity along axis and vc the cross velocity. The result
has the shape and layout of Q; each cell goes through FluxCalc.
*/
func Fluxes(Q *FV2D.State, Gamma float64, axis Axis) (F *FV2D.State, err error) {
	switch {
	case Q.NVar != 4:
		err = fmt.Errorf("conserved state must have 4 variables, have %d", Q.NVar)
		return
	case !(Gamma > 1):
		err = fmt.Errorf("%w: gamma must be greater than 1, have %g", ErrDomain, Gamma)
		return
	}
	F = FV2D.NewState(4, Q.Layout)
	var (
		qD = Get4DP(Q)
		fD = Get4DP(F)
	)
	for i := 0; i < Q.PlaneLen(); i++ {
		if !(qD[0][i] > 0) {
			return nil, fmt.Errorf("%w: density %g at index %d", ErrDomain, qD[0][i], i)
		}
		f := FluxCalc(GetQQ(i, qD), Gamma, axis)
		for n := 0; n < 4; n++ {
			fD[n][i] = f[n]
		}
	}
	return
}

// FluxCalc is the physical flux of a single state along axis
func FluxCalc(q [4]float64, Gamma float64, axis Axis) (f [4]float64) {
	var (
		rho, rhoU, rhoV, E = q[0], q[1], q[2], q[3]
		oorho              = 1. / rho
		u                  = rhoU * oorho
		v                  = rhoV * oorho
		p                  = (Gamma - 1) * (E - 0.5*(rhoU*u+rhoV*v))
	)
	if axis == X {
		f = [4]float64{rhoU, rhoU*u + p, rhoV * u, u * (E + p)}
	} else {
		f = [4]float64{rhoV, rhoU * v, rhoV*v + p, v * (E + p)}
	}
	return
}

type FluxType uint

const (
	FLUX_LaxFriedrichs FluxType = iota
	FLUX_Roe
)

var (
	FluxNames = map[string]FluxType{
		"lax": FLUX_LaxFriedrichs,
		"roe": FLUX_Roe,
	}
	FluxPrintNames = []string{"Lax Friedrichs", "Roe"}
)

func (ft FluxType) Print() (txt string) {
	txt = FluxPrintNames[ft]
	return
}

func NewFluxType(label string) (ft FluxType, err error) {
	var ok bool
	label = strings.ToLower(label)
	if ft, ok = FluxNames[label]; !ok {
		err = fmt.Errorf("%w: unable to use flux named %s", InputParameters.ErrInvalidConfig, label)
	}
	return
}

// InterfaceFlux computes the numerical flux through a face normal to axis from
// the reconstructed left (low index) and right (high index) states
type InterfaceFlux func(qL, qR [4]float64, Gamma float64, axis Axis) (f [4]float64)

func (ft FluxType) InterfaceFlux() InterfaceFlux {
	if ft == FLUX_Roe {
		return RoeFlux
	}
	return LaxFlux
}

// LaxFlux is the local Lax-Friedrichs (Rusanov) flux
func LaxFlux(qL, qR [4]float64, Gamma float64, axis Axis) (f [4]float64) {
	maxVF := func(q [4]float64) (vmax float64) {
		var (
			rho  = q[0]
			u, v = q[1] / rho, q[2] / rho
			p    = (Gamma - 1) * (q[3] - 0.5*rho*(u*u+v*v))
		)
		vmax = math.Sqrt(u*u+v*v) + math.Sqrt(math.Abs(Gamma*p/rho))
		return
	}
	var (
		FL, FR = FluxCalc(qL, Gamma, axis), FluxCalc(qR, Gamma, axis)
		maxV   = math.Max(maxVF(qL), maxVF(qR))
	)
	for n := 0; n < 4; n++ {
		f[n] = 0.5*(FL[n]+FR[n]) + 0.5*maxV*(qL[n]-qR[n])
	}
	return
}

// RoeFlux is Roe's approximate Riemann solver, evaluated in face normal
// coordinates and rotated back to the grid axes
func RoeFlux(qL, qR [4]float64, Gamma float64, axis Axis) (f [4]float64) {
	var (
		normal = axis.normal()
		GM1    = Gamma - 1
	)
	rotateMomentum := func(q [4]float64) [4]float64 {
		um, vm := q[1], q[2]
		q[1] = um*normal[0] + vm*normal[1]
		q[2] = -um*normal[1] + vm*normal[0]
		return q
	}
	qL, qR = rotateMomentum(qL), rotateMomentum(qR)
	primitive := func(q [4]float64) (rho, u, v, p, h float64) {
		rho = q[0]
		u, v = q[1]/rho, q[2]/rho
		p = GM1 * (q[3] - 0.5*rho*(u*u+v*v))
		h = (q[3] + p) / rho // Enthalpy
		return
	}
	var (
		rhoL, uL, vL, pL, hL = primitive(qL)
		rhoR, uR, vR, pR, hR = primitive(qR)
		FxL, FxR             = FluxCalc(qL, Gamma, X), FluxCalc(qR, Gamma, X)
	)
	// Compute Roe average variables
	rhoLs, rhoRs := math.Sqrt(rhoL), math.Sqrt(rhoR)
	rhoLsRs := rhoLs + rhoRs

	rho := rhoLs * rhoRs
	u := (rhoLs*uL + rhoRs*uR) / rhoLsRs
	v := (rhoLs*vL + rhoRs*vR) / rhoLsRs
	h := (rhoLs*hL + rhoRs*hR) / rhoLsRs
	c2 := GM1 * (h - 0.5*(u*u+v*v))
	c := math.Sqrt(c2)

	// Wave strengths scaled by the characteristic speeds
	dW1 := -0.5*(rho*(uR-uL))/c + 0.5*(pR-pL)/c2
	dW2 := (rhoR - rhoL) - (pR-pL)/c2
	dW3 := rho * (vR - vL)
	dW4 := 0.5*(rho*(uR-uL))/c + 0.5*(pR-pL)/c2
	dW1 = math.Abs(u-c) * dW1
	dW2 = math.Abs(u) * dW2
	dW3 = math.Abs(u) * dW3
	dW4 = math.Abs(u+c) * dW4

	for n := 0; n < 4; n++ {
		f[n] = 0.5 * (FxL[n] + FxR[n])
	}
	f[0] -= 0.5 * (dW1 + dW2 + dW4)
	f[1] -= 0.5 * (dW1*(u-c) + dW2*u + dW4*(u+c))
	f[2] -= 0.5 * (dW1*v + dW2*v + dW3 + dW4*v)
	f[3] -= 0.5 * (dW1*(h-u*c) + 0.5*dW2*(u*u+v*v) + dW3*v + dW4*(h+u*c))

	// rotate back to Cartesian
	f[1], f[2] = normal[0]*f[1]-normal[1]*f[2], normal[1]*f[1]+normal[0]*f[2]
	return
}
