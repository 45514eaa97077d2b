package Euler2D

import (
	"fmt"
	"math"
	"strings"

	"github.com/notargets/fiefs/FV2D"
)

type FlowFunction uint8

func (pm FlowFunction) String() string {
	strings := []string{
		"Density",
		"XMomentum",
		"YMomentum",
		"Energy",
		"Mach",
		"Static Pressure",
		"Dynamic Pressure",
		"Sound Speed",
		"Velocity",
		"XVelocity",
		"YVelocity",
		"Enthalpy",
		"Internal Energy",
	}
	return strings[int(pm)]
}

const (
	Density FlowFunction = iota
	XMomentum
	YMomentum
	Energy
	Mach            // 4
	StaticPressure  // 5
	DynamicPressure // 6
	SoundSpeedFF    // 7
	Velocity        // 8
	XVelocity       // 9
	YVelocity       // 10
	Enthalpy        // 11
	InternalEnergy  // 12
)

// Output variable names accepted in input files
var FlowFunctionNames = map[string]FlowFunction{
	"density":          Density,
	"x-momentum":       XMomentum,
	"y-momentum":       YMomentum,
	"energy":           Energy,
	"mach":             Mach,
	"pressure":         StaticPressure,
	"dynamic-pressure": DynamicPressure,
	"sound-speed":      SoundSpeedFF,
	"velocity":         Velocity,
	"x-velocity":       XVelocity,
	"y-velocity":       YVelocity,
	"enthalpy":         Enthalpy,
	"internal-energy":  InternalEnergy,
}

func NewFlowFunction(label string) (pf FlowFunction, err error) {
	var ok bool
	if pf, ok = FlowFunctionNames[strings.ToLower(strings.TrimSpace(label))]; !ok {
		err = fmt.Errorf("unknown flow variable %q", label)
	}
	return
}

// GetFlowFunction evaluates pf for a single conserved state. The caller is
// responsible for the state being physical.
func GetFlowFunction(rho, rhoU, rhoV, E, Gamma float64, pf FlowFunction) (f float64) {
	var (
		GM1   = Gamma - 1.
		oorho = 1. / rho
		q, p  float64
	)
	q = 0.5 * (rhoU*rhoU + rhoV*rhoV) * oorho
	p = GM1 * (E - q)

	switch pf {
	case Density:
		f = rho
	case XMomentum:
		f = rhoU
	case YMomentum:
		f = rhoV
	case Energy:
		f = E
	case StaticPressure:
		f = p
	case DynamicPressure:
		f = q
	case SoundSpeedFF:
		f = math.Sqrt(math.Abs(Gamma * p * oorho))
	case Velocity:
		f = math.Sqrt(rhoU*rhoU+rhoV*rhoV) * oorho
	case XVelocity:
		f = rhoU * oorho
	case YVelocity:
		f = rhoV * oorho
	case Mach:
		C := math.Sqrt(math.Abs(Gamma * p * oorho))
		U := math.Sqrt(rhoU*rhoU+rhoV*rhoV) * oorho
		f = U / C
	case Enthalpy:
		f = (E + p) * oorho
	case InternalEnergy:
		f = (E - q) * oorho
	}
	return
}

// FlowField evaluates pf at every cell of a conserved state, in storage order
func FlowField(Q *FV2D.State, Gamma float64, pf FlowFunction) (f []float64) {
	var (
		rho, rhoU, rhoV, E = Q.Var(0), Q.Var(1), Q.Var(2), Q.Var(3)
	)
	f = make([]float64, Q.PlaneLen())
	for i := range f {
		f[i] = GetFlowFunction(rho[i], rhoU[i], rhoV[i], E[i], Gamma, pf)
	}
	return
}

/*
Primitives converts a conserved state [rho, rhoU, rhoV, E] into the primitive
state [rho, u, v, p]. The result carries the layout of Q; flat and grid views
of the same storage give identical values because the conversion walks storage
order without regard to the layout.
*/
func Primitives(Q *FV2D.State, Gamma float64) (W *FV2D.State, err error) {
	if Q.NVar != 4 {
		err = fmt.Errorf("conserved state must have 4 variables, have %d", Q.NVar)
		return
	}
	if !(Gamma > 1) {
		err = fmt.Errorf("%w: gamma must be greater than 1, have %g", ErrDomain, Gamma)
		return
	}
	W = FV2D.NewState(4, Q.Layout)
	var (
		rho, rhoU, rhoV, E = Q.Var(0), Q.Var(1), Q.Var(2), Q.Var(3)
		wr, wu, wv, wp     = W.Var(0), W.Var(1), W.Var(2), W.Var(3)
	)
	for i := range rho {
		if !(rho[i] > 0) {
			err = fmt.Errorf("%w: density %g at index %d", ErrDomain, rho[i], i)
			return
		}
		u, v := rhoU[i]/rho[i], rhoV[i]/rho[i]
		e := E[i]/rho[i] - 0.5*(u*u+v*v)
		wr[i], wu[i], wv[i] = rho[i], u, v
		wp[i], _ = Pressure(rho[i], e, Gamma)
	}
	return
}
