package sod_shock_tube

import (
	"fmt"
	"math"
)

// State is a one dimensional primitive gas state
type State struct {
	Rho, U, P float64
}

/*
RiemannProblem is the exact solution of a one dimensional Riemann problem
with an initial discontinuity at X0, for an ideal gas. With the default
states it is Sod's shock tube:

	left:  rho = 1,     u = 0, p = 1
	right: rho = 0.125, u = 0, p = 0.1
*/
type RiemannProblem struct {
	Left, Right State
	X0, Gamma   float64
	PStar       float64 // Pressure of the star region
	UStar       float64 // Contact velocity
}

func NewSOD() (rp *RiemannProblem) {
	rp, _ = NewRiemannProblem(State{1, 0, 1}, State{0.125, 0, 0.1}, 0.5, 1.4)
	return
}

func NewRiemannProblem(left, right State, x0, gamma float64) (rp *RiemannProblem, err error) {
	rp = &RiemannProblem{Left: left, Right: right, X0: x0, Gamma: gamma}
	for _, s := range []State{left, right} {
		if !(s.Rho > 0 && s.P > 0) {
			return nil, fmt.Errorf("states must have positive density and pressure, have %+v", s)
		}
	}
	// Vacuum is generated when the velocity jump exceeds the escape speeds
	if 2*(rp.sound(left)+rp.sound(right))/(gamma-1) <= right.U-left.U {
		return nil, fmt.Errorf("initial states generate a vacuum")
	}
	if rp.PStar, err = fzero(rp.pressureFunc, rp.pressureGuess()); err != nil {
		return nil, err
	}
	fL, _ := rp.waveFunc(rp.PStar, left)
	fR, _ := rp.waveFunc(rp.PStar, right)
	rp.UStar = 0.5*(left.U+right.U) + 0.5*(fR-fL)
	return
}

func (rp *RiemannProblem) sound(s State) float64 {
	return math.Sqrt(rp.Gamma * s.P / s.Rho)
}

// waveFunc is the velocity change across the left or right wave as a function
// of the star pressure, and its derivative
func (rp *RiemannProblem) waveFunc(p float64, s State) (f, df float64) {
	var (
		gamma = rp.Gamma
		c     = rp.sound(s)
	)
	if p > s.P { // Shock
		A := 2 / ((gamma + 1) * s.Rho)
		B := (gamma - 1) / (gamma + 1) * s.P
		sq := math.Sqrt(A / (p + B))
		f = (p - s.P) * sq
		df = sq * (1 - 0.5*(p-s.P)/(B+p))
		return
	}
	// Rarefaction
	f = 2 * c / (gamma - 1) * (math.Pow(p/s.P, (gamma-1)/(2*gamma)) - 1)
	df = math.Pow(p/s.P, -(gamma+1)/(2*gamma)) / (s.Rho * c)
	return
}

func (rp *RiemannProblem) pressureFunc(p float64) (y, dy float64) {
	fL, dfL := rp.waveFunc(p, rp.Left)
	fR, dfR := rp.waveFunc(p, rp.Right)
	y = fL + fR + rp.Right.U - rp.Left.U
	dy = dfL + dfR
	return
}

// pressureGuess is the two rarefaction approximation, always positive
func (rp *RiemannProblem) pressureGuess() float64 {
	var (
		gamma  = rp.Gamma
		L, R   = rp.Left, rp.Right
		cL, cR = rp.sound(L), rp.sound(R)
		z      = (gamma - 1) / (2 * gamma)
	)
	num := cL + cR - 0.5*(gamma-1)*(R.U-L.U)
	den := cL/math.Pow(L.P, z) + cR/math.Pow(R.P, z)
	return math.Pow(num/den, 1/z)
}

func fzero(f func(p float64) (y, dy float64), start float64) (p float64, err error) {
	var (
		tol = 1.e-12
	)
	p = start
	for iter := 0; iter < 100; iter++ {
		y, dy := f(p)
		pNew := p - y/dy
		if pNew < tol {
			pNew = tol
		}
		if math.Abs(pNew-p) <= tol*0.5*(pNew+p) {
			return pNew, nil
		}
		p = pNew
	}
	return p, fmt.Errorf("star pressure iteration did not converge, last value %g", p)
}

// Sample returns the exact solution at position x and time t > 0
func (rp *RiemannProblem) Sample(x, t float64) (s State) {
	var (
		gamma  = rp.Gamma
		S      = (x - rp.X0) / t
		L, R   = rp.Left, rp.Right
		cL, cR = rp.sound(L), rp.sound(R)
		pS, uS = rp.PStar, rp.UStar
		g1     = (gamma - 1) / (2 * gamma)
		g2     = (gamma + 1) / (2 * gamma)
		g6     = (gamma - 1) / (gamma + 1)
	)
	if S <= uS { // Left of the contact
		if pS > L.P {
			SL := L.U - cL*math.Sqrt(g2*pS/L.P+g1)
			if S <= SL {
				return L
			}
			return State{L.Rho * (pS/L.P + g6) / (g6*pS/L.P + 1), uS, pS}
		}
		if S <= L.U-cL {
			return L
		}
		cStar := cL * math.Pow(pS/L.P, g1)
		if S > uS-cStar {
			return State{L.Rho * math.Pow(pS/L.P, 1/gamma), uS, pS}
		}
		u := 2 / (gamma + 1) * (cL + 0.5*(gamma-1)*L.U + S)
		c := 2 / (gamma + 1) * (cL + 0.5*(gamma-1)*(L.U-S))
		return State{L.Rho * math.Pow(c/cL, 2/(gamma-1)), u, L.P * math.Pow(c/cL, 2*gamma/(gamma-1))}
	}
	if pS > R.P {
		SR := R.U + cR*math.Sqrt(g2*pS/R.P+g1)
		if S >= SR {
			return R
		}
		return State{R.Rho * (pS/R.P + g6) / (g6*pS/R.P + 1), uS, pS}
	}
	if S >= R.U+cR {
		return R
	}
	cStar := cR * math.Pow(pS/R.P, g1)
	if S <= uS+cStar {
		return State{R.Rho * math.Pow(pS/R.P, 1/gamma), uS, pS}
	}
	u := 2 / (gamma + 1) * (-cR + 0.5*(gamma-1)*R.U + S)
	c := 2 / (gamma + 1) * (cR - 0.5*(gamma-1)*(R.U-S))
	return State{R.Rho * math.Pow(c/cR, 2/(gamma-1)), u, R.P * math.Pow(c/cR, 2*gamma/(gamma-1))}
}

// SOD_calc samples the solution at the locations in X, returning density,
// pressure, velocity and specific internal energy
func (rp *RiemannProblem) SOD_calc(X []float64, t float64) (Rho, P, U, E []float64) {
	Rho = make([]float64, len(X))
	P = make([]float64, len(X))
	U = make([]float64, len(X))
	E = make([]float64, len(X))
	for i, x := range X {
		s := rp.Sample(x, t)
		Rho[i], P[i], U[i] = s.Rho, s.P, s.U
		E[i] = s.P / ((rp.Gamma - 1.) * s.Rho)
	}
	return
}

// ShockPosition is valid when the right wave is a shock
func (rp *RiemannProblem) ShockPosition(t float64) float64 {
	var (
		R  = rp.Right
		g1 = (rp.Gamma - 1) / (2 * rp.Gamma)
		g2 = (rp.Gamma + 1) / (2 * rp.Gamma)
	)
	return rp.X0 + t*(R.U+rp.sound(R)*math.Sqrt(g2*rp.PStar/R.P+g1))
}
