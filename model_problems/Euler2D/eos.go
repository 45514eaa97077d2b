package Euler2D

import (
	"errors"
	"fmt"
	"math"
)

// ErrDomain marks a state outside the domain of the equations: non-positive
// density or pressure, or an invalid ratio of specific heats
var ErrDomain = errors.New("domain error")

/*
Ideal gas closure relating density, specific internal energy and pressure

	p = rho * (gamma - 1) * e
	e = p / (rho * (gamma - 1))
*/
func Pressure(rho, e, gamma float64) (p float64, err error) {
	if err = checkEOS(rho, gamma); err != nil {
		return
	}
	p = rho * (gamma - 1) * e
	return
}

func SpecificInternalEnergy(rho, p, gamma float64) (e float64, err error) {
	if err = checkEOS(rho, gamma); err != nil {
		return
	}
	e = p / (rho * (gamma - 1))
	return
}

func SoundSpeed(rho, p, gamma float64) (c float64, err error) {
	if err = checkEOS(rho, gamma); err != nil {
		return
	}
	if !(p > 0) {
		err = fmt.Errorf("%w: pressure must be positive, have %g", ErrDomain, p)
		return
	}
	c = math.Sqrt(gamma * p / rho)
	return
}

func checkEOS(rho, gamma float64) error {
	switch {
	case !(rho > 0):
		return fmt.Errorf("%w: density must be positive, have %g", ErrDomain, rho)
	case !(gamma > 1):
		return fmt.Errorf("%w: gamma must be greater than 1, have %g", ErrDomain, gamma)
	}
	return nil
}
