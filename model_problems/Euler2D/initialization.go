package Euler2D

import (
	"fmt"
	"math"
	"math/rand/v2"
	"sort"
	"strings"

	"github.com/notargets/fiefs/FV2D"
	"github.com/notargets/fiefs/InputParameters"
)

// ProblemGenerator writes the initial conserved state into every cell of an
// allocated mesh, ghost cells included
type ProblemGenerator func(cfg InputParameters.Config, m *FV2D.Mesh) error

var ProblemGenerators = map[string]ProblemGenerator{
	"kh":        KelvinHelmholtz,
	"sample":    Uniform,
	"shocktube": ShockTube,
}

var InitPrintNames = map[string]string{
	"kh":        "Kelvin-Helmholtz Shear Layer",
	"sample":    "Uniform Flow",
	"shocktube": "Shock Tube",
}

func NewProblemGenerator(label string) (pg ProblemGenerator, err error) {
	var ok bool
	label = strings.ToLower(label)
	if pg, ok = ProblemGenerators[label]; !ok {
		var names []string
		for name := range ProblemGenerators {
			names = append(names, name)
		}
		sort.Strings(names)
		err = fmt.Errorf("%w: unknown problem %q, must be one of %v",
			InputParameters.ErrInvalidConfig, label, names)
	}
	return
}

// SetCell stores the conserved state of a primitive state (rho, u, v, p) at
// mesh cell (i, j)
func SetCell(m *FV2D.Mesh, i, j int, rho, u, v, p, Gamma float64) (err error) {
	var e float64
	if e, err = SpecificInternalEnergy(rho, p, Gamma); err != nil {
		return fmt.Errorf("cell (%d,%d): %w", i, j, err)
	}
	m.Set(0, i, j, rho)
	m.Set(1, i, j, rho*u)
	m.Set(2, i, j, rho*v)
	m.Set(3, i, j, rho*(e+0.5*(u*u+v*v)))
	return
}

/*
KelvinHelmholtz sets up a shear layer: state 0 (rho0, u0, v0, p0) inside the
band |x2| <= 0.25 and state 1 (rho1, u1, v1, p1) outside. The y-velocity is
perturbed by pert_amp*sin(4*pi*x1/L1); with a non-zero seed a uniform random
perturbation drawn from [-pert_amp, pert_amp] is used instead.
*/
func KelvinHelmholtz(cfg InputParameters.Config, m *FV2D.Mesh) (err error) {
	var (
		x1, x2 = m.X1(), m.X2()
		L1     = cfg.X1Max - cfg.X1Min
		rnd    *rand.Rand
	)
	if cfg.Seed != 0 {
		rnd = rand.New(rand.NewPCG(uint64(cfg.Seed), uint64(cfg.Seed)))
	}
	for i := 0; i < m.Nx; i++ {
		for j := 0; j < m.Ny; j++ {
			rho, u, v, p := cfg.Rho1, cfg.U1, cfg.V1, cfg.P1
			if math.Abs(x2[j]) <= 0.25 {
				rho, u, v, p = cfg.Rho0, cfg.U0, cfg.V0, cfg.P0
			}
			if rnd != nil {
				v += cfg.PertAmp * (2*rnd.Float64() - 1)
			} else {
				v += cfg.PertAmp * math.Sin(4*math.Pi*(x1[i]-cfg.X1Min)/L1)
			}
			if err = SetCell(m, i, j, rho, u, v, p, cfg.Gamma); err != nil {
				return
			}
		}
	}
	return
}

// Uniform fills the mesh with state 0
func Uniform(cfg InputParameters.Config, m *FV2D.Mesh) (err error) {
	for i := 0; i < m.Nx; i++ {
		for j := 0; j < m.Ny; j++ {
			if err = SetCell(m, i, j, cfg.Rho0, cfg.U0, cfg.V0, cfg.P0, cfg.Gamma); err != nil {
				return
			}
		}
	}
	return
}

// ShockTube places state 0 left of the x1 mid point and state 1 to the right
func ShockTube(cfg InputParameters.Config, m *FV2D.Mesh) (err error) {
	var (
		x1 = m.X1()
		x0 = 0.5 * (cfg.X1Min + cfg.X1Max)
	)
	for i := 0; i < m.Nx; i++ {
		rho, u, v, p := cfg.Rho0, cfg.U0, cfg.V0, cfg.P0
		if x1[i] > x0 {
			rho, u, v, p = cfg.Rho1, cfg.U1, cfg.V1, cfg.P1
		}
		for j := 0; j < m.Ny; j++ {
			if err = SetCell(m, i, j, rho, u, v, p, cfg.Gamma); err != nil {
				return
			}
		}
	}
	return
}
