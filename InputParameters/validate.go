package InputParameters

import (
	"errors"
	"fmt"
	"strings"

	"github.com/notargets/fiefs/FV2D"
	"github.com/notargets/fiefs/types"
)

// ErrInvalidConfig is wrapped by every configuration validation failure
var ErrInvalidConfig = errors.New("invalid configuration")

// Config is the validated run configuration. It is passed by value and never
// modified after Validate returns it.
type Config struct {
	Title      string
	Problem    string
	FluxType   string
	Integrator string
	FV2D.Geometry
	NVar                                        int
	Rho0, Rho1, P0, P1, U0, U1, V0, V1, PertAmp float64
	Gamma, CFL, TMax, Beta                      float64
	BCs                                         [4]types.BCFLAG // Indexed by types.Edge
	OutputFrequency                             int
	OutputVariables                             []string
	OutputTypes                                 []string
	MaxIterations                               int
	Seed                                        int64
}

func (c Config) BC(e types.Edge) types.BCFLAG { return c.BCs[e] }

func invalid(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalidConfig, fmt.Sprintf(format, args...))
}

// Validate checks every parameter and resolves names into typed values.
// Scheme names (problem, flux, integrator) are only normalized here; the
// solver resolves them and reports unknown names as ErrInvalidConfig.
func (ip *InputParameters2D) Validate() (cfg Config, err error) {
	cfg = Config{
		Title:      ip.Title,
		Problem:    lowerOr(ip.Problem, "kh"),
		FluxType:   lowerOr(ip.FluxType, "lax"),
		Integrator: lowerOr(ip.Integrator, "euler"),
		Geometry: FV2D.Geometry{
			X1Min: ip.X1Min, X1Max: ip.X1Max, X2Min: ip.X2Min, X2Max: ip.X2Max,
			Nx1: ip.NX1, Nx2: ip.NX2, Ng: ip.NG,
		},
		NVar: ip.NVar,
		Rho0: ip.Rho0, Rho1: ip.Rho1, P0: ip.P0, P1: ip.P1,
		U0: ip.U0, U1: ip.U1, V0: ip.V0, V1: ip.V1, PertAmp: ip.PertAmp,
		Gamma: ip.Gamma, CFL: ip.CFL, TMax: ip.TMax, Beta: ip.Beta,
		OutputFrequency: ip.OutputFrequency,
		MaxIterations:   ip.MaxIterations,
		Seed:            ip.Seed,
	}
	if cfg.NVar == 0 {
		cfg.NVar = types.NVAR
	}
	if cfg.Beta == 0 {
		cfg.Beta = 1
	}
	for _, v := range ip.OutputVariables {
		cfg.OutputVariables = append(cfg.OutputVariables, strings.ToLower(v))
	}
	for _, v := range ip.OutputTypes {
		cfg.OutputTypes = append(cfg.OutputTypes, strings.ToLower(v))
	}
	if err = cfg.Geometry.Validate(); err != nil {
		err = fmt.Errorf("%w: %v", ErrInvalidConfig, err)
		return
	}
	switch {
	case cfg.NVar != types.NVAR:
		err = invalid("nvar must be %d for the 2D Euler equations, have %d", types.NVAR, cfg.NVar)
	case cfg.Ng < 2:
		err = invalid("slope limited reconstruction needs ng >= 2, have %d", cfg.Ng)
	case !(cfg.Gamma > 1):
		err = invalid("gamma must be greater than 1, have %g", cfg.Gamma)
	case !(cfg.CFL > 0 && cfg.CFL <= 1):
		err = invalid("CFL must be in (0,1], have %g", cfg.CFL)
	case !(cfg.TMax > 0):
		err = invalid("tmax must be positive, have %g", cfg.TMax)
	case !(cfg.Beta >= 1 && cfg.Beta <= 2):
		err = invalid("limiter beta must be in [1,2], have %g", cfg.Beta)
	case cfg.OutputFrequency < 0 || cfg.MaxIterations < 0:
		err = invalid("output_frequency and max_iterations must not be negative")
	}
	if err != nil {
		return
	}
	if err = cfg.validateStates(); err != nil {
		return
	}
	labels := [4]string{ip.LeftBC, ip.RightBC, ip.BottomBC, ip.TopBC}
	for _, e := range types.Edges {
		if cfg.BCs[e], err = types.NewBCFlag(labels[e]); err != nil {
			err = fmt.Errorf("%w: %s_bc: %v", ErrInvalidConfig, e, err)
			return
		}
	}
	for _, e := range []types.Edge{types.Left, types.Bottom} {
		a, b := cfg.BCs[e], cfg.BCs[e.Opposite()]
		if (a == types.BC_Periodic) != (b == types.BC_Periodic) {
			err = invalid("periodic boundaries must be paired, have %s_bc=%s and %s_bc=%s",
				e, a, e.Opposite(), b)
			return
		}
	}
	return
}

func (cfg Config) validateStates() error {
	switch cfg.Problem {
	case "sample":
		if !(cfg.Rho0 > 0 && cfg.P0 > 0) {
			return invalid("rho0 and p0 must be positive, have rho0=%g p0=%g", cfg.Rho0, cfg.P0)
		}
	default:
		if !(cfg.Rho0 > 0 && cfg.Rho1 > 0) {
			return invalid("densities must be positive, have rho0=%g rho1=%g", cfg.Rho0, cfg.Rho1)
		}
		if !(cfg.P0 > 0 && cfg.P1 > 0) {
			return invalid("pressures must be positive, have p0=%g p1=%g", cfg.P0, cfg.P1)
		}
	}
	return nil
}

func lowerOr(s, def string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	if len(s) == 0 {
		return def
	}
	return s
}
