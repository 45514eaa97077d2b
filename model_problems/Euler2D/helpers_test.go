package Euler2D

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/notargets/fiefs/FV2D"
	"github.com/notargets/fiefs/InputParameters"
	"github.com/notargets/fiefs/types"
)

func readConfig(t *testing.T, path string) InputParameters.Config {
	ip, err := InputParameters.ReadFile(path)
	require.NoError(t, err)
	cfg, err := ip.Validate()
	require.NoError(t, err)
	return cfg
}

// khConfig is the Kelvin-Helmholtz input file shrunk to nx1 by nx2 cells
func khConfig(t *testing.T, nx1, nx2 int) InputParameters.Config {
	cfg := readConfig(t, "../../inputs/kh.in")
	cfg.Nx1, cfg.Nx2 = nx1, nx2
	return cfg
}

func khMesh(t *testing.T, nx1, nx2 int) *FV2D.Mesh {
	cfg := khConfig(t, nx1, nx2)
	m, err := FV2D.NewMesh(cfg.Geometry, types.NVAR)
	require.NoError(t, err)
	require.NoError(t, KelvinHelmholtz(cfg, m))
	return m
}

func withBCs(cfg InputParameters.Config, left, right, bottom, top types.BCFLAG) InputParameters.Config {
	cfg.BCs = [4]types.BCFLAG{left, right, bottom, top}
	return cfg
}

func newSolver(t *testing.T, cfg InputParameters.Config, opts ...Option) *Euler {
	c, err := NewEuler(cfg, nil, opts...)
	require.NoError(t, err)
	return c
}

// fillRamp writes a distinct value into every cell of every variable
func fillRamp(m *FV2D.Mesh) {
	for n := 0; n < m.NVar; n++ {
		for i := 0; i < m.Nx; i++ {
			for j := 0; j < m.Ny; j++ {
				m.Set(n, i, j, float64(1000*n+100*i+j)+0.5)
			}
		}
	}
}
