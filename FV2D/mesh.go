package FV2D

import (
	"fmt"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

// Geometry is the immutable description of a single structured block
type Geometry struct {
	X1Min, X1Max, X2Min, X2Max float64
	Nx1, Nx2                   int // Interior cell counts
	Ng                         int // Ghost layer width
}

func (g Geometry) Validate() error {
	switch {
	case g.Nx1 <= 0 || g.Nx2 <= 0:
		return fmt.Errorf("grid dimensions must be positive, have nx1=%d, nx2=%d", g.Nx1, g.Nx2)
	case g.Ng < 1:
		return fmt.Errorf("ghost width must be at least 1, have ng=%d", g.Ng)
	case g.Nx1 < g.Ng || g.Nx2 < g.Ng:
		// Ghost layers are filled from interior cells only
		return fmt.Errorf("grid dimensions must be at least the ghost width %d, have nx1=%d, nx2=%d",
			g.Ng, g.Nx1, g.Nx2)
	case !(g.X1Max > g.X1Min) || !(g.X2Max > g.X2Min):
		return fmt.Errorf("domain bounds inverted: x1=[%g,%g], x2=[%g,%g]",
			g.X1Min, g.X1Max, g.X2Min, g.X2Max)
	}
	return nil
}

/*
Mesh owns the conserved variables Un[variable, i, j] of a ghost padded grid
along with its geometry.

	i = 0..Nx-1 along axis 1 (x1), j = 0..Ny-1 along axis 2 (x2)
	interior cells are i in [Ng, Ng+Nx1), j in [Ng, Ng+Nx2)
	storage index of (n, i, j) is n*Nx*Ny + i*Ny + j
*/
type Mesh struct {
	Geometry
	NVar     int
	Nx, Ny   int // Padded extents
	Dx1, Dx2 float64
	Un       *State
	x1, x2   []float64 // Cell centers, including ghost cells
}

func NewMesh(g Geometry, nvar int) (m *Mesh, err error) {
	if err = g.Validate(); err != nil {
		return
	}
	if nvar < 1 {
		err = fmt.Errorf("number of variables must be positive, have %d", nvar)
		return
	}
	m = &Mesh{
		Geometry: g,
		NVar:     nvar,
		Nx:       g.Nx1 + 2*g.Ng,
		Ny:       g.Nx2 + 2*g.Ng,
		Dx1:      (g.X1Max - g.X1Min) / float64(g.Nx1),
		Dx2:      (g.X2Max - g.X2Min) / float64(g.Nx2),
	}
	m.Un = NewState(nvar, Grid(m.Nx, m.Ny))
	m.x1 = cellCenters(g.X1Min, m.Dx1, g.Ng, m.Nx)
	m.x2 = cellCenters(g.X2Min, m.Dx2, g.Ng, m.Ny)
	return
}

func cellCenters(xmin, dx float64, ng, n int) (x []float64) {
	x = make([]float64, n)
	for i := range x {
		x[i] = xmin + (float64(i-ng)+0.5)*dx
	}
	return
}

// Conserved returns the full ghost padded state, shared with the mesh
func (m *Mesh) Conserved() *State { return m.Un }

// Variable returns the flat storage of variable n, ghosts included
func (m *Mesh) Variable(n int) []float64 { return m.Un.Var(n) }

// Plane returns variable n as an Nx by Ny matrix sharing mesh storage
func (m *Mesh) Plane(n int) *mat.Dense { return m.Un.Matrix(n) }

// Interior returns the Nx1 by Nx2 interior block of variable n, sharing storage
func (m *Mesh) Interior(n int) *mat.Dense {
	return m.Plane(n).Slice(m.Ng, m.Ng+m.Nx1, m.Ng, m.Ng+m.Nx2).(*mat.Dense)
}

func (m *Mesh) Index(n, i, j int) int { return n*m.Nx*m.Ny + i*m.Ny + j }

func (m *Mesh) At(n, i, j int) float64 { return m.Un.Data[m.Index(n, i, j)] }

func (m *Mesh) Set(n, i, j int, val float64) { m.Un.Data[m.Index(n, i, j)] = val }

// X1 and X2 return copies of the cell center coordinates, ghosts included
func (m *Mesh) X1() []float64 { return append([]float64(nil), m.x1...) }
func (m *Mesh) X2() []float64 { return append([]float64(nil), m.x2...) }

// InteriorRange returns the half-open interior index ranges along both axes
func (m *Mesh) InteriorRange() (iMin, iMax, jMin, jMax int) {
	return m.Ng, m.Ng + m.Nx1, m.Ng, m.Ng + m.Nx2
}

func (m *Mesh) IsInterior(i, j int) bool {
	iMin, iMax, jMin, jMax := m.InteriorRange()
	return i >= iMin && i < iMax && j >= jMin && j < jMax
}

/*
Window copies the (Nx-2*trim) by (Ny-2*trim) block of all variables whose
origin is offset by (di, dj) from (trim, trim). With trim=1 and |di|,|dj| <= 1
this produces the co-located neighbor slices used for reconstruction.
*/
func (m *Mesh) Window(di, dj, trim int) (w *State) {
	var (
		nx, ny = m.Nx - 2*trim, m.Ny - 2*trim
	)
	if di < -trim || di > trim || dj < -trim || dj > trim {
		panic(fmt.Errorf("window offset (%d,%d) exceeds trim %d", di, dj, trim))
	}
	w = NewState(m.NVar, Grid(nx, ny))
	for n := 0; n < m.NVar; n++ {
		src, dst := m.Un.Var(n), w.Var(n)
		for i := 0; i < nx; i++ {
			srcRow := (i+trim+di)*m.Ny + trim + dj
			copy(dst[i*ny:(i+1)*ny], src[srcRow:srcRow+ny])
		}
	}
	return
}

/*
Totals integrates each conserved variable over the interior cells.
Summation order is fixed: each interior row (constant i) is summed with
floats.Sum, then rows are accumulated in increasing i.
*/
func (m *Mesh) Totals() (tot []float64) {
	var (
		iMin, iMax, jMin, jMax = m.InteriorRange()
		area                   = m.Dx1 * m.Dx2
	)
	tot = make([]float64, m.NVar)
	for n := 0; n < m.NVar; n++ {
		q := m.Un.Var(n)
		for i := iMin; i < iMax; i++ {
			tot[n] += floats.Sum(q[i*m.Ny+jMin : i*m.Ny+jMax])
		}
		tot[n] *= area
	}
	return
}

func (m *Mesh) Clone() (c *Mesh) {
	cc := *m
	c = &cc
	c.Un = m.Un.Copy()
	return
}
