package FV2D

import (
	"fmt"

	"gonum.org/v1/gonum/mat"
)

// Layout describes how a contiguous block of cell values is viewed: either as
// a flattened 1-d sequence or as a native 2-d (i, j) grid in row-major order.
// Both views address the same storage in the same order.
type Layout struct {
	Dims []int
}

func Flat(n int) Layout { return Layout{Dims: []int{n}} }

func Grid(nx, ny int) Layout { return Layout{Dims: []int{nx, ny}} }

func (l Layout) Len() (n int) {
	if len(l.Dims) == 0 {
		return 0
	}
	n = 1
	for _, d := range l.Dims {
		n *= d
	}
	return
}

func (l Layout) IsFlat() bool { return len(l.Dims) == 1 }

func (l Layout) String() string {
	if l.IsFlat() {
		return fmt.Sprintf("flat[%d]", l.Dims[0])
	}
	return fmt.Sprintf("grid%v", l.Dims)
}

// State is a [variable, spatial...] block: NVar planes of Layout.Len() values
// each, stored variable-major in Data.
type State struct {
	NVar   int
	Layout Layout
	Data   []float64
}

func NewState(nvar int, l Layout) (s *State) {
	s = &State{
		NVar:   nvar,
		Layout: l,
		Data:   make([]float64, nvar*l.Len()),
	}
	return
}

// NewIntermArray allocates a ghost-free work array for nx by ny cells. With a
// single variable the block collapses to a plain 2-d array.
func NewIntermArray(nvar, nx, ny int) (s *State) {
	return NewState(nvar, Grid(nx, ny))
}

// Shape returns the logical array shape; the variable axis is dropped when
// there is only one variable.
func (s *State) Shape() (shape []int) {
	if s.NVar != 1 {
		shape = append(shape, s.NVar)
	}
	shape = append(shape, s.Layout.Dims...)
	return
}

func (s *State) Size() int { return len(s.Data) }

// PlaneLen is the number of cells in one variable plane
func (s *State) PlaneLen() int { return s.Layout.Len() }

// Var returns the storage of variable n, shared with the State
func (s *State) Var(n int) []float64 {
	N := s.Layout.Len()
	return s.Data[n*N : (n+1)*N]
}

// Reshape returns a view of the same storage under another layout
func (s *State) Reshape(l Layout) (r *State, err error) {
	if l.Len() != s.Layout.Len() {
		err = fmt.Errorf("cannot view %s data as %s", s.Layout, l)
		return
	}
	r = &State{NVar: s.NVar, Layout: l, Data: s.Data}
	return
}

// Flatten is the 1-d view of the state, sharing storage
func (s *State) Flatten() *State {
	r, _ := s.Reshape(Flat(s.Layout.Len()))
	return r
}

// Matrix returns variable n as a gonum matrix sharing the State storage.
// Only valid for 2-d layouts.
func (s *State) Matrix(n int) *mat.Dense {
	if len(s.Layout.Dims) != 2 {
		panic(fmt.Errorf("matrix view requires a 2-d layout, have %s", s.Layout))
	}
	return mat.NewDense(s.Layout.Dims[0], s.Layout.Dims[1], s.Var(n))
}

func (s *State) Copy() (r *State) {
	r = NewState(s.NVar, Layout{Dims: append([]int(nil), s.Layout.Dims...)})
	copy(r.Data, s.Data)
	return
}

// SameShape reports whether two states can be combined element by element
func (s *State) SameShape(o *State) bool {
	return s.NVar == o.NVar && s.Layout.Len() == o.Layout.Len()
}
