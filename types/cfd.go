package types

import (
	"fmt"
	"sort"
	"strings"
)

// BCFLAG selects how the ghost layer along one edge of the grid is filled
type BCFLAG uint8

const (
	BC_Transmissive BCFLAG = iota
	BC_Periodic
	BC_Wall
)

var BCNameMap = map[string]BCFLAG{
	"transmissive": BC_Transmissive,
	"periodic":     BC_Periodic,
	"wall":         BC_Wall,
}

var BCPrintNames = []string{"Transmissive", "Periodic", "Wall"}

func (bc BCFLAG) String() string {
	if int(bc) < len(BCPrintNames) {
		return BCPrintNames[bc]
	}
	return fmt.Sprintf("BCFLAG(%d)", uint8(bc))
}

// NewBCFlag matches label case-insensitively against the known modes
func NewBCFlag(label string) (bc BCFLAG, err error) {
	var ok bool
	if bc, ok = BCNameMap[strings.ToLower(strings.TrimSpace(label))]; !ok {
		err = fmt.Errorf("unknown boundary condition %q, must be one of %v", label, BCNames())
	}
	return
}

func BCNames() (names []string) {
	for name := range BCNameMap {
		names = append(names, name)
	}
	sort.Strings(names)
	return
}

// Edge identifies one side of the structured block. Left/Right bound axis 1 (i),
// Bottom/Top bound axis 2 (j).
type Edge uint8

const (
	Left Edge = iota
	Right
	Bottom
	Top
)

// Edges is the fixed order in which boundary conditions are enforced; vertical
// edges first, so corner ghosts end up defined by the horizontal edge rules.
var Edges = [4]Edge{Left, Right, Bottom, Top}

func (e Edge) String() string {
	return [...]string{"left", "right", "bottom", "top"}[e]
}

// Opposite returns the edge across the domain, the source of periodic data
func (e Edge) Opposite() Edge {
	switch e {
	case Left:
		return Right
	case Right:
		return Left
	case Bottom:
		return Top
	default:
		return Bottom
	}
}

// Axis returns 1 for edges normal to axis 1 and 2 for edges normal to axis 2
func (e Edge) Axis() int {
	if e == Left || e == Right {
		return 1
	}
	return 2
}

// ConservedVar indexes the variable axis of the conserved state
type ConservedVar uint8

const (
	Density ConservedVar = iota
	XMomentum
	YMomentum
	Energy
)

const NVAR = 4

func (cv ConservedVar) String() string {
	return [...]string{"Density", "XMomentum", "YMomentum", "Energy"}[cv]
}
