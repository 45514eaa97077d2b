package Euler2D

import (
	"github.com/notargets/fiefs/FV2D"
)

func Get4DP(Q *FV2D.State) (qD [4][]float64) {
	qD = [4][]float64{Q.Var(0), Q.Var(1), Q.Var(2), Q.Var(3)}
	return
}

func GetQQ(ind int, qD [4][]float64) (qq [4]float64) {
	qq = [4]float64{qD[0][ind], qD[1][ind], qD[2][ind], qD[3][ind]}
	return
}

/*
faceIndex maps the grids used by the face flux calculation:

	mesh cell (i, j)   -> i*Ny + j
	slope cell (i, j)  -> (i-1)*(Ny-2) + j-1, slopes skip the outer ghost layer
	x face (f, j)      -> f*Nx2 + j, face f lies between cells Ng-1+f and Ng+f
	y face (i, f)      -> i*(Nx2+1) + f, for interior row i
*/
type faceIndex struct {
	ng, ny, nx2 int
}

func (fi faceIndex) cell(i, j int) int  { return i*fi.ny + j }
func (fi faceIndex) slope(i, j int) int { return (i-1)*(fi.ny-2) + j - 1 }
func (fi faceIndex) xFace(f, j int) int { return f*fi.nx2 + j }
func (fi faceIndex) yFace(i, f int) int { return i*(fi.nx2+1) + f }
