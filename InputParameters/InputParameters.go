package InputParameters

import (
	"fmt"
	"io"
	"os"

	"github.com/ghodss/yaml"
)

// Parameters obtained from the input file, before validation. YAML keys
// follow the fixed-format parameter names.
type InputParameters2D struct {
	Title           string   `json:"Title"`
	Problem         string   `json:"problem"` // Problem generator: kh, sample, shocktube
	FluxType        string   `json:"flux"`
	Integrator      string   `json:"integrator"`
	NX1             int      `json:"nx1"`
	NX2             int      `json:"nx2"`
	NVar            int      `json:"nvar"`
	NG              int      `json:"ng"`
	X1Min           float64  `json:"x1min"`
	X1Max           float64  `json:"x1max"`
	X2Min           float64  `json:"x2min"`
	X2Max           float64  `json:"x2max"`
	Rho0            float64  `json:"rho0"`
	Rho1            float64  `json:"rho1"`
	P0              float64  `json:"p0"`
	P1              float64  `json:"p1"`
	U0              float64  `json:"u0"`
	U1              float64  `json:"u1"`
	V0              float64  `json:"v0"`
	V1              float64  `json:"v1"`
	PertAmp         float64  `json:"pert_amp"`
	CFL             float64  `json:"CFL"`
	TMax            float64  `json:"tmax"`
	Gamma           float64  `json:"gamma"`
	Beta            float64  `json:"beta"` // Limiter aggressiveness, 1 = minmod
	LeftBC          string   `json:"left_bc"`
	RightBC         string   `json:"right_bc"`
	TopBC           string   `json:"top_bc"`
	BottomBC        string   `json:"bottom_bc"`
	OutputFrequency int      `json:"output_frequency"`
	OutputVariables []string `json:"output_variables"`
	OutputTypes     []string `json:"output_types"`
	MaxIterations   int      `json:"max_iterations"`
	Seed            int64    `json:"seed"`
}

func (ip *InputParameters2D) Parse(data []byte) error {
	return yaml.Unmarshal(data, ip)
}

// ReadFile reads a YAML input file, or a fixed layout .in file when the
// extension is .in
func ReadFile(path string) (ip *InputParameters2D, err error) {
	var data []byte
	if data, err = os.ReadFile(path); err != nil {
		return
	}
	ip = &InputParameters2D{}
	if IsFixedFormat(path) {
		err = ip.ParseFixed(data)
	} else {
		err = ip.Parse(data)
	}
	if err != nil {
		err = fmt.Errorf("unable to parse %s: %w", path, err)
	}
	return
}

func (ip *InputParameters2D) Print() {
	ip.Fprint(os.Stdout)
}

func (ip *InputParameters2D) Fprint(w io.Writer) {
	fmt.Fprintf(w, "\"%s\"\t\t= Title\n", ip.Title)
	fmt.Fprintf(w, "[%s]\t\t\t= Problem\n", ip.Problem)
	fmt.Fprintf(w, "[%d x %d], ng=%d\t= Grid\n", ip.NX1, ip.NX2, ip.NG)
	fmt.Fprintf(w, "[%g,%g]x[%g,%g]\t= Domain\n", ip.X1Min, ip.X1Max, ip.X2Min, ip.X2Max)
	fmt.Fprintf(w, "%8.5f\t\t= CFL\n", ip.CFL)
	fmt.Fprintf(w, "%8.5f\t\t= tmax\n", ip.TMax)
	fmt.Fprintf(w, "%8.5f\t\t= gamma\n", ip.Gamma)
	fmt.Fprintf(w, "[%s]\t\t\t= Flux Type\n", ip.FluxType)
	fmt.Fprintf(w, "[%s]\t\t\t= Integrator\n", ip.Integrator)
	fmt.Fprintf(w, "rho0=%g rho1=%g p0=%g p1=%g u0=%g u1=%g v0=%g v1=%g pert_amp=%g\n",
		ip.Rho0, ip.Rho1, ip.P0, ip.P1, ip.U0, ip.U1, ip.V0, ip.V1, ip.PertAmp)
	fmt.Fprintf(w, "BCs: left=%s right=%s bottom=%s top=%s\n",
		ip.LeftBC, ip.RightBC, ip.BottomBC, ip.TopBC)
}
