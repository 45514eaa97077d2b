package InputParameters

import (
	"bufio"
	"bytes"
	"fmt"
	"path/filepath"
	"strconv"
	"strings"
)

/*
The fixed layout input file places each parameter on a known line (0 based)
with its value starting at a known character column. Label text before the
column is ignored, as is anything after a '#' in the value.

	line 3:  "nx1   = 256"             value at column 8
	line 32: "left_bc   = periodic"    value at column 12
*/
type FixedField struct {
	Name     string
	Line     int
	Column   int
	Required bool
	set      func(ip *InputParameters2D, val string) error
}

func setInt(p *int) func(*InputParameters2D, string) error {
	return func(_ *InputParameters2D, val string) (err error) {
		*p, err = strconv.Atoi(val)
		return
	}
}

func setFloat(p *float64) func(*InputParameters2D, string) error {
	return func(_ *InputParameters2D, val string) (err error) {
		*p, err = strconv.ParseFloat(val, 64)
		return
	}
}

func setString(p *string) func(*InputParameters2D, string) error {
	return func(_ *InputParameters2D, val string) error {
		*p = val
		return nil
	}
}

func setList(p *[]string) func(*InputParameters2D, string) error {
	return func(_ *InputParameters2D, val string) error {
		*p = nil
		for _, item := range strings.FieldsFunc(val, func(r rune) bool { return r == ',' || r == ' ' }) {
			*p = append(*p, item)
		}
		return nil
	}
}

// FixedLayout returns the line/column table bound to the fields of ip
func (ip *InputParameters2D) FixedLayout() []FixedField {
	return []FixedField{
		{"Title", 1, 8, false, setString(&ip.Title)},
		{"nx1", 3, 8, true, setInt(&ip.NX1)},
		{"nx2", 4, 8, true, setInt(&ip.NX2)},
		{"nvar", 5, 8, false, setInt(&ip.NVar)},
		{"ng", 6, 8, true, setInt(&ip.NG)},
		{"x1min", 8, 8, true, setFloat(&ip.X1Min)},
		{"x1max", 9, 8, true, setFloat(&ip.X1Max)},
		{"x2min", 10, 8, true, setFloat(&ip.X2Min)},
		{"x2max", 11, 8, true, setFloat(&ip.X2Max)},
		{"rho0", 14, 8, true, setFloat(&ip.Rho0)},
		{"rho1", 15, 8, true, setFloat(&ip.Rho1)},
		{"p0", 17, 8, true, setFloat(&ip.P0)},
		{"p1", 18, 8, true, setFloat(&ip.P1)},
		{"u0", 20, 8, true, setFloat(&ip.U0)},
		{"u1", 21, 8, true, setFloat(&ip.U1)},
		{"pert_amp", 22, 8, true, setFloat(&ip.PertAmp)},
		{"v0", 23, 8, false, setFloat(&ip.V0)},
		{"v1", 24, 8, false, setFloat(&ip.V1)},
		{"CFL", 26, 8, true, setFloat(&ip.CFL)},
		{"tmax", 27, 8, true, setFloat(&ip.TMax)},
		{"gamma", 29, 8, true, setFloat(&ip.Gamma)},
		{"left_bc", 32, 12, true, setString(&ip.LeftBC)},
		{"right_bc", 33, 12, true, setString(&ip.RightBC)},
		{"top_bc", 34, 12, true, setString(&ip.TopBC)},
		{"bottom_bc", 35, 12, true, setString(&ip.BottomBC)},
		{"problem", 37, 12, false, setString(&ip.Problem)},
		{"flux", 38, 12, false, setString(&ip.FluxType)},
		{"integrator", 39, 12, false, setString(&ip.Integrator)},
		{"beta", 40, 12, false, setFloat(&ip.Beta)},
		{"output_frequency", 41, 12, false, setInt(&ip.OutputFrequency)},
		{"output_variables", 42, 12, false, setList(&ip.OutputVariables)},
		{"output_types", 43, 12, false, setList(&ip.OutputTypes)},
		{"max_iterations", 44, 12, false, setInt(&ip.MaxIterations)},
	}
}

func IsFixedFormat(path string) bool {
	return strings.EqualFold(filepath.Ext(path), ".in")
}

func (ip *InputParameters2D) ParseFixed(data []byte) (err error) {
	var (
		lines   []string
		scanner = bufio.NewScanner(bytes.NewReader(data))
	)
	for scanner.Scan() {
		lines = append(lines, scanner.Text())
	}
	if err = scanner.Err(); err != nil {
		return
	}
	for _, ff := range ip.FixedLayout() {
		val := fixedValue(lines, ff.Line, ff.Column)
		if len(val) == 0 {
			if ff.Required {
				return fmt.Errorf("%w: missing %s on line %d, column %d",
					ErrInvalidConfig, ff.Name, ff.Line+1, ff.Column+1)
			}
			continue
		}
		if err = ff.set(ip, val); err != nil {
			return fmt.Errorf("%w: bad value %q for %s on line %d: %v",
				ErrInvalidConfig, val, ff.Name, ff.Line+1, err)
		}
	}
	return
}

func fixedValue(lines []string, line, column int) (val string) {
	if line >= len(lines) || column >= len(lines[line]) {
		return
	}
	val = lines[line][column:]
	if ind := strings.IndexByte(val, '#'); ind >= 0 {
		val = val[:ind]
	}
	return strings.TrimSpace(val)
}
