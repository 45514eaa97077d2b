package output

import (
	"bufio"
	"encoding/binary"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/notargets/fiefs/InputParameters"
	"github.com/notargets/fiefs/model_problems/Euler2D"
)

type Format uint8

const (
	FMT_Text   Format = iota // Space delimited rows
	FMT_CSV                  // Comma delimited rows
	FMT_Binary               // Little endian int64 nx1, nx2 then float64 rows
)

var (
	FormatNames = map[string]Format{
		"txt": FMT_Text,
		"csv": FMT_CSV,
		"bin": FMT_Binary,
	}
	formatExt = [...]string{"txt", "csv", "bin"}
)

func (f Format) String() string { return formatExt[f] }

func NewFormat(label string) (f Format, err error) {
	var ok bool
	if f, ok = FormatNames[strings.ToLower(strings.TrimSpace(label))]; !ok {
		err = fmt.Errorf("%w: unknown output type %q, must be txt, csv or bin",
			InputParameters.ErrInvalidConfig, label)
	}
	return
}

/*
FileSink writes one file per output variable and format for every frame it is
handed, named <variable>_<step>.<ext> inside Dir. Each file holds the Nx1 by
Nx2 interior grid of the variable, one row per x1 index.
*/
type FileSink struct {
	Dir     string
	Formats []Format
	Vars    []Euler2D.FlowFunction
	labels  []string
	Written []string // Paths in the order they were written
}

// NewFileSink validates the output types and variable names. An empty list
// of variables writes density, an empty list of types writes text.
func NewFileSink(dir string, types, vars []string) (fs *FileSink, err error) {
	if len(dir) == 0 {
		err = fmt.Errorf("%w: output directory must be named", InputParameters.ErrInvalidConfig)
		return
	}
	if len(types) == 0 {
		types = []string{"txt"}
	}
	if len(vars) == 0 {
		vars = []string{"density"}
	}
	fs = &FileSink{Dir: dir}
	for _, t := range types {
		var f Format
		if f, err = NewFormat(t); err != nil {
			return nil, err
		}
		fs.Formats = append(fs.Formats, f)
	}
	for _, v := range vars {
		var pf Euler2D.FlowFunction
		if pf, err = Euler2D.NewFlowFunction(v); err != nil {
			return nil, fmt.Errorf("%w: %v", InputParameters.ErrInvalidConfig, err)
		}
		fs.Vars = append(fs.Vars, pf)
		fs.labels = append(fs.labels, strings.ToLower(strings.TrimSpace(v)))
	}
	if err = os.MkdirAll(dir, 0755); err != nil {
		return nil, err
	}
	return
}

func FileName(label string, step int, f Format) string {
	return fmt.Sprintf("%s_%05d.%s", label, step, f)
}

func (fs *FileSink) WriteFrame(fr Euler2D.Frame) (err error) {
	for iv, pf := range fs.Vars {
		grid := InteriorField(fr, pf)
		for _, f := range fs.Formats {
			path := filepath.Join(fs.Dir, FileName(fs.labels[iv], fr.Step, f))
			if err = writeFile(path, grid, f); err != nil {
				return
			}
			fs.Written = append(fs.Written, path)
		}
	}
	return
}

// InteriorField evaluates a flow function over the interior cells of the
// frame's mesh, returning Nx1 rows of Nx2 values
func InteriorField(fr Euler2D.Frame, pf Euler2D.FlowFunction) (grid [][]float64) {
	var (
		m                      = fr.Mesh
		f                      = Euler2D.FlowField(m.Conserved(), fr.Gamma, pf)
		iMin, iMax, jMin, jMax = m.InteriorRange()
	)
	grid = make([][]float64, 0, m.Nx1)
	for i := iMin; i < iMax; i++ {
		grid = append(grid, f[i*m.Ny+jMin:i*m.Ny+jMax])
	}
	return
}

func writeFile(path string, grid [][]float64, f Format) (err error) {
	var file *os.File
	if file, err = os.Create(path); err != nil {
		return
	}
	defer func() {
		if cerr := file.Close(); err == nil {
			err = cerr
		}
	}()
	switch f {
	case FMT_Binary:
		err = writeBinary(file, grid)
	default:
		err = writeDelimited(file, grid, f)
	}
	if err != nil {
		err = fmt.Errorf("writing %s: %w", path, err)
	}
	return
}

func writeDelimited(w io.Writer, grid [][]float64, f Format) error {
	cw := csv.NewWriter(w)
	if f == FMT_Text {
		cw.Comma = ' '
	}
	record := make([]string, 0)
	for _, row := range grid {
		record = record[:0]
		for _, val := range row {
			record = append(record, strconv.FormatFloat(val, 'g', -1, 64))
		}
		if err := cw.Write(record); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

func writeBinary(w io.Writer, grid [][]float64) (err error) {
	var (
		bw     = bufio.NewWriter(w)
		nx, ny int
	)
	if nx = len(grid); nx > 0 {
		ny = len(grid[0])
	}
	if err = binary.Write(bw, binary.LittleEndian, [2]int64{int64(nx), int64(ny)}); err != nil {
		return
	}
	for _, row := range grid {
		if err = binary.Write(bw, binary.LittleEndian, row); err != nil {
			return
		}
	}
	return bw.Flush()
}

// ReadGrid reads back a file written by FileSink, selecting the format from
// the file extension
func ReadGrid(path string) (grid [][]float64, err error) {
	var f Format
	if f, err = NewFormat(strings.TrimPrefix(filepath.Ext(path), ".")); err != nil {
		return
	}
	var file *os.File
	if file, err = os.Open(path); err != nil {
		return
	}
	defer file.Close()
	if f == FMT_Binary {
		var info os.FileInfo
		if info, err = file.Stat(); err != nil {
			return
		}
		if grid, err = readBinary(bufio.NewReader(file), info.Size()); err != nil {
			return nil, fmt.Errorf("reading %s: %w", path, err)
		}
		return
	}
	cr := csv.NewReader(file)
	if f == FMT_Text {
		cr.Comma = ' '
	}
	var records [][]string
	if records, err = cr.ReadAll(); err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	grid = make([][]float64, len(records))
	for i, rec := range records {
		grid[i] = make([]float64, len(rec))
		for j, s := range rec {
			if grid[i][j], err = strconv.ParseFloat(s, 64); err != nil {
				return nil, fmt.Errorf("reading %s: row %d: %w", path, i, err)
			}
		}
	}
	return
}

// readBinary reads a grid of size bytes in total; the header dimensions must
// account for exactly the bytes that follow it
func readBinary(r io.Reader, size int64) (grid [][]float64, err error) {
	var dims [2]int64
	if err = binary.Read(r, binary.LittleEndian, &dims); err != nil {
		return
	}
	payload := size - 16
	if dims[0] < 0 || dims[1] < 0 ||
		(dims[0] > 0 && dims[1] > payload/8/dims[0]) || 8*dims[0]*dims[1] != payload {
		err = fmt.Errorf("header dimensions %dx%d do not match %d data bytes", dims[0], dims[1], payload)
		return
	}
	grid = make([][]float64, dims[0])
	for i := range grid {
		grid[i] = make([]float64, dims[1])
		if err = binary.Read(r, binary.LittleEndian, grid[i]); err != nil {
			return nil, err
		}
	}
	return
}
