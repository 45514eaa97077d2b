package main

import (
	"bufio"
	"encoding/csv"
	"flag"
	"fmt"
	"io"
	"math"
	"os"
	"sort"
	"strconv"
)

var (
	csvFile string
)

/*
Reads a grid refinement study, one line per run after a header:

	title, nx1, CFL, rhoL1, pL1

and reports the observed order of accuracy between successive resolutions of
each study, order = log(e_coarse/e_fine) / log(n_fine/n_coarse)
*/
func main() {
	csvFilePtr := flag.String("csvFile", csvFile, "file containing entries of a convergence study")
	flag.Parse()
	csvFile = *csvFilePtr
	if len(csvFile) == 0 {
		flag.Usage()
		os.Exit(1)
	}
	fmt.Printf("Input file: %v\n", csvFile)
	f, err := os.Open(csvFile)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	defer f.Close()
	studies, err := readCSV(bufio.NewReader(f))
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	for _, title := range sortedTitles(studies) {
		studies[title].Print(os.Stdout)
	}
}

type ConvergenceStudy struct {
	title      string
	numPTS     []int
	CFL        float64
	rhoL1, pL1 []float64
}

func NewConvergenceStudy(title string, CFL float64) *ConvergenceStudy {
	return &ConvergenceStudy{
		title: title,
		CFL:   CFL,
	}
}

func (cs *ConvergenceStudy) Add(numPTS int, rhoL1, pL1 float64) {
	cs.numPTS = append(cs.numPTS, numPTS)
	cs.rhoL1 = append(cs.rhoL1, rhoL1)
	cs.pL1 = append(cs.pL1, pL1)
}

// Order returns the observed order between run i-1 and run i for each error
// list, after the runs have been sorted by resolution
func (cs *ConvergenceStudy) Order(i int) (rhoOrder, pOrder float64) {
	ratio := math.Log(float64(cs.numPTS[i]) / float64(cs.numPTS[i-1]))
	rhoOrder = math.Log(cs.rhoL1[i-1]/cs.rhoL1[i]) / ratio
	pOrder = math.Log(cs.pL1[i-1]/cs.pL1[i]) / ratio
	return
}

func (cs *ConvergenceStudy) sortByResolution() {
	ind := make([]int, len(cs.numPTS))
	for i := range ind {
		ind[i] = i
	}
	sort.SliceStable(ind, func(a, b int) bool { return cs.numPTS[ind[a]] < cs.numPTS[ind[b]] })
	n, rho, p := make([]int, len(ind)), make([]float64, len(ind)), make([]float64, len(ind))
	for i, k := range ind {
		n[i], rho[i], p[i] = cs.numPTS[k], cs.rhoL1[k], cs.pL1[k]
	}
	cs.numPTS, cs.rhoL1, cs.pL1 = n, rho, p
}

func (cs *ConvergenceStudy) Print(w io.Writer) {
	fmt.Fprintf(w, "Title = %s, CFL = %5.2f\n", cs.title, cs.CFL)
	for i := range cs.numPTS {
		fmt.Fprintf(w, "%6d, %12.6e, %12.6e", cs.numPTS[i], cs.rhoL1[i], cs.pL1[i])
		if i > 0 {
			rhoOrder, pOrder := cs.Order(i)
			fmt.Fprintf(w, ", order = %5.2f, %5.2f", rhoOrder, pOrder)
		}
		fmt.Fprintln(w)
	}
}

func readCSV(r io.Reader) (studies map[string]*ConvergenceStudy, err error) {
	var (
		records [][]string
		ok      bool
		cs      *ConvergenceStudy
		vals    [3]float64
	)
	studies = make(map[string]*ConvergenceStudy)
	cr := csv.NewReader(r)
	cr.TrimLeadingSpace = true
	if records, err = cr.ReadAll(); err != nil {
		return
	}
	for i, rec := range records {
		if i == 0 {
			continue
		}
		if len(rec) < 5 {
			return nil, fmt.Errorf("line %d: need 5 fields, have %d", i+1, len(rec))
		}
		var npts int
		if npts, err = strconv.Atoi(rec[1]); err != nil {
			return nil, fmt.Errorf("line %d: %w", i+1, err)
		}
		for k, txt := range []string{rec[2], rec[3], rec[4]} {
			if vals[k], err = strconv.ParseFloat(txt, 64); err != nil {
				return nil, fmt.Errorf("line %d: %w", i+1, err)
			}
		}
		title := rec[0]
		if cs, ok = studies[title]; !ok {
			cs = NewConvergenceStudy(title, vals[0])
			studies[title] = cs
		}
		cs.Add(npts, vals[1], vals[2])
	}
	for _, cs = range studies {
		cs.sortByResolution()
	}
	return
}

func sortedTitles(studies map[string]*ConvergenceStudy) (titles []string) {
	for title := range studies {
		titles = append(titles, title)
	}
	sort.Strings(titles)
	return
}
