package Euler2D

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"math"
	"strings"
	"time"

	"gonum.org/v1/gonum/floats"

	"github.com/notargets/fiefs/FV2D"
	"github.com/notargets/fiefs/InputParameters"
	"github.com/notargets/fiefs/types"
	"github.com/notargets/fiefs/utils"
)

// ErrUnstable marks a run that produced NaN/Inf values or a collapsing time step
var ErrUnstable = errors.New("numerical instability")

// SimulationError locates a failure detected while stepping. I and J are the
// mesh indices of the offending cell, -1 when the failure is not local.
type SimulationError struct {
	Step    int
	Time    float64
	I, J    int
	Wrapped error
}

func (e *SimulationError) Error() string {
	if e.I < 0 {
		return fmt.Sprintf("step %d, time %.6g: %v", e.Step, e.Time, e.Wrapped)
	}
	return fmt.Sprintf("step %d, time %.6g, cell (%d,%d): %v", e.Step, e.Time, e.I, e.J, e.Wrapped)
}

func (e *SimulationError) Unwrap() error { return e.Wrapped }

type IntegratorType uint8

const (
	INT_ForwardEuler IntegratorType = iota
	INT_RK3SSP
)

var (
	IntegratorNames = map[string]IntegratorType{
		"euler": INT_ForwardEuler,
		"rk3":   INT_RK3SSP,
	}
	IntegratorPrintNames = []string{"Forward Euler", "Runge Kutta 3 SSP"}
)

func (it IntegratorType) Print() string { return IntegratorPrintNames[it] }

func NewIntegratorType(label string) (it IntegratorType, err error) {
	var ok bool
	label = strings.ToLower(label)
	if it, ok = IntegratorNames[label]; !ok {
		err = fmt.Errorf("%w: unable to use integrator named %s", InputParameters.ErrInvalidConfig, label)
	}
	return
}

/*
Stage coefficients: each stage sets q = A*q0 + B*(q + dt*L(q)) on the interior.
Weight is the contribution of the stage residual to the full step, used to
account for the flux through the domain boundary.
*/
type stage struct {
	A, B, Weight float64
}

var stages = map[IntegratorType][]stage{
	INT_ForwardEuler: {{0, 1, 1}},
	INT_RK3SSP:       {{0, 1, 1. / 6.}, {3. / 4., 1. / 4., 1. / 6.}, {1. / 3., 2. / 3., 2. / 3.}},
}

// Frame is the state handed to a Sink between steps
type Frame struct {
	Step  int
	Time  float64
	Gamma float64
	Mesh  *FV2D.Mesh
}

// Sink consumes frames at the configured output frequency. Frames are
// delivered synchronously; the mesh must not be retained after WriteFrame.
type Sink interface {
	WriteFrame(f Frame) error
}

type RunSummary struct {
	Steps         int
	Time          float64
	Elapsed       time.Duration
	Frames        int
	InitialTotals []float64
	FinalTotals   []float64
	BoundaryFlux  []float64 // Time integrated net outflow through non-periodic edges
}

type Euler struct {
	// Input parameters
	Config          InputParameters.Config
	CFL, FinalTime  float64
	Gamma, Beta     float64
	FluxCalcAlgo    FluxType
	IntegratorAlgo  IntegratorType
	Flux            InterfaceFlux
	BCs             *BCEnforcer
	MaxIterations   int
	ReportFrequency int // Steps between progress lines
	ParallelDegree  int // Number of go routines to use for parallel execution
	Partitions      *utils.PartitionMap
	FacePartitions  *utils.PartitionMap
	Mesh            *FV2D.Mesh
	Time            float64
	Steps           int
	Residual        []float64 // Max |dQ/dt| per variable over the last step

	out             io.Writer // Progress table, nil to disable
	log             *slog.Logger
	procLimit       int
	fx, fy          *FV2D.State // Face fluxes
	rhs             *FV2D.State
	q0              *FV2D.State
	boundaryFlux    []float64
	cumBoundaryFlux []float64
}

type Option func(c *Euler)

// WithParallelDegree limits the number of go routines, 0 uses one per CPU
func WithParallelDegree(procLimit int) Option {
	return func(c *Euler) { c.procLimit = procLimit }
}

func WithProgress(w io.Writer) Option {
	return func(c *Euler) { c.out = w }
}

/*
NewEuler resolves the scheme names in cfg, allocates the mesh and runs the
configured problem generator over every cell. A nil logger discards output.
*/
func NewEuler(cfg InputParameters.Config, logger *slog.Logger, opts ...Option) (c *Euler, err error) {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	c = &Euler{
		Config:          cfg,
		CFL:             cfg.CFL,
		FinalTime:       cfg.TMax,
		Gamma:           cfg.Gamma,
		Beta:            cfg.Beta,
		MaxIterations:   cfg.MaxIterations,
		ReportFrequency: cfg.OutputFrequency,
		log:             logger,
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.ReportFrequency == 0 {
		c.ReportFrequency = 100
	}
	if c.FluxCalcAlgo, err = NewFluxType(cfg.FluxType); err != nil {
		return nil, err
	}
	c.Flux = c.FluxCalcAlgo.InterfaceFlux()
	if c.IntegratorAlgo, err = NewIntegratorType(cfg.Integrator); err != nil {
		return nil, err
	}
	if err = CheckBeta(cfg.Beta); err != nil {
		return nil, err
	}
	if !(cfg.Gamma > 1) {
		return nil, fmt.Errorf("%w: gamma must be greater than 1, have %g", InputParameters.ErrInvalidConfig, cfg.Gamma)
	}
	if cfg.Ng < 2 {
		return nil, fmt.Errorf("%w: reconstruction needs ng >= 2, have %d", InputParameters.ErrInvalidConfig, cfg.Ng)
	}
	if c.BCs, err = NewBCEnforcer(cfg.BCs); err != nil {
		return nil, err
	}
	var pg ProblemGenerator
	if pg, err = NewProblemGenerator(cfg.Problem); err != nil {
		return nil, err
	}
	if c.Mesh, err = FV2D.NewMesh(cfg.Geometry, types.NVAR); err != nil {
		return nil, fmt.Errorf("%w: %v", InputParameters.ErrInvalidConfig, err)
	}
	if err = pg(cfg, c.Mesh); err != nil {
		return nil, fmt.Errorf("initializing %s: %w", cfg.Problem, err)
	}
	c.SetParallelDegree(c.procLimit)
	c.allocate()
	c.log.Info("euler equations in 2 dimensions",
		"problem", InitPrintNames[cfg.Problem],
		"flux", c.FluxCalcAlgo.Print(),
		"integrator", c.IntegratorAlgo.Print(),
		"grid", fmt.Sprintf("%dx%d", cfg.Nx1, cfg.Nx2),
		"ng", cfg.Ng,
		"cfl", c.CFL,
		"parallel", c.ParallelDegree)
	return
}

func (c *Euler) SetParallelDegree(ProcLimit int) {
	var m = c.Mesh
	c.ParallelDegree = utils.ParallelDegreeFor(ProcLimit, m.Nx1)
	c.Partitions = utils.NewPartitionMap(c.ParallelDegree, m.Nx1)
	c.FacePartitions = utils.NewPartitionMap(c.ParallelDegree, m.Nx1+1)
}

func (c *Euler) allocate() {
	var m = c.Mesh
	c.fx = FV2D.NewState(m.NVar, FV2D.Grid(m.Nx1+1, m.Nx2))
	c.fy = FV2D.NewState(m.NVar, FV2D.Grid(m.Nx1, m.Nx2+1))
	c.rhs = FV2D.NewIntermArray(m.NVar, m.Nx1, m.Nx2)
	c.Residual = make([]float64, m.NVar)
	c.boundaryFlux = make([]float64, m.NVar)
	c.cumBoundaryFlux = make([]float64, m.NVar)
}

/*
RHS evaluates dQ/dt = -(dF/dx1 + dG/dx2) on the interior cells of m into rhs
(an Nx1 by Nx2 work array), returning the net outflow rate through each
non-periodic edge summed over the edge. Ghost cells of m are refreshed first.

Face states are MUSCL reconstructions from limited slopes:

	qL = q(i) + delta(i)/2,  qR = q(i+1) - delta(i+1)/2
*/
func (c *Euler) RHS(m *FV2D.Mesh, rhs *FV2D.State) (net []float64, err error) {
	c.BCs.Enforce(m)
	var dI, dJ *FV2D.State
	if dI, dJ, err = MeshSlopes(m, c.Beta); err != nil {
		return
	}
	var (
		fi         = faceIndex{ng: m.Ng, ny: m.Ny, nx2: m.Nx2}
		qD         = Get4DP(m.Un)
		dID, dJD   = Get4DP(dI), Get4DP(dJ)
		fxD, fyD   = Get4DP(c.fx), Get4DP(c.fy)
		rD         = Get4DP(rhs)
		ng         = m.Ng
		nx2        = m.Nx2
		oodx, oody = 1. / m.Dx1, 1. / m.Dx2
	)
	faceState := func(cell, slope int, dD [4][]float64, sign float64) (q [4]float64) {
		for n := 0; n < 4; n++ {
			q[n] = qD[n][cell] + sign*0.5*dD[n][slope]
		}
		return
	}
	// Faces normal to axis 1
	c.FacePartitions.Range(func(_, fMin, fMax int) {
		for f := fMin; f < fMax; f++ {
			iL := ng - 1 + f
			for j := 0; j < nx2; j++ {
				jj := ng + j
				qL := faceState(fi.cell(iL, jj), fi.slope(iL, jj), dID, 1)
				qR := faceState(fi.cell(iL+1, jj), fi.slope(iL+1, jj), dID, -1)
				F := c.Flux(qL, qR, c.Gamma, X)
				for n := 0; n < 4; n++ {
					fxD[n][fi.xFace(f, j)] = F[n]
				}
			}
		}
	})
	// Faces normal to axis 2, then the divergence
	c.Partitions.Range(func(_, iMin, iMax int) {
		for i := iMin; i < iMax; i++ {
			ii := ng + i
			for f := 0; f <= nx2; f++ {
				jL := ng - 1 + f
				qL := faceState(fi.cell(ii, jL), fi.slope(ii, jL), dJD, 1)
				qR := faceState(fi.cell(ii, jL+1), fi.slope(ii, jL+1), dJD, -1)
				G := c.Flux(qL, qR, c.Gamma, Y)
				for n := 0; n < 4; n++ {
					fyD[n][fi.yFace(i, f)] = G[n]
				}
			}
			for j := 0; j < nx2; j++ {
				for n := 0; n < 4; n++ {
					rD[n][i*nx2+j] = -oodx*(fxD[n][fi.xFace(i+1, j)]-fxD[n][fi.xFace(i, j)]) -
						oody*(fyD[n][fi.yFace(i, j+1)]-fyD[n][fi.yFace(i, j)])
				}
			}
		}
	})
	net = c.edgeOutflow(m)
	return
}

// edgeOutflow sums the face fluxes leaving the domain through each
// non-periodic edge, in edge order, each edge summed along increasing index
func (c *Euler) edgeOutflow(m *FV2D.Mesh) (net []float64) {
	var (
		fxD, fyD = Get4DP(c.fx), Get4DP(c.fy)
		fi       = faceIndex{ng: m.Ng, ny: m.Ny, nx2: m.Nx2}
		line     = make([]float64, max(m.Nx1, m.Nx2))
	)
	net = make([]float64, m.NVar)
	for _, e := range types.Edges {
		if c.BCs.Modes[e] == types.BC_Periodic {
			continue
		}
		for n := 0; n < m.NVar; n++ {
			var (
				sign, area = -1., m.Dx2 // Flux along +axis leaves through high edges
				l          []float64
			)
			switch e {
			case types.Left, types.Right:
				l = line[:m.Nx2]
				f := 0
				if e == types.Right {
					f, sign = m.Nx1, 1
				}
				for j := range l {
					l[j] = fxD[n][fi.xFace(f, j)]
				}
			case types.Bottom, types.Top:
				l, area = line[:m.Nx1], m.Dx1
				f := 0
				if e == types.Top {
					f, sign = m.Nx2, 1
				}
				for i := range l {
					l[i] = fyD[n][fi.yFace(i, f)]
				}
			}
			net[n] += sign * area * floats.Sum(l)
		}
	}
	return
}

// CalculateDT returns CFL*min(dx1,dx2)/max(|velocity|+c) over the interior
func (c *Euler) CalculateDT() (dt float64, err error) {
	var (
		m                = c.Mesh
		qD               = Get4DP(m.Un)
		np               = c.Partitions.ParallelDegree
		maxV             = make([]float64, np)
		errs             = make([]error, np)
		ng               = m.Ng
		_, _, jMin, jMax = m.InteriorRange()
	)
	c.Partitions.Range(func(np, iMin, iMax int) {
		for i := ng + iMin; i < ng+iMax; i++ {
			for j := jMin; j < jMax; j++ {
				ind := m.Index(0, i, j)
				q := GetQQ(ind, qD)
				if k := utils.FirstNonFinite(q[:]); k >= 0 {
					errs[np] = &SimulationError{Step: c.Steps + 1, Time: c.Time, I: i, J: j,
						Wrapped: fmt.Errorf("%w: %s = %g", ErrUnstable, types.ConservedVar(k), q[k])}
					return
				}
				rho := q[0]
				if !(rho > 0) {
					errs[np] = &SimulationError{Step: c.Steps + 1, Time: c.Time, I: i, J: j,
						Wrapped: fmt.Errorf("%w: density %g", ErrDomain, rho)}
					return
				}
				u, v := qD[1][ind]/rho, qD[2][ind]/rho
				p := (c.Gamma - 1) * (qD[3][ind] - 0.5*rho*(u*u+v*v))
				cs, err := SoundSpeed(rho, p, c.Gamma)
				if err != nil {
					errs[np] = &SimulationError{Step: c.Steps + 1, Time: c.Time, I: i, J: j, Wrapped: err}
					return
				}
				maxV[np] = math.Max(maxV[np], math.Sqrt(u*u+v*v)+cs)
			}
		}
	})
	for _, err = range errs { // Lowest rows first
		if err != nil {
			return
		}
	}
	vmax := floats.Max(maxV)
	dt = c.CFL * math.Min(m.Dx1, m.Dx2) / vmax
	if math.IsNaN(dt) || math.IsInf(dt, 0) || dt < 1.e-12*c.FinalTime {
		err = &SimulationError{Step: c.Steps + 1, Time: c.Time, I: -1, J: -1,
			Wrapped: fmt.Errorf("%w: time step %g, max wave speed %g", ErrUnstable, dt, vmax)}
	}
	return
}

/*
Step advances the solution by one stable time step, clamped so the run ends
exactly on the final time. Every stage enforces the boundary conditions
before reconstructing and checks the updated interior for NaN/Inf and
non-positive density or pressure.
*/
func (c *Euler) Step() (dt float64, err error) {
	var (
		m        = c.Mesh
		clamped  bool
		nvar     = m.NVar
		ng, nx2  = m.Ng, m.Nx2
		rD       = Get4DP(c.rhs)
		net      []float64
		stepFlux = make([]float64, nvar)
	)
	if dt, err = c.CalculateDT(); err != nil {
		return
	}
	if c.Time+dt >= c.FinalTime {
		dt, clamped = c.FinalTime-c.Time, true
	}
	if c.q0 == nil {
		c.q0 = m.Un.Copy()
	} else {
		copy(c.q0.Data, m.Un.Data)
	}
	var (
		qD, q0D = Get4DP(m.Un), Get4DP(c.q0)
	)
	for _, st := range stages[c.IntegratorAlgo] {
		if net, err = c.RHS(m, c.rhs); err != nil {
			return
		}
		floats.AddScaled(stepFlux, st.Weight*dt, net)
		c.Partitions.Range(func(_, iMin, iMax int) {
			for i := iMin; i < iMax; i++ {
				for j := 0; j < nx2; j++ {
					ind, r := m.Index(0, ng+i, ng+j), i*nx2+j
					for n := 0; n < nvar; n++ {
						qD[n][ind] = st.A*q0D[n][ind] + st.B*(qD[n][ind]+dt*rD[n][r])
					}
				}
			}
		})
		if err = c.CheckState(); err != nil {
			return
		}
	}
	c.residual(dt)
	copy(c.boundaryFlux, stepFlux)
	floats.Add(c.cumBoundaryFlux, stepFlux)
	c.Steps++
	if clamped {
		c.Time = c.FinalTime
	} else {
		c.Time += dt
	}
	return
}

func (c *Euler) residual(dt float64) {
	var (
		m                      = c.Mesh
		qD, q0D                = Get4DP(m.Un), Get4DP(c.q0)
		iMin, iMax, jMin, jMax = m.InteriorRange()
	)
	for n := 0; n < m.NVar; n++ {
		c.Residual[n] = 0
		for i := iMin; i < iMax; i++ {
			for j := jMin; j < jMax; j++ {
				ind := m.Index(0, i, j)
				c.Residual[n] = math.Max(c.Residual[n], math.Abs(qD[n][ind]-q0D[n][ind])/dt)
			}
		}
	}
}

// CheckState scans the interior in storage order and reports the first cell
// holding a non-finite value, or a non-positive density or pressure
func (c *Euler) CheckState() error {
	var (
		m                      = c.Mesh
		qD                     = Get4DP(m.Un)
		iMin, iMax, jMin, jMax = m.InteriorRange()
	)
	fail := func(i, j int, err error) error {
		return &SimulationError{Step: c.Steps + 1, Time: c.Time, I: i, J: j, Wrapped: err}
	}
	for i := iMin; i < iMax; i++ {
		for j := jMin; j < jMax; j++ {
			ind := m.Index(0, i, j)
			q := GetQQ(ind, qD)
			if k := utils.FirstNonFinite(q[:]); k >= 0 {
				return fail(i, j, fmt.Errorf("%w: %s = %g", ErrUnstable, types.ConservedVar(k), q[k]))
			}
			if !(q[0] > 0) {
				return fail(i, j, fmt.Errorf("%w: density %g", ErrDomain, q[0]))
			}
			if p := GetFlowFunction(q[0], q[1], q[2], q[3], c.Gamma, StaticPressure); !(p > 0) {
				return fail(i, j, fmt.Errorf("%w: pressure %g", ErrDomain, p))
			}
		}
	}
	return nil
}

// BoundaryFluxTotals is the net amount of each conserved quantity that left
// the domain through non-periodic edges during the last step. Domain totals
// change by exactly minus this amount, up to rounding.
func (c *Euler) BoundaryFluxTotals() []float64 {
	return append([]float64(nil), c.boundaryFlux...)
}

func (c *Euler) CheckIfFinished() (finished bool) {
	if c.Time >= c.FinalTime || (c.MaxIterations > 0 && c.Steps >= c.MaxIterations) {
		finished = true
	}
	return
}

// Solve steps until the final time or the iteration limit, handing frames to
// sink (which may be nil) at the configured output frequency and on the
// final step.
func (c *Euler) Solve(sink Sink) (sum RunSummary, err error) {
	var (
		freq    = c.Config.OutputFrequency
		dt      float64
		start   = time.Now()
		emitted = -1
	)
	sum.InitialTotals = c.Mesh.Totals()
	emit := func() error {
		if sink == nil || emitted == c.Steps {
			return nil
		}
		emitted = c.Steps
		sum.Frames++
		return sink.WriteFrame(Frame{Step: c.Steps, Time: c.Time, Gamma: c.Gamma, Mesh: c.Mesh})
	}
	c.PrintInitialization()
	if freq > 0 {
		if err = emit(); err != nil {
			return
		}
	}
	for !c.CheckIfFinished() {
		if dt, err = c.Step(); err != nil {
			c.log.Error("solution failed", "error", err)
			break
		}
		finished := c.CheckIfFinished()
		if finished || c.Steps%c.ReportFrequency == 0 || c.Steps == 1 {
			c.PrintUpdate(dt)
		}
		if finished || (freq > 0 && c.Steps%freq == 0) {
			if err = emit(); err != nil {
				err = fmt.Errorf("output at step %d: %w", c.Steps, err)
				break
			}
		}
	}
	sum.Steps, sum.Time, sum.Elapsed = c.Steps, c.Time, time.Since(start)
	sum.FinalTotals = c.Mesh.Totals()
	sum.BoundaryFlux = append([]float64(nil), c.cumBoundaryFlux...)
	if err == nil {
		c.PrintFinal(sum)
	}
	return
}

func (c *Euler) PrintInitialization() {
	c.log.Info("solving", "final_time", c.FinalTime, "max_iterations", c.MaxIterations)
	if c.out == nil {
		return
	}
	fmt.Fprintf(c.out, "Solving until finaltime = %8.5f\n", c.FinalTime)
	fmt.Fprintf(c.out, "    iter    time  min_dt")
	fmt.Fprintf(c.out, "       Res0       Res1       Res2")
	fmt.Fprintf(c.out, "       Res3         L1         L2\n")
}

func (c *Euler) PrintUpdate(dt float64) {
	var (
		format = "%11.4e"
		l1, l2 float64
	)
	for _, r := range c.Residual {
		l1 = math.Max(l1, r)
		l2 += r * r
	}
	l2 = math.Sqrt(l2) / 4.
	c.log.Debug("step", "iter", c.Steps, "time", c.Time, "dt", dt, "residual", c.Residual)
	if c.out == nil {
		return
	}
	fmt.Fprintf(c.out, "%8d%8.5f%8.5f", c.Steps, c.Time, dt)
	for _, r := range c.Residual {
		fmt.Fprintf(c.out, format, r)
	}
	fmt.Fprintf(c.out, format, l1)
	fmt.Fprintf(c.out, format, l2)
	fmt.Fprintf(c.out, "\n")
}

func (c *Euler) PrintFinal(sum RunSummary) {
	var (
		m    = c.Mesh
		rate float64
	)
	if sum.Steps > 0 {
		rate = float64(sum.Elapsed.Microseconds()) / float64(m.Nx1*m.Nx2*sum.Steps)
	}
	c.log.Info("finished", "steps", sum.Steps, "time", sum.Time,
		"elapsed", sum.Elapsed, "us_per_cell_step", rate)
	c.log.Debug("memory", "usage", utils.GetMemUsage())
	if c.out != nil {
		fmt.Fprintf(c.out, "\nRate of execution = %8.5f us/(cell*iteration) over %d iterations\n", rate, sum.Steps)
	}
}
