package hyperbolic

import (
	"fmt"
	"math"
	"runtime"
	"sync"
	"sync/atomic"

	"github.com/notargets/govisc/offline"
	"github.com/notargets/govisc/utils"
	"github.com/notargets/govisc/vector"
)

// IDViolationStrategy controls the behavior on detection of an invariant
// domain violation. Such a case occurs for aggressive CFL numbers > 1
// and for later Runge Kutta stages where the time step is prescribed.
type IDViolationStrategy int

const (
	// Warn counts the violation and continues.
	Warn IDViolationStrategy = iota
	// RaiseException raises a Restart, caught by the time integrator
	// which adapts the CFL number and retries.
	RaiseException
)

func NewIDViolationStrategy(label string) (s IDViolationStrategy) {
	switch label {
	case "warn":
		s = Warn
	case "raise exception":
		s = RaiseException
	default:
		panic(fmt.Errorf("unable to use id violation strategy named %q, "+
			"accepted: warn, raise exception", label))
	}
	return
}

// RestartError signals that the step left the invariant domain and must be
// retried with a reduced time step or CFL number. It is transient, not a
// programmer error.
type RestartError struct{}

func (*RestartError) Error() string {
	return "invariant domain violation: restart the step with reduced tau"
}

// Restart is the sentinel checked by callers via errors.Is.
var Restart = &RestartError{}

// Options carries the run time parameters of the hyperbolic module.
type Options struct {
	CFL                 float64
	ParallelDegree      int // 0 selects runtime.NumCPU()
	IDViolationStrategy IDViolationStrategy
	RiemannSolver       RiemannSolverOptions
	Indicator           IndicatorOptions
	Limiter             LimiterOptions
}

func DefaultOptions() Options {
	return Options{
		CFL:                 0.5,
		IDViolationStrategy: RaiseException,
		RiemannSolver:       DefaultRiemannSolverOptions(),
		Indicator:           DefaultIndicatorOptions(),
		Limiter:             DefaultLimiterOptions(),
	}
}

// StateVector pairs the conserved state with the per-node precomputed
// values derived from it. PrepareStateVector fills the precomputed block;
// Step requires it to be current.
type StateVector struct {
	U           *vector.Multi
	Precomputed *vector.Multi
}

// Module performs explicit forward Euler steps with graph viscosity and
// convex limiting. The offline data and the equation description are
// read-only during a step; all mutable storage is owned by the module and
// reused across steps.
type Module struct {
	Offline *offline.Data
	Desc    Description
	Comm    Reducer
	Opts    Options

	// DirichletData supplies boundary values for the dirichlet and
	// dynamic boundary operators. Optional; defaults to the identity.
	DirichletData func(pos [3]float64, t float64) State

	// Alpha holds the indicator values of the last executed step.
	Alpha []float64

	NRestarts int
	NWarnings int

	prepared bool
	hd       []float64 // local mesh size surrogate m_i^(1/dim)

	dij     *EdgeMatrix
	lij     *EdgeMatrix
	pij     *EdgeMatrix
	boundsV *vector.Multi
	uLow    *vector.Multi

	tauMax     *utils.AtomicFloat64Min
	restart    atomic.Bool
	violations atomic.Int64
}

// NewModule wires a module; Prepare must be called before stepping.
func NewModule(d *offline.Data, desc Description, comm Reducer, opts Options) (m *Module) {
	if opts.ParallelDegree == 0 {
		opts.ParallelDegree = runtime.NumCPU()
	}
	if opts.ParallelDegree > d.NOwned() {
		opts.ParallelDegree = 1
	}
	m = &Module{
		Offline: d,
		Desc:    desc,
		Comm:    comm,
		Opts:    opts,
	}
	return
}

// Prepare allocates the edge matrices and scratch vectors sized from the
// offline data. It is necessary before any of the time stepping functions
// can be called.
func (m *Module) Prepare() {
	var (
		d  = m.Offline
		sp = d.Pattern
	)
	m.dij = NewEdgeMatrix(sp, 1)
	m.lij = NewEdgeMatrix(sp, 1)
	m.pij = NewEdgeMatrix(sp, m.Desc.NComponents())
	m.Alpha = make([]float64, sp.N)
	m.boundsV = vector.NewMulti(4, sp.NOwned, sp.N-sp.NOwned)
	m.uLow = vector.NewMulti(m.Desc.NComponents(), sp.NOwned, sp.N-sp.NOwned)
	m.tauMax = utils.NewAtomicFloat64Min()
	m.hd = make([]float64, sp.N)
	oodim := 1. / float64(m.Desc.Dim())
	for i := 0; i < sp.N; i++ {
		m.hd[i] = math.Pow(d.LumpedMass[i], oodim)
	}
	m.prepared = true
}

// NewStateVector allocates a state vector matching the offline data.
func (m *Module) NewStateVector() *StateVector {
	sp := m.Offline.Pattern
	return &StateVector{
		U:           vector.NewMulti(m.Desc.NComponents(), sp.NOwned, sp.N-sp.NOwned),
		Precomputed: vector.NewMulti(m.Desc.NPrecomputed(), sp.NOwned, sp.N-sp.NOwned),
	}
}

func (m *Module) dirichlet(pos [3]float64, t float64, U State) State {
	if m.DirichletData == nil {
		return U
	}
	return m.DirichletData(pos, t)
}

// PrepareStateVector enforces boundary conditions on the state at time t,
// updates the ghost range, and runs the precomputation cycles. A call is
// necessary before passing the state vector to Step.
func (m *Module) PrepareStateVector(sv *StateVector, t float64) {
	var (
		d   = m.Offline
		sys = m.Desc.System()
	)
	m.mustBePrepared()
	var U State
	for i, desc := range d.Boundary {
		if i >= d.NOwned() {
			continue
		}
		sv.U.GetState(i, &U)
		pos, id, normal := desc.Position, desc.ID, desc.Normal
		result := sys.ApplyBoundaryConditions(id, U, normal, func() State {
			return m.dirichlet(pos, t, U)
		})
		sv.U.SetState(i, result)
	}
	m.Comm.ExchangeMulti(sv.U)

	check := func(i int) bool { return true }
	for cycle := 0; cycle < m.Desc.NPrecomputationCycles(); cycle++ {
		m.parallelRange(0, d.NOwned(), func(thread, start, end int) {
			sys.PrecomputationLoop(cycle, check, d, sv.U, sv.Precomputed, start, end)
		})
		m.Comm.ExchangeMulti(sv.Precomputed)
	}
}

// Step performs one explicit Euler update from old into next and returns
// the time step size actually taken. The step uses tau when nonzero,
// otherwise the maximal admissible step according to the CFL condition.
// Optional Runge Kutta stage contributions modify the high order flux
//
//	F~ = (1 - sum_s w_s) F + sum_s w_s F^s.
//
// Stage vectors must have been prepared and are read-only. On an invariant
// domain violation under the raise exception strategy the function returns
// the Restart sentinel and next is left unspecified.
func (m *Module) Step(old *StateVector, stages []*StateVector,
	weights []float64, next *StateVector, tau float64) (float64, error) {
	var (
		d     = m.Offline
		sp    = d.Pattern
		sys   = m.Desc.System()
		cfl   = m.Opts.CFL
		strat = m.Opts.IDViolationStrategy
	)
	m.mustBePrepared()
	if len(stages) != len(weights) {
		panic(fmt.Errorf("got %d stage vectors but %d weights", len(stages), len(weights)))
	}
	m.restart.Store(false)
	m.violations.Store(0)
	m.tauMax.Reset()

	// Sweep 1: off-diagonal graph viscosity d_ij and indicator alpha_i.
	// Only the strict upper triangle is computed, the lower part is set by
	// the store-to-transpose write. Pairs straddling a rank cut are
	// computed identically on both ranks from ghost-consistent inputs.
	m.rowSweep(func(thread int) func(i int) {
		rs := m.Desc.NewRiemannSolver(m.Opts.RiemannSolver, old.Precomputed)
		ind := m.Desc.NewIndicator(m.Opts.Indicator, old.Precomputed)
		var Ui, Uj State
		return func(i int) {
			old.U.GetState(i, &Ui)
			ind.Reset(i, Ui)
			cols := sp.Columns(i)
			for col := 1; col < len(cols); col++ {
				j := cols[col]
				k := sp.Entry(i, col)
				old.U.GetState(j, &Uj)
				ind.Accumulate(j, Uj, d.Cij(k))
				if j > i {
					nij, norm := d.Nij(k)
					lambda, _, _ := rs.Compute(Ui, Uj, i, j, nij)
					dij := lambda * math.Max(norm, d.CjiNorm[k])
					m.dij.Set(k, dij)
					m.dij.SetTranspose(k, dij)
				}
			}
			m.Alpha[i] = ind.Alpha(m.hd[i])
		}
	})
	m.Comm.ExchangeScalar(m.Alpha)

	// Sweep 2: diagonal element d_ii = -sum_j d_ij and the maximal
	// admissible time step tau_max = cfl min_i m_i / (-2 d_ii).
	m.rowSweep(func(thread int) func(i int) {
		return func(i int) {
			var sum float64
			cols := sp.Columns(i)
			for col := 1; col < len(cols); col++ {
				sum += m.dij.At(sp.Entry(i, col))
			}
			m.dij.Set(sp.Entry(i, 0), -sum)
			if sum > 0 {
				m.tauMax.Propose(0.5 * d.LumpedMass[i] / sum)
			}
		}
	})
	// tauBound = min_i m_i / (2 sum_j d_ij) is the hard invariant domain
	// bound; the CFL number scales it once into the chosen step size, so
	// that tau_max is exactly proportional to the CFL number.
	tauBound := m.Comm.MinReduce(m.tauMax.Load())
	tauMax := cfl * tauBound

	tauTaken := tau
	if tau == 0 {
		tauTaken = tauMax
	} else if tau > tauBound && strat == RaiseException {
		// A prescribed step size beyond the invariant domain bound (as
		// happens in later Runge Kutta stages after the constraint
		// tightened) cannot be limited into admissibility.
		m.NRestarts++
		return 0, Restart
	}

	// Sweep 3: low order update and unscaled high order increments
	//
	//	p_ij = (d^H_ij - d_ij)(U_j - U_i) + sum_s w_s (F^s_ij - F_ij),
	//
	// with the high order viscosity d^H_ij = d_ij max(alpha_i, alpha_j).
	// The transposed entries follow from p_ji = -p_ij.
	m.rowSweep(func(thread int) func(i int) {
		var Ui, Uj, Usi, Usj State
		return func(i int) {
			old.U.GetState(i, &Ui)
			fi := sys.FluxContribution(old.Precomputed, i, Ui)
			tauOverM := tauTaken * d.LumpedMassInverse[i]
			acc := Ui
			cols := sp.Columns(i)
			for col := 1; col < len(cols); col++ {
				j := cols[col]
				k := sp.Entry(i, col)
				old.U.GetState(j, &Uj)
				fj := sys.FluxContribution(old.Precomputed, j, Uj)
				cij := d.Cij(k)
				Fij := FluxDivergence(fi, fj, cij)
				dij := m.dij.At(k)
				for c := range acc {
					acc[c] += tauOverM * (Fij[c] + dij*(Uj[c]-Ui[c]))
				}
				if j > i {
					dH := dij * math.Max(m.Alpha[i], m.Alpha[j])
					var p State
					for c := range p {
						p[c] = (dH - dij) * (Uj[c] - Ui[c])
					}
					for s, sv := range stages {
						sv.U.GetState(i, &Usi)
						sv.U.GetState(j, &Usj)
						fsi := sys.FluxContribution(sv.Precomputed, i, Usi)
						fsj := sys.FluxContribution(sv.Precomputed, j, Usj)
						Fsij := FluxDivergence(fsi, fsj, cij)
						for c := range p {
							p[c] += weights[s] * (Fsij[c] - Fij[c])
						}
					}
					m.pij.SetState(k, p)
					m.pij.SetStateTranspose(k, p)
				}
			}
			m.uLow.SetState(i, acc)
		}
	})
	m.Comm.ExchangeMulti(m.uLow)
	next.U.CopyFrom(m.uLow)

	// Limiter iterations: bounds over the one-ring of the current
	// candidate, per-edge limit values, symmetrized application. Each
	// further iteration tightens the bounds around the already limited
	// state and distributes the remaining increment (1 - l) p_ij.
	nIter := m.Opts.Limiter.Iterations
	if nIter < 1 {
		nIter = 1
	}
	for iter := 0; iter < nIter; iter++ {
		m.limiterBoundsSweep(old, next)
		m.Comm.ExchangeMulti(m.boundsV)
		m.limiterLimitSweep(old, next, tauTaken)
		m.limiterApplySweep(old, next, tauTaken, iter < nIter-1)
		m.Comm.ExchangeMulti(next.U)
	}

	// Final admissibility verification of the owned range.
	m.rowSweep(func(thread int) func(i int) {
		var Ui State
		return func(i int) {
			next.U.GetState(i, &Ui)
			if !sys.IsAdmissible(Ui) {
				m.signalViolation()
			}
		}
	})

	// The restart decision is collective: a violation on any rank
	// restarts the step on all ranks.
	if m.Comm.LogicalOr(m.restart.Load()) {
		m.NRestarts++
		return 0, Restart
	}
	m.NWarnings += int(m.violations.Load())
	return tauTaken, nil
}

func (m *Module) limiterBoundsSweep(old, next *StateVector) {
	sp := m.Offline.Pattern
	m.rowSweep(func(thread int) func(i int) {
		lim := m.Desc.NewLimiter(m.Opts.Limiter, old.Precomputed)
		var Ui, Uj State
		return func(i int) {
			next.U.GetState(i, &Ui)
			lim.Reset(i, Ui)
			cols := sp.Columns(i)
			for col := 1; col < len(cols); col++ {
				next.U.GetState(cols[col], &Uj)
				lim.Accumulate(cols[col], Uj)
			}
			b := lim.Bounds(m.hd[i])
			for c := 0; c < len(b); c++ {
				m.boundsV.Set(c, i, b[c])
			}
		}
	})
}

func (m *Module) limiterLimitSweep(old, next *StateVector, tau float64) {
	var (
		d  = m.Offline
		sp = d.Pattern
	)
	m.rowSweep(func(thread int) func(i int) {
		lim := m.Desc.NewLimiter(m.Opts.Limiter, old.Precomputed)
		var Ui, p State
		return func(i int) {
			next.U.GetState(i, &Ui)
			bi := m.getBounds(i)
			tauOverM := tau * d.LumpedMassInverse[i]
			cols := sp.Columns(i)
			for col := 1; col < len(cols); col++ {
				k := sp.Entry(i, col)
				m.pij.GetState(k, &p)
				l, ok := lim.Limit(bi, Ui, p.Scale(tauOverM))
				if !ok {
					m.signalViolation()
				}
				m.lij.Set(k, l)
			}
		}
	})
}

func (m *Module) limiterApplySweep(old, next *StateVector, tau float64, updateP bool) {
	var (
		d  = m.Offline
		sp = d.Pattern
	)
	m.rowSweep(func(thread int) func(i int) {
		lim := m.Desc.NewLimiter(m.Opts.Limiter, old.Precomputed)
		var Ui, Uj, p State
		return func(i int) {
			next.U.GetState(i, &Ui)
			tauOverM := tau * d.LumpedMassInverse[i]
			acc := Ui
			cols := sp.Columns(i)
			for col := 1; col < len(cols); col++ {
				j := cols[col]
				k := sp.Entry(i, col)
				m.pij.GetState(k, &p)
				lij := m.lij.At(k)
				lji, stored := m.lij.AtTranspose(k)
				if !stored {
					// The pair straddles a rank cut: recompute the
					// neighbor's limit value from the exchanged ghost
					// data; both ranks arrive at the same number.
					next.U.GetState(j, &Uj)
					lji, _ = lim.Limit(m.getBounds(j), Uj,
						p.Scale(-tau*d.LumpedMassInverse[j]))
				}
				l := math.Min(lij, lji)
				for c := range acc {
					acc[c] += tauOverM * l * p[c]
				}
				if updateP {
					m.pij.ScaleEntry(k, 1.-l)
				}
			}
			next.U.SetState(i, acc)
		}
	})
}

func (m *Module) getBounds(i int) (b Bounds) {
	for c := 0; c < len(b); c++ {
		b[c] = m.boundsV.At(c, i)
	}
	return
}

func (m *Module) signalViolation() {
	if m.Opts.IDViolationStrategy == RaiseException {
		m.restart.Store(true)
	} else {
		m.violations.Add(1)
	}
}

func (m *Module) mustBePrepared() {
	if !m.prepared {
		panic(fmt.Errorf("module used before Prepare()"))
	}
}

// parallelRange dispatches body over ParallelDegree contiguous buckets of
// [lo, hi). Every sweep is such a parallel for with a fixed partition;
// there is no task scheduler.
func (m *Module) parallelRange(lo, hi int, body func(thread, start, end int)) {
	var (
		np = m.Opts.ParallelDegree
		pm = utils.NewPartitionMap(np, hi-lo)
		wg sync.WaitGroup
	)
	for nt := 0; nt < np; nt++ {
		wg.Add(1)
		go func(nt int) {
			defer wg.Done()
			a, b := pm.GetBucketRange(nt)
			body(nt, lo+a, lo+b)
		}(nt)
	}
	wg.Wait()
}

// rowSweep runs a row task over all owned, unconstrained rows. Rows are
// traversed in aligned blocks of offline.BlockWidth; the cancellation
// check runs at block boundaries so that a pending restart aborts the
// sweep promptly and without allocation.
func (m *Module) rowSweep(setup func(thread int) func(i int)) {
	sp := m.Offline.Pattern
	m.parallelRange(0, sp.NOwned, func(thread, start, end int) {
		row := setup(thread)
		for i := start; i < end; {
			if m.restart.Load() {
				return
			}
			blockEnd := i + offline.BlockWidth
			if blockEnd > end {
				blockEnd = end
			}
			for ; i < blockEnd; i++ {
				if sp.RowLength(i) == 1 {
					continue
				}
				row(i)
			}
		}
	})
}
