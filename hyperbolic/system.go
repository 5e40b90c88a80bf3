// Package hyperbolic implements explicit forward Euler time stepping for
// hyperbolic conservation laws with graph viscosity and convex limiting.
// The per-equation physics (system view, approximate Riemann solver,
// indicator, limiter) plug in through the Description interface; the
// package supplies the sparse stencil traversal, the step controller with
// invariant domain restart handling, the ensemble reducer and an SSP
// Runge Kutta integrator built on top of single steps.
package hyperbolic

import (
	"math"

	"github.com/notargets/govisc/offline"
	"github.com/notargets/govisc/vector"
)

// MaxComponents bounds the conserved state arity: 2+dim for Euler in up to
// three dimensions, 1+dim for shallow water.
const MaxComponents = vector.MaxComponents

// State is a conserved state passed by value; see vector.State.
type State = vector.State

// Flux is the flux tensor f(U): one spatial vector per conserved component.
type Flux [MaxComponents][3]float64

// FluxDivergence forms the state -sum_d (f_i + f_j)[.][d] * c[d], the discrete
// divergence contribution of an edge.
func FluxDivergence(fi, fj Flux, c [3]float64) (W State) {
	for comp := range W {
		var s float64
		for d := 0; d < 3; d++ {
			s += (fi[comp][d] + fj[comp][d]) * c[d]
		}
		W[comp] = -s
	}
	return
}

// Description bundles the four per-equation capability providers together
// with the compile time constants of the equation. Implementations are
// stateless apart from read-only configuration.
type Description interface {
	Name() string
	Dim() int

	// NComponents is the arity of the conserved state.
	NComponents() int

	NPrecomputed() int
	NPrecomputationCycles() int

	System() System

	// The factories return per-thread worker objects bound to the
	// precomputed vector of the current step. Workers are not safe for
	// concurrent use; every sweep thread creates its own.
	NewRiemannSolver(opt RiemannSolverOptions, pv *vector.Multi) RiemannSolver
	NewIndicator(opt IndicatorOptions, pv *vector.Multi) Indicator
	NewLimiter(opt LimiterOptions, pv *vector.Multi) Limiter
}

// System is the per-equation physics: conserved/primitive transforms,
// fluxes, admissibility, the precomputation loop and boundary operators.
type System interface {
	// PrecomputationLoop runs one precomputation cycle over rows
	// [left,right) of the state vector, writing the per-node precomputed
	// tuple. Cycles are separated by a barrier and a ghost exchange; the
	// loop runs inside a thread parallel context. dispatchCheck is
	// consulted at block boundaries and must stay allocation free.
	PrecomputationLoop(cycle int, dispatchCheck func(i int) bool,
		d *offline.Data, u, pv *vector.Multi, left, right int)

	// FluxContribution returns the flux tensor of node i, using the
	// precomputed values of the current step.
	FluxContribution(pv *vector.Multi, i int, U State) Flux

	IsAdmissible(U State) bool

	// ApplyBoundaryConditions applies the boundary operator of the given
	// id to the state U with outward unit normal. Dirichlet data is
	// obtained lazily through the closure.
	ApplyBoundaryConditions(id offline.BoundaryType, U State,
		normal [3]float64, dirichlet func() State) State

	FromPrimitiveState(primitive State) State
	ToPrimitiveState(conserved State) State

	// FromInitialState converts the user-facing initial description
	// (with a pressure value in the energy slot where the equation has
	// one) into a conserved state.
	FromInitialState(initial State) State
}

// RiemannSolver produces an upper bound on the maximal wave speed of the
// 1-D Riemann problem spanned by the projections of U_i and U_j onto the
// unit direction n_ij. The bound must never underestimate.
type RiemannSolver interface {
	Compute(Ui, Uj State, i, j int, nij [3]float64) (lambdaMax, pStar float64, iterations int)
}

// Indicator produces the per-node smoothness value alpha in [0,1]. A
// value of 1 marks a troubled node and selects the full first order graph
// viscosity, 0 keeps the high order update; the step controller blends
// edges with d^H_ij = d_ij max(alpha_i, alpha_j). It is driven as a row
// accumulator: Reset for the row node, Accumulate per stencil neighbor,
// Alpha to read off the result. hd is the local mesh size surrogate.
type Indicator interface {
	Reset(i int, U State)
	Accumulate(j int, U State, cij [3]float64)
	Alpha(hd float64) float64
}

// Bounds is the per-node invariant domain bounds tuple; the meaning of
// the entries is equation specific (e.g. rho_min, rho_max, s_min for
// Euler).
type Bounds [4]float64

// Limiter computes invariant domain bounds over the one-ring and solves
// the per-edge scalar limiting problem.
type Limiter interface {
	NBounds() int

	Reset(i int, U State)
	Accumulate(j int, U State)
	// Bounds returns the accumulated bounds, relaxed according to the
	// limiter parameters; hd is the local mesh size surrogate.
	Bounds(hd float64) Bounds

	// Limit returns the largest l in [0,1] such that U + l*P satisfies
	// the given bounds. success is false if even l = 0 violates them,
	// which indicates that the low order update left the invariant
	// domain.
	Limit(bounds Bounds, U, P State) (l float64, success bool)
}

// RiemannSolverOptions configures the approximate Riemann solver.
type RiemannSolverOptions struct {
	NewtonMaxIter int     `yaml:"NewtonMaxIter"`
	NewtonEps     float64 `yaml:"NewtonEps"`
}

func DefaultRiemannSolverOptions() RiemannSolverOptions {
	return RiemannSolverOptions{NewtonMaxIter: 0, NewtonEps: 1.e-10}
}

// IndicatorOptions selects and configures the smoothness indicator.
type IndicatorOptions struct {
	Kind string `yaml:"Kind"` // entropy viscosity commutator, smoothness, zero, one
	// EvcFactor scales the entropy viscosity commutator quotient; smaller
	// values mark more nodes as troubled.
	EvcFactor float64 `yaml:"EvcFactor"`
	// SmoothnessIndex selects the component observed by the smoothness
	// indicator.
	SmoothnessIndex int     `yaml:"SmoothnessIndex"`
	SmoothnessAlpha float64 `yaml:"SmoothnessAlpha"`
}

func DefaultIndicatorOptions() IndicatorOptions {
	return IndicatorOptions{Kind: "entropy viscosity commutator", EvcFactor: 1., SmoothnessAlpha: 1.}
}

// LimiterOptions configures the convex limiter.
type LimiterOptions struct {
	Iterations        int     `yaml:"Iterations"`
	RelaxBounds       bool    `yaml:"RelaxBounds"`
	RelaxationOrder   int     `yaml:"RelaxationOrder"`
	LineSearchEps     float64 `yaml:"LineSearchEps"`
	LineSearchMaxIter int     `yaml:"LineSearchMaxIter"`
}

func DefaultLimiterOptions() LimiterOptions {
	return LimiterOptions{
		Iterations:        2,
		RelaxBounds:       true,
		RelaxationOrder:   3,
		LineSearchEps:     1.e-10,
		LineSearchMaxIter: 8,
	}
}

// RelaxationFactor is the bound relaxation r_i used by the limiters:
// r = (hd)^{order/2} bounded away from one. All equation limiters share it.
func RelaxationFactor(hd float64, order int) float64 {
	r := math.Pow(hd, 0.5*float64(order))
	if r > 0.5 {
		r = 0.5
	}
	return r
}
