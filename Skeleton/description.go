// Package Skeleton provides a minimal equation description with trivial
// physics. It exists to exercise the wiring of the hyperbolic module: the
// stencil traversal, precomputation, reductions and the limiter loop run
// unchanged, while every physical answer stays inert.
package Skeleton

import (
	"github.com/notargets/govisc/hyperbolic"
	"github.com/notargets/govisc/offline"
	"github.com/notargets/govisc/vector"
)

type Description struct {
	system *System
}

func NewDescription(dim int) *Description {
	return &Description{system: &System{Dimension: dim}}
}

func (d *Description) Name() string               { return "skeleton" }
func (d *Description) Dim() int                   { return d.system.Dimension }
func (d *Description) NComponents() int           { return 1 }
func (d *Description) NPrecomputed() int          { return 1 }
func (d *Description) NPrecomputationCycles() int { return 1 }

func (d *Description) System() hyperbolic.System { return d.system }

func (d *Description) NewRiemannSolver(opt hyperbolic.RiemannSolverOptions,
	pv *vector.Multi) hyperbolic.RiemannSolver {
	return riemannSolver{}
}

func (d *Description) NewIndicator(opt hyperbolic.IndicatorOptions,
	pv *vector.Multi) hyperbolic.Indicator {
	return &indicator{}
}

func (d *Description) NewLimiter(opt hyperbolic.LimiterOptions,
	pv *vector.Multi) hyperbolic.Limiter {
	return limiter{}
}

type System struct {
	Dimension int
}

func (s *System) PrecomputationLoop(cycle int, dispatchCheck func(i int) bool,
	d *offline.Data, u, pv *vector.Multi, left, right int) {
	for i := left; i < right; i++ {
		if i%offline.BlockWidth == 0 && !dispatchCheck(i) {
			return
		}
		if d.Pattern.RowLength(i) == 1 {
			continue
		}
		pv.Set(0, i, u.At(0, i))
	}
}

func (s *System) FluxContribution(pv *vector.Multi, i int, U hyperbolic.State) (f hyperbolic.Flux) {
	return
}

func (s *System) IsAdmissible(U hyperbolic.State) bool { return true }

func (s *System) ApplyBoundaryConditions(id offline.BoundaryType, U hyperbolic.State,
	normal [3]float64, dirichlet func() hyperbolic.State) hyperbolic.State {
	if id == offline.BCDirichlet {
		return dirichlet()
	}
	return U
}

func (s *System) FromPrimitiveState(primitive hyperbolic.State) hyperbolic.State {
	return primitive
}

func (s *System) ToPrimitiveState(conserved hyperbolic.State) hyperbolic.State {
	return conserved
}

func (s *System) FromInitialState(initial hyperbolic.State) hyperbolic.State {
	return initial
}

type riemannSolver struct{}

func (riemannSolver) Compute(Ui, Uj hyperbolic.State, i, j int,
	nij [3]float64) (lambdaMax, pStar float64, iterations int) {
	return 1., 0., 0
}

type indicator struct{}

func (*indicator) Reset(i int, U hyperbolic.State)                      {}
func (*indicator) Accumulate(j int, U hyperbolic.State, cij [3]float64) {}
func (*indicator) Alpha(hd float64) float64                             { return 0. }

type limiter struct{}

func (limiter) NBounds() int                         { return 0 }
func (limiter) Reset(i int, U hyperbolic.State)      {}
func (limiter) Accumulate(j int, U hyperbolic.State) {}
func (limiter) Bounds(hd float64) hyperbolic.Bounds  { return hyperbolic.Bounds{} }
func (limiter) Limit(bounds hyperbolic.Bounds, U, P hyperbolic.State) (float64, bool) {
	return 1., true
}
