package Euler

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/notargets/govisc/hyperbolic"
	"github.com/notargets/govisc/sod_shock_tube"
)

func sodStates(s *System) (UL, UR hyperbolic.State) {
	// classic Sod data: (rho, u, p) = (1, 0, 1) | (0.125, 0, 0.1)
	UL = s.FromInitialState(hyperbolic.State{1., 0., 1.})
	UR = s.FromInitialState(hyperbolic.State{0.125, 0., 0.1})
	return
}

func TestLambdaMaxNeverUnderestimates(t *testing.T) {
	var (
		s      = testSystem(1)
		UL, UR = sodStates(s)
		n      = [3]float64{1, 0, 0}
		exact  = sod_shock_tube.Sod().Solve()
	)
	// The exact extreme wave speeds of the Sod problem: the left
	// rarefaction head and the right shock.
	var (
		headL = math.Abs(exact.UL - exact.AL)
		shock = exact.UR + exact.AR*math.Sqrt(
			0.5*(1.4+1.)/1.4*exact.PStar/exact.PR+0.5*(1.4-1.)/1.4)
		trueMax = math.Max(headL, shock)
	)
	for _, iters := range []int{0, 2, 8} {
		opt := hyperbolic.RiemannSolverOptions{NewtonMaxIter: iters, NewtonEps: 1.e-10}
		rs := s.NewRiemannSolver(opt, nil)
		lambda, pStar, _ := rs.Compute(UL, UR, 0, 1, n)
		assert.GreaterOrEqual(t, lambda, trueMax-1.e-12, "iters %d", iters)
		// the bound stays reasonably sharp
		assert.Less(t, lambda, 1.2*trueMax, "iters %d", iters)
		// the bracketing star pressure never falls below the exact one
		assert.GreaterOrEqual(t, pStar, exact.PStar-1.e-10)
	}
}

func TestRiemannSymmetry(t *testing.T) {
	var (
		s  = testSystem(2)
		n  = [3]float64{0.6, 0.8, 0}
		nR = [3]float64{-0.6, -0.8, 0}
		rs = s.NewRiemannSolver(hyperbolic.DefaultRiemannSolverOptions(), nil)
	)
	Ui := s.FromInitialState(hyperbolic.State{1., 0.3, -0.2, 1.})
	Uj := s.FromInitialState(hyperbolic.State{0.5, -0.4, 0.1, 0.3})
	l1, _, _ := rs.Compute(Ui, Uj, 0, 1, n)
	l2, _, _ := rs.Compute(Uj, Ui, 1, 0, nR)
	// mirroring the problem leaves the wave speed bound unchanged
	assert.InDelta(t, l1, l2, 1.e-13*l1)
}

func TestEqualStates(t *testing.T) {
	var (
		s  = testSystem(1)
		n  = [3]float64{1, 0, 0}
		rs = s.NewRiemannSolver(hyperbolic.DefaultRiemannSolverOptions(), nil)
	)
	U := s.FromInitialState(hyperbolic.State{1., 0.5, 1.})
	lambda, _, _ := rs.Compute(U, U, 0, 1, n)
	// for identical states the bound reduces to |u| + a
	a := s.SpeedOfSound(U)
	assert.GreaterOrEqual(t, lambda, 0.5+a-1.e-12)
	assert.Less(t, lambda, 1.05*(0.5+a))
}

func TestStrongShockBound(t *testing.T) {
	// LeBlanc-like contrast: the doubling bracket must still produce a
	// finite upper bound.
	var (
		s  = testSystem(1)
		n  = [3]float64{1, 0, 0}
		rs = s.NewRiemannSolver(hyperbolic.RiemannSolverOptions{NewtonMaxIter: 4, NewtonEps: 1.e-10}, nil)
	)
	UL := s.FromInitialState(hyperbolic.State{1., 0., 2. / 3. * 1.e-1})
	UR := s.FromInitialState(hyperbolic.State{1.e-3, 0., 2. / 3. * 1.e-10})
	lambda, _, _ := rs.Compute(UL, UR, 0, 1, n)
	assert.False(t, math.IsInf(lambda, 1))
	assert.Greater(t, lambda, 0.)
}
