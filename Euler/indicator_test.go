package Euler

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/notargets/govisc/hyperbolic"
	"github.com/notargets/govisc/offline"
	"github.com/notargets/govisc/vector"
)

// fillPrecomputed runs the precomputation over a small periodic interval
// so that the indicator sees consistent (p, s, eta) values.
func fillPrecomputed(s *System, states []hyperbolic.State) (d *offline.Data, u, pv *vector.Multi) {
	d = offline.NewInterval1D(offline.Interval1DOptions{
		N: len(states), XMin: 0, XMax: 1, Periodic: true,
	})
	u = newTestVector(3, d)
	pv = newTestVector(nPrecomputed, d)
	for i, U := range states {
		u.SetState(i, U)
	}
	s.PrecomputationLoop(0, func(int) bool { return true }, d, u, pv, 0, d.NOwned())
	return
}

func TestIndicatorConstantState(t *testing.T) {
	var (
		s      = testSystem(1)
		U      = s.FromInitialState(hyperbolic.State{1., 0.5, 1.})
		states = []hyperbolic.State{U, U, U, U, U, U, U, U}
	)
	d, u, pv := fillPrecomputed(s, states)
	opt := hyperbolic.DefaultIndicatorOptions()
	ind := s.NewIndicator(opt, pv)

	i := 3
	var Ui, Uj hyperbolic.State
	u.GetState(i, &Ui)
	ind.Reset(i, Ui)
	cols := d.Pattern.Columns(i)
	for col := 1; col < len(cols); col++ {
		u.GetState(cols[col], &Uj)
		ind.Accumulate(cols[col], Uj, d.Cij(d.Pattern.Entry(i, col)))
	}
	// the commutator of a constant state vanishes
	alpha := ind.Alpha(0.1)
	assert.Less(t, alpha, 1.e-8)
}

func TestIndicatorJumpState(t *testing.T) {
	// a stationary jump carries no entropy flux, so the states move
	var (
		s      = testSystem(1)
		UL     = s.FromInitialState(hyperbolic.State{1., 0.75, 1.})
		UR     = s.FromInitialState(hyperbolic.State{0.125, 0.2, 0.1})
		states = []hyperbolic.State{UL, UL, UL, UL, UR, UR, UR, UR}
	)
	d, u, pv := fillPrecomputed(s, states)
	opt := hyperbolic.DefaultIndicatorOptions()
	ind := s.NewIndicator(opt, pv)

	// node 4 sits on the discontinuity
	i := 4
	var Ui, Uj hyperbolic.State
	u.GetState(i, &Ui)
	ind.Reset(i, Ui)
	cols := d.Pattern.Columns(i)
	for col := 1; col < len(cols); col++ {
		u.GetState(cols[col], &Uj)
		ind.Accumulate(cols[col], Uj, d.Cij(d.Pattern.Entry(i, col)))
	}
	alpha := ind.Alpha(0.1)
	assert.Greater(t, alpha, 1.e-3)
	assert.LessOrEqual(t, alpha, 1.)
}

func TestRegressionIndicators(t *testing.T) {
	s := testSystem(1)
	for _, tc := range []struct {
		kind string
		want float64
	}{
		{"zero", 0.}, {"one", 1.},
	} {
		opt := hyperbolic.DefaultIndicatorOptions()
		opt.Kind = tc.kind
		ind := s.NewIndicator(opt, nil)
		ind.Reset(0, hyperbolic.State{1, 0, 2.5})
		assert.Equal(t, tc.want, ind.Alpha(0.1))
	}
	opt := hyperbolic.DefaultIndicatorOptions()
	opt.Kind = "guesswork"
	assert.Panics(t, func() { s.NewIndicator(opt, nil) })
}
