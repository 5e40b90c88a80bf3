package Euler

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/notargets/govisc/hyperbolic"
	"github.com/notargets/govisc/offline"
	"github.com/notargets/govisc/vector"
)

func testSystem(dim int) *System {
	return NewSystem(dim, DefaultSystemOptions())
}

func newTestVector(nComp int, d *offline.Data) *vector.Multi {
	return vector.NewMulti(nComp, d.NOwned(), d.NTotal()-d.NOwned())
}

func TestPrimitiveRoundTrip(t *testing.T) {
	for dim := 1; dim <= 3; dim++ {
		s := testSystem(dim)
		primitive := hyperbolic.State{1.2, 0.3, -0.4, 0.5, 0}
		primitive[1+dim] = 2.5 // specific internal energy
		U := s.FromPrimitiveState(primitive)
		back := s.ToPrimitiveState(U)
		for c := 0; c < 2+dim; c++ {
			assert.InDelta(t, primitive[c], back[c], 1.e-14, "dim %d comp %d", dim, c)
		}
	}
}

func TestPressureAndSoundSpeed(t *testing.T) {
	s := testSystem(1)
	// rho=1, v=0, e=2.5 => p = 0.4*2.5 = 1, a = sqrt(1.4)
	U := s.FromPrimitiveState(hyperbolic.State{1., 0., 2.5})
	assert.InDelta(t, 1., s.Pressure(U), 1.e-14)
	assert.InDelta(t, math.Sqrt(1.4), s.SpeedOfSound(U), 1.e-14)
	assert.True(t, s.IsAdmissible(U))
	// negative internal energy is inadmissible
	U[1] = 10. // large momentum at small total energy
	assert.False(t, s.IsAdmissible(U))
}

func TestFluxValues(t *testing.T) {
	s := testSystem(2)
	U := s.FromPrimitiveState(hyperbolic.State{2., 3., -1., 0, 0})
	U[3] = 2.*1.5 + 0.5*2.*(9.+1.) // rho e + 1/2 rho |v|^2 with e = 1.5
	p := s.Pressure(U)
	f := s.Flux(U, p)
	// mass flux is the momentum
	assert.InDelta(t, U[1], f[0][0], 1.e-14)
	assert.InDelta(t, U[2], f[0][1], 1.e-14)
	// momentum flux m_x v_x + p
	assert.InDelta(t, U[1]*3.+p, f[1][0], 1.e-13)
	assert.InDelta(t, U[1]*-1., f[1][1], 1.e-13)
	// energy flux v (E + p)
	assert.InDelta(t, 3.*(U[3]+p), f[3][0], 1.e-13)
}

func TestHartenEntropyDerivative(t *testing.T) {
	var (
		s  = testSystem(2)
		U  = s.FromPrimitiveState(hyperbolic.State{1.3, 0.7, -0.2, 0, 0})
		h  = 1.e-6
		dE hyperbolic.State
	)
	U[3] = 1.3*2. + 0.5*1.3*(0.49+0.04)
	eta := s.HartenEntropy(U)
	dE = s.HartenEntropyDerivative(U, eta)
	for c := 0; c < 4; c++ {
		Up, Um := U, U
		Up[c] += h
		Um[c] -= h
		fd := (s.HartenEntropy(Up) - s.HartenEntropy(Um)) / (2. * h)
		assert.InDelta(t, fd, dE[c], 1.e-5*math.Max(1., math.Abs(fd)), "component %d", c)
	}
}

func TestPrecomputationLoop(t *testing.T) {
	var (
		d = offline.NewInterval1D(offline.Interval1DOptions{
			N: 8, XMin: 0, XMax: 1, Periodic: true,
		})
		s    = testSystem(1)
		desc = NewDescription(1, DefaultSystemOptions())
	)
	require.Equal(t, 1, desc.NPrecomputationCycles())
	u := newTestVector(desc.NComponents(), d)
	pv := newTestVector(desc.NPrecomputed(), d)
	U := s.FromPrimitiveState(hyperbolic.State{1., 0.5, 2.})
	for i := 0; i < d.NTotal(); i++ {
		u.SetState(i, U)
	}
	s.PrecomputationLoop(0, func(int) bool { return true }, d, u, pv, 0, d.NOwned())
	for i := 0; i < d.NOwned(); i++ {
		assert.InDelta(t, s.Pressure(U), pv.At(iP, i), 1.e-14)
		assert.InDelta(t, s.SpecificEntropy(U), pv.At(iS, i), 1.e-14)
		assert.InDelta(t, s.HartenEntropy(U), pv.At(iEta, i), 1.e-14)
	}
}

func TestBoundaryOperators(t *testing.T) {
	s := testSystem(2)
	U := s.FromPrimitiveState(hyperbolic.State{1., 0.8, 0.6, 0, 0})
	U[3] = 1.*2.5 + 0.5*(0.64+0.36)
	normal := [3]float64{1, 0, 0}
	dirichletState := s.FromPrimitiveState(hyperbolic.State{0.5, -1., 0., 0, 0})
	dirichletState[3] = 0.5*2.5 + 0.5*0.5
	dirichlet := func() hyperbolic.State { return dirichletState }

	// slip removes the normal momentum component
	{
		res := s.ApplyBoundaryConditions(offline.BCSlip, U, normal, dirichlet)
		assert.Equal(t, 0., res[1])
		assert.Equal(t, U[2], res[2])
		assert.Equal(t, U[0], res[0])
	}
	// no slip zeroes the momentum
	{
		res := s.ApplyBoundaryConditions(offline.BCNoSlip, U, normal, dirichlet)
		assert.Equal(t, 0., res[1])
		assert.Equal(t, 0., res[2])
	}
	// dirichlet replaces the state
	{
		res := s.ApplyBoundaryConditions(offline.BCDirichlet, U, normal, dirichlet)
		assert.Equal(t, dirichletState, res)
	}
	// dirichlet momentum replaces the momentum only
	{
		res := s.ApplyBoundaryConditions(offline.BCDirichletMomentum, U, normal, dirichlet)
		assert.Equal(t, dirichletState[1], res[1])
		assert.Equal(t, U[0], res[0])
		assert.Equal(t, U[3], res[3])
	}
	// dynamic: supersonic outflow keeps the state
	{
		fast := s.FromPrimitiveState(hyperbolic.State{1., 10., 0., 0, 0})
		fast[3] = 2.5 + 0.5*100.
		res := s.ApplyBoundaryConditions(offline.BCDynamic, fast, normal, dirichlet)
		assert.Equal(t, fast, res)
	}
	// dynamic: supersonic inflow prescribes the dirichlet state
	{
		fast := s.FromPrimitiveState(hyperbolic.State{1., -10., 0., 0, 0})
		fast[3] = 2.5 + 0.5*100.
		res := s.ApplyBoundaryConditions(offline.BCDynamic, fast, normal, dirichlet)
		assert.Equal(t, dirichletState, res)
	}
	// dynamic: subsonic outflow keeps an admissible reconstructed state
	{
		res := s.ApplyBoundaryConditions(offline.BCDynamic, U, normal, dirichlet)
		assert.True(t, s.IsAdmissible(res))
	}
}
