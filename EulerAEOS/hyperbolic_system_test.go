package EulerAEOS

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/notargets/govisc/eos"
	"github.com/notargets/govisc/hyperbolic"
	"github.com/notargets/govisc/offline"
	"github.com/notargets/govisc/vector"
)

func nasgSystem(dim int) *System {
	opt := DefaultSystemOptions()
	opt.EquationOfState = "noble abel stiffened gas"
	opt.EOS = eos.Options{
		Gamma: 1.6, GasConstant: 0.4, CovolumeB: 0.05, Pinfty: 1., Q: 0.02,
	}
	return NewSystem(dim, opt)
}

func polySystem(dim int) *System {
	return NewSystem(dim, DefaultSystemOptions())
}

func newTestVector(nComp int, d *offline.Data) *vector.Multi {
	return vector.NewMulti(nComp, d.NOwned(), d.NTotal()-d.NOwned())
}

func TestSurrogateRoundTrip(t *testing.T) {
	// surrogate_pressure(U, surrogate_gamma(U, p)) == p to machine precision
	for _, s := range []*System{nasgSystem(1), polySystem(1)} {
		for _, prim := range [][3]float64{
			{1., 0., 1.}, {0.5, 0.3, 2.}, {2., -0.7, 0.4},
		} {
			U := s.FromInitialState(hyperbolic.State{prim[0], prim[1], prim[2]})
			p := prim[2]
			gamma := s.SurrogateGamma(U, p)
			back := s.SurrogatePressure(U, gamma)
			assert.InDelta(t, p, back, 1.e-12*math.Max(math.Abs(p), 1.),
				"eos %s state %v", s.EOS.Name(), prim)
			gammaBack := s.SurrogateGamma(U, back)
			assert.InDelta(t, gamma, gammaBack, 1.e-12*gamma)
		}
	}
}

func TestPolytropicSpecialization(t *testing.T) {
	// with b = pinf = q = 0 the surrogate machinery reduces to the
	// polytropic formulas
	var (
		s = polySystem(1)
		U = s.FromInitialState(hyperbolic.State{1.3, 0.4, 0.9})
	)
	p := 0.9
	gamma := s.SurrogateGamma(U, p)
	assert.InDelta(t, 1.4, gamma, 1.e-12)
	a := s.SurrogateSpeedOfSound(U, gamma)
	assert.InDelta(t, math.Sqrt(1.4*p/1.3), a, 1.e-12)
	// specific entropy surrogate equals rho e / rho^gamma
	sEnt := s.SurrogateSpecificEntropy(U, gamma)
	assert.InDelta(t, s.InternalEnergy(U)*math.Pow(1.3, -gamma), sEnt, 1.e-12)
}

func TestSurrogateHartenEntropyDerivative(t *testing.T) {
	var (
		s = nasgSystem(2)
		h = 1.e-6
	)
	U := s.FromInitialState(hyperbolic.State{1.1, 0.3, -0.2, 1.5})
	gammaMin := s.SurrogateGamma(U, 1.5)
	eta := s.SurrogateHartenEntropy(U, gammaMin)
	dEta := s.SurrogateHartenEntropyDerivative(U, eta, gammaMin)
	for c := 0; c < 4; c++ {
		Up, Um := U, U
		Up[c] += h
		Um[c] -= h
		fd := (s.SurrogateHartenEntropy(Up, gammaMin) -
			s.SurrogateHartenEntropy(Um, gammaMin)) / (2. * h)
		assert.InDelta(t, fd, dEta[c], 1.e-4*math.Max(1., math.Abs(fd)), "component %d", c)
	}
}

func TestAdmissibility(t *testing.T) {
	s := nasgSystem(1)
	U := s.FromInitialState(hyperbolic.State{1., 0., 2.})
	assert.True(t, s.IsAdmissible(U))
	// draining the total energy below the EOS shift is inadmissible
	U[2] = 0.
	assert.False(t, s.IsAdmissible(U))
}

func TestTwoCyclePrecomputation(t *testing.T) {
	var (
		desc = NewDescription(1, DefaultSystemOptions())
		s    = desc.system
		d    = offline.NewInterval1D(offline.Interval1DOptions{
			N: 8, XMin: 0, XMax: 1, Periodic: true,
		})
	)
	require.Equal(t, 2, desc.NPrecomputationCycles())
	u := newTestVector(desc.NComponents(), d)
	pv := newTestVector(desc.NPrecomputed(), d)
	check := func(int) bool { return true }

	// alternate two states so that gamma_min picks up the neighbor
	UA := s.FromInitialState(hyperbolic.State{1., 0., 1.})
	UB := s.FromInitialState(hyperbolic.State{0.5, 0., 0.2})
	for i := 0; i < d.NTotal(); i++ {
		if i%2 == 0 {
			u.SetState(i, UA)
		} else {
			u.SetState(i, UB)
		}
	}
	s.PrecomputationLoop(0, check, d, u, pv, 0, d.NOwned())
	s.PrecomputationLoop(1, check, d, u, pv, 0, d.NOwned())

	// for the polytropic EOS every surrogate gamma is 1.4, so the
	// minimum over the ring equals it
	for i := 0; i < d.NOwned(); i++ {
		assert.InDelta(t, 1.4, pv.At(iGammaMin, i), 1.e-12)
		var U hyperbolic.State
		u.GetState(i, &U)
		assert.InDelta(t, s.SurrogateSpecificEntropy(U, pv.At(iGammaMin, i)),
			pv.At(iS, i), 1.e-12)
		assert.InDelta(t, s.SurrogateHartenEntropy(U, pv.At(iGammaMin, i)),
			pv.At(iEta, i), 1.e-12)
	}
}

func TestVectorEOSPath(t *testing.T) {
	// the tabulated oracle routes through the vector interface; with a
	// constant gamma table it must agree with the scalar polytropic path
	opt := DefaultSystemOptions()
	opt.EquationOfState = "tabulated"
	opt.EOS.TableE = []float64{0., 1., 100.}
	opt.EOS.TableGm1 = []float64{0.4, 0.4, 0.4}
	var (
		sVec  = NewSystem(1, opt)
		sPoly = polySystem(1)
		d     = offline.NewInterval1D(offline.Interval1DOptions{
			N: 8, XMin: 0, XMax: 1, Periodic: true,
		})
	)
	require.True(t, sVec.EOS.PreferVectorInterface())
	u := newTestVector(3, d)
	pvVec := newTestVector(nPrecomputed, d)
	pvScalar := newTestVector(nPrecomputed, d)
	for i := 0; i < d.NTotal(); i++ {
		u.SetState(i, sPoly.FromInitialState(hyperbolic.State{1. + 0.1*float64(i), 0.2, 1.}))
	}
	check := func(int) bool { return true }
	sVec.PrecomputationLoop(0, check, d, u, pvVec, 0, d.NOwned())
	sPoly.PrecomputationLoop(0, check, d, u, pvScalar, 0, d.NOwned())
	for i := 0; i < d.NOwned(); i++ {
		assert.InDelta(t, pvScalar.At(iP, i), pvVec.At(iP, i), 1.e-12)
		assert.InDelta(t, pvScalar.At(iGammaMin, i), pvVec.At(iGammaMin, i), 1.e-12)
	}
}

func TestRiemannAgreesWithPolytropicEuler(t *testing.T) {
	// for the polytropic EOS the AEOS Riemann solver and the dedicated
	// polytropic solver must produce comparable upper bounds
	var (
		s = polySystem(1)
		d = offline.NewInterval1D(offline.Interval1DOptions{
			N: 8, XMin: 0, XMax: 1, Periodic: true,
		})
		u  = newTestVector(3, d)
		pv = newTestVector(nPrecomputed, d)
	)
	UL := s.FromInitialState(hyperbolic.State{1., 0., 1.})
	UR := s.FromInitialState(hyperbolic.State{0.125, 0., 0.1})
	for i := 0; i < d.NTotal(); i++ {
		if i < 4 {
			u.SetState(i, UL)
		} else {
			u.SetState(i, UR)
		}
	}
	check := func(int) bool { return true }
	s.PrecomputationLoop(0, check, d, u, pv, 0, d.NOwned())
	s.PrecomputationLoop(1, check, d, u, pv, 0, d.NOwned())

	rs := s.NewRiemannSolver(hyperbolic.DefaultRiemannSolverOptions(), pv)
	lambda, _, _ := rs.Compute(UL, UR, 3, 4, [3]float64{1, 0, 0})
	// the exact maximal wave speed of the Sod problem is about 1.75
	assert.Greater(t, lambda, 1.75)
	assert.Less(t, lambda, 2.2)
}
