package eos

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegistry(t *testing.T) {
	opt := DefaultOptions()
	opt.TableE = []float64{0., 1., 10.}
	opt.TableGm1 = []float64{0.4, 0.4, 0.4}
	for _, name := range []string{
		"polytropic gas", "noble abel stiffened gas", "van der waals", "tabulated",
	} {
		e := New(name, opt)
		assert.Equal(t, name, e.Name())
	}
	assert.Panics(t, func() { New("perfect crystal", opt) })
}

func TestPressureEnergyRoundTrips(t *testing.T) {
	var (
		opt = Options{
			Gamma:       1.4,
			GasConstant: 0.4,
			VdWA:        0.2,
			CovolumeB:   0.1,
			Pinfty:      0.5,
			Q:           0.05,
		}
		states = []struct{ rho, e float64 }{
			{1., 2.}, {0.1, 5.}, {3., 0.9}, {0.01, 20.},
		}
	)
	for _, e := range []EquationOfState{
		NewPolytropicGas(opt),
		NewNobleAbelStiffenedGas(opt),
		NewVanDerWaals(opt),
	} {
		for _, st := range states {
			p := e.Pressure(st.rho, st.e)
			eBack := e.SpecificInternalEnergy(st.rho, p)
			assert.InDelta(t, st.e, eBack, 1.e-12*st.e,
				"eos %s state %+v", e.Name(), st)
		}
	}
}

func TestPolytropicGas(t *testing.T) {
	g := NewPolytropicGas(Options{Gamma: 1.4, GasConstant: 0.4})
	assert.InDelta(t, 0.4, g.Pressure(1., 1.), 1.e-15)
	assert.InDelta(t, 2.5, g.SpecificInternalEnergy(1., 1.), 1.e-15)
	// a^2 = gamma (gamma-1) e = gamma p / rho
	a := g.SpeedOfSound(1., 2.5)
	assert.InDelta(t, 1.4, a*a, 1.e-14)
	assert.Equal(t, 0., g.InterpolationB())
	assert.Equal(t, 0., g.InterpolationPinfty())
	assert.False(t, g.PreferVectorInterface())
}

func TestNASGInterpolationParameters(t *testing.T) {
	g := NewNobleAbelStiffenedGas(Options{
		Gamma: 1.6, GasConstant: 0.4, CovolumeB: 0.05, Pinfty: 2., Q: 0.1,
	})
	assert.Equal(t, 0.05, g.InterpolationB())
	assert.Equal(t, 2., g.InterpolationPinfty())
	assert.Equal(t, 0.1, g.InterpolationQ())
	// reduces to the polytropic law for b = pinf = q = 0
	g0 := NewNobleAbelStiffenedGas(Options{Gamma: 1.4, GasConstant: 0.4})
	p0 := NewPolytropicGas(Options{Gamma: 1.4, GasConstant: 0.4})
	assert.InDelta(t, p0.Pressure(1.2, 3.), g0.Pressure(1.2, 3.), 1.e-13)
	assert.InDelta(t, p0.SpeedOfSound(1.2, 3.), g0.SpeedOfSound(1.2, 3.), 1.e-13)
}

func TestVanDerWaalsAdmitsNegativePressure(t *testing.T) {
	g := NewVanDerWaals(Options{Gamma: 1.4, GasConstant: 0.4, VdWA: 5., CovolumeB: 0.01})
	// strong intermolecular attraction at low specific energy
	p := g.Pressure(1., 0.1)
	assert.Less(t, p, 0.)
	// interpolation p_infty stays unset for this EOS
	assert.Equal(t, 0., g.InterpolationPinfty())
}

func TestTabulated(t *testing.T) {
	opt := DefaultOptions()
	opt.TableE = []float64{0., 1., 2.}
	opt.TableGm1 = []float64{0.4, 0.4, 0.4}
	tab := New("tabulated", opt)
	require.True(t, tab.PreferVectorInterface())

	// constant table reproduces the polytropic law
	poly := NewPolytropicGas(Options{Gamma: 1.4, GasConstant: 0.4})
	assert.InDelta(t, poly.Pressure(2., 1.5), tab.Pressure(2., 1.5), 1.e-13)

	// vector interface agrees with per-entry calls
	rho := []float64{1., 2., 0.5}
	e := []float64{0.5, 1.5, 1.}
	p := make([]float64, 3)
	tab.PressureVec(p, rho, e)
	for i := range p {
		assert.Equal(t, tab.Pressure(rho[i], e[i]), p[i])
	}

	// energy inversion round trip
	eBack := tab.SpecificInternalEnergy(2., tab.Pressure(2., 1.5))
	assert.InDelta(t, 1.5, eBack, 1.e-12)

	// malformed tables are configuration errors
	bad := DefaultOptions()
	bad.TableE = []float64{1.}
	bad.TableGm1 = []float64{0.4}
	assert.Panics(t, func() { New("tabulated", bad) })
}
