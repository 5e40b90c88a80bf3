package initial

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/notargets/govisc/Euler"
	"github.com/notargets/govisc/ShallowWater"
)

func TestContrastField(t *testing.T) {
	desc := Euler.NewDescription(1, Euler.DefaultSystemOptions())
	opt := DefaultOptions()
	opt.Configuration = "contrast"
	opt.Position = [3]float64{0.5, 0, 0}
	f := NewField(desc, opt)

	left := f([3]float64{0.2, 0, 0}, 0.)
	right := f([3]float64{0.8, 0, 0}, 0.)
	assert.Equal(t, 1., left[0])
	assert.Equal(t, 0.125, right[0])
	// the energy slot carries E = p/(gamma-1) for the resting gas
	assert.InDelta(t, 1./0.4, left[2], 1.e-14)
	assert.InDelta(t, 0.1/0.4, right[2], 1.e-14)
}

func TestUniformAndPerturbation(t *testing.T) {
	desc := Euler.NewDescription(1, Euler.DefaultSystemOptions())
	opt := DefaultOptions()
	f := NewField(desc, opt)
	a := f([3]float64{0.1, 0, 0}, 0.)
	b := f([3]float64{0.9, 0, 0}, 1.)
	assert.Equal(t, a, b)

	opt.Configuration = "contrast"
	opt.Perturbation = 0.01
	fp := NewField(desc, opt)
	c := fp([3]float64{-0.3, 0, 0}, 0.)
	assert.NotEqual(t, a[0], c[0])
	assert.InDelta(t, 1., c[0], 0.011)
}

func TestVortexField(t *testing.T) {
	desc := Euler.NewDescription(2, Euler.DefaultSystemOptions())
	opt := DefaultOptions()
	opt.Configuration = "isentropic vortex"
	opt.MeanVelocity = [3]float64{1., 0.5, 0}
	f := NewField(desc, opt)

	// far from the core the state approaches the mean flow
	far := f([3]float64{50., 50., 0}, 0.)
	assert.InDelta(t, 1., far[0], 1.e-9)
	assert.InDelta(t, 1., far[1]/far[0], 1.e-9)

	// the vortex advects exactly with the mean velocity
	u0 := f([3]float64{0.3, -0.2, 0}, 0.)
	u1 := f([3]float64{0.3 + 1., -0.2 + 0.5, 0}, 1.)
	for c := 0; c < 4; c++ {
		assert.InDelta(t, u0[c], u1[c], 1.e-12)
	}
}

func TestDamBreakField(t *testing.T) {
	desc := ShallowWater.NewDescription(1, ShallowWater.DefaultSystemOptions())
	opt := DefaultOptions()
	opt.Configuration = "dam break"
	opt.PrimitiveLeft = []float64{1., 0.}
	opt.PrimitiveRight = []float64{0.1, 0.}
	f := NewField(desc, opt)
	require.Equal(t, 1., f([3]float64{-1., 0, 0}, 0.)[0])
	require.Equal(t, 0.1, f([3]float64{1., 0, 0}, 0.)[0])
}

func TestUnknownConfiguration(t *testing.T) {
	desc := Euler.NewDescription(1, Euler.DefaultSystemOptions())
	opt := DefaultOptions()
	opt.Configuration = "big bang"
	assert.Panics(t, func() { NewField(desc, opt) })
}
