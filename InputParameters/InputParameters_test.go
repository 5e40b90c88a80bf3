package InputParameters

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/notargets/govisc/hyperbolic"
)

func TestParse(t *testing.T) {
	var (
		ip   = Defaults()
		data = []byte(`
Title: "leblanc"
Equation: "euler"
Dimension: 1
CFL: 0.5
FinalTime: 6.0
NodesX: 901
XMin: 0.0
XMax: 9.0
IDViolationStrategy: "warn"
Limiter:
  Iterations: 3
  RelaxBounds: true
Indicator:
  Kind: "entropy viscosity commutator"
RiemannSolver:
  NewtonMaxIter: 2
InitialValues:
  Configuration: "contrast"
  PrimitiveLeft: [1.0, 0.0, 0.066666]
  PrimitiveRight: [0.001, 0.0, 6.7e-11]
Equations:
  Euler:
    Gamma: 1.6666666
`)
	)
	require.NoError(t, ip.Parse(data))
	assert.Equal(t, "leblanc", ip.Title)
	assert.Equal(t, 901, ip.NodesX)
	assert.Equal(t, 9., ip.XMax)
	assert.Equal(t, 3, ip.Limiter.Iterations)
	assert.Equal(t, 2, ip.RiemannSolver.NewtonMaxIter)
	assert.Equal(t, 1.6666666, ip.Equations.Euler.Gamma)
	assert.Equal(t, []float64{0.001, 0., 6.7e-11}, ip.InitialValues.PrimitiveRight)

	// unparsed fields keep their defaults
	assert.Equal(t, 3, ip.RungeKuttaOrder)

	opts := ip.ModuleOptions()
	assert.Equal(t, hyperbolic.Warn, opts.IDViolationStrategy)
	assert.Equal(t, 0.5, opts.CFL)
}

func TestModuleOptionsRejectsUnknownStrategy(t *testing.T) {
	ip := Defaults()
	ip.IDViolationStrategy = "panic loudly"
	assert.Panics(t, func() { ip.ModuleOptions() })
}
