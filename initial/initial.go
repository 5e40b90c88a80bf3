// Package initial provides the named initial state configurations used to
// seed a simulation: a uniform flow, a planar contrast (shock tube
// generalization), the smooth isentropic vortex, and the dam break.
package initial

import (
	"fmt"
	"math"
	"strings"

	"github.com/notargets/govisc/hyperbolic"
)

// Options configures the initial field. PrimitiveLeft/PrimitiveRight hold
// [rho, v..., p] for the Euler equations and [h, v...] for shallow water;
// Right is only consulted by the contrast and dam break configurations.
type Options struct {
	Configuration  string     `yaml:"Configuration"`
	Direction      [3]float64 `yaml:"Direction"`
	Position       [3]float64 `yaml:"Position"`
	Perturbation   float64    `yaml:"Perturbation"`
	PrimitiveLeft  []float64  `yaml:"PrimitiveLeft"`
	PrimitiveRight []float64  `yaml:"PrimitiveRight"`

	// Isentropic vortex parameters.
	VortexBeta   float64    `yaml:"VortexBeta"`
	VortexGamma  float64    `yaml:"VortexGamma"`
	MeanVelocity [3]float64 `yaml:"MeanVelocity"`
}

func DefaultOptions() Options {
	return Options{
		Configuration:  "uniform",
		Direction:      [3]float64{1, 0, 0},
		PrimitiveLeft:  []float64{1., 0., 1.},
		PrimitiveRight: []float64{0.125, 0., 0.1},
		VortexBeta:     5.,
		VortexGamma:    1.4,
	}
}

// Field evaluates the initial (or, for configurations with a known
// analytic evolution, exact) state at position x and time t.
type Field func(x [3]float64, t float64) hyperbolic.State

var configurationNames = []string{"uniform", "contrast", "isentropic vortex", "dam break"}

// NewField builds the configured field for the given equation. Unknown
// configuration names are fatal and report the accepted set.
func NewField(desc hyperbolic.Description, opt Options) Field {
	sys := desc.System()
	toState := func(primitive []float64) hyperbolic.State {
		var st hyperbolic.State
		for c := 0; c < len(primitive) && c < hyperbolic.MaxComponents; c++ {
			st[c] = primitive[c]
		}
		return sys.FromInitialState(st)
	}
	switch strings.ToLower(opt.Configuration) {
	case "uniform":
		U := toState(opt.PrimitiveLeft)
		return func(x [3]float64, t float64) hyperbolic.State {
			return U
		}

	case "contrast", "dam break":
		UL := toState(opt.PrimitiveLeft)
		UR := toState(opt.PrimitiveRight)
		return func(x [3]float64, t float64) hyperbolic.State {
			var s float64
			for d := 0; d < 3; d++ {
				s += (x[d] - opt.Position[d]) * opt.Direction[d]
			}
			U := UL
			if s >= 0 {
				U = UR
			}
			if opt.Perturbation != 0 {
				U[0] *= 1. + opt.Perturbation*math.Sin(2.*math.Pi*s)
			}
			return U
		}

	case "isentropic vortex":
		return vortexField(desc, opt)

	default:
		panic(fmt.Errorf("unable to use initial state named %q, accepted: %v",
			opt.Configuration, configurationNames))
	}
}

// vortexField is the classical smooth isentropic vortex advected with the
// mean velocity; with periodic boundaries it is an exact solution of the
// 2-D Euler equations and serves as a convergence reference.
func vortexField(desc hyperbolic.Description, opt Options) Field {
	var (
		sys   = desc.System()
		gamma = opt.VortexGamma
		beta  = opt.VortexBeta
	)
	return func(x [3]float64, t float64) hyperbolic.State {
		var (
			xBar = x[0] - opt.Position[0] - opt.MeanVelocity[0]*t
			yBar = x[1] - opt.Position[1] - opt.MeanVelocity[1]*t
		)
		r2 := xBar*xBar + yBar*yBar
		factor := beta / (2. * math.Pi) * math.Exp(0.5*(1.-r2))
		T := 1. - (gamma-1.)*beta*beta/(8.*gamma*math.Pi*math.Pi)*math.Exp(1.-r2)
		rho := math.Pow(T, 1./(gamma-1.))
		var primitive hyperbolic.State
		primitive[0] = rho
		primitive[1] = opt.MeanVelocity[0] - factor*yBar
		primitive[2] = opt.MeanVelocity[1] + factor*xBar
		primitive[1+desc.Dim()] = rho * T
		return sys.FromInitialState(primitive)
	}
}
