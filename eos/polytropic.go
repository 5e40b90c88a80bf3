package eos

import "math"

// PolytropicGas is the ideal gas law p = (gamma - 1) rho e.
type PolytropicGas struct {
	Gamma float64
	cv    float64
}

func NewPolytropicGas(opt Options) *PolytropicGas {
	return &PolytropicGas{
		Gamma: opt.Gamma,
		cv:    opt.GasConstant / (opt.Gamma - 1.),
	}
}

func (g *PolytropicGas) Name() string { return "polytropic gas" }

func (g *PolytropicGas) Pressure(rho, e float64) float64 {
	return (g.Gamma - 1.) * rho * e
}

func (g *PolytropicGas) SpecificInternalEnergy(rho, p float64) float64 {
	return p / ((g.Gamma - 1.) * rho)
}

func (g *PolytropicGas) Temperature(rho, e float64) float64 {
	return e / g.cv
}

func (g *PolytropicGas) SpeedOfSound(rho, e float64) float64 {
	return math.Sqrt(g.Gamma * (g.Gamma - 1.) * e)
}

func (g *PolytropicGas) InterpolationB() float64      { return 0. }
func (g *PolytropicGas) InterpolationPinfty() float64 { return 0. }
func (g *PolytropicGas) InterpolationQ() float64      { return 0. }
func (g *PolytropicGas) PreferVectorInterface() bool  { return false }

func (g *PolytropicGas) PressureVec(p, rho, e []float64) {
	vecPressure(g, p, rho, e)
}
