package eos

import "math"

// NobleAbelStiffenedGas implements the NASG equation of state
//
//	p = (gamma - 1) rho (e - q) / (1 - b rho) - gamma p_infty.
type NobleAbelStiffenedGas struct {
	Gamma  float64
	B      float64 // covolume
	Pinfty float64
	Q      float64
	cv     float64
}

func NewNobleAbelStiffenedGas(opt Options) *NobleAbelStiffenedGas {
	return &NobleAbelStiffenedGas{
		Gamma:  opt.Gamma,
		B:      opt.CovolumeB,
		Pinfty: opt.Pinfty,
		Q:      opt.Q,
		cv:     opt.GasConstant / (opt.Gamma - 1.),
	}
}

func (g *NobleAbelStiffenedGas) Name() string { return "noble abel stiffened gas" }

func (g *NobleAbelStiffenedGas) Pressure(rho, e float64) float64 {
	covolume := 1. - g.B*rho
	return (g.Gamma-1.)*rho*(e-g.Q)/covolume - g.Gamma*g.Pinfty
}

func (g *NobleAbelStiffenedGas) SpecificInternalEnergy(rho, p float64) float64 {
	covolume := 1. - g.B*rho
	return (p+g.Gamma*g.Pinfty)*covolume/((g.Gamma-1.)*rho) + g.Q
}

// Temperature follows from T = (p + p_inf)(1/rho - b) / R.
func (g *NobleAbelStiffenedGas) Temperature(rho, e float64) float64 {
	return (g.Pressure(rho, e) + g.Pinfty) * (1./rho - g.B) / ((g.Gamma - 1.) * g.cv)
}

func (g *NobleAbelStiffenedGas) SpeedOfSound(rho, e float64) float64 {
	covolume := 1. - g.B*rho
	numerator := g.Gamma * (g.Gamma - 1.) * (rho*(e-g.Q) - g.Pinfty*covolume)
	return math.Sqrt(math.Max(numerator/(rho*covolume*covolume), 0.))
}

func (g *NobleAbelStiffenedGas) InterpolationB() float64      { return g.B }
func (g *NobleAbelStiffenedGas) InterpolationPinfty() float64 { return g.Pinfty }
func (g *NobleAbelStiffenedGas) InterpolationQ() float64      { return g.Q }
func (g *NobleAbelStiffenedGas) PreferVectorInterface() bool  { return false }

func (g *NobleAbelStiffenedGas) PressureVec(p, rho, e []float64) {
	vecPressure(g, p, rho, e)
}
