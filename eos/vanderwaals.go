package eos

import "math"

// VanDerWaals implements the van der Waals equation of state
//
//	p = (gamma - 1) (rho e + a rho^2) / (1 - b rho) - a rho^2.
//
// Note that this EOS admits negative pressures; the interpolation
// reference pressure p_infty therefore stays unset and downstream
// surrogate bounds must not assume p + p_infty > 0.
type VanDerWaals struct {
	Gamma float64
	A     float64
	B     float64
	R     float64
	cv    float64
}

func NewVanDerWaals(opt Options) *VanDerWaals {
	return &VanDerWaals{
		Gamma: opt.Gamma,
		A:     opt.VdWA,
		B:     opt.CovolumeB,
		R:     opt.GasConstant,
		cv:    opt.GasConstant / (opt.Gamma - 1.),
	}
}

func (g *VanDerWaals) Name() string { return "van der waals" }

func (g *VanDerWaals) Pressure(rho, e float64) float64 {
	intermolecular := g.A * rho * rho
	numerator := rho*e + intermolecular
	covolume := 1. - g.B*rho
	return (g.Gamma-1.)*numerator/covolume - intermolecular
}

func (g *VanDerWaals) SpecificInternalEnergy(rho, p float64) float64 {
	intermolecular := g.A * rho * rho
	covolume := 1. - g.B*rho
	numerator := (p + intermolecular) * covolume
	denominator := rho * (g.Gamma - 1.)
	return numerator/denominator - g.A*rho
}

func (g *VanDerWaals) Temperature(rho, e float64) float64 {
	return (e + g.A*rho) / g.cv
}

func (g *VanDerWaals) SpeedOfSound(rho, e float64) float64 {
	covolume := 1. - g.B*rho
	numerator := g.Gamma * (g.Gamma - 1.) * (e + g.A*rho)
	return math.Sqrt(numerator/(covolume*covolume) - 2.*g.A*rho)
}

func (g *VanDerWaals) InterpolationB() float64      { return g.B }
func (g *VanDerWaals) InterpolationPinfty() float64 { return 0. }
func (g *VanDerWaals) InterpolationQ() float64      { return 0. }
func (g *VanDerWaals) PreferVectorInterface() bool  { return false }

func (g *VanDerWaals) PressureVec(p, rho, e []float64) {
	vecPressure(g, p, rho, e)
}
