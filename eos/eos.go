// Package eos provides the equation of state oracles consulted by the
// hyperbolic systems. Every oracle also exposes the Noble-Abel stiffened
// gas interpolation parameters (covolume b, reference pressure p_infty,
// reference specific internal energy q) that drive the surrogate gamma
// machinery of the arbitrary-EOS Euler equations.
package eos

import (
	"fmt"
	"strings"
)

type EquationOfState interface {
	Name() string

	// Pressure returns p for a given density rho and specific internal
	// energy e.
	Pressure(rho, e float64) float64

	// SpecificInternalEnergy returns e for a given density rho and
	// pressure p.
	SpecificInternalEnergy(rho, p float64) float64

	// Temperature returns T for a given density rho and specific internal
	// energy e.
	Temperature(rho, e float64) float64

	// SpeedOfSound returns c for a given density rho and specific
	// internal energy e.
	SpeedOfSound(rho, e float64) float64

	InterpolationB() float64
	InterpolationPinfty() float64
	InterpolationQ() float64

	// PreferVectorInterface selects the precomputation execution mode: a
	// true value routes the pressure evaluation through PressureVec on
	// gathered scratch arrays instead of per-node calls.
	PreferVectorInterface() bool

	// PressureVec fills p[i] = Pressure(rho[i], e[i]).
	PressureVec(p, rho, e []float64)
}

// Options carries the per-EOS run time parameters from the input file.
type Options struct {
	Gamma       float64   `yaml:"Gamma"`
	VdWA        float64   `yaml:"VdWA"`
	CovolumeB   float64   `yaml:"CovolumeB"`
	GasConstant float64   `yaml:"GasConstantR"`
	Pinfty      float64   `yaml:"Pinfty"`
	Q           float64   `yaml:"Q"`
	TableE      []float64 `yaml:"TableE"`
	TableGm1    []float64 `yaml:"TableGm1"`
}

func DefaultOptions() Options {
	return Options{
		Gamma:       7. / 5.,
		GasConstant: 0.4,
	}
}

var eosNames = []string{
	"polytropic gas", "noble abel stiffened gas", "van der waals", "tabulated",
}

// New constructs the equation of state selected by name. An unknown name
// is a configuration error and panics with the accepted set.
func New(label string, opt Options) (e EquationOfState) {
	switch strings.ToLower(label) {
	case "polytropic gas":
		e = NewPolytropicGas(opt)
	case "noble abel stiffened gas":
		e = NewNobleAbelStiffenedGas(opt)
	case "van der waals":
		e = NewVanDerWaals(opt)
	case "tabulated":
		e = NewTabulated(opt)
	default:
		panic(fmt.Errorf("unable to use equation of state named %q, accepted: %v",
			label, eosNames))
	}
	return
}

// vecPressure implements the vector interface by per-entry calls for the
// oracles that do not carry a genuinely vectorized path.
func vecPressure(e EquationOfState, p, rho, ee []float64) {
	for i := range p {
		p[i] = e.Pressure(rho[i], ee[i])
	}
}
