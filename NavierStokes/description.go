// Package NavierStokes couples the polytropic Euler hyperbolic subsystem
// with a parabolic collaborator for the viscous stress and heat flux
// terms. The implicit parabolic substep itself is an external
// collaborator; the description carries a stub solver that satisfies the
// interface and performs the identity, so that operator splitting drivers
// can be wired and tested without the implicit machinery.
package NavierStokes

import (
	"github.com/notargets/govisc/Euler"
	"github.com/notargets/govisc/hyperbolic"
	"github.com/notargets/govisc/vector"
)

// ParabolicSolver advances the parabolic subsystem by tau, implicitly.
type ParabolicSolver interface {
	// Step applies the parabolic update in place on the owned range.
	Step(u *vector.Multi, t, tau float64) error
	NStepCalls() int
}

// StubSolver is the identity parabolic solver.
type StubSolver struct {
	nCalls int
}

func (s *StubSolver) Step(u *vector.Multi, t, tau float64) error {
	s.nCalls++
	return nil
}

func (s *StubSolver) NStepCalls() int { return s.nCalls }

// Description is the polytropic Euler description plus the parabolic
// collaborator.
type Description struct {
	*Euler.Description
	Parabolic ParabolicSolver
}

type SystemOptions struct {
	Euler Euler.SystemOptions `yaml:"Euler"`
	// Mu and Lambda are the shear and bulk viscosities, Kappa the heat
	// conductivity, consumed by a non-stub parabolic solver.
	Mu     float64 `yaml:"Mu"`
	Lambda float64 `yaml:"Lambda"`
	Kappa  float64 `yaml:"Kappa"`
}

func DefaultSystemOptions() SystemOptions {
	return SystemOptions{Euler: Euler.DefaultSystemOptions()}
}

func NewDescription(dim int, opt SystemOptions) *Description {
	return &Description{
		Description: Euler.NewDescription(dim, opt.Euler),
		Parabolic:   &StubSolver{},
	}
}

func (d *Description) Name() string { return "navier stokes" }

var _ hyperbolic.Description = (*Description)(nil)
