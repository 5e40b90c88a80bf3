package Euler

import (
	"fmt"
	"math"

	"github.com/notargets/govisc/hyperbolic"
	"github.com/notargets/govisc/offline"
	"github.com/notargets/govisc/utils"
	"github.com/notargets/govisc/vector"
)

/*
The compressible Euler equations of gas dynamics, specialized to a
polytropic gas law p = (gamma - 1) rho e. The conserved state is
[rho, m_1..m_dim, E]; the precomputed tuple per node is
(p, s, eta) with the specific entropy surrogate s = rho e / rho^gamma
and the Harten entropy eta = (rho rho e)^(1/(gamma+1)).
*/
type System struct {
	Dimension int
	Gamma     float64

	ReferenceDensity           float64
	VacuumStateRelaxationLarge float64
}

type SystemOptions struct {
	Gamma                      float64 `yaml:"Gamma"`
	ReferenceDensity           float64 `yaml:"ReferenceDensity"`
	VacuumStateRelaxationLarge float64 `yaml:"VacuumStateRelaxationLarge"`
}

func DefaultSystemOptions() SystemOptions {
	return SystemOptions{
		Gamma:                      7. / 5.,
		ReferenceDensity:           1.,
		VacuumStateRelaxationLarge: 1.e4,
	}
}

func NewSystem(dim int, opt SystemOptions) (s *System) {
	if dim < 1 || dim > 3 {
		panic(fmt.Errorf("dimension needs to be 1, 2, or 3, have %d", dim))
	}
	if opt.Gamma <= 1. {
		panic(fmt.Errorf("gamma must exceed 1, have %v", opt.Gamma))
	}
	s = &System{
		Dimension:                  dim,
		Gamma:                      opt.Gamma,
		ReferenceDensity:           opt.ReferenceDensity,
		VacuumStateRelaxationLarge: opt.VacuumStateRelaxationLarge,
	}
	return
}

func (s *System) Density(U hyperbolic.State) float64 {
	return U[0]
}

func (s *System) Momentum(U hyperbolic.State) (m [3]float64) {
	for d := 0; d < s.Dimension; d++ {
		m[d] = U[1+d]
	}
	return
}

func (s *System) TotalEnergy(U hyperbolic.State) float64 {
	return U[1+s.Dimension]
}

// InternalEnergy returns rho e = E - 1/2 |m|^2 / rho.
func (s *System) InternalEnergy(U hyperbolic.State) float64 {
	var m2 float64
	for d := 0; d < s.Dimension; d++ {
		m2 += U[1+d] * U[1+d]
	}
	return U[1+s.Dimension] - 0.5*m2/U[0]
}

func (s *System) Pressure(U hyperbolic.State) float64 {
	return (s.Gamma - 1.) * s.InternalEnergy(U)
}

func (s *System) SpeedOfSound(U hyperbolic.State) float64 {
	return math.Sqrt(utils.PositivePart(s.Gamma * s.Pressure(U) / U[0]))
}

// SpecificEntropy returns the surrogate s = rho e / rho^gamma.
func (s *System) SpecificEntropy(U hyperbolic.State) float64 {
	return s.InternalEnergy(U) * math.Pow(U[0], -s.Gamma)
}

// HartenEntropy returns eta = (rho rho e)^(1/(gamma+1)).
func (s *System) HartenEntropy(U hyperbolic.State) float64 {
	shift := U[0] * s.InternalEnergy(U)
	return math.Pow(utils.PositivePart(shift), 1./(s.Gamma+1.))
}

// HartenEntropyDerivative returns d eta / dU. With
//
//	eta = (rho E - 1/2 |m|^2)^(1/(gamma+1))
//
// the gradient of the radicand is [E, -m, rho] and the chain rule factor
// is eta^(-gamma) / (gamma+1), regularized near vacuum.
func (s *System) HartenEntropyDerivative(U hyperbolic.State, eta float64) (dEta hyperbolic.State) {
	var (
		dim  = s.Dimension
		mNrm float64
	)
	for d := 0; d < dim; d++ {
		mNrm += U[1+d] * U[1+d]
	}
	mNrm = math.Sqrt(mNrm)
	regularization := math.Max(mNrm*machineEps, math.SmallestNonzeroFloat64)
	factor := math.Pow(math.Max(eta, regularization), -s.Gamma) / (s.Gamma + 1.)
	dEta[0] = factor * U[1+dim]
	for d := 0; d < dim; d++ {
		dEta[1+d] = -factor * U[1+d]
	}
	dEta[1+dim] = factor * U[0]
	return
}

// FilterVacuumDensity returns 0 when the magnitude of rho falls below the
// relaxed vacuum cutoff, otherwise rho unmodified.
func (s *System) FilterVacuumDensity(rho float64) float64 {
	cutoff := s.ReferenceDensity * s.VacuumStateRelaxationLarge * machineEps
	if math.Abs(rho) < cutoff {
		return 0.
	}
	return rho
}

const machineEps = 2.220446049250313e-16

func (s *System) IsAdmissible(U hyperbolic.State) bool {
	return U[0] > 0. && s.InternalEnergy(U) > 0.
}

// Flux returns the flux tensor
//
//	[m, v (x) m + p I, v (E + p)].
func (s *System) Flux(U hyperbolic.State, p float64) (f hyperbolic.Flux) {
	var (
		dim      = s.Dimension
		oorho    = 1. / U[0]
		E        = U[1+dim]
		velocity [3]float64
	)
	for d := 0; d < dim; d++ {
		velocity[d] = U[1+d] * oorho
		f[0][d] = U[1+d]
	}
	for c := 0; c < dim; c++ {
		for d := 0; d < dim; d++ {
			f[1+c][d] = U[1+c] * velocity[d]
		}
		f[1+c][c] += p
	}
	for d := 0; d < dim; d++ {
		f[1+dim][d] = velocity[d] * (E + p)
	}
	return
}

func (s *System) FluxContribution(pv *vector.Multi, i int, U hyperbolic.State) hyperbolic.Flux {
	return s.Flux(U, pv.At(iP, i))
}

// Precomputed component indices.
const (
	iP   = 0
	iS   = 1
	iEta = 2
)

const nPrecomputed = 3

// PrecomputationLoop fills (p, s, eta) for rows [left, right) in a single
// cycle. Constrained rows are skipped; dispatchCheck runs per block of
// rows and aborts the loop when it reports false.
func (s *System) PrecomputationLoop(cycle int, dispatchCheck func(i int) bool,
	d *offline.Data, u, pv *vector.Multi, left, right int) {
	if cycle != 0 {
		panic(fmt.Errorf("polytropic Euler has a single precomputation cycle, got %d", cycle))
	}
	var U hyperbolic.State
	for i := left; i < right; i++ {
		if i%offline.BlockWidth == 0 && !dispatchCheck(i) {
			return
		}
		if d.Pattern.RowLength(i) == 1 {
			continue
		}
		u.GetState(i, &U)
		pv.Set(iP, i, s.Pressure(U))
		pv.Set(iS, i, s.SpecificEntropy(U))
		pv.Set(iEta, i, s.HartenEntropy(U))
	}
}

func (s *System) FromPrimitiveState(primitive hyperbolic.State) (U hyperbolic.State) {
	var (
		dim = s.Dimension
		rho = primitive[0]
		e   = primitive[1+dim]
		v2  float64
	)
	U[0] = rho
	for d := 0; d < dim; d++ {
		U[1+d] = rho * primitive[1+d]
		v2 += primitive[1+d] * primitive[1+d]
	}
	U[1+dim] = rho*e + 0.5*rho*v2
	return
}

func (s *System) ToPrimitiveState(U hyperbolic.State) (primitive hyperbolic.State) {
	var (
		dim   = s.Dimension
		oorho = 1. / U[0]
	)
	primitive[0] = U[0]
	for d := 0; d < dim; d++ {
		primitive[1+d] = U[1+d] * oorho
	}
	primitive[1+dim] = s.InternalEnergy(U) * oorho
	return
}

// FromInitialState converts a primitive description [rho, v, p] (pressure
// in the energy slot) into a conserved state.
func (s *System) FromInitialState(initial hyperbolic.State) (U hyperbolic.State) {
	primitive := initial
	rho, p := initial[0], initial[1+s.Dimension]
	primitive[1+s.Dimension] = p / ((s.Gamma - 1.) * rho)
	return s.FromPrimitiveState(primitive)
}
