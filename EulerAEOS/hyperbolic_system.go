package EulerAEOS

import (
	"fmt"
	"math"

	"github.com/notargets/govisc/eos"
	"github.com/notargets/govisc/hyperbolic"
	"github.com/notargets/govisc/offline"
	"github.com/notargets/govisc/utils"
	"github.com/notargets/govisc/vector"
)

/*
The compressible Euler equations with an arbitrary equation of state.
The selected EOS oracle supplies pressure and its Noble-Abel stiffened
gas interpolation parameters (b, p_infty, q); all derived quantities
needed by the Riemann solver, indicator and limiter are expressed
through an interpolatory surrogate gamma

	gamma(rho, e, p) = 1 + (p + p_inf)(1 - b rho)
	                       / (rho (e - q) - p_inf (1 - b rho)),

which inverts exactly against the surrogate pressure. The per-node
precomputed tuple is (p, gamma_min, s, eta) where gamma_min is the
minimum surrogate gamma over the one-ring, and s and eta are the
specific and Harten entropy surrogates evaluated with gamma_min.
*/
type System struct {
	Dimension int
	EOS       eos.EquationOfState

	ReferenceDensity           float64
	VacuumStateRelaxationSmall float64
	VacuumStateRelaxationLarge float64
	ComputeStrictBounds        bool

	b, pinf, q float64
}

type SystemOptions struct {
	EquationOfState            string      `yaml:"EquationOfState"`
	EOS                        eos.Options `yaml:"EOS"`
	ReferenceDensity           float64     `yaml:"ReferenceDensity"`
	VacuumStateRelaxationSmall float64     `yaml:"VacuumStateRelaxationSmall"`
	VacuumStateRelaxationLarge float64     `yaml:"VacuumStateRelaxationLarge"`
	ComputeStrictBounds        bool        `yaml:"ComputeStrictBounds"`
}

func DefaultSystemOptions() SystemOptions {
	return SystemOptions{
		EquationOfState:            "polytropic gas",
		EOS:                        eos.DefaultOptions(),
		ReferenceDensity:           1.,
		VacuumStateRelaxationSmall: 1.e2,
		VacuumStateRelaxationLarge: 1.e4,
		ComputeStrictBounds:        true,
	}
}

func NewSystem(dim int, opt SystemOptions) (s *System) {
	if dim < 1 || dim > 3 {
		panic(fmt.Errorf("dimension needs to be 1, 2, or 3, have %d", dim))
	}
	oracle := eos.New(opt.EquationOfState, opt.EOS)
	s = &System{
		Dimension:                  dim,
		EOS:                        oracle,
		ReferenceDensity:           opt.ReferenceDensity,
		VacuumStateRelaxationSmall: opt.VacuumStateRelaxationSmall,
		VacuumStateRelaxationLarge: opt.VacuumStateRelaxationLarge,
		ComputeStrictBounds:        opt.ComputeStrictBounds,
		b:                          oracle.InterpolationB(),
		pinf:                       oracle.InterpolationPinfty(),
		q:                          oracle.InterpolationQ(),
	}
	return
}

const machineEps = 2.220446049250313e-16

func (s *System) Density(U hyperbolic.State) float64 {
	return U[0]
}

func (s *System) TotalEnergy(U hyperbolic.State) float64 {
	return U[1+s.Dimension]
}

func (s *System) InternalEnergy(U hyperbolic.State) float64 {
	var m2 float64
	for d := 0; d < s.Dimension; d++ {
		m2 += U[1+d] * U[1+d]
	}
	return U[1+s.Dimension] - 0.5*m2/U[0]
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

// SurrogateGamma computes the interpolatory gamma for state U and
// pressure p. The quotient is clamped nonnegative with a guarded
// division.
func (s *System) SurrogateGamma(U hyperbolic.State, p float64) float64 {
	var (
		rho      = U[0]
		rhoE     = s.InternalEnergy(U)
		covolume = 1. - s.b*rho
	)
	numerator := (p + s.pinf) * covolume
	denominator := rhoE - rho*s.q - covolume*s.pinf
	return 1. + utils.SafeDivision(numerator, denominator)
}

// SurrogatePressure is the exact complement of SurrogateGamma:
//
//	p(rho, e, gamma) = (gamma-1) rho (e-q)/(1-b rho) - gamma p_inf.
func (s *System) SurrogatePressure(U hyperbolic.State, gamma float64) float64 {
	var (
		rho      = U[0]
		rhoE     = s.InternalEnergy(U)
		covolume = 1. - s.b*rho
	)
	return utils.PositivePart(gamma-1.)*utils.SafeDivision(rhoE-rho*s.q, covolume) -
		gamma*s.pinf
}

// SurrogateSpeedOfSound computes
//
//	c^2 = gamma (gamma-1) [rho(e-q) - p_inf(1-b rho)] / (rho (1-b rho)^2)
//
// with a negative radicand clamped to zero.
func (s *System) SurrogateSpeedOfSound(U hyperbolic.State, gamma float64) float64 {
	var (
		rho      = U[0]
		rhoE     = s.InternalEnergy(U)
		covolume = 1. - s.b*rho
	)
	radicand := (rhoE - rho*s.q - s.pinf*covolume) / (covolume * covolume * rho)
	radicand *= gamma * (gamma - 1.)
	return math.Sqrt(utils.PositivePart(radicand))
}

// SurrogateSpecificEntropy computes
//
//	s = (rho(e-q) - p_inf(1-b rho)) (1/rho - b)^gamma_min / (1-b rho).
func (s *System) SurrogateSpecificEntropy(U hyperbolic.State, gammaMin float64) float64 {
	var (
		rho      = U[0]
		covolume = 1. - s.b*rho
	)
	shift := s.InternalEnergy(U) - rho*s.q - s.pinf*covolume
	return shift * math.Pow(1./rho-s.b, gammaMin) / covolume
}

// SurrogateHartenEntropy computes
//
//	eta = [(rho^2(e-q) - rho p_inf(1-b rho))^+ (1-b rho)^{gamma_min-1}]^{1/(gamma_min+1)}.
func (s *System) SurrogateHartenEntropy(U hyperbolic.State, gammaMin float64) float64 {
	var (
		rho      = U[0]
		E        = U[1+s.Dimension]
		covolume = 1. - s.b*rho
		m2       float64
	)
	for d := 0; d < s.Dimension; d++ {
		m2 += U[1+d] * U[1+d]
	}
	rhoRhoEQ := rho*E - 0.5*m2 - rho*rho*s.q
	covolumeTerm := math.Pow(covolume, gammaMin-1.)
	exponent := 1. / (gammaMin + 1.)
	return math.Pow(utils.PositivePart(rhoRhoEQ-rho*s.pinf*covolume)*covolumeTerm, exponent)
}

// SurrogateHartenEntropyDerivative returns d eta / dU for the surrogate
// Harten entropy, regularized near vacuum.
func (s *System) SurrogateHartenEntropyDerivative(U hyperbolic.State,
	eta, gammaMin float64) (dEta hyperbolic.State) {
	var (
		dim      = s.Dimension
		rho      = U[0]
		E        = U[1+dim]
		covolume = 1. - s.b*rho
		m2       float64
	)
	for d := 0; d < dim; d++ {
		m2 += U[1+d] * U[1+d]
	}
	shift := rho*E - 0.5*m2 - rho*rho*s.q - rho*s.pinf*covolume

	covolumeInverse := 1. / covolume
	regularization := math.Max(math.Sqrt(m2)*machineEps, math.SmallestNonzeroFloat64)
	factor := math.Pow(math.Max(regularization, eta*covolumeInverse), -gammaMin)
	factor *= covolumeInverse * covolumeInverse / (gammaMin + 1.)

	firstTerm := E - 2.*rho*s.q - s.pinf*(1.-2.*s.b*rho)
	secondTerm := -(gammaMin - 1.) * shift * s.b

	dEta[0] = factor * (covolume*firstTerm + secondTerm)
	for d := 0; d < dim; d++ {
		dEta[1+d] = -factor * covolume * U[1+d]
	}
	dEta[1+dim] = factor * covolume * rho
	return
}

// IsAdmissible checks positivity of the density and of the EOS-shifted
// internal energy rho(e-q) - p_inf(1-b rho).
func (s *System) IsAdmissible(U hyperbolic.State) bool {
	var (
		rho      = U[0]
		covolume = 1. - s.b*rho
	)
	shift := s.InternalEnergy(U) - rho*s.q - s.pinf*covolume
	return rho > 0. && shift > 0.
}

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
	iP        = 0
	iGammaMin = 1
	iS        = 2
	iEta      = 3
)

const nPrecomputed = 4

// PrecomputationLoop runs in two cycles separated by a barrier and a
// ghost exchange:
//
//	cycle 0: p_i from the EOS oracle, surrogate gamma_i
//	cycle 1: gamma_min over the one-ring, then s_i and eta_i
//
// Cycle 0 runs in one of two modes: per-node EOS calls, or, when the
// oracle prefers its vector interface, a gather of rho and e into scratch
// arrays, one batch pressure call, and a scatter of the results.
func (s *System) PrecomputationLoop(cycle int, dispatchCheck func(i int) bool,
	d *offline.Data, u, pv *vector.Multi, left, right int) {
	var U hyperbolic.State
	switch cycle {
	case 0:
		if s.EOS.PreferVectorInterface() {
			s.precomputeVectorEOS(dispatchCheck, d, u, pv, left, right)
			return
		}
		for i := left; i < right; i++ {
			if i%offline.BlockWidth == 0 && !dispatchCheck(i) {
				return
			}
			if d.Pattern.RowLength(i) == 1 {
				continue
			}
			u.GetState(i, &U)
			rho := U[0]
			e := s.InternalEnergy(U) / rho
			p := s.EOS.Pressure(rho, e)
			pv.Set(iP, i, p)
			pv.Set(iGammaMin, i, s.SurrogateGamma(U, p))
		}

	case 1:
		var Uj hyperbolic.State
		for i := left; i < right; i++ {
			if i%offline.BlockWidth == 0 && !dispatchCheck(i) {
				return
			}
			if d.Pattern.RowLength(i) == 1 {
				continue
			}
			u.GetState(i, &U)
			gammaMin := pv.At(iGammaMin, i)
			cols := d.Pattern.Columns(i)
			for col := 1; col < len(cols); col++ {
				j := cols[col]
				u.GetState(j, &Uj)
				gammaJ := s.SurrogateGamma(Uj, pv.At(iP, j))
				gammaMin = math.Min(gammaMin, gammaJ)
			}
			pv.Set(iGammaMin, i, gammaMin)
			pv.Set(iS, i, s.SurrogateSpecificEntropy(U, gammaMin))
			pv.Set(iEta, i, s.SurrogateHartenEntropy(U, gammaMin))
		}

	default:
		panic(fmt.Errorf("arbitrary EOS Euler has two precomputation cycles, got %d", cycle))
	}
}

// precomputeVectorEOS is the out-of-lane EOS execution mode: rho and e
// are gathered into scratch arrays of size right-left, a single batch
// call fills p, and the results are scattered back. Scratch storage is
// local to the calling thread.
func (s *System) precomputeVectorEOS(dispatchCheck func(i int) bool,
	d *offline.Data, u, pv *vector.Multi, left, right int) {
	var (
		size = right - left
		rho  = make([]float64, size)
		e    = make([]float64, size)
		p    = make([]float64, size)
		U    hyperbolic.State
	)
	for i := left; i < right; i++ {
		u.GetState(i, &U)
		// Also fill constrained degrees of freedom so that the scratch
		// arrays hold physically admissible entries throughout.
		rho[i-left] = U[0]
		e[i-left] = s.InternalEnergy(U) / U[0]
	}
	s.EOS.PressureVec(p, rho, e)
	for i := left; i < right; i++ {
		if i%offline.BlockWidth == 0 && !dispatchCheck(i) {
			return
		}
		if d.Pattern.RowLength(i) == 1 {
			continue
		}
		u.GetState(i, &U)
		pv.Set(iP, i, p[i-left])
		pv.Set(iGammaMin, i, s.SurrogateGamma(U, p[i-left]))
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

// FromInitialState converts [rho, v, p] into a conserved state by
// querying the EOS oracle for the specific internal energy.
func (s *System) FromInitialState(initial hyperbolic.State) (U hyperbolic.State) {
	primitive := initial
	rho, p := initial[0], initial[1+s.Dimension]
	primitive[1+s.Dimension] = s.EOS.SpecificInternalEnergy(rho, p)
	return s.FromPrimitiveState(primitive)
}
