package ShallowWater

import (
	"fmt"
	"math"

	"github.com/notargets/govisc/hyperbolic"
	"github.com/notargets/govisc/offline"
	"github.com/notargets/govisc/utils"
	"github.com/notargets/govisc/vector"
)

/*
The shallow water equations with a flat bottom. The conserved state is
[h, hu_1..hu_dim]; the per-node precomputed value is the entropy

	eta = 1/2 |m|^2 / h + 1/2 g h^2.

Velocities are formed with a mollified water depth inverse so that dry
states stay well defined.
*/
type System struct {
	Dimension int
	Gravity   float64

	ReferenceWaterDepth float64
	DryStateRelaxation  float64
}

type SystemOptions struct {
	Gravity             float64 `yaml:"Gravity"`
	ReferenceWaterDepth float64 `yaml:"ReferenceWaterDepth"`
	DryStateRelaxation  float64 `yaml:"DryStateRelaxation"`
}

func DefaultSystemOptions() SystemOptions {
	return SystemOptions{
		Gravity:             9.81,
		ReferenceWaterDepth: 1.,
		DryStateRelaxation:  1.e2,
	}
}

func NewSystem(dim int, opt SystemOptions) (s *System) {
	if dim < 1 || dim > 2 {
		panic(fmt.Errorf("shallow water dimension needs to be 1 or 2, have %d", dim))
	}
	s = &System{
		Dimension:           dim,
		Gravity:             opt.Gravity,
		ReferenceWaterDepth: opt.ReferenceWaterDepth,
		DryStateRelaxation:  opt.DryStateRelaxation,
	}
	return
}

const machineEps = 2.220446049250313e-16

func (s *System) WaterDepth(U hyperbolic.State) float64 {
	return U[0]
}

// hTiny is the dry state cutoff.
func (s *System) hTiny() float64 {
	return s.ReferenceWaterDepth * s.DryStateRelaxation * machineEps
}

// InverseWaterDepthMollified returns a regularized 1/h that degrades
// gracefully to 0 for dry states:
//
//	1/h ~ 2h / (h^2 + max(h, h_tiny)^2).
func (s *System) InverseWaterDepthMollified(h float64) float64 {
	hMax := math.Max(h, s.hTiny())
	denom := h*h + hMax*hMax
	return 2. * utils.PositivePart(h) / math.Max(denom, math.SmallestNonzeroFloat64)
}

// KineticEnergy returns 1/2 |m|^2 / h (mollified).
func (s *System) KineticEnergy(U hyperbolic.State) float64 {
	var m2 float64
	for d := 0; d < s.Dimension; d++ {
		m2 += U[1+d] * U[1+d]
	}
	return 0.5 * m2 * s.InverseWaterDepthMollified(U[0])
}

// Entropy returns eta = 1/2 |m|^2/h + 1/2 g h^2.
func (s *System) Entropy(U hyperbolic.State) float64 {
	return s.KineticEnergy(U) + 0.5*s.Gravity*U[0]*U[0]
}

// EntropyDerivative returns d eta / dU =
//
//	[g h - 1/2 |v|^2, v].
func (s *System) EntropyDerivative(U hyperbolic.State) (dEta hyperbolic.State) {
	var (
		dim = s.Dimension
		ooh = s.InverseWaterDepthMollified(U[0])
		v2  float64
	)
	for d := 0; d < dim; d++ {
		v := U[1+d] * ooh
		dEta[1+d] = v
		v2 += v * v
	}
	dEta[0] = s.Gravity*U[0] - 0.5*v2
	return
}

func (s *System) SpeedOfGravityWaves(h float64) float64 {
	return math.Sqrt(s.Gravity * utils.PositivePart(h))
}

func (s *System) IsAdmissible(U hyperbolic.State) bool {
	return U[0] > -s.hTiny()
}

// Flux returns [m, v (x) m + 1/2 g h^2 I].
func (s *System) Flux(U hyperbolic.State) (f hyperbolic.Flux) {
	var (
		dim      = s.Dimension
		h        = U[0]
		ooh      = s.InverseWaterDepthMollified(h)
		pressure = 0.5 * s.Gravity * h * h
		velocity [3]float64
	)
	for d := 0; d < dim; d++ {
		velocity[d] = U[1+d] * ooh
		f[0][d] = U[1+d]
	}
	for c := 0; c < dim; c++ {
		for d := 0; d < dim; d++ {
			f[1+c][d] = U[1+c] * velocity[d]
		}
		f[1+c][c] += pressure
	}
	return
}

func (s *System) FluxContribution(pv *vector.Multi, i int, U hyperbolic.State) hyperbolic.Flux {
	return s.Flux(U)
}

const (
	iEta = 0
)

const nPrecomputed = 1

func (s *System) PrecomputationLoop(cycle int, dispatchCheck func(i int) bool,
	d *offline.Data, u, pv *vector.Multi, left, right int) {
	if cycle != 0 {
		panic(fmt.Errorf("shallow water has a single precomputation cycle, got %d", cycle))
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
		pv.Set(iEta, i, s.Entropy(U))
	}
}

// ApplyBoundaryConditions supports dirichlet, slip and no slip walls and
// the dynamic far-field operator, which falls back to dirichlet data for
// inflow and identity for outflow.
func (s *System) ApplyBoundaryConditions(id offline.BoundaryType, U hyperbolic.State,
	normal [3]float64, dirichlet func() hyperbolic.State) hyperbolic.State {
	var (
		dim    = s.Dimension
		result = U
	)
	switch id {
	case offline.BCDirichlet:
		result = dirichlet()

	case offline.BCDirichletMomentum:
		UBar := dirichlet()
		for d := 0; d < dim; d++ {
			result[1+d] = UBar[1+d]
		}

	case offline.BCSlip:
		var mn float64
		for d := 0; d < dim; d++ {
			mn += U[1+d] * normal[d]
		}
		for d := 0; d < dim; d++ {
			result[1+d] = U[1+d] - mn*normal[d]
		}

	case offline.BCNoSlip:
		for d := 0; d < dim; d++ {
			result[1+d] = 0.
		}

	case offline.BCDynamic:
		var (
			a  = s.SpeedOfGravityWaves(U[0])
			vn float64
		)
		for d := 0; d < dim; d++ {
			vn += U[1+d] * normal[d]
		}
		vn *= s.InverseWaterDepthMollified(U[0])
		if vn < a {
			// inflow prescribes the far field state; subcritical
			// outflow keeps U
			if vn <= 0. {
				result = dirichlet()
			}
		}

	default:
		panic(fmt.Errorf("unknown boundary id %d", id))
	}
	return result
}

func (s *System) FromPrimitiveState(primitive hyperbolic.State) (U hyperbolic.State) {
	U[0] = primitive[0]
	for d := 0; d < s.Dimension; d++ {
		U[1+d] = primitive[0] * primitive[1+d]
	}
	return
}

// FromInitialState: the shallow water initial description [h, v] is
// already primitive.
func (s *System) FromInitialState(initial hyperbolic.State) hyperbolic.State {
	return s.FromPrimitiveState(initial)
}

func (s *System) ToPrimitiveState(U hyperbolic.State) (primitive hyperbolic.State) {
	ooh := s.InverseWaterDepthMollified(U[0])
	primitive[0] = U[0]
	for d := 0; d < s.Dimension; d++ {
		primitive[1+d] = U[1+d] * ooh
	}
	return
}
