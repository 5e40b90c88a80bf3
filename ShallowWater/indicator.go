package ShallowWater

import (
	"fmt"
	"math"

	"github.com/notargets/govisc/hyperbolic"
	"github.com/notargets/govisc/vector"
)

// Indicator is the entropy viscosity commutator on the shallow water
// entropy eta = 1/2 |m|^2/h + 1/2 g h^2 with entropy flux v (eta + p),
// p = 1/2 g h^2. The zero and one indicators serve regression tests.
type Indicator struct {
	system *System
	pv     *vector.Multi
	opt    hyperbolic.IndicatorOptions

	kind indicatorKind

	etaI  float64
	dEtaI hyperbolic.State
	left  float64
	right hyperbolic.State
}

type indicatorKind int

const (
	entropyViscosityCommutator indicatorKind = iota
	alwaysZero
	alwaysOne
)

func (s *System) NewIndicator(opt hyperbolic.IndicatorOptions,
	pv *vector.Multi) *Indicator {
	ind := &Indicator{system: s, pv: pv, opt: opt}
	switch opt.Kind {
	case "entropy viscosity commutator":
		ind.kind = entropyViscosityCommutator
	case "zero":
		ind.kind = alwaysZero
	case "one":
		ind.kind = alwaysOne
	default:
		panic(fmt.Errorf("unable to use indicator named %q with the shallow "+
			"water equations, accepted: entropy viscosity commutator, zero, one", opt.Kind))
	}
	return ind
}

func (ind *Indicator) Reset(i int, U hyperbolic.State) {
	if ind.kind != entropyViscosityCommutator {
		return
	}
	ind.etaI = ind.pv.At(iEta, i)
	ind.dEtaI = ind.system.EntropyDerivative(U)
	ind.left = 0.
	ind.right = hyperbolic.State{}
}

func (ind *Indicator) Accumulate(j int, U hyperbolic.State, cij [3]float64) {
	if ind.kind != entropyViscosityCommutator {
		return
	}
	var (
		s     = ind.system
		dim   = s.Dimension
		etaJ  = ind.pv.At(iEta, j)
		h     = U[0]
		ooh   = s.InverseWaterDepthMollified(h)
		mDotC float64
	)
	for d := 0; d < dim; d++ {
		mDotC += U[1+d] * cij[d]
	}
	ind.left += (etaJ + 0.5*s.Gravity*h*h) * ooh * mDotC
	fJ := s.Flux(U)
	for c := 0; c < 1+dim; c++ {
		var fDotC float64
		for d := 0; d < dim; d++ {
			fDotC += fJ[c][d] * cij[d]
		}
		ind.right[c] += fDotC
	}
}

func (ind *Indicator) Alpha(hd float64) float64 {
	switch ind.kind {
	case alwaysZero:
		return 0.
	case alwaysOne:
		return 1.
	}
	var (
		dim       = ind.system.Dimension
		numerator = ind.left
		absSum    = math.Abs(ind.left)
	)
	for c := 0; c < 1+dim; c++ {
		numerator -= ind.dEtaI[c] * ind.right[c]
		absSum += math.Abs(ind.dEtaI[c] * ind.right[c])
	}
	regularization := machineEps * math.Max(math.Abs(ind.etaI), 1.) / math.Max(hd, machineEps)
	quotient := math.Abs(numerator) / (absSum + regularization)
	return math.Min(1., quotient/math.Max(ind.opt.EvcFactor, machineEps))
}
