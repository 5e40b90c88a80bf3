package EulerAEOS

import (
	"fmt"
	"math"

	"github.com/notargets/govisc/hyperbolic"
	"github.com/notargets/govisc/vector"
)

// Indicator is the entropy viscosity commutator evaluated with the
// surrogate Harten entropy. The zero and one indicators for regression
// testing are selectable alternatives; the polytropic smoothness variant
// has no surrogate analogue and is rejected here.
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
		panic(fmt.Errorf("unable to use indicator named %q with the arbitrary "+
			"EOS equations, accepted: entropy viscosity commutator, zero, one", opt.Kind))
	}
	return ind
}

func (ind *Indicator) Reset(i int, U hyperbolic.State) {
	if ind.kind != entropyViscosityCommutator {
		return
	}
	gammaMin := ind.pv.At(iGammaMin, i)
	ind.etaI = ind.pv.At(iEta, i)
	ind.dEtaI = ind.system.SurrogateHartenEntropyDerivative(U, ind.etaI, gammaMin)
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
		pJ    = ind.pv.At(iP, j)
		mDotC float64
	)
	for d := 0; d < dim; d++ {
		mDotC += U[1+d] * cij[d]
	}
	ind.left += etaJ / U[0] * mDotC
	fJ := s.Flux(U, pJ)
	for c := 0; c < 2+dim; c++ {
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
	for c := 0; c < 2+dim; c++ {
		numerator -= ind.dEtaI[c] * ind.right[c]
		absSum += math.Abs(ind.dEtaI[c] * ind.right[c])
	}
	regularization := machineEps * math.Max(math.Abs(ind.etaI), 1.) / math.Max(hd, machineEps)
	quotient := math.Abs(numerator) / (absSum + regularization)
	return math.Min(1., quotient/math.Max(ind.opt.EvcFactor, machineEps))
}
