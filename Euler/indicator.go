package Euler

import (
	"fmt"
	"math"

	"github.com/notargets/govisc/hyperbolic"
	"github.com/notargets/govisc/vector"
)

/*
Per-node smoothness indicator alpha in [0,1]: 0 keeps the full high
order update, 1 falls back to first order viscosity. The reference
indicator is the entropy viscosity commutator: the absolute residual
of the discrete entropy equation

	|sum_j eta_j/rho_j m_j.c_ij  -  eta'(U_i) . sum_j f(U_j).c_ij|

normalized by the accumulated magnitude of both terms. A
Persson-Peraire style smoothness indicator on a single observed
component, and the constant zero and one indicators for regression
testing, are selectable alternatives.
*/
type Indicator struct {
	system *System
	pv     *vector.Multi
	opt    hyperbolic.IndicatorOptions

	kind indicatorKind

	// entropy viscosity commutator accumulators
	rhoInverseI float64
	etaI        float64
	dEtaI       hyperbolic.State
	left        float64
	right       hyperbolic.State

	// smoothness accumulators
	observedI  float64
	jumpSum    float64
	scaleSum   float64
	stencilLen int
}

type indicatorKind int

const (
	entropyViscosityCommutator indicatorKind = iota
	smoothness
	alwaysZero
	alwaysOne
)

func (s *System) NewIndicator(opt hyperbolic.IndicatorOptions,
	pv *vector.Multi) *Indicator {
	ind := &Indicator{system: s, pv: pv, opt: opt}
	switch opt.Kind {
	case "entropy viscosity commutator":
		ind.kind = entropyViscosityCommutator
	case "smoothness":
		ind.kind = smoothness
	case "zero":
		ind.kind = alwaysZero
	case "one":
		ind.kind = alwaysOne
	default:
		panic(fmt.Errorf("unable to use indicator named %q, accepted: "+
			"entropy viscosity commutator, smoothness, zero, one", opt.Kind))
	}
	return ind
}

func (ind *Indicator) Reset(i int, U hyperbolic.State) {
	switch ind.kind {
	case entropyViscosityCommutator:
		ind.rhoInverseI = 1. / U[0]
		ind.etaI = ind.pv.At(iEta, i)
		ind.dEtaI = ind.system.HartenEntropyDerivative(U, ind.etaI)
		ind.left = 0.
		ind.right = hyperbolic.State{}
	case smoothness:
		ind.observedI = ind.observed(i, U)
		ind.jumpSum, ind.scaleSum = 0., 0.
		ind.stencilLen = 0
	}
}

func (ind *Indicator) observed(i int, U hyperbolic.State) float64 {
	switch ind.opt.SmoothnessIndex {
	case 1:
		return ind.system.InternalEnergy(U)
	case 2:
		return ind.pv.At(iP, i)
	default:
		return U[0]
	}
}

func (ind *Indicator) Accumulate(j int, U hyperbolic.State, cij [3]float64) {
	var (
		s   = ind.system
		dim = s.Dimension
	)
	switch ind.kind {
	case entropyViscosityCommutator:
		var (
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
	case smoothness:
		observedJ := ind.observed(j, U)
		ind.jumpSum += math.Abs(observedJ - ind.observedI)
		ind.scaleSum += math.Abs(observedJ) + math.Abs(ind.observedI)
		ind.stencilLen++
	}
}

func (ind *Indicator) Alpha(hd float64) float64 {
	switch ind.kind {
	case alwaysZero:
		return 0.
	case alwaysOne:
		return 1.
	case smoothness:
		if ind.scaleSum == 0. {
			return 0.
		}
		ratio := ind.jumpSum / ind.scaleSum
		beta := math.Pow(ratio, ind.opt.SmoothnessAlpha)
		return math.Min(1., beta/math.Max(ind.opt.EvcFactor, machineEps))
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
