package EulerAEOS

import (
	"math"

	"github.com/notargets/govisc/hyperbolic"
	"github.com/notargets/govisc/utils"
	"github.com/notargets/govisc/vector"
)

/*
Convex limiter for arbitrary equations of state with four bounds:

	rho_min <= rho <= rho_max
	rho(e-q) - p_inf(1-b rho) >= eps_min          (internal energy)
	s(U, gamma_min) >= s_min                      (specific entropy)

The density bounds are linear in the limiting parameter. The shifted
internal energy and entropy bounds are quasi-concave along the
limiting ray (a property of the underlying scheme) and solved with a
bracketed secant search that returns from the feasible side.

The surrogate entropy is evaluated with the gamma_min of the row node,
so all accumulated ring values are comparable. Note that for the van
der Waals EOS p_inf stays unset and the entropy bound must not assume
p + p_inf > 0; the shift based formulation below stays well defined.
*/
type Limiter struct {
	system *System
	pv     *vector.Multi
	opt    hyperbolic.LimiterOptions

	gammaMinI      float64
	rhoMin, rhoMax float64
	epsMin, sMin   float64
}

const nBounds = 4

func (s *System) NewLimiter(opt hyperbolic.LimiterOptions,
	pv *vector.Multi) *Limiter {
	return &Limiter{system: s, pv: pv, opt: opt}
}

func (l *Limiter) NBounds() int { return nBounds }

// shift is the EOS-shifted internal energy rho(e-q) - p_inf(1-b rho).
func (l *Limiter) shift(U hyperbolic.State) float64 {
	s := l.system
	rho := U[0]
	return s.InternalEnergy(U) - rho*s.q - s.pinf*(1.-s.b*rho)
}

func (l *Limiter) Reset(i int, U hyperbolic.State) {
	l.gammaMinI = l.pv.At(iGammaMin, i)
	l.rhoMin, l.rhoMax = U[0], U[0]
	l.epsMin = l.shift(U)
	l.sMin = l.system.SurrogateSpecificEntropy(U, l.gammaMinI)
}

func (l *Limiter) Accumulate(j int, U hyperbolic.State) {
	l.rhoMin = math.Min(l.rhoMin, U[0])
	l.rhoMax = math.Max(l.rhoMax, U[0])
	l.epsMin = math.Min(l.epsMin, l.shift(U))
	l.sMin = math.Min(l.sMin, l.system.SurrogateSpecificEntropy(U, l.gammaMinI))
}

func (l *Limiter) Bounds(hd float64) (b hyperbolic.Bounds) {
	b[0], b[1], b[2], b[3] = l.rhoMin, l.rhoMax, l.epsMin, l.sMin
	if l.opt.RelaxBounds {
		r := hyperbolic.RelaxationFactor(hd, l.opt.RelaxationOrder)
		b[0] = math.Max(b[0]-r*(l.rhoMax-l.rhoMin), (1.-r)*b[0])
		b[1] = math.Min(b[1]+r*(l.rhoMax-l.rhoMin), (1.+r)*b[1])
		b[2] = (1. - r) * b[2]
		b[3] = (1. - r) * b[3]
	}
	return
}

const limiterSlack = 1.e-10

func (l *Limiter) Limit(bounds hyperbolic.Bounds, U, P hyperbolic.State) (t float64, success bool) {
	var (
		s                            = l.system
		rhoMin, rhoMax, epsMin, sMin = bounds[0], bounds[1], bounds[2], bounds[3]
	)
	t = 1.
	success = true

	rho, pRho := U[0], P[0]
	if rho < rhoMin-limiterSlack*math.Abs(rhoMin) ||
		rho > rhoMax+limiterSlack*math.Abs(rhoMax) {
		success = false
	}
	if pRho > 0. {
		t = math.Min(t, utils.PositivePart(rhoMax-rho)/pRho)
	}
	if pRho < 0. {
		t = math.Min(t, utils.PositivePart(rho-rhoMin)/(-pRho))
	}

	// Internal energy bound, multiplied through by rho to stay
	// polynomial along the ray.
	psiEps := func(tt float64) float64 {
		W := U.Axpy(tt, P)
		return W[0] * (l.shift(W) - epsMin)
	}
	// Specific entropy bound, multiplied through by the covolume.
	psiS := func(tt float64) float64 {
		W := U.Axpy(tt, P)
		rhoT := W[0]
		covolume := 1. - s.b*rhoT
		return l.shift(W)*math.Pow(utils.PositivePart(1./rhoT-s.b), l.gammaMinI) -
			sMin*covolume
	}
	for _, psi := range []func(float64) float64{psiEps, psiS} {
		if psi(0.) < 0. {
			return 0., false
		}
		if psi(t) < 0. {
			t = l.lineSearch(psi, t)
		}
	}
	if t < 0. {
		t = 0.
	}
	if t > 1. {
		t = 1.
	}
	return
}

func (l *Limiter) lineSearch(psi func(float64) float64, hi float64) float64 {
	var (
		lo   float64
		fLo  = psi(0.)
		fHi  = psi(hi)
		eps  = l.opt.LineSearchEps
		iter = l.opt.LineSearchMaxIter
	)
	for it := 0; it < iter && hi-lo > eps; it++ {
		mid := 0.5 * (lo + hi)
		if fHi < fLo {
			p := lo - fLo*(hi-lo)/(fHi-fLo)
			if p > lo && p < hi {
				mid = p
			}
		}
		if fMid := psi(mid); fMid >= 0. {
			lo, fLo = mid, fMid
		} else {
			hi, fHi = mid, fMid
		}
	}
	return lo
}
