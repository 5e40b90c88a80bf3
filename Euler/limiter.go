package Euler

import (
	"math"

	"github.com/notargets/govisc/hyperbolic"
	"github.com/notargets/govisc/utils"
	"github.com/notargets/govisc/vector"
)

/*
Convex limiter enforcing the invariant domain bounds

	rho_min <= rho <= rho_max,    s(U) >= s_min,

with the specific entropy surrogate s = rho e / rho^gamma. The density
bounds are linear in the limiting parameter l and solved directly; the
entropy bound is solved as a scalar root finding problem on the
quasi-concave function

	psi(l) = rho(l) (rho e)(l) - s_min rho(l)^{gamma+1}

with a bracketed secant iteration that always returns from the
feasible side, so the result is a safe lower bound.
*/
type Limiter struct {
	system *System
	pv     *vector.Multi
	opt    hyperbolic.LimiterOptions

	rhoMin, rhoMax, sMin float64
}

const nBounds = 3

func (s *System) NewLimiter(opt hyperbolic.LimiterOptions,
	pv *vector.Multi) *Limiter {
	return &Limiter{system: s, pv: pv, opt: opt}
}

func (l *Limiter) NBounds() int { return nBounds }

func (l *Limiter) Reset(i int, U hyperbolic.State) {
	l.rhoMin = U[0]
	l.rhoMax = U[0]
	l.sMin = l.system.SpecificEntropy(U)
}

func (l *Limiter) Accumulate(j int, U hyperbolic.State) {
	l.rhoMin = math.Min(l.rhoMin, U[0])
	l.rhoMax = math.Max(l.rhoMax, U[0])
	l.sMin = math.Min(l.sMin, l.system.SpecificEntropy(U))
}

func (l *Limiter) Bounds(hd float64) (b hyperbolic.Bounds) {
	b[0], b[1], b[2] = l.rhoMin, l.rhoMax, l.sMin
	if l.opt.RelaxBounds {
		r := hyperbolic.RelaxationFactor(hd, l.opt.RelaxationOrder)
		b[0] = math.Max(b[0]-r*(l.rhoMax-l.rhoMin), (1.-r)*b[0])
		b[1] = math.Min(b[1]+r*(l.rhoMax-l.rhoMin), (1.+r)*b[1])
		b[2] = (1. - r) * b[2]
	}
	return
}

// Limit returns the largest t in [0,1] with U + t P inside the bounds.
func (l *Limiter) Limit(bounds hyperbolic.Bounds, U, P hyperbolic.State) (t float64, success bool) {
	var (
		s                    = l.system
		rhoMin, rhoMax, sMin = bounds[0], bounds[1], bounds[2]
	)
	t = 1.
	success = true

	// Density bounds are linear constraints on t.
	rho, pRho := U[0], P[0]
	if rho < rhoMin-limiterSlack*rhoMin || rho > rhoMax+limiterSlack*rhoMax {
		success = false
	}
	if pRho > 0. {
		t = math.Min(t, utils.PositivePart(rhoMax-rho)/pRho)
	}
	if pRho < 0. {
		t = math.Min(t, utils.PositivePart(rho-rhoMin)/(-pRho))
	}

	// Specific entropy bound via the quasi-concave function psi.
	psi := func(tt float64) float64 {
		W := U.Axpy(tt, P)
		rhoT := W[0]
		return rhoT*s.InternalEnergy(W) - sMin*math.Pow(utils.PositivePart(rhoT), s.Gamma+1.)
	}
	if psi(0.) < 0. {
		return 0., false
	}
	if psi(t) < 0. {
		t = l.lineSearch(psi, t)
	}
	if t < 0. {
		t = 0.
	}
	if t > 1. {
		t = 1.
	}
	return
}

// limiterSlack tolerates round-off when verifying that the limited-from
// state itself satisfies its own bounds.
const limiterSlack = 1.e-10

// lineSearch shrinks the feasible bracket [lo, hi] around the root of the
// quasi-concave psi with psi(lo) >= 0 > psi(hi) and returns lo, the safe
// side of the final bracket.
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
			// secant proposal, clipped into the bracket
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
