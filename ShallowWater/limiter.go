package ShallowWater

import (
	"math"

	"github.com/notargets/govisc/hyperbolic"
	"github.com/notargets/govisc/utils"
	"github.com/notargets/govisc/vector"
)

/*
Convex limiter for the shallow water equations with bounds

	h_min <= h <= h_max,    1/2 |v|^2 <= kin_max,

i.e. water depth bounds plus an upper bound on the specific kinetic
energy of the limited state. The depth bounds are linear in the
limiting parameter; the kinetic energy bound is enforced through the
quadratic

	psi(l) = kin_max h(l)^2 - 1/2 |m(l)|^2 >= 0

solved with the shared bracketed secant search.
*/
type Limiter struct {
	system *System
	pv     *vector.Multi
	opt    hyperbolic.LimiterOptions

	hMin, hMax float64
	kinMax     float64
}

const nBounds = 3

func (s *System) NewLimiter(opt hyperbolic.LimiterOptions,
	pv *vector.Multi) *Limiter {
	return &Limiter{system: s, pv: pv, opt: opt}
}

func (l *Limiter) NBounds() int { return nBounds }

func (l *Limiter) Reset(i int, U hyperbolic.State) {
	l.hMin, l.hMax = U[0], U[0]
	l.kinMax = l.system.KineticEnergy(U) * l.system.InverseWaterDepthMollified(U[0])
}

func (l *Limiter) Accumulate(j int, U hyperbolic.State) {
	l.hMin = math.Min(l.hMin, U[0])
	l.hMax = math.Max(l.hMax, U[0])
	l.kinMax = math.Max(l.kinMax, l.system.KineticEnergy(U)*l.system.InverseWaterDepthMollified(U[0]))
}

func (l *Limiter) Bounds(hd float64) (b hyperbolic.Bounds) {
	b[0], b[1], b[2] = l.hMin, l.hMax, l.kinMax
	if l.opt.RelaxBounds {
		r := hyperbolic.RelaxationFactor(hd, l.opt.RelaxationOrder)
		b[0] = math.Max(b[0]-r*(l.hMax-l.hMin), (1.-r)*b[0])
		b[1] = math.Min(b[1]+r*(l.hMax-l.hMin), (1.+r)*b[1])
		b[2] = (1. + r) * b[2]
	}
	// A dry ring never produces a negative depth bound.
	b[0] = math.Max(b[0], 0.)
	return
}

const limiterSlack = 1.e-10

func (l *Limiter) Limit(bounds hyperbolic.Bounds, U, P hyperbolic.State) (t float64, success bool) {
	var (
		hMin, hMax, kinMax = bounds[0], bounds[1], bounds[2]
	)
	t = 1.
	success = true

	h, pH := U[0], P[0]
	if h < hMin-limiterSlack*math.Abs(hMin)-l.system.hTiny() ||
		h > hMax+limiterSlack*math.Abs(hMax) {
		success = false
	}
	if pH > 0. {
		t = math.Min(t, utils.PositivePart(hMax-h)/pH)
	}
	if pH < 0. {
		t = math.Min(t, utils.PositivePart(h-hMin)/(-pH))
	}

	psi := func(tt float64) float64 {
		W := U.Axpy(tt, P)
		var m2 float64
		for d := 0; d < l.system.Dimension; d++ {
			m2 += W[1+d] * W[1+d]
		}
		return kinMax*W[0]*W[0] - 0.5*m2
	}
	if psi(0.) < -limiterSlack*math.Max(kinMax, 1.) {
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
