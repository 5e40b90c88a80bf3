package ShallowWater

import (
	"math"

	"github.com/notargets/govisc/hyperbolic"
	"github.com/notargets/govisc/utils"
	"github.com/notargets/govisc/vector"
)

/*
Approximate Riemann solver bounding the maximal wave speed of the 1-D
shallow water Riemann problem from above. The wave functions are

	rarefaction (h <= h_Z):  f = 2 (sqrt(g h) - sqrt(g h_Z))
	shock       (h >  h_Z):  f = (h - h_Z) sqrt(g/2 (h + h_Z)/(h h_Z))

and the extreme wave speeds at a star depth h* >= h_star are

	lambda_1^- = u_L - a_L sqrt(max(1, (h*+h_L) h* / (2 h_L^2)))
	lambda_3^+ = u_R + a_R sqrt(max(1, (h*+h_R) h* / (2 h_R^2))).
*/
type RiemannSolver struct {
	system *System
	opt    hyperbolic.RiemannSolverOptions
}

func (s *System) NewRiemannSolver(opt hyperbolic.RiemannSolverOptions,
	pv *vector.Multi) *RiemannSolver {
	_ = pv
	return &RiemannSolver{system: s, opt: opt}
}

type riemannData struct {
	h, u, a float64
}

func (rs *RiemannSolver) project(U hyperbolic.State, n [3]float64) (r riemannData) {
	s := rs.system
	r.h = U[0]
	for d := 0; d < s.Dimension; d++ {
		r.u += U[1+d] * n[d]
	}
	r.u *= s.InverseWaterDepthMollified(r.h)
	r.a = s.SpeedOfGravityWaves(r.h)
	return
}

func (rs *RiemannSolver) fZ(z riemannData, h float64) float64 {
	g := rs.system.Gravity
	if h <= z.h {
		return 2. * (math.Sqrt(g*utils.PositivePart(h)) - z.a)
	}
	hz := math.Max(z.h, rs.system.hTiny())
	return (h - z.h) * math.Sqrt(0.5*g*(h+z.h)/(h*hz))
}

func (rs *RiemannSolver) phi(l, r riemannData, h float64) float64 {
	return rs.fZ(l, h) + rs.fZ(r, h) + r.u - l.u
}

func (rs *RiemannSolver) lambdaExtremes(l, r riemannData, hStar float64) (nu1, nu3 float64) {
	var (
		hTiny = rs.system.hTiny()
		hl    = math.Max(l.h, hTiny)
		hr    = math.Max(r.h, hTiny)
	)
	nu1 = -(l.u - l.a*math.Sqrt(math.Max(1., 0.5*(hStar+hl)*hStar/(hl*hl))))
	nu3 = r.u + r.a*math.Sqrt(math.Max(1., 0.5*(hStar+hr)*hStar/(hr*hr)))
	return
}

// hStarTwoRarefaction inverts the double rarefaction relation
//
//	2 a_L + 2 a_R - (u_R - u_L) = 4 a*.
func (rs *RiemannSolver) hStarTwoRarefaction(l, r riemannData) float64 {
	aStar := 0.25 * (2.*(l.a+r.a) - (r.u - l.u))
	if aStar <= 0. {
		return 0. // dry state opens between the rarefactions
	}
	return aStar * aStar / rs.system.Gravity
}

func (rs *RiemannSolver) Compute(Ui, Uj hyperbolic.State, i, j int,
	nij [3]float64) (lambdaMax, hStar float64, iterations int) {
	var (
		l = rs.project(Ui, nij)
		r = rs.project(Uj, nij)
	)
	hStar, iterations = utils.BracketRootFromAbove(
		func(h float64) float64 { return rs.phi(l, r, h) },
		rs.hStarTwoRarefaction(l, r),
		math.Min(math.Max(l.h, rs.system.hTiny()), math.Max(r.h, rs.system.hTiny())),
		rs.opt.NewtonMaxIter, rs.opt.NewtonEps)
	nu1, nu3 := rs.lambdaExtremes(l, r, hStar)
	lambdaMax = math.Max(utils.PositivePart(nu1), utils.PositivePart(nu3))
	return
}
