package Euler

import (
	"math"

	"github.com/notargets/govisc/hyperbolic"
	"github.com/notargets/govisc/utils"
	"github.com/notargets/govisc/vector"
)

/*
Fast approximate Riemann solver for the maximal wave speed of the 1-D
Riemann problem spanned by the normal projections of two states:

	J.-L. Guermond, B. Popov. Fast estimation from above for the
	maximum wave speed in the Riemann problem for the Euler equations.

The solver brackets the star pressure from above (phi is monotone
increasing in p), optionally tightens the bracket with secant-bisection
steps, and evaluates the extreme wave speeds at the upper bracket end.
The returned bound therefore never underestimates.
*/
type RiemannSolver struct {
	system *System
	opt    hyperbolic.RiemannSolverOptions
}

func (s *System) NewRiemannSolver(opt hyperbolic.RiemannSolverOptions,
	pv *vector.Multi) *RiemannSolver {
	_ = pv // the polytropic solver needs no precomputed values
	return &RiemannSolver{system: s, opt: opt}
}

// riemannData is the projected 1-D primitive state (rho, u, p, a).
type riemannData struct {
	rho, u, p, a float64
}

func (rs *RiemannSolver) project(U hyperbolic.State, n [3]float64) (r riemannData) {
	var (
		s   = rs.system
		dim = s.Dimension
	)
	r.rho = U[0]
	for d := 0; d < dim; d++ {
		r.u += U[1+d] * n[d]
	}
	r.u /= r.rho
	r.p = s.Pressure(U)
	r.a = math.Sqrt(utils.PositivePart(s.Gamma * r.p / r.rho))
	return
}

// fZ is the Toro wave function of one side: a rarefaction branch for
// p <= pZ and a shock branch above.
func (rs *RiemannSolver) fZ(z riemannData, p float64) float64 {
	gamma := rs.system.Gamma
	if p <= z.p {
		return 2. * z.a / (gamma - 1.) *
			(math.Pow(p/z.p, 0.5*(gamma-1.)/gamma) - 1.)
	}
	A := 2. / ((gamma + 1.) * z.rho)
	B := (gamma - 1.) / (gamma + 1.) * z.p
	return (p - z.p) * math.Sqrt(A/(p+B))
}

func (rs *RiemannSolver) phi(l, r riemannData, p float64) float64 {
	return rs.fZ(l, p) + rs.fZ(r, p) + r.u - l.u
}

// lambdaExtremes returns -lambda_1^-(p) and lambda_3^+(p). Both grow with
// p, so any p >= p_star yields valid upper bounds.
func (rs *RiemannSolver) lambdaExtremes(l, r riemannData, p float64) (nu1, nu3 float64) {
	gamma := rs.system.Gamma
	factor := 0.5 * (gamma + 1.) / gamma
	nu1 = -(l.u - l.a*math.Sqrt(1.+factor*utils.PositivePart((p-l.p)/l.p)))
	nu3 = r.u + r.a*math.Sqrt(1.+factor*utils.PositivePart((p-r.p)/r.p))
	return
}

// pStarTwoRarefaction is the exact star pressure when both waves are
// rarefactions and an estimate otherwise.
func (rs *RiemannSolver) pStarTwoRarefaction(l, r riemannData) float64 {
	var (
		gamma    = rs.system.Gamma
		exponent = 0.5 * (gamma - 1.) / gamma
	)
	numerator := l.a + r.a - 0.5*(gamma-1.)*(r.u-l.u)
	denominator := l.a*math.Pow(l.p, -exponent) + r.a*math.Pow(r.p, -exponent)
	if numerator <= 0. {
		return 0. // vacuum opens between the rarefactions
	}
	return math.Pow(numerator/denominator, 1./exponent)
}

// Compute returns an upper bound on the maximal wave speed together with
// the bracketing star pressure and the number of Newton iterations taken.
func (rs *RiemannSolver) Compute(Ui, Uj hyperbolic.State, i, j int,
	nij [3]float64) (lambdaMax, pStar float64, iterations int) {
	var (
		l = rs.project(Ui, nij)
		r = rs.project(Uj, nij)
	)
	pStar, iterations = utils.BracketRootFromAbove(
		func(p float64) float64 { return rs.phi(l, r, p) },
		rs.pStarTwoRarefaction(l, r),
		math.Min(l.p, r.p),
		rs.opt.NewtonMaxIter, rs.opt.NewtonEps)
	nu1, nu3 := rs.lambdaExtremes(l, r, pStar)
	lambdaMax = math.Max(utils.PositivePart(nu1), utils.PositivePart(nu3))
	return
}
