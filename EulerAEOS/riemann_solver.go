package EulerAEOS

import (
	"math"

	"github.com/notargets/govisc/hyperbolic"
	"github.com/notargets/govisc/utils"
	"github.com/notargets/govisc/vector"
)

/*
Approximate Riemann solver for arbitrary equations of state. The 1-D
Riemann data is formed with the precomputed surrogate gamma of each
side; the Guermond-Popov wave functions are generalized with the NASG
covolume and shifted pressures pi = p + p_inf:

	rarefaction (pi <= pi_Z):
	    f = 2 a_Z x_Z/(gamma_Z - 1) ((pi/pi_Z)^{(gamma_Z-1)/(2 gamma_Z)} - 1)
	shock (pi > pi_Z):
	    f = (pi - pi_Z) sqrt(A_Z / (pi + B_Z)),
	    A_Z = 2 x_Z / ((gamma_Z+1) rho_Z),
	    B_Z = (gamma_Z-1)/(gamma_Z+1) pi_Z,

with the covolume fraction x_Z = 1 - b rho_Z. The star pressure is
bracketed from above on the monotone function phi, so the returned
wave speed never underestimates. Note that the van der Waals EOS
admits negative pressures with p_inf unset; the shifted pressures are
clamped positive in that case.
*/
type RiemannSolver struct {
	system *System
	pv     *vector.Multi
	opt    hyperbolic.RiemannSolverOptions
}

func (s *System) NewRiemannSolver(opt hyperbolic.RiemannSolverOptions,
	pv *vector.Multi) *RiemannSolver {
	return &RiemannSolver{system: s, pv: pv, opt: opt}
}

type riemannData struct {
	rho, u, pi, gamma, a, x float64
}

func (rs *RiemannSolver) project(U hyperbolic.State, i int, n [3]float64) (r riemannData) {
	var (
		s   = rs.system
		dim = s.Dimension
	)
	r.rho = U[0]
	for d := 0; d < dim; d++ {
		r.u += U[1+d] * n[d]
	}
	r.u /= r.rho
	p := rs.pv.At(iP, i)
	r.gamma = rs.pv.At(iGammaMin, i)
	r.a = s.SurrogateSpeedOfSound(U, r.gamma)
	r.x = 1. - s.b*r.rho
	r.pi = math.Max(p+s.pinf, machineEps*math.Max(math.Abs(p), 1.))
	return
}

func (rs *RiemannSolver) fZ(z riemannData, pi float64) float64 {
	if pi <= z.pi {
		return 2. * z.a * z.x / (z.gamma - 1.) *
			(math.Pow(pi/z.pi, 0.5*(z.gamma-1.)/z.gamma) - 1.)
	}
	A := 2. * z.x / ((z.gamma + 1.) * z.rho)
	B := (z.gamma - 1.) / (z.gamma + 1.) * z.pi
	return (pi - z.pi) * math.Sqrt(A/(pi+B))
}

func (rs *RiemannSolver) phi(l, r riemannData, pi float64) float64 {
	return rs.fZ(l, pi) + rs.fZ(r, pi) + r.u - l.u
}

func (rs *RiemannSolver) lambdaExtremes(l, r riemannData, pi float64) (nu1, nu3 float64) {
	factorL := 0.5 * (l.gamma + 1.) / l.gamma
	factorR := 0.5 * (r.gamma + 1.) / r.gamma
	nu1 = -(l.u - l.a*math.Sqrt(1.+factorL*utils.PositivePart((pi-l.pi)/l.pi)))
	nu3 = r.u + r.a*math.Sqrt(1.+factorR*utils.PositivePart((pi-r.pi)/r.pi))
	return
}

// piStarTwoRarefaction estimates the star (shifted) pressure with the
// two-rarefaction ansatz evaluated with the smaller surrogate gamma.
func (rs *RiemannSolver) piStarTwoRarefaction(l, r riemannData) float64 {
	var (
		gamma    = math.Min(l.gamma, r.gamma)
		exponent = 0.5 * (gamma - 1.) / gamma
	)
	numerator := l.a*l.x + r.a*r.x - 0.5*(gamma-1.)*(r.u-l.u)
	denominator := l.a*l.x*math.Pow(l.pi, -exponent) + r.a*r.x*math.Pow(r.pi, -exponent)
	if numerator <= 0. {
		return 0.
	}
	return math.Pow(numerator/denominator, 1./exponent)
}

func (rs *RiemannSolver) Compute(Ui, Uj hyperbolic.State, i, j int,
	nij [3]float64) (lambdaMax, pStar float64, iterations int) {
	var (
		l = rs.project(Ui, i, nij)
		r = rs.project(Uj, j, nij)
	)
	var piStar float64
	piStar, iterations = utils.BracketRootFromAbove(
		func(pi float64) float64 { return rs.phi(l, r, pi) },
		rs.piStarTwoRarefaction(l, r),
		math.Min(l.pi, r.pi),
		rs.opt.NewtonMaxIter, rs.opt.NewtonEps)
	nu1, nu3 := rs.lambdaExtremes(l, r, piStar)
	lambdaMax = math.Max(utils.PositivePart(nu1), utils.PositivePart(nu3))
	pStar = piStar - rs.system.pinf
	return
}
