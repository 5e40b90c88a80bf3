// Package sod_shock_tube provides the exact solution of the 1-D Riemann
// problem for a polytropic gas. The classic Sod configuration is the
// default; arbitrary left/right states (e.g. the LeBlanc problem) are
// supported through RiemannProblem. The solution sampler serves as the
// reference for the end-to-end solver tests.
package sod_shock_tube

import (
	"fmt"
	"math"
)

type RiemannProblem struct {
	RhoL, UL, PL float64
	RhoR, UR, PR float64
	Gamma        float64
	X0           float64
}

// Sod is the classic shock tube of Sod (1978).
func Sod() RiemannProblem {
	return RiemannProblem{
		RhoL: 1., UL: 0., PL: 1.,
		RhoR: 0.125, UR: 0., PR: 0.1,
		Gamma: 1.4,
		X0:    0.5,
	}
}

// LeBlanc is the extreme shock tube with a 10^9 energy contrast.
func LeBlanc() RiemannProblem {
	return RiemannProblem{
		RhoL: 1., UL: 0., PL: 2. / 3. * 1.e-1,
		RhoR: 1.e-3, UR: 0., PR: 2. / 3. * 1.e-10,
		Gamma: 5. / 3.,
		X0:    3.,
	}
}

// Solution carries the star region values of a solved Riemann problem.
type Solution struct {
	RiemannProblem
	PStar, UStar       float64
	RhoStarL, RhoStarR float64
	AL, AR             float64
}

// fZ is the Toro wave function of one side with derivative.
func (rp RiemannProblem) fZ(p, rhoZ, pZ, aZ float64) (f, df float64) {
	gamma := rp.Gamma
	if p > pZ {
		A := 2. / ((gamma + 1.) * rhoZ)
		B := (gamma - 1.) / (gamma + 1.) * pZ
		sqrtTerm := math.Sqrt(A / (p + B))
		f = (p - pZ) * sqrtTerm
		df = sqrtTerm * (1. - 0.5*(p-pZ)/(p+B))
		return
	}
	f = 2. * aZ / (gamma - 1.) * (math.Pow(p/pZ, 0.5*(gamma-1.)/gamma) - 1.)
	df = 1. / (rhoZ * aZ) * math.Pow(p/pZ, -0.5*(gamma+1.)/gamma)
	return
}

// Solve determines the star state with a Newton iteration safeguarded by
// bisection on the monotone pressure function.
func (rp RiemannProblem) Solve() (sol Solution) {
	var (
		gamma = rp.Gamma
		aL    = math.Sqrt(gamma * rp.PL / rp.RhoL)
		aR    = math.Sqrt(gamma * rp.PR / rp.RhoR)
		du    = rp.UR - rp.UL
	)
	phi := func(p float64) float64 {
		fL, _ := rp.fZ(p, rp.RhoL, rp.PL, aL)
		fR, _ := rp.fZ(p, rp.RhoR, rp.PR, aR)
		return fL + fR + du
	}
	// Bracket the root.
	lo, hi := 0., math.Max(rp.PL, rp.PR)
	for phi(hi) < 0. {
		lo = hi
		hi *= 2.
	}
	p := 0.5 * (lo + hi)
	for iter := 0; iter < 200; iter++ {
		fL, dfL := rp.fZ(p, rp.RhoL, rp.PL, aL)
		fR, dfR := rp.fZ(p, rp.RhoR, rp.PR, aR)
		f := fL + fR + du
		if f > 0 {
			hi = p
		} else {
			lo = p
		}
		pNext := p - f/(dfL+dfR)
		if !(pNext > lo && pNext < hi) {
			pNext = 0.5 * (lo + hi)
		}
		if math.Abs(pNext-p) <= 1.e-14*p {
			p = pNext
			break
		}
		p = pNext
	}
	if p <= 0 || math.IsNaN(p) {
		panic(fmt.Errorf("pressure iteration failed: p = %v", p))
	}

	fL, _ := rp.fZ(p, rp.RhoL, rp.PL, aL)
	fR, _ := rp.fZ(p, rp.RhoR, rp.PR, aR)
	sol = Solution{
		RiemannProblem: rp,
		PStar:          p,
		UStar:          0.5*(rp.UL+rp.UR) + 0.5*(fR-fL),
		AL:             aL,
		AR:             aR,
	}
	sol.RhoStarL = rp.starDensity(rp.RhoL, rp.PL, p)
	sol.RhoStarR = rp.starDensity(rp.RhoR, rp.PR, p)
	return
}

func (rp RiemannProblem) starDensity(rhoZ, pZ, pStar float64) float64 {
	gamma := rp.Gamma
	if pStar > pZ { // shock
		mu2 := (gamma - 1.) / (gamma + 1.)
		return rhoZ * (pStar/pZ + mu2) / (1. + mu2*pStar/pZ)
	}
	return rhoZ * math.Pow(pStar/pZ, 1./gamma) // rarefaction
}

// Evaluate samples the exact solution at position x and time t > 0,
// returning primitive values (rho, u, p) and the specific internal
// energy e.
func (sol Solution) Evaluate(x, t float64) (rho, u, p, e float64) {
	var (
		gamma = sol.Gamma
		xi    = (x - sol.X0) / t
	)
	if xi <= sol.UStar {
		rho, u, p = sol.sampleSide(xi, sol.RhoL, sol.UL, sol.PL, sol.AL, sol.RhoStarL, -1.)
	} else {
		rho, u, p = sol.sampleSide(xi, sol.RhoR, sol.UR, sol.PR, sol.AR, sol.RhoStarR, 1.)
	}
	e = p / ((gamma - 1.) * rho)
	return
}

// sampleSide resolves the wave fan on one side of the contact. sign is -1
// for the left-running wave and +1 for the right-running wave.
func (sol Solution) sampleSide(xi, rhoZ, uZ, pZ, aZ, rhoStar, sign float64) (rho, u, p float64) {
	gamma := sol.Gamma
	if sol.PStar > pZ {
		// Shock with speed from the Rankine-Hugoniot condition.
		shockSpeed := uZ + sign*aZ*math.Sqrt(
			0.5*(gamma+1.)/gamma*sol.PStar/pZ+0.5*(gamma-1.)/gamma)
		if sign*(xi-shockSpeed) >= 0 {
			return rhoZ, uZ, pZ
		}
		return rhoStar, sol.UStar, sol.PStar
	}
	// Rarefaction fan between the head and tail characteristics.
	var (
		aStar = aZ * math.Pow(sol.PStar/pZ, 0.5*(gamma-1.)/gamma)
		head  = uZ + sign*aZ
		tail  = sol.UStar + sign*aStar
	)
	if sign*(xi-head) >= 0 {
		return rhoZ, uZ, pZ
	}
	if sign*(xi-tail) <= 0 {
		return rhoStar, sol.UStar, sol.PStar
	}
	a := (2.*aZ + sign*(gamma-1.)*(xi-uZ)) / (gamma + 1.)
	u = xi - sign*a
	rho = rhoZ * math.Pow(a/aZ, 2./(gamma-1.))
	p = pZ * math.Pow(a/aZ, 2.*gamma/(gamma-1.))
	return
}
