package utils

import "math"

// BracketRootFromAbove returns an upper bound on the root of the monotone
// increasing function phi. Starting from the initial guess the bound is
// doubled until phi >= 0; newtonMaxIter secant-bisection steps then
// tighten the bracket [lo, hi] with early exit once the relative width
// drops below eps. The returned value is always the upper end of the
// final bracket, so it never falls below the root.
func BracketRootFromAbove(phi func(float64) float64, guess, scale float64,
	newtonMaxIter int, eps float64) (hi float64, iterations int) {
	var lo float64
	if scale <= 0 {
		scale = 1.
	}
	const machineEps = 2.220446049250313e-16
	hi = math.Max(guess, machineEps*scale)
	for phi(hi) < 0. {
		lo = hi
		hi *= 2.
		iterations++
		if iterations > 64 {
			return math.Inf(1), iterations
		}
	}
	for it := 0; it < newtonMaxIter; it++ {
		if hi-lo <= eps*hi {
			break
		}
		mid := 0.5 * (lo + hi)
		// Secant proposal inside the bracket, bisection as fallback.
		flo, fhi := phi(lo), phi(hi)
		if fhi > flo {
			p := hi - fhi*(hi-lo)/(fhi-flo)
			if p > lo && p < hi {
				mid = p
			}
		}
		if phi(mid) < 0. {
			lo = mid
		} else {
			hi = mid
		}
		iterations++
	}
	return
}
