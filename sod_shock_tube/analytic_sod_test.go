package sod_shock_tube

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSodStarState(t *testing.T) {
	sol := Sod().Solve()
	// reference values from Toro, "Riemann Solvers and Numerical
	// Methods for Fluid Dynamics", test 1
	assert.InDelta(t, 0.30313, sol.PStar, 1.e-4)
	assert.InDelta(t, 0.92745, sol.UStar, 1.e-4)
	assert.InDelta(t, 0.42632, sol.RhoStarL, 1.e-4)
	assert.InDelta(t, 0.26557, sol.RhoStarR, 1.e-4)
}

func TestSodProfile(t *testing.T) {
	var (
		sol = Sod().Solve()
		tF  = 0.2
	)
	// undisturbed ends
	rho, u, p, _ := sol.Evaluate(0.01, tF)
	assert.Equal(t, 1., rho)
	assert.Equal(t, 0., u)
	assert.Equal(t, 1., p)
	rho, u, p, _ = sol.Evaluate(0.99, tF)
	assert.Equal(t, 0.125, rho)
	assert.Equal(t, 0.1, p)

	// the contact separates the two star densities at equal pressure
	xc := sol.X0 + sol.UStar*tF
	rhoL, _, pL, _ := sol.Evaluate(xc-1.e-6, tF)
	rhoR, _, pR, _ := sol.Evaluate(xc+1.e-6, tF)
	assert.InDelta(t, sol.RhoStarL, rhoL, 1.e-6)
	assert.InDelta(t, sol.RhoStarR, rhoR, 1.e-6)
	assert.InDelta(t, pL, pR, 1.e-9)

	// monotone decreasing density through the rarefaction
	prev := math.Inf(1)
	for x := 0.05; x < xc; x += 0.01 {
		rho, _, _, _ = sol.Evaluate(x, tF)
		assert.LessOrEqual(t, rho, prev+1.e-12)
		prev = rho
	}
}

func TestLeBlancStarState(t *testing.T) {
	sol := LeBlanc().Solve()
	require.Greater(t, sol.PStar, sol.PR)
	require.Less(t, sol.PStar, sol.PL)
	// the shock runs to the right into the low density gas
	assert.Greater(t, sol.UStar, 0.)
	// sampling near the initial interface stays finite and positive
	rho, _, p, e := sol.Evaluate(3.5, 1.)
	assert.Greater(t, rho, 0.)
	assert.Greater(t, p, 0.)
	assert.Greater(t, e, 0.)
}
