package EulerAEOS

import (
	"fmt"
	"math"

	"github.com/notargets/govisc/hyperbolic"
	"github.com/notargets/govisc/offline"
)

// ApplyBoundaryConditions applies the boundary operator selected by id.
// The dynamic operator distinguishes supersonic/subsonic inflow/outflow
// with the surrogate speed of sound and prescribes Riemann
// characteristics from the dirichlet data.
func (s *System) ApplyBoundaryConditions(id offline.BoundaryType, U hyperbolic.State,
	normal [3]float64, dirichlet func() hyperbolic.State) hyperbolic.State {
	var (
		dim    = s.Dimension
		result = U
	)
	switch id {
	case offline.BCDirichlet:
		result = dirichlet()

	case offline.BCDirichletMomentum:
		UBar := dirichlet()
		for d := 0; d < dim; d++ {
			result[1+d] = UBar[1+d]
		}

	case offline.BCSlip:
		var mn float64
		for d := 0; d < dim; d++ {
			mn += U[1+d] * normal[d]
		}
		for d := 0; d < dim; d++ {
			result[1+d] = U[1+d] - mn*normal[d]
		}

	case offline.BCNoSlip:
		for d := 0; d < dim; d++ {
			result[1+d] = 0.
		}

	case offline.BCDynamic:
		var (
			rho = U[0]
			p   = s.EOS.Pressure(rho, s.InternalEnergy(U)/rho)
			a   = s.SurrogateSpeedOfSound(U, s.SurrogateGamma(U, p))
			vn  float64
		)
		for d := 0; d < dim; d++ {
			vn += U[1+d] * normal[d]
		}
		vn /= rho
		pressureOf := func(V hyperbolic.State) float64 {
			return s.EOS.Pressure(V[0], s.InternalEnergy(V)/V[0])
		}
		switch {
		case vn < -a:
			/* supersonic inflow */
			result = dirichlet()
		case vn <= 0.:
			/* subsonic inflow: keep the outgoing R_2 characteristic */
			UBar := dirichlet()
			result = s.prescribeRiemannCharacteristic(2, UBar, pressureOf(UBar), U, p, normal)
		case vn <= a:
			/* subsonic outflow: prescribe the incoming R_1 characteristic */
			UBar := dirichlet()
			result = s.prescribeRiemannCharacteristic(1, U, p, UBar, pressureOf(UBar), normal)
		}
		/* supersonic outflow: keep U as is */

	default:
		panic(fmt.Errorf("unknown boundary id %d", id))
	}
	return result
}

/*
The "four" Riemann characteristics are formed under the assumption of
locally isentropic flow. Both states are transformed into
{rho, vn, vperp, gamma, a} with the NASG interpolation, and

	R_1 = vn - 2 a (1 - b rho) / (gamma - 1)
	R_2 = vn + 2 a (1 - b rho) / (gamma - 1)
	S   = (p + p_inf) (1/rho - b)^gamma

The reconstruction solves for the density through

	a (1 - b rho) = (gamma - 1)(R_2 - R_1)/4
	A = {a^2/(gamma S) (1 - b rho_old)^2}^{1/(gamma-1)}
	rho = A / (1 + b A)

using the old covolume on the left hand sides.
*/
func (s *System) prescribeRiemannCharacteristic(component int,
	U hyperbolic.State, p float64, UBar hyperbolic.State, pBar float64,
	normal [3]float64) (UNew hyperbolic.State) {
	var (
		dim = s.Dimension
		b   = s.b
	)
	decompose := func(V hyperbolic.State, pV float64) (vn float64, gamma, a, covolume float64) {
		rho := V[0]
		for d := 0; d < dim; d++ {
			vn += V[1+d] * normal[d]
		}
		vn /= rho
		gamma = s.SurrogateGamma(V, pV)
		a = s.SurrogateSpeedOfSound(V, gamma)
		covolume = 1. - b*rho
		return
	}

	vn, gamma, a, covolume := decompose(U, p)
	vnBar, gammaBar, aBar, covolumeBar := decompose(UBar, pBar)

	R1 := vn - 2.*a/(gamma-1.)*covolume
	if component == 1 {
		R1 = vnBar - 2.*aBar/(gammaBar-1.)*covolumeBar
	}
	R2 := vn + 2.*a/(gamma-1.)*covolume
	if component == 2 {
		R2 = vnBar + 2.*aBar/(gammaBar-1.)*covolumeBar
	}

	// We are really hoping for the best here: R_2 >= R_1 is required to
	// extract a valid sound speed from the interpolation.
	if R2 < R1 {
		panic(fmt.Errorf("encountered R_2 < R_1 in dynamic boundary value "+
			"enforcement: R_1 = %v, R_2 = %v", R1, R2))
	}

	var (
		rho    = U[0]
		vperp  [3]float64
		SEntro = (p + s.pinf) * math.Pow(1./rho-b, gamma)
	)
	for d := 0; d < dim; d++ {
		vperp[d] = U[1+d]/rho - vn*normal[d]
	}

	vnNew := 0.5 * (R1 + R2)
	aNewSquare := (gamma - 1.) * (R2 - R1) / (4. * covolume)
	aNewSquare *= aNewSquare

	term := math.Pow(aNewSquare/(gamma*SEntro), 1./(gamma-1.))
	if b != 0. {
		term *= math.Pow(covolume, 2./(gamma-1.))
	}
	rhoNew := term / (1. + b*term)
	covolumeNew := 1. - b*rhoNew
	pNew := aNewSquare/gamma*rhoNew*covolumeNew - s.pinf

	rhoENew := rhoNew*s.q + (pNew+gamma*s.pinf)*covolumeNew/(gamma-1.)

	UNew[0] = rhoNew
	var v2 float64
	for d := 0; d < dim; d++ {
		v := vnNew*normal[d] + vperp[d]
		UNew[1+d] = rhoNew * v
		v2 += v * v
	}
	UNew[1+dim] = rhoENew + 0.5*rhoNew*v2
	return
}
