package Euler

import (
	"fmt"
	"math"

	"github.com/notargets/govisc/hyperbolic"
	"github.com/notargets/govisc/offline"
)

// ApplyBoundaryConditions applies the boundary operator selected by id:
//
//   - dirichlet replaces the full state,
//   - dirichlet momentum replaces the momentum only,
//   - slip removes the normal momentum component,
//   - no slip zeroes the momentum,
//   - dynamic decomposes into Riemann characteristics and prescribes the
//     incoming ones depending on the local flow state.
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
		/*
			Four cases distinguished by the normal velocity against the
			sound speed:

			  - supersonic inflow: prescribe the full dirichlet state
			  - subsonic inflow: replace the R_2 characteristic
			  - subsonic outflow: replace the R_1 characteristic
			  - supersonic outflow: keep U as is
		*/
		var (
			rho = s.Density(U)
			a   = s.SpeedOfSound(U)
			vn  float64
		)
		for d := 0; d < dim; d++ {
			vn += U[1+d] * normal[d]
		}
		vn /= rho
		switch {
		case vn < -a:
			result = dirichlet()
		case vn <= 0.:
			result = s.prescribeRiemannCharacteristic(2, dirichlet(), U, normal)
		case vn <= a:
			result = s.prescribeRiemannCharacteristic(1, U, dirichlet(), normal)
		}

	default:
		panic(fmt.Errorf("unknown boundary id %d", id))
	}
	return result
}

// prescribeRiemannCharacteristic decomposes into the Riemann invariants of
// a locally isentropic flow,
//
//	R_1 = v n - 2a/(gamma-1),  R_2 = v n + 2a/(gamma-1),
//
// takes characteristic component 1 or 2 from UBar and the other one from
// U, then reconstructs a conserved state from {R_1, R_2, vperp, S}, with
// vperp and S taken from U and the isentropic relation S = p / rho^gamma.
func (s *System) prescribeRiemannCharacteristic(component int,
	U, UBar hyperbolic.State, normal [3]float64) (UNew hyperbolic.State) {
	var (
		dim   = s.Dimension
		gamma = s.Gamma
	)
	decompose := func(V hyperbolic.State) (vn float64, vperp [3]float64, a, S float64) {
		rho := s.Density(V)
		for d := 0; d < dim; d++ {
			vn += V[1+d] * normal[d]
		}
		vn /= rho
		for d := 0; d < dim; d++ {
			vperp[d] = V[1+d]/rho - vn*normal[d]
		}
		a = s.SpeedOfSound(V)
		S = s.Pressure(V) * math.Pow(rho, -gamma)
		return
	}

	vn, vperp, a, S := decompose(U)
	vnBar, _, aBar, _ := decompose(UBar)

	R1 := vn - 2.*a/(gamma-1.)
	R2 := vnBar + 2.*aBar/(gamma-1.)
	if component == 1 {
		R1 = vnBar - 2.*aBar/(gamma-1.)
		R2 = vn + 2.*a/(gamma-1.)
	}

	// We are really hoping for the best here: R_2 >= R_1 is required to
	// extract a valid sound speed from the characteristic interpolation.
	if R2 < R1 {
		panic(fmt.Errorf("encountered R_2 < R_1 in dynamic boundary value "+
			"enforcement: R_1 = %v, R_2 = %v", R1, R2))
	}

	var (
		vnNew = 0.5 * (R1 + R2)
		aNew  = 0.25 * (gamma - 1.) * (R2 - R1)
	)
	rhoNew := math.Pow(aNew*aNew/(gamma*S), 1./(gamma-1.))
	pNew := aNew * aNew * rhoNew / gamma

	UNew[0] = rhoNew
	var v2 float64
	for d := 0; d < dim; d++ {
		v := vnNew*normal[d] + vperp[d]
		UNew[1+d] = rhoNew * v
		v2 += v * v
	}
	UNew[1+dim] = pNew/(gamma-1.) + 0.5*rhoNew*v2
	return
}
