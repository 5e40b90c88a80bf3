package hyperbolic

import (
	"errors"
	"fmt"
	"math"
)

// TimeIntegrator advances a state vector with strong stability preserving
// explicit Runge Kutta schemes built from forward Euler steps of the
// module. On a Restart raised by any stage the whole Runge Kutta step is
// retried with a reduced CFL number; after a run of successful steps the
// CFL number grows back toward its configured value.
type TimeIntegrator struct {
	Module      *Module
	Order       int // 1: forward Euler, 3: SSPRK(3,3)
	MaxRestarts int

	cflBase float64
	u1, u2  *StateVector
}

func NewTimeIntegrator(m *Module, order int) (ti *TimeIntegrator) {
	if order != 1 && order != 3 {
		panic(fmt.Errorf("unable to use Runge Kutta order %d, accepted: 1, 3", order))
	}
	ti = &TimeIntegrator{
		Module:      m,
		Order:       order,
		MaxRestarts: 16,
		cflBase:     m.Opts.CFL,
		u1:          m.NewStateVector(),
		u2:          m.NewStateVector(),
	}
	return
}

// Step advances sv from time t and returns the time step taken. sv does
// not need to be prepared; the integrator prepares every stage itself.
func (ti *TimeIntegrator) Step(sv *StateVector, t float64) (tau float64, err error) {
	m := ti.Module
	for attempt := 0; ; attempt++ {
		tau, err = ti.stepOnce(sv, t)
		if err == nil {
			if m.Opts.CFL < ti.cflBase {
				m.Opts.CFL = math.Min(ti.cflBase, m.Opts.CFL*1.5)
			}
			return
		}
		if !errors.Is(err, Restart) || attempt >= ti.MaxRestarts {
			return 0, err
		}
		m.Opts.CFL *= 0.5
	}
}

func (ti *TimeIntegrator) stepOnce(sv *StateVector, t float64) (tau float64, err error) {
	m := ti.Module
	m.PrepareStateVector(sv, t)
	if ti.Order == 1 {
		if tau, err = m.Step(sv, nil, nil, ti.u1, 0); err != nil {
			return 0, err
		}
		sv.U.CopyFrom(ti.u1.U)
		return
	}

	// SSPRK(3,3):
	//	u1 = u + tau L(u)
	//	u2 = 3/4 u + 1/4 (u1 + tau L(u1))
	//	u  = 1/3 u + 2/3 (u2 + tau L(u2))
	if tau, err = m.Step(sv, nil, nil, ti.u1, 0); err != nil {
		return 0, err
	}
	m.PrepareStateVector(ti.u1, t+tau)
	if _, err = m.Step(ti.u1, nil, nil, ti.u2, tau); err != nil {
		return 0, err
	}
	ti.u2.U.Sadd(0.25, 0.75, sv.U)
	m.PrepareStateVector(ti.u2, t+0.5*tau)
	if _, err = m.Step(ti.u2, nil, nil, ti.u1, tau); err != nil {
		return 0, err
	}
	sv.U.Sadd(1./3., 2./3., ti.u1.U)
	return
}
