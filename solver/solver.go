// Package solver assembles offline data, equation description, hyperbolic
// module and time integrator into a runnable simulation on the structured
// test domains, including the in-process rank ensemble.
package solver

import (
	"fmt"
	"sync"
	"time"

	"github.com/notargets/govisc/InputParameters"
	"github.com/notargets/govisc/catalog"
	"github.com/notargets/govisc/hyperbolic"
	"github.com/notargets/govisc/initial"
	"github.com/notargets/govisc/offline"
	"github.com/notargets/govisc/vector"
)

type Solver struct {
	Params *InputParameters.InputParameters
	Desc   hyperbolic.Description
	Global *offline.Data
	Field  initial.Field

	// One module, state vector and integrator per ensemble rank.
	Locals      []*offline.Data
	Modules     []*hyperbolic.Module
	States      []*hyperbolic.StateVector
	integrators []*hyperbolic.TimeIntegrator

	Time   float64
	NSteps int
}

func NewSolver(ip *InputParameters.InputParameters) (s *Solver) {
	desc := catalog.New().Dispatch(ip.Equation, ip.Dimension, ip.Equations)

	var global *offline.Data
	switch desc.Dim() {
	case 1:
		global = offline.NewInterval1D(offline.Interval1DOptions{
			N: ip.NodesX, XMin: ip.XMin, XMax: ip.XMax,
			Periodic: ip.Periodic,
			LeftBC:   offline.NewBoundaryType(ip.BoundaryCondition),
			RightBC:  offline.NewBoundaryType(ip.BoundaryCondition),
		})
	case 2:
		bc := offline.NewBoundaryType(ip.BoundaryCondition)
		global = offline.NewBox2D(offline.Box2DOptions{
			NX: ip.NodesX, NY: ip.NodesY,
			XMin: ip.XMin, XMax: ip.XMax, YMin: ip.YMin, YMax: ip.YMax,
			Periodic: ip.Periodic,
			LeftBC:   bc, RightBC: bc, BottomBC: bc, TopBC: bc,
		})
	default:
		panic(fmt.Errorf("no structured mesh assembly for dimension %d", desc.Dim()))
	}

	s = &Solver{
		Params: ip,
		Desc:   desc,
		Global: global,
		Field:  initial.NewField(desc, ip.InitialValues),
	}

	ranks := ip.Ranks
	if ranks < 1 {
		ranks = 1
	}
	s.Locals = offline.PartitionData(global, ranks)
	var ens *hyperbolic.Ensemble
	if ranks > 1 {
		ens = hyperbolic.NewEnsemble(ranks)
	}
	for _, local := range s.Locals {
		var comm hyperbolic.Reducer = hyperbolic.SerialComm{}
		if ens != nil {
			comm = ens.Comm(local)
		}
		m := hyperbolic.NewModule(local, desc, comm, ip.ModuleOptions())
		m.DirichletData = func(pos [3]float64, t float64) hyperbolic.State {
			return s.Field(pos, t)
		}
		m.Prepare()
		s.Modules = append(s.Modules, m)
		s.States = append(s.States, m.NewStateVector())
		s.integrators = append(s.integrators, hyperbolic.NewTimeIntegrator(m, ip.RungeKuttaOrder))
	}
	s.initializeSolution()
	return
}

func (s *Solver) initializeSolution() {
	for r, local := range s.Locals {
		sv := s.States[r]
		for i := 0; i < local.NTotal(); i++ {
			sv.U.SetState(i, s.Field(local.Position(i), 0.))
		}
	}
}

// Run advances the solution to FinalTime, driving one goroutine per rank
// in lockstep through the ensemble collectives.
func (s *Solver) Run(verbose bool) error {
	var (
		ip        = s.Params
		finalTime = ip.FinalTime
		start     = time.Now()
		errs      = make([]error, len(s.Modules))
		taus      = make([]float64, len(s.Modules))
	)
	if verbose {
		s.PrintInitialization()
	}
	for s.Time < finalTime {
		var wg sync.WaitGroup
		for r := range s.Modules {
			wg.Add(1)
			go func(r int) {
				defer wg.Done()
				taus[r], errs[r] = s.integrators[r].Step(s.States[r], s.Time)
			}(r)
		}
		wg.Wait()
		for _, err := range errs {
			if err != nil {
				return err
			}
		}
		s.Time += taus[0]
		s.NSteps++
		if verbose && s.NSteps%100 == 0 {
			s.PrintUpdate(taus[0])
		}
	}
	if verbose {
		s.PrintFinal(time.Since(start))
	}
	return nil
}

// GatherSolution assembles the owned ranges of all ranks into a single
// global vector ordered like the global offline data.
func (s *Solver) GatherSolution() (u *vector.Multi) {
	u = vector.NewMulti(s.Desc.NComponents(), s.Global.NOwned(), 0)
	for r, local := range s.Locals {
		sv := s.States[r]
		for i := 0; i < local.NOwned(); i++ {
			gi := local.LocalToGlobal[i]
			for c := 0; c < u.NComp; c++ {
				u.Set(c, gi, sv.U.At(c, i))
			}
		}
	}
	return
}

func (s *Solver) NRestarts() (n int) {
	for _, m := range s.Modules {
		n += m.NRestarts
	}
	return
}

func (s *Solver) NWarnings() (n int) {
	for _, m := range s.Modules {
		n += m.NWarnings
	}
	return
}

func (s *Solver) PrintInitialization() {
	ip := s.Params
	fmt.Printf("%s\n", s.Desc.Name())
	fmt.Printf("Solving to FinalTime = %8.5f\n", ip.FinalTime)
	fmt.Printf("CFL = %8.4f, Nodes = %d, Ranks = %d\n\n", ip.CFL,
		s.Global.NOwned(), len(s.Modules))
}

func (s *Solver) PrintUpdate(tau float64) {
	fmt.Printf("step %6d, time %10.6f, tau %10.3e, restarts %d, warnings %d\n",
		s.NSteps, s.Time, tau, s.NRestarts(), s.NWarnings())
}

func (s *Solver) PrintFinal(elapsed time.Duration) {
	rate := float64(s.NSteps) / elapsed.Seconds()
	fmt.Printf("\nsteps: %d, elapsed: %s, steps/sec: %8.2f\n", s.NSteps, elapsed, rate)
}
