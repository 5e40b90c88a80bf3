package EulerAEOS

import (
	"github.com/notargets/govisc/hyperbolic"
	"github.com/notargets/govisc/vector"
)

// Description bundles the arbitrary-EOS Euler system with its Riemann
// solver, indicator and limiter for a fixed spatial dimension.
type Description struct {
	system *System
}

func NewDescription(dim int, opt SystemOptions) *Description {
	return &Description{system: NewSystem(dim, opt)}
}

func (d *Description) Name() string               { return "euler aeos" }
func (d *Description) Dim() int                   { return d.system.Dimension }
func (d *Description) NComponents() int           { return 2 + d.system.Dimension }
func (d *Description) NPrecomputed() int          { return nPrecomputed }
func (d *Description) NPrecomputationCycles() int { return 2 }

func (d *Description) System() hyperbolic.System { return d.system }

func (d *Description) NewRiemannSolver(opt hyperbolic.RiemannSolverOptions,
	pv *vector.Multi) hyperbolic.RiemannSolver {
	return d.system.NewRiemannSolver(opt, pv)
}

func (d *Description) NewIndicator(opt hyperbolic.IndicatorOptions,
	pv *vector.Multi) hyperbolic.Indicator {
	return d.system.NewIndicator(opt, pv)
}

func (d *Description) NewLimiter(opt hyperbolic.LimiterOptions,
	pv *vector.Multi) hyperbolic.Limiter {
	return d.system.NewLimiter(opt, pv)
}
