// Package catalog enumerates the available equations in a single registry
// constructed explicitly at program start; there is no hidden global
// registration lifecycle.
package catalog

import (
	"fmt"
	"strings"

	"github.com/notargets/govisc/Euler"
	"github.com/notargets/govisc/EulerAEOS"
	"github.com/notargets/govisc/NavierStokes"
	"github.com/notargets/govisc/ShallowWater"
	"github.com/notargets/govisc/Skeleton"
	"github.com/notargets/govisc/hyperbolic"
)

// EquationOptions carries the per-equation configuration sections.
type EquationOptions struct {
	Euler        Euler.SystemOptions        `yaml:"Euler"`
	EulerAEOS    EulerAEOS.SystemOptions    `yaml:"EulerAEOS"`
	ShallowWater ShallowWater.SystemOptions `yaml:"ShallowWater"`
	NavierStokes NavierStokes.SystemOptions `yaml:"NavierStokes"`
}

func DefaultEquationOptions() EquationOptions {
	return EquationOptions{
		Euler:        Euler.DefaultSystemOptions(),
		EulerAEOS:    EulerAEOS.DefaultSystemOptions(),
		ShallowWater: ShallowWater.DefaultSystemOptions(),
		NavierStokes: NavierStokes.DefaultSystemOptions(),
	}
}

type factory func(dim int, opt EquationOptions) hyperbolic.Description

// Catalog maps equation names to description factories.
type Catalog struct {
	factories map[string]factory
}

func New() (c *Catalog) {
	c = &Catalog{factories: map[string]factory{
		"euler": func(dim int, opt EquationOptions) hyperbolic.Description {
			return Euler.NewDescription(dim, opt.Euler)
		},
		"euler aeos": func(dim int, opt EquationOptions) hyperbolic.Description {
			return EulerAEOS.NewDescription(dim, opt.EulerAEOS)
		},
		"shallow water": func(dim int, opt EquationOptions) hyperbolic.Description {
			return ShallowWater.NewDescription(dim, opt.ShallowWater)
		},
		"navier stokes": func(dim int, opt EquationOptions) hyperbolic.Description {
			return NavierStokes.NewDescription(dim, opt.NavierStokes)
		},
		"skeleton": func(dim int, opt EquationOptions) hyperbolic.Description {
			return Skeleton.NewDescription(dim)
		},
	}}
	return
}

// Names returns the registered equation names in stable order.
func (c *Catalog) Names() []string {
	return []string{"euler", "euler aeos", "shallow water", "navier stokes", "skeleton"}
}

// Dispatch constructs the description for the chosen equation and
// dimension. Unknown equations and dimensions outside {1,2,3} are fatal
// configuration errors naming the accepted set.
func (c *Catalog) Dispatch(equation string, dim int, opt EquationOptions) hyperbolic.Description {
	if dim < 1 || dim > 3 {
		panic(fmt.Errorf("the dimension parameter needs to be 1, 2, or 3, "+
			"but we encountered %d", dim))
	}
	f, ok := c.factories[strings.ToLower(equation)]
	if !ok {
		panic(fmt.Errorf("unable to use equation named %q, accepted: %v",
			equation, c.Names()))
	}
	return f(dim, opt)
}
