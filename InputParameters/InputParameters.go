package InputParameters

import (
	"fmt"

	"github.com/ghodss/yaml"

	"github.com/notargets/govisc/catalog"
	"github.com/notargets/govisc/hyperbolic"
	"github.com/notargets/govisc/initial"
)

// Parameters obtained from the YAML input file
type InputParameters struct {
	Title     string  `yaml:"Title"`
	Equation  string  `yaml:"Equation"`  // euler, euler aeos, shallow water, navier stokes, skeleton
	Dimension int     `yaml:"Dimension"` // 1, 2, or 3
	CFL       float64 `yaml:"CFL"`
	FinalTime float64 `yaml:"FinalTime"`

	// Mesh of the structured test domains. NodesY is ignored in 1-D.
	NodesX            int     `yaml:"NodesX"`
	NodesY            int     `yaml:"NodesY"`
	XMin              float64 `yaml:"XMin"`
	XMax              float64 `yaml:"XMax"`
	YMin              float64 `yaml:"YMin"`
	YMax              float64 `yaml:"YMax"`
	Periodic          bool    `yaml:"Periodic"`
	BoundaryCondition string  `yaml:"BoundaryCondition"` // applied on all sides unless Periodic

	RungeKuttaOrder     int    `yaml:"RungeKuttaOrder"`
	IDViolationStrategy string `yaml:"IDViolationStrategy"` // warn, raise exception
	ParallelDegree      int    `yaml:"ParallelDegree"`
	Ranks               int    `yaml:"Ranks"`

	RiemannSolver hyperbolic.RiemannSolverOptions `yaml:"RiemannSolver"`
	Indicator     hyperbolic.IndicatorOptions     `yaml:"Indicator"`
	Limiter       hyperbolic.LimiterOptions       `yaml:"Limiter"`

	Equations     catalog.EquationOptions `yaml:"Equations"`
	InitialValues initial.Options         `yaml:"InitialValues"`
}

func Defaults() *InputParameters {
	return &InputParameters{
		Title:               "govisc",
		Equation:            "euler",
		Dimension:           1,
		CFL:                 0.5,
		FinalTime:           0.2,
		NodesX:              1001,
		NodesY:              3,
		XMin:                0.,
		XMax:                1.,
		YMin:                0.,
		YMax:                1.,
		BoundaryCondition:   "dynamic",
		RungeKuttaOrder:     3,
		IDViolationStrategy: "raise exception",
		Ranks:               1,
		RiemannSolver:       hyperbolic.DefaultRiemannSolverOptions(),
		Indicator:           hyperbolic.DefaultIndicatorOptions(),
		Limiter:             hyperbolic.DefaultLimiterOptions(),
		Equations:           catalog.DefaultEquationOptions(),
		InitialValues:       initial.DefaultOptions(),
	}
}

func (ip *InputParameters) Parse(data []byte) error {
	return yaml.Unmarshal(data, ip)
}

func (ip *InputParameters) Print() {
	fmt.Printf("\"%s\"\t\t= Title\n", ip.Title)
	fmt.Printf("[%s]\t\t\t= Equation\n", ip.Equation)
	fmt.Printf("[%d]\t\t\t\t= Dimension\n", ip.Dimension)
	fmt.Printf("%8.5f\t\t= CFL\n", ip.CFL)
	fmt.Printf("%8.5f\t\t= FinalTime\n", ip.FinalTime)
	fmt.Printf("[%d x %d]\t\t\t= Nodes\n", ip.NodesX, ip.NodesY)
	fmt.Printf("[%s]\t\t= Indicator\n", ip.Indicator.Kind)
	fmt.Printf("[%d]\t\t\t\t= Limiter Iterations\n", ip.Limiter.Iterations)
	fmt.Printf("[%s]\t\t= ID Violation Strategy\n", ip.IDViolationStrategy)
	fmt.Printf("[%s]\t\t= Initial Configuration\n", ip.InitialValues.Configuration)
}

// ModuleOptions assembles the hyperbolic module options from the input.
func (ip *InputParameters) ModuleOptions() hyperbolic.Options {
	return hyperbolic.Options{
		CFL:                 ip.CFL,
		ParallelDegree:      ip.ParallelDegree,
		IDViolationStrategy: hyperbolic.NewIDViolationStrategy(ip.IDViolationStrategy),
		RiemannSolver:       ip.RiemannSolver,
		Indicator:           ip.Indicator,
		Limiter:             ip.Limiter,
	}
}
