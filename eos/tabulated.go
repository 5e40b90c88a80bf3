package eos

import (
	"fmt"
	"math"
	"sort"
)

// Tabulated interpolates an effective (gamma - 1) factor from a sampled
// table over specific internal energy:
//
//	p(rho, e) = gm1(e) rho e.
//
// Out-of-range energies clamp to the first and last table entries. Batch
// pressure lookups are substantially cheaper than per-node calls, so this
// oracle prefers the vector interface of the precomputation loop.
type Tabulated struct {
	e   []float64
	gm1 []float64
}

func NewTabulated(opt Options) *Tabulated {
	if len(opt.TableE) != len(opt.TableGm1) || len(opt.TableE) < 2 {
		panic(fmt.Errorf("tabulated EOS requires matching TableE/TableGm1 with "+
			"at least 2 samples, have %d/%d", len(opt.TableE), len(opt.TableGm1)))
	}
	if !sort.Float64sAreSorted(opt.TableE) {
		panic(fmt.Errorf("tabulated EOS requires TableE sorted ascending"))
	}
	return &Tabulated{e: opt.TableE, gm1: opt.TableGm1}
}

func (t *Tabulated) Name() string { return "tabulated" }

func (t *Tabulated) lookup(e float64) float64 {
	n := len(t.e)
	if e <= t.e[0] {
		return t.gm1[0]
	}
	if e >= t.e[n-1] {
		return t.gm1[n-1]
	}
	hi := sort.SearchFloat64s(t.e, e)
	lo := hi - 1
	w := (e - t.e[lo]) / (t.e[hi] - t.e[lo])
	return (1.-w)*t.gm1[lo] + w*t.gm1[hi]
}

func (t *Tabulated) Pressure(rho, e float64) float64 {
	return t.lookup(e) * rho * e
}

func (t *Tabulated) SpecificInternalEnergy(rho, p float64) float64 {
	// Invert p = gm1(e) rho e by a few fixed point sweeps; the table
	// factor varies slowly compared to e itself.
	e := p / (t.gm1[0] * rho)
	for iter := 0; iter < 8; iter++ {
		next := p / (t.lookup(e) * rho)
		if math.Abs(next-e) <= 1.e-14*math.Abs(next) {
			return next
		}
		e = next
	}
	return e
}

func (t *Tabulated) Temperature(rho, e float64) float64 {
	return e * t.lookup(e)
}

func (t *Tabulated) SpeedOfSound(rho, e float64) float64 {
	gm1 := t.lookup(e)
	return math.Sqrt(math.Max((gm1+1.)*gm1*e, 0.))
}

func (t *Tabulated) InterpolationB() float64      { return 0. }
func (t *Tabulated) InterpolationPinfty() float64 { return 0. }
func (t *Tabulated) InterpolationQ() float64      { return 0. }
func (t *Tabulated) PreferVectorInterface() bool  { return true }

func (t *Tabulated) PressureVec(p, rho, e []float64) {
	for i := range p {
		p[i] = t.lookup(e[i]) * rho[i] * e[i]
	}
}
