package offline

import (
	"fmt"

	"github.com/james-bowman/sparse"
)

// Interval1DOptions configures the 1-D interval discretization.
type Interval1DOptions struct {
	N        int     // number of collocation nodes
	XMin     float64 //
	XMax     float64 //
	Periodic bool
	LeftBC   BoundaryType // ignored when Periodic
	RightBC  BoundaryType
}

// NewInterval1D assembles the offline data of a P1 collocation
// discretization of [XMin, XMax] with N nodes. The divergence
// coefficients of linear elements are mesh independent,
//
//	c_{i,i+1} = +1/2,  c_{i,i-1} = -1/2,
//
// with the diagonal entry fixed by the zero row sum. The lumped mass of an
// interior node is the average of its two element widths.
func NewInterval1D(opt Interval1DOptions) (d *Data) {
	var (
		n = opt.N
	)
	if n < 3 {
		panic(fmt.Errorf("interval discretization requires at least 3 nodes, have %d", n))
	}
	h := (opt.XMax - opt.XMin) / float64(n-1)
	if opt.Periodic {
		// The last node is identified with the first: n distinct nodes on
		// a circle of circumference XMax-XMin.
		h = (opt.XMax - opt.XMin) / float64(n)
	}

	adj := sparse.NewDOK(n, n)
	for i := 0; i < n; i++ {
		adj.Set(i, i, 1)
		if i > 0 {
			adj.Set(i, i-1, 1)
		}
		if i < n-1 {
			adj.Set(i, i+1, 1)
		}
	}
	if opt.Periodic {
		adj.Set(0, n-1, 1)
		adj.Set(n-1, 0, 1)
	}

	d = &Data{
		Dim:       1,
		Pattern:   NewPattern(adj, n),
		Boundary:  make(map[int]BoundaryDesc),
		Positions: make([]float64, n),
	}
	sp := d.Pattern

	d.LumpedMass = make([]float64, n)
	d.CijData = make([]float64, sp.NNZ())
	for i := 0; i < n; i++ {
		d.Positions[i] = opt.XMin + float64(i)*h
		d.LumpedMass[i] = h
		left, right := i-1, i+1
		if opt.Periodic {
			left, right = (i+n-1)%n, (i+1)%n
		}
		for col, j := range sp.Columns(i) {
			k := sp.Entry(i, col)
			switch {
			case j == right && j != i:
				d.CijData[k] = 0.5
			case j == left && j != i:
				d.CijData[k] = -0.5
			}
		}
	}

	if !opt.Periodic {
		d.LumpedMass[0] = 0.5 * h
		d.LumpedMass[n-1] = 0.5 * h
		// The boundary rows carry the surface term on the diagonal so
		// that the row sum stays exactly zero.
		d.setCij(0, 0, [3]float64{-0.5})
		d.setCij(n-1, n-1, [3]float64{0.5})
		d.Boundary[0] = BoundaryDesc{
			Normal:       [3]float64{-1},
			NormalMass:   1,
			BoundaryMass: 1,
			ID:           opt.LeftBC,
			Position:     [3]float64{opt.XMin},
		}
		d.Boundary[n-1] = BoundaryDesc{
			Normal:       [3]float64{1},
			NormalMass:   1,
			BoundaryMass: 1,
			ID:           opt.RightBC,
			Position:     [3]float64{opt.XMax},
		}
	}

	d.finalize()
	return
}

func (d *Data) setCij(i, j int, c [3]float64) {
	sp := d.Pattern
	for col, jj := range sp.Columns(i) {
		if jj == j {
			k := sp.Entry(i, col)
			for dd := 0; dd < d.Dim; dd++ {
				d.CijData[k*d.Dim+dd] = c[dd]
			}
			return
		}
	}
	panic(fmt.Errorf("entry (%d,%d) not present in stencil", i, j))
}
