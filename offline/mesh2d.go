package offline

import (
	"fmt"
	"math"

	"github.com/james-bowman/sparse"
	"gonum.org/v1/gonum/mat"
)

// Box2DOptions configures a Cartesian Q1 collocation discretization of the
// rectangle [XMin,XMax] x [YMin,YMax] with NX x NY nodes.
type Box2DOptions struct {
	NX, NY     int
	XMin, XMax float64
	YMin, YMax float64
	Periodic   bool // both directions
	LeftBC     BoundaryType
	RightBC    BoundaryType
	BottomBC   BoundaryType
	TopBC      BoundaryType
}

// gauss2 is the 2x2 tensor Gauss rule on the reference square [-1,1]^2.
var gauss2 [4][2]float64

func init() {
	g := 1. / math.Sqrt(3.)
	gauss2 = [4][2]float64{{-g, -g}, {g, -g}, {g, g}, {-g, g}}
}

// q1Shape evaluates the four bilinear shape functions and their reference
// gradients at (xi, eta). Corner ordering: (0,0), (1,0), (1,1), (0,1).
func q1Shape(xi, eta float64) (N [4]float64, dN [4][2]float64) {
	N = [4]float64{
		0.25 * (1 - xi) * (1 - eta),
		0.25 * (1 + xi) * (1 - eta),
		0.25 * (1 + xi) * (1 + eta),
		0.25 * (1 - xi) * (1 + eta),
	}
	dN = [4][2]float64{
		{-0.25 * (1 - eta), -0.25 * (1 - xi)},
		{0.25 * (1 - eta), -0.25 * (1 + xi)},
		{0.25 * (1 + eta), 0.25 * (1 + xi)},
		{-0.25 * (1 + eta), 0.25 * (1 - xi)},
	}
	return
}

// q1LocalMatrices integrates the element divergence coefficients
// c_ab = int N_a dN_b/dx_d and the lumped element masses on a cell of size
// hx x hy. The x and y coefficient blocks are returned as 4x4 matrices.
func q1LocalMatrices(hx, hy float64) (cx, cy *mat.Dense, m [4]float64) {
	cx = mat.NewDense(4, 4, nil)
	cy = mat.NewDense(4, 4, nil)
	detJ := 0.25 * hx * hy
	for _, q := range gauss2 {
		N, dN := q1Shape(q[0], q[1])
		for a := 0; a < 4; a++ {
			m[a] += N[a] * detJ
			for b := 0; b < 4; b++ {
				cx.Set(a, b, cx.At(a, b)+N[a]*dN[b][0]*(2./hx)*detJ)
				cy.Set(a, b, cy.At(a, b)+N[a]*dN[b][1]*(2./hy)*detJ)
			}
		}
	}
	return
}

// NewBox2D assembles offline data for a Cartesian Q1 mesh. Node numbering
// is row major: id = j*NX + i.
func NewBox2D(opt Box2DOptions) (d *Data) {
	var (
		nx, ny = opt.NX, opt.NY
	)
	if nx < 3 || ny < 3 {
		panic(fmt.Errorf("box discretization requires at least 3x3 nodes, have %dx%d", nx, ny))
	}
	ncellx, ncelly := nx-1, ny-1
	hx := (opt.XMax - opt.XMin) / float64(ncellx)
	hy := (opt.YMax - opt.YMin) / float64(ncelly)
	if opt.Periodic {
		ncellx, ncelly = nx, ny
		hx = (opt.XMax - opt.XMin) / float64(nx)
		hy = (opt.YMax - opt.YMin) / float64(ny)
	}
	n := nx * ny

	node := func(i, j int) int {
		if opt.Periodic {
			i, j = (i+nx)%nx, (j+ny)%ny
		}
		return j*nx + i
	}
	cellNodes := func(ci, cj int) [4]int {
		return [4]int{
			node(ci, cj), node(ci+1, cj), node(ci+1, cj+1), node(ci, cj+1),
		}
	}

	adj := sparse.NewDOK(n, n)
	for cj := 0; cj < ncelly; cj++ {
		for ci := 0; ci < ncellx; ci++ {
			cn := cellNodes(ci, cj)
			for _, a := range cn {
				for _, b := range cn {
					adj.Set(a, b, 1)
				}
			}
		}
	}

	d = &Data{
		Dim:       2,
		Pattern:   NewPattern(adj, n),
		Boundary:  make(map[int]BoundaryDesc),
		Positions: make([]float64, 2*n),
	}
	sp := d.Pattern
	d.LumpedMass = make([]float64, n)
	d.CijData = make([]float64, 2*sp.NNZ())

	for j := 0; j < ny; j++ {
		for i := 0; i < nx; i++ {
			id := j*nx + i
			d.Positions[2*id] = opt.XMin + float64(i)*hx
			d.Positions[2*id+1] = opt.YMin + float64(j)*hy
		}
	}

	cx, cy, mloc := q1LocalMatrices(hx, hy)
	addCij := func(a, b int, vx, vy float64) {
		for col, jj := range sp.Columns(a) {
			if jj == b {
				k := sp.Entry(a, col)
				d.CijData[2*k] += vx
				d.CijData[2*k+1] += vy
				return
			}
		}
		panic(fmt.Errorf("entry (%d,%d) not present in stencil", a, b))
	}
	for cj := 0; cj < ncelly; cj++ {
		for ci := 0; ci < ncellx; ci++ {
			cn := cellNodes(ci, cj)
			for a := 0; a < 4; a++ {
				d.LumpedMass[cn[a]] += mloc[a]
				for b := 0; b < 4; b++ {
					addCij(cn[a], cn[b], cx.At(a, b), cy.At(a, b))
				}
			}
		}
	}

	if !opt.Periodic {
		d.buildBoxBoundary(opt, nx, ny, hx, hy)
	}

	d.finalize()
	return
}

func (d *Data) buildBoxBoundary(opt Box2DOptions, nx, ny int, hx, hy float64) {
	addNormal := func(id int, normal [3]float64, mass float64, bc BoundaryType) {
		desc, exists := d.Boundary[id]
		if !exists {
			desc = BoundaryDesc{ID: bc, Position: d.Position(id)}
		}
		for dd := 0; dd < 2; dd++ {
			desc.Normal[dd] += normal[dd] * mass
		}
		desc.BoundaryMass += mass
		d.Boundary[id] = desc
	}
	for j := 0; j < ny; j++ {
		m := hy
		if j == 0 || j == ny-1 {
			m = 0.5 * hy
		}
		addNormal(j*nx, [3]float64{-1, 0}, m, opt.LeftBC)
		addNormal(j*nx+nx-1, [3]float64{1, 0}, m, opt.RightBC)
	}
	for i := 0; i < nx; i++ {
		m := hx
		if i == 0 || i == nx-1 {
			m = 0.5 * hx
		}
		addNormal(i, [3]float64{0, -1}, m, opt.BottomBC)
		addNormal((ny-1)*nx+i, [3]float64{0, 1}, m, opt.TopBC)
	}
	// Normalize the mass-weighted normals.
	for id, desc := range d.Boundary {
		norm := math.Hypot(desc.Normal[0], desc.Normal[1])
		if norm > 0 {
			desc.Normal[0] /= norm
			desc.Normal[1] /= norm
		}
		desc.NormalMass = norm
		d.Boundary[id] = desc
	}
}
