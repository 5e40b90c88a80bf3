package offline

import (
	"fmt"
	"math"
)

// BoundaryType identifies the boundary operator applied to a boundary node
// during PrepareStateVector.
type BoundaryType int

const (
	BCDirichlet BoundaryType = iota
	BCDirichletMomentum
	BCSlip
	BCNoSlip
	BCDynamic
)

var boundaryNames = map[string]BoundaryType{
	"dirichlet":          BCDirichlet,
	"dirichlet momentum": BCDirichletMomentum,
	"slip":               BCSlip,
	"no slip":            BCNoSlip,
	"dynamic":            BCDynamic,
}

func NewBoundaryType(label string) (bt BoundaryType) {
	var ok bool
	if bt, ok = boundaryNames[label]; !ok {
		panic(fmt.Errorf("unable to use boundary condition named %s, accepted: "+
			"dirichlet, dirichlet momentum, slip, no slip, dynamic", label))
	}
	return
}

// BoundaryDesc carries the geometric data of one boundary collocation
// point: outward unit normal, the mass of the normal component, the
// boundary mass, and the node position.
type BoundaryDesc struct {
	Normal       [3]float64
	NormalMass   float64
	BoundaryMass float64
	ID           BoundaryType
	Position     [3]float64
}

// Data is the offline (precomputed, time independent) geometric data of a
// collocation discretization: lumped masses, the stencil pattern with the
// divergence coefficients c_ij, boundary map, and the owner/ghost node
// partition. It is read-only during time stepping.
type Data struct {
	Dim     int
	Pattern *Pattern

	LumpedMass        []float64 // m_i, length Pattern.N
	LumpedMassInverse []float64

	// Per nnz entry of Pattern: the divergence coefficient c_ij, its norm,
	// and the norm of the transposed coefficient c_ji. The normalized
	// direction n_ij = c_ij / |c_ij| is derived on the fly.
	CijData []float64 // stride Dim
	CijNorm []float64
	CjiNorm []float64

	Boundary map[int]BoundaryDesc

	Positions []float64 // node coordinates, stride Dim

	MeasureOfOmega float64

	// Ensemble decomposition. For a serial run NRanks == 1 and
	// LocalToGlobal is the identity.
	NRanks        int
	Rank          int
	LocalToGlobal []int
	// SendIndices[r] lists owned local indices whose values rank r needs
	// for its ghost region; RecvIndices[r] lists the local ghost indices
	// (>= NOwned) filled from rank r, in matching order.
	SendIndices map[int][]int
	RecvIndices map[int][]int
}

func (d *Data) NOwned() int {
	return d.Pattern.NOwned
}

func (d *Data) NTotal() int {
	return d.Pattern.N
}

// Cij returns the divergence coefficient of the nnz position k.
func (d *Data) Cij(k int) (c [3]float64) {
	for dd := 0; dd < d.Dim; dd++ {
		c[dd] = d.CijData[k*d.Dim+dd]
	}
	return
}

// Nij returns the normalized direction c_ij/|c_ij| along with |c_ij|.
func (d *Data) Nij(k int) (n [3]float64, norm float64) {
	norm = d.CijNorm[k]
	if norm == 0 {
		return
	}
	oonorm := 1. / norm
	for dd := 0; dd < d.Dim; dd++ {
		n[dd] = d.CijData[k*d.Dim+dd] * oonorm
	}
	return
}

func (d *Data) Position(i int) (x [3]float64) {
	for dd := 0; dd < d.Dim; dd++ {
		x[dd] = d.Positions[i*d.Dim+dd]
	}
	return
}

// finalize derives the coefficient norms and the inverse lumped mass, and
// validates the basic structural invariants of the assembly.
func (d *Data) finalize() {
	sp := d.Pattern
	d.CijNorm = make([]float64, sp.NNZ())
	d.CjiNorm = make([]float64, sp.NNZ())
	for k := 0; k < sp.NNZ(); k++ {
		var s float64
		for dd := 0; dd < d.Dim; dd++ {
			s += d.CijData[k*d.Dim+dd] * d.CijData[k*d.Dim+dd]
		}
		d.CijNorm[k] = math.Sqrt(s)
	}
	for i := 0; i < sp.N; i++ {
		for col := range sp.Columns(i) {
			k := sp.Entry(i, col)
			if kt := sp.Transpose[k]; kt >= 0 {
				d.CjiNorm[k] = d.CijNorm[kt]
			} else {
				d.CjiNorm[k] = d.CijNorm[k]
			}
		}
	}
	d.LumpedMassInverse = make([]float64, len(d.LumpedMass))
	d.MeasureOfOmega = 0.
	for i, m := range d.LumpedMass {
		if i < sp.NOwned {
			if m <= 0 {
				panic(fmt.Errorf("non-positive lumped mass m_%d = %v", i, m))
			}
			d.MeasureOfOmega += m
		}
		if m > 0 {
			d.LumpedMassInverse[i] = 1. / m
		}
	}
	if d.NRanks == 0 {
		d.NRanks = 1
		d.LocalToGlobal = make([]int, sp.N)
		for i := range d.LocalToGlobal {
			d.LocalToGlobal[i] = i
		}
	}
}

// CheckDivergence verifies sum_j c_ij = 0 for every unconstrained owned
// row to the given tolerance. The mesh assemblies guarantee this exactly;
// the check guards against defective hand-built patterns.
func (d *Data) CheckDivergence(tol float64) error {
	sp := d.Pattern
	for i := 0; i < sp.NOwned; i++ {
		if sp.RowLength(i) == 1 {
			continue
		}
		var sum [3]float64
		for col := range sp.Columns(i) {
			c := d.Cij(sp.Entry(i, col))
			for dd := 0; dd < d.Dim; dd++ {
				sum[dd] += c[dd]
			}
		}
		for dd := 0; dd < d.Dim; dd++ {
			if math.Abs(sum[dd]) > tol {
				return fmt.Errorf("row %d: sum_j c_ij[%d] = %v exceeds %v",
					i, dd, sum[dd], tol)
			}
		}
	}
	return nil
}
