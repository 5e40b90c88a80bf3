package offline

import (
	"fmt"
	"sort"

	"github.com/james-bowman/sparse"

	"github.com/notargets/govisc/utils"
)

// PartitionData splits a global offline data object into nranks rank-local
// objects. Rank r owns the contiguous global node range assigned by a
// PartitionMap; the local node ordering is [owned ascending | ghost
// ascending] where the ghost region is the one-ring of the owned range.
// Send and receive index lists are aligned pairwise so that the ensemble
// reducer can exchange ghost values without further lookups.
func PartitionData(g *Data, nranks int) (locals []*Data) {
	if nranks < 1 {
		panic(fmt.Errorf("nranks must be positive, have %d", nranks))
	}
	if nranks == 1 {
		return []*Data{g}
	}
	var (
		pm    = utils.NewPartitionMap(nranks, g.NOwned())
		owner = make([]int, g.NOwned())
	)
	locals = make([]*Data, nranks)
	for r := 0; r < nranks; r++ {
		lo, hi := pm.GetBucketRange(r)
		for i := lo; i < hi; i++ {
			owner[i] = r
		}
	}

	type rankMap struct {
		localOf map[int]int // global -> local
		globals []int       // local -> global
		nOwned  int
	}
	maps := make([]*rankMap, nranks)

	for r := 0; r < nranks; r++ {
		lo, hi := pm.GetBucketRange(r)
		rm := &rankMap{localOf: make(map[int]int)}
		for i := lo; i < hi; i++ {
			rm.localOf[i] = len(rm.globals)
			rm.globals = append(rm.globals, i)
		}
		rm.nOwned = len(rm.globals)
		// Collect the one-ring ghost region.
		var ghosts []int
		seen := make(map[int]bool)
		for i := lo; i < hi; i++ {
			for _, j := range g.Pattern.Columns(i) {
				if (j < lo || j >= hi) && !seen[j] {
					seen[j] = true
					ghosts = append(ghosts, j)
				}
			}
		}
		sort.Ints(ghosts)
		for _, j := range ghosts {
			rm.localOf[j] = len(rm.globals)
			rm.globals = append(rm.globals, j)
		}
		maps[r] = rm
	}

	for r := 0; r < nranks; r++ {
		rm := maps[r]
		n := len(rm.globals)
		adj := sparse.NewDOK(n, n)
		for li := 0; li < n; li++ {
			adj.Set(li, li, 1)
			if li >= rm.nOwned {
				continue // ghost rows carry a self-only stencil
			}
			gi := rm.globals[li]
			for _, gj := range g.Pattern.Columns(gi) {
				adj.Set(li, rm.localOf[gj], 1)
			}
		}
		d := &Data{
			Dim:           g.Dim,
			Pattern:       NewPattern(adj, rm.nOwned),
			Boundary:      make(map[int]BoundaryDesc),
			Positions:     make([]float64, g.Dim*n),
			LumpedMass:    make([]float64, n),
			NRanks:        nranks,
			Rank:          r,
			LocalToGlobal: rm.globals,
			SendIndices:   make(map[int][]int),
			RecvIndices:   make(map[int][]int),
		}
		d.CijData = make([]float64, g.Dim*d.Pattern.NNZ())
		for li := 0; li < n; li++ {
			gi := rm.globals[li]
			d.LumpedMass[li] = g.LumpedMass[gi]
			copy(d.Positions[li*g.Dim:(li+1)*g.Dim],
				g.Positions[gi*g.Dim:(gi+1)*g.Dim])
			if desc, isBoundary := g.Boundary[gi]; isBoundary && li < rm.nOwned {
				d.Boundary[li] = desc
			}
			if li >= rm.nOwned {
				continue
			}
			for col, lj := range d.Pattern.Columns(li) {
				gj := rm.globals[lj]
				gk := globalEntry(g.Pattern, gi, gj)
				lk := d.Pattern.Entry(li, col)
				copy(d.CijData[lk*g.Dim:(lk+1)*g.Dim],
					g.CijData[gk*g.Dim:(gk+1)*g.Dim])
			}
		}
		d.finalize()
		// The local transpose lookup cannot see across the rank cut; take
		// the norm of c_ji from the global pattern instead so that d_ij
		// stays symmetric across ranks.
		for li := 0; li < rm.nOwned; li++ {
			gi := rm.globals[li]
			for col, lj := range d.Pattern.Columns(li) {
				gj := rm.globals[lj]
				gk := globalEntry(g.Pattern, gi, gj)
				if gkt := g.Pattern.Transpose[gk]; gkt >= 0 {
					d.CjiNorm[d.Pattern.Entry(li, col)] = g.CijNorm[gkt]
				}
			}
		}
		locals[r] = d
	}

	// Pairwise aligned ghost exchange lists.
	for r := 0; r < nranks; r++ {
		rm := maps[r]
		for li := rm.nOwned; li < len(rm.globals); li++ {
			gi := rm.globals[li]
			o := owner[gi]
			locals[r].RecvIndices[o] = append(locals[r].RecvIndices[o], li)
			locals[o].SendIndices[r] = append(locals[o].SendIndices[r], maps[o].localOf[gi])
		}
	}
	return locals
}

func globalEntry(sp *Pattern, i, j int) int {
	for col, jj := range sp.Columns(i) {
		if jj == j {
			return sp.Entry(i, col)
		}
	}
	panic(fmt.Errorf("entry (%d,%d) not present in stencil", i, j))
}
