package offline

import (
	"fmt"
	"sort"

	"github.com/james-bowman/sparse"
)

// BlockWidth is the lane count of the blocked interior range. NInternal is
// the longest prefix of owned rows that splits into aligned groups of
// BlockWidth rows with identical row length. The sweeps visit every owned
// row one at a time and check for cancellation every BlockWidth rows; rows
// below NInternal are not treated differently.
const BlockWidth = 4

// Pattern is the stencil connectivity in compressed row storage. The first
// column of every row is the row index itself. Rows of length one are
// constrained degrees of freedom and are skipped in every sweep.
type Pattern struct {
	N         int // total rows: owned + ghost
	NOwned    int
	NInternal int // blocked prefix, multiple of BlockWidth
	RowPtr    []int
	Cols      []int
	// Transpose[k] is the nnz position of (j,i) for the nnz position k of
	// (i,j), or -1 if row j is not stored locally. Used for the race-free
	// store-to-transpose writes of the edge matrices.
	Transpose []int
}

func (sp *Pattern) RowLength(i int) int {
	return sp.RowPtr[i+1] - sp.RowPtr[i]
}

func (sp *Pattern) Columns(i int) []int {
	return sp.Cols[sp.RowPtr[i]:sp.RowPtr[i+1]]
}

// Entry returns the nnz position of column number col within row i.
func (sp *Pattern) Entry(i, col int) int {
	return sp.RowPtr[i] + col
}

// NNZ is the total number of stored entries.
func (sp *Pattern) NNZ() int {
	return sp.RowPtr[sp.N]
}

// NewPattern builds a Pattern from a symmetric adjacency accumulated in a
// DOK matrix. Each row is ordered self-first, then ascending by column.
// nOwned rows are locally owned; rows at and beyond nOwned belong to the
// ghost region. Every row keeps the stencil that adj gives it.
func NewPattern(adj *sparse.DOK, nOwned int) (sp *Pattern) {
	n, m := adj.Dims()
	if n != m {
		panic(fmt.Errorf("adjacency must be square, have %d x %d", n, m))
	}
	sp = &Pattern{
		N:      n,
		NOwned: nOwned,
		RowPtr: make([]int, n+1),
	}
	csr := adj.ToCSR()
	rows := make([][]int, n)
	for i := 0; i < n; i++ {
		var cols []int
		csr.DoRowNonZero(i, func(_, j int, v float64) {
			if v != 0 && j != i {
				cols = append(cols, j)
			}
		})
		sort.Ints(cols)
		rows[i] = append([]int{i}, cols...)
	}
	for i := 0; i < n; i++ {
		sp.RowPtr[i+1] = sp.RowPtr[i] + len(rows[i])
	}
	sp.Cols = make([]int, sp.RowPtr[n])
	for i := 0; i < n; i++ {
		copy(sp.Cols[sp.RowPtr[i]:], rows[i])
	}
	sp.buildTranspose()
	sp.NInternal = sp.blockedPrefix()
	return
}

func (sp *Pattern) buildTranspose() {
	sp.Transpose = make([]int, sp.NNZ())
	for i := 0; i < sp.N; i++ {
		for col, j := range sp.Columns(i) {
			k := sp.Entry(i, col)
			sp.Transpose[k] = -1
			// Rows of a one-ring stencil are short, a linear probe is fine.
			for cj, jj := range sp.Columns(j) {
				if jj == i {
					sp.Transpose[k] = sp.Entry(j, cj)
					break
				}
			}
		}
	}
}

// blockedPrefix determines the longest prefix of owned rows that can be
// traversed in aligned blocks of BlockWidth rows with identical row length
// and no constrained rows.
func (sp *Pattern) blockedPrefix() (nInternal int) {
	for i := 0; i+BlockWidth <= sp.NOwned; i += BlockWidth {
		rl := sp.RowLength(i)
		if rl == 1 {
			break
		}
		uniform := true
		for k := 1; k < BlockWidth; k++ {
			if sp.RowLength(i+k) != rl {
				uniform = false
				break
			}
		}
		if !uniform {
			break
		}
		nInternal = i + BlockWidth
	}
	return
}
