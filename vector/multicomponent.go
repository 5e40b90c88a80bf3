package vector

import "fmt"

// MaxComponents bounds the conserved state arity of the supported
// equations: 2+dim for Euler in up to three dimensions, 1+dim for shallow
// water. Fixed-size state arrays keep the sweep loops free of allocation.
const MaxComponents = 5

// State is a conserved state passed by value. Components beyond the
// equation's arity stay zero.
type State [MaxComponents]float64

func (U State) Add(V State) (W State) {
	for c := range U {
		W[c] = U[c] + V[c]
	}
	return
}

func (U State) Sub(V State) (W State) {
	for c := range U {
		W[c] = U[c] - V[c]
	}
	return
}

func (U State) Scale(a float64) (W State) {
	for c := range U {
		W[c] = a * U[c]
	}
	return
}

// Axpy returns U + a*V.
func (U State) Axpy(a float64, V State) (W State) {
	for c := range U {
		W[c] = U[c] + a*V[c]
	}
	return
}

// Multi is a structure-of-arrays multicomponent vector over a node range.
// The first NOwned entries of each component are owned by the local rank,
// the remaining N-NOwned entries mirror the one-ring ghost region of the
// stencil and are filled by the ensemble reducer.
//
// Component c of node i lives at Data[c*N+i] so that each component is a
// contiguous array amenable to block loads through the sparsity pattern.
type Multi struct {
	NComp  int
	N      int // owned + ghost entries
	NOwned int
	Data   []float64
}

func NewMulti(nComp, nOwned, nGhost int) (v *Multi) {
	n := nOwned + nGhost
	v = &Multi{
		NComp:  nComp,
		N:      n,
		NOwned: nOwned,
		Data:   make([]float64, nComp*n),
	}
	return
}

// Comp returns the contiguous storage of a single component.
func (v *Multi) Comp(c int) []float64 {
	return v.Data[c*v.N : (c+1)*v.N]
}

func (v *Multi) At(c, i int) float64 {
	return v.Data[c*v.N+i]
}

func (v *Multi) Set(c, i int, val float64) {
	v.Data[c*v.N+i] = val
}

// GetState gathers the NComp components of node i into U. The remaining
// entries of U are zeroed so that fixed-arity state arithmetic stays exact.
func (v *Multi) GetState(i int, U *State) {
	for c := 0; c < v.NComp; c++ {
		U[c] = v.Data[c*v.N+i]
	}
	for c := v.NComp; c < len(U); c++ {
		U[c] = 0.
	}
}

func (v *Multi) SetState(i int, U State) {
	for c := 0; c < v.NComp; c++ {
		v.Data[c*v.N+i] = U[c]
	}
}

// CopyFrom copies the full contents (owned and ghost range) of src.
func (v *Multi) CopyFrom(src *Multi) {
	if v.NComp != src.NComp || v.N != src.N {
		panic(fmt.Errorf("vector shape mismatch: [%d x %d] vs [%d x %d]",
			v.NComp, v.N, src.NComp, src.N))
	}
	copy(v.Data, src.Data)
}

// Sadd forms v = a*v + b*w entry-wise over owned and ghost ranges. Used by
// the SSP Runge Kutta convex combinations.
func (v *Multi) Sadd(a float64, b float64, w *Multi) {
	if v.NComp != w.NComp || v.N != w.N {
		panic(fmt.Errorf("vector shape mismatch: [%d x %d] vs [%d x %d]",
			v.NComp, v.N, w.NComp, w.N))
	}
	for k := range v.Data {
		v.Data[k] = a*v.Data[k] + b*w.Data[k]
	}
}

func (v *Multi) Clone() (w *Multi) {
	w = &Multi{
		NComp:  v.NComp,
		N:      v.N,
		NOwned: v.NOwned,
		Data:   make([]float64, len(v.Data)),
	}
	copy(w.Data, v.Data)
	return
}
