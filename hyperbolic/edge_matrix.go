package hyperbolic

import (
	"github.com/notargets/govisc/offline"
)

// EdgeMatrix stores edge values in the layout of the stencil pattern: one
// block of Stride float64 per nonzero entry. The d_ij and l_ij matrices
// use stride one, the p_ij matrix uses the conserved state arity.
type EdgeMatrix struct {
	sp     *offline.Pattern
	Stride int
	Data   []float64
}

func NewEdgeMatrix(sp *offline.Pattern, stride int) *EdgeMatrix {
	return &EdgeMatrix{
		sp:     sp,
		Stride: stride,
		Data:   make([]float64, stride*sp.NNZ()),
	}
}

func (m *EdgeMatrix) At(k int) float64 {
	return m.Data[k*m.Stride]
}

func (m *EdgeMatrix) Set(k int, v float64) {
	m.Data[k*m.Stride] = v
}

// SetTranspose writes v into the (j,i) slot matching nnz position k. It
// reports false when the transposed entry is not stored locally (the pair
// straddles a rank cut); the caller then relies on the neighboring rank
// computing the same value.
func (m *EdgeMatrix) SetTranspose(k int, v float64) bool {
	kt := m.sp.Transpose[k]
	if kt < 0 {
		return false
	}
	m.Data[kt*m.Stride] = v
	return true
}

// AtTranspose reads the (j,i) slot matching nnz position k.
func (m *EdgeMatrix) AtTranspose(k int) (float64, bool) {
	kt := m.sp.Transpose[k]
	if kt < 0 {
		return 0, false
	}
	return m.Data[kt*m.Stride], true
}

// GetState reads a state-valued entry.
func (m *EdgeMatrix) GetState(k int, U *State) {
	base := k * m.Stride
	for c := 0; c < m.Stride; c++ {
		U[c] = m.Data[base+c]
	}
	for c := m.Stride; c < MaxComponents; c++ {
		U[c] = 0.
	}
}

func (m *EdgeMatrix) SetState(k int, U State) {
	base := k * m.Stride
	for c := 0; c < m.Stride; c++ {
		m.Data[base+c] = U[c]
	}
}

// SetStateTranspose writes -U into the transposed slot, preserving the
// antisymmetry p_ji = -p_ij of the high order increments.
func (m *EdgeMatrix) SetStateTranspose(k int, U State) bool {
	kt := m.sp.Transpose[k]
	if kt < 0 {
		return false
	}
	base := kt * m.Stride
	for c := 0; c < m.Stride; c++ {
		m.Data[base+c] = -U[c]
	}
	return true
}

// ScaleEntry multiplies the entry at nnz position k by a.
func (m *EdgeMatrix) ScaleEntry(k int, a float64) {
	base := k * m.Stride
	for c := 0; c < m.Stride; c++ {
		m.Data[base+c] *= a
	}
}
