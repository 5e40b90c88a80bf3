package vector

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMultiLayout(t *testing.T) {
	v := NewMulti(3, 4, 2)
	assert.Equal(t, 6, v.N)
	assert.Equal(t, 4, v.NOwned)
	v.Set(2, 5, 7.)
	assert.Equal(t, 7., v.At(2, 5))
	assert.Equal(t, 7., v.Comp(2)[5])

	var U State
	v.Set(0, 1, 1.)
	v.Set(1, 1, 2.)
	v.Set(2, 1, 3.)
	v.GetState(1, &U)
	assert.Equal(t, State{1, 2, 3, 0, 0}, U)

	U[3] = 99. // stale entries beyond NComp are cleared by GetState
	v.GetState(1, &U)
	assert.Equal(t, 0., U[3])

	v.SetState(2, State{4, 5, 6, 0, 0})
	assert.Equal(t, 5., v.At(1, 2))
}

func TestSaddAndClone(t *testing.T) {
	v := NewMulti(2, 3, 0)
	w := NewMulti(2, 3, 0)
	for i := 0; i < 3; i++ {
		v.Set(0, i, 1.)
		w.Set(0, i, 2.)
	}
	v.Sadd(0.25, 0.75, w)
	assert.InDelta(t, 1.75, v.At(0, 0), 1.e-15)

	c := v.Clone()
	c.Set(0, 0, -1.)
	assert.NotEqual(t, c.At(0, 0), v.At(0, 0))

	mismatch := NewMulti(3, 3, 0)
	assert.Panics(t, func() { v.Sadd(1, 1, mismatch) })
	assert.Panics(t, func() { v.CopyFrom(mismatch) })
}
