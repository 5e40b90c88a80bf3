package catalog

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDispatch(t *testing.T) {
	c := New()
	opt := DefaultEquationOptions()
	for _, name := range c.Names() {
		dim := 1
		desc := c.Dispatch(name, dim, opt)
		require.NotNil(t, desc, name)
		assert.Equal(t, name, desc.Name())
		assert.Equal(t, dim, desc.Dim())
		assert.Greater(t, desc.NComponents(), 0)
		assert.GreaterOrEqual(t, desc.NPrecomputationCycles(), 1)
	}
}

func TestDispatchRejectsUnknown(t *testing.T) {
	c := New()
	opt := DefaultEquationOptions()
	assert.Panics(t, func() { c.Dispatch("magnetohydrodynamics", 1, opt) })
	assert.Panics(t, func() { c.Dispatch("euler", 0, opt) })
	assert.Panics(t, func() { c.Dispatch("euler", 4, opt) })
}
