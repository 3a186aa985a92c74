package pool

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestPoolAccounting(t *testing.T) {
	type item struct {
		Value int
	}
	p := NewPool(
		func() *item { return &item{} },
		func(i *item) { i.Value = 0 },
	)

	a := p.Get()
	b := p.Get()
	a.Value, b.Value = 1, 2
	require.Equal(t, int64(2), p.Outstanding())
	require.LessOrEqual(t, uint64(2), p.Allocated())

	p.Put(a, b)
	require.Equal(t, int64(0), p.Outstanding())

	c := p.Get()
	require.Zero(t, c.Value)
	p.Put(c)
	require.Equal(t, int64(0), p.Outstanding())
}
