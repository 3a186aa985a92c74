// Package pool provides a generic recycling object pool with allocation
// accounting.
package pool

import (
	"sync"
	"sync/atomic"
)

// ReuseMemory disables the recycling if set to false (every Get allocates),
// which is handy to catch use-after-release bugs with the race detector.
var ReuseMemory = true

type Pool[T any] struct {
	sync.Pool
	ResetFunc func(*T)

	allocated atomic.Uint64
	acquired  atomic.Uint64
	returned  atomic.Uint64
}

func NewPool[T any](
	allocFunc func() *T,
	resetFunc func(*T),
) *Pool[T] {
	p := &Pool[T]{
		ResetFunc: resetFunc,
	}
	p.Pool.New = func() any {
		p.allocated.Add(1)
		return allocFunc()
	}
	return p
}

func (p *Pool[T]) Get() *T {
	p.acquired.Add(1)
	if !ReuseMemory {
		return p.Pool.New().(*T)
	}
	return p.Pool.Get().(*T)
}

func (p *Pool[T]) Put(items ...*T) {
	for _, item := range items {
		p.returned.Add(1)
		if !ReuseMemory {
			continue
		}
		if p.ResetFunc != nil {
			p.ResetFunc(item)
		}
		p.Pool.Put(item)
	}
}

// Outstanding returns how many objects were taken by Get and not yet
// returned by Put.
func (p *Pool[T]) Outstanding() int64 {
	return int64(p.acquired.Load()) - int64(p.returned.Load())
}

// Allocated returns how many objects were allocated since the pool creation.
func (p *Pool[T]) Allocated() uint64 {
	return p.allocated.Load()
}
