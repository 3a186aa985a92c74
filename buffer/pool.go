package buffer

import (
	"github.com/xaionaro-go/threadcodec/pool"
)

// Pool recycles buffers of a fixed initial capacity.
type Pool struct {
	pool *pool.Pool[Buffer]
}

func NewPool(capacity int) *Pool {
	p := &Pool{}
	p.pool = pool.NewPool(
		func() *Buffer {
			b := New(capacity)
			b.onRelease = p.put
			return b
		},
		func(b *Buffer) {
			b.Reset()
		},
	)
	return p
}

// Get returns an empty buffer holding a single reference; the buffer
// goes back to the pool on its last Release.
func (p *Pool) Get() *Buffer {
	b := p.pool.Get()
	b.refs.Store(1)
	return b
}

func (p *Pool) put(b *Buffer) {
	p.pool.Put(b)
}

// Outstanding returns how many buffers are currently referenced by somebody.
func (p *Pool) Outstanding() int64 {
	return p.pool.Outstanding()
}
