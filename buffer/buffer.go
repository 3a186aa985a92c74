// Package buffer implements the reference-counted media buffer handle that
// flows through the threaded codec engine.
package buffer

import (
	"context"
	"fmt"
	"sync/atomic"

	"github.com/xaionaro-go/threadcodec/internal"
)

// Buffer is a shared-ownership handle to a data region.
//
// A freshly created Buffer carries a single reference owned by its creator.
// Every owner must eventually call Release exactly once per reference it
// holds; the last Release returns the storage to where it came from.
// Passing a Buffer into a queue passes the reference along with it.
type Buffer struct {
	data    []byte
	size    int
	isExtra bool

	// PTS is an opaque presentation timestamp carried along with the payload.
	PTS int64

	refs      atomic.Int64
	onRelease func(*Buffer)
}

// New returns an empty (invalid) buffer with the given storage capacity.
func New(capacity int) *Buffer {
	b := &Buffer{}
	if capacity > 0 {
		b.data = make([]byte, capacity)
	}
	b.refs.Store(1)
	return b
}

// Wrap returns a buffer whose payload is data; data is not copied and
// must not be used by the caller anymore.
func Wrap(data []byte) *Buffer {
	b := &Buffer{
		data: data,
		size: len(data),
	}
	b.refs.Store(1)
	return b
}

// IsValid returns true if the buffer carries a payload of a non-zero size.
func (b *Buffer) IsValid() bool {
	return b != nil && b.size > 0
}

// IsExtra returns true if the buffer belongs to the secondary output stream
// (for example parameter sets rather than the payload).
func (b *Buffer) IsExtra() bool {
	return b.isExtra
}

func (b *Buffer) SetExtra(isExtra bool) {
	b.isExtra = isExtra
}

// Bytes returns the payload.
func (b *Buffer) Bytes() []byte {
	return b.data[:b.size]
}

// Size returns the payload size.
func (b *Buffer) Size() int {
	return b.size
}

// Cap returns the storage capacity.
func (b *Buffer) Cap() int {
	return len(b.data)
}

// Storage returns the whole storage, to be filled in place and then
// committed with SetValidSize.
func (b *Buffer) Storage() []byte {
	return b.data
}

// SetValidSize marks the first size bytes of the storage as the payload.
func (b *Buffer) SetValidSize(size int) error {
	if size < 0 || size > len(b.data) {
		return fmt.Errorf("size %d is out of the storage range [0, %d]", size, len(b.data))
	}
	b.size = size
	return nil
}

// SetPayload copies payload into the buffer, growing the storage if needed.
func (b *Buffer) SetPayload(payload []byte) {
	if len(payload) > len(b.data) {
		b.data = make([]byte, len(payload))
	}
	b.size = copy(b.data, payload)
}

// Reset makes the buffer empty again, keeping the storage.
func (b *Buffer) Reset() {
	b.size = 0
	b.isExtra = false
	b.PTS = 0
}

// Ref adds a reference and returns the same buffer.
func (b *Buffer) Ref() *Buffer {
	refs := b.refs.Add(1)
	internal.Assert(context.TODO(), refs > 1, "Ref on a released buffer", refs)
	return b
}

// Release drops a reference; the last one releases the storage.
func (b *Buffer) Release() {
	if b == nil {
		return
	}
	refs := b.refs.Add(-1)
	internal.Assert(context.TODO(), refs >= 0, "buffer released more times than referenced", refs)
	if refs != 0 {
		return
	}
	if b.onRelease != nil {
		b.onRelease(b)
	}
}

// Refs returns the current amount of references.
func (b *Buffer) Refs() int64 {
	return b.refs.Load()
}

func (b *Buffer) String() string {
	if b == nil {
		return "<nil>"
	}
	kind := "primary"
	if b.isExtra {
		kind = "extra"
	}
	return fmt.Sprintf("Buffer(%s, size:%d/%d, pts:%d, refs:%d)", kind, b.size, len(b.data), b.PTS, b.refs.Load())
}
