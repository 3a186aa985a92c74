// Package extradata implements the exclusively-owned codec configuration
// blob (the "extra data" of a codec, e.g. parameter sets).
package extradata

import (
	"bytes"
	"fmt"
)

type Raw []byte

func (b Raw) Equal(cmp Raw) bool {
	return bytes.Equal(b, cmp)
}

func (b Raw) String() string {
	if len(b) == 0 {
		return "<empty>"
	}
	return fmt.Sprintf("<raw, size:%d, head:%X>", len(b), b[:min(len(b), 8)])
}

// Allocator is where Blob takes memory from and returns it to.
type Allocator interface {
	// Alloc returns a slice of the given length, or nil if out of memory.
	Alloc(size int) []byte
	Free([]byte)
}

// HeapAllocator allocates on the Go heap; Free is a no-op.
type HeapAllocator struct{}

var _ Allocator = HeapAllocator{}

func (HeapAllocator) Alloc(size int) []byte {
	return make([]byte, size)
}

func (HeapAllocator) Free([]byte) {}

// Blob is an exclusively-owned byte buffer.
//
// Invariant: Bytes() is nil iff Len() is zero.
//
// Blob is not safe for concurrent use; the owner serializes access.
type Blob struct {
	Allocator Allocator
	raw       Raw
}

func (b *Blob) allocator() Allocator {
	if b.Allocator == nil {
		return HeapAllocator{}
	}
	return b.Allocator
}

// Set replaces the content of the blob, releasing the previous one first.
//
// If copyData is false the blob takes ownership of data directly (it will be
// returned to the Allocator on replacement or Release).
// If copyData is true the blob allocates its own memory and copies data into
// it, leaving the caller's memory untouched; empty data is rejected then.
func (b *Blob) Set(data []byte, copyData bool) error {
	b.Release()
	if !copyData {
		if len(data) > 0 {
			b.raw = data
		}
		return nil
	}
	if len(data) == 0 {
		return ErrEmpty{}
	}
	buf := b.allocator().Alloc(len(data))
	if buf == nil {
		return ErrOutOfMemory{Size: len(data)}
	}
	b.raw = buf[:copy(buf, data)]
	return nil
}

// Release frees the blob; it is safe to call on an empty blob.
func (b *Blob) Release() {
	if b.raw == nil {
		return
	}
	b.allocator().Free(b.raw)
	b.raw = nil
}

// Bytes returns the content of the blob; it remains owned by the blob.
func (b *Blob) Bytes() Raw {
	return b.raw
}

func (b *Blob) Len() int {
	return len(b.raw)
}

func (b *Blob) String() string {
	return b.raw.String()
}
