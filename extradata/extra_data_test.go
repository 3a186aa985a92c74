package extradata

import (
	"testing"

	"github.com/stretchr/testify/require"
)

type countingAllocator struct {
	Allocs    int
	Frees     int
	FreedPtrs map[*byte]int
	Fail      bool
}

func (a *countingAllocator) Alloc(size int) []byte {
	if a.Fail {
		return nil
	}
	a.Allocs++
	return make([]byte, size)
}

func (a *countingAllocator) Free(b []byte) {
	a.Frees++
	if a.FreedPtrs == nil {
		a.FreedPtrs = map[*byte]int{}
	}
	a.FreedPtrs[&b[0]]++
}

func TestBlobCopyLeavesCallerMemoryUntouched(t *testing.T) {
	alloc := &countingAllocator{}
	blob := Blob{Allocator: alloc}

	src := []byte{0x01, 0x02, 0x03}
	require.NoError(t, blob.Set(src, true))
	require.Equal(t, 1, alloc.Allocs)
	require.Equal(t, Raw{0x01, 0x02, 0x03}, blob.Bytes())

	src[0] = 0xff
	require.Equal(t, byte(0x01), blob.Bytes()[0])
	require.NotSame(t, &src[0], &blob.Bytes()[0])

	blob.Release()
	require.Equal(t, 1, alloc.Frees)
	require.Zero(t, alloc.FreedPtrs[&src[0]])
	require.Nil(t, blob.Bytes())
	require.Zero(t, blob.Len())
}

func TestBlobTransferOwnership(t *testing.T) {
	alloc := &countingAllocator{}
	blob := Blob{Allocator: alloc}

	data := []byte{0xaa, 0xbb}
	require.NoError(t, blob.Set(data, false))
	require.Zero(t, alloc.Allocs)
	require.Same(t, &data[0], &blob.Bytes()[0])

	blob.Release()
	require.Equal(t, 1, alloc.FreedPtrs[&data[0]])
}

func TestBlobReplaceReleasesOldExactlyOnce(t *testing.T) {
	alloc := &countingAllocator{}
	blob := Blob{Allocator: alloc}

	first := []byte{1}
	second := []byte{2, 2}
	require.NoError(t, blob.Set(first, false))
	require.NoError(t, blob.Set(second, false))
	require.Equal(t, 1, alloc.FreedPtrs[&first[0]])
	require.Zero(t, alloc.FreedPtrs[&second[0]])

	require.NoError(t, blob.Set([]byte{3, 3, 3}, true))
	require.Equal(t, 1, alloc.FreedPtrs[&second[0]])

	blob.Release()
	blob.Release()
	require.Equal(t, 3, alloc.Frees)
	require.Equal(t, alloc.Allocs+2, alloc.Frees)
}

func TestBlobEdgeCases(t *testing.T) {
	alloc := &countingAllocator{}
	blob := Blob{Allocator: alloc}

	require.ErrorAs(t, blob.Set(nil, true), &ErrEmpty{})
	require.NoError(t, blob.Set(nil, false))
	require.Nil(t, blob.Bytes())
	require.NoError(t, blob.Set([]byte{}, false))
	require.Nil(t, blob.Bytes())
	require.Zero(t, alloc.Frees)

	require.NoError(t, blob.Set([]byte{9}, true))
	alloc.Fail = true
	err := blob.Set([]byte{1, 2, 3}, true)
	require.ErrorAs(t, err, &ErrOutOfMemory{})
	require.Nil(t, blob.Bytes())
	require.Equal(t, 1, alloc.Frees)

	require.Equal(t, "<empty>", blob.String())
}
