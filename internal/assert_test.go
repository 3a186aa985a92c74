package internal

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestAssert(t *testing.T) {
	ctx := context.Background()
	require.NotPanics(t, func() { Assert(ctx, true) })
	require.Panics(t, func() { Assert(ctx, false, "some", "details") })
}
