package passthrough

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/xaionaro-go/threadcodec/buffer"
	"github.com/xaionaro-go/threadcodec/codec"
	"github.com/xaionaro-go/threadcodec/processor"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func TestPassthroughBusyWhenFull(t *testing.T) {
	ctx := context.Background()
	p := New(Config{Depth: 1, PollInterval: time.Millisecond}, nil)
	require.Error(t, p.ProcessOne(ctx, buffer.Wrap([]byte("early"))))
	require.NoError(t, p.Init(ctx))
	defer p.Close(ctx)

	first := buffer.Wrap([]byte("first"))
	second := buffer.Wrap([]byte("second"))
	require.NoError(t, p.ProcessOne(ctx, first))
	require.Equal(t, int64(2), first.Refs())
	for range 3 {
		require.True(t, codec.IsBusy(p.ProcessOne(ctx, second)))
		require.Equal(t, int64(1), second.Refs(), "a refused input must not be kept")
	}

	out, extra := p.GenEmptyOutputBuffer(ctx), p.GenEmptyOutputBuffer(ctx)
	require.NoError(t, p.ProcessOutput(ctx, out, extra))
	require.Equal(t, "first", string(out.Bytes()))
	require.False(t, extra.IsValid())
	require.Equal(t, int64(1), first.Refs())

	require.True(t, codec.IsBusy(p.ProcessOutput(ctx, out, extra)))
	out.Release()
	extra.Release()
	require.Zero(t, p.OutstandingOutputs())
}

func TestPassthroughInThreadedEngine(t *testing.T) {
	ctx, cancelFn := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancelFn()

	p := New(Config{ExtraEvery: 3, Depth: 2, PollInterval: time.Millisecond}, nil)
	require.NoError(t, p.SetExtraData(ctx, []byte("SPS+PPS"), true))
	e := processor.New(p, processor.OptionName("passthrough_"))
	require.NoError(t, e.Init(ctx))

	for i, name := range []string{"A", "B", "C"} {
		b := buffer.Wrap([]byte(name))
		b.PTS = int64(i)
		require.True(t, e.SendInput(ctx, b))
	}

	for i, name := range []string{"A", "B", "C"} {
		out := e.GetOutput(ctx, true)
		require.NotNil(t, out)
		require.Equal(t, name, string(out.Bytes()))
		require.Equal(t, int64(i), out.PTS)
		out.Release()
	}

	var extra *buffer.Buffer
	require.Eventually(t, func() bool {
		extra = e.GetExtraOutput(ctx)
		return extra != nil
	}, time.Second, time.Millisecond)
	require.True(t, extra.IsExtra())
	require.Equal(t, "SPS+PPS", string(extra.Bytes()))
	require.Equal(t, int64(2), extra.PTS)
	extra.Release()
	require.Nil(t, e.GetExtraOutput(ctx))

	require.NoError(t, e.Close(ctx))
	require.NoError(t, p.Close(ctx))
	require.Zero(t, p.OutstandingOutputs())
	require.Zero(t, p.ExtraDataSize(ctx))

	stats := e.GetStatistics()
	require.Equal(t, uint64(3), stats.Input.Consumed.Count)
	require.Equal(t, uint64(3), stats.Output.Delivered.Count)
	require.Equal(t, uint64(1), stats.Output.ExtraDelivered.Count)
}
