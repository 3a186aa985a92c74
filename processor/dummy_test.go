// dummy_test.go contains a scriptable transform for the engine tests.

package processor

import (
	"context"
	"sync/atomic"
	"time"

	"github.com/xaionaro-go/threadcodec/buffer"
	"github.com/xaionaro-go/threadcodec/codec"
)

type Dummy struct {
	InitFn        func(ctx context.Context) error
	InitCallCount atomic.Int64

	ProcessOneFn        func(ctx context.Context, input *buffer.Buffer) error
	ProcessOneCallCount atomic.Int64

	ProcessOutputFn        func(ctx context.Context, output, extraOutput *buffer.Buffer) error
	ProcessOutputCallCount atomic.Int64

	GenEmptyOutputBufferFn        func(ctx context.Context) *buffer.Buffer
	GenEmptyOutputBufferCallCount atomic.Int64
}

var _ codec.Transform = (*Dummy)(nil)

func (d *Dummy) String() string {
	return "Dummy"
}

func (d *Dummy) Init(ctx context.Context) error {
	d.InitCallCount.Add(1)
	if d.InitFn == nil {
		return nil
	}
	return d.InitFn(ctx)
}

func (d *Dummy) ProcessOne(ctx context.Context, input *buffer.Buffer) error {
	d.ProcessOneCallCount.Add(1)
	if d.ProcessOneFn == nil {
		return nil
	}
	return d.ProcessOneFn(ctx, input)
}

func (d *Dummy) ProcessOutput(ctx context.Context, output, extraOutput *buffer.Buffer) error {
	d.ProcessOutputCallCount.Add(1)
	if d.ProcessOutputFn == nil {
		return idle(ctx)
	}
	return d.ProcessOutputFn(ctx, output, extraOutput)
}

func (d *Dummy) GenEmptyOutputBuffer(ctx context.Context) *buffer.Buffer {
	d.GenEmptyOutputBufferCallCount.Add(1)
	if d.GenEmptyOutputBufferFn == nil {
		return buffer.New(0)
	}
	return d.GenEmptyOutputBufferFn(ctx)
}

// idle is what a transform with nothing to output does: it waits a bit
// (or until cancelled) and reports busy.
func idle(ctx context.Context) error {
	select {
	case <-ctx.Done():
	case <-time.After(time.Millisecond):
	}
	return codec.ErrBusy{Reason: "nothing to output"}
}
