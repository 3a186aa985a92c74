package codec

import (
	"context"

	"github.com/xaionaro-go/threadcodec/buffer"
)

// Processor is the synchronous, single-call codec contract.
type Processor interface {
	Init(ctx context.Context) error
	Process(ctx context.Context, input, output, extraOutput *buffer.Buffer) error
}

// Transform is the codec-specific logic driven by an asynchronous engine.
//
// ProcessOne and ProcessOutput are never called concurrently with
// themselves, but they are called concurrently with each other (one from the
// input loop, the other from the output loop). Both must return in a bounded
// time, and should return early when ctx is cancelled.
type Transform interface {
	// Init performs the one-time setup.
	Init(ctx context.Context) error

	// ProcessOne consumes input. It returns nil if the input was consumed,
	// ErrBusy if the same input must be resubmitted later, and any other
	// error if the transform failed irrecoverably.
	//
	// The engine drops its reference to input after a nil result;
	// the transform must Ref the buffer to keep it.
	ProcessOne(ctx context.Context, input *buffer.Buffer) error

	// ProcessOutput fills output and/or extraOutput in place. The validity
	// of each buffer after the call tells what was actually filled; nil and
	// ErrBusy both mean "call again", anything else is fatal.
	ProcessOutput(ctx context.Context, output, extraOutput *buffer.Buffer) error

	// GenEmptyOutputBuffer returns a fresh empty output buffer, or nil if
	// out of memory.
	GenEmptyOutputBuffer(ctx context.Context) *buffer.Buffer
}
