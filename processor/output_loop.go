package processor

import (
	"context"
	"time"

	"github.com/xaionaro-go/threadcodec/buffer"
	"github.com/xaionaro-go/threadcodec/codec"
	"github.com/xaionaro-go/threadcodec/logger"
)

// outputLoop keeps asking the transform for outputs and queues them.
//
// The primary and the extra output buffers are cached independently:
// a buffer the transform did not fill is resubmitted on the next round
// instead of requesting a fresh one, so each of the two streams advances
// at its own pace.
func (t *Threaded) outputLoop(ctx context.Context) (_err error) {
	logger.Debugf(ctx, "outputLoop")
	defer func() { logger.Debugf(ctx, "/outputLoop: %v", _err) }()

	var cachedOutput, cachedExtraOutput *buffer.Buffer
	defer func() {
		cachedOutput.Release()
		cachedExtraOutput.Release()
	}()

	for !t.shouldExit(ctx) {
		if cachedOutput == nil {
			cachedOutput = t.Transform.GenEmptyOutputBuffer(ctx)
			if cachedOutput == nil {
				return t.loopFailed(ctx, LoopIDOutput, codec.ErrOutOfMemory{})
			}
		}
		if cachedExtraOutput == nil {
			cachedExtraOutput = t.Transform.GenEmptyOutputBuffer(ctx)
			if cachedExtraOutput == nil {
				return t.loopFailed(ctx, LoopIDOutput, codec.ErrOutOfMemory{})
			}
		}
		output, extraOutput := cachedOutput, cachedExtraOutput

		err := t.Transform.ProcessOutput(ctx, output, extraOutput)
		logger.Tracef(ctx, "ProcessOutput(%s, %s): %v", output, extraOutput, err)
		status := codec.StatusOf(err)
		if status == codec.StatusFatal {
			return t.loopFailed(ctx, LoopIDOutput, err)
		}

		var entries []queueEntry
		if output.IsValid() {
			cachedOutput = nil
			t.CountersStorage.Output.Generated.Increment(uint64(output.Size()))
			entries = append(entries, queueEntry{List: outputListPrimary, Buffer: output})
		} else {
			t.CountersStorage.Output.Partial.Increment(0)
		}
		if extraOutput.IsValid() {
			cachedExtraOutput = nil
			extraOutput.SetExtra(true)
			t.CountersStorage.Output.ExtraGenerated.Increment(uint64(extraOutput.Size()))
			entries = append(entries, queueEntry{List: outputListExtra, Buffer: extraOutput})
		}

		if len(entries) == 0 {
			if status == codec.StatusBusy {
				t.busyBackoff(ctx)
			}
			continue
		}
		t.CountersStorage.LastOutputAt.Store(time.Now())
		t.output.push(ctx, false, entries...)
	}
	return nil
}
