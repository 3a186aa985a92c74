package processor

import (
	"context"
	"time"

	"github.com/xaionaro-go/threadcodec/buffer"
	"github.com/xaionaro-go/threadcodec/codec"
	"github.com/xaionaro-go/threadcodec/logger"
)

// inputLoop feeds the queued inputs to the transform one by one.
//
// At most one input is pending at a time: an input the transform was busy
// for is resubmitted before anything else is taken from the queue.
func (t *Threaded) inputLoop(ctx context.Context) (_err error) {
	logger.Debugf(ctx, "inputLoop")
	defer func() { logger.Debugf(ctx, "/inputLoop: %v", _err) }()

	var pending *buffer.Buffer
	defer func() {
		pending.Release()
	}()

	for !t.shouldExit(ctx) {
		input := pending
		if input == nil {
			input = t.input.pop(ctx, inputListPrimary, true)
			if input == nil {
				continue
			}
		}

		err := t.Transform.ProcessOne(ctx, input)
		logger.Tracef(ctx, "ProcessOne(%s): %v", input, err)
		switch codec.StatusOf(err) {
		case codec.StatusOK:
			t.CountersStorage.Input.Consumed.Increment(uint64(input.Size()))
			t.CountersStorage.LastInputAt.Store(time.Now())
			pending = nil
			input.Release()
		case codec.StatusBusy:
			t.CountersStorage.Input.BusyRetries.Increment(uint64(input.Size()))
			pending = input
			t.busyBackoff(ctx)
		default:
			pending = input
			return t.loopFailed(ctx, LoopIDInput, err)
		}
	}
	return nil
}
