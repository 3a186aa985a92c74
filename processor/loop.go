package processor

import (
	"context"
	"fmt"
	"time"

	"github.com/davecgh/go-spew/spew"
	"github.com/facebookincubator/go-belt/tool/experimental/errmon"
	"github.com/xaionaro-go/threadcodec/logger"
)

type LoopID int

const (
	LoopIDUndefined = LoopID(iota)
	LoopIDInput
	LoopIDOutput
)

func (id LoopID) String() string {
	switch id {
	case LoopIDUndefined:
		return "undefined"
	case LoopIDInput:
		return "input"
	case LoopIDOutput:
		return "output"
	default:
		return fmt.Sprintf("unknown_loop_%d", int(id))
	}
}

// shouldExit is checked by the loops at every iteration.
func (t *Threaded) shouldExit(ctx context.Context) bool {
	return t.quit.IsClosed() || ctx.Err() != nil
}

// busyBackoff waits for the configured busy backoff, or until quitting.
func (t *Threaded) busyBackoff(ctx context.Context) {
	if t.config.BusyBackoff <= 0 {
		return
	}
	timer := time.NewTimer(t.config.BusyBackoff)
	defer timer.Stop()
	select {
	case <-ctx.Done():
	case <-t.quit.CloseChan():
	case <-timer.C:
	}
}

// loopFailed reports an irrecoverable failure of a loop and returns
// the error the loop should exit with.
func (t *Threaded) loopFailed(
	ctx context.Context,
	loopID LoopID,
	err error,
) error {
	err = ErrLoopFailed{Loop: loopID, Err: err}
	logger.Errorf(ctx, "%v", err)
	logger.Tracef(ctx, "statistics at the moment of the failure: %s", spew.Sdump(t.GetStatistics()))
	errmon.ObserveErrorCtx(ctx, err)
	select {
	case t.errCh <- err:
	default:
		logger.Errorf(ctx, "the error queue is full, dropping: %v", err)
	}
	if t.config.PropagateFatal {
		logger.Debugf(ctx, "propagating the failure of the %s loop to the whole engine", loopID)
		t.beginQuitting(ctx)
	}
	return err
}
