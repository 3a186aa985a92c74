// Package processor implements Threaded: the engine turning a blocking,
// stateful codec.Transform into a non-blocking pipeline with two independent
// loops, one feeding inputs to the transform and one collecting its outputs.
package processor

import (
	"context"
	"fmt"
	"sync"

	"github.com/asticode/go-astikit"
	"github.com/facebookincubator/go-belt"
	"github.com/xaionaro-go/observability"
	"github.com/xaionaro-go/threadcodec/buffer"
	"github.com/xaionaro-go/threadcodec/codec"
	"github.com/xaionaro-go/threadcodec/helpers/closuresignaler"
	"github.com/xaionaro-go/threadcodec/logger"
	"github.com/xaionaro-go/threadcodec/processor/types"
	globaltypes "github.com/xaionaro-go/threadcodec/types"
	"github.com/xaionaro-go/xsync"
)

const (
	inputListPrimary = iota
	inputListCount
)

const (
	outputListPrimary = iota
	outputListExtra
	outputListCount
)

type Threaded struct {
	Transform       codec.Transform
	CountersStorage *Counters

	config config

	locker xsync.Mutex
	state  State

	quit   *closuresignaler.ClosureSignaler
	input  *queueGroup
	output *queueGroup

	launchLoop  func(ctx context.Context, loopID LoopID, loop func(context.Context) error) error
	cancelLoops context.CancelFunc
	loopsWG     sync.WaitGroup
	errCh       chan error

	closeOnce sync.Once
	closer    *astikit.Closer
}

var _ codec.Processor = (*Threaded)(nil)

// New returns an engine in StateCreated; call Init to start it.
func New(
	transform codec.Transform,
	opts ...Option,
) *Threaded {
	cfg := Options(opts).config()
	quit := closuresignaler.New()
	t := &Threaded{
		Transform:       transform,
		CountersStorage: types.NewCounters(),
		config:          cfg,
		state:           StateCreated,
		quit:            quit,
		input:           newQueueGroup(quit, inputListCount),
		output:          newQueueGroup(quit, outputListCount),
		errCh:           make(chan error, cfg.ErrorQueue),
		closer:          astikit.NewCloser(),
	}
	t.launchLoop = t.startLoop
	t.closer.Add(func() {
		// the buffers may be touched by the loops until they exit, and
		// the loops may publish errors until then
		t.stopLoops()
		t.releaseQueued(context.Background())
		close(t.errCh)
	})
	return t
}

func (t *Threaded) String() string {
	if s, ok := t.Transform.(fmt.Stringer); ok {
		return fmt.Sprintf("Threaded(%s%s)", t.config.Name, s.String())
	}
	return fmt.Sprintf("Threaded(%s%T)", t.config.Name, t.Transform)
}

func (t *Threaded) ctxWithFields(ctx context.Context) context.Context {
	ctx = belt.WithField(ctx, "engine", t.String())
	return belt.WithField(ctx, "engine_id", globaltypes.GetObjectID(t))
}

// State returns the current lifecycle stage.
func (t *Threaded) State() State {
	return xsync.DoR1(lockCtx(context.TODO()), &t.locker, func() State {
		return t.state
	})
}

// setState moves the state forward; it never moves backwards.
func (t *Threaded) setState(
	ctx context.Context,
	state State,
) {
	t.locker.Do(lockCtx(ctx), func() {
		t.setStateLocked(ctx, state)
	})
}

func (t *Threaded) setStateLocked(
	ctx context.Context,
	state State,
) {
	if state <= t.state {
		return
	}
	logger.Debugf(ctx, "state: %s -> %s", t.state, state)
	t.state = state
}

// Init initializes the transform and starts both loops.
//
// The loops are bound to ctx: cancelling it makes the engine quit as if
// Close was called, except that the queues are released only by Close.
func (t *Threaded) Init(ctx context.Context) (_err error) {
	ctx = t.ctxWithFields(ctx)
	logger.Debugf(ctx, "Init")
	defer func() { logger.Debugf(ctx, "/Init: %v", _err) }()

	var (
		waitLoops bool
		err       error
	)
	t.locker.Do(lockCtx(ctx), func() {
		waitLoops, err = t.initLocked(ctx)
	})
	if waitLoops {
		// the started loops may need the lock to exit
		t.loopsWG.Wait()
		t.setState(ctx, StateStopped)
	}
	return err
}

// initLocked returns waitLoops == true if it failed after some loop
// was already started.
func (t *Threaded) initLocked(ctx context.Context) (waitLoops bool, _ error) {
	switch t.state {
	case StateCreated:
	case StateQuitting, StateStopped:
		return false, ErrClosed{}
	default:
		return false, ErrAlreadyInitialized{}
	}

	if err := t.Transform.Init(ctx); err != nil {
		t.quit.Close(ctx)
		t.setStateLocked(ctx, StateStopped)
		return false, fmt.Errorf("unable to initialize the transform: %w", err)
	}
	t.setStateLocked(ctx, StateInitialized)

	loopsCtx, cancelFn := context.WithCancel(ctx)
	t.cancelLoops = cancelFn

	if err := t.launchLoop(loopsCtx, LoopIDInput, t.inputLoop); err != nil {
		t.quit.Close(ctx)
		t.setStateLocked(ctx, StateStopped)
		return false, err
	}
	if err := t.launchLoop(loopsCtx, LoopIDOutput, t.outputLoop); err != nil {
		t.quit.Close(ctx)
		t.setStateLocked(ctx, StateQuitting)
		return true, err
	}

	t.setStateLocked(ctx, StateRunning)
	return false, nil
}

func (t *Threaded) startLoop(
	ctx context.Context,
	loopID LoopID,
	loop func(context.Context) error,
) error {
	if err := ctx.Err(); err != nil {
		return ErrUnableToStartLoop{Loop: loopID, Err: err}
	}
	ctx = belt.WithField(ctx, "loop", t.config.Name+loopID.String())
	t.loopsWG.Add(1)
	observability.Go(ctx, func(ctx context.Context) {
		defer t.loopsWG.Done()
		err := loop(ctx)
		logger.Debugf(ctx, "the %s loop exited: %v", loopID, err)
		if ctx.Err() != nil {
			t.beginQuitting(ctx)
		}
	})
	return nil
}

// beginQuitting closes the quit signal on behalf of a loop, so that the
// callers stop waiting for something the loops will never do.
func (t *Threaded) beginQuitting(ctx context.Context) {
	if !t.quit.Close(ctx) {
		return
	}
	logger.Debugf(ctx, "the engine stops on behalf of its loops")
	t.setState(ctx, StateQuitting)
}

// Close stops both loops, waits for them to exit, and releases all
// the buffers still queued. It is safe to call it multiple times.
func (t *Threaded) Close(ctx context.Context) (_err error) {
	ctx = t.ctxWithFields(ctx)
	logger.Debugf(ctx, "Close")
	defer func() { logger.Debugf(ctx, "/Close: %v", _err) }()
	t.closeOnce.Do(func() {
		t.setState(ctx, StateQuitting)
		// closing the signal also wakes up everybody waiting on the queues
		t.quit.Close(ctx)
		_err = t.closer.Close()
		t.setState(ctx, StateStopped)
	})
	return
}

func (t *Threaded) stopLoops() {
	cancelFn := xsync.DoR1(lockCtx(context.TODO()), &t.locker, func() context.CancelFunc {
		return t.cancelLoops
	})
	if cancelFn != nil {
		cancelFn()
	}
	t.loopsWG.Wait()
}

func (t *Threaded) releaseQueued(ctx context.Context) {
	for _, inputs := range t.input.drain(ctx) {
		for _, b := range inputs {
			t.CountersStorage.Input.Dropped.Increment(uint64(b.Size()))
			b.Release()
		}
	}
	for _, outputs := range t.output.drain(ctx) {
		for _, b := range outputs {
			t.CountersStorage.Output.Dropped.Increment(uint64(b.Size()))
			b.Release()
		}
	}
}

// IsQuitting returns true once Close was called (or the engine failed
// to initialize, or a fatal failure was propagated).
func (t *Threaded) IsQuitting() bool {
	return t.quit.IsClosed()
}

// SendInput queues input for the input loop and takes over the caller's
// reference. It never blocks.
//
// It returns false if the engine is quitting; the reference then stays
// with the caller.
func (t *Threaded) SendInput(
	ctx context.Context,
	input *buffer.Buffer,
) bool {
	if input == nil {
		return false
	}
	size := uint64(input.Size())
	if !t.input.push(ctx, true, queueEntry{List: inputListPrimary, Buffer: input}) {
		t.CountersStorage.Input.Rejected.Increment(size)
		return false
	}
	t.CountersStorage.Input.Received.Increment(size)
	return true
}

// GetOutput returns the next primary output, or nil.
//
// If the queue is empty and wait is set, it waits until an output is
// produced, the engine is closed, or ctx is done. The caller becomes the
// owner of the returned reference.
func (t *Threaded) GetOutput(
	ctx context.Context,
	wait bool,
) *buffer.Buffer {
	b := t.output.pop(ctx, outputListPrimary, wait)
	if b != nil {
		t.CountersStorage.Output.Delivered.Increment(uint64(b.Size()))
	}
	return b
}

// GetExtraOutput returns the next extra output, or nil if there is none.
// It never waits.
func (t *Threaded) GetExtraOutput(
	ctx context.Context,
) *buffer.Buffer {
	b := t.output.pop(ctx, outputListExtra, false)
	if b != nil {
		t.CountersStorage.Output.ExtraDelivered.Increment(uint64(b.Size()))
	}
	return b
}

// Process is the synchronous single-call interface; the threaded engine
// does not support it.
func (t *Threaded) Process(
	ctx context.Context,
	input, output, extraOutput *buffer.Buffer,
) error {
	return codec.ErrNotImplemented{Err: fmt.Errorf("%s is asynchronous, use SendInput and GetOutput", t)}
}

// ErrorChan returns the channel loop failures (ErrLoopFailed) are published
// to. It is closed once the engine is closed.
func (t *Threaded) ErrorChan() <-chan error {
	return t.errCh
}

func (t *Threaded) GetStatistics() Statistics {
	return t.CountersStorage.ToStatistics()
}

// QueueLengths returns the amount of queued inputs, primary outputs
// and extra outputs.
func (t *Threaded) QueueLengths(ctx context.Context) (inputs, outputs, extraOutputs int) {
	return t.input.length(ctx, inputListPrimary),
		t.output.length(ctx, outputListPrimary),
		t.output.length(ctx, outputListExtra)
}
