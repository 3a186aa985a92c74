// Package passthrough implements a reference codec.Transform: it copies
// every consumed input payload to the primary output stream, and emits the
// codec extra data on the extra stream every N outputs.
package passthrough

import (
	"context"
	"fmt"
	"time"

	"github.com/xaionaro-go/threadcodec/buffer"
	"github.com/xaionaro-go/threadcodec/codec"
	"github.com/xaionaro-go/threadcodec/extradata"
	"github.com/xaionaro-go/threadcodec/logger"
	"github.com/xaionaro-go/xsync"
)

const (
	DefaultDepth        = 8
	DefaultPollInterval = 10 * time.Millisecond
)

type Config struct {
	// Depth is how many consumed inputs may wait for ProcessOutput before
	// ProcessOne starts reporting busy.
	Depth uint `yaml:"depth"`

	// ExtraEvery makes every ExtraEvery-th output also produce the extra
	// data on the extra stream; zero disables it.
	ExtraEvery uint `yaml:"extra_every"`

	// OutputCapacity is the storage capacity of the pooled output buffers.
	OutputCapacity int `yaml:"output_capacity"`

	// PollInterval bounds how long ProcessOutput waits for an input.
	PollInterval time.Duration `yaml:"poll_interval"`
}

func (cfg Config) withDefaults() Config {
	if cfg.Depth == 0 {
		cfg.Depth = DefaultDepth
	}
	if cfg.PollInterval <= 0 {
		cfg.PollInterval = DefaultPollInterval
	}
	return cfg
}

type Passthrough struct {
	*codec.Codec
	Config Config

	locker       xsync.Mutex
	pending      chan *buffer.Buffer
	outputPool   *buffer.Pool
	outputsCount uint
}

var _ codec.Transform = (*Passthrough)(nil)

func New(
	cfg Config,
	allocator extradata.Allocator,
) *Passthrough {
	cfg = cfg.withDefaults()
	return &Passthrough{
		Codec:      codec.NewCodec(allocator),
		Config:     cfg,
		outputPool: buffer.NewPool(cfg.OutputCapacity),
	}
}

func (p *Passthrough) String() string {
	return "Passthrough"
}

func (p *Passthrough) Init(ctx context.Context) (_err error) {
	logger.Debugf(ctx, "Init")
	defer func() { logger.Debugf(ctx, "/Init: %v", _err) }()
	return xsync.DoR1(ctx, &p.locker, func() error {
		if p.pending != nil {
			return fmt.Errorf("already initialized")
		}
		p.pending = make(chan *buffer.Buffer, p.Config.Depth)
		return nil
	})
}

func (p *Passthrough) pendingChan(ctx context.Context) chan *buffer.Buffer {
	return xsync.DoR1(xsync.WithNoLogging(ctx, true), &p.locker, func() chan *buffer.Buffer {
		return p.pending
	})
}

// ProcessOne keeps a reference to input until ProcessOutput copies it.
func (p *Passthrough) ProcessOne(
	ctx context.Context,
	input *buffer.Buffer,
) error {
	pending := p.pendingChan(ctx)
	if pending == nil {
		return fmt.Errorf("not initialized")
	}
	// ProcessOne is the only sender, so the free slot cannot be taken
	// between the check and the send
	if len(pending) == cap(pending) {
		return codec.ErrBusy{Reason: "the output side is behind"}
	}
	pending <- input.Ref()
	return nil
}

func (p *Passthrough) ProcessOutput(
	ctx context.Context,
	output, extraOutput *buffer.Buffer,
) error {
	pending := p.pendingChan(ctx)
	if pending == nil {
		return fmt.Errorf("not initialized")
	}

	timer := time.NewTimer(p.Config.PollInterval)
	defer timer.Stop()
	var input *buffer.Buffer
	select {
	case <-ctx.Done():
		return codec.ErrBusy{Reason: ctx.Err().Error()}
	case <-timer.C:
		return codec.ErrBusy{Reason: "no input"}
	case input = <-pending:
	}
	defer input.Release()

	output.SetPayload(input.Bytes())
	output.PTS = input.PTS

	p.outputsCount++
	if p.Config.ExtraEvery == 0 || p.outputsCount%p.Config.ExtraEvery != 0 {
		return nil
	}
	extraData := p.ExtraData(ctx)
	if len(extraData) == 0 {
		logger.Tracef(ctx, "output #%d: no extra data is set", p.outputsCount)
		return nil
	}
	extraOutput.SetPayload(extraData)
	extraOutput.PTS = input.PTS
	return nil
}

func (p *Passthrough) GenEmptyOutputBuffer(ctx context.Context) *buffer.Buffer {
	return p.outputPool.Get()
}

// OutstandingOutputs returns how many pooled output buffers are not yet
// released.
func (p *Passthrough) OutstandingOutputs() int64 {
	return p.outputPool.Outstanding()
}

// Close releases the inputs not yet copied to outputs and the extra data.
func (p *Passthrough) Close(ctx context.Context) error {
	pending := p.pendingChan(ctx)
	if pending != nil {
	loop:
		for {
			select {
			case input := <-pending:
				input.Release()
			default:
				break loop
			}
		}
	}
	return p.Codec.Close(ctx)
}
