// Package codec defines the codec contracts (the synchronous Processor and
// the asynchronous Transform) and the Codec base implementing their common
// parts: the extra data storage and the default empty output buffer.
package codec

import (
	"bytes"
	"context"
	"fmt"

	"github.com/xaionaro-go/threadcodec/buffer"
	"github.com/xaionaro-go/threadcodec/extradata"
	"github.com/xaionaro-go/threadcodec/logger"
	"github.com/xaionaro-go/xsync"
)

// Codec is the base to be embedded by concrete codecs. The zero value is
// ready to use.
//
// The Init and Process methods are placeholders returning ErrNotImplemented;
// concrete codecs override them.
type Codec struct {
	locker    xsync.Mutex
	extraData extradata.Blob
}

var _ Processor = (*Codec)(nil)

// NewCodec returns a Codec taking the extra data memory from allocator
// (nil means the Go heap).
func NewCodec(allocator extradata.Allocator) *Codec {
	return &Codec{
		extraData: extradata.Blob{Allocator: allocator},
	}
}

func (c *Codec) Init(ctx context.Context) error {
	return ErrNotImplemented{Err: fmt.Errorf("%T does not implement Init", c)}
}

func (c *Codec) Process(
	ctx context.Context,
	input, output, extraOutput *buffer.Buffer,
) error {
	return ErrNotImplemented{Err: fmt.Errorf("%T does not implement Process", c)}
}

// GenEmptyOutputBuffer returns a fresh empty buffer; its storage grows on
// the first SetPayload.
func (c *Codec) GenEmptyOutputBuffer(ctx context.Context) *buffer.Buffer {
	return buffer.New(0)
}

func lockCtx(ctx context.Context) context.Context {
	return xsync.WithNoLogging(context.WithoutCancel(ctx), true)
}

// SetExtraData replaces the extra data; see extradata.Blob.Set for the
// ownership semantics of copyData.
func (c *Codec) SetExtraData(
	ctx context.Context,
	data []byte,
	copyData bool,
) (_err error) {
	logger.Debugf(ctx, "SetExtraData(size:%d, copy:%t)", len(data), copyData)
	defer func() { logger.Debugf(ctx, "/SetExtraData: %v", _err) }()
	return xsync.DoR1(lockCtx(ctx), &c.locker, func() error {
		err := c.extraData.Set(data, copyData)
		if err != nil {
			return fmt.Errorf("unable to set the extra data: %w", err)
		}
		return nil
	})
}

// ExtraData returns a copy of the extra data (nil if unset).
func (c *Codec) ExtraData(ctx context.Context) extradata.Raw {
	return xsync.DoR1(lockCtx(ctx), &c.locker, func() extradata.Raw {
		if c.extraData.Len() == 0 {
			return nil
		}
		return bytes.Clone(c.extraData.Bytes())
	})
}

func (c *Codec) ExtraDataSize(ctx context.Context) int {
	return xsync.DoR1(lockCtx(ctx), &c.locker, c.extraData.Len)
}

// Close releases the extra data.
func (c *Codec) Close(ctx context.Context) error {
	logger.Debugf(ctx, "Close")
	defer logger.Debugf(ctx, "/Close")
	c.locker.Do(lockCtx(ctx), func() {
		c.extraData.Release()
	})
	return nil
}
