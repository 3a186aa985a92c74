// Package closuresignaler provides a monotonic close-once signal.
//
// It is used as the quit flag of the threaded engine: it may be observed
// both by polling (IsClosed) and by waiting (CloseChan), and once closed it
// never reopens.
package closuresignaler

import (
	"context"
	"sync"

	"github.com/xaionaro-go/threadcodec/logger"
)

type ClosureSignaler struct {
	closeOnce sync.Once
	c         chan struct{}
}

func New() *ClosureSignaler {
	return &ClosureSignaler{
		c: make(chan struct{}),
	}
}

// CloseChan returns a channel which is closed when the signaler is closed.
func (c *ClosureSignaler) CloseChan() <-chan struct{} {
	return c.c
}

// Close closes the signaler; returns true only for the call that actually
// closed it.
func (c *ClosureSignaler) Close(ctx context.Context) bool {
	closed := false
	c.closeOnce.Do(func() {
		logger.Debugf(ctx, "closing the signaler")
		close(c.c)
		closed = true
	})
	return closed
}

func (c *ClosureSignaler) IsClosed() bool {
	select {
	case <-c.c:
		return true
	default:
		return false
	}
}
