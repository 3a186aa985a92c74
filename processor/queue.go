package processor

import (
	"context"

	"github.com/xaionaro-go/threadcodec/buffer"
	"github.com/xaionaro-go/threadcodec/helpers/closuresignaler"
	"github.com/xaionaro-go/xsync"
)

type queueEntry struct {
	List   int
	Buffer *buffer.Buffer
}

// queueGroup is a set of unbounded FIFO lists sharing one lock and one
// wake-up signal.
//
// A push and its notification happen under the same lock. Waiters are woken
// one at a time (whoever takes an item passes the wake-up on if the list is
// still non-empty), and all of them at once when quit is closed.
type queueGroup struct {
	locker xsync.Mutex
	lists  [][]*buffer.Buffer
	signal chan struct{}
	quit   *closuresignaler.ClosureSignaler
}

func newQueueGroup(
	quit *closuresignaler.ClosureSignaler,
	listCount int,
) *queueGroup {
	return &queueGroup{
		lists:  make([][]*buffer.Buffer, listCount),
		signal: make(chan struct{}, 1),
		quit:   quit,
	}
}

// lockCtx returns the context to take the lock with: the critical sections
// are short and may never be skipped due to a cancelled context.
func lockCtx(ctx context.Context) context.Context {
	return xsync.WithNoLogging(context.WithoutCancel(ctx), true)
}

// push appends the entries and wakes up one waiter; if rejectOnQuit is set
// and the quit signal is closed, nothing is appended and false is returned.
func (g *queueGroup) push(
	ctx context.Context,
	rejectOnQuit bool,
	entries ...queueEntry,
) bool {
	return xsync.DoR1(lockCtx(ctx), &g.locker, func() bool {
		if rejectOnQuit && g.quit.IsClosed() {
			return false
		}
		for _, entry := range entries {
			g.lists[entry.List] = append(g.lists[entry.List], entry.Buffer)
		}
		g.notifyLocked()
		return true
	})
}

func (g *queueGroup) notifyLocked() {
	select {
	case g.signal <- struct{}{}:
	default:
	}
}

// pop takes the first buffer of the list.
//
// If the list is empty and wait is set, it waits until something is pushed,
// the quit signal is closed or ctx is done. Returns nil if nothing was taken.
func (g *queueGroup) pop(
	ctx context.Context,
	list int,
	wait bool,
) *buffer.Buffer {
	for {
		var (
			result   *buffer.Buffer
			quitting bool
		)
		g.locker.Do(lockCtx(ctx), func() {
			items := g.lists[list]
			if len(items) == 0 {
				quitting = g.quit.IsClosed()
				return
			}
			result = items[0]
			items[0] = nil
			g.lists[list] = items[1:]
			if len(g.lists[list]) > 0 {
				g.notifyLocked()
			}
		})
		if result != nil || quitting || !wait {
			return result
		}

		select {
		case <-ctx.Done():
			return nil
		case <-g.quit.CloseChan():
			return nil
		case <-g.signal:
		}
	}
}

// length returns the amount of buffers in the list.
func (g *queueGroup) length(
	ctx context.Context,
	list int,
) int {
	return xsync.DoR1(lockCtx(ctx), &g.locker, func() int {
		return len(g.lists[list])
	})
}

// drain empties all the lists and returns what they contained, list by list.
func (g *queueGroup) drain(
	ctx context.Context,
) [][]*buffer.Buffer {
	return xsync.DoR1(lockCtx(ctx), &g.locker, func() [][]*buffer.Buffer {
		result := g.lists
		g.lists = make([][]*buffer.Buffer, len(result))
		return result
	})
}
