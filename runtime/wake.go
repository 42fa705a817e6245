package runtime

import (
	"sync/atomic"

	"github.com/odvcencio/furry-grid/state"
)

// waker posts msg at most once until reset, so a burst of scheduled work
// costs the loop a single iteration. A failed post is retried by the next wake.
type waker struct {
	post    PostFunc
	msg     Message
	pending atomic.Bool
}

func (w *waker) wake() {
	if w.post == nil {
		return
	}
	if w.pending.CompareAndSwap(false, true) && !w.post(w.msg) {
		w.pending.Store(false)
	}
}

func (w *waker) reset() {
	w.pending.Store(false)
}

// QueueScheduler is a state.Scheduler whose callbacks run when the loop
// flushes its queue. Grid results, debounced searches and routing
// notifications all land on the loop goroutine through it.
type QueueScheduler struct {
	queue *state.Queue
	waker waker
}

var _ state.Scheduler = (*QueueScheduler)(nil)

// NewQueueScheduler wires a queue to a post function.
func NewQueueScheduler(queue *state.Queue, post PostFunc) *QueueScheduler {
	if queue == nil {
		queue = state.NewQueue()
	}
	return &QueueScheduler{queue: queue, waker: waker{post: post, msg: QueueFlushMsg{}}}
}

// Schedule enqueues fn and wakes the loop.
func (s *QueueScheduler) Schedule(fn func()) {
	if s == nil || s.queue == nil || fn == nil {
		return
	}
	s.queue.Schedule(fn)
	s.waker.wake()
}

// Pending reports whether a flush message is in flight.
func (s *QueueScheduler) Pending() bool {
	return s != nil && s.waker.pending.Load()
}

func (s *QueueScheduler) resetPending() {
	if s != nil {
		s.waker.reset()
	}
}

// Invalidator requests render passes, coalescing repeated requests into one
// InvalidateMsg.
type Invalidator struct {
	waker waker
}

var _ state.Scheduler = (*Invalidator)(nil)

// NewInvalidator creates an invalidator wired to a post function.
func NewInvalidator(post PostFunc) *Invalidator {
	return &Invalidator{waker: waker{post: post, msg: InvalidateMsg{}}}
}

// Invalidate requests a render pass.
func (i *Invalidator) Invalidate() {
	if i != nil {
		i.waker.wake()
	}
}

// Schedule runs fn immediately and requests a render pass.
func (i *Invalidator) Schedule(fn func()) {
	if fn == nil {
		return
	}
	fn()
	i.Invalidate()
}

func (i *Invalidator) resetPending() {
	if i != nil {
		i.waker.reset()
	}
}
