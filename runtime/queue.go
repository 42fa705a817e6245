package runtime

import "github.com/odvcencio/furry-grid/state"

// QueueFlushPolicy configures when the loop flushes its state queue.
// QueueFlushMsg always flushes.
type QueueFlushPolicy int

const (
	// FlushOnMessageAndTick flushes on any message or tick.
	FlushOnMessageAndTick QueueFlushPolicy = iota
	// FlushOnMessage flushes on messages except TickMsg.
	FlushOnMessage
	// FlushOnTick flushes only on TickMsg.
	FlushOnTick
	// FlushManual flushes only on QueueFlushMsg.
	FlushManual
)

func shouldFlushQueue(policy QueueFlushPolicy, msg Message) bool {
	if _, ok := msg.(QueueFlushMsg); ok {
		return true
	}
	_, isTick := msg.(TickMsg)
	switch policy {
	case FlushManual:
		return false
	case FlushOnMessage:
		return !isTick
	case FlushOnTick:
		return isTick
	default:
		return true
	}
}

// flushQueue runs queued callbacks. With rounds > 1, callbacks scheduled by
// the flush itself also run, up to rounds passes, so a chain such as
// search commit, projection, pager feedback settles before one render.
func flushQueue(queue *state.Queue, rounds int) int {
	if rounds <= 1 {
		return queue.Flush()
	}
	return queue.Drain(rounds)
}
