package state

import (
	"sync"
	"time"
)

// Debouncer delivers only the latest value once no new value has arrived for
// the configured quiet window. Each Trigger restarts the window.
type Debouncer[T any] struct {
	clock     Clock
	delay     time.Duration
	scheduler Scheduler
	fn        func(T)

	mu      sync.Mutex
	timer   Timer
	pending T
	has     bool
	gen     uint64
}

// NewDebouncer creates a debouncer calling fn after delay of quiet.
// A nil clock uses SystemClock; a nil scheduler calls fn on the timer goroutine.
func NewDebouncer[T any](clock Clock, delay time.Duration, scheduler Scheduler, fn func(T)) *Debouncer[T] {
	if clock == nil {
		clock = SystemClock{}
	}
	return &Debouncer[T]{
		clock:     clock,
		delay:     delay,
		scheduler: scheduler,
		fn:        fn,
	}
}

// Trigger replaces the pending value and restarts the quiet window.
func (d *Debouncer[T]) Trigger(value T) {
	if d == nil {
		return
	}
	d.mu.Lock()
	d.pending = value
	d.has = true
	d.gen++
	gen := d.gen
	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
	if d.delay <= 0 {
		d.mu.Unlock()
		d.fire(gen)
		return
	}
	d.timer = d.clock.AfterFunc(d.delay, func() { d.fire(gen) })
	d.mu.Unlock()
}

// Pending reports whether a value is waiting for the window to elapse.
func (d *Debouncer[T]) Pending() bool {
	if d == nil {
		return false
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.has
}

// Flush delivers the pending value immediately.
func (d *Debouncer[T]) Flush() bool {
	if d == nil {
		return false
	}
	d.mu.Lock()
	gen := d.gen
	has := d.has
	d.mu.Unlock()
	if !has {
		return false
	}
	return d.fire(gen)
}

// Cancel drops the pending value without delivering it.
func (d *Debouncer[T]) Cancel() {
	if d == nil {
		return
	}
	d.mu.Lock()
	d.gen++
	d.has = false
	var zero T
	d.pending = zero
	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
	d.mu.Unlock()
}

func (d *Debouncer[T]) fire(gen uint64) bool {
	d.mu.Lock()
	if gen != d.gen || !d.has {
		d.mu.Unlock()
		return false
	}
	value := d.pending
	var zero T
	d.pending = zero
	d.has = false
	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
	fn := d.fn
	scheduler := d.scheduler
	d.mu.Unlock()

	if fn == nil {
		return true
	}
	if scheduler == nil {
		fn(value)
		return true
	}
	scheduler.Schedule(func() { fn(value) })
	return true
}
