package state

import "sync"

// Computed derives its value from other signals.
type Computed[T any] struct {
	signal    *Signal[T]
	compute   func() (T, bool)
	mu        sync.Mutex
	ready     bool
	unsubs    []func()
	scheduler Scheduler
}

// NewComputed creates a derived value from dependencies.
func NewComputed[T any](compute func() T, deps ...Subscribable) *Computed[T] {
	return NewComputedWithScheduler(nil, compute, deps...)
}

// NewComputedWithScheduler creates a derived value and schedules recomputes.
func NewComputedWithScheduler[T any](scheduler Scheduler, compute func() T, deps ...Subscribable) *Computed[T] {
	var fn func() (T, bool)
	if compute != nil {
		fn = func() (T, bool) { return compute(), true }
	}
	return WhenAny(scheduler, fn, deps...)
}

// WhenAny combines deps through combine and recomputes whenever any of them emits.
// combine reports false while its inputs are incomplete; the derived value then
// keeps its previous value and does not notify.
func WhenAny[T any](scheduler Scheduler, combine func() (T, bool), deps ...Subscribable) *Computed[T] {
	if combine == nil {
		combine = func() (T, bool) {
			var zero T
			return zero, true
		}
	}
	var initial T
	value, ok := combine()
	if ok {
		initial = value
	}
	c := &Computed[T]{
		signal:    NewSignal(initial),
		compute:   combine,
		ready:     ok,
		scheduler: scheduler,
	}
	for _, dep := range deps {
		if dep == nil {
			continue
		}
		unsub := dep.Subscribe(c.enqueueRecompute)
		if unsub != nil {
			c.unsubs = append(c.unsubs, unsub)
		}
	}
	return c
}

// SetEqualFunc configures the equality check used to suppress redundant updates.
func (c *Computed[T]) SetEqualFunc(fn EqualFunc[T]) {
	if c == nil {
		return
	}
	c.signal.SetEqualFunc(fn)
}

// Get returns the current computed value.
func (c *Computed[T]) Get() T {
	if c == nil {
		var zero T
		return zero
	}
	return c.signal.Get()
}

// Ready reports whether the combined inputs have been complete at least once.
func (c *Computed[T]) Ready() bool {
	if c == nil {
		return false
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.ready
}

// Subscribe registers a listener for change notifications.
func (c *Computed[T]) Subscribe(fn func()) func() {
	if c == nil {
		return func() {}
	}
	return c.signal.Subscribe(fn)
}

// SubscribeWithScheduler registers a listener using a scheduler.
// If scheduler is nil, callbacks run synchronously.
func (c *Computed[T]) SubscribeWithScheduler(scheduler Scheduler, fn func()) func() {
	if c == nil {
		return func() {}
	}
	return c.signal.SubscribeWithScheduler(scheduler, fn)
}

// Recompute forces the combining function to run now.
func (c *Computed[T]) Recompute() bool {
	if c == nil {
		return false
	}
	value, ok := c.compute()
	if !ok {
		return false
	}
	c.mu.Lock()
	c.ready = true
	c.mu.Unlock()
	return c.signal.Set(value)
}

// Stop unsubscribes from dependency updates.
func (c *Computed[T]) Stop() {
	if c == nil {
		return
	}
	c.mu.Lock()
	unsubs := c.unsubs
	c.unsubs = nil
	c.mu.Unlock()
	for _, unsub := range unsubs {
		if unsub != nil {
			unsub()
		}
	}
}

func (c *Computed[T]) recompute() {
	c.Recompute()
}

func (c *Computed[T]) enqueueRecompute() {
	if c == nil {
		return
	}
	if c.scheduler == nil {
		c.recompute()
		return
	}
	c.scheduler.Schedule(c.recompute)
}
