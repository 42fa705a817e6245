// Package state provides the reactive primitives behind furry-grid view-models.
package state

import "sync"

// EqualFunc compares two values for equality.
type EqualFunc[T any] func(a, b T) bool

// EqualComparable compares comparable values with ==.
func EqualComparable[T comparable](a, b T) bool {
	return a == b
}

// Subscribable emits change notifications.
type Subscribable interface {
	Subscribe(fn func()) func()
}

type subscriber struct {
	id        int
	fn        func()
	scheduler Scheduler
}

// Signal holds a value and notifies subscribers on every assignment.
// Configure an EqualFunc to suppress notifications for unchanged values.
// Subscribers are notified in subscription order.
type Signal[T any] struct {
	mu    sync.Mutex
	value T
	subs  []subscriber
	next  int
	equal EqualFunc[T]
}

// NewSignal creates a new signal with an initial value.
func NewSignal[T any](initial T) *Signal[T] {
	return &Signal[T]{value: initial}
}

// NewSignalWithEqual creates a signal that ignores assignments equal to the current value.
func NewSignalWithEqual[T any](initial T, equal EqualFunc[T]) *Signal[T] {
	return &Signal[T]{value: initial, equal: equal}
}

// SetEqualFunc configures the equality check used to suppress redundant updates.
func (s *Signal[T]) SetEqualFunc(fn EqualFunc[T]) {
	if s == nil {
		return
	}
	s.mu.Lock()
	s.equal = fn
	s.mu.Unlock()
}

// Get returns the current value.
func (s *Signal[T]) Get() T {
	if s == nil {
		var zero T
		return zero
	}
	s.mu.Lock()
	value := s.value
	s.mu.Unlock()
	return value
}

// Set stores value and notifies subscribers unless the equality check suppresses it.
func (s *Signal[T]) Set(value T) bool {
	if s == nil {
		return false
	}
	s.mu.Lock()
	if s.equal != nil && s.equal(s.value, value) {
		s.mu.Unlock()
		return false
	}
	s.value = value
	subs := s.copySubscribersLocked()
	s.mu.Unlock()

	notify(subs)
	return true
}

// Update replaces the value using fn while holding the signal lock,
// so concurrent updates never interleave. fn must not touch the signal.
func (s *Signal[T]) Update(fn func(T) T) bool {
	if s == nil || fn == nil {
		return false
	}
	s.mu.Lock()
	next := fn(s.value)
	if s.equal != nil && s.equal(s.value, next) {
		s.mu.Unlock()
		return false
	}
	s.value = next
	subs := s.copySubscribersLocked()
	s.mu.Unlock()

	notify(subs)
	return true
}

// Emit re-notifies subscribers without changing the value.
func (s *Signal[T]) Emit() {
	if s == nil {
		return
	}
	s.mu.Lock()
	subs := s.copySubscribersLocked()
	s.mu.Unlock()
	notify(subs)
}

// Subscribe registers a listener for change notifications.
func (s *Signal[T]) Subscribe(fn func()) func() {
	return s.SubscribeWithScheduler(nil, fn)
}

// SubscribeWithScheduler registers a listener using a scheduler.
// If scheduler is nil, callbacks run synchronously.
func (s *Signal[T]) SubscribeWithScheduler(scheduler Scheduler, fn func()) func() {
	if s == nil || fn == nil {
		return func() {}
	}
	s.mu.Lock()
	id := s.next
	s.next++
	s.subs = append(s.subs, subscriber{id: id, fn: fn, scheduler: scheduler})
	s.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			s.mu.Lock()
			for i, sub := range s.subs {
				if sub.id == id {
					s.subs = append(s.subs[:i:i], s.subs[i+1:]...)
					break
				}
			}
			s.mu.Unlock()
		})
	}
}

// Watch subscribes fn to receive the current value on every notification.
func Watch[T any](r Readable[T], fn func(T)) func() {
	if r == nil || fn == nil {
		return func() {}
	}
	return r.Subscribe(func() {
		fn(r.Get())
	})
}

func (s *Signal[T]) copySubscribersLocked() []subscriber {
	if len(s.subs) == 0 {
		return nil
	}
	subs := make([]subscriber, len(s.subs))
	copy(subs, s.subs)
	return subs
}

func notify(subs []subscriber) {
	for _, sub := range subs {
		if sub.fn == nil {
			continue
		}
		if sub.scheduler == nil {
			sub.fn()
			continue
		}
		sub.scheduler.Schedule(sub.fn)
	}
}
