package state

// Readable exposes read-only reactive state.
type Readable[T any] interface {
	Get() T
	Subscribe(fn func()) func()
	SubscribeWithScheduler(scheduler Scheduler, fn func()) func()
}

// Writable exposes read/write reactive state.
type Writable[T any] interface {
	Readable[T]
	Set(value T) bool
	Update(fn func(T) T) bool
}

// ReadOnly hides the write side of a signal.
func ReadOnly[T any](s *Signal[T]) Readable[T] {
	return readOnly[T]{s: s}
}

type readOnly[T any] struct {
	s *Signal[T]
}

func (r readOnly[T]) Get() T                      { return r.s.Get() }
func (r readOnly[T]) Subscribe(fn func()) func() { return r.s.Subscribe(fn) }
func (r readOnly[T]) SubscribeWithScheduler(scheduler Scheduler, fn func()) func() {
	return r.s.SubscribeWithScheduler(scheduler, fn)
}
