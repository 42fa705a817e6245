package state

import (
	"context"
	"errors"
)

// ErrCannotExecute is returned when a command is executed while disabled.
var ErrCannotExecute = errors.New("command cannot execute")

// ExecuteFunc is the work a Command performs.
type ExecuteFunc[P, R any] func(ctx context.Context, param P) (R, error)

// Command is an invocable unit exposing its results, thrown errors,
// in-flight state and enabled state as signals.
// Invocations may overlap; IsExecuting stays true until all have finished.
type Command[P, R any] struct {
	fn        ExecuteFunc[P, R]
	results   *Signal[R]
	errs      *Signal[error]
	executing *Signal[bool]
	can       *Computed[bool]

	// inflight is only touched inside executing.Update, under the signal lock,
	// so the published flag always matches the count.
	inflight int
}

// NewCommand creates a command that is always enabled unless busy-gated.
func NewCommand[P, R any](fn ExecuteFunc[P, R]) *Command[P, R] {
	return NewCommandWithCondition(fn, nil)
}

// NewCommandWithCondition creates a command whose CanExecute follows condition.
// A nil condition means always enabled.
func NewCommandWithCondition[P, R any](fn ExecuteFunc[P, R], condition Readable[bool]) *Command[P, R] {
	var zero R
	c := &Command[P, R]{
		fn:        fn,
		results:   NewSignal(zero),
		errs:      NewSignal[error](nil),
		executing: NewSignalWithEqual(false, EqualComparable[bool]),
	}
	compute := func() bool {
		if c.fn == nil {
			return false
		}
		if condition == nil {
			return true
		}
		return condition.Get()
	}
	if condition != nil {
		c.can = NewComputed(compute, condition)
	} else {
		c.can = NewComputed(compute)
	}
	c.can.SetEqualFunc(EqualComparable[bool])
	return c
}

// Execute runs the command and publishes exactly one result or one error.
func (c *Command[P, R]) Execute(ctx context.Context, param P) (R, error) {
	var zero R
	if c == nil {
		return zero, ErrCannotExecute
	}
	if !c.can.Get() {
		return zero, ErrCannotExecute
	}
	if ctx == nil {
		ctx = context.Background()
	}
	result, err := c.run(ctx, param)
	if err != nil {
		c.errs.Set(err)
		return zero, err
	}
	c.results.Set(result)
	return result, nil
}

// Results emits every successful result.
func (c *Command[P, R]) Results() Readable[R] {
	return ReadOnly(c.results)
}

// Errors emits every error returned by an execution.
func (c *Command[P, R]) Errors() Readable[error] {
	return ReadOnly(c.errs)
}

// IsExecuting is true while any invocation is in flight.
func (c *Command[P, R]) IsExecuting() Readable[bool] {
	return ReadOnly(c.executing)
}

// CanExecute reports whether Execute would run.
func (c *Command[P, R]) CanExecute() Readable[bool] {
	return c.can
}

// Stop releases the condition subscription.
func (c *Command[P, R]) Stop() {
	if c == nil {
		return
	}
	c.can.Stop()
}

func (c *Command[P, R]) run(ctx context.Context, param P) (R, error) {
	c.begin()
	defer c.end()
	return c.fn(ctx, param)
}

func (c *Command[P, R]) begin() {
	c.executing.Update(func(bool) bool {
		c.inflight++
		return true
	})
}

func (c *Command[P, R]) end() {
	c.executing.Update(func(bool) bool {
		c.inflight--
		return c.inflight > 0
	})
}
