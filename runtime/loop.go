package runtime

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/odvcencio/furry-grid/state"
)

// UpdateFunc handles a message and returns true if a render is needed.
type UpdateFunc func(loop *Loop, msg Message) bool

// CommandHandler handles commands the loop does not know.
// Return true if the command requires a render.
type CommandHandler func(cmd Command) bool

// Backend supplies input events.
type Backend interface {
	Init() error
	Fini()
	// PollEvent blocks for the next input message. It returns nil once
	// the backend is finishing or the event has no message form.
	PollEvent() Message
}

// LoopConfig configures a Loop. Backend and Render are optional, which
// lets the loop drive state without a terminal.
type LoopConfig struct {
	Backend        Backend
	Render         func()
	Update         UpdateFunc
	CommandHandler CommandHandler
	MessageBuffer  int
	TickRate       time.Duration
	StateQueue     *state.Queue
	FlushPolicy    QueueFlushPolicy
	// FlushRounds lets one flush also run callbacks scheduled by earlier
	// callbacks, up to this many passes. Values below 2 flush once.
	FlushRounds int
	Logger      state.Logger
}

// Loop is a single-threaded event loop. Update, command handling, state
// queue flushes and rendering all run on the goroutine that called Run.
type Loop struct {
	backend        Backend
	renderFn       func()
	update         UpdateFunc
	commandHandler CommandHandler
	messages       chan Message
	tickRate       time.Duration
	stateQueue     *state.Queue
	queueScheduler *QueueScheduler
	flushPolicy    QueueFlushPolicy
	flushRounds    int
	invalidator    *Invalidator
	logger         state.Logger

	taskMu         sync.Mutex
	taskCtx        context.Context
	taskCancel     context.CancelFunc
	pendingEffects []Effect

	running atomic.Bool
	dirty   bool
}

// NewLoop creates a loop from config.
func NewLoop(cfg LoopConfig) *Loop {
	bufferSize := cfg.MessageBuffer
	if bufferSize <= 0 {
		bufferSize = 128
	}
	queue := cfg.StateQueue
	if queue == nil {
		queue = state.NewQueue()
	}
	l := &Loop{
		backend:        cfg.Backend,
		renderFn:       cfg.Render,
		update:         cfg.Update,
		commandHandler: cfg.CommandHandler,
		messages:       make(chan Message, bufferSize),
		tickRate:       cfg.TickRate,
		stateQueue:     queue,
		flushPolicy:    cfg.FlushPolicy,
		flushRounds:    cfg.FlushRounds,
		logger:         state.DefaultLogger(cfg.Logger),
	}
	if l.update == nil {
		l.update = DefaultUpdate
	}
	l.queueScheduler = NewQueueScheduler(queue, l.TryPost)
	l.invalidator = NewInvalidator(l.TryPost)
	return l
}

// StateQueue returns the loop's state queue.
func (l *Loop) StateQueue() *state.Queue {
	if l == nil {
		return nil
	}
	return l.stateQueue
}

// StateScheduler returns a scheduler whose callbacks run on the loop goroutine.
func (l *Loop) StateScheduler() state.Scheduler {
	if l == nil || l.queueScheduler == nil {
		return nil
	}
	return l.queueScheduler
}

// InvalidateScheduler returns a scheduler that runs callbacks and requests a render.
func (l *Loop) InvalidateScheduler() state.Scheduler {
	if l == nil || l.invalidator == nil {
		return nil
	}
	return l.invalidator
}

// Invalidate requests a render pass.
func (l *Loop) Invalidate() {
	if l == nil || l.invalidator == nil {
		return
	}
	l.invalidator.Invalidate()
}

// PostQueueFlush requests a state queue flush.
func (l *Loop) PostQueueFlush() {
	l.Post(QueueFlushMsg{})
}

// Spawn starts an effect using the loop task context.
// If Run has not started, the effect is queued until start.
func (l *Loop) Spawn(effect Effect) {
	if l == nil || effect.Run == nil {
		return
	}
	l.taskMu.Lock()
	ctx := l.taskCtx
	if ctx == nil {
		l.pendingEffects = append(l.pendingEffects, effect)
		l.taskMu.Unlock()
		return
	}
	l.taskMu.Unlock()
	go effect.Run(ctx, l.TryPost)
}

// After schedules a delayed message using the loop task context.
func (l *Loop) After(delay time.Duration, msg Message) {
	l.Spawn(After(delay, msg))
}

// Every schedules a recurring message using the loop task context.
func (l *Loop) Every(interval time.Duration, fn func(time.Time) Message) {
	l.Spawn(Every(interval, fn))
}

// Post sends a message to the loop, dropping it if the buffer is full.
func (l *Loop) Post(msg Message) {
	if !l.TryPost(msg) {
		l.logger.Warn("runtime: message dropped", "type", fmt.Sprintf("%T", msg))
	}
}

// TryPost sends a message to the loop without blocking.
func (l *Loop) TryPost(msg Message) bool {
	if l == nil || l.messages == nil || msg == nil {
		return false
	}
	select {
	case l.messages <- msg:
		return true
	default:
		return false
	}
}

// Dispatch posts cmd so it is handled on the loop goroutine.
func (l *Loop) Dispatch(cmd Command) {
	if cmd == nil {
		return
	}
	l.Post(CommandMsg{Command: cmd})
}

// Running reports whether Run is processing messages.
func (l *Loop) Running() bool {
	return l != nil && l.running.Load()
}

// Run processes messages until Quit or context cancellation.
func (l *Loop) Run(ctx context.Context) error {
	if ctx == nil {
		ctx = context.Background()
	}
	taskCtx, taskCancel := context.WithCancel(ctx)
	l.taskMu.Lock()
	l.taskCtx = taskCtx
	l.taskCancel = taskCancel
	l.taskMu.Unlock()
	defer func() {
		taskCancel()
		l.taskMu.Lock()
		l.taskCtx = nil
		l.taskCancel = nil
		l.taskMu.Unlock()
	}()

	if l.backend != nil {
		if err := l.backend.Init(); err != nil {
			return fmt.Errorf("init backend: %w", err)
		}
		defer l.backend.Fini()
	}

	l.running.Store(true)
	defer l.running.Store(false)
	l.dirty = true

	l.startPendingEffects()
	if l.backend != nil {
		go l.pollEvents()
	}

	var ticks <-chan time.Time
	if l.tickRate > 0 {
		ticker := time.NewTicker(l.tickRate)
		defer ticker.Stop()
		ticks = ticker.C
	}

	if l.dirty {
		l.render()
	}
	for l.running.Load() {
		var msg Message
		select {
		case <-ctx.Done():
			l.stop()
		case msg = <-l.messages:
			if l.update(l, msg) {
				l.dirty = true
			}
		case now := <-ticks:
			msg = TickMsg{Time: now}
			if l.update(l, msg) {
				l.dirty = true
			}
		}

		if !l.running.Load() {
			continue
		}

		if msg != nil {
			if l.flushQueueIfNeeded(msg) {
				l.dirty = true
			}
			if _, ok := msg.(InvalidateMsg); ok {
				l.invalidator.resetPending()
			}
		}

		if l.dirty {
			l.render()
		}
	}

	return ctx.Err()
}

// DefaultUpdate handles loop-level messages and commands.
func DefaultUpdate(loop *Loop, msg Message) bool {
	if loop == nil {
		return false
	}
	switch m := msg.(type) {
	case ResizeMsg:
		return true
	case InvalidateMsg:
		return true
	case CommandMsg:
		return loop.ExecuteCommand(m.Command)
	default:
		return false
	}
}

// ExecuteCommand runs a command through the loop handler.
func (l *Loop) ExecuteCommand(cmd Command) bool {
	if l == nil || cmd == nil {
		return false
	}
	switch c := cmd.(type) {
	case Quit:
		l.stop()
		return false
	case Refresh:
		return true
	case SendMsg:
		if c.Message != nil {
			l.Post(c.Message)
		}
		return false
	case Effect:
		l.Spawn(c)
		return false
	case Call:
		if c.Fn == nil {
			return false
		}
		return c.Fn()
	default:
		if l.commandHandler != nil {
			return l.commandHandler(cmd)
		}
		return false
	}
}

func (l *Loop) stop() {
	l.running.Store(false)
	l.taskMu.Lock()
	cancel := l.taskCancel
	l.taskMu.Unlock()
	if cancel != nil {
		cancel()
	}
}

func (l *Loop) pollEvents() {
	for l.running.Load() {
		msg := l.backend.PollEvent()
		if msg == nil {
			continue
		}
		l.Post(msg)
	}
}

func (l *Loop) render() {
	l.dirty = false
	if l.renderFn != nil {
		l.renderFn()
	}
}

func (l *Loop) startPendingEffects() {
	l.taskMu.Lock()
	effects := l.pendingEffects
	l.pendingEffects = nil
	ctx := l.taskCtx
	l.taskMu.Unlock()
	for _, effect := range effects {
		go effect.Run(ctx, l.TryPost)
	}
}

func (l *Loop) flushQueueIfNeeded(msg Message) bool {
	if l.stateQueue == nil {
		return false
	}
	if !shouldFlushQueue(l.flushPolicy, msg) {
		return false
	}
	l.queueScheduler.resetPending()
	return flushQueue(l.stateQueue, l.flushRounds) > 0
}
