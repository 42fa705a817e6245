package datagrid

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/odvcencio/furry-grid/compare"
	"github.com/odvcencio/furry-grid/pager"
	"github.com/odvcencio/furry-grid/search"
	"github.com/odvcencio/furry-grid/state"
)

// DefaultDebounce is the quiet window that coalesces projection requests.
const DefaultDebounce = 100 * time.Millisecond

const tracerName = "github.com/odvcencio/furry-grid/datagrid"

// ErrProjectionPanic wraps a panic recovered from a projector.
var ErrProjectionPanic = errors.New("projection panicked")

// PipelineConfig wires a Pipeline to its inputs. Only Source is required;
// missing Search, Sort or Pager inputs leave that stage out of the request.
type PipelineConfig[T any] struct {
	// Source is the latest item collection. A nil slice means not loaded.
	Source    state.Readable[[]T]
	Search    state.Readable[search.Request]
	Sort      state.Readable[compare.SortState]
	Pager     *pager.Pager
	Projector Projector[T]
	// Debounce is the coalescing window. Zero uses DefaultDebounce;
	// negative issues every request immediately.
	Debounce time.Duration
	Clock    state.Clock
	// Scheduler delivers debounced requests and projection results.
	// Nil delivers them on the goroutine that produced them.
	Scheduler state.Scheduler
	// Executor runs projections. Nil projects on the issuing goroutine.
	Executor state.Scheduler
	Logger   state.Logger
	Tracer   trace.Tracer
}

// Pipeline merges source, search, sort and pager state into projection
// requests and publishes the result of the most recently issued one.
type Pipeline[T any] struct {
	cfg    PipelineConfig[T]
	logger state.Logger
	tracer trace.Tracer

	version  *state.Signal[uint64]
	requests *state.Computed[Request[T]]
	debounce *state.Debouncer[Request[T]]
	project  *state.Command[Request[T], Result[T]]
	refresh  *state.Command[struct{}, struct{}]

	results *state.Signal[Result[T]]
	loading *state.Signal[bool]
	hasErr  *state.Signal[bool]
	lastErr *state.Signal[error]

	subs *state.Subscriptions

	mu      sync.Mutex
	seq     uint64
	cancel  context.CancelFunc
	issued  Request[T]
	applied bool
	stopped bool
}

// NewPipeline creates a pipeline and queues the initial request if the
// source is already loaded.
func NewPipeline[T any](cfg PipelineConfig[T]) *Pipeline[T] {
	if cfg.Projector == nil {
		cfg.Projector = MemoryProjector[T]{}
	}
	delay := cfg.Debounce
	if delay == 0 {
		delay = DefaultDebounce
	}
	if delay < 0 {
		delay = 0
	}
	tracer := cfg.Tracer
	if tracer == nil {
		tracer = otel.Tracer(tracerName)
	}
	p := &Pipeline[T]{
		cfg:     cfg,
		logger:  state.DefaultLogger(cfg.Logger),
		tracer:  tracer,
		version: state.NewSignal(uint64(0)),
		results: state.NewSignal(Result[T]{}),
		loading: state.NewSignalWithEqual(false, state.EqualComparable[bool]),
		hasErr:  state.NewSignalWithEqual(false, state.EqualComparable[bool]),
		lastErr: state.NewSignal[error](nil),
		subs:    state.NewSubscriptions(nil),
	}

	deps := []state.Subscribable{p.version}
	if cfg.Search != nil {
		deps = append(deps, cfg.Search)
	}
	if cfg.Sort != nil {
		deps = append(deps, cfg.Sort)
	}
	if cfg.Pager != nil {
		deps = append(deps, cfg.Pager.State())
	}
	if cfg.Source != nil {
		p.subs.Subscribe(cfg.Source, p.bump)
	}
	p.requests = state.WhenAny(nil, p.combine, deps...)
	p.requests.SetEqualFunc(func(a, b Request[T]) bool { return a.Equal(b) })

	p.project = state.NewCommand(p.run)
	p.refresh = state.NewCommand(func(ctx context.Context, _ struct{}) (struct{}, error) {
		p.Refresh()
		return struct{}{}, nil
	})
	p.debounce = state.NewDebouncer(cfg.Clock, delay, cfg.Scheduler, p.issue)

	p.subs.Subscribe(p.requests, func() {
		p.debounce.Trigger(p.requests.Get())
	})
	if p.requests.Ready() {
		p.debounce.Trigger(p.requests.Get())
	}
	return p
}

// Requests emits each distinct complete request. It stays silent until the
// source is loaded.
func (p *Pipeline[T]) Requests() state.Readable[Request[T]] {
	return p.requests
}

// Results is the latest successful projection of the latest issued request.
func (p *Pipeline[T]) Results() state.Readable[Result[T]] {
	return state.ReadOnly(p.results)
}

// IsLoading is true from issuing a request until its outcome is applied.
func (p *Pipeline[T]) IsLoading() state.Readable[bool] {
	return state.ReadOnly(p.loading)
}

// HasError is true after a failed projection until the next success.
func (p *Pipeline[T]) HasError() state.Readable[bool] {
	return state.ReadOnly(p.hasErr)
}

// Err is the last projection error, nil after a success.
func (p *Pipeline[T]) Err() state.Readable[error] {
	return state.ReadOnly(p.lastErr)
}

// ProjectCommand is the command every issued request executes through.
func (p *Pipeline[T]) ProjectCommand() *state.Command[Request[T], Result[T]] {
	return p.project
}

// RefreshCommand re-projects the current request.
func (p *Pipeline[T]) RefreshCommand() *state.Command[struct{}, struct{}] {
	return p.refresh
}

// Issued returns the last request handed to the projector.
func (p *Pipeline[T]) Issued() Request[T] {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.issued
}

// HasResult reports whether any projection has been applied.
func (p *Pipeline[T]) HasResult() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.applied
}

// Pending reports whether a request is waiting out the debounce window.
func (p *Pipeline[T]) Pending() bool {
	return p.debounce.Pending()
}

// Flush issues a pending request now instead of waiting for the window.
func (p *Pipeline[T]) Flush() bool {
	return p.debounce.Flush()
}

// Refresh re-reads the source and issues the resulting request without
// waiting for the debounce window, even when nothing changed.
func (p *Pipeline[T]) Refresh() {
	p.bump()
	if !p.requests.Ready() {
		return
	}
	p.debounce.Flush()
}

// Stop cancels any in-flight projection and detaches from the inputs.
// Results arriving afterwards are dropped.
func (p *Pipeline[T]) Stop() {
	p.mu.Lock()
	p.stopped = true
	if p.cancel != nil {
		p.cancel()
		p.cancel = nil
	}
	p.mu.Unlock()
	p.debounce.Cancel()
	p.subs.Close()
	p.requests.Stop()
	p.project.Stop()
	p.refresh.Stop()
}

func (p *Pipeline[T]) bump() {
	p.version.Update(func(v uint64) uint64 { return v + 1 })
}

func (p *Pipeline[T]) combine() (Request[T], bool) {
	if p.cfg.Source == nil {
		return Request[T]{}, false
	}
	items := p.cfg.Source.Get()
	if items == nil {
		return Request[T]{}, false
	}
	req := Request[T]{Items: items, Version: p.version.Get()}
	if p.cfg.Search != nil {
		s := p.cfg.Search.Get()
		req.Filter = s.Filter
		req.Matcher = s.Matcher
	}
	if p.cfg.Sort != nil {
		req.Sort = p.cfg.Sort.Get()
	}
	if p.cfg.Pager != nil {
		ps := p.cfg.Pager.Get()
		req.Offset = ps.Offset
		req.Limit = ps.Limit
	}
	return req, true
}

func (p *Pipeline[T]) issue(req Request[T]) {
	p.mu.Lock()
	if p.stopped {
		p.mu.Unlock()
		return
	}
	p.seq++
	req.Seq = p.seq
	req.ID = ulid.Make()
	if p.cancel != nil {
		p.cancel()
	}
	ctx, cancel := context.WithCancel(context.Background())
	p.cancel = cancel
	p.issued = req
	p.mu.Unlock()

	p.loading.Set(true)
	p.logger.Debug("datagrid: issuing projection",
		"id", req.ID.String(), "seq", req.Seq, "filter", req.Filter,
		"offset", req.Offset, "limit", req.Limit)

	run := func() {
		result, err := p.project.Execute(ctx, req)
		p.deliver(func() { p.apply(req, result, err) })
	}
	if p.cfg.Executor == nil {
		run()
		return
	}
	p.cfg.Executor.Schedule(run)
}

func (p *Pipeline[T]) deliver(fn func()) {
	if p.cfg.Scheduler == nil {
		fn()
		return
	}
	p.cfg.Scheduler.Schedule(fn)
}

func (p *Pipeline[T]) apply(req Request[T], result Result[T], err error) {
	p.mu.Lock()
	latest := !p.stopped && req.Seq == p.seq
	if latest {
		p.applied = p.applied || err == nil
		if p.cancel != nil {
			p.cancel()
			p.cancel = nil
		}
	}
	p.mu.Unlock()

	if !latest {
		p.logger.Debug("datagrid: dropping stale projection", "id", req.ID.String(), "seq", req.Seq)
		return
	}
	if err != nil {
		p.logger.Error("datagrid: projection failed", "id", req.ID.String(), "err", err)
		p.lastErr.Set(err)
		p.hasErr.Set(true)
		p.loading.Set(false)
		return
	}
	p.results.Set(result)
	p.lastErr.Set(nil)
	p.hasErr.Set(false)
	p.loading.Set(false)
	if p.cfg.Pager != nil {
		p.cfg.Pager.UpdateItemCount(result.Count)
	}
}

func (p *Pipeline[T]) run(ctx context.Context, req Request[T]) (result Result[T], err error) {
	ctx, span := p.tracer.Start(ctx, "datagrid.project", trace.WithAttributes(
		attribute.String("datagrid.request_id", req.ID.String()),
		attribute.Int64("datagrid.seq", int64(req.Seq)),
		attribute.String("datagrid.filter", req.Filter),
		attribute.Int("datagrid.offset", req.Offset),
		attribute.Int("datagrid.limit", req.Limit),
		attribute.String("datagrid.sort_field", req.Sort.Field),
		attribute.String("datagrid.sort_dir", req.Sort.Direction.String()),
	))
	defer func() {
		if r := recover(); r != nil {
			result = Result[T]{}
			err = fmt.Errorf("%w: %v", ErrProjectionPanic, r)
		}
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		} else {
			span.SetAttributes(attribute.Int("datagrid.count", result.Count))
		}
		span.End()
	}()
	return p.cfg.Projector.Project(ctx, req)
}
