// Package search turns free-text filter input into committed search requests.
package search

import (
	"context"
	"regexp"
	"strings"
	"time"

	"github.com/odvcencio/furry-grid/state"
)

// DefaultDebounce is the quiet window before live filter text commits.
const DefaultDebounce = 500 * time.Millisecond

// Phase is the engine's position in Idle -> Pending -> Committed.
type Phase int

const (
	Idle Phase = iota
	Pending
	Committed
)

func (p Phase) String() string {
	switch p {
	case Pending:
		return "pending"
	case Committed:
		return "committed"
	default:
		return "idle"
	}
}

// Request is a committed filter. Matcher is nil when the filter is blank
// or could not be compiled; Invalid marks the latter.
type Request struct {
	Filter  string
	Matcher *regexp.Regexp
	Invalid bool
}

// Active reports whether the request filters anything.
func (r Request) Active() bool {
	return r.Matcher != nil
}

// Match reports whether text satisfies the request. Inactive requests match everything.
func (r Request) Match(text string) bool {
	if r.Matcher == nil {
		return true
	}
	return r.Matcher.MatchString(text)
}

// Equal compares requests by filter text.
func (r Request) Equal(other Request) bool {
	return r.Filter == other.Filter && r.Invalid == other.Invalid
}

// Compile builds a request from filter text. It never fails: blank text and
// invalid patterns both produce a request without a matcher.
func Compile(filter string) Request {
	trimmed := strings.TrimSpace(filter)
	if trimmed == "" {
		return Request{Filter: filter}
	}
	re, err := regexp.Compile("(?i)" + trimmed)
	if err != nil {
		return Request{Filter: filter, Invalid: true}
	}
	return Request{Filter: filter, Matcher: re}
}

// RoutingState is the search slice of the routing contract.
type RoutingState struct {
	Filter *string `json:"filter,omitempty"`
}

// Config configures an Engine.
type Config struct {
	// Debounce is the live-search quiet window. Zero uses DefaultDebounce;
	// negative commits on every change.
	Debounce time.Duration
	// Live commits after the quiet window. When false only Submit commits.
	Live      bool
	Clock     state.Clock
	Scheduler state.Scheduler
	Logger    state.Logger
}

// Engine tracks filter text and commits search requests.
type Engine struct {
	filter   *state.Signal[string]
	phase    *state.Signal[Phase]
	requests *state.Signal[Request]
	submit   *state.Command[struct{}, Request]
	debounce *state.Debouncer[string]
	logger   state.Logger
	live     bool
}

// NewEngine creates an idle engine with an empty committed request.
func NewEngine(cfg Config) *Engine {
	delay := cfg.Debounce
	if delay == 0 {
		delay = DefaultDebounce
	}
	if delay < 0 {
		delay = 0
	}
	e := &Engine{
		filter:   state.NewSignalWithEqual("", state.EqualComparable[string]),
		phase:    state.NewSignalWithEqual(Idle, state.EqualComparable[Phase]),
		requests: state.NewSignal(Request{}),
		logger:   state.DefaultLogger(cfg.Logger),
		live:     cfg.Live,
	}
	e.debounce = state.NewDebouncer(cfg.Clock, delay, cfg.Scheduler, func(text string) {
		e.commit(text)
	})
	e.submit = state.NewCommand(func(ctx context.Context, _ struct{}) (Request, error) {
		e.debounce.Cancel()
		return e.commit(e.filter.Get()), nil
	})
	return e
}

// Filter is the transient filter text.
func (e *Engine) Filter() state.Readable[string] {
	return state.ReadOnly(e.filter)
}

// Phase is the engine's commit phase.
func (e *Engine) Phase() state.Readable[Phase] {
	return state.ReadOnly(e.phase)
}

// Requests emits every committed request.
func (e *Engine) Requests() state.Readable[Request] {
	return state.ReadOnly(e.requests)
}

// Current returns the last committed request.
func (e *Engine) Current() Request {
	return e.requests.Get()
}

// SubmitCommand commits the current filter text immediately.
func (e *Engine) SubmitCommand() *state.Command[struct{}, Request] {
	return e.submit
}

// SetFilter updates the filter text and, in live mode, restarts the commit window.
func (e *Engine) SetFilter(text string) {
	if !e.filter.Set(text) {
		return
	}
	e.phase.Set(Pending)
	if e.live {
		e.debounce.Trigger(text)
	}
}

// Submit commits the current filter text now.
func (e *Engine) Submit() Request {
	req, _ := e.submit.Execute(context.Background(), struct{}{})
	return req
}

// Apply sets the filter text and commits it without waiting for the window.
func (e *Engine) Apply(text string) Request {
	e.debounce.Cancel()
	e.filter.Set(text)
	return e.commit(text)
}

// Stop drops any pending commit.
func (e *Engine) Stop() {
	e.debounce.Cancel()
}

// RoutingState returns the routing snapshot, omitting a blank filter.
func (e *Engine) RoutingState() RoutingState {
	filter := e.Current().Filter
	if strings.TrimSpace(filter) == "" {
		return RoutingState{}
	}
	return RoutingState{Filter: &filter}
}

// SetRoutingState applies a routing snapshot. An absent filter keeps the current one.
func (e *Engine) SetRoutingState(rs RoutingState) {
	if rs.Filter == nil {
		return
	}
	if *rs.Filter == e.Current().Filter && e.phase.Get() != Pending {
		return
	}
	e.Apply(*rs.Filter)
}

func (e *Engine) commit(text string) Request {
	req := Compile(text)
	if req.Invalid {
		e.logger.Warn("search: invalid filter pattern, filtering disabled", "filter", text)
	}
	e.phase.Set(Committed)
	e.requests.Set(req)
	return req
}
