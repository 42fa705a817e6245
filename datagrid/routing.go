package datagrid

import (
	"sync"

	"github.com/odvcencio/furry-grid/compare"
	"github.com/odvcencio/furry-grid/routing"
	"github.com/odvcencio/furry-grid/state"
)

// RoutingBridge saves and loads a grid's routing state and reports
// internal changes so a router can persist them.
type RoutingBridge[T any] struct {
	grid      *Grid[T]
	scheduler state.Scheduler
	onChange  func(routing.State)
	subs      *state.Subscriptions

	mu       sync.Mutex
	loading  bool
	notified routing.State
}

// NewRoutingBridge binds g. onChange receives each new saved state through
// scheduler (nil calls it directly); it may be nil.
func NewRoutingBridge[T any](g *Grid[T], scheduler state.Scheduler, onChange func(routing.State)) *RoutingBridge[T] {
	b := &RoutingBridge[T]{
		grid:      g,
		scheduler: scheduler,
		onChange:  onChange,
		subs:      state.NewSubscriptions(nil),
	}
	b.notified = b.Save()
	b.subs.Subscribe(g.Search().Requests(), b.changed)
	b.subs.Subscribe(g.Sort(), b.changed)
	b.subs.Subscribe(g.Pager().State(), b.changed)
	return b
}

// Save snapshots the grid, omitting values at their defaults.
func (b *RoutingBridge[T]) Save() routing.State {
	s := routing.State{
		Search: b.grid.Search().RoutingState(),
		Pager:  b.grid.Pager().RoutingState(),
	}
	if sort := b.grid.Sort().Get(); !sort.IsUnsorted() {
		s.SortBy = sort.Field
		s.SortDir = sort.Direction.String()
	}
	return s
}

// Load applies s to the grid. Absent fields keep their current values.
// A sortBy without sortDir sorts Ascending when the grid was already
// sorted, otherwise in the grid's default direction.
func (b *RoutingBridge[T]) Load(s routing.State) {
	b.mu.Lock()
	b.loading = true
	b.mu.Unlock()

	b.grid.Search().SetRoutingState(s.Search)
	if s.SortBy != "" {
		dir, ok := compare.ParseDirection(s.SortDir)
		if !ok {
			dir = b.grid.DefaultDirection()
			if !b.grid.Sort().Get().IsUnsorted() {
				dir = compare.Ascending
			}
		}
		b.grid.SetSort(compare.By(s.SortBy, dir))
	}
	b.grid.Pager().SetRoutingState(s.Pager)

	saved := b.Save()
	b.mu.Lock()
	b.loading = false
	b.notified = saved
	b.mu.Unlock()
}

// Stop detaches from the grid.
func (b *RoutingBridge[T]) Stop() {
	b.subs.Close()
}

func (b *RoutingBridge[T]) changed() {
	b.mu.Lock()
	if b.loading {
		b.mu.Unlock()
		return
	}
	b.mu.Unlock()

	saved := b.Save()
	b.mu.Lock()
	if saved.Equal(b.notified) {
		b.mu.Unlock()
		return
	}
	b.notified = saved
	b.mu.Unlock()

	if b.onChange == nil {
		return
	}
	if b.scheduler == nil {
		b.onChange(saved)
		return
	}
	b.scheduler.Schedule(func() { b.onChange(saved) })
}

var _ routing.Routed = (*RoutingBridge[int])(nil)
