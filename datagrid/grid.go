package datagrid

import (
	"context"
	"time"

	"go.opentelemetry.io/otel/trace"

	"github.com/odvcencio/furry-grid/compare"
	"github.com/odvcencio/furry-grid/pager"
	"github.com/odvcencio/furry-grid/search"
	"github.com/odvcencio/furry-grid/state"
)

// Config configures a Grid.
type Config[T any] struct {
	// Items is the initial collection. Nil leaves the grid unloaded until
	// SetItems or Source provides one.
	Items []T
	// Source, when set, feeds the grid's items.
	Source state.Readable[[]T]
	// Filter enables search filtering.
	Filter Filterer[T]
	// Comparer enables sorting.
	Comparer compare.Comparer[T]
	// Projector replaces the in-memory projector built from Filter and Comparer.
	Projector Projector[T]
	// DefaultDirection is used when sorting by a new field. Zero means Ascending.
	DefaultDirection compare.Direction
	PageLimit        int
	Debounce         time.Duration
	SearchDebounce   time.Duration
	// ManualSearch disables live search; filters commit only on submit.
	ManualSearch bool
	Clock        state.Clock
	Scheduler    state.Scheduler
	Executor     state.Scheduler
	Logger       state.Logger
	Tracer       trace.Tracer
}

// Grid is the data grid view-model: source items, search, sort, pager and
// the projection pipeline over them.
type Grid[T any] struct {
	items      *state.Signal[[]T]
	sort       *state.Signal[compare.SortState]
	search     *search.Engine
	pager      *pager.Pager
	pipeline   *Pipeline[T]
	projected  *state.Computed[[]T]
	canFilter  bool
	canSort    bool
	defaultDir compare.Direction

	sortAsc    *state.Command[string, compare.SortState]
	sortDesc   *state.Command[string, compare.SortState]
	toggleSort *state.Command[string, compare.SortState]

	subs *state.Subscriptions
}

// New creates a grid. With a projector and no Filter or Comparer the grid
// still reports CanFilter and CanSort, as the projector does that work.
func New[T any](cfg Config[T]) *Grid[T] {
	dir := cfg.DefaultDirection
	if dir == compare.Unsorted {
		dir = compare.Ascending
	}
	g := &Grid[T]{
		items:      state.NewSignal(cfg.Items),
		sort:       state.NewSignalWithEqual(compare.SortState{}, state.EqualComparable[compare.SortState]),
		pager:      pager.New(cfg.PageLimit),
		canFilter:  cfg.Filter != nil || cfg.Projector != nil,
		canSort:    cfg.Comparer != nil || cfg.Projector != nil,
		defaultDir: dir,
		subs:       state.NewSubscriptions(nil),
	}
	g.search = search.NewEngine(search.Config{
		Debounce:  cfg.SearchDebounce,
		Live:      !cfg.ManualSearch,
		Clock:     cfg.Clock,
		Scheduler: cfg.Scheduler,
		Logger:    cfg.Logger,
	})
	if cfg.Items != nil {
		g.pager.UpdateItemCount(len(cfg.Items))
	}

	projector := cfg.Projector
	if projector == nil {
		projector = MemoryProjector[T]{Filter: cfg.Filter, Comparer: cfg.Comparer}
	}
	g.pipeline = NewPipeline(PipelineConfig[T]{
		Source:    state.ReadOnly(g.items),
		Search:    g.search.Requests(),
		Sort:      state.ReadOnly(g.sort),
		Pager:     g.pager,
		Projector: projector,
		Debounce:  cfg.Debounce,
		Clock:     cfg.Clock,
		Scheduler: cfg.Scheduler,
		Executor:  cfg.Executor,
		Logger:    cfg.Logger,
		Tracer:    cfg.Tracer,
	})
	results := g.pipeline.Results()
	g.projected = state.NewComputed(func() []T {
		return results.Get().Items
	}, results)

	canSort := state.NewSignal(g.canSort)
	g.sortAsc = state.NewCommandWithCondition(func(ctx context.Context, field string) (compare.SortState, error) {
		return g.SetSort(compare.By(field, compare.Ascending)), nil
	}, canSort)
	g.sortDesc = state.NewCommandWithCondition(func(ctx context.Context, field string) (compare.SortState, error) {
		return g.SetSort(compare.By(field, compare.Descending)), nil
	}, canSort)
	g.toggleSort = state.NewCommandWithCondition(func(ctx context.Context, field string) (compare.SortState, error) {
		return g.toggle(field), nil
	}, canSort)

	if cfg.Source != nil {
		g.subs.Add(state.Watch(cfg.Source, g.SetItems))
		if items := cfg.Source.Get(); items != nil {
			g.SetItems(items)
		}
	}
	return g
}

// Items is the unprojected source collection.
func (g *Grid[T]) Items() state.Readable[[]T] {
	return state.ReadOnly(g.items)
}

// ProjectedItems is the current page after filter, sort and paging.
func (g *Grid[T]) ProjectedItems() state.Readable[[]T] {
	return g.projected
}

// SetItems replaces the source collection. Before the first projection the
// pager is seeded with the raw count so routed page selections survive.
func (g *Grid[T]) SetItems(items []T) {
	if items != nil && !g.pipeline.HasResult() {
		g.pager.UpdateItemCount(len(items))
	}
	g.items.Set(items)
}

// Search is the grid's search engine.
func (g *Grid[T]) Search() *search.Engine { return g.search }

// Pager is the grid's pager.
func (g *Grid[T]) Pager() *pager.Pager { return g.pager }

// Pipeline is the grid's projection pipeline.
func (g *Grid[T]) Pipeline() *Pipeline[T] { return g.pipeline }

// Sort is the current sort state.
func (g *Grid[T]) Sort() state.Readable[compare.SortState] {
	return state.ReadOnly(g.sort)
}

// SetSort replaces the sort state as one value. Ignored when sorting is disabled.
func (g *Grid[T]) SetSort(s compare.SortState) compare.SortState {
	if !g.canSort {
		return g.sort.Get()
	}
	g.sort.Set(compare.By(s.Field, s.Direction))
	return g.sort.Get()
}

// SortAscendingCommand sorts ascending by the field parameter.
func (g *Grid[T]) SortAscendingCommand() *state.Command[string, compare.SortState] {
	return g.sortAsc
}

// SortDescendingCommand sorts descending by the field parameter.
func (g *Grid[T]) SortDescendingCommand() *state.Command[string, compare.SortState] {
	return g.sortDesc
}

// ToggleSortDirectionCommand toggles the sort on the field parameter.
func (g *Grid[T]) ToggleSortDirectionCommand() *state.Command[string, compare.SortState] {
	return g.toggleSort
}

// ToggleSortDirection sorts by field in the default direction, or flips the
// direction when field is already the sort field.
func (g *Grid[T]) ToggleSortDirection(field string) compare.SortState {
	s, _ := g.toggleSort.Execute(context.Background(), field)
	return s
}

// DefaultDirection is the direction used for a newly sorted field.
func (g *Grid[T]) DefaultDirection() compare.Direction { return g.defaultDir }

// CanFilter reports whether search input filters the items.
func (g *Grid[T]) CanFilter() bool { return g.canFilter }

// CanSort reports whether the items can be sorted.
func (g *Grid[T]) CanSort() bool { return g.canSort }

// IsSortedBy reports whether the grid is sorted by field in dir.
func (g *Grid[T]) IsSortedBy(field string, dir compare.Direction) bool {
	s := g.sort.Get()
	return !s.IsUnsorted() && s.Field == field && s.Direction == dir
}

// Refresh re-projects the current items now.
func (g *Grid[T]) Refresh() {
	g.pipeline.Refresh()
}

// Stop releases subscriptions and cancels pending work.
func (g *Grid[T]) Stop() {
	g.subs.Close()
	g.search.Stop()
	g.pipeline.Stop()
	g.projected.Stop()
	g.sortAsc.Stop()
	g.sortDesc.Stop()
	g.toggleSort.Stop()
}

func (g *Grid[T]) toggle(field string) compare.SortState {
	current := g.sort.Get()
	if current.IsUnsorted() || current.Field != field {
		return g.SetSort(compare.By(field, g.defaultDir))
	}
	return g.SetSort(compare.By(field, current.Direction.Flip()))
}
