package datagrid

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/odvcencio/furry-grid/compare"
	"github.com/odvcencio/furry-grid/pager"
	"github.com/odvcencio/furry-grid/routing"
	"github.com/odvcencio/furry-grid/search"
	"github.com/odvcencio/furry-grid/state"
)

type row struct {
	Name  string
	Value int
}

func rows(n int) []row {
	out := make([]row, n)
	for i := range out {
		out[i] = row{Name: fmt.Sprintf("test %d", i+1), Value: i + 1}
	}
	return out
}

func newRowGrid(items []row, limit int) *Grid[row] {
	return New(Config[row]{
		Items:  items,
		Filter: TextFilterer(func(r row) string { return r.Name }),
		Comparer: compare.NewFieldComparer(
			compare.WithKey("name", func(r row) any { return r.Name }),
			compare.WithKey("value", func(r row) any { return r.Value }),
		),
		PageLimit:      limit,
		Debounce:       -1,
		SearchDebounce: -1,
		Logger:         state.DiscardLogger{},
	})
}

func names(items []row) []string {
	out := make([]string, len(items))
	for i, r := range items {
		out[i] = r.Name
	}
	return out
}

func TestGrid_FilterScenario(t *testing.T) {
	g := newRowGrid(rows(11), 3)
	defer g.Stop()

	g.Search().Apply("test1")
	res := g.Pipeline().Results().Get()
	if res.Count != 3 {
		t.Fatalf("expected 3 matches, got %d", res.Count)
	}
	got := names(g.ProjectedItems().Get())
	want := []string{"test 1", "test 10", "test 11"}
	if fmt.Sprint(got) != fmt.Sprint(want) {
		t.Fatalf("expected %v, got %v", want, got)
	}
	if s := g.Pager().Get(); s.ItemCount != 3 || s.PageCount != 1 {
		t.Fatalf("expected pager fed back to 3 items on 1 page, got %+v", s)
	}
	if len(g.Items().Get()) != 11 {
		t.Fatalf("expected source items untouched")
	}
}

func TestGrid_FilterEmptiness(t *testing.T) {
	g := newRowGrid(rows(11), 0)
	defer g.Stop()

	for _, filter := range []string{"", "   "} {
		req := g.Search().Apply(filter)
		if req.Matcher != nil {
			t.Fatalf("expected nil matcher for %q", filter)
		}
		if got := g.Pipeline().Results().Get(); got.Count != 11 || len(got.Items) != 11 {
			t.Fatalf("expected unfiltered result for %q, got count %d", filter, got.Count)
		}
	}
}

func TestGrid_InvalidPatternFiltersNothing(t *testing.T) {
	g := newRowGrid(rows(4), 0)
	defer g.Stop()

	req := g.Search().Apply("test(")
	if !req.Invalid {
		t.Fatalf("expected invalid pattern to be flagged")
	}
	if got := g.Pipeline().Results().Get(); got.Count != 4 {
		t.Fatalf("expected invalid pattern to leave items unfiltered, got %d", got.Count)
	}
}

func TestGrid_SortScenario(t *testing.T) {
	g := New(Config[int]{
		Items:    []int{3, 1, 2},
		Comparer: compare.NewFieldComparer(compare.WithKey("value", func(v int) any { return v })),
		Debounce: -1,
		Logger:   state.DiscardLogger{},
	})
	defer g.Stop()

	if got := fmt.Sprint(g.ProjectedItems().Get()); got != "[3 1 2]" {
		t.Fatalf("expected source order while unsorted, got %s", got)
	}
	g.ToggleSortDirection("value")
	if got := fmt.Sprint(g.ProjectedItems().Get()); got != "[1 2 3]" {
		t.Fatalf("expected ascending, got %s", got)
	}
	g.ToggleSortDirection("value")
	if got := fmt.Sprint(g.ProjectedItems().Get()); got != "[3 2 1]" {
		t.Fatalf("expected descending, got %s", got)
	}
}

func TestGrid_ToggleSortDirection(t *testing.T) {
	g := newRowGrid(rows(3), 0)
	defer g.Stop()

	start := g.ToggleSortDirection("name")
	if start != compare.By("name", compare.Ascending) {
		t.Fatalf("expected default ascending, got %+v", start)
	}
	g.ToggleSortDirection("name")
	if back := g.ToggleSortDirection("name"); back != start {
		t.Fatalf("expected two toggles to restore %+v, got %+v", start, back)
	}

	g.SortDescendingCommand().Execute(context.Background(), "name")
	if s := g.ToggleSortDirection("value"); s != compare.By("value", compare.Ascending) {
		t.Fatalf("expected new field to reset to default, got %+v", s)
	}
	if !g.IsSortedBy("value", compare.Ascending) || g.IsSortedBy("name", compare.Descending) {
		t.Fatalf("unexpected IsSortedBy results")
	}

	desc := New(Config[row]{
		Comparer:         compare.NewFieldComparer[row](),
		DefaultDirection: compare.Descending,
		Logger:           state.DiscardLogger{},
	})
	defer desc.Stop()
	if s := desc.ToggleSortDirection("name"); s.Direction != compare.Descending {
		t.Fatalf("expected configured default direction, got %+v", s)
	}
}

func TestGrid_CapabilityFlags(t *testing.T) {
	g := New(Config[int]{Items: []int{2, 1}, Debounce: -1, Logger: state.DiscardLogger{}})
	defer g.Stop()

	if g.CanFilter() || g.CanSort() {
		t.Fatalf("expected filtering and sorting disabled")
	}
	if _, err := g.SortAscendingCommand().Execute(context.Background(), "value"); !errors.Is(err, state.ErrCannotExecute) {
		t.Fatalf("expected sort command to be disabled, got %v", err)
	}
	if !g.Sort().Get().IsUnsorted() {
		t.Fatalf("expected grid to stay unsorted")
	}
	g.Search().Apply("2")
	if got := g.Pipeline().Results().Get(); got.Count != 2 {
		t.Fatalf("expected search to be ignored without a filterer, got %d", got.Count)
	}
}

func TestGrid_ItemCountFeedbackClampsPage(t *testing.T) {
	g := newRowGrid(rows(25), 10)
	defer g.Stop()

	g.Pager().SelectPage(3)
	if got := g.Pipeline().Results().Get(); len(got.Items) != 5 || got.Items[0].Name != "test 21" {
		t.Fatalf("expected last page of 5, got %v", names(got.Items))
	}

	g.Search().Apply("test1")
	s := g.Pager().Get()
	if s.ItemCount != 11 || s.PageCount != 2 || s.SelectedPage != 2 || s.Offset != 10 {
		t.Fatalf("expected clamp to page 2 of 2, got %+v", s)
	}
	got := names(g.ProjectedItems().Get())
	if len(got) != 1 || got[0] != "test 19" {
		t.Fatalf("expected converged page [test 19], got %v", got)
	}
}

func TestGrid_SetItemsReprojects(t *testing.T) {
	g := New(Config[row]{PageLimit: 2, Debounce: -1, Logger: state.DiscardLogger{}})
	defer g.Stop()

	if g.Pipeline().HasResult() {
		t.Fatalf("expected no projection before items load")
	}
	g.SetItems(rows(5))
	if got := g.Pipeline().Results().Get(); got.Count != 5 || len(got.Items) != 2 {
		t.Fatalf("expected first page of loaded items, got %+v", got)
	}
}

func TestGrid_ExternalSource(t *testing.T) {
	source := state.NewSignal(rows(2))
	g := New(Config[row]{Source: state.ReadOnly(source), Debounce: -1, Logger: state.DiscardLogger{}})
	defer g.Stop()

	source.Set(rows(4))
	if got := g.Pipeline().Results().Get(); got.Count != 4 {
		t.Fatalf("expected source changes to flow into the grid, got %d", got.Count)
	}
}

func TestRoutingBridge_RoundTrip(t *testing.T) {
	g := newRowGrid(rows(11), 3)
	defer g.Stop()
	b := NewRoutingBridge(g, nil, nil)
	defer b.Stop()

	g.Search().Apply("test")
	g.ToggleSortDirection("name")
	g.ToggleSortDirection("name")
	g.Pager().SelectPage(2)
	saved := b.Save()

	data, err := routing.Marshal(saved)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if string(data) != `{"search":{"filter":"test"},"sortBy":"name","sortDir":"desc","pager":{"selectedPage":2}}` {
		t.Fatalf("unexpected routing state %s", data)
	}

	fresh := newRowGrid(rows(11), 3)
	defer fresh.Stop()
	fb := NewRoutingBridge(fresh, nil, nil)
	defer fb.Stop()
	fb.Load(saved)

	if fresh.Search().Current().Filter != "test" {
		t.Fatalf("expected filter restored, got %q", fresh.Search().Current().Filter)
	}
	if !fresh.IsSortedBy("name", compare.Descending) {
		t.Fatalf("expected sort restored, got %+v", fresh.Sort().Get())
	}
	if s := fresh.Pager().Get(); s.SelectedPage != 2 || s.Limit != 3 {
		t.Fatalf("expected pager restored, got %+v", s)
	}
	if !fb.Save().Equal(saved) {
		t.Fatalf("expected save after load to reproduce the state")
	}
}

func TestRoutingBridge_DefaultsOmitted(t *testing.T) {
	g := newRowGrid(rows(4), 3)
	defer g.Stop()
	b := NewRoutingBridge(g, nil, nil)
	defer b.Stop()

	if s := b.Save(); !s.IsZero() {
		t.Fatalf("expected empty routing state, got %+v", s)
	}
}

func TestRoutingBridge_MissingDirection(t *testing.T) {
	g := New(Config[row]{
		Items:            rows(3),
		Comparer:         compare.NewFieldComparer[row](compare.WithPaths[row]()),
		DefaultDirection: compare.Descending,
		Debounce:         -1,
		Logger:           state.DiscardLogger{},
	})
	defer g.Stop()
	b := NewRoutingBridge(g, nil, nil)
	defer b.Stop()

	b.Load(routing.State{SortBy: "Name"})
	if !g.IsSortedBy("Name", compare.Descending) {
		t.Fatalf("expected grid default on first sort, got %+v", g.Sort().Get())
	}
	b.Load(routing.State{SortBy: "Value"})
	if !g.IsSortedBy("Value", compare.Ascending) {
		t.Fatalf("expected ascending when a direction existed, got %+v", g.Sort().Get())
	}
	b.Load(routing.State{})
	if !g.IsSortedBy("Value", compare.Ascending) {
		t.Fatalf("expected absent sort to keep the current one")
	}
}

func TestRoutingBridge_NotifiesInternalChanges(t *testing.T) {
	g := newRowGrid(rows(11), 3)
	defer g.Stop()
	queue := state.NewQueue()
	var changes []routing.State
	b := NewRoutingBridge(g, queue, func(s routing.State) { changes = append(changes, s) })
	defer b.Stop()

	g.ToggleSortDirection("value")
	g.Pager().SelectPage(2)
	if len(changes) != 0 {
		t.Fatalf("expected notifications to wait for the scheduler")
	}
	queue.Flush()
	if len(changes) != 2 {
		t.Fatalf("expected 2 notifications, got %d", len(changes))
	}
	if changes[0].SortBy != "value" || changes[1].Pager.SelectedPage == nil {
		t.Fatalf("unexpected notifications %+v", changes)
	}

	page := 3
	b.Load(routing.State{Pager: pager.RoutingState{SelectedPage: &page}})
	g.Pager().UpdateItemCount(11)
	queue.Flush()
	if len(changes) != 2 {
		t.Fatalf("expected loads and unchanged state to stay silent, got %d", len(changes))
	}
}

func TestRoutingBridge_LoadBeforeSourceArrives(t *testing.T) {
	source := state.NewSignal[[]row](nil)
	g := New(Config[row]{
		Source:    state.ReadOnly(source),
		Filter:    TextFilterer(func(r row) string { return r.Name }),
		PageLimit: 3,
		Debounce:  -1,
		Logger:    state.DiscardLogger{},
	})
	defer g.Stop()
	notified := 0
	b := NewRoutingBridge(g, nil, func(routing.State) { notified++ })
	defer b.Stop()

	b.Load(routing.State{Pager: pager.RoutingState{SelectedPage: routing.Ptr(2)}})
	if saved := b.Save(); saved.Pager.SelectedPage == nil || *saved.Pager.SelectedPage != 2 {
		t.Fatalf("expected save before load to keep page 2, got %+v", saved.Pager)
	}

	source.Set(rows(11))
	if s := g.Pager().Get(); s.SelectedPage != 2 || s.Offset != 3 {
		t.Fatalf("expected page 2 restored once items arrive, got %+v", s)
	}
	if got := names(g.ProjectedItems().Get()); fmt.Sprint(got) != "[test 4 test 5 test 6]" {
		t.Fatalf("expected second page, got %v", got)
	}
	if notified != 0 {
		t.Fatalf("expected no state change echoed for the restored page, got %d", notified)
	}
}

func TestRoutingBridge_LoadFilterAndPageTogether(t *testing.T) {
	clock := state.NewManualClock(time.Unix(0, 0))
	g := New(Config[row]{
		Items:     rows(11),
		Filter:    TextFilterer(func(r row) string { return r.Name }),
		PageLimit: 3,
		Clock:     clock,
		Logger:    state.DiscardLogger{},
	})
	defer g.Stop()
	b := NewRoutingBridge(g, nil, nil)
	defer b.Stop()
	clock.Advance(DefaultDebounce)

	g.Search().Apply("test1")
	clock.Advance(DefaultDebounce)
	if s := g.Pager().Get(); s.ItemCount != 3 || s.PageCount != 1 {
		t.Fatalf("expected filtered count 3, got %+v", s)
	}

	b.Load(routing.State{
		Search: search.RoutingState{Filter: routing.Ptr("")},
		Pager:  pager.RoutingState{SelectedPage: routing.Ptr(3)},
	})
	clock.Advance(DefaultDebounce)
	if s := g.Pager().Get(); s.ItemCount != 11 || s.SelectedPage != 3 {
		t.Fatalf("expected page 3 of the unfiltered items, got %+v", s)
	}
	clock.Advance(DefaultDebounce)
	if got := names(g.ProjectedItems().Get()); fmt.Sprint(got) != "[test 7 test 8 test 9]" {
		t.Fatalf("expected third page, got %v", got)
	}
}
