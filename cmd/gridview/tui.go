package main

import (
	"context"
	"fmt"
	"log/slog"
	"slices"

	"github.com/odvcencio/furry-grid/config"
	"github.com/odvcencio/furry-grid/pager"
	"github.com/odvcencio/furry-grid/render"
	"github.com/odvcencio/furry-grid/runtime"
	"github.com/odvcencio/furry-grid/scroll"
	"github.com/odvcencio/furry-grid/state"
	"github.com/odvcencio/furry-grid/store"
)

const helpLine = "/ search  n/r sort  ←/→ page  ↑/↓ scroll  L limit  b back  g reload  q quit"

// itemsLoadedMsg carries the dataset loaded in the background.
type itemsLoadedMsg struct {
	runtime.Custom
	items []store.Item
	err   error
}

type inputMode int

const (
	modeBrowse inputMode = iota
	modeFilter
)

// view is the interactive grid: it maps keys onto grid commands and
// renders the current page as lines.
type view struct {
	session  *session
	viewport *scroll.Viewport
	mode     inputMode
	input    []rune
	prior    string
	status   string
}

func newView(s *session) *view {
	return &view{session: s, viewport: scroll.NewViewport()}
}

func (v *view) update(loop *runtime.Loop, msg runtime.Message) bool {
	switch m := msg.(type) {
	case itemsLoadedMsg:
		if m.err != nil {
			v.status = "load failed: " + m.err.Error()
			return true
		}
		v.session.grid.SetItems(m.items)
		v.status = fmt.Sprintf("loaded %d items", len(m.items))
		return true
	case runtime.KeyMsg:
		if v.mode == modeFilter {
			return v.filterKey(m)
		}
		return v.browseKey(loop, m)
	}
	return runtime.DefaultUpdate(loop, msg)
}

func (v *view) browseKey(loop *runtime.Loop, k runtime.KeyMsg) bool {
	ctx := context.Background()
	grid := v.session.grid
	ps := grid.Pager().Get()
	v.status = ""
	switch {
	case k.Key == runtime.KeyCtrlC || k.Key == runtime.KeyEscape || k.Rune == 'q':
		loop.ExecuteCommand(runtime.Quit{})
		return false
	case k.Rune == '/':
		if !grid.CanFilter() {
			return false
		}
		v.mode = modeFilter
		v.prior = grid.Search().Filter().Get()
		v.input = []rune(v.prior)
	case k.Key == runtime.KeyUp || k.Rune == 'k':
		v.viewport.ScrollBy(0, -1)
	case k.Key == runtime.KeyDown || k.Rune == 'j':
		v.viewport.ScrollBy(0, 1)
	case k.Rune == ' ':
		v.viewport.PageBy(1)
	case k.Rune == 'n':
		v.run(grid.ToggleSortDirectionCommand().Execute(ctx, store.FieldName))
	case k.Rune == 'r':
		v.run(grid.ToggleSortDirectionCommand().Execute(ctx, store.FieldRequiredBy))
	case k.Key == runtime.KeyRight || k.Key == runtime.KeyPageDown || k.Rune == 'l':
		v.selectPage(ps.SelectedPage + 1)
	case k.Key == runtime.KeyLeft || k.Key == runtime.KeyPageUp || k.Rune == 'h':
		v.selectPage(ps.SelectedPage - 1)
	case k.Key == runtime.KeyHome:
		v.selectPage(1)
	case k.Key == runtime.KeyEnd:
		v.selectPage(ps.PageCount)
	case k.Rune == 'L':
		grid.Pager().SetLimit(nextLimit(ps.Limit))
	case k.Rune == 'b':
		if !v.session.manager.Back() {
			v.status = "no history"
		}
	case k.Rune == 'g':
		grid.Refresh()
	default:
		return false
	}
	return true
}

func (v *view) filterKey(k runtime.KeyMsg) bool {
	search := v.session.grid.Search()
	switch k.Key {
	case runtime.KeyEnter:
		v.mode = modeBrowse
		v.run(search.SubmitCommand().Execute(context.Background(), struct{}{}))
		return true
	case runtime.KeyEscape:
		v.mode = modeBrowse
		search.Apply(v.prior)
		return true
	case runtime.KeyBackspace:
		if len(v.input) == 0 {
			return false
		}
		v.input = v.input[:len(v.input)-1]
	case runtime.KeyRune:
		v.input = append(v.input, k.Rune)
	default:
		return false
	}
	search.SetFilter(string(v.input))
	return true
}

func (v *view) selectPage(page int) {
	v.viewport.ScrollToStart()
	v.run(v.session.grid.Pager().SelectPageCommand().Execute(context.Background(), page))
}

func (v *view) run(_ any, err error) {
	if err != nil {
		v.status = err.Error()
	}
}

// nextLimit cycles through the standard page sizes.
func nextLimit(current int) int {
	i := slices.Index(pager.StandardLimits, current)
	return pager.StandardLimits[(i+1)%len(pager.StandardLimits)]
}

// lines renders the screen content for a terminal of the given size. The
// title and footer stay put; the table scrolls between them. A zero height
// renders everything.
func (v *view) lines(width, height int) []string {
	grid := v.session.grid
	title := "Items  " + v.session.Route().Path
	if q := v.session.Query(); q != "" {
		title += "?" + q
	}
	if grid.Pipeline().IsLoading().Get() {
		title += "  (loading)"
	}
	body := []string{"", "Loading..."}
	if grid.Items().Get() != nil {
		body = render.Lines(v.session.Page())
	}

	footer := helpLine
	switch {
	case v.mode == modeFilter:
		footer = "search: " + string(v.input) + "_"
	case grid.Pipeline().HasError().Get():
		footer = "error: " + grid.Pipeline().Err().Get().Error()
	case v.status != "":
		footer = v.status
	}
	if height > 0 {
		v.viewport.SetViewSize(scroll.Size{Width: width, Height: max(height-2, 0)})
		v.viewport.Fit(body)
		body = v.viewport.Window(body)
	}
	out := append([]string{title}, body...)
	return append(out, footer)
}

func runTUI(ctx context.Context, cfg config.Config, logger *slog.Logger, opts options) error {
	st, err := requestState(opts.Query, opts.Filter, opts.Sort, opts.Page, opts.Limit)
	if err != nil {
		return err
	}
	db, err := openStore(cfg.DBPath)
	if err != nil {
		return err
	}
	if db != nil {
		defer db.Close()
	}

	term, err := newTerminal()
	if err != nil {
		return err
	}
	var v *view
	loop := runtime.NewLoop(runtime.LoopConfig{
		Backend: term,
		Render:  func() { term.draw(v.lines(term.size())) },
		Update:  func(l *runtime.Loop, msg runtime.Message) bool { return v.update(l, msg) },
		// search commit, projection and pager feedback settle in one frame
		FlushRounds: 4,
		Logger:      logger,
	})
	s := newSession(sessionConfig{
		Config:    cfg,
		Logger:    logger,
		Store:     db,
		Scheduler: loop.StateScheduler(),
		Executor:  state.AsyncScheduler{},
	})
	defer s.Close()
	v = newView(s)

	// Every state change lands on the loop; a render follows each flush.
	s.Navigate(itemsPath, st)
	loop.Spawn(runtime.Task(func(ctx context.Context) runtime.Message {
		items, err := loadItems(ctx, cfg.DataPath, db)
		return itemsLoadedMsg{items: items, err: err}
	}))
	return loop.Run(ctx)
}
