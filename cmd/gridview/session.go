package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"strings"
	"time"

	"github.com/odvcencio/furry-grid/config"
	"github.com/odvcencio/furry-grid/datagrid"
	"github.com/odvcencio/furry-grid/render"
	"github.com/odvcencio/furry-grid/routing"
	"github.com/odvcencio/furry-grid/state"
	"github.com/odvcencio/furry-grid/store"
)

const itemsPath = "/items"

var columns = []render.Column[store.Item]{
	{Title: "Name", Field: store.FieldName, Value: func(i store.Item) string { return i.Name }, MaxWidth: 32},
	{Title: "Required By", Field: store.FieldRequiredBy, Value: func(i store.Item) string { return i.RequiredBy }, MaxWidth: 24},
}

type sessionConfig struct {
	Config config.Config
	Logger *slog.Logger
	// Store switches projection to SQL. Nil projects in memory.
	Store *store.SQLite
	// Items nil leaves the grid unloaded until SetItems.
	Items []store.Item
	// Scheduler delivers state changes; Executor runs projections.
	Scheduler state.Scheduler
	Executor  state.Scheduler
	// Immediate disables debouncing for one-shot commands.
	Immediate bool
}

// session wires one grid to a router: navigation loads grid state and grid
// changes navigate.
type session struct {
	grid    *datagrid.Grid[store.Item]
	bridge  *datagrid.RoutingBridge[store.Item]
	manager *routing.Manager
	handler *routing.Handler
	unbind  func()
}

func newSession(cfg sessionConfig) *session {
	debounce, searchDebounce := immediateIfZero(cfg.Config.ProjectionDebounce), immediateIfZero(cfg.Config.SearchDebounce)
	if cfg.Immediate {
		debounce, searchDebounce = -1, -1
	}
	var logger state.Logger = state.DiscardLogger{}
	if cfg.Logger != nil {
		logger = cfg.Logger
	}
	gridCfg := datagrid.Config[store.Item]{
		Items:          cfg.Items,
		Filter:         store.Filter(),
		Comparer:       store.Comparer(),
		PageLimit:      cfg.Config.PageLimit,
		Debounce:       debounce,
		SearchDebounce: searchDebounce,
		Scheduler:      cfg.Scheduler,
		Executor:       cfg.Executor,
		Logger:         logger,
	}
	if cfg.Store != nil {
		gridCfg.Projector = cfg.Store.Projector()
	}

	s := &session{
		grid:    datagrid.New(gridCfg),
		manager: routing.NewManager(),
	}
	s.bridge = datagrid.NewRoutingBridge(s.grid, cfg.Scheduler, func(routing.State) {
		s.handler.StateChanged()
	})
	s.handler = routing.NewHandler(routing.Map{
		itemsPath: {Create: func(routing.Route) routing.Routed { return s.bridge }},
		// Unknown paths land on the item list.
		routing.DefaultRoute: {Path: itemsPath},
	}, s.manager, logger)
	s.unbind = s.handler.Bind(s.manager)
	return s
}

// immediateIfZero maps a zero configured window to the grid's "no debounce".
func immediateIfZero(d time.Duration) time.Duration {
	if d <= 0 {
		return -1
	}
	return d
}

// Navigate routes to path with st.
func (s *session) Navigate(path string, st routing.State) {
	s.manager.Navigate(path, st)
}

// Route is the current route.
func (s *session) Route() routing.Route {
	return s.manager.Current().Get()
}

// Query renders the current routing state as a query string.
func (s *session) Query() string {
	return routing.Values(s.bridge.Save()).Encode()
}

// Page snapshots the grid for rendering.
func (s *session) Page() render.Page[store.Item] {
	return render.Page[store.Item]{
		Columns: columns,
		Items:   s.grid.ProjectedItems().Get(),
		Sort:    s.grid.Sort().Get(),
		Pager:   s.grid.Pager().Get(),
		Filter:  s.grid.Search().Current().Filter,
	}
}

func (s *session) Close() {
	s.unbind()
	s.bridge.Stop()
	s.grid.Stop()
}

// requestState merges a routing query with individual flags; flags win.
func requestState(query, filter, orderBy, page, limit string) (routing.State, error) {
	values, err := url.ParseQuery(strings.TrimPrefix(query, "?"))
	if err != nil {
		return routing.State{}, fmt.Errorf("parse query: %w", err)
	}
	set := func(key, value string) {
		if value != "" {
			values.Set(key, value)
		}
	}
	set(routing.ParamFilter, filter)
	if orderBy != "" {
		values.Del(routing.ParamSortBy)
		values.Del(routing.ParamSortDir)
		values.Set(routing.ParamOrderBy, orderBy)
	}
	set(routing.ParamPage, page)
	set(routing.ParamLimit, limit)
	return routing.FromValues(values)
}

// loadItems reads the dataset and, with a store, seeds it and returns the
// stored rows.
func loadItems(ctx context.Context, dataPath string, db *store.SQLite) ([]store.Item, error) {
	items := store.Sample()
	if dataPath != "" {
		var err error
		if items, err = store.LoadYAML(dataPath); err != nil {
			return nil, err
		}
	}
	if db == nil {
		return items, nil
	}
	if _, err := db.Seed(ctx, items); err != nil {
		return nil, err
	}
	return db.List(ctx)
}
