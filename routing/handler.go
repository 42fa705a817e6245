package routing

import (
	"regexp"
	"slices"
	"strings"
	"sync"

	"github.com/odvcencio/furry-grid/state"
)

// DefaultRoute is the routing map key used when no other route matches.
const DefaultRoute = "*"

// Route is one navigation entry.
type Route struct {
	Path  string
	State State
	// Match holds the submatches of a pattern route, if one matched.
	Match []string
}

// Routed is a view-model whose state round-trips through routing.
type Routed interface {
	Save() State
	Load(State)
}

// Activator resolves a route. An activator with a Path and no Create is a
// redirect. Path on a routed activator is a virtual path shared by every
// route it serves.
type Activator struct {
	Path   string
	Create func(Route) Routed
}

// Map maps route paths to activators. Keys starting with "^" are
// case-insensitive patterns; DefaultRoute is the fallback.
type Map map[string]Activator

// Navigator moves to a path with a routing state.
type Navigator interface {
	Navigate(path string, s State)
}

// Manager records navigation and publishes the current route.
type Manager struct {
	mu      sync.Mutex
	current *state.Signal[Route]
	history []Route
}

// NewManager creates a manager with no current route.
func NewManager() *Manager {
	return &Manager{current: state.NewSignal(Route{})}
}

// Current is the current route.
func (m *Manager) Current() state.Readable[Route] {
	return state.ReadOnly(m.current)
}

// Navigate pushes a route and publishes it.
func (m *Manager) Navigate(path string, s State) {
	route := Route{Path: path, State: s}
	m.mu.Lock()
	m.history = append(m.history, route)
	m.mu.Unlock()
	m.current.Set(route)
}

// Back returns to the previous route. It reports false when there is none.
func (m *Manager) Back() bool {
	m.mu.Lock()
	if len(m.history) < 2 {
		m.mu.Unlock()
		return false
	}
	m.history = m.history[:len(m.history)-1]
	route := m.history[len(m.history)-1]
	m.mu.Unlock()
	m.current.Set(route)
	return true
}

// History returns a copy of the navigation history, oldest first.
func (m *Manager) History() []Route {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]Route, len(m.history))
	copy(out, m.history)
	return out
}

type pattern struct {
	key string
	re  *regexp.Regexp
}

// Handler activates routed view-models for routes and pushes their state
// back to the navigator when it changes.
type Handler struct {
	mu          sync.Mutex
	routes      Map
	patterns    []pattern
	nav         Navigator
	logger      state.Logger
	current     *state.Signal[Routed]
	currentPath string
}

// NewHandler creates a handler. Pattern keys that fail to compile are
// logged and skipped.
func NewHandler(routes Map, nav Navigator, logger state.Logger) *Handler {
	h := &Handler{
		routes:  routes,
		nav:     nav,
		logger:  state.DefaultLogger(logger),
		current: state.NewSignal[Routed](nil),
	}
	for key := range routes {
		if !strings.HasPrefix(key, "^") {
			continue
		}
		re, err := regexp.Compile("(?i)" + key)
		if err != nil {
			h.logger.Warn("routing: invalid route pattern", "pattern", key, "err", err)
			continue
		}
		h.patterns = append(h.patterns, pattern{key: key, re: re})
	}
	// map iteration is random; match patterns in a stable order
	slices.SortFunc(h.patterns, func(a, b pattern) int {
		return strings.Compare(a.key, b.key)
	})
	return h
}

// Bind handles every route published by m until the returned func is called.
func (h *Handler) Bind(m *Manager) func() {
	return state.Watch(m.Current(), func(route Route) {
		h.Handle(route)
	})
}

// Current is the active routed view-model, nil when no route matched.
func (h *Handler) Current() state.Readable[Routed] {
	return state.ReadOnly(h.current)
}

// CurrentPath is the path (or virtual path) of the active view-model.
func (h *Handler) CurrentPath() string {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.currentPath
}

// Handle resolves route. A route on the current path only reloads state;
// a new path creates a fresh view-model.
func (h *Handler) Handle(route Route) {
	activator, route, ok := h.resolve(route)
	if !ok {
		h.mu.Lock()
		h.currentPath = ""
		h.mu.Unlock()
		h.current.Set(nil)
		return
	}

	if activator.Create == nil {
		if activator.Path == "" || activator.Path == route.Path {
			h.logger.Warn("routing: route has no view-model", "path", route.Path)
			return
		}
		h.logger.Debug("routing: redirect", "from", route.Path, "to", activator.Path)
		if h.nav != nil {
			h.nav.Navigate(activator.Path, route.State)
		}
		return
	}

	path := activator.Path
	if path == "" {
		path = route.Path
	}

	h.mu.Lock()
	same := path == h.currentPath && h.current.Get() != nil
	if !same {
		h.currentPath = path
	}
	h.mu.Unlock()

	if same {
		h.logger.Debug("routing: same path, updating state", "path", path)
		h.current.Get().Load(route.State)
		return
	}

	h.logger.Debug("routing: activating", "path", path)
	vm := activator.Create(route)
	if vm != nil {
		vm.Load(route.State)
	}
	h.current.Set(vm)
}

// StateChanged navigates to the current path with the active view-model's
// saved state.
func (h *Handler) StateChanged() {
	vm := h.current.Get()
	if vm == nil || h.nav == nil {
		return
	}
	h.nav.Navigate(h.CurrentPath(), vm.Save())
}

func (h *Handler) resolve(route Route) (Activator, Route, bool) {
	if activator, ok := h.routes[route.Path]; ok {
		return activator, route, true
	}
	for _, p := range h.patterns {
		if match := p.re.FindStringSubmatch(route.Path); match != nil {
			route.Match = match
			return h.routes[p.key], route, true
		}
	}
	activator, ok := h.routes[DefaultRoute]
	return activator, route, ok
}
