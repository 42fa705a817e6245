// Package pager tracks offset/limit paging over a counted item set.
package pager

import (
	"context"
	"fmt"
	"sync"

	"github.com/odvcencio/furry-grid/state"
)

// StandardLimits are the page sizes offered by a limit picker. 0 means all items.
var StandardLimits = []int{10, 25, 0}

// EmptyInfo is the info text shown when there is nothing to page.
const EmptyInfo = "No Items to Display"

// State is a consistent paging snapshot. Limit 0 means unlimited.
type State struct {
	ItemCount    int
	Limit        int
	Offset       int
	PageCount    int
	SelectedPage int
}

// Normalize recomputes the derived fields so the invariants hold:
// PageCount = max(1, ceil(ItemCount/Limit)) (1 when unlimited),
// SelectedPage in [1, PageCount], Offset = (SelectedPage-1)*Limit.
func (s State) Normalize() State {
	if s.ItemCount < 0 {
		s.ItemCount = 0
	}
	if s.Limit < 0 {
		s.Limit = 0
	}
	s.PageCount = PageCount(s.ItemCount, s.Limit)
	if s.SelectedPage < 1 {
		s.SelectedPage = 1
	}
	if s.SelectedPage > s.PageCount {
		s.SelectedPage = s.PageCount
	}
	if s.Limit == 0 {
		s.Offset = 0
	} else {
		s.Offset = (s.SelectedPage - 1) * s.Limit
	}
	return s
}

// PageCount returns the number of pages for count items, never less than 1.
func PageCount(count, limit int) int {
	if limit <= 0 || count <= 0 {
		return 1
	}
	return (count + limit - 1) / limit
}

// Info describes the visible range, e.g. "Showing Items 1 through 10 of 25".
func (s State) Info() string {
	if s.ItemCount == 0 {
		return EmptyInfo
	}
	end := s.ItemCount
	if s.Limit > 0 && s.Offset+s.Limit < end {
		end = s.Offset + s.Limit
	}
	return fmt.Sprintf("Showing Items %d through %d of %d", s.Offset+1, end, s.ItemCount)
}

// RoutingState is the pager slice of the routing contract.
type RoutingState struct {
	Limit        *int `json:"limit,omitempty"`
	SelectedPage *int `json:"selectedPage,omitempty"`
}

// Pager owns paging state. Writes that leave the state unchanged do not notify.
type Pager struct {
	state        *state.Signal[State]
	selectPage   *state.Command[int, State]
	defaultLimit int

	mu sync.Mutex
	// requested is a routed page that did not fit the item count known at
	// the time. The next UpdateItemCount re-applies it.
	requested int
}

// New creates a pager on page 1 with the given default limit.
func New(limit int) *Pager {
	initial := State{Limit: limit, SelectedPage: 1}.Normalize()
	p := &Pager{
		state:        state.NewSignalWithEqual(initial, state.EqualComparable[State]),
		defaultLimit: initial.Limit,
	}
	p.selectPage = state.NewCommand(func(ctx context.Context, page int) (State, error) {
		return p.SelectPage(page), nil
	})
	return p
}

// State exposes the paging snapshot.
func (p *Pager) State() state.Readable[State] {
	return state.ReadOnly(p.state)
}

// Get returns the current snapshot.
func (p *Pager) Get() State {
	return p.state.Get()
}

// DefaultLimit is the limit the pager was created with.
func (p *Pager) DefaultLimit() int {
	return p.defaultLimit
}

// SelectPageCommand selects a page when executed.
func (p *Pager) SelectPageCommand() *state.Command[int, State] {
	return p.selectPage
}

// UpdateItemCount sets the item count, clamping the selected page if needed.
// A routed page still waiting for its items is selected first.
func (p *Pager) UpdateItemCount(n int) State {
	requested := p.takeRequested()
	return p.update(func(s State) State {
		s.ItemCount = n
		if requested > 0 {
			s.SelectedPage = requested
		}
		return s
	})
}

// SelectPage selects page, clamped to [1, PageCount].
func (p *Pager) SelectPage(page int) State {
	p.takeRequested()
	return p.update(func(s State) State {
		s.SelectedPage = page
		return s
	})
}

// SetLimit changes the page size, keeping the selected page where possible.
func (p *Pager) SetLimit(limit int) State {
	p.takeRequested()
	return p.update(func(s State) State {
		s.Limit = limit
		return s
	})
}

// RoutingState returns the routing snapshot, omitting default values. A
// routed page waiting for its items is reported as selected.
func (p *Pager) RoutingState() RoutingState {
	s := p.Get()
	if requested := p.Requested(); requested > 0 {
		s.SelectedPage = requested
	}
	var rs RoutingState
	if s.Limit != p.defaultLimit {
		limit := s.Limit
		rs.Limit = &limit
	}
	if s.SelectedPage != 1 {
		page := s.SelectedPage
		rs.SelectedPage = &page
	}
	return rs
}

// SetRoutingState applies limit then page. Absent fields keep current values.
// A page beyond the current item count is clamped for now and selected
// again by the next UpdateItemCount, when the items it refers to are known.
func (p *Pager) SetRoutingState(rs RoutingState) {
	requested := 0
	if rs.SelectedPage != nil && *rs.SelectedPage > 1 {
		requested = *rs.SelectedPage
	}
	if rs.SelectedPage != nil {
		p.mu.Lock()
		p.requested = requested
		p.mu.Unlock()
	}
	s := p.update(func(s State) State {
		if rs.Limit != nil {
			s.Limit = *rs.Limit
		}
		if rs.SelectedPage != nil {
			s.SelectedPage = *rs.SelectedPage
		}
		return s
	})
	if requested > 0 && s.SelectedPage == requested {
		p.mu.Lock()
		if p.requested == requested {
			p.requested = 0
		}
		p.mu.Unlock()
	}
}

// Requested is the routed page waiting for an item count, or 0.
func (p *Pager) Requested() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.requested
}

func (p *Pager) takeRequested() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	requested := p.requested
	p.requested = 0
	return requested
}

func (p *Pager) update(fn func(State) State) State {
	p.state.Update(func(s State) State {
		return fn(s).Normalize()
	})
	return p.state.Get()
}
