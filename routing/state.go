// Package routing defines the serializable grid routing state and the
// route handler that keeps it in sync with navigation.
package routing

import (
	"encoding/json"
	"fmt"

	"github.com/odvcencio/furry-grid/pager"
	"github.com/odvcencio/furry-grid/search"
)

// Sort direction wire values.
const (
	DirAsc  = "asc"
	DirDesc = "desc"
)

// State is the routing snapshot of a data grid:
//
//	{ search: { filter?: string },
//	  sortBy?: string,
//	  sortDir?: 'asc' | 'desc',
//	  pager: { limit?: number, selectedPage?: number } }
//
// Absent fields mean "keep the existing value".
type State struct {
	Search  search.RoutingState `json:"search"`
	SortBy  string              `json:"sortBy,omitempty"`
	SortDir string              `json:"sortDir,omitempty"`
	Pager   pager.RoutingState  `json:"pager"`
}

// Equal compares two states by value.
func (s State) Equal(other State) bool {
	return equalPtr(s.Search.Filter, other.Search.Filter) &&
		s.SortBy == other.SortBy &&
		s.SortDir == other.SortDir &&
		equalPtr(s.Pager.Limit, other.Pager.Limit) &&
		equalPtr(s.Pager.SelectedPage, other.Pager.SelectedPage)
}

// IsZero reports whether the state carries no fields.
func (s State) IsZero() bool {
	return s.Equal(State{})
}

// Marshal encodes the state as JSON.
func Marshal(s State) ([]byte, error) {
	data, err := json.Marshal(s)
	if err != nil {
		return nil, fmt.Errorf("marshal routing state: %w", err)
	}
	return data, nil
}

// Unmarshal decodes a JSON routing state.
func Unmarshal(data []byte) (State, error) {
	var s State
	if len(data) == 0 {
		return s, nil
	}
	if err := json.Unmarshal(data, &s); err != nil {
		return State{}, fmt.Errorf("unmarshal routing state: %w", err)
	}
	return s, nil
}

// Ptr returns a pointer to v, for building optional fields.
func Ptr[T any](v T) *T {
	return &v
}

func equalPtr[T comparable](a, b *T) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return *a == *b
}
