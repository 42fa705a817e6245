// Package datagrid projects an item collection through search, sort and
// paging into the page a grid displays.
package datagrid

import (
	"regexp"

	"github.com/oklog/ulid/v2"

	"github.com/odvcencio/furry-grid/compare"
)

// Request is an immutable projection snapshot. ID and Seq are assigned
// when the request is issued to the projector.
type Request[T any] struct {
	ID      ulid.ULID
	Seq     uint64
	Items   []T
	Version uint64
	Filter  string
	Matcher *regexp.Regexp
	Offset  int
	// Limit 0 means the page runs to the end of the filtered items.
	Limit int
	Sort  compare.SortState
}

// Equal compares requests by identity: source version, filter, paging and sort.
// Item slices are not compared; Version changes whenever the source does.
func (r Request[T]) Equal(other Request[T]) bool {
	return r.Version == other.Version &&
		r.Filter == other.Filter &&
		(r.Matcher == nil) == (other.Matcher == nil) &&
		r.Offset == other.Offset &&
		r.Limit == other.Limit &&
		r.Sort == other.Sort
}

// Result is a projected page. Count is the number of matching items before paging.
type Result[T any] struct {
	Items []T
	Count int
}
