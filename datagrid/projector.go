package datagrid

import (
	"context"
	"regexp"
	"strings"

	"github.com/odvcencio/furry-grid/compare"
)

// Projector turns a request into a page. Implementations may block on I/O
// and should honour ctx cancellation.
type Projector[T any] interface {
	Project(ctx context.Context, req Request[T]) (Result[T], error)
}

// ProjectorFunc adapts a function into a Projector.
type ProjectorFunc[T any] func(ctx context.Context, req Request[T]) (Result[T], error)

// Project calls f.
func (f ProjectorFunc[T]) Project(ctx context.Context, req Request[T]) (Result[T], error) {
	return f(ctx, req)
}

// Filterer reports whether item matches the committed search pattern.
type Filterer[T any] func(item T, matcher *regexp.Regexp) bool

// TextFilterer matches the pattern against text(item) with whitespace removed,
// so "test1" finds "test 1" and "test 10".
func TextFilterer[T any](text func(T) string) Filterer[T] {
	return func(item T, matcher *regexp.Regexp) bool {
		return matcher.MatchString(strings.Join(strings.Fields(text(item)), ""))
	}
}

// MemoryProjector filters, sorts and pages an in-memory slice.
// A nil Filter disables filtering; a nil Comparer disables sorting.
type MemoryProjector[T any] struct {
	Filter   Filterer[T]
	Comparer compare.Comparer[T]
}

// Project applies filter, then stable sort, then the page window.
func (p MemoryProjector[T]) Project(ctx context.Context, req Request[T]) (Result[T], error) {
	if err := ctx.Err(); err != nil {
		return Result[T]{}, err
	}
	items := req.Items
	if p.Filter != nil && req.Matcher != nil {
		filtered := make([]T, 0, len(items))
		for _, item := range items {
			if p.Filter(item, req.Matcher) {
				filtered = append(filtered, item)
			}
		}
		items = filtered
	}
	items = compare.Sort(items, p.Comparer, req.Sort)
	return Result[T]{Items: Page(items, req.Offset, req.Limit), Count: len(items)}, nil
}

// Page returns the window [offset, offset+limit) of items, or [offset, end)
// when limit is 0. Out of range windows are clamped.
func Page[T any](items []T, offset, limit int) []T {
	if offset < 0 {
		offset = 0
	}
	if offset >= len(items) {
		return []T{}
	}
	end := len(items)
	if limit > 0 && offset+limit < end {
		end = offset + limit
	}
	out := make([]T, end-offset)
	copy(out, items[offset:end])
	return out
}
