// Package compare orders records by named fields for grid sorting.
package compare

import (
	"cmp"
	"fmt"
	"reflect"
	"slices"
	"strings"
	"sync"
	"time"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

// Direction is a sort direction. The zero value means unsorted.
type Direction int

const (
	Unsorted Direction = iota
	Ascending
	Descending
)

// String returns the routing form of the direction ("asc", "desc" or "").
func (d Direction) String() string {
	switch d {
	case Ascending:
		return "asc"
	case Descending:
		return "desc"
	default:
		return ""
	}
}

// Flip returns the opposite direction. Unsorted flips to Ascending.
func (d Direction) Flip() Direction {
	if d == Ascending {
		return Descending
	}
	return Ascending
}

// ParseDirection reads "asc"/"desc" (case-insensitive, long forms accepted).
func ParseDirection(s string) (Direction, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "asc", "ascending":
		return Ascending, true
	case "desc", "descending":
		return Descending, true
	default:
		return Unsorted, false
	}
}

// SortState pairs a field with a direction. Both set or both empty.
type SortState struct {
	Field     string
	Direction Direction
}

// IsUnsorted reports whether either half of the pair is missing.
func (s SortState) IsUnsorted() bool {
	return s.Field == "" || s.Direction == Unsorted
}

// By returns a complete sort state, or the zero state when field is empty.
func By(field string, dir Direction) SortState {
	if field == "" || dir == Unsorted {
		return SortState{}
	}
	return SortState{Field: field, Direction: dir}
}

// Comparer orders two records by field.
type Comparer[T any] interface {
	Compare(a, b T, field string, dir Direction) int
}

// ComparerFunc adapts a function into a Comparer.
type ComparerFunc[T any] func(a, b T, field string, dir Direction) int

// Compare calls f.
func (f ComparerFunc[T]) Compare(a, b T, field string, dir Direction) int {
	return f(a, b, field, dir)
}

// KeyFunc extracts a sortable key from a record.
type KeyFunc[T any] func(T) any

// FieldComparer compares records through per-field key extractors.
// Unknown fields compare equal, which leaves a stable sort in source order.
type FieldComparer[T any] struct {
	keys     map[string]KeyFunc[T]
	fallback func(field string) KeyFunc[T]

	mu       sync.Mutex
	collator *collate.Collator
}

// Option configures a FieldComparer.
type Option[T any] func(*FieldComparer[T])

// WithKey registers a key extractor for field.
func WithKey[T any](field string, key KeyFunc[T]) Option[T] {
	return func(c *FieldComparer[T]) {
		if field == "" || key == nil {
			return
		}
		c.keys[field] = key
	}
}

// WithPaths resolves unregistered fields as dotted paths by reflection.
func WithPaths[T any]() Option[T] {
	return func(c *FieldComparer[T]) {
		c.fallback = func(field string) KeyFunc[T] { return Path[T](field) }
	}
}

// WithCollator orders strings with a locale-aware collator.
func WithCollator[T any](tag language.Tag, opts ...collate.Option) Option[T] {
	return func(c *FieldComparer[T]) {
		c.collator = collate.New(tag, opts...)
	}
}

// NewFieldComparer creates a comparer from options.
func NewFieldComparer[T any](opts ...Option[T]) *FieldComparer[T] {
	c := &FieldComparer[T]{keys: make(map[string]KeyFunc[T])}
	for _, opt := range opts {
		if opt != nil {
			opt(c)
		}
	}
	return c
}

// Fields lists the registered field names in sorted order.
func (c *FieldComparer[T]) Fields() []string {
	fields := make([]string, 0, len(c.keys))
	for name := range c.keys {
		fields = append(fields, name)
	}
	slices.Sort(fields)
	return fields
}

// Compare returns -1, 0 or 1. Descending inverts the sign.
func (c *FieldComparer[T]) Compare(a, b T, field string, dir Direction) int {
	if c == nil || field == "" || dir == Unsorted {
		return 0
	}
	key := c.keys[field]
	if key == nil && c.fallback != nil {
		key = c.fallback(field)
	}
	if key == nil {
		return 0
	}
	result := c.compareValues(key(a), key(b))
	if dir == Descending {
		result = -result
	}
	return result
}

func (c *FieldComparer[T]) compareValues(a, b any) int {
	if c.collator != nil {
		as, aok := a.(string)
		bs, bok := b.(string)
		if aok && bok {
			c.mu.Lock()
			defer c.mu.Unlock()
			return sign(c.collator.CompareString(as, bs))
		}
	}
	return Values(a, b)
}

// Values compares two dynamically typed keys. nil sorts first; mismatched
// kinds fall back to comparing their formatted text.
func Values(a, b any) int {
	if a == nil || b == nil {
		switch {
		case a == nil && b == nil:
			return 0
		case a == nil:
			return -1
		default:
			return 1
		}
	}
	switch av := a.(type) {
	case string:
		if bv, ok := b.(string); ok {
			return cmp.Compare(av, bv)
		}
	case bool:
		if bv, ok := b.(bool); ok {
			return compareBool(av, bv)
		}
	case time.Time:
		if bv, ok := b.(time.Time); ok {
			return av.Compare(bv)
		}
	case fmt.Stringer:
		if bv, ok := b.(fmt.Stringer); ok {
			return cmp.Compare(av.String(), bv.String())
		}
	}
	ra, rb := reflect.ValueOf(a), reflect.ValueOf(b)
	if fa, ok := number(ra); ok {
		if fb, ok := number(rb); ok {
			return cmp.Compare(fa, fb)
		}
	}
	if ra.Kind() == reflect.String && rb.Kind() == reflect.String {
		return cmp.Compare(ra.String(), rb.String())
	}
	return cmp.Compare(fmt.Sprint(a), fmt.Sprint(b))
}

func number(v reflect.Value) (float64, bool) {
	switch v.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return float64(v.Int()), true
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return float64(v.Uint()), true
	case reflect.Float32, reflect.Float64:
		return v.Float(), true
	default:
		return 0, false
	}
}

func compareBool(a, b bool) int {
	switch {
	case a == b:
		return 0
	case !a:
		return -1
	default:
		return 1
	}
}

func sign(n int) int {
	switch {
	case n < 0:
		return -1
	case n > 0:
		return 1
	default:
		return 0
	}
}

// Sort returns a stably sorted copy of items. It returns items unchanged
// when the comparer is nil or the sort state is incomplete.
func Sort[T any](items []T, c Comparer[T], state SortState) []T {
	if c == nil || state.IsUnsorted() || len(items) < 2 {
		return items
	}
	sorted := slices.Clone(items)
	slices.SortStableFunc(sorted, func(a, b T) int {
		return c.Compare(a, b, state.Field, state.Direction)
	})
	return sorted
}
