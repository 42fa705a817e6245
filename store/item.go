// Package store holds the sample grid record and the places it is loaded
// from: YAML datasets and a SQLite table.
package store

import (
	"strings"

	"github.com/odvcencio/furry-grid/compare"
	"github.com/odvcencio/furry-grid/datagrid"
)

// Sort fields understood by Comparer and the SQL projector.
const (
	FieldID         = "id"
	FieldName       = "name"
	FieldRequiredBy = "requiredBy"
)

// Fields lists the sortable fields in column order.
var Fields = []string{FieldName, FieldRequiredBy}

// Item is one grid row.
type Item struct {
	ID         int64  `yaml:"id,omitempty" json:"id,omitempty"`
	Name       string `yaml:"name" json:"name"`
	RequiredBy string `yaml:"requiredBy" json:"requiredBy"`
}

// Text is the searchable form of the item.
func (i Item) Text() string {
	return i.Name + " " + i.RequiredBy
}

// Filter matches items against the committed search, ignoring whitespace.
func Filter() datagrid.Filterer[Item] {
	return datagrid.TextFilterer(Item.Text)
}

// Comparer sorts items by name, requiredBy or id.
func Comparer() *compare.FieldComparer[Item] {
	return compare.NewFieldComparer(
		compare.WithKey(FieldID, func(i Item) any { return i.ID }),
		compare.WithKey(FieldName, func(i Item) any { return i.Name }),
		compare.WithKey(FieldRequiredBy, func(i Item) any { return i.RequiredBy }),
	)
}

// Sample returns the demo dataset.
func Sample() []Item {
	return []Item{
		{ID: 1, Name: "test 1", RequiredBy: "now"},
		{ID: 2, Name: "test 2", RequiredBy: "tomorrow"},
		{ID: 3, Name: "test 3", RequiredBy: "yesterday"},
		{ID: 4, Name: "test 4", RequiredBy: "test4"},
		{ID: 5, Name: "test 5", RequiredBy: "test5"},
		{ID: 6, Name: "test 6", RequiredBy: "test6"},
		{ID: 7, Name: "test 7", RequiredBy: "test7"},
		{ID: 8, Name: "test 8", RequiredBy: "test8"},
		{ID: 9, Name: "test 9", RequiredBy: "test9"},
		{ID: 10, Name: "test 10", RequiredBy: "test10"},
		{ID: 11, Name: "test 11", RequiredBy: "test11"},
	}
}

func normalize(items []Item) []Item {
	out := make([]Item, 0, len(items))
	for _, item := range items {
		item.Name = strings.TrimSpace(item.Name)
		item.RequiredBy = strings.TrimSpace(item.RequiredBy)
		if item.Name == "" {
			continue
		}
		out = append(out, item)
	}
	return out
}
