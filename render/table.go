// Package render turns a projected grid page into text, Markdown or HTML.
package render

import (
	"fmt"
	"io"
	"strings"

	"github.com/mattn/go-runewidth"

	"github.com/odvcencio/furry-grid/compare"
	"github.com/odvcencio/furry-grid/pager"
)

const (
	ascendingMark  = "▲"
	descendingMark = "▼"
	columnGap      = "  "
	ellipsis       = "..."
)

// Column describes one rendered column.
type Column[T any] struct {
	Title string
	// Field is the sort field shown with a direction mark. Empty means the
	// column is not sortable.
	Field string
	Value func(T) string
	// MaxWidth caps the column in cells. Zero means no cap.
	MaxWidth int
}

// Page is a rendered snapshot of a grid.
type Page[T any] struct {
	Columns []Column[T]
	Items   []T
	Sort    compare.SortState
	Pager   pager.State
	Filter  string
}

// Lines renders the page as aligned text lines: header, rule, rows, then the
// pager info line.
func Lines[T any](p Page[T]) []string {
	headers := make([]string, len(p.Columns))
	widths := make([]int, len(p.Columns))
	for i, col := range p.Columns {
		headers[i] = header(col, p.Sort)
		widths[i] = runewidth.StringWidth(headers[i])
	}
	cells := make([][]string, len(p.Items))
	for r, item := range p.Items {
		cells[r] = make([]string, len(p.Columns))
		for i, col := range p.Columns {
			cells[r][i] = cellValue(col, item)
			widths[i] = max(widths[i], runewidth.StringWidth(cells[r][i]))
		}
	}
	for i, col := range p.Columns {
		if col.MaxWidth > 0 && widths[i] > col.MaxWidth {
			widths[i] = col.MaxWidth
		}
	}

	lines := make([]string, 0, len(p.Items)+3)
	lines = append(lines, row(headers, widths))
	rule := make([]string, len(widths))
	for i, w := range widths {
		rule[i] = strings.Repeat("─", w)
	}
	lines = append(lines, row(rule, widths))
	for _, r := range cells {
		lines = append(lines, row(r, widths))
	}
	lines = append(lines, p.Pager.Info())
	return lines
}

// Text writes Lines to w.
func Text[T any](w io.Writer, p Page[T]) error {
	for _, line := range Lines(p) {
		if _, err := fmt.Fprintln(w, line); err != nil {
			return fmt.Errorf("write table: %w", err)
		}
	}
	return nil
}

// Fit truncates s to width cells with an ellipsis, then pads it to width.
func Fit(s string, width int) string {
	if width <= 0 {
		return ""
	}
	if runewidth.StringWidth(s) > width {
		s = runewidth.Truncate(s, width, ellipsis)
	}
	return runewidth.FillRight(s, width)
}

func header[T any](col Column[T], sort compare.SortState) string {
	if col.Field == "" || sort.IsUnsorted() || sort.Field != col.Field {
		return col.Title
	}
	if sort.Direction == compare.Descending {
		return col.Title + " " + descendingMark
	}
	return col.Title + " " + ascendingMark
}

func cellValue[T any](col Column[T], item T) string {
	if col.Value == nil {
		return ""
	}
	// Cells are single line.
	return strings.Join(strings.Fields(col.Value(item)), " ")
}

func row(cells []string, widths []int) string {
	parts := make([]string, len(cells))
	for i, cell := range cells {
		parts[i] = Fit(cell, widths[i])
	}
	return strings.TrimRight(strings.Join(parts, columnGap), " ")
}
