// Package scroll tracks the visible window over rendered lines.
package scroll

import (
	"image"

	"github.com/mattn/go-runewidth"
)

// Size is a width and height in terminal cells.
type Size struct {
	Width  int
	Height int
}

// Controller provides scroll control.
type Controller interface {
	ScrollBy(dx, dy int)
	ScrollTo(x, y int)
	PageBy(pages int)
	ScrollToStart()
	ScrollToEnd()
}

// Viewport tracks the visible region of scrollable content.
type Viewport struct {
	offset      image.Point
	contentSize Size
	viewSize    Size
	onChange    func(offset image.Point)
}

var _ Controller = (*Viewport)(nil)

// NewViewport creates a viewport at the origin.
func NewViewport() *Viewport {
	return &Viewport{}
}

// SetContentSize updates the content size and clamps the offset.
func (v *Viewport) SetContentSize(size Size) {
	if v == nil {
		return
	}
	v.contentSize = size
	v.SetOffset(v.offset.X, v.offset.Y)
}

// ContentSize returns the content size.
func (v *Viewport) ContentSize() Size {
	if v == nil {
		return Size{}
	}
	return v.contentSize
}

// SetViewSize updates the view size and clamps the offset.
func (v *Viewport) SetViewSize(size Size) {
	if v == nil {
		return
	}
	v.viewSize = size
	v.SetOffset(v.offset.X, v.offset.Y)
}

// ViewSize returns the view size.
func (v *Viewport) ViewSize() Size {
	if v == nil {
		return Size{}
	}
	return v.viewSize
}

// Offset returns the current offset.
func (v *Viewport) Offset() image.Point {
	if v == nil {
		return image.Point{}
	}
	return v.offset
}

// SetOnChange sets a callback for offset updates.
func (v *Viewport) SetOnChange(fn func(offset image.Point)) {
	if v == nil {
		return
	}
	v.onChange = fn
}

// SetOffset sets the scroll offset.
func (v *Viewport) SetOffset(x, y int) {
	if v == nil {
		return
	}
	next := clampOffset(image.Point{X: x, Y: y}, v.contentSize, v.viewSize)
	if next == v.offset {
		return
	}
	v.offset = next
	if v.onChange != nil {
		v.onChange(v.offset)
	}
}

// ScrollBy adjusts the offset.
func (v *Viewport) ScrollBy(dx, dy int) {
	if v == nil {
		return
	}
	v.SetOffset(v.offset.X+dx, v.offset.Y+dy)
}

// ScrollTo scrolls to absolute coordinates.
func (v *Viewport) ScrollTo(x, y int) {
	v.SetOffset(x, y)
}

// PageBy scrolls vertically by whole view heights.
func (v *Viewport) PageBy(pages int) {
	if v == nil {
		return
	}
	v.ScrollBy(0, pages*max(v.viewSize.Height, 1))
}

// ScrollToStart returns to the top-left corner.
func (v *Viewport) ScrollToStart() {
	v.SetOffset(0, 0)
}

// ScrollToEnd scrolls to the last line, keeping the horizontal offset.
func (v *Viewport) ScrollToEnd() {
	if v == nil {
		return
	}
	v.SetOffset(v.offset.X, v.MaxOffset().Y)
}

// MaxOffset returns the maximum scrollable offset.
func (v *Viewport) MaxOffset() image.Point {
	if v == nil {
		return image.Point{}
	}
	return image.Point{
		X: max(v.contentSize.Width-v.viewSize.Width, 0),
		Y: max(v.contentSize.Height-v.viewSize.Height, 0),
	}
}

// Fit sizes the content to lines, measuring the widest line in cells.
func (v *Viewport) Fit(lines []string) {
	width := 0
	for _, line := range lines {
		width = max(width, runewidth.StringWidth(line))
	}
	v.SetContentSize(Size{Width: width, Height: len(lines)})
}

// Window returns the visible part of lines. Horizontal offsets drop whole
// cells from the left of each line.
func (v *Viewport) Window(lines []string) []string {
	if v == nil {
		return lines
	}
	start := min(v.offset.Y, len(lines))
	end := min(start+v.viewSize.Height, len(lines))
	out := make([]string, 0, end-start)
	for _, line := range lines[start:end] {
		if v.offset.X > 0 {
			line = runewidth.TruncateLeft(line, v.offset.X, "")
		}
		out = append(out, line)
	}
	return out
}

func clampOffset(offset image.Point, content Size, view Size) image.Point {
	maxX := max(content.Width-view.Width, 0)
	maxY := max(content.Height-view.Height, 0)
	offset.X = min(max(offset.X, 0), maxX)
	offset.Y = min(max(offset.Y, 0), maxY)
	return offset
}
