package scroll

import (
	"image"
	"testing"

	"github.com/go-playground/assert/v2"
)

func TestViewportClampOffset(t *testing.T) {
	v := NewViewport()
	v.SetViewSize(Size{Width: 10, Height: 5})
	v.SetContentSize(Size{Width: 30, Height: 20})

	v.SetOffset(100, 100)
	if got := v.Offset(); got != (image.Point{X: 20, Y: 15}) {
		t.Fatalf("offset clamp = %+v, want %+v", got, image.Point{X: 20, Y: 15})
	}

	v.SetOffset(-5, -7)
	if got := v.Offset(); got != (image.Point{}) {
		t.Fatalf("offset clamp negative = %+v, want %+v", got, image.Point{})
	}
}

func TestViewportMaxOffset(t *testing.T) {
	v := NewViewport()
	v.SetViewSize(Size{Width: 10, Height: 5})
	v.SetContentSize(Size{Width: 8, Height: 4})
	if got := v.MaxOffset(); got != (image.Point{}) {
		t.Fatalf("max offset = %+v, want %+v", got, image.Point{})
	}

	// Shrinking the content pulls the offset back in range.
	v.SetContentSize(Size{Width: 30, Height: 20})
	v.ScrollToEnd()
	v.SetContentSize(Size{Width: 30, Height: 7})
	if got := v.Offset(); got != (image.Point{Y: 2}) {
		t.Fatalf("offset after shrink = %+v, want %+v", got, image.Point{Y: 2})
	}
}

func TestViewportPaging(t *testing.T) {
	v := NewViewport()
	var seen []image.Point
	v.SetOnChange(func(p image.Point) { seen = append(seen, p) })
	v.SetViewSize(Size{Width: 10, Height: 3})
	v.SetContentSize(Size{Width: 10, Height: 10})

	v.PageBy(1)
	v.PageBy(1)
	v.PageBy(1)
	v.ScrollBy(0, -1)
	v.ScrollToStart()
	v.ScrollToStart()
	assert.Equal(t, seen, []image.Point{{Y: 3}, {Y: 6}, {Y: 7}, {Y: 6}, {}})
}

func TestViewportWindow(t *testing.T) {
	lines := []string{"header", "rule", "row 1", "row 2", "日本語 row"}
	v := NewViewport()
	v.SetViewSize(Size{Width: 6, Height: 2})
	v.Fit(lines)
	assert.Equal(t, v.ContentSize(), Size{Width: 10, Height: 5})

	assert.Equal(t, v.Window(lines), []string{"header", "rule"})
	v.ScrollToEnd()
	assert.Equal(t, v.Window(lines), []string{"row 2", "日本語 row"})
	v.ScrollBy(2, 0)
	assert.Equal(t, v.Window(lines), []string{"w 2", "本語 row"})

	v.SetViewSize(Size{Width: 6, Height: 10})
	assert.Equal(t, len(v.Window(lines)), 5)
}
