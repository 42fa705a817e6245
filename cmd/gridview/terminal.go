package main

import (
	"fmt"

	"github.com/gdamore/tcell/v2"
	"github.com/mattn/go-runewidth"

	"github.com/odvcencio/furry-grid/runtime"
)

// terminal adapts a tcell screen to runtime.Backend and draws text lines.
type terminal struct {
	screen tcell.Screen
}

func newTerminal() (*terminal, error) {
	screen, err := tcell.NewScreen()
	if err != nil {
		return nil, fmt.Errorf("create screen: %w", err)
	}
	return &terminal{screen: screen}, nil
}

func (t *terminal) Init() error {
	if err := t.screen.Init(); err != nil {
		return fmt.Errorf("init screen: %w", err)
	}
	t.screen.HideCursor()
	return nil
}

func (t *terminal) Fini() {
	t.screen.Fini()
}

func (t *terminal) PollEvent() runtime.Message {
	ev := t.screen.PollEvent()
	// nil once the screen is finalised
	if ev == nil {
		return nil
	}
	return translateEvent(ev)
}

func (t *terminal) size() (width, height int) {
	return t.screen.Size()
}

// draw replaces the screen content with lines.
func (t *terminal) draw(lines []string) {
	t.screen.Clear()
	width, height := t.screen.Size()
	for y, line := range lines {
		if y >= height {
			break
		}
		style := tcell.StyleDefault
		if y == 0 || y == len(lines)-1 {
			style = style.Reverse(true)
		}
		x := 0
		for _, r := range line {
			w := runewidth.RuneWidth(r)
			if x+w > width {
				break
			}
			t.screen.SetContent(x, y, r, nil, style)
			x += max(w, 1)
		}
		for ; y == 0 && x < width; x++ {
			t.screen.SetContent(x, y, ' ', nil, style)
		}
	}
	t.screen.Show()
}

var keyMap = map[tcell.Key]runtime.Key{
	tcell.KeyEnter:      runtime.KeyEnter,
	tcell.KeyEscape:     runtime.KeyEscape,
	tcell.KeyBackspace:  runtime.KeyBackspace,
	tcell.KeyBackspace2: runtime.KeyBackspace,
	tcell.KeyTab:        runtime.KeyTab,
	tcell.KeyUp:         runtime.KeyUp,
	tcell.KeyDown:       runtime.KeyDown,
	tcell.KeyLeft:       runtime.KeyLeft,
	tcell.KeyRight:      runtime.KeyRight,
	tcell.KeyPgUp:       runtime.KeyPageUp,
	tcell.KeyPgDn:       runtime.KeyPageDown,
	tcell.KeyHome:       runtime.KeyHome,
	tcell.KeyEnd:        runtime.KeyEnd,
	tcell.KeyCtrlC:      runtime.KeyCtrlC,
}

// translateEvent maps tcell events onto loop messages. Unknown events map to nil.
func translateEvent(ev tcell.Event) runtime.Message {
	switch e := ev.(type) {
	case *tcell.EventKey:
		mods := e.Modifiers()
		if e.Key() == tcell.KeyRune {
			return runtime.KeyMsg{Key: runtime.KeyRune, Rune: e.Rune(), Alt: mods&tcell.ModAlt != 0}
		}
		key, ok := keyMap[e.Key()]
		if !ok {
			return nil
		}
		return runtime.KeyMsg{Key: key, Alt: mods&tcell.ModAlt != 0, Ctrl: mods&tcell.ModCtrl != 0}
	case *tcell.EventResize:
		w, h := e.Size()
		return runtime.ResizeMsg{Width: w, Height: h}
	default:
		return nil
	}
}
