// Package runtime runs the single event timeline that view-model state is
// mutated on: messages from input, timers and background work are handled
// one at a time, and scheduled state callbacks flush between messages.
package runtime

import "time"

// Message represents an event flowing into the loop.
// Messages come from terminal input, timers, or background goroutines.
type Message interface {
	isMessage()
}

// Key identifies a non-rune key.
type Key int

const (
	KeyRune Key = iota
	KeyEnter
	KeyEscape
	KeyBackspace
	KeyTab
	KeyUp
	KeyDown
	KeyLeft
	KeyRight
	KeyPageUp
	KeyPageDown
	KeyHome
	KeyEnd
	KeyCtrlC
)

// KeyMsg represents a keyboard input event. Rune is set when Key is KeyRune.
type KeyMsg struct {
	Key  Key
	Rune rune
	Alt  bool
	Ctrl bool
}

func (KeyMsg) isMessage() {}

// ResizeMsg indicates the terminal size changed.
type ResizeMsg struct {
	Width  int
	Height int
}

func (ResizeMsg) isMessage() {}

// TickMsg is sent on each loop tick.
type TickMsg struct {
	Time time.Time
}

func (TickMsg) isMessage() {}

// QueueFlushMsg triggers a state queue flush in the loop.
type QueueFlushMsg struct{}

func (QueueFlushMsg) isMessage() {}

// InvalidateMsg requests a render pass.
type InvalidateMsg struct{}

func (InvalidateMsg) isMessage() {}

// CommandMsg carries a command into the loop so it runs on the loop goroutine.
type CommandMsg struct {
	Command Command
}

func (CommandMsg) isMessage() {}

// Custom is embedded by application messages so they satisfy Message.
type Custom struct{}

func (Custom) isMessage() {}
