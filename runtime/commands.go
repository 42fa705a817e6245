package runtime

import "context"

// Command represents an intent handled by the loop.
type Command interface {
	Command()
}

// PostFunc sends a message into the loop.
// It returns false when the message queue is full.
type PostFunc func(Message) bool

// Quit stops the loop.
type Quit struct{}

func (Quit) Command() {}

// Refresh requests a render pass.
type Refresh struct{}

func (Refresh) Command() {}

// SendMsg posts a message into the loop.
type SendMsg struct {
	Message Message
}

func (SendMsg) Command() {}

// Send wraps a message in a SendMsg command.
func Send(msg Message) Command {
	return SendMsg{Message: msg}
}

// Effect runs work in a background goroutine.
// Use the provided context for cancellation and PostFunc to emit messages.
type Effect struct {
	Run func(ctx context.Context, post PostFunc)
}

func (Effect) Command() {}

// Call runs Fn on the loop goroutine. The render pass follows if Fn returns true.
type Call struct {
	Fn func() bool
}

func (Call) Command() {}
