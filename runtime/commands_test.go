package runtime

import (
	"context"
	"testing"
)

func TestSend(t *testing.T) {
	msg := ResizeMsg{Width: 10, Height: 5}
	cmd := Send(msg)
	cmd.Command()
	if sendMsg, ok := cmd.(SendMsg); ok {
		if sendMsg.Message != msg {
			t.Fatalf("SendMsg.Message mismatch")
		}
	} else {
		t.Fatalf("expected Send to return SendMsg, got %T", cmd)
	}
}

func TestEffect(t *testing.T) {
	calls := 0
	cmd := Effect{Run: func(ctx context.Context, post PostFunc) {
		calls++
	}}
	cmd.Command()
	cmd.Run(context.Background(), func(Message) bool { return true })
	if calls != 1 {
		t.Fatalf("expected effect run to be called once, got %d", calls)
	}
}

func TestExecuteCommand(t *testing.T) {
	handled := 0
	loop := NewLoop(LoopConfig{CommandHandler: func(cmd Command) bool {
		handled++
		return true
	}})

	if !loop.ExecuteCommand(Refresh{}) {
		t.Fatalf("expected refresh to request a render")
	}
	if !loop.ExecuteCommand(Call{Fn: func() bool { return true }}) {
		t.Fatalf("expected call result to request a render")
	}
	if loop.ExecuteCommand(Call{}) {
		t.Fatalf("expected empty call to be ignored")
	}

	loop.ExecuteCommand(Send(TickMsg{}))
	select {
	case msg := <-loop.messages:
		if _, ok := msg.(TickMsg); !ok {
			t.Fatalf("expected posted TickMsg, got %T", msg)
		}
	default:
		t.Fatalf("expected SendMsg to post its message")
	}

	type custom struct{ Quit }
	if !loop.ExecuteCommand(custom{}) || handled != 1 {
		t.Fatalf("expected unknown command to reach the handler, got %d", handled)
	}
}
