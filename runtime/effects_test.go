package runtime

import (
	"context"
	"testing"
	"time"
)

func TestAfter_Immediate(t *testing.T) {
	calls := 0
	effect := After(0, ResizeMsg{Width: 1, Height: 1})
	effect.Run(context.Background(), func(Message) bool {
		calls++
		return true
	})
	if calls != 1 {
		t.Fatalf("expected immediate post, got %d", calls)
	}
}

func TestEvery_Invalid(t *testing.T) {
	calls := 0
	effect := Every(0, func(time.Time) Message { return ResizeMsg{Width: 1, Height: 1} })
	effect.Run(context.Background(), func(Message) bool {
		calls++
		return true
	})
	if calls != 0 {
		t.Fatalf("expected no posts for invalid interval, got %d", calls)
	}

	calls = 0
	effect = Every(10*time.Millisecond, nil)
	effect.Run(context.Background(), func(Message) bool {
		calls++
		return true
	})
	if calls != 0 {
		t.Fatalf("expected no posts for nil callback, got %d", calls)
	}
}

func TestTask_PostsResult(t *testing.T) {
	var got Message
	effect := Task(func(ctx context.Context) Message {
		return ResizeMsg{Width: 3, Height: 4}
	})
	effect.Run(context.Background(), func(msg Message) bool {
		got = msg
		return true
	})
	if got != (ResizeMsg{Width: 3, Height: 4}) {
		t.Fatalf("expected task message, got %#v", got)
	}
}

func TestTask_SkipsAfterCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	posts := 0
	effect := Task(func(context.Context) Message {
		cancel()
		return TickMsg{}
	})
	effect.Run(ctx, func(Message) bool {
		posts++
		return true
	})
	if posts != 0 {
		t.Fatalf("expected no post after cancellation, got %d", posts)
	}
}
