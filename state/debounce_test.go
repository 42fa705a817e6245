package state

import (
	"testing"
	"time"
)

func TestDebouncer_CoalescesToLatest(t *testing.T) {
	clock := NewManualClock(time.Unix(0, 0))
	var got []int
	d := NewDebouncer(clock, 100*time.Millisecond, nil, func(v int) {
		got = append(got, v)
	})

	d.Trigger(1)
	clock.Advance(50 * time.Millisecond)
	d.Trigger(2)
	clock.Advance(50 * time.Millisecond)
	d.Trigger(3)
	if len(got) != 0 {
		t.Fatalf("expected nothing delivered inside the window, got %v", got)
	}
	clock.Advance(100 * time.Millisecond)
	if len(got) != 1 || got[0] != 3 {
		t.Fatalf("expected only latest value 3, got %v", got)
	}
	if d.Pending() {
		t.Fatalf("expected nothing pending after delivery")
	}
}

func TestDebouncer_FlushAndCancel(t *testing.T) {
	clock := NewManualClock(time.Unix(0, 0))
	var got []string
	d := NewDebouncer(clock, time.Second, nil, func(v string) {
		got = append(got, v)
	})

	d.Trigger("a")
	if !d.Flush() {
		t.Fatalf("expected flush to deliver pending value")
	}
	clock.Advance(2 * time.Second)
	if len(got) != 1 || got[0] != "a" {
		t.Fatalf("expected single delivery of a, got %v", got)
	}

	d.Trigger("b")
	d.Cancel()
	clock.Advance(2 * time.Second)
	if len(got) != 1 {
		t.Fatalf("expected cancelled value to be dropped, got %v", got)
	}
	if d.Flush() {
		t.Fatalf("expected empty flush")
	}
}

func TestDebouncer_ZeroDelayDeliversImmediately(t *testing.T) {
	calls := 0
	d := NewDebouncer(NewManualClock(time.Unix(0, 0)), 0, nil, func(int) { calls++ })
	d.Trigger(1)
	if calls != 1 {
		t.Fatalf("expected immediate delivery, got %d", calls)
	}
}

func TestDebouncer_Scheduler(t *testing.T) {
	clock := NewManualClock(time.Unix(0, 0))
	queue := NewQueue()
	calls := 0
	d := NewDebouncer(clock, 10*time.Millisecond, queue, func(int) { calls++ })

	d.Trigger(1)
	clock.Advance(10 * time.Millisecond)
	if calls != 0 {
		t.Fatalf("expected delivery to be queued, got %d", calls)
	}
	queue.Flush()
	if calls != 1 {
		t.Fatalf("expected delivery after flush, got %d", calls)
	}
}
