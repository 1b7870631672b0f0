package clock

import (
	"testing"
	"time"
)

func TestManualTicker(t *testing.T) {
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	clk := NewManual(start)
	ticker := clk.NewTicker(time.Second)

	got := make(chan time.Time, 1)
	go func() {
		got <- <-ticker.C()
	}()

	clk.Tick(time.Second)

	select {
	case at := <-got:
		if !at.Equal(start.Add(time.Second)) {
			t.Fatalf("expected tick at %v, got %v", start.Add(time.Second), at)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("manual ticker did not fire")
	}

	if !clk.Now().Equal(start.Add(time.Second)) {
		t.Fatalf("expected clock advanced to %v, got %v", start.Add(time.Second), clk.Now())
	}
}

func TestSystemClock(t *testing.T) {
	clk := NewSystem()
	if clk.Now().Location() != time.UTC {
		t.Fatal("system clock must report UTC")
	}
	ticker := clk.NewTicker(time.Millisecond)
	defer ticker.Stop()
	select {
	case <-ticker.C():
	case <-time.After(2 * time.Second):
		t.Fatal("system ticker did not fire")
	}
}
