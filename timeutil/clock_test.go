package timeutil

import (
	"testing"
	"time"
)

func TestMockClockAdvance(t *testing.T) {
	t0 := time.Date(2026, 3, 2, 12, 0, 0, 0, time.UTC)
	c := NewMockClock(t0)

	if !c.Now().Equal(t0) {
		t.Errorf("expected %v, got %v", t0, c.Now())
	}
	c.Advance(5 * time.Second)
	if got := c.Since(t0); got != 5*time.Second {
		t.Errorf("expected 5s since start, got %v", got)
	}
}

func TestMockTickerFiresOnAdvance(t *testing.T) {
	t0 := time.Date(2026, 3, 2, 12, 0, 0, 0, time.UTC)
	c := NewMockClock(t0)
	ticker := c.NewTicker(time.Second)

	select {
	case <-ticker.C():
		t.Fatal("ticker fired before the interval elapsed")
	default:
	}

	c.Advance(time.Second)
	select {
	case at := <-ticker.C():
		if !at.Equal(t0.Add(time.Second)) {
			t.Errorf("tick carried %v, want %v", at, t0.Add(time.Second))
		}
	default:
		t.Fatal("ticker did not fire after the interval")
	}
}

func TestMockTickerStaysAlignedAfterLargeAdvance(t *testing.T) {
	t0 := time.Date(2026, 3, 2, 12, 0, 0, 0, time.UTC)
	c := NewMockClock(t0)
	ticker := c.NewTicker(time.Second)

	// Jumping several intervals at once coalesces into one buffered tick,
	// carrying the first due time, and leaves the schedule on boundaries.
	c.Advance(3 * time.Second)
	select {
	case at := <-ticker.C():
		if !at.Equal(t0.Add(time.Second)) {
			t.Errorf("tick carried %v, want %v", at, t0.Add(time.Second))
		}
	default:
		t.Fatal("ticker did not fire after a multi-interval advance")
	}

	c.Advance(time.Second)
	select {
	case at := <-ticker.C():
		if !at.Equal(t0.Add(4 * time.Second)) {
			t.Errorf("tick carried %v, want %v", at, t0.Add(4*time.Second))
		}
	default:
		t.Fatal("ticker fell off the interval schedule")
	}
}

func TestMockTickerStops(t *testing.T) {
	t0 := time.Date(2026, 3, 2, 12, 0, 0, 0, time.UTC)
	c := NewMockClock(t0)
	ticker := c.NewTicker(time.Second)
	ticker.Stop()

	c.Advance(5 * time.Second)
	select {
	case <-ticker.C():
		t.Error("stopped ticker must not fire")
	default:
	}
}
