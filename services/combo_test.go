package services

import (
	"testing"
	"time"
)

type fakeClock struct {
	now time.Time
}

func (c *fakeClock) Now() time.Time          { return c.now }
func (c *fakeClock) Advance(d time.Duration) { c.now = c.now.Add(d) }

func TestComboTrackerWindow(t *testing.T) {
	clock := &fakeClock{now: time.Date(2026, 3, 10, 12, 0, 0, 0, time.Local)}
	tracker := NewComboTracker(clock.Now)

	// Actions at t=0s, 30s, 90s inside the 300s window.
	if got := tracker.RegisterAction("0xabc"); got != 1 {
		t.Fatalf("combo after first action = %d, want 1", got)
	}
	clock.Advance(30 * time.Second)
	if got := tracker.RegisterAction("0xabc"); got != 2 {
		t.Fatalf("combo after second action = %d, want 2", got)
	}
	clock.Advance(60 * time.Second)
	if got := tracker.RegisterAction("0xabc"); got != 3 {
		t.Fatalf("combo after third action = %d, want 3", got)
	}

	// Next action at t=500s — past the window, combo restarts at 1.
	clock.Advance(410 * time.Second)
	if got := tracker.RegisterAction("0xabc"); got != 1 {
		t.Fatalf("combo after lapsed window = %d, want 1", got)
	}
}

func TestComboTrackerCurrentComboExpires(t *testing.T) {
	clock := &fakeClock{now: time.Date(2026, 3, 10, 12, 0, 0, 0, time.Local)}
	tracker := NewComboTracker(clock.Now)

	tracker.RegisterAction("0xabc")
	tracker.RegisterAction("0xabc")
	if got := tracker.CurrentCombo("0xabc"); got != 2 {
		t.Fatalf("CurrentCombo = %d, want 2", got)
	}

	clock.Advance(ComboWindow + time.Second)
	if got := tracker.CurrentCombo("0xabc"); got != 0 {
		t.Fatalf("CurrentCombo after window = %d, want 0", got)
	}
}

func TestComboTrackerIsPerUser(t *testing.T) {
	tracker := NewComboTracker(nil)
	tracker.RegisterAction("0xabc")
	tracker.RegisterAction("0xabc")
	if got := tracker.CurrentCombo("0xdef"); got != 0 {
		t.Fatalf("combo leaked across user keys: got %d", got)
	}

	tracker.Reset("0xabc")
	if got := tracker.CurrentCombo("0xabc"); got != 0 {
		t.Fatalf("CurrentCombo after Reset = %d, want 0", got)
	}
}

func TestComboBonus(t *testing.T) {
	tests := []struct {
		count int
		want  int64
	}{
		{0, 0},
		{1, 0},
		{2, 0},
		{3, 10},
		{4, 10},
		{5, 25},
		{9, 25},
		{10, 50},
		{100, 50},
	}
	for _, tt := range tests {
		if got := ComboBonus(tt.count); got != tt.want {
			t.Errorf("ComboBonus(%d) = %d, want %d", tt.count, got, tt.want)
		}
	}

	// Non-decreasing step function.
	prev := int64(0)
	for count := 0; count <= 50; count++ {
		bonus := ComboBonus(count)
		if bonus < prev {
			t.Fatalf("ComboBonus decreased at count %d: %d < %d", count, bonus, prev)
		}
		prev = bonus
	}
}
