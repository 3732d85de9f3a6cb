package services

import "testing"

func TestXPForNextLevel(t *testing.T) {
	if got := xpForNextLevel(1); got != 100 {
		t.Fatalf("xpForNextLevel(1) = %d, want 100", got)
	}
	// Guarded against nonsense input.
	if got := xpForNextLevel(0); got != 100 {
		t.Fatalf("xpForNextLevel(0) = %d, want 100", got)
	}

	// Per-level requirement grows with level.
	prev := int64(0)
	for level := 1; level <= 50; level++ {
		req := xpForNextLevel(level)
		if req <= prev {
			t.Fatalf("xpForNextLevel(%d) = %d, not greater than previous %d", level, req, prev)
		}
		prev = req
	}
}

func TestXPThresholds(t *testing.T) {
	if got := xpThresholdForLevel(1); got != 0 {
		t.Fatalf("xpThresholdForLevel(1) = %d, want 0", got)
	}
	if got := xpThresholdForLevel(2); got != 100 {
		t.Fatalf("xpThresholdForLevel(2) = %d, want 100", got)
	}

	// Strictly increasing.
	prev := int64(-1)
	for level := 1; level <= 50; level++ {
		threshold := xpThresholdForLevel(level)
		if threshold <= prev {
			t.Fatalf("xpThresholdForLevel(%d) = %d, not greater than %d", level, threshold, prev)
		}
		prev = threshold
	}
}

func TestLevelForXP(t *testing.T) {
	tests := []struct {
		totalXP int64
		want    int
	}{
		{0, 1},
		{99, 1},
		{100, 2},
		{199, 2},
	}
	for _, tt := range tests {
		if got := levelForXP(tt.totalXP); got != tt.want {
			t.Errorf("levelForXP(%d) = %d, want %d", tt.totalXP, got, tt.want)
		}
	}

	// Monotonic: more XP never means a lower level.
	prev := 0
	for xp := int64(0); xp <= 10_000; xp += 37 {
		level := levelForXP(xp)
		if level < prev {
			t.Fatalf("levelForXP(%d) = %d, below previous %d", xp, level, prev)
		}
		prev = level
	}
}

func TestBuildLevelInfo(t *testing.T) {
	info := BuildLevelInfo(0)
	if info.Level != 1 || info.CurrentXP != 0 || info.XPForNextLevel != 100 {
		t.Fatalf("BuildLevelInfo(0) = %+v", info)
	}
	if info.ProgressPercent != 0 {
		t.Fatalf("ProgressPercent = %v, want 0", info.ProgressPercent)
	}

	info = BuildLevelInfo(50)
	if info.Level != 1 || info.CurrentXP != 50 {
		t.Fatalf("BuildLevelInfo(50) = %+v", info)
	}
	if info.ProgressPercent != 50 {
		t.Fatalf("ProgressPercent = %v, want 50", info.ProgressPercent)
	}

	info = BuildLevelInfo(100)
	if info.Level != 2 || info.CurrentXP != 0 {
		t.Fatalf("BuildLevelInfo(100) = %+v", info)
	}

	// Negative totals clamp to the level-1 default.
	info = BuildLevelInfo(-10)
	if info.Level != 1 || info.TotalXP != 0 {
		t.Fatalf("BuildLevelInfo(-10) = %+v", info)
	}

	// Percent stays within [0,100] across the curve.
	for xp := int64(0); xp <= 5_000; xp += 13 {
		info := BuildLevelInfo(xp)
		if info.ProgressPercent < 0 || info.ProgressPercent > 100 {
			t.Fatalf("ProgressPercent out of range at %d XP: %v", xp, info.ProgressPercent)
		}
		if info.CurrentXP < 0 || info.CurrentXP >= info.XPForNextLevel {
			t.Fatalf("CurrentXP out of range at %d XP: %+v", xp, info)
		}
	}
}

func TestXPForEngagement(t *testing.T) {
	tests := []struct {
		kind string
		want int64
	}{
		{"favorite", 5},
		{"share", 15},
		{"journal", 10},
		{"referral", 100},
		{"unknown", 0},
	}
	for _, tt := range tests {
		if got := XPForEngagement(tt.kind); got != tt.want {
			t.Errorf("XPForEngagement(%q) = %d, want %d", tt.kind, got, tt.want)
		}
	}
}
