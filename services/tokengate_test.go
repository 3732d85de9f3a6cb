package services

import "testing"

func TestHasBalance(t *testing.T) {
	tests := []struct {
		balance float64
		minimum float64
		want    bool
	}{
		{999, 1000, false},
		{1000, 1000, true},
		{1001, 1000, true},
		{0, 0, true},
		{0, 1, false},
	}
	for _, tt := range tests {
		if got := HasBalance(tt.balance, tt.minimum); got != tt.want {
			t.Errorf("HasBalance(%v, %v) = %t, want %t", tt.balance, tt.minimum, got, tt.want)
		}
	}
}

func TestClassifyTier(t *testing.T) {
	tests := []struct {
		balance float64
		want    string
	}{
		{0, ""},
		{999, ""},
		{1_000, TierHolder},
		{9_999, TierHolder},
		{10_000, TierStacker},
		{49_999, TierStacker},
		{50_000, TierWhale},
		{100_000, TierLegend},
		{999_999, TierLegend},
		{1_000_000, TierMythic},
		{5_000_000, TierMythic},
	}
	for _, tt := range tests {
		if got := ClassifyTier(tt.balance); got != tt.want {
			t.Errorf("ClassifyTier(%v) = %q, want %q", tt.balance, got, tt.want)
		}
	}
}
