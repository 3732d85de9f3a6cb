package services

import (
	"testing"

	"card-pull-system/models"
)

func TestEvaluateCatalogStableOrder(t *testing.T) {
	metrics := models.PlayerMetrics{
		TotalPulls:    1,
		CurrentStreak: 3,
	}

	first := EvaluateCatalog(metrics, nil)
	second := EvaluateCatalog(metrics, nil)
	if len(first) != len(second) {
		t.Fatalf("evaluation not deterministic: %d vs %d unlocks", len(first), len(second))
	}
	for i := range first {
		if first[i].Code != second[i].Code {
			t.Fatalf("unlock order changed at %d: %s vs %s", i, first[i].Code, second[i].Code)
		}
	}

	// FIRST_PULL is declared before STREAK_3 and must be reported first.
	if len(first) < 2 || first[0].Code != "FIRST_PULL" || first[1].Code != "STREAK_3" {
		t.Fatalf("unexpected unlock sequence: %v", codes(first))
	}
}

func TestEvaluateCatalogSkipsUnlocked(t *testing.T) {
	metrics := models.PlayerMetrics{TotalPulls: 1}

	first := EvaluateCatalog(metrics, nil)
	if len(first) != 1 || first[0].Code != "FIRST_PULL" {
		t.Fatalf("expected only FIRST_PULL, got %v", codes(first))
	}

	// A second evaluation with the same metrics and the unlock recorded
	// must return nothing.
	unlocked := map[string]bool{"FIRST_PULL": true}
	if again := EvaluateCatalog(metrics, unlocked); len(again) != 0 {
		t.Fatalf("expected no new unlocks, got %v", codes(again))
	}
}

func TestEvaluateCatalogEmptyMetrics(t *testing.T) {
	if got := EvaluateCatalog(models.PlayerMetrics{}, nil); len(got) != 0 {
		t.Fatalf("fresh user unlocked %v", codes(got))
	}
}

func TestCatalogPredicates(t *testing.T) {
	tests := []struct {
		code    string
		metrics models.PlayerMetrics
		want    bool
	}{
		{"FIRST_PULL", models.PlayerMetrics{TotalPulls: 1}, true},
		{"FIRST_PULL", models.PlayerMetrics{}, false},
		{"STREAK_7", models.PlayerMetrics{CurrentStreak: 7}, true},
		{"STREAK_7", models.PlayerMetrics{CurrentStreak: 6}, false},
		{"COMEBACK", models.PlayerMetrics{StreakBroken: true, LongestStreak: 3}, true},
		{"COMEBACK", models.PlayerMetrics{StreakBroken: true, LongestStreak: 2}, false},
		{"COMEBACK", models.PlayerMetrics{StreakBroken: false, LongestStreak: 10}, false},
		{"EARLY_BIRD", models.PlayerMetrics{MorningStreak: 5}, true},
		{"WEEKEND_WARRIOR", models.PlayerMetrics{WeekendStreak: 2}, true},
		{"COMBO_5", models.PlayerMetrics{ComboCount: 5}, true},
		{"RECRUITER", models.PlayerMetrics{Referrals: 3}, true},
		{"HOLDER", models.PlayerMetrics{TokenBalance: 1}, true},
		{"HOLDER", models.PlayerMetrics{}, false},
		{"WHALE", models.PlayerMetrics{HolderTier: TierWhale}, true},
		{"WHALE", models.PlayerMetrics{HolderTier: TierStacker}, false},
		{"PACK_COLLECTOR", models.PlayerMetrics{PacksClaimed: 3}, true},
	}

	for _, tt := range tests {
		def := models.CatalogDef(tt.code)
		if def == nil {
			t.Fatalf("catalog is missing %s", tt.code)
		}
		if got := def.Unlocked(tt.metrics); got != tt.want {
			t.Errorf("%s.Unlocked(%+v) = %t, want %t", tt.code, tt.metrics, got, tt.want)
		}
	}
}

func TestCatalogCodesUnique(t *testing.T) {
	seen := make(map[string]bool)
	for _, def := range models.AchievementCatalog {
		if seen[def.Code] {
			t.Fatalf("duplicate catalog code %s", def.Code)
		}
		seen[def.Code] = true
		if def.Unlocked == nil {
			t.Fatalf("catalog entry %s has no predicate", def.Code)
		}
	}
}

func codes(defs []models.AchievementDef) []string {
	out := make([]string, len(defs))
	for i, d := range defs {
		out[i] = d.Code
	}
	return out
}
