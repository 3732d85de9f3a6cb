package services

import (
	"testing"
	"time"

	"card-pull-system/models"
)

func day(t *testing.T, key string) time.Time {
	t.Helper()
	d, err := time.ParseInLocation(models.DateKeyLayout, key, time.Local)
	if err != nil {
		t.Fatalf("bad date key %q: %v", key, err)
	}
	return d
}

func pullAt(dateKey string, hour int) models.PullRecord {
	d, _ := time.ParseInLocation(models.DateKeyLayout, dateKey, time.Local)
	return models.PullRecord{
		UserKey:   "0xabc",
		DateKey:   dateKey,
		CardID:    "card-1",
		Timestamp: d.Add(time.Duration(hour) * time.Hour),
	}
}

func pullsOn(dateKeys ...string) []models.PullRecord {
	pulls := make([]models.PullRecord, 0, len(dateKeys))
	for _, key := range dateKeys {
		pulls = append(pulls, pullAt(key, 12))
	}
	return pulls
}

func TestComputeStreak(t *testing.T) {
	tests := []struct {
		name        string
		dates       []string
		today       string
		wantCurrent int
		wantLongest int
		wantBroken  bool
	}{
		{
			name:  "no pulls yields zero not one",
			dates: nil, today: "2026-03-10",
			wantCurrent: 0, wantLongest: 0, wantBroken: false,
		},
		{
			name:  "single pull today",
			dates: []string{"2026-03-10"}, today: "2026-03-10",
			wantCurrent: 1, wantLongest: 1, wantBroken: false,
		},
		{
			name:  "three consecutive days",
			dates: []string{"2026-03-08", "2026-03-09", "2026-03-10"}, today: "2026-03-10",
			wantCurrent: 3, wantLongest: 3, wantBroken: false,
		},
		{
			name:  "skipped day resets current to one",
			dates: []string{"2026-03-06", "2026-03-07", "2026-03-08", "2026-03-10"}, today: "2026-03-10",
			wantCurrent: 1, wantLongest: 3, wantBroken: false,
		},
		{
			name:  "gap does not zero out longest",
			dates: []string{"2026-03-01", "2026-03-02", "2026-03-03", "2026-03-04", "2026-03-09", "2026-03-10"}, today: "2026-03-10",
			wantCurrent: 2, wantLongest: 4, wantBroken: false,
		},
		{
			name:  "broken when last pull is two days old",
			dates: []string{"2026-03-06", "2026-03-07", "2026-03-08"}, today: "2026-03-10",
			wantCurrent: 3, wantLongest: 3, wantBroken: true,
		},
		{
			name:  "yesterday only is not broken",
			dates: []string{"2026-03-09"}, today: "2026-03-10",
			wantCurrent: 1, wantLongest: 1, wantBroken: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ComputeStreak(pullsOn(tt.dates...), day(t, tt.today))
			if got.Current != tt.wantCurrent {
				t.Errorf("Current = %d, want %d", got.Current, tt.wantCurrent)
			}
			if got.Longest != tt.wantLongest {
				t.Errorf("Longest = %d, want %d", got.Longest, tt.wantLongest)
			}
			if got.Broken != tt.wantBroken {
				t.Errorf("Broken = %t, want %t", got.Broken, tt.wantBroken)
			}
		})
	}
}

func TestComputeStreakSameDayDuplicates(t *testing.T) {
	// Duplicate day rows (filtered specializations can produce them) must
	// neither advance nor break the run.
	pulls := pullsOn("2026-03-09", "2026-03-09", "2026-03-10")
	got := ComputeStreak(pulls, day(t, "2026-03-10"))
	if got.Current != 2 {
		t.Fatalf("Current = %d, want 2", got.Current)
	}
	if got.Longest != 2 {
		t.Fatalf("Longest = %d, want 2", got.Longest)
	}
}

func TestComputeStreakDiscardsCorruptDateKeys(t *testing.T) {
	pulls := pullsOn("2026-03-09", "2026-03-10")
	pulls = append(pulls, models.PullRecord{UserKey: "0xabc", DateKey: "not-a-date"})
	got := ComputeStreak(pulls, day(t, "2026-03-10"))
	if got.Current != 2 {
		t.Fatalf("Current = %d, want 2 (corrupt row should be discarded)", got.Current)
	}
}

func TestMorningStreak(t *testing.T) {
	pulls := []models.PullRecord{
		pullAt("2026-03-08", 7),
		pullAt("2026-03-09", 8),
		pullAt("2026-03-10", 14), // afternoon pull breaks the morning chain
	}
	if got := MorningStreak(pulls, day(t, "2026-03-10")); got != 2 {
		t.Fatalf("MorningStreak = %d, want 2", got)
	}
}

func TestEveningStreak(t *testing.T) {
	pulls := []models.PullRecord{
		pullAt("2026-03-08", 22),
		pullAt("2026-03-09", 23),
		pullAt("2026-03-10", 21),
	}
	if got := EveningStreak(pulls, day(t, "2026-03-10")); got != 3 {
		t.Fatalf("EveningStreak = %d, want 3", got)
	}
}

func TestWeekendStreak(t *testing.T) {
	// 2026-03-07 is a Saturday, 2026-03-08 a Sunday.
	pulls := pullsOn("2026-03-06", "2026-03-07", "2026-03-08")
	if got := WeekendStreak(pulls, day(t, "2026-03-08")); got != 2 {
		t.Fatalf("WeekendStreak = %d, want 2", got)
	}

	// Weekday-only ledger has no weekend streak at all.
	pulls = pullsOn("2026-03-09", "2026-03-10", "2026-03-11")
	if got := WeekendStreak(pulls, day(t, "2026-03-11")); got != 0 {
		t.Fatalf("WeekendStreak = %d, want 0", got)
	}
}
