// services/streaks.go
package services

import (
	"time"

	"card-pull-system/models"
)

// Specialized streak time windows. Morning ends before MorningEndHour,
// evening starts at EveningStartHour (local time of the pull).
const (
	MorningEndHour   = 9
	EveningStartHour = 21
)

// StreakState is derived from the pull ledger on every read; nothing here is
// persisted separately.
type StreakState struct {
	Current int  `json:"current"`
	Longest int  `json:"longest"`
	Broken  bool `json:"broken"`
}

// ComputeStreak derives the current and longest streaks from pulls ordered
// ascending by date. Two records are consecutive iff their dates are exactly
// one day apart; a same-day pair neither advances nor breaks the run.
// Broken means the most recent pull is more than one day before today.
func ComputeStreak(pulls []models.PullRecord, today time.Time) StreakState {
	days := pullDays(pulls)
	if len(days) == 0 {
		return StreakState{}
	}

	state := StreakState{Current: 1, Longest: 1}

	// Backward walk from the most recent day for the current streak.
	for i := len(days) - 1; i > 0; i-- {
		diff := dayDiff(days[i], days[i-1])
		if diff == 0 {
			continue
		}
		if diff != 1 {
			break
		}
		state.Current++
	}

	// Full forward walk for the longest window ever seen.
	run := 1
	for i := 1; i < len(days); i++ {
		diff := dayDiff(days[i], days[i-1])
		switch {
		case diff == 0:
			// same day, run unchanged
		case diff == 1:
			run++
		default:
			run = 1
		}
		if run > state.Longest {
			state.Longest = run
		}
	}

	state.Broken = dayDiff(truncateToDay(today), days[len(days)-1]) > 1
	return state
}

// MorningStreak counts consecutive days of pulls made before MorningEndHour.
func MorningStreak(pulls []models.PullRecord, today time.Time) int {
	return filteredStreak(pulls, today, func(p models.PullRecord) bool {
		return p.Timestamp.Local().Hour() < MorningEndHour
	})
}

// EveningStreak counts consecutive days of pulls made at or after
// EveningStartHour.
func EveningStreak(pulls []models.PullRecord, today time.Time) int {
	return filteredStreak(pulls, today, func(p models.PullRecord) bool {
		return p.Timestamp.Local().Hour() >= EveningStartHour
	})
}

// WeekendStreak counts consecutive weekend days with a pull. With the
// one-day adjacency rule the longest possible run is a full Saturday+Sunday.
func WeekendStreak(pulls []models.PullRecord, today time.Time) int {
	return filteredStreak(pulls, today, func(p models.PullRecord) bool {
		wd := p.Day().Weekday()
		return wd == time.Saturday || wd == time.Sunday
	})
}

func filteredStreak(pulls []models.PullRecord, today time.Time, keep func(models.PullRecord) bool) int {
	filtered := make([]models.PullRecord, 0, len(pulls))
	for _, p := range pulls {
		if keep(p) {
			filtered = append(filtered, p)
		}
	}
	return ComputeStreak(filtered, today).Current
}

// pullDays maps records to their parsed days, discarding corrupt date keys.
func pullDays(pulls []models.PullRecord) []time.Time {
	days := make([]time.Time, 0, len(pulls))
	for _, p := range pulls {
		d := p.Day()
		if d.IsZero() {
			continue
		}
		days = append(days, d)
	}
	return days
}

// dayDiff returns the absolute whole-day distance between two calendar days.
// Both sides are re-anchored to UTC midnight so DST transitions cannot skew
// the division.
func dayDiff(a, b time.Time) int {
	au := time.Date(a.Year(), a.Month(), a.Day(), 0, 0, 0, 0, time.UTC)
	bu := time.Date(b.Year(), b.Month(), b.Day(), 0, 0, 0, 0, time.UTC)
	diff := int(au.Sub(bu).Hours() / 24)
	if diff < 0 {
		diff = -diff
	}
	return diff
}

func truncateToDay(t time.Time) time.Time {
	t = t.Local()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.Local)
}
