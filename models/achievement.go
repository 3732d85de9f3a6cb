// models/achievement.go
package models

import (
	"time"
)

// PlayerMetrics is the snapshot the achievement engine evaluates against.
// It is assembled by the caller from the ledgers, the streak calculator, the
// combo tracker and the externally supplied token balance — the engine itself
// performs no reads beyond this struct.
type PlayerMetrics struct {
	TotalPulls    int64
	CurrentStreak int
	LongestStreak int
	StreakBroken  bool

	MorningStreak int
	EveningStreak int
	WeekendStreak int

	Favorites      int64
	Shares         int64
	Referrals      int64
	JournalEntries int64

	Level      int
	ComboCount int

	TokenBalance float64
	HolderTier   string // "" when below the lowest tier
	PacksClaimed int64
}

// AchievementDef: static catalog entry. Unlocked is a pure predicate over the
// metrics snapshot so each one is unit-testable in isolation.
type AchievementDef struct {
	Code        string `json:"code"` // e.g., "FIRST_PULL", "STREAK_7"
	Name        string `json:"name"`
	Description string `json:"description"`
	Rarity      string `json:"rarity"` // common, rare, epic, legendary
	XPReward    int64  `json:"xp_reward"`

	Unlocked func(m PlayerMetrics) bool `json:"-"`
}

// UserAchievement: awarded instance, append-once per (user, code).
type UserAchievement struct {
	ID         string    `gorm:"primaryKey;type:uuid;default:gen_random_uuid()" json:"id"`
	UserKey    string    `gorm:"index:idx_achievement_user_code,unique;not null" json:"user_key"`
	Code       string    `gorm:"index:idx_achievement_user_code,unique;not null" json:"code"`
	UnlockedAt time.Time `gorm:"autoCreateTime" json:"unlocked_at"`
}

// AchievementCatalog is the fixed catalog, evaluated in declaration order so
// simultaneous unlocks are reported in a stable sequence.
var AchievementCatalog = []AchievementDef{
	{
		Code:        "FIRST_PULL",
		Name:        "First Light",
		Description: "Pulled your first card",
		Rarity:      "common",
		XPReward:    25,
		Unlocked:    func(m PlayerMetrics) bool { return m.TotalPulls >= 1 },
	},
	{
		Code:        "PULLS_10",
		Name:        "Regular",
		Description: "Pulled 10 cards",
		Rarity:      "common",
		XPReward:    50,
		Unlocked:    func(m PlayerMetrics) bool { return m.TotalPulls >= 10 },
	},
	{
		Code:        "PULLS_50",
		Name:        "Devoted",
		Description: "Pulled 50 cards",
		Rarity:      "rare",
		XPReward:    150,
		Unlocked:    func(m PlayerMetrics) bool { return m.TotalPulls >= 50 },
	},
	{
		Code:        "PULLS_100",
		Name:        "Century Club",
		Description: "Pulled 100 cards",
		Rarity:      "epic",
		XPReward:    300,
		Unlocked:    func(m PlayerMetrics) bool { return m.TotalPulls >= 100 },
	},
	{
		Code:        "STREAK_3",
		Name:        "Warming Up",
		Description: "3-day pull streak",
		Rarity:      "common",
		XPReward:    30,
		Unlocked:    func(m PlayerMetrics) bool { return m.CurrentStreak >= 3 },
	},
	{
		Code:        "STREAK_7",
		Name:        "One Full Week",
		Description: "7-day pull streak",
		Rarity:      "rare",
		XPReward:    100,
		Unlocked:    func(m PlayerMetrics) bool { return m.CurrentStreak >= 7 },
	},
	{
		Code:        "STREAK_30",
		Name:        "Monthly Devotion",
		Description: "30-day pull streak",
		Rarity:      "legendary",
		XPReward:    500,
		Unlocked:    func(m PlayerMetrics) bool { return m.CurrentStreak >= 30 },
	},
	{
		Code:        "COMEBACK",
		Name:        "Back Again",
		Description: "Returned after breaking a streak of 3 or more",
		Rarity:      "common",
		XPReward:    20,
		Unlocked: func(m PlayerMetrics) bool {
			return m.StreakBroken && m.LongestStreak >= 3
		},
	},
	{
		Code:        "EARLY_BIRD",
		Name:        "Early Bird",
		Description: "5-day morning pull streak",
		Rarity:      "rare",
		XPReward:    75,
		Unlocked:    func(m PlayerMetrics) bool { return m.MorningStreak >= 5 },
	},
	{
		Code:        "NIGHT_OWL",
		Name:        "Night Owl",
		Description: "5-day evening pull streak",
		Rarity:      "rare",
		XPReward:    75,
		Unlocked:    func(m PlayerMetrics) bool { return m.EveningStreak >= 5 },
	},
	{
		Code:        "WEEKEND_WARRIOR",
		Name:        "Weekend Warrior",
		Description: "Pulled on both days of a weekend",
		Rarity:      "rare",
		XPReward:    75,
		Unlocked:    func(m PlayerMetrics) bool { return m.WeekendStreak >= 2 },
	},
	{
		Code:        "COMBO_5",
		Name:        "On Fire",
		Description: "Hit a 5-action combo in one session",
		Rarity:      "common",
		XPReward:    40,
		Unlocked:    func(m PlayerMetrics) bool { return m.ComboCount >= 5 },
	},
	{
		Code:        "COLLECTOR",
		Name:        "Collector",
		Description: "Favorited 10 cards",
		Rarity:      "common",
		XPReward:    50,
		Unlocked:    func(m PlayerMetrics) bool { return m.Favorites >= 10 },
	},
	{
		Code:        "SPREAD_THE_VIBE",
		Name:        "Spread the Vibe",
		Description: "Shared 5 cards",
		Rarity:      "common",
		XPReward:    50,
		Unlocked:    func(m PlayerMetrics) bool { return m.Shares >= 5 },
	},
	{
		Code:        "RECRUITER",
		Name:        "Recruiter",
		Description: "Referred 3 friends",
		Rarity:      "rare",
		XPReward:    150,
		Unlocked:    func(m PlayerMetrics) bool { return m.Referrals >= 3 },
	},
	{
		Code:        "JOURNALIST",
		Name:        "Inner Voice",
		Description: "Wrote 10 journal entries",
		Rarity:      "rare",
		XPReward:    100,
		Unlocked:    func(m PlayerMetrics) bool { return m.JournalEntries >= 10 },
	},
	{
		Code:        "LEVEL_5",
		Name:        "Rising",
		Description: "Reached level 5",
		Rarity:      "common",
		XPReward:    75,
		Unlocked:    func(m PlayerMetrics) bool { return m.Level >= 5 },
	},
	{
		Code:        "LEVEL_10",
		Name:        "Ascended",
		Description: "Reached level 10",
		Rarity:      "epic",
		XPReward:    200,
		Unlocked:    func(m PlayerMetrics) bool { return m.Level >= 10 },
	},
	{
		Code:        "HOLDER",
		Name:        "Believer",
		Description: "Held any amount of the token",
		Rarity:      "common",
		XPReward:    25,
		Unlocked:    func(m PlayerMetrics) bool { return m.TokenBalance > 0 },
	},
	{
		Code:        "WHALE",
		Name:        "Deep Waters",
		Description: "Reached the whale holder tier",
		Rarity:      "legendary",
		XPReward:    500,
		Unlocked: func(m PlayerMetrics) bool {
			switch m.HolderTier {
			case "whale", "legend", "mythic":
				return true
			}
			return false
		},
	},
	{
		Code:        "PACK_COLLECTOR",
		Name:        "Pack Collector",
		Description: "Claimed 3 packs",
		Rarity:      "rare",
		XPReward:    100,
		Unlocked:    func(m PlayerMetrics) bool { return m.PacksClaimed >= 3 },
	},
}

// CatalogDef looks an achievement up by code, declaration order preserved by
// the slice. Returns nil for unknown codes (e.g., a stale row after a catalog
// change).
func CatalogDef(code string) *AchievementDef {
	for i := range AchievementCatalog {
		if AchievementCatalog[i].Code == code {
			return &AchievementCatalog[i]
		}
	}
	return nil
}
