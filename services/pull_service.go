// services/pull_service.go
package services

import (
	"fmt"
	"log"
	"time"

	"card-pull-system/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// PullResult is the notification payload handed back to the UI after a pull
// or engagement: everything in it is already durably persisted.
type PullResult struct {
	Recorded      bool   `json:"recorded"`
	AlreadyPulled bool   `json:"already_pulled"`
	Ineligible    bool   `json:"ineligible,omitempty"`
	CardID        string `json:"card_id,omitempty"`
	Date          string `json:"date,omitempty"`

	XPAwarded    int64            `json:"xp_awarded"`
	LevelsGained int              `json:"levels_gained"`
	LevelInfo    models.LevelInfo `json:"level_info"`

	Streak       StreakState             `json:"streak"`
	Combo        int                     `json:"combo"`
	ComboBonus   int64                   `json:"combo_bonus"`
	HolderTier   string                  `json:"holder_tier,omitempty"`
	FreePullUsed bool                    `json:"free_pull_used,omitempty"`
	Achievements []models.AchievementDef `json:"achievements"`
}

// PullService composes the rules engine: ledger append, streak/combo/XP
// updates and the achievement sweep, in that order. It is the only component
// that crosses module boundaries; each collaborator stays single-purpose.
type PullService struct {
	DB           *gorm.DB
	Ledger       *LedgerService
	Progression  *ProgressionService
	Achievements *AchievementService
	Packs        *PackService
	Combo        *ComboTracker

	// MinBalance gates the daily pull; Now is the injected clock.
	MinBalance float64
	Now        func() time.Time
}

func NewPullService(db *gorm.DB, ledger *LedgerService, progression *ProgressionService,
	achievements *AchievementService, packs *PackService, combo *ComboTracker,
	minBalance float64) *PullService {
	return &PullService{
		DB:           db,
		Ledger:       ledger,
		Progression:  progression,
		Achievements: achievements,
		Packs:        packs,
		Combo:        combo,
		MinBalance:   minBalance,
		Now:          time.Now,
	}
}

// DoPull runs the full pull flow for a token-gated user. The supplied
// balance comes from the caller (balance mirror); the engine never fetches
// it.
func (s *PullService) DoPull(userKey, cardID string, balance models.TokenBalance) PullResult {
	userKey = NormalizeUserKey(userKey)
	if userKey == "" {
		return PullResult{Achievements: []models.AchievementDef{}}
	}
	if !HasBalance(balance.FormattedBalance, s.MinBalance) {
		return PullResult{
			Ineligible:   true,
			HolderTier:   ClassifyTier(balance.FormattedBalance),
			LevelInfo:    s.Progression.GetLevelInfo(userKey),
			Achievements: []models.AchievementDef{},
		}
	}
	return s.pull(userKey, cardID, balance, false)
}

// DoFreePull consumes the one-shot onboarding flag and pulls without the
// token gate. Returns an ineligible result if the flag was already used.
func (s *PullService) DoFreePull(walletAddress, cardID string, balance models.TokenBalance) PullResult {
	userKey := NormalizeUserKey(walletAddress)
	if userKey == "" {
		return PullResult{Achievements: []models.AchievementDef{}}
	}
	if !s.consumeFreePull(userKey) {
		return PullResult{Ineligible: true, Achievements: []models.AchievementDef{}}
	}
	result := s.pull(userKey, cardID, balance, true)
	result.FreePullUsed = true
	return result
}

func (s *PullService) pull(userKey, cardID string, balance models.TokenBalance, free bool) PullResult {
	now := s.Now()
	dateKey := now.Local().Format(models.DateKeyLayout)

	result := PullResult{
		CardID:       cardID,
		Date:         dateKey,
		HolderTier:   ClassifyTier(balance.FormattedBalance),
		Achievements: []models.AchievementDef{},
	}

	record, appended := s.Ledger.RecordPull(userKey, dateKey, cardID)
	if record == nil {
		// Not durably recorded; no derived state moves.
		result.LevelInfo = s.Progression.GetLevelInfo(userKey)
		return result
	}
	result.Recorded = true
	if !appended {
		// Same-day repeat: idempotent, no double award.
		result.AlreadyPulled = true
		result.Streak = ComputeStreak(s.Ledger.GetPulls(userKey), now)
		result.Combo = s.Combo.CurrentCombo(userKey)
		result.LevelInfo = s.Progression.GetLevelInfo(userKey)
		return result
	}

	combo := s.Combo.RegisterAction(userKey)
	result.Combo = combo
	result.XPAwarded, result.LevelsGained, result.ComboBonus =
		s.awardActionXP(userKey, DefaultXPWeights.PullXP, "daily_pull", combo)

	metrics := s.BuildMetrics(userKey, balance, combo)
	result.Streak = StreakState{
		Current: metrics.CurrentStreak,
		Longest: metrics.LongestStreak,
		Broken:  metrics.StreakBroken,
	}

	result.Achievements = s.sweepAchievements(userKey, metrics)
	for _, def := range result.Achievements {
		result.XPAwarded += def.XPReward
	}

	result.LevelInfo = s.Progression.GetLevelInfo(userKey)
	return result
}

// Engage records an auxiliary engagement event (favorite/share/referral/
// journal), feeds the combo, awards the kind's XP weight and re-runs the
// achievement sweep.
func (s *PullService) Engage(userKey, kind string, balance models.TokenBalance) PullResult {
	userKey = NormalizeUserKey(userKey)
	result := PullResult{Achievements: []models.AchievementDef{}}
	if userKey == "" || !s.Ledger.RecordEngagement(userKey, kind) {
		return result
	}
	result.Recorded = true

	combo := s.Combo.RegisterAction(userKey)
	result.Combo = combo
	result.XPAwarded, result.LevelsGained, result.ComboBonus =
		s.awardActionXP(userKey, XPForEngagement(kind), kind, combo)

	metrics := s.BuildMetrics(userKey, balance, combo)
	result.Achievements = s.sweepAchievements(userKey, metrics)
	for _, def := range result.Achievements {
		result.XPAwarded += def.XPReward
	}

	result.LevelInfo = s.Progression.GetLevelInfo(userKey)
	result.HolderTier = metrics.HolderTier
	result.Streak = StreakState{
		Current: metrics.CurrentStreak,
		Longest: metrics.LongestStreak,
		Broken:  metrics.StreakBroken,
	}
	return result
}

// awardActionXP grants the base XP for an action plus the combo bonus when
// this action crosses a bonus tier. XP failures are logged, never fatal.
func (s *PullService) awardActionXP(userKey string, baseXP int64, reason string, combo int) (awarded int64, levelsGained int, comboBonus int64) {
	if baseXP > 0 {
		if _, gained, err := s.Progression.AwardXP(userKey, baseXP, reason); err != nil {
			log.Printf("⚠️ awardActionXP: base award failed for %s (%s): %v", userKey, reason, err)
		} else {
			awarded += baseXP
			levelsGained += gained
		}
	}

	// Fire the combo bonus only on the action that crosses a tier boundary.
	if bonus := ComboBonus(combo); bonus > ComboBonus(combo-1) {
		comboReason := fmt.Sprintf("combo_x%d", combo)
		if _, gained, err := s.Progression.AwardXP(userKey, bonus, comboReason); err != nil {
			log.Printf("⚠️ awardActionXP: combo award failed for %s: %v", userKey, err)
		} else {
			awarded += bonus
			levelsGained += gained
			comboBonus = bonus
		}
	}
	return awarded, levelsGained, comboBonus
}

// sweepAchievements unlocks newly satisfied achievements and awards their XP
// rewards — the composition the engine itself deliberately does not do.
func (s *PullService) sweepAchievements(userKey string, metrics models.PlayerMetrics) []models.AchievementDef {
	newly := s.Achievements.CheckAndUnlock(userKey, metrics)
	for _, def := range newly {
		if def.XPReward <= 0 {
			continue
		}
		reason := "achievement_" + def.Code
		if _, _, err := s.Progression.AwardXP(userKey, def.XPReward, reason); err != nil {
			log.Printf("⚠️ sweepAchievements: reward failed for %s/%s: %v", userKey, def.Code, err)
		}
	}
	if newly == nil {
		newly = []models.AchievementDef{}
	}
	return newly
}

// BuildMetrics assembles the snapshot the achievement engine evaluates.
// Every derived value is recomputed from the ledgers; only cumulative XP is
// read from its cache row.
func (s *PullService) BuildMetrics(userKey string, balance models.TokenBalance, combo int) models.PlayerMetrics {
	userKey = NormalizeUserKey(userKey)
	now := s.Now()

	pulls := s.Ledger.GetPulls(userKey)
	streak := ComputeStreak(pulls, now)
	counts := s.Ledger.EngagementCounts(userKey)
	level := s.Progression.GetLevelInfo(userKey)

	return models.PlayerMetrics{
		TotalPulls:    int64(len(pulls)),
		CurrentStreak: streak.Current,
		LongestStreak: streak.Longest,
		StreakBroken:  streak.Broken,

		MorningStreak: MorningStreak(pulls, now),
		EveningStreak: EveningStreak(pulls, now),
		WeekendStreak: WeekendStreak(pulls, now),

		Favorites:      counts[models.EngagementFavorite],
		Shares:         counts[models.EngagementShare],
		Referrals:      counts[models.EngagementReferral],
		JournalEntries: counts[models.EngagementJournal],

		Level:      level.Level,
		ComboCount: combo,

		TokenBalance: balance.FormattedBalance,
		HolderTier:   ClassifyTier(balance.FormattedBalance),
		PacksClaimed: s.Packs.CountClaimedPacks(userKey),
	}
}

// consumeFreePull flips the one-shot onboarding flag, creating it on first
// sight. Returns false when the flag was already used or persistence failed.
func (s *PullService) consumeFreePull(walletAddress string) bool {
	var flag models.FreePull
	err := s.DB.Where("wallet_address = ?", walletAddress).First(&flag).Error
	if err == gorm.ErrRecordNotFound {
		flag = models.FreePull{
			ID:            uuid.NewString(),
			WalletAddress: walletAddress,
			Used:          true,
		}
		if err := s.DB.Create(&flag).Error; err != nil {
			log.Printf("⚠️ consumeFreePull: flag write failed for %s: %v", walletAddress, err)
			return false
		}
		return true
	}
	if err != nil {
		log.Printf("⚠️ consumeFreePull: flag read failed for %s: %v", walletAddress, err)
		return false
	}
	if flag.Used {
		return false
	}
	flag.Used = true
	return s.DB.Save(&flag).Error == nil
}
