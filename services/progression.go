package services

import (
	"fmt"
	"log"
	"math"
	"time"

	"card-pull-system/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// XPWeights define relative values (tunable via config/env later)
type XPWeights struct {
	PullXP     int64 `default:"25"`
	FavoriteXP int64 `default:"5"`
	ShareXP    int64 `default:"15"`
	JournalXP  int64 `default:"10"`
	ReferralXP int64 `default:"100"` // 4× pull
}

var DefaultXPWeights = XPWeights{
	PullXP:     25,
	FavoriteXP: 5,
	ShareXP:    15,
	JournalXP:  10,
	ReferralXP: 100,
}

// XPForEngagement maps an engagement kind to its XP weight.
func XPForEngagement(kind string) int64 {
	switch kind {
	case models.EngagementFavorite:
		return DefaultXPWeights.FavoriteXP
	case models.EngagementShare:
		return DefaultXPWeights.ShareXP
	case models.EngagementJournal:
		return DefaultXPWeights.JournalXP
	case models.EngagementReferral:
		return DefaultXPWeights.ReferralXP
	}
	return 0
}

// LevelConfig: XP needed for *next* level (e.g., level 1 → 2 needs BaseXPPerLevel * 1^1.2)
const BaseXPPerLevel = 100

// xpForNextLevel returns XP required to reach level+1 from current level
// e.g., xpForNextLevel(1) = XP to go from L1 → L2 = 100
func xpForNextLevel(currentLevel int) int64 {
	if currentLevel < 1 {
		currentLevel = 1
	}
	// L_n = floor(BaseXPPerLevel * n^1.2)
	return int64(float64(BaseXPPerLevel) * math.Pow(float64(currentLevel), 1.2))
}

// xpThresholdForLevel returns the cumulative XP at which a level starts.
// Level 1 starts at 0; thresholds are strictly increasing.
func xpThresholdForLevel(level int) int64 {
	var total int64
	for n := 1; n < level; n++ {
		total += xpForNextLevel(n)
	}
	return total
}

// levelForXP returns the largest level whose threshold is ≤ totalXP.
func levelForXP(totalXP int64) int {
	level := 1
	for totalXP >= xpThresholdForLevel(level)+xpForNextLevel(level) {
		level++
	}
	return level
}

// BuildLevelInfo derives the full level view from cumulative XP.
func BuildLevelInfo(totalXP int64) models.LevelInfo {
	if totalXP < 0 {
		totalXP = 0
	}
	level := levelForXP(totalXP)
	current := totalXP - xpThresholdForLevel(level)
	next := xpForNextLevel(level)

	percent := float64(current) / float64(next) * 100
	if percent < 0 {
		percent = 0
	}
	if percent > 100 {
		percent = 100
	}

	return models.LevelInfo{
		Level:           level,
		TotalXP:         totalXP,
		CurrentXP:       current,
		XPForNextLevel:  next,
		ProgressPercent: percent,
	}
}

type ProgressionService struct {
	DB *gorm.DB
}

func NewProgressionService(db *gorm.DB) *ProgressionService {
	return &ProgressionService{DB: db}
}

// EnsureProgressRecord ensures a UserProgress row exists (idempotent)
func (s *ProgressionService) EnsureProgressRecord(userKey string) (*models.UserProgress, error) {
	userKey = NormalizeUserKey(userKey)
	var prog models.UserProgress
	err := s.DB.Where("user_key = ?", userKey).First(&prog).Error
	if err == gorm.ErrRecordNotFound {
		prog = models.UserProgress{
			ID:      uuid.NewString(),
			UserKey: userKey,
			TotalXP: 0,
			Level:   1,
		}
		if err := s.DB.Create(&prog).Error; err != nil {
			return nil, err
		}
		return &prog, nil
	}
	if err != nil {
		return nil, err
	}
	return &prog, nil
}

// AwardXP appends an XP ledger entry and atomically updates the cached total
// and level. levelsGained is how many thresholds this single award crossed,
// so the caller can fire exactly one level-up notification per crossing.
func (s *ProgressionService) AwardXP(userKey string, xp int64, reason string) (prog *models.UserProgress, levelsGained int, err error) {
	userKey = NormalizeUserKey(userKey)
	if userKey == "" || xp <= 0 {
		return nil, 0, fmt.Errorf("invalid XP award: user=%q amount=%d", userKey, xp)
	}

	err = s.DB.Transaction(func(tx *gorm.DB) error {
		var cur models.UserProgress
		if err := tx.Where("user_key = ?", userKey).First(&cur).Error; err != nil {
			if err != gorm.ErrRecordNotFound {
				return err
			}
			cur = models.UserProgress{ID: uuid.NewString(), UserKey: userKey, TotalXP: 0, Level: 1}
			if err := tx.Create(&cur).Error; err != nil {
				return err
			}
		}

		entry := models.XPLedgerEntry{
			ID:      uuid.NewString(),
			UserKey: userKey,
			Amount:  xp,
			Reason:  reason,
		}
		if err := tx.Create(&entry).Error; err != nil {
			return err
		}

		cur.TotalXP += xp
		newLevel := levelForXP(cur.TotalXP)
		levelsGained = newLevel - cur.Level
		if levelsGained < 0 {
			levelsGained = 0
		}
		if levelsGained > 0 {
			now := time.Now()
			cur.Level = newLevel
			cur.LastLevelUpAt = &now
		}

		if err := tx.Save(&cur).Error; err != nil {
			return err
		}

		prog = &models.UserProgress{}
		*prog = cur

		log.Printf("🎮 XP Awarded: %s → +%d XP, total=%d, Lvl=%d (reason: %s)",
			userKey, xp, cur.TotalXP, cur.Level, reason)
		return nil
	})
	if err != nil {
		return nil, 0, err
	}
	return prog, levelsGained, nil
}

// GetLevelInfo derives the level view for a user. Persistence trouble
// degrades to the level-1 default rather than failing the caller.
func (s *ProgressionService) GetLevelInfo(userKey string) models.LevelInfo {
	userKey = NormalizeUserKey(userKey)
	var cur models.UserProgress
	if err := s.DB.Where("user_key = ?", userKey).First(&cur).Error; err != nil {
		if err != gorm.ErrRecordNotFound {
			log.Printf("⚠️ GetLevelInfo: falling back to defaults for %s: %v", userKey, err)
		}
		return BuildLevelInfo(0)
	}
	return BuildLevelInfo(cur.TotalXP)
}
