package services

import (
	"log"

	"card-pull-system/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type AchievementService struct {
	DB *gorm.DB
}

func NewAchievementService(db *gorm.DB) *AchievementService {
	return &AchievementService{DB: db}
}

// EvaluateCatalog runs every catalog predicate against the metrics snapshot,
// skipping codes already in unlocked. Pure: catalog declaration order in,
// stable unlock order out.
func EvaluateCatalog(metrics models.PlayerMetrics, unlocked map[string]bool) []models.AchievementDef {
	var newly []models.AchievementDef
	for _, def := range models.AchievementCatalog {
		if unlocked[def.Code] {
			continue
		}
		if def.Unlocked(metrics) {
			newly = append(newly, def)
		}
	}
	return newly
}

// UnlockedCodes returns the set of codes this user has already unlocked.
// Persistence failure degrades to the empty set — and the caller's unlock
// writes will then be rejected by the unique index rather than duplicated.
func (s *AchievementService) UnlockedCodes(userKey string) map[string]bool {
	userKey = NormalizeUserKey(userKey)
	unlocked := make(map[string]bool)

	var rows []models.UserAchievement
	if err := s.DB.Where("user_key = ?", userKey).Find(&rows).Error; err != nil {
		log.Printf("⚠️ UnlockedCodes: falling back to empty set for %s: %v", userKey, err)
		return unlocked
	}
	for _, r := range rows {
		unlocked[r.Code] = true
	}
	return unlocked
}

// GetUnlocked returns the user's unlock records, oldest first.
func (s *AchievementService) GetUnlocked(userKey string) []models.UserAchievement {
	userKey = NormalizeUserKey(userKey)
	var rows []models.UserAchievement
	if err := s.DB.Where("user_key = ?", userKey).
		Order("unlocked_at ASC").
		Find(&rows).Error; err != nil {
		log.Printf("⚠️ GetUnlocked: falling back to empty list for %s: %v", userKey, err)
		return nil
	}
	return rows
}

// CheckAndUnlock evaluates the catalog against the metrics snapshot and
// persists one UserAchievement per newly satisfied predicate. Idempotent: a
// second call with identical metrics returns an empty slice. The engine only
// persists unlocks — XP awards and notifications are the caller's to compose.
func (s *AchievementService) CheckAndUnlock(userKey string, metrics models.PlayerMetrics) []models.AchievementDef {
	userKey = NormalizeUserKey(userKey)
	if userKey == "" {
		return nil
	}

	newly := EvaluateCatalog(metrics, s.UnlockedCodes(userKey))

	var persisted []models.AchievementDef
	for _, def := range newly {
		row := models.UserAchievement{
			ID:      uuid.NewString(),
			UserKey: userKey,
			Code:    def.Code,
		}
		if err := s.DB.Create(&row).Error; err != nil {
			// Unique (user_key, code) index absorbs a concurrent duplicate.
			log.Printf("⚠️ CheckAndUnlock: unlock write failed for %s/%s: %v", userKey, def.Code, err)
			continue
		}
		persisted = append(persisted, def)
		log.Printf("🏆 Achievement unlocked: %s → %s", def.Code, userKey)
	}
	return persisted
}
