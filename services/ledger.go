// services/ledger.go
package services

import (
	"log"
	"strings"
	"time"

	"card-pull-system/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// LedgerService owns the append-only pull and engagement ledgers. Every
// derived metric (streaks, counters) is recomputed from these rows on read;
// nothing derived is cached here.
type LedgerService struct {
	DB *gorm.DB
}

func NewLedgerService(db *gorm.DB) *LedgerService {
	return &LedgerService{DB: db}
}

// NormalizeUserKey lower-cases a wallet address or username for storage-key
// consistency.
func NormalizeUserKey(key string) string {
	return strings.ToLower(strings.TrimSpace(key))
}

// RecordPull appends one pull row for (user, day). Idempotent per calendar
// day: a second call for the same day returns the existing row and
// appended=false. A persistence failure is logged and returns (nil, false) —
// the caller must not assume the pull was durably recorded.
func (s *LedgerService) RecordPull(userKey, dateKey, cardID string) (record *models.PullRecord, appended bool) {
	userKey = NormalizeUserKey(userKey)
	if userKey == "" || dateKey == "" {
		return nil, false
	}
	if _, err := time.ParseInLocation(models.DateKeyLayout, dateKey, time.Local); err != nil {
		log.Printf("⚠️ RecordPull: rejected malformed date key %q for %s", dateKey, userKey)
		return nil, false
	}

	var existing models.PullRecord
	err := s.DB.Where("user_key = ? AND date_key = ?", userKey, dateKey).First(&existing).Error
	if err == nil {
		return &existing, false
	}
	if err != gorm.ErrRecordNotFound {
		log.Printf("⚠️ RecordPull: ledger read failed for %s: %v", userKey, err)
		return nil, false
	}

	row := models.PullRecord{
		ID:      uuid.NewString(),
		UserKey: userKey,
		DateKey: dateKey,
		CardID:  cardID,
	}
	if err := s.DB.Create(&row).Error; err != nil {
		// The unique index also catches a racing duplicate; either way the
		// pull is not reported as newly appended.
		log.Printf("⚠️ RecordPull: ledger write failed for %s on %s: %v", userKey, dateKey, err)
		return nil, false
	}
	return &row, true
}

// GetPulls returns a user's full pull ledger ascending by date, stable by
// insertion order for equal dates. Persistence failure degrades to an empty
// ledger.
func (s *LedgerService) GetPulls(userKey string) []models.PullRecord {
	userKey = NormalizeUserKey(userKey)
	var pulls []models.PullRecord
	if err := s.DB.Where("user_key = ?", userKey).
		Order("date_key ASC, timestamp ASC").
		Find(&pulls).Error; err != nil {
		log.Printf("⚠️ GetPulls: falling back to empty ledger for %s: %v", userKey, err)
		return nil
	}
	return pulls
}

// TotalPulls counts ledger rows without loading them.
func (s *LedgerService) TotalPulls(userKey string) int64 {
	userKey = NormalizeUserKey(userKey)
	var count int64
	if err := s.DB.Model(&models.PullRecord{}).
		Where("user_key = ?", userKey).
		Count(&count).Error; err != nil {
		log.Printf("⚠️ TotalPulls: falling back to 0 for %s: %v", userKey, err)
		return 0
	}
	return count
}

// HasPulledOn reports whether the user already pulled on the given day.
func (s *LedgerService) HasPulledOn(userKey, dateKey string) bool {
	userKey = NormalizeUserKey(userKey)
	var count int64
	if err := s.DB.Model(&models.PullRecord{}).
		Where("user_key = ? AND date_key = ?", userKey, dateKey).
		Count(&count).Error; err != nil {
		log.Printf("⚠️ HasPulledOn: falling back to false for %s: %v", userKey, err)
		return false
	}
	return count > 0
}

// RecordEngagement appends a favorite/share/referral/journal event. Unknown
// kinds and missing keys are rejected with false, no partial mutation.
func (s *LedgerService) RecordEngagement(userKey, kind string) bool {
	userKey = NormalizeUserKey(userKey)
	if userKey == "" || !models.ValidEngagementKind(kind) {
		return false
	}
	event := models.EngagementEvent{
		ID:      uuid.NewString(),
		UserKey: userKey,
		Kind:    kind,
	}
	if err := s.DB.Create(&event).Error; err != nil {
		log.Printf("⚠️ RecordEngagement: write failed for %s/%s: %v", userKey, kind, err)
		return false
	}
	return true
}

// EngagementCounts returns per-kind counters for the metrics snapshot.
// Persistence failure degrades to all-zero counters.
func (s *LedgerService) EngagementCounts(userKey string) map[string]int64 {
	userKey = NormalizeUserKey(userKey)
	counts := map[string]int64{
		models.EngagementFavorite: 0,
		models.EngagementShare:    0,
		models.EngagementReferral: 0,
		models.EngagementJournal:  0,
	}

	var rows []struct {
		Kind  string
		Count int64
	}
	if err := s.DB.Model(&models.EngagementEvent{}).
		Select("kind, COUNT(*) AS count").
		Where("user_key = ?", userKey).
		Group("kind").
		Scan(&rows).Error; err != nil {
		log.Printf("⚠️ EngagementCounts: falling back to zeros for %s: %v", userKey, err)
		return counts
	}
	for _, r := range rows {
		counts[r.Kind] = r.Count
	}
	return counts
}
