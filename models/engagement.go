// models/engagement.go
package models

import "time"

// Engagement kinds tracked alongside pulls. Each feeds its own counter in
// the metrics snapshot and its own XP weight.
const (
	EngagementFavorite = "favorite"
	EngagementShare    = "share"
	EngagementReferral = "referral"
	EngagementJournal  = "journal"
)

// ValidEngagementKind reports whether kind is one of the tracked kinds.
func ValidEngagementKind(kind string) bool {
	switch kind {
	case EngagementFavorite, EngagementShare, EngagementReferral, EngagementJournal:
		return true
	}
	return false
}

// EngagementEvent is the auxiliary event ledger: favorites, shares,
// referrals and journal entries, append-only.
type EngagementEvent struct {
	ID        string    `json:"id" gorm:"primaryKey;type:uuid;default:gen_random_uuid()"`
	UserKey   string    `json:"user_key" gorm:"index;not null"`
	Kind      string    `json:"kind" gorm:"type:varchar(16);index;not null"`
	Timestamp time.Time `json:"timestamp" gorm:"autoCreateTime"`
}
