// models/pull_record.go
package models

import "time"

// DateKeyLayout is the day-granularity partition key format for the pull
// ledger. Keys are local calendar days, stored as plain strings so rows stay
// human-debuggable.
const DateKeyLayout = "2006-01-02"

// PullRecord is one row of the append-only pull ledger: one per user per
// calendar day, enforced by the unique index. Timestamp preserves append
// order (and the local hour, which the specialized streaks filter on).
type PullRecord struct {
	ID        string    `json:"id" gorm:"primaryKey;type:uuid;default:gen_random_uuid()"`
	UserKey   string    `json:"user_key" gorm:"index:idx_pull_user_date,unique;not null"`
	DateKey   string    `json:"date" gorm:"index:idx_pull_user_date,unique;not null"` // "2006-01-02"
	CardID    string    `json:"card_id"`
	Timestamp time.Time `json:"timestamp" gorm:"autoCreateTime;index"`
}

// Day parses the record's date key. A zero time is returned for a corrupt
// key; callers treat that row as discarded.
func (p PullRecord) Day() time.Time {
	t, err := time.ParseInLocation(DateKeyLayout, p.DateKey, time.Local)
	if err != nil {
		return time.Time{}
	}
	return t
}
