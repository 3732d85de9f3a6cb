package models

import (
	"time"

	"gorm.io/gorm"
)

// UserProgress caches cumulative XP and the level derived from it
// (denormalized for cheap reads; everything else is recomputed from the
// ledgers on demand).
type UserProgress struct {
	ID      string `gorm:"primaryKey;type:uuid;default:gen_random_uuid()" json:"id"`
	UserKey string `gorm:"uniqueIndex;not null" json:"user_key"` // lower-cased wallet address or username

	// Core progression
	TotalXP int64 `json:"total_xp" gorm:"default:0"`
	Level   int   `json:"level" gorm:"default:1"`

	// Milestones
	LastLevelUpAt *time.Time `json:"last_level_up_at,omitempty"`

	Timestamps
}

// XPLedgerEntry is the append-only XP audit trail. TotalXP on UserProgress
// is always the sum of a user's entries.
type XPLedgerEntry struct {
	ID        string    `gorm:"primaryKey;type:uuid;default:gen_random_uuid()" json:"id"`
	UserKey   string    `gorm:"index;not null" json:"user_key"`
	Amount    int64     `gorm:"not null" json:"amount"`
	Reason    string    `gorm:"not null" json:"reason"` // e.g., "daily_pull", "combo_x5"
	Timestamp time.Time `gorm:"autoCreateTime" json:"timestamp"`
}

// LevelInfo is the derived view of a user's position on the level curve.
type LevelInfo struct {
	Level           int     `json:"level"`
	TotalXP         int64   `json:"total_xp"`
	CurrentXP       int64   `json:"current_xp"`        // XP earned within the current level
	XPForNextLevel  int64   `json:"xp_for_next_level"` // threshold delta to the next level
	ProgressPercent float64 `json:"progress_percent"`  // clamped to [0,100]
}

// Timestamps adds GORM auto-times
type Timestamps struct {
	CreatedAt time.Time      `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt time.Time      `json:"updated_at" gorm:"autoUpdateTime"`
	DeletedAt gorm.DeletedAt `json:"deleted_at,omitempty" gorm:"index"`
}
