// models/balance_mirror.go
package models

import (
	"time"

	"gorm.io/gorm"
)

// BalanceMirror mirrors token balances from the external balance service.
// The rules engine never reads this table directly: handlers look a wallet up
// here and pass the resulting TokenBalance value in.
// Table name: balance_mirror
type BalanceMirror struct {
	ID               string    `gorm:"primaryKey;type:uuid;not null" json:"id"`
	Address          string    `gorm:"type:varchar(128);not null;uniqueIndex" json:"address"` // Primary lookup key (lower-cased)
	Chain            string    `gorm:"type:varchar(64);not null;index" json:"chain"`
	Token            string    `gorm:"type:varchar(64);not null" json:"token"`
	FormattedBalance float64   `gorm:"not null" json:"formatted_balance"`
	LastCheckedAt    time.Time `gorm:"not null" json:"last_checked_at"`
	CreatedAt        time.Time `gorm:"not null" json:"created_at"`
	UpdatedAt        time.Time `gorm:"not null" json:"updated_at"`

	DeletedAt gorm.DeletedAt `gorm:"index"`
}

// TokenBalance is the value handed to the rules engine. The engine never
// fetches or caches balances itself.
type TokenBalance struct {
	FormattedBalance float64 `json:"formatted_balance"`
	HasBalance       bool    `json:"has_balance"`
}

// Snapshot converts a mirror row into the engine-facing value.
func (m BalanceMirror) Snapshot() TokenBalance {
	return TokenBalance{
		FormattedBalance: m.FormattedBalance,
		HasBalance:       m.FormattedBalance > 0,
	}
}
