// models/pack.go
package models

import (
	"time"

	"gorm.io/gorm"
)

const (
	PackKindFree    = "free"    // claimable by anyone with a connected wallet
	PackKindPremium = "premium" // requires MinBalance at claim time
)

const (
	PackStatusDraft     = "draft"
	PackStatusScheduled = "scheduled"
	PackStatusPublished = "published"
)

// Pack is a claimable bundle of bonus cards.
type Pack struct {
	ID          string `json:"id" gorm:"primaryKey"`
	Slug        string `json:"slug" gorm:"uniqueIndex;not null"`
	Name        string `json:"name" gorm:"not null"`
	Description string `json:"description" gorm:"type:text"`
	Kind        string `json:"kind" gorm:"type:varchar(16);default:'free'"` // free | premium

	// 💰 Premium gating — minimum formatted token balance required at claim
	// AND at every subsequent access (eligibility is never cached).
	MinBalance float64 `json:"min_balance" gorm:"default:0"`

	// 🖼️ Media (R2-hosted)
	CoverURL string `json:"cover_url,omitempty" gorm:"type:text"`

	// 🎛️ Publishing state
	Status    string     `json:"status" gorm:"default:'draft'"` // draft | scheduled | published
	PublishAt *time.Time `json:"publish_at"`                    // only used if scheduled

	Cards []Card `json:"cards,omitempty" gorm:"foreignKey:PackID"`

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `json:"deleted_at,omitempty" gorm:"index"`
}

// PackClaim records one user's claim on one pack. A pack can be claimed at
// most once per user; TimesUsed only ever increments.
type PackClaim struct {
	ID        string    `json:"id" gorm:"primaryKey;type:uuid;default:gen_random_uuid()"`
	UserKey   string    `json:"user_key" gorm:"index:idx_pack_claim_user_pack,unique;not null"`
	PackID    string    `json:"pack_id" gorm:"index:idx_pack_claim_user_pack,unique;not null"`
	ClaimDate time.Time `json:"claim_date" gorm:"autoCreateTime"`
	TimesUsed int64     `json:"times_used" gorm:"default:0"`
}
