// models/card.go
package models

import (
	"time"

	"gorm.io/gorm"
)

const (
	CardRarityCommon    = "common"
	CardRarityRare      = "rare"
	CardRarityEpic      = "epic"
	CardRarityLegendary = "legendary"
)

// Card is one affirmation card in the catalog. Cards belong to a pack
// (the base deck is a pack with kind "free").
type Card struct {
	ID       string `json:"id" gorm:"primaryKey"`
	Slug     string `json:"slug" gorm:"uniqueIndex;not null"`
	Title    string `json:"title" gorm:"not null"`
	Message  string `json:"message" gorm:"type:text;not null"`
	Rarity   string `json:"rarity" gorm:"type:varchar(16);default:'common'"`

	// 🖼️ Media (R2-hosted)
	ArtworkURL string `json:"artwork_url,omitempty" gorm:"type:text"`

	PackID string `json:"pack_id" gorm:"index"`

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `json:"deleted_at,omitempty" gorm:"index"`
}
