// models/free_pull.go
package models

import "time"

// FreePull is the one-shot onboarding flag: a wallet gets a single pull
// without meeting the token-gate minimum. Keyed by wallet address, used once.
type FreePull struct {
	ID            string    `gorm:"primaryKey;type:uuid;default:gen_random_uuid()" json:"id"`
	WalletAddress string    `gorm:"uniqueIndex;not null" json:"wallet_address"` // lower-cased
	Used          bool      `gorm:"default:false" json:"used"`
	Timestamp     time.Time `gorm:"autoCreateTime" json:"timestamp"`
}
