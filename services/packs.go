// services/packs.go
package services

import (
	"log"

	"card-pull-system/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type PackService struct {
	DB *gorm.DB
}

func NewPackService(db *gorm.DB) *PackService {
	return &PackService{DB: db}
}

// GetPublishedPacks lists the packs users can see and claim.
func (s *PackService) GetPublishedPacks() []models.Pack {
	var packs []models.Pack
	if err := s.DB.Where("status = ?", models.PackStatusPublished).
		Order("created_at ASC").
		Find(&packs).Error; err != nil {
		log.Printf("⚠️ GetPublishedPacks: falling back to empty list: %v", err)
		return nil
	}
	return packs
}

// PackEligible re-evaluates eligibility on every call — balance can change
// between accesses, so the decision is never cached. A free pack is always
// eligible; a premium pack needs the token gate to pass at this moment.
func (s *PackService) PackEligible(pack *models.Pack, balance models.TokenBalance) bool {
	if pack == nil || pack.Status != models.PackStatusPublished {
		return false
	}
	if pack.Kind == models.PackKindFree {
		return true
	}
	return HasBalance(balance.FormattedBalance, pack.MinBalance)
}

// ClaimPack records a one-time claim. Returns false — with no mutation — on
// missing parameters, unknown/unpublished pack, failed premium gate, or a
// pack already claimed by this user.
func (s *PackService) ClaimPack(userKey, packID string, balance models.TokenBalance) bool {
	userKey = NormalizeUserKey(userKey)
	if userKey == "" || packID == "" {
		return false
	}

	var pack models.Pack
	if err := s.DB.Where("id = ?", packID).First(&pack).Error; err != nil {
		if err != gorm.ErrRecordNotFound {
			log.Printf("⚠️ ClaimPack: pack lookup failed for %s: %v", packID, err)
		}
		return false
	}
	if !s.PackEligible(&pack, balance) {
		return false
	}
	if s.HasClaimedPack(userKey, packID) {
		return false
	}

	claim := models.PackClaim{
		ID:      uuid.NewString(),
		UserKey: userKey,
		PackID:  packID,
	}
	if err := s.DB.Create(&claim).Error; err != nil {
		// Unique index on (user_key, pack_id) backs the one-claim invariant
		// even if two claims race.
		log.Printf("⚠️ ClaimPack: claim write failed for %s/%s: %v", userKey, packID, err)
		return false
	}
	log.Printf("🎁 Pack claimed: %s → %s", packID, userKey)
	return true
}

// HasClaimedPack reports whether this user already holds a claim.
func (s *PackService) HasClaimedPack(userKey, packID string) bool {
	userKey = NormalizeUserKey(userKey)
	var count int64
	if err := s.DB.Model(&models.PackClaim{}).
		Where("user_key = ? AND pack_id = ?", userKey, packID).
		Count(&count).Error; err != nil {
		log.Printf("⚠️ HasClaimedPack: falling back to false for %s/%s: %v", userKey, packID, err)
		return false
	}
	return count > 0
}

// GetClaimedPacks returns the user's claims, oldest first.
func (s *PackService) GetClaimedPacks(userKey string) []models.PackClaim {
	userKey = NormalizeUserKey(userKey)
	var claims []models.PackClaim
	if err := s.DB.Where("user_key = ?", userKey).
		Order("claim_date ASC").
		Find(&claims).Error; err != nil {
		log.Printf("⚠️ GetClaimedPacks: falling back to empty list for %s: %v", userKey, err)
		return nil
	}
	return claims
}

// CountClaimedPacks counts claims for the metrics snapshot.
func (s *PackService) CountClaimedPacks(userKey string) int64 {
	userKey = NormalizeUserKey(userKey)
	var count int64
	if err := s.DB.Model(&models.PackClaim{}).
		Where("user_key = ?", userKey).
		Count(&count).Error; err != nil {
		log.Printf("⚠️ CountClaimedPacks: falling back to 0 for %s: %v", userKey, err)
		return 0
	}
	return count
}

// IncrementPackUsage bumps TimesUsed on an existing claim. TimesUsed only
// ever increments; the update is a single atomic expression, never a
// read-modify-write of the whole row.
func (s *PackService) IncrementPackUsage(userKey, packID string) bool {
	userKey = NormalizeUserKey(userKey)
	if userKey == "" || packID == "" {
		return false
	}
	res := s.DB.Model(&models.PackClaim{}).
		Where("user_key = ? AND pack_id = ?", userKey, packID).
		UpdateColumn("times_used", gorm.Expr("times_used + 1"))
	if res.Error != nil {
		log.Printf("⚠️ IncrementPackUsage: update failed for %s/%s: %v", userKey, packID, res.Error)
		return false
	}
	return res.RowsAffected > 0
}
