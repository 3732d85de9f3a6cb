// services/catalog_service.go
package services

import (
	"errors"
	"fmt"
	"log"
	"path/filepath"
	"strconv"
	"time"

	"card-pull-system/models"
	"card-pull-system/utils"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/gosimple/slug"
	"gorm.io/gorm"
)

// --- Public handlers ---

// GetPublishedCards lists catalog cards from published packs.
func (s *PackService) GetPublishedCards(c *fiber.Ctx) error {
	var cards []models.Card
	err := s.DB.
		Joins("JOIN packs ON packs.id = cards.pack_id").
		Where("packs.status = ?", models.PackStatusPublished).
		Order("cards.created_at ASC").
		Find(&cards).Error
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "failed to fetch cards",
			"cause": err.Error(),
		})
	}
	return c.JSON(cards)
}

// --- Admin handlers ---

// CreatePack creates a pack (Admin only). Accepts multipart form so a cover
// image can be attached; the cover goes to R2.
func (s *PackService) CreatePack(c *fiber.Ctx) error {
	name := c.FormValue("name")
	if name == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "name is required"})
	}

	kind := c.FormValue("kind", models.PackKindFree)
	if kind != models.PackKindFree && kind != models.PackKindPremium {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "kind must be free or premium"})
	}

	minBalance := 0.0
	if kind == models.PackKindPremium {
		var err error
		minBalance, err = parsePositiveFloat(c.FormValue("min_balance"))
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "min_balance is required for premium packs"})
		}
	}

	pack := models.Pack{
		ID:          uuid.NewString(),
		Slug:        slug.Make(name),
		Name:        name,
		Description: c.FormValue("description"),
		Kind:        kind,
		MinBalance:  minBalance,
		Status:      c.FormValue("status", models.PackStatusDraft),
	}
	if pack.Status != models.PackStatusDraft &&
		pack.Status != models.PackStatusScheduled &&
		pack.Status != models.PackStatusPublished {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid status"})
	}
	if pack.Status == models.PackStatusScheduled {
		publishAt, err := time.Parse(time.RFC3339, c.FormValue("publish_at"))
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "publish_at (RFC3339) is required for scheduled packs"})
		}
		pack.PublishAt = &publishAt
	}

	// Optional cover upload → R2
	if cover, err := c.FormFile("cover"); err == nil && cover != nil {
		coverKey := "covers/" + uuid.NewString() + filepath.Ext(cover.Filename)
		url, err := utils.UploadFileToR2(cover, coverKey)
		if err != nil {
			log.Printf("⚠️ CreatePack: cover upload failed: %v", err)
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "cover upload failed",
				"cause": err.Error(),
			})
		}
		pack.CoverURL = url
	}

	if err := s.DB.Create(&pack).Error; err != nil {
		log.Printf("DB Error creating pack: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to create pack"})
	}

	return c.Status(fiber.StatusCreated).JSON(pack)
}

// PublishPackNow flips a pack straight to published (Admin only).
func (s *PackService) PublishPackNow(c *fiber.Ctx) error {
	id := c.Params("id")

	var pack models.Pack
	if err := s.DB.First(&pack, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Pack not found"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "DB error"})
	}

	pack.Status = models.PackStatusPublished
	pack.PublishAt = nil
	if err := s.DB.Save(&pack).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to publish pack"})
	}
	log.Printf("✅ Pack published: %s", pack.Name)
	return c.JSON(pack)
}

// CreateCard adds a card to a pack (Admin only). Artwork is optional and
// goes to R2.
func (s *PackService) CreateCard(c *fiber.Ctx) error {
	title := c.FormValue("title")
	message := c.FormValue("message")
	packID := c.FormValue("pack_id")
	if title == "" || message == "" || packID == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "title, message and pack_id are required"})
	}

	var pack models.Pack
	if err := s.DB.First(&pack, "id = ?", packID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Pack not found"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "DB error"})
	}

	card := models.Card{
		ID:      uuid.NewString(),
		Slug:    slug.Make(title),
		Title:   title,
		Message: message,
		Rarity:  c.FormValue("rarity", models.CardRarityCommon),
		PackID:  pack.ID,
	}

	if artwork, err := c.FormFile("artwork"); err == nil && artwork != nil {
		artworkKey := "cards/" + uuid.NewString() + filepath.Ext(artwork.Filename)
		url, err := utils.UploadFileToR2(artwork, artworkKey)
		if err != nil {
			log.Printf("⚠️ CreateCard: artwork upload failed: %v", err)
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "artwork upload failed",
				"cause": err.Error(),
			})
		}
		card.ArtworkURL = url
	}

	if err := s.DB.Create(&card).Error; err != nil {
		log.Printf("DB Error creating card: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to create card"})
	}

	return c.Status(fiber.StatusCreated).JSON(card)
}

func parsePositiveFloat(raw string) (float64, error) {
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, err
	}
	if v <= 0 {
		return 0, fmt.Errorf("value must be positive, got %f", v)
	}
	return v, nil
}
