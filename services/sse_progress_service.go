package services

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"time"

	"card-pull-system/models"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// StreamAchievementsSSE streams newly unlocked achievements for the
// authenticated user — the notification sink the UI subscribes to.
func (s *AchievementService) StreamAchievementsSSE(c *fiber.Ctx) error {
	userKey := NormalizeUserKey(c.Locals("user_id").(string))

	// SSE headers
	c.Set("Content-Type", "text/event-stream")
	c.Set("Cache-Control", "no-cache")
	c.Set("Connection", "keep-alive")
	c.Set("X-Accel-Buffering", "no") // nginx

	// Use fasthttp stream writer (THIS replaces Flush)
	c.Context().SetBodyStreamWriter(func(w *bufio.Writer) {
		ticker := time.NewTicker(2 * time.Second)
		defer ticker.Stop()

		var lastUnlockedAt time.Time

		// Initialize cursor
		var latest models.UserAchievement
		if err := s.DB.
			Where("user_key = ?", userKey).
			Order("unlocked_at DESC").
			First(&latest).Error; err == nil {
			lastUnlockedAt = latest.UnlockedAt
		} else if !errors.Is(err, gorm.ErrRecordNotFound) {
			log.Printf("SSE init error for user %s: %v", userKey, err)
		}

		// Initial keepalive (comment event)
		w.WriteString(":\n\n")
		w.Flush()

		for {
			select {
			case <-ticker.C:
				var unlocks []models.UserAchievement

				err := s.DB.
					Where("user_key = ?", userKey).
					Where("unlocked_at > ?", lastUnlockedAt).
					Order("unlocked_at ASC").
					Find(&unlocks).Error

				if err != nil {
					log.Printf("SSE query error for user %s: %v", userKey, err)
					continue
				}

				if len(unlocks) == 0 {
					continue
				}

				lastUnlockedAt = unlocks[len(unlocks)-1].UnlockedAt

				for _, u := range unlocks {
					// Join with the static catalog for display fields.
					event := fiber.Map{
						"code":        u.Code,
						"unlocked_at": u.UnlockedAt,
					}
					if def := models.CatalogDef(u.Code); def != nil {
						event["name"] = def.Name
						event["description"] = def.Description
						event["rarity"] = def.Rarity
						event["xp_reward"] = def.XPReward
					}
					payload, _ := json.Marshal(event)

					fmt.Fprintf(w,
						"event: achievement\ndata: %s\n\n",
						payload,
					)
				}

				// This is the REAL "flush"
				if err := w.Flush(); err != nil {
					// Client disconnected
					return
				}

			case <-c.Context().Done():
				// Client closed connection
				return
			}
		}
	})

	return nil
}
