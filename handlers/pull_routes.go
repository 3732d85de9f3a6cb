// handlers/pull_routes.go
package handlers

import (
	"card-pull-system/middleware"
	"card-pull-system/models"
	"card-pull-system/services"
	"card-pull-system/workers"

	"github.com/gofiber/fiber/v2"
)

func SetupPullRoutes(app *fiber.App, pullService *services.PullService,
	progressionService *services.ProgressionService,
	achievementService *services.AchievementService,
	authClient *services.AuthServiceClient) {

	// 🔐 Secured routes — require user context (userID, roles)
	secured := app.Group("/", middleware.UserContextMiddleware())

	secured.Post("/user/pull", func(c *fiber.Ctx) error {
		userID := c.Locals("user_id").(string)

		var req struct {
			CardID string `json:"card_id"`
		}
		if err := c.BodyParser(&req); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "invalid JSON",
				"cause": err.Error(),
			})
		}
		if req.CardID == "" {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "card_id is required"})
		}

		balance, err := workers.GetBalanceForWallet(pullService.DB, userID)
		if err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "failed to read balance mirror",
				"cause": err.Error(),
			})
		}

		result := pullService.DoPull(userID, req.CardID, balance)
		if result.Ineligible {
			return c.Status(fiber.StatusForbidden).JSON(result)
		}
		if !result.Recorded {
			return c.Status(fiber.StatusServiceUnavailable).JSON(result)
		}
		return c.JSON(result)
	})

	secured.Post("/user/free-pull", func(c *fiber.Ctx) error {
		userID := c.Locals("user_id").(string)

		var req struct {
			CardID string `json:"card_id"`
		}
		if err := c.BodyParser(&req); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "invalid JSON",
				"cause": err.Error(),
			})
		}

		balance, err := workers.GetBalanceForWallet(pullService.DB, userID)
		if err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "failed to read balance mirror",
				"cause": err.Error(),
			})
		}

		result := pullService.DoFreePull(userID, req.CardID, balance)
		if result.Ineligible {
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
				"error": "free pull already used",
			})
		}
		return c.JSON(result)
	})

	secured.Post("/user/engage", func(c *fiber.Ctx) error {
		userID := c.Locals("user_id").(string)

		var req struct {
			Kind string `json:"kind"`
		}
		if err := c.BodyParser(&req); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "invalid JSON",
				"cause": err.Error(),
			})
		}
		if !models.ValidEngagementKind(req.Kind) {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "kind must be one of favorite, share, referral, journal",
			})
		}

		balance, err := workers.GetBalanceForWallet(pullService.DB, userID)
		if err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "failed to read balance mirror",
				"cause": err.Error(),
			})
		}

		result := pullService.Engage(userID, req.Kind, balance)
		if !result.Recorded {
			return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{
				"error": "engagement not recorded",
			})
		}
		return c.JSON(result)
	})

	secured.Get("/user/progress", func(c *fiber.Ctx) error {
		userID := c.Locals("user_id").(string)

		balance, err := workers.GetBalanceForWallet(pullService.DB, userID)
		if err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "failed to read balance mirror",
				"cause": err.Error(),
			})
		}

		combo := pullService.Combo.CurrentCombo(services.NormalizeUserKey(userID))
		metrics := pullService.BuildMetrics(userID, balance, combo)
		level := progressionService.GetLevelInfo(services.NormalizeUserKey(userID))

		return c.JSON(fiber.Map{
			"level_info": level,
			"streak": fiber.Map{
				"current": metrics.CurrentStreak,
				"longest": metrics.LongestStreak,
				"broken":  metrics.StreakBroken,
				"morning": metrics.MorningStreak,
				"evening": metrics.EveningStreak,
				"weekend": metrics.WeekendStreak,
			},
			"total_pulls":     metrics.TotalPulls,
			"favorites":       metrics.Favorites,
			"shares":          metrics.Shares,
			"referrals":       metrics.Referrals,
			"journal_entries": metrics.JournalEntries,
			"combo":           combo,
			"combo_bonus":     services.ComboBonus(combo),
			"holder_tier":     metrics.HolderTier,
			"token_balance":   balance.FormattedBalance,
			"packs_claimed":   metrics.PacksClaimed,
		})
	})

	secured.Get("/user/achievements", func(c *fiber.Ctx) error {
		userID := services.NormalizeUserKey(c.Locals("user_id").(string))

		unlocked := achievementService.GetUnlocked(userID)
		response := make([]fiber.Map, 0, len(unlocked))
		for _, u := range unlocked {
			entry := fiber.Map{
				"code":        u.Code,
				"unlocked_at": u.UnlockedAt,
			}
			if def := models.CatalogDef(u.Code); def != nil {
				entry["name"] = def.Name
				entry["description"] = def.Description
				entry["rarity"] = def.Rarity
				entry["xp_reward"] = def.XPReward
			}
			response = append(response, entry)
		}
		return c.JSON(response)
	})

	// SSE stream authenticates from the query string (EventSource cannot set headers)
	app.Get("/user/progress/stream", middleware.SSEAuthMiddleware(authClient), achievementService.StreamAchievementsSSE)

	// Admin endpoints
	adminGroup := app.Group("/s/admin", middleware.UserContextMiddleware())

	adminGroup.Post("/xp/grant", func(c *fiber.Ctx) error {
		type Req struct {
			UserKey string `json:"user_key" validate:"required"`
			XP      int64  `json:"xp" validate:"required,min=1"`
			Reason  string `json:"reason" validate:"max=255"`
		}
		var req Req
		if err := c.BodyParser(&req); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "invalid JSON",
				"cause": err.Error(),
			})
		}

		if _, _, err := progressionService.AwardXP(services.NormalizeUserKey(req.UserKey), req.XP, req.Reason); err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "XP award failed",
				"cause": err.Error(),
			})
		}

		return c.JSON(fiber.Map{
			"message":  "XP granted successfully",
			"user_key": req.UserKey,
			"xp":       req.XP,
		})
	})
}
