// handlers/pack_routes.go
package handlers

import (
	"card-pull-system/middleware"
	"card-pull-system/services"
	"card-pull-system/workers"

	"github.com/gofiber/fiber/v2"
)

func SetupPackRoutes(app *fiber.App, packService *services.PackService) {
	// 🔓 Public routes — *no user context*, but **still require Gateway auth**
	app.Get("/cards", packService.GetPublishedCards)
	app.Get("/packs", func(c *fiber.Ctx) error {
		return c.JSON(packService.GetPublishedPacks())
	})

	// 🔐 Secured routes — require user context
	secured := app.Group("/", middleware.UserContextMiddleware())

	secured.Get("/user/packs", func(c *fiber.Ctx) error {
		userID := c.Locals("user_id").(string)

		balance, err := workers.GetBalanceForWallet(packService.DB, userID)
		if err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "failed to read balance mirror",
				"cause": err.Error(),
			})
		}

		// Eligibility is re-evaluated per pack on every read — never cached.
		packs := packService.GetPublishedPacks()
		response := make([]fiber.Map, 0, len(packs))
		for i := range packs {
			p := &packs[i]
			response = append(response, fiber.Map{
				"pack":     p,
				"eligible": packService.PackEligible(p, balance),
				"claimed":  packService.HasClaimedPack(userID, p.ID),
			})
		}
		return c.JSON(response)
	})

	secured.Get("/user/packs/claimed", func(c *fiber.Ctx) error {
		userID := c.Locals("user_id").(string)
		return c.JSON(packService.GetClaimedPacks(userID))
	})

	secured.Post("/user/packs/:id/claim", func(c *fiber.Ctx) error {
		userID := c.Locals("user_id").(string)
		packID := c.Params("id")

		balance, err := workers.GetBalanceForWallet(packService.DB, userID)
		if err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "failed to read balance mirror",
				"cause": err.Error(),
			})
		}

		if !packService.ClaimPack(userID, packID, balance) {
			return c.Status(fiber.StatusConflict).JSON(fiber.Map{
				"success": false,
				"error":   "pack not claimable (unknown, already claimed, or balance too low)",
			})
		}
		return c.JSON(fiber.Map{"success": true, "pack_id": packID})
	})

	secured.Post("/user/packs/:id/use", func(c *fiber.Ctx) error {
		userID := c.Locals("user_id").(string)
		packID := c.Params("id")

		if !packService.IncrementPackUsage(userID, packID) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"success": false,
				"error":   "no claim found for this pack",
			})
		}
		return c.JSON(fiber.Map{"success": true, "pack_id": packID})
	})

	// Admin endpoints
	adminGroup := app.Group("/s/admin", middleware.UserContextMiddleware())

	adminGroup.Post("/packs", packService.CreatePack)
	adminGroup.Post("/packs/:id/publish", packService.PublishPackNow)
	adminGroup.Post("/cards", packService.CreateCard)
}
