package controllers

import (
	"time"

	"github.com/gofiber/fiber/v2"
)

func Health(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"status":    "ok",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}

func FBRIntegrationStatus(c *fiber.Ctx) error {
	if FBRClient == nil {
		return c.JSON(fiber.Map{
			"configured": false,
			"mode":       "stub",
		})
	}
	return c.JSON(fiber.Map{
		"configured": true,
		"mode":       "live",
		"endpoint":   FBRClient.Endpoint(),
	})
}
