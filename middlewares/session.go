package middlewares

import (
	"time"

	"arena-app/database"
	"arena-app/helpers"
	"arena-app/models"

	"github.com/gofiber/fiber/v2"
)

// SessionAuth resolves the acting staff member from the session header.
// The ledger core trusts this identity; authentication itself lives in
// the session provider that issued the SID.
func SessionAuth(c *fiber.Ctx) error {
	sid := c.Get("X-Session-Id")
	if sid == "" {
		return helpers.JSONError(c, "SESSION_ID_REQUIRED")
	}

	var session models.Session
	if err := database.DB.Preload("Staff").
		Where("sid = ? AND expires_at > ?", sid, time.Now()).
		First(&session).Error; err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"success": false,
			"error":   "unauthorized",
			"message": "invalid or expired session",
		})
	}

	if !session.Staff.IsActive {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"success": false,
			"error":   "unauthorized",
			"message": "staff account is inactive",
		})
	}

	c.Locals("staff", session.Staff)
	return c.Next()
}

// ActingStaff pulls the authenticated staff from the request context.
func ActingStaff(c *fiber.Ctx) (models.Staff, bool) {
	staff, ok := c.Locals("staff").(models.Staff)
	return staff, ok
}
