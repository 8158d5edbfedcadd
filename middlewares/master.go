package middlewares

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"os"

	"github.com/gofiber/fiber/v2"
)

// MasterAuth guards the bootstrap endpoints (staff creation, session
// issuance) with an HMAC of the master credentials. This stands in for
// the external authentication provider; the ledger core itself only
// ever sees the resolved staff identity.
func MasterAuth() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body struct {
			Signature string `json:"signature"`
		}

		if err := c.BodyParser(&body); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"success": false,
				"error":   "bad_request",
				"message": "INVALID_JSON",
			})
		}

		masterCode := os.Getenv("MASTER_CODE")
		masterSecret := os.Getenv("MASTER_SECRET")

		h := hmac.New(sha256.New, []byte(masterSecret))
		h.Write([]byte(masterCode + masterSecret))
		expected := hex.EncodeToString(h.Sum(nil))

		if !hmac.Equal([]byte(body.Signature), []byte(expected)) {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"success": false,
				"error":   "unauthorized",
				"message": "INVALID_SIGNATURE",
			})
		}

		return c.Next()
	}
}
