package helpers

import (
	"errors"

	"arena-app/services"

	"github.com/gofiber/fiber/v2"
)

func JSONSuccess(c *fiber.Ctx, message string, data any) error {
	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"success": true,
		"message": message,
		"data":    data,
	})
}

func JSONError(c *fiber.Ctx, message string) error {
	return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
		"success": false,
		"error":   "bad_request",
		"message": message,
		"data":    nil,
	})
}

// errorKinds maps service errors to stable machine-readable kinds. The
// message always names the violated invariant so staff reconciling
// cash at the end of an event know exactly what was rejected.
var errorKinds = []struct {
	err    error
	kind   string
	status int
}{
	{services.ErrInsufficientFunds, "insufficient_funds", fiber.StatusConflict},
	{services.ErrInsufficientBalance, "insufficient_balance", fiber.StatusConflict},
	{services.ErrAlreadyProcessed, "already_processed", fiber.StatusConflict},
	{services.ErrAlreadyDeclared, "already_declared", fiber.StatusConflict},
	{services.ErrInvalidTransition, "invalid_transition", fiber.StatusConflict},
	{services.ErrNotFound, "not_found", fiber.StatusNotFound},
	{services.ErrForbidden, "forbidden", fiber.StatusForbidden},
}

// JSONFailure renders a failed operation with its taxonomy kind.
func JSONFailure(c *fiber.Ctx, err error) error {
	for _, m := range errorKinds {
		if errors.Is(err, m.err) {
			return c.Status(m.status).JSON(fiber.Map{
				"success": false,
				"error":   m.kind,
				"message": err.Error(),
				"data":    nil,
			})
		}
	}
	return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
		"success": false,
		"error":   "bad_request",
		"message": err.Error(),
		"data":    nil,
	})
}
