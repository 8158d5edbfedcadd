package fund

import (
	"arena-app/database"
	"arena-app/helpers"
	"arena-app/middlewares"
	"arena-app/services"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
)

type AssignRequest struct {
	PoolID   uint            `json:"pool_id"`
	TellerID uint            `json:"teller_id"`
	FightID  uint            `json:"fight_id"`
	Amount   decimal.Decimal `json:"amount"`
	Remark   string          `json:"remark"`
}

// Assign moves cash from the revolving fund to a teller.
func Assign(c *fiber.Ctx) error {
	var req AssignRequest
	if err := c.BodyParser(&req); err != nil {
		return helpers.JSONError(c, "INVALID_JSON")
	}
	if req.PoolID == 0 || req.TellerID == 0 || req.FightID == 0 {
		return helpers.JSONError(c, "POOL_TELLER_AND_FIGHT_REQUIRED")
	}
	if !req.Amount.IsPositive() {
		return helpers.JSONError(c, "AMOUNT_MUST_BE_POSITIVE")
	}

	staff, ok := middlewares.ActingStaff(c)
	if !ok {
		return helpers.JSONError(c, "INVALID_SESSION")
	}

	entry, err := services.AssignFunds(database.DB, staff, req.PoolID, req.TellerID, req.FightID, req.Amount, req.Remark)
	if err != nil {
		return helpers.JSONFailure(c, err)
	}
	return helpers.JSONSuccess(c, "Funds assigned", entry)
}

type DeductRequest struct {
	PoolID   uint            `json:"pool_id"`
	TellerID uint            `json:"teller_id"`
	Amount   decimal.Decimal `json:"amount"`
	Remark   string          `json:"remark"`
}

// Deduct returns cash from a teller to the revolving fund.
func Deduct(c *fiber.Ctx) error {
	var req DeductRequest
	if err := c.BodyParser(&req); err != nil {
		return helpers.JSONError(c, "INVALID_JSON")
	}
	if req.PoolID == 0 || req.TellerID == 0 {
		return helpers.JSONError(c, "POOL_AND_TELLER_REQUIRED")
	}
	if !req.Amount.IsPositive() {
		return helpers.JSONError(c, "AMOUNT_MUST_BE_POSITIVE")
	}

	staff, ok := middlewares.ActingStaff(c)
	if !ok {
		return helpers.JSONError(c, "INVALID_SESSION")
	}

	entry, err := services.DeductFunds(database.DB, staff, req.PoolID, req.TellerID, req.Amount, req.Remark)
	if err != nil {
		return helpers.JSONFailure(c, err)
	}
	return helpers.JSONSuccess(c, "Funds deducted", entry)
}

type ResetRequest struct {
	PoolID uint `json:"pool_id"`
}

// Reset zeroes all teller balances back into the pool at event
// rollover.
func Reset(c *fiber.Ctx) error {
	var req ResetRequest
	if err := c.BodyParser(&req); err != nil {
		return helpers.JSONError(c, "INVALID_JSON")
	}
	if req.PoolID == 0 {
		return helpers.JSONError(c, "POOL_REQUIRED")
	}

	staff, ok := middlewares.ActingStaff(c)
	if !ok {
		return helpers.JSONError(c, "INVALID_SESSION")
	}

	count, err := services.ResetBalances(database.DB, staff, req.PoolID)
	if err != nil {
		return helpers.JSONFailure(c, err)
	}
	return helpers.JSONSuccess(c, "Balances reset", fiber.Map{"tellers_reset": count})
}
