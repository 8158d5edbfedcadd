package fight

import (
	"arena-app/database"
	"arena-app/helpers"
	"arena-app/middlewares"
	"arena-app/services"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
)

type DeclareRequest struct {
	Result string `json:"result"`
}

// Declare records the fight outcome and settles every active wager.
func Declare(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil || id <= 0 {
		return helpers.JSONError(c, "INVALID_FIGHT_ID")
	}

	var req DeclareRequest
	if err := c.BodyParser(&req); err != nil {
		return helpers.JSONError(c, "INVALID_JSON")
	}
	if req.Result == "" {
		return helpers.JSONError(c, "RESULT_REQUIRED")
	}

	staff, ok := middlewares.ActingStaff(c)
	if !ok {
		return helpers.JSONError(c, "INVALID_SESSION")
	}

	summary, err := services.DeclareResult(database.DB, staff, uint(id), req.Result)
	if err != nil {
		return helpers.JSONFailure(c, err)
	}
	return helpers.JSONSuccess(c, "Result declared", summary)
}

type OddsRequest struct {
	Side string          `json:"side"`
	Odds decimal.Decimal `json:"odds"`
}

// SetOdds changes one side's odds while that side is still open.
func SetOdds(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil || id <= 0 {
		return helpers.JSONError(c, "INVALID_FIGHT_ID")
	}

	var req OddsRequest
	if err := c.BodyParser(&req); err != nil {
		return helpers.JSONError(c, "INVALID_JSON")
	}
	if req.Side == "" || !req.Odds.IsPositive() {
		return helpers.JSONError(c, "SIDE_AND_POSITIVE_ODDS_REQUIRED")
	}

	staff, ok := middlewares.ActingStaff(c)
	if !ok {
		return helpers.JSONError(c, "INVALID_SESSION")
	}

	f, err := services.SetOdds(database.DB, staff, uint(id), req.Side, req.Odds)
	if err != nil {
		return helpers.JSONFailure(c, err)
	}
	return helpers.JSONSuccess(c, "Odds updated", f)
}

type SideGateRequest struct {
	Side string `json:"side"`
	Open bool   `json:"open"`
}

// SetSideGate opens or closes one side independently.
func SetSideGate(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil || id <= 0 {
		return helpers.JSONError(c, "INVALID_FIGHT_ID")
	}

	var req SideGateRequest
	if err := c.BodyParser(&req); err != nil {
		return helpers.JSONError(c, "INVALID_JSON")
	}
	if req.Side == "" {
		return helpers.JSONError(c, "SIDE_REQUIRED")
	}

	staff, ok := middlewares.ActingStaff(c)
	if !ok {
		return helpers.JSONError(c, "INVALID_SESSION")
	}

	f, err := services.SetSideOpen(database.DB, staff, uint(id), req.Side, req.Open)
	if err != nil {
		return helpers.JSONFailure(c, err)
	}
	return helpers.JSONSuccess(c, "Side gate updated", f)
}

// Normalize runs the status consistency repair on demand. The same
// routine runs on a schedule; this endpoint exists for staff who want
// an immediate pass after manual corrections.
func Normalize(c *fiber.Ctx) error {
	staff, ok := middlewares.ActingStaff(c)
	if !ok || !staff.IsAdmin() {
		return helpers.JSONFailure(c, services.ErrForbidden)
	}

	count, err := services.NormalizeFightStatuses(database.DB)
	if err != nil {
		return helpers.JSONError(c, "NORMALIZATION_FAILED")
	}
	return helpers.JSONSuccess(c, "Statuses normalized", fiber.Map{"fights_normalized": count})
}
