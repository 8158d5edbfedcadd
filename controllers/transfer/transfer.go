package transfer

import (
	"arena-app/database"
	"arena-app/helpers"
	"arena-app/middlewares"
	"arena-app/services"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
)

type InitiateRequest struct {
	ToStaffID uint            `json:"to_staff_id"`
	Amount    decimal.Decimal `json:"amount"`
	Remark    string          `json:"remark"`
}

// Initiate creates a pending teller-to-staff transfer.
func Initiate(c *fiber.Ctx) error {
	var req InitiateRequest
	if err := c.BodyParser(&req); err != nil {
		return helpers.JSONError(c, "INVALID_JSON")
	}
	if req.ToStaffID == 0 || !req.Amount.IsPositive() {
		return helpers.JSONError(c, "DESTINATION_AND_POSITIVE_AMOUNT_REQUIRED")
	}

	staff, ok := middlewares.ActingStaff(c)
	if !ok {
		return helpers.JSONError(c, "INVALID_SESSION")
	}

	entry, err := services.InitiateTransfer(database.DB, staff, req.ToStaffID, req.Amount, req.Remark)
	if err != nil {
		return helpers.JSONFailure(c, err)
	}
	return helpers.JSONSuccess(c, "Transfer initiated", entry)
}

type FundRequest struct {
	PoolID uint            `json:"pool_id"`
	Amount decimal.Decimal `json:"amount"`
	Remark string          `json:"remark"`
}

// Request creates a pending draw from the revolving fund.
func Request(c *fiber.Ctx) error {
	var req FundRequest
	if err := c.BodyParser(&req); err != nil {
		return helpers.JSONError(c, "INVALID_JSON")
	}
	if req.PoolID == 0 || !req.Amount.IsPositive() {
		return helpers.JSONError(c, "POOL_AND_POSITIVE_AMOUNT_REQUIRED")
	}

	staff, ok := middlewares.ActingStaff(c)
	if !ok {
		return helpers.JSONError(c, "INVALID_SESSION")
	}

	entry, err := services.InitiateRequest(database.DB, staff, req.PoolID, req.Amount, req.Remark)
	if err != nil {
		return helpers.JSONFailure(c, err)
	}
	return helpers.JSONSuccess(c, "Fund request initiated", entry)
}

// Approve settles a pending transfer or request.
func Approve(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil || id <= 0 {
		return helpers.JSONError(c, "INVALID_TRANSFER_ID")
	}

	staff, ok := middlewares.ActingStaff(c)
	if !ok {
		return helpers.JSONError(c, "INVALID_SESSION")
	}

	entry, err := services.ApproveTransfer(database.DB, staff, uint(id))
	if err != nil {
		return helpers.JSONFailure(c, err)
	}
	return helpers.JSONSuccess(c, "Transfer approved", entry)
}

// Decline rejects a pending transfer or request without moving cash.
func Decline(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil || id <= 0 {
		return helpers.JSONError(c, "INVALID_TRANSFER_ID")
	}

	staff, ok := middlewares.ActingStaff(c)
	if !ok {
		return helpers.JSONError(c, "INVALID_SESSION")
	}

	entry, err := services.DeclineTransfer(database.DB, staff, uint(id))
	if err != nil {
		return helpers.JSONFailure(c, err)
	}
	return helpers.JSONSuccess(c, "Transfer declined", entry)
}

// History lists ledger entries for reporting, optionally filtered to
// one staff member via ?staff_id=.
func History(c *fiber.Ctx) error {
	staffID := c.QueryInt("staff_id")
	limit := c.QueryInt("limit")

	entries, err := services.TransferHistory(database.DB, uint(staffID), limit)
	if err != nil {
		return helpers.JSONError(c, "FAILED_TO_LIST_TRANSFERS")
	}
	return helpers.JSONSuccess(c, "Transfer history", entries)
}
