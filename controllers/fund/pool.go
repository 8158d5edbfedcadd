package fund

import (
	"arena-app/database"
	"arena-app/helpers"
	"arena-app/middlewares"
	"arena-app/models"
	"arena-app/services"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
)

type CreatePoolRequest struct {
	EventName       string          `json:"event_name"`
	RevolvingAmount decimal.Decimal `json:"revolving_amount"`
	Notes           string          `json:"notes"`
}

func CreatePool(c *fiber.Ctx) error {
	var req CreatePoolRequest
	if err := c.BodyParser(&req); err != nil {
		return helpers.JSONError(c, "INVALID_JSON")
	}
	if req.EventName == "" {
		return helpers.JSONError(c, "EVENT_NAME_REQUIRED")
	}
	if req.RevolvingAmount.IsNegative() {
		return helpers.JSONError(c, "REVOLVING_AMOUNT_MUST_NOT_BE_NEGATIVE")
	}

	staff, ok := middlewares.ActingStaff(c)
	if !ok || !staff.IsAdmin() {
		return helpers.JSONFailure(c, services.ErrForbidden)
	}

	pool := models.FundPool{
		EventName:       req.EventName,
		RevolvingAmount: req.RevolvingAmount,
		Notes:           req.Notes,
	}
	if err := database.DB.Create(&pool).Error; err != nil {
		return helpers.JSONError(c, "FAILED_TO_CREATE_POOL")
	}

	return helpers.JSONSuccess(c, "Fund pool created", pool)
}

func GetPool(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil || id <= 0 {
		return helpers.JSONError(c, "INVALID_POOL_ID")
	}

	var pool models.FundPool
	if err := database.DB.First(&pool, id).Error; err != nil {
		return helpers.JSONFailure(c, services.ErrNotFound)
	}
	return helpers.JSONSuccess(c, "Fund pool", pool)
}

// ListBalances returns every teller's current balance for display and
// end-of-event reconciliation.
func ListBalances(c *fiber.Ctx) error {
	var balances []models.TellerBalance
	if err := database.DB.Order("staff_id").Find(&balances).Error; err != nil {
		return helpers.JSONError(c, "FAILED_TO_LIST_BALANCES")
	}
	return helpers.JSONSuccess(c, "Teller balances", balances)
}

// GetBalance returns one teller's current balance.
func GetBalance(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil || id <= 0 {
		return helpers.JSONError(c, "INVALID_TELLER_ID")
	}

	balance, err := services.CurrentBalance(database.DB, uint(id))
	if err != nil {
		return helpers.JSONFailure(c, err)
	}
	return helpers.JSONSuccess(c, "Current balance", fiber.Map{
		"teller_id":       id,
		"current_balance": balance,
	})
}
