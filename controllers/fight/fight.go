package fight

import (
	"arena-app/database"
	"arena-app/helpers"
	"arena-app/middlewares"
	"arena-app/models"
	"arena-app/services"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type CreateRequest struct {
	PoolID            uint            `json:"pool_id"`
	EventName         string          `json:"event_name"`
	Venue             string          `json:"venue"`
	SideAName         string          `json:"side_a_name"`
	SideBName         string          `json:"side_b_name"`
	SideAOdds         decimal.Decimal `json:"side_a_odds"`
	SideBOdds         decimal.Decimal `json:"side_b_odds"`
	DrawOdds          decimal.Decimal `json:"draw_odds"`
	AutoOdds          bool            `json:"auto_odds"`
	CommissionPercent decimal.Decimal `json:"commission_percent"`
	CloneFromLast     bool            `json:"clone_from_last"`
}

func Create(c *fiber.Ctx) error {
	var req CreateRequest
	if err := c.BodyParser(&req); err != nil {
		return helpers.JSONError(c, "INVALID_JSON")
	}
	if req.SideAName == "" || req.SideBName == "" {
		return helpers.JSONError(c, "BOTH_SIDE_NAMES_REQUIRED")
	}

	staff, ok := middlewares.ActingStaff(c)
	if !ok {
		return helpers.JSONError(c, "INVALID_SESSION")
	}

	f, err := services.CreateFight(database.DB, staff, services.FightParams{
		PoolID:            req.PoolID,
		EventName:         req.EventName,
		Venue:             req.Venue,
		SideAName:         req.SideAName,
		SideBName:         req.SideBName,
		SideAOdds:         req.SideAOdds,
		SideBOdds:         req.SideBOdds,
		DrawOdds:          req.DrawOdds,
		AutoOdds:          req.AutoOdds,
		CommissionPercent: req.CommissionPercent,
		CloneFromLast:     req.CloneFromLast,
	})
	if err != nil {
		return helpers.JSONFailure(c, err)
	}
	return helpers.JSONSuccess(c, "Fight created", f)
}

func Get(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil || id <= 0 {
		return helpers.JSONError(c, "INVALID_FIGHT_ID")
	}

	f, err := services.FightByID(database.DB, uint(id))
	if err != nil {
		return helpers.JSONFailure(c, err)
	}
	return helpers.JSONSuccess(c, "Fight", f)
}

// transition runs one lifecycle move, sharing the param/session
// plumbing across the open/lastcall/close/cancel handlers.
func transition(c *fiber.Ctx, fn func(*gorm.DB, models.Staff, uint) (*models.Fight, error), message string) error {
	id, err := c.ParamsInt("id")
	if err != nil || id <= 0 {
		return helpers.JSONError(c, "INVALID_FIGHT_ID")
	}

	staff, ok := middlewares.ActingStaff(c)
	if !ok {
		return helpers.JSONError(c, "INVALID_SESSION")
	}

	f, err := fn(database.DB, staff, uint(id))
	if err != nil {
		return helpers.JSONFailure(c, err)
	}
	return helpers.JSONSuccess(c, message, f)
}

func Open(c *fiber.Ctx) error {
	return transition(c, services.OpenBetting, "Betting opened")
}

func LastCall(c *fiber.Ctx) error {
	return transition(c, services.LastCall, "Last call")
}

func Close(c *fiber.Ctx) error {
	return transition(c, services.CloseBetting, "Betting closed")
}

func Cancel(c *fiber.Ctx) error {
	return transition(c, services.CancelFight, "Fight cancelled")
}
