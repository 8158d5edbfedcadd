package bet

import (
	"arena-app/database"
	"arena-app/helpers"
	"arena-app/middlewares"
	"arena-app/services"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
)

type PlaceRequest struct {
	FightID uint            `json:"fight_id"`
	Side    string          `json:"side"`
	Stake   decimal.Decimal `json:"stake"`
}

// Place accepts a stake on an open fight side at current odds.
func Place(c *fiber.Ctx) error {
	var req PlaceRequest
	if err := c.BodyParser(&req); err != nil {
		return helpers.JSONError(c, "INVALID_JSON")
	}
	if req.FightID == 0 || req.Side == "" {
		return helpers.JSONError(c, "FIGHT_AND_SIDE_REQUIRED")
	}
	if !req.Stake.IsPositive() {
		return helpers.JSONError(c, "STAKE_MUST_BE_POSITIVE")
	}

	staff, ok := middlewares.ActingStaff(c)
	if !ok {
		return helpers.JSONError(c, "INVALID_SESSION")
	}

	placed, err := services.PlaceBet(database.DB, staff, req.FightID, req.Side, req.Stake)
	if err != nil {
		return helpers.JSONFailure(c, err)
	}
	return helpers.JSONSuccess(c, "Bet placed", placed)
}

// ByTicket returns the receipt view of one wager: ticket, side, stake,
// frozen odds and the settled payout if any.
func ByTicket(c *fiber.Ctx) error {
	ticket := c.Params("ticket")
	if ticket == "" {
		return helpers.JSONError(c, "TICKET_REQUIRED")
	}

	b, err := services.BetByTicket(database.DB, ticket)
	if err != nil {
		return helpers.JSONFailure(c, err)
	}
	return helpers.JSONSuccess(c, "Bet", fiber.Map{
		"ticket_id":     b.TicketID,
		"fight_id":      b.FightID,
		"side":          b.Side,
		"stake":         b.Stake,
		"odds":          b.Odds,
		"status":        b.Status,
		"actual_payout": b.ActualPayout,
		"claimed_at":    b.ClaimedAt,
	})
}

// Claim stamps the payout claim on a won or refunded ticket.
func Claim(c *fiber.Ctx) error {
	ticket := c.Params("ticket")
	if ticket == "" {
		return helpers.JSONError(c, "TICKET_REQUIRED")
	}

	staff, ok := middlewares.ActingStaff(c)
	if !ok {
		return helpers.JSONError(c, "INVALID_SESSION")
	}

	b, err := services.ClaimBet(database.DB, staff, ticket)
	if err != nil {
		return helpers.JSONFailure(c, err)
	}
	return helpers.JSONSuccess(c, "Bet claimed", b)
}

// ListByFight returns all wagers on one fight for reporting.
func ListByFight(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil || id <= 0 {
		return helpers.JSONError(c, "INVALID_FIGHT_ID")
	}

	bets, err := services.BetsByFight(database.DB, uint(id))
	if err != nil {
		return helpers.JSONError(c, "FAILED_TO_LIST_BETS")
	}
	return helpers.JSONSuccess(c, "Bets", bets)
}
