package services

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"arena-app/logger"
	"arena-app/models"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

const ticketAttempts = 5

// newTicketID derives a short printable ticket from a fresh uuid.
func newTicketID() string {
	raw := strings.ReplaceAll(uuid.New().String(), "-", "")
	return strings.ToUpper(raw[:12])
}

// PlaceBet accepts a stake on a fight side at the side's current odds.
// Odds and potential payout are frozen on the bet; later recomputes
// never touch them. A ticket collision is the one locally-retried
// failure: a fresh identifier is generated and the insert re-attempted.
func PlaceBet(db *gorm.DB, teller models.Staff, fightID uint, side string, stake decimal.Decimal) (*models.Bet, error) {
	if !teller.IsTeller() && !teller.IsAdmin() {
		return nil, fmt.Errorf("%w: bets are placed by tellers", ErrForbidden)
	}
	if stake.IsNegative() || stake.IsZero() {
		return nil, fmt.Errorf("stake must be positive, got %s", stake)
	}
	switch side {
	case models.ResultSideA, models.ResultSideB, models.ResultDraw:
	default:
		return nil, fmt.Errorf("%w: unknown side %q", ErrNotFound, side)
	}

	var bet *models.Bet
	err := db.Transaction(func(tx *gorm.DB) error {
		fight, err := fightForUpdate(tx, fightID)
		if err != nil {
			return err
		}
		if !fight.AcceptsBets() {
			return fmt.Errorf("%w: fight %d is %s", ErrInvalidTransition, fight.FightNumber, fight.Status)
		}
		if !fight.SideOpen(side) {
			return fmt.Errorf("%w: side %s is closed for betting", ErrInvalidTransition, side)
		}

		odds := fight.OddsFor(side)
		bet = &models.Bet{
			FightID:         fight.ID,
			TellerID:        teller.ID,
			Side:            side,
			Stake:           stake,
			Odds:            odds,
			PotentialPayout: stake.Mul(odds).Round(2),
			Status:          models.BetActive,
		}

		var createErr error
		for attempt := 0; attempt < ticketAttempts; attempt++ {
			bet.TicketID = newTicketID()
			createErr = tx.Create(bet).Error
			if createErr == nil {
				break
			}
			if !errors.Is(createErr, gorm.ErrDuplicatedKey) {
				return createErr
			}
			logger.Debug("ticket %s collided, retrying (%d/%d)", bet.TicketID, attempt+1, ticketAttempts)
		}
		if createErr != nil {
			return fmt.Errorf("ticket generation exhausted: %w", createErr)
		}

		if fight.AutoOdds {
			return recomputeOdds(tx, fight)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return bet, nil
}

// BetByTicket looks up a wager for receipts and payout claims.
func BetByTicket(db *gorm.DB, ticket string) (*models.Bet, error) {
	var bet models.Bet
	if err := db.Where("ticket_id = ?", strings.ToUpper(strings.TrimSpace(ticket))).First(&bet).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: ticket %s", ErrNotFound, ticket)
		}
		return nil, err
	}
	return &bet, nil
}

// ClaimBet stamps the payout claim time, once, on a won or refunded
// bet. Claiming a lost or still-active ticket is rejected.
func ClaimBet(db *gorm.DB, actor models.Staff, ticket string) (*models.Bet, error) {
	if !actor.IsTeller() && !actor.IsAdmin() {
		return nil, fmt.Errorf("%w: claims are processed by tellers", ErrForbidden)
	}

	var bet *models.Bet
	err := db.Transaction(func(tx *gorm.DB) error {
		var b models.Bet
		if err := forUpdate(tx).Where("ticket_id = ?", strings.ToUpper(strings.TrimSpace(ticket))).First(&b).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("%w: ticket %s", ErrNotFound, ticket)
			}
			return err
		}
		if !b.Settled() {
			return fmt.Errorf("%w: ticket %s has no declared outcome yet", ErrInvalidTransition, b.TicketID)
		}
		if b.Status != models.BetWon && b.Status != models.BetRefunded {
			return fmt.Errorf("%w: ticket %s is %s, nothing to claim", ErrInvalidTransition, b.TicketID, b.Status)
		}
		if b.ClaimedAt != nil {
			return fmt.Errorf("%w: ticket %s already claimed", ErrAlreadyProcessed, b.TicketID)
		}
		now := time.Now()
		res := tx.Model(&b).
			Where("id = ? AND claimed_at IS NULL", b.ID).
			Update("claimed_at", now)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return fmt.Errorf("%w: ticket %s already claimed", ErrAlreadyProcessed, b.TicketID)
		}
		b.ClaimedAt = &now
		bet = &b
		return nil
	})
	if err != nil {
		return nil, err
	}
	return bet, nil
}

// BetsByFight lists all wagers on a fight for reporting.
func BetsByFight(db *gorm.DB, fightID uint) ([]models.Bet, error) {
	var bets []models.Bet
	if err := db.Where("fight_id = ?", fightID).Order("id").Find(&bets).Error; err != nil {
		return nil, err
	}
	return bets, nil
}
