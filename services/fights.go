package services

import (
	"errors"
	"fmt"
	"time"

	"arena-app/models"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// FightParams carries staff input for a new fight. When CloneFromLast
// is set, venue, event name, commission, odds mode and pool are copied
// from the most recently created fight as convenience defaults; any
// explicitly provided value still wins.
type FightParams struct {
	PoolID            uint
	EventName         string
	Venue             string
	SideAName         string
	SideBName         string
	SideAOdds         decimal.Decimal
	SideBOdds         decimal.Decimal
	DrawOdds          decimal.Decimal
	AutoOdds          bool
	CommissionPercent decimal.Decimal
	CloneFromLast     bool
}

// CreateFight schedules the next fight with the next sequential number.
func CreateFight(db *gorm.DB, actor models.Staff, params FightParams) (*models.Fight, error) {
	if !actor.IsAdmin() && !actor.IsDeclarator() {
		return nil, fmt.Errorf("%w: fight creation requires admin or declarator", ErrForbidden)
	}

	var fight *models.Fight
	err := db.Transaction(func(tx *gorm.DB) error {
		var last models.Fight
		lastErr := tx.Order("fight_number DESC").First(&last).Error
		if lastErr != nil && !errors.Is(lastErr, gorm.ErrRecordNotFound) {
			return lastErr
		}

		next := 1
		if lastErr == nil {
			next = last.FightNumber + 1
			if params.CloneFromLast {
				if params.EventName == "" {
					params.EventName = last.EventName
				}
				if params.Venue == "" {
					params.Venue = last.Venue
				}
				if params.CommissionPercent.IsZero() {
					params.CommissionPercent = last.CommissionPercent
				}
				if params.PoolID == 0 {
					params.PoolID = last.PoolID
				}
				params.AutoOdds = params.AutoOdds || last.AutoOdds
			}
		}

		if params.SideAOdds.LessThan(minOdds) {
			params.SideAOdds = minOdds
		}
		if params.SideBOdds.LessThan(minOdds) {
			params.SideBOdds = minOdds
		}
		if params.DrawOdds.LessThan(minOdds) {
			params.DrawOdds = minOdds
		}

		fight = &models.Fight{
			FightNumber:       next,
			PoolID:            params.PoolID,
			EventName:         params.EventName,
			Venue:             params.Venue,
			SideAName:         params.SideAName,
			SideBName:         params.SideBName,
			SideAOdds:         params.SideAOdds,
			SideBOdds:         params.SideBOdds,
			DrawOdds:          params.DrawOdds,
			AutoOdds:          params.AutoOdds,
			CommissionPercent: params.CommissionPercent,
			Status:            models.FightStandby,
		}
		return tx.Create(fight).Error
	})
	if err != nil {
		return nil, err
	}
	return fight, nil
}

// FightByID loads one fight.
func FightByID(db *gorm.DB, id uint) (*models.Fight, error) {
	var f models.Fight
	if err := db.First(&f, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: fight %d", ErrNotFound, id)
		}
		return nil, err
	}
	return &f, nil
}

func fightForUpdate(tx *gorm.DB, id uint) (*models.Fight, error) {
	var f models.Fight
	if err := forUpdate(tx).First(&f, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: fight %d", ErrNotFound, id)
		}
		return nil, err
	}
	return &f, nil
}

// OpenBetting moves a standby fight to open and opens both sides.
func OpenBetting(db *gorm.DB, actor models.Staff, fightID uint) (*models.Fight, error) {
	if !actor.IsAdmin() && !actor.IsDeclarator() {
		return nil, fmt.Errorf("%w: opening requires admin or declarator", ErrForbidden)
	}

	var fight *models.Fight
	err := db.Transaction(func(tx *gorm.DB) error {
		f, err := fightForUpdate(tx, fightID)
		if err != nil {
			return err
		}
		if f.Status != models.FightStandby {
			return fmt.Errorf("%w: cannot open betting from %s", ErrInvalidTransition, f.Status)
		}
		now := time.Now()
		if err := tx.Model(f).Updates(map[string]any{
			"status":      models.FightOpen,
			"side_a_open": true,
			"side_b_open": true,
			"opened_at":   now,
		}).Error; err != nil {
			return err
		}
		f.Status = models.FightOpen
		f.SideAOpen, f.SideBOpen = true, true
		f.OpenedAt = &now
		fight = f
		return nil
	})
	if err != nil {
		return nil, err
	}
	return fight, nil
}

// LastCall signals the final betting window.
func LastCall(db *gorm.DB, actor models.Staff, fightID uint) (*models.Fight, error) {
	if !actor.IsAdmin() && !actor.IsDeclarator() {
		return nil, fmt.Errorf("%w: last call requires admin or declarator", ErrForbidden)
	}

	var fight *models.Fight
	err := db.Transaction(func(tx *gorm.DB) error {
		f, err := fightForUpdate(tx, fightID)
		if err != nil {
			return err
		}
		if f.Status != models.FightOpen {
			return fmt.Errorf("%w: last call from %s", ErrInvalidTransition, f.Status)
		}
		if err := tx.Model(f).Update("status", models.FightLastCall).Error; err != nil {
			return err
		}
		f.Status = models.FightLastCall
		fight = f
		return nil
	})
	if err != nil {
		return nil, err
	}
	return fight, nil
}

// CloseBetting stops all wagering. Auto-odds fights get one final
// recompute immediately before the status flips so the closing odds
// reflect the full pools.
func CloseBetting(db *gorm.DB, actor models.Staff, fightID uint) (*models.Fight, error) {
	if !actor.IsAdmin() && !actor.IsDeclarator() {
		return nil, fmt.Errorf("%w: closing requires admin or declarator", ErrForbidden)
	}

	var fight *models.Fight
	err := db.Transaction(func(tx *gorm.DB) error {
		f, err := fightForUpdate(tx, fightID)
		if err != nil {
			return err
		}
		if f.Status != models.FightOpen && f.Status != models.FightLastCall {
			return fmt.Errorf("%w: cannot close from %s", ErrInvalidTransition, f.Status)
		}

		if f.AutoOdds {
			if err := recomputeOdds(tx, f); err != nil {
				return err
			}
		}

		now := time.Now()
		if err := tx.Model(f).Updates(map[string]any{
			"status":      models.FightClosed,
			"side_a_open": false,
			"side_b_open": false,
			"draw_open":   false,
			"closed_at":   now,
		}).Error; err != nil {
			return err
		}
		f.Status = models.FightClosed
		f.SideAOpen, f.SideBOpen, f.DrawOpen = false, false, false
		f.ClosedAt = &now
		fight = f
		return nil
	})
	if err != nil {
		return nil, err
	}
	return fight, nil
}

// CancelFight voids a fight from any pre-declaration state and refunds
// every active bet in the same transaction.
func CancelFight(db *gorm.DB, actor models.Staff, fightID uint) (*models.Fight, error) {
	if !actor.IsAdmin() && !actor.IsDeclarator() {
		return nil, fmt.Errorf("%w: cancellation requires admin or declarator", ErrForbidden)
	}

	var fight *models.Fight
	err := db.Transaction(func(tx *gorm.DB) error {
		f, err := fightForUpdate(tx, fightID)
		if err != nil {
			return err
		}
		if f.Declared() || f.Status == models.FightCancelled {
			return fmt.Errorf("%w: cannot cancel a %s fight", ErrInvalidTransition, f.Status)
		}

		if err := tx.Model(f).Updates(map[string]any{
			"status":      models.FightCancelled,
			"side_a_open": false,
			"side_b_open": false,
			"draw_open":   false,
		}).Error; err != nil {
			return err
		}

		if err := refundActiveBets(tx, f.ID); err != nil {
			return err
		}
		f.Status = models.FightCancelled
		fight = f
		return nil
	})
	if err != nil {
		return nil, err
	}
	return fight, nil
}

// SetOdds changes one side's odds manually. Only legal while that side
// is open for betting and the fight has not closed; frozen odds on
// existing bets are untouched.
func SetOdds(db *gorm.DB, actor models.Staff, fightID uint, side string, odds decimal.Decimal) (*models.Fight, error) {
	if !actor.IsAdmin() && !actor.IsDeclarator() {
		return nil, fmt.Errorf("%w: odds changes require admin or declarator", ErrForbidden)
	}
	if odds.LessThan(minOdds) {
		return nil, fmt.Errorf("odds must be at least %s, got %s", minOdds, odds)
	}

	column, ok := map[string]string{
		models.ResultSideA: "side_a_odds",
		models.ResultSideB: "side_b_odds",
		models.ResultDraw:  "draw_odds",
	}[side]
	if !ok {
		return nil, fmt.Errorf("%w: unknown side %q", ErrNotFound, side)
	}

	var fight *models.Fight
	err := db.Transaction(func(tx *gorm.DB) error {
		f, err := fightForUpdate(tx, fightID)
		if err != nil {
			return err
		}
		if !f.AcceptsBets() {
			return fmt.Errorf("%w: odds locked once fight is %s", ErrInvalidTransition, f.Status)
		}
		if !f.SideOpen(side) {
			return fmt.Errorf("%w: side %s is closed for betting", ErrInvalidTransition, side)
		}
		if err := tx.Model(f).Update(column, odds).Error; err != nil {
			return err
		}
		fight = f
		return nil
	})
	if err != nil {
		return nil, err
	}
	return FightByID(db, fight.ID)
}

// SetSideOpen opens or closes one side independently, e.g. to stop
// wagering on a heavy favorite while the other side stays open.
func SetSideOpen(db *gorm.DB, actor models.Staff, fightID uint, side string, open bool) (*models.Fight, error) {
	if !actor.IsAdmin() && !actor.IsDeclarator() {
		return nil, fmt.Errorf("%w: side gates require admin or declarator", ErrForbidden)
	}

	column, ok := map[string]string{
		models.ResultSideA: "side_a_open",
		models.ResultSideB: "side_b_open",
		models.ResultDraw:  "draw_open",
	}[side]
	if !ok {
		return nil, fmt.Errorf("%w: unknown side %q", ErrNotFound, side)
	}

	var fight *models.Fight
	err := db.Transaction(func(tx *gorm.DB) error {
		f, err := fightForUpdate(tx, fightID)
		if err != nil {
			return err
		}
		if !f.AcceptsBets() {
			return fmt.Errorf("%w: fight is %s", ErrInvalidTransition, f.Status)
		}
		if err := tx.Model(f).Update(column, open).Error; err != nil {
			return err
		}
		fight = f
		return nil
	})
	if err != nil {
		return nil, err
	}
	return FightByID(db, fight.ID)
}
