package services

import (
	"encoding/json"
	"fmt"
	"time"

	"arena-app/models"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

var hundred = decimal.NewFromInt(100)

// SettlementSummary reports what one declaration settled. Commission is
// the house cut of total settled stake; it is informational and never
// reduces any individual payout.
type SettlementSummary struct {
	FightID     uint            `json:"fight_id"`
	FightNumber int             `json:"fight_number"`
	Result      string          `json:"result"`
	Won         int64           `json:"won"`
	Lost        int64           `json:"lost"`
	Refunded    int64           `json:"refunded"`
	TotalStake  decimal.Decimal `json:"total_stake"`
	TotalPayout decimal.Decimal `json:"total_payout"`
	Commission  decimal.Decimal `json:"commission"`
}

// DeclareResult settles every active wager on a closed fight in one
// transaction. The fight flip to result_declared is the first write and
// is guarded on the previous status, so a concurrent declaration loses
// with AlreadyDeclared and a crash after the flip can never reopen the
// fight. Wager updates are bulk conditional statements keyed on
// status=active, insensitive to wager count. The fund pool is never
// touched: payouts are computed values, not pool withdrawals.
func DeclareResult(db *gorm.DB, declarator models.Staff, fightID uint, result string) (*SettlementSummary, error) {
	if !declarator.IsDeclarator() && !declarator.IsAdmin() {
		return nil, fmt.Errorf("%w: declaring requires a declarator", ErrForbidden)
	}
	switch result {
	case models.ResultSideA, models.ResultSideB, models.ResultDraw, models.ResultCancelled:
	default:
		return nil, fmt.Errorf("%w: unknown result %q", ErrNotFound, result)
	}

	var summary *SettlementSummary
	err := db.Transaction(func(tx *gorm.DB) error {
		fight, err := fightForUpdate(tx, fightID)
		if err != nil {
			return err
		}
		if fight.Declared() || fight.Result != nil {
			return fmt.Errorf("%w: fight %d", ErrAlreadyDeclared, fight.FightNumber)
		}
		if fight.Status != models.FightClosed {
			return fmt.Errorf("%w: declare requires a closed fight, got %s", ErrInvalidTransition, fight.Status)
		}

		now := time.Now()
		res := tx.Model(fight).
			Where("id = ? AND status = ?", fight.ID, models.FightClosed).
			Updates(map[string]any{
				"status":         models.FightDeclared,
				"result":         result,
				"declared_by_id": declarator.ID,
				"declared_at":    now,
			})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return fmt.Errorf("%w: fight %d declared concurrently", ErrAlreadyDeclared, fight.FightNumber)
		}

		s := SettlementSummary{
			FightID:     fight.ID,
			FightNumber: fight.FightNumber,
			Result:      result,
		}

		if result == models.ResultDraw || result == models.ResultCancelled {
			refunded, total, err := refundActive(tx, fight.ID)
			if err != nil {
				return err
			}
			s.Refunded = refunded
			s.TotalStake = total
			s.TotalPayout = total
		} else {
			won := tx.Model(&models.Bet{}).
				Where("fight_id = ? AND side = ? AND status = ?", fight.ID, result, models.BetActive).
				Updates(map[string]any{
					"status":        models.BetWon,
					"actual_payout": gorm.Expr("potential_payout"),
				})
			if won.Error != nil {
				return won.Error
			}
			s.Won = won.RowsAffected

			lost := tx.Model(&models.Bet{}).
				Where("fight_id = ? AND side <> ? AND status = ?", fight.ID, result, models.BetActive).
				Updates(map[string]any{
					"status":        models.BetLost,
					"actual_payout": decimal.Zero,
				})
			if lost.Error != nil {
				return lost.Error
			}
			s.Lost = lost.RowsAffected

			totals, err := settledTotals(tx, fight.ID)
			if err != nil {
				return err
			}
			s.TotalStake = totals.stake
			s.TotalPayout = totals.payout
			s.Commission = totals.stake.Mul(fight.CommissionPercent).Div(hundred).Round(2)
		}

		detail, _ := json.Marshal(s)
		if err := tx.Model(fight).Updates(map[string]any{
			"total_stake":   s.TotalStake,
			"commission":    s.Commission,
			"result_detail": detail,
		}).Error; err != nil {
			return err
		}
		summary = &s
		return nil
	})
	if err != nil {
		return nil, err
	}
	return summary, nil
}

type fightTotals struct {
	stake  decimal.Decimal
	payout decimal.Decimal
}

func settledTotals(tx *gorm.DB, fightID uint) (fightTotals, error) {
	var row struct {
		Stake  decimal.Decimal
		Payout decimal.Decimal
	}
	err := tx.Model(&models.Bet{}).
		Select("COALESCE(SUM(stake), 0) AS stake, COALESCE(SUM(actual_payout), 0) AS payout").
		Where("fight_id = ? AND status <> ?", fightID, models.BetActive).
		Scan(&row).Error
	if err != nil {
		return fightTotals{}, err
	}
	return fightTotals{stake: row.Stake, payout: row.Payout}, nil
}

// refundActive gives every active wager its stake back. Used for draw
// and cancelled results; no commission applies.
func refundActive(tx *gorm.DB, fightID uint) (int64, decimal.Decimal, error) {
	var row struct {
		Total decimal.Decimal
	}
	err := tx.Model(&models.Bet{}).
		Select("COALESCE(SUM(stake), 0) AS total").
		Where("fight_id = ? AND status = ?", fightID, models.BetActive).
		Scan(&row).Error
	if err != nil {
		return 0, decimal.Zero, err
	}

	res := tx.Model(&models.Bet{}).
		Where("fight_id = ? AND status = ?", fightID, models.BetActive).
		Updates(map[string]any{
			"status":        models.BetRefunded,
			"actual_payout": gorm.Expr("stake"),
		})
	if res.Error != nil {
		return 0, decimal.Zero, res.Error
	}
	return res.RowsAffected, row.Total, nil
}

// refundActiveBets is the lifecycle-cancel path: same refund semantics
// as a cancelled result declaration.
func refundActiveBets(tx *gorm.DB, fightID uint) error {
	_, _, err := refundActive(tx, fightID)
	return err
}
