package services

import (
	"arena-app/models"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

var minOdds = decimal.NewFromInt(1)

// sideTotals sums active stakes per side for one fight.
func sideTotals(tx *gorm.DB, fightID uint) (map[string]decimal.Decimal, error) {
	type row struct {
		Side  string
		Total decimal.Decimal
	}
	var rows []row
	err := tx.Model(&models.Bet{}).
		Select("side, COALESCE(SUM(stake), 0) AS total").
		Where("fight_id = ? AND status = ?", fightID, models.BetActive).
		Group("side").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	totals := map[string]decimal.Decimal{
		models.ResultSideA: decimal.Zero,
		models.ResultSideB: decimal.Zero,
	}
	for _, r := range rows {
		totals[r.Side] = r.Total
	}
	return totals, nil
}

// autoOdds computes pari-mutuel style odds for one side: the full pool
// divided by the side's own stakes, floored at 1.00. A side with zero
// stakes is an undefined market; its previous odds are kept rather
// than dividing by zero. Idempotent for equal totals.
func autoOdds(own, opposite, previous decimal.Decimal) decimal.Decimal {
	if own.IsZero() {
		return previous
	}
	odds := own.Add(opposite).Div(own).Round(2)
	if odds.LessThan(minOdds) {
		return minOdds
	}
	return odds
}

// recomputeOdds refreshes both side odds from current stake totals and
// persists them on the fight. Already-placed bets keep their frozen
// odds; only future placements see the new values.
func recomputeOdds(tx *gorm.DB, fight *models.Fight) error {
	totals, err := sideTotals(tx, fight.ID)
	if err != nil {
		return err
	}

	fight.SideAOdds = autoOdds(totals[models.ResultSideA], totals[models.ResultSideB], fight.SideAOdds)
	fight.SideBOdds = autoOdds(totals[models.ResultSideB], totals[models.ResultSideA], fight.SideBOdds)

	return tx.Model(fight).Updates(map[string]any{
		"side_a_odds": fight.SideAOdds,
		"side_b_odds": fight.SideBOdds,
	}).Error
}
