package services

import (
	"arena-app/logger"
	"arena-app/models"

	"gorm.io/gorm"
)

// NormalizeFightStatuses is the periodic consistency repair: per event,
// only the latest fight may sit in a non-terminal status. Stale older
// fights with no active bets are cancelled; ones still carrying active
// bets are left alone and logged for manual reconciliation, since
// auto-refunding them here would race live settlement.
func NormalizeFightStatuses(db *gorm.DB) (int, error) {
	nonTerminal := []string{models.FightStandby, models.FightOpen, models.FightLastCall, models.FightClosed}

	normalized := 0
	err := db.Transaction(func(tx *gorm.DB) error {
		var events []string
		if err := tx.Model(&models.Fight{}).Distinct("event_name").Pluck("event_name", &events).Error; err != nil {
			return err
		}

		for _, event := range events {
			var latest models.Fight
			if err := tx.Where("event_name = ?", event).Order("fight_number DESC").First(&latest).Error; err != nil {
				return err
			}

			var stale []models.Fight
			err := forUpdate(tx).
				Where("event_name = ? AND id <> ? AND status IN ?", event, latest.ID, nonTerminal).
				Find(&stale).Error
			if err != nil {
				return err
			}

			for i := range stale {
				f := &stale[i]
				var active int64
				if err := tx.Model(&models.Bet{}).
					Where("fight_id = ? AND status = ?", f.ID, models.BetActive).
					Count(&active).Error; err != nil {
					return err
				}
				if active > 0 {
					logger.Warn("fight %d (%s) is stale %s with %d active bets, leaving for manual action",
						f.FightNumber, event, f.Status, active)
					continue
				}

				res := tx.Model(f).
					Where("id = ? AND status = ?", f.ID, f.Status).
					Updates(map[string]any{
						"status":      models.FightCancelled,
						"side_a_open": false,
						"side_b_open": false,
						"draw_open":   false,
					})
				if res.Error != nil {
					return res.Error
				}
				if res.RowsAffected > 0 {
					normalized++
				}
			}
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return normalized, nil
}
