package models

import (
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// TellerBalance is the authoritative spendable balance for one teller,
// maintained in the same transaction as every CashTransfer write.
type TellerBalance struct {
	gorm.Model

	StaffID        uint            `gorm:"uniqueIndex" json:"staff_id"`
	CurrentBalance decimal.Decimal `gorm:"type:numeric(14,2);default:0" json:"current_balance"`
}

// TellerAssignment is a historical snapshot of fund allotments per
// (teller, fight). It is never read for balance decisions; reporting
// replays it to reconstruct who held what during which fight.
type TellerAssignment struct {
	gorm.Model

	StaffID        uint            `gorm:"index:idx_teller_fight" json:"staff_id"`
	FightID        uint            `gorm:"index:idx_teller_fight" json:"fight_id"`
	AssignedAmount decimal.Decimal `gorm:"type:numeric(14,2);default:0" json:"assigned_amount"`
	BalanceAfter   decimal.Decimal `gorm:"type:numeric(14,2);default:0" json:"balance_after"`
	Status         string          `gorm:"size:16;default:active" json:"status"`
}
