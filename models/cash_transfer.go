package models

import (
	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// CashTransfer kinds.
const (
	KindTransfer       = "transfer"
	KindRequest        = "request"
	KindInitialBalance = "initial_balance"
	KindDeduction      = "deduction"
	KindReset          = "reset"
)

// CashTransfer statuses. transfer/request start pending and end
// approved or declined; administrative kinds are created completed.
const (
	TransferPending   = "pending"
	TransferApproved  = "approved"
	TransferDeclined  = "declined"
	TransferCompleted = "completed"
)

// CashTransfer is one balance-affecting ledger entry. Entries are
// append-only: once terminal they are never mutated again.
type CashTransfer struct {
	gorm.Model

	FromStaffID  uint            `gorm:"index" json:"from_staff_id"`
	ToStaffID    uint            `gorm:"index" json:"to_staff_id"`
	PoolID       uint            `gorm:"index" json:"pool_id"`
	FightID      *uint           `gorm:"index" json:"fight_id"`
	Amount       decimal.Decimal `gorm:"type:numeric(14,2)" json:"amount"`
	Kind         string          `gorm:"size:16;index" json:"kind"`
	Status       string          `gorm:"size:16;index" json:"status"`
	ApprovedByID *uint           `json:"approved_by_id"`
	Remark       string          `gorm:"size:255" json:"remark"`
	RefID        string          `gorm:"size:64;index" json:"ref_id"`
	Meta         datatypes.JSON  `gorm:"type:jsonb" json:"meta"`
}

// Terminal reports whether the entry can no longer change state.
func (t CashTransfer) Terminal() bool {
	return t.Status != TransferPending
}
