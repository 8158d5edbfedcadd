package models

import (
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// FundPool is the revolving fund backing all teller balances for one
// event. RevolvingAmount never goes negative: every decrement is paired
// with an equal teller credit in the same transaction, and vice versa.
type FundPool struct {
	gorm.Model

	EventName       string          `gorm:"size:128;index" json:"event_name"`
	RevolvingAmount decimal.Decimal `gorm:"type:numeric(14,2);default:0" json:"revolving_amount"`
	Notes           string          `gorm:"size:255" json:"notes"`

	Fights []Fight `gorm:"foreignKey:PoolID"`
}
