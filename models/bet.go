package models

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Bet statuses. Exactly one terminal status is reachable from active.
const (
	BetActive   = "active"
	BetWon      = "won"
	BetLost     = "lost"
	BetRefunded = "refunded"
)

// Bet is a stake placed by a teller on a fight side. Odds and
// PotentialPayout are frozen at placement; later odds changes apply
// only to future bets. Bets are never hard-deleted.
type Bet struct {
	gorm.Model

	TicketID string `gorm:"size:20;uniqueIndex" json:"ticket_id"`
	FightID  uint   `gorm:"index" json:"fight_id"`
	TellerID uint   `gorm:"index" json:"teller_id"`
	Side     string `gorm:"size:16;index" json:"side"`

	Stake           decimal.Decimal `gorm:"type:numeric(14,2)" json:"stake"`
	Odds            decimal.Decimal `gorm:"type:numeric(6,2)" json:"odds"`
	PotentialPayout decimal.Decimal `gorm:"type:numeric(14,2)" json:"potential_payout"`

	Status       string          `gorm:"size:16;index" json:"status"`
	ActualPayout decimal.Decimal `gorm:"type:numeric(14,2);default:0" json:"actual_payout"`
	ClaimedAt    *time.Time      `json:"claimed_at"`
}

func (b Bet) Settled() bool {
	return b.Status != BetActive
}
