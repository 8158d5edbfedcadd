package models

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Fight statuses. Transitions are strictly forward except cancellation,
// which is reachable from any pre-declaration state.
const (
	FightStandby   = "standby"
	FightOpen      = "open"
	FightLastCall  = "lastcall"
	FightClosed    = "closed"
	FightDeclared  = "result_declared"
	FightCancelled = "cancelled"
)

// Declared results. ResultDraw and ResultCancelled both refund.
const (
	ResultSideA     = "side_a"
	ResultSideB     = "side_b"
	ResultDraw      = "draw"
	ResultCancelled = "cancelled"
)

type Fight struct {
	gorm.Model

	FightNumber int    `gorm:"uniqueIndex" json:"fight_number"`
	PoolID      uint   `gorm:"index" json:"pool_id"`
	EventName   string `gorm:"size:128;index" json:"event_name"`
	Venue       string `gorm:"size:128" json:"venue"`

	SideAName string `gorm:"size:64" json:"side_a_name"`
	SideBName string `gorm:"size:64" json:"side_b_name"`

	SideAOdds decimal.Decimal `gorm:"type:numeric(6,2);default:1" json:"side_a_odds"`
	SideBOdds decimal.Decimal `gorm:"type:numeric(6,2);default:1" json:"side_b_odds"`
	DrawOdds  decimal.Decimal `gorm:"type:numeric(6,2);default:1" json:"draw_odds"`

	SideAOpen bool `gorm:"default:false" json:"side_a_open"`
	SideBOpen bool `gorm:"default:false" json:"side_b_open"`
	DrawOpen  bool `gorm:"default:false" json:"draw_open"`

	AutoOdds          bool            `gorm:"default:false" json:"auto_odds"`
	CommissionPercent decimal.Decimal `gorm:"type:numeric(5,2);default:0" json:"commission_percent"`

	Status       string     `gorm:"size:24;index;default:standby" json:"status"`
	Result       *string    `gorm:"size:16" json:"result"`
	DeclaredByID *uint      `json:"declared_by_id"`
	OpenedAt     *time.Time `json:"opened_at"`
	ClosedAt     *time.Time `json:"closed_at"`
	DeclaredAt   *time.Time `json:"declared_at"`

	// Settlement snapshot, written once at declaration. Commission is
	// informational: it never reduces individual payouts.
	TotalStake   decimal.Decimal `gorm:"type:numeric(14,2);default:0" json:"total_stake"`
	Commission   decimal.Decimal `gorm:"type:numeric(14,2);default:0" json:"commission"`
	ResultDetail datatypes.JSON  `gorm:"type:jsonb" json:"result_detail"`

	Bets []Bet `gorm:"foreignKey:FightID"`
}

// AcceptsBets reports whether the lifecycle gate allows new wagers.
// Per-side flags are checked separately.
func (f Fight) AcceptsBets() bool {
	return f.Status == FightOpen || f.Status == FightLastCall
}

// Declared reports whether a result has been recorded. Once true, all
// fight fields are immutable.
func (f Fight) Declared() bool {
	return f.Status == FightDeclared
}

// SideOpen returns the betting-open flag for the given side code.
func (f Fight) SideOpen(side string) bool {
	switch side {
	case ResultSideA:
		return f.SideAOpen
	case ResultSideB:
		return f.SideBOpen
	case ResultDraw:
		return f.DrawOpen
	}
	return false
}

// OddsFor returns the current odds for the given side code.
func (f Fight) OddsFor(side string) decimal.Decimal {
	switch side {
	case ResultSideA:
		return f.SideAOdds
	case ResultSideB:
		return f.SideBOdds
	case ResultDraw:
		return f.DrawOdds
	}
	return decimal.Zero
}
