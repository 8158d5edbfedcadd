package services

import (
	"testing"

	"arena-app/models"

	"github.com/shopspring/decimal"
)

// TestAutoOddsMath validates the pari-mutuel adjustment with no I/O.
//
//	Pools: side A = 1000, side B = 500.
//	  A odds = (1000 + 500) / 1000 = 1.50
//	  B odds = (500 + 1000) / 500  = 3.00
func TestAutoOddsMath(t *testing.T) {
	a := decimal.NewFromInt(1000)
	b := decimal.NewFromInt(500)
	prev := decimal.NewFromInt(2)

	if got := autoOdds(a, b, prev); !got.Equal(decimal.RequireFromString("1.5")) {
		t.Errorf("side A odds = %s, want 1.5", got)
	}
	if got := autoOdds(b, a, prev); !got.Equal(decimal.NewFromInt(3)) {
		t.Errorf("side B odds = %s, want 3", got)
	}
}

func TestAutoOddsFlooredAtOne(t *testing.T) {
	// A one-sided market never pays below even money.
	own := decimal.NewFromInt(1000)
	opposite := decimal.Zero
	if got := autoOdds(own, opposite, decimal.NewFromInt(5)); !got.Equal(decimal.NewFromInt(1)) {
		t.Errorf("odds = %s, want floor 1", got)
	}
}

func TestAutoOddsZeroStakesKeepPreviousOdds(t *testing.T) {
	// Undefined market: no stakes on this side, previous odds stand.
	prev := decimal.RequireFromString("2.35")
	if got := autoOdds(decimal.Zero, decimal.NewFromInt(800), prev); !got.Equal(prev) {
		t.Errorf("odds = %s, want previous %s", got, prev)
	}
}

func TestAutoOddsIdempotent(t *testing.T) {
	a := decimal.NewFromInt(730)
	b := decimal.NewFromInt(410)
	prev := decimal.NewFromInt(2)

	first := autoOdds(a, b, prev)
	second := autoOdds(a, b, first)
	if !first.Equal(second) {
		t.Errorf("recompute changed odds with equal totals: %s then %s", first, second)
	}
}

func TestRecomputeAfterPlacementAdjustsMarket(t *testing.T) {
	fx := newFixture(t)
	f := openFight(t, fx.db, fx.admin, FightParams{
		EventName: "derby",
		SideAName: "Red",
		SideBName: "Blue",
		SideAOdds: dec(t, "2.0"),
		SideBOdds: dec(t, "2.0"),
		AutoOdds:  true,
	})

	if _, err := PlaceBet(fx.db, fx.teller, f.ID, models.ResultSideA, dec(t, "300")); err != nil {
		t.Fatalf("bet A: %v", err)
	}
	if _, err := PlaceBet(fx.db, fx.teller, f.ID, models.ResultSideB, dec(t, "100")); err != nil {
		t.Fatalf("bet B: %v", err)
	}

	fight, err := FightByID(fx.db, f.ID)
	if err != nil {
		t.Fatalf("reload fight: %v", err)
	}
	// A: (300+100)/300 = 1.33, B: (100+300)/100 = 4.
	wantDecimal(t, fight.SideAOdds, "1.33", "side A odds after recompute")
	wantDecimal(t, fight.SideBOdds, "4", "side B odds after recompute")
}

func TestRecomputeKeepsPreviousOddsForEmptySide(t *testing.T) {
	fx := newFixture(t)
	f := openFight(t, fx.db, fx.admin, FightParams{
		EventName: "derby",
		SideAName: "Red",
		SideBName: "Blue",
		SideAOdds: dec(t, "1.8"),
		SideBOdds: dec(t, "2.1"),
		AutoOdds:  true,
	})

	if _, err := PlaceBet(fx.db, fx.teller, f.ID, models.ResultSideA, dec(t, "200")); err != nil {
		t.Fatalf("bet: %v", err)
	}

	fight, err := FightByID(fx.db, f.ID)
	if err != nil {
		t.Fatalf("reload fight: %v", err)
	}
	// Side A is floored at 1 (one-sided market); side B has no stakes
	// so its odds are untouched.
	wantDecimal(t, fight.SideAOdds, "1", "one-sided A odds")
	wantDecimal(t, fight.SideBOdds, "2.1", "empty side keeps previous odds")
}

func TestRecomputeNeverRewritesPlacedBets(t *testing.T) {
	fx := newFixture(t)
	f := openFight(t, fx.db, fx.admin, FightParams{
		EventName: "derby",
		SideAName: "Red",
		SideBName: "Blue",
		SideAOdds: dec(t, "2.0"),
		SideBOdds: dec(t, "2.0"),
		AutoOdds:  true,
	})

	first, err := PlaceBet(fx.db, fx.teller, f.ID, models.ResultSideA, dec(t, "100"))
	if err != nil {
		t.Fatalf("first bet: %v", err)
	}
	wantDecimal(t, first.Odds, "2", "odds frozen at placement")
	wantDecimal(t, first.PotentialPayout, "200", "payout frozen at placement")

	// Pile onto side A so the market moves hard.
	for i := 0; i < 3; i++ {
		if _, err := PlaceBet(fx.db, fx.teller, f.ID, models.ResultSideA, dec(t, "500")); err != nil {
			t.Fatalf("bet %d: %v", i, err)
		}
	}

	var reloaded models.Bet
	if err := fx.db.First(&reloaded, first.ID).Error; err != nil {
		t.Fatalf("reload bet: %v", err)
	}
	wantDecimal(t, reloaded.Odds, "2", "frozen odds after recompute")
	wantDecimal(t, reloaded.PotentialPayout, "200", "frozen payout after recompute")
}
