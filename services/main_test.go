package services

import (
	"fmt"
	"sync/atomic"
	"testing"

	"arena-app/database"
	"arena-app/models"

	"github.com/shopspring/decimal"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

var dbSeq atomic.Int64

// testDB opens an isolated in-memory database per test. A single
// connection keeps SQLite transactions serialized, which stands in for
// the row locks Postgres provides in production.
func testDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:arena_test_%d?mode=memory&cache=shared", dbSeq.Add(1))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		TranslateError: true,
		Logger:         gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("unwrap test db: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })

	if err := database.Migrate(db); err != nil {
		t.Fatalf("migrate test db: %v", err)
	}
	return db
}

func seedStaff(t *testing.T, db *gorm.DB, username, role string) models.Staff {
	t.Helper()
	s := models.Staff{Username: username, FullName: username, Role: role, IsActive: true}
	if err := db.Create(&s).Error; err != nil {
		t.Fatalf("seed staff %s: %v", username, err)
	}
	return s
}

func seedPool(t *testing.T, db *gorm.DB, amount string) models.FundPool {
	t.Helper()
	p := models.FundPool{EventName: "derby", RevolvingAmount: dec(t, amount)}
	if err := db.Create(&p).Error; err != nil {
		t.Fatalf("seed pool: %v", err)
	}
	return p
}

func dec(t *testing.T, s string) decimal.Decimal {
	t.Helper()
	d, err := decimal.NewFromString(s)
	if err != nil {
		t.Fatalf("bad decimal %q: %v", s, err)
	}
	return d
}

func wantDecimal(t *testing.T, got decimal.Decimal, want string, label string) {
	t.Helper()
	if !got.Equal(dec(t, want)) {
		t.Errorf("%s = %s, want %s", label, got, want)
	}
}

// poolAmount re-reads the revolving amount.
func poolAmount(t *testing.T, db *gorm.DB, poolID uint) decimal.Decimal {
	t.Helper()
	var p models.FundPool
	if err := db.First(&p, poolID).Error; err != nil {
		t.Fatalf("reload pool: %v", err)
	}
	return p.RevolvingAmount
}

func tellerBalance(t *testing.T, db *gorm.DB, staffID uint) decimal.Decimal {
	t.Helper()
	bal, err := CurrentBalance(db, staffID)
	if err != nil {
		t.Fatalf("current balance: %v", err)
	}
	return bal
}

// totalMoney is the conservation quantity: all teller balances plus
// the revolving fund.
func totalMoney(t *testing.T, db *gorm.DB, poolID uint) decimal.Decimal {
	t.Helper()
	var balances []models.TellerBalance
	if err := db.Find(&balances).Error; err != nil {
		t.Fatalf("load balances: %v", err)
	}
	total := poolAmount(t, db, poolID)
	for _, b := range balances {
		total = total.Add(b.CurrentBalance)
	}
	return total
}

// openFight creates a fight and opens betting on both sides.
func seedFight(t *testing.T, db *gorm.DB, admin models.Staff) *models.Fight {
	t.Helper()
	f, err := CreateFight(db, admin, FightParams{EventName: "friday card"})
	if err != nil {
		t.Fatalf("create fight: %v", err)
	}
	return f
}

func openFight(t *testing.T, db *gorm.DB, admin models.Staff, params FightParams) *models.Fight {
	t.Helper()
	f, err := CreateFight(db, admin, params)
	if err != nil {
		t.Fatalf("create fight: %v", err)
	}
	f, err = OpenBetting(db, admin, f.ID)
	if err != nil {
		t.Fatalf("open betting: %v", err)
	}
	return f
}
