package services

import (
	"encoding/json"
	"errors"
	"fmt"

	"arena-app/models"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// CurrentBalance returns the teller's spendable balance. Tellers with
// no ledger history yet have a zero balance.
func CurrentBalance(db *gorm.DB, tellerID uint) (decimal.Decimal, error) {
	var bal models.TellerBalance
	if err := db.Where("staff_id = ?", tellerID).First(&bal).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return decimal.Zero, nil
		}
		return decimal.Zero, err
	}
	return bal.CurrentBalance, nil
}

// AssignFunds moves amount from the revolving fund to a teller for a
// fight. Pool decrement, balance credit, assignment snapshot and ledger
// entry are one transaction; a failure leaves everything unchanged.
func AssignFunds(db *gorm.DB, actor models.Staff, poolID, tellerID, fightID uint, amount decimal.Decimal, remark string) (*models.CashTransfer, error) {
	if !actor.IsAdmin() {
		return nil, fmt.Errorf("%w: assign requires admin", ErrForbidden)
	}
	if amount.IsNegative() || amount.IsZero() {
		return nil, fmt.Errorf("assign amount must be positive, got %s", amount)
	}

	var entry *models.CashTransfer
	err := db.Transaction(func(tx *gorm.DB) error {
		teller, err := staffByID(tx, tellerID)
		if err != nil {
			return err
		}
		if _, err := FightByID(tx, fightID); err != nil {
			return err
		}

		pool, err := poolForUpdate(tx, poolID)
		if err != nil {
			return err
		}
		if pool.RevolvingAmount.LessThan(amount) {
			return fmt.Errorf("%w: %s exceeds revolving %s", ErrInsufficientFunds, amount, pool.RevolvingAmount)
		}

		pool.RevolvingAmount = pool.RevolvingAmount.Sub(amount)
		if err := tx.Model(pool).Update("revolving_amount", pool.RevolvingAmount).Error; err != nil {
			return err
		}

		bal, err := balanceForUpdate(tx, teller.ID)
		if err != nil {
			return err
		}
		bal.CurrentBalance = bal.CurrentBalance.Add(amount)
		if err := tx.Model(bal).Update("current_balance", bal.CurrentBalance).Error; err != nil {
			return err
		}

		if err := recordAssignment(tx, teller.ID, fightID, amount, bal.CurrentBalance); err != nil {
			return err
		}

		entry = &models.CashTransfer{
			FromStaffID:  actor.ID,
			ToStaffID:    teller.ID,
			PoolID:       pool.ID,
			FightID:      &fightID,
			Amount:       amount,
			Kind:         models.KindInitialBalance,
			Status:       models.TransferCompleted,
			ApprovedByID: &actor.ID,
			Remark:       remark,
			RefID:        uuid.New().String(),
		}
		return tx.Create(entry).Error
	})
	if err != nil {
		return nil, err
	}
	return entry, nil
}

// DeductFunds returns amount from a teller's balance to the revolving
// fund. Direct administrative action, no counter-party approval.
func DeductFunds(db *gorm.DB, actor models.Staff, poolID, tellerID uint, amount decimal.Decimal, remark string) (*models.CashTransfer, error) {
	if !actor.IsAdmin() {
		return nil, fmt.Errorf("%w: deduct requires admin", ErrForbidden)
	}
	if amount.IsNegative() || amount.IsZero() {
		return nil, fmt.Errorf("deduct amount must be positive, got %s", amount)
	}

	var entry *models.CashTransfer
	err := db.Transaction(func(tx *gorm.DB) error {
		teller, err := staffByID(tx, tellerID)
		if err != nil {
			return err
		}

		// Same lock order as AssignFunds: pool before balance.
		pool, err := poolForUpdate(tx, poolID)
		if err != nil {
			return err
		}

		bal, err := balanceForUpdate(tx, teller.ID)
		if err != nil {
			return err
		}
		if bal.CurrentBalance.LessThan(amount) {
			return fmt.Errorf("%w: %s < %s", ErrInsufficientBalance, bal.CurrentBalance, amount)
		}

		bal.CurrentBalance = bal.CurrentBalance.Sub(amount)
		if err := tx.Model(bal).Update("current_balance", bal.CurrentBalance).Error; err != nil {
			return err
		}
		pool.RevolvingAmount = pool.RevolvingAmount.Add(amount)
		if err := tx.Model(pool).Update("revolving_amount", pool.RevolvingAmount).Error; err != nil {
			return err
		}

		entry = &models.CashTransfer{
			FromStaffID:  teller.ID,
			ToStaffID:    teller.ID,
			PoolID:       pool.ID,
			Amount:       amount,
			Kind:         models.KindDeduction,
			Status:       models.TransferCompleted,
			ApprovedByID: &actor.ID,
			Remark:       remark,
			RefID:        uuid.New().String(),
		}
		return tx.Create(entry).Error
	})
	if err != nil {
		return nil, err
	}
	return entry, nil
}

// ResetBalances zeroes every teller balance and credits the total back
// to the revolving fund. Used at event rollover. One reset-kind ledger
// entry is written per teller for auditability.
func ResetBalances(db *gorm.DB, actor models.Staff, poolID uint) (int, error) {
	if !actor.IsAdmin() {
		return 0, fmt.Errorf("%w: reset requires admin", ErrForbidden)
	}

	reset := 0
	err := db.Transaction(func(tx *gorm.DB) error {
		pool, err := poolForUpdate(tx, poolID)
		if err != nil {
			return err
		}

		var balances []models.TellerBalance
		if err := forUpdate(tx).Where("current_balance > 0").Find(&balances).Error; err != nil {
			return err
		}

		total := decimal.Zero
		refID := uuid.New().String()
		for i := range balances {
			b := &balances[i]
			total = total.Add(b.CurrentBalance)

			meta, _ := json.Marshal(map[string]any{"balance_before": b.CurrentBalance})
			entry := models.CashTransfer{
				FromStaffID:  b.StaffID,
				ToStaffID:    b.StaffID,
				PoolID:       pool.ID,
				Amount:       b.CurrentBalance,
				Kind:         models.KindReset,
				Status:       models.TransferCompleted,
				ApprovedByID: &actor.ID,
				Remark:       "event rollover reset",
				RefID:        refID,
				Meta:         datatypes.JSON(meta),
			}
			if err := tx.Create(&entry).Error; err != nil {
				return err
			}

			b.CurrentBalance = decimal.Zero
			if err := tx.Model(b).Update("current_balance", decimal.Zero).Error; err != nil {
				return err
			}
			reset++
		}

		if total.IsZero() {
			return nil
		}
		pool.RevolvingAmount = pool.RevolvingAmount.Add(total)
		return tx.Model(pool).Update("revolving_amount", pool.RevolvingAmount).Error
	})
	if err != nil {
		return 0, err
	}
	return reset, nil
}

func staffByID(tx *gorm.DB, id uint) (*models.Staff, error) {
	var s models.Staff
	if err := tx.First(&s, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: staff %d", ErrNotFound, id)
		}
		return nil, err
	}
	return &s, nil
}

func poolForUpdate(tx *gorm.DB, id uint) (*models.FundPool, error) {
	var p models.FundPool
	if err := forUpdate(tx).First(&p, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: fund pool %d", ErrNotFound, id)
		}
		return nil, err
	}
	return &p, nil
}

// balanceForUpdate locks the teller's balance row, creating a zero row
// on first use so later operations have something to lock.
func balanceForUpdate(tx *gorm.DB, staffID uint) (*models.TellerBalance, error) {
	var b models.TellerBalance
	err := forUpdate(tx).Where("staff_id = ?", staffID).First(&b).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		b = models.TellerBalance{StaffID: staffID, CurrentBalance: decimal.Zero}
		if err := tx.Create(&b).Error; err != nil {
			return nil, err
		}
		return &b, nil
	}
	if err != nil {
		return nil, err
	}
	return &b, nil
}

// recordAssignment keeps the historical (teller, fight) snapshot in
// step with the authoritative balance.
func recordAssignment(tx *gorm.DB, staffID, fightID uint, amount, balanceAfter decimal.Decimal) error {
	var a models.TellerAssignment
	err := tx.Where("staff_id = ? AND fight_id = ?", staffID, fightID).First(&a).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		a = models.TellerAssignment{
			StaffID:        staffID,
			FightID:        fightID,
			AssignedAmount: amount,
			BalanceAfter:   balanceAfter,
			Status:         "active",
		}
		return tx.Create(&a).Error
	}
	if err != nil {
		return err
	}
	return tx.Model(&a).Updates(map[string]any{
		"assigned_amount": a.AssignedAmount.Add(amount),
		"balance_after":   balanceAfter,
	}).Error
}
