package services

import (
	"errors"
	"fmt"

	"arena-app/models"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// capabilities is the role × kind table deciding who may initiate which
// ledger movement. Approval/decline is a separate admin capability.
var capabilities = map[string]map[string]bool{
	models.RoleTeller: {
		models.KindTransfer: true,
		models.KindRequest:  true,
	},
	models.RoleDeclarator: {
		models.KindTransfer: true,
	},
	models.RoleAdmin: {
		models.KindTransfer:       true,
		models.KindRequest:        true,
		models.KindInitialBalance: true,
		models.KindDeduction:      true,
		models.KindReset:          true,
	},
}

func canInitiate(role, kind string) bool {
	return capabilities[role][kind]
}

// InitiateTransfer records a pending teller-to-staff cash movement.
// Policy: tellers may only hand cash up to an admin or declarator.
// Balances do not change until approval.
func InitiateTransfer(db *gorm.DB, actor models.Staff, toStaffID uint, amount decimal.Decimal, remark string) (*models.CashTransfer, error) {
	if !canInitiate(actor.Role, models.KindTransfer) {
		return nil, fmt.Errorf("%w: %s may not initiate transfers", ErrForbidden, actor.Role)
	}
	if amount.IsNegative() || amount.IsZero() {
		return nil, fmt.Errorf("transfer amount must be positive, got %s", amount)
	}

	var entry *models.CashTransfer
	err := db.Transaction(func(tx *gorm.DB) error {
		dest, err := staffByID(tx, toStaffID)
		if err != nil {
			return err
		}
		if actor.IsTeller() && dest.IsTeller() {
			return fmt.Errorf("%w: tellers may only transfer to admin or declarator", ErrForbidden)
		}

		balance, err := CurrentBalance(tx, actor.ID)
		if err != nil {
			return err
		}
		if balance.LessThan(amount) {
			return fmt.Errorf("%w: %s < %s", ErrInsufficientBalance, balance, amount)
		}

		entry = &models.CashTransfer{
			FromStaffID: actor.ID,
			ToStaffID:   dest.ID,
			Amount:      amount,
			Kind:        models.KindTransfer,
			Status:      models.TransferPending,
			Remark:      remark,
			RefID:       uuid.New().String(),
		}
		return tx.Create(entry).Error
	})
	if err != nil {
		return nil, err
	}
	return entry, nil
}

// InitiateRequest records a pending draw from the revolving fund to
// the requesting teller. The pool is not debited until approval.
func InitiateRequest(db *gorm.DB, actor models.Staff, poolID uint, amount decimal.Decimal, remark string) (*models.CashTransfer, error) {
	if !canInitiate(actor.Role, models.KindRequest) {
		return nil, fmt.Errorf("%w: %s may not request funds", ErrForbidden, actor.Role)
	}
	if amount.IsNegative() || amount.IsZero() {
		return nil, fmt.Errorf("request amount must be positive, got %s", amount)
	}

	var entry *models.CashTransfer
	err := db.Transaction(func(tx *gorm.DB) error {
		var pool models.FundPool
		if err := tx.First(&pool, poolID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("%w: fund pool %d", ErrNotFound, poolID)
			}
			return err
		}
		if pool.RevolvingAmount.LessThan(amount) {
			return fmt.Errorf("%w: %s exceeds revolving %s", ErrInsufficientFunds, amount, pool.RevolvingAmount)
		}

		entry = &models.CashTransfer{
			FromStaffID: actor.ID,
			ToStaffID:   actor.ID,
			PoolID:      pool.ID,
			Amount:      amount,
			Kind:        models.KindRequest,
			Status:      models.TransferPending,
			Remark:      remark,
			RefID:       uuid.New().String(),
		}
		return tx.Create(entry).Error
	})
	if err != nil {
		return nil, err
	}
	return entry, nil
}

// ApproveTransfer settles a pending entry. Source balance (or pool
// capacity, for requests) is re-validated under lock at approval time:
// concurrent movements may have drained it since initiation. On
// insufficient cover the entry stays pending so the approver can retry
// or decline. The status flip is guarded so two concurrent approvals
// produce exactly one approved outcome.
func ApproveTransfer(db *gorm.DB, approver models.Staff, entryID uint) (*models.CashTransfer, error) {
	if !approver.IsAdmin() && !approver.IsDeclarator() {
		return nil, fmt.Errorf("%w: approval requires admin or declarator", ErrForbidden)
	}

	var entry models.CashTransfer
	err := db.Transaction(func(tx *gorm.DB) error {
		if err := forUpdate(tx).First(&entry, entryID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("%w: transfer %d", ErrNotFound, entryID)
			}
			return err
		}
		if entry.Terminal() {
			return fmt.Errorf("%w: transfer %d is %s", ErrAlreadyProcessed, entry.ID, entry.Status)
		}

		switch entry.Kind {
		case models.KindTransfer:
			src, err := balanceForUpdate(tx, entry.FromStaffID)
			if err != nil {
				return err
			}
			if src.CurrentBalance.LessThan(entry.Amount) {
				return fmt.Errorf("%w: source holds %s, transfer needs %s", ErrInsufficientBalance, src.CurrentBalance, entry.Amount)
			}
			dst, err := balanceForUpdate(tx, entry.ToStaffID)
			if err != nil {
				return err
			}
			src.CurrentBalance = src.CurrentBalance.Sub(entry.Amount)
			if err := tx.Model(src).Update("current_balance", src.CurrentBalance).Error; err != nil {
				return err
			}
			dst.CurrentBalance = dst.CurrentBalance.Add(entry.Amount)
			if err := tx.Model(dst).Update("current_balance", dst.CurrentBalance).Error; err != nil {
				return err
			}

		case models.KindRequest:
			pool, err := poolForUpdate(tx, entry.PoolID)
			if err != nil {
				return err
			}
			if pool.RevolvingAmount.LessThan(entry.Amount) {
				return fmt.Errorf("%w: %s exceeds revolving %s", ErrInsufficientFunds, entry.Amount, pool.RevolvingAmount)
			}
			dst, err := balanceForUpdate(tx, entry.ToStaffID)
			if err != nil {
				return err
			}
			pool.RevolvingAmount = pool.RevolvingAmount.Sub(entry.Amount)
			if err := tx.Model(pool).Update("revolving_amount", pool.RevolvingAmount).Error; err != nil {
				return err
			}
			dst.CurrentBalance = dst.CurrentBalance.Add(entry.Amount)
			if err := tx.Model(dst).Update("current_balance", dst.CurrentBalance).Error; err != nil {
				return err
			}

		default:
			return fmt.Errorf("%w: kind %s is not approvable", ErrInvalidTransition, entry.Kind)
		}

		res := tx.Model(&entry).
			Where("id = ? AND status = ?", entry.ID, models.TransferPending).
			Updates(map[string]any{
				"status":         models.TransferApproved,
				"approved_by_id": approver.ID,
			})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return fmt.Errorf("%w: transfer %d settled concurrently", ErrAlreadyProcessed, entry.ID)
		}
		entry.Status = models.TransferApproved
		entry.ApprovedByID = &approver.ID
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &entry, nil
}

// DeclineTransfer rejects a pending entry. No balances move.
func DeclineTransfer(db *gorm.DB, approver models.Staff, entryID uint) (*models.CashTransfer, error) {
	if !approver.IsAdmin() && !approver.IsDeclarator() {
		return nil, fmt.Errorf("%w: decline requires admin or declarator", ErrForbidden)
	}

	var entry models.CashTransfer
	err := db.Transaction(func(tx *gorm.DB) error {
		if err := forUpdate(tx).First(&entry, entryID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("%w: transfer %d", ErrNotFound, entryID)
			}
			return err
		}
		if entry.Terminal() {
			return fmt.Errorf("%w: transfer %d is %s", ErrAlreadyProcessed, entry.ID, entry.Status)
		}

		res := tx.Model(&entry).
			Where("id = ? AND status = ?", entry.ID, models.TransferPending).
			Updates(map[string]any{
				"status":         models.TransferDeclined,
				"approved_by_id": approver.ID,
			})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return fmt.Errorf("%w: transfer %d settled concurrently", ErrAlreadyProcessed, entry.ID)
		}
		entry.Status = models.TransferDeclined
		entry.ApprovedByID = &approver.ID
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &entry, nil
}

// TransferHistory lists ledger entries for reporting, newest first,
// optionally narrowed to one staff member.
func TransferHistory(db *gorm.DB, staffID uint, limit int) ([]models.CashTransfer, error) {
	if limit <= 0 || limit > 500 {
		limit = 100
	}
	q := db.Order("id DESC").Limit(limit)
	if staffID != 0 {
		q = q.Where("from_staff_id = ? OR to_staff_id = ?", staffID, staffID)
	}
	var entries []models.CashTransfer
	if err := q.Find(&entries).Error; err != nil {
		return nil, err
	}
	return entries, nil
}
