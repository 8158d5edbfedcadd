package services

import (
	"errors"
	"sync"
	"testing"

	"arena-app/models"
)

func TestTransferApproveMovesBalance(t *testing.T) {
	db := testDB(t)
	admin := seedStaff(t, db, "admin", models.RoleAdmin)
	teller := seedStaff(t, db, "t1", models.RoleTeller)
	pool := seedPool(t, db, "1000")
	fight := seedFight(t, db, admin)

	if _, err := AssignFunds(db, admin, pool.ID, teller.ID, fight.ID, dec(t, "300"), ""); err != nil {
		t.Fatalf("assign: %v", err)
	}

	entry, err := InitiateTransfer(db, teller, admin.ID, dec(t, "200"), "end of shift")
	if err != nil {
		t.Fatalf("initiate: %v", err)
	}
	if entry.Status != models.TransferPending {
		t.Fatalf("entry status = %s, want pending", entry.Status)
	}
	// No balance change until approval.
	wantDecimal(t, tellerBalance(t, db, teller.ID), "300", "source before approval")

	approved, err := ApproveTransfer(db, admin, entry.ID)
	if err != nil {
		t.Fatalf("approve: %v", err)
	}
	if approved.Status != models.TransferApproved {
		t.Errorf("status = %s, want approved", approved.Status)
	}
	if approved.ApprovedByID == nil || *approved.ApprovedByID != admin.ID {
		t.Errorf("approver = %v, want %d", approved.ApprovedByID, admin.ID)
	}

	wantDecimal(t, tellerBalance(t, db, teller.ID), "100", "source after approval")
	wantDecimal(t, tellerBalance(t, db, admin.ID), "200", "destination after approval")
}

func TestTransferDeclineLeavesBalancesAlone(t *testing.T) {
	db := testDB(t)
	admin := seedStaff(t, db, "admin", models.RoleAdmin)
	teller := seedStaff(t, db, "t1", models.RoleTeller)
	pool := seedPool(t, db, "1000")
	fight := seedFight(t, db, admin)

	if _, err := AssignFunds(db, admin, pool.ID, teller.ID, fight.ID, dec(t, "300"), ""); err != nil {
		t.Fatalf("assign: %v", err)
	}

	entry, err := InitiateTransfer(db, teller, admin.ID, dec(t, "200"), "")
	if err != nil {
		t.Fatalf("initiate: %v", err)
	}

	declined, err := DeclineTransfer(db, admin, entry.ID)
	if err != nil {
		t.Fatalf("decline: %v", err)
	}
	if declined.Status != models.TransferDeclined {
		t.Errorf("status = %s, want declined", declined.Status)
	}
	wantDecimal(t, tellerBalance(t, db, teller.ID), "300", "source after decline")

	// Declined entries are terminal.
	if _, err := ApproveTransfer(db, admin, entry.ID); !errors.Is(err, ErrAlreadyProcessed) {
		t.Errorf("approve after decline: err = %v, want ErrAlreadyProcessed", err)
	}
	if _, err := DeclineTransfer(db, admin, entry.ID); !errors.Is(err, ErrAlreadyProcessed) {
		t.Errorf("double decline: err = %v, want ErrAlreadyProcessed", err)
	}
}

func TestApproveTwiceFailsSecondTime(t *testing.T) {
	db := testDB(t)
	admin := seedStaff(t, db, "admin", models.RoleAdmin)
	teller := seedStaff(t, db, "t1", models.RoleTeller)
	pool := seedPool(t, db, "1000")
	fight := seedFight(t, db, admin)

	if _, err := AssignFunds(db, admin, pool.ID, teller.ID, fight.ID, dec(t, "300"), ""); err != nil {
		t.Fatalf("assign: %v", err)
	}
	entry, err := InitiateTransfer(db, teller, admin.ID, dec(t, "100"), "")
	if err != nil {
		t.Fatalf("initiate: %v", err)
	}

	if _, err := ApproveTransfer(db, admin, entry.ID); err != nil {
		t.Fatalf("first approve: %v", err)
	}
	if _, err := ApproveTransfer(db, admin, entry.ID); !errors.Is(err, ErrAlreadyProcessed) {
		t.Fatalf("second approve: err = %v, want ErrAlreadyProcessed", err)
	}

	// Exactly one debit happened.
	wantDecimal(t, tellerBalance(t, db, teller.ID), "200", "source after double approve")
	wantDecimal(t, tellerBalance(t, db, admin.ID), "100", "destination after double approve")
}

func TestConcurrentApprovalSingleWinner(t *testing.T) {
	db := testDB(t)
	admin := seedStaff(t, db, "admin", models.RoleAdmin)
	declarator := seedStaff(t, db, "dec", models.RoleDeclarator)
	teller := seedStaff(t, db, "t1", models.RoleTeller)
	pool := seedPool(t, db, "1000")
	fight := seedFight(t, db, admin)

	if _, err := AssignFunds(db, admin, pool.ID, teller.ID, fight.ID, dec(t, "300"), ""); err != nil {
		t.Fatalf("assign: %v", err)
	}
	entry, err := InitiateTransfer(db, teller, admin.ID, dec(t, "100"), "")
	if err != nil {
		t.Fatalf("initiate: %v", err)
	}

	var wg sync.WaitGroup
	results := make([]error, 2)
	for i, approver := range []models.Staff{admin, declarator} {
		wg.Add(1)
		go func(i int, a models.Staff) {
			defer wg.Done()
			_, results[i] = ApproveTransfer(db, a, entry.ID)
		}(i, approver)
	}
	wg.Wait()

	approvals, raced := 0, 0
	for _, err := range results {
		switch {
		case err == nil:
			approvals++
		case errors.Is(err, ErrAlreadyProcessed):
			raced++
		default:
			t.Fatalf("unexpected approval error: %v", err)
		}
	}
	if approvals != 1 || raced != 1 {
		t.Errorf("got %d approvals and %d races, want exactly 1 and 1", approvals, raced)
	}

	// Never a double credit.
	wantDecimal(t, tellerBalance(t, db, teller.ID), "200", "source after race")
	wantDecimal(t, tellerBalance(t, db, admin.ID), "100", "destination after race")
}

func TestApproveRevalidatesSourceBalance(t *testing.T) {
	db := testDB(t)
	admin := seedStaff(t, db, "admin", models.RoleAdmin)
	teller := seedStaff(t, db, "t1", models.RoleTeller)
	pool := seedPool(t, db, "1000")
	fight := seedFight(t, db, admin)

	if _, err := AssignFunds(db, admin, pool.ID, teller.ID, fight.ID, dec(t, "300"), ""); err != nil {
		t.Fatalf("assign: %v", err)
	}

	entry, err := InitiateTransfer(db, teller, admin.ID, dec(t, "250"), "")
	if err != nil {
		t.Fatalf("initiate: %v", err)
	}

	// Another movement drains the source between initiation and
	// approval.
	if _, err := DeductFunds(db, admin, pool.ID, teller.ID, dec(t, "200"), ""); err != nil {
		t.Fatalf("deduct: %v", err)
	}

	_, err = ApproveTransfer(db, admin, entry.ID)
	if !errors.Is(err, ErrInsufficientBalance) {
		t.Fatalf("approve: err = %v, want ErrInsufficientBalance", err)
	}

	// The entry stays pending so the approver can retry or decline.
	var reloaded models.CashTransfer
	if err := db.First(&reloaded, entry.ID).Error; err != nil {
		t.Fatalf("reload entry: %v", err)
	}
	if reloaded.Status != models.TransferPending {
		t.Errorf("entry status = %s, want pending", reloaded.Status)
	}

	// Once the source is funded again the same entry approves.
	if _, err := AssignFunds(db, admin, pool.ID, teller.ID, fight.ID, dec(t, "200"), ""); err != nil {
		t.Fatalf("refund: %v", err)
	}
	if _, err := ApproveTransfer(db, admin, entry.ID); err != nil {
		t.Fatalf("approve after refund: %v", err)
	}
	wantDecimal(t, tellerBalance(t, db, teller.ID), "50", "source after retry")
}

func TestFundRequestApproveDrawsFromPool(t *testing.T) {
	db := testDB(t)
	admin := seedStaff(t, db, "admin", models.RoleAdmin)
	teller := seedStaff(t, db, "t1", models.RoleTeller)
	pool := seedPool(t, db, "500")

	entry, err := InitiateRequest(db, teller, pool.ID, dec(t, "200"), "drawer running low")
	if err != nil {
		t.Fatalf("request: %v", err)
	}
	wantDecimal(t, poolAmount(t, db, pool.ID), "500", "pool before approval")

	if _, err := ApproveTransfer(db, admin, entry.ID); err != nil {
		t.Fatalf("approve: %v", err)
	}
	wantDecimal(t, poolAmount(t, db, pool.ID), "300", "pool after approval")
	wantDecimal(t, tellerBalance(t, db, teller.ID), "200", "teller after approval")
}

func TestFundRequestExceedingPoolRejected(t *testing.T) {
	db := testDB(t)
	teller := seedStaff(t, db, "t1", models.RoleTeller)
	pool := seedPool(t, db, "100")

	_, err := InitiateRequest(db, teller, pool.ID, dec(t, "200"), "")
	if !errors.Is(err, ErrInsufficientFunds) {
		t.Fatalf("err = %v, want ErrInsufficientFunds", err)
	}
}

func TestCapabilityTable(t *testing.T) {
	db := testDB(t)
	admin := seedStaff(t, db, "admin", models.RoleAdmin)
	t1 := seedStaff(t, db, "t1", models.RoleTeller)
	t2 := seedStaff(t, db, "t2", models.RoleTeller)
	pool := seedPool(t, db, "1000")
	fight := seedFight(t, db, admin)

	if _, err := AssignFunds(db, admin, pool.ID, t1.ID, fight.ID, dec(t, "300"), ""); err != nil {
		t.Fatalf("assign: %v", err)
	}

	// Teller to teller is off the capability table.
	if _, err := InitiateTransfer(db, t1, t2.ID, dec(t, "100"), ""); !errors.Is(err, ErrForbidden) {
		t.Errorf("teller-to-teller: err = %v, want ErrForbidden", err)
	}

	// Declarators hold cash but cannot draw from the pool.
	declarator := seedStaff(t, db, "dec", models.RoleDeclarator)
	if _, err := InitiateRequest(db, declarator, pool.ID, dec(t, "100"), ""); !errors.Is(err, ErrForbidden) {
		t.Errorf("declarator request: err = %v, want ErrForbidden", err)
	}

	// Tellers cannot approve.
	entry, err := InitiateTransfer(db, t1, admin.ID, dec(t, "100"), "")
	if err != nil {
		t.Fatalf("initiate: %v", err)
	}
	if _, err := ApproveTransfer(db, t2, entry.ID); !errors.Is(err, ErrForbidden) {
		t.Errorf("teller approve: err = %v, want ErrForbidden", err)
	}
	if _, err := DeclineTransfer(db, t2, entry.ID); !errors.Is(err, ErrForbidden) {
		t.Errorf("teller decline: err = %v, want ErrForbidden", err)
	}
}

func TestInitiateTransferRequiresCoveredBalance(t *testing.T) {
	db := testDB(t)
	admin := seedStaff(t, db, "admin", models.RoleAdmin)
	teller := seedStaff(t, db, "t1", models.RoleTeller)

	_, err := InitiateTransfer(db, teller, admin.ID, dec(t, "100"), "")
	if !errors.Is(err, ErrInsufficientBalance) {
		t.Fatalf("err = %v, want ErrInsufficientBalance", err)
	}
}
