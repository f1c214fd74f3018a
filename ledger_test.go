package kakeibo

import (
	"testing"
	"time"
)

// testLedger builds a ledger with one active wallet method.
func testLedger(t *testing.T) (*Ledger, Method) {
	t.Helper()
	ledger := NewLedger()
	m, err := NewMethod("Wallet", Money{})
	if err != nil {
		t.Fatal(err)
	}
	if err := ledger.AddMethod(m); err != nil {
		t.Fatal(err)
	}
	return ledger, m
}

func TestLedgerAppendDuplicateDetection(t *testing.T) {
	ledger, wallet := testLedger(t)
	day := NewDate(2025, time.January, 1)

	first := NewEntry(TypeExpense, day, yen(1000), wallet.ID).WithPurpose("lunch")
	if err := ledger.Append(first); err != nil {
		t.Fatal(err)
	}

	second := NewEntry(TypeExpense, day, yen(1000), wallet.ID).WithPurpose("lunch")
	err := ledger.Append(second)
	if !IsCode(err, CodeDuplicateEntry) {
		t.Fatalf("second identical append = %v, want DUPLICATE_ENTRY", err)
	}
	if KindOf(err) != KindBusinessRule {
		t.Errorf("KindOf() = %v, want business rule", KindOf(err))
	}

	// A different purpose on the same day is no duplicate.
	third := NewEntry(TypeExpense, day, yen(1000), wallet.ID).WithPurpose("dinner")
	if err := ledger.Append(third); err != nil {
		t.Fatalf("distinct purpose = %v, want nil", err)
	}
}

func TestLedgerAppendArchivedMethod(t *testing.T) {
	ledger, wallet := testLedger(t)
	if err := ledger.UpdateMethod(wallet.SetArchived(true)); err != nil {
		t.Fatal(err)
	}
	err := ledger.Append(NewEntry(TypeIncome, testDay, yen(100), wallet.ID))
	if !IsCode(err, CodeMethodArchived) {
		t.Fatalf("append on archived method = %v, want METHOD_ARCHIVED", err)
	}
}

func TestLedgerAppendUnknownMethod(t *testing.T) {
	ledger, _ := testLedger(t)
	err := ledger.Append(NewEntry(TypeIncome, testDay, yen(100), "m-ghost"))
	if KindOf(err) != KindNotFound {
		t.Fatalf("append on unknown method = %v, want not found", err)
	}
}

func TestLedgerDeleteMethodGuard(t *testing.T) {
	ledger, wallet := testLedger(t)
	if err := ledger.Append(NewEntry(TypeIncome, testDay, yen(100), wallet.ID)); err != nil {
		t.Fatal(err)
	}

	if err := ledger.DeleteMethod(wallet.ID); !IsCode(err, CodeMethodInUse) {
		t.Fatalf("delete referenced method = %v, want METHOD_IN_USE", err)
	}

	unused, _ := NewMethod("Spare", Money{})
	if err := ledger.AddMethod(unused); err != nil {
		t.Fatal(err)
	}
	if err := ledger.DeleteMethod(unused.ID); err != nil {
		t.Fatalf("delete unreferenced method = %v, want nil", err)
	}
}

func TestLedgerDebtLifecycle(t *testing.T) {
	ledger, wallet := testLedger(t)

	entry, debt, err := NewDebtEntry(DebtBorrow, testDay, yen(5000), wallet.ID, "Tanaka")
	if err != nil {
		t.Fatal(err)
	}
	if err := ledger.AddDebtEntry(entry, debt); err != nil {
		t.Fatal(err)
	}

	// Partial repayment.
	repay := NewEntry(TypeRepayment, testDay.Add(7), yen(3000), wallet.ID).WithDebt(debt.ID)
	if err := ledger.Append(repay); err != nil {
		t.Fatal(err)
	}
	d, _ := ledger.Debt(debt.ID)
	if got := ledger.Outstanding(d); !got.Equal(yen(2000)) {
		t.Fatalf("Outstanding = %s, want 2000", got.Decimal())
	}

	// Over-repaying the remainder is rejected.
	excess := NewEntry(TypeRepayment, testDay.Add(8), yen(2500), wallet.ID).WithDebt(debt.ID)
	if err := ledger.Append(excess); !IsCode(err, CodeExcessRepayment) {
		t.Fatalf("excess repayment = %v, want EXCESS_REPAYMENT_AMOUNT", err)
	}

	// Settle and guard the second settle.
	if _, err := ledger.MarkDebtRepaid(debt.ID, testDay.Add(9)); err != nil {
		t.Fatal(err)
	}
	if _, err := ledger.MarkDebtRepaid(debt.ID, testDay.Add(10)); !IsCode(err, CodeDebtAlreadyRepaid) {
		t.Fatalf("second settle = %v, want DEBT_ALREADY_REPAID", err)
	}
}

func TestLedgerRepaymentDirection(t *testing.T) {
	ledger, wallet := testLedger(t)
	entry, debt, err := NewDebtEntry(DebtLend, testDay, yen(4000), wallet.ID, "Sato")
	if err != nil {
		t.Fatal(err)
	}
	if err := ledger.AddDebtEntry(entry, debt); err != nil {
		t.Fatal(err)
	}

	// A lend debt is settled by repayment_receive, not repayment.
	wrong := NewEntry(TypeRepayment, testDay.Add(1), yen(1000), wallet.ID).WithDebt(debt.ID)
	if err := ledger.Append(wrong); !IsCode(err, CodeInvalidCombination) {
		t.Fatalf("wrong direction = %v, want INVALID_VALUE_COMBINATION", err)
	}
	right := NewEntry(TypeRepaymentReceive, testDay.Add(1), yen(1000), wallet.ID).WithDebt(debt.ID)
	if err := ledger.Append(right); err != nil {
		t.Fatalf("right direction = %v, want nil", err)
	}
}

func TestLedgerAddDebtEntryRollsBack(t *testing.T) {
	ledger, wallet := testLedger(t)
	if err := ledger.UpdateMethod(wallet.SetArchived(true)); err != nil {
		t.Fatal(err)
	}

	entry, debt, err := NewDebtEntry(DebtBorrow, testDay, yen(100), wallet.ID, "Ito")
	if err != nil {
		t.Fatal(err)
	}
	if err := ledger.AddDebtEntry(entry, debt); !IsCode(err, CodeMethodArchived) {
		t.Fatalf("AddDebtEntry on archived method = %v, want METHOD_ARCHIVED", err)
	}
	// The rejected pair must leave no debt behind.
	if _, err := ledger.Debt(debt.ID); KindOf(err) != KindNotFound {
		t.Error("rejected debt entry must not register the debt")
	}
}

func TestLedgerTransferPair(t *testing.T) {
	ledger, wallet := testLedger(t)
	bank, _ := NewMethod("Bank", Money{})
	if err := ledger.AddMethod(bank); err != nil {
		t.Fatal(err)
	}
	if err := ledger.Append(NewEntry(TypeIncome, testDay, yen(5000), wallet.ID)); err != nil {
		t.Fatal(err)
	}

	entry, transfer, err := NewTransferEntry(testDay.Add(1), yen(2000), wallet.ID, bank.ID)
	if err != nil {
		t.Fatal(err)
	}
	if err := ledger.AddTransferEntry(entry, transfer); err != nil {
		t.Fatal(err)
	}

	// The root entry cannot be deleted while the transfer exists.
	if err := ledger.DeleteEntry(entry.ID); KindOf(err) != KindBusinessRule {
		t.Fatalf("delete transfer root = %v, want business rule error", err)
	}
	if err := ledger.DeleteTransfer(transfer.ID); err != nil {
		t.Fatal(err)
	}
	if err := ledger.DeleteEntry(entry.ID); err != nil {
		t.Fatalf("delete freed root = %v, want nil", err)
	}
}

func TestLedgerEntriesFilters(t *testing.T) {
	ledger, wallet := testLedger(t)
	jan := NewDate(2025, time.January, 10)
	feb := NewDate(2025, time.February, 10)
	for _, e := range []Entry{
		NewEntry(TypeIncome, jan, yen(100), wallet.ID),
		NewEntry(TypeExpense, jan, yen(200), wallet.ID),
		NewEntry(TypeExpense, feb, yen(300), wallet.ID).WithPrivatePurpose("secret"),
	} {
		if err := ledger.Append(e); err != nil {
			t.Fatal(err)
		}
	}

	count := func(filters ...func(Entry) bool) int {
		n := 0
		for range ledger.Entries(filters...) {
			n++
		}
		return n
	}
	if got := count(); got != 3 {
		t.Errorf("no filter = %d entries, want 3", got)
	}
	if got := count(ByType(TypeExpense)); got != 2 {
		t.Errorf("ByType(expense) = %d, want 2", got)
	}
	if got := count(InRange(Monthly.Range(jan))); got != 2 {
		t.Errorf("January = %d, want 2", got)
	}
	if got := count(Public); got != 2 {
		t.Errorf("Public = %d, want 2", got)
	}
	if got := count(ByType(TypeExpense), Public); got != 1 {
		t.Errorf("expense and public = %d, want 1", got)
	}
}
