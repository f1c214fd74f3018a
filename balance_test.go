package kakeibo

import (
	"testing"
	"time"
)

func TestCalculateBalanceScenario(t *testing.T) {
	ledger, wallet := testLedger(t)
	day := NewDate(2025, time.March, 1)

	for _, e := range []Entry{
		NewEntry(TypeIncome, day, yen(10000), wallet.ID).WithPurpose("salary"),
		NewEntry(TypeExpense, day.Add(1), yen(3000), wallet.ID).WithPurpose("groceries"),
		NewEntry(TypeExpense, day.Add(2), yen(2000), wallet.ID).WithPurpose("transport"),
	} {
		if err := ledger.Append(e); err != nil {
			t.Fatal(err)
		}
	}
	entry, debt, err := NewDebtEntry(DebtBorrow, day.Add(3), yen(5000), wallet.ID, "Tanaka")
	if err != nil {
		t.Fatal(err)
	}
	if err := ledger.AddDebtEntry(entry, debt); err != nil {
		t.Fatal(err)
	}

	// income 10000 - expense 3000 - expense 2000 + borrow 5000 = 10000
	got, err := ledger.CalculateBalance(wallet.ID, day, day.Add(30))
	if err != nil {
		t.Fatal(err)
	}
	if !got.Equal(yen(10000)) {
		t.Fatalf("CalculateBalance = %s, want 10000", got.Decimal())
	}
}

func TestCalculateBalanceErrors(t *testing.T) {
	ledger, wallet := testLedger(t)
	if _, err := ledger.CalculateBalance("m-ghost", testDay, testDay); KindOf(err) != KindNotFound {
		t.Errorf("unknown method = %v, want not found", err)
	}
	if _, err := ledger.CalculateBalance(wallet.ID, testDay, testDay.Add(-1)); !IsCode(err, CodeInvalidDateRange) {
		t.Errorf("inverted range = %v, want INVALID_DATE_RANGE", err)
	}
}

func TestTransferAffectsBothMethods(t *testing.T) {
	ledger, wallet := testLedger(t)
	bank, _ := NewMethod("Bank", Money{})
	if err := ledger.AddMethod(bank); err != nil {
		t.Fatal(err)
	}
	day := NewDate(2025, time.April, 1)
	if err := ledger.Append(NewEntry(TypeIncome, day, yen(5000), wallet.ID)); err != nil {
		t.Fatal(err)
	}
	entry, transfer, err := NewTransferEntry(day.Add(1), yen(2000), wallet.ID, bank.ID)
	if err != nil {
		t.Fatal(err)
	}
	if err := ledger.AddTransferEntry(entry, transfer); err != nil {
		t.Fatal(err)
	}

	on := day.Add(2)
	walletFunds, err := ledger.FundsOn(wallet.ID, on)
	if err != nil {
		t.Fatal(err)
	}
	bankFunds, err := ledger.FundsOn(bank.ID, on)
	if err != nil {
		t.Fatal(err)
	}
	if !walletFunds.Equal(yen(3000)) {
		t.Errorf("wallet funds = %s, want 3000", walletFunds.Decimal())
	}
	if !bankFunds.Equal(yen(2000)) {
		t.Errorf("bank funds = %s, want 2000", bankFunds.Decimal())
	}
	// The transfer moves money without changing the household total.
	if total := ledger.NetWorth(on); !total.Equal(yen(5000)) {
		t.Errorf("net worth = %s, want 5000", total.Decimal())
	}
}

func TestFundsOnIncludesInitialBalance(t *testing.T) {
	ledger := NewLedger()
	m, err := NewMethod("Bank", yen(10000))
	if err != nil {
		t.Fatal(err)
	}
	if err := ledger.AddMethod(m); err != nil {
		t.Fatal(err)
	}
	if err := ledger.Append(NewEntry(TypeExpense, testDay, yen(1500), m.ID)); err != nil {
		t.Fatal(err)
	}
	funds, err := ledger.FundsOn(m.ID, testDay)
	if err != nil {
		t.Fatal(err)
	}
	if !funds.Equal(yen(8500)) {
		t.Errorf("funds = %s, want 8500", funds.Decimal())
	}
}

func TestSummarize(t *testing.T) {
	ledger, wallet := testLedger(t)
	day := NewDate(2025, time.May, 1)
	for _, e := range []Entry{
		NewEntry(TypeIncome, day, yen(10000), wallet.ID),
		NewEntry(TypeExpense, day.Add(1), yen(4000), wallet.ID),
		NewEntry(TypeExpense, day.Add(2), yen(1000), wallet.ID).WithPurpose("books"),
	} {
		if err := ledger.Append(e); err != nil {
			t.Fatal(err)
		}
	}

	s := ledger.Summarize(Monthly.Range(day))
	if !s.Income.Equal(yen(10000)) {
		t.Errorf("Income = %s, want 10000", s.Income.Decimal())
	}
	if !s.Expense.Equal(yen(5000)) {
		t.Errorf("Expense = %s, want 5000", s.Expense.Decimal())
	}
	if !s.Net().Equal(yen(5000)) {
		t.Errorf("Net = %s, want 5000", s.Net().Decimal())
	}
	if !s.ByType[TypeExpense].Equal(yen(5000)) {
		t.Errorf("ByType[expense] = %s, want 5000", s.ByType[TypeExpense].Decimal())
	}
}
