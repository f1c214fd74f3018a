package kakeibo

import (
	"testing"
	"time"
)

var (
	testDay    = NewDate(2025, time.January, 15)
	testMethod = ID("m-wallet")
)

func yen[T float32 | float64 | int | int32 | int64 | uint | uint32 | uint64](v T) Money {
	return M(v, "JPY")
}

func TestEntryCheck(t *testing.T) {
	valid := NewEntry(TypeExpense, testDay, yen(1000), testMethod)

	tests := []struct {
		name  string
		entry Entry
		code  Code
	}{
		{"valid expense", valid, ""},
		{"zero amount", NewEntry(TypeExpense, testDay, yen(0), testMethod), CodeInvalidValueRange},
		{"negative amount", NewEntry(TypeIncome, testDay, yen(-500), testMethod), CodeInvalidValueRange},
		{"unknown type", NewEntry("refund", testDay, yen(100), testMethod), CodeInvalidInput},
		{"missing date", NewEntry(TypeIncome, Date{}, yen(100), testMethod), CodeInvalidInput},
		{"missing method", NewEntry(TypeIncome, testDay, yen(100), ""), CodeInvalidInput},
		{"borrow without debt", NewEntry(TypeBorrow, testDay, yen(100), testMethod), CodeInvalidCombination},
		{"lend without debt", NewEntry(TypeLend, testDay, yen(100), testMethod), CodeInvalidCombination},
		{"repayment without debt", NewEntry(TypeRepayment, testDay, yen(100), testMethod), CodeInvalidCombination},
		{"repayment with debt", NewEntry(TypeRepayment, testDay, yen(100), testMethod).WithDebt("d-1"), ""},
		{"external evidence url", valid.WithEvidenceNote("https://example.com/receipt.png"), CodeInvalidInput},
		{"internal evidence uri", valid.WithEvidenceNote("kakeibo://evidence/42"), ""},
		{"plain evidence text", valid.WithEvidenceNote("receipt in the drawer"), ""},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.entry.Check()
			if tc.code == "" {
				if err != nil {
					t.Fatalf("Check() = %v, want nil", err)
				}
				return
			}
			if !IsCode(err, tc.code) {
				t.Fatalf("Check() = %v, want code %s", err, tc.code)
			}
			if KindOf(err) != KindValidation {
				t.Errorf("KindOf() = %v, want validation", KindOf(err))
			}
		})
	}
}

func TestEntryCheckIdempotent(t *testing.T) {
	e := NewEntry(TypeIncome, testDay, yen(2500), testMethod).WithPurpose("salary")
	for i := 0; i < 3; i++ {
		if err := e.Check(); err != nil {
			t.Fatalf("Check() run %d = %v, want nil", i, err)
		}
	}
}

func TestEntryTypeClassification(t *testing.T) {
	tests := []struct {
		entryType EntryType
		income    bool
		expense   bool
		debt      bool
	}{
		{TypeIncome, true, false, false},
		{TypeExpense, false, true, false},
		{TypeBorrow, true, false, true},
		{TypeLend, false, true, true},
		{TypeRepayment, false, true, true},
		{TypeRepaymentReceive, true, false, true},
		{TypeTransfer, false, false, false},
		{TypeInitialBalance, false, false, false},
	}
	for _, tc := range tests {
		t.Run(string(tc.entryType), func(t *testing.T) {
			if got := tc.entryType.IsIncome(); got != tc.income {
				t.Errorf("IsIncome() = %v, want %v", got, tc.income)
			}
			if got := tc.entryType.IsExpense(); got != tc.expense {
				t.Errorf("IsExpense() = %v, want %v", got, tc.expense)
			}
			if got := tc.entryType.IsDebtRelated(); got != tc.debt {
				t.Errorf("IsDebtRelated() = %v, want %v", got, tc.debt)
			}
		})
	}
}

func TestEntryBalanceImpact(t *testing.T) {
	tests := []struct {
		entryType EntryType
		want      Money
	}{
		{TypeIncome, yen(100)},
		{TypeBorrow, yen(100)},
		{TypeRepaymentReceive, yen(100)},
		{TypeInitialBalance, yen(100)},
		{TypeExpense, yen(-100)},
		{TypeLend, yen(-100)},
		{TypeRepayment, yen(-100)},
		{TypeTransfer, yen(-100)},
	}
	for _, tc := range tests {
		t.Run(string(tc.entryType), func(t *testing.T) {
			e := NewEntry(tc.entryType, testDay, yen(100), testMethod)
			if got := e.BalanceImpact(); !got.Equal(tc.want) {
				t.Errorf("BalanceImpact() = %s, want %s", got.Decimal(), tc.want.Decimal())
			}
		})
	}
}

func TestEntryWithMethodsCopy(t *testing.T) {
	e := NewEntry(TypeExpense, testDay, yen(300), testMethod)
	annotated := e.WithPurpose("coffee").WithNote("with friends")
	if e.Purpose != "" || e.Note != "" {
		t.Fatal("With* methods must not mutate the receiver")
	}
	if annotated.Purpose != "coffee" || annotated.Note != "with friends" {
		t.Fatalf("unexpected copy: %+v", annotated)
	}
	if annotated.ID != e.ID {
		t.Error("copy must keep the id")
	}
}
