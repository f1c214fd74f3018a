package kakeibo

import (
	"strings"
	"testing"
	"time"
)

const bankExport = `{
	"transactions": [
		{"bookingDate": "2025-07-01", "amount": -1200.50, "purpose": "supermarket"},
		{"bookingDate": "2025-07-02", "amount": 250000, "purpose": "salary"},
		{"bookingDate": "2025-07-03", "amount": "-80.25", "purpose": "coffee"}
	]
}`

var bankMapping = ImportMapping{
	Rows:     "$.transactions[*]",
	Date:     "$.bookingDate",
	Amount:   "$.amount",
	Purpose:  "$.purpose",
	Currency: "EUR",
}

func TestImportEntries(t *testing.T) {
	ledger := NewLedger()
	bank, _ := NewMethod("Bank", Money{})
	if err := ledger.AddMethod(bank); err != nil {
		t.Fatal(err)
	}

	report, err := ImportEntries(strings.NewReader(bankExport), bankMapping, bank.ID, ledger)
	if err != nil {
		t.Fatal(err)
	}
	if len(report.Imported) != 3 || len(report.Skipped) != 0 {
		t.Fatalf("imported %d skipped %d, want 3 and 0", len(report.Imported), len(report.Skipped))
	}

	// Negative rows become expenses, positive rows income, amounts exact.
	first := report.Imported[0]
	if first.Type != TypeExpense {
		t.Errorf("first type = %s, want expense", first.Type)
	}
	if !first.Amount.Equal(M(1200.50, "EUR")) {
		t.Errorf("first amount = %s, want 1200.50", first.Amount.Decimal())
	}
	if first.Date != NewDate(2025, time.July, 1) {
		t.Errorf("first date = %s", first.Date)
	}
	if first.Purpose != "supermarket" {
		t.Errorf("first purpose = %q", first.Purpose)
	}
	second := report.Imported[1]
	if second.Type != TypeIncome || !second.Amount.Equal(M(250000, "EUR")) {
		t.Errorf("second = %s %s, want income 250000", second.Type, second.Amount.Decimal())
	}
	// String-encoded amounts parse too.
	third := report.Imported[2]
	if third.Type != TypeExpense || !third.Amount.Equal(M(80.25, "EUR")) {
		t.Errorf("third = %s %s, want expense 80.25", third.Type, third.Amount.Decimal())
	}
}

func TestImportEntriesSkipsDuplicates(t *testing.T) {
	ledger := NewLedger()
	bank, _ := NewMethod("Bank", Money{})
	if err := ledger.AddMethod(bank); err != nil {
		t.Fatal(err)
	}

	if _, err := ImportEntries(strings.NewReader(bankExport), bankMapping, bank.ID, ledger); err != nil {
		t.Fatal(err)
	}
	// Re-importing the same overlapping export must be a no-op.
	report, err := ImportEntries(strings.NewReader(bankExport), bankMapping, bank.ID, ledger)
	if err != nil {
		t.Fatal(err)
	}
	if len(report.Imported) != 0 || len(report.Skipped) != 3 {
		t.Fatalf("imported %d skipped %d, want 0 and 3", len(report.Imported), len(report.Skipped))
	}
}

func TestImportEntriesBadRowPath(t *testing.T) {
	ledger := NewLedger()
	bank, _ := NewMethod("Bank", Money{})
	if err := ledger.AddMethod(bank); err != nil {
		t.Fatal(err)
	}
	mapping := bankMapping
	mapping.Rows = "$.nope[*]"
	if _, err := ImportEntries(strings.NewReader(bankExport), mapping, bank.ID, ledger); err == nil {
		t.Fatal("expected an error for a row path matching nothing")
	}
}
