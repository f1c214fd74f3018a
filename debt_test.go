package kakeibo

import (
	"testing"
	"time"
)

func TestDebtCheck(t *testing.T) {
	base := NewDebt(DebtBorrow, "e-root", testDay, yen(5000), "Tanaka")

	tests := []struct {
		name   string
		mutate func(Debt) Debt
		code   Code
	}{
		{"valid", func(d Debt) Debt { return d }, ""},
		{"unknown type", func(d Debt) Debt { d.Type = "loan"; return d }, CodeInvalidInput},
		{"missing root entry", func(d Debt) Debt { d.RootEntryID = ""; return d }, CodeInvalidInput},
		{"missing date", func(d Debt) Debt { d.Date = Date{}; return d }, CodeInvalidInput},
		{"zero amount", func(d Debt) Debt { d.Amount = yen(0); return d }, CodeInvalidValueRange},
		{"blank counterpart", func(d Debt) Debt { d.Counterpart = "  "; return d }, CodeInvalidInput},
		{"repaid before date", func(d Debt) Debt { d.RepaidAt = d.Date.Add(-1); return d }, CodeInvalidDateRange},
		{"repaid same day", func(d Debt) Debt { d.RepaidAt = d.Date; return d }, ""},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.mutate(base).Check()
			if tc.code == "" {
				if err != nil {
					t.Fatalf("Check() = %v, want nil", err)
				}
				return
			}
			if !IsCode(err, tc.code) {
				t.Fatalf("Check() = %v, want code %s", err, tc.code)
			}
		})
	}
}

func TestDebtMarkAsRepaid(t *testing.T) {
	d := NewDebt(DebtLend, "e-root", testDay, yen(3000), "Sato")

	repaid, err := d.MarkAsRepaid(testDay.Add(10))
	if err != nil {
		t.Fatal(err)
	}
	if !repaid.IsRepaid() {
		t.Fatal("debt must be repaid after MarkAsRepaid")
	}
	if d.IsRepaid() {
		t.Fatal("MarkAsRepaid must not mutate the receiver")
	}

	// Repaid is terminal.
	if _, err := repaid.MarkAsRepaid(testDay.Add(20)); !IsCode(err, CodeDebtAlreadyRepaid) {
		t.Errorf("second MarkAsRepaid = %v, want DEBT_ALREADY_REPAID", err)
	}

	// The repaid date cannot precede the debt date.
	if _, err := d.MarkAsRepaid(testDay.Add(-1)); !IsCode(err, CodeInvalidDateRange) {
		t.Errorf("MarkAsRepaid(before) = %v, want INVALID_DATE_RANGE", err)
	}
}

func TestDebtMarkAsRepaidDefaultsToToday(t *testing.T) {
	d := NewDebt(DebtBorrow, "e-root", NewDate(2000, time.March, 1), yen(100), "Ito")
	repaid, err := d.MarkAsRepaid(Date{})
	if err != nil {
		t.Fatal(err)
	}
	if repaid.RepaidAt != Today() {
		t.Errorf("RepaidAt = %s, want today", repaid.RepaidAt)
	}
}

func TestDebtUpdateMemo(t *testing.T) {
	d := NewDebt(DebtBorrow, "e-root", testDay, yen(100), "Ito")
	updated := d.UpdateMemo("lunch money")
	if d.Memo != "" || updated.Memo != "lunch money" {
		t.Fatal("UpdateMemo must copy")
	}
	if got := updated.UpdateMemo("lunch money"); !got.Equal(updated) {
		t.Error("updating to the same memo must return the original value")
	}
}
