package kakeibo

import (
	"bytes"
	"strings"
	"testing"
	"time"
)

// scenarioLedger builds a small but complete ledger: two methods, plain
// entries, a debt with a repayment, and a transfer.
func scenarioLedger(t *testing.T) *Ledger {
	t.Helper()
	ledger := NewLedger()
	wallet, _ := NewMethod("Wallet", Money{})
	bank, _ := NewMethod("Bank", yen(50000))
	for _, m := range []Method{wallet, bank} {
		if err := ledger.AddMethod(m); err != nil {
			t.Fatal(err)
		}
	}

	day := NewDate(2025, time.June, 1)
	for _, e := range []Entry{
		NewEntry(TypeIncome, day, yen(10000), wallet.ID).WithPurpose("salary"),
		NewEntry(TypeExpense, day.Add(1), yen(1200), wallet.ID).WithPurpose("lunch").WithNote("ramen"),
		NewEntry(TypeExpense, day.Add(2), yen(800), wallet.ID).WithPrivatePurpose("gift"),
	} {
		if err := ledger.Append(e); err != nil {
			t.Fatal(err)
		}
	}

	de, debt, err := NewDebtEntry(DebtBorrow, day.Add(3), yen(5000), wallet.ID, "Tanaka")
	if err != nil {
		t.Fatal(err)
	}
	if err := ledger.AddDebtEntry(de, debt); err != nil {
		t.Fatal(err)
	}
	repay := NewEntry(TypeRepayment, day.Add(10), yen(5000), wallet.ID).WithDebt(debt.ID)
	if err := ledger.Append(repay); err != nil {
		t.Fatal(err)
	}
	if _, err := ledger.MarkDebtRepaid(debt.ID, day.Add(10)); err != nil {
		t.Fatal(err)
	}

	te, transfer, err := NewTransferEntry(day.Add(5), yen(3000), wallet.ID, bank.ID)
	if err != nil {
		t.Fatal(err)
	}
	if err := ledger.AddTransferEntry(te, transfer); err != nil {
		t.Fatal(err)
	}
	return ledger
}

func TestLedgerRoundTrip(t *testing.T) {
	original := scenarioLedger(t)

	var buf bytes.Buffer
	if err := EncodeLedger(&buf, original); err != nil {
		t.Fatal(err)
	}

	decoded, err := DecodeLedger(&buf)
	if err != nil {
		t.Fatal(err)
	}

	for m := range original.Methods(true) {
		got, err := decoded.Method(m.ID)
		if err != nil {
			t.Fatalf("method %q lost in round trip", m.Name)
		}
		if !got.Equal(m) {
			t.Errorf("method %q changed: %+v != %+v", m.Name, got, m)
		}
	}
	for _, e := range original.Entries() {
		got, err := decoded.Entry(e.ID)
		if err != nil {
			t.Fatalf("entry %q lost in round trip", e.ID)
		}
		if !got.Equal(e) {
			t.Errorf("entry %q changed:\n got %+v\nwant %+v", e.ID, got, e)
		}
	}
	for d := range original.Debts(false) {
		got, err := decoded.Debt(d.ID)
		if err != nil {
			t.Fatalf("debt %q lost in round trip", d.ID)
		}
		if !got.Equal(d) {
			t.Errorf("debt %q changed: %+v != %+v", d.ID, got, d)
		}
	}
	for tr := range original.Transfers("") {
		got, err := decoded.Transfer(tr.ID)
		if err != nil {
			t.Fatalf("transfer %q lost in round trip", tr.ID)
		}
		if !got.Equal(tr) {
			t.Errorf("transfer %q changed: %+v != %+v", tr.ID, got, tr)
		}
	}
}

func TestEncodeLedgerIsStable(t *testing.T) {
	ledger := scenarioLedger(t)

	var first, second bytes.Buffer
	if err := EncodeLedger(&first, ledger); err != nil {
		t.Fatal(err)
	}
	if err := EncodeLedger(&second, ledger); err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(first.Bytes(), second.Bytes()) {
		t.Fatal("re-encoding an unchanged ledger must be byte-identical")
	}
}

func TestDecodeLedgerRejectsUnknownRecord(t *testing.T) {
	_, err := DecodeLedger(strings.NewReader(`{"record":"voucher","id":"x"}` + "\n"))
	if !IsCode(err, CodeInvalidInput) {
		t.Fatalf("unknown record = %v, want INVALID_INPUT", err)
	}
}

func TestDecodeLedgerSkipsEmptyLines(t *testing.T) {
	input := `{"record":"method","id":"m-1","name":"Wallet"}` + "\n\n" +
		`{"record":"entry","id":"e-1","type":"income","date":"2025-06-01","amount":100,"currency":"JPY","methodId":"m-1","createdAt":"2025-06-01T10:00:00Z"}` + "\n"
	ledger, err := DecodeLedger(strings.NewReader(input))
	if err != nil {
		t.Fatal(err)
	}
	if _, err := ledger.Method("m-1"); err != nil {
		t.Error("method line not decoded")
	}
	e, err := ledger.Entry("e-1")
	if err != nil {
		t.Fatal("entry line not decoded")
	}
	if !e.Amount.Equal(yen(100)) {
		t.Errorf("amount = %s, want 100", e.Amount.Decimal())
	}
}
