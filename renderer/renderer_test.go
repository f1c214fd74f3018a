package renderer

import (
	"strings"
	"testing"
	"time"

	"github.com/shirokane/kakeibo"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"
)

func yen(v int64) kakeibo.Money { return kakeibo.M(v, "JPY") }

// fixtureLedger covers every report surface: plain entries, a private
// purpose, an open debt with a partial repayment, a settled debt, and a
// transfer between two methods.
func fixtureLedger(t *testing.T) (*kakeibo.Ledger, kakeibo.Method, kakeibo.Method) {
	t.Helper()
	ledger := kakeibo.NewLedger()
	wallet, _ := kakeibo.NewMethod("Wallet", kakeibo.Money{})
	bank, _ := kakeibo.NewMethod("Bank", kakeibo.Money{})
	for _, m := range []kakeibo.Method{wallet, bank} {
		if err := ledger.AddMethod(m); err != nil {
			t.Fatal(err)
		}
	}

	day := kakeibo.NewDate(2025, time.June, 1)
	for _, e := range []kakeibo.Entry{
		kakeibo.NewEntry(kakeibo.TypeIncome, day, yen(10000), wallet.ID).WithPurpose("salary"),
		kakeibo.NewEntry(kakeibo.TypeExpense, day.Add(1), yen(3000), wallet.ID).WithPurpose("rent"),
		kakeibo.NewEntry(kakeibo.TypeExpense, day.Add(2), yen(2000), wallet.ID).WithPrivatePurpose("gift"),
	} {
		if err := ledger.Append(e); err != nil {
			t.Fatal(err)
		}
	}

	be, borrow, err := kakeibo.NewDebtEntry(kakeibo.DebtBorrow, day.Add(3), yen(5000), wallet.ID, "Tanaka")
	if err != nil {
		t.Fatal(err)
	}
	if err := ledger.AddDebtEntry(be, borrow); err != nil {
		t.Fatal(err)
	}
	repay := kakeibo.NewEntry(kakeibo.TypeRepayment, day.Add(9), yen(3000), wallet.ID).WithDebt(borrow.ID)
	if err := ledger.Append(repay); err != nil {
		t.Fatal(err)
	}

	le, lend, err := kakeibo.NewDebtEntry(kakeibo.DebtLend, day.Add(5), yen(2000), wallet.ID, "Sato")
	if err != nil {
		t.Fatal(err)
	}
	if err := ledger.AddDebtEntry(le, lend); err != nil {
		t.Fatal(err)
	}
	back := kakeibo.NewEntry(kakeibo.TypeRepaymentReceive, day.Add(6), yen(2000), wallet.ID).WithDebt(lend.ID)
	if err := ledger.Append(back); err != nil {
		t.Fatal(err)
	}
	if _, err := ledger.MarkDebtRepaid(lend.ID, day.Add(6)); err != nil {
		t.Fatal(err)
	}

	te, transfer, err := kakeibo.NewTransferEntry(day.Add(4), yen(1000), wallet.ID, bank.ID)
	if err != nil {
		t.Fatal(err)
	}
	if err := ledger.AddTransferEntry(te, transfer); err != nil {
		t.Fatal(err)
	}
	return ledger, wallet, bank
}

func june() kakeibo.Range {
	return kakeibo.Monthly.Range(kakeibo.NewDate(2025, time.June, 15))
}

func TestSummaryReport(t *testing.T) {
	ledger, _, _ := fixtureLedger(t)
	r := NewSummaryReport(ledger, june())

	if r.Income != yen(10000).String() {
		t.Errorf("Income = %s, want %s", r.Income, yen(10000))
	}
	if r.Expense != yen(5000).String() {
		t.Errorf("Expense = %s, want %s", r.Expense, yen(5000))
	}
	if r.Net != yen(5000).SignedString() {
		t.Errorf("Net = %s, want %s", r.Net, yen(5000).SignedString())
	}
	// wallet 6000 + bank 1000
	if r.NetWorth != yen(7000).String() {
		t.Errorf("NetWorth = %s, want %s", r.NetWorth, yen(7000))
	}
	if len(r.ByType) != 7 {
		t.Errorf("ByType rows = %d, want all seven entry types", len(r.ByType))
	}
	if len(r.Methods) != 2 {
		t.Errorf("Methods rows = %d, want 2", len(r.Methods))
	}
}

func TestBalanceReport(t *testing.T) {
	ledger, wallet, bank := fixtureLedger(t)

	r, err := NewBalanceReport(ledger, wallet.ID, june())
	if err != nil {
		t.Fatal(err)
	}
	if r.Method != "Wallet" {
		t.Errorf("Method = %q", r.Method)
	}
	if r.Opening != (kakeibo.Money{}).String() {
		t.Errorf("Opening = %s, want zero", r.Opening)
	}
	// 10000 - 3000 - 2000 + 5000 - 3000 - 1000 - 2000 + 2000
	if r.Movement != yen(6000).SignedString() {
		t.Errorf("Movement = %s, want %s", r.Movement, yen(6000).SignedString())
	}
	if r.Closing != yen(6000).String() {
		t.Errorf("Closing = %s, want %s", r.Closing, yen(6000))
	}

	r, err = NewBalanceReport(ledger, bank.ID, june())
	if err != nil {
		t.Fatal(err)
	}
	if r.In != yen(1000).String() {
		t.Errorf("bank In = %s, want %s", r.In, yen(1000))
	}
	if r.Closing != yen(1000).String() {
		t.Errorf("bank Closing = %s, want %s", r.Closing, yen(1000))
	}

	if _, err := NewBalanceReport(ledger, "m-ghost", june()); kakeibo.KindOf(err) != kakeibo.KindNotFound {
		t.Errorf("unknown method = %v, want not found", err)
	}
}

func TestDebtsReport(t *testing.T) {
	ledger, _, _ := fixtureLedger(t)
	r := NewDebtsReport(ledger)

	if len(r.Open) != 1 || len(r.Repaid) != 1 {
		t.Fatalf("open %d repaid %d, want 1 and 1", len(r.Open), len(r.Repaid))
	}
	if r.Open[0].Counterpart != "Tanaka" || r.Open[0].Outstanding != yen(2000).String() {
		t.Errorf("open row = %+v, want Tanaka with 2000 outstanding", r.Open[0])
	}
	if r.Repaid[0].Counterpart != "Sato" || r.Repaid[0].RepaidAt == "" {
		t.Errorf("repaid row = %+v, want Sato with a repaid date", r.Repaid[0])
	}
	if r.TotalBorrowed != yen(2000).String() {
		t.Errorf("TotalBorrowed = %s, want %s", r.TotalBorrowed, yen(2000))
	}
	// Settled debts carry no outstanding amount.
	if r.TotalLent != (kakeibo.Money{}).String() {
		t.Errorf("TotalLent = %s, want zero", r.TotalLent)
	}
	if r.OutstandingNet != yen(2000).Neg().SignedString() {
		t.Errorf("OutstandingNet = %s, want %s", r.OutstandingNet, yen(2000).Neg().SignedString())
	}
}

func TestLogReport(t *testing.T) {
	ledger, _, _ := fixtureLedger(t)

	masked := NewLogReport(ledger, june(), false)
	if len(masked.Rows) != 8 {
		t.Fatalf("rows = %d, want 8", len(masked.Rows))
	}
	found := false
	for _, row := range masked.Rows {
		if row.Purpose == "(private)" {
			found = true
		}
		if row.Purpose == "gift" {
			t.Error("private purpose leaked into the masked log")
		}
	}
	if !found {
		t.Error("masked log has no (private) placeholder")
	}
	if masked.Total != yen(6000).SignedString() {
		t.Errorf("Total = %s, want %s", masked.Total, yen(6000).SignedString())
	}

	revealed := NewLogReport(ledger, june(), true)
	found = false
	for _, row := range revealed.Rows {
		if row.Purpose == "gift" {
			found = true
		}
	}
	if !found {
		t.Error("includePrivate did not reveal the private purpose")
	}
}

// TestRenderedMarkdown feeds every report through its template and checks
// that the output is well-formed markdown with the expected title.
func TestRenderedMarkdown(t *testing.T) {
	ledger, wallet, _ := fixtureLedger(t)
	balance, err := NewBalanceReport(ledger, wallet.ID, june())
	if err != nil {
		t.Fatal(err)
	}

	docs := map[string]string{
		"# Summary": RenderSummary(NewSummaryReport(ledger, june())),
		"# Wallet":  RenderBalance(balance),
		"# Debts":   RenderDebts(NewDebtsReport(ledger)),
		"# Entries": RenderLog(NewLogReport(ledger, june(), false)),
	}
	for title, doc := range docs {
		t.Run(title, func(t *testing.T) {
			if !strings.HasPrefix(doc, title) {
				t.Fatalf("document does not start with %q:\n%s", title, doc)
			}
			if strings.Contains(doc, "error") && strings.Contains(doc, "template") {
				t.Fatalf("template failure leaked into the output:\n%s", doc)
			}

			root := goldmark.DefaultParser().Parse(text.NewReader([]byte(doc)))
			headings := 0
			ast.Walk(root, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
				if entering {
					if _, ok := n.(*ast.Heading); ok {
						headings++
					}
				}
				return ast.WalkContinue, nil
			})
			if headings == 0 {
				t.Error("no heading parsed from the rendered document")
			}
		})
	}
}
