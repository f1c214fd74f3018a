package renderer

import (
	"github.com/shirokane/kakeibo"
)

// DebtRow is one debt line of the debts report.
type DebtRow struct {
	Date        string
	Type        string
	Counterpart string
	Amount      string
	Outstanding string
	RepaidAt    string
	Memo        string
}

// DebtsReport is the view model of the debt overview.
type DebtsReport struct {
	Open           []DebtRow
	Repaid         []DebtRow
	TotalBorrowed  string
	TotalLent      string
	OutstandingNet string
}

// NewDebtsReport lists open and repaid debts with their outstanding
// amounts. The net figure is lent minus borrowed outstanding: positive
// means the household is owed money.
func NewDebtsReport(ledger *kakeibo.Ledger) *DebtsReport {
	report := &DebtsReport{}
	var borrowed, lent, net kakeibo.Money
	for d := range ledger.Debts(false) {
		outstanding := ledger.Outstanding(d)
		row := DebtRow{
			Date:        d.Date.String(),
			Type:        string(d.Type),
			Counterpart: d.Counterpart,
			Amount:      d.Amount.String(),
			Outstanding: outstanding.String(),
			Memo:        d.Memo,
		}
		if d.IsRepaid() {
			row.RepaidAt = d.RepaidAt.String()
			report.Repaid = append(report.Repaid, row)
			continue
		}
		report.Open = append(report.Open, row)
		if d.IsBorrow() {
			borrowed = borrowed.Add(outstanding)
			net = net.Sub(outstanding)
		} else {
			lent = lent.Add(outstanding)
			net = net.Add(outstanding)
		}
	}
	report.TotalBorrowed = borrowed.String()
	report.TotalLent = lent.String()
	report.OutstandingNet = net.SignedString()
	return report
}

// RenderDebts renders the debt overview to a markdown string.
func RenderDebts(r *DebtsReport) string {
	partials := map[string]string{
		"debts_open":   "debts_open.md",
		"debts_repaid": "debts_repaid.md",
	}
	return renderTemplate("debts", "debts.md", partials, r)
}
