package renderer

import (
	"github.com/shirokane/kakeibo"
)

// SummaryRow is one line of the per-type breakdown.
type SummaryRow struct {
	Type  string
	Total string
}

// MethodRow is one line of the per-method closing balances.
type MethodRow struct {
	Name     string
	Funds    string
	Archived bool
}

// SummaryReport is the view model of the period summary.
type SummaryReport struct {
	From, To string
	Income   string
	Expense  string
	Net      string
	NetWorth string
	ByType   []SummaryRow
	Methods  []MethodRow
}

// NewSummaryReport aggregates the ledger over the period into a view model.
func NewSummaryReport(ledger *kakeibo.Ledger, period kakeibo.Range) *SummaryReport {
	s := ledger.Summarize(period)
	report := &SummaryReport{
		From:     period.From.String(),
		To:       period.To.String(),
		Income:   s.Income.String(),
		Expense:  s.Expense.String(),
		Net:      s.Net().SignedString(),
		NetWorth: ledger.NetWorth(period.To).String(),
	}
	for _, t := range []kakeibo.EntryType{
		kakeibo.TypeIncome, kakeibo.TypeExpense, kakeibo.TypeBorrow, kakeibo.TypeLend,
		kakeibo.TypeRepayment, kakeibo.TypeRepaymentReceive, kakeibo.TypeTransfer,
	} {
		total, ok := s.ByType[t]
		if !ok || total.IsZero() {
			continue
		}
		report.ByType = append(report.ByType, SummaryRow{Type: string(t), Total: total.String()})
	}
	for m := range ledger.Methods(true) {
		funds, err := ledger.FundsOn(m.ID, period.To)
		if err != nil {
			continue
		}
		report.Methods = append(report.Methods, MethodRow{Name: m.Name, Funds: funds.String(), Archived: m.Archived})
	}
	return report
}

// RenderSummary renders the period summary to a markdown string.
func RenderSummary(r *SummaryReport) string {
	partials := map[string]string{
		"summary_breakdown": "summary_breakdown.md",
		"summary_methods":   "summary_methods.md",
	}
	return renderTemplate("summary", "summary.md", partials, r)
}
