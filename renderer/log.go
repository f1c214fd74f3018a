package renderer

import (
	"github.com/shirokane/kakeibo"
)

// LogRow is one entry line of the entry log.
type LogRow struct {
	Date    string
	Type    string
	Method  string
	Impact  string
	Purpose string
	Note    string
}

// LogReport is the view model of the chronological entry log.
type LogReport struct {
	From, To string
	Rows     []LogRow
	Total    string
}

// NewLogReport lists the entries of the period in chronological order.
// Private purposes are masked unless includePrivate is set.
func NewLogReport(ledger *kakeibo.Ledger, period kakeibo.Range, includePrivate bool) *LogReport {
	report := &LogReport{From: period.From.String(), To: period.To.String()}
	var total kakeibo.Money
	for _, e := range ledger.Entries(kakeibo.InRange(period)) {
		purpose := e.Purpose
		if e.PrivatePurpose != "" {
			if includePrivate {
				purpose = e.PrivatePurpose
			} else if purpose == "" {
				purpose = "(private)"
			}
		}
		method := string(e.MethodID)
		if m, err := ledger.Method(e.MethodID); err == nil {
			method = m.Name
		}
		impact := e.BalanceImpact()
		total = total.Add(impact)
		report.Rows = append(report.Rows, LogRow{
			Date:    e.Date.String(),
			Type:    string(e.Type),
			Method:  method,
			Impact:  impact.SignedString(),
			Purpose: purpose,
			Note:    e.Note,
		})
	}
	report.Total = total.SignedString()
	return report
}

// RenderLog renders the entry log to a markdown string.
func RenderLog(r *LogReport) string {
	return renderTemplate("log", "log.md", nil, r)
}
