package renderer

import (
	"github.com/shirokane/kakeibo"
)

// BalanceReport is the view model of one method's balance over a period.
type BalanceReport struct {
	Method   string
	From, To string
	Opening  string
	Movement string
	In       string
	Closing  string
}

// NewBalanceReport computes the opening funds, period movement, incoming
// transfer credits and closing funds of a method.
func NewBalanceReport(ledger *kakeibo.Ledger, method kakeibo.ID, period kakeibo.Range) (*BalanceReport, error) {
	m, err := ledger.Method(method)
	if err != nil {
		return nil, err
	}
	opening, err := ledger.FundsOn(method, period.From.Add(-1))
	if err != nil {
		return nil, err
	}
	movement, err := ledger.CalculateBalance(method, period.From, period.To)
	if err != nil {
		return nil, err
	}
	closing, err := ledger.FundsOn(method, period.To)
	if err != nil {
		return nil, err
	}
	return &BalanceReport{
		Method:   m.Name,
		From:     period.From.String(),
		To:       period.To.String(),
		Opening:  opening.String(),
		Movement: movement.SignedString(),
		In:       ledger.TransfersIn(method, period).String(),
		Closing:  closing.String(),
	}, nil
}

// RenderBalance renders a method balance to a markdown string.
func RenderBalance(r *BalanceReport) string {
	return renderTemplate("balance", "balance.md", nil, r)
}
