package kakeibo

import "iter"

// Sum folds the signed balance impact of a sequence of entries from zero.
func Sum(entries iter.Seq2[int, Entry]) Money {
	var total Money
	for _, e := range entries {
		total = total.Add(e.BalanceImpact())
	}
	return total
}

// CalculateBalance folds the net movement of a method over the given range,
// starting from zero. Only the entry legs are counted: incoming transfer
// credits are not visible on entries (see Entry.BalanceImpact) and are
// reported separately by TransfersIn.
func (l *Ledger) CalculateBalance(method ID, start, end Date) (Money, error) {
	if _, err := l.Method(method); err != nil {
		return Money{}, err
	}
	if !start.IsZero() && !end.IsZero() && end.Before(start) {
		return Money{}, Errv(CodeInvalidDateRange, "endDate", "end date %s is before start date %s", end, start)
	}
	return Sum(l.Entries(ByMethod(method), InRange(Range{From: start, To: end}))), nil
}

// TransfersIn sums the credits a method received from transfers over the
// given range.
func (l *Ledger) TransfersIn(method ID, r Range) Money {
	var total Money
	for t := range l.Transfers(method) {
		if t.ToMethodID != method || !r.Contains(t.Date) {
			continue
		}
		e, err := l.Entry(t.RootEntryID)
		if err != nil {
			continue // dangling transfer, skipped rather than fatal
		}
		total = total.Add(e.Amount)
	}
	return total
}

// FundsOn returns the full funds available on a method at end of day: the
// method's starting balance, plus every entry leg up to that day, plus the
// transfer credits received. This is the figure sufficient-funds checks and
// net worth summaries use.
func (l *Ledger) FundsOn(method ID, on Date) (Money, error) {
	m, err := l.Method(method)
	if err != nil {
		return Money{}, err
	}
	upTo := Range{To: on}
	total := m.InitialBalance
	total = total.Add(Sum(l.Entries(ByMethod(method), InRange(upTo))))
	total = total.Add(l.TransfersIn(method, upTo))
	return total, nil
}

// BalanceFunc adapts the ledger to the transfer sufficient-funds check.
func (l *Ledger) BalanceFunc() BalanceFunc {
	return l.FundsOn
}

// NetWorth sums FundsOn over every method, archived ones included, at end
// of the given day.
func (l *Ledger) NetWorth(on Date) Money {
	var total Money
	for m := range l.Methods(true) {
		funds, err := l.FundsOn(m.ID, on)
		if err != nil {
			continue
		}
		total = total.Add(funds)
	}
	return total
}

// Summary aggregates a period for reporting: income and expense totals,
// per-type breakdown, and the closing net worth.
type Summary struct {
	Period  Range
	Income  Money
	Expense Money
	ByType  map[EntryType]Money
}

// Net returns income minus expense for the period.
func (s Summary) Net() Money { return s.Income.Sub(s.Expense) }

// Summarize aggregates all entries of the period. Transfers move money
// between methods without changing the household total, so they appear in
// the per-type breakdown but in neither the income nor the expense total.
func (l *Ledger) Summarize(r Range) Summary {
	s := Summary{Period: r, ByType: make(map[EntryType]Money)}
	for _, e := range l.Entries(InRange(r)) {
		s.ByType[e.Type] = s.ByType[e.Type].Add(e.Amount)
		switch {
		case e.Type.IsIncome():
			s.Income = s.Income.Add(e.Amount)
		case e.Type.IsExpense():
			s.Expense = s.Expense.Add(e.Amount)
		}
	}
	return s
}
