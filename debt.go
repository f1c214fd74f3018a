package kakeibo

import (
	"fmt"
	"strings"
)

// DebtType distinguishes money taken from a counterpart (borrow) from money
// given to one (lend).
type DebtType string

const (
	DebtBorrow DebtType = "borrow"
	DebtLend   DebtType = "lend"
)

// ParseDebtType parses a string into a DebtType.
func ParseDebtType(s string) (DebtType, error) {
	t := DebtType(strings.ToLower(strings.TrimSpace(s)))
	switch t {
	case DebtBorrow, DebtLend:
		return t, nil
	default:
		return "", fmt.Errorf("unknown debt type: %q", s)
	}
}

// Debt tracks the lifecycle of borrowed or lent money, paired 1:1 with the
// entry that originated it. A debt has two states: open (RepaidAt zero) and
// repaid. Repaid is terminal — marking a debt repaid twice is an error.
type Debt struct {
	ID          ID
	Type        DebtType
	RootEntryID ID // the borrow/lend entry this debt originates from
	Date        Date
	Amount      Money
	Counterpart string
	RepaidAt    Date // zero while the debt is open
	Memo        string
}

// NewDebt creates an open debt with a fresh id.
func NewDebt(debtType DebtType, rootEntry ID, day Date, amount Money, counterpart string) Debt {
	return Debt{
		ID:          NewID(),
		Type:        debtType,
		RootEntryID: rootEntry,
		Date:        day,
		Amount:      amount,
		Counterpart: counterpart,
	}
}

// Check runs the structural validation pass on the debt. Pure and
// idempotent.
func (d Debt) Check() error {
	if _, err := ParseDebtType(string(d.Type)); err != nil {
		return Errv(CodeInvalidInput, "type", "%v", err)
	}
	if d.RootEntryID.IsZero() {
		return Errv(CodeInvalidInput, "rootEntryId", "debt must reference its originating entry")
	}
	if d.Date.IsZero() {
		return Errv(CodeInvalidInput, "date", "date is required")
	}
	if !d.Amount.IsPositive() {
		return Errv(CodeInvalidValueRange, "amount", "amount must be positive, got %s", d.Amount.Decimal())
	}
	if strings.TrimSpace(d.Counterpart) == "" {
		return Errv(CodeInvalidInput, "counterpart", "counterpart must not be blank")
	}
	if !d.RepaidAt.IsZero() && d.RepaidAt.Before(d.Date) {
		return Errv(CodeInvalidDateRange, "repaidAt", "repaid date %s is before debt date %s", d.RepaidAt, d.Date)
	}
	return nil
}

// MarkAsRepaid closes the debt on the given date (today when zero). The
// transition happens exactly once: a repaid debt cannot be repaid again, and
// the repaid date cannot precede the debt date.
func (d Debt) MarkAsRepaid(on Date) (Debt, error) {
	if d.IsRepaid() {
		return d, Errb(CodeDebtAlreadyRepaid, "debt with %s already repaid on %s", d.Counterpart, d.RepaidAt).WithRelated(d.ID)
	}
	if on.IsZero() {
		on = Today()
	}
	if on.Before(d.Date) {
		return d, Errb(CodeInvalidDateRange, "repaid date %s is before debt date %s", on, d.Date).WithRelated(d.ID)
	}
	c := d
	c.RepaidAt = on
	return c, nil
}

// UpdateMemo returns a debt with the new memo. An equal memo is a semantic
// no-op and returns the original value.
func (d Debt) UpdateMemo(memo string) Debt {
	if memo == d.Memo {
		return d
	}
	c := d
	c.Memo = memo
	return c
}

// UpdateCounterpart returns a debt with the corrected counterpart name.
func (d Debt) UpdateCounterpart(counterpart string) (Debt, error) {
	if counterpart == d.Counterpart {
		return d, nil
	}
	c := d
	c.Counterpart = counterpart
	if err := c.Check(); err != nil {
		return d, err
	}
	return c, nil
}

func (d Debt) IsBorrow() bool { return d.Type == DebtBorrow }
func (d Debt) IsLend() bool   { return d.Type == DebtLend }
func (d Debt) IsRepaid() bool { return !d.RepaidAt.IsZero() }

// Equal reports whether two debts are the same value.
func (d Debt) Equal(o Debt) bool {
	return d.ID == o.ID &&
		d.Type == o.Type &&
		d.RootEntryID == o.RootEntryID &&
		d.Date == o.Date &&
		d.Amount.Equal(o.Amount) &&
		d.Counterpart == o.Counterpart &&
		d.RepaidAt == o.RepaidAt &&
		d.Memo == o.Memo
}

// MarshalJSON implements the json.Marshaler interface for Debt, with a
// stable field order.
func (d Debt) MarshalJSON() ([]byte, error) {
	var w jsonObjectWriter
	w.Append("record", recordDebt)
	w.Append("id", d.ID)
	w.Append("type", d.Type)
	w.Append("rootEntryId", d.RootEntryID)
	w.Append("date", d.Date)
	w.EmbedFrom(d.Amount)
	w.Append("counterpart", d.Counterpart)
	if d.IsRepaid() {
		w.Append("repaidAt", d.RepaidAt)
	}
	w.Optional("memo", d.Memo)
	return w.MarshalJSON()
}
