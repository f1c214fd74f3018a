package kakeibo

// Transfer records a paired movement between two payment methods, linked
// 1:1 with its originating entry (type=transfer). The endpoints must differ
// and are immutable for the life of the record; only date and note may be
// replaced.
type Transfer struct {
	ID           ID
	RootEntryID  ID // the transfer entry this record originates from
	FromMethodID ID
	ToMethodID   ID
	Date         Date
	Note         string
}

// NewTransfer creates a transfer with a fresh id. The identical-accounts
// invariant is enforced here, at construction, not deferred to persistence.
func NewTransfer(rootEntry, from, to ID, day Date) (Transfer, error) {
	t := Transfer{
		ID:           NewID(),
		RootEntryID:  rootEntry,
		FromMethodID: from,
		ToMethodID:   to,
		Date:         day,
	}
	if err := t.Check(); err != nil {
		return Transfer{}, err
	}
	return t, nil
}

// Check runs the structural validation pass on the transfer. Pure and
// idempotent.
func (t Transfer) Check() error {
	if t.RootEntryID.IsZero() {
		return Errv(CodeInvalidInput, "rootEntryId", "transfer must reference its originating entry")
	}
	if t.FromMethodID.IsZero() {
		return Errv(CodeInvalidInput, "fromMethodId", "source method is required")
	}
	if t.ToMethodID.IsZero() {
		return Errv(CodeInvalidInput, "toMethodId", "destination method is required")
	}
	if t.FromMethodID == t.ToMethodID {
		return Errb(CodeIdenticalAccounts, "cannot transfer from a method to itself").WithRelated(t.FromMethodID)
	}
	if t.Date.IsZero() {
		return Errv(CodeInvalidInput, "date", "date is required")
	}
	return nil
}

// Reverse returns the symmetric counter-movement: endpoints swapped, same
// id, date and note.
func (t Transfer) Reverse() Transfer {
	c := t
	c.FromMethodID, c.ToMethodID = t.ToMethodID, t.FromMethodID
	return c
}

// WithNote returns a transfer with the new note.
func (t Transfer) WithNote(note string) Transfer {
	if note == t.Note {
		return t
	}
	c := t
	c.Note = note
	return c
}

// WithDate returns a transfer dated on the given day.
func (t Transfer) WithDate(day Date) Transfer {
	if day == t.Date {
		return t
	}
	c := t
	c.Date = day
	return c
}

// InvolvesMethod reports whether the method is either endpoint.
func (t Transfer) InvolvesMethod(method ID) bool {
	return t.FromMethodID == method || t.ToMethodID == method
}

// BalanceFunc resolves a method's balance on a date. The transfer record
// holds no balance state itself; lookups are delegated to the balance
// engine or a repository.
type BalanceFunc func(method ID, on Date) (Money, error)

// CheckSufficientFunds verifies that the source method can cover the given
// amount on the transfer date. Callers must invoke it before committing a
// transfer.
func (t Transfer) CheckSufficientFunds(amount Money, balance BalanceFunc) error {
	available, err := balance(t.FromMethodID, t.Date)
	if err != nil {
		return err
	}
	if available.LessThan(amount) {
		return Errb(CodeInsufficientFunds, "on %s, cannot transfer %s, balance is %s",
			t.Date, amount.String(), available.String()).WithRelated(t.FromMethodID)
	}
	return nil
}

// Equal reports whether two transfers are the same value.
func (t Transfer) Equal(o Transfer) bool {
	return t.ID == o.ID &&
		t.RootEntryID == o.RootEntryID &&
		t.FromMethodID == o.FromMethodID &&
		t.ToMethodID == o.ToMethodID &&
		t.Date == o.Date &&
		t.Note == o.Note
}

// MarshalJSON implements the json.Marshaler interface for Transfer, with a
// stable field order.
func (t Transfer) MarshalJSON() ([]byte, error) {
	var w jsonObjectWriter
	w.Append("record", recordTransfer)
	w.Append("id", t.ID)
	w.Append("rootEntryId", t.RootEntryID)
	w.Append("fromMethodId", t.FromMethodID)
	w.Append("toMethodId", t.ToMethodID)
	w.Append("date", t.Date)
	w.Optional("note", t.Note)
	return w.MarshalJSON()
}

// NewTransferEntry builds the entry/transfer pair for a movement between
// two methods. The entry is booked against the source method — this is the
// coupling BalanceImpact relies on: the root entry's methodID always equals
// fromMethodID, so the entry-side impact is always the debit leg.
func NewTransferEntry(day Date, amount Money, from, to ID) (Entry, Transfer, error) {
	entry := NewEntry(TypeTransfer, day, amount, from)
	transfer, err := NewTransfer(entry.ID, from, to, day)
	if err != nil {
		return Entry{}, Transfer{}, err
	}
	if err := entry.Check(); err != nil {
		return Entry{}, Transfer{}, err
	}
	return entry, transfer, nil
}

// NewDebtEntry builds the entry/debt pair for borrowed or lent money: a
// borrow debt originates from a borrow entry (credit), a lend debt from a
// lend entry (debit). The two records cross-reference each other and must
// be persisted in one transaction.
func NewDebtEntry(debtType DebtType, day Date, amount Money, method ID, counterpart string) (Entry, Debt, error) {
	entryType := TypeBorrow
	if debtType == DebtLend {
		entryType = TypeLend
	}
	entry := NewEntry(entryType, day, amount, method)
	debt := NewDebt(debtType, entry.ID, day, amount, counterpart)
	entry = entry.WithDebt(debt.ID)
	if err := debt.Check(); err != nil {
		return Entry{}, Debt{}, err
	}
	if err := entry.Check(); err != nil {
		return Entry{}, Debt{}, err
	}
	return entry, debt, nil
}
