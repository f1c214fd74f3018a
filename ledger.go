package kakeibo

import (
	"iter"
	"maps"
	"slices"
	"sort"
)

// Ledger is the in-memory aggregate of a whole household ledger: payment
// methods, entries, debts and transfers, cross-indexed and kept in
// chronological order.
//
// Append and the Add* methods run the full validation pipeline — the
// structural Check pass of each record followed by the business rules that
// need ledger state — so a Ledger never holds an invalid record. The ledger
// itself performs no locking: records are immutable values, and concurrent
// mutation is the caller's problem (the repository ports serialize it).
type Ledger struct {
	methods   map[ID]Method
	entries   []Entry // chronological, stable within a day
	debts     map[ID]Debt
	transfers map[ID]Transfer
}

// NewLedger creates an empty ledger.
func NewLedger() *Ledger {
	return &Ledger{
		methods:   make(map[ID]Method),
		debts:     make(map[ID]Debt),
		transfers: make(map[ID]Transfer),
	}
}

// --- methods ---

// AddMethod registers a payment method.
func (l *Ledger) AddMethod(m Method) error {
	if err := m.Check(); err != nil {
		return err
	}
	if _, ok := l.methods[m.ID]; ok {
		return Errv(CodeInvalidInput, "id", "method %q already exists", m.ID)
	}
	l.methods[m.ID] = m
	return nil
}

// Method returns the payment method with the given id.
func (l *Ledger) Method(id ID) (Method, error) {
	m, ok := l.methods[id]
	if !ok {
		return Method{}, Errn("method", id)
	}
	return m, nil
}

// UpdateMethod replaces a stored method with a new value of the same id.
func (l *Ledger) UpdateMethod(m Method) error {
	if _, ok := l.methods[m.ID]; !ok {
		return Errn("method", m.ID)
	}
	if err := m.Check(); err != nil {
		return err
	}
	l.methods[m.ID] = m
	return nil
}

// DeleteMethod removes a method. A method referenced by any entry or
// transfer cannot be deleted.
func (l *Ledger) DeleteMethod(id ID) error {
	if _, ok := l.methods[id]; !ok {
		return Errn("method", id)
	}
	for _, e := range l.entries {
		if e.MethodID == id {
			return Errb(CodeMethodInUse, "method %q is referenced by entry %q", id, e.ID).WithRelated(id, e.ID)
		}
	}
	for _, t := range l.transfers {
		if t.InvolvesMethod(id) {
			return Errb(CodeMethodInUse, "method %q is referenced by transfer %q", id, t.ID).WithRelated(id, t.ID)
		}
	}
	delete(l.methods, id)
	return nil
}

// Methods iterates over payment methods sorted by name. Archived methods
// are skipped unless includeArchived is set.
func (l *Ledger) Methods(includeArchived bool) iter.Seq[Method] {
	return func(yield func(Method) bool) {
		ms := slices.Collect(maps.Values(l.methods))
		sort.Slice(ms, func(i, j int) bool { return ms[i].Name < ms[j].Name })
		for _, m := range ms {
			if m.Archived && !includeArchived {
				continue
			}
			if !yield(m) {
				return
			}
		}
	}
}

// activeMethod resolves a method that new entries may be booked against.
func (l *Ledger) activeMethod(id ID) (Method, error) {
	m, err := l.Method(id)
	if err != nil {
		return Method{}, err
	}
	if m.Archived {
		return Method{}, Errb(CodeMethodArchived, "method %q is archived", m.Name).WithRelated(m.ID)
	}
	return m, nil
}

// --- entries ---

// Append validates an entry against the ledger and inserts it in
// chronological position. It runs the structural pass, the business-rule
// pass and the duplicate-detection advisory check, and rejects the entry on
// the first violation.
func (l *Ledger) Append(e Entry) error {
	if err := l.validateEntry(e); err != nil {
		return err
	}
	l.insert(e)
	return nil
}

// validateEntry is the business-rule validation pass for an entry. The
// entry must already be structurally valid; re-validating a valid entry is
// side-effect free and never fails.
func (l *Ledger) validateEntry(e Entry) error {
	if err := e.Check(); err != nil {
		return err
	}
	if _, err := l.activeMethod(e.MethodID); err != nil {
		return err
	}
	if e.Type.IsDebtRelated() {
		if err := l.validateDebtLink(e); err != nil {
			return err
		}
	}
	// Advisory duplicate check: same day, amount, method, purpose and type
	// is almost always an accidental double entry. Two genuinely identical
	// movements on one day are indistinguishable and get rejected too; that
	// false positive is accepted.
	if !e.Type.IsTransfer() {
		if dup, ok := l.FindDuplicate(e); ok {
			return Errb(CodeDuplicateEntry, "possible duplicate of entry %q (%s %s on %s)",
				dup.ID, dup.Type, dup.Amount.Decimal(), dup.Date).WithRelated(dup.ID)
		}
	}
	return nil
}

// validateDebtLink checks a debt-related entry against its debt: the debt
// must exist, repayments must flow in the right direction, and cumulative
// repayments must never exceed the debt amount.
func (l *Ledger) validateDebtLink(e Entry) error {
	d, ok := l.debts[e.DebtID]
	if !ok {
		return Errn("debt", e.DebtID)
	}
	switch e.Type {
	case TypeRepayment:
		if !d.IsBorrow() {
			return Errb(CodeInvalidCombination, "repayment entries settle borrow debts, debt %q is a %s", d.ID, d.Type).WithRelated(d.ID)
		}
	case TypeRepaymentReceive:
		if !d.IsLend() {
			return Errb(CodeInvalidCombination, "repayment_receive entries settle lend debts, debt %q is a %s", d.ID, d.Type).WithRelated(d.ID)
		}
	case TypeBorrow, TypeLend:
		// Origination entries are checked against the debt when the pair is
		// added; nothing more to do here.
		return nil
	}
	outstanding := l.Outstanding(d)
	if e.Amount.GreaterThan(outstanding) {
		return Errb(CodeExcessRepayment, "repaying %s exceeds the outstanding %s of debt %q",
			e.Amount.Decimal(), outstanding.Decimal(), d.ID).WithRelated(d.ID)
	}
	return nil
}

// insert places an entry in chronological position, keeping same-day
// entries in insertion order.
func (l *Ledger) insert(e Entry) {
	l.entries = append(l.entries, e)
	l.stableSort()
}

// stableSort restores chronological order; same-day entries keep their
// relative order.
func (l *Ledger) stableSort() {
	sort.SliceStable(l.entries, func(i, j int) bool {
		return l.entries[i].Date.Before(l.entries[j].Date)
	})
}

// Entry returns the entry with the given id.
func (l *Ledger) Entry(id ID) (Entry, error) {
	for _, e := range l.entries {
		if e.ID == id {
			return e, nil
		}
	}
	return Entry{}, Errn("entry", id)
}

// ReplaceEntry swaps a stored entry for a new value of the same id,
// re-running the validation pipeline. Edits never mutate in place.
func (l *Ledger) ReplaceEntry(e Entry) error {
	idx := -1
	for i := range l.entries {
		if l.entries[i].ID == e.ID {
			idx = i
			break
		}
	}
	if idx < 0 {
		return Errn("entry", e.ID)
	}
	// Validate against the ledger without the old value, so an unchanged
	// entry does not collide with itself in the duplicate check.
	old := l.entries[idx]
	l.entries = append(l.entries[:idx], l.entries[idx+1:]...)
	if err := l.validateEntry(e); err != nil {
		l.insert(old)
		return err
	}
	l.insert(e)
	return nil
}

// DeleteEntry removes an entry. The root entry of a debt or transfer cannot
// be deleted independently.
func (l *Ledger) DeleteEntry(id ID) error {
	for _, d := range l.debts {
		if d.RootEntryID == id {
			return Errb(CodeInvalidCombination, "entry %q is the root of debt %q", id, d.ID).WithRelated(id, d.ID)
		}
	}
	for _, t := range l.transfers {
		if t.RootEntryID == id {
			return Errb(CodeInvalidCombination, "entry %q is the root of transfer %q", id, t.ID).WithRelated(id, t.ID)
		}
	}
	for i := range l.entries {
		if l.entries[i].ID == id {
			l.entries = append(l.entries[:i], l.entries[i+1:]...)
			return nil
		}
	}
	return Errn("entry", id)
}

// Entries returns an iterator over entries in chronological order. With no
// filters every entry is yielded; with filters an entry must match all of
// them.
func (l *Ledger) Entries(filters ...func(Entry) bool) iter.Seq2[int, Entry] {
	return func(yield func(int, Entry) bool) {
	next:
		for i, e := range l.entries {
			for _, filter := range filters {
				if !filter(e) {
					continue next
				}
			}
			if !yield(i, e) {
				return
			}
		}
	}
}

// ByMethod returns a predicate that keeps entries booked on a method.
func ByMethod(method ID) func(Entry) bool {
	return func(e Entry) bool { return e.MethodID == method }
}

// ByType returns a predicate that keeps entries of any of the given types.
func ByType(types ...EntryType) func(Entry) bool {
	return func(e Entry) bool { return slices.Contains(types, e.Type) }
}

// InRange returns a predicate that keeps entries dated within r.
func InRange(r Range) func(Entry) bool {
	return func(e Entry) bool { return r.Contains(e.Date) }
}

// Public keeps entries without a private purpose.
func Public(e Entry) bool { return e.PrivatePurpose == "" }

// FindDuplicate looks for an existing entry with identical date, amount,
// method, purpose and type. This is a heuristic for accidental double
// entry, not a uniqueness constraint.
func (l *Ledger) FindDuplicate(e Entry) (Entry, bool) {
	for _, x := range l.entries {
		if x.ID != e.ID &&
			x.Date == e.Date &&
			x.Amount.Equal(e.Amount) &&
			x.MethodID == e.MethodID &&
			x.Purpose == e.Purpose &&
			x.Type == e.Type {
			return x, true
		}
	}
	return Entry{}, false
}

// OldestEntryDate returns the date of the earliest entry, or the zero Date
// for an empty ledger.
func (l *Ledger) OldestEntryDate() Date {
	if len(l.entries) == 0 {
		return Date{}
	}
	return l.entries[0].Date
}

// NewestEntryDate returns the date of the latest entry, or the zero Date
// for an empty ledger.
func (l *Ledger) NewestEntryDate() Date {
	if len(l.entries) == 0 {
		return Date{}
	}
	return l.entries[len(l.entries)-1].Date
}

// --- debts ---

// AddDebtEntry inserts a borrow/lend entry together with its debt, as one
// logical transaction: either both records enter the ledger or neither
// does. The pair must cross-reference consistently.
func (l *Ledger) AddDebtEntry(e Entry, d Debt) error {
	if err := d.Check(); err != nil {
		return err
	}
	if err := e.Check(); err != nil {
		return err
	}
	if d.RootEntryID != e.ID || e.DebtID != d.ID {
		return Errv(CodeInvalidCombination, "debtId", "entry %q and debt %q do not reference each other", e.ID, d.ID)
	}
	if (d.IsBorrow() && e.Type != TypeBorrow) || (d.IsLend() && e.Type != TypeLend) {
		return Errv(CodeInvalidCombination, "type", "%s debt cannot originate from a %s entry", d.Type, e.Type)
	}
	if !d.Amount.Equal(e.Amount) {
		return Errv(CodeInvalidCombination, "amount", "debt amount %s differs from entry amount %s", d.Amount.Decimal(), e.Amount.Decimal())
	}
	if _, ok := l.debts[d.ID]; ok {
		return Errv(CodeInvalidInput, "id", "debt %q already exists", d.ID)
	}
	// Register the debt first so the entry's debt link resolves, but roll it
	// back if the entry is rejected.
	l.debts[d.ID] = d
	if err := l.Append(e); err != nil {
		delete(l.debts, d.ID)
		return err
	}
	return nil
}

// Debt returns the debt with the given id.
func (l *Ledger) Debt(id ID) (Debt, error) {
	d, ok := l.debts[id]
	if !ok {
		return Debt{}, Errn("debt", id)
	}
	return d, nil
}

// DebtByRootEntry returns the debt originated by the given entry.
func (l *Ledger) DebtByRootEntry(rootEntry ID) (Debt, error) {
	for _, d := range l.debts {
		if d.RootEntryID == rootEntry {
			return d, nil
		}
	}
	return Debt{}, Errn("debt", rootEntry)
}

// UpdateDebt replaces a stored debt with a new value of the same id. The
// repaid transition must go through MarkDebtRepaid.
func (l *Ledger) UpdateDebt(d Debt) error {
	old, ok := l.debts[d.ID]
	if !ok {
		return Errn("debt", d.ID)
	}
	if err := d.Check(); err != nil {
		return err
	}
	if old.IsRepaid() && d.RepaidAt != old.RepaidAt {
		return Errb(CodeDebtAlreadyRepaid, "debt with %s already repaid on %s", old.Counterpart, old.RepaidAt).WithRelated(old.ID)
	}
	l.debts[d.ID] = d
	return nil
}

// MarkDebtRepaid closes a debt exactly once; a second call fails. This is
// the check-then-set the persistence layer must mirror atomically.
func (l *Ledger) MarkDebtRepaid(id ID, on Date) (Debt, error) {
	d, ok := l.debts[id]
	if !ok {
		return Debt{}, Errn("debt", id)
	}
	repaid, err := d.MarkAsRepaid(on)
	if err != nil {
		return d, err
	}
	l.debts[id] = repaid
	return repaid, nil
}

// DeleteDebt removes a debt and frees its entries for deletion.
func (l *Ledger) DeleteDebt(id ID) error {
	if _, ok := l.debts[id]; !ok {
		return Errn("debt", id)
	}
	for _, e := range l.entries {
		if e.DebtID == id && !e.Type.IsDebtRelated() {
			continue
		}
		if e.DebtID == id && e.Type != TypeBorrow && e.Type != TypeLend {
			return Errb(CodeInvalidCombination, "debt %q has repayment entries", id).WithRelated(id, e.ID)
		}
	}
	delete(l.debts, id)
	return nil
}

// Debts iterates over debts sorted by date then id. When outstandingOnly is
// set, repaid debts are skipped.
func (l *Ledger) Debts(outstandingOnly bool) iter.Seq[Debt] {
	return func(yield func(Debt) bool) {
		ds := slices.Collect(maps.Values(l.debts))
		sort.Slice(ds, func(i, j int) bool {
			if ds[i].Date != ds[j].Date {
				return ds[i].Date.Before(ds[j].Date)
			}
			return ds[i].ID < ds[j].ID
		})
		for _, d := range ds {
			if outstandingOnly && d.IsRepaid() {
				continue
			}
			if !yield(d) {
				return
			}
		}
	}
}

// Outstanding returns the debt amount minus all repayments recorded so far.
func (l *Ledger) Outstanding(d Debt) Money {
	outstanding := d.Amount
	for _, e := range l.entries {
		if e.DebtID != d.ID {
			continue
		}
		if e.Type == TypeRepayment || e.Type == TypeRepaymentReceive {
			outstanding = outstanding.Sub(e.Amount)
		}
	}
	return outstanding
}

// --- transfers ---

// AddTransferEntry inserts a transfer entry together with its transfer
// record, as one logical transaction. The pair must cross-reference
// consistently, and the entry must be booked on the source method — the
// coupling the balance engine relies on.
func (l *Ledger) AddTransferEntry(e Entry, t Transfer) error {
	if err := t.Check(); err != nil {
		return err
	}
	if err := e.Check(); err != nil {
		return err
	}
	if t.RootEntryID != e.ID {
		return Errv(CodeInvalidCombination, "rootEntryId", "transfer %q does not reference entry %q", t.ID, e.ID)
	}
	if e.Type != TypeTransfer {
		return Errv(CodeInvalidCombination, "type", "transfer root entry must have type %s, got %s", TypeTransfer, e.Type)
	}
	if e.MethodID != t.FromMethodID {
		return Errv(CodeInvalidCombination, "methodId", "transfer root entry must be booked on the source method")
	}
	if _, err := l.activeMethod(t.ToMethodID); err != nil {
		return err
	}
	if _, ok := l.transfers[t.ID]; ok {
		return Errv(CodeInvalidInput, "id", "transfer %q already exists", t.ID)
	}
	if err := l.Append(e); err != nil {
		return err
	}
	l.transfers[t.ID] = t
	return nil
}

// Transfer returns the transfer with the given id.
func (l *Ledger) Transfer(id ID) (Transfer, error) {
	t, ok := l.transfers[id]
	if !ok {
		return Transfer{}, Errn("transfer", id)
	}
	return t, nil
}

// TransferByRootEntry returns the transfer originated by the given entry.
func (l *Ledger) TransferByRootEntry(rootEntry ID) (Transfer, error) {
	for _, t := range l.transfers {
		if t.RootEntryID == rootEntry {
			return t, nil
		}
	}
	return Transfer{}, Errn("transfer", rootEntry)
}

// UpdateTransfer replaces a stored transfer with a new value of the same
// id. Endpoints and root entry are immutable; only date and note may
// change.
func (l *Ledger) UpdateTransfer(t Transfer) error {
	old, ok := l.transfers[t.ID]
	if !ok {
		return Errn("transfer", t.ID)
	}
	if err := t.Check(); err != nil {
		return err
	}
	if t.FromMethodID != old.FromMethodID || t.ToMethodID != old.ToMethodID || t.RootEntryID != old.RootEntryID {
		return Errv(CodeInvalidCombination, "fromMethodId", "transfer endpoints are immutable")
	}
	l.transfers[t.ID] = t
	return nil
}

// DeleteTransfer removes a transfer record, freeing its root entry.
func (l *Ledger) DeleteTransfer(id ID) error {
	if _, ok := l.transfers[id]; !ok {
		return Errn("transfer", id)
	}
	delete(l.transfers, id)
	return nil
}

// Transfers iterates over transfers sorted by date then id, optionally
// restricted to those involving a method.
func (l *Ledger) Transfers(method ID) iter.Seq[Transfer] {
	return func(yield func(Transfer) bool) {
		ts := slices.Collect(maps.Values(l.transfers))
		sort.Slice(ts, func(i, j int) bool {
			if ts[i].Date != ts[j].Date {
				return ts[i].Date.Before(ts[j].Date)
			}
			return ts[i].ID < ts[j].ID
		})
		for _, t := range ts {
			if !method.IsZero() && !t.InvolvesMethod(method) {
				continue
			}
			if !yield(t) {
				return
			}
		}
	}
}
