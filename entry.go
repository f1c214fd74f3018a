package kakeibo

import (
	"fmt"
	"regexp"
	"strings"
	"time"
)

// EntryType is a typed string identifying the kind of money movement an
// Entry records. The set is closed: classification helpers switch over it
// exhaustively, so adding a type forces every call site to be revisited.
type EntryType string

const (
	TypeIncome           EntryType = "income"
	TypeExpense          EntryType = "expense"
	TypeBorrow           EntryType = "borrow"
	TypeLend             EntryType = "lend"
	TypeRepayment        EntryType = "repayment"
	TypeRepaymentReceive EntryType = "repayment_receive"
	TypeTransfer         EntryType = "transfer"
	TypeInitialBalance   EntryType = "initial_balance"
)

// ParseEntryType parses a string into an EntryType.
func ParseEntryType(s string) (EntryType, error) {
	t := EntryType(strings.ToLower(strings.TrimSpace(s)))
	switch t {
	case TypeIncome, TypeExpense, TypeBorrow, TypeLend,
		TypeRepayment, TypeRepaymentReceive, TypeTransfer, TypeInitialBalance:
		return t, nil
	default:
		return "", fmt.Errorf("unknown entry type: %q", s)
	}
}

// IsIncome reports whether the type credits the method: plain income, money
// borrowed, and repayments received on money lent.
func (t EntryType) IsIncome() bool {
	switch t {
	case TypeIncome, TypeBorrow, TypeRepaymentReceive:
		return true
	case TypeExpense, TypeLend, TypeRepayment, TypeTransfer, TypeInitialBalance:
		return false
	}
	return false
}

// IsExpense reports whether the type debits the method: plain expenses,
// money lent, and repayments made on money borrowed.
func (t EntryType) IsExpense() bool {
	switch t {
	case TypeExpense, TypeLend, TypeRepayment:
		return true
	case TypeIncome, TypeBorrow, TypeRepaymentReceive, TypeTransfer, TypeInitialBalance:
		return false
	}
	return false
}

// IsTransfer reports whether the type is the source leg of a transfer.
func (t EntryType) IsTransfer() bool { return t == TypeTransfer }

// IsInitialBalance reports whether the type records a starting balance.
func (t EntryType) IsInitialBalance() bool { return t == TypeInitialBalance }

// IsDebtRelated reports whether entries of this type must reference a Debt.
func (t EntryType) IsDebtRelated() bool {
	switch t {
	case TypeBorrow, TypeLend, TypeRepayment, TypeRepaymentReceive:
		return true
	case TypeIncome, TypeExpense, TypeTransfer, TypeInitialBalance:
		return false
	}
	return false
}

// InternalEvidenceScheme is the URI namespace for internally managed
// evidence resources. Evidence notes that look like URIs must live under it;
// external URLs are rejected.
const InternalEvidenceScheme = "kakeibo://"

var uriSchemeRE = regexp.MustCompile(`^[a-zA-Z][a-zA-Z0-9+.-]*:`)

// Entry is one atomic recorded money movement against a payment method.
// An Entry is an immutable value: every With* method returns a copy.
type Entry struct {
	ID             ID
	Type           EntryType
	Date           Date
	Amount         Money
	MethodID       ID
	CategoryID     ID     // optional; by convention set for income/expense
	Purpose        string // optional
	PrivatePurpose string // optional, excluded from shared reports
	Note           string // optional
	EvidenceNote   string // optional free text, or an internal resource URI
	DebtID         ID     // required for debt-related types
	CreatedAt      time.Time
}

// NewEntry creates an entry with a fresh id and creation timestamp.
// Optional fields are set with the With* methods; Check validates the
// result.
func NewEntry(entryType EntryType, day Date, amount Money, method ID) Entry {
	return Entry{
		ID:        NewID(),
		Type:      entryType,
		Date:      day,
		Amount:    amount,
		MethodID:  method,
		CreatedAt: time.Now(),
	}
}

func (e Entry) WithCategory(category ID) Entry { e.CategoryID = category; return e }
func (e Entry) WithPurpose(purpose string) Entry {
	e.Purpose = purpose
	return e
}
func (e Entry) WithPrivatePurpose(purpose string) Entry {
	e.PrivatePurpose = purpose
	return e
}
func (e Entry) WithNote(note string) Entry             { e.Note = note; return e }
func (e Entry) WithEvidenceNote(evidence string) Entry { e.EvidenceNote = evidence; return e }
func (e Entry) WithDebt(debt ID) Entry                 { e.DebtID = debt; return e }

// Check runs the structural validation pass on the entry. It is pure and
// idempotent: checking an already valid entry never fails. Business rules
// that need ledger state (archived methods, duplicates) live on the Ledger.
func (e Entry) Check() error {
	if _, err := ParseEntryType(string(e.Type)); err != nil {
		return Errv(CodeInvalidInput, "type", "%v", err)
	}
	if e.Date.IsZero() {
		return Errv(CodeInvalidInput, "date", "date is required")
	}
	if !e.Amount.IsPositive() {
		return Errv(CodeInvalidValueRange, "amount", "amount must be positive, got %s", e.Amount.Decimal())
	}
	if e.MethodID.IsZero() {
		return Errv(CodeInvalidInput, "methodId", "payment method is required")
	}
	if e.Type.IsDebtRelated() && e.DebtID.IsZero() {
		return Errv(CodeInvalidCombination, "debtId", "%s entries must reference a debt", e.Type)
	}
	if uriSchemeRE.MatchString(e.EvidenceNote) && !strings.HasPrefix(e.EvidenceNote, InternalEvidenceScheme) {
		return Errv(CodeInvalidInput, "evidenceNote",
			"evidence URI %q must be under %q, external URLs are not allowed", e.EvidenceNote, InternalEvidenceScheme)
	}
	return nil
}

// BalanceImpact returns the signed contribution of the entry to its method's
// balance: +amount for income-classified and initial-balance entries,
// -amount for expense-classified entries.
//
// A transfer entry also yields -amount: the entry's own method is always the
// source leg (NewTransferEntry guarantees methodID == fromMethodID). The
// destination credit is deliberately NOT represented here — an Entry cannot
// carry a double-sided movement. Callers that need both legs must look up
// the paired Transfer and credit its ToMethodID; folding the credit into the
// Entry as well would double the transfer's effect.
func (e Entry) BalanceImpact() Money {
	switch {
	case e.Type.IsIncome(), e.Type.IsInitialBalance():
		return e.Amount
	case e.Type.IsExpense(), e.Type.IsTransfer():
		return e.Amount.Neg()
	}
	return M(0, e.Amount.Currency())
}

// Equal reports whether two entries are the same value.
func (e Entry) Equal(o Entry) bool {
	return e.ID == o.ID &&
		e.Type == o.Type &&
		e.Date == o.Date &&
		e.Amount.Equal(o.Amount) &&
		e.MethodID == o.MethodID &&
		e.CategoryID == o.CategoryID &&
		e.Purpose == o.Purpose &&
		e.PrivatePurpose == o.PrivatePurpose &&
		e.Note == o.Note &&
		e.EvidenceNote == o.EvidenceNote &&
		e.DebtID == o.DebtID
}

// MarshalJSON implements the json.Marshaler interface for Entry, with a
// stable field order.
func (e Entry) MarshalJSON() ([]byte, error) {
	var w jsonObjectWriter
	w.Append("record", recordEntry)
	w.Append("id", e.ID)
	w.Append("type", e.Type)
	w.Append("date", e.Date)
	w.EmbedFrom(e.Amount)
	w.Append("methodId", e.MethodID)
	w.Optional("categoryId", e.CategoryID)
	w.Optional("purpose", e.Purpose)
	w.Optional("privatePurpose", e.PrivatePurpose)
	w.Optional("note", e.Note)
	w.Optional("evidenceNote", e.EvidenceNote)
	w.Optional("debtId", e.DebtID)
	w.Append("createdAt", e.CreatedAt.UTC().Format(time.RFC3339))
	return w.MarshalJSON()
}
