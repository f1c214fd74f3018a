package kakeibo

import (
	"strings"
	"unicode/utf8"
)

// MethodNameMaxLen is the maximum method name length, in characters.
const MethodNameMaxLen = 50

// Method is a named payment source or sink: a wallet, a bank account, a
// prepaid card. Like every record in the ledger it is an immutable value;
// all mutators validate the new state and return a new Method.
type Method struct {
	ID             ID
	Name           string
	InitialBalance Money // optional starting balance
	Archived       bool
}

// NewMethod creates a payment method with a fresh id.
func NewMethod(name string, initialBalance Money) (Method, error) {
	m := Method{ID: NewID(), Name: name, InitialBalance: initialBalance}
	if err := m.Check(); err != nil {
		return Method{}, err
	}
	return m, nil
}

// Check runs the structural validation pass on the method.
func (m Method) Check() error {
	if strings.TrimSpace(m.Name) == "" {
		return Errv(CodeInvalidInput, "name", "method name must not be blank")
	}
	if utf8.RuneCountInString(m.Name) > MethodNameMaxLen {
		return Errv(CodeInvalidValueRange, "name", "method name must be at most %d characters, got %d",
			MethodNameMaxLen, utf8.RuneCountInString(m.Name))
	}
	return nil
}

// Rename returns a method with the new name. Renaming to the current name
// is a semantic no-op and returns the original value.
func (m Method) Rename(name string) (Method, error) {
	if name == m.Name {
		return m, nil
	}
	c := m
	c.Name = name
	if err := c.Check(); err != nil {
		return m, err
	}
	return c, nil
}

// SetArchived returns a method with the archived flag set. Setting the
// current value is a semantic no-op.
func (m Method) SetArchived(archived bool) Method {
	if archived == m.Archived {
		return m
	}
	c := m
	c.Archived = archived
	return c
}

// SetInitialBalance returns a method with the given starting balance.
// Setting an equal value is a semantic no-op.
func (m Method) SetInitialBalance(balance Money) Method {
	if balance.Equal(m.InitialBalance) {
		return m
	}
	c := m
	c.InitialBalance = balance
	return c
}

// Equal reports whether two methods are the same value.
func (m Method) Equal(o Method) bool {
	return m.ID == o.ID &&
		m.Name == o.Name &&
		m.InitialBalance.Equal(o.InitialBalance) &&
		m.Archived == o.Archived
}

// MarshalJSON implements the json.Marshaler interface for Method, with a
// stable field order.
func (m Method) MarshalJSON() ([]byte, error) {
	var w jsonObjectWriter
	w.Append("record", recordMethod)
	w.Append("id", m.ID)
	w.Append("name", m.Name)
	if !m.InitialBalance.IsZero() || m.InitialBalance.Currency() != "" {
		w.Append("initialBalance", m.InitialBalance.Decimal())
		w.Optional("currency", m.InitialBalance.Currency())
	}
	w.Optional("archived", m.Archived)
	return w.MarshalJSON()
}
