package kakeibo

import (
	"errors"
	"fmt"
	"strings"
)

// Kind classifies a ledger failure. Every error the core returns belongs to
// exactly one of the four kinds.
type Kind int

const (
	// KindValidation marks structural input violations: a missing required
	// field or a malformed value, reported per field.
	KindValidation Kind = iota + 1
	// KindBusinessRule marks structurally valid input that violates a domain
	// rule, such as repaying an already repaid debt.
	KindBusinessRule
	// KindNotFound marks a reference to a nonexistent record by id.
	KindNotFound
	// KindSystem marks a persistence or infrastructure failure. It always
	// wraps the original cause and never exposes storage internals.
	KindSystem
)

func (k Kind) String() string {
	switch k {
	case KindValidation:
		return "validation"
	case KindBusinessRule:
		return "business rule"
	case KindNotFound:
		return "not found"
	case KindSystem:
		return "system"
	default:
		return "unknown"
	}
}

// Code is a stable machine-readable identifier for a failure. Codes never
// change once released; callers key message rendering and tests on them.
type Code string

const (
	CodeMethodArchived     Code = "METHOD_ARCHIVED"
	CodeMethodInUse        Code = "METHOD_IN_USE"
	CodeDuplicateEntry     Code = "DUPLICATE_ENTRY"
	CodeInvalidDateRange   Code = "INVALID_DATE_RANGE"
	CodeDebtAlreadyRepaid  Code = "DEBT_ALREADY_REPAID"
	CodeExcessRepayment    Code = "EXCESS_REPAYMENT_AMOUNT"
	CodeIdenticalAccounts  Code = "IDENTICAL_ACCOUNTS"
	CodeInsufficientFunds  Code = "INSUFFICIENT_FUNDS"
	CodeInvalidValueRange  Code = "INVALID_VALUE_RANGE"
	CodeInvalidCombination Code = "INVALID_VALUE_COMBINATION"
	CodeInvalidInput       Code = "INVALID_INPUT"
	CodeNotFound           Code = "NOT_FOUND"
	CodeSystem             Code = "SYSTEM_ERROR"
)

// Error is the single error type produced by the ledger core. It carries
// enough structured detail (field name, offending value, related ids) for a
// caller to render a message, without the core dictating any wording beyond
// the diagnostic text.
type Error struct {
	Kind    Kind
	Code    Code
	Field   string // offending field, for validation errors
	Value   any    // offending value, when it helps diagnostics
	Related []ID   // ids of records involved in the violation
	msg     string
	cause   error
}

func (e *Error) Error() string {
	var b strings.Builder
	b.WriteString(string(e.Code))
	if e.Field != "" {
		fmt.Fprintf(&b, " [%s]", e.Field)
	}
	if e.msg != "" {
		b.WriteString(": ")
		b.WriteString(e.msg)
	}
	if e.cause != nil {
		b.WriteString(": ")
		b.WriteString(e.cause.Error())
	}
	return b.String()
}

// Unwrap returns the wrapped cause, if any.
func (e *Error) Unwrap() error { return e.cause }

// WithField returns a copy of the error annotated with the offending field.
func (e *Error) WithField(field string) *Error {
	c := *e
	c.Field = field
	return &c
}

// WithValue returns a copy of the error annotated with the offending value.
func (e *Error) WithValue(value any) *Error {
	c := *e
	c.Value = value
	return &c
}

// WithRelated returns a copy of the error annotated with related record ids.
func (e *Error) WithRelated(ids ...ID) *Error {
	c := *e
	c.Related = append(append([]ID(nil), c.Related...), ids...)
	return &c
}

// Errv reports a validation error (structural input violation) on a field.
func Errv(code Code, field string, format string, args ...any) *Error {
	return &Error{Kind: KindValidation, Code: code, Field: field, msg: fmt.Sprintf(format, args...)}
}

// Errb reports a business-rule violation.
func Errb(code Code, format string, args ...any) *Error {
	return &Error{Kind: KindBusinessRule, Code: code, msg: fmt.Sprintf(format, args...)}
}

// Errn reports a reference to a nonexistent record.
func Errn(entity string, id ID) *Error {
	return &Error{Kind: KindNotFound, Code: CodeNotFound, Related: []ID{id}, msg: fmt.Sprintf("%s %q not found", entity, id)}
}

// Errs wraps an infrastructure failure. The cause is preserved for logging
// but the resulting error exposes only the generic SYSTEM_ERROR code.
func Errs(cause error, format string, args ...any) *Error {
	return &Error{Kind: KindSystem, Code: CodeSystem, msg: fmt.Sprintf(format, args...), cause: cause}
}

// CodeOf extracts the ledger code from err, or "" if err carries none.
func CodeOf(err error) Code {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return ""
}

// KindOf extracts the ledger kind from err, or 0 if err carries none.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return 0
}

// IsCode reports whether err carries the given ledger code.
func IsCode(err error, code Code) bool { return CodeOf(err) == code }
