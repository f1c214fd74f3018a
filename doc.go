// Package kakeibo provides the core of a personal money ledger. It records
// money movements (income, expenses, borrowing, lending, repayments and
// transfers between accounts) against named payment methods, and tracks the
// lifecycle of debts and inter-account transfers.
//
// The core functionalities include:
//   - Immutable value records: every Entry, Debt, Transfer and Method is a
//     value object; "updating" one always produces a new value, never a
//     mutation in place.
//   - Invariant enforcement: positive amounts, required debt references,
//     distinct transfer endpoints and single repayment are checked at
//     construction and on append, before anything is persisted.
//   - Balance computation: a stateless engine that folds entries over a date
//     range into a signed decimal total per payment method.
//   - Error taxonomy: every failure is classified as a validation error, a
//     business-rule violation, a not-found condition or a system error, each
//     carrying a stable machine-readable code.
//   - Data persistence: repository ports consumed by the SQLite adapter, an
//     in-memory store, and a JSONL codec for human-readable ledger files.
//
// This package serves as the foundational logic for the `kakei` command-line
// tool, ensuring that all operations are consistent and based on a single
// source of truth.
package kakeibo
