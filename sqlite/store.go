// Package sqlite persists a kakeibo ledger in a SQLite database, one table
// per record kind, and implements the repository ports of the root package.
//
// Amounts are stored as exact decimal strings and all balance arithmetic
// folds them back through shopspring/decimal; SQLite's float coercion never
// touches a monetary value.
package sqlite

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/mattn/go-sqlite3"
	"github.com/shirokane/kakeibo"
	"github.com/shopspring/decimal"
)

const schema = `
CREATE TABLE IF NOT EXISTS methods (
	id              TEXT PRIMARY KEY,
	name            TEXT NOT NULL CHECK (length(name) > 0),
	initial_balance TEXT NOT NULL DEFAULT '0',
	currency        TEXT NOT NULL DEFAULT '',
	archived        INTEGER NOT NULL DEFAULT 0
);

CREATE TABLE IF NOT EXISTS debts (
	id            TEXT PRIMARY KEY,
	type          TEXT NOT NULL CHECK (type IN ('borrow', 'lend')),
	root_entry_id TEXT NOT NULL,
	date          TEXT NOT NULL,
	amount        TEXT NOT NULL,
	currency      TEXT NOT NULL DEFAULT '',
	counterpart   TEXT NOT NULL CHECK (length(counterpart) > 0),
	repaid_at     TEXT,
	memo          TEXT NOT NULL DEFAULT ''
);

CREATE TABLE IF NOT EXISTS entries (
	id              TEXT PRIMARY KEY,
	type            TEXT NOT NULL,
	date            TEXT NOT NULL,
	amount          TEXT NOT NULL,
	currency        TEXT NOT NULL DEFAULT '',
	method_id       TEXT NOT NULL REFERENCES methods(id),
	category_id     TEXT NOT NULL DEFAULT '',
	purpose         TEXT NOT NULL DEFAULT '',
	private_purpose TEXT NOT NULL DEFAULT '',
	note            TEXT NOT NULL DEFAULT '',
	evidence_note   TEXT NOT NULL DEFAULT '',
	debt_id         TEXT REFERENCES debts(id),
	created_at      TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_entries_method_date ON entries(method_id, date);
CREATE INDEX IF NOT EXISTS idx_entries_debt ON entries(debt_id);

CREATE TABLE IF NOT EXISTS transfers (
	id             TEXT PRIMARY KEY,
	root_entry_id  TEXT NOT NULL REFERENCES entries(id),
	from_method_id TEXT NOT NULL REFERENCES methods(id),
	to_method_id   TEXT NOT NULL REFERENCES methods(id),
	date           TEXT NOT NULL,
	note           TEXT NOT NULL DEFAULT '',
	CHECK (from_method_id <> to_method_id)
);
CREATE INDEX IF NOT EXISTS idx_transfers_methods ON transfers(from_method_id, to_method_id);
`

// Store is a SQLite-backed kakeibo.Repository.
type Store struct {
	db   *sql.DB
	path string
}

// Open opens (creating if needed) the ledger database at path. Foreign keys
// and WAL mode are always on. ":memory:" opens a throwaway database.
func Open(path string) (*Store, error) {
	if path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
			return nil, kakeibo.Errs(err, "cannot create database directory")
		}
	}

	connStr := fmt.Sprintf("file:%s?_foreign_keys=on&_journal_mode=WAL", path)
	db, err := sql.Open("sqlite3", connStr)
	if err != nil {
		return nil, kakeibo.Errs(err, "cannot open database %q", path)
	}
	if path == ":memory:" {
		// Every pooled connection would otherwise see its own empty database.
		db.SetMaxOpenConns(1)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, kakeibo.Errs(err, "cannot reach database %q", path)
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, kakeibo.Errs(err, "cannot initialize schema")
	}
	return &Store{db: db, path: path}, nil
}

// Close closes the database.
func (s *Store) Close() error {
	if s.db == nil {
		return nil
	}
	return s.db.Close()
}

// Path returns the database file path.
func (s *Store) Path() string { return s.path }

func (s *Store) Methods() kakeibo.MethodRepository     { return &methodRepo{s} }
func (s *Store) Entries() kakeibo.EntryRepository      { return &entryRepo{s} }
func (s *Store) Debts() kakeibo.DebtRepository         { return &debtRepo{s} }
func (s *Store) Transfers() kakeibo.TransferRepository { return &transferRepo{s} }

// transact runs fn inside a transaction, rolling back on error.
func (s *Store) transact(fn func(*sql.Tx) error) error {
	tx, err := s.db.Begin()
	if err != nil {
		return kakeibo.Errs(err, "cannot begin transaction")
	}
	if err := fn(tx); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			return kakeibo.Errs(rbErr, "rollback failed after: %v", err)
		}
		return err
	}
	if err := tx.Commit(); err != nil {
		return kakeibo.Errs(err, "cannot commit transaction")
	}
	return nil
}

// translate maps a storage failure into the domain error taxonomy. Domain
// errors pass through untouched; constraint violations become business
// errors; everything else is wrapped as a system error with its cause.
func translate(err error, format string, args ...any) error {
	if err == nil {
		return nil
	}
	var domainErr *kakeibo.Error
	if errors.As(err, &domainErr) {
		return err
	}
	var sqliteErr sqlite3.Error
	if errors.As(err, &sqliteErr) && sqliteErr.Code == sqlite3.ErrConstraint {
		switch sqliteErr.ExtendedCode {
		case sqlite3.ErrConstraintForeignKey:
			return kakeibo.Errb(kakeibo.CodeInvalidCombination, "reference to a missing record: %v", err)
		case sqlite3.ErrConstraintUnique, sqlite3.ErrConstraintPrimaryKey:
			return kakeibo.Errb(kakeibo.CodeDuplicateEntry, "record already exists: %v", err)
		default:
			return kakeibo.Errb(kakeibo.CodeInvalidInput, "constraint violated: %v", err)
		}
	}
	return kakeibo.Errs(err, format, args...)
}

// money rebuilds an exact Money value from its stored decimal string.
func money(amount, currency string) (kakeibo.Money, error) {
	value, err := decimal.NewFromString(amount)
	if err != nil {
		return kakeibo.Money{}, kakeibo.Errs(err, "corrupt amount %q", amount)
	}
	return kakeibo.M(value, currency), nil
}

// date parses a stored ISO date; empty means the zero Date.
func date(s string) (kakeibo.Date, error) {
	if s == "" {
		return kakeibo.Date{}, nil
	}
	return kakeibo.ParseDate(s)
}

// dateArg renders a Date for storage; the zero Date stores as empty.
func dateArg(d kakeibo.Date) string {
	if d.IsZero() {
		return ""
	}
	return d.String()
}

// pageClause renders LIMIT/OFFSET for a page. SQLite needs a LIMIT when an
// OFFSET is present.
func pageClause(p kakeibo.Page) string {
	clause := ""
	if p.Limit > 0 {
		clause += fmt.Sprintf(" LIMIT %d", p.Limit)
	} else if p.Offset > 0 {
		clause += " LIMIT -1"
	}
	if p.Offset > 0 {
		clause += fmt.Sprintf(" OFFSET %d", p.Offset)
	}
	return clause
}

// orderClause renders ORDER BY for a page over a whitelisted column set.
// An unknown sort field falls back to the default column.
func orderClause(p kakeibo.Page, allowed map[string]string, def string) string {
	col, ok := allowed[p.SortBy]
	if !ok {
		col = def
	}
	dir := "ASC"
	if p.Direction == kakeibo.SortDesc {
		dir = "DESC"
	}
	return fmt.Sprintf(" ORDER BY %s %s", col, dir)
}
