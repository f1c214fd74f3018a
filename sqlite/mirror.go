package sqlite

import (
	"context"
	"database/sql"

	"github.com/shirokane/kakeibo"
)

// Mirror replaces the database content with the given ledger, in one
// transaction. Records go in raw: the ledger already validated them, and
// historical entries must load even when their method has since been
// archived.
func (s *Store) Mirror(ctx context.Context, ledger *kakeibo.Ledger) error {
	return s.transact(func(tx *sql.Tx) error {
		for _, table := range []string{"transfers", "entries", "debts", "methods"} {
			if _, err := tx.ExecContext(ctx, "DELETE FROM "+table); err != nil {
				return translate(err, "cannot clear table %q", table)
			}
		}

		for m := range ledger.Methods(true) {
			_, err := tx.ExecContext(ctx,
				"INSERT INTO methods ("+methodColumns+") VALUES (?, ?, ?, ?, ?)",
				m.ID, m.Name, m.InitialBalance.Decimal().String(), m.InitialBalance.Currency(), m.Archived)
			if err != nil {
				return translate(err, "cannot mirror method %q", m.Name)
			}
		}
		for d := range ledger.Debts(false) {
			if err := insertDebt(ctx, tx, d); err != nil {
				return err
			}
		}
		for _, e := range ledger.Entries() {
			_, err := tx.ExecContext(ctx,
				"INSERT INTO entries ("+entryColumns+") VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)",
				entryArgs(e)...)
			if err != nil {
				return translate(err, "cannot mirror entry %q", e.ID)
			}
		}
		for t := range ledger.Transfers("") {
			_, err := tx.ExecContext(ctx,
				"INSERT INTO transfers ("+transferColumns+") VALUES (?, ?, ?, ?, ?, ?)",
				t.ID, t.RootEntryID, t.FromMethodID, t.ToMethodID, dateArg(t.Date), t.Note)
			if err != nil {
				return translate(err, "cannot mirror transfer %q", t.ID)
			}
		}
		return nil
	})
}
