package sqlite

import (
	"context"
	"database/sql"
	"errors"

	"github.com/shirokane/kakeibo"
)

type transferRepo struct {
	store *Store
}

const transferColumns = "id, root_entry_id, from_method_id, to_method_id, date, note"

func scanTransfer(row interface{ Scan(...any) error }) (kakeibo.Transfer, error) {
	var (
		t   kakeibo.Transfer
		day string
	)
	if err := row.Scan(&t.ID, &t.RootEntryID, &t.FromMethodID, &t.ToMethodID, &day, &t.Note); err != nil {
		return kakeibo.Transfer{}, err
	}
	when, err := date(day)
	if err != nil {
		return kakeibo.Transfer{}, err
	}
	t.Date = when
	return t, nil
}

func (r *transferRepo) FindByID(ctx context.Context, id kakeibo.ID) (kakeibo.Transfer, error) {
	row := r.store.db.QueryRowContext(ctx, "SELECT "+transferColumns+" FROM transfers WHERE id = ?", id)
	t, err := scanTransfer(row)
	if errors.Is(err, sql.ErrNoRows) {
		return kakeibo.Transfer{}, kakeibo.Errn("transfer", id)
	}
	if err != nil {
		return kakeibo.Transfer{}, translate(err, "cannot load transfer %q", id)
	}
	return t, nil
}

func (r *transferRepo) FindByRootEntryID(ctx context.Context, rootEntry kakeibo.ID) (kakeibo.Transfer, error) {
	row := r.store.db.QueryRowContext(ctx, "SELECT "+transferColumns+" FROM transfers WHERE root_entry_id = ?", rootEntry)
	t, err := scanTransfer(row)
	if errors.Is(err, sql.ErrNoRows) {
		return kakeibo.Transfer{}, kakeibo.Errn("transfer", rootEntry)
	}
	if err != nil {
		return kakeibo.Transfer{}, translate(err, "cannot load transfer of entry %q", rootEntry)
	}
	return t, nil
}

func (r *transferRepo) FindByOptions(ctx context.Context, filter kakeibo.TransferFilter) ([]kakeibo.Transfer, error) {
	query := "SELECT " + transferColumns + " FROM transfers WHERE 1=1"
	var args []any
	if !filter.MethodID.IsZero() {
		query += " AND (from_method_id = ? OR to_method_id = ?)"
		args = append(args, filter.MethodID, filter.MethodID)
	}
	if !filter.From.IsZero() {
		query += " AND date >= ?"
		args = append(args, dateArg(filter.From))
	}
	if !filter.To.IsZero() {
		query += " AND date <= ?"
		args = append(args, dateArg(filter.To))
	}
	query += orderClause(filter.Page, map[string]string{"date": "date"}, "date")
	query += pageClause(filter.Page)

	rows, err := r.store.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, translate(err, "cannot list transfers")
	}
	defer rows.Close()

	var ts []kakeibo.Transfer
	for rows.Next() {
		t, err := scanTransfer(rows)
		if err != nil {
			return nil, translate(err, "cannot scan transfer")
		}
		ts = append(ts, t)
	}
	return ts, translate(rows.Err(), "cannot list transfers")
}

func (r *transferRepo) FindByMethodID(ctx context.Context, method kakeibo.ID) ([]kakeibo.Transfer, error) {
	return r.FindByOptions(ctx, kakeibo.TransferFilter{MethodID: method})
}

func (r *transferRepo) Create(ctx context.Context, t kakeibo.Transfer) error {
	// Check repeats the identical-accounts rule here so a caller bypassing
	// NewTransfer still gets IDENTICAL_ACCOUNTS and not a raw CHECK failure.
	if err := t.Check(); err != nil {
		return err
	}
	_, err := r.store.db.ExecContext(ctx,
		"INSERT INTO transfers ("+transferColumns+") VALUES (?, ?, ?, ?, ?, ?)",
		t.ID, t.RootEntryID, t.FromMethodID, t.ToMethodID, dateArg(t.Date), t.Note)
	return translate(err, "cannot create transfer")
}

func (r *transferRepo) Update(ctx context.Context, t kakeibo.Transfer) error {
	if err := t.Check(); err != nil {
		return err
	}
	// Only date and note are mutable; endpoints and root entry stay as
	// created.
	res, err := r.store.db.ExecContext(ctx,
		"UPDATE transfers SET date = ?, note = ? WHERE id = ?",
		dateArg(t.Date), t.Note, t.ID)
	if err != nil {
		return translate(err, "cannot update transfer %q", t.ID)
	}
	return noneUpdated(res, "transfer", t.ID)
}

func (r *transferRepo) Delete(ctx context.Context, id kakeibo.ID) error {
	res, err := r.store.db.ExecContext(ctx, "DELETE FROM transfers WHERE id = ?", id)
	if err != nil {
		return translate(err, "cannot delete transfer %q", id)
	}
	return noneUpdated(res, "transfer", id)
}
