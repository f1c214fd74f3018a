package sqlite

import (
	"context"
	"database/sql"
	"errors"

	"github.com/shirokane/kakeibo"
)

type debtRepo struct {
	store *Store
}

const debtColumns = "id, type, root_entry_id, date, amount, currency, counterpart, repaid_at, memo"

func scanDebt(row interface{ Scan(...any) error }) (kakeibo.Debt, error) {
	var (
		d                     kakeibo.Debt
		day, amount, currency string
		repaidAt              sql.NullString
	)
	if err := row.Scan(&d.ID, &d.Type, &d.RootEntryID, &day, &amount, &currency,
		&d.Counterpart, &repaidAt, &d.Memo); err != nil {
		return kakeibo.Debt{}, err
	}
	when, err := date(day)
	if err != nil {
		return kakeibo.Debt{}, err
	}
	d.Date = when
	m, err := money(amount, currency)
	if err != nil {
		return kakeibo.Debt{}, err
	}
	d.Amount = m
	if repaidAt.Valid && repaidAt.String != "" {
		repaid, err := date(repaidAt.String)
		if err != nil {
			return kakeibo.Debt{}, err
		}
		d.RepaidAt = repaid
	}
	return d, nil
}

func insertDebt(ctx context.Context, tx *sql.Tx, d kakeibo.Debt) error {
	var repaidAt any
	if d.IsRepaid() {
		repaidAt = dateArg(d.RepaidAt)
	}
	_, err := tx.ExecContext(ctx,
		"INSERT INTO debts ("+debtColumns+") VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)",
		d.ID, d.Type, d.RootEntryID, dateArg(d.Date), d.Amount.Decimal().String(),
		d.Amount.Currency(), d.Counterpart, repaidAt, d.Memo)
	return translate(err, "cannot create debt")
}

func (r *debtRepo) FindByID(ctx context.Context, id kakeibo.ID) (kakeibo.Debt, error) {
	row := r.store.db.QueryRowContext(ctx, "SELECT "+debtColumns+" FROM debts WHERE id = ?", id)
	d, err := scanDebt(row)
	if errors.Is(err, sql.ErrNoRows) {
		return kakeibo.Debt{}, kakeibo.Errn("debt", id)
	}
	if err != nil {
		return kakeibo.Debt{}, translate(err, "cannot load debt %q", id)
	}
	return d, nil
}

func (r *debtRepo) FindByRootEntryID(ctx context.Context, rootEntry kakeibo.ID) (kakeibo.Debt, error) {
	row := r.store.db.QueryRowContext(ctx, "SELECT "+debtColumns+" FROM debts WHERE root_entry_id = ?", rootEntry)
	d, err := scanDebt(row)
	if errors.Is(err, sql.ErrNoRows) {
		return kakeibo.Debt{}, kakeibo.Errn("debt", rootEntry)
	}
	if err != nil {
		return kakeibo.Debt{}, translate(err, "cannot load debt of entry %q", rootEntry)
	}
	return d, nil
}

func (r *debtRepo) FindByOptions(ctx context.Context, filter kakeibo.DebtFilter) ([]kakeibo.Debt, error) {
	query := "SELECT " + debtColumns + " FROM debts WHERE 1=1"
	var args []any
	if filter.Type != "" {
		query += " AND type = ?"
		args = append(args, filter.Type)
	}
	if filter.Counterpart != "" {
		query += " AND instr(counterpart, ?) > 0"
		args = append(args, filter.Counterpart)
	}
	if filter.OutstandingOnly {
		query += " AND (repaid_at IS NULL OR repaid_at = '')"
	}
	if !filter.From.IsZero() {
		query += " AND date >= ?"
		args = append(args, dateArg(filter.From))
	}
	if !filter.To.IsZero() {
		query += " AND date <= ?"
		args = append(args, dateArg(filter.To))
	}
	query += orderClause(filter.Page, map[string]string{
		"date":        "date",
		"amount":      "CAST(amount AS REAL)",
		"counterpart": "counterpart",
	}, "date")
	query += pageClause(filter.Page)

	rows, err := r.store.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, translate(err, "cannot list debts")
	}
	defer rows.Close()

	var ds []kakeibo.Debt
	for rows.Next() {
		d, err := scanDebt(rows)
		if err != nil {
			return nil, translate(err, "cannot scan debt")
		}
		ds = append(ds, d)
	}
	return ds, translate(rows.Err(), "cannot list debts")
}

func (r *debtRepo) FindOutstandingDebts(ctx context.Context, debtType kakeibo.DebtType) ([]kakeibo.Debt, error) {
	return r.FindByOptions(ctx, kakeibo.DebtFilter{Type: debtType, OutstandingOnly: true})
}

func (r *debtRepo) Create(ctx context.Context, d kakeibo.Debt) error {
	if err := d.Check(); err != nil {
		return err
	}
	return r.store.transact(func(tx *sql.Tx) error {
		return insertDebt(ctx, tx, d)
	})
}

func (r *debtRepo) Update(ctx context.Context, d kakeibo.Debt) error {
	if err := d.Check(); err != nil {
		return err
	}
	// Counterpart and memo corrections only; the repaid transition goes
	// through MarkAsRepaid so its once-only guard cannot be bypassed.
	res, err := r.store.db.ExecContext(ctx,
		"UPDATE debts SET counterpart = ?, memo = ? WHERE id = ?",
		d.Counterpart, d.Memo, d.ID)
	if err != nil {
		return translate(err, "cannot update debt %q", d.ID)
	}
	return noneUpdated(res, "debt", d.ID)
}

// MarkAsRepaid closes the debt with a guarded UPDATE: the WHERE clause only
// matches an open debt, so two racing calls cannot both succeed.
func (r *debtRepo) MarkAsRepaid(ctx context.Context, id kakeibo.ID, on kakeibo.Date) (kakeibo.Debt, error) {
	d, err := r.FindByID(ctx, id)
	if err != nil {
		return kakeibo.Debt{}, err
	}
	repaid, err := d.MarkAsRepaid(on)
	if err != nil {
		return d, err
	}

	res, err := r.store.db.ExecContext(ctx,
		"UPDATE debts SET repaid_at = ? WHERE id = ? AND (repaid_at IS NULL OR repaid_at = '')",
		dateArg(repaid.RepaidAt), id)
	if err != nil {
		return kakeibo.Debt{}, translate(err, "cannot mark debt %q repaid", id)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return kakeibo.Debt{}, translate(err, "cannot check affected rows")
	}
	if n == 0 {
		return kakeibo.Debt{}, kakeibo.Errb(kakeibo.CodeDebtAlreadyRepaid,
			"debt %q was repaid concurrently", id).WithRelated(id)
	}
	return repaid, nil
}

func (r *debtRepo) Delete(ctx context.Context, id kakeibo.ID) error {
	return r.store.transact(func(tx *sql.Tx) error {
		var repayments int
		err := tx.QueryRowContext(ctx,
			"SELECT count(*) FROM entries WHERE debt_id = ? AND type IN (?, ?)",
			id, kakeibo.TypeRepayment, kakeibo.TypeRepaymentReceive).Scan(&repayments)
		if err != nil {
			return translate(err, "cannot count repayments of debt %q", id)
		}
		if repayments > 0 {
			return kakeibo.Errb(kakeibo.CodeInvalidCombination,
				"debt %q has repayment entries", id).WithRelated(id)
		}
		// Unlink the origination entry before removing the debt row.
		if _, err := tx.ExecContext(ctx, "UPDATE entries SET debt_id = NULL WHERE debt_id = ?", id); err != nil {
			return translate(err, "cannot unlink entries of debt %q", id)
		}
		res, err := tx.ExecContext(ctx, "DELETE FROM debts WHERE id = ?", id)
		if err != nil {
			return translate(err, "cannot delete debt %q", id)
		}
		return noneUpdated(res, "debt", id)
	})
}
