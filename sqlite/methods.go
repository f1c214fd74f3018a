package sqlite

import (
	"context"
	"database/sql"
	"errors"

	"github.com/shirokane/kakeibo"
)

type methodRepo struct {
	store *Store
}

const methodColumns = "id, name, initial_balance, currency, archived"

func scanMethod(row interface{ Scan(...any) error }) (kakeibo.Method, error) {
	var (
		m                kakeibo.Method
		balance, currency string
	)
	if err := row.Scan(&m.ID, &m.Name, &balance, &currency, &m.Archived); err != nil {
		return kakeibo.Method{}, err
	}
	initial, err := money(balance, currency)
	if err != nil {
		return kakeibo.Method{}, err
	}
	m.InitialBalance = initial
	return m, nil
}

func (r *methodRepo) FindByID(ctx context.Context, id kakeibo.ID) (kakeibo.Method, error) {
	row := r.store.db.QueryRowContext(ctx, "SELECT "+methodColumns+" FROM methods WHERE id = ?", id)
	m, err := scanMethod(row)
	if errors.Is(err, sql.ErrNoRows) {
		return kakeibo.Method{}, kakeibo.Errn("method", id)
	}
	if err != nil {
		return kakeibo.Method{}, translate(err, "cannot load method %q", id)
	}
	return m, nil
}

func (r *methodRepo) FindAll(ctx context.Context, includeArchived bool) ([]kakeibo.Method, error) {
	return r.FindByOptions(ctx, kakeibo.MethodFilter{IncludeArchived: includeArchived})
}

func (r *methodRepo) FindByOptions(ctx context.Context, filter kakeibo.MethodFilter) ([]kakeibo.Method, error) {
	query := "SELECT " + methodColumns + " FROM methods WHERE 1=1"
	var args []any
	if !filter.IncludeArchived {
		query += " AND archived = 0"
	}
	if filter.Name != "" {
		query += " AND instr(name, ?) > 0"
		args = append(args, filter.Name)
	}
	query += orderClause(filter.Page, map[string]string{"name": "name"}, "name")
	query += pageClause(filter.Page)

	rows, err := r.store.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, translate(err, "cannot list methods")
	}
	defer rows.Close()

	var ms []kakeibo.Method
	for rows.Next() {
		m, err := scanMethod(rows)
		if err != nil {
			return nil, translate(err, "cannot scan method")
		}
		ms = append(ms, m)
	}
	return ms, translate(rows.Err(), "cannot list methods")
}

func (r *methodRepo) Create(ctx context.Context, m kakeibo.Method) error {
	if err := m.Check(); err != nil {
		return err
	}
	_, err := r.store.db.ExecContext(ctx,
		"INSERT INTO methods ("+methodColumns+") VALUES (?, ?, ?, ?, ?)",
		m.ID, m.Name, m.InitialBalance.Decimal().String(), m.InitialBalance.Currency(), m.Archived)
	return translate(err, "cannot create method %q", m.Name)
}

func (r *methodRepo) Update(ctx context.Context, m kakeibo.Method) error {
	if err := m.Check(); err != nil {
		return err
	}
	res, err := r.store.db.ExecContext(ctx,
		"UPDATE methods SET name = ?, initial_balance = ?, currency = ?, archived = ? WHERE id = ?",
		m.Name, m.InitialBalance.Decimal().String(), m.InitialBalance.Currency(), m.Archived, m.ID)
	if err != nil {
		return translate(err, "cannot update method %q", m.ID)
	}
	return noneUpdated(res, "method", m.ID)
}

func (r *methodRepo) SetArchiveStatus(ctx context.Context, id kakeibo.ID, archived bool) (kakeibo.Method, error) {
	m, err := r.FindByID(ctx, id)
	if err != nil {
		return kakeibo.Method{}, err
	}
	m = m.SetArchived(archived)
	if err := r.Update(ctx, m); err != nil {
		return kakeibo.Method{}, err
	}
	return m, nil
}

func (r *methodRepo) Delete(ctx context.Context, id kakeibo.ID) error {
	return r.store.transact(func(tx *sql.Tx) error {
		var refs int
		err := tx.QueryRowContext(ctx, `
			SELECT (SELECT count(*) FROM entries WHERE method_id = ?)
			     + (SELECT count(*) FROM transfers WHERE from_method_id = ? OR to_method_id = ?)`,
			id, id, id).Scan(&refs)
		if err != nil {
			return translate(err, "cannot count references to method %q", id)
		}
		if refs > 0 {
			return kakeibo.Errb(kakeibo.CodeMethodInUse,
				"method %q is referenced by %d record(s)", id, refs).WithRelated(id)
		}
		res, err := tx.ExecContext(ctx, "DELETE FROM methods WHERE id = ?", id)
		if err != nil {
			return translate(err, "cannot delete method %q", id)
		}
		return noneUpdated(res, "method", id)
	})
}

// noneUpdated turns a zero-row write into a NotFound error.
func noneUpdated(res sql.Result, entity string, id kakeibo.ID) error {
	n, err := res.RowsAffected()
	if err != nil {
		return translate(err, "cannot check affected rows")
	}
	if n == 0 {
		return kakeibo.Errn(entity, id)
	}
	return nil
}
