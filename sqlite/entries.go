package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"github.com/shirokane/kakeibo"
	"github.com/shopspring/decimal"
)

type entryRepo struct {
	store *Store
}

const entryColumns = "id, type, date, amount, currency, method_id, category_id, " +
	"purpose, private_purpose, note, evidence_note, debt_id, created_at"

func scanEntry(row interface{ Scan(...any) error }) (kakeibo.Entry, error) {
	var (
		e                       kakeibo.Entry
		day, amount, currency   string
		debtID                  sql.NullString
		createdAt               string
	)
	if err := row.Scan(&e.ID, &e.Type, &day, &amount, &currency, &e.MethodID, &e.CategoryID,
		&e.Purpose, &e.PrivatePurpose, &e.Note, &e.EvidenceNote, &debtID, &createdAt); err != nil {
		return kakeibo.Entry{}, err
	}
	d, err := date(day)
	if err != nil {
		return kakeibo.Entry{}, err
	}
	e.Date = d
	m, err := money(amount, currency)
	if err != nil {
		return kakeibo.Entry{}, err
	}
	e.Amount = m
	if debtID.Valid {
		e.DebtID = kakeibo.ID(debtID.String)
	}
	if createdAt != "" {
		ts, err := time.Parse(time.RFC3339, createdAt)
		if err != nil {
			return kakeibo.Entry{}, kakeibo.Errs(err, "corrupt timestamp %q", createdAt)
		}
		e.CreatedAt = ts
	}
	return e, nil
}

func entryArgs(e kakeibo.Entry) []any {
	var debtID any
	if !e.DebtID.IsZero() {
		debtID = string(e.DebtID)
	}
	return []any{
		e.ID, e.Type, dateArg(e.Date), e.Amount.Decimal().String(), e.Amount.Currency(),
		e.MethodID, e.CategoryID, e.Purpose, e.PrivatePurpose, e.Note, e.EvidenceNote,
		debtID, e.CreatedAt.UTC().Format(time.RFC3339),
	}
}

func (r *entryRepo) FindByID(ctx context.Context, id kakeibo.ID) (kakeibo.Entry, error) {
	row := r.store.db.QueryRowContext(ctx, "SELECT "+entryColumns+" FROM entries WHERE id = ?", id)
	e, err := scanEntry(row)
	if errors.Is(err, sql.ErrNoRows) {
		return kakeibo.Entry{}, kakeibo.Errn("entry", id)
	}
	if err != nil {
		return kakeibo.Entry{}, translate(err, "cannot load entry %q", id)
	}
	return e, nil
}

func (r *entryRepo) FindByOptions(ctx context.Context, filter kakeibo.EntryFilter) ([]kakeibo.Entry, error) {
	query := "SELECT " + entryColumns + " FROM entries WHERE 1=1"
	var args []any
	if !filter.From.IsZero() {
		query += " AND date >= ?"
		args = append(args, dateArg(filter.From))
	}
	if !filter.To.IsZero() {
		query += " AND date <= ?"
		args = append(args, dateArg(filter.To))
	}
	if len(filter.Types) > 0 {
		query += " AND type IN (?" + strings.Repeat(", ?", len(filter.Types)-1) + ")"
		for _, t := range filter.Types {
			args = append(args, t)
		}
	}
	if len(filter.MethodIDs) > 0 {
		query += " AND method_id IN (?" + strings.Repeat(", ?", len(filter.MethodIDs)-1) + ")"
		for _, id := range filter.MethodIDs {
			args = append(args, id)
		}
	}
	if len(filter.CategoryIDs) > 0 {
		query += " AND category_id IN (?" + strings.Repeat(", ?", len(filter.CategoryIDs)-1) + ")"
		for _, id := range filter.CategoryIDs {
			args = append(args, id)
		}
	}
	if !filter.DebtID.IsZero() {
		query += " AND debt_id = ?"
		args = append(args, filter.DebtID)
	}
	if !filter.IncludePrivate {
		query += " AND private_purpose = ''"
	}
	query += orderClause(filter.Page, map[string]string{
		"date":      "date",
		"amount":    "CAST(amount AS REAL)",
		"createdAt": "created_at",
	}, "date")
	query += pageClause(filter.Page)

	rows, err := r.store.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, translate(err, "cannot list entries")
	}
	defer rows.Close()

	var es []kakeibo.Entry
	for rows.Next() {
		e, err := scanEntry(rows)
		if err != nil {
			return nil, translate(err, "cannot scan entry")
		}
		es = append(es, e)
	}
	return es, translate(rows.Err(), "cannot list entries")
}

func (r *entryRepo) FindByMethodID(ctx context.Context, method kakeibo.ID) ([]kakeibo.Entry, error) {
	return r.FindByOptions(ctx, kakeibo.EntryFilter{MethodIDs: []kakeibo.ID{method}, IncludePrivate: true})
}

func (r *entryRepo) FindByCategoryID(ctx context.Context, category kakeibo.ID) ([]kakeibo.Entry, error) {
	return r.FindByOptions(ctx, kakeibo.EntryFilter{CategoryIDs: []kakeibo.ID{category}, IncludePrivate: true})
}

func (r *entryRepo) FindByDebtID(ctx context.Context, debt kakeibo.ID) ([]kakeibo.Entry, error) {
	return r.FindByOptions(ctx, kakeibo.EntryFilter{DebtID: debt, IncludePrivate: true})
}

func (r *entryRepo) Create(ctx context.Context, e kakeibo.Entry) error {
	return r.store.transact(func(tx *sql.Tx) error {
		return createEntry(ctx, tx, e)
	})
}

// createEntry runs the full business-rule pipeline inside a transaction:
// active method, valid debt link, outstanding-amount guard, duplicate
// advisory check, then the insert.
func createEntry(ctx context.Context, tx *sql.Tx, e kakeibo.Entry) error {
	if err := e.Check(); err != nil {
		return err
	}

	var archived bool
	err := tx.QueryRowContext(ctx, "SELECT archived FROM methods WHERE id = ?", e.MethodID).Scan(&archived)
	if errors.Is(err, sql.ErrNoRows) {
		return kakeibo.Errn("method", e.MethodID)
	}
	if err != nil {
		return translate(err, "cannot load method %q", e.MethodID)
	}
	if archived {
		return kakeibo.Errb(kakeibo.CodeMethodArchived, "method %q is archived", e.MethodID).WithRelated(e.MethodID)
	}

	if e.Type.IsDebtRelated() {
		if err := checkDebtLink(ctx, tx, e); err != nil {
			return err
		}
	}

	if !e.Type.IsTransfer() {
		var dupID kakeibo.ID
		err := tx.QueryRowContext(ctx, `
			SELECT id FROM entries
			WHERE date = ? AND amount = ? AND method_id = ? AND purpose = ? AND type = ? AND id <> ?`,
			dateArg(e.Date), e.Amount.Decimal().String(), e.MethodID, e.Purpose, e.Type, e.ID).Scan(&dupID)
		if err == nil {
			return kakeibo.Errb(kakeibo.CodeDuplicateEntry,
				"possible duplicate of entry %q", dupID).WithRelated(dupID)
		}
		if !errors.Is(err, sql.ErrNoRows) {
			return translate(err, "cannot check for duplicates")
		}
	}

	_, err = tx.ExecContext(ctx,
		"INSERT INTO entries ("+entryColumns+") VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)",
		entryArgs(e)...)
	return translate(err, "cannot create entry")
}

// checkDebtLink validates the debt reference of a debt-related entry and,
// for repayments, the outstanding amount.
func checkDebtLink(ctx context.Context, tx *sql.Tx, e kakeibo.Entry) error {
	var (
		debtType       kakeibo.DebtType
		amount, currency string
	)
	err := tx.QueryRowContext(ctx, "SELECT type, amount, currency FROM debts WHERE id = ?", e.DebtID).
		Scan(&debtType, &amount, &currency)
	if errors.Is(err, sql.ErrNoRows) {
		return kakeibo.Errn("debt", e.DebtID)
	}
	if err != nil {
		return translate(err, "cannot load debt %q", e.DebtID)
	}

	switch e.Type {
	case kakeibo.TypeRepayment:
		if debtType != kakeibo.DebtBorrow {
			return kakeibo.Errb(kakeibo.CodeInvalidCombination,
				"repayment entries settle borrow debts, debt %q is a %s", e.DebtID, debtType).WithRelated(e.DebtID)
		}
	case kakeibo.TypeRepaymentReceive:
		if debtType != kakeibo.DebtLend {
			return kakeibo.Errb(kakeibo.CodeInvalidCombination,
				"repayment_receive entries settle lend debts, debt %q is a %s", e.DebtID, debtType).WithRelated(e.DebtID)
		}
	case kakeibo.TypeBorrow, kakeibo.TypeLend:
		return nil
	}

	debtAmount, err := money(amount, currency)
	if err != nil {
		return err
	}
	rows, err := tx.QueryContext(ctx,
		"SELECT amount FROM entries WHERE debt_id = ? AND type IN (?, ?)",
		e.DebtID, kakeibo.TypeRepayment, kakeibo.TypeRepaymentReceive)
	if err != nil {
		return translate(err, "cannot sum repayments of debt %q", e.DebtID)
	}
	defer rows.Close()
	repaid := decimal.Zero
	for rows.Next() {
		var s string
		if err := rows.Scan(&s); err != nil {
			return translate(err, "cannot scan repayment amount")
		}
		v, err := decimal.NewFromString(s)
		if err != nil {
			return kakeibo.Errs(err, "corrupt amount %q", s)
		}
		repaid = repaid.Add(v)
	}
	if err := rows.Err(); err != nil {
		return translate(err, "cannot sum repayments of debt %q", e.DebtID)
	}
	outstanding := debtAmount.Sub(kakeibo.M(repaid, debtAmount.Currency()))
	if e.Amount.GreaterThan(outstanding) {
		return kakeibo.Errb(kakeibo.CodeExcessRepayment,
			"repaying %s exceeds the outstanding %s of debt %q",
			e.Amount.Decimal(), outstanding.Decimal(), e.DebtID).WithRelated(e.DebtID)
	}
	return nil
}

func (r *entryRepo) CreateWithDebt(ctx context.Context, e kakeibo.Entry, d kakeibo.Debt) error {
	if err := d.Check(); err != nil {
		return err
	}
	if d.RootEntryID != e.ID || e.DebtID != d.ID {
		return kakeibo.Errv(kakeibo.CodeInvalidCombination, "debtId",
			"entry %q and debt %q do not reference each other", e.ID, d.ID)
	}
	return r.store.transact(func(tx *sql.Tx) error {
		if err := insertDebt(ctx, tx, d); err != nil {
			return err
		}
		return createEntry(ctx, tx, e)
	})
}

func (r *entryRepo) CreateWithTransfer(ctx context.Context, e kakeibo.Entry, t kakeibo.Transfer) error {
	if err := t.Check(); err != nil {
		return err
	}
	if t.RootEntryID != e.ID {
		return kakeibo.Errv(kakeibo.CodeInvalidCombination, "rootEntryId",
			"transfer %q does not reference entry %q", t.ID, e.ID)
	}
	if e.MethodID != t.FromMethodID {
		return kakeibo.Errv(kakeibo.CodeInvalidCombination, "methodId",
			"transfer root entry must be booked on the source method")
	}
	return r.store.transact(func(tx *sql.Tx) error {
		if err := createEntry(ctx, tx, e); err != nil {
			return err
		}
		_, err := tx.ExecContext(ctx,
			"INSERT INTO transfers (id, root_entry_id, from_method_id, to_method_id, date, note) VALUES (?, ?, ?, ?, ?, ?)",
			t.ID, t.RootEntryID, t.FromMethodID, t.ToMethodID, dateArg(t.Date), t.Note)
		return translate(err, "cannot create transfer")
	})
}

func (r *entryRepo) Update(ctx context.Context, e kakeibo.Entry) error {
	if err := e.Check(); err != nil {
		return err
	}
	var debtID any
	if !e.DebtID.IsZero() {
		debtID = string(e.DebtID)
	}
	args := []any{
		e.Type, dateArg(e.Date), e.Amount.Decimal().String(), e.Amount.Currency(),
		e.MethodID, e.CategoryID, e.Purpose, e.PrivatePurpose, e.Note, e.EvidenceNote,
		debtID, e.CreatedAt.UTC().Format(time.RFC3339), e.ID,
	}
	res, err := r.store.db.ExecContext(ctx, `
		UPDATE entries SET type = ?, date = ?, amount = ?, currency = ?, method_id = ?,
			category_id = ?, purpose = ?, private_purpose = ?, note = ?, evidence_note = ?,
			debt_id = ?, created_at = ?
		WHERE id = ?`, args...)
	if err != nil {
		return translate(err, "cannot update entry %q", e.ID)
	}
	return noneUpdated(res, "entry", e.ID)
}

func (r *entryRepo) Delete(ctx context.Context, id kakeibo.ID) error {
	return r.store.transact(func(tx *sql.Tx) error {
		var refs int
		err := tx.QueryRowContext(ctx, `
			SELECT (SELECT count(*) FROM debts WHERE root_entry_id = ?)
			     + (SELECT count(*) FROM transfers WHERE root_entry_id = ?)`,
			id, id).Scan(&refs)
		if err != nil {
			return translate(err, "cannot count references to entry %q", id)
		}
		if refs > 0 {
			return kakeibo.Errb(kakeibo.CodeInvalidCombination,
				"entry %q is the root of a debt or transfer", id).WithRelated(id)
		}
		res, err := tx.ExecContext(ctx, "DELETE FROM entries WHERE id = ?", id)
		if err != nil {
			return translate(err, "cannot delete entry %q", id)
		}
		return noneUpdated(res, "entry", id)
	})
}

// CalculateBalance folds the signed impact of the method's entries over
// [start, end]. The sign mirrors Entry.BalanceImpact; the decimal sum stays
// in Go so no amount ever passes through SQLite's float arithmetic.
func (r *entryRepo) CalculateBalance(ctx context.Context, method kakeibo.ID, start, end kakeibo.Date) (kakeibo.Money, error) {
	if _, err := (&methodRepo{r.store}).FindByID(ctx, method); err != nil {
		return kakeibo.Money{}, err
	}
	if !start.IsZero() && !end.IsZero() && end.Before(start) {
		return kakeibo.Money{}, kakeibo.Errv(kakeibo.CodeInvalidDateRange, "endDate",
			"end date %s is before start date %s", end, start)
	}

	query := `
		SELECT amount, currency,
			CASE
				WHEN type IN ('income', 'borrow', 'repayment_receive', 'initial_balance') THEN 1
				WHEN type IN ('expense', 'lend', 'repayment', 'transfer') THEN -1
				ELSE 0
			END AS sign
		FROM entries WHERE method_id = ?`
	args := []any{method}
	if !start.IsZero() {
		query += " AND date >= ?"
		args = append(args, dateArg(start))
	}
	if !end.IsZero() {
		query += " AND date <= ?"
		args = append(args, dateArg(end))
	}

	rows, err := r.store.db.QueryContext(ctx, query, args...)
	if err != nil {
		return kakeibo.Money{}, translate(err, "cannot calculate balance of method %q", method)
	}
	defer rows.Close()

	var total kakeibo.Money
	for rows.Next() {
		var (
			amount, currency string
			sign             int
		)
		if err := rows.Scan(&amount, &currency, &sign); err != nil {
			return kakeibo.Money{}, translate(err, "cannot scan balance row")
		}
		m, err := money(amount, currency)
		if err != nil {
			return kakeibo.Money{}, err
		}
		if sign < 0 {
			m = m.Neg()
		} else if sign == 0 {
			continue
		}
		total = total.Add(m)
	}
	return total, translate(rows.Err(), "cannot calculate balance of method %q", method)
}
