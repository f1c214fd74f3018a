package kakeibo

import (
	"encoding/json"
	"io"
	"log"
	"strconv"
	"strings"

	"github.com/PaesslerAG/jsonpath"
	"github.com/shopspring/decimal"
)

// ImportMapping describes how to read entries out of a bank-export JSON
// document using jsonpath expressions. Rows selects the transaction list;
// the remaining paths are evaluated against each row.
type ImportMapping struct {
	Rows     string // e.g. "$.transactions[*]"
	Date     string // e.g. "$.bookingDate"
	Amount   string // signed decimal; negative rows become expenses
	Purpose  string // optional
	Note     string // optional
	Currency string // currency code applied to every imported amount
}

// ImportReport summarizes an import run.
type ImportReport struct {
	Imported []Entry
	Skipped  []Entry // advisory duplicates, left out of the ledger
}

// ImportEntries reads a bank-export JSON document and appends its rows to
// the ledger as income/expense entries on the given method. Rows that trip
// the duplicate check are skipped and reported, not fatal: re-importing an
// overlapping export must be safe.
func ImportEntries(r io.Reader, mapping ImportMapping, method ID, ledger *Ledger) (ImportReport, error) {
	var report ImportReport

	var jobj any
	if err := json.NewDecoder(r).Decode(&jobj); err != nil {
		return report, Errs(err, "cannot parse import document")
	}

	jrows, err := jsonpath.Get(mapping.Rows, jobj)
	if err != nil {
		return report, Errv(CodeInvalidInput, "rows", "cannot evaluate row path %q: %v", mapping.Rows, err)
	}
	rows, ok := jrows.([]any)
	if !ok {
		// jsonpath is never clear about whether it returns a list of one
		// answer or a single answer; a lone object counts as one row.
		rows = []any{jrows}
	}

	for i, row := range rows {
		entry, err := mapRow(row, mapping, method)
		if err != nil {
			return report, Errv(CodeInvalidInput, "rows", "row %d: %v", i, err)
		}
		if dup, found := ledger.FindDuplicate(entry); found {
			log.Printf("skipping row %d: duplicate of entry %s", i, dup.ID)
			report.Skipped = append(report.Skipped, entry)
			continue
		}
		if err := ledger.Append(entry); err != nil {
			return report, err
		}
		report.Imported = append(report.Imported, entry)
	}
	return report, nil
}

// mapRow evaluates the mapping paths against one row and builds the entry.
// The sign of the amount picks the entry type.
func mapRow(row any, mapping ImportMapping, method ID) (Entry, error) {
	dateStr, err := pathString(row, mapping.Date)
	if err != nil {
		return Entry{}, err
	}
	day, err := ParseDate(dateStr)
	if err != nil {
		return Entry{}, err
	}

	amount, err := pathDecimal(row, mapping.Amount)
	if err != nil {
		return Entry{}, err
	}
	entryType := TypeIncome
	if amount.IsNegative() {
		entryType = TypeExpense
		amount = amount.Neg()
	}

	entry := NewEntry(entryType, day, M(amount, mapping.Currency), method)
	if mapping.Purpose != "" {
		purpose, err := pathString(row, mapping.Purpose)
		if err != nil {
			return Entry{}, err
		}
		entry = entry.WithPurpose(purpose)
	}
	if mapping.Note != "" {
		note, err := pathString(row, mapping.Note)
		if err != nil {
			return Entry{}, err
		}
		entry = entry.WithNote(note)
	}
	return entry, entry.Check()
}

// pathValue evaluates a jsonpath against a row, unwrapping a list of one.
func pathValue(row any, path string) (any, error) {
	jval, err := jsonpath.Get(path, row)
	if err != nil {
		return nil, Errv(CodeInvalidInput, "path", "cannot evaluate %q: %v", path, err)
	}
	if jlist, ok := jval.([]any); ok && len(jlist) > 0 {
		jval = jlist[0]
	}
	return jval, nil
}

func pathString(row any, path string) (string, error) {
	jval, err := pathValue(row, path)
	if err != nil {
		return "", err
	}
	s, ok := jval.(string)
	if !ok {
		return "", Errv(CodeInvalidInput, "path", "%q is not a string: %v", path, jval)
	}
	return strings.TrimSpace(s), nil
}

// pathDecimal accepts both JSON numbers and string-encoded amounts, which
// bank exports mix freely.
func pathDecimal(row any, path string) (decimal.Decimal, error) {
	jval, err := pathValue(row, path)
	if err != nil {
		return decimal.Decimal{}, err
	}
	switch v := jval.(type) {
	case float64:
		// Round-tripping through the shortest string repr avoids the float
		// artifacts of NewFromFloat on values like 0.1.
		return decimal.NewFromString(strconv.FormatFloat(v, 'f', -1, 64))
	case string:
		return decimal.NewFromString(strings.TrimSpace(strings.ReplaceAll(v, ",", "")))
	default:
		return decimal.Decimal{}, Errv(CodeInvalidInput, "path", "%q is not a number: %v", path, jval)
	}
}
