package kakeibo

import (
	"bufio"
	"encoding/json"
	"io"
	"time"

	"github.com/shopspring/decimal"
)

func init() {
	decimal.MarshalJSONWithoutQuotes = true
}

// recordKind discriminates the ledger line types in the JSONL stream. Every
// encoded line carries it in its "record" field.
type recordKind string

const (
	recordMethod   recordKind = "method"
	recordEntry    recordKind = "entry"
	recordDebt     recordKind = "debt"
	recordTransfer recordKind = "transfer"
)

// amountRec is a specialized struct to read a money value from its two
// persisted fields. An inline json tag would not cover every record shape.
type amountRec struct {
	Amount   decimal.Decimal `json:"amount"`
	Currency string          `json:"currency"`
}

func (a amountRec) Money() Money {
	return M(a.Amount, a.Currency)
}

// DecodeLedger reads a JSONL stream, decodes each line into the record type
// named by its "record" field, and returns the rebuilt ledger.
//
// Records are placed directly, without the Append validation pipeline: the
// stream is the ledger's own output and was validated when it was written,
// and lines may arrive in any order, so a repayment entry can legitimately
// precede its debt in the stream.
func DecodeLedger(r io.Reader) (*Ledger, error) {
	ledger := NewLedger()
	scanner := bufio.NewScanner(r)

	for scanner.Scan() {
		lineBytes := scanner.Bytes()
		if len(lineBytes) == 0 {
			continue // Skip empty lines
		}

		var identifier struct {
			Record recordKind `json:"record"`
		}
		if err := json.Unmarshal(lineBytes, &identifier); err != nil {
			return nil, Errs(err, "could not identify record in line %q", string(lineBytes))
		}

		switch identifier.Record {
		case recordMethod:
			var temp struct {
				ID             ID              `json:"id"`
				Name           string          `json:"name"`
				InitialBalance decimal.Decimal `json:"initialBalance"`
				Currency       string          `json:"currency"`
				Archived       bool            `json:"archived"`
			}
			if err := json.Unmarshal(lineBytes, &temp); err != nil {
				return nil, Errs(err, "invalid method line")
			}
			ledger.methods[temp.ID] = Method{
				ID:             temp.ID,
				Name:           temp.Name,
				InitialBalance: M(temp.InitialBalance, temp.Currency),
				Archived:       temp.Archived,
			}

		case recordEntry:
			// Use a temporary type that has all possible fields.
			var temp struct {
				amountRec
				ID             ID        `json:"id"`
				Type           EntryType `json:"type"`
				Date           Date      `json:"date"`
				MethodID       ID        `json:"methodId"`
				CategoryID     ID        `json:"categoryId"`
				Purpose        string    `json:"purpose"`
				PrivatePurpose string    `json:"privatePurpose"`
				Note           string    `json:"note"`
				EvidenceNote   string    `json:"evidenceNote"`
				DebtID         ID        `json:"debtId"`
				CreatedAt      time.Time `json:"createdAt"`
			}
			if err := json.Unmarshal(lineBytes, &temp); err != nil {
				return nil, Errs(err, "invalid entry line")
			}
			ledger.entries = append(ledger.entries, Entry{
				ID:             temp.ID,
				Type:           temp.Type,
				Date:           temp.Date,
				Amount:         temp.Money(),
				MethodID:       temp.MethodID,
				CategoryID:     temp.CategoryID,
				Purpose:        temp.Purpose,
				PrivatePurpose: temp.PrivatePurpose,
				Note:           temp.Note,
				EvidenceNote:   temp.EvidenceNote,
				DebtID:         temp.DebtID,
				CreatedAt:      temp.CreatedAt,
			})

		case recordDebt:
			var temp struct {
				amountRec
				ID          ID       `json:"id"`
				Type        DebtType `json:"type"`
				RootEntryID ID       `json:"rootEntryId"`
				Date        Date     `json:"date"`
				Counterpart string   `json:"counterpart"`
				RepaidAt    Date     `json:"repaidAt"`
				Memo        string   `json:"memo"`
			}
			if err := json.Unmarshal(lineBytes, &temp); err != nil {
				return nil, Errs(err, "invalid debt line")
			}
			ledger.debts[temp.ID] = Debt{
				ID:          temp.ID,
				Type:        temp.Type,
				RootEntryID: temp.RootEntryID,
				Date:        temp.Date,
				Amount:      temp.Money(),
				Counterpart: temp.Counterpart,
				RepaidAt:    temp.RepaidAt,
				Memo:        temp.Memo,
			}

		case recordTransfer:
			var temp struct {
				ID           ID     `json:"id"`
				RootEntryID  ID     `json:"rootEntryId"`
				FromMethodID ID     `json:"fromMethodId"`
				ToMethodID   ID     `json:"toMethodId"`
				Date         Date   `json:"date"`
				Note         string `json:"note"`
			}
			if err := json.Unmarshal(lineBytes, &temp); err != nil {
				return nil, Errs(err, "invalid transfer line")
			}
			ledger.transfers[temp.ID] = Transfer{
				ID:           temp.ID,
				RootEntryID:  temp.RootEntryID,
				FromMethodID: temp.FromMethodID,
				ToMethodID:   temp.ToMethodID,
				Date:         temp.Date,
				Note:         temp.Note,
			}

		default:
			return nil, Errv(CodeInvalidInput, "record", "unknown ledger record: %q", identifier.Record)
		}
	}

	if err := scanner.Err(); err != nil {
		return nil, Errs(err, "error reading from input")
	}

	// Restore chronological order; same-day entries keep their line order.
	ledger.stableSort()

	return ledger, nil
}

// EncodeRecord marshals a single record to JSON and writes it to the
// writer, followed by a newline, in JSONL format.
func EncodeRecord(w io.Writer, record any) error {
	decimal.MarshalJSONWithoutQuotes = true
	data, err := json.Marshal(record)
	if err != nil {
		return Errs(err, "failed to marshal ledger record")
	}
	if _, err := w.Write(append(data, '\n')); err != nil {
		return Errs(err, "failed to write ledger record")
	}
	return nil
}

// EncodeLedger persists the whole ledger to an io.Writer in JSONL format:
// methods first, then entries in chronological order, then debts and
// transfers. Field order within a line is fixed by each record's
// MarshalJSON, so re-encoding an unchanged ledger is byte-identical.
func EncodeLedger(w io.Writer, ledger *Ledger) error {
	decimal.MarshalJSONWithoutQuotes = true

	ledger.stableSort()

	for m := range ledger.Methods(true) {
		if err := EncodeRecord(w, m); err != nil {
			return err
		}
	}
	for _, e := range ledger.Entries() {
		if err := EncodeRecord(w, e); err != nil {
			return err
		}
	}
	for d := range ledger.Debts(false) {
		if err := EncodeRecord(w, d); err != nil {
			return err
		}
	}
	for t := range ledger.Transfers("") {
		if err := EncodeRecord(w, t); err != nil {
			return err
		}
	}
	return nil
}
