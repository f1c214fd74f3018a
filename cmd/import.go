package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/google/subcommands"
	"github.com/shirokane/kakeibo"
)

// importCmd maps a bank-export JSON file into entries. The jsonpath flags
// describe where the exporter put each field; defaults fit a flat
// {"transactions": [{"bookingDate": ..., "amount": ...}]} document.
type importCmd struct {
	method  string
	rows    string
	date    string
	amount  string
	purpose string
}

func (*importCmd) Name() string     { return "import" }
func (*importCmd) Synopsis() string { return "import entries from a bank-export JSON file" }
func (*importCmd) Usage() string {
	return `kakei import -m <method> [-rows <jsonpath>] [-date <jsonpath>] [-amount <jsonpath>] <file>

  Reads a bank export and appends its rows as income/expense entries on the
  method. Rows matching an existing entry are skipped, so re-importing an
  overlapping export is safe.
`
}

func (c *importCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.method, "m", "", "Payment method the imported entries belong to.")
	f.StringVar(&c.rows, "rows", "$.transactions[*]", "Jsonpath selecting the transaction rows.")
	f.StringVar(&c.date, "date", "$.bookingDate", "Jsonpath of the booking date within a row.")
	f.StringVar(&c.amount, "amount", "$.amount", "Jsonpath of the signed amount within a row.")
	f.StringVar(&c.purpose, "purpose", "$.purpose", "Jsonpath of the purpose within a row.")
}

func (c *importCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if f.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "Error: expected exactly one file argument")
		return subcommands.ExitUsageError
	}
	ledger, err := DecodeLedger()
	if err != nil {
		return fail(err)
	}
	method, err := findMethod(ledger, c.method)
	if err != nil {
		return fail(err)
	}

	file, err := os.Open(f.Arg(0))
	if err != nil {
		return fail(err)
	}
	defer file.Close()

	mapping := kakeibo.ImportMapping{
		Rows:     c.rows,
		Date:     c.date,
		Amount:   c.amount,
		Purpose:  c.purpose,
		Currency: currency(),
	}
	report, err := kakeibo.ImportEntries(file, mapping, method.ID, ledger)
	if err != nil {
		return fail(err)
	}
	return commit(ledger, "Imported %d entries onto %s, skipped %d duplicates",
		len(report.Imported), method.Name, len(report.Skipped))
}
