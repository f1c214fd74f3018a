package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/google/subcommands"
	"github.com/shirokane/kakeibo"
)

// bookCmd carries the flags shared by every entry-booking command.
type bookCmd struct {
	date     string
	method   string
	category string
	purpose  string
	private  string
	note     string
	evidence string
}

func (c *bookCmd) setFlags(f *flag.FlagSet) {
	f.StringVar(&c.date, "d", "0d", "Date of the entry (defaults to today).")
	f.StringVar(&c.method, "m", "", "Payment method, by name or id.")
	f.StringVar(&c.category, "c", "", "Category id.")
	f.StringVar(&c.purpose, "p", "", "Purpose of the entry.")
	f.StringVar(&c.private, "private", "", "Private purpose, excluded from shared reports.")
	f.StringVar(&c.note, "n", "", "Free-form note.")
	f.StringVar(&c.evidence, "e", "", "Evidence note or internal resource URI.")
}

// buildEntry parses the shared flags plus the positional amount into a new
// entry against the resolved method.
func (c *bookCmd) buildEntry(entryType kakeibo.EntryType, f *flag.FlagSet, ledger *kakeibo.Ledger) (kakeibo.Entry, error) {
	if f.NArg() != 1 {
		return kakeibo.Entry{}, fmt.Errorf("expected exactly one amount argument, got %d", f.NArg())
	}
	amount, err := kakeibo.ParseMoney(f.Arg(0), currency())
	if err != nil {
		return kakeibo.Entry{}, err
	}
	day, err := kakeibo.ParseDate(c.date)
	if err != nil {
		return kakeibo.Entry{}, err
	}
	method, err := findMethod(ledger, c.method)
	if err != nil {
		return kakeibo.Entry{}, err
	}
	entry := kakeibo.NewEntry(entryType, day, amount, method.ID).
		WithCategory(kakeibo.ID(c.category)).
		WithPurpose(c.purpose).
		WithPrivatePurpose(c.private).
		WithNote(c.note).
		WithEvidenceNote(c.evidence)
	return entry, nil
}

// findMethod resolves a method by id first, then by exact name.
func findMethod(ledger *kakeibo.Ledger, nameOrID string) (kakeibo.Method, error) {
	if nameOrID == "" {
		return kakeibo.Method{}, fmt.Errorf("a payment method is required (-m)")
	}
	if m, err := ledger.Method(kakeibo.ID(nameOrID)); err == nil {
		return m, nil
	}
	for m := range ledger.Methods(true) {
		if m.Name == nameOrID {
			return m, nil
		}
	}
	return kakeibo.Method{}, kakeibo.Errn("method", kakeibo.ID(nameOrID))
}

type incomeCmd struct{ bookCmd }

func (*incomeCmd) Name() string     { return "income" }
func (*incomeCmd) Synopsis() string { return "record money received on a payment method" }
func (*incomeCmd) Usage() string {
	return `kakei income -m <method> [-d <date>] [-c <category>] [-p <purpose>] <amount>

  Records an income entry. The amount is credited to the method.
`
}
func (c *incomeCmd) SetFlags(f *flag.FlagSet) { c.setFlags(f) }

func (c *incomeCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	return c.book(kakeibo.TypeIncome, f)
}

type expenseCmd struct{ bookCmd }

func (*expenseCmd) Name() string     { return "expense" }
func (*expenseCmd) Synopsis() string { return "record money spent from a payment method" }
func (*expenseCmd) Usage() string {
	return `kakei expense -m <method> [-d <date>] [-c <category>] [-p <purpose>] <amount>

  Records an expense entry. The amount is debited from the method.
`
}
func (c *expenseCmd) SetFlags(f *flag.FlagSet) { c.setFlags(f) }

func (c *expenseCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	return c.book(kakeibo.TypeExpense, f)
}

func (c *bookCmd) book(entryType kakeibo.EntryType, f *flag.FlagSet) subcommands.ExitStatus {
	ledger, err := DecodeLedger()
	if err != nil {
		return fail(err)
	}
	entry, err := c.buildEntry(entryType, f, ledger)
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		return subcommands.ExitUsageError
	}
	if err := ledger.Append(entry); err != nil {
		return fail(err)
	}
	return commit(ledger, "Recorded %s of %s on %s", entryType, entry.Amount, entry.Date)
}
