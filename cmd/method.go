package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/google/subcommands"
	"github.com/shirokane/kakeibo"
)

// methodCmd manages payment methods: add, list, rename, archive and
// unarchive, delete.
type methodCmd struct {
	initial string
	rename  string
	all     bool
}

func (*methodCmd) Name() string     { return "method" }
func (*methodCmd) Synopsis() string { return "manage payment methods" }
func (*methodCmd) Usage() string {
	return `kakei method list [-all]
kakei method add [-initial <amount>] <name>
kakei method rename -to <new name> <name>
kakei method archive|unarchive <name>
kakei method delete <name>

  Manages the payment methods entries are booked against. A method
  referenced by any entry or transfer cannot be deleted; archive it
  instead.
`
}

func (c *methodCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.initial, "initial", "", "Starting balance for a new method.")
	f.StringVar(&c.rename, "to", "", "New name for rename.")
	f.BoolVar(&c.all, "all", false, "Include archived methods in list.")
}

func (c *methodCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if f.NArg() == 0 {
		fmt.Fprint(os.Stderr, c.Usage())
		return subcommands.ExitUsageError
	}
	verb, rest := f.Arg(0), strings.Join(f.Args()[1:], " ")

	ledger, err := DecodeLedger()
	if err != nil {
		return fail(err)
	}

	switch verb {
	case "list":
		return c.list(ledger)
	case "add":
		return c.add(ledger, rest)
	case "rename":
		return c.renameTo(ledger, rest)
	case "archive":
		return c.archive(ledger, rest, true)
	case "unarchive":
		return c.archive(ledger, rest, false)
	case "delete":
		return c.delete(ledger, rest)
	default:
		fmt.Fprintf(os.Stderr, "Error: unknown method verb %q\n", verb)
		return subcommands.ExitUsageError
	}
}

func (c *methodCmd) list(ledger *kakeibo.Ledger) subcommands.ExitStatus {
	for m := range ledger.Methods(c.all) {
		funds, err := ledger.FundsOn(m.ID, kakeibo.Today())
		if err != nil {
			return fail(err)
		}
		suffix := ""
		if m.Archived {
			suffix = " (archived)"
		}
		fmt.Printf("%-20s %12s%s  %s\n", m.Name, funds, suffix, m.ID)
	}
	return subcommands.ExitSuccess
}

func (c *methodCmd) add(ledger *kakeibo.Ledger, name string) subcommands.ExitStatus {
	initial := kakeibo.M(0, currency())
	if c.initial != "" {
		var err error
		initial, err = kakeibo.ParseMoney(c.initial, currency())
		if err != nil {
			return fail(err)
		}
	}
	m, err := kakeibo.NewMethod(name, initial)
	if err != nil {
		return fail(err)
	}
	if err := ledger.AddMethod(m); err != nil {
		return fail(err)
	}
	return commit(ledger, "Added method %q (%s)", m.Name, m.ID)
}

func (c *methodCmd) renameTo(ledger *kakeibo.Ledger, name string) subcommands.ExitStatus {
	if c.rename == "" {
		fmt.Fprintln(os.Stderr, "Error: rename needs -to <new name>")
		return subcommands.ExitUsageError
	}
	m, err := findMethod(ledger, name)
	if err != nil {
		return fail(err)
	}
	renamed, err := m.Rename(c.rename)
	if err != nil {
		return fail(err)
	}
	if err := ledger.UpdateMethod(renamed); err != nil {
		return fail(err)
	}
	return commit(ledger, "Renamed method %q to %q", m.Name, renamed.Name)
}

func (c *methodCmd) archive(ledger *kakeibo.Ledger, name string, archived bool) subcommands.ExitStatus {
	m, err := findMethod(ledger, name)
	if err != nil {
		return fail(err)
	}
	if err := ledger.UpdateMethod(m.SetArchived(archived)); err != nil {
		return fail(err)
	}
	verb := "Unarchived"
	if archived {
		verb = "Archived"
	}
	return commit(ledger, "%s method %q", verb, m.Name)
}

func (c *methodCmd) delete(ledger *kakeibo.Ledger, name string) subcommands.ExitStatus {
	m, err := findMethod(ledger, name)
	if err != nil {
		return fail(err)
	}
	if err := ledger.DeleteMethod(m.ID); err != nil {
		return fail(err)
	}
	return commit(ledger, "Deleted method %q", m.Name)
}
