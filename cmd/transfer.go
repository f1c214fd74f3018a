package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/google/subcommands"
	"github.com/shirokane/kakeibo"
)

type transferCmd struct {
	date  string
	from  string
	to    string
	note  string
	force bool
}

func (*transferCmd) Name() string     { return "transfer" }
func (*transferCmd) Synopsis() string { return "move money between two payment methods" }
func (*transferCmd) Usage() string {
	return `kakei transfer -from <method> -to <method> [-d <date>] <amount>

  Records a transfer: the amount is debited from the source method and
  credited to the destination. Fails if the source lacks sufficient funds
  unless -force is set.
`
}

func (c *transferCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.date, "d", "0d", "Date of the transfer (defaults to today).")
	f.StringVar(&c.from, "from", "", "Source method, by name or id.")
	f.StringVar(&c.to, "to", "", "Destination method, by name or id.")
	f.StringVar(&c.note, "n", "", "Free-form note.")
	f.BoolVar(&c.force, "force", false, "Skip the sufficient-funds check.")
}

func (c *transferCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	ledger, err := DecodeLedger()
	if err != nil {
		return fail(err)
	}
	if f.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "Error: expected exactly one amount argument")
		return subcommands.ExitUsageError
	}
	amount, err := kakeibo.ParseMoney(f.Arg(0), currency())
	if err != nil {
		return fail(err)
	}
	day, err := kakeibo.ParseDate(c.date)
	if err != nil {
		return fail(err)
	}
	from, err := findMethod(ledger, c.from)
	if err != nil {
		return fail(err)
	}
	to, err := findMethod(ledger, c.to)
	if err != nil {
		return fail(err)
	}

	entry, transfer, err := kakeibo.NewTransferEntry(day, amount, from.ID, to.ID)
	if err != nil {
		return fail(err)
	}
	transfer = transfer.WithNote(c.note)
	if !c.force {
		if err := transfer.CheckSufficientFunds(amount, ledger.BalanceFunc()); err != nil {
			return fail(err)
		}
	}
	if err := ledger.AddTransferEntry(entry, transfer); err != nil {
		return fail(err)
	}
	return commit(ledger, "Transferred %s from %s to %s on %s", amount, from.Name, to.Name, day)
}
