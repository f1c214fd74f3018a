package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/google/subcommands"
	"github.com/shirokane/kakeibo"
	"github.com/shirokane/kakeibo/renderer"
)

// debtCmd carries the flags shared by borrow and lend.
type debtCmd struct {
	bookCmd
	counterpart string
	memo        string
}

func (c *debtCmd) SetFlags(f *flag.FlagSet) {
	c.setFlags(f)
	f.StringVar(&c.counterpart, "with", "", "Counterpart of the debt.")
	f.StringVar(&c.memo, "memo", "", "Memo on the debt record.")
}

func (c *debtCmd) originate(debtType kakeibo.DebtType, f *flag.FlagSet) subcommands.ExitStatus {
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
	method, err := findMethod(ledger, c.method)
	if err != nil {
		return fail(err)
	}

	entry, debt, err := kakeibo.NewDebtEntry(debtType, day, amount, method.ID, c.counterpart)
	if err != nil {
		return fail(err)
	}
	entry = entry.WithPurpose(c.purpose).WithNote(c.note)
	debt = debt.UpdateMemo(c.memo)
	if err := ledger.AddDebtEntry(entry, debt); err != nil {
		return fail(err)
	}
	return commit(ledger, "Recorded %s of %s with %s (debt %s)", debtType, amount, c.counterpart, debt.ID)
}

type borrowCmd struct{ debtCmd }

func (*borrowCmd) Name() string     { return "borrow" }
func (*borrowCmd) Synopsis() string { return "record money borrowed from a counterpart" }
func (*borrowCmd) Usage() string {
	return `kakei borrow -m <method> -with <counterpart> [-d <date>] <amount>

  Records a borrow entry and opens the matching debt in one step.
`
}
func (c *borrowCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	return c.originate(kakeibo.DebtBorrow, f)
}

type lendCmd struct{ debtCmd }

func (*lendCmd) Name() string     { return "lend" }
func (*lendCmd) Synopsis() string { return "record money lent to a counterpart" }
func (*lendCmd) Usage() string {
	return `kakei lend -m <method> -with <counterpart> [-d <date>] <amount>

  Records a lend entry and opens the matching debt in one step.
`
}
func (c *lendCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	return c.originate(kakeibo.DebtLend, f)
}

// repayCmd books a repayment against an open debt. The entry type follows
// the debt: repaying a borrow is an expense, receiving on a lend is an
// income.
type repayCmd struct {
	bookCmd
	debt   string
	settle bool
}

func (*repayCmd) Name() string     { return "repay" }
func (*repayCmd) Synopsis() string { return "record a repayment against an open debt" }
func (*repayCmd) Usage() string {
	return `kakei repay -debt <id> -m <method> [-d <date>] [-settle] <amount>

  Records a repayment entry on the debt. With -settle the debt is also
  marked repaid on the same date.
`
}
func (c *repayCmd) SetFlags(f *flag.FlagSet) {
	c.setFlags(f)
	f.StringVar(&c.debt, "debt", "", "Id of the debt being repaid.")
	f.BoolVar(&c.settle, "settle", false, "Also mark the debt repaid.")
}

func (c *repayCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	ledger, err := DecodeLedger()
	if err != nil {
		return fail(err)
	}
	debt, err := ledger.Debt(kakeibo.ID(c.debt))
	if err != nil {
		return fail(err)
	}
	entryType := kakeibo.TypeRepayment
	if debt.IsLend() {
		entryType = kakeibo.TypeRepaymentReceive
	}
	entry, err := c.buildEntry(entryType, f, ledger)
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		return subcommands.ExitUsageError
	}
	entry = entry.WithDebt(debt.ID)
	if err := ledger.Append(entry); err != nil {
		return fail(err)
	}
	if c.settle {
		if _, err := ledger.MarkDebtRepaid(debt.ID, entry.Date); err != nil {
			return fail(err)
		}
	}
	return commit(ledger, "Recorded %s of %s on debt %s", entryType, entry.Amount, debt.ID)
}

// settleCmd marks a debt repaid without booking a repayment entry, for
// debts settled outside the tracked methods.
type settleCmd struct {
	date string
	debt string
}

func (*settleCmd) Name() string     { return "settle" }
func (*settleCmd) Synopsis() string { return "mark a debt as repaid" }
func (*settleCmd) Usage() string {
	return `kakei settle -debt <id> [-d <date>]

  Marks the debt repaid on the given date (today by default). A debt can be
  settled only once.
`
}
func (c *settleCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.date, "d", "", "Repaid date (defaults to today).")
	f.StringVar(&c.debt, "debt", "", "Id of the debt to settle.")
}

func (c *settleCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	ledger, err := DecodeLedger()
	if err != nil {
		return fail(err)
	}
	var on kakeibo.Date
	if c.date != "" {
		on, err = kakeibo.ParseDate(c.date)
		if err != nil {
			return fail(err)
		}
	}
	debt, err := ledger.MarkDebtRepaid(kakeibo.ID(c.debt), on)
	if err != nil {
		return fail(err)
	}
	return commit(ledger, "Debt with %s marked repaid on %s", debt.Counterpart, debt.RepaidAt)
}

type debtsCmd struct {
	all bool
}

func (*debtsCmd) Name() string     { return "debts" }
func (*debtsCmd) Synopsis() string { return "list debts and their outstanding amounts" }
func (*debtsCmd) Usage() string {
	return `kakei debts [-all]

  Shows open debts with their outstanding amounts; -all includes repaid
  debts.
`
}
func (c *debtsCmd) SetFlags(f *flag.FlagSet) {
	f.BoolVar(&c.all, "all", false, "Include repaid debts.")
}

func (c *debtsCmd) Execute(_ context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	ledger, err := DecodeLedger()
	if err != nil {
		return fail(err)
	}
	report := renderer.NewDebtsReport(ledger)
	if !c.all {
		report.Repaid = nil
	}
	printMarkdown(renderer.RenderDebts(report))
	return subcommands.ExitSuccess
}
