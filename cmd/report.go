package cmd

import (
	"context"
	"flag"

	"github.com/google/subcommands"
	"github.com/shirokane/kakeibo"
	"github.com/shirokane/kakeibo/renderer"
)

// rangeFlags carries the period selection flags shared by reports.
type rangeFlags struct {
	period string
	start  string
	end    string
}

func (c *rangeFlags) setFlags(f *flag.FlagSet) {
	f.StringVar(&c.period, "p", "", "Predefined period (day, week, month, quarter, year).")
	f.StringVar(&c.start, "s", "", "The start date for a custom range. Overrides -p.")
	f.StringVar(&c.end, "d", "", "The end date for the range (defaults to today).")
}

// resolve turns the flags into a date range. With no flags at all, the
// range covers the whole ledger.
func (c *rangeFlags) resolve(ledger *kakeibo.Ledger) (kakeibo.Range, error) {
	if c.period == "" && c.start == "" && c.end == "" {
		return kakeibo.Range{From: ledger.OldestEntryDate(), To: ledger.NewestEntryDate()}, nil
	}
	end := kakeibo.Today()
	if c.end != "" {
		var err error
		end, err = kakeibo.ParseDate(c.end)
		if err != nil {
			return kakeibo.Range{}, err
		}
	}
	if c.start != "" {
		start, err := kakeibo.ParseDate(c.start)
		if err != nil {
			return kakeibo.Range{}, err
		}
		return kakeibo.NewRange(start, end), nil
	}
	period := kakeibo.Monthly
	if c.period != "" {
		var err error
		period, err = kakeibo.ParsePeriod(c.period)
		if err != nil {
			return kakeibo.Range{}, err
		}
	}
	return period.Range(end), nil
}

type balanceCmd struct {
	rangeFlags
	method string
}

func (*balanceCmd) Name() string     { return "balance" }
func (*balanceCmd) Synopsis() string { return "show a payment method's balance over a period" }
func (*balanceCmd) Usage() string {
	return `kakei balance -m <method> [-p <period> | -s <start_date>] [-d <end_date>]

  Shows the opening funds, entry movement, incoming transfers and closing
  funds of a method over the period.
`
}
func (c *balanceCmd) SetFlags(f *flag.FlagSet) {
	c.setFlags(f)
	f.StringVar(&c.method, "m", "", "Payment method, by name or id.")
}

func (c *balanceCmd) Execute(_ context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	ledger, err := DecodeLedger()
	if err != nil {
		return fail(err)
	}
	method, err := findMethod(ledger, c.method)
	if err != nil {
		return fail(err)
	}
	period, err := c.resolve(ledger)
	if err != nil {
		return fail(err)
	}
	report, err := renderer.NewBalanceReport(ledger, method.ID, period)
	if err != nil {
		return fail(err)
	}
	printMarkdown(renderer.RenderBalance(report))
	return subcommands.ExitSuccess
}

type summaryCmd struct {
	rangeFlags
}

func (*summaryCmd) Name() string     { return "summary" }
func (*summaryCmd) Synopsis() string { return "summarize the ledger over a period" }
func (*summaryCmd) Usage() string {
	return `kakei summary [-p <period> | -s <start_date>] [-d <end_date>]

  Shows income, expense, net movement, the per-type breakdown and the
  closing funds of every method.
`
}
func (c *summaryCmd) SetFlags(f *flag.FlagSet) { c.setFlags(f) }

func (c *summaryCmd) Execute(_ context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	ledger, err := DecodeLedger()
	if err != nil {
		return fail(err)
	}
	period, err := c.resolve(ledger)
	if err != nil {
		return fail(err)
	}
	printMarkdown(renderer.RenderSummary(renderer.NewSummaryReport(ledger, period)))
	return subcommands.ExitSuccess
}

type logCmd struct {
	rangeFlags
	private bool
}

func (*logCmd) Name() string     { return "log" }
func (*logCmd) Synopsis() string { return "list entries in chronological order" }
func (*logCmd) Usage() string {
	return `kakei log [-p <period> | -s <start_date>] [-d <end_date>] [-private]

  Lists the entries of the period. Private purposes are masked unless
  -private is set.
`
}
func (c *logCmd) SetFlags(f *flag.FlagSet) {
	c.setFlags(f)
	f.BoolVar(&c.private, "private", false, "Show private purposes.")
}

func (c *logCmd) Execute(_ context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	ledger, err := DecodeLedger()
	if err != nil {
		return fail(err)
	}
	period, err := c.resolve(ledger)
	if err != nil {
		return fail(err)
	}
	printMarkdown(renderer.RenderLog(renderer.NewLogReport(ledger, period, c.private)))
	return subcommands.ExitSuccess
}
