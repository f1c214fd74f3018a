package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/google/subcommands"
	"github.com/shirokane/kakeibo/renderer"
	"google.golang.org/genai"
)

// assistCmd answers a free-form question about the ledger. The model only
// sees rendered reports, never raw private purposes, unless -private is
// set.
type assistCmd struct {
	rangeFlags
	private bool
	model   string
}

func (*assistCmd) Name() string     { return "assist" }
func (*assistCmd) Synopsis() string { return "ask the AI assistant a question about the ledger" }
func (*assistCmd) Usage() string {
	return `kakei assist [-p <period>] [-private] <question...>

  Renders the period summary, debts and entry log, sends them to Gemini
  together with the question, and prints the answer. Needs a Gemini API key
  in the environment (GEMINI_API_KEY, loadable from .env).
`
}

func (c *assistCmd) SetFlags(f *flag.FlagSet) {
	c.setFlags(f)
	f.BoolVar(&c.private, "private", false, "Include private purposes in the context.")
	f.StringVar(&c.model, "model", "gemini-2.5-flash", "Gemini model to use.")
}

func (c *assistCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if f.NArg() == 0 {
		fmt.Fprintln(os.Stderr, "Error: expected a question")
		return subcommands.ExitUsageError
	}
	question := strings.Join(f.Args(), " ")

	ledger, err := DecodeLedger()
	if err != nil {
		return fail(err)
	}
	period, err := c.resolve(ledger)
	if err != nil {
		return fail(err)
	}

	var prompt strings.Builder
	prompt.WriteString("You are a household accounting assistant. Answer the question using only the reports below.\n\n")
	prompt.WriteString(renderer.RenderSummary(renderer.NewSummaryReport(ledger, period)))
	prompt.WriteString("\n")
	prompt.WriteString(renderer.RenderDebts(renderer.NewDebtsReport(ledger)))
	prompt.WriteString("\n")
	prompt.WriteString(renderer.RenderLog(renderer.NewLogReport(ledger, period, c.private)))
	prompt.WriteString("\nQuestion: ")
	prompt.WriteString(question)

	client, err := genai.NewClient(ctx, nil)
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error initializing Gemini's client:", err)
		return subcommands.ExitFailure
	}
	resp, err := client.Models.GenerateContent(ctx, c.model, genai.Text(prompt.String()), nil)
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error querying Gemini:", err)
		return subcommands.ExitFailure
	}
	printMarkdown(resp.Text())
	return subcommands.ExitSuccess
}
