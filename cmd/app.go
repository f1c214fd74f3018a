// Package cmd implements the CLI application to manage a household ledger.
package cmd

import (
	"errors"
	"fmt"
	"io/fs"
	"log"
	"os"

	"github.com/charmbracelet/glamour"
	"github.com/google/subcommands"
	"github.com/shirokane/kakeibo"
)

// Commands lists every subcommand the kakei binary registers, by group.
// A main package iterates it for registration and for shell completion.
var Commands = []subcommands.Command{
	&incomeCmd{},
	&expenseCmd{},
	&borrowCmd{},
	&lendCmd{},
	&repayCmd{},
	&settleCmd{},
	&transferCmd{},
	&methodCmd{},
	&balanceCmd{},
	&summaryCmd{},
	&logCmd{},
	&debtsCmd{},
	&importCmd{},
	&syncCmd{},
	&assistCmd{},
}

// As a CLI application, it has a very short lived lifecycle, so it is ok to
// use global variables.

var ledgerFile = flagOr("ledger-file", "KAKEIBO_LEDGER", "kakeibo.jsonl")

// DecodeLedger loads the app ledger file. A missing file yields an empty
// ledger rather than an error, so the first command just works.
func DecodeLedger() (*kakeibo.Ledger, error) {
	f, err := os.Open(ledgerFile())
	if errors.Is(err, fs.ErrNotExist) {
		log.Println("warning, ledger file does not exist, starting an empty ledger")
		return kakeibo.NewLedger(), nil
	}
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return kakeibo.DecodeLedger(f)
}

// EncodeLedger writes the ledger back to the app ledger file, through a
// temporary file so a failed write never truncates the previous state.
func EncodeLedger(ledger *kakeibo.Ledger) error {
	filename := ledgerFile()
	tmp := filename + ".tmp"
	f, err := os.OpenFile(tmp, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, 0644)
	if err != nil {
		return fmt.Errorf("cannot open ledger file %q: %w", tmp, err)
	}
	if err := kakeibo.EncodeLedger(f, ledger); err != nil {
		f.Close()
		os.Remove(tmp)
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}
	return os.Rename(tmp, filename)
}

// commit saves the ledger and reports to the user; the usual tail of every
// mutating command.
func commit(ledger *kakeibo.Ledger, format string, args ...any) subcommands.ExitStatus {
	if err := EncodeLedger(ledger); err != nil {
		fmt.Fprintf(os.Stderr, "Error writing ledger: %v\n", err)
		return subcommands.ExitFailure
	}
	fmt.Printf(format+"\n", args...)
	return subcommands.ExitSuccess
}

// fail prints a ledger error in a user-friendly single line.
func fail(err error) subcommands.ExitStatus {
	fmt.Fprintln(os.Stderr, "Error:", err)
	return subcommands.ExitFailure
}

// printMarkdown renders markdown to the terminal with glamour, falling back
// to the raw text when rendering fails (e.g. no TTY capabilities).
func printMarkdown(md string) {
	out, err := glamour.Render(md, "auto")
	if err != nil {
		fmt.Print(md)
		return
	}
	fmt.Print(out)
}
