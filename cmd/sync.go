package cmd

import (
	"context"
	"flag"

	"github.com/google/subcommands"
	"github.com/shirokane/kakeibo/sqlite"
)

// syncCmd mirrors the JSONL ledger into the SQLite database, for callers
// that want to query the ledger with SQL or serve it through the repository
// ports.
type syncCmd struct{}

func (*syncCmd) Name() string     { return "sync" }
func (*syncCmd) Synopsis() string { return "mirror the ledger into the SQLite database" }
func (*syncCmd) Usage() string {
	return `kakei sync [-db-file <path>]

  Rewrites the SQLite database from the ledger file. The database is a
  replaceable mirror; the JSONL ledger stays the source of truth.
`
}
func (*syncCmd) SetFlags(_ *flag.FlagSet) {}

func (c *syncCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	ledger, err := DecodeLedger()
	if err != nil {
		return fail(err)
	}
	store, err := sqlite.Open(dbFile())
	if err != nil {
		return fail(err)
	}
	defer store.Close()
	if err := store.Mirror(ctx, ledger); err != nil {
		return fail(err)
	}
	return subcommands.ExitSuccess
}
