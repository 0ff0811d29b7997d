package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/etnz/optionpl"
	"github.com/google/subcommands"
)

type fmtCmd struct{}

func (*fmtCmd) Name() string { return "fmt" }
func (*fmtCmd) Synopsis() string {
	return "validates and formats the ledger file into a canonical form"
}
func (*fmtCmd) Usage() string {
	return `opl fmt

  Reads all transactions, sorts them by date (keeping the order of same day
  transactions) and writes them back in canonical JSONL. Ledger issues are
  reported but do not prevent formatting.

Usage Examples:
# Formats the default ledger file in-place.
$ opl fmt
`
}

func (c *fmtCmd) SetFlags(f *flag.FlagSet) {}

func (c *fmtCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	ledger, err := optionpl.LoadLedger(*ledgerFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: could not load ledger: %v\n", err)
		return subcommands.ExitFailure
	}

	state := ledger.Replay()
	for _, issue := range state.Issues {
		fmt.Fprintf(os.Stderr, "Warning: %v\n", issue)
	}

	if err := optionpl.SaveLedger(*ledgerFile, ledger); err != nil {
		fmt.Fprintf(os.Stderr, "Error saving formatted ledger %q: %v\n", *ledgerFile, err)
		return subcommands.ExitFailure
	}
	fmt.Fprintf(os.Stderr, "Formatted %d transactions in %s\n", ledger.Len(), *ledgerFile)
	return subcommands.ExitSuccess
}
