package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/etnz/optionpl"
	"github.com/etnz/optionpl/renderer"
	"github.com/google/subcommands"
)

// --- Positions Command ---

type positionsCmd struct {
	ticker string
}

func (*positionsCmd) Name() string     { return "positions" }
func (*positionsCmd) Synopsis() string { return "list open share and option positions" }
func (*positionsCmd) Usage() string {
	return `opl positions [-t <ticker>]

  Replays the ledger and lists the open share positions with their average
  cost, and the open option series with their net premium.
`
}

func (c *positionsCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.ticker, "t", "", "Restrict the report to one underlying")
}

func (c *positionsCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	state, err := replay()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading ledger: %v\n", err)
		return subcommands.ExitFailure
	}
	opts, err := rendererOptions()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		return subcommands.ExitFailure
	}
	if c.ticker != "" {
		state.Positions = state.ForTicker(c.ticker)
	}
	printMarkdown(renderer.Positions(state, opts))
	return subcommands.ExitSuccess
}

// --- P/L Command ---

type pnlCmd struct{}

func (*pnlCmd) Name() string     { return "pnl" }
func (*pnlCmd) Synopsis() string { return "report realized profit and loss" }
func (*pnlCmd) Usage() string {
	return `opl pnl

  Replays the ledger and reports the realized P/L per underlying, the
  commissions paid and the number of assignments.
`
}

func (c *pnlCmd) SetFlags(f *flag.FlagSet) {}

func (c *pnlCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	state, err := replay()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading ledger: %v\n", err)
		return subcommands.ExitFailure
	}
	opts, err := rendererOptions()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		return subcommands.ExitFailure
	}
	printMarkdown(renderer.ProfitLoss(state, opts))
	return subcommands.ExitSuccess
}

// --- Issues Command ---

type issuesCmd struct{}

func (*issuesCmd) Name() string     { return "issues" }
func (*issuesCmd) Synopsis() string { return "list the transactions skipped or adjusted by replay" }
func (*issuesCmd) Usage() string {
	return `opl issues

  Replays the ledger and lists every transaction that was skipped or adjusted.
  Exits with a failure status when there is any.
`
}

func (c *issuesCmd) SetFlags(f *flag.FlagSet) {}

func (c *issuesCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	state, err := replay()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading ledger: %v\n", err)
		return subcommands.ExitFailure
	}
	printMarkdown(renderer.Issues(state.Issues))
	if len(state.Issues) > 0 {
		return subcommands.ExitFailure
	}
	return subcommands.ExitSuccess
}

// tickerFilter returns the ledger filters selecting ticker, if any.
func tickerFilter(ticker string) []func(optionpl.Transaction) bool {
	if ticker == "" {
		return nil
	}
	return []func(optionpl.Transaction) bool{optionpl.OnTicker(ticker)}
}
