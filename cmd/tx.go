package cmd

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"

	"github.com/PaesslerAG/jsonpath"
	"github.com/etnz/optionpl"
	"github.com/etnz/optionpl/renderer"
	"github.com/google/subcommands"
)

type txCmd struct {
	ticker string
	series string
	head   int
	tail   int
	query  string
}

func (*txCmd) Name() string     { return "tx" }
func (*txCmd) Synopsis() string { return "list transactions in the ledger" }
func (*txCmd) Usage() string {
	return `opl tx [-t <ticker>] [-o <optionId>] [-head <n>] [-tail <n>] [-select <jsonpath>]

  Lists transactions from the ledger in chronological order.

  With -select, prints the value the JSONPath expression selects in each
  transaction instead, one per line. Transactions where it selects nothing
  are skipped.

Usage Examples:
$ opl tx -t XYZ -select '$.premium'
`
}

func (c *txCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.ticker, "t", "", "Only list transactions on this underlying")
	f.StringVar(&c.series, "o", "", "Only list transactions on this option series")
	f.IntVar(&c.head, "head", 0, "Show only the first N transactions.")
	f.IntVar(&c.tail, "tail", 0, "Show only the last N transactions.")
	f.StringVar(&c.query, "select", "", "JSONPath expression evaluated on each transaction")
}

func (c *txCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if c.head > 0 && c.tail > 0 {
		fmt.Fprintln(os.Stderr, "Error: -head and -tail flags cannot be used together.")
		return subcommands.ExitUsageError
	}
	var eval func(context.Context, any) (any, error)
	if c.query != "" {
		e, err := jsonpath.New(c.query)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error parsing -select: %v\n", err)
			return subcommands.ExitUsageError
		}
		eval = e
	}

	ledger, err := DecodeLedger()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}

	filters := tickerFilter(c.ticker)
	if c.series != "" {
		filters = append(filters, optionpl.OnSeries(c.series))
	}
	var txs []optionpl.Transaction
	for _, tx := range ledger.Transactions(filters...) {
		txs = append(txs, tx)
	}
	if c.head > 0 && c.head < len(txs) {
		txs = txs[:c.head]
	}
	if c.tail > 0 && c.tail < len(txs) {
		txs = txs[len(txs)-c.tail:]
	}

	if eval == nil {
		opts, err := rendererOptions()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
			return subcommands.ExitFailure
		}
		printMarkdown(renderer.Transactions(txs, opts))
		return subcommands.ExitSuccess
	}

	for _, tx := range txs {
		value, err := selectJSON(ctx, tx, eval)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error evaluating %q on %s: %v\n", c.query, tx.Ref(), err)
			return subcommands.ExitFailure
		}
		if value == nil {
			continue
		}
		fmt.Fprintln(stdout, value)
	}
	return subcommands.ExitSuccess
}

// selectJSON evaluates a compiled JSONPath expression on the JSON form of tx.
// A path that selects nothing yields nil.
func selectJSON(ctx context.Context, tx optionpl.Transaction, eval func(context.Context, any) (any, error)) (any, error) {
	data, err := json.Marshal(tx)
	if err != nil {
		return nil, err
	}
	var doc any
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, err
	}
	value, err := eval(ctx, doc)
	if err != nil {
		// jsonpath fails on a key the transaction does not carry, so the
		// path selects nothing there.
		return nil, nil
	}
	if values, ok := value.([]any); ok {
		if len(values) == 0 {
			return nil, nil
		}
		if len(values) == 1 {
			return values[0], nil
		}
	}
	return value, nil
}
