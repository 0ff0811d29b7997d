package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/etnz/optionpl"
	"github.com/etnz/optionpl/curve"
	"github.com/etnz/optionpl/date"
	"github.com/etnz/optionpl/pricing"
	"github.com/etnz/optionpl/renderer"
	"github.com/google/subcommands"
)

// --- Curve Command ---

type curveCmd struct {
	valuationFlags
	ticker string
}

func (*curveCmd) Name() string     { return "curve" }
func (*curveCmd) Synopsis() string { return "project the P/L of open positions over a price range" }
func (*curveCmd) Usage() string {
	return `opl curve [-t <ticker>] [-low <price> -high <price>] [-steps <n>] [-volatility <v>] [-rate <r>] [-asof <date>] [-bench-qty <n> -bench-cost <price>]

  Replays the ledger and computes, for each underlying price of the range:
  the theoretical P/L (Black-Scholes as of -asof), the P/L at expiration and,
  with a benchmark holding, the P/L of simply holding shares. Reports the
  breakevens at expiration and the prices where the expiration curve crosses
  the benchmark.

  Without -low and -high, the range spans 50% to 150% of the average share
  cost, or of the average strike when no share is held.
`
}

func (c *curveCmd) SetFlags(f *flag.FlagSet) {
	c.valuationFlags.SetFlags(f)
	f.StringVar(&c.ticker, "t", "", "Restrict the curves to one underlying")
}

func (c *curveCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	v, err := c.load(f)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		return subcommands.ExitUsageError
	}
	if err := v.validate(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitUsageError
	}
	ledger, err := DecodeLedger()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading ledger: %v\n", err)
		return subcommands.ExitFailure
	}

	log := newLogger()
	defer log.Sync()
	state := ledger.Replay(optionpl.WithLogger(log))
	pos := state.Positions
	title := "all positions"
	if c.ticker != "" {
		pos = pos.ForTicker(c.ticker)
		title = c.ticker
	}

	sweep := v.sweep(referencePrice(pos))
	if !sweep.Valid() {
		fmt.Fprintln(os.Stderr, "Error: no price range, use -low and -high")
		return subcommands.ExitUsageError
	}

	analysis, err := curve.NewGenerator(log).Analyze(pos, sweep, v.market(), v.Benchmark)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error computing curves: %v\n", err)
		return subcommands.ExitFailure
	}
	printMarkdown(renderer.Curve(title, analysis, renderer.Options{Currency: v.Currency}))
	return subcommands.ExitSuccess
}

// referencePrice centers the default sweep: the average share cost, or the
// average strike of the open series.
func referencePrice(pos optionpl.Positions) float64 {
	var quantity, cost float64
	for _, s := range pos.Shares {
		quantity += s.Quantity.Float()
		cost += s.CostBasis.Float()
	}
	if quantity > 0 {
		return cost / quantity
	}
	var strikes float64
	for _, o := range pos.Options {
		strikes += o.Strike.Float()
	}
	if len(pos.Options) == 0 {
		return 0
	}
	return strikes / float64(len(pos.Options))
}

// --- Price Command ---

type priceCmd struct {
	underlying float64
	strike     float64
	expiration string
	asOf       string
	volatility float64
	rate       float64
	kind       string
}

func (*priceCmd) Name() string     { return "price" }
func (*priceCmd) Synopsis() string { return "compute the Black-Scholes price of an option" }
func (*priceCmd) Usage() string {
	return `opl price -u <underlying> -k <strike> -x <expiration> [-type call|put] [-volatility <v>] [-rate <r>] [-asof <date>]

  Prices a European option with Black-Scholes, per share and per contract.
  An option expired on the valuation date is worth its intrinsic value.
`
}

func (c *priceCmd) SetFlags(f *flag.FlagSet) {
	f.Float64Var(&c.underlying, "u", 0, "Underlying price")
	f.Float64Var(&c.strike, "k", 0, "Strike price")
	f.StringVar(&c.expiration, "x", "", "Expiration date (YYYY-MM-DD)")
	f.StringVar(&c.asOf, "asof", date.Today().String(), "Valuation date (YYYY-MM-DD)")
	f.Float64Var(&c.volatility, "volatility", 0.3, "Implied volatility, as a decimal")
	f.Float64Var(&c.rate, "rate", 0, "Risk-free rate, as a decimal")
	f.StringVar(&c.kind, "type", "call", "Option type, call or put")
}

func (c *priceCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if c.underlying <= 0 || c.strike <= 0 || c.expiration == "" {
		f.Usage()
		return subcommands.ExitUsageError
	}
	kind, err := optionpl.ParseOptionKind(c.kind)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error parsing option type: %v\n", err)
		return subcommands.ExitUsageError
	}
	expiration, err := date.Parse(c.expiration)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error parsing expiration: %v\n", err)
		return subcommands.ExitUsageError
	}
	asOf, err := date.Parse(c.asOf)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error parsing valuation date: %v\n", err)
		return subcommands.ExitUsageError
	}

	in := pricing.Inputs{
		Underlying: c.underlying,
		Strike:     c.strike,
		Rate:       c.rate,
		Years:      pricing.YearsToExpiration(asOf, expiration),
		Volatility: c.volatility,
		Call:       kind.IsCall(),
	}
	perShare, err := pricing.TheoreticalPricePerShare(in)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error pricing option: %v\n", err)
		return subcommands.ExitFailure
	}
	opts, err := rendererOptions()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		return subcommands.ExitFailure
	}
	printMarkdown(renderer.Quote(in, perShare, opts))
	return subcommands.ExitSuccess
}
