package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/etnz/optionpl"
	"github.com/etnz/optionpl/date"
	"github.com/google/subcommands"
)

// appendTransaction appends a transaction to the specified ledger file.
func appendTransaction(filename string, tx optionpl.Transaction) subcommands.ExitStatus {
	// Open the file in append mode, creating it if it doesn't exist.
	f, err := os.OpenFile(filename, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error opening ledger file %q: %v\n", filename, err)
		return subcommands.ExitFailure
	}
	defer f.Close()

	if err := optionpl.EncodeTransaction(f, tx); err != nil {
		fmt.Fprintf(os.Stderr, "Error writing to ledger file %q: %v\n", filename, err)
		return subcommands.ExitFailure
	}

	fmt.Fprintf(os.Stderr, "Successfully appended transaction to %s\n", filename)
	return subcommands.ExitSuccess
}

// baseFlags are the flags every recording command shares.
type baseFlags struct {
	date   string
	id     string
	ticker string
	memo   string
}

func (c *baseFlags) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.date, "d", date.Today().String(), "Transaction date (YYYY-MM-DD)")
	f.StringVar(&c.id, "id", "", "An optional unique id for the transaction")
	f.StringVar(&c.ticker, "t", "", "Underlying ticker")
	f.StringVar(&c.memo, "m", "", "An optional rationale or note for the transaction")
}

// day validates the date flag.
func (c *baseFlags) day() (date.Date, bool) {
	day, err := date.Parse(c.date)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error parsing date: %v\n", err)
		return date.Date{}, false
	}
	return day, true
}

// seriesFlags identify an option series, either by id or by its terms.
type seriesFlags struct {
	optionID   string
	kind       string
	strike     float64
	expiration string
}

func (c *seriesFlags) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.optionID, "o", "", "Option series id; derived from -type, -k and -x when missing")
	f.StringVar(&c.kind, "type", "", "Option type, call or put")
	f.Float64Var(&c.strike, "k", 0, "Strike price")
	f.StringVar(&c.expiration, "x", "", "Expiration date (YYYY-MM-DD)")
}

// series returns the option id designated by the flags.
func (c *seriesFlags) series(ticker string) (string, error) {
	if c.optionID != "" {
		return c.optionID, nil
	}
	if c.kind == "" || c.strike <= 0 || c.expiration == "" {
		return "", fmt.Errorf("either -o or all of -type, -k and -x are required")
	}
	kind, err := optionpl.ParseOptionKind(c.kind)
	if err != nil {
		return "", err
	}
	expiration, err := date.Parse(c.expiration)
	if err != nil {
		return "", err
	}
	return optionpl.NewOptionID(ticker, kind, optionpl.M(c.strike), expiration), nil
}

// --- Buy Command ---

type buyCmd struct {
	baseFlags
	quantity   float64
	price      float64
	commission float64
}

func (*buyCmd) Name() string     { return "buy" }
func (*buyCmd) Synopsis() string { return "purchase shares to open or add to a position" }
func (*buyCmd) Usage() string {
	return `opl buy -t <ticker> -q <quantity> -p <price> [-c <commission>] [-d <date>] [-m <memo>]

  Purchases shares of an underlying. Covers a short share position first.
`
}

func (c *buyCmd) SetFlags(f *flag.FlagSet) {
	c.baseFlags.SetFlags(f)
	f.Float64Var(&c.quantity, "q", 0, "Number of shares")
	f.Float64Var(&c.price, "p", 0, "Price per share")
	f.Float64Var(&c.commission, "c", 0, "Commission paid for the trade")
}

func (c *buyCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if c.ticker == "" || c.quantity <= 0 || c.price <= 0 || c.commission < 0 {
		f.Usage()
		return subcommands.ExitUsageError
	}
	day, ok := c.day()
	if !ok {
		return subcommands.ExitUsageError
	}
	tx := optionpl.NewBuyShare(day, c.id, c.ticker, optionpl.Q(c.quantity), optionpl.M(c.price), optionpl.M(c.commission))
	tx.Memo = c.memo
	return appendTransaction(*ledgerFile, tx)
}

// --- Sell Command ---

type sellCmd struct {
	baseFlags
	quantity   float64
	price      float64
	commission float64
}

func (*sellCmd) Name() string     { return "sell" }
func (*sellCmd) Synopsis() string { return "sell shares to trim or close a position" }
func (*sellCmd) Usage() string {
	return `opl sell -t <ticker> -q <quantity> -p <price> [-c <commission>] [-d <date>] [-m <memo>]

  Sells shares of an underlying, realizing the gain against the average cost.
  Selling more than held opens a short share position.
`
}

func (c *sellCmd) SetFlags(f *flag.FlagSet) {
	c.baseFlags.SetFlags(f)
	f.Float64Var(&c.quantity, "q", 0, "Number of shares")
	f.Float64Var(&c.price, "p", 0, "Price per share")
	f.Float64Var(&c.commission, "c", 0, "Commission paid for the trade")
}

func (c *sellCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if c.ticker == "" || c.quantity <= 0 || c.price < 0 || c.commission < 0 {
		f.Usage()
		return subcommands.ExitUsageError
	}
	day, ok := c.day()
	if !ok {
		return subcommands.ExitUsageError
	}
	tx := optionpl.NewSellShare(day, c.id, c.ticker, optionpl.Q(c.quantity), optionpl.M(c.price), optionpl.M(c.commission))
	tx.Memo = c.memo
	return appendTransaction(*ledgerFile, tx)
}

// --- Open Command ---

type openCmd struct {
	baseFlags
	seriesFlags
	long       bool
	quantity   float64
	premium    float64
	commission float64
}

func (*openCmd) Name() string     { return "open" }
func (*openCmd) Synopsis() string { return "sell or buy to open option contracts" }
func (*openCmd) Usage() string {
	return `opl open -t <ticker> -type call|put -k <strike> -x <expiration> -q <contracts> -p <premium> [-long] [-o <id>] [-c <commission>] [-d <date>] [-m <memo>]

  Opens option contracts, short (sell to open) by default or long with -long.
  The premium is the price of one contract, 100 shares.
`
}

func (c *openCmd) SetFlags(f *flag.FlagSet) {
	c.baseFlags.SetFlags(f)
	c.seriesFlags.SetFlags(f)
	f.BoolVar(&c.long, "long", false, "Buy to open instead of selling to open")
	f.Float64Var(&c.quantity, "q", 0, "Number of contracts")
	f.Float64Var(&c.premium, "p", 0, "Premium per contract")
	f.Float64Var(&c.commission, "c", 0, "Commission paid for the trade")
}

func (c *openCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if c.ticker == "" || c.strike <= 0 || c.expiration == "" || c.quantity <= 0 || c.premium < 0 || c.commission < 0 {
		f.Usage()
		return subcommands.ExitUsageError
	}
	day, ok := c.day()
	if !ok {
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
	direction := optionpl.Short
	if c.long {
		direction = optionpl.Long
	}
	tx := optionpl.NewOpenOption(day, c.id, c.ticker, c.optionID, kind, direction, optionpl.M(c.strike), expiration,
		optionpl.Q(c.quantity), optionpl.M(c.premium), optionpl.M(c.commission))
	tx.Memo = c.memo
	return appendTransaction(*ledgerFile, tx)
}

// --- Close Command ---

type closeCmd struct {
	baseFlags
	seriesFlags
	quantity   float64
	premium    float64
	commission float64
}

func (*closeCmd) Name() string     { return "close" }
func (*closeCmd) Synopsis() string { return "buy or sell to close option contracts" }
func (*closeCmd) Usage() string {
	return `opl close -t <ticker> (-o <id> | -type call|put -k <strike> -x <expiration>) -q <contracts> -p <premium> [-c <commission>] [-d <date>] [-m <memo>]

  Closes contracts of an open series: buy to close a short series, sell to
  close a long one. The premium is the price of one contract.
`
}

func (c *closeCmd) SetFlags(f *flag.FlagSet) {
	c.baseFlags.SetFlags(f)
	c.seriesFlags.SetFlags(f)
	f.Float64Var(&c.quantity, "q", 0, "Number of contracts")
	f.Float64Var(&c.premium, "p", 0, "Premium per contract")
	f.Float64Var(&c.commission, "c", 0, "Commission paid for the trade")
}

func (c *closeCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if c.ticker == "" || c.quantity <= 0 || c.premium < 0 || c.commission < 0 {
		f.Usage()
		return subcommands.ExitUsageError
	}
	day, ok := c.day()
	if !ok {
		return subcommands.ExitUsageError
	}
	series, err := c.series(c.ticker)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error identifying option series: %v\n", err)
		return subcommands.ExitUsageError
	}
	tx := optionpl.NewCloseOption(day, c.id, c.ticker, series, optionpl.Q(c.quantity), optionpl.M(c.premium), optionpl.M(c.commission))
	tx.Memo = c.memo
	return appendTransaction(*ledgerFile, tx)
}

// --- Expire Command ---

type expireCmd struct {
	baseFlags
	seriesFlags
	quantity float64
}

func (*expireCmd) Name() string     { return "expire" }
func (*expireCmd) Synopsis() string { return "record option contracts expiring worthless" }
func (*expireCmd) Usage() string {
	return `opl expire -t <ticker> (-o <id> | -type call|put -k <strike> -x <expiration>) -q <contracts> [-d <date>] [-m <memo>]

  Expires contracts of an open series, realizing the remaining premium.
`
}

func (c *expireCmd) SetFlags(f *flag.FlagSet) {
	c.baseFlags.SetFlags(f)
	c.seriesFlags.SetFlags(f)
	f.Float64Var(&c.quantity, "q", 0, "Number of contracts")
}

func (c *expireCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if c.ticker == "" || c.quantity <= 0 {
		f.Usage()
		return subcommands.ExitUsageError
	}
	day, ok := c.day()
	if !ok {
		return subcommands.ExitUsageError
	}
	series, err := c.series(c.ticker)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error identifying option series: %v\n", err)
		return subcommands.ExitUsageError
	}
	tx := optionpl.NewExpireOption(day, c.id, c.ticker, series, optionpl.Q(c.quantity))
	tx.Memo = c.memo
	return appendTransaction(*ledgerFile, tx)
}

// --- Assign Command ---

type assignCmd struct {
	baseFlags
	seriesFlags
	quantity   float64
	price      float64
	commission float64
}

func (*assignCmd) Name() string     { return "assign" }
func (*assignCmd) Synopsis() string { return "record the assignment or exercise of option contracts" }
func (*assignCmd) Usage() string {
	return `opl assign -t <ticker> (-o <id> | -type call|put -k <strike> -x <expiration>) -q <contracts> [-p <strike>] [-c <commission>] [-d <date>] [-m <memo>]

  Closes contracts of an open series and trades 100 shares per contract at
  the strike: short puts and long calls buy shares, short calls and long puts
  sell them.
`
}

func (c *assignCmd) SetFlags(f *flag.FlagSet) {
	c.baseFlags.SetFlags(f)
	c.seriesFlags.SetFlags(f)
	f.Float64Var(&c.quantity, "q", 0, "Number of contracts")
	f.Float64Var(&c.price, "p", 0, "Settlement price per share, the series strike by default")
	f.Float64Var(&c.commission, "c", 0, "Commission charged on the share trade")
}

func (c *assignCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if c.ticker == "" || c.quantity <= 0 || c.price < 0 || c.commission < 0 {
		f.Usage()
		return subcommands.ExitUsageError
	}
	day, ok := c.day()
	if !ok {
		return subcommands.ExitUsageError
	}
	series, err := c.series(c.ticker)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error identifying option series: %v\n", err)
		return subcommands.ExitUsageError
	}
	tx := optionpl.NewAssignOrExercise(day, c.id, c.ticker, series, optionpl.Q(c.quantity), optionpl.M(c.price), optionpl.M(c.commission))
	tx.Memo = c.memo
	return appendTransaction(*ledgerFile, tx)
}
