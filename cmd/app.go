// Package cmd implements the opl command line application.
package cmd

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/glamour"
	"github.com/etnz/optionpl"
	"github.com/etnz/optionpl/renderer"
	"github.com/google/subcommands"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Register the subcommands.
// A main package will call Register() to allow subcommands, and Execute() on the user-selected one.
func Register(c *subcommands.Commander) {
	c.Register(c.HelpCommand(), "")
	c.Register(c.FlagsCommand(), "")
	c.Register(c.CommandsCommand(), "")
	c.Register(&topicCmd{}, "")

	c.Register(&buyCmd{}, "transactions")
	c.Register(&sellCmd{}, "transactions")
	c.Register(&openCmd{}, "transactions")
	c.Register(&closeCmd{}, "transactions")
	c.Register(&expireCmd{}, "transactions")
	c.Register(&assignCmd{}, "transactions")
	c.Register(&fmtCmd{}, "transactions")

	c.Register(&positionsCmd{}, "reports")
	c.Register(&pnlCmd{}, "reports")
	c.Register(&curveCmd{}, "reports")
	c.Register(&priceCmd{}, "reports")
	c.Register(&txCmd{}, "reports")
	c.Register(&issuesCmd{}, "reports")
}

// as a CLI application, it has a very short lived lifecycle, so it is ok to use global variables.

var (
	ledgerFile = flag.String("ledger-file", "transactions.jsonl", "Path to the ledger file containing transactions (JSONL format)")
	configFile = flag.String("config", "", "Path to a YAML valuation file")
	verbose    = flag.Bool("v", false, "Log replay issues and pricing failures to stderr")
)

// newLogger returns the application logger. Replay issues and pricing
// failures are warnings, only shown with -v.
func newLogger() *zap.Logger {
	level := zapcore.ErrorLevel
	if *verbose {
		level = zapcore.DebugLevel
	}
	zc := zap.Config{
		Level:             zap.NewAtomicLevelAt(level),
		Encoding:          "console",
		DisableCaller:     true,
		DisableStacktrace: true,
		EncoderConfig:     zap.NewDevelopmentEncoderConfig(),
		OutputPaths:       []string{"stderr"},
		ErrorOutputPaths:  []string{"stderr"},
	}
	log, err := zc.Build()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error creating logger: %v\n", err)
		return zap.NewNop()
	}
	return log
}

// DecodeLedger loads the application ledger. A missing file is an empty ledger.
func DecodeLedger() (*optionpl.Ledger, error) {
	ledger, err := optionpl.LoadLedger(*ledgerFile)
	if errors.Is(err, os.ErrNotExist) {
		return optionpl.NewLedger(), nil
	}
	return ledger, err
}

// replay loads and replays the application ledger.
func replay() (*optionpl.State, error) {
	ledger, err := DecodeLedger()
	if err != nil {
		return nil, err
	}
	log := newLogger()
	defer log.Sync()
	return ledger.Replay(optionpl.WithLogger(log)), nil
}

// rendererOptions returns the report options of the valuation config.
func rendererOptions() (renderer.Options, error) {
	v, err := loadValuation(*configFile)
	if err != nil {
		return renderer.Options{}, err
	}
	return renderer.Options{Currency: v.Currency}, nil
}

// stdout receives the reports.
var stdout io.Writer = os.Stdout

// printMarkdown renders markdown for the terminal, or prints it raw if it cannot.
func printMarkdown(md string) {
	r, err := glamour.NewTermRenderer(glamour.WithAutoStyle(), glamour.WithWordWrap(120))
	if err != nil {
		fmt.Fprint(stdout, md)
		return
	}
	out, err := r.Render(md)
	if err != nil {
		fmt.Fprint(stdout, md)
		return
	}
	fmt.Fprint(stdout, out)
}
