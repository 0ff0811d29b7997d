// Command opl records option and share trades in a ledger and reports their
// profit and loss.
package main

import (
	"context"
	"flag"
	"os"
	"path"
	"strings"

	"github.com/etnz/optionpl/cmd"
	"github.com/google/subcommands"
	"github.com/posener/complete/v2"
	"github.com/posener/complete/v2/predict"
)

func main() {
	commander := subcommands.NewCommander(flag.CommandLine, path.Base(os.Args[0]))
	cmd.Register(commander)

	// Serves shell completion when invoked by the shell, exits otherwise untouched.
	completion(commander).Complete("opl")

	flag.Parse()
	os.Exit(int(commander.Execute(context.Background())))
}

// completion describes the registered commands and their flags to the shell.
func completion(commander *subcommands.Commander) *complete.Command {
	root := &complete.Command{
		Sub:   map[string]*complete.Command{},
		Flags: predictors(flag.CommandLine),
	}
	commander.VisitCommands(func(_ *subcommands.CommandGroup, c subcommands.Command) {
		f := flag.NewFlagSet(c.Name(), flag.ContinueOnError)
		c.SetFlags(f)
		root.Sub[c.Name()] = &complete.Command{Flags: predictors(f)}
	})
	return root
}

// predictors guesses what each flag of f expects from its name and default.
func predictors(f *flag.FlagSet) map[string]complete.Predictor {
	flags := map[string]complete.Predictor{}
	f.VisitAll(func(fl *flag.Flag) {
		switch {
		case fl.Name == "ledger-file":
			flags[fl.Name] = predict.Files("*.jsonl")
		case fl.Name == "config":
			flags[fl.Name] = predict.Files("*.yaml")
		case fl.Name == "type":
			flags[fl.Name] = predict.Set{"call", "put"}
		case isBool(fl):
			flags[fl.Name] = predict.Nothing
		case strings.HasSuffix(fl.Usage, "(YYYY-MM-DD)"):
			flags[fl.Name] = predict.Set{fl.DefValue}
		default:
			flags[fl.Name] = predict.Something
		}
	})
	return flags
}

func isBool(fl *flag.Flag) bool {
	b, ok := fl.Value.(interface{ IsBoolFlag() bool })
	return ok && b.IsBoolFlag()
}
