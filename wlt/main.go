// Command wlt tracks a personal wealth: assets, transactions, valuation and diversification.
package main

import (
	"context"
	"flag"
	"os"
	"path"

	"github.com/etnz/wealth"
	"github.com/etnz/wealth/cmd"
	"github.com/etnz/wealth/date"
	"github.com/google/subcommands"
	"github.com/posener/complete/v2"
	"github.com/posener/complete/v2/predict"
)

func main() {
	commander := subcommands.NewCommander(flag.CommandLine, path.Base(os.Args[0]))
	commander.Register(commander.HelpCommand(), "")
	commander.Register(commander.FlagsCommand(), "")
	commander.Register(commander.CommandsCommand(), "")
	cmd.Register(commander)

	// Shell completion, a no-op unless invoked by the shell.
	completion(commander).Complete("wlt")

	flag.Parse()
	if sub := flag.Arg(0); sub != "" && !registered(commander, sub) {
		if found, code := cmd.RunExtension(sub, flag.Args()[1:]); found {
			os.Exit(code)
		}
	}
	os.Exit(int(commander.Execute(context.Background())))
}

// registered reports whether name is a registered subcommand.
func registered(c *subcommands.Commander, name string) (found bool) {
	c.VisitCommands(func(_ *subcommands.CommandGroup, sub subcommands.Command) {
		if sub.Name() == name {
			found = true
		}
	})
	return found
}

// completion describes the commands and their flags for shell completion.
func completion(c *subcommands.Commander) *complete.Command {
	root := &complete.Command{
		Sub:   make(map[string]*complete.Command),
		Flags: flags(flag.CommandLine),
	}
	c.VisitCommands(func(_ *subcommands.CommandGroup, sub subcommands.Command) {
		fs := flag.NewFlagSet(sub.Name(), flag.ContinueOnError)
		sub.SetFlags(fs)
		root.Sub[sub.Name()] = &complete.Command{Flags: flags(fs)}
	})
	return root
}

func flags(fs *flag.FlagSet) map[string]complete.Predictor {
	m := make(map[string]complete.Predictor)
	fs.VisitAll(func(f *flag.Flag) {
		switch {
		case f.Name == "config" || f.Name == "data-file":
			m[f.Name] = predict.Files("*")
		case f.Name == "backend":
			m[f.Name] = predict.Set{"file", "sqlite"}
		case f.Name == "k":
			var kinds predict.Set
			for _, k := range wealth.Kinds {
				kinds = append(kinds, string(k))
			}
			m[f.Name] = kinds
		case f.Name == "p" && fs.Name() == "tx":
			m[f.Name] = predict.Set(date.PeriodNames())
		default:
			if b, ok := f.Value.(interface{ IsBoolFlag() bool }); ok && b.IsBoolFlag() {
				m[f.Name] = predict.Nothing
				return
			}
			m[f.Name] = predict.Something
		}
	})
	return m
}
