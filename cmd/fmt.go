package cmd

import (
	"context"
	"flag"
	"fmt"

	"github.com/google/subcommands"
)

type fmtCmd struct{}

func (*fmtCmd) Name() string { return "fmt" }
func (*fmtCmd) Synopsis() string {
	return "validates the asset book and rewrites it in canonical form"
}
func (*fmtCmd) Usage() string {
	return `wlt fmt

  Validates every asset of the book and writes it back in its canonical form.
  Nothing is written when an asset is invalid.

Usage Examples:
# Formats the default asset book.
$ wlt fmt

`
}

func (p *fmtCmd) SetFlags(f *flag.FlagSet) {}

func (p *fmtCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	app, err := openApp(ctx)
	if err != nil {
		fmt.Fprintf(stderr, "Error opening asset book: %v\n", err)
		return subcommands.ExitFailure
	}
	defer app.Close()

	n, err := app.book.Rewrite(ctx)
	if err != nil {
		fmt.Fprintf(stderr, "Error: invalid asset book:\n%v\n", err)
		return subcommands.ExitFailure
	}
	fmt.Fprintf(stderr, "✅ Successfully formatted %d assets.\n", n)
	return subcommands.ExitSuccess
}
