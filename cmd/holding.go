package cmd

import (
	"context"
	"flag"
	"fmt"

	"github.com/google/subcommands"
)

// holdingCmd lists the held assets with their current value.
type holdingCmd struct{}

func (*holdingCmd) Name() string     { return "holding" }
func (*holdingCmd) Synopsis() string { return "display the held assets and their value" }
func (*holdingCmd) Usage() string {
	return `wlt holding [-currency <currency>]

  Displays every held asset with its quantity, price and value. Stocks, crypto
  and precious metals are valued at their latest market price when available,
  at cost basis otherwise. Values are converted into the display currency.
`
}

func (c *holdingCmd) SetFlags(f *flag.FlagSet) {}

func (c *holdingCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	app, err := openApp(ctx)
	if err != nil {
		fmt.Fprintf(stderr, "Error opening asset book: %v\n", err)
		return subcommands.ExitFailure
	}
	defer app.Close()

	md, err := reports{app}.Holdings(ctx)
	if err != nil {
		fmt.Fprintf(stderr, "Error creating holding report: %v\n", err)
		return subcommands.ExitFailure
	}
	printMarkdown(md)
	return subcommands.ExitSuccess
}

// analysisCmd displays the exposure breakdowns and the health score.
type analysisCmd struct{}

func (*analysisCmd) Name() string     { return "analysis" }
func (*analysisCmd) Synopsis() string { return "analyze the diversification of the held assets" }
func (*analysisCmd) Usage() string {
	return `wlt analysis [-currency <currency>]

  Breaks the held assets down by asset class, geography, currency and sector,
  scores their diversification and liquidity, and derives a health score and
  a risk level.
`
}

func (c *analysisCmd) SetFlags(f *flag.FlagSet) {}

func (c *analysisCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	app, err := openApp(ctx)
	if err != nil {
		fmt.Fprintf(stderr, "Error opening asset book: %v\n", err)
		return subcommands.ExitFailure
	}
	defer app.Close()

	md, err := reports{app}.Analysis(ctx)
	if err != nil {
		fmt.Fprintf(stderr, "Error analyzing assets: %v\n", err)
		return subcommands.ExitFailure
	}
	printMarkdown(md)
	return subcommands.ExitSuccess
}
