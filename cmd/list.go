package cmd

import (
	"context"
	"flag"
	"fmt"

	"github.com/etnz/wealth"
	"github.com/etnz/wealth/market"
	"github.com/etnz/wealth/renderer"
	"github.com/google/subcommands"
)

// listCmd lists every asset of the book.
type listCmd struct {
	kind string
}

func (*listCmd) Name() string     { return "list" }
func (*listCmd) Synopsis() string { return "list the assets of the book" }
func (*listCmd) Usage() string {
	return `wlt list [-k <kind>]

  Lists every asset of the book, held or sold, with its ID. The ID, the name or
  the market symbol identifies an asset in other commands.
`
}

func (c *listCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.kind, "k", "", "List only the assets of this kind (stock, crypto, precious_metal, bond, deposit, cash, private_investment, real_estate)")
}

func (c *listCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	var kind wealth.Kind
	if c.kind != "" {
		k, err := wealth.ParseKind(c.kind)
		if err != nil {
			fmt.Fprintf(stderr, "Error: %v\n", err)
			return subcommands.ExitUsageError
		}
		kind = k
	}

	app, err := openApp(ctx)
	if err != nil {
		fmt.Fprintf(stderr, "Error opening asset book: %v\n", err)
		return subcommands.ExitFailure
	}
	defer app.Close()

	assets, err := app.book.Assets(ctx)
	if err != nil {
		fmt.Fprintf(stderr, "Error loading assets: %v\n", err)
		return subcommands.ExitFailure
	}
	if kind != "" {
		var kept []wealth.Asset
		for _, a := range assets {
			if a.Kind() == kind {
				kept = append(kept, a)
			}
		}
		assets = kept
	}
	printMarkdown(renderer.AssetsMarkdown(assets))
	return subcommands.ExitSuccess
}

// pricesCmd fetches the latest market prices of the held assets.
type pricesCmd struct{}

func (*pricesCmd) Name() string     { return "prices" }
func (*pricesCmd) Synopsis() string { return "fetch the latest market prices" }
func (*pricesCmd) Usage() string {
	return `wlt prices

  Fetches the latest market price of every held stock, crypto and precious
  metal. Symbols without a price are listed as missing.
`
}

func (c *pricesCmd) SetFlags(f *flag.FlagSet) {}

func (c *pricesCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	app, err := openApp(ctx)
	if err != nil {
		fmt.Fprintf(stderr, "Error opening asset book: %v\n", err)
		return subcommands.ExitFailure
	}
	defer app.Close()

	assets, err := app.book.Assets(ctx)
	if err != nil {
		fmt.Fprintf(stderr, "Error loading assets: %v\n", err)
		return subcommands.ExitFailure
	}
	prices := app.prices(ctx, assets)
	printMarkdown(renderer.PricesMarkdown(market.Symbols(assets), prices))
	return subcommands.ExitSuccess
}
