package cmd

import (
	"context"
	"flag"
	"fmt"
	"strings"

	"github.com/etnz/wealth"
	"github.com/google/subcommands"
)

// editCmd changes the descriptive fields of an asset.
type editCmd struct {
	asset   string
	name    string
	country string
	notes   string
	value   string
}

func (*editCmd) Name() string     { return "edit" }
func (*editCmd) Synopsis() string { return "edit an asset" }
func (*editCmd) Usage() string {
	return `wlt edit -a <asset> [-name <name>] [-country <code>] [-notes <notes>] [-value <value>]

  Edits an asset identified by its ID, name or market symbol. Only the flags
  that are set are changed.

  -value updates the estimated value of a real estate or the balance of a cash
  asset.

`
}

func (c *editCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.asset, "a", "", "Asset ID, name or market symbol (required)")
	f.StringVar(&c.name, "name", "", "New name")
	f.StringVar(&c.country, "country", "", "New country code")
	f.StringVar(&c.notes, "notes", "", "New notes")
	f.StringVar(&c.value, "value", "", "New estimated value or balance")
}

// apply returns a with the flags applied.
func (c *editCmd) apply(a wealth.Asset) (wealth.Asset, error) {
	a = wealth.WithBase(a, func(b *wealth.Base) {
		if c.name != "" {
			b.Name = c.name
		}
		if c.country != "" {
			b.Country = strings.ToUpper(c.country)
		}
		if c.notes != "" {
			b.Notes = c.notes
		}
	})
	if c.value == "" {
		return a, nil
	}
	v, err := parseDecimal("value", c.value)
	if err != nil {
		return nil, err
	}
	value := wealth.M(v, a.Common().Currency)
	switch x := a.(type) {
	case wealth.RealEstate:
		x.EstimatedValue = value
		return x, nil
	case wealth.Cash:
		x.Amount = value
		return x, nil
	default:
		return nil, fmt.Errorf("-value does not apply to %s, record a transaction instead", strings.ToLower(a.Kind().Label()))
	}
}

func (c *editCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if c.asset == "" {
		fmt.Fprintln(stderr, "Error: -a is required.")
		return subcommands.ExitUsageError
	}
	app, err := openApp(ctx)
	if err != nil {
		fmt.Fprintf(stderr, "Error opening asset book: %v\n", err)
		return subcommands.ExitFailure
	}
	defer app.Close()

	a, err := app.findAsset(ctx, c.asset)
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	if a, err = c.apply(a); err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return subcommands.ExitUsageError
	}
	if _, err := app.book.Update(ctx, a); err != nil {
		fmt.Fprintf(stderr, "Error updating asset: %v\n", err)
		return subcommands.ExitFailure
	}
	fmt.Fprintf(stdout, "✅ Updated %q\n", a.Common().Name)
	return subcommands.ExitSuccess
}

// rmCmd removes an asset and its transactions.
type rmCmd struct {
	asset string
}

func (*rmCmd) Name() string     { return "rm" }
func (*rmCmd) Synopsis() string { return "remove an asset" }
func (*rmCmd) Usage() string {
	return `wlt rm -a <asset>

  Removes an asset and all its transactions from the book.

`
}

func (c *rmCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.asset, "a", "", "Asset ID, name or market symbol (required)")
}

func (c *rmCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if c.asset == "" {
		fmt.Fprintln(stderr, "Error: -a is required.")
		return subcommands.ExitUsageError
	}
	app, err := openApp(ctx)
	if err != nil {
		fmt.Fprintf(stderr, "Error opening asset book: %v\n", err)
		return subcommands.ExitFailure
	}
	defer app.Close()

	a, err := app.findAsset(ctx, c.asset)
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	if err := app.book.Remove(ctx, a.Common().ID); err != nil {
		fmt.Fprintf(stderr, "Error removing asset: %v\n", err)
		return subcommands.ExitFailure
	}
	fmt.Fprintf(stdout, "✅ Removed %q\n", a.Common().Name)
	return subcommands.ExitSuccess
}
