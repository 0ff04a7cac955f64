package cmd

import (
	"context"
	"flag"
	"fmt"

	"github.com/etnz/wealth"
	"github.com/etnz/wealth/date"
	"github.com/etnz/wealth/renderer"
	"github.com/google/subcommands"
)

type txCmd struct {
	asset  string
	period string
	start  string
	date   string
	head   int
	tail   int
}

func (*txCmd) Name() string     { return "tx" }
func (*txCmd) Synopsis() string { return "list the transactions of an asset" }
func (*txCmd) Usage() string {
	return `wlt tx -a <asset> [-p <period> | -s <start_date>] [-d <end_date>] [-head <n>] [-tail <n>]

  Lists the transactions of an asset, newest first, with options for filtering
  and limiting the output. An asset without recorded transactions shows its
  initial purchase.
`
}

func (p *txCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&p.asset, "a", "", "Asset ID, name or market symbol (required)")
	f.StringVar(&p.period, "p", "", "Predefined period (day, week, month, quarter, year).")
	f.StringVar(&p.start, "s", "", "The start date for a custom range. Overrides -p.")
	f.StringVar(&p.date, "d", "", "The end date for the range.")
	f.IntVar(&p.head, "head", 0, "Show only the first N transactions.")
	f.IntVar(&p.tail, "tail", 0, "Show only the last N transactions.")
}

// dateRange returns the range to filter on, ok is false when no filter is set.
func (p *txCmd) dateRange() (r date.Range, ok bool, err error) {
	if p.start == "" && p.date == "" && p.period == "" {
		return r, false, nil
	}
	end := date.Today()
	if p.date != "" {
		if end, err = date.Parse(p.date); err != nil {
			return r, false, fmt.Errorf("invalid end date: %w", err)
		}
	}
	switch {
	case p.start != "":
		start, err := date.Parse(p.start)
		if err != nil {
			return r, false, fmt.Errorf("invalid start date: %w", err)
		}
		return date.Range{From: start, To: end}, true, nil
	case p.period != "":
		period, err := date.ParsePeriod(p.period)
		if err != nil {
			return r, false, err
		}
		return date.ToDate(end, period), true, nil
	default:
		return date.Range{To: end}, true, nil
	}
}

// filter returns the transactions within the flags' range and limits.
func (p *txCmd) filter(all []wealth.Transaction) ([]wealth.Transaction, error) {
	r, ok, err := p.dateRange()
	if err != nil {
		return nil, err
	}
	var txs []wealth.Transaction
	for _, tx := range all {
		if !ok || r.Contains(tx.Date) {
			txs = append(txs, tx)
		}
	}
	if p.head > 0 && len(txs) > p.head {
		txs = txs[:p.head]
	}
	if p.tail > 0 && len(txs) > p.tail {
		txs = txs[len(txs)-p.tail:]
	}
	return txs, nil
}

func (p *txCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if p.asset == "" {
		fmt.Fprintln(stderr, "Error: -a is required.")
		return subcommands.ExitUsageError
	}
	if p.head > 0 && p.tail > 0 {
		fmt.Fprintln(stderr, "Error: -head and -tail flags cannot be used together.")
		return subcommands.ExitUsageError
	}

	app, err := openApp(ctx)
	if err != nil {
		fmt.Fprintf(stderr, "Error opening asset book: %v\n", err)
		return subcommands.ExitFailure
	}
	defer app.Close()

	a, err := app.findAsset(ctx, p.asset)
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	txs, err := p.filter(wealth.Transactions(a))
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return subcommands.ExitUsageError
	}

	printMarkdown(renderer.RenderTransactions(renderer.NewTransactions(a, txs)))
	return subcommands.ExitSuccess
}
