package cmd

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"strings"

	"github.com/etnz/wealth"
	"github.com/etnz/wealth/date"
	"github.com/google/subcommands"
)

// tradeCmd records a buy or a sell on an asset.
type tradeCmd struct {
	txType   wealth.TxType
	asset    string
	date     string
	amount   string
	currency string
	quantity string
	price    string
	note     string
}

func (c *tradeCmd) Name() string { return string(c.txType) }
func (c *tradeCmd) Synopsis() string {
	return fmt.Sprintf("record a %s transaction on an asset", c.txType)
}
func (c *tradeCmd) Usage() string {
	return fmt.Sprintf(`wlt %s -a <asset> [-d <date>] [-amount <amount>] [-q <quantity>] [-p <price>] [-m <note>]

  Records a %[1]s on an asset, identified by its ID, name or market symbol.

  For quantity based assets (stocks, crypto, precious metals) the amount
  defaults to quantity times price. Other assets need an amount.

  Assets without transactions get their initial purchase recorded first.

`, c.txType)
}

func (c *tradeCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.asset, "a", "", "Asset ID, name or market symbol (required)")
	f.StringVar(&c.date, "d", date.Today().String(), "Transaction date")
	f.StringVar(&c.amount, "amount", "", "Total amount of the transaction, in the asset currency")
	f.StringVar(&c.currency, "currency", "", "Currency of the amount, checked against the asset currency")
	f.StringVar(&c.quantity, "q", "", "Quantity traded")
	f.StringVar(&c.price, "p", "", "Price per unit")
	f.StringVar(&c.note, "m", "", "Note")
}

// transaction builds the transaction from the flags.
func (c *tradeCmd) transaction() (wealth.Transaction, error) {
	on, derr := date.Parse(c.date)
	amount, aerr := parseDecimal("amount", c.amount)
	q, qerr := parseDecimal("quantity", c.quantity)
	p, perr := parseDecimal("price", c.price)
	if err := errors.Join(derr, aerr, qerr, perr); err != nil {
		return wealth.Transaction{}, err
	}
	if c.amount == "" {
		amount = q.Mul(p)
	}
	cur := strings.ToUpper(c.currency)
	tx := wealth.Transaction{
		Type:         c.txType,
		Date:         on,
		Amount:       wealth.M(amount, cur),
		Quantity:     wealth.Q(q),
		PricePerUnit: wealth.M(p, cur),
		Note:         c.note,
	}
	return tx, nil
}

func (c *tradeCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if c.asset == "" {
		fmt.Fprintln(stderr, "Error: -a is required.")
		return subcommands.ExitUsageError
	}
	tx, err := c.transaction()
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
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
	a, err = app.book.AddTransaction(ctx, a.Common().ID, tx)
	if err != nil {
		fmt.Fprintf(stderr, "Error recording %s: %v\n", c.txType, err)
		return subcommands.ExitFailure
	}

	l := wealth.Reconcile(a)
	if wealth.IsQuantityBased(a) {
		fmt.Fprintf(stdout, "✅ Recorded %s on %q, holding %v units\n", c.txType, a.Common().Name, l.NetQuantity())
	} else {
		fmt.Fprintf(stdout, "✅ Recorded %s on %q, net amount %v\n", c.txType, a.Common().Name, l.NetAmount())
	}
	return subcommands.ExitSuccess
}
