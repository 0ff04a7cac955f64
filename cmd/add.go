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
	"github.com/shopspring/decimal"
)

// addCmd adds an asset of a given kind.
type addCmd struct {
	kind wealth.Kind

	// common
	name, currency, country, notes, purchaseDate string

	// variant specific
	symbol   string // ticker, crypto symbol or metal
	exchange string
	sector   string
	etf      bool
	unit     string
	quantity string
	price    string
	amount   string // amount or estimated value
	issuer   string // issuer, bank, company, institution or address
	detail   string // stage or property type
	rate     float64
	maturity string
}

func newAddCmd(k wealth.Kind) *addCmd { return &addCmd{kind: k} }

// addNames maps kinds to their command suffix.
var addNames = map[wealth.Kind]string{
	wealth.KindStock:             "stock",
	wealth.KindCrypto:            "crypto",
	wealth.KindPreciousMetal:     "metal",
	wealth.KindBond:              "bond",
	wealth.KindDeposit:           "deposit",
	wealth.KindCash:              "cash",
	wealth.KindPrivateInvestment: "private",
	wealth.KindRealEstate:        "realestate",
}

func (c *addCmd) Name() string { return "add-" + addNames[c.kind] }
func (c *addCmd) Synopsis() string {
	return fmt.Sprintf("add a %s asset", addNames[c.kind])
}
func (c *addCmd) Usage() string {
	return fmt.Sprintf(`wlt %s -name <name> -currency <currency> [options]

  Adds a new %s asset to the book. The asset starts without transactions,
  its purchase fields are used as its initial purchase until a buy or a sell
  is recorded.

`, c.Name(), addNames[c.kind])
}

func (c *addCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.name, "name", "", "Name of the asset")
	f.StringVar(&c.currency, "currency", "", "Currency of the asset, 3-letter code (required)")
	f.StringVar(&c.country, "country", "", "Country code, used for the geographic exposure")
	f.StringVar(&c.notes, "notes", "", "Free notes")
	f.StringVar(&c.purchaseDate, "date", "", "Purchase date, creation day by default")

	switch c.kind {
	case wealth.KindStock:
		f.StringVar(&c.symbol, "ticker", "", "Ticker symbol, as known by the market data provider (required)")
		f.StringVar(&c.exchange, "exchange", "", "Exchange")
		f.StringVar(&c.sector, "sector", "", "Sector, used for the sector exposure")
		f.BoolVar(&c.etf, "etf", false, "The security is an ETF")
		f.StringVar(&c.quantity, "q", "", "Quantity held")
		f.StringVar(&c.price, "p", "", "Purchase price per unit")
	case wealth.KindCrypto:
		f.StringVar(&c.symbol, "symbol", "", "Symbol, as known by the market data provider, e.g. BTC-USD (required)")
		f.StringVar(&c.quantity, "q", "", "Quantity held")
		f.StringVar(&c.price, "p", "", "Purchase price per unit")
	case wealth.KindPreciousMetal:
		f.StringVar(&c.symbol, "metal", "gold", "Metal: gold, silver, platinum or palladium")
		f.BoolVar(&c.etf, "etf", false, "Held through an ETF rather than physically")
		f.StringVar(&c.unit, "unit", "oz", "Unit of the quantity")
		f.StringVar(&c.quantity, "q", "", "Quantity held")
		f.StringVar(&c.price, "p", "", "Purchase price per unit")
	case wealth.KindBond:
		f.StringVar(&c.issuer, "issuer", "", "Issuer")
		f.Float64Var(&c.rate, "coupon", 0, "Coupon rate in percent")
		f.StringVar(&c.maturity, "maturity", "", "Maturity date")
		f.StringVar(&c.amount, "a", "", "Amount invested")
	case wealth.KindDeposit:
		f.StringVar(&c.issuer, "bank", "", "Bank")
		f.Float64Var(&c.rate, "rate", 0, "Interest rate in percent")
		f.StringVar(&c.maturity, "maturity", "", "Maturity date")
		f.StringVar(&c.amount, "a", "", "Amount deposited")
	case wealth.KindCash:
		f.StringVar(&c.issuer, "institution", "", "Institution holding the cash")
		f.StringVar(&c.amount, "a", "", "Balance")
	case wealth.KindPrivateInvestment:
		f.StringVar(&c.issuer, "company", "", "Company")
		f.StringVar(&c.detail, "stage", "", "Stage, e.g. seed or series A")
		f.StringVar(&c.amount, "a", "", "Amount invested")
	case wealth.KindRealEstate:
		f.StringVar(&c.issuer, "address", "", "Address")
		f.StringVar(&c.detail, "type", "", "Property type, e.g. apartment")
		f.StringVar(&c.amount, "value", "", "Estimated value")
	}
}

// parseDecimal parses s, empty is zero.
func parseDecimal(name, s string) (decimal.Decimal, error) {
	if s == "" {
		return decimal.Zero, nil
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, fmt.Errorf("invalid %s %q: %w", name, s, err)
	}
	return d, nil
}

// parseOptionalDate parses s, empty is the zero date.
func parseOptionalDate(name, s string) (date.Date, error) {
	if s == "" {
		return date.Date{}, nil
	}
	d, err := date.Parse(s)
	if err != nil {
		return date.Date{}, fmt.Errorf("invalid %s: %w", name, err)
	}
	return d, nil
}

// asset builds the asset from the flags.
func (c *addCmd) asset() (wealth.Asset, error) {
	cur := strings.ToUpper(c.currency)
	q, qerr := parseDecimal("quantity", c.quantity)
	p, perr := parseDecimal("price", c.price)
	amount, aerr := parseDecimal("amount", c.amount)
	on, derr := parseOptionalDate("purchase date", c.purchaseDate)
	maturity, merr := parseOptionalDate("maturity", c.maturity)
	if err := errors.Join(qerr, perr, aerr, derr, merr); err != nil {
		return nil, err
	}

	symbol := strings.ToUpper(c.symbol)
	name := c.name
	if name == "" {
		name = symbol
	}
	b := wealth.NewBase(name, cur)
	b.Country = strings.ToUpper(c.country)
	b.Notes = c.notes
	b.PurchaseDate = on

	switch c.kind {
	case wealth.KindStock:
		format := wealth.FormatStock
		if c.etf {
			format = wealth.FormatETF
		}
		return wealth.Stock{Base: b, Ticker: symbol, Exchange: c.exchange, Sector: c.sector, Format: format,
			Quantity: wealth.Q(q), PurchasePrice: wealth.M(p, cur)}, nil
	case wealth.KindCrypto:
		return wealth.Crypto{Base: b, Symbol: symbol, Quantity: wealth.Q(q), PurchasePrice: wealth.M(p, cur)}, nil
	case wealth.KindPreciousMetal:
		format := wealth.Physical
		if c.etf {
			format = wealth.MetalETF
		}
		return wealth.PreciousMetal{Base: b, Metal: strings.ToLower(c.symbol), Format: format, Unit: c.unit,
			Quantity: wealth.Q(q), PurchasePrice: wealth.M(p, cur)}, nil
	case wealth.KindBond:
		return wealth.Bond{Base: b, Issuer: c.issuer, CouponRate: wealth.Percent(c.rate), Maturity: maturity, Amount: wealth.M(amount, cur)}, nil
	case wealth.KindDeposit:
		return wealth.Deposit{Base: b, Bank: c.issuer, InterestRate: wealth.Percent(c.rate), Maturity: maturity, Amount: wealth.M(amount, cur)}, nil
	case wealth.KindCash:
		return wealth.Cash{Base: b, Institution: c.issuer, Amount: wealth.M(amount, cur)}, nil
	case wealth.KindPrivateInvestment:
		return wealth.PrivateInvestment{Base: b, Company: c.issuer, Stage: c.detail, Amount: wealth.M(amount, cur)}, nil
	case wealth.KindRealEstate:
		return wealth.RealEstate{Base: b, Address: c.issuer, PropertyType: c.detail, EstimatedValue: wealth.M(amount, cur)}, nil
	default:
		return nil, fmt.Errorf("unknown asset kind %q", c.kind)
	}
}

func (c *addCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if c.currency == "" {
		fmt.Fprintln(stderr, "Error: -currency is required.")
		return subcommands.ExitUsageError
	}
	a, err := c.asset()
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

	added, err := app.book.Add(ctx, a)
	if err != nil {
		fmt.Fprintf(stderr, "Error adding asset: %v\n", err)
		return subcommands.ExitFailure
	}
	fmt.Fprintf(stdout, "✅ Added %s %q with ID %s\n", addNames[added.Kind()], added.Common().Name, added.Common().ID)
	return subcommands.ExitSuccess
}
